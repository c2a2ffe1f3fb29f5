// Package storefront is the application context: catalog, per-session cart/wishlist stores,
// checkout wizards, notifications and form forwarding.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-storefront/internal/catalog"
	"github.com/imrishuroy/go-storefront/internal/checkout"
	"github.com/imrishuroy/go-storefront/internal/config"
	"github.com/imrishuroy/go-storefront/internal/observability"
	"github.com/imrishuroy/go-storefront/internal/storage"
	"github.com/imrishuroy/go-storefront/internal/validation"
	"github.com/imrishuroy/go-storefront/internal/webhook"
)

var (
	ErrProductNotFound = errors.New("storefront: product not found")
	ErrValidation      = errors.New("storefront: validation failed")
)

// ValidationError carries per-field messages. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("storefront: validation failed (%d fields)", len(e.Fields))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Metric names.
const (
	MetricOrdersPlaced        = "OrdersPlaced"
	MetricWebhookFailures     = "WebhookFailures"
	MetricCatalogLoadFailures = "CatalogLoadFailures"
)

// CatalogLoader is satisfied by *catalog.Loader.
type CatalogLoader interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// Metrics is satisfied by *aws.MetricsRecorder.
type Metrics interface {
	Count(ctx context.Context, name string, n int) error
}

// Deps are the collaborators wired in main. Nil Storage means an in-memory backend; nil Sink
// disables webhooks; nil Metrics disables counters.
type Deps struct {
	Logger    *zap.Logger
	Loader    CatalogLoader
	Storage   storage.Backend
	Sink      webhook.Sink
	Metrics   Metrics
	Validator *validatorv10.Validate
}

type targets struct {
	order    webhook.Target
	returns  webhook.Target
	exchange webhook.Target
}

// App is shared by every request. Per-shopper state lives in Sessions.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	loader    CatalogLoader
	catalog   atomic.Pointer[catalog.Catalog]
	degraded  atomic.Bool
	storage   *storage.Adapter
	sink      webhook.Sink
	metrics   Metrics
	validate  *validatorv10.Validate
	sanitizer *bluemonday.Policy
	targets   targets

	mu       sync.Mutex
	sessions map[string]*Session

	nowFunc func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// New builds the App. The catalog starts as the fallback until LoadCatalog succeeds.
func New(cfg config.Config, deps Deps) *App {
	backend := deps.Storage
	if backend == nil {
		backend = storage.NewMemoryBackend()
	}
	v := deps.Validator
	if v == nil {
		v = validation.New()
	}
	logger := observability.OrNop(deps.Logger)

	a := &App{
		cfg:       cfg,
		logger:    logger,
		loader:    deps.Loader,
		storage:   storage.NewAdapter(backend, logger),
		sink:      deps.Sink,
		metrics:   deps.Metrics,
		validate:  v,
		sanitizer: bluemonday.StrictPolicy(),
		targets: targets{
			order:    webhook.Target{Name: "order", URL: cfg.Webhooks.OrderURL, Placeholder: config.OrderWebhookPlaceholder},
			returns:  webhook.Target{Name: "return", URL: cfg.Webhooks.ReturnURL, Placeholder: config.ReturnWebhookPlaceholder},
			exchange: webhook.Target{Name: "exchange", URL: cfg.Webhooks.ExchangeURL, Placeholder: config.ExchangeWebhookPlaceholder},
		},
		sessions: map[string]*Session{},
		nowFunc:  time.Now,
		sleep:    sleep,
	}
	a.catalog.Store(catalog.Fallback())
	return a
}

func (a *App) Config() config.Config { return a.cfg }

func (a *App) Validator() *validatorv10.Validate { return a.validate }

// Catalog returns the current catalog. It is never nil.
func (a *App) Catalog() *catalog.Catalog { return a.catalog.Load() }

// Find resolves a product against the current catalog.
func (a *App) Find(id string) (catalog.Product, bool) { return a.Catalog().Find(id) }

// LoadCatalog fetches the catalog and swaps it in. On failure the fallback catalog is served and
// sessions created afterwards start with an error notification.
func (a *App) LoadCatalog(ctx context.Context) error {
	if a.loader == nil {
		return errors.New("load catalog: no catalog source configured")
	}
	c, err := a.loader.Load(ctx)
	if c == nil {
		c = catalog.Fallback()
	}
	a.catalog.Store(c)
	if err != nil {
		a.degraded.Store(true)
		a.logger.Error("failed to load products", zap.Error(err))
		a.count(ctx, MetricCatalogLoadFailures)
		return fmt.Errorf("load catalog: %w", err)
	}
	a.degraded.Store(false)
	a.logger.Info("catalog loaded",
		zap.Int("products", c.Len()),
		zap.Int("categories", len(c.Categories())),
		zap.Int("skipped", c.Skipped()),
	)
	return nil
}

func (a *App) count(ctx context.Context, name string) {
	if a.metrics == nil {
		return
	}
	if err := a.metrics.Count(context.WithoutCancel(ctx), name, 1); err != nil {
		a.logger.Warn("metric publish failed", zap.String("metric", name), zap.Error(err))
	}
}

// deliver sends payload to target. Failures are logged and counted, never returned.
func (a *App) deliver(ctx context.Context, target webhook.Target, payload any) {
	if a.sink == nil {
		return
	}
	err := a.sink.Deliver(context.WithoutCancel(ctx), target, payload)
	switch {
	case err == nil:
		a.logger.Debug("webhook delivered", zap.String("target", target.Name))
	case errors.Is(err, webhook.ErrDisabled):
		a.logger.Debug("webhook not configured", zap.String("target", target.Name))
	default:
		a.logger.Warn("webhook delivery failed", zap.String("target", target.Name), zap.Error(err))
		a.count(ctx, MetricWebhookFailures)
	}
}

func (a *App) timestamp() string {
	return a.nowFunc().UTC().Format(checkout.TimestampLayout)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

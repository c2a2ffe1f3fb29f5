package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

// Placeholder webhook values shipped in the default configuration. A webhook whose URL still
// equals its placeholder is treated as not configured.
const (
	OrderWebhookPlaceholder    = "NEWORDER_URL"
	ReturnWebhookPlaceholder   = "RETURN_URL"
	ExchangeWebhookPlaceholder = "EXCHANGE_URL"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StorageDynamoDB = "dynamodb"
)

// ConfigPathEnv names the variable holding an optional YAML config file path.
const ConfigPathEnv = "STOREFRONT_CONFIG"

// Config is the static storefront configuration.
type Config struct {
	Server       ServerConfig   `yaml:"server"`
	Catalog      CatalogConfig  `yaml:"catalog"`
	Webhooks     WebhookConfig  `yaml:"webhooks"`
	APIEndpoints APIEndpoints   `yaml:"api_endpoints"`
	Settings     Settings       `yaml:"settings"`
	Storage      StorageConfig  `yaml:"storage"`
	Checkout     CheckoutConfig `yaml:"checkout"`
	Sessions     SessionConfig  `yaml:"sessions"`
	Metrics      MetricsConfig  `yaml:"metrics"`
}

type ServerConfig struct {
	Addr              string        `yaml:"addr" env:"LISTEN_ADDR"`
	RunLocal          bool          `yaml:"run_local" env:"RUN_LOCAL"`
	HTTPClientTimeout time.Duration `yaml:"http_client_timeout" env:"HTTP_CLIENT_TIMEOUT"`
}

type CatalogConfig struct {
	URL      string `yaml:"url" env:"CATALOG_URL"`
	Currency string `yaml:"currency" env:"CURRENCY"`
}

// WebhookConfig holds the three outbound webhook URLs and the delivery policy.
type WebhookConfig struct {
	OrderURL    string        `yaml:"order_url" env:"WEBHOOK_URL"`
	ReturnURL   string        `yaml:"return_url" env:"RETURN_WEBHOOK_URL"`
	ExchangeURL string        `yaml:"exchange_url" env:"EXCHANGE_WEBHOOK_URL"`
	MaxAttempts int           `yaml:"max_attempts" env:"WEBHOOK_MAX_ATTEMPTS"`
	Backoff     time.Duration `yaml:"backoff" env:"WEBHOOK_BACKOFF"`
	// RelayQueueURL routes deliveries through SQS and the relay worker when set.
	RelayQueueURL string `yaml:"relay_queue_url" env:"WEBHOOK_QUEUE_URL"`
}

// APIEndpoints are the form submission paths exposed by the HTTP API.
type APIEndpoints struct {
	Newsletter string `yaml:"newsletter" env:"NEWSLETTER_PATH"`
	Contact    string `yaml:"contact" env:"CONTACT_PATH"`
}

// Settings are the storefront feature flags.
type Settings struct {
	CartPersistence     bool `yaml:"cart_persistence" env:"CART_PERSISTENCE"`
	WishlistPersistence bool `yaml:"wishlist_persistence" env:"WISHLIST_PERSISTENCE"`
	AnimationsEnabled   bool `yaml:"animations_enabled" env:"ANIMATIONS_ENABLED"`
	LazyLoading         bool `yaml:"lazy_loading" env:"LAZY_LOADING"`
}

type StorageConfig struct {
	Backend string `yaml:"backend" env:"STORAGE_BACKEND"`
	Table   string `yaml:"table" env:"STORAGE_TABLE"`
}

// CheckoutConfig carries the artificial latencies of order placement and form submission.
type CheckoutConfig struct {
	OrderProcessingDelay time.Duration `yaml:"order_processing_delay" env:"ORDER_PROCESSING_DELAY"`
	FormSubmitDelay      time.Duration `yaml:"form_submit_delay" env:"FORM_SUBMIT_DELAY"`
}

type SessionConfig struct {
	TTL time.Duration `yaml:"ttl" env:"SESSION_TTL"`
	// MaxSessions caps the in-process registry; the least recently seen session is dropped first.
	MaxSessions int `yaml:"max_sessions" env:"SESSION_MAX"`
}

// MetricsConfig enables CloudWatch counters when Namespace is set.
type MetricsConfig struct {
	Namespace string `yaml:"namespace" env:"METRICS_NAMESPACE"`
	Stage     string `yaml:"stage" env:"STAGE"`
}

// Default returns the configuration used when neither a file nor the environment override a value.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			HTTPClientTimeout: 10 * time.Second,
		},
		Catalog: CatalogConfig{
			URL:      "http://localhost:8080/products.json",
			Currency: "EGP",
		},
		Webhooks: WebhookConfig{
			OrderURL:    OrderWebhookPlaceholder,
			ReturnURL:   ReturnWebhookPlaceholder,
			ExchangeURL: ExchangeWebhookPlaceholder,
			MaxAttempts: 1,
		},
		APIEndpoints: APIEndpoints{
			Newsletter: "/api/newsletter",
			Contact:    "/api/contact",
		},
		Settings: Settings{
			CartPersistence:     true,
			WishlistPersistence: true,
			AnimationsEnabled:   true,
			LazyLoading:         true,
		},
		Storage: StorageConfig{
			Backend: StorageMemory,
		},
		Checkout: CheckoutConfig{
			OrderProcessingDelay: 2 * time.Second,
			FormSubmitDelay:      time.Second,
		},
		Sessions: SessionConfig{
			TTL:         24 * time.Hour,
			MaxSessions: 10000,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path, and finally
// environment variables. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv is Load with the path taken from STOREFRONT_CONFIG.
func FromEnv() (Config, error) {
	return Load(strings.TrimSpace(os.Getenv(ConfigPathEnv)))
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if _, err := currency.ParseISO(c.Catalog.Currency); err != nil {
		errs = append(errs, fmt.Errorf("catalog.currency %q: %w", c.Catalog.Currency, err))
	}
	if strings.TrimSpace(c.Catalog.URL) == "" {
		errs = append(errs, errors.New("catalog.url is required"))
	}
	switch c.Storage.Backend {
	case StorageMemory:
	case StorageDynamoDB:
		if c.Storage.Table == "" {
			errs = append(errs, errors.New("storage.table is required for the dynamodb backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q is not supported", c.Storage.Backend))
	}
	if c.Webhooks.MaxAttempts < 1 {
		errs = append(errs, errors.New("webhooks.max_attempts must be at least 1"))
	}
	for name, path := range map[string]string{
		"api_endpoints.newsletter": c.APIEndpoints.Newsletter,
		"api_endpoints.contact":    c.APIEndpoints.Contact,
	} {
		if !strings.HasPrefix(path, "/") {
			errs = append(errs, fmt.Errorf("%s must start with '/'", name))
		}
	}
	if c.Sessions.MaxSessions < 1 {
		errs = append(errs, errors.New("sessions.max_sessions must be at least 1"))
	}
	if c.Checkout.OrderProcessingDelay < 0 || c.Checkout.FormSubmitDelay < 0 {
		errs = append(errs, errors.New("checkout delays must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

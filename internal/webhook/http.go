package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-storefront/internal/observability"
)

const tracerName = "github.com/imrishuroy/go-storefront/internal/webhook"

// NewHTTPClient returns a client whose transport records a client span per request and injects
// the trace context into outgoing headers. Both come from the global providers at call time.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// HTTPSink POSTs payloads directly to the target URL.
type HTTPSink struct {
	client *http.Client
	policy Policy
	logger *zap.Logger
	tracer trace.Tracer
}

func NewHTTPSink(client *http.Client, policy Policy, logger *zap.Logger) *HTTPSink {
	if client == nil {
		client = NewHTTPClient(10 * time.Second)
	}
	return &HTTPSink{
		client: client,
		policy: policy,
		logger: observability.OrNop(logger),
		tracer: otel.Tracer(tracerName),
	}
}

func (s *HTTPSink) Deliver(ctx context.Context, target Target, payload any) error {
	if !target.Enabled() {
		return ErrDisabled
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook %s: encode payload: %w", target.Name, err)
	}
	return s.Post(ctx, target, body)
}

// Post sends an already encoded JSON body, retrying per the sink's Policy.
func (s *HTTPSink) Post(ctx context.Context, target Target, body []byte) error {
	if !target.Enabled() {
		return ErrDisabled
	}

	ctx, span := s.tracer.Start(ctx, "webhook.deliver",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("webhook.target", target.Name)),
	)
	defer span.End()

	var lastErr error
	attempts := s.policy.attempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := wait(ctx, s.policy.Backoff); err != nil {
				lastErr = errors.Join(lastErr, err)
				break
			}
		}
		lastErr = s.post(ctx, target, body)
		if lastErr == nil {
			span.SetAttributes(attribute.Int("webhook.attempts", attempt))
			return nil
		}
		s.logger.Warn("webhook attempt failed",
			zap.String("target", target.Name),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "delivery failed")
	return lastErr
}

func (s *HTTPSink) post(ctx context.Context, target Target, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook %s: build request: %w", target.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook %s: %w", target.Name, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Target: target.Name, Code: resp.StatusCode}
	}
	return nil
}

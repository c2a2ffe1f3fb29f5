package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-storefront/internal/observability"
	"github.com/imrishuroy/go-storefront/internal/webhook"
)

const metricWebhookFailures = "WebhookFailures"

// Poster is satisfied by *webhook.HTTPSink.
type Poster interface {
	Post(ctx context.Context, target webhook.Target, body []byte) error
}

// Counter is satisfied by *aws.MetricsRecorder.
type Counter interface {
	Count(ctx context.Context, name string, n int) error
}

// Processor relays queued webhook envelopes to their endpoints.
type Processor struct {
	poster  Poster
	metrics Counter
	logger  *zap.Logger
}

// NewProcessor returns a Processor. metrics may be nil.
func NewProcessor(poster Poster, metrics Counter, logger *zap.Logger) *Processor {
	return &Processor{poster: poster, metrics: metrics, logger: observability.OrNop(logger)}
}

// Handle delivers every record of the batch. Delivery failures are logged and counted but never
// returned, so the queue does not redeliver them.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	p.logger.Debug("received relay batch", zap.Int("records", len(ev.Records)))
	for _, rec := range ev.Records {
		if err := p.relay(ctx, rec); err != nil {
			p.logger.Warn("webhook relay failed",
				zap.String("message_id", rec.MessageId),
				zap.Error(err),
			)
			p.count(ctx)
		}
	}
	return nil
}

func (p *Processor) relay(ctx context.Context, rec events.SQSMessage) error {
	var env webhook.Envelope
	if err := json.Unmarshal([]byte(rec.Body), &env); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if env.URL == "" || len(env.Payload) == 0 {
		return fmt.Errorf("envelope for %q is missing url or payload", env.Target)
	}

	target := webhook.Target{Name: env.Target, URL: env.URL}
	if err := p.poster.Post(ctx, target, env.Payload); err != nil {
		return err
	}
	p.logger.Info("webhook relayed",
		zap.String("target", env.Target),
		zap.String("message_id", rec.MessageId),
	)
	return nil
}

func (p *Processor) count(ctx context.Context) {
	if p.metrics == nil {
		return
	}
	if err := p.metrics.Count(ctx, metricWebhookFailures, 1); err != nil {
		p.logger.Warn("metric publish failed", zap.Error(err))
	}
}

package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/imrishuroy/go-storefront/internal/observability"
)

// Envelope is the queue message the relay worker turns back into an HTTP delivery.
type Envelope struct {
	Target  string          `json:"target"`
	URL     string          `json:"url"`
	Payload json.RawMessage `json:"payload"`
}

// Publisher is satisfied by aws.Publisher.
type Publisher interface {
	Publish(ctx context.Context, body []byte, attributes map[string]string) (string, error)
}

// QueueSink hands deliveries to a queue instead of calling the endpoint inline.
type QueueSink struct {
	publisher Publisher
	logger    *zap.Logger
}

func NewQueueSink(publisher Publisher, logger *zap.Logger) *QueueSink {
	return &QueueSink{publisher: publisher, logger: observability.OrNop(logger)}
}

func (s *QueueSink) Deliver(ctx context.Context, target Target, payload any) error {
	if !target.Enabled() {
		return ErrDisabled
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook %s: encode payload: %w", target.Name, err)
	}
	body, err := json.Marshal(Envelope{Target: target.Name, URL: target.URL, Payload: raw})
	if err != nil {
		return fmt.Errorf("webhook %s: encode envelope: %w", target.Name, err)
	}

	msgID, err := s.publisher.Publish(ctx, body, map[string]string{"target": target.Name})
	if err != nil {
		return fmt.Errorf("webhook %s: enqueue: %w", target.Name, err)
	}
	s.logger.Debug("webhook enqueued", zap.String("target", target.Name), zap.String("message_id", msgID))
	return nil
}

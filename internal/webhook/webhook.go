// Package webhook delivers JSON payloads to the configured order, return and exchange endpoints.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrDisabled is returned for a target whose URL is empty or still the build placeholder. No
// request is made.
var ErrDisabled = errors.New("webhook: target disabled")

// Target is one configured endpoint.
type Target struct {
	Name        string
	URL         string
	Placeholder string
}

// Enabled reports whether deliveries to t should happen at all.
func (t Target) Enabled() bool {
	return t.URL != "" && t.URL != t.Placeholder
}

// Policy controls delivery attempts. The zero value makes exactly one attempt.
type Policy struct {
	MaxAttempts int
	Backoff     time.Duration
}

func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Sink delivers a payload to a target.
type Sink interface {
	Deliver(ctx context.Context, target Target, payload any) error
}

// StatusError reports a non-2xx webhook response.
type StatusError struct {
	Target string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook %s: unexpected status %d", e.Target, e.Code)
}

func wait(ctx context.Context, d time.Duration) error {
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

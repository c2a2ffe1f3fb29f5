// Package notify queues transient user-facing messages for a session.
package notify

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Level is the notification kind.
type Level string

const (
	Success Level = "success"
	Error   Level = "error"
	Warning Level = "warning"
	Info    Level = "info"
)

const (
	// DefaultDuration is how long clients should display a notification.
	DefaultDuration = 3500 * time.Millisecond
	// DefaultRetention drops notifications nobody collected.
	DefaultRetention = 10 * time.Second
)

// Notification is one queued message.
type Notification struct {
	ID         string    `json:"id"`
	Level      Level     `json:"type"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
	DurationMS int64     `json:"durationMs"`
}

// Center holds the pending notifications of one session. It is not safe for concurrent use.
type Center struct {
	duration  time.Duration
	retention time.Duration
	pending   []Notification
	nowFunc   func() time.Time
	idGen     func() string
}

// NewCenter returns a Center with the given display duration and retention. Zero values
// select the defaults.
func NewCenter(duration, retention time.Duration) *Center {
	if duration <= 0 {
		duration = DefaultDuration
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Center{
		duration:  duration,
		retention: retention,
		nowFunc:   time.Now,
		idGen:     func() string { return ulid.Make().String() },
	}
}

// Push queues a message and returns it.
func (c *Center) Push(level Level, message string) Notification {
	now := c.nowFunc()
	n := Notification{
		ID:         c.idGen(),
		Level:      level,
		Message:    message,
		CreatedAt:  now.UTC(),
		DurationMS: c.duration.Milliseconds(),
	}
	c.pending = append(c.pending, n)
	return n
}

func (c *Center) Success(message string) Notification { return c.Push(Success, message) }

func (c *Center) Error(message string) Notification { return c.Push(Error, message) }

func (c *Center) Warning(message string) Notification { return c.Push(Warning, message) }

func (c *Center) Info(message string) Notification { return c.Push(Info, message) }

// Pending returns the live notifications without removing them.
func (c *Center) Pending() []Notification {
	c.expire()
	out := make([]Notification, len(c.pending))
	copy(out, c.pending)
	return out
}

// Drain returns the live notifications in push order and empties the queue.
func (c *Center) Drain() []Notification {
	c.expire()
	out := c.pending
	c.pending = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

func (c *Center) expire() {
	cutoff := c.nowFunc().Add(-c.retention)
	kept := c.pending[:0]
	for _, n := range c.pending {
		if n.CreatedAt.After(cutoff) {
			kept = append(kept, n)
		}
	}
	c.pending = kept
}

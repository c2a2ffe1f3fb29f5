// Package storage persists JSON-serialisable values under string keys. Failures never reach the
// caller: the Adapter logs them and reports a boolean so in-memory state stays authoritative.
package storage

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/imrishuroy/go-storefront/internal/observability"
)

// ErrNotFound is returned by a Backend when the key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Backend stores raw JSON blobs.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Adapter is the storefront's key-value facade over a Backend.
type Adapter struct {
	backend   Backend
	namespace string
	logger    *zap.Logger
	marshal   func(any) ([]byte, error)
}

// NewAdapter wraps backend.
func NewAdapter(backend Backend, logger *zap.Logger) *Adapter {
	return &Adapter{
		backend: backend,
		logger:  observability.OrNop(logger),
		marshal: json.Marshal,
	}
}

// Scoped returns an Adapter whose keys are prefixed with namespace, e.g. one per session.
func (a *Adapter) Scoped(namespace string) *Adapter {
	scoped := *a
	if a.namespace != "" {
		scoped.namespace = a.namespace + "/" + namespace
	} else {
		scoped.namespace = namespace
	}
	scoped.logger = a.logger.With(zap.String("namespace", scoped.namespace))
	return &scoped
}

func (a *Adapter) fullKey(key string) string {
	if a.namespace == "" {
		return key
	}
	return a.namespace + "/" + key
}

// Load decodes the value stored under key into out. It returns false when the key is missing or
// the value cannot be read or decoded; out is left untouched in that case.
func (a *Adapter) Load(ctx context.Context, key string, out any) bool {
	if a == nil || a.backend == nil {
		return false
	}
	raw, err := a.backend.Get(ctx, a.fullKey(key))
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		a.logger.Warn("failed to load from storage", zap.String("key", key), zap.Error(err))
		return false
	}
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		a.logger.Warn("failed to decode stored value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Save encodes value and writes it under key. Errors are logged and reported as false.
func (a *Adapter) Save(ctx context.Context, key string, value any) bool {
	if a == nil || a.backend == nil {
		return false
	}
	raw, err := a.marshal(value)
	if err != nil {
		a.logger.Warn("failed to encode value for storage", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := a.backend.Put(ctx, a.fullKey(key), raw); err != nil {
		a.logger.Warn("failed to save to storage", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

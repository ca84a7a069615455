package hxtoast

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Option configures registries, scopes and providers.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	metrics *Metrics
	newID   func() ID
	now     func() time.Time
}

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records toast and scope activity on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithIDGenerator replaces the uuid-based ID generator.
// The generator must never return the same ID twice.
func WithIDGenerator(fn func() ID) Option {
	return func(o *options) {
		o.newID = fn
	}
}

// WithClock sets the time source used for Entry.CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) options {
	o := options{
		newID: func() ID { return ID(uuid.NewString()) },
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

package hxtoast

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Scope is one activation of a toast provider. It owns exactly one
// Registry; closing the scope discards every toast it holds.
type Scope struct {
	key      string
	registry *Registry
	closed   atomic.Bool
	onClose  func()
	lastSeen atomic.Int64 // unix nanos of the last Provider.Open
}

// NewScope opens a standalone scope with an empty registry.
func NewScope(opts ...Option) *Scope {
	return newScope("", opts)
}

func newScope(key string, opts []Option) *Scope {
	o := newOptions(opts)
	reg := NewRegistry(opts...)
	reg.scope = key
	s := &Scope{
		key:      key,
		registry: reg,
	}
	if m := o.metrics; m != nil {
		m.scopeOpened()
		s.onClose = m.scopeClosed
	}
	return s
}

// Key returns the provider key of the scope, or "" for standalone scopes.
func (s *Scope) Key() string {
	return s.key
}

// Registry returns the scope's registry.
// It panics with ErrScopeClosed once the scope has been closed.
func (s *Scope) Registry() *Registry {
	if s.closed.Load() {
		panic(ErrScopeClosed)
	}
	return s.registry
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	return s.closed.Load()
}

// Close discards the scope's toasts. Subscribers see one final, empty
// list, and the registry drops any later Add, including through handles
// obtained before Close. Close is idempotent.
func (s *Scope) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.registry.close()
	if s.onClose != nil {
		s.onClose()
	}
}

// Provider hands out one Scope per key, typically one per browser
// session. Scopes under different keys never share toasts.
type Provider struct {
	mu     sync.Mutex
	scopes map[string]*Scope
	opts   []Option
	logger *slog.Logger
	now    func() time.Time
}

// NewProvider creates a provider. opts apply to every scope it opens.
func NewProvider(opts ...Option) *Provider {
	o := newOptions(opts)
	return &Provider{
		scopes: make(map[string]*Scope),
		opts:   opts,
		logger: o.logger,
		now:    o.now,
	}
}

// Open returns the scope for key, creating it if needed.
func (p *Provider) Open(key string) *Scope {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now().UnixNano()
	if s, ok := p.scopes[key]; ok {
		s.lastSeen.Store(now)
		return s
	}
	s := newScope(key, p.opts)
	s.lastSeen.Store(now)
	p.scopes[key] = s
	p.logger.Debug("toast scope opened", "scope", key)
	return s
}

// Lookup returns the open scope for key.
func (p *Provider) Lookup(key string) (*Scope, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.scopes[key]
	return s, ok
}

// Close closes and forgets the scope for key. Unknown keys are ignored.
func (p *Provider) Close(key string) {
	p.mu.Lock()
	s, ok := p.scopes[key]
	delete(p.scopes, key)
	p.mu.Unlock()

	if ok {
		s.Close()
		p.logger.Debug("toast scope closed", "scope", key)
	}
}

// CloseAll closes every open scope.
func (p *Provider) CloseAll() {
	p.mu.Lock()
	scopes := p.scopes
	p.scopes = make(map[string]*Scope)
	p.mu.Unlock()

	for _, s := range scopes {
		s.Close()
	}
}

// Sweep closes every scope that has not been opened for at least idle
// and returns how many were closed. Scopes with observers, such as a
// connected stream, are never idle.
func (p *Provider) Sweep(idle time.Duration) int {
	cutoff := p.now().Add(-idle).UnixNano()

	p.mu.Lock()
	var stale []*Scope
	for key, s := range p.scopes {
		if s.lastSeen.Load() <= cutoff && !s.registry.subscribed() {
			stale = append(stale, s)
			delete(p.scopes, key)
		}
	}
	p.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	if len(stale) > 0 {
		p.logger.Debug("idle toast scopes closed", "count", len(stale))
	}
	return len(stale)
}

// Len returns the number of open scopes.
func (p *Provider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.scopes)
}

type registryKey struct{}

// WithRegistry returns a copy of ctx carrying reg.
func WithRegistry(ctx context.Context, reg *Registry) context.Context {
	return context.WithValue(ctx, registryKey{}, reg)
}

// RegistryFrom returns the registry carried by ctx.
func RegistryFrom(ctx context.Context) (*Registry, bool) {
	reg, ok := ctx.Value(registryKey{}).(*Registry)
	return reg, ok && reg != nil
}

// MustRegistry returns the registry carried by ctx.
// Calling it outside a toast scope is a programming error: it panics with
// ErrNoScope.
func MustRegistry(ctx context.Context) *Registry {
	reg, ok := RegistryFrom(ctx)
	if !ok {
		panic(ErrNoScope)
	}
	return reg
}

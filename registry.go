package hxtoast

import (
	"log/slog"
	"slices"
	"sync"
)

// Registry holds the active toasts of one scope in insertion order.
//
// The only mutations are Add (append) and Remove (by ID). Observers
// registered with Subscribe receive a snapshot after every change.
// A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	subs    map[int]func([]Entry)
	nextSub int

	scope  string // provider key, used to bind close tokens
	closed bool
	done   chan struct{}

	opts   options
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
//
// Most callers get a registry from a Scope or Provider rather than
// constructing one directly.
func NewRegistry(opts ...Option) *Registry {
	o := newOptions(opts)
	return &Registry{
		subs:   make(map[int]func([]Entry)),
		done:   make(chan struct{}),
		opts:   o,
		logger: o.logger,
	}
}

// Add appends a toast and returns its freshly generated ID.
//
// Once the registry's scope has closed, Add drops the toast and returns
// the empty ID.
func (r *Registry) Add(payload Payload, s Strategy) ID {
	e := Entry{
		ID:        r.opts.newID(),
		Payload:   payload,
		Strategy:  s,
		CreatedAt: r.opts.now(),
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.logger.Warn("toast added to closed scope", "scope", r.scope, "strategy", s.String())
		return ""
	}
	r.entries = append(r.entries, e)
	snapshot, subs := r.snapshotLocked()
	r.mu.Unlock()

	r.logger.Debug("toast added", "id", e.ID, "strategy", s.String())
	if m := r.opts.metrics; m != nil {
		m.added(s)
	}
	notify(subs, snapshot)
	return e.ID
}

// Remove drops the toast with the given ID. It reports whether a toast
// was removed; removing an unknown ID is a no-op and notifies nobody.
func (r *Registry) Remove(id ID) bool {
	r.mu.Lock()
	i := slices.IndexFunc(r.entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		r.mu.Unlock()
		return false
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	snapshot, subs := r.snapshotLocked()
	r.mu.Unlock()

	r.logger.Debug("toast removed", "id", id)
	if m := r.opts.metrics; m != nil {
		m.closed(1)
	}
	notify(subs, snapshot)
	return true
}

// Clear drops every toast. Observers are notified once if anything was
// dropped.
func (r *Registry) Clear() {
	r.mu.Lock()
	n := len(r.entries)
	if n == 0 {
		r.mu.Unlock()
		return
	}
	r.entries = nil
	snapshot, subs := r.snapshotLocked()
	r.mu.Unlock()

	r.logger.Debug("toasts cleared", "count", n)
	if m := r.opts.metrics; m != nil {
		m.closed(n)
	}
	notify(subs, snapshot)
}

// Done returns a channel that is closed when the registry's scope closes.
func (r *Registry) Done() <-chan struct{} {
	return r.done
}

// close discards every toast and refuses further adds. Observers see one
// final, empty list.
func (r *Registry) close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	n := len(r.entries)
	r.entries = nil
	var snapshot []Entry
	var subs []func([]Entry)
	if n > 0 {
		snapshot, subs = r.snapshotLocked()
	}
	close(r.done)
	r.mu.Unlock()

	if n > 0 {
		r.logger.Debug("toasts cleared", "count", n)
		if m := r.opts.metrics; m != nil {
			m.closed(n)
		}
	}
	notify(subs, snapshot)
}

// subscribed reports whether anyone is observing the registry.
func (r *Registry) subscribed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs) > 0
}

// List returns the active toasts in insertion order. The returned slice
// is a copy; display order is the caller's decision.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.entries)
}

// Get returns the toast with the given ID.
func (r *Registry) Get(id ID) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Len returns the number of active toasts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Subscribe registers fn to receive the toast list after every change.
// fn runs on the goroutine that made the change, after the registry lock
// is released, so it may read the registry but should not block.
//
// The returned function cancels the subscription.
func (r *Registry) Subscribe(fn func([]Entry)) (cancel func()) {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
		})
	}
}

func (r *Registry) snapshotLocked() ([]Entry, []func([]Entry)) {
	if len(r.subs) == 0 {
		return nil, nil
	}
	subs := make([]func([]Entry), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	return slices.Clone(r.entries), subs
}

func notify(subs []func([]Entry), snapshot []Entry) {
	for _, fn := range subs {
		fn(snapshot)
	}
}

package hxtoast

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// DefaultCookieName is the session cookie that selects a provider scope.
const DefaultCookieName = "hxtoast_session"

// ChangedEvent is sent in HX-Trigger after a close request, so other
// elements (counters, badges) can refresh with hx-trigger="toasts:changed from:body".
const ChangedEvent = "toasts:changed"

// HandlerOption configures a Handler.
type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	key          []byte
	path         string
	prefix       string
	sensitive    bool
	cookieName   string
	secureCookie bool
	logger       *slog.Logger
	checkOrigin  func(r *http.Request) bool
}

// WithKey sets the key used to sign or encrypt close tokens.
// The key should be at least 32 bytes of cryptographically random data.
// If not provided, a random key is generated (suitable for development only).
func WithKey(key []byte) HandlerOption {
	return func(o *handlerOptions) {
		o.key = key
	}
}

// WithPath sets the URL path prefix the handler is mounted at.
// Defaults to "/_t/".
func WithPath(path string) HandlerOption {
	return func(o *handlerOptions) {
		o.path = path
	}
}

// WithPathPrefix places the handler path below prefix, for handlers
// mounted on a router group whose routes are registered relative to the
// group. Path() and the URLs rendered into pages include the prefix.
func WithPathPrefix(prefix string) HandlerOption {
	return func(o *handlerOptions) {
		o.prefix = strings.TrimSuffix(prefix, "/")
	}
}

// WithSensitive encrypts close tokens instead of signing them.
func WithSensitive() HandlerOption {
	return func(o *handlerOptions) {
		o.sensitive = true
	}
}

// WithCookieName overrides DefaultCookieName.
func WithCookieName(name string) HandlerOption {
	return func(o *handlerOptions) {
		o.cookieName = name
	}
}

// WithSecureCookie marks the session cookie Secure.
func WithSecureCookie() HandlerOption {
	return func(o *handlerOptions) {
		o.secureCookie = true
	}
}

// WithHandlerLogger sets the handler's logger. If nil, slog.Default() is used.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(o *handlerOptions) {
		o.logger = l
	}
}

// WithCheckOrigin sets the websocket origin check. The default accepts
// same-host origins only.
func WithCheckOrigin(fn func(r *http.Request) bool) HandlerOption {
	return func(o *handlerOptions) {
		o.checkOrigin = fn
	}
}

// Handler serves the browser side of a toast provider: it maps a session
// cookie to a scope, renders the scope's toasts, accepts close requests
// and streams changes over a websocket.
//
// Routes, relative to the mount path:
//
//	GET  {path}       the toast region
//	POST {path}close  close the toast named by the signed token in "p"
//	GET  {path}ws     websocket pushing the region on every change
//
// Mount it and wrap page routes with Middleware so producers can reach
// the session's registry:
//
//	h := hxtoast.NewHandler(provider, presenter, hxtoast.WithKey(key))
//	mux.Handle("/_t/", h)
//	http.ListenAndServe(addr, h.Middleware(mux))
type Handler struct {
	provider  *Provider
	presenter *Presenter
	encoder   *Encoder
	mux       *http.ServeMux
	upgrader  websocket.Upgrader
	opts      handlerOptions
	logger    *slog.Logger

	// OnError is called when a request fails.
	// Customize this to handle errors appropriately for your application.
	OnError func(http.ResponseWriter, *http.Request, error)
}

// NewHandler creates a handler serving provider's scopes with presenter.
//
// NewHandler wires presenter's close callbacks to this handler, so a
// presenter should be served by one handler only.
func NewHandler(provider *Provider, presenter *Presenter, opts ...HandlerOption) *Handler {
	o := handlerOptions{
		path:       "/_t/",
		cookieName: DefaultCookieName,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !strings.HasSuffix(o.path, "/") {
		o.path += "/"
	}
	o.path = o.prefix + o.path
	if o.logger == nil {
		o.logger = slog.Default()
	}

	key := o.key
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("hxtoast: failed to generate random key: %v", err))
		}
		o.logger.Warn("hxtoast: no key configured, close tokens will not survive a restart")
	}
	enc, err := NewEncoder(key)
	if err != nil {
		panic(fmt.Sprintf("hxtoast: failed to create encoder: %v", err))
	}

	h := &Handler{
		provider:  provider,
		presenter: presenter,
		encoder:   enc,
		mux:       http.NewServeMux(),
		upgrader:  websocket.Upgrader{CheckOrigin: o.checkOrigin},
		opts:      o,
		logger:    o.logger,
	}
	h.OnError = h.defaultOnError

	h.mux.HandleFunc("GET "+o.path+"{$}", h.serveRegion)
	h.mux.HandleFunc("POST "+o.path+"close", h.serveClose)
	h.mux.HandleFunc("GET "+o.path+"ws", h.serveStream)

	presenter.closeAction = h.closeAction
	return h
}

// Path returns the mount path.
func (h *Handler) Path() string {
	return h.opts.path
}

// Provider returns the provider whose scopes the handler serves.
func (h *Handler) Provider() *Provider {
	return h.provider
}

// Presenter returns the handler's presenter.
func (h *Handler) Presenter() *Presenter {
	return h.presenter
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// CSRF protection: mutating methods require HX-Request header
	if r.Method != http.MethodGet && r.Method != http.MethodHead && !IsHTMX(r) {
		http.Error(w, "Forbidden: HTMX request required", http.StatusForbidden)
		return
	}
	h.Middleware(h.mux).ServeHTTP(w, r)
}

// Middleware resolves the session scope for each request, issuing a
// session cookie when the request has none, and makes the scope's
// registry available through MustRegistry(r.Context()).
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := RegistryFrom(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		key := h.session(w, r)
		reg := h.provider.Open(key).Registry()
		next.ServeHTTP(w, r.WithContext(WithRegistry(r.Context(), reg)))
	})
}

// session returns the request's session key, issuing a new one if the
// cookie is missing or malformed.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(h.opts.cookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	key := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.cookieName,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.opts.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	// Later handlers in this request read the cookie from r.
	r.AddCookie(&http.Cookie{Name: h.opts.cookieName, Value: key})
	return key
}

// EndSession closes the request's scope and expires its cookie.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(h.opts.cookieName); err == nil {
		h.provider.Close(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// closeAction builds the close request for one toast of reg.
func (h *Handler) closeAction(reg *Registry, id ID) *Action {
	token, err := encodeCloseToken(h.encoder, closeToken{Scope: reg.scope, ID: id}, h.opts.sensitive)
	if err != nil {
		h.logger.Error("hxtoast: encode close token", "id", id, "error", err)
		return nil
	}
	return NewAction(h.opts.path+"close", http.MethodPost).
		Val("p", token).
		Target("#" + h.presenter.RegionID()).
		Swap(SwapOuter)
}

func (h *Handler) serveRegion(w http.ResponseWriter, r *http.Request) {
	h.writeRegion(w, r, MustRegistry(r.Context()))
}

func (h *Handler) serveClose(w http.ResponseWriter, r *http.Request) {
	reg := MustRegistry(r.Context())

	if err := r.ParseForm(); err != nil {
		h.OnError(w, r, fmt.Errorf("%w: %v", ErrInvalidFormat, err))
		return
	}
	tok, err := decodeCloseToken(h.encoder, r.FormValue("p"), h.opts.sensitive)
	if err != nil {
		h.OnError(w, r, err)
		return
	}
	if tok.Scope != reg.scope {
		h.OnError(w, r, ErrScopeMismatch)
		return
	}

	reg.Remove(tok.ID)
	w.Header().Set("HX-Trigger", ChangedEvent)
	h.writeRegion(w, r, reg)
}

func (h *Handler) writeRegion(w http.ResponseWriter, r *http.Request, reg *Registry) {
	var buf bytes.Buffer
	if err := h.presenter.Region(reg).Render(r.Context(), &buf); err != nil {
		h.OnError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) defaultOnError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case IsDecryptionError(err), errors.Is(err, ErrInvalidFormat):
		h.logger.Warn("hxtoast: rejected request", "path", r.URL.Path, "error", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
	case errors.Is(err, ErrScopeMismatch):
		h.logger.Warn("hxtoast: rejected request", "path", r.URL.Path, "error", err)
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		h.logger.Error("hxtoast: request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

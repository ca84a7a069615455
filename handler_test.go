package hxtoast

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, opts ...HandlerOption) *Handler {
	t.Helper()
	opts = append([]HandlerOption{
		WithKey([]byte("handler-test-key-0123456789abcdef")),
		WithHandlerLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	p := NewPresenter(WithRenderer("x", &labelRenderer{label: "x"}), WithContainer(Div("toast")))
	return NewHandler(NewProvider(), p, opts...)
}

func TestHandlerPath(t *testing.T) {
	tests := []struct {
		name string
		opt  []HandlerOption
		want string
	}{
		{"default", nil, "/_t/"},
		{"custom", []HandlerOption{WithPath("/toasts/")}, "/toasts/"},
		{"adds slash", []HandlerOption{WithPath("/toasts")}, "/toasts/"},
		{"prefix", []HandlerOption{WithPathPrefix("/app/")}, "/app/_t/"},
		{"prefix and path", []HandlerOption{WithPathPrefix("/app"), WithPath("/toasts/")}, "/app/toasts/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, tt.opt...)
			require.Equal(t, tt.want, h.Path())
		})
	}
}

func TestHandlerServesRegion(t *testing.T) {
	h := newTestHandler(t)
	client := NewTestClient(h)
	id := client.Registry().Add(nil, Kind("x"))

	result, err := client.Get(h.Path())
	require.NoError(t, err)
	require.True(t, result.IsOK())
	require.Equal(t, "text/html; charset=utf-8", result.Headers.Get("Content-Type"))
	require.Equal(t, []ID{id}, result.ToastIDs)
	require.True(t, result.HTMLContains(`<div id="toasts" class="toast-container">`))
}

func TestHandlerIssuesSessionCookie(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, h.Path(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	require.Equal(t, DefaultCookieName, c.Name)
	require.True(t, c.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
	_, err := uuid.Parse(c.Value)
	require.NoError(t, err)

	_, ok := h.Provider().Lookup(c.Value)
	require.True(t, ok, "scope should be opened for the new session")
}

func TestHandlerReplacesMalformedCookie(t *testing.T) {
	h := newTestHandler(t, WithCookieName("sess"), WithSecureCookie())

	req := httptest.NewRequest(http.MethodGet, h.Path(), nil)
	req.AddCookie(&http.Cookie{Name: "sess", Value: "not-a-uuid"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "sess", cookies[0].Name)
	require.NotEqual(t, "not-a-uuid", cookies[0].Value)
	require.True(t, cookies[0].Secure)
	_, ok := h.Provider().Lookup("not-a-uuid")
	require.False(t, ok)
}

func TestHandlerClose(t *testing.T) {
	h := newTestHandler(t)
	client := NewTestClient(h)
	reg := client.Registry()
	first := reg.Add(Payload{"count": 0}, Kind("x"))
	second := reg.Add(Payload{"count": 1}, Kind("x"))

	result, err := client.Close(first)
	require.NoError(t, err)
	require.True(t, result.IsOK(), "body: %s", result.HTML)
	require.True(t, result.HasEvent(ChangedEvent))
	require.Equal(t, []ID{second}, result.ToastIDs)
	require.Equal(t, 1, reg.Len())

	// Closing again is a no-op that still renders the region.
	result, err = client.Close(first)
	require.NoError(t, err)
	require.True(t, result.IsOK())
	require.Equal(t, []ID{second}, result.ToastIDs)
}

func TestHandlerCloseSensitive(t *testing.T) {
	h := newTestHandler(t, WithSensitive())
	client := NewTestClient(h)
	id := client.Registry().Add(nil, Kind("x"))

	a := h.closeAction(client.Registry(), id)
	require.NotNil(t, a)
	require.NotContains(t, a.vals["p"], ".", "sensitive tokens are not signed b64.sig pairs")

	result, err := client.Close(id)
	require.NoError(t, err)
	require.True(t, result.IsOK())
	require.Zero(t, client.Registry().Len())
}

func TestHandlerCloseRejectsOtherSession(t *testing.T) {
	h := newTestHandler(t)
	alice := NewTestClient(h)
	mallory := NewTestClient(h)
	id := alice.Registry().Add(nil, Kind("x"))

	a := h.closeAction(alice.Registry(), id)
	result, err := mallory.Post(a.URL(), a.vals)
	require.NoError(t, err)
	require.True(t, result.HasStatus(http.StatusForbidden))
	require.Equal(t, 1, alice.Registry().Len())
}

func TestHandlerCloseRejectsBadToken(t *testing.T) {
	h := newTestHandler(t)
	client := NewTestClient(h)
	client.Registry().Add(nil, Kind("x"))

	other := newTestHandler(t, WithKey([]byte("some-other-key-0123456789abcdef!")))
	id := client.Registry().List()[0].ID
	forged := other.closeAction(client.Registry(), id)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-token"},
		{"wrong key", forged.vals["p"]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := client.Post(h.Path()+"close", map[string]string{"p": tt.token})
			require.NoError(t, err)
			require.True(t, result.HasStatus(http.StatusBadRequest), "status %d", result.StatusCode)
			require.Equal(t, 1, client.Registry().Len())
		})
	}
}

func TestHandlerCSRF(t *testing.T) {
	h := newTestHandler(t)
	client := NewTestClient(h)
	id := client.Registry().Add(nil, Kind("x"))
	a := h.closeAction(client.Registry(), id)

	form := url.Values{"p": {a.vals["p"]}}
	req := httptest.NewRequest(http.MethodPost, a.URL(), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: client.Session()})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, 1, client.Registry().Len())
}

func TestHandlerUnknownRouteAndMethod(t *testing.T) {
	h := newTestHandler(t)
	client := NewTestClient(h)

	result, err := client.Get(h.Path() + "nope")
	require.NoError(t, err)
	require.True(t, result.HasStatus(http.StatusNotFound))

	result, err = client.Get(h.Path() + "close")
	require.NoError(t, err)
	require.True(t, result.HasStatus(http.StatusMethodNotAllowed))
}

func TestHandlerOnError(t *testing.T) {
	h := newTestHandler(t)
	h.Presenter().Register("boom", RendererFunc(func(ctx context.Context, p Props) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			return errors.New("boom")
		})
	}))

	var got error
	h.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		got = err
		http.Error(w, "custom", http.StatusTeapot)
	}

	client := NewTestClient(h)
	client.Registry().Add(nil, Kind("boom"))

	result, err := client.Get(h.Path())
	require.NoError(t, err)
	require.True(t, result.HasStatus(http.StatusTeapot))
	require.ErrorContains(t, got, "boom")
	require.NotContains(t, result.HTML, "toast-container", "no partial region on error")
}

func TestHandlerUnknownKindIsServerError(t *testing.T) {
	h := newTestHandler(t)
	client := NewTestClient(h)
	client.Registry().Add(nil, Kind("missing"))

	result, err := client.Get(h.Path())
	require.NoError(t, err)
	require.True(t, result.HasStatus(http.StatusInternalServerError))
}

func TestMiddlewareInjectsRegistry(t *testing.T) {
	h := newTestHandler(t)

	app := http.NewServeMux()
	app.Handle(h.Path(), h)
	app.HandleFunc("POST /bread", func(w http.ResponseWriter, r *http.Request) {
		id := MustRegistry(r.Context()).Add(Payload{"count": 0}, Kind("x"))
		fmt.Fprint(w, id)
	})

	client := NewTestClient(h).Wrap(h.Middleware(app))

	result, err := client.Post("/bread", nil)
	require.NoError(t, err)
	require.True(t, result.IsOK())
	id := ID(result.HTML)

	_, ok := client.Registry().Get(id)
	require.True(t, ok, "toast added by app route should land in the session registry")

	// The mounted handler sees the same registry through the outer middleware.
	result, err = client.Get(h.Path())
	require.NoError(t, err)
	require.Equal(t, []ID{id}, result.ToastIDs)
}

func TestMiddlewareKeepsExistingRegistry(t *testing.T) {
	h := newTestHandler(t)
	reg := NewRegistry()

	var seen *Registry
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = MustRegistry(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRegistry(req.Context(), reg))
	rec := httptest.NewRecorder()
	h.Middleware(next).ServeHTTP(rec, req)

	require.Same(t, reg, seen)
	require.Empty(t, rec.Result().Cookies())
	require.Zero(t, h.Provider().Len())
}

func TestEndSession(t *testing.T) {
	h := newTestHandler(t)
	client := NewTestClient(h)
	client.Registry().Add(nil, Kind("x"))
	scope, ok := h.Provider().Lookup(client.Session())
	require.True(t, ok)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: client.Session()})
	rec := httptest.NewRecorder()
	h.EndSession(rec, req)

	require.True(t, scope.Closed())
	_, ok = h.Provider().Lookup(client.Session())
	require.False(t, ok)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, -1, cookies[0].MaxAge)
}

func TestHandlerWithoutKeyStillWorks(t *testing.T) {
	p := NewPresenter(WithRenderer("x", &labelRenderer{label: "x"}))
	h := NewHandler(NewProvider(), p, WithHandlerLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	client := NewTestClient(h)
	id := client.Registry().Add(nil, Kind("x"))

	result, err := client.Close(id)
	require.NoError(t, err)
	require.True(t, result.IsOK())
	require.Zero(t, client.Registry().Len())
}

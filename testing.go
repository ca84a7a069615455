package hxtoast

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// TestResult holds rendered toast output for assertions.
type TestResult struct {
	HTML            string
	StatusCode      int
	Headers         http.Header
	ToastIDs        []ID // data-toast-id values, in document order
	TriggeredEvents []string
}

// TestRender renders the presenter's output for reg without HTTP.
//
//	result, err := hxtoast.TestRender(presenter, reg)
//	if result.ToastCount() != 2 { ... }
func TestRender(p *Presenter, reg *Registry) (*TestResult, error) {
	return TestRenderWithContext(context.Background(), p, reg)
}

// TestRenderWithContext renders with a custom context, for renderers that
// read request-scoped values.
func TestRenderWithContext(ctx context.Context, p *Presenter, reg *Registry) (*TestResult, error) {
	var buf bytes.Buffer
	if err := p.Component(reg).Render(ctx, &buf); err != nil {
		return nil, err
	}
	html := buf.String()
	return &TestResult{
		HTML:       html,
		StatusCode: http.StatusOK,
		Headers:    make(http.Header),
		ToastIDs:   parseToastIDs(html),
	}, nil
}

// TestClient drives a Handler as one browser session.
//
//	client := hxtoast.NewTestClient(handler)
//	id := client.Registry().Add(payload, hxtoast.Kind("rye"))
//	result, _ := client.Close(id)
type TestClient struct {
	handler http.Handler
	h       *Handler
	cookie  *http.Cookie
}

// NewTestClient starts a fresh session against h.
func NewTestClient(h *Handler) *TestClient {
	return &TestClient{
		handler: h,
		h:       h,
		cookie:  &http.Cookie{Name: h.opts.cookieName, Value: uuid.NewString()},
	}
}

// Wrap sends requests through next instead of the toast handler itself,
// for testing application routes behind Handler.Middleware.
func (c *TestClient) Wrap(next http.Handler) *TestClient {
	cp := *c
	cp.handler = next
	return &cp
}

// Session returns the session key the client sends.
func (c *TestClient) Session() string {
	return c.cookie.Value
}

// Registry returns the registry of the client's session.
func (c *TestClient) Registry() *Registry {
	return c.h.provider.Open(c.cookie.Value).Registry()
}

// Get sends a GET request.
func (c *TestClient) Get(path string) (*TestResult, error) {
	return c.Do(http.MethodGet, path, nil)
}

// Post sends an HTMX POST request with form data.
func (c *TestClient) Post(path string, form map[string]string) (*TestResult, error) {
	return c.Do(http.MethodPost, path, form)
}

// Close posts the close request the presenter would render for id.
func (c *TestClient) Close(id ID) (*TestResult, error) {
	a := c.h.closeAction(c.Registry(), id)
	return c.Post(a.URL(), a.vals)
}

// Do sends a request carrying the session cookie and HX-Request header.
func (c *TestClient) Do(method, path string, form map[string]string) (*TestResult, error) {
	values := url.Values{}
	for k, v := range form {
		values.Set(k, v)
	}

	req := httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
	if len(form) > 0 {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("HX-Request", "true")
	req.AddCookie(c.cookie)

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	result := &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
	}
	result.ToastIDs = parseToastIDs(result.HTML)
	if trigger := rec.Header().Get("HX-Trigger"); trigger != "" {
		result.TriggeredEvents = parseTriggerHeader(trigger)
	}
	return result, nil
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// ToastCount returns the number of rendered toasts that carry a
// data-toast-id attribute.
func (r *TestResult) ToastCount() int {
	return len(r.ToastIDs)
}

// HasEvent checks if an event was triggered.
func (r *TestResult) HasEvent(event string) bool {
	for _, e := range r.TriggeredEvents {
		if e == event {
			return true
		}
	}
	return false
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// parseTriggerHeader splits a simple comma-separated HX-Trigger value.
func parseTriggerHeader(trigger string) []string {
	parts := strings.Split(trigger, ",")
	events := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			events = append(events, p)
		}
	}
	return events
}

// parseToastIDs extracts data-toast-id attribute values in order.
func parseToastIDs(html string) []ID {
	const attr = `data-toast-id="`
	var ids []ID
	for {
		i := strings.Index(html, attr)
		if i < 0 {
			return ids
		}
		html = html[i+len(attr):]
		end := strings.IndexByte(html, '"')
		if end < 0 {
			return ids
		}
		ids = append(ids, ID(html[:end]))
		html = html[end:]
	}
}

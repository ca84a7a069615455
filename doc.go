// Package hxtoast provides toast notifications for server-rendered Go
// applications using Templ templates and HTMX.
//
// hxtoast manages toast data and state only. Rendering, styling and
// animation belong to caller-supplied renderers, so any markup or
// animation library can present the toasts.
//
// # Core Concepts
//
// A Registry holds the active toasts of one scope in insertion order. It
// has three operations:
//
//	id := reg.Add(hxtoast.Payload{"count": 1}, hxtoast.Kind("rye"))
//	reg.List()     // insertion order
//	reg.Remove(id) // no-op if already gone
//
// IDs are generated by the registry and never reused. Subscribe registers
// an observer that receives the list after every change.
//
// A Scope owns one registry for its lifetime; closing it discards every
// toast. A Provider hands out one scope per key, normally one per browser
// session, and scopes never see each other's toasts.
//
// # Rendering
//
// A Presenter renders a registry's toasts most recent first. Each toast
// carries a Strategy: either a kind, looked up in the presenter's renderer
// table, or an inline Renderer:
//
//	p := hxtoast.NewPresenter(hxtoast.WithContainer(hxtoast.Div("toast-slot")))
//	p.Register("sourdough", sourdough)
//	p.Component(reg) // renders nothing at all when reg is empty
//
// Renderers receive Props: the toast ID, its payload and a Closer bound to
// the toast. A renderer decides when its toast goes away, on click or when
// an animation ends:
//
//	<button { p.Close.Attrs()... }>close</button>
//	<div { p.Close.On("animationend")... }>...</div>
//
// # Serving
//
// A Handler connects sessions to scopes with a cookie, serves close
// requests and streams changes over a websocket:
//
//	provider := hxtoast.NewProvider()
//	h := hxtoast.NewHandler(provider, p, hxtoast.WithKey(key))
//	mux.Handle("/_t/", h)
//	http.ListenAndServe(addr, h.Middleware(mux))
//
// Producers reach the session's registry through the request context:
//
//	hxtoast.Flash(hxtoast.MustRegistry(r.Context()), hxtoast.FlashSuccess, "Saved!")
//
// # Security Model
//
// Close requests carry a token naming the scope and toast. Tokens are
// HMAC-signed by default, or AES-GCM encrypted with WithSensitive. A token
// is only honoured within the session it was rendered for.
//
// Mutating requests require the HX-Request: true header that HTMX sends,
// which blocks cross-origin form posts without extra CSRF tokens.
package hxtoast

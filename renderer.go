package hxtoast

import (
	"context"

	"github.com/a-h/templ"
)

// Renderer turns one toast into markup. Renderers own everything visual:
// styling, animation and when to dismiss the toast, which they do through
// Props.Close.
//
//	func (Sourdough) Render(ctx context.Context, p hxtoast.Props) templ.Component {
//	    return sourdoughTemplate(p.Payload, p.Close.Attrs())
//	}
//
// Closing from the browser needs the presenter to be served by a Handler.
// Without one, Props.Close.Action() is nil and Attrs/On are empty, so a
// renderer should leave out close controls rather than render dead ones.
type Renderer interface {
	Render(ctx context.Context, props Props) templ.Component
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, props Props) templ.Component

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, props Props) templ.Component {
	return f(ctx, props)
}

// Props is what a renderer receives for one toast.
type Props struct {
	ID      ID
	Payload Payload
	Close   Closer
}

// Closer dismisses one toast. It is bound to the toast's ID and registry,
// so renderers never need to know either.
type Closer struct {
	id     ID
	reg    *Registry
	action func() *Action
}

// ID returns the toast the closer is bound to.
func (c Closer) ID() ID {
	return c.id
}

// Close removes the toast from its registry. It reports whether the toast
// was still present.
func (c Closer) Close() bool {
	if c.reg == nil {
		return false
	}
	return c.reg.Remove(c.id)
}

// Action returns the HTMX action that closes the toast over HTTP, or nil
// when the presenter is not wired to a Handler.
func (c Closer) Action() *Action {
	if c.action == nil {
		return nil
	}
	return c.action()
}

// Attrs returns HTMX attributes that close the toast when the element is
// clicked. They are empty when no Handler serves the presenter; check
// Action() before rendering a close button. Spread them onto a button:
//
//	<button { p.Close.Attrs()... }>close this toast</button>
func (c Closer) Attrs() templ.Attributes {
	a := c.Action()
	if a == nil {
		return templ.Attributes{}
	}
	return a.Attrs()
}

// On returns HTMX attributes that close the toast when the element fires
// the given DOM event, for example "animationend" for toasts that fade
// out on their own.
func (c Closer) On(event string) templ.Attributes {
	a := c.Action()
	if a == nil {
		return templ.Attributes{}
	}
	return a.Trigger(event).Attrs()
}

package hxtoast

import (
	"context"
	"fmt"
	"html"
	"io"
	"sync"

	"github.com/a-h/templ"
)

// DefaultRegionID is the id of the element that holds the rendered toasts.
const DefaultRegionID = "toasts"

// Container wraps the output of a single toast. The presenter calls it
// once per toast, so wrapped toasts remain siblings.
type Container func(id ID, child templ.Component) templ.Component

// Div returns a container that wraps each toast in a <div> with the given
// class and a data-toast-id attribute.
func Div(class string) Container {
	return func(id ID, child templ.Component) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			attrs := templ.Attributes{"data-toast-id": string(id)}
			if class != "" {
				attrs["class"] = class
			}
			if _, err := io.WriteString(w, "<div"); err != nil {
				return err
			}
			if err := WriteAttrs(w, attrs); err != nil {
				return err
			}
			if _, err := io.WriteString(w, ">"); err != nil {
				return err
			}
			if err := child.Render(ctx, w); err != nil {
				return err
			}
			_, err := io.WriteString(w, "</div>")
			return err
		})
	}
}

// PresenterOption configures a Presenter.
type PresenterOption func(*Presenter)

// WithContainer wraps every rendered toast with c.
func WithContainer(c Container) PresenterOption {
	return func(p *Presenter) {
		p.container = c
	}
}

// WithRegionID sets the id of the region element (default "toasts").
func WithRegionID(id string) PresenterOption {
	return func(p *Presenter) {
		p.regionID = id
	}
}

// WithRenderer registers r under kind.
func WithRenderer(kind string, r Renderer) PresenterOption {
	return func(p *Presenter) {
		p.renderers[kind] = r
	}
}

// Presenter projects a registry's toasts into markup.
//
// Toasts are rendered most recent first. Each toast is rendered by its
// inline renderer, or by the renderer registered for its kind. Nothing is
// deduplicated, filtered or reordered by payload.
//
// The presenter holds no toast state and can be shared by every scope.
type Presenter struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	container Container
	regionID  string

	// closeAction is installed by NewHandler.
	closeAction func(reg *Registry, id ID) *Action
}

// NewPresenter creates a presenter. The flash renderer is registered
// under KindFlash unless an option replaces it.
func NewPresenter(opts ...PresenterOption) *Presenter {
	p := &Presenter{
		renderers: map[string]Renderer{KindFlash: FlashRenderer{}},
		regionID:  DefaultRegionID,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register adds or replaces the renderer for kind.
func (p *Presenter) Register(kind string, r Renderer) *Presenter {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renderers[kind] = r
	return p
}

// Renderer returns the renderer registered for kind.
func (p *Presenter) Renderer(kind string) (Renderer, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	r, ok := p.renderers[kind]
	return r, ok
}

// RegionID returns the id of the region element.
func (p *Presenter) RegionID() string {
	return p.regionID
}

func (p *Presenter) resolve(s Strategy) (Renderer, error) {
	if s.Inline != nil {
		return s.Inline, nil
	}
	r, ok := p.Renderer(s.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRenderer, s.Kind)
	}
	return r, nil
}

// Props builds the renderer input for e, with Close bound to reg.
func (p *Presenter) Props(reg *Registry, e Entry) Props {
	c := Closer{id: e.ID, reg: reg}
	if p.closeAction != nil {
		c.action = func() *Action { return p.closeAction(reg, e.ID) }
	}
	return Props{ID: e.ID, Payload: e.Payload, Close: c}
}

// Component renders the toasts of reg. With no toasts it writes nothing
// at all. If any toast has no renderer, nothing is written and the error
// wraps ErrUnknownRenderer.
func (p *Presenter) Component(reg *Registry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		entries := reg.List()
		if len(entries) == 0 {
			return nil
		}

		children := make([]templ.Component, 0, len(entries))
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			r, err := p.resolve(e.Strategy)
			if err != nil {
				return fmt.Errorf("toast %s: %w", e.ID, err)
			}
			child := r.Render(ctx, p.Props(reg, e))
			if p.container != nil {
				child = p.container(e.ID, child)
			}
			children = append(children, child)
		}

		for _, child := range children {
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Region renders the toasts of reg inside the region element:
//
//	<div id="toasts" class="toast-container">...</div>
//
// Place it in the page layout; close actions and the live stream replace
// it in place.
func (p *Presenter) Region(reg *Registry) templ.Component {
	return p.region(reg, nil)
}

// OOB renders the region as an out-of-band swap, for responses whose main
// target is some other element.
func (p *Presenter) OOB(reg *Registry) templ.Component {
	return p.region(reg, templ.Attributes{"hx-swap-oob": "true"})
}

func (p *Presenter) region(reg *Registry, extra templ.Attributes) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		attrs := templ.Attributes{"class": "toast-container"}
		for k, v := range extra {
			attrs[k] = v
		}
		if _, err := io.WriteString(w, `<div id="`+html.EscapeString(p.regionID)+`"`); err != nil {
			return err
		}
		if err := WriteAttrs(w, attrs); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		if err := p.Component(reg).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</div>")
		return err
	})
}

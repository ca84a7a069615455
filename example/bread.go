// Package example is a small bakery of toasts: two renderers, a page that
// adds them, and a counter of how many are showing.
package example

import (
	"context"
	"fmt"
	"html"
	"io"
	"time"

	"github.com/a-h/templ"
	"github.com/pthm/hxtoast"
)

// Kinds the demo registers with its presenter.
const (
	KindSourdough = "sourdough"
	KindRye       = "rye"
)

// DefaultRyeDuration is how long a Rye toast stays before fading away.
const DefaultRyeDuration = 5 * time.Second

// Sourdough stays until its button is clicked.
var Sourdough = hxtoast.RendererFunc(func(ctx context.Context, p hxtoast.Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="toast">`); err != nil {
			return err
		}
		if err := writeBody(w, p); err != nil {
			return err
		}
		if err := writeCloseButton(w, p.Close); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
})

// Rye fades out over Duration and closes itself when the animation ends.
type Rye struct {
	Duration time.Duration
}

// Render implements hxtoast.Renderer.
func (r Rye) Render(ctx context.Context, p hxtoast.Props) templ.Component {
	d := r.Duration
	if d <= 0 {
		d = DefaultRyeDuration
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		attrs := p.Close.On("animationend")
		attrs["class"] = "rye"
		attrs["style"] = fmt.Sprintf("animation-duration: %dms", d.Milliseconds())

		if _, err := io.WriteString(w, `<div`); err != nil {
			return err
		}
		if err := hxtoast.WriteAttrs(w, attrs); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `><div class="toast">`); err != nil {
			return err
		}
		if err := writeBody(w, p); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<p>This will disappear soon!</p>`); err != nil {
			return err
		}
		if err := writeCloseButton(w, p.Close); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div></div>`)
		return err
	})
}

// BreadBox centers each toast in a 65ch column.
func BreadBox(id hxtoast.ID, child templ.Component) templ.Component {
	return hxtoast.Div("bread-box")(id, child)
}

func writeBody(w io.Writer, p hxtoast.Props) error {
	_, err := fmt.Fprintf(w, `<p>this is toast #%s</p><p>something happened at %s</p>`,
		field(p.Payload, "count"), field(p.Payload, "date"))
	return err
}

// writeCloseButton writes nothing when no handler can close the toast.
func writeCloseButton(w io.Writer, c hxtoast.Closer) error {
	a := c.Action()
	if a == nil {
		return nil
	}
	attrs := a.Attrs()
	attrs["type"] = "button"
	if _, err := io.WriteString(w, `<button`); err != nil {
		return err
	}
	if err := hxtoast.WriteAttrs(w, attrs); err != nil {
		return err
	}
	_, err := io.WriteString(w, `>close this toast</button>`)
	return err
}

func field(p hxtoast.Payload, key string) string {
	v, ok := p[key]
	if !ok {
		return ""
	}
	return html.EscapeString(fmt.Sprint(v))
}

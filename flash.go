package hxtoast

import (
	"context"
	"fmt"
	"html"
	"io"
	"time"

	"github.com/a-h/templ"
)

// KindFlash is the kind under which NewPresenter registers FlashRenderer.
const KindFlash = "flash"

// Flash levels for toast notifications.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// DefaultFlashDismiss is how long a flash toast stays up when
// FlashRenderer.Dismiss is zero.
const DefaultFlashDismiss = 3 * time.Second

// Flash adds a one-line notification rendered by FlashRenderer.
//
//	hxtoast.Flash(hxtoast.MustRegistry(r.Context()), hxtoast.FlashSuccess, "Saved!")
func Flash(reg *Registry, level, message string) ID {
	return reg.Add(Payload{"level": level, "message": message}, Kind(KindFlash))
}

// FlashRenderer renders flash toasts:
//
//	<div class="toast toast-success" data-toast-id="..." ...>Saved!<button ...>×</button></div>
//
// The toast closes itself after Dismiss (DefaultFlashDismiss when zero,
// never when negative) or when its button is clicked. Both close paths
// need the presenter to be wired to a Handler; without one the button is
// left out.
type FlashRenderer struct {
	Dismiss time.Duration
}

// Render implements Renderer.
func (f FlashRenderer) Render(ctx context.Context, p Props) templ.Component {
	level, _ := p.Payload["level"].(string)
	message, _ := p.Payload["message"].(string)

	dismiss := f.Dismiss
	if dismiss == 0 {
		dismiss = DefaultFlashDismiss
	}

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		attrs := templ.Attributes{
			"class":         "toast toast-" + level,
			"data-toast-id": string(p.ID),
		}
		if dismiss > 0 {
			attrs["data-auto-dismiss"] = fmt.Sprint(dismiss.Milliseconds())
			for k, v := range p.Close.On(fmt.Sprintf("load delay:%dms", dismiss.Milliseconds())) {
				attrs[k] = v
			}
		}

		if _, err := io.WriteString(w, "<div"); err != nil {
			return err
		}
		if err := WriteAttrs(w, attrs); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ">"+html.EscapeString(message)); err != nil {
			return err
		}
		a := p.Close.Action()
		if a == nil {
			_, err := io.WriteString(w, "</div>")
			return err
		}

		button := a.Attrs()
		button["class"] = "toast-close"
		button["type"] = "button"
		button["aria-label"] = "Dismiss"
		if _, err := io.WriteString(w, "<button"); err != nil {
			return err
		}
		if err := WriteAttrs(w, button); err != nil {
			return err
		}
		_, err := io.WriteString(w, ">×</button></div>")
		return err
	})
}

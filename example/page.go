package example

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/pthm/hxtoast"
)

const styles = `
.toast { border: 1px solid black; margin: 1rem; padding: 1rem; }
.bread-box { width: 65ch; margin: 0 auto; }
.add-toast { font-size: 5rem; }
.rye {
  opacity: 0;
  max-height: 0rem;
  overflow: hidden;
  animation-name: fadeaway;
  animation-timing-function: ease-out;
  animation-iteration-count: 1;
  animation-fill-mode: none;
}
@keyframes fadeaway {
  0%, 80% { opacity: 1; max-height: 10rem; }
  100% { opacity: 0; max-height: 0rem; }
}
`

func page(h *hxtoast.Handler, reg *hxtoast.Registry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>hxtoast</title>
<script src="https://unpkg.com/htmx.org@2.0.4"></script>
<script src="https://unpkg.com/htmx-ext-ws@2.0.2/ws.js"></script>
<style>`+styles+`</style>
</head>
<body>
`)
		if err != nil {
			return err
		}
		if err := addButton(0).Render(ctx, w); err != nil {
			return err
		}
		if err := countBadge(reg.Len()).Render(ctx, w); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<hr>\n<div hx-ext=\"ws\" ws-connect=\"%sws\">", templ.EscapeString(h.Path())); err != nil {
			return err
		}
		if err := h.Presenter().Region(reg).Render(ctx, w); err != nil {
			return err
		}
		_, err = io.WriteString(w, "</div>\n</body>\n</html>\n")
		return err
	})
}

// addButton posts the next counter value and replaces itself with the
// response.
func addButton(count int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<button id="add-toast" class="add-toast" hx-post="/toasts" hx-vals='{"count":"%d"}' hx-swap="outerHTML">add toast</button>`,
			count)
		return err
	})
}

// countBadge reloads itself whenever a response announces a toast change.
func countBadge(n int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div id="count" hx-get="/count" hx-trigger="%s from:body" hx-swap="outerHTML">toasts right now: %d</div>`,
			hxtoast.ChangedEvent, n)
		return err
	})
}

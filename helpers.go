package hxtoast

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"sort"

	"github.com/a-h/templ"
)

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context.
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    hxtoast.Render(w, r, page())
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsHTMX returns true if the request originated from HTMX.
//
// HTMX sends HX-Request: true on all requests.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// WriteAttrs writes attrs as HTML attributes, each preceded by a space.
// Keys are written in sorted order. Boolean true renders the bare key,
// false omits it; other values are formatted and escaped.
func WriteAttrs(w io.Writer, attrs templ.Attributes) error {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		var err error
		switch v := attrs[k].(type) {
		case bool:
			if v {
				_, err = io.WriteString(w, " "+html.EscapeString(k))
			}
		case string:
			_, err = fmt.Fprintf(w, ` %s="%s"`, html.EscapeString(k), html.EscapeString(v))
		default:
			_, err = fmt.Fprintf(w, ` %s="%s"`, html.EscapeString(k), html.EscapeString(fmt.Sprint(v)))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func encodeQuery(vals map[string]string) string {
	q := url.Values{}
	for k, v := range vals {
		q.Set(k, v)
	}
	return q.Encode()
}

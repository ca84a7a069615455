package hxtoast

import (
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
)

// Action describes an HTMX request and renders it as element attributes.
//
// Builders return copies, so a base action can be specialised freely:
//
//	base := hxtoast.NewAction("/_t/close", http.MethodPost).Val("p", token)
//	base.Attrs()                          // fire on click
//	base.Trigger("animationend").Attrs()  // fire when the animation ends
type Action struct {
	url     string
	method  string
	vals    map[string]string
	target  string
	swap    SwapMode
	trigger string
}

// NewAction creates an action for the given URL and HTTP method.
func NewAction(url, method string) *Action {
	return &Action{url: url, method: method}
}

func (a *Action) clone() *Action {
	c := *a
	if a.vals != nil {
		c.vals = make(map[string]string, len(a.vals))
		for k, v := range a.vals {
			c.vals[k] = v
		}
	}
	return &c
}

// Val adds a request parameter. GET actions carry it in the query string,
// other methods in hx-vals.
func (a *Action) Val(key, value string) *Action {
	c := a.clone()
	if c.vals == nil {
		c.vals = make(map[string]string)
	}
	c.vals[key] = value
	return c
}

// Target sets the hx-target selector.
func (a *Action) Target(selector string) *Action {
	c := a.clone()
	c.target = selector
	return c
}

// Swap sets the hx-swap mode.
func (a *Action) Swap(mode SwapMode) *Action {
	c := a.clone()
	c.swap = mode
	return c
}

// Trigger sets the hx-trigger event.
func (a *Action) Trigger(event string) *Action {
	c := a.clone()
	c.trigger = event
	return c
}

// URL returns the action URL without parameters.
func (a *Action) URL() string {
	return a.url
}

// Method returns the HTTP method.
func (a *Action) Method() string {
	return a.method
}

// Attrs returns the HTMX attributes for the action.
func (a *Action) Attrs() templ.Attributes {
	attrs := WireAttrs(a.url, a.method, a.vals)
	if a.target != "" {
		attrs["hx-target"] = a.target
	}
	if a.swap != "" {
		attrs["hx-swap"] = string(a.swap)
	}
	if a.trigger != "" {
		attrs["hx-trigger"] = a.trigger
	}
	return attrs
}

// WireAttrs builds the minimal HTMX attributes for a request.
//
// For GET, returns hx-get with vals encoded in the URL query string.
// For POST/PUT/DELETE/PATCH, returns hx-post (etc.) with vals in hx-vals.
func WireAttrs(path, method string, vals map[string]string) templ.Attributes {
	attrs := templ.Attributes{}

	if method == http.MethodGet || method == "" {
		url := path
		if len(vals) > 0 {
			url = path + "?" + encodeQuery(vals)
		}
		attrs["hx-get"] = url
		return attrs
	}

	switch method {
	case http.MethodPost:
		attrs["hx-post"] = path
	case http.MethodPut:
		attrs["hx-put"] = path
	case http.MethodPatch:
		attrs["hx-patch"] = path
	case http.MethodDelete:
		attrs["hx-delete"] = path
	}
	if len(vals) > 0 {
		data, _ := json.Marshal(vals)
		attrs["hx-vals"] = string(data)
	}
	return attrs
}

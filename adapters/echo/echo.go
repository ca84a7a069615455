// Package hxtoastecho provides Echo framework integration for hxtoast.
//
// Mount the toast handler onto an Echo instance; every route then runs
// inside the session's toast scope:
//
//	e := echo.New()
//	toasts := hxtoastecho.Mount(e, provider, presenter, hxtoast.WithKey(key))
//
//	e.POST("/save", func(c echo.Context) error {
//	    hxtoast.Flash(hxtoastecho.Registry(c), hxtoast.FlashSuccess, "Saved!")
//	    return hxtoastecho.Render(c, toasts.Presenter().OOB(hxtoastecho.Registry(c)))
//	})
//
// Or mount on a group with middleware:
//
//	g := e.Group("/app", authMiddleware)
//	hxtoastecho.MountGroup(g, "/app", provider, presenter)
package hxtoastecho

import (
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/hxtoast"
)

// Mount creates a toast handler, mounts it on e at its path, and installs
// its session middleware for every route of e.
//
//	toasts := hxtoastecho.Mount(e, provider, presenter)
//
//	// With options:
//	toasts := hxtoastecho.Mount(e, provider, presenter, hxtoast.WithKey(key))
func Mount(e *echo.Echo, provider *hxtoast.Provider, presenter *hxtoast.Presenter, opts ...hxtoast.HandlerOption) *hxtoast.Handler {
	h := hxtoast.NewHandler(provider, presenter, opts...)
	e.Use(echo.WrapMiddleware(h.Middleware))
	e.Any(h.Path()+"*", echo.WrapHandler(h))
	return h
}

// MountGroup mounts a toast handler on a group whose routes share the
// group's middleware (auth, logging, etc.). prefix must be the group's
// prefix, so that close requests rendered into pages reach the group.
//
//	g := e.Group("/app", authMiddleware)
//	toasts := hxtoastecho.MountGroup(g, "/app", provider, presenter)
//	// close requests go to /app/_t/close
func MountGroup(g *echo.Group, prefix string, provider *hxtoast.Provider, presenter *hxtoast.Presenter, opts ...hxtoast.HandlerOption) *hxtoast.Handler {
	prefix = strings.TrimSuffix(prefix, "/")
	h := hxtoast.NewHandler(provider, presenter, append(opts, hxtoast.WithPathPrefix(prefix))...)
	rel := strings.TrimPrefix(h.Path(), prefix)

	g.Use(echo.WrapMiddleware(h.Middleware))
	g.Any(rel+"*", echo.WrapHandler(h))
	return h
}

// Registry returns the toast registry of the request's session.
// It panics with hxtoast.ErrNoScope outside a mounted Echo instance or group.
func Registry(c echo.Context) *hxtoast.Registry {
	return hxtoast.MustRegistry(c.Request().Context())
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return hxtoastecho.Render(c, myTemplate())
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}

package example

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/pthm/hxtoast"
)

// NewPresenter returns a presenter with the demo's renderers registered
// and every toast wrapped in a BreadBox.
func NewPresenter() *hxtoast.Presenter {
	return hxtoast.NewPresenter(
		hxtoast.WithRenderer(KindSourdough, Sourdough),
		hxtoast.WithRenderer(KindRye, Rye{}),
		hxtoast.WithContainer(BreadBox),
	)
}

// App serves the demo page.
type App struct {
	toasts *hxtoast.Handler
	logger *slog.Logger
	now    func() time.Time
}

// New creates the demo app on top of a toast handler. If logger is nil,
// slog.Default() is used.
func New(toasts *hxtoast.Handler, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		toasts: toasts,
		logger: logger,
		now:    time.Now,
	}
}

// Routes returns the demo router. The toast handler is mounted at its
// path and every route runs inside the session's toast scope.
func (a *App) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(a.toasts.Middleware)

	r.Get("/", a.handleIndex)
	r.Post("/toasts", a.handleAddToast)
	r.Get("/count", a.handleCount)
	r.Handle(a.toasts.Path()+"*", a.toasts)
	return r
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	reg := hxtoast.MustRegistry(r.Context())
	if err := hxtoast.Render(w, r, page(a.toasts, reg)); err != nil {
		a.logger.Error("render page", "error", err)
	}
}

// handleAddToast adds a toast, alternating Sourdough and Rye by the
// counter the button carries, and replies with the next button plus the
// refreshed toast region.
func (a *App) handleAddToast(w http.ResponseWriter, r *http.Request) {
	if !hxtoast.IsHTMX(r) {
		http.Error(w, "Forbidden: HTMX request required", http.StatusForbidden)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	count, err := strconv.Atoi(r.FormValue("count"))
	if err != nil || count < 0 {
		count = 0
	}

	kind := KindSourdough
	if count%2 == 1 {
		kind = KindRye
	}
	reg := hxtoast.MustRegistry(r.Context())
	id := reg.Add(hxtoast.Payload{
		"count": count,
		"date":  a.now().UTC().Format(isoMillis),
	}, hxtoast.Kind(kind))
	a.logger.Debug("toast added", "id", id, "kind", kind, "count", count)

	w.Header().Set("HX-Trigger", hxtoast.ChangedEvent)
	if err := hxtoast.Render(w, r, templ.Join(addButton(count+1), a.toasts.Presenter().OOB(reg))); err != nil {
		a.logger.Error("render add toast", "error", err)
	}
}

func (a *App) handleCount(w http.ResponseWriter, r *http.Request) {
	reg := hxtoast.MustRegistry(r.Context())
	if err := hxtoast.Render(w, r, countBadge(reg.Len())); err != nil {
		a.logger.Error("render count", "error", err)
	}
}

// isoMillis matches JavaScript's Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

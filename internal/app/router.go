package app

import (
	"log/slog"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/almoxarifado/catalogo/internal/newitem"
	"github.com/almoxarifado/catalogo/internal/observability"
	"github.com/almoxarifado/catalogo/internal/search"
	"github.com/almoxarifado/catalogo/internal/shared"
	"github.com/almoxarifado/catalogo/internal/view"
	"github.com/almoxarifado/catalogo/jobs"
	"github.com/almoxarifado/catalogo/web"
)

var assetTypes = map[string]string{
	".css": "text/css; charset=utf-8",
	".js":  "text/javascript; charset=utf-8",
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Templates      *view.Engine
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	SearchHandler  *search.Handler
	NewItemHandler *newitem.Handler
	JobHandler     *jobs.Handler
	Metrics        *observability.Metrics
}

// NewRouter mounts both catalog pages plus the operational endpoints.
func NewRouter(params RouterParams) http.Handler {
	if params.Logger == nil {
		params.Logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	})...)
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/", homePage(params))

	r.Route("/itens", func(r chi.Router) {
		if params.SearchHandler != nil {
			r.Route("/consulta", params.SearchHandler.MountRoutes)
			r.Get("/{id}", params.SearchHandler.Detail)
		}
		if params.NewItemHandler != nil {
			r.Route("/novo", params.NewItemHandler.MountRoutes)
		}
	})
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	r.Handle("/static/*", staticAssets())
	return r
}

func homePage(params RouterParams) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		data := view.TemplateData{Title: "Início", CurrentPath: r.URL.Path}
		data.CSRFToken, _ = params.CSRFManager.EnsureToken(r.Context(), sess)
		if sess != nil {
			data.Flash = sess.PopFlash()
		}
		if err := params.Templates.Render(w, http.StatusOK, "pages/home.html", data); err != nil {
			params.Logger.Error("render home", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}

// staticAssets serves the embedded CSS and JS with an hour of browser caching.
func staticAssets() http.Handler {
	files := http.StripPrefix("/static/", http.FileServer(http.FS(web.Static())))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if typ, ok := assetTypes[path.Ext(r.URL.Path)]; ok {
			w.Header().Set("Content-Type", typ)
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}

// Package router assembles the application's chi router.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fyyur/internal/flash"
	"fyyur/internal/logger"
	"fyyur/internal/web"
)

// RouteRegistrar is implemented by every page handler.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

type Deps struct {
	Render   *web.Renderer
	Flash    *flash.Manager
	DB       web.Pinger
	Logger   *logger.Logger
	Handlers []RouteRegistrar
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(web.RequestLogger(d.Logger))
	r.Use(d.Render.Recoverer)

	// Health checks skip the session cookie.
	r.Get("/healthz", web.Health(d.DB))

	r.Group(func(r chi.Router) {
		r.Use(d.Flash.Middleware)
		r.Get("/", d.Render.Home)
		for _, h := range d.Handlers {
			h.RegisterRoutes(r)
		}
		r.NotFound(d.Render.NotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})
	return r
}

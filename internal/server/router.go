package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"costbook/internal/commons"
)

// RouteRegistrar lets each module attach its own routes without the router
// knowing module internals.
type RouteRegistrar interface {
	Routes(r chi.Router)
}

func NewRouter(modules ...RouteRegistrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		commons.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(commons.RequireUser)
		for _, m := range modules {
			m.Routes(api)
		}
	})

	return r
}

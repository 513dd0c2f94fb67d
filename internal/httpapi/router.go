package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func routeParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// NewRouter builds the full HTTP surface, mirroring the teacher's chi
// middleware stack (api-gateway/cmd/api-gateway/main.go): request id,
// real ip, request logging, panic recovery, a request timeout, then CORS.
func NewRouter(h *Handler, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(identityFromHeaders)

	r.Get("/health", h.HealthCheck)
	r.Get("/opportunities", h.GetOpportunities)
	r.Get("/opportunities/stream", h.StreamOpportunities)
	r.Post("/opportunities/refresh", h.TriggerRefresh)
	r.Get("/opportunities/refresh/{taskID}", h.RefreshStatus)

	return r
}

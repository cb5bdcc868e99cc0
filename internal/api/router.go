/**
 * @description
 * This file sets up the HTTP router for the billing-service using the
 * go-chi/chi router. The webhook endpoint stays open (authenticity comes
 * from signature verification), manual actions sit behind the JWT
 * middleware, since the dashboard is the only legitimate caller.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new Chi router and registers the billing-service
// routes.
func NewRouter(h *Handler, jwksURL string) *chi.Mux {
	r := chi.NewRouter()

	// Setup middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Billing service is healthy"))
	})

	// Provider webhooks: unauthenticated transport, signature-verified.
	r.Post("/webhook", h.handleWebhook)

	// Manual reconciliation actions from the dashboard.
	r.Group(func(r chi.Router) {
		r.Use(ClerkAuthMiddleware(jwksURL))
		r.Post("/actions", h.handleAction)
	})

	return r
}

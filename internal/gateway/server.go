package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(g.metricsMiddleware)

	r.Get("/", g.handleHealth)
	r.Post("/webhook", g.handleWebhook)

	// Webhook registration works with either verb; operators curl both.
	r.Post("/setup-webhook", g.handleSetupWebhook)
	r.Get("/setup-webhook", g.handleSetupWebhook)

	r.Post("/generate-secret", g.handleGenerateSecret)
	r.Get("/test-token", g.handleTestToken)
	r.Get("/test-pdf", g.handleTestPDF)

	r.Handle("/metrics", promhttp.Handler())

	return r
}

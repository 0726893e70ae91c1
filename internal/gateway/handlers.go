package gateway

import (
	"net/http"
	"os"
	"time"

	"github.com/liemdt/zbot/internal/pdf"
)

// handleHealth reports configuration flags and a timestamp.
func (g *Gateway) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "running",
		"bot_configured":    g.config.Zalo.BotToken != "",
		"gemini_configured": g.config.Gemini.APIKey != "",
		"uptime":            time.Since(startTime).Round(time.Second).String(),
		"timestamp":         time.Now().Format(time.RFC3339),
	})
}

// handleSetupWebhook registers the configured webhook URL (and secret) with
// the messaging platform and mirrors the outcome.
func (g *Gateway) handleSetupWebhook(w http.ResponseWriter, r *http.Request) {
	if g.config.Zalo.BotToken == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "error": "zalo.bot_token not configured",
		})
		return
	}
	if g.config.Zalo.WebhookURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "error": "zalo.webhook_url not configured",
		})
		return
	}

	g.logger.Info("registering webhook", "url", g.config.Zalo.WebhookURL)

	err := g.client.SetWebhook(r.Context(), g.config.Zalo.WebhookURL, g.config.Zalo.WebhookSecret)
	if err != nil {
		g.logger.Error("webhook registration failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success":     false,
			"error":       err.Error(),
			"webhook_url": g.config.Zalo.WebhookURL,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"webhook_url": g.config.Zalo.WebhookURL,
	})
}

// handleGenerateSecret returns a fresh random URL-safe token for operator
// use in configuration. Nothing is persisted or applied.
func (g *Gateway) handleGenerateSecret(w http.ResponseWriter, _ *http.Request) {
	secret, err := GenerateSecret()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "error": "secret generation failed",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"secret":  secret,
		"hint":    "set zalo.webhook_secret (or ZALO_WEBHOOK_SECRET) to this value and re-run /setup-webhook",
	})
}

// handleTestToken validates the configured bot credential against the
// platform's self-identity endpoint.
func (g *Gateway) handleTestToken(w http.ResponseWriter, r *http.Request) {
	user, err := g.client.GetMe(r.Context())
	if err != nil {
		g.logger.Error("token test failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"success": false, "error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"bot":     user,
	})
}

// handleTestPDF renders a fixed demo document and returns it as a download.
func (g *Gateway) handleTestPDF(w http.ResponseWriter, _ *http.Request) {
	path, err := g.renderer.RenderFile(pdf.DemoSpec(), g.config.Exam.TempDir)
	if err != nil {
		g.logger.Error("demo pdf rendering failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "error": err.Error(),
		})
		return
	}
	defer func() { _ = os.Remove(path) }()

	data, err := os.ReadFile(path)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "error": err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="demo-exam.pdf"`)
	_, _ = w.Write(data)
}

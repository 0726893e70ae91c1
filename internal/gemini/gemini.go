// Package gemini is a streaming client for the Google Generative Language
// API. It assembles prompts with rolling conversation context, decides when
// to request web-search grounding, and degrades every failure to a fixed
// Vietnamese apology so the user always receives a reply.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// Apology is returned whenever the model yields no text or the call fails.
const Apology = "Xin lỗi, tôi đang gặp chút vấn đề. Bạn có thể thử lại sau không?"

// systemPrompt is the fixed persona instruction prepended to every request.
const systemPrompt = `Bạn là một trợ lý AI thông minh và hữu ích trên Zalo.
Hãy trả lời một cách tự nhiên, thân thiện và hữu ích.
Trả lời bằng tiếng Việt trừ khi được yêu cầu ngôn ngữ khác.
Giữ câu trả lời ngắn gọn và dễ hiểu (tối đa 500 từ).

Nếu câu hỏi cần thông tin mới nhất hoặc tìm kiếm trên internet,
hãy sử dụng công cụ tìm kiếm để có thông tin chính xác.`

// Client talks to the Generative Language API.
type Client struct {
	config Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a Gemini client. A nil logger falls back to slog.Default.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	cfg.Defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		config: cfg,
		// Streaming reads are bounded by per-request contexts, not a
		// client-wide timeout.
		http:   &http.Client{},
		logger: logger.With("component", "gemini"),
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.config.Model
}

// Complete builds the full prompt from the fixed system instruction, the
// optional rendered context block, and the current message, then streams the
// completion and returns the accumulated text. Grounding is requested when
// forceSearch is set or the message trips the keyword gate. Any failure,
// timeout, or empty stream yields the fixed Apology string; errors never
// reach the caller.
func (c *Client) Complete(ctx context.Context, msg, contextBlock string, forceSearch bool) string {
	prompt := msg
	if contextBlock != "" {
		prompt = fmt.Sprintf("Ngữ cảnh cuộc trò chuyện trước đó:\n%s\n\nTin nhắn hiện tại: %s", contextBlock, msg)
	}

	text, err := c.generate(ctx, systemPrompt+"\n\n"+prompt, forceSearch || ShouldSearch(msg))
	if err != nil {
		c.logger.Error("completion failed", "error", err)
		return Apology
	}
	if strings.TrimSpace(text) == "" {
		c.logger.Warn("completion yielded no text")
		return Apology
	}
	return text
}

// generate issues one streaming completion and accumulates the text parts.
func (c *Client) generate(ctx context.Context, prompt string, search bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: &generationConfig{
			// Unconstrained reasoning depth.
			ThinkingConfig: &thinkingConfig{ThinkingBudget: -1},
		},
	}
	if search {
		req.Tools = []tool{{GoogleSearch: &googleSearch{}}}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:streamGenerateContent?alt=sse",
		c.config.BaseURL, c.config.Model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		// Wrap without the raw URL to keep the key out of error text.
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return "", decodeAPIError(resp)
	}

	return readStream(ctx, resp.Body)
}

// generateRequest is the streamGenerateContent request body.
type generateRequest struct {
	Contents         []content         `json:"contents"`
	Tools            []tool            `json:"tools,omitempty"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type tool struct {
	GoogleSearch *googleSearch `json:"google_search,omitempty"`
}

type googleSearch struct{}

type generationConfig struct {
	ThinkingConfig *thinkingConfig `json:"thinkingConfig,omitempty"`
}

type thinkingConfig struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

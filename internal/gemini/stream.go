package gemini

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// scannerBufferSize is the max token size for the SSE line scanner. Grounded
// answers can carry long data lines; the default bufio.Scanner limit of
// ~64 KiB is too small.
const scannerBufferSize = 1 * 1024 * 1024 // 1 MB

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 * 1024

// streamChunk is one SSE payload from streamGenerateContent.
type streamChunk struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// readStream consumes a finite, single-pass SSE stream and concatenates the
// text fragments into one string. body is always closed.
func readStream(ctx context.Context, body io.ReadCloser) (string, error) {
	defer func() { _ = body.Close() }()

	// Close body on context cancellation to unblock the scanner.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = body.Close()
		case <-done:
		}
	}()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, scannerBufferSize), scannerBufferSize)

	var out strings.Builder

	for scanner.Scan() {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		line := scanner.Text()

		// SSE spec: lines starting with ":" are comments.
		if strings.HasPrefix(line, ":") {
			continue
		}
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return "", fmt.Errorf("gemini: decode stream chunk: %w", err)
		}

		for _, cand := range chunk.Candidates {
			for _, p := range cand.Content.Parts {
				out.WriteString(p.Text)
			}
		}
	}

	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("gemini: read stream: %w", err)
	}

	return out.String(), nil
}

// decodeAPIError extracts the API error message from a non-200 response.
func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var apiErr struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("gemini: api error %d (%s): %s",
			resp.StatusCode, apiErr.Error.Status, apiErr.Error.Message)
	}
	return fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)
}

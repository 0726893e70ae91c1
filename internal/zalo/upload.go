package zalo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// SendDocument delivers a file to the chat. It first uploads the file and
// sends the returned file_id, and on any failure falls back to a direct
// multipart sendDocument. An error is returned only when both paths fail;
// callers then fall back to a plain-text rendering.
func (c *Client) SendDocument(ctx context.Context, chatID, path, caption string) error {
	doc, uploadErr := c.uploadDocument(ctx, path)
	if uploadErr == nil {
		_, err := do[Message](ctx, c, "sendDocument", sendDocumentRequest{
			ChatID:   chatID,
			Document: doc.FileID,
			Caption:  caption,
		})
		if err == nil {
			return nil
		}
		uploadErr = err
	}

	if _, err := c.sendDocumentMultipart(ctx, chatID, path, caption); err != nil {
		return fmt.Errorf("zalo: send document: upload path: %v; direct path: %w", uploadErr, err)
	}
	return nil
}

// uploadDocument uploads a file via uploadDocument and returns its file_id.
func (c *Client) uploadDocument(ctx context.Context, path string) (*Document, error) {
	result, err := postFile[Document](ctx, c, "uploadDocument", path, nil)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// sendDocumentMultipart sends the file inline as multipart form data.
func (c *Client) sendDocumentMultipart(ctx context.Context, chatID, path, caption string) (*Message, error) {
	fields := map[string]string{"chat_id": chatID}
	if caption != "" {
		fields["caption"] = caption
	}
	return postFile[Message](ctx, c, "sendDocument", path, fields)
}

// postFile sends a multipart POST with the file under the "document" field
// plus any extra form fields, then decodes the standard API envelope.
func postFile[T any](ctx context.Context, c *Client, method, path string, fields map[string]string) (*T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("zalo: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("zalo: write %s field: %w", method, err)
		}
	}

	fw, err := w.CreateFormFile("document", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("zalo: create %s form file: %w", method, err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, fmt.Errorf("zalo: read %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zalo: finalize %s form: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("zalo: create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zalo: %s request failed: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("zalo: read %s response: %w", method, err)
	}

	var apiResp APIResponse[T]
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("zalo: decode %s response: %w", method, err)
	}
	if !apiResp.OK {
		return nil, &APIError{Code: apiResp.ErrorCode, Description: apiResp.Description}
	}
	return &apiResp.Result, nil
}

// Package upload provides the client for the external image-hosting API.
package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// ErrUploadFailed is returned for any upload failure: transport errors,
// non-2xx responses, and success=false bodies all collapse to this one
// error. Callers surface a generic message; details go to the log.
var ErrUploadFailed = errors.New("image upload failed")

const defaultTimeout = 30 * time.Second

// ImgBBClient uploads images to an ImgBB-style hosting API.
// The only contract assumed is a multipart POST returning
// {"success": bool, "data": {"url": "..."}} on success.
type ImgBBClient struct {
	uploadURL string
	apiKey    string
	http      *http.Client
	logger    *zap.Logger
}

// NewImgBBClient creates a client for the given upload endpoint and API key.
func NewImgBBClient(uploadURL, apiKey string, logger *zap.Logger) *ImgBBClient {
	return &ImgBBClient{
		uploadURL: uploadURL,
		apiKey:    apiKey,
		http:      &http.Client{Timeout: defaultTimeout},
		logger:    logger,
	}
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Upload posts the image as a multipart request and returns the hosted URL.
// No retries: a failed upload abandons the operation (the submission layer
// aborts before any store write).
func (c *ImgBBClient) Upload(ctx context.Context, filename string, image io.Reader) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	// Stream the multipart body so large images are never buffered whole.
	go func() {
		part, err := mw.CreateFormFile("image", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, image); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	endpoint, err := url.Parse(c.uploadURL)
	if err != nil {
		return "", fmt.Errorf("invalid upload URL %q: %w", c.uploadURL, err)
	}
	query := endpoint.Query()
	query.Set("key", c.apiKey)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), pr)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Image host unreachable", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("Image host returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return "", fmt.Errorf("%w: status %d", ErrUploadFailed, resp.StatusCode)
	}

	var decoded imgbbResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.logger.Warn("Failed to decode image host response", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if !decoded.Success || decoded.Data.URL == "" {
		c.logger.Warn("Image host rejected upload", zap.Bool("success", decoded.Success))
		return "", ErrUploadFailed
	}

	return decoded.Data.URL, nil
}

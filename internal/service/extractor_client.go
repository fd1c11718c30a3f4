package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// TextExtractor extracts the raw text of an uploaded PDF. Extraction is
// delegated to an external document service; an unreadable document surfaces
// as an error with no retry.
type TextExtractor interface {
	ExtractText(ctx context.Context, filename string, pdf io.Reader) (string, error)
}

type extractorClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

func NewExtractorClient(baseURL string, timeout time.Duration, logger zerolog.Logger) TextExtractor {
	return &extractorClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With().Str("service", "ExtractorClient").Logger(),
	}
}

type extractResponse struct {
	Text string `json:"text"`
}

func (c *extractorClient) ExtractText(ctx context.Context, filename string, pdf io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, pdf); err != nil {
		return "", fmt.Errorf("copying upload into form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("closing form: %w", err)
	}

	url := fmt.Sprintf("%s/extract-text", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request to extraction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return "", fmt.Errorf("extraction service returned status %d", resp.StatusCode)
		}
		c.logger.Error().
			Int("status_code", resp.StatusCode).
			Str("error_body", string(bodyBytes)).
			Msg("Extraction service returned error")
		return "", fmt.Errorf("extraction service returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var out extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding extraction response: %w", err)
	}
	return out.Text, nil
}

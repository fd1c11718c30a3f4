package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Summarizer produces a natural-language summary of selected chapters of a book.
type Summarizer interface {
	SummarizeBook(ctx context.Context, bookName, chapters, text string) (string, error)
}

type openAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	chunkChars int
	client     *http.Client
	logger     zerolog.Logger
}

// NewOpenAIClient builds a chat-completions summarizer. Text longer than
// chunkChars is summarized chunk by chunk and the partial summaries combined
// with one final call.
func NewOpenAIClient(apiKey, baseURL, model string, maxTokens, chunkChars int, logger zerolog.Logger) Summarizer {
	return &openAIClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		maxTokens:  maxTokens,
		chunkChars: chunkChars,
		client:     &http.Client{Timeout: 120 * time.Second},
		logger:     logger.With().Str("service", "OpenAIClient").Logger(),
	}
}

func (c *openAIClient) SummarizeBook(ctx context.Context, bookName, chapters, text string) (string, error) {
	chunks := splitText(text, c.chunkChars)
	if len(chunks) <= 1 {
		prompt := fmt.Sprintf("Summarize the book '%s', chapters '%s'. Text:\n%s", bookName, chapters, text)
		return c.complete(ctx, prompt)
	}

	c.logger.Debug().Int("chunks", len(chunks)).Msg("Input exceeds chunk budget, summarizing in parts")
	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		prompt := fmt.Sprintf(
			"Summarize part %d of %d of the book '%s', chapters '%s'. Text:\n%s",
			i+1, len(chunks), bookName, chapters, chunk,
		)
		partial, err := c.complete(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("summarizing part %d of %d: %w", i+1, len(chunks), err)
		}
		partials = append(partials, partial)
	}

	prompt := fmt.Sprintf(
		"Combine the following partial summaries of the book '%s', chapters '%s', into one coherent summary:\n%s",
		bookName, chapters, strings.Join(partials, "\n\n"),
	)
	return c.complete(ctx, prompt)
}

func (c *openAIClient) complete(ctx context.Context, prompt string) (string, error) {
	requestBody := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  c.maxTokens,
		"temperature": 0.7,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if response.Error != nil {
		return "", fmt.Errorf("summarization API error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

// splitText splits text into pieces of at most maxChars, preferring paragraph
// boundaries. maxChars <= 0 disables splitting.
func splitText(text string, maxChars int) []string {
	if maxChars <= 0 || len(text) <= maxChars {
		return []string{text}
	}

	paragraphs := strings.Split(text, "\n\n")
	var chunks []string
	var current strings.Builder
	for _, p := range paragraphs {
		// A single paragraph over budget is split hard.
		for len(p) > maxChars {
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			chunks = append(chunks, p[:maxChars])
			p = p[maxChars:]
		}
		if current.Len() > 0 && current.Len()+len(p)+2 > maxChars {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

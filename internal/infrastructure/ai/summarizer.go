package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Summarizer produces a short caption for a newly added media item.
// A nil or failing summarizer never blocks a media write: callers treat
// an empty caption as "no summary".
type Summarizer interface {
	Summarize(ctx context.Context, title, mediaType string, filenames []string) string
}

// HTTPSummarizer calls an external model endpoint. Configured via
// AI_ENDPOINT; when the endpoint is empty the feature is disabled.
type HTTPSummarizer struct {
	endpoint string
	client   *http.Client
}

func NewHTTPSummarizer(endpoint string, timeout time.Duration) *HTTPSummarizer {
	return &HTTPSummarizer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSummarizer) Summarize(ctx context.Context, title, mediaType string, filenames []string) string {
	if s.endpoint == "" {
		return ""
	}

	prompt := fmt.Sprintf(
		"Write one short sentence describing a band website %s gallery item titled %q (files: %s).",
		mediaType, title, strings.Join(filenames, ", "),
	)

	body, err := json.Marshal(map[string]interface{}{
		"prompt":     prompt,
		"max_tokens": 100,
	})
	if err != nil {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return ""
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("[AI] Summary request failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("[AI] Summary request rejected")
		return ""
	}

	var out struct {
		Completion string `json:"completion"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ""
	}
	return strings.TrimSpace(out.Completion)
}

// Disabled is a no-op summarizer for deployments without a model endpoint.
type Disabled struct{}

func (Disabled) Summarize(context.Context, string, string, []string) string { return "" }

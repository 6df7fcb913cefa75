package transcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client submits video transcode jobs to an external transcoder
// service. The service calls back via the transcode webhook when the
// job finishes, carrying the media id it was given here.
type Client struct {
	endpoint string
	client   *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether a transcoder endpoint is configured.
func (c *Client) Enabled() bool {
	return c.endpoint != ""
}

// SubmitJob asks the transcoder to produce a preview frame for a video.
func (c *Client) SubmitJob(ctx context.Context, mediaID, s3Key string) error {
	body, err := json.Marshal(map[string]string{
		"media_id":   mediaID,
		"source_key": s3Key,
		"output_key": fmt.Sprintf("thumbnails/%s/thumb.jpg", mediaID),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/jobs", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit transcode job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("transcoder returned status %d", resp.StatusCode)
	}
	return nil
}

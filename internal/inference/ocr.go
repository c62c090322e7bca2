package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2/google"

	"github.com/j-veylop/uranus/internal/logger"
)

// OCR extracts text from an image. An empty string means no text was found.
type OCR interface {
	ExtractText(ctx context.Context, imageBase64 string) (string, error)
}

const (
	visionEndpoint = "https://vision.googleapis.com/v1/images:annotate"
	visionScope    = "https://www.googleapis.com/auth/cloud-vision"
)

// VisionClient calls the Cloud Vision TEXT_DETECTION feature. With an API
// key requests are keyed; otherwise Application Default Credentials are
// resolved on first use.
type VisionClient struct {
	endpoint string
	apiKey   string

	mu     sync.Mutex
	client *http.Client
}

// VisionOption configures a VisionClient.
type VisionOption func(*VisionClient)

// WithVisionEndpoint overrides the annotate endpoint.
func WithVisionEndpoint(endpoint string) VisionOption {
	return func(v *VisionClient) { v.endpoint = endpoint }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) VisionOption {
	return func(v *VisionClient) { v.client = c }
}

// NewVisionClient creates a Vision client.
func NewVisionClient(apiKey string, opts ...VisionOption) *VisionClient {
	v := &VisionClient{endpoint: visionEndpoint, apiKey: apiKey}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

type annotateRequest struct {
	Requests []annotateImageRequest `json:"requests"`
}

type annotateImageRequest struct {
	Image struct {
		Content string `json:"content"`
	} `json:"image"`
	Features []struct {
		Type string `json:"type"`
	} `json:"features"`
}

type annotateResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

func (v *VisionClient) httpClient(ctx context.Context) (*http.Client, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.client != nil {
		return v.client, nil
	}
	if v.apiKey != "" {
		v.client = &http.Client{Timeout: 30 * time.Second}
		return v.client, nil
	}

	// The token source outlives this request.
	client, err := google.DefaultClient(context.WithoutCancel(ctx), visionScope)
	if err != nil {
		return nil, fmt.Errorf("failed to find Vision credentials: %w", err)
	}
	client.Timeout = 30 * time.Second
	v.client = client
	return v.client, nil
}

// ExtractText returns the full text detected in the image, or "".
func (v *VisionClient) ExtractText(ctx context.Context, imageBase64 string) (string, error) {
	client, err := v.httpClient(ctx)
	if err != nil {
		return "", err
	}

	var img annotateImageRequest
	img.Image.Content = imageBase64
	img.Features = append(img.Features, struct {
		Type string `json:"type"`
	}{Type: "TEXT_DETECTION"})

	body, err := json.Marshal(annotateRequest{Requests: []annotateImageRequest{img}})
	if err != nil {
		return "", fmt.Errorf("failed to encode annotate request: %w", err)
	}

	endpoint := v.endpoint
	if v.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(v.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create annotate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("annotate request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read annotate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("annotate request failed (status %d): %s", resp.StatusCode, string(data))
	}

	var parsed annotateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse annotate response: %w", err)
	}
	if len(parsed.Responses) == 0 {
		return "", nil
	}

	first := parsed.Responses[0]
	if first.Error != nil && first.Error.Message != "" {
		return "", fmt.Errorf("text detection failed: %s", first.Error.Message)
	}
	// The first annotation holds the full text.
	if len(first.TextAnnotations) == 0 {
		return "", nil
	}
	return first.TextAnnotations[0].Description, nil
}

package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultClassifierBaseURL = "https://api-inference.huggingface.co"
	classifierModel          = "google/vit-base-patch16-224"
)

// Prediction is one image-classification result.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier calls the Hugging Face inference API to label a food image.
type Classifier struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
}

// Classify submits a base64-encoded image and returns the top prediction.
func (c *Classifier) Classify(ctx context.Context, imageBase64 string) (Prediction, error) {
	if strings.TrimSpace(c.Token) == "" {
		return Prediction{}, fmt.Errorf("missing Hugging Face API token")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultClassifierBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	payload, err := json.Marshal(map[string]string{"inputs": imageBase64})
	if err != nil {
		return Prediction{}, fmt.Errorf("marshal classify payload: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", baseURL, classifierModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Prediction{}, fmt.Errorf("create classify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("execute classify request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Prediction{}, fmt.Errorf("read classify response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return Prediction{}, fmt.Errorf("invalid Hugging Face API token")
	case http.StatusTooManyRequests:
		return Prediction{}, fmt.Errorf("Hugging Face rate limit exceeded")
	case http.StatusServiceUnavailable:
		return Prediction{}, fmt.Errorf("model is loading, try again shortly")
	default:
		return Prediction{}, fmt.Errorf("classify request failed with status %d", resp.StatusCode)
	}

	var predictions []Prediction
	if err := json.Unmarshal(body, &predictions); err != nil {
		return Prediction{}, fmt.Errorf("decode classify response: %w", err)
	}
	if len(predictions) == 0 || predictions[0].Label == "" {
		return Prediction{}, fmt.Errorf("no label returned from model")
	}
	return predictions[0], nil
}

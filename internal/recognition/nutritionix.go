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

const defaultNutritionBaseURL = "https://trackapi.nutritionix.com"

// Nutrition is the per-food macro data returned by the lookup API.
type Nutrition struct {
	FoodName string  `json:"food_name"`
	Calories float64 `json:"nf_calories"`
	Protein  float64 `json:"nf_protein"`
	Carbs    float64 `json:"nf_total_carbohydrate"`
	Fats     float64 `json:"nf_total_fat"`
}

// NutritionClient calls the Nutritionix natural-language nutrients API.
type NutritionClient struct {
	AppID      string
	AppKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Lookup resolves a food name to its nutrition data via natural-language
// query. Returns the first (best) match.
func (c *NutritionClient) Lookup(ctx context.Context, foodName string) (Nutrition, error) {
	if strings.TrimSpace(c.AppID) == "" || strings.TrimSpace(c.AppKey) == "" {
		return Nutrition{}, fmt.Errorf("missing Nutritionix API credentials")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultNutritionBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}

	payload, err := json.Marshal(map[string]string{"query": foodName})
	if err != nil {
		return Nutrition{}, fmt.Errorf("marshal nutrition payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v2/natural/nutrients", bytes.NewReader(payload))
	if err != nil {
		return Nutrition{}, fmt.Errorf("create nutrition request: %w", err)
	}
	req.Header.Set("x-app-id", c.AppID)
	req.Header.Set("x-app-key", c.AppKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return Nutrition{}, fmt.Errorf("execute nutrition request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Nutrition{}, fmt.Errorf("read nutrition response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return Nutrition{}, fmt.Errorf("invalid Nutritionix API credentials")
	case http.StatusTooManyRequests:
		return Nutrition{}, fmt.Errorf("Nutritionix rate limit exceeded")
	default:
		return Nutrition{}, fmt.Errorf("nutrition request failed with status %d", resp.StatusCode)
	}

	var parsed struct {
		Foods []Nutrition `json:"foods"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Nutrition{}, fmt.Errorf("decode nutrition response: %w", err)
	}
	if len(parsed.Foods) == 0 {
		return Nutrition{}, fmt.Errorf("no nutrition data found for %q", foodName)
	}
	return parsed.Foods[0], nil
}

package shop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://walmart2.p.rapidapi.com"

// Product is one catalog entry in the shop view.
type Product struct {
	Name             string  `json:"name"`
	Image            string  `json:"image"`
	Price            string  `json:"price"`
	Rating           float64 `json:"rating"`
	ShortDescription string  `json:"short_description"`
	Category         string  `json:"category"`
}

// Client proxies product searches to the Walmart catalog via RapidAPI.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Search queries the catalog and maps the upstream items to Products.
func (c *Client) Search(ctx context.Context, query string) ([]Product, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, fmt.Errorf("missing RapidAPI key")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}

	endpoint := fmt.Sprintf("%s/searchV2?query=%s&page=1", baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create shop request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.APIKey)
	req.Header.Set("X-RapidAPI-Host", strings.TrimPrefix(baseURL, "https://"))

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute shop request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read shop response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("shop request failed with status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode shop response: %w", err)
	}

	products := make([]Product, 0, len(parsed.Data.SearchItems))
	for _, item := range parsed.Data.SearchItems {
		p := Product{
			Name:             item.Title,
			Image:            item.ImageURL,
			Price:            item.PrimaryOffer.OfferPrice,
			Rating:           item.AverageRating,
			ShortDescription: item.ShortDescription,
			Category:         "Supplements",
		}
		if p.Price == "" {
			p.Price = "$--"
		}
		if len(item.CategoryPath) > 0 {
			p.Category = item.CategoryPath[0]
		}
		products = append(products, p)
	}
	return products, nil
}

type searchResponse struct {
	Data struct {
		SearchItems []struct {
			Title        string `json:"title"`
			ImageURL     string `json:"imageUrl"`
			PrimaryOffer struct {
				OfferPrice string `json:"offerPrice"`
			} `json:"primaryOffer"`
			AverageRating    float64  `json:"averageRating"`
			ShortDescription string   `json:"shortDescription"`
			CategoryPath     []string `json:"categoryPath"`
		} `json:"searchItems"`
	} `json:"data"`
}

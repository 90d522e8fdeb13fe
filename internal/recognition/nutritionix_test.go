package recognition

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/natural/nutrients" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-app-id"); got != "app-id" {
			t.Errorf("x-app-id = %q", got)
		}
		if got := r.Header.Get("x-app-key"); got != "app-key" {
			t.Errorf("x-app-key = %q", got)
		}

		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload["query"] != "banana" {
			t.Errorf("query = %q, want banana", payload["query"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"foods": [
			{"food_name": "banana", "nf_calories": 105.02, "nf_protein": 1.29, "nf_total_carbohydrate": 26.95, "nf_total_fat": 0.39},
			{"food_name": "plantain", "nf_calories": 218}
		]}`))
	}))
	defer server.Close()

	c := &NutritionClient{AppID: "app-id", AppKey: "app-key", BaseURL: server.URL}
	got, err := c.Lookup(context.Background(), "banana")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	if got.FoodName != "banana" {
		t.Errorf("FoodName = %q, want banana", got.FoodName)
	}
	if got.Calories != 105.02 {
		t.Errorf("Calories = %v, want 105.02", got.Calories)
	}
	if got.Protein != 1.29 || got.Carbs != 26.95 || got.Fats != 0.39 {
		t.Errorf("macros = (%v, %v, %v)", got.Protein, got.Carbs, got.Fats)
	}
}

func TestLookup_MissingCredentials(t *testing.T) {
	c := &NutritionClient{AppID: "app-id"}
	if _, err := c.Lookup(context.Background(), "banana"); err == nil {
		t.Error("expected error for missing credentials, got nil")
	}
}

func TestLookup_NoFoods(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"foods": []}`))
	}))
	defer server.Close()

	c := &NutritionClient{AppID: "app-id", AppKey: "app-key", BaseURL: server.URL}
	_, err := c.Lookup(context.Background(), "unobtainium stew")
	if err == nil {
		t.Fatal("expected error for empty foods, got nil")
	}
	if !strings.Contains(err.Error(), "unobtainium stew") {
		t.Errorf("error should name the food: %q", err)
	}
}

func TestLookup_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := &NutritionClient{AppID: "app-id", AppKey: "app-key", BaseURL: server.URL}
	_, err := c.Lookup(context.Background(), "banana")
	if err == nil || !strings.Contains(err.Error(), "credentials") {
		t.Errorf("error = %v, want credentials error", err)
	}
}

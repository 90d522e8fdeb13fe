package recognition

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/models/google/vit-base-patch16-224") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}

		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload["inputs"] != "aGVsbG8=" {
			t.Errorf("inputs = %q", payload["inputs"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"label": "pizza", "score": 0.93},
			{"label": "flatbread", "score": 0.04}
		]`))
	}))
	defer server.Close()

	c := &Classifier{Token: "test-token", BaseURL: server.URL}
	pred, err := c.Classify(context.Background(), "aGVsbG8=")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if pred.Label != "pizza" {
		t.Errorf("Label = %q, want pizza", pred.Label)
	}
	if pred.Score != 0.93 {
		t.Errorf("Score = %v, want 0.93", pred.Score)
	}
}

func TestClassify_MissingToken(t *testing.T) {
	c := &Classifier{}
	if _, err := c.Classify(context.Background(), "aGVsbG8="); err == nil {
		t.Error("expected error for missing token, got nil")
	}
}

func TestClassify_ErrorStatuses(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		wantMsg string
	}{
		{"unauthorized", http.StatusUnauthorized, "invalid Hugging Face API token"},
		{"rate limited", http.StatusTooManyRequests, "rate limit"},
		{"model loading", http.StatusServiceUnavailable, "model is loading"},
		{"server error", http.StatusInternalServerError, "status 500"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			c := &Classifier{Token: "test-token", BaseURL: server.URL}
			_, err := c.Classify(context.Background(), "aGVsbG8=")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error = %q, want substring %q", err, tc.wantMsg)
			}
		})
	}
}

func TestClassify_EmptyPredictions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := &Classifier{Token: "test-token", BaseURL: server.URL}
	if _, err := c.Classify(context.Background(), "aGVsbG8="); err == nil {
		t.Error("expected error for empty prediction list, got nil")
	}
}

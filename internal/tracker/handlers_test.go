package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const testCronSecret = "cron-secret"

func newResetRouter(t *testing.T) (*gin.Engine, *Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newTestStore(t)
	router := gin.New()
	router.POST("/api/daily-reset", DailyResetHandler(store, testCronSecret, nil))
	router.PUT("/api/daily-reset", ManualResetHandler(store, testCronSecret))
	return router, store
}

func resetRequest(router *gin.Engine, method, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/daily-reset", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDailyResetHandler_RejectsBadSecret(t *testing.T) {
	router, _ := newResetRouter(t)

	cases := []struct {
		name   string
		body   string
		bearer string
	}{
		{"no credentials", `{}`, ""},
		{"wrong header secret", `{}`, "wrong"},
		{"wrong body secret", `{"authorization": "wrong"}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := resetRequest(router, http.MethodPost, tc.body, tc.bearer)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestDailyResetHandler_RejectsWhenSecretUnset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/daily-reset", DailyResetHandler(newTestStore(t), "", nil))

	w := resetRequest(router, http.MethodPost, `{"authorization": ""}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 when no secret is configured", w.Code)
	}
}

// TestDailyResetHandler_HeaderAuth runs the synchronous batch with the secret
// in the Authorization header.
func TestDailyResetHandler_HeaderAuth(t *testing.T) {
	router, _ := newResetRouter(t)

	w := resetRequest(router, http.MethodPost, `{}`, testCronSecret)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Message        string `json:"message"`
		UsersProcessed int    `json:"usersProcessed"`
		Date           string `json:"date"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.UsersProcessed != 0 {
		t.Errorf("usersProcessed = %d, want 0 on an empty day", resp.UsersProcessed)
	}
	wantDate := DayStart(time.Now().UTC().AddDate(0, 0, -1)).Format(time.DateOnly)
	if resp.Date != wantDate {
		t.Errorf("date = %q, want %q", resp.Date, wantDate)
	}
}

// TestDailyResetHandler_BodyAuth accepts the secret as a body field for cron
// clients that cannot set headers.
func TestDailyResetHandler_BodyAuth(t *testing.T) {
	router, store := newResetRouter(t)

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	if _, err := store.AddIntake(context.Background(), 5, IntakeInput{FoodName: "soup", Calories: 250, Date: yesterday}); err != nil {
		t.Fatalf("AddIntake: %v", err)
	}

	w := resetRequest(router, http.MethodPost, `{"authorization": "`+testCronSecret+`"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		UsersProcessed int `json:"usersProcessed"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.UsersProcessed != 1 {
		t.Errorf("usersProcessed = %d, want 1", resp.UsersProcessed)
	}
}

func TestManualResetHandler_RequiresSecret(t *testing.T) {
	router, _ := newResetRouter(t)

	w := resetRequest(router, http.MethodPut, `{"userId": 9}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without the shared secret", w.Code)
	}
}

func TestManualResetHandler_RequiresUserID(t *testing.T) {
	router, _ := newResetRouter(t)

	w := resetRequest(router, http.MethodPut, `{}`, testCronSecret)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 without userId", w.Code)
	}
}

func TestManualResetHandler_RecomputesUser(t *testing.T) {
	router, store := newResetRouter(t)

	if _, err := store.AddIntake(context.Background(), 9, IntakeInput{FoodName: "pasta", Calories: 600}); err != nil {
		t.Fatalf("AddIntake: %v", err)
	}

	w := resetRequest(router, http.MethodPut, `{"userId": 9}`, testCronSecret)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	summary, err := store.DailySummaryFor(context.Background(), 9, time.Now())
	if err != nil {
		t.Fatalf("DailySummaryFor: %v", err)
	}
	if summary == nil || summary.TotalConsumed != 600 {
		t.Errorf("summary = %+v, want TotalConsumed 600", summary)
	}
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"pocketbook-server/src/db"
	"pocketbook-server/src/models"
	"testing"
	"time"
)

const testSecret = "test-secret"

type userSet map[string]bool

func (u userSet) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if !u[id] {
		return nil, db.ErrNotFound
	}
	return &models.User{ID: id}, nil
}

func protected() http.Handler {
	return JWTAuthMiddleware(testSecret, userSet{"user-1": true})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "no user", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(userID))
	}))
}

func TestJWTAuthMiddleware(t *testing.T) {
	valid, err := IssueToken(testSecret, "user-1", "a@example.com", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	expired, _ := IssueToken(testSecret, "user-1", "a@example.com", -time.Hour)
	forged, _ := IssueToken("other-secret", "user-1", "a@example.com", time.Hour)
	deleted, _ := IssueToken(testSecret, "user-2", "b@example.com", time.Hour)

	tests := []struct {
		name     string
		header   string
		cookie   string
		wantCode int
	}{
		{"bearer token", "Bearer " + valid, "", http.StatusOK},
		{"session cookie", "", valid, http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + forged, "", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", "", http.StatusUnauthorized},
		{"unknown user", "Bearer " + deleted, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			protected().ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusOK && rec.Body.String() != "user-1" {
				t.Errorf("user id = %q, want user-1", rec.Body.String())
			}
		})
	}
}

func TestDemoModeMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		demo     bool
		method   string
		path     string
		wantCode int
	}{
		{true, http.MethodGet, "/api/accounts", http.StatusOK},
		{true, http.MethodPost, "/api/login", http.StatusOK},
		{true, http.MethodPost, "/api/accounts", http.StatusForbidden},
		{true, http.MethodDelete, "/api/accounts/1", http.StatusForbidden},
		{false, http.MethodDelete, "/api/accounts/1", http.StatusOK},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		DemoModeMiddleware(tt.demo)(ok).ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.wantCode {
			t.Errorf("demo=%v %s %s = %d, want %d", tt.demo, tt.method, tt.path, rec.Code, tt.wantCode)
		}
	}
}

func TestCORSMiddleware(t *testing.T) {
	h := CORSMiddleware([]string{"https://app.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("allowed origin header = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected allow origin %q", got)
	}
}

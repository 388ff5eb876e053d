package httputil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gfarias-dados/pesquisa-preco/pkg/config"
	"github.com/gfarias-dados/pesquisa-preco/pkg/logger"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	cfg := &config.Config{
		Env:         "test",
		LogLevel:    "error",
		HTTPTimeout: 5 * time.Second,
	}
	return New(cfg, logger.NewWriter(io.Discard, "error"))
}

func TestNew(t *testing.T) {
	client := testClient(t)
	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.httpClient == nil {
		t.Error("Expected http.Client to be initialized")
	}

	if client.retryConfig.MaxRetries != 0 {
		t.Errorf("Expected MaxRetries=0 by default, got %d", client.retryConfig.MaxRetries)
	}
}

func TestGetSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(t).WithBearerToken("secret")

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	resp.Body.Close()

	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer secret")
	}
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[{"id":1},{"id":2}]}`)
	}))
	defer server.Close()

	client := testClient(t)

	var out struct {
		Data []struct {
			ID int `json:"id"`
		} `json:"data"`
	}
	if err := client.GetJSON(context.Background(), server.URL, &out); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}

	if len(out.Data) != 2 || out.Data[1].ID != 2 {
		t.Errorf("decoded = %+v, want 2 entries", out.Data)
	}
}

func TestGetJSONNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	client := testClient(t)

	var out map[string]interface{}
	err := client.GetJSON(context.Background(), server.URL, &out)
	if err == nil {
		t.Fatal("GetJSON() expected error for 403 response")
	}
}

func TestNoRetryByDefault(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(t)

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	resp.Body.Close()

	if calls != 1 {
		t.Errorf("server called %d times, want 1 (no retry)", calls)
	}
}

func TestWithRetryRetriesOn5xx(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(t).WithRetry(3, time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 after retries", resp.StatusCode)
	}
	if calls != 3 {
		t.Errorf("server called %d times, want 3", calls)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{500, true},
		{503, true},
		{429, true},
		{200, false},
		{404, false},
		{403, false},
	}

	for _, tt := range tests {
		if got := IsRetryableError(tt.code); got != tt.want {
			t.Errorf("IsRetryableError(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

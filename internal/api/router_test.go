package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"snipr/internal/api/handlers"
	"snipr/internal/api/middleware"
	"snipr/internal/engine/alias"
	"snipr/internal/engine/urls"
	"snipr/internal/platform/database"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	alphabet, err := alias.NewStripped("12345acdinrvw", 1, 4)
	if err != nil {
		t.Fatalf("Failed to build alphabet: %v", err)
	}
	codec, err := alias.NewCodec(alphabet)
	if err != nil {
		t.Fatalf("Failed to build codec: %v", err)
	}

	repo := urls.NewRepository(db, codec)
	cache := urls.NewResolveCache(time.Minute)
	baseURL := "http://short.test"

	return NewRouter(&Dependencies{
		ShortenHandler:  handlers.NewShortenHandler(repo, codec, nil, baseURL, 5, 2),
		RedirectHandler: handlers.NewRedirectHandler(repo, codec, cache, baseURL),
		HealthHandler:   handlers.NewHealthHandler(db),
		RateLimiter: middleware.NewRateLimiter(map[string]int{
			"shorten":  100,
			"redirect": 100,
		}),
	})
}

func TestRouterShortenThenFollow(t *testing.T) {
	router := newTestRouter(t)

	body := bytes.NewBufferString(`{"url": "https://example.com/article"}`)
	req := httptest.NewRequest("POST", "/api/v1/urls", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("shorten returned status %v, want %v", rr.Code, http.StatusCreated)
	}
	var resp struct {
		Alias string `json:"alias"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	// Root-level alias paths are served by the fallback handler.
	req = httptest.NewRequest("GET", "/"+resp.Alias, nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("redirect returned status %v, want %v", rr.Code, http.StatusFound)
	}
	if loc := rr.Header().Get("Location"); loc != "https://example.com/article" {
		t.Errorf("Location = %q, want the registered target", loc)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("Expected the fallback route to carry a request id")
	}

	// Static routes stay reachable alongside the fallback.
	req = httptest.NewRequest("GET", "/preview/"+resp.Alias, nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("preview returned status %v, want %v", rr.Code, http.StatusOK)
	}

	req = httptest.NewRequest("GET", "/health", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("health returned status %v, want %v", rr.Code, http.StatusOK)
	}
}

func TestRouterUnknownPathIs404(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/no/such/path", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("nested path returned status %v, want %v", rr.Code, http.StatusNotFound)
	}
}

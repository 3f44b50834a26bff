package infra

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCacheGetSet(t *testing.T) {
	c := NewCache(time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss on empty cache")
	}

	c.Set("k", 42)
	v, ok := c.Get("k")
	if !ok || v.(int) != 42 {
		t.Errorf("got %v, %v; want 42, true", v, ok)
	}

	c.Invalidate("k")
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after invalidate")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(time.Minute)
	c.SetWithTTL("k", "v", -time.Second) // already expired
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss on expired entry")
	}

	c.Cleanup()
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	if n != 0 {
		t.Errorf("cleanup left %d entries", n)
	}
}

func TestRateLimiterHonorsContext(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); err == nil {
		t.Error("expected context error while exhausted")
	}
}

func TestDoGet(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, status, err := DoGet(context.Background(), srv.URL, map[string]string{"Accept": "application/json"})
	if err != nil {
		t.Fatalf("DoGet: %v", err)
	}
	defer body.Close()

	if status != http.StatusOK {
		t.Errorf("status = %d", status)
	}
	data, _ := io.ReadAll(body)
	if string(data) != "ok" {
		t.Errorf("body = %q", data)
	}
	if gotUA == "" || gotUA == "Go-http-client/1.1" {
		t.Errorf("user agent not set: %q", gotUA)
	}
	if gotAccept != "application/json" {
		t.Errorf("accept = %q", gotAccept)
	}
}

func TestDoGetStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	body, status, err := DoGet(context.Background(), srv.URL, nil)
	if body != nil {
		body.Close()
		t.Fatal("expected nil body on error")
	}
	if status != http.StatusUnauthorized {
		t.Errorf("status = %d", status)
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("IsStatus(401) = false for %v", err)
	}
	if IsStatus(err, http.StatusNotFound) {
		t.Error("IsStatus(404) matched a 401")
	}
}

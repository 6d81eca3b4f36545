package tracking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/guardians/awareness-portal/internal/simtoken"
)

// fakeRecorder verifies tokens with a real codec and counts recorded clicks.
type fakeRecorder struct {
	mu     sync.Mutex
	codec  *simtoken.Codec
	clicks []string
	err    error
}

func (f *fakeRecorder) RecordClick(_ context.Context, token string) (*simtoken.Claims, error) {
	claims, err := f.codec.Decode(token)
	if err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	f.clicks = append(f.clicks, claims.Email)
	f.mu.Unlock()
	return claims, nil
}

func newTestHandler(t *testing.T) (*Handler, *fakeRecorder, *simtoken.Codec) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	codec := simtoken.NewCodec("test-key", time.Hour)
	rec := &fakeRecorder{codec: codec}
	return NewHandler(rec, NewDedup(client, 5*time.Minute)), rec, codec
}

func get(h *Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)
	return w
}

func TestLandingRecordsClick(t *testing.T) {
	h, rec, codec := newTestHandler(t)
	token, _ := codec.Encode("Q1-Phish", "bob@corp.test")

	w := get(h, "/landing?tk="+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "simulated phishing link") {
		t.Fatalf("unexpected page: %s", w.Body.String())
	}
	if len(rec.clicks) != 1 || rec.clicks[0] != "bob@corp.test" {
		t.Fatalf("clicks recorded: %v", rec.clicks)
	}
}

func TestLandingBadTokenRecordsNothing(t *testing.T) {
	h, rec, _ := newTestHandler(t)

	for _, target := range []string{"/landing", "/landing?tk=", "/landing?tk=garbage.tok"} {
		w := get(h, target)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d", target, w.Code)
		}
		if !strings.Contains(w.Body.String(), "invalid or has expired") {
			t.Fatalf("%s: expected invalid-link page", target)
		}
	}
	if len(rec.clicks) != 0 {
		t.Fatalf("bad tokens must record nothing, got %v", rec.clicks)
	}
}

func TestLandingTamperedTokenRecordsNothing(t *testing.T) {
	h, rec, codec := newTestHandler(t)
	token, _ := codec.Encode("Q1-Phish", "bob@corp.test")
	tampered := strings.Replace(token, ".", "x.", 1)

	w := get(h, "/landing?tk="+tampered)
	if !strings.Contains(w.Body.String(), "invalid or has expired") {
		t.Fatal("tampered token should serve the invalid-link page")
	}
	if len(rec.clicks) != 0 {
		t.Fatalf("tampered token must record nothing, got %v", rec.clicks)
	}
}

func TestLandingDedupWindow(t *testing.T) {
	h, rec, codec := newTestHandler(t)
	token, _ := codec.Encode("Q1-Phish", "bob@corp.test")

	for i := 0; i < 3; i++ {
		w := get(h, "/landing?tk="+token)
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "simulated phishing link") {
			t.Fatalf("refresh %d should still serve the page", i)
		}
	}
	if len(rec.clicks) != 1 {
		t.Fatalf("repeats inside the window must record once, got %d", len(rec.clicks))
	}
}

func TestLandingRedisDownFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	codec := simtoken.NewCodec("test-key", time.Hour)
	rec := &fakeRecorder{codec: codec}
	h := NewHandler(rec, NewDedup(client, 5*time.Minute))
	mr.Close()

	token, _ := codec.Encode("Q1-Phish", "bob@corp.test")
	w := get(h, "/landing?tk="+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if len(rec.clicks) != 1 {
		t.Fatalf("redis outage must not block recording, got %d clicks", len(rec.clicks))
	}
}

func TestLandingWithoutDedup(t *testing.T) {
	codec := simtoken.NewCodec("test-key", time.Hour)
	rec := &fakeRecorder{codec: codec}
	h := NewHandler(rec, nil)

	token, _ := codec.Encode("Q1-Phish", "bob@corp.test")
	for i := 0; i < 2; i++ {
		if w := get(h, "/landing?tk="+token); w.Code != http.StatusOK {
			t.Fatalf("status %d", w.Code)
		}
	}
	// No window configured: every click lands in the log; the aggregator
	// tolerates duplicates.
	if len(rec.clicks) != 2 {
		t.Fatalf("expected 2 recorded clicks, got %d", len(rec.clicks))
	}
}

func TestHealth(t *testing.T) {
	h, _, _ := newTestHandler(t)
	w := get(h, "/health")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ok") {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
}

package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"rollcall-hq/rollcall/pkg/config"
)

func TestHTTPClient_ReverseGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("path = %q, want /reverse", r.URL.Path)
		}
		if r.URL.Query().Get("lat") != "40.712800" || r.URL.Query().Get("format") != "json" {
			t.Errorf("query = %v", r.URL.Query())
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"display_name": "Broadway, New York, NY"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(config.GeocodeConfig{BaseURL: server.URL, Timeout: 2 * time.Second})
	address, err := client.ReverseGeocode(context.Background(), 40.7128, -74.0060)
	if err != nil {
		t.Fatalf("ReverseGeocode() failed: %v", err)
	}
	if address != "Broadway, New York, NY" {
		t.Errorf("address = %q", address)
	}
}

func TestHTTPClient_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPClient(config.GeocodeConfig{BaseURL: server.URL, Timeout: 2 * time.Second})
	if _, err := client.ReverseGeocode(context.Background(), 1, 2); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

type countingGeocoder struct {
	calls   atomic.Int64
	address string
	err     error
}

func (g *countingGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	g.calls.Add(1)
	return g.address, g.err
}

func TestCachingClient_ServesFromCache(t *testing.T) {
	inner := &countingGeocoder{address: "Site A"}
	cache := NewCachingClient(inner, time.Hour)

	for i := 0; i < 3; i++ {
		address, err := cache.ReverseGeocode(context.Background(), 40.71281, -74.00601)
		if err != nil {
			t.Fatalf("ReverseGeocode() failed: %v", err)
		}
		if address != "Site A" {
			t.Errorf("address = %q", address)
		}
	}
	if got := inner.calls.Load(); got != 1 {
		t.Errorf("upstream called %d times, want 1", got)
	}

	// A nearby coordinate inside the rounding radius shares the entry.
	if _, err := cache.ReverseGeocode(context.Background(), 40.712807, -74.006012); err != nil {
		t.Fatalf("ReverseGeocode() failed: %v", err)
	}
	if got := inner.calls.Load(); got != 1 {
		t.Errorf("rounded coordinate missed the cache: %d calls", got)
	}

	// A distinct site is a new lookup.
	if _, err := cache.ReverseGeocode(context.Background(), 41.0, -74.0); err != nil {
		t.Fatalf("ReverseGeocode() failed: %v", err)
	}
	if got := inner.calls.Load(); got != 2 {
		t.Errorf("distinct coordinate should call upstream, got %d calls", got)
	}
}

func TestCachingClient_ExpiryAndErrors(t *testing.T) {
	inner := &countingGeocoder{address: "Site A"}
	cache := NewCachingClient(inner, time.Minute)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	if _, err := cache.ReverseGeocode(context.Background(), 1, 2); err != nil {
		t.Fatalf("ReverseGeocode() failed: %v", err)
	}

	// Past the TTL the entry is refetched.
	now = now.Add(2 * time.Minute)
	if _, err := cache.ReverseGeocode(context.Background(), 1, 2); err != nil {
		t.Fatalf("ReverseGeocode() failed: %v", err)
	}
	if got := inner.calls.Load(); got != 2 {
		t.Errorf("expired entry not refetched: %d calls", got)
	}

	// Failures pass through and are not cached.
	failing := &countingGeocoder{err: context.DeadlineExceeded}
	cache = NewCachingClient(failing, time.Minute)
	for i := 0; i < 2; i++ {
		if _, err := cache.ReverseGeocode(context.Background(), 5, 6); err == nil {
			t.Fatal("expected the inner error to pass through")
		}
	}
	if got := failing.calls.Load(); got != 2 {
		t.Errorf("failures must not be cached: %d calls", got)
	}
}

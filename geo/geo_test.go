package geo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/margdarshak/margdarshak/config"
)

// mapCache is a deterministic cache.Cache implementation for tests.
type mapCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{m: make(map[string][]byte)}
}

func (c *mapCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *mapCache) Set(key string, value []byte, cost int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return true
}

func (c *mapCache) SetWithTTL(key string, value []byte, cost int64, ttl time.Duration) bool {
	return c.Set(key, value, cost)
}

func testClient(t *testing.T, serverURL string, withCache bool) *Client {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Geo.NominatimURL = serverURL
	cfg.Geo.OrsURL = serverURL
	cfg.Geo.OverpassURL = serverURL
	cfg.Geo.OrsApiKey = "test-ors-key"
	cfg.Geo.MaxRetries = 2
	cfg.Geo.Timeout = config.Duration{Duration: 5 * time.Second}

	var c *mapCache
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if withCache {
		c = newMapCache()
		return New(config.NewProvider(cfg), c, logger)
	}
	return New(config.NewProvider(cfg), nil, logger)
}

func TestSearch(t *testing.T) {
	var gotPath, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		if q := r.URL.Query().Get("q"); q != "pune station" {
			t.Errorf("query q = %q, want 'pune station'", q)
		}
		w.Write([]byte(`[{"display_name":"Pune Station"}]`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, false)

	body, err := client.Search(context.Background(), "pune station")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !strings.Contains(string(body), "Pune Station") {
		t.Errorf("body = %s", body)
	}
	if gotPath != "/search" {
		t.Errorf("path = %q, want /search", gotPath)
	}
	if gotUA != "margdarshak-backend" {
		t.Errorf("user agent = %q", gotUA)
	}
}

func TestReverseUsesCache(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"display_name":"Somewhere"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, true)

	for i := 0; i < 3; i++ {
		if _, err := client.Reverse(context.Background(), 18.52, 73.85); err != nil {
			t.Fatalf("Reverse() error = %v", err)
		}
	}

	if calls != 1 {
		t.Errorf("upstream called %d times, want 1", calls)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, false)

	if _, err := client.Search(context.Background(), "anything"); err != nil {
		t.Fatalf("Search() error = %v, want success after retry", err)
	}
	if calls != 2 {
		t.Errorf("upstream called %d times, want 2", calls)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := testClient(t, server.URL, false)

	_, err := client.Search(context.Background(), "anything")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("Search() error = %v, want ErrUpstream", err)
	}
	if calls != 1 {
		t.Errorf("upstream called %d times, want 1 (no retry on 4xx)", calls)
	}
}

func TestUpstreamExhaustsRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(t, server.URL, false)

	_, err := client.Search(context.Background(), "anything")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("Search() error = %v, want ErrUpstream", err)
	}
	// Initial attempt plus MaxRetries.
	if calls != 3 {
		t.Errorf("upstream called %d times, want 3", calls)
	}
}

func TestRoute(t *testing.T) {
	var gotAuth, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(`{"type":"FeatureCollection"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, false)

	coords := [][2]float64{{73.85, 18.52}, {72.87, 19.07}}
	body, err := client.Route(context.Background(), coords)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if !strings.Contains(string(body), "FeatureCollection") {
		t.Errorf("body = %s", body)
	}
	if gotAuth != "test-ors-key" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if !strings.Contains(gotBody, "coordinates") {
		t.Errorf("request body = %q", gotBody)
	}
}

func TestRouteRequiresTwoCoordinates(t *testing.T) {
	client := testClient(t, "http://unused", false)
	if _, err := client.Route(context.Background(), [][2]float64{{73.85, 18.52}}); err == nil {
		t.Error("expected error for single coordinate")
	}
}

func TestPlaces(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		gotQuery = r.PostForm.Get("data")
		w.Write([]byte(`{"elements":[]}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, false)

	testCases := []struct {
		kind     string
		selector string
	}{
		{PlaceKindCharging, "charging_station"},
		{PlaceKindParking, `"amenity"="parking"`},
		{PlaceKindMechanic, "car_repair"},
	}

	for _, tc := range testCases {
		t.Run(tc.kind, func(t *testing.T) {
			if _, err := client.Places(context.Background(), tc.kind, 18.52, 73.85, 2000); err != nil {
				t.Fatalf("Places() error = %v", err)
			}
			if !strings.Contains(gotQuery, tc.selector) {
				t.Errorf("overpass query %q missing selector %q", gotQuery, tc.selector)
			}
			if !strings.Contains(gotQuery, "around:2000") {
				t.Errorf("overpass query %q missing radius", gotQuery)
			}
		})
	}
}

func TestPlacesRejectsUnknownKind(t *testing.T) {
	client := testClient(t, "http://unused", false)
	if _, err := client.Places(context.Background(), "petrol", 18.52, 73.85, 1000); err == nil {
		t.Error("expected error for unknown kind")
	}
	if ValidPlaceKind("petrol") {
		t.Error("ValidPlaceKind(petrol) = true")
	}
	if !ValidPlaceKind(PlaceKindCharging) {
		t.Error("ValidPlaceKind(charging) = false")
	}
}

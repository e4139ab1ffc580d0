package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchBoundedQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "münchen" {
			t.Errorf("Expected q=münchen, got %s", q.Get("q"))
		}
		if q.Get("bounded") != "1" {
			t.Error("Expected bounded=1")
		}
		if q.Get("countrycodes") != "de" {
			t.Errorf("Expected countrycodes=de, got %s", q.Get("countrycodes"))
		}
		if q.Get("viewbox") == "" {
			t.Error("Expected a viewbox")
		}

		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"place_id": 101, "display_name": "München, Bayern", "lat": "48.1371", "lon": "11.5754"},
			{"place_id": 102, "display_name": "Münchberg", "lat": "not-a-number", "lon": "11.78"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test/1.0")
	results, err := client.Search(context.Background(), "münchen",
		[4]float64{8.97, 47.27, 13.84, 50.56}, "de", 5)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	// The entry with unparseable coordinates is dropped.
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].PlaceID != 101 || results[0].Lat != 48.1371 {
		t.Errorf("Unexpected result: %+v", results[0])
	}
}

func TestSearchProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "over quota", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test/1.0")
	if _, err := client.Search(context.Background(), "x", [4]float64{}, "de", 5); err == nil {
		t.Error("Expected error for non-200 answer")
	}
}

func TestReverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("User-Agent") != "test/1.0" {
			t.Errorf("Expected identifying User-Agent, got %s", r.Header.Get("User-Agent"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"display_name": "Marienplatz, München",
			"address":      map[string]string{"city": "München"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test/1.0")
	name, err := client.Reverse(context.Background(), 48.137, 11.575)
	if err != nil {
		t.Fatalf("Reverse returned error: %v", err)
	}
	if name != "Marienplatz, München" {
		t.Errorf("Unexpected display name %q", name)
	}
}

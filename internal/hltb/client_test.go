package hltb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&ClientConfig{
		BaseURL:       baseURL,
		RatePerSecond: 1000,
		RateBurst:     100,
	})
}

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/hltb/search" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if req.SearchTerm != "Hollow Knight" || req.MatchType != 1 || req.Platform != "" {
			t.Errorf("unexpected search request: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Game{
			{ID: 1, HltbID: 26286, Title: "Hollow Knight", MainStory: 26.5},
			{ID: 2, HltbID: 84709, Title: "Hollow Knight: Silksong"},
		})
	}))
	defer server.Close()

	games, err := newTestClient(server.URL).Search(context.Background(), "Hollow Knight")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(games))
	}
	if games[0].Title != "Hollow Knight" || games[0].MainStory != 26.5 {
		t.Errorf("unexpected first candidate: %+v", games[0])
	}
}

func TestSearchNoMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	games, err := newTestClient(server.URL).Search(context.Background(), "UnknownGameXYZ")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(games) != 0 {
		t.Errorf("expected no candidates, got %d", len(games))
	}
}

func TestSearchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).Search(context.Background(), "anything"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestSearchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"not":"an array"`))
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).Search(context.Background(), "anything"); err == nil {
		t.Fatal("expected error for a malformed response body")
	}
}

func TestSearchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // closed before the call

	if _, err := newTestClient(server.URL).Search(context.Background(), "anything"); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestSearchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestClient("http://127.0.0.1:1").Search(ctx, "anything"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestGetByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/hltb/26286" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Game{ID: 1, HltbID: 26286, Title: "Hollow Knight"})
	}))
	defer server.Close()

	game, err := newTestClient(server.URL).GetByID(context.Background(), 26286)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if game.HltbID != 26286 || game.Title != "Hollow Knight" {
		t.Errorf("unexpected game: %+v", game)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).GetByID(context.Background(), 999999); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

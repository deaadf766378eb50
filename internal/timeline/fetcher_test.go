package timeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"corgi/internal/mastodon"
	"corgi/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func testIdentity(instanceURL string) *models.Identity {
	return &models.Identity{
		UserID:      "alice",
		InstanceURL: instanceURL,
		AccessToken: "token-abc",
	}
}

func TestFetchHomeProxiesUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/timelines/home", r.URL.Path)
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "555", r.URL.Query().Get("max_id"))
		assert.Equal(t, "111", r.URL.Query().Get("since_id"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "1001", "content": "<p>first</p>", "account": {"id": "a1", "username": "bob"}, "favourites_count": 3},
			{"id": "1002", "content": "<p>second</p>", "account": {"id": "a2", "username": "carol"}}
		]`))
	}))
	defer upstream.Close()

	fetcher := NewFetcher(2 * time.Second)
	statuses, err := fetcher.FetchHome(context.Background(), testIdentity(upstream.URL), Page{
		Limit:   20,
		MaxID:   "555",
		SinceID: "111",
	})

	assert.NoError(t, err)
	if assert.Len(t, statuses, 2) {
		assert.Equal(t, "1001", statuses[0].ID)
		assert.Equal(t, 3, statuses[0].FavouritesCount)
		assert.True(t, statuses[0].IsRealMastodonPost)
		assert.False(t, statuses[0].IsSynthetic)
		assert.False(t, statuses[0].Injected)
	}
}

func TestFetchHomeDropsMalformedPosts(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": "1001", "content": "<p>ok</p>", "account": {"id": "a1", "username": "bob"}},
			{"content": "<p>no id</p>", "account": {"id": "a2", "username": "carol"}},
			{"id": "1003", "content": "<p>no account</p>"}
		]`))
	}))
	defer upstream.Close()

	fetcher := NewFetcher(2 * time.Second)
	statuses, err := fetcher.FetchHome(context.Background(), testIdentity(upstream.URL), Page{})

	assert.NoError(t, err)
	if assert.Len(t, statuses, 1) {
		assert.Equal(t, "1001", statuses[0].ID)
	}
}

func TestFetchHomeUpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   error
	}{
		{"server error", http.StatusInternalServerError, ErrUpstreamUnavailable},
		{"bad gateway", http.StatusBadGateway, ErrUpstreamUnavailable},
		{"expired token", http.StatusUnauthorized, ErrUpstreamRejected},
		{"forbidden", http.StatusForbidden, ErrUpstreamRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer upstream.Close()

			fetcher := NewFetcher(2 * time.Second)
			_, err := fetcher.FetchHome(context.Background(), testIdentity(upstream.URL), Page{})

			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestFetchHomeUnreachableUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // connection refused

	fetcher := NewFetcher(time.Second)
	_, err := fetcher.FetchHome(context.Background(), testIdentity(upstream.URL), Page{})

	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("Expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestFetchHomeOversizedResponse(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "1001", "content": "`))
		filler := strings.Repeat("x", 64<<10)
		for written := 0; written <= maxTimelineBody; written += len(filler) {
			w.Write([]byte(filler))
		}
		w.Write([]byte(`", "account": {"id": "a1", "username": "bob"}}]`))
	}))
	defer upstream.Close()

	fetcher := NewFetcher(5 * time.Second)
	_, err := fetcher.FetchHome(context.Background(), testIdentity(upstream.URL), Page{})

	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("Expected ErrUpstreamUnavailable for an oversized response, got %v", err)
	}
}

func TestFetchHomeInvalidPayload(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "not an array"}`))
	}))
	defer upstream.Close()

	fetcher := NewFetcher(time.Second)
	_, err := fetcher.FetchHome(context.Background(), testIdentity(upstream.URL), Page{})

	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("Expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestSynthesize(t *testing.T) {
	fetcher := NewFetcher(time.Second)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	statuses := fetcher.Synthesize("alice", 5, base)

	if assert.Len(t, statuses, 5) {
		assert.Equal(t, "corgi_synthetic_post_alice_1", statuses[0].ID)
		assert.Equal(t, "<p>Synthetic post 1 for alice</p>", statuses[0].Content)
		assert.Equal(t, "2025-06-01T11:59:00Z", statuses[0].CreatedAt)
		assert.Equal(t, "2025-06-01T11:55:00Z", statuses[4].CreatedAt)
	}

	for _, s := range statuses {
		assert.True(t, s.IsSynthetic)
		assert.False(t, s.IsRealMastodonPost)
		assert.False(t, s.Injected)
		assert.True(t, mastodon.IsMintedID(s.ID))
		assert.Equal(t, "public", s.Visibility)
	}
}

func TestSynthesizeClampsSize(t *testing.T) {
	fetcher := NewFetcher(time.Second)
	base := time.Now()

	assert.Len(t, fetcher.Synthesize("alice", 0, base), 3)
	assert.Len(t, fetcher.Synthesize("alice", 100, base), 10)
}

func TestSynthesizeAnonymousDefaultsToGuest(t *testing.T) {
	fetcher := NewFetcher(time.Second)

	statuses := fetcher.Synthesize("", 3, time.Now())

	assert.Equal(t, "corgi_synthetic_post_guest_1", statuses[0].ID)
	assert.Equal(t, "guest", statuses[0].Account.Username)
}

func TestSynthesizeDeterministic(t *testing.T) {
	fetcher := NewFetcher(time.Second)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := fetcher.Synthesize("alice", 4, base)
	second := fetcher.Synthesize("alice", 4, base)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Synthesized timeline is not deterministic (-first +second):\n%s", diff)
	}
}

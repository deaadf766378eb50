// Package timeline assembles the final timeline: proxying or synthesizing
// the base stream, injecting scored candidates, and normalizing the output.
package timeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"corgi/internal/mastodon"
	"corgi/internal/models"
)

// ErrUpstreamUnavailable marks upstream 5xx, timeout, or transport failure.
// Callers degrade to cold-start-only output rather than failing the request.
var ErrUpstreamUnavailable = errors.New("upstream instance unavailable")

// ErrUpstreamRejected marks upstream 4xx, typically an expired token.
// Retrying without re-authentication won't help, so it is surfaced as an
// authentication failure instead of being degraded.
var ErrUpstreamRejected = errors.New("upstream rejected credential")

// maxTimelineBody caps how much of an upstream response is read. A timeline
// page is a few hundred KB at most; anything larger is not a timeline.
const maxTimelineBody = 8 << 20

// Page carries the pagination parameters forwarded verbatim to upstream.
type Page struct {
	Limit   int
	MaxID   string
	SinceID string
}

// Fetcher retrieves the real upstream home timeline for a linked identity
// and synthesizes placeholder timelines for anonymous ones.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a fetcher whose upstream calls are bounded by timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchHome proxies GET {instance}/api/v1/timelines/home with the stored
// credential. Pagination parameters pass through unchanged. Individual posts
// that fail normalization are dropped with a warning; they never blank the
// whole timeline.
func (f *Fetcher) FetchHome(ctx context.Context, ident *models.Identity, page Page) ([]*mastodon.Status, error) {
	endpoint := strings.TrimRight(ident.InstanceURL, "/") + "/api/v1/timelines/home"

	q := url.Values{}
	if page.Limit > 0 {
		q.Set("limit", strconv.Itoa(page.Limit))
	}
	if page.MaxID != "" {
		q.Set("max_id", page.MaxID)
	}
	if page.SinceID != "" {
		q.Set("since_id", page.SinceID)
	}
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+ident.AccessToken)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: upstream returned %s", ErrUpstreamUnavailable, resp.Status)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: upstream returned %s", ErrUpstreamRejected, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTimelineBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if len(body) > maxTimelineBody {
		return nil, fmt.Errorf("%w: timeline response exceeds %d bytes", ErrUpstreamUnavailable, maxTimelineBody)
	}

	var rawPosts []json.RawMessage
	if err := json.Unmarshal(body, &rawPosts); err != nil {
		return nil, fmt.Errorf("%w: invalid timeline payload: %v", ErrUpstreamUnavailable, err)
	}

	statuses := make([]*mastodon.Status, 0, len(rawPosts))
	for _, raw := range rawPosts {
		status, err := mastodon.FromUpstream(raw)
		if err != nil {
			log.Printf("Dropping malformed upstream post for %s: %v", ident.UserID, err)
			continue
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

// Synthesize builds a deterministic placeholder timeline for an anonymous or
// unlinked user so injection and UI testing work without a real account.
// Posts are spaced one minute apart walking back from base.
func (f *Fetcher) Synthesize(user string, n int, base time.Time) []*mastodon.Status {
	if user == "" {
		user = "guest"
	}
	if n < 3 {
		n = 3
	}
	if n > 10 {
		n = 10
	}

	statuses := make([]*mastodon.Status, 0, n)
	for i := 1; i <= n; i++ {
		createdAt := base.Add(-time.Duration(i) * time.Minute).UTC()

		s := &mastodon.Status{
			ID:        mastodon.SyntheticID(user, i),
			CreatedAt: createdAt.Format(time.RFC3339),
			Content:   fmt.Sprintf("<p>Synthetic post %d for %s</p>", i, user),
			Account: mastodon.Account{
				ID:          "synthetic_" + user,
				Username:    user,
				DisplayName: "Synthetic Timeline",
			},
			IsSynthetic:        true,
			IsRealMastodonPost: false,
		}
		statuses = append(statuses, mastodon.Finalize(s))
	}

	return statuses
}

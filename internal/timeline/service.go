package timeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"corgi/internal/candidates"
	"corgi/internal/config"
	"corgi/internal/identity"
	"corgi/internal/mastodon"
)

// Request describes one timeline request after HTTP parsing. UserID is the
// caller-supplied display identity for the anonymous path; resolved identities
// always win over it.
type Request struct {
	Bearer string
	UserID string
	Page   Page
	Inject bool
}

// Service orchestrates the assembly pipeline: resolve identity, fetch or
// synthesize the base timeline and select candidates concurrently, merge,
// and normalize. It keeps no per-request state.
type Service struct {
	resolver  *identity.Resolver
	fetcher   *Fetcher
	selector  *candidates.Selector
	coldStart *candidates.ColdStart
	merger    *Merger
	cfg       *config.Config
}

// NewService creates a new timeline service
func NewService(
	resolver *identity.Resolver,
	fetcher *Fetcher,
	selector *candidates.Selector,
	coldStart *candidates.ColdStart,
	merger *Merger,
	cfg *config.Config,
) *Service {
	return &Service{
		resolver:  resolver,
		fetcher:   fetcher,
		selector:  selector,
		coldStart: coldStart,
		merger:    merger,
		cfg:       cfg,
	}
}

type fetchResult struct {
	statuses []*mastodon.Status
	err      error
}

type selectResult struct {
	scored []candidates.ScoredCandidate
	err    error
}

// HomeTimeline runs the full pipeline for one request. The upstream fetch
// and the candidate selection have no data dependency, so they run
// concurrently; cancelling ctx cancels both.
func (s *Service) HomeTimeline(ctx context.Context, req Request) ([]*mastodon.Status, error) {
	ident, err := s.resolver.Resolve(ctx, req.Bearer)
	anonymous := false
	if err != nil {
		if !errors.Is(err, identity.ErrUnauthenticated) {
			return nil, fmt.Errorf("identity resolution failed: %w", err)
		}
		anonymous = true
	}

	fetchCh := make(chan fetchResult, 1)
	selectCh := make(chan selectResult, 1)

	go func() {
		if anonymous {
			fetchCh <- fetchResult{
				statuses: s.fetcher.Synthesize(req.UserID, s.cfg.SyntheticTimelineSize, time.Now()),
			}
			return
		}
		statuses, err := s.fetcher.FetchHome(ctx, ident, req.Page)
		fetchCh <- fetchResult{statuses: statuses, err: err}
	}()

	go func() {
		if !req.Inject {
			selectCh <- selectResult{}
			return
		}
		if anonymous {
			selectCh <- selectResult{scored: s.coldStart.Fallback(ctx, s.cfg.CandidateCount)}
			return
		}
		scored, err := s.selector.Select(ctx, ident.UserID, ident.TrackingLevel, s.cfg.CandidateCount)
		selectCh <- selectResult{scored: scored, err: err}
	}()

	var fetched fetchResult
	var selected selectResult
	for i := 0; i < 2; i++ {
		select {
		case fetched = <-fetchCh:
		case selected = <-selectCh:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	base := fetched.statuses
	scored := selected.scored

	if fetched.err != nil {
		if errors.Is(fetched.err, ErrUpstreamRejected) {
			return nil, fetched.err
		}
		// Upstream down: degrade to cold-start-only output. The user
		// still gets a timeline, just without their real posts.
		log.Printf("Upstream fetch failed, degrading to cold-start content: %v", fetched.err)
		base = nil
		if req.Inject {
			scored = s.coldStart.Fallback(ctx, s.cfg.CandidateCount)
		}
	}

	if selected.err != nil {
		// Selection failure costs only the injections, not the timeline.
		log.Printf("Candidate selection failed, returning organic timeline: %v", selected.err)
		scored = nil
	}

	merged := s.merger.Merge(base, scored)

	if req.Page.Limit > 0 && len(merged) > req.Page.Limit {
		merged = merged[:req.Page.Limit]
	}

	return merged, nil
}

package candidates

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"corgi/internal/config"
	"corgi/internal/history"
	"corgi/internal/mastodon"
	"corgi/internal/models"
)

// poolFetchLimit caps how many pool entries a single selection round loads.
const poolFetchLimit = 100

// Interaction weights for author affinity. Feedback controls weigh more than
// passive signals; less_like_this actively pushes an author down.
var actionWeights = map[string]float64{
	models.ActionFavourite:    1.0,
	models.ActionReblog:       1.2,
	models.ActionBookmark:     0.8,
	models.ActionMoreLikeThis: 1.5,
	models.ActionLessLikeThis: -1.5,
	models.ActionClick:        0.4,
	models.ActionView:         0.1,
}

// ScoredCandidate is a pool post with its injection score and justification.
type ScoredCandidate struct {
	Post       models.CandidatePost
	Score      float64
	Signals    []string
	Reason     string
	Strategy   string
	Strength   string
	Confidence string
}

// Selector scores pool candidates against a user's interaction history.
// Given the same history snapshot and pool state it always produces the same
// ranking; the clock is injected so tests can pin it.
type Selector struct {
	history   history.Store
	pool      Pool
	coldStart *ColdStart
	banding   Banding
	now       func() time.Time
}

// NewSelector creates a new candidate selector
func NewSelector(historyStore history.Store, pool Pool, coldStart *ColdStart, cfg *config.Config) *Selector {
	return &Selector{
		history:   historyStore,
		pool:      pool,
		coldStart: coldStart,
		banding:   Banding{High: cfg.HighScoreThreshold, Moderate: cfg.ModerateScoreThreshold},
		now:       time.Now,
	}
}

// Select returns at most k scored candidates for the user, sorted descending
// by score. Without a usable personalization signal it delegates entirely to
// the cold-start policy.
func (s *Selector) Select(ctx context.Context, userID, trackingLevel string, k int) ([]ScoredCandidate, error) {
	if k <= 0 {
		return nil, nil
	}

	if trackingLevel != models.TrackingFull {
		return s.coldStart.Fallback(ctx, k), nil
	}

	interactions, err := s.history.GetInteractions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interaction history: %w", err)
	}
	if len(interactions) == 0 {
		return s.coldStart.Fallback(ctx, k), nil
	}

	candidates, err := s.pool.Active(ctx, poolFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	profile := s.buildProfile(ctx, interactions)
	now := s.now()

	scored := make([]ScoredCandidate, 0, len(candidates))
	for i := range candidates {
		cand := candidates[i]
		if profile.engaged[cand.PostID] {
			continue // already seen by this user
		}

		score, signals := s.scoreCandidate(&cand, profile, now)

		strength := s.banding.Strength(score)
		scored = append(scored, ScoredCandidate{
			Post:       cand,
			Score:      score,
			Signals:    signals,
			Reason:     ReasonFromSignals(signals, &cand),
			Strategy:   mastodon.StrategyPersonalized,
			Strength:   strength,
			Confidence: Confidence(score),
		})
	}

	sortScored(scored)

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// profile aggregates a user's history into the signals scoring reads.
type profile struct {
	authorWeights map[string]float64
	topics        map[string]bool
	engaged       map[string]bool
}

// buildProfile folds the interaction snapshot into author weights and a topic
// token set. Topics come from the pool entries the user engaged with; the
// interaction log itself carries no content.
func (s *Selector) buildProfile(ctx context.Context, interactions []models.Interaction) profile {
	p := profile{
		authorWeights: make(map[string]float64),
		topics:        make(map[string]bool),
		engaged:       make(map[string]bool),
	}

	engagedIDs := make([]string, 0, len(interactions))
	for _, in := range interactions {
		p.engaged[in.PostID] = true
		engagedIDs = append(engagedIDs, in.PostID)
		if in.AuthorID != "" {
			p.authorWeights[in.AuthorID] += actionWeights[in.ActionType]
		}
	}

	engagedPosts, err := s.pool.ByPostIDs(ctx, engagedIDs)
	if err != nil {
		// Topic signal degrades to empty; author affinity still works.
		return p
	}
	for i := range engagedPosts {
		for token := range topicTokens(engagedPosts[i].Content, engagedPosts[i].Topics) {
			p.topics[token] = true
		}
	}

	return p
}

// scoreCandidate combines author affinity, topic overlap, recency, and pool
// trending into a score in [0,1], and tags the signals that fired.
func (s *Selector) scoreCandidate(cand *models.CandidatePost, p profile, now time.Time) (float64, []string) {
	var signals []string

	// Author affinity, normalized and allowed to go negative so
	// less_like_this feedback pushes an author's posts down.
	affinity := p.authorWeights[cand.AuthorID] / 3.0
	affinity = math.Max(math.Min(affinity, 1.0), -1.0)
	if affinity > 0 {
		signals = append(signals, SignalSimilarAuthors)
	}

	overlap := topicOverlap(p.topics, topicTokens(cand.Content, cand.Topics))
	if overlap > 0 {
		signals = append(signals, SignalTopicMatch)
	}

	// Recency decay with a 48 hour half-life, same shape the trending
	// refresh uses.
	hoursOld := now.Sub(cand.PostedAt).Hours()
	recency := math.Exp(-math.Max(hoursOld, 0) / 48.0)

	trending := math.Min(math.Max(cand.TrendingScore, 0), 1.0)
	if trending >= 0.5 {
		signals = append(signals, SignalTrending)
	}

	score := 0.35*affinity + 0.25*overlap + 0.2*recency + 0.2*trending
	score = math.Min(math.Max(score, 0), 1.0)

	return score, signals
}

// sortScored orders candidates by score descending. Ties prefer the more
// recent post, then the lexicographically smaller post ID, so the ranking is
// stable across runs.
func sortScored(scored []ScoredCandidate) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if !scored[i].Post.PostedAt.Equal(scored[j].Post.PostedAt) {
			return scored[i].Post.PostedAt.After(scored[j].Post.PostedAt)
		}
		return scored[i].Post.PostID < scored[j].Post.PostID
	})
}

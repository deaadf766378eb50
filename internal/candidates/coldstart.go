package candidates

import (
	"context"
	"log"

	"corgi/internal/config"
	"corgi/internal/mastodon"
	"corgi/internal/models"
)

// ColdStart surfaces curated/trending pool posts when no personalization
// signal exists: anonymous users, empty history, or tracking disabled.
type ColdStart struct {
	pool    Pool
	score   float64
	banding Banding
}

// NewColdStart creates a new cold-start policy
func NewColdStart(pool Pool, cfg *config.Config) *ColdStart {
	return &ColdStart{
		pool:    pool,
		score:   cfg.ColdStartScore,
		banding: Banding{High: cfg.HighScoreThreshold, Moderate: cfg.ModerateScoreThreshold},
	}
}

// Fallback returns up to k cold-start candidates. The score is fixed and the
// reason is "Trending content" unless the pool entry carries a stronger
// trending signal. An empty or unreadable pool yields an empty list, never
// an error: a timeline without recommendations beats no timeline.
func (cs *ColdStart) Fallback(ctx context.Context, k int) []ScoredCandidate {
	if k <= 0 {
		return nil
	}

	posts, err := cs.pool.Trending(ctx, k)
	if err != nil {
		log.Printf("Cold-start pool unavailable, degrading to zero injections: %v", err)
		return nil
	}

	strength := cs.banding.Strength(cs.score)
	confidence := Confidence(cs.score)

	scored := make([]ScoredCandidate, 0, len(posts))
	for i := range posts {
		post := posts[i]

		reason := ReasonTrending
		if post.Source == models.PoolSourceStreaming && post.TrendingScore >= cs.banding.High {
			reason = ReasonTrendingGlobal
		}

		scored = append(scored, ScoredCandidate{
			Post:       post,
			Score:      cs.score,
			Signals:    []string{SignalTrending},
			Reason:     reason,
			Strategy:   mastodon.StrategyColdStart,
			Strength:   strength,
			Confidence: confidence,
		})
	}

	return scored
}

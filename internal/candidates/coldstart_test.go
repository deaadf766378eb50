package candidates

import (
	"context"
	"testing"
	"time"

	"corgi/internal/mastodon"
	"corgi/internal/models"
)

func TestColdStartFallback(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	createCandidate(t, db, models.CandidatePost{
		PostID:        "501",
		AuthorID:      "author-1",
		TrendingScore: 0.3,
		Source:        models.PoolSourceCurated,
		PostedAt:      now.Add(-1 * time.Hour),
		IsActive:      true,
	})
	createCandidate(t, db, models.CandidatePost{
		PostID:        "502",
		AuthorID:      "author-2",
		TrendingScore: 0.6,
		Source:        models.PoolSourceCurated,
		PostedAt:      now,
		IsActive:      true,
	})

	cs := NewColdStart(NewGormPool(db), testConfig())
	scored := cs.Fallback(context.Background(), 5)

	if len(scored) != 2 {
		t.Fatalf("Expected 2 cold-start candidates, got %d", len(scored))
	}
	if scored[0].Post.PostID != "502" {
		t.Errorf("Expected highest trending score first, got %q", scored[0].Post.PostID)
	}

	for _, s := range scored {
		if s.Score != 0.7 {
			t.Errorf("Expected fixed score 0.7, got %v", s.Score)
		}
		if s.Reason != ReasonTrending {
			t.Errorf("Expected reason %q, got %q", ReasonTrending, s.Reason)
		}
		if s.Strategy != mastodon.StrategyColdStart {
			t.Errorf("Expected cold_start strategy, got %q", s.Strategy)
		}
		if s.Strength != StrengthModerately {
			t.Errorf("Expected strength %q for 0.7, got %q", StrengthModerately, s.Strength)
		}
		if s.Confidence != "70%" {
			t.Errorf("Expected confidence 70%%, got %q", s.Confidence)
		}
	}
}

func TestColdStartGlobalTrendingReason(t *testing.T) {
	db := setupTestDB(t)

	createCandidate(t, db, models.CandidatePost{
		PostID:        "601",
		AuthorID:      "author-1",
		TrendingScore: 0.9,
		Source:        models.PoolSourceStreaming,
		PostedAt:      time.Now(),
		IsActive:      true,
	})

	cs := NewColdStart(NewGormPool(db), testConfig())
	scored := cs.Fallback(context.Background(), 1)

	if len(scored) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(scored))
	}
	if scored[0].Reason != ReasonTrendingGlobal {
		t.Errorf("Expected reason %q for hot streaming post, got %q", ReasonTrendingGlobal, scored[0].Reason)
	}
}

func TestColdStartEmptyPool(t *testing.T) {
	db := setupTestDB(t)

	cs := NewColdStart(NewGormPool(db), testConfig())
	scored := cs.Fallback(context.Background(), 3)

	if len(scored) != 0 {
		t.Errorf("Expected no candidates from an empty pool, got %d", len(scored))
	}
}

func TestColdStartRespectsLimit(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	for _, id := range []string{"701", "702", "703", "704"} {
		createCandidate(t, db, models.CandidatePost{
			PostID:   id,
			AuthorID: "author-1",
			PostedAt: now,
			IsActive: true,
		})
	}

	cs := NewColdStart(NewGormPool(db), testConfig())
	scored := cs.Fallback(context.Background(), 2)

	if len(scored) != 2 {
		t.Errorf("Expected 2 candidates, got %d", len(scored))
	}
}

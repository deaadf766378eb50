package candidates

import (
	"context"
	"log"
	"math"
	"time"

	"corgi/internal/models"

	"gorm.io/gorm"
)

// TrendingService recalculates trending scores over the candidate pool and
// retires entries that have aged out. The background worker drives it.
type TrendingService struct {
	db *gorm.DB
}

// NewTrendingService creates a new trending service
func NewTrendingService(db *gorm.DB) *TrendingService {
	return &TrendingService{db: db}
}

// UpdateTrendingScores recalculates the trending score of every active pool
// entry from its engagement velocity.
func (ts *TrendingService) UpdateTrendingScores(ctx context.Context) error {
	log.Println("📈 Updating candidate trending scores...")

	var posts []models.CandidatePost
	if err := ts.db.WithContext(ctx).Where("is_active = ?", true).Find(&posts).Error; err != nil {
		return err
	}

	for i := range posts {
		score := calculateTrendingScore(&posts[i], time.Now())

		err := ts.db.WithContext(ctx).
			Model(&posts[i]).
			Update("trending_score", score).Error
		if err != nil {
			log.Printf("Failed to update trending score for %s: %v", posts[i].PostID, err)
			continue
		}
	}

	log.Println("✅ Trending score update completed")
	return nil
}

// calculateTrendingScore scores engagement velocity with time decay.
func calculateTrendingScore(post *models.CandidatePost, now time.Time) float64 {
	hoursOld := now.Sub(post.PostedAt).Hours()

	// Half-life of 24 hours: a day-old post needs twice the velocity to
	// keep its score.
	decayFactor := math.Exp(-math.Max(hoursOld, 0) / 24.0)

	velocity := float64(post.Engagement()) / math.Max(hoursOld, 1.0)

	return math.Min(velocity*decayFactor/10.0, 1.0)
}

// PruneStale deactivates pool entries older than maxAge. Entries are
// deactivated rather than deleted so ingestion can reactivate a post that
// resurfaces.
func (ts *TrendingService) PruneStale(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	result := ts.db.WithContext(ctx).
		Model(&models.CandidatePost{}).
		Where("is_active = ? AND posted_at < ?", true, cutoff).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("Retired %d stale candidate pool entries", result.RowsAffected)
	}
	return nil
}

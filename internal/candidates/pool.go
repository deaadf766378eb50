// Package candidates selects and scores pool posts for timeline injection.
package candidates

import (
	"context"
	"fmt"

	"corgi/internal/models"

	"gorm.io/gorm"
)

// Pool is the read interface over the candidate pool. Entries are owned by
// the ingestion pipeline; selection never writes through this interface.
type Pool interface {
	// Active returns active pool entries, newest first.
	Active(ctx context.Context, limit int) ([]models.CandidatePost, error)

	// Trending returns active pool entries ordered by trending score.
	// Ordering is fully deterministic: ties fall back to recency, then
	// to lexicographic post ID.
	Trending(ctx context.Context, limit int) ([]models.CandidatePost, error)

	// ByPostIDs returns the pool entries matching the given upstream IDs.
	ByPostIDs(ctx context.Context, postIDs []string) ([]models.CandidatePost, error)
}

// GormPool is the database-backed Pool.
type GormPool struct {
	db *gorm.DB
}

// NewGormPool creates a new pool reader
func NewGormPool(db *gorm.DB) *GormPool {
	return &GormPool{db: db}
}

// Active implements Pool.
func (p *GormPool) Active(ctx context.Context, limit int) ([]models.CandidatePost, error) {
	var posts []models.CandidatePost
	err := p.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("posted_at DESC, post_id ASC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate pool: %w", err)
	}
	return posts, nil
}

// Trending implements Pool.
func (p *GormPool) Trending(ctx context.Context, limit int) ([]models.CandidatePost, error) {
	var posts []models.CandidatePost
	err := p.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("trending_score DESC, posted_at DESC, post_id ASC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query trending candidates: %w", err)
	}
	return posts, nil
}

// ByPostIDs implements Pool.
func (p *GormPool) ByPostIDs(ctx context.Context, postIDs []string) ([]models.CandidatePost, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var posts []models.CandidatePost
	err := p.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates by post id: %w", err)
	}
	return posts, nil
}

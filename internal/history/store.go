// Package history exposes the interaction log: an append-only write used by
// the interaction-recording endpoint, and the read path that feeds
// personalization scoring.
package history

import (
	"context"
	"fmt"

	"corgi/internal/models"

	"gorm.io/gorm"
)

// Store is the read/append interface over recorded interactions.
type Store interface {
	// GetInteractions returns every recorded interaction for a user,
	// oldest first. Scoring treats the result as a read-only snapshot.
	GetInteractions(ctx context.Context, userID string) ([]models.Interaction, error)

	// Record appends a single interaction. Interactions are write-once;
	// nothing updates or deletes them.
	Record(ctx context.Context, interaction *models.Interaction) error
}

// GormStore is the database-backed Store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new history store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// GetInteractions implements Store.
func (s *GormStore) GetInteractions(ctx context.Context, userID string) ([]models.Interaction, error) {
	var interactions []models.Interaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&interactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	return interactions, nil
}

// Record implements Store.
func (s *GormStore) Record(ctx context.Context, interaction *models.Interaction) error {
	if !models.ValidActionType(interaction.ActionType) {
		return fmt.Errorf("unknown action type: %s", interaction.ActionType)
	}
	if err := s.db.WithContext(ctx).Create(interaction).Error; err != nil {
		return fmt.Errorf("failed to record interaction: %w", err)
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Recorded interaction types. more_like_this and less_like_this come from the
// recommendation feedback controls; the rest mirror Mastodon actions.
const (
	ActionFavourite    = "favourite"
	ActionBookmark     = "bookmark"
	ActionReblog       = "reblog"
	ActionMoreLikeThis = "more_like_this"
	ActionLessLikeThis = "less_like_this"
	ActionView         = "view"
	ActionClick        = "click"
)

// ValidActionType reports whether t is one of the recognized interaction types.
func ValidActionType(t string) bool {
	switch t {
	case ActionFavourite, ActionBookmark, ActionReblog,
		ActionMoreLikeThis, ActionLessLikeThis, ActionView, ActionClick:
		return true
	}
	return false
}

// Interaction is a single recorded user action against a post.
// Rows are write-once and append-only; scoring only ever reads them.
type Interaction struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID     string    `json:"user_id" db:"user_id" gorm:"index;not null"`
	PostID     string    `json:"post_id" db:"post_id" gorm:"index;not null"`
	AuthorID   string    `json:"author_id" db:"author_id" gorm:"index"`
	ActionType string    `json:"action_type" db:"action_type" gorm:"not null"`

	// Optional context: which surface the action came from, and the
	// recommendation id when the interacted post was itself injected.
	ContextSource    string `json:"context_source" db:"context_source"`
	RecommendationID string `json:"recommendation_id" db:"recommendation_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}

// TableName sets the table name for the Interaction model
func (Interaction) TableName() string {
	return "interactions"
}

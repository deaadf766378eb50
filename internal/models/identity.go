package models

import (
	"time"

	"github.com/google/uuid"
)

// Tracking levels govern whether interaction history may be used for
// personalization. Anything other than full falls back to cold-start content.
const (
	TrackingFull    = "full"
	TrackingLimited = "limited"
	TrackingNone    = "none"
)

// Identity represents a linked Mastodon account: the local user, their home
// instance, and the credential recorded when the link was completed.
// Tokens are rotated in place; rows are deactivated, never hard-deleted.
type Identity struct {
	ID            uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID        string    `json:"user_id" db:"user_id" gorm:"uniqueIndex;not null"`
	InstanceURL   string    `json:"instance_url" db:"instance_url" gorm:"not null"`
	AccessToken   string    `json:"-" db:"access_token" gorm:"index"`
	TrackingLevel string    `json:"tracking_level" db:"tracking_level" gorm:"default:'full'"`

	CreatedAt  time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
	LastSeenAt time.Time `json:"last_seen_at" db:"last_seen_at"`
	IsActive   bool      `json:"is_active" db:"is_active" gorm:"default:true"`
}

// TableName sets the table name for the Identity model
func (Identity) TableName() string {
	return "identities"
}

// AllowsPersonalization reports whether interaction history may feed scoring.
func (i *Identity) AllowsPersonalization() bool {
	return i.TrackingLevel == TrackingFull
}

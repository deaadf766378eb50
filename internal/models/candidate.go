package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Candidate pool sources.
const (
	PoolSourceCurated   = "curated"
	PoolSourceStreaming = "streaming"
)

// CandidatePost is a real, previously-ingested post that is eligible for
// injection into timelines. Entries outlive any single request; the
// ingestion pipeline creates them and the freshness worker retires them.
type CandidatePost struct {
	ID     uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PostID string    `json:"post_id" db:"post_id" gorm:"uniqueIndex;not null"` // Upstream status ID

	// Author snapshot taken at ingestion time
	AuthorID          string `json:"author_id" db:"author_id" gorm:"index;not null"`
	AuthorUsername    string `json:"author_username" db:"author_username"`
	AuthorDisplayName string `json:"author_display_name" db:"author_display_name"`
	AuthorAvatar      string `json:"author_avatar" db:"author_avatar"`
	AuthorFollowers   int    `json:"author_followers" db:"author_followers" gorm:"default:0"`
	AuthorFollowing   int    `json:"author_following" db:"author_following" gorm:"default:0"`
	AuthorStatuses    int    `json:"author_statuses" db:"author_statuses" gorm:"default:0"`

	Content  string         `json:"content" db:"content" gorm:"type:text"`
	URL      string         `json:"url" db:"url"`
	Language string         `json:"language" db:"language"`
	Topics   pq.StringArray `json:"topics" db:"topics" gorm:"type:text[]"`

	// Engagement metrics
	FavouritesCount int `json:"favourites_count" db:"favourites_count" gorm:"default:0"`
	ReblogsCount    int `json:"reblogs_count" db:"reblogs_count" gorm:"default:0"`
	RepliesCount    int `json:"replies_count" db:"replies_count" gorm:"default:0"`

	TrendingScore float64 `json:"trending_score" db:"trending_score" gorm:"default:0.0"`

	Source   string    `json:"source" db:"source" gorm:"default:'curated'"` // "curated" or "streaming"
	PostedAt time.Time `json:"posted_at" db:"posted_at"`
	IsActive bool      `json:"is_active" db:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the CandidatePost model
func (CandidatePost) TableName() string {
	return "candidate_posts"
}

// Engagement returns the summed interaction counters for scoring.
func (c *CandidatePost) Engagement() int {
	return c.FavouritesCount + c.ReblogsCount + c.RepliesCount
}

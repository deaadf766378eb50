package mastodon

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"corgi/internal/models"
)

// PlaceholderAvatar is substituted when an upstream account carries no
// avatar. Same asset a Mastodon server serves for missing avatars.
const PlaceholderAvatar = "https://files.mastodon.social/avatars/original/missing.png"

// ErrMalformedPost marks an upstream post that cannot be normalized because a
// required field is missing and has no safe default. Callers drop the single
// post, never the whole timeline.
var ErrMalformedPost = errors.New("malformed upstream post")

// upstreamAccount mirrors the fields we read from an upstream account object.
// Unknown fields are ignored; optional fields get documented defaults.
type upstreamAccount struct {
	ID             *string `json:"id"`
	Username       string  `json:"username"`
	Acct           string  `json:"acct"`
	DisplayName    string  `json:"display_name"`
	Locked         bool    `json:"locked"`
	Bot            bool    `json:"bot"`
	CreatedAt      string  `json:"created_at"`
	Note           string  `json:"note"`
	URL            string  `json:"url"`
	Avatar         string  `json:"avatar"`
	AvatarStatic   string  `json:"avatar_static"`
	Header         string  `json:"header"`
	HeaderStatic   string  `json:"header_static"`
	FollowersCount *int    `json:"followers_count"`
	FollowingCount *int    `json:"following_count"`
	StatusesCount  *int    `json:"statuses_count"`
}

type upstreamStatus struct {
	ID          *string          `json:"id"`
	URI         string           `json:"uri"`
	URL         string           `json:"url"`
	CreatedAt   string           `json:"created_at"`
	Content     string           `json:"content"`
	Visibility  string           `json:"visibility"`
	Language    string           `json:"language"`
	Sensitive   bool             `json:"sensitive"`
	SpoilerText string           `json:"spoiler_text"`
	Account     *upstreamAccount `json:"account"`

	MediaAttachments []MediaAttachment `json:"media_attachments"`
	Tags             []Tag             `json:"tags"`
	Mentions         []Mention         `json:"mentions"`
	Emojis           []Emoji           `json:"emojis"`

	FavouritesCount *int `json:"favourites_count"`
	ReblogsCount    *int `json:"reblogs_count"`
	RepliesCount    *int `json:"replies_count"`
}

// FromUpstream converts a raw upstream status into a canonical Status. The
// upstream ID passes through unchanged and the post is flagged as a real
// Mastodon post. Schema supersets are tolerated; missing optional fields get
// defaults; a missing ID or account makes the post malformed.
func FromUpstream(raw json.RawMessage) (*Status, error) {
	var up upstreamStatus
	if err := json.Unmarshal(raw, &up); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPost, err)
	}

	if up.ID == nil || *up.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrMalformedPost)
	}
	if up.Account == nil || up.Account.ID == nil || *up.Account.ID == "" {
		return nil, fmt.Errorf("%w: missing account", ErrMalformedPost)
	}

	s := &Status{
		ID:          *up.ID,
		URI:         up.URI,
		URL:         up.URL,
		CreatedAt:   up.CreatedAt,
		Content:     up.Content,
		Visibility:  up.Visibility,
		Language:    up.Language,
		Sensitive:   up.Sensitive,
		SpoilerText: up.SpoilerText,
		Account: Account{
			ID:             *up.Account.ID,
			Username:       up.Account.Username,
			Acct:           up.Account.Acct,
			DisplayName:    up.Account.DisplayName,
			Locked:         up.Account.Locked,
			Bot:            up.Account.Bot,
			CreatedAt:      up.Account.CreatedAt,
			Note:           up.Account.Note,
			URL:            up.Account.URL,
			Avatar:         up.Account.Avatar,
			AvatarStatic:   up.Account.AvatarStatic,
			Header:         up.Account.Header,
			HeaderStatic:   up.Account.HeaderStatic,
			FollowersCount: intOrZero(up.Account.FollowersCount),
			FollowingCount: intOrZero(up.Account.FollowingCount),
			StatusesCount:  intOrZero(up.Account.StatusesCount),
		},
		MediaAttachments: up.MediaAttachments,
		Tags:             up.Tags,
		Mentions:         up.Mentions,
		Emojis:           up.Emojis,
		FavouritesCount:  intOrZero(up.FavouritesCount),
		ReblogsCount:     intOrZero(up.ReblogsCount),
		RepliesCount:     intOrZero(up.RepliesCount),

		IsRealMastodonPost: true,
		IsSynthetic:        false,
	}

	return Finalize(s), nil
}

// FromCandidate converts a pool entry into a canonical Status. Pool posts are
// real, previously-ingested Mastodon posts; the merger stamps the injection
// metadata afterwards.
func FromCandidate(c *models.CandidatePost) *Status {
	tags := make([]Tag, 0, len(c.Topics))
	for _, topic := range c.Topics {
		tags = append(tags, Tag{Name: topic})
	}

	s := &Status{
		ID:        c.PostID,
		URL:       c.URL,
		URI:       c.URL,
		CreatedAt: c.PostedAt.UTC().Format(time.RFC3339),
		Content:   c.Content,
		Language:  c.Language,
		Account: Account{
			ID:             c.AuthorID,
			Username:       c.AuthorUsername,
			Acct:           c.AuthorUsername,
			DisplayName:    c.AuthorDisplayName,
			Avatar:         c.AuthorAvatar,
			FollowersCount: c.AuthorFollowers,
			FollowingCount: c.AuthorFollowing,
			StatusesCount:  c.AuthorStatuses,
		},
		Tags:            tags,
		FavouritesCount: c.FavouritesCount,
		ReblogsCount:    c.ReblogsCount,
		RepliesCount:    c.RepliesCount,

		IsRealMastodonPost: true,
		IsSynthetic:        false,
	}

	return Finalize(s)
}

// Finalize enforces the schema invariants on a status and returns it:
// non-null collections, synced camelCase counter aliases, placeholder avatar,
// visibility default, and recommendation metadata only on injected posts.
// It is the last constructor step; finalized statuses are not mutated again.
func Finalize(s *Status) *Status {
	if s.Visibility == "" {
		s.Visibility = "public"
	}
	if s.Account.Avatar == "" {
		s.Account.Avatar = PlaceholderAvatar
	}
	if s.Account.AvatarStatic == "" {
		s.Account.AvatarStatic = s.Account.Avatar
	}
	if s.Account.Acct == "" {
		s.Account.Acct = s.Account.Username
	}

	if s.MediaAttachments == nil {
		s.MediaAttachments = []MediaAttachment{}
	}
	if s.Tags == nil {
		s.Tags = []Tag{}
	}
	if s.Mentions == nil {
		s.Mentions = []Mention{}
	}
	if s.Emojis == nil {
		s.Emojis = []Emoji{}
	}

	s.FavouritesCountAlias = s.FavouritesCount
	s.ReblogsCountAlias = s.ReblogsCount
	s.RepliesCountAlias = s.RepliesCount

	// A post is never both synthetic and real.
	if s.IsSynthetic {
		s.IsRealMastodonPost = false
	}

	if !s.Injected {
		s.RecommendationReason = ""
		s.RankingScore = 0
		s.Strength = ""
		s.StrengthEmoji = ""
		s.Confidence = ""
		s.InjectionMetadata = nil
	}

	return s
}

func intOrZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

// Package mastodon defines the canonical Mastodon-compatible status schema
// that every post leaving the proxy must satisfy, plus ID minting and the
// normalizer that converts upstream, pool, and synthetic posts into it.
package mastodon

// Account represents the author of a status, shaped exactly like the
// account entity a Mastodon server would emit.
type Account struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Acct           string `json:"acct"`
	DisplayName    string `json:"display_name"`
	Locked         bool   `json:"locked"`
	Bot            bool   `json:"bot"`
	CreatedAt      string `json:"created_at"`
	Note           string `json:"note"`
	URL            string `json:"url"`
	Avatar         string `json:"avatar"`
	AvatarStatic   string `json:"avatar_static"`
	Header         string `json:"header"`
	HeaderStatic   string `json:"header_static"`
	FollowersCount int    `json:"followers_count"`
	FollowingCount int    `json:"following_count"`
	StatusesCount  int    `json:"statuses_count"`
}

// MediaAttachment is a media entity attached to a status.
type MediaAttachment struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	PreviewURL  string `json:"preview_url"`
	Description string `json:"description"`
}

// Tag is a hashtag entity.
type Tag struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Mention is a mention entity.
type Mention struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	URL      string `json:"url"`
	Acct     string `json:"acct"`
}

// Emoji is a custom emoji entity.
type Emoji struct {
	Shortcode       string `json:"shortcode"`
	URL             string `json:"url"`
	StaticURL       string `json:"static_url"`
	VisibleInPicker bool   `json:"visible_in_picker"`
}

// InjectionMetadata describes where an injected post came from and which
// policy put it there.
type InjectionMetadata struct {
	Source   string `json:"source"`   // pool identifier, e.g. "curated"
	Strategy string `json:"strategy"` // "personalized" or "cold_start"
}

// Status is the canonical post unit. It is immutable once constructed: the
// merger and handlers never modify a finalized status.
//
// The camelCase counter aliases duplicate the snake_case counters on purpose;
// the web frontend reads the camelCase names and Mastodon clients read the
// snake_case ones. Finalize keeps both in sync.
type Status struct {
	ID          string `json:"id"`
	URI         string `json:"uri"`
	URL         string `json:"url"`
	CreatedAt   string `json:"created_at"`
	Content     string `json:"content"`
	Visibility  string `json:"visibility"`
	Language    string `json:"language"`
	Sensitive   bool   `json:"sensitive"`
	SpoilerText string `json:"spoiler_text"`

	Account Account `json:"account"`

	MediaAttachments []MediaAttachment `json:"media_attachments"`
	Tags             []Tag             `json:"tags"`
	Mentions         []Mention         `json:"mentions"`
	Emojis           []Emoji           `json:"emojis"`

	FavouritesCount int `json:"favourites_count"`
	ReblogsCount    int `json:"reblogs_count"`
	RepliesCount    int `json:"replies_count"`

	// Compatibility aliases, always equal to the snake_case counters.
	FavouritesCountAlias int `json:"favouritesCount"`
	ReblogsCountAlias    int `json:"reblogsCount"`
	RepliesCountAlias    int `json:"repliesCount"`

	// Provenance flags. is_synthetic and is_real_mastodon_post are
	// mutually exclusive.
	IsRealMastodonPost bool `json:"is_real_mastodon_post"`
	IsSynthetic        bool `json:"is_synthetic"`
	Injected           bool `json:"injected"`

	// Recommendation metadata, present only when Injected is true.
	RecommendationReason string             `json:"recommendation_reason,omitempty"`
	RankingScore         float64            `json:"ranking_score,omitempty"`
	Strength             string             `json:"strength,omitempty"`
	StrengthEmoji        string             `json:"strength_emoji,omitempty"`
	Confidence           string             `json:"confidence,omitempty"`
	InjectionMetadata    *InjectionMetadata `json:"injection_metadata,omitempty"`
}

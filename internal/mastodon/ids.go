package mastodon

import (
	"fmt"
	"strings"
)

// ID namespace prefixes. Real upstream IDs pass through unchanged; everything
// the proxy mints carries one of these so provenance survives in the ID
// itself. All minting goes through this file so the prefixes cannot drift
// between call sites.
const (
	RecommendedIDPrefix = "rec_"
	ColdStartIDPrefix   = "cold_start_"
	SyntheticIDPrefix   = "corgi_synthetic_post_"
)

// Injection strategies.
const (
	StrategyPersonalized = "personalized"
	StrategyColdStart    = "cold_start"
)

// InjectedID mints the timeline-local ID for an injected pool post.
func InjectedID(strategy, postID string) string {
	if strategy == StrategyColdStart {
		return ColdStartIDPrefix + postID
	}
	return RecommendedIDPrefix + postID
}

// SyntheticID mints the ID for a placeholder post in a synthesized timeline.
func SyntheticID(user string, n int) string {
	return fmt.Sprintf("%s%s_%d", SyntheticIDPrefix, user, n)
}

// IsMintedID reports whether id was produced by the proxy rather than passed
// through from an upstream instance.
func IsMintedID(id string) bool {
	return strings.HasPrefix(id, RecommendedIDPrefix) ||
		strings.HasPrefix(id, ColdStartIDPrefix) ||
		strings.HasPrefix(id, SyntheticIDPrefix)
}

package candidates

import (
	"fmt"
	"math"

	"corgi/internal/models"
)

// Signal tags produced by scoring. The human-readable reason is derived from
// these with a fixed precedence so two code paths can never disagree about
// the wording.
const (
	SignalSimilarAuthors = "similar_authors"
	SignalTrending       = "trending"
	SignalTopicMatch     = "topic_match"
)

// Strength bands.
const (
	StrengthHighly     = "Highly"
	StrengthModerately = "Moderately"
	StrengthMildly     = "Mildly"
)

// Fixed reason vocabulary.
const (
	ReasonSimilarAuthors = "Based on authors you interact with"
	ReasonTrending       = "Trending content"
	ReasonTopicMatch     = "Matches topics you engage with"
	ReasonPopularLocal   = "Popular in your local community"
	ReasonTrendingGlobal = "Trending globally"
	ReasonDefault        = "Recommended for you"
)

// ReasonFromSignals maps signal tags to a human reason string.
// Precedence: similar_authors > trending > topic_match > instance-scope
// fallback > default reason.
func ReasonFromSignals(signals []string, post *models.CandidatePost) string {
	tagged := make(map[string]bool, len(signals))
	for _, s := range signals {
		tagged[s] = true
	}

	switch {
	case tagged[SignalSimilarAuthors]:
		return ReasonSimilarAuthors
	case tagged[SignalTrending]:
		return ReasonTrending
	case tagged[SignalTopicMatch]:
		return ReasonTopicMatch
	}

	// No personalization signal fired; fall back to instance scope.
	switch post.Source {
	case models.PoolSourceCurated:
		return ReasonPopularLocal
	case models.PoolSourceStreaming:
		return ReasonTrendingGlobal
	}

	return ReasonDefault
}

// Banding holds the strength thresholds. Values come from configuration;
// defaults are 0.8 and 0.6.
type Banding struct {
	High     float64
	Moderate float64
}

// Strength returns the categorical strength for a score.
func (b Banding) Strength(score float64) string {
	switch {
	case score >= b.High:
		return StrengthHighly
	case score >= b.Moderate:
		return StrengthModerately
	default:
		return StrengthMildly
	}
}

// StrengthEmoji returns the display emoji for a strength band.
func StrengthEmoji(strength string) string {
	switch strength {
	case StrengthHighly:
		return "🔥"
	case StrengthModerately:
		return "📈"
	default:
		return "💡"
	}
}

// Confidence renders a score as a whole-number percentage string.
func Confidence(score float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(score*100)))
}

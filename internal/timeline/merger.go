package timeline

import (
	"corgi/internal/candidates"
	"corgi/internal/mastodon"
)

// Merger interleaves scored candidates into a base timeline. It holds no
// state beyond the configured spacing; Merge is a pure function of its
// inputs, so identical inputs always yield identical output.
type Merger struct {
	spacing int
}

// NewMerger creates a merger with the given injection spacing.
func NewMerger(spacing int) *Merger {
	if spacing < 1 {
		spacing = 1
	}
	return &Merger{spacing: spacing}
}

// Merge inserts each candidate at index (rank+1)*spacing, clamping to the
// current list length when the base timeline is shorter; leftover candidates
// are appended in rank order. Every output post, organic and injected, is
// finalized against the canonical schema.
func (m *Merger) Merge(base []*mastodon.Status, scored []candidates.ScoredCandidate) []*mastodon.Status {
	merged := make([]*mastodon.Status, len(base), len(base)+len(scored))
	copy(merged, base)

	for rank, cand := range scored {
		status := buildInjected(cand)

		pos := (rank + 1) * m.spacing
		if pos > len(merged) {
			pos = len(merged)
		}

		merged = append(merged, nil)
		copy(merged[pos+1:], merged[pos:])
		merged[pos] = status
	}

	for _, s := range merged {
		mastodon.Finalize(s)
	}

	return merged
}

// buildInjected converts a scored candidate into an injected status with full
// provenance and recommendation metadata.
func buildInjected(cand candidates.ScoredCandidate) *mastodon.Status {
	status := mastodon.FromCandidate(&cand.Post)

	status.ID = mastodon.InjectedID(cand.Strategy, cand.Post.PostID)
	status.Injected = true
	status.RecommendationReason = cand.Reason
	status.RankingScore = cand.Score
	status.Strength = cand.Strength
	status.StrengthEmoji = candidates.StrengthEmoji(cand.Strength)
	status.Confidence = cand.Confidence
	status.InjectionMetadata = &mastodon.InjectionMetadata{
		Source:   cand.Post.Source,
		Strategy: cand.Strategy,
	}

	return status
}

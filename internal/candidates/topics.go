package candidates

import (
	"strings"

	"golang.org/x/net/html"
)

// stopwords excluded from topic token sets. Keeps the overlap signal about
// subject matter rather than filler.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "that": true, "this": true,
	"with": true, "from": true, "have": true, "has": true, "was": true,
	"are": true, "but": true, "not": true, "you": true, "your": true,
	"about": true, "just": true, "what": true, "when": true, "how": true,
	"its": true, "it's": true, "out": true, "all": true, "can": true,
	"will": true, "been": true, "they": true, "their": true, "there": true,
}

// stripHTML returns the text content of an HTML fragment.
func stripHTML(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Text())
			b.WriteByte(' ')
		}
	}
}

// topicTokens extracts a normalized token set from post content and explicit
// topic tags. Content is HTML; tags come through as-is.
func topicTokens(content string, topics []string) map[string]bool {
	tokens := make(map[string]bool)

	for _, topic := range topics {
		topic = strings.ToLower(strings.TrimSpace(topic))
		if topic != "" {
			tokens[topic] = true
		}
	}

	for _, word := range strings.Fields(stripHTML(content)) {
		word = strings.ToLower(strings.Trim(word, ".,!?;:\"'()[]#@"))
		if len(word) < 3 || stopwords[word] {
			continue
		}
		tokens[word] = true
	}

	return tokens
}

// topicOverlap returns the share of candidate tokens also present in the
// profile, in [0,1].
func topicOverlap(profile, candidate map[string]bool) float64 {
	if len(candidate) == 0 || len(profile) == 0 {
		return 0
	}

	matched := 0
	for token := range candidate {
		if profile[token] {
			matched++
		}
	}

	return float64(matched) / float64(len(candidate))
}

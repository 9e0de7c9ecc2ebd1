package router

import "strings"

const (
	keywordMatchBonus = 0.1
	keywordScoreCap   = 0.9
)

// keywordScore scores a lowercased query against a keyword list.
// The score grows with matched-word density plus a small per-match
// bonus, capped at keywordScoreCap. Pure function, never errors.
func keywordScore(query string, keywords []string) float64 {
	words := wordCount(query)
	if words == 0 {
		return 0
	}

	matches := 0
	for _, kw := range keywords {
		if containsKeyword(query, strings.ToLower(kw)) {
			matches++
		}
	}
	if matches == 0 {
		return 0
	}

	score := float64(matches)/float64(words) + float64(matches)*keywordMatchBonus
	if score > keywordScoreCap {
		score = keywordScoreCap
	}
	return score
}

// containsKeyword checks if the query contains the keyword phrase.
// It looks for the keyword as a word or phrase boundary match.
func containsKeyword(query, keyword string) bool {
	idx := strings.Index(query, keyword)
	if idx == -1 {
		return false
	}

	// Check word boundary before keyword
	if idx > 0 {
		prev := query[idx-1]
		if isWordChar(prev) {
			return false
		}
	}

	// Check word boundary after keyword
	endIdx := idx + len(keyword)
	if endIdx < len(query) {
		next := query[endIdx]
		if isWordChar(next) {
			return false
		}
	}

	return true
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}

func wordCount(query string) int {
	return len(strings.Fields(query))
}

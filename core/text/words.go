// ABOUTME: Word extractor builds the per-page frequency table
// ABOUTME: Lowercase alphabetic tokens longer than one letter, no stemming or stopwords

package text

import (
	"regexp"
	"strings"

	"paperread-app/core/domain"
)

var wordPattern = regexp.MustCompile(`[a-z]+`)

// ExtractWords counts lowercase alphabetic tokens of length > 1 in text.
// Digits and punctuation separate tokens. Empty text yields an empty map.
func ExtractWords(text string) map[string]int {
	counts := make(map[string]int)
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len(word) > 1 {
			counts[word]++
		}
	}
	return counts
}

// Stats summarizes a frequency table
func Stats(counts map[string]int) domain.PageStats {
	stats := domain.PageStats{UniqueWords: len(counts)}
	for _, n := range counts {
		stats.TotalWords += n
	}
	return stats
}

// NormalizeWord lowercases a clicked token the way rendered words are keyed
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

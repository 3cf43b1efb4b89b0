// ABOUTME: Word list ordering for the sidebar
// ABOUTME: Alphabetical, by frequency, or recently annotated first

package text

import (
	"sort"

	"paperread-app/core/domain"
)

// OrderWords returns the page's word entries ordered by filter.
//
// annotated lists annotated words in the order they were toggled on. For
// FilterAnnotated, annotated words come first with the most recent first,
// followed by the rest alphabetically.
func OrderWords(counts map[string]int, filter domain.WordListFilter, annotated []string) []domain.WordEntry {
	entries := make([]domain.WordEntry, 0, len(counts))
	for word, n := range counts {
		entries = append(entries, domain.WordEntry{Word: word, Count: n})
	}

	switch filter {
	case domain.FilterAlpha:
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Word < entries[j].Word
		})
	case domain.FilterFrequency:
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Count != entries[j].Count {
				return entries[i].Count > entries[j].Count
			}
			return entries[i].Word < entries[j].Word
		})
	default:
		rank := make(map[string]int, len(annotated))
		for i, word := range annotated {
			rank[word] = i
		}
		sort.Slice(entries, func(i, j int) bool {
			ri, aOK := rank[entries[i].Word]
			rj, bOK := rank[entries[j].Word]
			switch {
			case aOK && bOK:
				return ri > rj
			case aOK != bOK:
				return aOK
			default:
				return entries[i].Word < entries[j].Word
			}
		})
	}
	return entries
}

// ParseFilter maps a query value onto a filter, defaulting to FilterAnnotated
func ParseFilter(s string) domain.WordListFilter {
	switch f := domain.WordListFilter(s); f {
	case domain.FilterAlpha, domain.FilterFrequency:
		return f
	default:
		return domain.FilterAnnotated
	}
}

package text

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractWords_CountsLowercaseTokens(t *testing.T) {
	counts := ExtractWords("Data, data and DATA! A 2nd look at data-driven AI.")

	assert.Equal(t, 4, counts["data"])
	assert.Equal(t, 1, counts["and"])
	assert.Equal(t, 1, counts["nd"])
	assert.Equal(t, 1, counts["ai"])
	assert.Equal(t, 1, counts["driven"])
	_, hasA := counts["a"]
	assert.False(t, hasA, "single letters are not tokens")
}

func TestExtractWords_EmptyText(t *testing.T) {
	assert.Empty(t, ExtractWords(""))
	assert.Empty(t, ExtractWords("1234 ... !!"))
}

func TestExtractWords_SumMatchesAlphabeticRuns(t *testing.T) {
	inputs := []string{
		"The quick brown fox jumps over the lazy dog.",
		"It's 3 o'clock; I'm late!",
		"Machine-learning (ML) models: v2.0 vs. v10.",
		"",
	}
	runs := regexp.MustCompile(`[a-z]+`)

	for _, input := range inputs {
		want := 0
		for _, run := range runs.FindAllString(strings.ToLower(input), -1) {
			if len(run) > 1 {
				want++
			}
		}
		assert.Equal(t, want, Stats(ExtractWords(input)).TotalWords, input)
	}
}

func TestExtractWords_Deterministic(t *testing.T) {
	input := "Reading is to the mind what exercise is to the body."
	assert.Equal(t, ExtractWords(input), ExtractWords(input))
}

func TestStats(t *testing.T) {
	stats := Stats(map[string]int{"data": 3, "ai": 2})

	assert.Equal(t, 5, stats.TotalWords)
	assert.Equal(t, 2, stats.UniqueWords)
}

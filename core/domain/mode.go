// ABOUTME: Interaction modes and word-list filters for the reading view
// ABOUTME: Replaces the mutually exclusive mode flags with a single tagged value

package domain

import "fmt"

// InteractionMode decides what activating a word token does
type InteractionMode string

const (
	ModeHighlight        InteractionMode = "highlight"
	ModeAnnotateWord     InteractionMode = "annotate_word"
	ModeAnnotateSentence InteractionMode = "annotate_sentence"
	ModeTranslate        InteractionMode = "translate"
)

// ParseInteractionMode validates a mode name
func ParseInteractionMode(s string) (InteractionMode, error) {
	switch m := InteractionMode(s); m {
	case ModeHighlight, ModeAnnotateWord, ModeAnnotateSentence, ModeTranslate:
		return m, nil
	default:
		return "", fmt.Errorf("unknown interaction mode %q", s)
	}
}

// ShowsColorPicker reports whether the shared color picker is visible
func (m InteractionMode) ShowsColorPicker() bool {
	return m == ModeAnnotateWord || m == ModeAnnotateSentence
}

// Token identifies an activated word and its enclosing sentence
type Token struct {
	Word       string `json:"word"`
	SentenceID string `json:"sentence_id,omitempty"`
}

// WordListFilter selects the ordering of the sidebar word list
type WordListFilter string

const (
	FilterAnnotated WordListFilter = "annotated"
	FilterAlpha     WordListFilter = "alpha"
	FilterFrequency WordListFilter = "frequency"
)

// WordListItem is one row of the word list
type WordListItem struct {
	Word        string `json:"word"`
	Count       int    `json:"count"`
	Color       Color  `json:"color,omitempty"`
	Translation string `json:"translation,omitempty"`
}

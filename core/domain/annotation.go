// ABOUTME: Domain models for word and sentence annotations and reading progress
// ABOUTME: Colors, persisted annotation records and per-article progress

package domain

import (
	"regexp"
	"time"
)

// Color is a "#rrggbb" annotation color
type Color string

// DefaultAnnotationColor is the color selected when a session starts
const DefaultAnnotationColor Color = "#28a745"

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Valid reports whether the color is a six digit hex value
func (c Color) Valid() bool {
	return hexColorPattern.MatchString(string(c))
}

// WordAnnotation is the backend wire form of a word annotation
type WordAnnotation struct {
	Word  string `json:"word"`
	Color Color  `json:"color"`
}

// SentenceAnnotation is the locally persisted form of a sentence annotation
type SentenceAnnotation struct {
	SentenceID  string `json:"sentenceId"`
	Color       Color  `json:"color"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// AnnotatedSentence is a sentence annotation joined with its current text
type AnnotatedSentence struct {
	SentenceID string `json:"sentence_id"`
	Text       string `json:"text"`
	Color      Color  `json:"color"`
}

// ReadingProgress is the single progress record per (user, article)
type ReadingProgress struct {
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
	LastReadAt  time.Time `json:"lastReadAt"`
}

// PageKey scopes page-level state to a user, an article and a page
type PageKey struct {
	Username  string
	ArticleID int64
	Page      int
}

// WordTranslationFailed marks a word whose translation could not be fetched
const WordTranslationFailed = "(翻译失败)"

// ParagraphTranslationFailed marks a paragraph whose translation failed
const ParagraphTranslationFailed = "（翻译失败）"

// ParagraphTranslation pairs a paragraph with its translation
type ParagraphTranslation struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
	Failed     bool   `json:"failed"`
}

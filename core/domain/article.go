// ABOUTME: Domain models for paginated article content and derived text units
// ABOUTME: Defines pages, sentence spans, word entries and article summaries

package domain

import "strings"

// UncategorizedLabel is the catalog category used when an article has none
const UncategorizedLabel = "未分类"

// ArticlePage is one backend-delivered slice of an article's paragraphs.
// It is immutable once fetched and replaced wholesale on navigation.
type ArticlePage struct {
	ArticleID  int64    `json:"article_id"`
	Number     int      `json:"current_page"`
	TotalPages int      `json:"total_pages"`
	Paragraphs []string `json:"paragraphs"`
}

// Text joins the page paragraphs the way they are rendered
func (p *ArticlePage) Text() string {
	if p == nil {
		return ""
	}
	return strings.Join(p.Paragraphs, "\n\n")
}

// HasPrev reports whether a previous page exists
func (p *ArticlePage) HasPrev() bool {
	return p != nil && p.Number > 1
}

// HasNext reports whether a following page exists
func (p *ArticlePage) HasNext() bool {
	return p != nil && p.Number < p.TotalPages
}

// SentenceSpan is a sentence derived from a paragraph during one render pass.
// ID is sequential per pass ("sentence_<n>"); Fingerprint identifies the
// content so persisted annotations can be checked against a re-render.
type SentenceSpan struct {
	ID          string `json:"id"`
	Index       int    `json:"index"`
	Paragraph   int    `json:"paragraph"`
	Offset      int    `json:"offset"`
	Text        string `json:"text"`
	Fingerprint string `json:"fingerprint"`
}

// WordEntry is a lowercase token and its count on the current page
type WordEntry struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// PageStats summarizes the word table of the current page
type PageStats struct {
	TotalWords  int `json:"total_words"`
	UniqueWords int `json:"unique_words"`
}

// ArticleSummary is the catalog view of an article
type ArticleSummary struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Category       string `json:"category"`
	Difficulty     string `json:"difficulty,omitempty"`
	WordCount      int    `json:"word_count"`
	ParagraphCount int    `json:"paragraph_count"`
	IsFavorited    bool   `json:"is_favorited"`
}

// CategoryName returns the category or the uncategorized label
func (a ArticleSummary) CategoryName() string {
	if strings.TrimSpace(a.Category) == "" {
		return UncategorizedLabel
	}
	return a.Category
}

// CatalogCategory groups article summaries under one category
type CatalogCategory struct {
	Name     string           `json:"name"`
	Articles []ArticleSummary `json:"articles"`
}

// ArticleDraft is an article ready to be created on the backend
type ArticleDraft struct {
	Title          string `json:"title"`
	Content        string `json:"content"`
	Category       string `json:"category"`
	Difficulty     string `json:"difficulty"`
	SourceURL      string `json:"source_url,omitempty"`
	Markdown       string `json:"markdown,omitempty"`
	WordCount      int    `json:"word_count"`
	ParagraphCount int    `json:"paragraph_count"`
}

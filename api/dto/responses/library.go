// ABOUTME: Response DTOs for catalog, import, session listings and dictation
// ABOUTME: Session views themselves are returned as domain.SessionView

package responses

import "paperread-app/core/domain"

// ArticleResponse is an article as listed in the catalog
type ArticleResponse struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Category       string `json:"category"`
	Difficulty     string `json:"difficulty,omitempty"`
	WordCount      int    `json:"word_count"`
	ParagraphCount int    `json:"paragraph_count"`
	IsFavorited    bool   `json:"is_favorited"`
}

// CategoryResponse groups articles under one category
type CategoryResponse struct {
	Name     string            `json:"name"`
	Count    int               `json:"count"`
	Articles []ArticleResponse `json:"articles"`
}

// CatalogResponse is the grouped article catalog
type CatalogResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Total      int                `json:"total"`
}

// ImportResponse reports an imported article
type ImportResponse struct {
	Article ArticleResponse `json:"article"`
}

// WordListResponse lists the current page's words
type WordListResponse struct {
	Filter domain.WordListFilter `json:"filter"`
	Words  []domain.WordListItem `json:"words"`
	Stats  domain.PageStats      `json:"stats"`
}

// SentencesResponse lists annotated sentences in insertion order
type SentencesResponse struct {
	Sentences []domain.AnnotatedSentence `json:"sentences"`
}

// ClearResponse reports whether anything was cleared
type ClearResponse struct {
	Cleared bool               `json:"cleared"`
	Session domain.SessionView `json:"session"`
}

// FavoriteResponse carries the new favorite state
type FavoriteResponse struct {
	IsFavorited bool `json:"is_favorited"`
}

// DictationResponse is the state of a practice run
type DictationResponse struct {
	ID         string                  `json:"id"`
	Index      int                     `json:"index"`
	Total      int                     `json:"total"`
	Progress   string                  `json:"progress"`
	Type       domain.QuestionType     `json:"type,omitempty"`
	Chinese    string                  `json:"chinese,omitempty"`
	Answered   bool                    `json:"answered"`
	Completed  bool                    `json:"completed"`
	LastResult *domain.DictationResult `json:"last_result,omitempty"`
	Stats      domain.DictationStats   `json:"stats"`
}

// AnswerResponse is the result of submitting or skipping
type AnswerResponse struct {
	Result   domain.DictationResult `json:"result"`
	Practice DictationResponse      `json:"practice"`
}

// HintResponse carries the phonetic hint
type HintResponse struct {
	Phonetic string `json:"phonetic"`
}

// SpeechResponse names the clip being synthesized
type SpeechResponse struct {
	UtteranceID string `json:"utterance_id"`
	AudioURL    string `json:"audio_url"`
}

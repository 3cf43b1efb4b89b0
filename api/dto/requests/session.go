// ABOUTME: Request DTOs for reading session endpoints
// ABOUTME: Field checks beyond presence are left to the session so errors stay consistent

package requests

// OpenSessionRequest opens a reading session
type OpenSessionRequest struct {
	Username  string `json:"username" doc:"Reader's username" example:"alice"`
	ArticleID int64  `json:"article_id" doc:"Article to read" example:"42"`

	// PageSize overrides the stored paragraphs-per-page preference
	PageSize int `json:"page_size,omitempty" minimum:"0" doc:"Paragraphs per page; 0 uses the stored preference"`
}

// ModeRequest switches the interaction mode
type ModeRequest struct {
	Mode string `json:"mode" doc:"One of highlight, annotate_word, annotate_sentence, translate"`
}

// ColorRequest selects the annotation color
type ColorRequest struct {
	Color string `json:"color" doc:"Hex color #rrggbb" example:"#28a745"`
}

// TokenRequest activates a word on the page
type TokenRequest struct {
	Word       string `json:"word" doc:"Activated word"`
	SentenceID string `json:"sentence_id,omitempty" doc:"Enclosing sentence id, required in sentence annotation mode" example:"sentence_3"`
}

// AnnotationRequest optionally overrides the session color
type AnnotationRequest struct {
	Color string `json:"color,omitempty" doc:"Hex color #rrggbb; defaults to the selected color"`
}

// PageSizeRequest changes paragraphs per page
type PageSizeRequest struct {
	PageSize int `json:"page_size" doc:"Paragraphs per page" example:"8"`
}

// RateRequest changes the read-aloud rate
type RateRequest struct {
	Rate float64 `json:"rate" doc:"Speech rate multiplier" example:"1.2"`
}

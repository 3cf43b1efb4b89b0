// ABOUTME: Session view is the snapshot a reading session returns after every operation
// ABOUTME: It replaces the DOM state the browser app used to hold

package domain

// SessionView is an immutable snapshot of one reading session
type SessionView struct {
	SessionID string          `json:"session_id"`
	Username  string          `json:"username"`
	Article   ArticleSummary  `json:"article"`
	Page      *ArticlePage    `json:"page,omitempty"`
	Sentences []SentenceSpan  `json:"sentences"`
	Stats     PageStats       `json:"stats"`
	HasPrev   bool            `json:"has_prev"`
	HasNext   bool            `json:"has_next"`
	LoadState LoadState       `json:"load_state"`
	LoadError string          `json:"load_error,omitempty"`
	Progress  ReadingProgress `json:"progress"`
	Resumed   bool            `json:"resumed"`

	Mode               InteractionMode `json:"mode"`
	Color              Color           `json:"color"`
	ColorPickerVisible bool            `json:"color_picker_visible"`
	HighlightedWord    string          `json:"highlighted_word,omitempty"`

	WordColors          map[string]Color  `json:"word_colors"`
	SentenceColors      map[string]Color  `json:"sentence_colors"`
	Translations        map[string]string `json:"translations"`
	AnnotationsVisible  bool              `json:"annotations_visible"`
	TranslationsVisible bool              `json:"translations_visible"`

	PageTranslation        []ParagraphTranslation `json:"page_translation,omitempty"`
	PageTranslationVisible bool                   `json:"page_translation_visible"`

	Playback           PlaybackStatus `json:"playback"`
	ReadAloudSupported bool           `json:"read_aloud_supported"`
}

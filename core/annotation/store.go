// ABOUTME: Annotation store tracks word and sentence colors, interaction mode and translations
// ABOUTME: Pure state owned by one reading session; callers serialize access

package annotation

import (
	"fmt"

	"paperread-app/core/domain"
	coreerrors "paperread-app/core/errors"
	"paperread-app/core/text"
)

// Store holds the annotation state of one reading session. Word annotations
// span the whole article; sentence annotations, the highlighted word and the
// page translation belong to the currently bound page.
type Store struct {
	mode  domain.InteractionMode
	color domain.Color

	words     map[string]domain.Color
	wordOrder []string

	page      domain.PageKey
	spans     []domain.SentenceSpan
	spanIndex map[string]int
	counts    map[string]int

	sentences     map[string]domain.SentenceAnnotation
	sentenceOrder []string

	highlighted string

	translations map[string]string

	pageTranslation        []domain.ParagraphTranslation
	pageTranslationVisible bool

	showAnnotations  bool
	showTranslations bool
}

// NewStore creates a store in highlight mode with the default color
func NewStore() *Store {
	return &Store{
		mode:             domain.ModeHighlight,
		color:            domain.DefaultAnnotationColor,
		words:            make(map[string]domain.Color),
		spanIndex:        make(map[string]int),
		counts:           make(map[string]int),
		sentences:        make(map[string]domain.SentenceAnnotation),
		translations:     make(map[string]string),
		showAnnotations:  true,
		showTranslations: true,
	}
}

// Mode returns the active interaction mode
func (s *Store) Mode() domain.InteractionMode {
	return s.mode
}

// SetMode makes m the only active mode
func (s *Store) SetMode(m domain.InteractionMode) {
	s.mode = m
}

// ToggleMode activates m, or falls back to highlight when m is already active
func (s *Store) ToggleMode(m domain.InteractionMode) domain.InteractionMode {
	if s.mode == m {
		s.mode = domain.ModeHighlight
	} else {
		s.mode = m
	}
	return s.mode
}

// Color returns the color used by annotation toggles
func (s *Store) Color() domain.Color {
	return s.color
}

// SetColor changes the annotation color
func (s *Store) SetColor(c domain.Color) error {
	if !c.Valid() {
		return &coreerrors.ValidationError{Field: "color", Message: fmt.Sprintf("%q is not a #rrggbb color", c)}
	}
	s.color = c
	return nil
}

func (s *Store) pick(c domain.Color) (domain.Color, error) {
	if c == "" {
		return s.color, nil
	}
	if !c.Valid() {
		return "", &coreerrors.ValidationError{Field: "color", Message: fmt.Sprintf("%q is not a #rrggbb color", c)}
	}
	return c, nil
}

// LoadWordAnnotations replaces the word annotations with the backend's list
func (s *Store) LoadWordAnnotations(annotations []domain.WordAnnotation) {
	s.words = make(map[string]domain.Color, len(annotations))
	s.wordOrder = s.wordOrder[:0]
	for _, a := range annotations {
		word := text.NormalizeWord(a.Word)
		if word == "" || !a.Color.Valid() {
			continue
		}
		if _, dup := s.words[word]; !dup {
			s.wordOrder = append(s.wordOrder, word)
		}
		s.words[word] = a.Color
	}
}

// ToggleWord removes the word's annotation if present, otherwise annotates it
// with color (the current color when empty). It reports whether the word is
// now annotated.
func (s *Store) ToggleWord(word string, color domain.Color) (bool, error) {
	word = text.NormalizeWord(word)
	if word == "" {
		return false, &coreerrors.ValidationError{Field: "word", Message: "word cannot be empty"}
	}
	c, err := s.pick(color)
	if err != nil {
		return false, err
	}

	if _, ok := s.words[word]; ok {
		delete(s.words, word)
		s.wordOrder = remove(s.wordOrder, word)
		return false, nil
	}
	s.words[word] = c
	s.wordOrder = append(s.wordOrder, word)
	return true, nil
}

// WordColor returns a word's annotation color
func (s *Store) WordColor(word string) (domain.Color, bool) {
	c, ok := s.words[text.NormalizeWord(word)]
	return c, ok
}

// WordAnnotations returns all word annotations in the order they were added
func (s *Store) WordAnnotations() []domain.WordAnnotation {
	out := make([]domain.WordAnnotation, 0, len(s.wordOrder))
	for _, w := range s.wordOrder {
		out = append(out, domain.WordAnnotation{Word: w, Color: s.words[w]})
	}
	return out
}

// BindPage switches page-scoped state to a freshly rendered page and restores
// its saved sentence annotations. Saved annotations naming an unknown
// sentence, or whose fingerprint no longer matches, are dropped and returned.
func (s *Store) BindPage(key domain.PageKey, spans []domain.SentenceSpan, counts map[string]int, saved []domain.SentenceAnnotation) []domain.SentenceAnnotation {
	s.page = key
	s.spans = spans
	s.counts = counts
	s.spanIndex = make(map[string]int, len(spans))
	for i, span := range spans {
		s.spanIndex[span.ID] = i
	}

	s.sentences = make(map[string]domain.SentenceAnnotation, len(saved))
	s.sentenceOrder = nil
	s.highlighted = ""
	s.pageTranslation = nil
	s.pageTranslationVisible = false

	var orphaned []domain.SentenceAnnotation
	for _, a := range saved {
		i, ok := s.spanIndex[a.SentenceID]
		if !ok || !a.Color.Valid() || (a.Fingerprint != "" && a.Fingerprint != spans[i].Fingerprint) {
			orphaned = append(orphaned, a)
			continue
		}
		if _, dup := s.sentences[a.SentenceID]; !dup {
			s.sentenceOrder = append(s.sentenceOrder, a.SentenceID)
		}
		a.Fingerprint = spans[i].Fingerprint
		s.sentences[a.SentenceID] = a
	}
	return orphaned
}

// Page returns the bound page key
func (s *Store) Page() domain.PageKey {
	return s.page
}

// Spans returns the bound page's sentence spans
func (s *Store) Spans() []domain.SentenceSpan {
	return s.spans
}

// Counts returns the bound page's word table
func (s *Store) Counts() map[string]int {
	return s.counts
}

// ToggleSentence flips the annotation of a sentence on the bound page and
// reports whether it is now annotated
func (s *Store) ToggleSentence(id string, color domain.Color) (bool, error) {
	i, ok := s.spanIndex[id]
	if !ok {
		return false, &coreerrors.NotFoundError{Resource: "sentence", ID: id}
	}
	c, err := s.pick(color)
	if err != nil {
		return false, err
	}

	if _, on := s.sentences[id]; on {
		delete(s.sentences, id)
		s.sentenceOrder = remove(s.sentenceOrder, id)
		return false, nil
	}
	s.sentences[id] = domain.SentenceAnnotation{
		SentenceID:  id,
		Color:       c,
		Fingerprint: s.spans[i].Fingerprint,
	}
	s.sentenceOrder = append(s.sentenceOrder, id)
	return true, nil
}

// DeleteSentence removes a sentence annotation and reports whether one existed
func (s *Store) DeleteSentence(id string) bool {
	if _, ok := s.sentences[id]; !ok {
		return false
	}
	delete(s.sentences, id)
	s.sentenceOrder = remove(s.sentenceOrder, id)
	return true
}

// SentenceAnnotations returns the bound page's sentence annotations in the
// order they were added
func (s *Store) SentenceAnnotations() []domain.SentenceAnnotation {
	out := make([]domain.SentenceAnnotation, 0, len(s.sentenceOrder))
	for _, id := range s.sentenceOrder {
		out = append(out, s.sentences[id])
	}
	return out
}

// AnnotatedSentences joins sentence annotations with their text
func (s *Store) AnnotatedSentences() []domain.AnnotatedSentence {
	out := make([]domain.AnnotatedSentence, 0, len(s.sentenceOrder))
	for _, id := range s.sentenceOrder {
		out = append(out, domain.AnnotatedSentence{
			SentenceID: id,
			Text:       s.spans[s.spanIndex[id]].Text,
			Color:      s.sentences[id].Color,
		})
	}
	return out
}

// AppliedWordColors returns the colors of annotated words present on the page
func (s *Store) AppliedWordColors() map[string]domain.Color {
	out := make(map[string]domain.Color)
	for w, c := range s.words {
		if s.counts[w] > 0 {
			out[w] = c
		}
	}
	return out
}

// AppliedSentenceColors returns sentence id to color for the bound page
func (s *Store) AppliedSentenceColors() map[string]domain.Color {
	out := make(map[string]domain.Color, len(s.sentences))
	for id, a := range s.sentences {
		out[id] = a.Color
	}
	return out
}

// ToggleHighlight highlights every occurrence of word, or clears the
// highlight when word is already highlighted. It returns the highlighted word.
func (s *Store) ToggleHighlight(word string) string {
	word = text.NormalizeWord(word)
	if s.highlighted == word {
		s.highlighted = ""
	} else {
		s.highlighted = word
	}
	return s.highlighted
}

// Highlighted returns the highlighted word, if any
func (s *Store) Highlighted() string {
	return s.highlighted
}

// ShowTranslation displays a word translation
func (s *Store) ShowTranslation(word, translation string) {
	s.translations[text.NormalizeWord(word)] = translation
}

// HideTranslation removes a word translation from display
func (s *Store) HideTranslation(word string) bool {
	word = text.NormalizeWord(word)
	if _, ok := s.translations[word]; !ok {
		return false
	}
	delete(s.translations, word)
	return true
}

// TranslationShown reports whether a word's translation is displayed
func (s *Store) TranslationShown(word string) bool {
	_, ok := s.translations[text.NormalizeWord(word)]
	return ok
}

// ActiveTranslations returns the displayed word translations
func (s *Store) ActiveTranslations() map[string]string {
	out := make(map[string]string, len(s.translations))
	for w, t := range s.translations {
		out[w] = t
	}
	return out
}

// SetPageTranslation shows a paragraph translation of the bound page
func (s *Store) SetPageTranslation(items []domain.ParagraphTranslation) {
	s.pageTranslation = items
	s.pageTranslationVisible = true
}

// HidePageTranslation removes the paragraph translation from display
func (s *Store) HidePageTranslation() {
	s.pageTranslation = nil
	s.pageTranslationVisible = false
}

// PageTranslation returns the displayed paragraph translation
func (s *Store) PageTranslation() ([]domain.ParagraphTranslation, bool) {
	return s.pageTranslation, s.pageTranslationVisible
}

// ToggleAnnotationsVisible flips whether annotation colors are rendered
func (s *Store) ToggleAnnotationsVisible() bool {
	s.showAnnotations = !s.showAnnotations
	return s.showAnnotations
}

// ToggleTranslationsVisible flips whether word translations are rendered
func (s *Store) ToggleTranslationsVisible() bool {
	s.showTranslations = !s.showTranslations
	return s.showTranslations
}

// Visibility returns the annotation and translation visibility flags
func (s *Store) Visibility() (annotations, translations bool) {
	return s.showAnnotations, s.showTranslations
}

// Empty reports whether there is nothing for ClearAll to remove
func (s *Store) Empty() bool {
	return len(s.words) == 0 && len(s.sentences) == 0 &&
		len(s.translations) == 0 && !s.pageTranslationVisible
}

// ClearAll removes every word annotation, the bound page's sentence
// annotations and all displayed translations. It reports whether anything
// was removed.
func (s *Store) ClearAll() bool {
	if s.Empty() {
		return false
	}
	s.words = make(map[string]domain.Color)
	s.wordOrder = nil
	s.sentences = make(map[string]domain.SentenceAnnotation)
	s.sentenceOrder = nil
	s.translations = make(map[string]string)
	s.HidePageTranslation()
	return true
}

// WordList returns the page's words ordered by filter with their annotation
// color and displayed translation
func (s *Store) WordList(filter domain.WordListFilter) []domain.WordListItem {
	entries := text.OrderWords(s.counts, filter, s.wordOrder)
	items := make([]domain.WordListItem, len(entries))
	for i, e := range entries {
		items[i] = domain.WordListItem{
			Word:        e.Word,
			Count:       e.Count,
			Color:       s.words[e.Word],
			Translation: s.translations[e.Word],
		}
	}
	return items
}

// Stats summarizes the page's word table
func (s *Store) Stats() domain.PageStats {
	return text.Stats(s.counts)
}

func remove(list []string, v string) []string {
	for i, item := range list {
		if item == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

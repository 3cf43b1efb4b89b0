// ABOUTME: Translation lookups for words and pages, remembered in a shared cache
// ABOUTME: Failures yield per-item placeholders instead of errors

package annotation

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"paperread-app/core/domain"
	"paperread-app/core/interfaces"
	"paperread-app/core/text"

	"github.com/cespare/xxhash/v2"
)

// Translations looks up word and paragraph translations. Results are shared
// by every session through cache; failed word lookups are remembered as the
// failure placeholder.
type Translations struct {
	translator interfaces.Translator
	cache      interfaces.Cache
	logger     interfaces.Logger
	ttl        time.Duration
}

// NewTranslations creates a translation lookup. A nil translator makes every
// lookup fail with the placeholder.
func NewTranslations(translator interfaces.Translator, cache interfaces.Cache, logger interfaces.Logger, ttl time.Duration) *Translations {
	return &Translations{translator: translator, cache: cache, logger: logger, ttl: ttl}
}

func wordKey(word string) string {
	return "translation:word:" + word
}

func pageKey(paragraphs []string) string {
	sum := xxhash.Sum64String(strings.Join(paragraphs, "\n\n"))
	return "translation:page:" + strconv.FormatUint(sum, 16)
}

// Word returns the translation of word, or domain.WordTranslationFailed
func (t *Translations) Word(ctx context.Context, word string) string {
	word = text.NormalizeWord(word)
	if cached, err := t.cache.Get(ctx, wordKey(word)); err == nil {
		return string(cached)
	}

	translated, err := t.translate(ctx, word)
	if err != nil {
		t.logger.Warn("Word translation failed", map[string]interface{}{
			"word":  word,
			"error": err.Error(),
		})
		translated = domain.WordTranslationFailed
	}
	if ctx.Err() == nil {
		_ = t.cache.Set(ctx, wordKey(word), []byte(translated), t.ttl)
	}
	return translated
}

// Paragraphs translates each paragraph independently. A failed paragraph is
// marked with domain.ParagraphTranslationFailed; the others are unaffected.
// Fully successful results are cached by page text.
func (t *Translations) Paragraphs(ctx context.Context, paragraphs []string) []domain.ParagraphTranslation {
	key := pageKey(paragraphs)
	if cached, err := t.cache.Get(ctx, key); err == nil {
		if items, ok := decodeParagraphs(cached, paragraphs); ok {
			return items
		}
	}

	items := make([]domain.ParagraphTranslation, len(paragraphs))
	failed := 0
	for i, p := range paragraphs {
		items[i].Original = p
		if strings.TrimSpace(p) == "" {
			continue
		}
		translated, err := t.translate(ctx, p)
		if err != nil {
			failed++
			t.logger.Warn("Paragraph translation failed", map[string]interface{}{
				"paragraph": i,
				"error":     err.Error(),
			})
			items[i].Translated = domain.ParagraphTranslationFailed
			items[i].Failed = true
			continue
		}
		items[i].Translated = translated
	}

	if failed == 0 {
		_ = t.cache.Set(ctx, key, encodeParagraphs(items), t.ttl)
	}
	return items
}

var errNoTranslator = errors.New("translation service not configured")

func (t *Translations) translate(ctx context.Context, s string) (string, error) {
	if t.translator == nil {
		return "", errNoTranslator
	}
	out, err := t.translator.Translate(ctx, s)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", errors.New("empty translation")
	}
	return out, nil
}

// Cached page translations store only the translated column
func encodeParagraphs(items []domain.ParagraphTranslation) []byte {
	translated := make([]string, len(items))
	for i, it := range items {
		translated[i] = it.Translated
	}
	data, _ := json.Marshal(translated)
	return data
}

func decodeParagraphs(data []byte, paragraphs []string) ([]domain.ParagraphTranslation, bool) {
	var translated []string
	if err := json.Unmarshal(data, &translated); err != nil || len(translated) != len(paragraphs) {
		return nil, false
	}
	items := make([]domain.ParagraphTranslation, len(paragraphs))
	for i, p := range paragraphs {
		items[i] = domain.ParagraphTranslation{Original: p, Translated: translated[i]}
	}
	return items, true
}

// ABOUTME: Storage adapter persists per-user reading state over a key-value cache
// ABOUTME: Keys stay compatible with the browser app's local storage layout

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"paperread-app/core/domain"
	coreerrors "paperread-app/core/errors"
	"paperread-app/core/interfaces"
	"paperread-app/pkg/utils/parse"
)

const (
	progressPrefix       = "paperread_reading_progress_"
	legacyProgressPrefix = "reading_progress_"
	sentencePrefix       = "sentence_annotations_"

	// PageSizeKey holds the paragraphs-per-page preference
	PageSizeKey = "maxParagraphs"
	// UsernameKey holds the last username
	UsernameKey = "username"

	documentsKey = "paperread_docs_data"
	aiConfigKey  = "paperread_ai_config"
	navTabsKey   = "navTabs"
)

// Adapter reads and writes reading state. Values never expire.
type Adapter struct {
	cache  interfaces.Cache
	logger interfaces.Logger
	now    func() time.Time
}

// NewAdapter creates a storage adapter on top of cache
func NewAdapter(cache interfaces.Cache, logger interfaces.Logger) *Adapter {
	return &Adapter{cache: cache, logger: logger, now: time.Now}
}

// ProgressKey returns the reading progress key for a user and article
func ProgressKey(username string, articleID int64) string {
	return fmt.Sprintf("%s%s_%d", progressPrefix, username, articleID)
}

// SentenceAnnotationsKey returns the sentence annotation key for a page
func SentenceAnnotationsKey(key domain.PageKey) string {
	return fmt.Sprintf("%s%s_%d_page%d", sentencePrefix, key.Username, key.ArticleID, key.Page)
}

// LoadProgress returns the saved progress for an article. The legacy key and
// a bare page number are accepted. Nothing stored yields page 1.
func (a *Adapter) LoadProgress(ctx context.Context, username string, articleID int64) (domain.ReadingProgress, error) {
	keys := []string{
		ProgressKey(username, articleID),
		fmt.Sprintf("%s%s_%d", legacyProgressPrefix, username, articleID),
	}
	for _, key := range keys {
		data, err := a.cache.Get(ctx, key)
		if errors.Is(err, interfaces.ErrCacheMiss) {
			continue
		}
		if err != nil {
			return domain.ReadingProgress{CurrentPage: 1}, err
		}
		if progress, ok := decodeProgress(data); ok {
			return progress, nil
		}
		a.logger.Warn("Ignoring unreadable reading progress", map[string]interface{}{
			"key": key,
		})
	}
	return domain.ReadingProgress{CurrentPage: 1}, nil
}

func decodeProgress(data []byte) (domain.ReadingProgress, bool) {
	var progress domain.ReadingProgress
	if err := json.Unmarshal(data, &progress); err == nil && progress.CurrentPage > 0 {
		return progress, true
	}
	if page, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil && page > 0 {
		return domain.ReadingProgress{CurrentPage: page}, true
	}
	return domain.ReadingProgress{}, false
}

// SaveProgress overwrites the progress record for an article
func (a *Adapter) SaveProgress(ctx context.Context, username string, articleID int64, currentPage, totalPages int) error {
	data, err := json.Marshal(domain.ReadingProgress{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		LastReadAt:  a.now().UTC(),
	})
	if err != nil {
		return err
	}
	return a.cache.Set(ctx, ProgressKey(username, articleID), data, 0)
}

// LoadSentenceAnnotations returns the sentence annotations of a page in the
// order they were stored
func (a *Adapter) LoadSentenceAnnotations(ctx context.Context, key domain.PageKey) ([]domain.SentenceAnnotation, error) {
	data, err := a.cache.Get(ctx, SentenceAnnotationsKey(key))
	if errors.Is(err, interfaces.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var annotations []domain.SentenceAnnotation
	if err := json.Unmarshal(data, &annotations); err != nil {
		a.logger.Warn("Ignoring unreadable sentence annotations", map[string]interface{}{
			"article_id": key.ArticleID,
			"page":       key.Page,
			"error":      err.Error(),
		})
		return nil, nil
	}
	return annotations, nil
}

// SaveSentenceAnnotations replaces the sentence annotations of a page
func (a *Adapter) SaveSentenceAnnotations(ctx context.Context, key domain.PageKey, annotations []domain.SentenceAnnotation) error {
	if annotations == nil {
		annotations = []domain.SentenceAnnotation{}
	}
	data, err := json.Marshal(annotations)
	if err != nil {
		return err
	}
	return a.cache.Set(ctx, SentenceAnnotationsKey(key), data, 0)
}

// PageSize returns the stored paragraphs-per-page preference or def
func (a *Adapter) PageSize(ctx context.Context, def int) int {
	data, err := a.cache.Get(ctx, PageSizeKey)
	if err != nil {
		return def
	}
	return parse.PositiveIntOr(string(data), def)
}

// SetPageSize stores the paragraphs-per-page preference
func (a *Adapter) SetPageSize(ctx context.Context, size int) error {
	if size <= 0 {
		return fmt.Errorf("page size must be positive, got %d", size)
	}
	return a.cache.Set(ctx, PageSizeKey, []byte(strconv.Itoa(size)), 0)
}

// Username returns the last stored username, or "" when none is stored
func (a *Adapter) Username(ctx context.Context) string {
	data, err := a.cache.Get(ctx, UsernameKey)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetUsername stores the last username
func (a *Adapter) SetUsername(ctx context.Context, username string) error {
	return a.cache.Set(ctx, UsernameKey, []byte(username), 0)
}

// userKey scopes a browser-wide key to one user; "" keeps the browser layout
func userKey(base, username string) string {
	if username == "" {
		return base
	}
	return base + "_" + username
}

// LoadDocuments returns the user's document tree. ok is false when nothing
// usable is stored.
func (a *Adapter) LoadDocuments(ctx context.Context, username string) (docs []domain.Document, ok bool, err error) {
	data, err := a.cache.Get(ctx, userKey(documentsKey, username))
	if errors.Is(err, interfaces.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal(data, &docs); err != nil {
		a.logger.Warn("Ignoring unreadable document tree", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
		return nil, false, nil
	}
	return docs, true, nil
}

// SaveDocuments replaces the user's document tree
func (a *Adapter) SaveDocuments(ctx context.Context, username string, docs []domain.Document) error {
	if docs == nil {
		docs = []domain.Document{}
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	return a.cache.Set(ctx, userKey(documentsKey, username), data, 0)
}

// AIConfig returns the stored AI provider configuration, or nil
func (a *Adapter) AIConfig(ctx context.Context, username string) (*domain.AIConfig, error) {
	data, err := a.cache.Get(ctx, userKey(aiConfigKey, username))
	if errors.Is(err, interfaces.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg domain.AIConfig
	if err := json.Unmarshal(data, &cfg); err != nil || cfg.Provider == "" {
		a.logger.Warn("Ignoring unreadable AI configuration", map[string]interface{}{
			"username": username,
		})
		return nil, nil
	}
	return &cfg, nil
}

// SetAIConfig validates and stores the AI provider configuration. The custom
// endpoint is kept only for the custom provider.
func (a *Adapter) SetAIConfig(ctx context.Context, username string, cfg domain.AIConfig) error {
	cfg.Provider = strings.TrimSpace(cfg.Provider)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.CustomURL = strings.TrimSpace(cfg.CustomURL)

	switch {
	case cfg.Provider == "":
		return &coreerrors.ValidationError{Field: "provider", Message: "provider is required"}
	case cfg.APIKey == "":
		return &coreerrors.ValidationError{Field: "apiKey", Message: "api key is required"}
	case cfg.Provider == domain.AIProviderCustom && cfg.CustomURL == "":
		return &coreerrors.ValidationError{Field: "customUrl", Message: "custom provider needs an api url"}
	}
	if cfg.Provider != domain.AIProviderCustom {
		cfg.CustomURL = ""
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return a.cache.Set(ctx, userKey(aiConfigKey, username), data, 0)
}

// ClearAIConfig removes the AI provider configuration
func (a *Adapter) ClearAIConfig(ctx context.Context, username string) error {
	return a.cache.Delete(ctx, userKey(aiConfigKey, username))
}

// NavTabs returns navigation visibility with stored values over the defaults
func (a *Adapter) NavTabs(ctx context.Context, username string) domain.NavTabs {
	tabs := domain.DefaultNavTabs()
	data, err := a.cache.Get(ctx, userKey(navTabsKey, username))
	if err != nil {
		return tabs
	}
	var stored map[string]bool
	if err := json.Unmarshal(data, &stored); err != nil {
		return tabs
	}
	for name, visible := range stored {
		if _, known := tabs[name]; known {
			tabs[name] = visible
		}
	}
	// settings stay reachable
	tabs["settings"] = true
	return tabs
}

// SetNavTabs stores navigation visibility; unknown entries are rejected
func (a *Adapter) SetNavTabs(ctx context.Context, username string, tabs domain.NavTabs) (domain.NavTabs, error) {
	defaults := domain.DefaultNavTabs()
	for name := range tabs {
		if _, known := defaults[name]; !known {
			return nil, &coreerrors.ValidationError{Field: "tabs", Message: fmt.Sprintf("unknown navigation entry %q", name)}
		}
	}
	data, err := json.Marshal(tabs)
	if err != nil {
		return nil, err
	}
	if err := a.cache.Set(ctx, userKey(navTabsKey, username), data, 0); err != nil {
		return nil, err
	}
	return a.NavTabs(ctx, username), nil
}

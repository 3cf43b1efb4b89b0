// ABOUTME: Catalog service lists the article library grouped by category
// ABOUTME: Results are cached briefly so opening the catalog does not hit the backend each time

package catalog

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"paperread-app/core/domain"
	"paperread-app/core/interfaces"
)

const (
	// CacheKey holds the grouped catalog
	CacheKey = "catalog:articles"
	// CacheTTL is how long a catalog stays cached
	CacheTTL = 5 * time.Minute
	// PageSize is the number of articles requested from the backend
	PageSize = 100
)

// ArticleLister returns article summaries from the backend
type ArticleLister interface {
	ListArticles(ctx context.Context, pageSize int) ([]domain.ArticleSummary, error)
}

// Service builds the catalog
type Service struct {
	lister ArticleLister
	cache  interfaces.Cache
	logger interfaces.Logger
}

// NewService creates a catalog service; cache may be nil
func NewService(lister ArticleLister, cache interfaces.Cache, logger interfaces.Logger) *Service {
	return &Service{
		lister: lister,
		cache:  cache,
		logger: logger,
	}
}

// Load returns the catalog, from cache when fresh
func (s *Service) Load(ctx context.Context) ([]domain.CatalogCategory, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, CacheKey); err == nil {
			var cached []domain.CatalogCategory
			if err := json.Unmarshal(data, &cached); err == nil {
				s.logger.Debug("Catalog served from cache", map[string]interface{}{
					"categories": len(cached),
				})
				return cached, nil
			}
		}
	}
	return s.Refresh(ctx)
}

// Refresh fetches the catalog from the backend and replaces the cached copy
func (s *Service) Refresh(ctx context.Context) ([]domain.CatalogCategory, error) {
	articles, err := s.lister.ListArticles(ctx, PageSize)
	if err != nil {
		s.logger.Error("Failed to load catalog", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	categories := Group(articles)

	if s.cache != nil {
		if data, err := json.Marshal(categories); err == nil {
			if err := s.cache.Set(ctx, CacheKey, data, CacheTTL); err != nil {
				s.logger.Warn("Failed to cache catalog", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	s.logger.Info("Catalog loaded", map[string]interface{}{
		"articles":   len(articles),
		"categories": len(categories),
	})
	return categories, nil
}

// Group buckets articles by category name, sorted by name. Articles keep the
// backend's order within a category; a blank category becomes 未分类.
func Group(articles []domain.ArticleSummary) []domain.CatalogCategory {
	index := make(map[string]int)
	var categories []domain.CatalogCategory
	for _, a := range articles {
		name := a.CategoryName()
		i, ok := index[name]
		if !ok {
			i = len(categories)
			index[name] = i
			categories = append(categories, domain.CatalogCategory{Name: name})
		}
		categories[i].Articles = append(categories[i].Articles, a)
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	if categories == nil {
		categories = []domain.CatalogCategory{}
	}
	return categories
}

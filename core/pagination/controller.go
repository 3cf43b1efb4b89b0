// ABOUTME: Pagination controller tracks the displayed page and the load state machine
// ABOUTME: Latest request wins; responses to superseded requests are discarded

package pagination

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"paperread-app/core/domain"
	coreerrors "paperread-app/core/errors"
	"paperread-app/core/interfaces"
)

// ErrSuperseded is returned for a response whose request was replaced by a newer one
var ErrSuperseded = errors.New("page load superseded by a newer request")

// PageFetcher returns one page of an article's paragraphs
type PageFetcher interface {
	FetchPage(ctx context.Context, articleID int64, page, pageSize int) (*domain.ArticlePage, error)
}

// Ticket identifies one issued load
type Ticket struct {
	Generation uint64
	Page       int
	PageSize   int
}

// Controller owns the current page of one article.
//
// A load is split into Begin, the fetch, and Complete so that callers can
// apply the new page to their own state under their own lock before any later
// response is considered. A failed load leaves the current page in place.
type Controller struct {
	fetcher   PageFetcher
	logger    interfaces.Logger
	articleID int64

	mu         sync.Mutex
	state      domain.LoadState
	current    *domain.ArticlePage
	generation uint64
	lastErr    error
}

// NewController creates an idle controller for one article
func NewController(fetcher PageFetcher, logger interfaces.Logger, articleID int64) *Controller {
	return &Controller{
		fetcher:   fetcher,
		logger:    logger,
		articleID: articleID,
		state:     domain.LoadIdle,
	}
}

// Begin issues a load of page n and moves to Loading. Any load still in
// flight becomes superseded.
func (c *Controller) Begin(n, pageSize int) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.state = domain.LoadLoading
	return Ticket{Generation: c.generation, Page: n, PageSize: pageSize}
}

// Fetch performs the request for a ticket without touching controller state
func (c *Controller) Fetch(ctx context.Context, t Ticket) (*domain.ArticlePage, error) {
	page, err := c.fetcher.FetchPage(ctx, c.articleID, t.Page, t.PageSize)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, fmt.Errorf("empty response for page %d", t.Page)
	}
	normalized := *page
	normalized.ArticleID = c.articleID
	if normalized.Number < 1 {
		normalized.Number = t.Page
	}
	if normalized.TotalPages < normalized.Number {
		normalized.TotalPages = normalized.Number
	}
	return &normalized, nil
}

// Complete records the outcome of a ticket. It returns ErrSuperseded, with
// state untouched, when a newer load was issued after t.
func (c *Controller) Complete(t Ticket, page *domain.ArticlePage, fetchErr error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.Generation != c.generation {
		c.logger.Debug("Discarding superseded page response", map[string]interface{}{
			"article_id": c.articleID,
			"page":       t.Page,
			"generation": t.Generation,
		})
		return ErrSuperseded
	}

	if fetchErr != nil {
		c.state = domain.LoadFailed
		c.lastErr = fetchErr
		c.logger.Error("Failed to load page", map[string]interface{}{
			"article_id": c.articleID,
			"page":       t.Page,
			"error":      fetchErr.Error(),
		})
		return fetchErr
	}

	c.current = page
	c.state = domain.LoadLoaded
	c.lastErr = nil
	return nil
}

// State returns the load state
func (c *Controller) State() domain.LoadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the displayed page, or nil before the first successful load
func (c *Controller) Current() *domain.ArticlePage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// LastError returns the error of the last failed load
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Target resolves a relative move from the displayed page and checks bounds.
// Out-of-range targets yield a ValidationError.
func (c *Controller) Target(delta int) (int, error) {
	c.mu.Lock()
	cur := c.current
	c.mu.Unlock()

	if cur == nil {
		return 0, &coreerrors.StateError{Operation: "navigate", State: string(c.State())}
	}
	return cur.Number + delta, CheckBounds(cur.Number+delta, cur.TotalPages)
}

// CheckBounds validates n against [1, total]; a total below 1 is treated as unknown
func CheckBounds(n, total int) error {
	if n < 1 || (total >= 1 && n > total) {
		return &coreerrors.ValidationError{
			Field:   "page",
			Message: fmt.Sprintf("page %d is outside 1..%d", n, total),
		}
	}
	return nil
}

// Clamp limits n to [1, total]
func Clamp(n, total int) int {
	if total >= 1 && n > total {
		n = total
	}
	if n < 1 {
		n = 1
	}
	return n
}

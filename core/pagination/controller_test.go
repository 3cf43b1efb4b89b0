package pagination

import (
	"context"
	"errors"
	"testing"

	"paperread-app/core/domain"
	coreerrors "paperread-app/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

type fetcherFunc func(ctx context.Context, articleID int64, page, pageSize int) (*domain.ArticlePage, error)

func (f fetcherFunc) FetchPage(ctx context.Context, articleID int64, page, pageSize int) (*domain.ArticlePage, error) {
	return f(ctx, articleID, page, pageSize)
}

func pages(total int) fetcherFunc {
	return func(ctx context.Context, articleID int64, page, pageSize int) (*domain.ArticlePage, error) {
		return &domain.ArticlePage{
			Number:     page,
			TotalPages: total,
			Paragraphs: []string{"Paragraph on page " + string(rune('0'+page)) + "."},
		}, nil
	}
}

// load runs one request through Begin, Fetch and Complete the way a session does
func load(c *Controller, n, pageSize int) (*domain.ArticlePage, error) {
	t := c.Begin(n, pageSize)
	page, err := c.Fetch(context.Background(), t)
	if err := c.Complete(t, page, err); err != nil {
		return nil, err
	}
	return page, nil
}

func TestController_LoadSuccess(t *testing.T) {
	c := NewController(pages(3), nopLogger{}, 42)
	assert.Equal(t, domain.LoadIdle, c.State())
	assert.Nil(t, c.Current())

	page, err := load(c, 2, 8)
	require.NoError(t, err)

	assert.Equal(t, domain.LoadLoaded, c.State())
	assert.Equal(t, int64(42), page.ArticleID)
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 3, page.TotalPages)
	assert.Same(t, page, c.Current())
}

func TestController_FailedLoadKeepsPreviousPage(t *testing.T) {
	fail := false
	c := NewController(fetcherFunc(func(ctx context.Context, id int64, page, size int) (*domain.ArticlePage, error) {
		if fail {
			return nil, errors.New("network unreachable")
		}
		return pages(5)(ctx, id, page, size)
	}), nopLogger{}, 1)

	first, err := load(c, 1, 8)
	require.NoError(t, err)

	fail = true
	_, err = load(c, 2, 8)
	require.Error(t, err)

	assert.Equal(t, domain.LoadFailed, c.State())
	assert.Same(t, first, c.Current())
	assert.EqualError(t, c.LastError(), "network unreachable")
}

func TestController_LatestRequestWins(t *testing.T) {
	c := NewController(pages(5), nopLogger{}, 1)
	ctx := context.Background()

	slow := c.Begin(2, 8)
	fast := c.Begin(3, 8)

	fastPage, err := c.Fetch(ctx, fast)
	require.NoError(t, err)
	require.NoError(t, c.Complete(fast, fastPage, nil))

	slowPage, err := c.Fetch(ctx, slow)
	require.NoError(t, err)
	assert.ErrorIs(t, c.Complete(slow, slowPage, nil), ErrSuperseded)

	assert.Equal(t, 3, c.Current().Number)
	assert.Equal(t, domain.LoadLoaded, c.State())
}

func TestController_SupersededFailureIsIgnored(t *testing.T) {
	c := NewController(pages(5), nopLogger{}, 1)

	old := c.Begin(2, 8)
	newer := c.Begin(3, 8)

	assert.ErrorIs(t, c.Complete(old, nil, errors.New("timeout")), ErrSuperseded)
	assert.Equal(t, domain.LoadLoading, c.State(), "newer request still in flight")

	page, _ := c.Fetch(context.Background(), newer)
	require.NoError(t, c.Complete(newer, page, nil))
	assert.Equal(t, domain.LoadLoaded, c.State())
}

func TestController_FetchNormalizesResponse(t *testing.T) {
	c := NewController(fetcherFunc(func(ctx context.Context, id int64, page, size int) (*domain.ArticlePage, error) {
		return &domain.ArticlePage{Paragraphs: []string{"x"}}, nil
	}), nopLogger{}, 7)

	page, err := load(c, 4, 8)
	require.NoError(t, err)
	assert.Equal(t, 4, page.Number)
	assert.Equal(t, 4, page.TotalPages)
}

func TestController_NilResponseIsAnError(t *testing.T) {
	c := NewController(fetcherFunc(func(ctx context.Context, id int64, page, size int) (*domain.ArticlePage, error) {
		return nil, nil
	}), nopLogger{}, 7)

	_, err := load(c, 1, 8)
	assert.Error(t, err)
	assert.Equal(t, domain.LoadFailed, c.State())
}

func TestController_Target(t *testing.T) {
	c := NewController(pages(3), nopLogger{}, 1)

	_, err := c.Target(1)
	assert.True(t, coreerrors.IsState(err), "no page loaded yet")

	_, _ = load(c, 3, 8)

	n, err := c.Target(-1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = c.Target(1)
	assert.True(t, coreerrors.IsValidation(err))
}

func TestCheckBoundsAndClamp(t *testing.T) {
	assert.NoError(t, CheckBounds(1, 1))
	assert.NoError(t, CheckBounds(5, 0), "unknown total")
	assert.Error(t, CheckBounds(0, 3))
	assert.Error(t, CheckBounds(4, 3))

	assert.Equal(t, 1, Clamp(-2, 3))
	assert.Equal(t, 3, Clamp(9, 3))
	assert.Equal(t, 9, Clamp(9, 0))
}

package catalog

import (
	"context"
	"errors"
	"testing"

	"paperread-app/core/domain"
	"paperread-app/infrastructure/cache/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLister struct {
	mock.Mock
}

func (m *mockLister) ListArticles(ctx context.Context, pageSize int) ([]domain.ArticleSummary, error) {
	args := m.Called(ctx, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ArticleSummary), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

var library = []domain.ArticleSummary{
	{ID: 1, Title: "Neural nets", Category: "科技"},
	{ID: 2, Title: "Untitled"},
	{ID: 3, Title: "Stocks", Category: "商业"},
	{ID: 4, Title: "Robots", Category: "科技"},
}

func TestGroup(t *testing.T) {
	categories := Group(library)

	require.Len(t, categories, 3)
	names := []string{categories[0].Name, categories[1].Name, categories[2].Name}
	assert.Equal(t, []string{"商业", "未分类", "科技"}, names)
	assert.Equal(t, []int64{1, 4}, []int64{categories[2].Articles[0].ID, categories[2].Articles[1].ID})
	assert.Equal(t, int64(2), categories[1].Articles[0].ID)
}

func TestGroup_Empty(t *testing.T) {
	assert.Equal(t, []domain.CatalogCategory{}, Group(nil))
}

func TestService_LoadIsCached(t *testing.T) {
	lister := &mockLister{}
	lister.On("ListArticles", mock.Anything, PageSize).Return(library, nil).Once()
	s := NewService(lister, memory.NewMemoryCache(), nopLogger{})
	ctx := context.Background()

	first, err := s.Load(ctx)
	require.NoError(t, err)
	second, err := s.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	lister.AssertExpectations(t)
}

func TestService_RefreshBypassesCache(t *testing.T) {
	lister := &mockLister{}
	lister.On("ListArticles", mock.Anything, PageSize).Return(library, nil).Twice()
	s := NewService(lister, memory.NewMemoryCache(), nopLogger{})
	ctx := context.Background()

	_, err := s.Load(ctx)
	require.NoError(t, err)
	_, err = s.Refresh(ctx)
	require.NoError(t, err)

	lister.AssertNumberOfCalls(t, "ListArticles", 2)
}

func TestService_LoadError(t *testing.T) {
	lister := &mockLister{}
	lister.On("ListArticles", mock.Anything, PageSize).Return(nil, errors.New("backend down"))
	s := NewService(lister, nil, nopLogger{})

	_, err := s.Load(context.Background())

	assert.EqualError(t, err, "backend down")
}

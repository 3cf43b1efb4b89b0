package reader

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"paperread-app/core/annotation"
	"paperread-app/core/config"
	"paperread-app/core/domain"
	coreerrors "paperread-app/core/errors"
	"paperread-app/core/interfaces"
	"paperread-app/core/pagination"
	"paperread-app/core/storage"
	"paperread-app/core/text"
	"paperread-app/infrastructure/cache/gocache"
	"paperread-app/infrastructure/cache/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testArticle int64 = 7

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

type fakeBackend struct {
	mu          sync.Mutex
	pages       map[int][]string
	failPages   map[int]error
	gates       map[int]chan struct{}
	entered     chan int
	annotations []domain.WordAnnotation
	annErr      error
	favorite    bool
	fetches     []int
	readings    int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		pages: map[int][]string{
			1: {"AI is great. It helps us!", "Big data matters."},
			2: {"More data arrives daily."},
			3: {"The end."},
		},
		failPages: make(map[int]error),
		gates:     make(map[int]chan struct{}),
	}
}

func (b *fakeBackend) ListArticles(ctx context.Context, pageSize int) ([]domain.ArticleSummary, error) {
	return nil, nil
}

func (b *fakeBackend) GetArticle(ctx context.Context, articleID int64) (*domain.ArticleSummary, error) {
	if articleID != testArticle {
		return nil, &coreerrors.NotFoundError{Resource: "article", ID: "missing"}
	}
	return &domain.ArticleSummary{ID: articleID, Title: "AI Today", ParagraphCount: 24}, nil
}

func (b *fakeBackend) FetchPage(ctx context.Context, articleID int64, page, pageSize int) (*domain.ArticlePage, error) {
	b.mu.Lock()
	b.fetches = append(b.fetches, page)
	gate := b.gates[page]
	entered := b.entered
	err := b.failPages[page]
	paragraphs, ok := b.pages[page]
	b.mu.Unlock()

	if gate != nil {
		if entered != nil {
			entered <- page
		}
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &coreerrors.NotFoundError{Resource: "page", ID: "missing"}
	}
	return &domain.ArticlePage{ArticleID: articleID, Number: page, TotalPages: len(b.pages), Paragraphs: paragraphs}, nil
}

func (b *fakeBackend) LoadAnnotations(ctx context.Context, articleID int64, username string) ([]domain.WordAnnotation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.annotations, b.annErr
}

func (b *fakeBackend) SaveAnnotations(ctx context.Context, articleID int64, username string, annotations []domain.WordAnnotation) error {
	return nil
}

func (b *fakeBackend) RecordReading(ctx context.Context, articleID int64, username string, duration time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readings++
	return nil
}

func (b *fakeBackend) ToggleFavorite(ctx context.Context, articleID int64, username string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.favorite = !b.favorite
	return b.favorite, nil
}

func (b *fakeBackend) CreateArticle(ctx context.Context, draft domain.ArticleDraft) (*domain.ArticleSummary, error) {
	return nil, errors.New("not implemented")
}

func (b *fakeBackend) fetchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.fetches)
}

type fakeQueue struct {
	mu        sync.Mutex
	snapshots [][]domain.WordAnnotation
}

func (q *fakeQueue) Enqueue(username string, articleID int64, annotations []domain.WordAnnotation) (uint64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.snapshots = append(q.snapshots, annotations)
	return uint64(len(q.snapshots)), nil
}

func (q *fakeQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.snapshots)
}

type mapTranslator map[string]string

func (m mapTranslator) Translate(ctx context.Context, s string) (string, error) {
	if t, ok := m[s]; ok {
		return t, nil
	}
	return "", errors.New("no translation")
}

type silentEngine struct {
	mu      sync.Mutex
	spoken  []domain.Utterance
	cancels int
}

func (e *silentEngine) Speak(u domain.Utterance, done func(error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spoken = append(e.spoken, u)
	return nil
}

func (e *silentEngine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancels++
}

func (e *silentEngine) Pause()  {}
func (e *silentEngine) Resume() {}

type fixture struct {
	backend *fakeBackend
	store   *memory.MemoryCache
	storage *storage.Adapter
	queue   *fakeQueue
	engine  *silentEngine
	deps    Dependencies
}

func newFixture() *fixture {
	f := &fixture{
		backend: newFakeBackend(),
		store:   memory.NewMemoryCache(),
		queue:   &fakeQueue{},
		engine:  &silentEngine{},
	}
	f.storage = storage.NewAdapter(f.store, nopLogger{})
	translator := mapTranslator{
		"data":                      "数据",
		"AI is great. It helps us!": "人工智能很棒。它帮助我们！",
	}
	f.deps = Dependencies{
		Backend:      f.backend,
		Storage:      f.storage,
		Saves:        f.queue,
		Translations: annotation.NewTranslations(translator, gocache.New(time.Minute), nopLogger{}, time.Hour),
		NewEngine:    func(string) interfaces.SpeechEngine { return f.engine },
		Logger:       nopLogger{},
	}
	return f
}

func (f *fixture) open(t *testing.T) (*Session, domain.SessionView) {
	t.Helper()
	s := NewSession("s-1", "alice", testArticle, f.deps, config.NewSessionConfig())
	view, err := s.Open(context.Background())
	require.NoError(t, err)
	return s, view
}

func TestSession_OpenStartsAtFirstPage(t *testing.T) {
	f := newFixture()
	_, view := f.open(t)

	require.NotNil(t, view.Page)
	assert.Equal(t, 1, view.Page.Number)
	assert.False(t, view.Resumed)
	assert.Equal(t, domain.LoadLoaded, view.LoadState)
	assert.Equal(t, "AI Today", view.Article.Title)
	assert.Len(t, view.Sentences, 3)
	assert.Equal(t, 1, f.backend.readings)
	assert.Equal(t, 3, view.Playback.Total)
}

func TestSession_OpenResumesSavedPage(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.storage.SaveProgress(context.Background(), "alice", testArticle, 2, 3))

	_, view := f.open(t)

	assert.Equal(t, 2, view.Page.Number)
	assert.True(t, view.Resumed)
	assert.True(t, view.HasPrev)
	assert.True(t, view.HasNext)
}

func TestSession_OpenFallsBackWhenSavedPageFails(t *testing.T) {
	f := newFixture()
	f.backend.failPages[2] = errors.New("connection reset")
	require.NoError(t, f.storage.SaveProgress(context.Background(), "alice", testArticle, 2, 3))

	_, view := f.open(t)

	assert.Equal(t, 1, view.Page.Number)
	assert.False(t, view.Resumed)
}

func TestSession_OpenSurvivesAnnotationFailure(t *testing.T) {
	f := newFixture()
	f.backend.annErr = errors.New("backend down")

	s, view := f.open(t)

	assert.Empty(t, view.WordColors)
	_, err := s.SetMode(domain.ModeAnnotateWord)
	require.NoError(t, err)
	view, err = s.HandleTokenActivated(context.Background(), domain.Token{Word: "data"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAnnotationColor, view.WordColors["data"])
}

func TestSession_OpenMissingArticle(t *testing.T) {
	f := newFixture()
	s := NewSession("s-1", "alice", 99, f.deps, config.NewSessionConfig())

	_, err := s.Open(context.Background())

	assert.True(t, coreerrors.IsNotFound(err))
	assert.Zero(t, f.backend.fetchCount())
}

func TestSession_WordAnnotationFollowsAcrossPages(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)
	ctx := context.Background()

	_, err := s.SetMode(domain.ModeAnnotateWord)
	require.NoError(t, err)
	view, err := s.HandleTokenActivated(ctx, domain.Token{Word: "Data"})
	require.NoError(t, err)
	assert.Equal(t, domain.Color("#28a745"), view.WordColors["data"])
	assert.True(t, view.ColorPickerVisible)

	view, err = s.NextPage(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, view.Page.Number)
	assert.Equal(t, domain.Color("#28a745"), view.WordColors["data"])
	assert.Equal(t, 1, f.queue.count(), "navigation does not save annotations")
	assert.Equal(t, []domain.WordAnnotation{{Word: "data", Color: "#28a745"}}, f.queue.snapshots[0])
}

func TestSession_AnnotationSyncDisabled(t *testing.T) {
	f := newFixture()
	s := NewSession("s-1", "alice", testArticle, f.deps, config.NewSessionConfig(config.WithAnnotationSync(false)))
	_, err := s.Open(context.Background())
	require.NoError(t, err)

	_, err = s.ToggleWordAnnotation(context.Background(), "data", "#ff0000")
	require.NoError(t, err)

	assert.Zero(t, f.queue.count())
}

func TestSession_FailedLoadKeepsPage(t *testing.T) {
	f := newFixture()
	s, before := f.open(t)
	f.backend.failPages[2] = errors.New("connection reset")

	view, err := s.NextPage(context.Background())

	require.Error(t, err)
	assert.Equal(t, domain.LoadFailed, view.LoadState)
	assert.Equal(t, "connection reset", view.LoadError)
	assert.Equal(t, before.Page, view.Page)
	assert.Equal(t, before.Sentences, view.Sentences)
	assert.Equal(t, 1, view.Progress.CurrentPage)
}

func TestSession_OutOfRangeIssuesNoRequest(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)
	fetches := f.backend.fetchCount()

	_, err := s.PrevPage(context.Background())
	assert.True(t, coreerrors.IsValidation(err))

	_, err = s.LoadPage(context.Background(), 4)
	assert.True(t, coreerrors.IsValidation(err))

	_, err = s.LoadPage(context.Background(), 0)
	assert.True(t, coreerrors.IsValidation(err))

	assert.Equal(t, fetches, f.backend.fetchCount())
}

func TestSession_NavigationStopsReadAloud(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)

	status, err := s.PlayAll()
	require.NoError(t, err)
	assert.Equal(t, domain.PlaybackPlaying, status.State)

	view, err := s.NextPage(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.PlaybackIdle, view.Playback.State)
	assert.Equal(t, 1, view.Playback.Total)
	assert.GreaterOrEqual(t, f.engine.cancels, 1)
}

func TestSession_NavigationStopsReadAloudEvenWhenLoadFails(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)
	f.backend.failPages[2] = errors.New("timeout")

	_, err := s.PlayAll()
	require.NoError(t, err)
	view, err := s.NextPage(context.Background())

	require.Error(t, err)
	assert.Equal(t, domain.PlaybackIdle, view.Playback.State)
	assert.Equal(t, 3, view.Playback.Total, "queue of the displayed page is kept")
}

func TestSession_SupersededLoadIsDiscarded(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)
	gate := make(chan struct{})
	f.backend.mu.Lock()
	f.backend.gates[2] = gate
	f.backend.entered = make(chan int, 1)
	f.backend.mu.Unlock()

	errc := make(chan error, 1)
	go func() {
		_, err := s.LoadPage(context.Background(), 2)
		errc <- err
	}()
	<-f.backend.entered

	view, err := s.LoadPage(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Page.Number)

	close(gate)
	assert.ErrorIs(t, <-errc, pagination.ErrSuperseded)
	assert.Equal(t, 3, s.View().Page.Number)
	assert.Equal(t, 3, s.View().Progress.CurrentPage)
}

func TestSession_SentenceAnnotationsPersistPerPage(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)
	ctx := context.Background()

	_, err := s.SetMode(domain.ModeAnnotateSentence)
	require.NoError(t, err)
	_, err = s.SetColor("#ffc107")
	require.NoError(t, err)
	view, err := s.HandleTokenActivated(ctx, domain.Token{Word: "helps", SentenceID: "sentence_1"})
	require.NoError(t, err)
	assert.Equal(t, domain.Color("#ffc107"), view.SentenceColors["sentence_1"])

	view, err = s.NextPage(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.SentenceColors)

	view, err = s.PrevPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Color("#ffc107"), view.SentenceColors["sentence_1"])

	sentences := s.AnnotatedSentences()
	require.Len(t, sentences, 1)
	assert.Equal(t, "It helps us!", sentences[0].Text)
}

func TestSession_SentenceTokenRequiresID(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)
	_, err := s.SetMode(domain.ModeAnnotateSentence)
	require.NoError(t, err)

	_, err = s.HandleTokenActivated(context.Background(), domain.Token{Word: "great"})

	assert.True(t, coreerrors.IsValidation(err))
}

func TestSession_DeleteSentenceAnnotation(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)
	ctx := context.Background()

	_, err := s.DeleteSentenceAnnotation(ctx, "sentence_0")
	assert.True(t, coreerrors.IsNotFound(err))

	_, err = s.ToggleSentenceAnnotation(ctx, "sentence_0", "")
	require.NoError(t, err)
	view, err := s.DeleteSentenceAnnotation(ctx, "sentence_0")
	require.NoError(t, err)
	assert.Empty(t, view.SentenceColors)

	saved, err := f.storage.LoadSentenceAnnotations(ctx, domain.PageKey{Username: "alice", ArticleID: testArticle, Page: 1})
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestSession_OrphanedSentenceAnnotationsDropped(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	key := domain.PageKey{Username: "alice", ArticleID: testArticle, Page: 1}
	spans := text.Segment(f.backend.pages[1])
	require.NoError(t, f.storage.SaveSentenceAnnotations(ctx, key, []domain.SentenceAnnotation{
		{SentenceID: "sentence_0", Color: "#28a745", Fingerprint: spans[0].Fingerprint},
		{SentenceID: "sentence_1", Color: "#28a745", Fingerprint: "stale"},
		{SentenceID: "sentence_9", Color: "#28a745"},
	}))

	_, view := f.open(t)

	assert.Equal(t, map[string]domain.Color{"sentence_0": "#28a745"}, view.SentenceColors)
	saved, err := f.storage.LoadSentenceAnnotations(ctx, key)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "sentence_0", saved[0].SentenceID)
}

func TestSession_WordTranslationToggles(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)
	ctx := context.Background()
	_, err := s.SetMode(domain.ModeTranslate)
	require.NoError(t, err)

	view, err := s.HandleTokenActivated(ctx, domain.Token{Word: "data"})
	require.NoError(t, err)
	assert.Equal(t, "数据", view.Translations["data"])

	view, err = s.HandleTokenActivated(ctx, domain.Token{Word: "big"})
	require.NoError(t, err)
	assert.Equal(t, domain.WordTranslationFailed, view.Translations["big"])

	view, err = s.HandleTokenActivated(ctx, domain.Token{Word: "data"})
	require.NoError(t, err)
	_, shown := view.Translations["data"]
	assert.False(t, shown)
}

func TestSession_TranslatePageToggles(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)
	ctx := context.Background()

	view, err := s.TranslatePage(ctx)
	require.NoError(t, err)
	assert.True(t, view.PageTranslationVisible)
	require.Len(t, view.PageTranslation, 2)
	assert.Equal(t, "人工智能很棒。它帮助我们！", view.PageTranslation[0].Translated)
	assert.True(t, view.PageTranslation[1].Failed)

	view, err = s.TranslatePage(ctx)
	require.NoError(t, err)
	assert.False(t, view.PageTranslationVisible)
}

func TestSession_PageTranslationHiddenAfterNavigation(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)
	ctx := context.Background()

	_, err := s.TranslatePage(ctx)
	require.NoError(t, err)
	view, err := s.NextPage(ctx)
	require.NoError(t, err)

	assert.False(t, view.PageTranslationVisible)
	assert.Empty(t, view.PageTranslation)
}

func TestSession_HighlightMode(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)
	ctx := context.Background()

	view, err := s.HandleTokenActivated(ctx, domain.Token{Word: "Great"})
	require.NoError(t, err)
	assert.Equal(t, "great", view.HighlightedWord)
	assert.False(t, view.ColorPickerVisible)

	view, err = s.HandleTokenActivated(ctx, domain.Token{Word: "great"})
	require.NoError(t, err)
	assert.Empty(t, view.HighlightedWord)

	_, err = s.HandleTokenActivated(ctx, domain.Token{Word: "  "})
	assert.True(t, coreerrors.IsValidation(err))
}

func TestSession_InvalidModeAndColor(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)

	_, err := s.SetMode("scribble")
	assert.True(t, coreerrors.IsValidation(err))

	view, err := s.SetColor("green")
	assert.True(t, coreerrors.IsValidation(err))
	assert.Equal(t, domain.DefaultAnnotationColor, view.Color)
}

func TestSession_ClearAll(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)
	ctx := context.Background()

	_, cleared := s.ClearAll(ctx)
	assert.False(t, cleared)
	assert.Zero(t, f.queue.count())

	_, err := s.ToggleWordAnnotation(ctx, "data", "")
	require.NoError(t, err)
	_, err = s.ToggleSentenceAnnotation(ctx, "sentence_2", "")
	require.NoError(t, err)

	view, cleared := s.ClearAll(ctx)
	assert.True(t, cleared)
	assert.Empty(t, view.WordColors)
	assert.Empty(t, view.SentenceColors)
	assert.Equal(t, 2, f.queue.count())
	assert.Empty(t, f.queue.snapshots[1])
}

func TestSession_VisibilityToggles(t *testing.T) {
	f := newFixture()
	s, view := f.open(t)

	assert.True(t, view.AnnotationsVisible)
	assert.True(t, view.TranslationsVisible)

	view = s.ToggleAnnotationsVisibility()
	assert.False(t, view.AnnotationsVisible)
	view = s.ToggleTranslationsVisibility()
	assert.False(t, view.TranslationsVisible)
	view = s.ToggleAnnotationsVisibility()
	assert.True(t, view.AnnotationsVisible)
}

func TestSession_WordListAndStats(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)

	_, err := s.ToggleWordAnnotation(context.Background(), "matters", "")
	require.NoError(t, err)

	annotated := s.WordList(domain.FilterAnnotated)
	require.NotEmpty(t, annotated)
	assert.Equal(t, "matters", annotated[0].Word)
	assert.Equal(t, domain.DefaultAnnotationColor, annotated[0].Color)

	stats := s.Stats()
	assert.Equal(t, 9, stats.TotalWords)
	assert.Equal(t, 9, stats.UniqueWords)
}

func TestSession_ProgressSaved(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)

	_, err := s.LoadPage(context.Background(), 3)
	require.NoError(t, err)

	progress, err := f.storage.LoadProgress(context.Background(), "alice", testArticle)
	require.NoError(t, err)
	assert.Equal(t, 3, progress.CurrentPage)
	assert.Equal(t, 3, progress.TotalPages)
}

func TestSession_SetPageSize(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)
	ctx := context.Background()

	_, err := s.SetPageSize(ctx, 0)
	assert.True(t, coreerrors.IsValidation(err))

	view, err := s.SetPageSize(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Page.Number)
	assert.Equal(t, 4, f.storage.PageSize(ctx, 8))
}

func TestSession_ToggleFavorite(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)

	on, err := s.ToggleFavorite(context.Background())
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.View().Article.IsFavorited)
}

func TestSession_ReadAloudUnsupportedWithoutEngine(t *testing.T) {
	f := newFixture()
	f.deps.NewEngine = nil
	s, _ := f.open(t)

	_, err := s.PlayAll()

	assert.True(t, coreerrors.IsUnsupported(err))
}

func TestSession_PlaySingleUsesDisplayedSentences(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)

	status, err := s.PlaySingle(1)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Highlighted)
	require.Len(t, f.engine.spoken, 1)
	assert.Equal(t, "It helps us!", f.engine.spoken[0].Text)

	_, err = s.SetRate(1.5)
	require.NoError(t, err)
	assert.Equal(t, 1.5, s.Playback().Rate)
}

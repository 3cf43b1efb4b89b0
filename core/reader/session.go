// ABOUTME: Reading session drives one user's paginated reading of one article
// ABOUTME: Composes pagination, annotation, translation, storage and read-aloud state

package reader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"paperread-app/core/annotation"
	"paperread-app/core/config"
	"paperread-app/core/domain"
	coreerrors "paperread-app/core/errors"
	"paperread-app/core/interfaces"
	"paperread-app/core/pagination"
	"paperread-app/core/readaloud"
	"paperread-app/core/storage"
	"paperread-app/core/text"
)

// SnapshotQueue accepts word annotation snapshots for asynchronous saving
type SnapshotQueue interface {
	Enqueue(username string, articleID int64, annotations []domain.WordAnnotation) (uint64, error)
}

// Dependencies are the collaborators shared by every session
type Dependencies struct {
	Backend      interfaces.ArticleBackend
	Storage      *storage.Adapter
	Saves        SnapshotQueue
	Translations *annotation.Translations
	// NewEngine returns a speech engine owned by one session; nil disables read-aloud
	NewEngine func(sessionID string) interfaces.SpeechEngine
	Logger    interfaces.Logger
}

// Session is the reading state of one user on one article.
//
// The session lock is never held across a backend or translator request.
// Lock order is session, then pagination controller or sequencer; sequencer
// listeners must not take the session lock.
type Session struct {
	id        string
	username  string
	articleID int64
	config    config.SessionConfig
	deps      Dependencies
	logger    interfaces.Logger
	now       func() time.Time

	pager  *pagination.Controller
	reader *readaloud.Sequencer

	mu         sync.Mutex
	store      *annotation.Store
	article    domain.ArticleSummary
	pageSize   int
	progress   domain.ReadingProgress
	resumed    bool
	lastActive time.Time
}

// NewSession creates an unopened session
func NewSession(id, username string, articleID int64, deps Dependencies, cfg config.SessionConfig) *Session {
	var engine interfaces.SpeechEngine
	if deps.NewEngine != nil {
		engine = deps.NewEngine(id)
	}

	s := &Session{
		id:        id,
		username:  username,
		articleID: articleID,
		config:    cfg,
		deps:      deps,
		logger:    deps.Logger,
		now:       time.Now,
		pager:     pagination.NewController(deps.Backend, deps.Logger, articleID),
		reader:    readaloud.NewSequencer(engine, deps.Logger, cfg.Speech),
		store:     annotation.NewStore(),
		article:   domain.ArticleSummary{ID: articleID},
		pageSize:  cfg.PageSize,
	}
	s.lastActive = s.now()
	s.reader.OnEvent(s.logPlayback)
	return s
}

// ID returns the session id
func (s *Session) ID() string { return s.id }

// Username returns the reader's username
func (s *Session) Username() string { return s.username }

// ArticleID returns the article being read
func (s *Session) ArticleID() int64 { return s.articleID }

// LastActive returns the time of the last operation on the session
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) fields(extra map[string]interface{}) map[string]interface{} {
	f := map[string]interface{}{
		"session_id": s.id,
		"article_id": s.articleID,
		"username":   s.username,
	}
	for k, v := range extra {
		f[k] = v
	}
	return f
}

// Open loads the article, the saved reading position and the word
// annotations, then renders the saved page. Annotation and history failures
// are logged; the session stays usable.
func (s *Session) Open(ctx context.Context) (domain.SessionView, error) {
	article, err := s.deps.Backend.GetArticle(ctx, s.articleID)
	if err != nil {
		return domain.SessionView{}, err
	}

	pageSize := s.deps.Storage.PageSize(ctx, s.config.PageSize)
	progress, err := s.deps.Storage.LoadProgress(ctx, s.username, s.articleID)
	if err != nil {
		s.logger.Warn("Failed to read saved progress", s.fields(map[string]interface{}{"error": err.Error()}))
	}

	words, err := s.deps.Backend.LoadAnnotations(ctx, s.articleID, s.username)
	if err != nil {
		s.logger.Error("Failed to load word annotations", s.fields(map[string]interface{}{"error": err.Error()}))
	}

	s.mu.Lock()
	s.article = *article
	s.pageSize = pageSize
	s.progress = progress
	s.store.LoadWordAnnotations(words)
	s.mu.Unlock()

	start := progress.CurrentPage
	if article.ParagraphCount > 0 {
		start = pagination.Clamp(start, pageCount(article.ParagraphCount, pageSize))
	}
	start = pagination.Clamp(start, 0)

	view, err := s.load(ctx, start, pageSize)
	if err != nil && start > 1 && !errors.Is(err, pagination.ErrSuperseded) {
		s.logger.Warn("Saved page unavailable, starting from the first page", s.fields(map[string]interface{}{
			"page":  start,
			"error": err.Error(),
		}))
		start = 1
		view, err = s.load(ctx, start, pageSize)
	}
	if err != nil {
		return view, err
	}

	if s.config.RecordHistory {
		if err := s.deps.Backend.RecordReading(ctx, s.articleID, s.username, 0); err != nil {
			s.logger.Warn("Failed to record reading history", s.fields(map[string]interface{}{"error": err.Error()}))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumed = start > 1
	return s.viewLocked(), nil
}

func pageCount(paragraphs, pageSize int) int {
	if pageSize < 1 {
		return 1
	}
	return (paragraphs + pageSize - 1) / pageSize
}

// LoadPage renders page n. Out-of-range pages are rejected without a
// request; a failed request leaves the displayed page unchanged.
func (s *Session) LoadPage(ctx context.Context, n int) (domain.SessionView, error) {
	total := 0
	if cur := s.pager.Current(); cur != nil {
		total = cur.TotalPages
	}
	if err := pagination.CheckBounds(n, total); err != nil {
		return s.View(), err
	}

	s.mu.Lock()
	size := s.pageSize
	s.mu.Unlock()
	return s.load(ctx, n, size)
}

// NextPage renders the page after the displayed one
func (s *Session) NextPage(ctx context.Context) (domain.SessionView, error) {
	return s.move(ctx, 1)
}

// PrevPage renders the page before the displayed one
func (s *Session) PrevPage(ctx context.Context) (domain.SessionView, error) {
	return s.move(ctx, -1)
}

func (s *Session) move(ctx context.Context, delta int) (domain.SessionView, error) {
	n, err := s.pager.Target(delta)
	if err != nil {
		return s.View(), err
	}
	s.mu.Lock()
	size := s.pageSize
	s.mu.Unlock()
	return s.load(ctx, n, size)
}

// SetPageSize stores the paragraphs-per-page preference and renders the
// first page with the new size
func (s *Session) SetPageSize(ctx context.Context, size int) (domain.SessionView, error) {
	if size < 1 {
		return s.View(), &coreerrors.ValidationError{Field: "page_size", Message: "page size must be at least 1"}
	}
	if err := s.deps.Storage.SetPageSize(ctx, size); err != nil {
		s.logger.Warn("Failed to store page size", s.fields(map[string]interface{}{"error": err.Error()}))
	}

	s.mu.Lock()
	s.pageSize = size
	s.mu.Unlock()
	return s.load(ctx, 1, size)
}

// load stops read-aloud, fetches the page without holding the session lock
// and applies it only if no newer load was issued meanwhile
func (s *Session) load(ctx context.Context, n, size int) (domain.SessionView, error) {
	s.reader.Stop()

	ticket := s.pager.Begin(n, size)
	page, fetchErr := s.pager.Fetch(ctx, ticket)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.now()

	if err := s.pager.Complete(ticket, page, fetchErr); err != nil {
		return s.viewLocked(), err
	}
	s.bindLocked(ctx, page)
	return s.viewLocked(), nil
}

func (s *Session) bindLocked(ctx context.Context, page *domain.ArticlePage) {
	key := domain.PageKey{Username: s.username, ArticleID: s.articleID, Page: page.Number}
	spans := text.Segment(page.Paragraphs)

	saved, err := s.deps.Storage.LoadSentenceAnnotations(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to read sentence annotations", s.fields(map[string]interface{}{
			"page":  page.Number,
			"error": err.Error(),
		}))
	}

	orphaned := s.store.BindPage(key, spans, text.ExtractWords(page.Text()), saved)
	if len(orphaned) > 0 {
		s.logger.Debug("Dropped sentence annotations that no longer match the page", s.fields(map[string]interface{}{
			"page":    page.Number,
			"dropped": len(orphaned),
		}))
		s.persistSentencesLocked(ctx)
	}

	queue := make([]string, len(spans))
	for i, span := range spans {
		queue[i] = span.Text
	}
	s.reader.SetQueue(queue)

	if err := s.deps.Storage.SaveProgress(ctx, s.username, s.articleID, page.Number, page.TotalPages); err != nil {
		s.logger.Warn("Failed to save reading progress", s.fields(map[string]interface{}{
			"page":  page.Number,
			"error": err.Error(),
		}))
	}
	s.progress = domain.ReadingProgress{
		CurrentPage: page.Number,
		TotalPages:  page.TotalPages,
		LastReadAt:  s.now(),
	}
}

func (s *Session) persistSentencesLocked(ctx context.Context) {
	key := s.store.Page()
	if err := s.deps.Storage.SaveSentenceAnnotations(ctx, key, s.store.SentenceAnnotations()); err != nil {
		s.logger.Error("Failed to save sentence annotations", s.fields(map[string]interface{}{
			"page":  key.Page,
			"error": err.Error(),
		}))
	}
}

func (s *Session) enqueueSave(snapshot []domain.WordAnnotation) {
	if !s.config.SyncAnnotations || s.deps.Saves == nil {
		return
	}
	if _, err := s.deps.Saves.Enqueue(s.username, s.articleID, snapshot); err != nil {
		s.logger.Error("Failed to queue annotation save", s.fields(map[string]interface{}{
			"annotations": len(snapshot),
			"error":       err.Error(),
		}))
	}
}

// update runs fn under the session lock and returns the resulting view
func (s *Session) update(fn func() error) (domain.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.now()
	err := fn()
	return s.viewLocked(), err
}

// SetMode switches the interaction mode
func (s *Session) SetMode(mode domain.InteractionMode) (domain.SessionView, error) {
	if _, err := domain.ParseInteractionMode(string(mode)); err != nil {
		return s.View(), &coreerrors.ValidationError{Field: "mode", Message: err.Error()}
	}
	return s.update(func() error {
		s.store.SetMode(mode)
		return nil
	})
}

// ToggleMode activates mode, or returns to highlight when it is already
// active, like pressing a mode button twice
func (s *Session) ToggleMode(mode domain.InteractionMode) (domain.SessionView, error) {
	if _, err := domain.ParseInteractionMode(string(mode)); err != nil {
		return s.View(), &coreerrors.ValidationError{Field: "mode", Message: err.Error()}
	}
	return s.update(func() error {
		s.store.ToggleMode(mode)
		return nil
	})
}

// SetColor changes the annotation color; only #rrggbb is accepted
func (s *Session) SetColor(color domain.Color) (domain.SessionView, error) {
	return s.update(func() error {
		return s.store.SetColor(color)
	})
}

// HandleTokenActivated applies the current interaction mode to an activated word
func (s *Session) HandleTokenActivated(ctx context.Context, token domain.Token) (domain.SessionView, error) {
	if text.NormalizeWord(token.Word) == "" {
		return s.View(), &coreerrors.ValidationError{Field: "word", Message: "word cannot be empty"}
	}

	s.mu.Lock()
	mode := s.store.Mode()
	s.mu.Unlock()

	switch mode {
	case domain.ModeAnnotateWord:
		return s.ToggleWordAnnotation(ctx, token.Word, "")
	case domain.ModeAnnotateSentence:
		if strings.TrimSpace(token.SentenceID) == "" {
			return s.View(), &coreerrors.ValidationError{Field: "sentence_id", Message: "sentence id is required in sentence annotation mode"}
		}
		return s.ToggleSentenceAnnotation(ctx, token.SentenceID, "")
	case domain.ModeTranslate:
		return s.ToggleWordTranslation(ctx, token.Word)
	default:
		return s.HighlightWord(token.Word)
	}
}

// HighlightWord highlights every occurrence of word, or clears the highlight
// when word is already highlighted
func (s *Session) HighlightWord(word string) (domain.SessionView, error) {
	if text.NormalizeWord(word) == "" {
		return s.View(), &coreerrors.ValidationError{Field: "word", Message: "word cannot be empty"}
	}
	return s.update(func() error {
		s.store.ToggleHighlight(word)
		return nil
	})
}

// ToggleWordAnnotation flips a word annotation and queues a snapshot save
func (s *Session) ToggleWordAnnotation(ctx context.Context, word string, color domain.Color) (domain.SessionView, error) {
	var snapshot []domain.WordAnnotation
	view, err := s.update(func() error {
		if _, err := s.store.ToggleWord(word, color); err != nil {
			return err
		}
		snapshot = s.store.WordAnnotations()
		return nil
	})
	if err != nil {
		return view, err
	}
	s.enqueueSave(snapshot)
	return view, nil
}

// ToggleSentenceAnnotation flips a sentence annotation on the displayed page
// and persists the page's sentence annotations
func (s *Session) ToggleSentenceAnnotation(ctx context.Context, sentenceID string, color domain.Color) (domain.SessionView, error) {
	return s.update(func() error {
		if s.pager.Current() == nil {
			return &coreerrors.StateError{Operation: "annotate sentence", State: string(s.pager.State())}
		}
		if _, err := s.store.ToggleSentence(sentenceID, color); err != nil {
			return err
		}
		s.persistSentencesLocked(ctx)
		return nil
	})
}

// DeleteSentenceAnnotation removes one sentence annotation from the displayed page
func (s *Session) DeleteSentenceAnnotation(ctx context.Context, sentenceID string) (domain.SessionView, error) {
	return s.update(func() error {
		if !s.store.DeleteSentence(sentenceID) {
			return &coreerrors.NotFoundError{Resource: "sentence annotation", ID: sentenceID}
		}
		s.persistSentencesLocked(ctx)
		return nil
	})
}

// ToggleWordTranslation shows a word's translation, or hides it when shown.
// Translation failures show a placeholder instead of an error.
func (s *Session) ToggleWordTranslation(ctx context.Context, word string) (domain.SessionView, error) {
	word = text.NormalizeWord(word)
	if word == "" {
		return s.View(), &coreerrors.ValidationError{Field: "word", Message: "word cannot be empty"}
	}

	s.mu.Lock()
	if s.store.HideTranslation(word) {
		s.lastActive = s.now()
		view := s.viewLocked()
		s.mu.Unlock()
		return view, nil
	}
	s.mu.Unlock()

	if s.deps.Translations == nil {
		return s.View(), &coreerrors.UnsupportedError{Feature: "translation"}
	}
	translated := s.deps.Translations.Word(ctx, word)

	return s.update(func() error {
		s.store.ShowTranslation(word, translated)
		return nil
	})
}

// TranslatePage shows a paragraph-by-paragraph translation of the displayed
// page, or hides it when shown. A translation that arrives after the page
// changed is discarded.
func (s *Session) TranslatePage(ctx context.Context) (domain.SessionView, error) {
	s.mu.Lock()
	if _, visible := s.store.PageTranslation(); visible {
		s.store.HidePageTranslation()
		s.lastActive = s.now()
		view := s.viewLocked()
		s.mu.Unlock()
		return view, nil
	}
	page := s.pager.Current()
	key := s.store.Page()
	s.mu.Unlock()

	if page == nil {
		return s.View(), &coreerrors.StateError{Operation: "translate page", State: string(s.pager.State())}
	}

	if s.deps.Translations == nil {
		return s.View(), &coreerrors.UnsupportedError{Feature: "translation"}
	}
	items := s.deps.Translations.Paragraphs(ctx, page.Paragraphs)

	return s.update(func() error {
		if s.store.Page() != key {
			s.logger.Debug("Discarding translation of a page no longer displayed", s.fields(map[string]interface{}{
				"page": key.Page,
			}))
			return nil
		}
		s.store.SetPageTranslation(items)
		return nil
	})
}

// ToggleAnnotationsVisibility flips whether annotation colors are rendered
func (s *Session) ToggleAnnotationsVisibility() domain.SessionView {
	view, _ := s.update(func() error {
		s.store.ToggleAnnotationsVisible()
		return nil
	})
	return view
}

// ToggleTranslationsVisibility flips whether word translations are rendered
func (s *Session) ToggleTranslationsVisibility() domain.SessionView {
	view, _ := s.update(func() error {
		s.store.ToggleTranslationsVisible()
		return nil
	})
	return view
}

// ClearAll removes every annotation and displayed translation. It reports
// whether anything was cleared; nothing is persisted when nothing changed.
func (s *Session) ClearAll(ctx context.Context) (domain.SessionView, bool) {
	cleared := false
	view, _ := s.update(func() error {
		if !s.store.ClearAll() {
			return nil
		}
		cleared = true
		if s.pager.Current() != nil {
			s.persistSentencesLocked(ctx)
		}
		return nil
	})
	if cleared {
		s.enqueueSave(nil)
		s.logger.Info("Cleared annotations", s.fields(nil))
	}
	return view, cleared
}

// WordList returns the displayed page's words ordered by filter
func (s *Session) WordList(filter domain.WordListFilter) []domain.WordListItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.WordList(filter)
}

// Stats summarizes the displayed page's words
func (s *Session) Stats() domain.PageStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Stats()
}

// AnnotatedSentences lists the displayed page's annotated sentences
func (s *Session) AnnotatedSentences() []domain.AnnotatedSentence {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.AnnotatedSentences()
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = s.now()
	s.mu.Unlock()
}

// PlayAll starts or restarts sequential read-aloud of the displayed page
func (s *Session) PlayAll() (domain.PlaybackStatus, error) {
	s.touch()
	return s.reader.PlayAll()
}

// PauseResume toggles between playing and paused
func (s *Session) PauseResume() (domain.PlaybackStatus, error) {
	s.touch()
	return s.reader.PauseResume()
}

// StopReading stops read-aloud
func (s *Session) StopReading() domain.PlaybackStatus {
	s.touch()
	return s.reader.Stop()
}

// PlaySingle reads one sentence of the displayed page
func (s *Session) PlaySingle(index int) (domain.PlaybackStatus, error) {
	s.touch()
	return s.reader.PlaySingle(index)
}

// SetRate changes the speech rate for later utterances
func (s *Session) SetRate(rate float64) (domain.PlaybackStatus, error) {
	s.touch()
	return s.reader.SetRate(rate)
}

// Playback returns the read-aloud status
func (s *Session) Playback() domain.PlaybackStatus {
	s.touch()
	return s.reader.Status()
}

// ToggleFavorite flips the article's favorite flag on the backend
func (s *Session) ToggleFavorite(ctx context.Context) (bool, error) {
	favorited, err := s.deps.Backend.ToggleFavorite(ctx, s.articleID, s.username)
	if err != nil {
		s.logger.Error("Failed to toggle favorite", s.fields(map[string]interface{}{"error": err.Error()}))
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.article.IsFavorited = favorited
	s.lastActive = s.now()
	return favorited, nil
}

// Close stops read-aloud; the session must not be used afterwards
func (s *Session) Close() {
	s.reader.Stop()
}

// View returns a snapshot of the session
func (s *Session) View() domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.now()
	return s.viewLocked()
}

func (s *Session) viewLocked() domain.SessionView {
	page := s.pager.Current()
	annotations, translations := s.store.Visibility()
	pageTranslation, pageTranslationVisible := s.store.PageTranslation()
	mode := s.store.Mode()

	view := domain.SessionView{
		SessionID:              s.id,
		Username:               s.username,
		Article:                s.article,
		Page:                   page,
		Sentences:              s.store.Spans(),
		Stats:                  s.store.Stats(),
		HasPrev:                page.HasPrev(),
		HasNext:                page.HasNext(),
		LoadState:              s.pager.State(),
		Progress:               s.progress,
		Resumed:                s.resumed,
		Mode:                   mode,
		Color:                  s.store.Color(),
		ColorPickerVisible:     mode.ShowsColorPicker(),
		HighlightedWord:        s.store.Highlighted(),
		WordColors:             s.store.AppliedWordColors(),
		SentenceColors:         s.store.AppliedSentenceColors(),
		Translations:           s.store.ActiveTranslations(),
		AnnotationsVisible:     annotations,
		TranslationsVisible:    translations,
		PageTranslation:        pageTranslation,
		PageTranslationVisible: pageTranslationVisible,
		Playback:               s.reader.Status(),
		ReadAloudSupported:     s.reader.Supported(),
	}
	if err := s.pager.LastError(); err != nil && view.LoadState == domain.LoadFailed {
		view.LoadError = err.Error()
	}
	if view.Sentences == nil {
		view.Sentences = []domain.SentenceSpan{}
	}
	return view
}

func (s *Session) logPlayback(e readaloud.Event) {
	switch e.Type {
	case readaloud.EventEngineError:
		s.logger.Warn("Speech engine reported an error", s.fields(map[string]interface{}{
			"sentence": e.Index,
			"error":    fmt.Sprint(e.Err),
		}))
	case readaloud.EventFinished:
		s.logger.Debug("Read-aloud finished", s.fields(nil))
	}
}

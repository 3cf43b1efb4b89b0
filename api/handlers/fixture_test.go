package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"paperread-app/core/annotation"
	"paperread-app/core/config"
	"paperread-app/core/domain"
	"paperread-app/core/interfaces"
	"paperread-app/core/reader"
	"paperread-app/core/storage"
	"paperread-app/core/workers"
	"paperread-app/infrastructure/backend/rest"
	"paperread-app/infrastructure/cache/gocache"
	"paperread-app/infrastructure/cache/memory"
	"paperread-app/infrastructure/http/standard"
	"paperread-app/infrastructure/translate/mymemory"

	"github.com/danielgtaylor/huma/v2/humatest"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

const testArticle = 7

var testParagraphs = []string{
	"AI is great. It helps us!",
	"Big data matters.",
	"More data arrives daily.",
	"The end.",
}

// articleServer fakes the article backend and the translation endpoint
type articleServer struct {
	*httptest.Server

	mu          sync.Mutex
	saved       map[string][]domain.WordAnnotation
	favorited   bool
	pageFetches int
	recorded    int
}

func newArticleServer(t *testing.T) *articleServer {
	s := &articleServer{saved: make(map[string][]domain.WordAnnotation)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/articles/{id}/{$}", s.article)
	mux.HandleFunc("GET /api/articles/{id}/content_paginated/", s.page)
	mux.HandleFunc("GET /api/articles/{id}/annotations/", s.annotations)
	mux.HandleFunc("POST /api/articles/{id}/save_annotations/", s.saveAnnotations)
	mux.HandleFunc("POST /api/articles/{id}/record_reading/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.recorded++
		s.mu.Unlock()
		writeJSON(w, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /api/articles/{id}/toggle_favorite/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.favorited = !s.favorited
		favorited := s.favorited
		s.mu.Unlock()
		writeJSON(w, map[string]bool{"is_favorited": favorited})
	})
	mux.HandleFunc("GET /get", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"responseStatus": 200,
			"responseData":   map[string]string{"translatedText": "译:" + r.URL.Query().Get("q")},
		})
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *articleServer) article(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("id") != strconv.Itoa(testArticle) {
		http.NotFound(w, r)
		return
	}
	s.mu.Lock()
	favorited := s.favorited
	s.mu.Unlock()
	writeJSON(w, domain.ArticleSummary{
		ID:             testArticle,
		Title:          "AI Today",
		Category:       "科技",
		WordCount:      16,
		ParagraphCount: len(testParagraphs),
		IsFavorited:    favorited,
	})
}

func (s *articleServer) page(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	total := (len(testParagraphs) + size - 1) / size
	if page < 1 || page > total {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	s.pageFetches++
	s.mu.Unlock()

	end := min(page*size, len(testParagraphs))
	writeJSON(w, domain.ArticlePage{
		Number:     page,
		TotalPages: total,
		Paragraphs: testParagraphs[(page-1)*size : end],
	})
}

func (s *articleServer) annotations(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	saved := s.saved[r.URL.Query().Get("username")]
	s.mu.Unlock()
	if saved == nil {
		saved = []domain.WordAnnotation{}
	}
	writeJSON(w, saved)
}

func (s *articleServer) saveAnnotations(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Annotations []domain.WordAnnotation `json:"annotations"`
		Username    string                  `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.saved[body.Username] = body.Annotations
	s.mu.Unlock()
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *articleServer) savedFor(username string) []domain.WordAnnotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[username]
}

// fakeEngine records utterances and never completes them
type fakeEngine struct {
	mu     sync.Mutex
	spoken []domain.Utterance
}

func (e *fakeEngine) Speak(u domain.Utterance, done func(error)) error {
	e.mu.Lock()
	e.spoken = append(e.spoken, u)
	e.mu.Unlock()
	return nil
}

func (e *fakeEngine) Cancel() {}
func (e *fakeEngine) Pause()  {}
func (e *fakeEngine) Resume() {}

func (e *fakeEngine) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.spoken)
}

type readerFixture struct {
	api      humatest.TestAPI
	backend  *articleServer
	registry *reader.Registry
	queue    *workers.SaveQueue
	engine   *fakeEngine
}

type fixtureOption func(*reader.Dependencies)

func withoutSpeech() fixtureOption {
	return func(d *reader.Dependencies) { d.NewEngine = nil }
}

func withoutTranslations() fixtureOption {
	return func(d *reader.Dependencies) { d.Translations = nil }
}

func newReaderFixture(t *testing.T, opts ...fixtureOption) *readerFixture {
	t.Helper()
	logger := nopLogger{}
	backend := newArticleServer(t)
	httpClient := standard.NewStandardHTTPClient(5 * time.Second)
	client := rest.NewClient(backend.URL+"/api", httpClient, logger)

	queue := workers.NewSaveQueue(client, logger, workers.DefaultQueueConfig())
	if err := queue.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { queue.Stop() })

	translator := mymemory.NewClient(httpClient, logger,
		mymemory.WithEndpoint(backend.URL+"/get"),
		mymemory.WithInterval(0),
	)
	engine := &fakeEngine{}

	deps := reader.Dependencies{
		Backend:      client,
		Storage:      storage.NewAdapter(memory.NewMemoryCache(), logger),
		Saves:        queue,
		Translations: annotation.NewTranslations(translator, gocache.New(time.Minute), logger, time.Hour),
		NewEngine:    func(string) interfaces.SpeechEngine { return engine },
		Logger:       logger,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	registry := reader.NewRegistry(deps, config.WithPageSize(2))
	t.Cleanup(registry.CloseAll)

	_, api := humatest.New(t)
	handler := NewSessionHandler(registry)
	handler.RegisterRoutes(api)
	handler.RegisterAnnotationRoutes(api)
	handler.RegisterReadAloudRoutes(api)

	return &readerFixture{
		api:      api,
		backend:  backend,
		registry: registry,
		queue:    queue,
		engine:   engine,
	}
}

// open starts a session for username and returns its view
func (f *readerFixture) open(t *testing.T, username string) domain.SessionView {
	t.Helper()
	resp := f.api.Post("/sessions", map[string]interface{}{
		"username":   username,
		"article_id": testArticle,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("open session: status %d: %s", resp.Code, resp.Body.String())
	}
	return decodeView(t, resp.Body.Bytes())
}

func (f *readerFixture) flush(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.queue.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func decodeView(t *testing.T, body []byte) domain.SessionView {
	t.Helper()
	var view domain.SessionView
	if err := json.Unmarshal(body, &view); err != nil {
		t.Fatalf("decode session view: %v: %s", err, body)
	}
	return view
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("decode %T: %v: %s", v, err, body)
	}
	return v
}

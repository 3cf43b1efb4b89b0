// ABOUTME: Service interfaces for the reading core
// ABOUTME: Contracts for the article backend, translation and speech synthesis

package interfaces

import (
	"context"
	"errors"
	"time"

	"paperread-app/core/domain"
)

// ArticleBackend is the REST service that owns articles, word annotations,
// reading history and favorites.
type ArticleBackend interface {
	// ListArticles returns up to pageSize article summaries
	ListArticles(ctx context.Context, pageSize int) ([]domain.ArticleSummary, error)

	// GetArticle returns article metadata
	GetArticle(ctx context.Context, articleID int64) (*domain.ArticleSummary, error)

	// FetchPage returns one page of paragraphs
	FetchPage(ctx context.Context, articleID int64, page, pageSize int) (*domain.ArticlePage, error)

	// LoadAnnotations returns the user's word annotations for an article
	LoadAnnotations(ctx context.Context, articleID int64, username string) ([]domain.WordAnnotation, error)

	// SaveAnnotations replaces the user's word annotations for an article
	SaveAnnotations(ctx context.Context, articleID int64, username string, annotations []domain.WordAnnotation) error

	// RecordReading appends to the user's reading history
	RecordReading(ctx context.Context, articleID int64, username string, duration time.Duration) error

	// ToggleFavorite flips the favorite flag and returns the new value
	ToggleFavorite(ctx context.Context, articleID int64, username string) (bool, error)

	// CreateArticle stores a new article
	CreateArticle(ctx context.Context, draft domain.ArticleDraft) (*domain.ArticleSummary, error)
}

// Translator translates a piece of English text
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// ErrSpeechCanceled is passed to an utterance callback when it was cancelled
var ErrSpeechCanceled = errors.New("speech canceled")

// SpeechEngine is an asynchronous text-to-speech engine.
//
// Speak must return without waiting for playback. done is called at most
// once per utterance: with nil on completion, or with an error when synthesis
// fails or the utterance is cancelled (ErrSpeechCanceled). Callbacks are
// never invoked from inside Speak, Cancel, Pause or Resume.
type SpeechEngine interface {
	Speak(u domain.Utterance, done func(err error)) error
	Cancel()
	Pause()
	Resume()
}

// AudioSink receives synthesized audio for playback or delivery
type AudioSink interface {
	Play(ctx context.Context, clip domain.AudioClip) error
}

// ABOUTME: Session configuration for reading sessions built with functional options
// ABOUTME: Lets the registry switch optional session features without touching HTTP types

package config

import "paperread-app/core/readaloud"

// DefaultPageSize is the paragraphs-per-page used when no preference is stored
const DefaultPageSize = 8

// SessionConfig controls how a reading session behaves
type SessionConfig struct {
	// PageSize is the fallback paragraphs-per-page when the user has no preference
	PageSize int

	// Speech holds the utterance options for read-aloud
	Speech readaloud.Options

	// SyncAnnotations sends word annotation snapshots to the backend
	SyncAnnotations bool

	// RecordHistory records a reading history entry when a session opens
	RecordHistory bool
}

// DefaultSessionConfig returns the default configuration with all features enabled
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		PageSize:        DefaultPageSize,
		Speech:          readaloud.DefaultOptions(),
		SyncAnnotations: true,
		RecordHistory:   true,
	}
}

// SessionOption is a functional option for configuring sessions
type SessionOption func(*SessionConfig)

// WithPageSize sets the fallback page size; values below 1 are ignored
func WithPageSize(size int) SessionOption {
	return func(c *SessionConfig) {
		if size > 0 {
			c.PageSize = size
		}
	}
}

// WithSpeech sets the read-aloud utterance options
func WithSpeech(opts readaloud.Options) SessionOption {
	return func(c *SessionConfig) {
		c.Speech = opts
	}
}

// WithAnnotationSync enables or disables backend annotation saves
func WithAnnotationSync(enabled bool) SessionOption {
	return func(c *SessionConfig) {
		c.SyncAnnotations = enabled
	}
}

// WithHistory enables or disables reading history records
func WithHistory(enabled bool) SessionOption {
	return func(c *SessionConfig) {
		c.RecordHistory = enabled
	}
}

// NewSessionConfig creates a session configuration with the given options
func NewSessionConfig(opts ...SessionOption) SessionConfig {
	config := DefaultSessionConfig()

	for _, opt := range opts {
		opt(&config)
	}

	return config
}

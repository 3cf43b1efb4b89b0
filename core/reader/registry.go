// ABOUTME: Session registry owns open reading sessions keyed by uuid
// ABOUTME: Opens, looks up, closes and expires idle sessions

package reader

import (
	"context"
	"strings"
	"sync"
	"time"

	"paperread-app/core/config"
	"paperread-app/core/domain"
	coreerrors "paperread-app/core/errors"

	"github.com/google/uuid"
)

// Registry holds the open sessions of the process
type Registry struct {
	deps    Dependencies
	options []config.SessionOption

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry; options apply to every session it opens
func NewRegistry(deps Dependencies, opts ...config.SessionOption) *Registry {
	return &Registry{
		deps:     deps,
		options:  opts,
		sessions: make(map[string]*Session),
	}
}

// Open creates a session for username on articleID and opens it. A session
// that fails to open is not registered.
func (r *Registry) Open(ctx context.Context, username string, articleID int64, opts ...config.SessionOption) (*Session, domain.SessionView, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.SessionView{}, &coreerrors.ValidationError{Field: "username", Message: "username cannot be empty"}
	}
	if articleID < 1 {
		return nil, domain.SessionView{}, &coreerrors.ValidationError{Field: "article_id", Message: "article id must be positive"}
	}

	cfg := config.NewSessionConfig(append(append([]config.SessionOption(nil), r.options...), opts...)...)
	session := NewSession(uuid.New().String(), username, articleID, r.deps, cfg)

	view, err := session.Open(ctx)
	if err != nil {
		session.Close()
		return nil, view, err
	}

	if r.deps.Storage != nil {
		if err := r.deps.Storage.SetUsername(ctx, username); err != nil {
			r.deps.Logger.Warn("Failed to store username", map[string]interface{}{
				"username": username,
				"error":    err.Error(),
			})
		}
	}

	r.mu.Lock()
	r.sessions[session.ID()] = session
	r.mu.Unlock()

	r.deps.Logger.Info("Opened reading session", map[string]interface{}{
		"session_id": session.ID(),
		"article_id": articleID,
		"username":   username,
		"page":       view.Progress.CurrentPage,
	})
	return session, view, nil
}

// Get returns an open session
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, &coreerrors.NotFoundError{Resource: "session", ID: id}
	}
	return session, nil
}

// Close removes a session and stops its read-aloud
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	session, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return &coreerrors.NotFoundError{Resource: "session", ID: id}
	}
	session.Close()
	r.deps.Logger.Info("Closed reading session", map[string]interface{}{
		"session_id": id,
	})
	return nil
}

// Len returns the number of open sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than maxIdle and returns how many
// were closed. A session that is reading aloud is never idle.
func (r *Registry) Sweep(now time.Time, maxIdle time.Duration) int {
	r.mu.Lock()
	var expired []*Session
	for id, session := range r.sessions {
		if session.reader.Status().State == domain.PlaybackPlaying {
			continue
		}
		if now.Sub(session.LastActive()) > maxIdle {
			expired = append(expired, session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, session := range expired {
		session.Close()
		r.deps.Logger.Debug("Expired idle reading session", map[string]interface{}{
			"session_id": session.ID(),
			"username":   session.Username(),
		})
	}
	return len(expired)
}

// CloseAll closes every session, used on shutdown
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

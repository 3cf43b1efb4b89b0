// ABOUTME: Dictation service starts practice runs and keeps them addressable by id
// ABOUTME: Optionally speaks answers through a speech engine owned by each practice

package dictation

import (
	"errors"
	"math/rand/v2"
	"sync"

	"paperread-app/core/domain"
	coreerrors "paperread-app/core/errors"
	"paperread-app/core/interfaces"

	"github.com/google/uuid"
)

// EngineFactory returns the speech engine used by one practice
type EngineFactory func(practiceID string) interfaces.SpeechEngine

// Service owns practice runs
type Service struct {
	newEngine EngineFactory
	logger    interfaces.Logger
	shuffle   func(n int, swap func(i, j int))

	mu        sync.RWMutex
	practices map[string]*Practice
	engines   map[string]interfaces.SpeechEngine
}

// NewService creates a dictation service; a nil newEngine disables speech
func NewService(newEngine EngineFactory, logger interfaces.Logger) *Service {
	return &Service{
		newEngine: newEngine,
		logger:    logger,
		shuffle:   rand.Shuffle,
		practices: make(map[string]*Practice),
		engines:   make(map[string]interfaces.SpeechEngine),
	}
}

// Start begins a practice over the shuffled question bank
func (s *Service) Start() *Practice {
	questions := Bank()
	s.shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	p := NewPractice(uuid.New().String(), questions)
	s.mu.Lock()
	s.practices[p.ID()] = p
	s.mu.Unlock()

	s.logger.Debug("Started dictation practice", map[string]interface{}{
		"practice_id": p.ID(),
		"questions":   len(questions),
	})
	return p
}

// Get returns a practice run
func (s *Service) Get(id string) (*Practice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.practices[id]
	if !ok {
		return nil, &coreerrors.NotFoundError{Resource: "dictation", ID: id}
	}
	return p, nil
}

// Discard removes a practice run and silences its engine
func (s *Service) Discard(id string) {
	s.mu.Lock()
	engine := s.engines[id]
	delete(s.practices, id)
	delete(s.engines, id)
	s.mu.Unlock()

	if engine != nil {
		engine.Cancel()
	}
}

func (s *Service) engineFor(id string) interfaces.SpeechEngine {
	s.mu.Lock()
	defer s.mu.Unlock()

	engine, ok := s.engines[id]
	if !ok {
		engine = s.newEngine(id)
		s.engines[id] = engine
	}
	return engine
}

// Speak sends the current answer to the practice's speech engine and returns
// the utterance. Only speech of the same practice is interrupted.
func (s *Service) Speak(p *Practice) (domain.Utterance, error) {
	if s.newEngine == nil {
		return domain.Utterance{}, &coreerrors.UnsupportedError{Feature: "speech"}
	}
	u, err := p.Utterance()
	if err != nil {
		return domain.Utterance{}, err
	}

	engine := s.engineFor(p.ID())
	if engine == nil {
		return domain.Utterance{}, &coreerrors.UnsupportedError{Feature: "speech"}
	}
	engine.Cancel()
	err = engine.Speak(u, func(err error) {
		if err != nil && !errors.Is(err, interfaces.ErrSpeechCanceled) {
			s.logger.Warn("Dictation speech failed", map[string]interface{}{
				"practice_id":  p.ID(),
				"utterance_id": u.ID,
				"error":        err.Error(),
			})
		}
	})
	if err != nil {
		return domain.Utterance{}, err
	}
	return u, nil
}

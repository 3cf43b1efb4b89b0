// ABOUTME: Read-aloud sequencer plays a page's sentences through a speech engine in order
// ABOUTME: Idle -> Playing <-> Paused -> Finished, with stop reachable from any non-idle state

package readaloud

import (
	"errors"
	"fmt"
	"sync"

	"paperread-app/core/domain"
	coreerrors "paperread-app/core/errors"
	"paperread-app/core/interfaces"

	"github.com/google/uuid"
)

const (
	// DefaultRate is the initial speech rate multiplier
	DefaultRate = 1.0
	// MinRate and MaxRate bound the speech rate multiplier
	MinRate = 0.1
	MaxRate = 10.0
)

// Options configures utterances
type Options struct {
	Lang   string
	Rate   float64
	Pitch  float64
	Volume float64
}

// DefaultOptions returns en-US at normal rate, pitch and volume
func DefaultOptions() Options {
	return Options{Lang: "en-US", Rate: DefaultRate, Pitch: 1, Volume: 1}
}

// EventType names a sequencer notification
type EventType string

const (
	EventSentenceStarted EventType = "sentence_started"
	EventSentenceEnded   EventType = "sentence_ended"
	EventFinished        EventType = "finished"
	EventStopped         EventType = "stopped"
	EventEngineError     EventType = "engine_error"
)

// Event is delivered to listeners after the sequencer's lock is released
type Event struct {
	Type   EventType
	Index  int
	Err    error
	Status domain.PlaybackStatus
}

// Sequencer drives sequential playback of a reading queue.
//
// Engine callbacks are matched against the utterance they were issued for;
// callbacks for cancelled or replaced utterances are ignored, so a stale
// completion can never advance the cursor after stop.
type Sequencer struct {
	engine interfaces.SpeechEngine
	logger interfaces.Logger

	mu        sync.Mutex
	queue     []string
	state     domain.PlaybackState
	cursor    int
	highlight int
	opts      Options
	message   string

	// utterance ids currently owned by the engine
	sequential string
	single     string

	listeners []func(Event)
	pending   []Event
}

// NewSequencer creates an idle sequencer. A nil engine makes playback
// operations fail with an UnsupportedError.
func NewSequencer(engine interfaces.SpeechEngine, logger interfaces.Logger, opts Options) *Sequencer {
	def := DefaultOptions()
	if opts.Lang == "" {
		opts.Lang = def.Lang
	}
	if opts.Rate < MinRate || opts.Rate > MaxRate {
		opts.Rate = def.Rate
	}
	if opts.Pitch <= 0 {
		opts.Pitch = def.Pitch
	}
	if opts.Volume <= 0 {
		opts.Volume = def.Volume
	}
	return &Sequencer{
		engine:    engine,
		logger:    logger,
		state:     domain.PlaybackIdle,
		cursor:    domain.NotPlaying,
		highlight: domain.NotPlaying,
		opts:      opts,
	}
}

// OnEvent registers a listener. Listeners run on the goroutine that caused
// the event and must not block.
func (s *Sequencer) OnEvent(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Supported reports whether a speech engine is available
func (s *Sequencer) Supported() bool {
	return s.engine != nil
}

// SetQueue replaces the reading queue, stopping any playback first
func (s *Sequencer) SetQueue(sentences []string) {
	s.mu.Lock()
	s.stopLocked()
	s.queue = append([]string(nil), sentences...)
	s.message = ""
	s.unlockAndDispatch()
}

// PlayAll starts sequential playback from the first sentence. An empty
// queue is rejected without changing state.
func (s *Sequencer) PlayAll() (domain.PlaybackStatus, error) {
	s.mu.Lock()
	if s.engine == nil {
		s.mu.Unlock()
		return s.Status(), &coreerrors.UnsupportedError{Feature: "speech synthesis"}
	}
	if len(s.queue) == 0 {
		st := s.state
		s.mu.Unlock()
		return s.Status(), &coreerrors.StateError{Operation: "play all on an empty reading queue", State: string(st)}
	}

	if s.state == domain.PlaybackPlaying || s.state == domain.PlaybackPaused || s.single != "" {
		s.sequential, s.single = "", ""
		s.engine.Cancel()
		s.engine.Resume()
	}
	s.state = domain.PlaybackPlaying
	s.cursor = 0
	s.speakCursorLocked()
	status := s.statusLocked()
	s.unlockAndDispatch()
	return status, nil
}

// PauseResume pauses while Playing and resumes while Paused. Resuming
// re-speaks the sentence under the cursor from its beginning.
func (s *Sequencer) PauseResume() (domain.PlaybackStatus, error) {
	s.mu.Lock()
	switch s.state {
	case domain.PlaybackPlaying:
		s.state = domain.PlaybackPaused
		s.message = "已暂停"
		s.engine.Pause()
	case domain.PlaybackPaused:
		s.state = domain.PlaybackPlaying
		s.sequential = ""
		s.single = ""
		s.engine.Cancel()
		s.engine.Resume()
		if s.cursor >= len(s.queue) {
			s.finishLocked()
		} else {
			s.speakCursorLocked()
		}
	default:
		st := s.state
		s.mu.Unlock()
		return s.Status(), &coreerrors.StateError{Operation: "pause/resume", State: string(st)}
	}
	status := s.statusLocked()
	s.unlockAndDispatch()
	return status, nil
}

// Stop cancels playback and returns to Idle. Stopping while Idle is a no-op.
func (s *Sequencer) Stop() domain.PlaybackStatus {
	s.mu.Lock()
	s.stopLocked()
	status := s.statusLocked()
	s.unlockAndDispatch()
	return status
}

// PlaySingle speaks one sentence, cancelling whatever the engine is saying.
// The sequential cursor and state are unchanged; if sequential playback is
// active, the cursor sentence is spoken again once the single one ends.
func (s *Sequencer) PlaySingle(index int) (domain.PlaybackStatus, error) {
	s.mu.Lock()
	if s.engine == nil {
		s.mu.Unlock()
		return s.Status(), &coreerrors.UnsupportedError{Feature: "speech synthesis"}
	}
	if index < 0 || index >= len(s.queue) {
		n := len(s.queue)
		s.mu.Unlock()
		return s.Status(), &coreerrors.ValidationError{
			Field:   "index",
			Message: fmt.Sprintf("sentence %d is outside 0..%d", index, n-1),
		}
	}

	s.sequential = ""
	s.single = ""
	s.engine.Cancel()
	if s.state == domain.PlaybackPaused {
		s.engine.Resume()
	}

	u := s.utteranceLocked(index)
	s.single = u.ID
	s.highlight = index
	if err := s.engine.Speak(u, s.singleDone(u.ID, index)); err != nil {
		s.single = ""
		s.highlight = domain.NotPlaying
		s.emitLocked(Event{Type: EventEngineError, Index: index, Err: err})
		s.resumeSequentialLocked()
		s.unlockAndDispatch()
		return s.Status(), coreerrors.WrapError(err, "speak sentence")
	}
	s.emitLocked(Event{Type: EventSentenceStarted, Index: index})
	status := s.statusLocked()
	s.unlockAndDispatch()
	return status, nil
}

// SetRate changes the rate for utterances issued from now on
func (s *Sequencer) SetRate(rate float64) (domain.PlaybackStatus, error) {
	if rate < MinRate || rate > MaxRate {
		return s.Status(), &coreerrors.ValidationError{
			Field:   "rate",
			Message: fmt.Sprintf("rate must be between %.1f and %.1f", MinRate, MaxRate),
		}
	}
	s.mu.Lock()
	s.opts.Rate = rate
	status := s.statusLocked()
	s.mu.Unlock()
	return status, nil
}

// Status returns a snapshot of the playback state
func (s *Sequencer) Status() domain.PlaybackStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Sequencer) statusLocked() domain.PlaybackStatus {
	id := s.sequential
	if s.single != "" {
		id = s.single
	}
	return domain.PlaybackStatus{
		State:       s.state,
		Cursor:      s.cursor,
		Total:       len(s.queue),
		Highlighted: s.highlight,
		Rate:        s.opts.Rate,
		UtteranceID: id,
		Message:     s.message,
	}
}

func (s *Sequencer) utteranceLocked(index int) domain.Utterance {
	return domain.Utterance{
		ID:     uuid.NewString(),
		Text:   s.queue[index],
		Lang:   s.opts.Lang,
		Rate:   s.opts.Rate,
		Pitch:  s.opts.Pitch,
		Volume: s.opts.Volume,
	}
}

// speakCursorLocked issues the cursor sentence. Sentences the engine refuses
// synchronously are skipped the same way as failed utterances.
func (s *Sequencer) speakCursorLocked() {
	for s.cursor < len(s.queue) {
		u := s.utteranceLocked(s.cursor)
		s.sequential = u.ID
		s.highlight = s.cursor
		s.message = fmt.Sprintf("正在朗读 %d / %d", s.cursor+1, len(s.queue))

		err := s.engine.Speak(u, s.sequentialDone(u.ID))
		if err == nil {
			s.emitLocked(Event{Type: EventSentenceStarted, Index: s.cursor})
			return
		}
		s.logger.Warn("Speech engine rejected sentence", map[string]interface{}{
			"index": s.cursor,
			"error": err.Error(),
		})
		s.emitLocked(Event{Type: EventEngineError, Index: s.cursor, Err: err})
		s.sequential = ""
		s.cursor++
	}
	s.finishLocked()
}

func (s *Sequencer) finishLocked() {
	s.state = domain.PlaybackFinished
	s.cursor = domain.NotPlaying
	s.highlight = domain.NotPlaying
	s.sequential = ""
	s.message = "朗读完成"
	s.emitLocked(Event{Type: EventFinished, Index: domain.NotPlaying})
}

func (s *Sequencer) stopLocked() {
	if s.state == domain.PlaybackIdle && s.single == "" {
		return
	}
	wasActive := s.state != domain.PlaybackIdle
	s.sequential = ""
	s.single = ""
	if s.engine != nil {
		s.engine.Cancel()
		s.engine.Resume()
	}
	s.state = domain.PlaybackIdle
	s.cursor = domain.NotPlaying
	s.highlight = domain.NotPlaying
	s.message = ""
	if wasActive {
		s.emitLocked(Event{Type: EventStopped, Index: domain.NotPlaying})
	}
}

func (s *Sequencer) sequentialDone(id string) func(error) {
	return func(err error) {
		s.mu.Lock()
		if id != s.sequential {
			s.mu.Unlock()
			return
		}
		s.sequential = ""
		if errors.Is(err, interfaces.ErrSpeechCanceled) {
			s.unlockAndDispatch()
			return
		}

		index := s.cursor
		if err != nil {
			s.logger.Warn("Utterance failed", map[string]interface{}{
				"index": index,
				"error": err.Error(),
			})
			s.emitLocked(Event{Type: EventEngineError, Index: index, Err: err})
		}
		s.emitLocked(Event{Type: EventSentenceEnded, Index: index})
		s.highlight = domain.NotPlaying
		s.cursor++

		switch {
		case s.cursor >= len(s.queue):
			if s.state == domain.PlaybackPaused {
				// resume will finish
				break
			}
			s.finishLocked()
		case s.state == domain.PlaybackPlaying && s.single == "":
			s.speakCursorLocked()
		}
		s.unlockAndDispatch()
	}
}

func (s *Sequencer) singleDone(id string, index int) func(error) {
	return func(err error) {
		s.mu.Lock()
		if id != s.single {
			s.mu.Unlock()
			return
		}
		s.single = ""
		s.highlight = domain.NotPlaying
		if err != nil && !errors.Is(err, interfaces.ErrSpeechCanceled) {
			s.emitLocked(Event{Type: EventEngineError, Index: index, Err: err})
		}
		s.emitLocked(Event{Type: EventSentenceEnded, Index: index})
		s.resumeSequentialLocked()
		s.unlockAndDispatch()
	}
}

// resumeSequentialLocked re-issues the cursor sentence after a single
// utterance interrupted sequential playback
func (s *Sequencer) resumeSequentialLocked() {
	if s.state == domain.PlaybackPlaying && s.sequential == "" {
		s.speakCursorLocked()
	}
}

func (s *Sequencer) emitLocked(e Event) {
	if len(s.listeners) == 0 {
		return
	}
	s.pending = append(s.pending, e)
}

func (s *Sequencer) unlockAndDispatch() {
	events := s.pending
	s.pending = nil
	listeners := s.listeners
	var status domain.PlaybackStatus
	if len(events) > 0 {
		status = s.statusLocked()
	}
	s.mu.Unlock()

	for _, e := range events {
		e.Status = status
		for _, fn := range listeners {
			fn(e)
		}
	}
}

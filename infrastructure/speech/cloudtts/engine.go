// ABOUTME: Asynchronous speech engine that synthesizes utterances in order and paces their playback
// ABOUTME: Completion is reported after the clip's estimated speaking time, which pause suspends

package cloudtts

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"paperread-app/core/domain"
	"paperread-app/core/interfaces"
)

const (
	wordsPerSecond     = 2.5
	minPlaybackTime    = 300 * time.Millisecond
	synthesisTimeLimit = 30 * time.Second
)

// EstimateDuration approximates how long an utterance takes to speak
func EstimateDuration(u domain.Utterance) time.Duration {
	rate := u.Rate
	if rate <= 0 {
		rate = 1
	}
	words := len(strings.Fields(u.Text))
	d := time.Duration(float64(words) / (wordsPerSecond * rate) * float64(time.Second))
	if d < minPlaybackTime {
		return minPlaybackTime
	}
	return d
}

type job struct {
	u    domain.Utterance
	done func(error)
	ctx  context.Context
}

// Engine implements interfaces.SpeechEngine. Utterances queue like the
// browser speech API: Cancel drops everything queued or speaking, Pause
// holds the current clip's clock until Resume.
type Engine struct {
	synth    Synthesizer
	sink     interfaces.AudioSink
	logger   interfaces.Logger
	duration func(domain.Utterance) time.Duration

	mu      sync.Mutex
	queue   []job
	running bool
	epoch   context.Context
	cancel  context.CancelFunc
	paused  bool
	changed chan struct{}
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithPlaybackDuration replaces the speaking time estimate
func WithPlaybackDuration(fn func(domain.Utterance) time.Duration) EngineOption {
	return func(e *Engine) {
		e.duration = fn
	}
}

// NewEngine creates an engine writing clips to sink
func NewEngine(synth Synthesizer, sink interfaces.AudioSink, logger interfaces.Logger, opts ...EngineOption) *Engine {
	epoch, cancel := context.WithCancel(context.Background())
	e := &Engine{
		synth:    synth,
		sink:     sink,
		logger:   logger,
		duration: EstimateDuration,
		epoch:    epoch,
		cancel:   cancel,
		changed:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Speak queues an utterance and returns immediately
func (e *Engine) Speak(u domain.Utterance, done func(err error)) error {
	if strings.TrimSpace(u.Text) == "" {
		return errors.New("utterance has no text")
	}
	if done == nil {
		done = func(error) {}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = append(e.queue, job{u: u, done: done, ctx: e.epoch})
	if !e.running {
		e.running = true
		go e.run()
	}
	return nil
}

// Cancel drops every queued and speaking utterance; their callbacks receive
// interfaces.ErrSpeechCanceled from the engine's goroutine
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancel()
	e.epoch, e.cancel = context.WithCancel(context.Background())
}

// Pause suspends the playback clock
func (e *Engine) Pause() {
	e.setPaused(true)
}

// Resume continues the playback clock
func (e *Engine) Resume() {
	e.setPaused(false)
}

func (e *Engine) setPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.paused == paused {
		return
	}
	e.paused = paused
	close(e.changed)
	e.changed = make(chan struct{})
}

func (e *Engine) run() {
	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			e.running = false
			e.mu.Unlock()
			return
		}
		j := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()

		j.done(e.play(j))
	}
}

func (e *Engine) play(j job) error {
	if j.ctx.Err() != nil {
		return interfaces.ErrSpeechCanceled
	}

	ctx, cancel := context.WithTimeout(j.ctx, synthesisTimeLimit)
	audio, err := e.synth.Synthesize(ctx, j.u)
	cancel()
	if err != nil {
		if j.ctx.Err() != nil {
			return interfaces.ErrSpeechCanceled
		}
		e.logger.Error("Speech synthesis failed", map[string]interface{}{
			"utterance_id": j.u.ID,
			"error":        err.Error(),
		})
		return err
	}

	clip := domain.AudioClip{UtteranceID: j.u.ID, ContentType: ContentType, Data: audio}
	if err := e.sink.Play(j.ctx, clip); err != nil {
		if j.ctx.Err() != nil {
			return interfaces.ErrSpeechCanceled
		}
		e.logger.Error("Failed to deliver synthesized audio", map[string]interface{}{
			"utterance_id": j.u.ID,
			"error":        err.Error(),
		})
		return err
	}

	e.logger.Debug("Utterance synthesized", map[string]interface{}{
		"utterance_id": j.u.ID,
		"bytes":        len(audio),
	})
	return e.wait(j.ctx, e.duration(j.u))
}

// wait sleeps for d of unpaused time
func (e *Engine) wait(ctx context.Context, d time.Duration) error {
	remaining := d
	for remaining > 0 {
		e.mu.Lock()
		paused, changed := e.paused, e.changed
		e.mu.Unlock()

		if paused {
			select {
			case <-changed:
				continue
			case <-ctx.Done():
				return interfaces.ErrSpeechCanceled
			}
		}

		start := time.Now()
		timer := time.NewTimer(remaining)
		select {
		case <-timer.C:
			return nil
		case <-changed:
			timer.Stop()
			remaining -= time.Since(start)
		case <-ctx.Done():
			timer.Stop()
			return interfaces.ErrSpeechCanceled
		}
	}
	return nil
}

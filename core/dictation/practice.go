// ABOUTME: Dictation practice shows a Chinese prompt and checks the typed English answer
// ABOUTME: Tracks the current question, answered flag and correct/wrong counts

package dictation

import (
	"math"
	"strings"
	"sync"

	"paperread-app/core/domain"
	coreerrors "paperread-app/core/errors"

	"github.com/google/uuid"
)

// SpeechRate is the slower rate used when reading answers aloud
const SpeechRate = 0.8

// Practice is one run through a shuffled question list
type Practice struct {
	id string

	mu         sync.Mutex
	questions  []domain.DictationQuestion
	index      int
	correct    int
	wrong      int
	answered   bool
	lastResult *domain.DictationResult
}

// NewPractice starts a run over questions in the given order
func NewPractice(id string, questions []domain.DictationQuestion) *Practice {
	return &Practice{
		id:        id,
		questions: append([]domain.DictationQuestion(nil), questions...),
	}
}

// ID returns the practice id
func (p *Practice) ID() string { return p.id }

func (p *Practice) completedLocked() bool {
	return p.index >= len(p.questions)
}

func (p *Practice) currentLocked(op string) (domain.DictationQuestion, error) {
	if p.completedLocked() {
		return domain.DictationQuestion{}, &coreerrors.StateError{Operation: op, State: "completed"}
	}
	return p.questions[p.index], nil
}

// Current returns the view of the current question
func (p *Practice) Current() domain.DictationView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

// Submit checks an answer, ignoring case and surrounding whitespace. A blank
// answer is rejected and answering twice is a state error.
func (p *Practice) Submit(answer string) (domain.DictationResult, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return domain.DictationResult{}, &coreerrors.ValidationError{Field: "answer", Message: "请输入答案"}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	q, err := p.currentLocked("submit")
	if err != nil {
		return domain.DictationResult{}, err
	}
	if p.answered {
		return domain.DictationResult{}, &coreerrors.StateError{Operation: "submit", State: "answered"}
	}

	result := domain.DictationResult{
		Correct:       strings.EqualFold(answer, strings.TrimSpace(q.English)),
		CorrectAnswer: q.English,
	}
	p.record(result)
	return result, nil
}

// Skip reveals the answer and counts the question as wrong
func (p *Practice) Skip() (domain.DictationResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	q, err := p.currentLocked("skip")
	if err != nil {
		return domain.DictationResult{}, err
	}
	if p.answered {
		return domain.DictationResult{}, &coreerrors.StateError{Operation: "skip", State: "answered"}
	}

	result := domain.DictationResult{CorrectAnswer: q.English}
	p.record(result)
	return result, nil
}

func (p *Practice) record(result domain.DictationResult) {
	if result.Correct {
		p.correct++
	} else {
		p.wrong++
	}
	p.answered = true
	p.lastResult = &result
}

// Next moves past an answered question
func (p *Practice) Next() (domain.DictationView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.currentLocked("next"); err != nil {
		return p.viewLocked(), err
	}
	if !p.answered {
		return p.viewLocked(), &coreerrors.StateError{Operation: "next", State: "unanswered"}
	}
	p.index++
	p.answered = false
	p.lastResult = nil
	return p.viewLocked(), nil
}

// Hint returns the phonetic transcription of the current question
func (p *Practice) Hint() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	q, err := p.currentLocked("hint")
	if err != nil {
		return "", err
	}
	return q.Phonetic, nil
}

// Utterance returns the current English text prepared for speech
func (p *Practice) Utterance() (domain.Utterance, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	q, err := p.currentLocked("speak")
	if err != nil {
		return domain.Utterance{}, err
	}
	return domain.Utterance{
		ID:     uuid.New().String(),
		Text:   q.English,
		Lang:   "en-US",
		Rate:   SpeechRate,
		Pitch:  1,
		Volume: 1,
	}, nil
}

// Stats returns the running counts and accuracy
func (p *Practice) Stats() domain.DictationStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.statsLocked()
}

func (p *Practice) statsLocked() domain.DictationStats {
	stats := domain.DictationStats{Correct: p.correct, Wrong: p.wrong}
	if total := p.correct + p.wrong; total > 0 {
		stats.Accuracy = int(math.Round(float64(p.correct) / float64(total) * 100))
	}
	return stats
}

// Completed reports whether every question has been passed
func (p *Practice) Completed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completedLocked()
}

func (p *Practice) viewLocked() domain.DictationView {
	view := domain.DictationView{
		ID:         p.id,
		Index:      p.index,
		Total:      len(p.questions),
		Answered:   p.answered,
		Completed:  p.completedLocked(),
		LastResult: p.lastResult,
		Stats:      p.statsLocked(),
	}
	if !view.Completed {
		q := p.questions[p.index]
		view.Type = q.Type
		view.Chinese = q.Chinese
	}
	return view
}

// ABOUTME: Dictation practice handlers for the Huma API
// ABOUTME: Start a run, answer, skip, advance, ask for a hint and hear the answer

package handlers

import (
	"context"
	"net/http"

	"paperread-app/api/dto/mappers"
	"paperread-app/api/dto/requests"
	"paperread-app/api/dto/responses"
	"paperread-app/core/dictation"
	"paperread-app/core/domain"

	"github.com/danielgtaylor/huma/v2"
)

// DictationService owns practice runs
type DictationService interface {
	Start() *dictation.Practice
	Get(id string) (*dictation.Practice, error)
	Speak(p *dictation.Practice) (domain.Utterance, error)
}

// DictationHandler handles dictation requests
type DictationHandler struct {
	service DictationService
}

// NewDictationHandler creates a new dictation handler
func NewDictationHandler(service DictationService) *DictationHandler {
	return &DictationHandler{service: service}
}

// RegisterRoutes registers dictation routes
func (h *DictationHandler) RegisterRoutes(api huma.API) {
	tags := []string{"Dictation"}

	huma.Register(api, huma.Operation{
		OperationID:   "startDictation",
		Method:        http.MethodPost,
		Path:          "/dictation",
		Summary:       "Start a dictation practice",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
	}, h.Start)

	huma.Register(api, huma.Operation{
		OperationID: "getDictation",
		Method:      http.MethodGet,
		Path:        "/dictation/{id}",
		Summary:     "Get the current question",
		Tags:        tags,
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "answerDictation",
		Method:      http.MethodPost,
		Path:        "/dictation/{id}/answer",
		Summary:     "Submit an answer",
		Description: "Compares the answer with the English text ignoring case and surrounding spaces",
		Tags:        tags,
	}, h.Answer)

	huma.Register(api, huma.Operation{
		OperationID: "skipDictation",
		Method:      http.MethodPost,
		Path:        "/dictation/{id}/skip",
		Summary:     "Reveal the answer",
		Description: "Counts the question as wrong",
		Tags:        tags,
	}, h.Skip)

	huma.Register(api, huma.Operation{
		OperationID: "nextDictation",
		Method:      http.MethodPost,
		Path:        "/dictation/{id}/next",
		Summary:     "Move to the next question",
		Tags:        tags,
	}, h.Next)

	huma.Register(api, huma.Operation{
		OperationID: "dictationHint",
		Method:      http.MethodGet,
		Path:        "/dictation/{id}/hint",
		Summary:     "Get the phonetic hint",
		Tags:        tags,
	}, h.Hint)

	huma.Register(api, huma.Operation{
		OperationID: "speakDictation",
		Method:      http.MethodPost,
		Path:        "/dictation/{id}/speech",
		Summary:     "Read the answer aloud",
		Tags:        tags,
	}, h.Speak)
}

// DictationPathInput identifies a practice run
type DictationPathInput struct {
	ID string `path:"id" doc:"Practice id"`
}

// DictationOutput returns the practice state
type DictationOutput struct {
	Body responses.DictationResponse
}

func (h *DictationHandler) practice(id string) (*dictation.Practice, error) {
	p, err := h.service.Get(id)
	if err != nil {
		return nil, toHumaError(err)
	}
	return p, nil
}

// Start handles POST /dictation
func (h *DictationHandler) Start(ctx context.Context, input *struct{}) (*DictationOutput, error) {
	p := h.service.Start()
	return &DictationOutput{Body: mappers.ToDictationResponse(p.Current())}, nil
}

// Get handles GET /dictation/{id}
func (h *DictationHandler) Get(ctx context.Context, input *DictationPathInput) (*DictationOutput, error) {
	p, err := h.practice(input.ID)
	if err != nil {
		return nil, err
	}
	return &DictationOutput{Body: mappers.ToDictationResponse(p.Current())}, nil
}

// AnswerInput defines the input for the Answer operation
type AnswerInput struct {
	ID   string `path:"id" doc:"Practice id"`
	Body requests.AnswerRequest
}

// AnswerOutput returns the result with the updated practice
type AnswerOutput struct {
	Body responses.AnswerResponse
}

func answerOutput(p *dictation.Practice, result domain.DictationResult, err error) (*AnswerOutput, error) {
	if err != nil {
		return nil, toHumaError(err)
	}
	return &AnswerOutput{Body: responses.AnswerResponse{
		Result:   result,
		Practice: mappers.ToDictationResponse(p.Current()),
	}}, nil
}

// Answer handles POST /dictation/{id}/answer
func (h *DictationHandler) Answer(ctx context.Context, input *AnswerInput) (*AnswerOutput, error) {
	p, err := h.practice(input.ID)
	if err != nil {
		return nil, err
	}
	result, err := p.Submit(input.Body.Answer)
	return answerOutput(p, result, err)
}

// Skip handles POST /dictation/{id}/skip
func (h *DictationHandler) Skip(ctx context.Context, input *DictationPathInput) (*AnswerOutput, error) {
	p, err := h.practice(input.ID)
	if err != nil {
		return nil, err
	}
	result, err := p.Skip()
	return answerOutput(p, result, err)
}

// Next handles POST /dictation/{id}/next
func (h *DictationHandler) Next(ctx context.Context, input *DictationPathInput) (*DictationOutput, error) {
	p, err := h.practice(input.ID)
	if err != nil {
		return nil, err
	}
	view, err := p.Next()
	if err != nil {
		return nil, toHumaError(err)
	}
	return &DictationOutput{Body: mappers.ToDictationResponse(view)}, nil
}

// HintOutput defines the output for the Hint operation
type HintOutput struct {
	Body responses.HintResponse
}

// Hint handles GET /dictation/{id}/hint
func (h *DictationHandler) Hint(ctx context.Context, input *DictationPathInput) (*HintOutput, error) {
	p, err := h.practice(input.ID)
	if err != nil {
		return nil, err
	}
	phonetic, err := p.Hint()
	if err != nil {
		return nil, toHumaError(err)
	}
	return &HintOutput{Body: responses.HintResponse{Phonetic: phonetic}}, nil
}

// SpeechOutput defines the output for the Speak operation
type SpeechOutput struct {
	Body responses.SpeechResponse
}

// Speak handles POST /dictation/{id}/speech
func (h *DictationHandler) Speak(ctx context.Context, input *DictationPathInput) (*SpeechOutput, error) {
	p, err := h.practice(input.ID)
	if err != nil {
		return nil, err
	}
	u, err := h.service.Speak(p)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &SpeechOutput{Body: responses.SpeechResponse{
		UtteranceID: u.ID,
		AudioURL:    "/audio/" + u.ID,
	}}, nil
}

// ABOUTME: Annotation and translation handlers for reading sessions
// ABOUTME: Word and sentence annotations, translations, visibility, clearing and listings

package handlers

import (
	"context"
	"net/http"

	"paperread-app/api/dto/requests"
	"paperread-app/api/dto/responses"
	"paperread-app/core/domain"
	coreerrors "paperread-app/core/errors"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterAnnotationRoutes registers annotation and translation routes
func (h *SessionHandler) RegisterAnnotationRoutes(api huma.API) {
	tags := []string{"Annotations"}

	huma.Register(api, huma.Operation{
		OperationID: "toggleWordAnnotation",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/words/{word}/annotation",
		Summary:     "Toggle a word annotation",
		Description: "Annotates every occurrence of the word, or removes the annotation when present",
		Tags:        tags,
	}, h.ToggleWordAnnotation)

	huma.Register(api, huma.Operation{
		OperationID: "toggleSentenceAnnotation",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/sentences/{sid}/annotation",
		Summary:     "Toggle a sentence annotation",
		Tags:        tags,
	}, h.ToggleSentenceAnnotation)

	huma.Register(api, huma.Operation{
		OperationID: "deleteSentenceAnnotation",
		Method:      http.MethodDelete,
		Path:        "/sessions/{id}/sentences/{sid}/annotation",
		Summary:     "Delete a sentence annotation",
		Tags:        tags,
	}, h.DeleteSentenceAnnotation)

	huma.Register(api, huma.Operation{
		OperationID: "toggleWordTranslation",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/words/{word}/translation",
		Summary:     "Toggle a word translation",
		Description: "Shows the word's translation, or hides it when shown. Failed lookups show a placeholder.",
		Tags:        tags,
	}, h.ToggleWordTranslation)

	huma.Register(api, huma.Operation{
		OperationID: "translatePage",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/translation",
		Summary:     "Toggle the page translation",
		Tags:        tags,
	}, h.TranslatePage)

	huma.Register(api, huma.Operation{
		OperationID: "toggleVisibility",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/visibility/{kind}",
		Summary:     "Show or hide annotations or translations",
		Tags:        tags,
	}, h.ToggleVisibility)

	huma.Register(api, huma.Operation{
		OperationID: "clearAll",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/clear",
		Summary:     "Clear all annotations and translations",
		Tags:        tags,
	}, h.ClearAll)

	huma.Register(api, huma.Operation{
		OperationID: "listWords",
		Method:      http.MethodGet,
		Path:        "/sessions/{id}/words",
		Summary:     "List the page's words",
		Tags:        tags,
	}, h.ListWords)

	huma.Register(api, huma.Operation{
		OperationID: "listSentences",
		Method:      http.MethodGet,
		Path:        "/sessions/{id}/sentences",
		Summary:     "List annotated sentences",
		Tags:        tags,
	}, h.ListSentences)

	huma.Register(api, huma.Operation{
		OperationID: "toggleFavorite",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/favorite",
		Summary:     "Toggle the article favorite",
		Tags:        tags,
	}, h.ToggleFavorite)
}

// WordInput identifies a word in a session
type WordInput struct {
	ID   string `path:"id" doc:"Session id"`
	Word string `path:"word" doc:"Word"`
}

// WordAnnotationInput defines the input for the ToggleWordAnnotation operation
type WordAnnotationInput struct {
	ID   string                      `path:"id" doc:"Session id"`
	Word string                      `path:"word" doc:"Word"`
	Body *requests.AnnotationRequest `required:"false"`
}

// bodyColor returns the requested color; empty selects the session color
func bodyColor(body *requests.AnnotationRequest) domain.Color {
	if body == nil {
		return ""
	}
	return domain.Color(body.Color)
}

// ToggleWordAnnotation handles POST /sessions/{id}/words/{word}/annotation
func (h *SessionHandler) ToggleWordAnnotation(ctx context.Context, input *WordAnnotationInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return viewOutput(s.ToggleWordAnnotation(ctx, input.Word, bodyColor(input.Body)))
}

// SentenceAnnotationInput defines the input for sentence annotation operations
type SentenceAnnotationInput struct {
	ID         string                      `path:"id" doc:"Session id"`
	SentenceID string                      `path:"sid" doc:"Sentence id" example:"sentence_0"`
	Body       *requests.AnnotationRequest `required:"false"`
}

// ToggleSentenceAnnotation handles POST /sessions/{id}/sentences/{sid}/annotation
func (h *SessionHandler) ToggleSentenceAnnotation(ctx context.Context, input *SentenceAnnotationInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return viewOutput(s.ToggleSentenceAnnotation(ctx, input.SentenceID, bodyColor(input.Body)))
}

// SentenceInput identifies a sentence in a session
type SentenceInput struct {
	ID         string `path:"id" doc:"Session id"`
	SentenceID string `path:"sid" doc:"Sentence id"`
}

// DeleteSentenceAnnotation handles DELETE /sessions/{id}/sentences/{sid}/annotation
func (h *SessionHandler) DeleteSentenceAnnotation(ctx context.Context, input *SentenceInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return viewOutput(s.DeleteSentenceAnnotation(ctx, input.SentenceID))
}

// ToggleWordTranslation handles POST /sessions/{id}/words/{word}/translation
func (h *SessionHandler) ToggleWordTranslation(ctx context.Context, input *WordInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return viewOutput(s.ToggleWordTranslation(ctx, input.Word))
}

// TranslatePage handles POST /sessions/{id}/translation
func (h *SessionHandler) TranslatePage(ctx context.Context, input *SessionPathInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return viewOutput(s.TranslatePage(ctx))
}

// VisibilityInput defines the input for the ToggleVisibility operation
type VisibilityInput struct {
	ID   string `path:"id" doc:"Session id"`
	Kind string `path:"kind" doc:"annotations or translations"`
}

// ToggleVisibility handles POST /sessions/{id}/visibility/{kind}
func (h *SessionHandler) ToggleVisibility(ctx context.Context, input *VisibilityInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	switch input.Kind {
	case "annotations":
		return &SessionOutput{Body: s.ToggleAnnotationsVisibility()}, nil
	case "translations":
		return &SessionOutput{Body: s.ToggleTranslationsVisibility()}, nil
	default:
		return nil, toHumaError(&coreerrors.ValidationError{Field: "kind", Message: "must be annotations or translations"})
	}
}

// ClearOutput defines the output for the ClearAll operation
type ClearOutput struct {
	Body responses.ClearResponse
}

// ClearAll handles POST /sessions/{id}/clear
func (h *SessionHandler) ClearAll(ctx context.Context, input *SessionPathInput) (*ClearOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	view, cleared := s.ClearAll(ctx)
	return &ClearOutput{Body: responses.ClearResponse{Cleared: cleared, Session: view}}, nil
}

// ListWordsInput defines the input for the ListWords operation
type ListWordsInput struct {
	ID     string `path:"id" doc:"Session id"`
	Filter string `query:"filter" doc:"annotated (default), alpha or frequency"`
}

// ListWordsOutput defines the output for the ListWords operation
type ListWordsOutput struct {
	Body responses.WordListResponse
}

// ListWords handles GET /sessions/{id}/words
func (h *SessionHandler) ListWords(ctx context.Context, input *ListWordsInput) (*ListWordsOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}

	filter := domain.WordListFilter(input.Filter)
	switch filter {
	case "":
		filter = domain.FilterAnnotated
	case domain.FilterAnnotated, domain.FilterAlpha, domain.FilterFrequency:
	default:
		return nil, toHumaError(&coreerrors.ValidationError{Field: "filter", Message: "must be annotated, alpha or frequency"})
	}

	words := s.WordList(filter)
	if words == nil {
		words = []domain.WordListItem{}
	}
	return &ListWordsOutput{Body: responses.WordListResponse{
		Filter: filter,
		Words:  words,
		Stats:  s.Stats(),
	}}, nil
}

// ListSentencesOutput defines the output for the ListSentences operation
type ListSentencesOutput struct {
	Body responses.SentencesResponse
}

// ListSentences handles GET /sessions/{id}/sentences
func (h *SessionHandler) ListSentences(ctx context.Context, input *SessionPathInput) (*ListSentencesOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	sentences := s.AnnotatedSentences()
	if sentences == nil {
		sentences = []domain.AnnotatedSentence{}
	}
	return &ListSentencesOutput{Body: responses.SentencesResponse{Sentences: sentences}}, nil
}

// FavoriteOutput defines the output for the ToggleFavorite operation
type FavoriteOutput struct {
	Body responses.FavoriteResponse
}

// ToggleFavorite handles POST /sessions/{id}/favorite
func (h *SessionHandler) ToggleFavorite(ctx context.Context, input *SessionPathInput) (*FavoriteOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	favorited, err := s.ToggleFavorite(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &FavoriteOutput{Body: responses.FavoriteResponse{IsFavorited: favorited}}, nil
}

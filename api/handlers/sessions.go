// ABOUTME: Reading session handlers for the Huma API
// ABOUTME: Session lifecycle, page navigation, interaction mode, color and token activation

package handlers

import (
	"context"
	"net/http"

	"paperread-app/api/dto/requests"
	"paperread-app/core/config"
	"paperread-app/core/domain"
	"paperread-app/core/reader"

	"github.com/danielgtaylor/huma/v2"
)

// SessionRegistry owns open reading sessions
type SessionRegistry interface {
	Open(ctx context.Context, username string, articleID int64, opts ...config.SessionOption) (*reader.Session, domain.SessionView, error)
	Get(id string) (*reader.Session, error)
	Close(id string) error
}

// SessionHandler handles reading session requests
type SessionHandler struct {
	registry SessionRegistry
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(registry SessionRegistry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

// SessionPathInput identifies a session
type SessionPathInput struct {
	ID string `path:"id" doc:"Session id"`
}

// SessionOutput returns the session view
type SessionOutput struct {
	Body domain.SessionView
}

func (h *SessionHandler) session(id string) (*reader.Session, error) {
	s, err := h.registry.Get(id)
	if err != nil {
		return nil, toHumaError(err)
	}
	return s, nil
}

func viewOutput(view domain.SessionView, err error) (*SessionOutput, error) {
	if err != nil {
		return nil, toHumaError(err)
	}
	return &SessionOutput{Body: view}, nil
}

// RegisterRoutes registers all session routes
func (h *SessionHandler) RegisterRoutes(api huma.API) {
	tags := []string{"Sessions"}

	huma.Register(api, huma.Operation{
		OperationID:   "openSession",
		Method:        http.MethodPost,
		Path:          "/sessions",
		Summary:       "Open a reading session",
		Description:   "Opens an article for a user, resuming from the saved page",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
	}, h.Open)

	huma.Register(api, huma.Operation{
		OperationID: "getSession",
		Method:      http.MethodGet,
		Path:        "/sessions/{id}",
		Summary:     "Get the session view",
		Tags:        tags,
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID:   "closeSession",
		Method:        http.MethodDelete,
		Path:          "/sessions/{id}",
		Summary:       "Close a session",
		Description:   "Stops read-aloud and forgets the session",
		Tags:          tags,
		DefaultStatus: http.StatusNoContent,
	}, h.Close)

	huma.Register(api, huma.Operation{
		OperationID: "loadPage",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/pages/{page}",
		Summary:     "Load a page",
		Description: "Stops read-aloud and loads the page; out-of-range pages are rejected without a request",
		Tags:        tags,
	}, h.LoadPage)

	huma.Register(api, huma.Operation{
		OperationID: "nextPage",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/next",
		Summary:     "Load the next page",
		Tags:        tags,
	}, h.NextPage)

	huma.Register(api, huma.Operation{
		OperationID: "prevPage",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/prev",
		Summary:     "Load the previous page",
		Tags:        tags,
	}, h.PrevPage)

	huma.Register(api, huma.Operation{
		OperationID: "setPageSize",
		Method:      http.MethodPut,
		Path:        "/sessions/{id}/page-size",
		Summary:     "Change paragraphs per page",
		Description: "Stores the preference and reloads from the first page",
		Tags:        tags,
	}, h.SetPageSize)

	huma.Register(api, huma.Operation{
		OperationID: "setMode",
		Method:      http.MethodPut,
		Path:        "/sessions/{id}/mode",
		Summary:     "Set the interaction mode",
		Tags:        tags,
	}, h.SetMode)

	huma.Register(api, huma.Operation{
		OperationID: "toggleMode",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/mode/toggle",
		Summary:     "Toggle an interaction mode",
		Description: "Activates the mode, or returns to highlight when it is already active",
		Tags:        tags,
	}, h.ToggleMode)

	huma.Register(api, huma.Operation{
		OperationID: "setColor",
		Method:      http.MethodPut,
		Path:        "/sessions/{id}/color",
		Summary:     "Set the annotation color",
		Tags:        tags,
	}, h.SetColor)

	huma.Register(api, huma.Operation{
		OperationID: "activateToken",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/tokens",
		Summary:     "Activate a word",
		Description: "Highlights, annotates or translates the word depending on the interaction mode",
		Tags:        tags,
	}, h.ActivateToken)
}

// OpenSessionInput defines the input for the Open operation
type OpenSessionInput struct {
	Body requests.OpenSessionRequest
}

// Open handles POST /sessions
func (h *SessionHandler) Open(ctx context.Context, input *OpenSessionInput) (*SessionOutput, error) {
	var opts []config.SessionOption
	if input.Body.PageSize > 0 {
		opts = append(opts, config.WithPageSize(input.Body.PageSize))
	}
	_, view, err := h.registry.Open(ctx, input.Body.Username, input.Body.ArticleID, opts...)
	return viewOutput(view, err)
}

// Get handles GET /sessions/{id}
func (h *SessionHandler) Get(ctx context.Context, input *SessionPathInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: s.View()}, nil
}

// Close handles DELETE /sessions/{id}
func (h *SessionHandler) Close(ctx context.Context, input *SessionPathInput) (*struct{}, error) {
	if err := h.registry.Close(input.ID); err != nil {
		return nil, toHumaError(err)
	}
	return nil, nil
}

// LoadPageInput defines the input for the LoadPage operation
type LoadPageInput struct {
	ID   string `path:"id" doc:"Session id"`
	Page int    `path:"page" doc:"1-based page number"`
}

// LoadPage handles POST /sessions/{id}/pages/{page}
func (h *SessionHandler) LoadPage(ctx context.Context, input *LoadPageInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return viewOutput(s.LoadPage(ctx, input.Page))
}

// NextPage handles POST /sessions/{id}/next
func (h *SessionHandler) NextPage(ctx context.Context, input *SessionPathInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return viewOutput(s.NextPage(ctx))
}

// PrevPage handles POST /sessions/{id}/prev
func (h *SessionHandler) PrevPage(ctx context.Context, input *SessionPathInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return viewOutput(s.PrevPage(ctx))
}

// SetPageSizeInput defines the input for the SetPageSize operation
type SetPageSizeInput struct {
	ID   string `path:"id" doc:"Session id"`
	Body requests.PageSizeRequest
}

// SetPageSize handles PUT /sessions/{id}/page-size
func (h *SessionHandler) SetPageSize(ctx context.Context, input *SetPageSizeInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return viewOutput(s.SetPageSize(ctx, input.Body.PageSize))
}

// SetModeInput defines the input for the SetMode operation
type SetModeInput struct {
	ID   string `path:"id" doc:"Session id"`
	Body requests.ModeRequest
}

// SetMode handles PUT /sessions/{id}/mode
func (h *SessionHandler) SetMode(ctx context.Context, input *SetModeInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return viewOutput(s.SetMode(domain.InteractionMode(input.Body.Mode)))
}

// ToggleMode handles POST /sessions/{id}/mode/toggle
func (h *SessionHandler) ToggleMode(ctx context.Context, input *SetModeInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return viewOutput(s.ToggleMode(domain.InteractionMode(input.Body.Mode)))
}

// SetColorInput defines the input for the SetColor operation
type SetColorInput struct {
	ID   string `path:"id" doc:"Session id"`
	Body requests.ColorRequest
}

// SetColor handles PUT /sessions/{id}/color
func (h *SessionHandler) SetColor(ctx context.Context, input *SetColorInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return viewOutput(s.SetColor(domain.Color(input.Body.Color)))
}

// ActivateTokenInput defines the input for the ActivateToken operation
type ActivateTokenInput struct {
	ID   string `path:"id" doc:"Session id"`
	Body requests.TokenRequest
}

// ActivateToken handles POST /sessions/{id}/tokens
func (h *SessionHandler) ActivateToken(ctx context.Context, input *ActivateTokenInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return viewOutput(s.HandleTokenActivated(ctx, domain.Token{
		Word:       input.Body.Word,
		SentenceID: input.Body.SentenceID,
	}))
}

// ABOUTME: User preference handlers for the Huma API
// ABOUTME: Covers the AI provider settings and which navigation entries are shown

package handlers

import (
	"context"
	"net/http"

	"paperread-app/api/dto/requests"
	"paperread-app/api/dto/responses"
	"paperread-app/core/domain"

	"github.com/danielgtaylor/huma/v2"
)

// PreferenceStore reads and writes user preferences
type PreferenceStore interface {
	AIConfig(ctx context.Context, username string) (*domain.AIConfig, error)
	SetAIConfig(ctx context.Context, username string, cfg domain.AIConfig) error
	ClearAIConfig(ctx context.Context, username string) error
	NavTabs(ctx context.Context, username string) domain.NavTabs
	SetNavTabs(ctx context.Context, username string, tabs domain.NavTabs) (domain.NavTabs, error)
}

// PreferenceHandler handles preference requests
type PreferenceHandler struct {
	store PreferenceStore
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(store PreferenceStore) *PreferenceHandler {
	return &PreferenceHandler{store: store}
}

// RegisterRoutes registers preference routes
func (h *PreferenceHandler) RegisterRoutes(api huma.API) {
	tags := []string{"Preferences"}

	huma.Register(api, huma.Operation{
		OperationID: "getAIConfig",
		Method:      http.MethodGet,
		Path:        "/users/{username}/preferences/ai",
		Summary:     "Get the AI provider settings",
		Tags:        tags,
	}, h.GetAIConfig)

	huma.Register(api, huma.Operation{
		OperationID: "setAIConfig",
		Method:      http.MethodPut,
		Path:        "/users/{username}/preferences/ai",
		Summary:     "Save the AI provider settings",
		Description: "Provider and API key are required; the custom provider also needs an endpoint",
		Tags:        tags,
	}, h.SetAIConfig)

	huma.Register(api, huma.Operation{
		OperationID:   "clearAIConfig",
		Method:        http.MethodDelete,
		Path:          "/users/{username}/preferences/ai",
		Summary:       "Remove the AI provider settings",
		Tags:          tags,
		DefaultStatus: http.StatusNoContent,
	}, h.ClearAIConfig)

	huma.Register(api, huma.Operation{
		OperationID: "getNavTabs",
		Method:      http.MethodGet,
		Path:        "/users/{username}/preferences/nav",
		Summary:     "Get navigation visibility",
		Tags:        tags,
	}, h.GetNavTabs)

	huma.Register(api, huma.Operation{
		OperationID: "setNavTabs",
		Method:      http.MethodPut,
		Path:        "/users/{username}/preferences/nav",
		Summary:     "Change navigation visibility",
		Description: "Entries left out keep their previous value",
		Tags:        tags,
	}, h.SetNavTabs)
}

// AIConfigOutput returns the AI provider settings
type AIConfigOutput struct {
	Body responses.AIConfigResponse
}

// GetAIConfig handles GET /users/{username}/preferences/ai
func (h *PreferenceHandler) GetAIConfig(ctx context.Context, input *UserInput) (*AIConfigOutput, error) {
	cfg, err := h.store.AIConfig(ctx, input.Username)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &AIConfigOutput{Body: responses.AIConfigResponse{Configured: cfg != nil, Config: cfg}}, nil
}

// SetAIConfigInput defines the input for the SetAIConfig operation
type SetAIConfigInput struct {
	Username string `path:"username" doc:"Reader's username"`
	Body     requests.AIConfigRequest
}

// SetAIConfig handles PUT /users/{username}/preferences/ai
func (h *PreferenceHandler) SetAIConfig(ctx context.Context, input *SetAIConfigInput) (*AIConfigOutput, error) {
	err := h.store.SetAIConfig(ctx, input.Username, domain.AIConfig{
		Provider:  input.Body.Provider,
		APIKey:    input.Body.APIKey,
		CustomURL: input.Body.CustomURL,
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return h.GetAIConfig(ctx, &UserInput{Username: input.Username})
}

// ClearAIConfig handles DELETE /users/{username}/preferences/ai
func (h *PreferenceHandler) ClearAIConfig(ctx context.Context, input *UserInput) (*struct{}, error) {
	if err := h.store.ClearAIConfig(ctx, input.Username); err != nil {
		return nil, toHumaError(err)
	}
	return nil, nil
}

// NavTabsOutput returns navigation visibility
type NavTabsOutput struct {
	Body responses.NavTabsResponse
}

// GetNavTabs handles GET /users/{username}/preferences/nav
func (h *PreferenceHandler) GetNavTabs(ctx context.Context, input *UserInput) (*NavTabsOutput, error) {
	return &NavTabsOutput{Body: responses.NavTabsResponse{Tabs: h.store.NavTabs(ctx, input.Username)}}, nil
}

// SetNavTabsInput defines the input for the SetNavTabs operation
type SetNavTabsInput struct {
	Username string `path:"username" doc:"Reader's username"`
	Body     requests.NavTabsRequest
}

// SetNavTabs handles PUT /users/{username}/preferences/nav
func (h *PreferenceHandler) SetNavTabs(ctx context.Context, input *SetNavTabsInput) (*NavTabsOutput, error) {
	current := h.store.NavTabs(ctx, input.Username)
	for name, visible := range input.Body.Tabs {
		current[name] = visible
	}
	tabs, err := h.store.SetNavTabs(ctx, input.Username, current)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &NavTabsOutput{Body: responses.NavTabsResponse{Tabs: tabs}}, nil
}

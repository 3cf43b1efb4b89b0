// ABOUTME: Request DTOs for the document tree and user preference endpoints
// ABOUTME: Blank names and incomplete provider settings are rejected by the core services

package requests

import "paperread-app/core/domain"

// CreateDocumentRequest adds a document
type CreateDocumentRequest struct {
	Label    string `json:"label" doc:"Document name" example:"Grammar notes"`
	ParentID string `json:"parent_id,omitempty" doc:"Parent document; empty adds a root document" example:"doc1"`
}

// UpdateDocumentRequest renames a document or replaces its content
type UpdateDocumentRequest struct {
	Label   *string `json:"label,omitempty" doc:"New name"`
	Content *string `json:"content,omitempty" doc:"New Markdown content"`
}

// AIConfigRequest stores the AI provider configuration
type AIConfigRequest struct {
	Provider  string `json:"provider" doc:"Provider name, or custom" example:"openai"`
	APIKey    string `json:"apiKey" doc:"Provider API key"`
	CustomURL string `json:"customUrl,omitempty" doc:"Endpoint, required for the custom provider"`
}

// NavTabsRequest changes navigation visibility
type NavTabsRequest struct {
	Tabs domain.NavTabs `json:"tabs" doc:"Navigation entry to visibility; settings is always visible"`
}

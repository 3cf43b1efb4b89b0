// ABOUTME: Document tree handlers for the Huma API
// ABOUTME: Documents nest freely; deleting one removes its whole subtree

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

// DocumentService edits per-user document trees
type DocumentService interface {
	List(ctx context.Context, username string) ([]domain.Document, error)
	Get(ctx context.Context, username, id string) (domain.Document, error)
	AddRoot(ctx context.Context, username, label string) (domain.Document, error)
	AddChild(ctx context.Context, username, parentID, label string) (domain.Document, error)
	Rename(ctx context.Context, username, id, label string) (domain.Document, error)
	UpdateContent(ctx context.Context, username, id, content string) (domain.Document, error)
	Delete(ctx context.Context, username, id string) error
}

// DocumentHandler handles document requests
type DocumentHandler struct {
	service DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(service DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// RegisterRoutes registers document routes
func (h *DocumentHandler) RegisterRoutes(api huma.API) {
	tags := []string{"Documents"}

	huma.Register(api, huma.Operation{
		OperationID: "listDocuments",
		Method:      http.MethodGet,
		Path:        "/users/{username}/documents",
		Summary:     "Get the document tree",
		Description: "A user without saved documents gets the welcome document",
		Tags:        tags,
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID:   "createDocument",
		Method:        http.MethodPost,
		Path:          "/users/{username}/documents",
		Summary:       "Add a document",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "getDocument",
		Method:      http.MethodGet,
		Path:        "/users/{username}/documents/{doc_id}",
		Summary:     "Get one document",
		Tags:        tags,
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "updateDocument",
		Method:      http.MethodPut,
		Path:        "/users/{username}/documents/{doc_id}",
		Summary:     "Rename a document or replace its content",
		Tags:        tags,
	}, h.Update)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteDocument",
		Method:        http.MethodDelete,
		Path:          "/users/{username}/documents/{doc_id}",
		Summary:       "Delete a document and its children",
		Tags:          tags,
		DefaultStatus: http.StatusNoContent,
	}, h.Delete)
}

// UserInput identifies a user
type UserInput struct {
	Username string `path:"username" doc:"Reader's username"`
}

// DocumentPathInput identifies one document of a user
type DocumentPathInput struct {
	Username string `path:"username" doc:"Reader's username"`
	DocID    string `path:"doc_id" doc:"Document id"`
}

// DocumentTreeOutput returns the tree
type DocumentTreeOutput struct {
	Body responses.DocumentTreeResponse
}

// DocumentOutput returns one document
type DocumentOutput struct {
	Body domain.Document
}

// List handles GET /users/{username}/documents
func (h *DocumentHandler) List(ctx context.Context, input *UserInput) (*DocumentTreeOutput, error) {
	docs, err := h.service.List(ctx, input.Username)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &DocumentTreeOutput{Body: responses.DocumentTreeResponse{Documents: docs}}, nil
}

// CreateDocumentInput defines the input for the Create operation
type CreateDocumentInput struct {
	Username string `path:"username" doc:"Reader's username"`
	Body     requests.CreateDocumentRequest
}

// Create handles POST /users/{username}/documents
func (h *DocumentHandler) Create(ctx context.Context, input *CreateDocumentInput) (*DocumentOutput, error) {
	var (
		doc domain.Document
		err error
	)
	if input.Body.ParentID == "" {
		doc, err = h.service.AddRoot(ctx, input.Username, input.Body.Label)
	} else {
		doc, err = h.service.AddChild(ctx, input.Username, input.Body.ParentID, input.Body.Label)
	}
	if err != nil {
		return nil, toHumaError(err)
	}
	return &DocumentOutput{Body: doc}, nil
}

// Get handles GET /users/{username}/documents/{doc_id}
func (h *DocumentHandler) Get(ctx context.Context, input *DocumentPathInput) (*DocumentOutput, error) {
	doc, err := h.service.Get(ctx, input.Username, input.DocID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &DocumentOutput{Body: doc}, nil
}

// UpdateDocumentInput defines the input for the Update operation
type UpdateDocumentInput struct {
	Username string `path:"username" doc:"Reader's username"`
	DocID    string `path:"doc_id" doc:"Document id"`
	Body     requests.UpdateDocumentRequest
}

// Update handles PUT /users/{username}/documents/{doc_id}
func (h *DocumentHandler) Update(ctx context.Context, input *UpdateDocumentInput) (*DocumentOutput, error) {
	if input.Body.Label == nil && input.Body.Content == nil {
		return nil, toHumaError(&coreerrors.ValidationError{Field: "body", Message: "label or content is required"})
	}

	var (
		doc domain.Document
		err error
	)
	if input.Body.Label != nil {
		if doc, err = h.service.Rename(ctx, input.Username, input.DocID, *input.Body.Label); err != nil {
			return nil, toHumaError(err)
		}
	}
	if input.Body.Content != nil {
		if doc, err = h.service.UpdateContent(ctx, input.Username, input.DocID, *input.Body.Content); err != nil {
			return nil, toHumaError(err)
		}
	}
	return &DocumentOutput{Body: doc}, nil
}

// Delete handles DELETE /users/{username}/documents/{doc_id}
func (h *DocumentHandler) Delete(ctx context.Context, input *DocumentPathInput) (*struct{}, error) {
	if err := h.service.Delete(ctx, input.Username, input.DocID); err != nil {
		return nil, toHumaError(err)
	}
	return nil, nil
}

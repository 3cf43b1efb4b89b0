// ABOUTME: Catalog and import handlers for the Huma API
// ABOUTME: Lists articles grouped by category and imports new ones from a url or text

package handlers

import (
	"context"
	"net/http"

	"paperread-app/api/dto/mappers"
	"paperread-app/api/dto/requests"
	"paperread-app/api/dto/responses"
	"paperread-app/core/domain"

	"github.com/danielgtaylor/huma/v2"
)

// CatalogService lists articles grouped by category
type CatalogService interface {
	Load(ctx context.Context) ([]domain.CatalogCategory, error)
	Refresh(ctx context.Context) ([]domain.CatalogCategory, error)
}

// ImportService creates articles from outside sources
type ImportService interface {
	ImportURL(ctx context.Context, rawURL string) (*domain.ArticleSummary, error)
	ImportText(ctx context.Context, title, body string) (*domain.ArticleSummary, error)
}

// LibraryHandler handles catalog and import requests
type LibraryHandler struct {
	catalog  CatalogService
	importer ImportService
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(catalog CatalogService, importer ImportService) *LibraryHandler {
	return &LibraryHandler{catalog: catalog, importer: importer}
}

// RegisterRoutes registers catalog and import routes
func (h *LibraryHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getCatalog",
		Method:      http.MethodGet,
		Path:        "/catalog",
		Summary:     "List articles by category",
		Description: "Categories are sorted by name; the list is cached for five minutes unless refresh is set",
		Tags:        []string{"Library"},
	}, h.GetCatalog)

	huma.Register(api, huma.Operation{
		OperationID:   "importArticle",
		Method:        http.MethodPost,
		Path:          "/articles/import",
		Summary:       "Import an article",
		Description:   "Extracts the readable article from a url, or stores pasted text, detecting category and difficulty",
		Tags:          []string{"Library"},
		DefaultStatus: http.StatusCreated,
	}, h.Import)
}

// CatalogInput defines the input for the GetCatalog operation
type CatalogInput struct {
	Refresh bool `query:"refresh" doc:"Bypass the catalog cache"`
}

// CatalogOutput defines the output for the GetCatalog operation
type CatalogOutput struct {
	Body responses.CatalogResponse
}

// GetCatalog handles GET /catalog
func (h *LibraryHandler) GetCatalog(ctx context.Context, input *CatalogInput) (*CatalogOutput, error) {
	load := h.catalog.Load
	if input.Refresh {
		load = h.catalog.Refresh
	}
	categories, err := load(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &CatalogOutput{Body: mappers.ToCatalogResponse(categories)}, nil
}

// ImportInput defines the input for the Import operation
type ImportInput struct {
	Body requests.ImportRequest
}

// ImportOutput defines the output for the Import operation
type ImportOutput struct {
	Body responses.ImportResponse
}

// Import handles POST /articles/import
func (h *LibraryHandler) Import(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	var (
		article *domain.ArticleSummary
		err     error
	)
	if input.Body.FromURL() {
		article, err = h.importer.ImportURL(ctx, input.Body.URL)
	} else {
		article, err = h.importer.ImportText(ctx, input.Body.Title, input.Body.Text)
	}
	if err != nil {
		return nil, toHumaError(err)
	}
	return &ImportOutput{Body: responses.ImportResponse{Article: mappers.ToArticleResponse(*article)}}, nil
}

// ABOUTME: Mappers for converting domain models to API DTOs
// ABOUTME: Field-for-field copies go through copier; derived fields are set here

package mappers

import (
	"fmt"

	"paperread-app/api/dto/responses"
	"paperread-app/core/domain"

	"github.com/jinzhu/copier"
)

// ToArticleResponse converts an article summary, naming blank categories
func ToArticleResponse(article domain.ArticleSummary) responses.ArticleResponse {
	var resp responses.ArticleResponse
	_ = copier.Copy(&resp, &article)
	resp.Category = article.CategoryName()
	return resp
}

// ToCatalogResponse converts grouped categories
func ToCatalogResponse(categories []domain.CatalogCategory) responses.CatalogResponse {
	resp := responses.CatalogResponse{Categories: make([]responses.CategoryResponse, 0, len(categories))}
	for _, c := range categories {
		category := responses.CategoryResponse{
			Name:     c.Name,
			Count:    len(c.Articles),
			Articles: make([]responses.ArticleResponse, 0, len(c.Articles)),
		}
		for _, a := range c.Articles {
			category.Articles = append(category.Articles, ToArticleResponse(a))
		}
		resp.Total += category.Count
		resp.Categories = append(resp.Categories, category)
	}
	return resp
}

// ToDictationResponse converts a practice view
func ToDictationResponse(view domain.DictationView) responses.DictationResponse {
	var resp responses.DictationResponse
	_ = copier.Copy(&resp, &view)
	if view.Completed {
		resp.Progress = fmt.Sprintf("%d / %d", view.Total, view.Total)
	} else {
		resp.Progress = fmt.Sprintf("%d / %d", view.Index+1, view.Total)
	}
	return resp
}

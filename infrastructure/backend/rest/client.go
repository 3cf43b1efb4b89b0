// ABOUTME: REST client for the article backend
// ABOUTME: Implements interfaces.ArticleBackend over the paperread JSON API

package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"paperread-app/core/domain"
	coreerrors "paperread-app/core/errors"
	"paperread-app/core/interfaces"
)

const apiName = "backend"

// maxErrorBody bounds how much of an error response is kept in messages
const maxErrorBody = 512

// Client talks to the article backend
type Client struct {
	baseURL string
	http    interfaces.HTTPClient
	logger  interfaces.Logger
}

// NewClient creates a backend client; baseURL is the API root, e.g. http://localhost:8000/api
func NewClient(baseURL string, httpClient interfaces.HTTPClient, logger interfaces.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

func (c *Client) articleURL(articleID int64, action string, query url.Values) string {
	u := fmt.Sprintf("%s/articles/%d/", c.baseURL, articleID)
	if action != "" {
		u += action + "/"
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// ListArticles returns up to pageSize article summaries
func (c *Client) ListArticles(ctx context.Context, pageSize int) ([]domain.ArticleSummary, error) {
	u := fmt.Sprintf("%s/articles/?page_size=%d", c.baseURL, pageSize)
	data, err := c.get(ctx, u, "articles", "")
	if err != nil {
		return nil, err
	}

	var paged struct {
		Results []domain.ArticleSummary `json:"results"`
	}
	if err := json.Unmarshal(data, &paged); err == nil && paged.Results != nil {
		return paged.Results, nil
	}
	var list []domain.ArticleSummary
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, c.decodeError(u, err)
	}
	return list, nil
}

// GetArticle returns one article's metadata
func (c *Client) GetArticle(ctx context.Context, articleID int64) (*domain.ArticleSummary, error) {
	u := c.articleURL(articleID, "", nil)
	data, err := c.get(ctx, u, "article", strconv.FormatInt(articleID, 10))
	if err != nil {
		return nil, err
	}
	var article domain.ArticleSummary
	if err := json.Unmarshal(data, &article); err != nil {
		return nil, c.decodeError(u, err)
	}
	return &article, nil
}

// FetchPage returns one page of an article's paragraphs
func (c *Client) FetchPage(ctx context.Context, articleID int64, page, pageSize int) (*domain.ArticlePage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	u := c.articleURL(articleID, "content_paginated", query)

	data, err := c.get(ctx, u, "page", strconv.Itoa(page))
	if err != nil {
		return nil, err
	}
	var result domain.ArticlePage
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, c.decodeError(u, err)
	}
	result.ArticleID = articleID
	return &result, nil
}

// LoadAnnotations returns a user's word annotations for an article
func (c *Client) LoadAnnotations(ctx context.Context, articleID int64, username string) ([]domain.WordAnnotation, error) {
	query := url.Values{}
	query.Set("username", username)
	u := c.articleURL(articleID, "annotations", query)

	data, err := c.get(ctx, u, "annotations", strconv.FormatInt(articleID, 10))
	if err != nil {
		return nil, err
	}
	var annotations []domain.WordAnnotation
	if err := json.Unmarshal(data, &annotations); err != nil {
		return nil, c.decodeError(u, err)
	}
	return annotations, nil
}

// SaveAnnotations replaces a user's word annotations for an article
func (c *Client) SaveAnnotations(ctx context.Context, articleID int64, username string, annotations []domain.WordAnnotation) error {
	if annotations == nil {
		annotations = []domain.WordAnnotation{}
	}
	body := struct {
		Annotations []domain.WordAnnotation `json:"annotations"`
		Username    string                  `json:"username"`
	}{annotations, username}

	_, err := c.post(ctx, c.articleURL(articleID, "save_annotations", nil), body)
	return err
}

// RecordReading adds a reading history entry
func (c *Client) RecordReading(ctx context.Context, articleID int64, username string, duration time.Duration) error {
	body := struct {
		Username     string `json:"username"`
		ReadDuration int64  `json:"read_duration"`
	}{username, int64(duration / time.Second)}

	_, err := c.post(ctx, c.articleURL(articleID, "record_reading", nil), body)
	return err
}

// ToggleFavorite flips the favorite flag and returns the new state
func (c *Client) ToggleFavorite(ctx context.Context, articleID int64, username string) (bool, error) {
	u := c.articleURL(articleID, "toggle_favorite", nil)
	data, err := c.post(ctx, u, struct {
		Username string `json:"username"`
	}{username})
	if err != nil {
		return false, err
	}
	var result struct {
		IsFavorited bool `json:"is_favorited"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return false, c.decodeError(u, err)
	}
	return result.IsFavorited, nil
}

// CreateArticle stores a new article
func (c *Client) CreateArticle(ctx context.Context, draft domain.ArticleDraft) (*domain.ArticleSummary, error) {
	body := struct {
		Title      string `json:"title"`
		Content    string `json:"content"`
		Category   string `json:"category,omitempty"`
		Difficulty string `json:"difficulty,omitempty"`
		Source     string `json:"source,omitempty"`
		Markdown   string `json:"markdown,omitempty"`
	}{draft.Title, draft.Content, draft.Category, draft.Difficulty, draft.SourceURL, draft.Markdown}

	u := c.baseURL + "/articles/"
	data, err := c.post(ctx, u, body)
	if err != nil {
		return nil, err
	}
	var article domain.ArticleSummary
	if err := json.Unmarshal(data, &article); err != nil {
		return nil, c.decodeError(u, err)
	}
	if article.WordCount == 0 {
		article.WordCount = draft.WordCount
	}
	if article.ParagraphCount == 0 {
		article.ParagraphCount = draft.ParagraphCount
	}
	return &article, nil
}

func (c *Client) get(ctx context.Context, u, resource, id string) ([]byte, error) {
	resp, err := c.http.Get(ctx, u)
	if err != nil {
		c.logger.Error("Backend request failed", map[string]interface{}{
			"url":   u,
			"error": err.Error(),
		})
		return nil, coreerrors.WrapError(err, "backend request failed")
	}
	defer resp.Body().Close()

	if resp.StatusCode() == http.StatusNotFound && resource != "" {
		return nil, &coreerrors.NotFoundError{Resource: resource, ID: id}
	}
	return c.read(u, resp)
}

func (c *Client) post(ctx context.Context, u string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Post(ctx, u, bytes.NewReader(payload))
	if err != nil {
		c.logger.Error("Backend request failed", map[string]interface{}{
			"url":   u,
			"error": err.Error(),
		})
		return nil, coreerrors.WrapError(err, "backend request failed")
	}
	defer resp.Body().Close()
	return c.read(u, resp)
}

func (c *Client) read(u string, resp interfaces.Response) ([]byte, error) {
	data, err := io.ReadAll(resp.Body())
	if err != nil {
		return nil, coreerrors.WrapError(err, "read backend response")
	}
	if resp.StatusCode() >= 400 {
		msg := strings.TrimSpace(string(data))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		c.logger.Warn("Backend returned an error status", map[string]interface{}{
			"url":    u,
			"status": resp.StatusCode(),
		})
		return nil, &coreerrors.ExternalAPIError{StatusCode: resp.StatusCode(), Message: msg, API: apiName}
	}
	return data, nil
}

func (c *Client) decodeError(u string, err error) error {
	c.logger.Error("Failed to decode backend response", map[string]interface{}{
		"url":   u,
		"error": err.Error(),
	})
	return &coreerrors.ExternalAPIError{StatusCode: http.StatusBadGateway, Message: "malformed response: " + err.Error(), API: apiName}
}

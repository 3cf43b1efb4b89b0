// ABOUTME: Import service turns a web page or pasted text into a library article
// ABOUTME: Parses with x/net/html, extracts with go-readability, splits paragraphs with goquery and converts with html-to-markdown

package importer

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"paperread-app/core/domain"
	coreerrors "paperread-app/core/errors"
	"paperread-app/core/interfaces"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// ArticleCreator stores a new article
type ArticleCreator interface {
	CreateArticle(ctx context.Context, draft domain.ArticleDraft) (*domain.ArticleSummary, error)
}

// Service imports articles
type Service struct {
	client  interfaces.HTTPClient
	creator ArticleCreator
	logger  interfaces.Logger
}

// NewService creates an import service
func NewService(client interfaces.HTTPClient, creator ArticleCreator, logger interfaces.Logger) *Service {
	return &Service{
		client:  client,
		creator: creator,
		logger:  logger,
	}
}

// ImportURL extracts the readable article at rawURL and stores it
func (s *Service) ImportURL(ctx context.Context, rawURL string) (*domain.ArticleSummary, error) {
	pageURL, err := parseSourceURL(rawURL)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Get(ctx, pageURL.String())
	if err != nil {
		s.logger.Error("Failed to fetch article source", map[string]interface{}{
			"url":   pageURL.String(),
			"error": err.Error(),
		})
		return nil, coreerrors.WrapError(err, "fetch article source")
	}
	defer resp.Body().Close()

	if resp.StatusCode() >= 400 {
		return nil, &coreerrors.ExternalAPIError{
			StatusCode: resp.StatusCode(),
			Message:    fmt.Sprintf("source returned status %d", resp.StatusCode()),
			API:        "article source",
		}
	}

	draft, err := s.draftFromHTML(resp.Body(), pageURL)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, draft)
}

// ImportText stores pasted text as an article. An empty title is taken from
// the first short line of the text.
func (s *Service) ImportText(ctx context.Context, title, body string) (*domain.ArticleSummary, error) {
	content := CleanContent(body)
	if content == "" {
		return nil, &coreerrors.ValidationError{Field: "text", Message: "text cannot be empty"}
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = ExtractTitle(content)
		if rest := strings.TrimSpace(strings.TrimPrefix(content, title)); title != "" && rest != "" {
			content = rest
		}
	}
	if title == "" {
		title = truncateRunes(SplitParagraphs(content)[0], 60)
	}

	paragraphs := SplitParagraphs(content)
	if len(paragraphs) == 0 {
		return nil, &coreerrors.ValidationError{Field: "text", Message: "text has no paragraphs"}
	}
	return s.create(ctx, newDraft(title, paragraphs))
}

func (s *Service) create(ctx context.Context, draft domain.ArticleDraft) (*domain.ArticleSummary, error) {
	summary, err := s.creator.CreateArticle(ctx, draft)
	if err != nil {
		s.logger.Error("Failed to create imported article", map[string]interface{}{
			"title": draft.Title,
			"error": err.Error(),
		})
		return nil, err
	}
	s.logger.Info("Imported article", map[string]interface{}{
		"article_id": summary.ID,
		"title":      draft.Title,
		"category":   draft.Category,
		"difficulty": draft.Difficulty,
		"paragraphs": draft.ParagraphCount,
	})
	return summary, nil
}

func (s *Service) draftFromHTML(body io.Reader, pageURL *url.URL) (domain.ArticleDraft, error) {
	doc, err := html.Parse(body)
	if err != nil {
		return domain.ArticleDraft{}, &coreerrors.ValidationError{Field: "url", Message: "page is not valid HTML"}
	}

	article, err := readability.FromDocument(doc, pageURL)
	if err != nil {
		s.logger.Error("Failed to parse readable article", map[string]interface{}{
			"url":   pageURL.String(),
			"error": err.Error(),
		})
		return domain.ArticleDraft{}, &coreerrors.ValidationError{Field: "url", Message: "page has no readable article"}
	}

	markdown := ""
	if article.Content != "" {
		converter := md.NewConverter("", true, nil)
		if converted, err := converter.ConvertString(article.Content); err != nil {
			s.logger.Debug("Failed to convert HTML to markdown", map[string]interface{}{
				"url":   pageURL.String(),
				"error": err.Error(),
			})
		} else {
			markdown = cleanMarkdown(converted)
		}
	}

	paragraphs := htmlParagraphs(article.Content)
	if len(paragraphs) == 0 {
		paragraphs = SplitParagraphs(article.TextContent)
	}
	if len(paragraphs) == 0 {
		return domain.ArticleDraft{}, &coreerrors.ValidationError{Field: "url", Message: "page has no readable paragraphs"}
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = truncateRunes(paragraphs[0], 60)
	}

	draft := newDraft(title, paragraphs)
	draft.SourceURL = pageURL.String()
	draft.Markdown = markdown
	return draft, nil
}

func newDraft(title string, paragraphs []string) domain.ArticleDraft {
	content := strings.Join(paragraphs, "\n\n")
	return domain.ArticleDraft{
		Title:          title,
		Content:        content,
		Category:       DetectCategory(content, title),
		Difficulty:     DetectDifficulty(content),
		WordCount:      CountWords(content),
		ParagraphCount: len(paragraphs),
	}
}

var spaceRun = regexp.MustCompile(`\s+`)

// htmlParagraphs returns the whitespace-normalized text of every non-empty <p>
func htmlParagraphs(content string) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}
	var out []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		p := strings.TrimSpace(spaceRun.ReplaceAllString(sel.Text(), " "))
		if p != "" {
			out = append(out, p)
		}
	})
	return out
}

func parseSourceURL(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, &coreerrors.ValidationError{Field: "url", Message: "url cannot be empty"}
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &coreerrors.ValidationError{Field: "url", Message: fmt.Sprintf("%q is not an http(s) url", rawURL)}
	}
	return u, nil
}

var (
	markdownGaps      = regexp.MustCompile(`\n{3,}`)
	trailingSpace     = regexp.MustCompile(`[ \t]+\n`)
	headingWithoutGap = regexp.MustCompile(`\n(#{1,6} )`)
	headingFollowedBy = regexp.MustCompile(`(#{1,6} [^\n]+)\n([^\n])`)
)

// cleanMarkdown collapses blank lines and keeps headings separated from text
func cleanMarkdown(markdown string) string {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	markdown = trailingSpace.ReplaceAllString(markdown, "\n")
	markdown = headingWithoutGap.ReplaceAllString(markdown, "\n\n$1")
	markdown = headingFollowedBy.ReplaceAllString(markdown, "$1\n\n$2")
	markdown = markdownGaps.ReplaceAllString(markdown, "\n\n")
	return strings.TrimSpace(markdown)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}

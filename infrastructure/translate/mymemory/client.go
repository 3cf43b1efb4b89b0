// ABOUTME: MyMemory translation client implementing interfaces.Translator
// ABOUTME: Paces requests with a token bucket and tolerates string or numeric status codes

package mymemory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	coreerrors "paperread-app/core/errors"
	"paperread-app/core/interfaces"

	"golang.org/x/time/rate"
)

const (
	// DefaultURL is the public MyMemory endpoint
	DefaultURL = "https://api.mymemory.translated.net/get"

	// DefaultLangPair translates English to simplified Chinese
	DefaultLangPair = "en|zh-CN"

	// DefaultInterval spaces consecutive requests
	DefaultInterval = 300 * time.Millisecond

	apiName = "mymemory"
)

// Client translates text through MyMemory
type Client struct {
	endpoint string
	langPair string
	http     interfaces.HTTPClient
	limiter  *rate.Limiter
	logger   interfaces.Logger
}

// Option configures the client
type Option func(*Client)

// WithEndpoint overrides the translation endpoint
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithLangPair overrides the language pair, e.g. "en|ja"
func WithLangPair(pair string) Option {
	return func(c *Client) {
		if pair != "" {
			c.langPair = pair
		}
	}
}

// WithInterval sets the minimum spacing between requests; zero disables pacing
func WithInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// NewClient creates a MyMemory client
func NewClient(httpClient interfaces.HTTPClient, logger interfaces.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultURL,
		langPair: DefaultLangPair,
		http:     httpClient,
		limiter:  rate.NewLimiter(rate.Every(DefaultInterval), 1),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type response struct {
	ResponseStatus status `json:"responseStatus"`
	ResponseData   struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseDetails string `json:"responseDetails"`
}

// status accepts 200 as well as "200"
type status int

func (s *status) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid responseStatus %s", data)
	}
	*s = status(n)
	return nil
}

// Translate returns the translation of text
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &coreerrors.ValidationError{Field: "text", Message: "text cannot be empty"}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("q", text)
	query.Set("langpair", c.langPair)
	u := c.endpoint + "?" + query.Encode()

	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return "", coreerrors.WrapError(err, "translation request failed")
	}
	defer resp.Body().Close()

	if resp.StatusCode() >= 400 {
		return "", &coreerrors.ExternalAPIError{
			StatusCode: resp.StatusCode(),
			Message:    http.StatusText(resp.StatusCode()),
			API:        apiName,
		}
	}

	data, err := io.ReadAll(resp.Body())
	if err != nil {
		return "", coreerrors.WrapError(err, "read translation response")
	}

	var result response
	if err := json.Unmarshal(data, &result); err != nil {
		return "", &coreerrors.ExternalAPIError{StatusCode: http.StatusBadGateway, Message: "malformed response: " + err.Error(), API: apiName}
	}
	if result.ResponseStatus != http.StatusOK {
		msg := result.ResponseDetails
		if msg == "" {
			msg = fmt.Sprintf("responseStatus %d", result.ResponseStatus)
		}
		c.logger.Warn("Translation service rejected request", map[string]interface{}{
			"status":  int(result.ResponseStatus),
			"details": msg,
		})
		return "", &coreerrors.ExternalAPIError{StatusCode: int(result.ResponseStatus), Message: msg, API: apiName}
	}

	translated := strings.TrimSpace(result.ResponseData.TranslatedText)
	if translated == "" {
		return "", &coreerrors.ExternalAPIError{StatusCode: http.StatusBadGateway, Message: "empty translation", API: apiName}
	}

	c.logger.Debug("Translated text", map[string]interface{}{
		"chars": len(text),
	})
	return translated, nil
}

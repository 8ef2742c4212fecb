// Package client is a typed Go client for the Veritus content API. It is
// the data-access layer UI code and tooling call instead of constructing
// requests inline: one method per endpoint, bearer auth, JSON in and out.
// There is no retry, caching, or fallback — transport and API errors are
// returned to the caller as-is.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"veritus/internal/models"
)

// APIError is a non-2xx response from the server, carrying the HTTP status
// and the server's error message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is a Veritus API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the API at baseURL (e.g. "http://localhost:8080/api")
// authenticating with the given bearer token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// do performs a request against endpoint, JSON-encoding body when non-nil
// and decoding the response into result when non-nil.
func (c *Client) do(ctx context.Context, method, endpoint string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// Health checks service liveness.
func (c *Client) Health(ctx context.Context) error {
	var status struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return fmt.Errorf("health: %w", err)
	}
	if status.Status != "ok" {
		return fmt.Errorf("health: unexpected status %q", status.Status)
	}
	return nil
}

// Subscribe adds an email to the newsletter and returns the new record.
func (c *Client) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	var sub models.Subscriber
	err := c.do(ctx, http.MethodPost, "/newsletter/subscribe",
		map[string]string{"email": email}, &sub)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return &sub, nil
}

// Unsubscribe marks an email inactive and returns the updated record.
func (c *Client) Unsubscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	var sub models.Subscriber
	err := c.do(ctx, http.MethodPost, "/newsletter/unsubscribe",
		map[string]string{"email": email}, &sub)
	if err != nil {
		return nil, fmt.Errorf("unsubscribe: %w", err)
	}
	return &sub, nil
}

// Subscribers returns all subscriber records, newest first.
func (c *Client) Subscribers(ctx context.Context) ([]models.Subscriber, error) {
	var subs []models.Subscriber
	if err := c.do(ctx, http.MethodGet, "/newsletter/list", nil, &subs); err != nil {
		return nil, fmt.Errorf("subscribers: %w", err)
	}
	return subs, nil
}

// NewsletterStats holds subscriber counts.
type NewsletterStats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// Stats returns the total and active subscriber counts.
func (c *Client) Stats(ctx context.Context) (*NewsletterStats, error) {
	var stats NewsletterStats
	if err := c.do(ctx, http.MethodGet, "/newsletter/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &stats, nil
}

// CreateArticle creates an article from a partial record; the server fills
// defaults for omitted optional fields.
func (c *Client) CreateArticle(ctx context.Context, partial map[string]any) (*models.Article, error) {
	var art models.Article
	if err := c.do(ctx, http.MethodPost, "/articles", partial, &art); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return &art, nil
}

// Articles returns all articles, newest publish date first.
func (c *Client) Articles(ctx context.Context) ([]models.Article, error) {
	var arts []models.Article
	if err := c.do(ctx, http.MethodGet, "/articles", nil, &arts); err != nil {
		return nil, fmt.Errorf("articles: %w", err)
	}
	return arts, nil
}

// Article fetches one article by id. The server increments the article's
// view counter as a side effect of this call.
func (c *Client) Article(ctx context.Context, id string) (*models.Article, error) {
	var art models.Article
	if err := c.do(ctx, http.MethodGet, "/articles/"+id, nil, &art); err != nil {
		return nil, fmt.Errorf("article %s: %w", id, err)
	}
	return &art, nil
}

// UpdateArticle shallow-merges the given fields over the stored article.
func (c *Client) UpdateArticle(ctx context.Context, id string, updates map[string]any) (*models.Article, error) {
	var art models.Article
	if err := c.do(ctx, http.MethodPut, "/articles/"+id, updates, &art); err != nil {
		return nil, fmt.Errorf("update article %s: %w", id, err)
	}
	return &art, nil
}

// DeleteArticle removes an article permanently.
func (c *Client) DeleteArticle(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/articles/"+id, nil, nil); err != nil {
		return fmt.Errorf("delete article %s: %w", id, err)
	}
	return nil
}

// ArticlesByCategory returns the articles in a category (case-insensitive).
func (c *Client) ArticlesByCategory(ctx context.Context, category string) ([]models.Article, error) {
	var arts []models.Article
	if err := c.do(ctx, http.MethodGet, "/articles/category/"+category, nil, &arts); err != nil {
		return nil, fmt.Errorf("articles by category %s: %w", category, err)
	}
	return arts, nil
}

// FeaturedArticles returns the articles flagged as featured.
func (c *Client) FeaturedArticles(ctx context.Context) ([]models.Article, error) {
	var arts []models.Article
	if err := c.do(ctx, http.MethodGet, "/articles/featured/list", nil, &arts); err != nil {
		return nil, fmt.Errorf("featured articles: %w", err)
	}
	return arts, nil
}

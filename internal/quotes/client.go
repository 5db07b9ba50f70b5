package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"habitd/internal/model"
)

const defaultTimeout = 10 * time.Second

// Client fetches quotes from a quotable-style JSON API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type quoteResponse struct {
	ID      string   `json:"_id"`
	Content string   `json:"content"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
}

func (c *Client) Random(ctx context.Context, count int) ([]model.Quote, error) {
	if count < 1 {
		count = 1
	}
	endpoint := fmt.Sprintf("%s/quotes/random?limit=%d", c.baseURL, count)
	return c.fetch(ctx, endpoint)
}

func (c *Client) ByCategory(ctx context.Context, category string, count int) ([]model.Quote, error) {
	if count < 1 {
		count = 1
	}
	endpoint := fmt.Sprintf("%s/quotes/random?limit=%d&tags=%s",
		c.baseURL, count, url.QueryEscape(category))
	return c.fetch(ctx, endpoint)
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]model.Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build quote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quotes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch quotes: unexpected status %d", resp.StatusCode)
	}

	var payload []quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode quotes: %w", err)
	}

	out := make([]model.Quote, 0, len(payload))
	for _, q := range payload {
		if q.Content == "" {
			continue
		}
		id := q.ID
		if id == "" {
			id = uuid.NewString()
		}
		category := model.DefaultQuoteCategory
		if len(q.Tags) > 0 {
			category = q.Tags[0]
		}
		out = append(out, model.Quote{
			ID:       id,
			Text:     q.Content,
			Author:   q.Author,
			Category: category,
		})
	}
	return out, nil
}

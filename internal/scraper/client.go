package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/0xteamMuffin/Hireability/internal/models"
)

// Client proxies the company-scraping microservice. Contract:
// POST /scrape {"url": ...} -> {"success", "url", "content", "error"}.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

type scrapeRequest struct {
	URL string `json:"url"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Error   string `json:"error"`
}

// Scrape fetches a page's text content, capped for LLM consumption.
func (c *Client) Scrape(ctx context.Context, url string) (string, error) {
	body, err := json.Marshal(scrapeRequest{URL: url})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scrape", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("scraper returned status %d", resp.StatusCode)
	}

	var out scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode scrape response: %w", err)
	}
	if !out.Success {
		if out.Error == "" {
			out.Error = "scrape failed"
		}
		return "", errors.New(out.Error)
	}

	content := out.Content
	if len(content) > models.ScrapeContentLimit {
		content = content[:models.ScrapeContentLimit] + "... [content truncated]"
	}
	return content, nil
}

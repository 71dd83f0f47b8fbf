package logbook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

const BaseURL = "https://log.concept2.com/api"

// Client is a Concept2 Logbook API client
type Client struct {
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a new logbook API client
func NewClient(tokenSource oauth2.TokenSource) *Client {
	return &Client{
		httpClient:  oauth2.NewClient(context.Background(), tokenSource),
		rateLimiter: NewRateLimiter(),
	}
}

// GetUser fetches the authenticated user's profile
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, "/users/me", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope userEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}

	return &envelope.Data, nil
}

// GetResults fetches one page of results updated after 'after'.
// Returns the results and whether more pages remain.
func (c *Client) GetResults(ctx context.Context, after time.Time, page int) ([]Result, bool, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, false, err
	}

	params := url.Values{}
	if !after.IsZero() {
		params.Set("updated_after", after.UTC().Format("2006-01-02 15:04:05"))
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("number", "250") // Max allowed per page

	resp, err := c.get(ctx, "/users/me/results", params)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	var envelope resultsPage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, false, fmt.Errorf("decoding results: %w", err)
	}

	more := envelope.Meta.Pagination.CurrentPage < envelope.Meta.Pagination.TotalPages
	return envelope.Data, more, nil
}

// GetAllResults fetches all results updated after a given time.
// It handles pagination automatically and respects rate limits.
func (c *Client) GetAllResults(ctx context.Context, after time.Time, onProgress func(fetched int)) ([]Result, error) {
	var all []Result
	page := 1

	for {
		results, more, err := c.GetResults(ctx, after, page)
		if err != nil {
			return all, fmt.Errorf("fetching page %d: %w", page, err)
		}

		all = append(all, results...)

		if onProgress != nil {
			onProgress(len(all))
		}

		if !more {
			break
		}
		page++
	}

	return all, nil
}

// GetResult fetches one result with its split/interval breakdown
func (c *Client) GetResult(ctx context.Context, resultID int64) (*Result, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/users/me/results/%d", resultID)
	resp, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope resultEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}

	return &envelope.Data, nil
}

// RateLimitStatus returns the remaining requests in the current window
func (c *Client) RateLimitStatus() int {
	return c.rateLimiter.Status()
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	c.rateLimiter.UpdateFromHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

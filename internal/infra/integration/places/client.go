package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Website health classifications assigned at discovery time.
const (
	WebsiteWorking       = "working"
	WebsiteBroken        = "broken"
	WebsiteMissing       = "missing"
	WebsiteNonFunctional = "non-functional"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// Client talks to the Places API and probes candidate websites.
type Client struct {
	APIKey  string
	BaseURL string

	HTTPClient *http.Client
	// Separate client for probing business websites: longer timeout, and we
	// never want a slow shop site to share settings with the API calls.
	SiteClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		SiteClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// TextSearch runs one page of a text search and returns the next page token,
// empty when the listing is exhausted.
func (c *Client) TextSearch(ctx context.Context, query, pageToken string) ([]PlaceSummary, string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.APIKey)
	if pageToken != "" {
		params.Set("pagetoken", pageToken)
	}

	var out textSearchResponse
	if err := c.getJSON(ctx, "/textsearch/json", params, &out); err != nil {
		return nil, "", err
	}
	if out.Status != "OK" && out.Status != "ZERO_RESULTS" {
		return nil, "", fmt.Errorf("places text search failed: %s %s", out.Status, out.ErrorMessage)
	}

	return out.Results, out.NextPageToken, nil
}

// Details fetches the fields discovery ingestion needs for one place.
func (c *Client) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "name,formatted_phone_number,website,url,place_id,reviews")
	params.Set("key", c.APIKey)

	var out detailsResponse
	if err := c.getJSON(ctx, "/details/json", params, &out); err != nil {
		return nil, err
	}
	if out.Status != "OK" {
		return nil, fmt.Errorf("place details failed: %s %s", out.Status, out.ErrorMessage)
	}

	return out.Result, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places api returned %d: %s", resp.StatusCode, string(body))
	}

	return json.Unmarshal(body, out)
}

// ClassifyWebsite probes a business website and buckets it. The buckets feed
// the scraper filter: only leads without a working site qualify.
//
// Sites that block bots (403/401/406/429) are online for customers, so they
// count as working. Hard errors and DNS failures count as broken. Very small
// or parked pages count as non-functional.
func (c *Client) ClassifyWebsite(ctx context.Context, siteURL string) string {
	if siteURL == "" {
		return WebsiteMissing
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		return WebsiteBroken
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.SiteClient.Do(req)
	if err != nil {
		return WebsiteBroken
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500:
		return WebsiteBroken
	case resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusNotAcceptable,
		resp.StatusCode == http.StatusTooManyRequests:
		return WebsiteWorking
	case resp.StatusCode >= 400:
		return WebsiteBroken
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256<<10))
	if err != nil {
		return WebsiteBroken
	}

	text := strings.ToLower(string(body))
	if len(text) < 500 || strings.Contains(text, "parked") || strings.Contains(text, "buy this domain") {
		return WebsiteNonFunctional
	}

	return WebsiteWorking
}

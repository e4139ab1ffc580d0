// Package geocode is the client for the external text-search and reverse
// geocoding provider.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to a Nominatim-shaped geocoding provider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a geocoding client. Providers require an identifying
// User-Agent.
func NewClient(baseURL, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:   baseURL,
		userAgent: userAgent,
	}
}

// SetBaseURL sets the base URL for the provider (useful for testing)
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// searchResult is the provider's wire format: coordinates arrive as strings.
type searchResult struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

type reverseResult struct {
	DisplayName string `json:"display_name"`
}

// RawResult is one parsed search candidate.
type RawResult struct {
	PlaceID     int64
	DisplayName string
	Lat         float64
	Lon         float64
}

// Search runs a bounded text search restricted to the given viewbox and
// country. Candidates with unparseable coordinates are dropped.
func (c *Client) Search(ctx context.Context, queryText string, viewbox [4]float64, countryCodes string, limit int) ([]RawResult, error) {
	query := url.Values{}
	query.Set("q", queryText)
	query.Set("format", "json")
	query.Set("limit", strconv.Itoa(limit))
	query.Set("viewbox", fmt.Sprintf("%g,%g,%g,%g", viewbox[0], viewbox[1], viewbox[2], viewbox[3]))
	query.Set("bounded", "1")
	query.Set("countrycodes", countryCodes)

	var raw []searchResult
	if err := c.getJSON(ctx, fmt.Sprintf("%s/search?%s", c.baseURL, query.Encode()), &raw); err != nil {
		return nil, err
	}

	results := make([]RawResult, 0, len(raw))
	for _, r := range raw {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lon, errLon := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		results = append(results, RawResult{
			PlaceID:     r.PlaceID,
			DisplayName: r.DisplayName,
			Lat:         lat,
			Lon:         lon,
		})
	}
	return results, nil
}

// Reverse returns the display name for a coordinate.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	var raw reverseResult
	if err := c.getJSON(ctx, fmt.Sprintf("%s/reverse?%s", c.baseURL, query.Encode()), &raw); err != nil {
		return "", err
	}
	return raw.DisplayName, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("geocoder error %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

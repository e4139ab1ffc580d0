// Package upstream is the client for the remote pollen forecast and
// nowcasting API. Both pipelines expose the same hour-grid and time-series
// shapes; nowcasting is selected per species.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pollenmap/pollen-backend-go/internal/models"
)

// TotalHours is the forecast/nowcasting horizon.
const TotalHours = 48

// Client talks to the pollen data API. Identical concurrent hour-grid
// requests are collapsed into a single HTTP call, so prefetch and foreground
// fetches for the same (species, date, hour) never race each other upstream.
type Client struct {
	httpClient *http.Client
	baseURL    string
	group      singleflight.Group
}

// NewClient creates a new client for the pollen data API.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
	}
}

// NewClientWithHTTPClient creates a new client with a custom HTTP client.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

// SetBaseURL sets the base URL for the API (useful for testing)
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// HourParams identify one hour grid.
type HourParams struct {
	Species  models.PollenConfig
	BaseDate string // YYYY-MM-DD; hours >= 24 roll over to the next day
	Hour     int    // 0..TotalHours-1
	Box      models.BoundingBox
}

// SeriesParams identify one time-series request for a resolved grid point.
type SeriesParams struct {
	Species models.PollenConfig
	Lat     float64
	Lon     float64
	Date    string
	Hour    int
	NHours  int // nowcasting only
}

type hourResponse struct {
	Data       []*float64 `json:"data"`
	Longitudes []float64  `json:"longitudes"`
	Latitudes  []float64  `json:"latitudes"`
}

type seriesResponse struct {
	Data map[string]json.RawMessage `json:"data"`
}

// ResolveHour maps an hour index on the 48-hour horizon to a calendar date
// and API hour: hours >= 24 belong to the day after the base date.
func ResolveHour(baseDate string, hour int) (string, int, error) {
	day, err := time.Parse("2006-01-02", baseDate)
	if err != nil {
		return "", 0, fmt.Errorf("invalid base date %q: %w", baseDate, err)
	}
	if hour >= 24 {
		return day.AddDate(0, 0, 1).Format("2006-01-02"), hour - 24, nil
	}
	return baseDate, hour, nil
}

// HourGrid fetches the grid for one (species, hour) and reshapes it against
// the returned coordinate axes.
func (c *Client) HourGrid(ctx context.Context, params HourParams) (models.Grid, error) {
	date, apiHour, err := ResolveHour(params.BaseDate, params.Hour)
	if err != nil {
		return models.Grid{}, err
	}

	endpoint := "forecast/hour"
	if params.Species.Nowcast {
		endpoint = "nowcasting/hour"
	}

	query := url.Values{}
	query.Set("date", date)
	query.Set("hour", strconv.Itoa(apiHour))
	query.Set("pollen", params.Species.APIKey)
	query.Set("include_coords", "true")
	if !params.Species.Nowcast {
		query.Set("box", fmt.Sprintf("%g,%g,%g,%g", params.Box[0], params.Box[1], params.Box[2], params.Box[3]))
	}
	if params.Species.APIIntervals != "" {
		query.Set("intervals", params.Species.APIIntervals)
	}

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, query.Encode())

	// singleflight key is the full request URL: any identical in-flight
	// request shares one round trip.
	result, err, _ := c.group.Do(reqURL, func() (interface{}, error) {
		var resp hourResponse
		if err := c.getJSON(ctx, reqURL, &resp); err != nil {
			return nil, err
		}
		return models.GridFromFlat(resp.Data, resp.Latitudes, resp.Longitudes), nil
	})
	if err != nil {
		return models.Grid{}, err
	}
	return result.(models.Grid), nil
}

// Series fetches the hour-indexed time series for a resolved grid point.
// Entries holding the 'NA' sentinel decode to nil values.
func (c *Client) Series(ctx context.Context, params SeriesParams) ([]models.SeriesPoint, error) {
	endpoint := "forecast/series"
	if params.Species.Nowcast {
		endpoint = "nowcasting/series"
	}

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(params.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(params.Lon, 'f', -1, 64))
	query.Set("pollen", params.Species.APIKey)
	query.Set("date", params.Date)
	query.Set("hour", strconv.Itoa(params.Hour))
	if params.Species.Nowcast && params.NHours > 0 {
		query.Set("nhours", strconv.Itoa(params.NHours))
	}

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, query.Encode())

	var resp seriesResponse
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, err
	}

	points := make([]models.SeriesPoint, 0, len(resp.Data))
	for key, raw := range resp.Data {
		hour, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		points = append(points, models.SeriesPoint{Hour: hour, Value: decodeSeriesValue(raw)})
	}
	sortSeries(points)
	return points, nil
}

// Latitudes fetches the fixed latitude axis for the deployment region.
func (c *Client) Latitudes(ctx context.Context) ([]float64, error) {
	return c.getAxis(ctx, "latitudes")
}

// Longitudes fetches the fixed longitude axis for the deployment region.
func (c *Client) Longitudes(ctx context.Context) ([]float64, error) {
	return c.getAxis(ctx, "longitudes")
}

func (c *Client) getAxis(ctx context.Context, name string) ([]float64, error) {
	var axis []float64
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s", c.baseURL, name), &axis); err != nil {
		return nil, err
	}
	return axis, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
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

// decodeSeriesValue parses one series entry, which is either a number or a
// sentinel string such as "NA".
func decodeSeriesValue(raw json.RawMessage) *float64 {
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return &num
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if parsed, err := strconv.ParseFloat(str, 64); err == nil {
			return &parsed
		}
	}
	return nil
}

// sortSeries normalizes to ascending hours: the API may answer
// oldest-to-newest or newest-to-oldest.
func sortSeries(points []models.SeriesPoint) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Hour < points[j].Hour
	})
}

// Package fred implements the rate provider against the FRED
// (Federal Reserve Economic Data) HTTP API.
//
// FRED requires an API key, read from the FRED_API_KEY environment
// variable or passed explicitly. Observations come back in percent
// points exactly as published (4.35 means 4.35%); callers convert to
// decimals where needed.
package fred

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/polyfair/internal/domain"
)

const (
	defaultBaseURL = "https://api.stlouisfed.org/fred"

	// FRED allows 120 req/min; we stay well under it.
	requestsPerSec = 2

	// Daily series publish "." on non-trading days, so the newest row
	// is often empty. Fetching a few lets us return the latest real value.
	latestWindow = 5

	missingValue = "."
)

// ErrMissingAPIKey is returned by New when no API key is available.
var ErrMissingAPIKey = errors.New("FRED API key not provided: set FRED_API_KEY or pass it explicitly")

// Client is the FRED HTTP API client.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
}

// New creates a Client. An empty apiKey falls back to the FRED_API_KEY
// environment variable; an empty baseURL uses the production API.
func New(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("FRED_API_KEY")
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(requestsPerSec, 5),
	}, nil
}

// LatestObservation returns the most recent observation of the series
// that carries a value, skipping rows FRED marks as missing.
func (c *Client) LatestObservation(ctx context.Context, seriesID string) (domain.RateObservation, error) {
	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("sort_order", "desc")
	params.Set("limit", strconv.Itoa(latestWindow))

	var resp observationsResponse
	if err := c.get(ctx, "/series/observations", params, &resp); err != nil {
		return domain.RateObservation{}, fmt.Errorf("fred.LatestObservation %s: %w", seriesID, err)
	}

	if len(resp.Observations) == 0 {
		return domain.RateObservation{}, fmt.Errorf("no observations found for series %s", seriesID)
	}

	for _, obs := range resp.Observations {
		if obs.Value == missingValue || obs.Value == "" {
			continue
		}
		value, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			return domain.RateObservation{}, fmt.Errorf("invalid value %q for series %s", obs.Value, seriesID)
		}
		date, err := time.Parse("2006-01-02", obs.Date)
		if err != nil {
			return domain.RateObservation{}, fmt.Errorf("invalid date %q for series %s", obs.Date, seriesID)
		}
		return domain.RateObservation{
			SeriesID: seriesID,
			Date:     date,
			Value:    value,
		}, nil
	}

	return domain.RateObservation{}, fmt.Errorf("latest observations for series %s are all missing", seriesID)
}

// SeriesInfo returns the metadata of a series.
func (c *Client) SeriesInfo(ctx context.Context, seriesID string) (domain.RateSeries, error) {
	params := url.Values{}
	params.Set("series_id", seriesID)

	var resp seriesResponse
	if err := c.get(ctx, "/series", params, &resp); err != nil {
		return domain.RateSeries{}, fmt.Errorf("fred.SeriesInfo %s: %w", seriesID, err)
	}
	if len(resp.Seriess) == 0 {
		return domain.RateSeries{}, fmt.Errorf("series %s not found", seriesID)
	}
	return mapSeries(resp.Seriess[0]), nil
}

// SearchSeries searches series by free text, most popular first.
func (c *Client) SearchSeries(ctx context.Context, query string, limit int) ([]domain.RateSeries, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("search_text", query)
	params.Set("order_by", "popularity")
	params.Set("sort_order", "desc")
	params.Set("limit", strconv.Itoa(limit))

	var resp seriesResponse
	if err := c.get(ctx, "/series/search", params, &resp); err != nil {
		return nil, fmt.Errorf("fred.SearchSeries %q: %w", query, err)
	}

	series := make([]domain.RateSeries, 0, len(resp.Seriess))
	for _, s := range resp.Seriess {
		series = append(series, mapSeries(s))
	}
	return series, nil
}

// get performs a GET against the FRED API with the key and JSON format
// appended to the query.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// FRED answers 400 for unknown series ids
	if resp.StatusCode == http.StatusBadRequest {
		return errors.New("invalid series id or request")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapSeries(s fredSeries) domain.RateSeries {
	return domain.RateSeries{
		ID:          s.ID,
		Title:       s.Title,
		Frequency:   s.Frequency,
		Units:       s.Units,
		LastUpdated: s.LastUpdated,
		Popularity:  s.Popularity,
	}
}

// --- DTOs ---

type observationsResponse struct {
	Observations []fredObservation `json:"observations"`
}

type fredObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// seriesResponse covers /series and /series/search; the field really is
// spelled "seriess" in the FRED API.
type seriesResponse struct {
	Seriess []fredSeries `json:"seriess"`
}

type fredSeries struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Frequency   string `json:"frequency"`
	Units       string `json:"units"`
	LastUpdated string `json:"last_updated"`
	Popularity  int    `json:"popularity"`
}

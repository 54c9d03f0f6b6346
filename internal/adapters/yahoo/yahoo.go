// Package yahoo implements the market data provider against the public
// Yahoo Finance endpoints: v8 chart for spot prices and v7 options for
// expiries, chains and the underlying quote.
//
// Yahoo rejects requests without a browser-like User-Agent, so the
// client always sends one.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"

	chartPath   = "/v8/finance/chart/"
	optionsPath = "/v7/finance/options/"

	// Unofficial API without published limits; keep a conservative pace.
	requestsPerSec = 5

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Client is the Yahoo Finance HTTP client.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter
}

// New creates a Client. An empty baseURL uses the production endpoint.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		limiter: rate.NewLimiter(requestsPerSec, 10),
	}
}

// Spot returns the latest price of the ticker, falling back to the
// previous close when the live price is unavailable.
func (c *Client) Spot(ctx context.Context, ticker string) (float64, error) {
	var resp chartResponse
	if err := c.get(ctx, c.baseURL+chartPath+url.PathEscape(ticker), &resp); err != nil {
		return 0, fmt.Errorf("yahoo.Spot %s: %w", ticker, err)
	}

	if resp.Chart.Error != nil {
		return 0, fmt.Errorf("yahoo.Spot %s: %s", ticker, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return 0, fmt.Errorf("no price data available for ticker %s", ticker)
	}

	meta := resp.Chart.Result[0].Meta
	price := meta.RegularMarketPrice
	if price == 0 {
		price = meta.PreviousClose
	}
	if price == 0 {
		price = meta.ChartPreviousClose
	}
	if price <= 0 {
		return 0, fmt.Errorf("invalid spot price %g for ticker %s", price, ticker)
	}
	return price, nil
}

// DividendYield returns the trailing annual dividend yield in decimal
// form. Best effort: ok=false when the ticker pays no dividend or the
// quote does not publish one (crypto, indices), and errors other than
// context cancellation are swallowed.
func (c *Client) DividendYield(ctx context.Context, ticker string) (float64, bool, error) {
	result, err := c.fetchOptions(ctx, ticker, time.Time{})
	if err != nil {
		if ctx.Err() != nil {
			return 0, false, ctx.Err()
		}
		return 0, false, nil
	}

	q := result.Quote
	if q.TrailingAnnualDividendYield > 0 {
		return q.TrailingAnnualDividendYield, true, nil
	}
	if q.TrailingAnnualDividendRate > 0 && q.RegularMarketPrice > 0 {
		return q.TrailingAnnualDividendRate / q.RegularMarketPrice, true, nil
	}
	return 0, false, nil
}

// fetchOptions calls the v7 options endpoint, optionally scoped to one
// expiration date, and unwraps the envelope.
func (c *Client) fetchOptions(ctx context.Context, ticker string, expiry time.Time) (optionsResult, error) {
	u := c.baseURL + optionsPath + url.PathEscape(ticker)
	if !expiry.IsZero() {
		u += fmt.Sprintf("?date=%d", expiry.UTC().Unix())
	}

	var resp optionsResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return optionsResult{}, err
	}
	if resp.OptionChain.Error != nil {
		return optionsResult{}, fmt.Errorf("%s", resp.OptionChain.Error.Description)
	}
	if len(resp.OptionChain.Result) == 0 {
		return optionsResult{}, fmt.Errorf("no options data for ticker %s", ticker)
	}
	return resp.OptionChain.Result[0], nil
}

// get performs a GET with the browser User-Agent and decodes JSON.
func (c *Client) get(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("ticker not found")
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

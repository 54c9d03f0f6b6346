package yahoo

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/alejandrodnm/polyfair/internal/domain"
)

// placeholderIV marks contracts Yahoo ships without a computed IV;
// anything at or below it is treated as missing.
const placeholderIV = 1e-4

// OptionExpiries returns the listed option expiration dates for the
// ticker, sorted chronologically.
func (c *Client) OptionExpiries(ctx context.Context, ticker string) ([]time.Time, error) {
	result, err := c.fetchOptions(ctx, ticker, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("yahoo.OptionExpiries %s: %w", ticker, err)
	}
	if len(result.ExpirationDates) == 0 {
		return nil, fmt.Errorf("no option expiries available for ticker %s", ticker)
	}

	expiries := make([]time.Time, 0, len(result.ExpirationDates))
	for _, ts := range result.ExpirationDates {
		expiries = append(expiries, time.Unix(ts, 0).UTC())
	}
	sort.Slice(expiries, func(i, j int) bool { return expiries[i].Before(expiries[j]) })

	slog.Debug("option expiries fetched", "ticker", ticker, "count", len(expiries))
	return expiries, nil
}

// OptionChain returns the calls and puts for the given expiry with IVs
// normalized to decimal form and NaN marking missing values. Yahoo
// answers with the nearest chain when the date is not listed, so a
// mismatch is reported as an error instead of silently repricing off
// the wrong expiry.
func (c *Client) OptionChain(ctx context.Context, ticker string, expiry time.Time) (domain.OptionChain, error) {
	result, err := c.fetchOptions(ctx, ticker, expiry)
	if err != nil {
		return domain.OptionChain{}, fmt.Errorf("yahoo.OptionChain %s: %w", ticker, err)
	}
	if len(result.Options) == 0 {
		return domain.OptionChain{}, fmt.Errorf("no option chain for %s at %s", ticker, expiry.Format("2006-01-02"))
	}

	block := result.Options[0]
	got := time.Unix(block.ExpirationDate, 0).UTC()
	if !sameDay(got, expiry.UTC()) {
		return domain.OptionChain{}, fmt.Errorf("expiry %s not available for %s (nearest listed: %s)",
			expiry.Format("2006-01-02"), ticker, got.Format("2006-01-02"))
	}

	calls, ncalls := mapChainRows(block.Calls)
	puts, nputs := mapChainRows(block.Puts)
	if n := ncalls + nputs; n > 0 {
		slog.Debug("normalized percent-form IVs", "ticker", ticker, "rows", n)
	}

	slog.Debug("option chain fetched",
		"ticker", ticker,
		"expiry", got.Format("2006-01-02"),
		"calls", len(calls),
		"puts", len(puts),
	)
	return domain.OptionChain{Expiry: got, Calls: calls, Puts: puts}, nil
}

// mapChainRows converts raw contracts to domain rows sorted by strike.
// Returns the number of rows whose IV came in percent form.
func mapChainRows(raw []optionQuoteRow) ([]domain.ChainRow, int) {
	normalized := 0
	rows := make([]domain.ChainRow, 0, len(raw))
	for _, r := range raw {
		iv := math.NaN()
		if r.ImpliedVolatility != nil {
			v := *r.ImpliedVolatility
			// Values above 1.0 are percent-form (18.25 instead of 0.1825)
			if v > 1.0 {
				v /= 100
				normalized++
			}
			if v > placeholderIV {
				iv = v
			}
		}
		rows = append(rows, domain.ChainRow{
			Strike:       r.Strike,
			IV:           iv,
			Bid:          r.Bid,
			Ask:          r.Ask,
			Last:         r.LastPrice,
			Volume:       r.Volume,
			OpenInterest: r.OpenInterest,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Strike < rows[j].Strike })
	return rows, normalized
}

// sameDay compara solo la fecha en UTC.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

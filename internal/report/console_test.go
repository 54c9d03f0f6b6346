package report_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alejandrodnm/polyfair/internal/domain"
	"github.com/alejandrodnm/polyfair/internal/report"
)

// --- Markets ---

func TestConsoleMarkets(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf)

	c.Markets([]domain.Market{
		{
			ID:       "0xabc",
			Question: "Will BTC hit 150k?",
			EndDate:  time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:       "0xdef",
			Question: strings.Repeat("x", 60),
		},
	})

	out := buf.String()
	assert.Contains(t, out, "0xabc")
	assert.Contains(t, out, "2026-12-31")
	assert.Contains(t, out, "Will BTC hit 150k?")

	// Sin end date se muestra N/A, y los títulos largos se truncan
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, strings.Repeat("x", 37)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 38))

	assert.Contains(t, out, "Showing 2 market(s)")
}

func TestConsoleMarkets_Empty(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf)

	c.Markets(nil)

	assert.Contains(t, buf.String(), "No markets found.")
}

// --- AnalysisSummary ---

func TestConsoleAnalysisSummary(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf)

	res := digitalResult(t)
	res.Advisories = []domain.Advisory{
		{Code: domain.AdvNoDivYield, Message: "no dividend yield published for SPX, assuming 0"},
	}
	c.AnalysisSummary(res)

	out := buf.String()
	assert.Contains(t, out, "Will SPX settle above 110 in September?")
	assert.Contains(t, out, "Settle above $110.00")
	assert.Contains(t, out, "2026-09-15")
	assert.Contains(t, out, "$100.00")
	assert.Contains(t, out, "20.00% (manual)")
	assert.Contains(t, out, "4.00% (flag)")
	assert.Contains(t, out, "$"+report.Price(res.Pricing.PV))
	assert.Contains(t, out, fmt.Sprintf("$%+.4f", res.MispricingAbs))
	assert.Contains(t, out, "Cheap 📉")
	assert.Contains(t, out, "⚠ no_div_yield: no dividend yield published for SPX, assuming 0")
}

func TestConsoleAnalysisSummary_NoAdvisories(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf)

	c.AnalysisSummary(touchResult(t))

	out := buf.String()
	assert.Contains(t, out, "Touch barrier at $120.00")
	assert.Contains(t, out, "Fair ✅")
	assert.NotContains(t, out, "⚠")
}

// --- Rates ---

func TestConsoleRateObservation(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf)

	c.RateObservation(domain.RateObservation{
		SeriesID: "DGS3MO",
		Date:     time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Value:    4.26,
	})

	out := buf.String()
	assert.Contains(t, out, "Series:      DGS3MO")
	assert.Contains(t, out, "Latest Rate: 4.26% (0.0426 as decimal)")
	assert.Contains(t, out, "As Of:       2026-08-20")
}

func TestConsoleRateSeries(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf)

	c.RateSeries([]domain.RateSeries{
		{
			ID:         "DGS10",
			Title:      "Market Yield on U.S. Treasury Securities at 10-Year Constant Maturity",
			Frequency:  "Daily",
			Units:      "Percent",
			Popularity: 99,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "DGS10")
	assert.Contains(t, out, "Market Yield on U.S. Treasury Securit...")
	assert.Contains(t, out, "Daily")
	assert.Contains(t, out, "Percent")
	assert.Contains(t, out, "99")
	assert.Contains(t, out, "Showing 1 series")
}

func TestConsoleRateSeries_Empty(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf)

	c.RateSeries(nil)

	assert.Contains(t, buf.String(), "No series found.")
}

// --- History ---

func TestConsoleHistory(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf)

	res := digitalResult(t)
	c.History([]domain.AnalysisResult{res})

	out := buf.String()
	assert.Contains(t, out, "2026-08-25 14:30")
	assert.Contains(t, out, "Will SPX settle above 110 in ...")
	assert.Contains(t, out, "above")
	assert.Contains(t, out, "110.00")
	assert.Contains(t, out, "0.1500")
	assert.Contains(t, out, "Cheap")
	assert.Contains(t, out, "Showing 1 run(s)")
}

func TestConsoleHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf)

	c.History(nil)

	assert.Contains(t, buf.String(), "No analyses recorded.")
}

func TestConsolePruneSummary(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf)

	c.PruneSummary(3, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))

	assert.Contains(t, buf.String(), "Pruned 3 analysis run(s) older than 2026-05-01")
}

package report_test

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/polyfair/internal/domain"
	"github.com/alejandrodnm/polyfair/internal/pricing"
	"github.com/alejandrodnm/polyfair/internal/report"
)

// digitalResult arma un análisis digital determinista: spot 100,
// strike 110, 3 meses, r=4%, σ=20%. Con yes=0.15 el mercado cotiza
// claramente por debajo del PV (~0.18) y el veredicto es Cheap.
func digitalResult(t *testing.T) domain.AnalysisResult {
	t.Helper()

	pr, err := pricing.DigitalWithSensitivity(100, 110, 0.25, 0.04, 0, 0.20, domain.EventAbove, nil)
	require.NoError(t, err)

	yes := 0.15
	abs, pct := pricing.Mispricing(yes, pr.PV)

	return domain.AnalysisResult{
		RunID: "run-digital",
		Request: domain.AnalysisRequest{
			MarketID:  "0xabc",
			Ticker:    "SPX",
			EventType: domain.EventAbove,
			Level:     110,
			Outcome:   "Yes",
		},
		Market: domain.Market{
			ID:       "0xabc",
			Question: "Will SPX settle above 110 in September?",
		},
		Spot:          100,
		Rate:          0.04,
		RateSource:    "flag",
		DivYield:      0,
		IV:            0.20,
		IVSource:      "manual",
		Expiry:        time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		TTE:           0.25,
		Pricing:       pr,
		YesPrice:      yes,
		NoPrice:       0.85,
		Verdict:       pricing.ComputeVerdict(yes, pr.PV, pricing.DefaultAbsTol, pricing.DefaultPctTol),
		MispricingAbs: abs,
		MispricingPct: pct,
		CreatedAt:     time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC),
	}
}

// touchResult arma un análisis touch determinista: spot 100, barrera
// superior 120, 6 meses, r=2%, σ=30%. El precio de mercado se fija en
// el PV exacto para que el veredicto sea Fair.
func touchResult(t *testing.T) domain.AnalysisResult {
	t.Helper()

	pr, err := pricing.TouchWithSensitivity(100, 120, 0.5, 0.02, 0, 0.30, nil)
	require.NoError(t, err)
	require.Nil(t, pr.D2)

	yes := pr.PV
	abs, pct := pricing.Mispricing(yes, pr.PV)

	return domain.AnalysisResult{
		RunID: "run-touch",
		Request: domain.AnalysisRequest{
			MarketID:  "0xdef",
			Ticker:    "BTC-USD",
			EventType: domain.EventTouch,
			Level:     120,
			Outcome:   "Yes",
		},
		Market: domain.Market{
			ID:       "0xdef",
			Question: "Will BTC touch 120 before December?",
		},
		Spot:          100,
		Rate:          0.02,
		RateSource:    "DGS3MO",
		DivYield:      0,
		IV:            0.30,
		IVSource:      "term_structure",
		Expiry:        time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		TTE:           0.5,
		Pricing:       pr,
		YesPrice:      yes,
		NoPrice:       1 - yes,
		Verdict:       pricing.ComputeVerdict(yes, pr.PV, pricing.DefaultAbsTol, pricing.DefaultPctTol),
		MispricingAbs: abs,
		MispricingPct: pct,
		CreatedAt:     time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC),
	}
}

// --- estructura general ---

func TestMarkdown_AllSectionsPresent(t *testing.T) {
	res := digitalResult(t)
	md := report.Markdown(res)

	assert.Contains(t, md, "# Polymarket Analysis Report")
	assert.Contains(t, md, "**Market:** Will SPX settle above 110 in September?")
	assert.Contains(t, md, "**Market ID:** 0xabc")
	assert.Contains(t, md, "**Analysis Date:** 2026-08-25")

	for _, header := range []string{
		"## A. Analysis Inputs",
		"## B. Model Selection",
		"## C. Mathematical Derivation",
		"## D. Polymarket vs Fair Value Comparison",
		"## E. Professional Conclusion",
		"## F. Explanation for Non-Experts",
		"## G. One-Sentence Takeaway",
	} {
		assert.Contains(t, md, header)
	}

	// Mismo resultado, mismo informe
	assert.Equal(t, md, report.Markdown(res))
}

func TestMarkdown_InputsTable(t *testing.T) {
	md := report.Markdown(digitalResult(t))

	assert.Contains(t, md, "| **Underlying Ticker** | SPX |")
	assert.Contains(t, md, "| **Spot Price (S₀)** | $100.00 |")
	assert.Contains(t, md, "| **Event Type** | Settle above $110.00 |")
	assert.Contains(t, md, "| **Strike/Barrier Level (K/B)** | $110.00 |")
	assert.Contains(t, md, "| **Expiry Date** | 2026-09-15 |")
	assert.Contains(t, md, "| **Time to Expiry (T)** | 0.2500 years |")
	assert.Contains(t, md, "| **Risk-Free Rate (r)** | 4.00% |")
	assert.Contains(t, md, "| **Dividend Yield (q)** | 0.00% |")
	assert.Contains(t, md, "| **Implied Volatility (σ)** | 20.00% |")
	assert.Contains(t, md, "| **Polymarket Yes Price** | $0.1500 |")
	assert.Contains(t, md, "| **Polymarket No Price** | $0.8500 |")

	assert.Contains(t, md, "- Implied Volatility: manual")
	assert.Contains(t, md, "- Risk-Free Rate: flag")
	assert.NotContains(t, md, "**Data Advisories:**")
}

// --- derivación digital ---

func TestMarkdown_DigitalDerivation(t *testing.T) {
	res := digitalResult(t)
	md := report.Markdown(res)

	assert.Contains(t, md, "**Selected Model:** Digital Call Option (Cash-or-Nothing)")
	assert.Contains(t, md, "### Black-Scholes Digital Option Framework")

	// Drift: μ = 0.04 - 0 - 0.5·0.2² = 0.02
	assert.Contains(t, md, "= 0.040000 - 0.000000 - 0.5 × 0.200000²")
	assert.Contains(t, md, "= 0.020000")

	// d₂ = [ln(100/110) + 0.02·0.25] / (0.2·√0.25) = -0.903102
	assert.Contains(t, md, "= [ln(100.00/110.00) + 0.020000 × 0.2500] / (0.200000 × √0.2500)")
	assert.Contains(t, md, "= [-0.095310 + 0.005000] / 0.100000")
	assert.Contains(t, md, "= -0.903102")

	assert.Contains(t, md, "P(S_T >= K) = N(d₂)")
	assert.Contains(t, md, fmt.Sprintf("= %.6f", res.Pricing.Probability))
	assert.Contains(t, md, "where N(·) is the standard normal cumulative distribution function.")

	assert.Contains(t, md, "PV = e^(-rT) × P(event)")
	assert.Contains(t, md, "= e^(-0.040000 × 0.2500)")
	assert.Contains(t, md, fmt.Sprintf("= %.6f", res.Pricing.PV))
}

func TestMarkdown_SensitivityTable(t *testing.T) {
	md := report.Markdown(digitalResult(t))

	assert.Contains(t, md, "### Sensitivity Analysis")
	assert.Contains(t, md, "| Volatility Shift | Probability | Present Value |")
	assert.Contains(t, md, "σ -0.03")
	assert.Contains(t, md, "σ -0.02")
	assert.Contains(t, md, "σ +0.02")
	assert.Contains(t, md, "σ +0.03")
}

func TestMarkdown_EmptySensitivity(t *testing.T) {
	res := digitalResult(t)
	res.Pricing.Sensitivity = nil
	md := report.Markdown(res)

	assert.Contains(t, md, "*Sensitivity analysis not available.*")
	assert.NotContains(t, md, "| Volatility Shift |")
}

// --- comparación y veredicto ---

func TestMarkdown_ComparisonCheapVerdict(t *testing.T) {
	res := digitalResult(t)
	md := report.Markdown(res)

	assert.Contains(t, md, fmt.Sprintf("| **Model Fair Value (PV)** | $%.6f |", res.Pricing.PV))
	assert.Contains(t, md, "| **Polymarket Yes Price** | $0.150000 |")
	assert.Contains(t, md, fmt.Sprintf("| **Absolute Mispricing** | $%+.6f |", res.MispricingAbs))
	assert.Contains(t, md, "| **Verdict** | **Cheap** 📉 |")

	assert.Contains(t, md, "trading **below** its model fair value")
	assert.Contains(t, md, "(absolute: $0.01, percentage: 5.0%)")
	assert.Contains(t, md, "suggesting a potential buying opportunity")
	assert.Contains(t, md, "is undervalued compared to the model fair value")
}

func TestMarkdown_CustomTolerancesInInterpretation(t *testing.T) {
	res := digitalResult(t)
	res.Request.AbsTol = 0.02
	res.Request.PctTol = 0.10
	md := report.Markdown(res)

	assert.Contains(t, md, "(absolute: $0.02, percentage: 10.0%)")
}

func TestMarkdown_NaNPercentRendersNA(t *testing.T) {
	res := digitalResult(t)
	res.MispricingPct = math.NaN()
	md := report.Markdown(res)

	assert.Contains(t, md, "| **Percentage Mispricing** | n/a |")
}

// --- evento below ---

func TestMarkdown_BelowEvent(t *testing.T) {
	pr, err := pricing.DigitalWithSensitivity(100, 90, 0.25, 0.04, 0, 0.20, domain.EventBelow, nil)
	require.NoError(t, err)

	res := digitalResult(t)
	res.Request.EventType = domain.EventBelow
	res.Request.Level = 90
	res.Pricing = pr
	md := report.Markdown(res)

	assert.Contains(t, md, "**Selected Model:** Digital Put Option (Cash-or-Nothing)")
	assert.Contains(t, md, "| **Event Type** | Settle below $90.00 |")
	assert.Contains(t, md, "P(S_T <= K) = N(-d₂)")
	assert.Contains(t, md, "below the strike level at expiry")
}

// --- derivación touch ---

func TestMarkdown_TouchDerivation(t *testing.T) {
	res := touchResult(t)
	md := report.Markdown(res)

	assert.Contains(t, md, "**Selected Model:** One-Touch Barrier Option (First Passage)")
	assert.Contains(t, md, "### Touch Barrier Option Framework")
	assert.Contains(t, md, "pays $1 if the price touches B = $120.00 before expiry")
	assert.Contains(t, md, "(upper barrier)")

	// a = ln(120/100) = 0.182322
	assert.Contains(t, md, "= ln(120.00/100.00)")
	assert.Contains(t, md, "= 0.182322")

	// λ = -0.025 / 0.09 = -0.277778
	assert.Contains(t, md, "λ = μ / σ² = -0.025000 / 0.300000² = -0.277778")
	assert.Contains(t, md, "P(hit) = N(-[a - μT] / [σ√T]) + e^(2λa) × N(-[a + μT] / [σ√T])")
	assert.Contains(t, md, "Term 1: N(-[0.182322 - -0.012500] / 0.212132)")

	// Sin d₂ en el modelo de barrera
	assert.NotContains(t, md, "Standardized Log-Return")
}

func TestMarkdown_TouchFairVerdict(t *testing.T) {
	md := report.Markdown(touchResult(t))

	assert.Contains(t, md, "| **Verdict** | **Fair** ✅ |")
	assert.Contains(t, md, "| **Percentage Mispricing** | 0.00% |")
	assert.Contains(t, md, "trading **within tolerance** of its model fair value")
	assert.Contains(t, md, "indicating efficient market pricing")
	assert.Contains(t, md, "is fairly valued compared to the model fair value")
	assert.Contains(t, md, "the price of BTC-USD reaches $120.00 at any point")
}

// --- misc ---

func TestMarkdown_LaymanExpiryFormat(t *testing.T) {
	md := report.Markdown(digitalResult(t))
	assert.Contains(t, md, "SPX is above $110.00 on September 15, 2026")
}

func TestMarkdown_AdvisoriesListed(t *testing.T) {
	res := digitalResult(t)
	res.Advisories = []domain.Advisory{
		{Code: domain.AdvWindowWidened, Message: "strike window widened to 20%"},
		{Code: domain.AdvStaleRate, Message: "latest DGS3MO observation is 30 days old"},
	}
	md := report.Markdown(res)

	assert.Contains(t, md, "**Data Advisories:**")
	assert.Contains(t, md, "- window_widened: strike window widened to 20%")
	assert.Contains(t, md, "- stale_rate: latest DGS3MO observation is 30 days old")
}

func TestMarkdown_MissingTickerShowsNA(t *testing.T) {
	res := digitalResult(t)
	res.Request.Ticker = ""
	md := report.Markdown(res)

	assert.Contains(t, md, "| **Underlying Ticker** | n/a |")
}

package report

// markdown.go — informe A–G en markdown.
//
// Secciones: (A) inputs, (B) selección de modelo, (C) derivación con
// los números intermedios reales, (D) comparación contra Polymarket,
// (E) conclusión profesional, (F) explicación para no expertos,
// (G) takeaway de una línea. La salida es determinista para un
// resultado dado: mismas entradas, mismo informe.

import (
	"fmt"
	"math"
	"strings"

	"github.com/alejandrodnm/polyfair/internal/domain"
	"github.com/alejandrodnm/polyfair/internal/num"
	"github.com/alejandrodnm/polyfair/internal/pricing"
)

const fence = "```"

// Markdown renderiza el informe completo de un análisis.
func Markdown(res domain.AnalysisResult) string {
	sections := []string{
		renderHeader(res),
		sectionInputs(res),
		sectionModel(res),
		sectionDerivation(res),
		sectionComparison(res),
		sectionConclusion(res),
		sectionLayman(res),
		sectionTakeaway(res),
	}
	return strings.Join(sections, "\n\n")
}

func renderHeader(res domain.AnalysisResult) string {
	return fmt.Sprintf(`# Polymarket Analysis Report

**Market:** %s

**Market ID:** %s

**Analysis Date:** %s`,
		res.Market.Question, res.Market.ID, res.CreatedAt.Format("2006-01-02"))
}

// eventDesc describe el evento para la tabla de inputs.
func eventDesc(res domain.AnalysisResult) string {
	level := Dollar(res.Request.Level, 2)
	switch res.Request.EventType {
	case domain.EventTouch:
		return "Touch barrier at " + level
	case domain.EventAbove:
		return "Settle above " + level
	default:
		return "Settle below " + level
	}
}

func sectionInputs(res domain.AnalysisResult) string {
	ticker := res.Request.Ticker
	if ticker == "" {
		ticker = "n/a"
	}

	var sb strings.Builder
	sb.WriteString("## A. Analysis Inputs\n\n")
	sb.WriteString("| Parameter | Value |\n|-----------|-------|\n")
	fmt.Fprintf(&sb, "| **Underlying Ticker** | %s |\n", ticker)
	fmt.Fprintf(&sb, "| **Spot Price (S₀)** | %s |\n", Dollar(res.Spot, 2))
	fmt.Fprintf(&sb, "| **Event Type** | %s |\n", eventDesc(res))
	fmt.Fprintf(&sb, "| **Strike/Barrier Level (K/B)** | %s |\n", Dollar(res.Request.Level, 2))
	fmt.Fprintf(&sb, "| **Expiry Date** | %s |\n", res.Expiry.Format("2006-01-02"))
	fmt.Fprintf(&sb, "| **Time to Expiry (T)** | %.4f years |\n", res.TTE)
	fmt.Fprintf(&sb, "| **Risk-Free Rate (r)** | %s |\n", Percent(res.Rate, 2, false))
	fmt.Fprintf(&sb, "| **Dividend Yield (q)** | %s |\n", Percent(res.DivYield, 2, false))
	fmt.Fprintf(&sb, "| **Implied Volatility (σ)** | %s |\n", Percent(res.IV, 2, false))
	fmt.Fprintf(&sb, "| **Polymarket Yes Price** | $%s |\n", Price(res.YesPrice))
	fmt.Fprintf(&sb, "| **Polymarket No Price** | $%s |\n", Price(res.NoPrice))

	sb.WriteString("\n**Data Sources:**\n")
	fmt.Fprintf(&sb, "- Implied Volatility: %s\n", res.IVSource)
	fmt.Fprintf(&sb, "- Risk-Free Rate: %s", res.RateSource)

	if len(res.Advisories) > 0 {
		sb.WriteString("\n\n**Data Advisories:**\n")
		for i, adv := range res.Advisories {
			fmt.Fprintf(&sb, "- %s", adv.String())
			if i < len(res.Advisories)-1 {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

func modelName(event domain.EventType) string {
	switch event {
	case domain.EventTouch:
		return "One-Touch Barrier Option (First Passage)"
	case domain.EventAbove:
		return "Digital Call Option (Cash-or-Nothing)"
	default:
		return "Digital Put Option (Cash-or-Nothing)"
	}
}

func sectionModel(res domain.AnalysisResult) string {
	return fmt.Sprintf(`## B. Model Selection

**Selected Model:** %s

**Rationale:**

%s`, modelName(res.Request.EventType), modelRationale(res.Request.EventType))
}

func modelRationale(event domain.EventType) string {
	switch event {
	case domain.EventTouch:
		return `A touch barrier option is appropriate for this event because the payout occurs if the underlying asset reaches or crosses the barrier level at any point before expiry. This is a path-dependent option that requires monitoring the entire price trajectory, not just the terminal value.

We use the geometric Brownian motion (GBM) first-passage probability formula with the reflection principle to compute the probability that the barrier is hit before expiry. The risk-neutral drift μ = r - q - 0.5σ² accounts for the risk-free rate, dividend yield, and volatility drag.`

	case domain.EventAbove:
		return `A digital call option (cash-or-nothing) is appropriate for this event because the payout depends solely on whether the underlying asset is above the strike level at expiry. This is a terminal-settle option that only depends on the final price, not the path taken.

We use the Black-Scholes framework to compute the risk-neutral probability that S_T > K at expiry. The standard d₂ parameter captures the adjusted log-return distribution under the risk-neutral measure.`

	default:
		return `A digital put option (cash-or-nothing) is appropriate for this event because the payout depends solely on whether the underlying asset is below the strike level at expiry. This is a terminal-settle option that only depends on the final price, not the path taken.

We use the Black-Scholes framework to compute the risk-neutral probability that S_T < K at expiry. The standard d₂ parameter captures the adjusted log-return distribution under the risk-neutral measure.`
	}
}

func sectionDerivation(res domain.AnalysisResult) string {
	if res.Request.EventType == domain.EventTouch {
		return touchDerivation(res)
	}
	return digitalDerivation(res)
}

func digitalDerivation(res domain.AnalysisResult) string {
	s0, k := res.Spot, res.Request.Level
	t, r, q := res.TTE, res.Rate, res.DivYield
	sigma := res.IV
	drift := res.Pricing.Drift
	prob, pv := res.Pricing.Probability, res.Pricing.PV

	var d2 float64
	if res.Pricing.D2 != nil {
		d2 = *res.Pricing.D2
	}

	logMoneyness := num.SafeLog(s0 / k)
	varianceTerm := sigma * math.Sqrt(t)
	discount := 0.0
	if prob > 0 {
		discount = pv / prob
	}

	cmp, sign, nd2Arg := ">=", "", d2
	if res.Request.EventType == domain.EventBelow {
		cmp, sign, nd2Arg = "<=", "-", -d2
	}

	var sb strings.Builder
	sb.WriteString("## C. Mathematical Derivation\n\n")
	sb.WriteString("### Black-Scholes Digital Option Framework\n\n")
	fmt.Fprintf(&sb, "For a digital option that pays $1 if S_T %s K at expiry:\n\n", cmp)

	sb.WriteString("**1. Risk-Neutral Drift:**\n\nThe risk-neutral drift accounts for the cost of carry:\n\n")
	fmt.Fprintf(&sb, "%s\nμ = r - q - 0.5σ²\n  = %.6f - %.6f - 0.5 × %.6f²\n  = %.6f\n%s\n\n",
		fence, r, q, sigma, drift, fence)

	sb.WriteString("**2. Standardized Log-Return (d₂):**\n\nThe d₂ parameter measures how many standard deviations the forward price is from the strike:\n\n")
	fmt.Fprintf(&sb, "%s\nd₂ = [ln(S₀/K) + μT] / (σ√T)\n   = [ln(%.2f/%.2f) + %.6f × %.4f] / (%.6f × √%.4f)\n   = [%.6f + %.6f] / %.6f\n   = %.6f\n%s\n\n",
		fence, s0, k, drift, t, sigma, t, logMoneyness, drift*t, varianceTerm, d2, fence)

	sb.WriteString("**3. Risk-Neutral Probability:**\n\n")
	fmt.Fprintf(&sb, "The probability that S_T %s K is:\n\n", cmp)
	fmt.Fprintf(&sb, "%s\nP(S_T %s K) = N(%sd₂)\n            = N(%.6f)\n            = %.6f\n%s\n\n",
		fence, cmp, sign, nd2Arg, prob, fence)
	sb.WriteString("where N(·) is the standard normal cumulative distribution function.\n\n")

	sb.WriteString("**4. Present Value:**\n\nThe fair value is the discounted expected payout:\n\n")
	fmt.Fprintf(&sb, "%s\nPV = e^(-rT) × P(event)\n   = e^(-%.6f × %.4f) × %.6f\n   = %.6f × %.6f\n   = %.6f\n%s\n\n",
		fence, r, t, prob, discount, prob, pv, fence)

	sb.WriteString("### Sensitivity Analysis\n\nThe fair value varies with implied volatility:\n\n")
	sb.WriteString(sensitivityTable(res.Pricing.Sensitivity))
	return sb.String()
}

func touchDerivation(res domain.AnalysisResult) string {
	s0, b := res.Spot, res.Request.Level
	t, r, q := res.TTE, res.Rate, res.DivYield
	sigma := res.IV
	drift := res.Pricing.Drift
	prob, pv := res.Pricing.Probability, res.Pricing.PV

	a := num.SafeLog(b / s0)
	lambda := drift / (sigma * sigma)
	varianceTerm := sigma * math.Sqrt(t)
	discount := 0.0
	if prob > 0 {
		discount = pv / prob
	}

	side := "upper"
	if b < s0 {
		side = "lower"
	}

	var sb strings.Builder
	sb.WriteString("## C. Mathematical Derivation\n\n")
	sb.WriteString("### Touch Barrier Option Framework\n\n")
	fmt.Fprintf(&sb, "For a barrier option that pays $1 if the price touches B = %s before expiry:\n\n", Dollar(b, 2))

	sb.WriteString("**1. Risk-Neutral Drift:**\n\nThe risk-neutral drift for geometric Brownian motion:\n\n")
	fmt.Fprintf(&sb, "%s\nμ = r - q - 0.5σ²\n  = %.6f - %.6f - 0.5 × %.6f²\n  = %.6f\n%s\n\n",
		fence, r, q, sigma, drift, fence)

	sb.WriteString("**2. Log-Distance to Barrier:**\n\n")
	fmt.Fprintf(&sb, "The log-distance from spot to barrier (%s barrier):\n\n", side)
	fmt.Fprintf(&sb, "%s\na = ln(B/S₀)\n  = ln(%.2f/%.2f)\n  = %.6f\n%s\n\n", fence, b, s0, a, fence)

	sb.WriteString("**3. First-Passage Probability:**\n\nUsing the reflection principle for drifted Brownian motion, the probability of hitting the barrier is:\n\n")
	fmt.Fprintf(&sb, "%s\nλ = μ / σ² = %.6f / %.6f² = %.6f\n\nP(hit) = N(-[a - μT] / [σ√T]) + e^(2λa) × N(-[a + μT] / [σ√T])\n%s\n\n",
		fence, drift, sigma, lambda, fence)
	sb.WriteString("Computing each term:\n")
	fmt.Fprintf(&sb, "%s\nTerm 1: N(-[%.6f - %.6f] / %.6f) = N(%.6f)\nTerm 2: e^(2 × %.6f × %.6f) × N(-[%.6f + %.6f] / %.6f)\n\nP(hit) = %.6f\n%s\n\n",
		fence, a, drift*t, varianceTerm, -(a-drift*t)/varianceTerm,
		lambda, a, a, drift*t, varianceTerm, prob, fence)

	sb.WriteString("**4. Present Value:**\n\nThe fair value is the discounted expected payout:\n\n")
	fmt.Fprintf(&sb, "%s\nPV = e^(-rT) × P(hit)\n   = e^(-%.6f × %.4f) × %.6f\n   = %.6f × %.6f\n   = %.6f\n%s\n\n",
		fence, r, t, prob, discount, prob, pv, fence)

	sb.WriteString("### Sensitivity Analysis\n\nThe fair value varies with implied volatility:\n\n")
	sb.WriteString(sensitivityTable(res.Pricing.Sensitivity))
	return sb.String()
}

func sensitivityTable(rows []domain.SensitivityRow) string {
	if len(rows) == 0 {
		return "*Sensitivity analysis not available.*"
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []string{
			fmt.Sprintf("σ %+.2f", row.Shift),
			fmt.Sprintf("%.6f", row.Probability),
			fmt.Sprintf("%.6f", row.PV),
		})
	}
	return MarkdownTable(
		[]string{"Volatility Shift", "Probability", "Present Value"},
		cells,
		[]Align{AlignLeft, AlignRight, AlignRight},
	)
}

func verdictEmoji(v domain.Verdict) string {
	switch v {
	case domain.VerdictCheap:
		return "📉"
	case domain.VerdictExpensive:
		return "📈"
	default:
		return "✅"
	}
}

// tolerances devuelve las tolerancias efectivas del veredicto.
func tolerances(req domain.AnalysisRequest) (absTol, pctTol float64) {
	absTol, pctTol = req.AbsTol, req.PctTol
	if absTol == 0 {
		absTol = pricing.DefaultAbsTol
	}
	if pctTol == 0 {
		pctTol = pricing.DefaultPctTol
	}
	return absTol, pctTol
}

func sectionComparison(res domain.AnalysisResult) string {
	var sb strings.Builder
	sb.WriteString("## D. Polymarket vs Fair Value Comparison\n\n")
	sb.WriteString("| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(&sb, "| **Model Fair Value (PV)** | $%.6f |\n", res.Pricing.PV)
	fmt.Fprintf(&sb, "| **Polymarket Yes Price** | $%.6f |\n", res.YesPrice)
	fmt.Fprintf(&sb, "| **Absolute Mispricing** | $%+.6f |\n", res.MispricingAbs)
	fmt.Fprintf(&sb, "| **Percentage Mispricing** | %s |\n", Percent(res.MispricingPct, 2, true))
	fmt.Fprintf(&sb, "| **Verdict** | **%s** %s |\n", res.Verdict, verdictEmoji(res.Verdict))

	sb.WriteString("\n### Interpretation\n\n")
	sb.WriteString(verdictExplanation(res))
	return sb.String()
}

func verdictExplanation(res domain.AnalysisResult) string {
	absTol, pctTol := tolerances(res.Request)
	absDiff := math.Abs(res.MispricingAbs)
	pctDiff := Percent(math.Abs(res.MispricingPct), 2, false)
	toleranceLine := fmt.Sprintf("Based on the configured tolerances (absolute: $%.2f, percentage: %.1f%%), the market price is considered **%s** relative to the model fair value.",
		absTol, pctTol*100, res.Verdict)

	switch res.Verdict {
	case domain.VerdictCheap:
		return fmt.Sprintf(`The Polymarket Yes token is trading **below** its model fair value by $%.6f (%s). This suggests the market may be underpricing the event probability relative to the options-implied risk-neutral measure.

%s`, absDiff, pctDiff, toleranceLine)

	case domain.VerdictExpensive:
		return fmt.Sprintf(`The Polymarket Yes token is trading **above** its model fair value by $%.6f (%s). This suggests the market may be overpricing the event probability relative to the options-implied risk-neutral measure.

%s`, absDiff, pctDiff, toleranceLine)

	default:
		return fmt.Sprintf(`The Polymarket Yes token is trading **within tolerance** of its model fair value (difference: $%.6f, %s). The market price and model fair value are reasonably aligned.

%s`, absDiff, pctDiff, toleranceLine)
	}
}

func sectionConclusion(res domain.AnalysisResult) string {
	var event string
	switch res.Request.EventType {
	case domain.EventTouch:
		event = "touches " + Dollar(res.Request.Level, 2)
	case domain.EventAbove:
		event = "settles above " + Dollar(res.Request.Level, 2)
	default:
		event = "settles below " + Dollar(res.Request.Level, 2)
	}

	model := "digital option"
	if res.Request.EventType == domain.EventTouch {
		model = "barrier option"
	}

	var verdictDesc, action string
	switch res.Verdict {
	case domain.VerdictCheap:
		verdictDesc = fmt.Sprintf("undervalued by approximately %s", Percent(math.Abs(res.MispricingPct), 1, false))
		action = "suggesting a potential buying opportunity"
	case domain.VerdictExpensive:
		verdictDesc = fmt.Sprintf("overvalued by approximately %s", Percent(math.Abs(res.MispricingPct), 1, false))
		action = "suggesting caution for buyers"
	default:
		verdictDesc = "fairly priced"
		action = "indicating efficient market pricing"
	}

	return fmt.Sprintf(`## E. Professional Conclusion

Based on %s pricing using %s implied volatility sourced from %s and a %s risk-free rate, the model fair value for the event "%s %s by %s" is $%s. The Polymarket Yes token is currently trading at $%s, indicating the market price is %s relative to the options-implied risk-neutral probability of %s. This analysis uses standard quantitative finance techniques to derive a risk-neutral fair value, %s. However, investors should note that model assumptions (e.g., log-normal returns, constant volatility) may not perfectly capture real-world dynamics, and Polymarket prices may reflect information or risk preferences not captured in the model.`,
		model,
		Percent(res.IV, 1, false),
		res.IVSource,
		Percent(res.Rate, 2, false),
		res.Request.Ticker,
		event,
		res.Expiry.Format("2006-01-02"),
		Price(res.Pricing.PV),
		Price(res.YesPrice),
		verdictDesc,
		Percent(res.Pricing.Probability, 2, false),
		action,
	)
}

func sectionLayman(res domain.AnalysisResult) string {
	var event string
	switch res.Request.EventType {
	case domain.EventTouch:
		event = fmt.Sprintf("the price of %s reaches %s at any point", res.Request.Ticker, Dollar(res.Request.Level, 2))
	case domain.EventAbove:
		event = fmt.Sprintf("%s is above %s on %s", res.Request.Ticker, Dollar(res.Request.Level, 2), res.Expiry.Format("January 02, 2006"))
	default:
		event = fmt.Sprintf("%s is below %s on %s", res.Request.Ticker, Dollar(res.Request.Level, 2), res.Expiry.Format("January 02, 2006"))
	}

	var verdictPlain, implication string
	switch res.Verdict {
	case domain.VerdictCheap:
		verdictPlain = "cheaper than it should be"
		implication = "This might be a good opportunity to buy Yes tokens if you believe the model is correct."
	case domain.VerdictExpensive:
		verdictPlain = "more expensive than it should be"
		implication = "This suggests caution—you might be paying too much for Yes tokens."
	default:
		verdictPlain = "priced about right"
		implication = "The market price is reasonably aligned with what the model thinks it should be."
	}

	return fmt.Sprintf(`## F. Explanation for Non-Experts

This analysis looks at a Polymarket prediction market and tries to figure out if the current price makes sense compared to what options traders in the traditional financial markets are implicitly betting.

**What's the bet?** The Polymarket question is about whether %s.

**What's the current price?** On Polymarket, a Yes token (which pays $1 if the event happens) is trading at $%s. This means the market thinks there's roughly a %s chance the event will occur.

**What does the model say?** By looking at how options traders are pricing similar bets in traditional markets (using something called "implied volatility"), we can calculate what the "fair" price should be under certain assumptions. The model says the fair price is $%s, which corresponds to a %s probability.

**What's the difference?** The Polymarket price is currently %s. %s

**Important caveat:** This model makes simplifying assumptions (like assuming prices move in a specific mathematical way) and uses data from traditional options markets. Real-world events might behave differently than the model predicts, and Polymarket traders might have information or perspectives that aren't captured in the model. Always do your own research before making any trading decisions.`,
		event,
		Price(res.YesPrice),
		Percent(res.YesPrice, 1, false),
		Price(res.Pricing.PV),
		Percent(res.Pricing.Probability, 1, false),
		verdictPlain,
		implication,
	)
}

func sectionTakeaway(res domain.AnalysisResult) string {
	var direction string
	switch res.Verdict {
	case domain.VerdictCheap:
		direction = "undervalued"
	case domain.VerdictExpensive:
		direction = "overvalued"
	default:
		direction = "fairly valued"
	}

	return fmt.Sprintf(`## G. One-Sentence Takeaway

**The Polymarket Yes token at $%s is %s compared to the model fair value of $%s (implied probability: %s). %s**`,
		Price(res.YesPrice), direction, Price(res.Pricing.PV),
		Percent(res.Pricing.Probability, 1, false), verdictEmoji(res.Verdict))
}

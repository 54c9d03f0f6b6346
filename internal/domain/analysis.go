package domain

import (
	"fmt"
	"time"
)

// PriceResult es la salida de un pricer (digital o touch).
type PriceResult struct {
	// Probability es la probabilidad risk-neutral del evento, en [0, 1].
	Probability float64
	// PV es el valor presente de un payoff de $1, descontado a la rate.
	PV float64
	// D2 es el d2 de Black-Scholes; nil en resultados touch.
	D2 *float64
	// Drift es r - q - σ²/2. Se informa siempre, incluso en degenerados.
	Drift float64
	// Sensitivity contiene los repricings con σ desplazada,
	// ordenados por shift ascendente.
	Sensitivity []SensitivityRow
}

// SensitivityRow es un repricing con la volatilidad desplazada.
type SensitivityRow struct {
	Shift       float64 // desplazamiento absoluto aplicado a σ
	Probability float64
	PV          float64
}

// AnalysisRequest reúne los inputs de un análisis de mercado.
// Los punteros distinguen "no provisto" (se resuelve vía adapter)
// de un cero explícito.
type AnalysisRequest struct {
	MarketID  string
	Ticker    string
	EventType EventType
	Level     float64
	Expiry    time.Time // override; zero = usar EndDate del mercado
	Outcome   string    // outcome a analizar; "" = Yes

	YesPrice *float64 // overrides de precio de mercado
	NoPrice  *float64
	Spot     *float64
	Rate     *float64 // decimal (0.04 = 4%); nil = resolver vía FREDSeries
	DivYield *float64

	FREDSeries string
	IVMode     IVMode
	ManualIV   *float64

	WindowPct  float64 // 0 = default del extractor
	MinStrikes int     // 0 = default
	AbsTol     float64 // 0 = default del veredicto
	PctTol     float64
}

// Validate falla rápido ante inputs inválidos. No resuelve defaults:
// eso es trabajo del analyzer y de config.
func (r AnalysisRequest) Validate() error {
	if r.MarketID == "" {
		return fmt.Errorf("market id is required")
	}
	if !r.EventType.Valid() {
		return fmt.Errorf("event type must be touch, above or below, got %q", r.EventType)
	}
	if r.Level <= 0 {
		return fmt.Errorf("level must be positive, got %g", r.Level)
	}
	if r.Rate != nil && (*r.Rate < 0 || *r.Rate > 1) {
		return fmt.Errorf("rate must be a decimal in [0, 1], got %g", *r.Rate)
	}
	if r.DivYield != nil && (*r.DivYield < 0 || *r.DivYield > 1) {
		return fmt.Errorf("dividend yield must be a decimal in [0, 1], got %g", *r.DivYield)
	}
	if r.IVMode == IVManual {
		if r.ManualIV == nil {
			return fmt.Errorf("manual iv mode requires an iv value")
		}
		if *r.ManualIV <= 0 {
			return fmt.Errorf("iv must be positive, got %g", *r.ManualIV)
		}
	}
	if r.IVMode == IVAuto && r.Ticker == "" {
		return fmt.Errorf("auto iv mode requires a ticker")
	}
	if r.YesPrice != nil && (*r.YesPrice < 0 || *r.YesPrice > 1) {
		return fmt.Errorf("yes price must be in [0, 1], got %g", *r.YesPrice)
	}
	if r.NoPrice != nil && (*r.NoPrice < 0 || *r.NoPrice > 1) {
		return fmt.Errorf("no price must be in [0, 1], got %g", *r.NoPrice)
	}
	if r.Spot != nil && *r.Spot <= 0 {
		return fmt.Errorf("spot must be positive, got %g", *r.Spot)
	}
	if r.WindowPct < 0 || r.WindowPct >= 1 {
		return fmt.Errorf("iv window must be in [0, 1), got %g", r.WindowPct)
	}
	return nil
}

// AnalysisResult es el resultado completo de un análisis.
type AnalysisResult struct {
	RunID   string // uuid del run
	Request AnalysisRequest
	Market  Market

	// Inputs resueltos.
	Spot       float64
	Rate       float64
	RateSource string // "flag" o el series id de FRED
	DivYield   float64
	IV         float64
	IVSource   string // "manual" o "term_structure"
	Expiry     time.Time
	TTE        float64 // años, ACT/365

	Pricing  PriceResult
	YesPrice float64 // precio de mercado del lado analizado
	NoPrice  float64

	Verdict       Verdict
	MispricingAbs float64
	MispricingPct float64 // NaN si el PV justo es 0

	Advisories []Advisory
	CreatedAt  time.Time
}

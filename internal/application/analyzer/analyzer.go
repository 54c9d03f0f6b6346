// Package analyzer orquesta el pipeline de análisis de un mercado:
// resuelve los inputs desde los adapters (o los overrides del request),
// extrae la volatilidad implícita, valora el contrato y emite el
// veredicto contra el precio de mercado.
//
// El pipeline es síncrono salvo la extracción de IV por vencimiento,
// que hace fan-out con una goroutine por pata del bracket.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/polyfair/internal/domain"
	"github.com/alejandrodnm/polyfair/internal/ports"
	"github.com/alejandrodnm/polyfair/internal/pricing"
	"github.com/alejandrodnm/polyfair/internal/vol"
)

// DefaultStaleRateAfter es la antigüedad de la observación de FRED a
// partir de la cual se emite el advisory stale_rate. Las series diarias
// paran en feriados largos; 10 días ya huele a serie descontinuada.
const DefaultStaleRateAfter = 10 * 24 * time.Hour

// Config contiene la configuración del analyzer.
type Config struct {
	DefaultFREDSeries string        // serie a usar si el request no trae rate ni serie
	StaleRateAfter    time.Duration // 0 = DefaultStaleRateAfter
	SigmaShifts       []float64     // grilla de sensibilidad; nil = default del pricer
}

// Analyzer ejecuta análisis completos contra los ports inyectados.
type Analyzer struct {
	cfg     Config
	markets ports.MarketProvider
	prices  ports.PriceProvider
	data    ports.MarketDataProvider
	rates   ports.RateProvider
	store   ports.AnalysisStore
}

// New crea un Analyzer con todas las dependencias inyectadas.
// rates y store pueden ser nil: sin FRED solo funcionan los requests
// con --rate explícito, y sin store no se persiste el historial.
func New(
	cfg Config,
	markets ports.MarketProvider,
	prices ports.PriceProvider,
	data ports.MarketDataProvider,
	rates ports.RateProvider,
	store ports.AnalysisStore,
) *Analyzer {
	if cfg.StaleRateAfter <= 0 {
		cfg.StaleRateAfter = DefaultStaleRateAfter
	}
	return &Analyzer{
		cfg:     cfg,
		markets: markets,
		prices:  prices,
		data:    data,
		rates:   rates,
		store:   store,
	}
}

// Analyze corre el pipeline completo para un request y devuelve el
// resultado con todos sus advisories acumulados. Los errores de
// persistencia no tumban el análisis: se loggean y se sigue.
func (a *Analyzer) Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("analyzer: %w", err)
	}

	// 1. Mercado y vencimiento efectivo
	market, err := a.markets.GetMarket(ctx, req.MarketID)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("analyzer: resolve market: %w", err)
	}
	expiry := req.Expiry
	if expiry.IsZero() {
		expiry = market.EndDate
	}
	if expiry.IsZero() {
		return domain.AnalysisResult{}, fmt.Errorf("analyzer: market %s has no end date; pass an explicit expiry", market.ID)
	}

	tte, err := vol.YearsToExpiry(expiry, time.Time{})
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("analyzer: %w", err)
	}

	var advisories []domain.Advisory

	// 2. Precios de mercado del contrato
	yesPrice, noPrice, err := a.resolvePrices(ctx, req, market)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("analyzer: resolve market prices: %w", err)
	}

	// 3. Spot y dividend yield del subyacente
	spot, err := a.resolveSpot(ctx, req)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("analyzer: resolve spot: %w", err)
	}
	divYield, advs, err := a.resolveDivYield(ctx, req)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("analyzer: resolve dividend yield: %w", err)
	}
	advisories = append(advisories, advs...)

	// 4. Tasa libre de riesgo
	rate, rateSource, advs, err := a.resolveRate(ctx, req)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("analyzer: resolve rate: %w", err)
	}
	advisories = append(advisories, advs...)

	// 5. Volatilidad implícita
	iv, ivSource, advs, err := a.resolveIV(ctx, req, expiry, spot)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("analyzer: resolve iv: %w", err)
	}
	advisories = append(advisories, advs...)

	// 6. Pricing y sensibilidad
	priced, err := a.price(req.EventType, spot, req.Level, tte, rate, divYield, iv)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("analyzer: price event: %w", err)
	}

	// 7. Veredicto contra el precio del lado analizado
	absTol, pctTol := req.AbsTol, req.PctTol
	if absTol == 0 {
		absTol = pricing.DefaultAbsTol
	}
	if pctTol == 0 {
		pctTol = pricing.DefaultPctTol
	}
	verdict := pricing.ComputeVerdict(yesPrice, priced.PV, absTol, pctTol)
	mispAbs, mispPct := pricing.Mispricing(yesPrice, priced.PV)

	result := domain.AnalysisResult{
		RunID:         uuid.New().String(),
		Request:       req,
		Market:        market,
		Spot:          spot,
		Rate:          rate,
		RateSource:    rateSource,
		DivYield:      divYield,
		IV:            iv,
		IVSource:      ivSource,
		Expiry:        expiry,
		TTE:           tte,
		Pricing:       priced,
		YesPrice:      yesPrice,
		NoPrice:       noPrice,
		Verdict:       verdict,
		MispricingAbs: mispAbs,
		MispricingPct: mispPct,
		Advisories:    advisories,
		CreatedAt:     time.Now().UTC(),
	}

	if a.store != nil {
		if err := a.store.SaveAnalysis(ctx, result); err != nil {
			slog.Warn("storage error", "run_id", result.RunID, "err", err)
		}
	}

	slog.Info("analysis complete",
		"run_id", result.RunID,
		"market", market.ID,
		"event", req.EventType,
		"fair_pv", priced.PV,
		"yes_price", yesPrice,
		"verdict", verdict,
		"advisories", len(advisories),
	)
	return result, nil
}

// resolvePrices devuelve los precios Yes/No del contrato: overrides del
// request si vienen, CLOB en caso contrario. El lado analizado sale del
// outcome label ("Yes" por defecto); el No de un outcome distinto de
// Yes es el complemento 1 - precio.
func (a *Analyzer) resolvePrices(ctx context.Context, req domain.AnalysisRequest, market domain.Market) (yes, no float64, err error) {
	outcome := req.Outcome
	if outcome == "" {
		outcome = "Yes"
	}

	if req.YesPrice != nil {
		yes = *req.YesPrice
	} else {
		token := market.TokenID(outcome)
		if token == "" && strings.EqualFold(outcome, "Yes") {
			token = market.YesTokenID()
		}
		if token == "" {
			return 0, 0, fmt.Errorf("market %s has no CLOB token for outcome %q; pass the price explicitly", market.ID, outcome)
		}
		yes, err = a.prices.YesPrice(ctx, token)
		if err != nil {
			return 0, 0, err
		}
	}

	if req.NoPrice != nil {
		return yes, *req.NoPrice, nil
	}
	if strings.EqualFold(outcome, "Yes") {
		if token := market.NoTokenID(); token != "" {
			no, err = a.prices.YesPrice(ctx, token)
			if err != nil {
				return 0, 0, err
			}
			return yes, no, nil
		}
	}
	return yes, 1 - yes, nil
}

// resolveSpot devuelve el spot del request o lo pide al market data
// provider. Sin ticker y sin override no hay de dónde sacarlo.
func (a *Analyzer) resolveSpot(ctx context.Context, req domain.AnalysisRequest) (float64, error) {
	if req.Spot != nil {
		return *req.Spot, nil
	}
	if req.Ticker == "" {
		return 0, fmt.Errorf("spot price required when no ticker is given")
	}
	return a.data.Spot(ctx, req.Ticker)
}

// resolveDivYield devuelve el dividend yield del request o de la fuente
// de market data. Fuente sin yield publicado → 0 con advisory: para
// índices de crypto o FX el 0 es lo correcto, para equities conviene
// avisar.
func (a *Analyzer) resolveDivYield(ctx context.Context, req domain.AnalysisRequest) (float64, []domain.Advisory, error) {
	if req.DivYield != nil {
		return *req.DivYield, nil, nil
	}
	if req.Ticker == "" {
		adv := domain.Advisoryf(domain.AdvNoDivYield, "no ticker to resolve dividend yield, assuming 0")
		return 0, []domain.Advisory{adv}, nil
	}
	v, ok, err := a.data.DividendYield(ctx, req.Ticker)
	if err != nil {
		return 0, nil, err
	}
	if !ok {
		adv := domain.Advisoryf(domain.AdvNoDivYield, "no dividend yield published for %s, assuming 0", req.Ticker)
		return 0, []domain.Advisory{adv}, nil
	}
	return v, nil, nil
}

// resolveRate devuelve la tasa anual en decimal y su fuente. FRED
// publica puntos porcentuales (4.35 = 4.35%): aquí se divide entre 100.
func (a *Analyzer) resolveRate(ctx context.Context, req domain.AnalysisRequest) (float64, string, []domain.Advisory, error) {
	if req.Rate != nil {
		return *req.Rate, "flag", nil, nil
	}

	series := req.FREDSeries
	if series == "" {
		series = a.cfg.DefaultFREDSeries
	}
	if series == "" {
		return 0, "", nil, fmt.Errorf("no rate given and no FRED series configured; pass an explicit rate or a series id")
	}
	if a.rates == nil {
		return 0, "", nil, fmt.Errorf("FRED provider not configured; pass an explicit rate instead of series %s", series)
	}

	obs, err := a.rates.LatestObservation(ctx, series)
	if err != nil {
		return 0, "", nil, err
	}

	var advisories []domain.Advisory
	if age := obs.Age(time.Now().UTC()); age > a.cfg.StaleRateAfter {
		advisories = append(advisories, domain.Advisoryf(domain.AdvStaleRate,
			"latest %s observation is %d days old (%s)",
			series, int(age.Hours()/24), obs.Date.Format("2006-01-02")))
	}
	slog.Debug("rate resolved", "series", series, "value_pct", obs.Value, "date", obs.Date.Format("2006-01-02"))
	return obs.Value / 100, series, advisories, nil
}

// resolveIV devuelve la σ del análisis y su fuente: la manual del
// request o la extraída de la term structure de opciones listadas.
func (a *Analyzer) resolveIV(ctx context.Context, req domain.AnalysisRequest, expiry time.Time, spot float64) (float64, string, []domain.Advisory, error) {
	if req.IVMode == domain.IVManual {
		return *req.ManualIV, "manual", nil, nil
	}
	iv, advs, err := a.extractTermIV(ctx, req, expiry, spot)
	if err != nil {
		return 0, "", advs, err
	}
	return iv, "term_structure", advs, nil
}

// price despacha al pricer que corresponde al tipo de evento.
func (a *Analyzer) price(event domain.EventType, s0, level, t, r, q, sigma float64) (domain.PriceResult, error) {
	if event == domain.EventTouch {
		return pricing.TouchWithSensitivity(s0, level, t, r, q, sigma, a.cfg.SigmaShifts)
	}
	return pricing.DigitalWithSensitivity(s0, level, t, r, q, sigma, event, a.cfg.SigmaShifts)
}

package analyzer

// iv.go — extracción de la IV del análisis desde la curva de opciones.
//
// Las patas del bracket son independientes entre sí: cada una trae su
// cadena y extrae su IV en una goroutine propia. Con dos patas el
// fan-out ahorra un round-trip completo al proveedor de market data.

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/alejandrodnm/polyfair/internal/domain"
	"github.com/alejandrodnm/polyfair/internal/vol"
)

// legIV es el resultado de extraer la IV de una pata del bracket.
type legIV struct {
	expiry     time.Time
	iv         float64
	advisories []domain.Advisory
	err        error
}

// extractTermIV lista los vencimientos del ticker, extrae la IV de la
// región de strikes en las patas que flanquean al target (en paralelo)
// e interpola la term structure en el vencimiento del mercado.
func (a *Analyzer) extractTermIV(ctx context.Context, req domain.AnalysisRequest, expiry time.Time, spot float64) (float64, []domain.Advisory, error) {
	expiries, err := a.data.OptionExpiries(ctx, req.Ticker)
	if err != nil {
		return 0, nil, err
	}

	before, after := vol.FindBracketingExpiries(expiry, expiries)
	legs := make([]time.Time, 0, 2)
	if !before.IsZero() {
		legs = append(legs, before)
	}
	if !after.IsZero() {
		legs = append(legs, after)
	}
	if len(legs) == 0 {
		return 0, nil, fmt.Errorf("no listed expiries around %s for %s", expiry.Format("2006-01-02"), req.Ticker)
	}

	// Una goroutine por pata; resultCh con buffer para que ninguna quede
	// bloqueada si la otra termina primero.
	resultCh := make(chan legIV, len(legs))
	var wg sync.WaitGroup
	for _, leg := range legs {
		wg.Add(1)
		go func(leg time.Time) {
			defer wg.Done()
			iv, advs, err := a.extractLegIV(ctx, req, leg, spot)
			resultCh <- legIV{expiry: leg, iv: iv, advisories: advs, err: err}
		}(leg)
	}
	wg.Wait()
	close(resultCh)

	results := make([]legIV, 0, len(legs))
	for r := range resultCh {
		if r.err != nil {
			return 0, nil, fmt.Errorf("extract IV at %s: %w", r.expiry.Format("2006-01-02"), r.err)
		}
		results = append(results, r)
	}
	// El canal no garantiza orden: se reordena por vencimiento para que
	// pairs y advisories salgan deterministas.
	sort.Slice(results, func(i, j int) bool { return results[i].expiry.Before(results[j].expiry) })

	var advisories []domain.Advisory
	pairs := make([]domain.ExpiryIV, 0, len(results))
	for _, r := range results {
		pairs = append(pairs, domain.ExpiryIV{Expiry: r.expiry, IV: r.iv})
		for _, adv := range r.advisories {
			adv.Message = fmt.Sprintf("%s: %s", r.expiry.Format("2006-01-02"), adv.Message)
			advisories = append(advisories, adv)
		}
	}

	iv, termAdvs, err := vol.InterpolateTermStructure(expiry, pairs, time.Time{})
	if err != nil {
		return 0, advisories, err
	}
	advisories = append(advisories, termAdvs...)

	slog.Debug("term structure IV resolved",
		"ticker", req.Ticker,
		"target", expiry.Format("2006-01-02"),
		"legs", len(pairs),
		"iv", iv,
	)
	return iv, advisories, nil
}

// extractLegIV trae la cadena de un vencimiento y extrae la IV de la
// región de strikes. Convención OTM: calls cuando el nivel está en o
// por encima del spot, puts cuando está por debajo — el lado fuera del
// dinero es el líquido cerca del nivel.
func (a *Analyzer) extractLegIV(ctx context.Context, req domain.AnalysisRequest, leg time.Time, spot float64) (float64, []domain.Advisory, error) {
	chain, err := a.data.OptionChain(ctx, req.Ticker, leg)
	if err != nil {
		return 0, nil, err
	}

	rows, side := chain.Calls, "calls"
	if req.Level < spot {
		rows, side = chain.Puts, "puts"
	}

	iv, advs, err := vol.ExtractStrikeRegionIV(rows, req.Level, req.WindowPct, req.MinStrikes)
	if err != nil {
		return 0, advs, fmt.Errorf("%s side: %w", side, err)
	}
	slog.Debug("leg IV extracted",
		"expiry", leg.Format("2006-01-02"),
		"side", side,
		"strikes", len(rows),
		"iv", iv,
	)
	return iv, advs, nil
}

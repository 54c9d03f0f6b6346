package vol

import (
	"fmt"
	"math"
	"sort"

	"github.com/alejandrodnm/polyfair/internal/domain"
	"github.com/alejandrodnm/polyfair/internal/num"
)

const (
	// DefaultWindowPct es la media-anchura relativa de la ventana de
	// strikes alrededor del nivel.
	DefaultWindowPct = 0.05
	// WideWindowPct es la ventana ampliada que se intenta una única
	// vez si la ventana por defecto queda vacía.
	WideWindowPct = 0.20
	// DefaultMinStrikes es el mínimo aconsejado de strikes en ventana.
	DefaultMinStrikes = 2
	// MaxPlausibleIV marca el umbral de IV implausible (500%).
	MaxPlausibleIV = 5.0
	// MinShiftedIV es el piso de las IVs desplazadas de sensibilidad.
	MinShiftedIV = 0.01
)

// ExtractStrikeRegionIV estima la IV relevante a un nivel a partir de
// las filas de la cadena de un vencimiento.
//
// Política, en orden:
//  1. Descarta filas sin IV (NaN); si descartó alguna, advisory.
//  2. Ventana [nivel·(1-w), nivel·(1+w)]; vacía → se amplía una vez a
//     WideWindowPct con advisory.
//  3. Aún vacía → error: no hay estimación utilizable cerca del nivel.
//  4. Una sola fila en ventana → su IV con advisory single_strike.
//  5. Dos o más → interpola en log-moneyness m = ln(strike/nivel) en
//     m = 0. Nivel fuera del rango en ventana → fila más cercana con
//     advisory below/above range. Nunca extrapola.
//
// windowPct = 0 y minStrikes = 0 aplican los defaults. IV resultante
// no positiva es error; mayor que MaxPlausibleIV devuelve advisory.
func ExtractStrikeRegionIV(rows []domain.ChainRow, level, windowPct float64, minStrikes int) (float64, []domain.Advisory, error) {
	if level <= 0 {
		return 0, nil, fmt.Errorf("%w: level must be positive, got %g", ErrInvalidInput, level)
	}
	if windowPct < 0 || windowPct >= 1 {
		return 0, nil, fmt.Errorf("%w: window pct must be in [0, 1), got %g", ErrInvalidInput, windowPct)
	}
	if windowPct == 0 {
		windowPct = DefaultWindowPct
	}
	if minStrikes <= 0 {
		minStrikes = DefaultMinStrikes
	}
	if len(rows) == 0 {
		return 0, nil, fmt.Errorf("%w: option chain is empty", ErrInsufficientData)
	}

	var advisories []domain.Advisory

	valid := make([]domain.ChainRow, 0, len(rows))
	for _, row := range rows {
		if !math.IsNaN(row.IV) {
			valid = append(valid, row)
		}
	}
	if dropped := len(rows) - len(valid); dropped > 0 {
		advisories = append(advisories, domain.Advisoryf(domain.AdvMissingIVRows,
			"dropped %d of %d rows with missing IV", dropped, len(rows)))
	}
	if len(valid) == 0 {
		return 0, advisories, fmt.Errorf("%w: no rows with valid implied volatility", ErrInsufficientData)
	}

	sort.Slice(valid, func(i, j int) bool { return valid[i].Strike < valid[j].Strike })

	window := inWindow(valid, level, windowPct)
	if len(window) == 0 {
		advisories = append(advisories, domain.Advisoryf(domain.AdvWindowWidened,
			"no strikes within ±%.0f%% of %g, widening window to ±%.0f%%",
			windowPct*100, level, WideWindowPct*100))
		window = inWindow(valid, level, WideWindowPct)
	}

	if len(window) == 0 {
		return 0, advisories, fmt.Errorf(
			"%w: no strikes with valid IV near %g (tried ±%.0f%% window)",
			ErrInsufficientData, level, WideWindowPct*100)
	}

	if len(window) == 1 {
		advisories = append(advisories, domain.Advisoryf(domain.AdvSingleStrike,
			"only one strike (%g) in window, using its IV directly", window[0].Strike))
		return finishExtraction(window[0].IV, advisories)
	}

	if len(window) < minStrikes {
		advisories = append(advisories, domain.Advisoryf(domain.AdvFewStrikes,
			"only %d strikes in window, fewer than the %d advised", len(window), minStrikes))
	}

	iv, boundaryAdvs := interpolateLogMoneyness(window, level)
	advisories = append(advisories, boundaryAdvs...)
	return finishExtraction(iv, advisories)
}

// inWindow devuelve las filas con strike dentro de ±pct del nivel.
// Asume filas ordenadas por strike.
func inWindow(rows []domain.ChainRow, level, pct float64) []domain.ChainRow {
	lo, hi := level*(1-pct), level*(1+pct)
	var out []domain.ChainRow
	for _, row := range rows {
		if row.Strike >= lo && row.Strike <= hi {
			out = append(out, row)
		}
	}
	return out
}

// interpolateLogMoneyness interpola la IV en m = ln(strike/nivel) = 0.
// Si el nivel queda fuera de los strikes en ventana devuelve la fila
// más cercana con advisory below/above range, sin extrapolar. rows
// viene ordenado por strike y con len ≥ 2.
func interpolateLogMoneyness(rows []domain.ChainRow, level float64) (float64, []domain.Advisory) {
	// Última fila con m ≤ 0 y primera con m ≥ 0.
	below, above := -1, -1
	for i, row := range rows {
		m := num.SafeLog(row.Strike / level)
		if m <= 0 {
			below = i
		}
		if m >= 0 && above == -1 {
			above = i
		}
	}
	switch {
	case below == -1:
		// Todos los strikes por encima del nivel: el menor es el más cercano.
		adv := domain.Advisoryf(domain.AdvBelowRange,
			"level %g below available strikes, using IV from nearest strike %g",
			level, rows[0].Strike)
		return rows[0].IV, []domain.Advisory{adv}
	case above == -1:
		adv := domain.Advisoryf(domain.AdvAboveRange,
			"level %g above available strikes, using IV from nearest strike %g",
			level, rows[len(rows)-1].Strike)
		return rows[len(rows)-1].IV, []domain.Advisory{adv}
	}

	m1 := num.SafeLog(rows[below].Strike / level)
	m2 := num.SafeLog(rows[above].Strike / level)
	if below == above || m2 == m1 {
		// Strike exacto en el nivel.
		return rows[below].IV, nil
	}
	iv1, iv2 := rows[below].IV, rows[above].IV
	return iv1 + (iv2-iv1)*(0-m1)/(m2-m1), nil
}

// finishExtraction valida la IV final y anexa el advisory de
// implausibilidad si corresponde.
func finishExtraction(iv float64, advisories []domain.Advisory) (float64, []domain.Advisory, error) {
	if iv <= 0 {
		return 0, advisories, fmt.Errorf("%w: extracted IV is non-positive (%g)", ErrInvalidInput, iv)
	}
	if iv > MaxPlausibleIV {
		advisories = append(advisories, domain.Advisoryf(domain.AdvImplausibleIV,
			"extracted IV %.2f exceeds plausibility threshold %.1f", iv, MaxPlausibleIV))
	}
	return iv, advisories, nil
}

// AverageRegionIV es el fallback simple: promedio de las IVs en
// ventana. Devuelve ok=false si no hay estimación posible (ventana
// vacía), que no es un error.
func AverageRegionIV(rows []domain.ChainRow, level, windowPct float64) (float64, bool) {
	if level <= 0 {
		return 0, false
	}
	if windowPct <= 0 {
		windowPct = DefaultWindowPct
	}
	var sum float64
	var n int
	for _, row := range rows {
		if math.IsNaN(row.IV) || row.IV <= 0 {
			continue
		}
		if row.Strike >= level*(1-windowPct) && row.Strike <= level*(1+windowPct) {
			sum += row.IV
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// SensitivityIVs devuelve las IVs desplazadas para la grilla de
// sensibilidad, acotadas por debajo a MinShiftedIV.
func SensitivityIVs(iv float64, shifts []float64) []float64 {
	out := make([]float64, 0, len(shifts))
	for _, shift := range shifts {
		out = append(out, math.Max(iv+shift, MinShiftedIV))
	}
	return out
}

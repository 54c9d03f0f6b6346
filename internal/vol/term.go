package vol

import (
	"fmt"
	"math"
	"time"

	"github.com/alejandrodnm/polyfair/internal/domain"
)

// DaysPerYear es la convención de conteo: ACT/365.
const DaysPerYear = 365.0

// YearsToExpiry devuelve los años hasta el vencimiento con convención
// ACT/365 sobre días calendario UTC. reference zero usa la fecha de hoy.
// Falla si el vencimiento no es posterior a la referencia.
func YearsToExpiry(expiry, reference time.Time) (float64, error) {
	if reference.IsZero() {
		reference = time.Now().UTC()
	}
	days := daysBetween(reference, expiry)
	if days <= 0 {
		return 0, fmt.Errorf("%w: expiry %s is not after reference %s",
			ErrInvalidInput, DateOnly(expiry).Format("2006-01-02"), DateOnly(reference).Format("2006-01-02"))
	}
	return float64(days) / DaysPerYear, nil
}

// FindBracketingExpiries devuelve el último vencimiento listado anterior
// o igual al target y el primero posterior. Un match exacto devuelve
// (target, zero): no hace falta interpolar. Cualquiera de los dos puede
// ser zero si no existe ese lado.
func FindBracketingExpiries(target time.Time, expiries []time.Time) (before, after time.Time) {
	t := DateOnly(target)
	for _, e := range expiries {
		d := DateOnly(e)
		if d.Equal(t) {
			return t, time.Time{}
		}
		if d.Before(t) && (before.IsZero() || d.After(before)) {
			before = d
		}
		if d.After(t) && (after.IsZero() || d.Before(after)) {
			after = d
		}
	}
	return before, after
}

// InterpolateVariance interpola linealmente en varianza total
// w = σ²·t y devuelve la σ del punto objetivo:
//
//	w(t) lineal entre (t1, σ1²t1) y (t2, σ2²t2)
//	σ(t) = √(w(t)/t)
//
// Requiere IVs y tiempos positivos, bracket no degenerado y el target
// dentro del bracket: nunca extrapola.
func InterpolateVariance(iv1, t1, iv2, t2, tTarget float64) (float64, error) {
	if iv1 <= 0 || iv2 <= 0 {
		return 0, fmt.Errorf("%w: ivs must be positive, got %g and %g", ErrInvalidInput, iv1, iv2)
	}
	if t1 <= 0 || t2 <= 0 {
		return 0, fmt.Errorf("%w: times must be positive, got %g and %g", ErrInvalidInput, t1, t2)
	}
	if t1 == t2 {
		return 0, fmt.Errorf("%w: degenerate bracket, t1 == t2 == %g", ErrInvalidInput, t1)
	}
	lo, hi := math.Min(t1, t2), math.Max(t1, t2)
	if tTarget < lo || tTarget > hi {
		return 0, fmt.Errorf("%w: target time %g outside bracket [%g, %g]", ErrInvalidInput, tTarget, lo, hi)
	}

	w1 := iv1 * iv1 * t1
	w2 := iv2 * iv2 * t2
	wt := w1 + (w2-w1)*(tTarget-t1)/(t2-t1)
	return math.Sqrt(wt / tTarget), nil
}

// InterpolateTermStructure resuelve la IV al vencimiento target a
// partir de observaciones (vencimiento, IV) de la curva listada.
//
// Política:
//   - match exacto → esa IV, sin advisory.
//   - target antes de toda la curva → IV del vencimiento más cercano
//     con advisory (flat en el tramo corto, sin extrapolar).
//   - target después de toda la curva → IV del último vencimiento con
//     advisory.
//   - pata "before" ya vencida → IV de la pata "after" con advisory.
//   - caso general → interpolación en varianza total.
//
// reference zero usa la fecha de hoy.
func InterpolateTermStructure(target time.Time, pairs []domain.ExpiryIV, reference time.Time) (float64, []domain.Advisory, error) {
	if len(pairs) == 0 {
		return 0, nil, fmt.Errorf("%w: no expiry/iv observations", ErrInsufficientData)
	}
	for _, p := range pairs {
		if p.IV <= 0 {
			return 0, nil, fmt.Errorf("%w: non-positive IV %g for expiry %s",
				ErrInvalidInput, p.IV, DateOnly(p.Expiry).Format("2006-01-02"))
		}
	}
	if reference.IsZero() {
		reference = time.Now().UTC()
	}

	tTarget, err := YearsToExpiry(target, reference)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: target %s is not after reference %s",
			ErrInvalidInput, DateOnly(target).Format("2006-01-02"), DateOnly(reference).Format("2006-01-02"))
	}

	expiries := make([]time.Time, len(pairs))
	for i, p := range pairs {
		expiries[i] = p.Expiry
	}
	before, after := FindBracketingExpiries(target, expiries)

	ivAt := func(d time.Time) float64 {
		for _, p := range pairs {
			if DateOnly(p.Expiry).Equal(d) {
				return p.IV
			}
		}
		return 0
	}

	targetD := DateOnly(target)
	switch {
	case !before.IsZero() && before.Equal(targetD):
		return ivAt(targetD), nil, nil

	case before.IsZero():
		adv := domain.Advisoryf(domain.AdvNoBeforeExpiry,
			"target %s before all listed expiries, using earliest %s",
			targetD.Format("2006-01-02"), after.Format("2006-01-02"))
		return ivAt(after), []domain.Advisory{adv}, nil

	case after.IsZero():
		adv := domain.Advisoryf(domain.AdvAfterAll,
			"target %s after all listed expiries, using latest %s",
			targetD.Format("2006-01-02"), before.Format("2006-01-02"))
		return ivAt(before), []domain.Advisory{adv}, nil
	}

	t1 := float64(daysBetween(reference, before)) / DaysPerYear
	t2 := float64(daysBetween(reference, after)) / DaysPerYear
	if t1 <= 0 {
		adv := domain.Advisoryf(domain.AdvExpiredBefore,
			"bracketing expiry %s not after reference, using the %s leg",
			before.Format("2006-01-02"), after.Format("2006-01-02"))
		return ivAt(after), []domain.Advisory{adv}, nil
	}

	iv, err := InterpolateVariance(ivAt(before), t1, ivAt(after), t2, tTarget)
	if err != nil {
		return 0, nil, err
	}
	return iv, nil, nil
}

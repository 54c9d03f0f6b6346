package pricing

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/polyfair/internal/domain"
	"github.com/alejandrodnm/polyfair/internal/num"
)

// Digital valora un binario cash-or-nothing bajo Black-Scholes.
//
// Fórmula:
//
//	μ  = r - q - σ²/2
//	d2 = (ln(S0/L) + μt) / (σ√t)
//	P(above) = N(d2);  P(below) = N(-d2)
//	PV = e^(-rt) × P
//
// d2 se informa con el mismo valor para ambas direcciones: las
// probabilidades son complementarias (suman 1) para inputs idénticos.
// La probabilidad se acota a [0, 1] antes de descontar.
func Digital(s0, level, t, r, q, sigma float64, direction domain.EventType) (domain.PriceResult, error) {
	if err := validateInputs(s0, level, t, sigma, "level"); err != nil {
		return domain.PriceResult{}, err
	}
	if direction != domain.EventAbove && direction != domain.EventBelow {
		return domain.PriceResult{}, fmt.Errorf("%w: direction must be above or below, got %q", ErrInvalidInput, direction)
	}

	mu := r - q - 0.5*sigma*sigma
	d2 := (num.SafeLog(s0/level) + mu*t) / (sigma * math.Sqrt(t))

	var prob float64
	if direction == domain.EventAbove {
		prob = normCDF(d2)
	} else {
		prob = normCDF(-d2)
	}
	prob = num.Clamp(prob, 0, 1)

	return domain.PriceResult{
		Probability: prob,
		PV:          num.SafeExp(-r*t) * prob,
		D2:          &d2,
		Drift:       mu,
	}, nil
}

// DigitalWithSensitivity valora el binario y reprecia con la grilla de
// shifts de σ (DefaultSigmaShifts si shifts es vacío). La probabilidad,
// PV, d2 y drift del resultado son los de la σ sin desplazar.
func DigitalWithSensitivity(s0, level, t, r, q, sigma float64, direction domain.EventType, shifts []float64) (domain.PriceResult, error) {
	base, err := Digital(s0, level, t, r, q, sigma, direction)
	if err != nil {
		return domain.PriceResult{}, err
	}
	rows, err := sensitivityRows(sigma, shifts, func(shifted float64) (domain.PriceResult, error) {
		return Digital(s0, level, t, r, q, shifted, direction)
	})
	if err != nil {
		return domain.PriceResult{}, err
	}
	base.Sensitivity = rows
	return base, nil
}

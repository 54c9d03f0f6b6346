package pricing

import (
	"math"

	"github.com/alejandrodnm/polyfair/internal/domain"
	"github.com/alejandrodnm/polyfair/internal/num"
)

// barrierEps es la distancia relativa barrera-spot bajo la cual el
// evento touch se considera ya ocurrido.
const barrierEps = 1e-10

// driftEps es el umbral de |μ| bajo el cual se usa la fórmula sin drift.
const driftEps = 1e-10

// Touch valora un one-touch: probabilidad de que el subyacente cruce la
// barrera en algún momento antes del vencimiento (primera pasada de un
// GBM, principio de reflexión) y su valor presente.
//
// Con a = ln(B/S0), μ = r - q - σ²/2, s = σ√t:
//
//	barrera ≈ spot:  P = 1 (el evento ya ocurrió)
//	|μ| ≈ 0:         P = 2·N(-|a|/s)
//	barrera arriba:  P = N(-(a-μt)/s) + e^(2λa)·N(-(a+μt)/s), λ = μ/σ²
//	barrera abajo:   P = N((a-μt)/s)  + e^(2λa)·N((a+μt)/s)
//
// La dirección del cruce se infiere de la barrera vs el spot. d2 no
// aplica al touch y siempre va nil; el drift se informa incluso en el
// caso degenerado.
func Touch(s0, barrier, t, r, q, sigma float64) (domain.PriceResult, error) {
	if err := validateInputs(s0, barrier, t, sigma, "barrier"); err != nil {
		return domain.PriceResult{}, err
	}

	mu := r - q - 0.5*sigma*sigma

	if math.Abs(barrier-s0)/s0 < barrierEps {
		return domain.PriceResult{
			Probability: 1,
			PV:          num.SafeExp(-r * t),
			Drift:       mu,
		}, nil
	}

	a := num.SafeLog(barrier / s0)
	s := sigma * math.Sqrt(t)

	var prob float64
	if math.Abs(mu) < driftEps {
		prob = 2 * normCDF(-math.Abs(a)/s)
	} else {
		lambda := mu / (sigma * sigma)
		expTerm := num.SafeExp(2 * lambda * a)
		if a > 0 {
			prob = normCDF(-(a-mu*t)/s) + expTerm*normCDF(-(a+mu*t)/s)
		} else {
			prob = normCDF((a-mu*t)/s) + expTerm*normCDF((a+mu*t)/s)
		}
	}
	prob = num.Clamp(prob, 0, 1)

	return domain.PriceResult{
		Probability: prob,
		PV:          num.SafeExp(-r*t) * prob,
		Drift:       mu,
	}, nil
}

// TouchWithSensitivity valora el one-touch y reprecia con la grilla de
// shifts de σ, igual que la variante digital.
func TouchWithSensitivity(s0, barrier, t, r, q, sigma float64, shifts []float64) (domain.PriceResult, error) {
	base, err := Touch(s0, barrier, t, r, q, sigma)
	if err != nil {
		return domain.PriceResult{}, err
	}
	rows, err := sensitivityRows(sigma, shifts, func(shifted float64) (domain.PriceResult, error) {
		return Touch(s0, barrier, t, r, q, shifted)
	})
	if err != nil {
		return domain.PriceResult{}, err
	}
	base.Sensitivity = rows
	return base, nil
}

// Package pricing implementa los pricers del contrato binario: digital
// cash-or-nothing (above/below) y one-touch por primera pasada, ambos
// bajo Black-Scholes, más el veredicto contra el precio de mercado.
//
// Los pricers son puros y síncronos: validan, calculan y devuelven.
// No loggean ni tocan red.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/alejandrodnm/polyfair/internal/domain"
)

// ErrInvalidInput marca inputs de pricing inválidos. Siempre fail fast:
// nunca se devuelve un resultado parcial junto a este error.
var ErrInvalidInput = errors.New("invalid pricing input")

// DefaultSigmaShifts es la grilla de sensibilidad por defecto.
var DefaultSigmaShifts = []float64{-0.03, -0.02, 0.02, 0.03}

// MinShiftedSigma es el piso de la σ desplazada en los repricings.
const MinShiftedSigma = 0.01

// normCDF es la CDF de la normal estándar.
func normCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// validateInputs comparte la validación de ambos pricers. levelName
// distingue los mensajes ("level" vs "barrier").
func validateInputs(s0, level, t, sigma float64, levelName string) error {
	switch {
	case s0 <= 0:
		return fmt.Errorf("%w: spot price must be positive, got %g", ErrInvalidInput, s0)
	case level <= 0:
		return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidInput, levelName, level)
	case t <= 0:
		return fmt.Errorf("%w: time to expiry must be positive, got %g", ErrInvalidInput, t)
	case sigma <= 0:
		return fmt.Errorf("%w: sigma must be positive, got %g", ErrInvalidInput, sigma)
	}
	return nil
}

// sensitivityRows reprecia con cada σ desplazada y devuelve las filas
// ordenadas por shift ascendente. La σ desplazada se acota por debajo
// a MinShiftedSigma.
func sensitivityRows(sigma float64, shifts []float64, reprice func(sigma float64) (domain.PriceResult, error)) ([]domain.SensitivityRow, error) {
	if len(shifts) == 0 {
		shifts = DefaultSigmaShifts
	}
	ordered := append([]float64(nil), shifts...)
	sort.Float64s(ordered)

	rows := make([]domain.SensitivityRow, 0, len(ordered))
	for _, shift := range ordered {
		shifted := math.Max(sigma+shift, MinShiftedSigma)
		res, err := reprice(shifted)
		if err != nil {
			return nil, err
		}
		rows = append(rows, domain.SensitivityRow{
			Shift:       shift,
			Probability: res.Probability,
			PV:          res.PV,
		})
	}
	return rows, nil
}

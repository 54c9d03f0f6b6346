// Package vol resuelve la volatilidad implícita del análisis: extrae
// la IV de la región de strikes alrededor del nivel y la interpola en
// la term structure hasta el vencimiento del contrato.
//
// Los resultados degradados pero válidos (ventana ampliada, strike
// único, nivel fuera de rango) vuelven como advisories junto al valor,
// nunca como error. Los errores son siempre fail fast.
package vol

import "errors"

var (
	// ErrInvalidInput marca inputs inválidos del caller (nivel no
	// positivo, IVs no positivas, fechas incoherentes).
	ErrInvalidInput = errors.New("invalid vol input")
	// ErrInsufficientData marca datos de mercado insuficientes para
	// estimar (cadena vacía, sin filas con IV, sin vencimientos).
	ErrInsufficientData = errors.New("insufficient vol data")
)

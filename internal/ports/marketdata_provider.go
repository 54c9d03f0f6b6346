package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/polyfair/internal/domain"
)

// MarketDataProvider obtiene datos del subyacente: spot, vencimientos
// de opciones listadas, cadenas por vencimiento y dividend yield.
type MarketDataProvider interface {
	// Spot devuelve el último precio del subyacente.
	Spot(ctx context.Context, ticker string) (float64, error)

	// OptionExpiries devuelve los vencimientos de opciones listados.
	OptionExpiries(ctx context.Context, ticker string) ([]time.Time, error)

	// OptionChain devuelve calls y puts del vencimiento dado, con las
	// IVs ya normalizadas a decimal y NaN en filas sin IV.
	OptionChain(ctx context.Context, ticker string, expiry time.Time) (domain.OptionChain, error)

	// DividendYield devuelve el dividend yield anualizado en decimal.
	// ok=false si la fuente no publica yield para el ticker: el caller
	// decide el default.
	DividendYield(ctx context.Context, ticker string) (float64, bool, error)
}

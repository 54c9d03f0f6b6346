package ports

import (
	"context"

	"github.com/alejandrodnm/polyfair/internal/domain"
)

// PriceProvider obtiene precios y orderbooks de tokens desde el CLOB.
type PriceProvider interface {
	// FetchOrderBook devuelve el libro de órdenes de un token.
	FetchOrderBook(ctx context.Context, tokenID string) (domain.OrderBook, error)

	// FetchPrice devuelve el precio del lado pedido vía /price.
	FetchPrice(ctx context.Context, tokenID string, side domain.Side) (float64, error)

	// YesPrice devuelve el precio efectivo de compra del token: el
	// best ask del book, con fallback al endpoint /price si el book
	// viene vacío.
	YesPrice(ctx context.Context, tokenID string) (float64, error)
}

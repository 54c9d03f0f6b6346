package polymarket

// clob.go — Polymarket CLOB API adapter.
//
// El CLOB expone el orderbook y el mejor precio por token. Para estimar el
// precio de entrada de una posición Yes usamos el best ask del book cuando
// existe; el endpoint /price queda como fallback porque devuelve el último
// precio cacheado aunque el book esté vacío.

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/alejandrodnm/polyfair/internal/domain"
)

const (
	bookPath  = "/book"
	pricePath = "/price"
)

// FetchOrderBook obtiene el orderbook completo de un token.
func (c *Client) FetchOrderBook(ctx context.Context, tokenID string) (domain.OrderBook, error) {
	u := fmt.Sprintf("%s%s?token_id=%s", c.clobBase, bookPath, url.QueryEscape(tokenID))

	var resp bookResponse
	if err := c.get(ctx, c.bookLimiter, u, &resp); err != nil {
		if isNotFound(err) {
			return domain.OrderBook{}, fmt.Errorf("token %s not found", tokenID)
		}
		return domain.OrderBook{}, fmt.Errorf("clob.FetchOrderBook: %w", err)
	}

	book := mapBook(resp, tokenID)
	slog.Debug("order book fetched",
		"token", tokenID,
		"bids", len(book.Bids),
		"asks", len(book.Asks),
	)
	return book, nil
}

// FetchPrice obtiene el mejor precio de un token para el side dado.
// BUY es el precio de compra del token, SELL el de venta.
func (c *Client) FetchPrice(ctx context.Context, tokenID string, side domain.Side) (float64, error) {
	q := url.Values{}
	q.Set("token_id", tokenID)
	q.Set("side", string(side))

	u := fmt.Sprintf("%s%s?%s", c.clobBase, pricePath, q.Encode())

	var resp priceResponse
	if err := c.get(ctx, c.clobLimiter, u, &resp); err != nil {
		if isNotFound(err) {
			return 0, fmt.Errorf("token %s not found", tokenID)
		}
		return 0, fmt.Errorf("clob.FetchPrice: %w", err)
	}

	price, err := parsePriceResponse(resp)
	if err != nil {
		return 0, fmt.Errorf("clob.FetchPrice %s: %w", tokenID, err)
	}
	return price, nil
}

// YesPrice devuelve el precio efectivo de entrada para una posición Yes:
// el best ask del orderbook si hay liquidez, o el /price BUY como fallback.
func (c *Client) YesPrice(ctx context.Context, tokenID string) (float64, error) {
	book, err := c.FetchOrderBook(ctx, tokenID)
	if err == nil {
		if ask := book.BestAsk(); ask > 0 {
			return ask, nil
		}
		slog.Debug("empty ask side, falling back to /price", "token", tokenID)
	} else {
		slog.Debug("book fetch failed, falling back to /price", "token", tokenID, "err", err)
	}

	return c.FetchPrice(ctx, tokenID, domain.SideBuy)
}

package polymarket

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/alejandrodnm/polyfair/internal/domain"
	"github.com/alejandrodnm/polyfair/internal/ports"
)

const (
	gammaMarketsPath = "/markets"
	gammaSearchPath  = "/public-search"

	defaultSearchLimit = 10
)

// GetMarket devuelve un mercado por su ID de Gamma.
func (c *Client) GetMarket(ctx context.Context, id string) (domain.Market, error) {
	u := fmt.Sprintf("%s%s/%s", c.gammaBase, gammaMarketsPath, url.PathEscape(id))

	var raw gammaMarket
	if err := c.get(ctx, c.gammaLimiter, u, &raw); err != nil {
		if isNotFound(err) {
			return domain.Market{}, fmt.Errorf("market %s not found", id)
		}
		return domain.Market{}, fmt.Errorf("gamma.GetMarket: %w", err)
	}

	market, err := mapGammaMarket(raw)
	if err != nil {
		return domain.Market{}, fmt.Errorf("gamma.GetMarket: %w", err)
	}
	return market, nil
}

// SearchMarkets lista mercados de Gamma según los filtros dados.
// Los mercados con datos incompletos se omiten con un warning en el log
// y el resto de resultados sigue procesándose.
func (c *Client) SearchMarkets(ctx context.Context, params ports.SearchParams) ([]domain.Market, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", "0")
	if params.Query != "" {
		q.Set("query", params.Query)
	}
	if params.Slug != "" {
		q.Set("slug", params.Slug)
	}
	if params.Closed {
		q.Set("closed", "true")
	}
	if params.Archived {
		q.Set("archived", "true")
	}

	u := fmt.Sprintf("%s%s?%s", c.gammaBase, gammaMarketsPath, q.Encode())

	var resp gammaMarketsEnvelope
	if err := c.get(ctx, c.gammaLimiter, u, &resp); err != nil {
		return nil, fmt.Errorf("gamma.SearchMarkets: %w", err)
	}

	markets := mapGammaMarkets(resp.markets)
	slog.Debug("gamma markets fetched", "returned", len(resp.markets), "mapped", len(markets))
	return markets, nil
}

// PublicSearch busca mercados vía /public-search y aplana los mercados
// de los eventos encontrados. Este endpoint entiende búsquedas de texto
// libre mejor que el filtro query de /markets.
func (c *Client) PublicSearch(ctx context.Context, query string, limit int) ([]domain.Market, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("limit_per_type", strconv.Itoa(limit))

	u := fmt.Sprintf("%s%s?%s", c.gammaBase, gammaSearchPath, q.Encode())

	var resp publicSearchResponse
	if err := c.get(ctx, c.gammaLimiter, u, &resp); err != nil {
		return nil, fmt.Errorf("gamma.PublicSearch: %w", err)
	}

	var all []gammaMarket
	for _, ev := range resp.Events {
		all = append(all, ev.Markets...)
	}

	markets := mapGammaMarkets(all)
	if len(markets) > limit {
		markets = markets[:limit]
	}

	slog.Debug("public search complete",
		"query", query,
		"events", len(resp.Events),
		"markets", len(markets),
	)
	return markets, nil
}

// mapGammaMarkets convierte los DTOs omitiendo los que no se pueden parsear.
func mapGammaMarkets(raw []gammaMarket) []domain.Market {
	markets := make([]domain.Market, 0, len(raw))
	for _, r := range raw {
		m, err := mapGammaMarket(r)
		if err != nil {
			slog.Warn("skipping unparseable market", "err", err)
			continue
		}
		markets = append(markets, m)
	}
	return markets
}

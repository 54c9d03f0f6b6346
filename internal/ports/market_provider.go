package ports

import (
	"context"

	"github.com/alejandrodnm/polyfair/internal/domain"
)

// SearchParams filtra el listado de mercados en la API Gamma.
type SearchParams struct {
	Query    string // texto libre; vacío lista los más recientes
	Slug     string // filtro exacto por slug
	Limit    int
	Closed   bool // incluir mercados cerrados
	Archived bool // incluir mercados archivados
}

// MarketProvider obtiene mercados y su metadata desde la API Gamma.
type MarketProvider interface {
	// GetMarket devuelve un mercado por su ID numérico de Gamma.
	GetMarket(ctx context.Context, id string) (domain.Market, error)

	// SearchMarkets busca mercados según los filtros dados. Los mercados
	// que Gamma devuelve con datos incompletos se omiten del resultado.
	SearchMarkets(ctx context.Context, params SearchParams) ([]domain.Market, error)

	// PublicSearch busca vía el endpoint public-search (eventos) y
	// devuelve los mercados aplanados de los eventos encontrados.
	PublicSearch(ctx context.Context, query string, limit int) ([]domain.Market, error)
}

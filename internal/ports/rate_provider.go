package ports

import (
	"context"

	"github.com/alejandrodnm/polyfair/internal/domain"
)

// RateProvider resuelve tasas de interés desde series de FRED.
type RateProvider interface {
	// LatestObservation devuelve la observación más reciente con valor
	// de la serie (FRED marca datos faltantes con ".").
	LatestObservation(ctx context.Context, seriesID string) (domain.RateObservation, error)

	// SeriesInfo devuelve la metadata de una serie.
	SeriesInfo(ctx context.Context, seriesID string) (domain.RateSeries, error)

	// SearchSeries busca series por texto libre, ordenadas por
	// popularidad.
	SearchSeries(ctx context.Context, query string, limit int) ([]domain.RateSeries, error)
}

package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/polyfair/internal/domain"
)

// AnalysisStore persiste el historial de análisis ejecutados.
type AnalysisStore interface {
	// SaveAnalysis persiste un análisis completo con su run ID.
	SaveAnalysis(ctx context.Context, result domain.AnalysisResult) error

	// GetHistory devuelve los análisis registrados en el rango dado,
	// más recientes primero.
	GetHistory(ctx context.Context, from, to time.Time) ([]domain.AnalysisResult, error)

	// PruneOlderThan borra análisis anteriores al corte. Devuelve la
	// cantidad eliminada.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}

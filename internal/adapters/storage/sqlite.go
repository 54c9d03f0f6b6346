package storage

// sqlite.go — historial de análisis en SQLite (pure Go, sin CGo).
//
// Estrategia:
//   - `analyses`: UNA fila por run, clave = run_id (uuid). Cada análisis es
//     inmutable una vez ejecutado, así que no hay upserts ni caché: INSERT
//     plano y listo.
//   - Columnas planas para lo que el comando history necesita mostrar;
//     sensitivity y advisories van como JSON (solo se leen, nunca se filtran).
//   - Fechas en RFC3339 UTC truncadas a segundo: ancho fijo, comparables
//     lexicográficamente en los BETWEEN y los prune.
//   - Prune automático al abrir: análisis > 90d no aportan nada.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/alejandrodnm/polyfair/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Una fila por análisis ejecutado
CREATE TABLE IF NOT EXISTS analyses (
    run_id         TEXT PRIMARY KEY,
    market_id      TEXT NOT NULL,
    question       TEXT,
    ticker         TEXT,
    event_type     TEXT NOT NULL,
    level          REAL NOT NULL,
    outcome        TEXT,
    expiry         DATETIME,
    tte            REAL NOT NULL DEFAULT 0,
    spot           REAL NOT NULL DEFAULT 0,
    rate           REAL NOT NULL DEFAULT 0,
    rate_source    TEXT,
    div_yield      REAL NOT NULL DEFAULT 0,
    iv             REAL NOT NULL DEFAULT 0,
    iv_source      TEXT,
    probability    REAL NOT NULL DEFAULT 0,
    fair_pv        REAL NOT NULL DEFAULT 0,
    d2             REAL,              -- NULL en eventos touch
    drift          REAL NOT NULL DEFAULT 0,
    yes_price      REAL NOT NULL DEFAULT 0,
    no_price       REAL NOT NULL DEFAULT 0,
    verdict        TEXT NOT NULL,
    mispricing_abs REAL NOT NULL DEFAULT 0,
    mispricing_pct REAL,              -- NULL cuando el PV justo es 0
    sensitivity    TEXT,              -- JSON [{Shift, Probability, PV}, ...]
    advisories     TEXT,              -- JSON [{Code, Message}, ...]
    created_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_analyses_market  ON analyses(market_id);
`

// retentionAnalyses limita el histórico: 90 días cubren de sobra cualquier
// revisión de veredictos pasados.
const retentionAnalyses = 90 * 24 * time.Hour

// SQLiteStore implementa ports.AnalysisStore usando SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia análisis antiguos.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStore: apply schema: %w", err)
	}

	s := &SQLiteStore{db: db}
	s.PruneOlderThan(context.Background(), time.Now().UTC().Add(-retentionAnalyses))
	return s, nil
}

// SaveAnalysis persiste un análisis completo. El run_id es la clave primaria:
// repetirlo es un bug del caller y el INSERT lo hará explotar.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, result domain.AnalysisResult) error {
	if result.RunID == "" {
		return fmt.Errorf("storage.SaveAnalysis: missing run id")
	}
	createdAt := result.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	sens, err := json.Marshal(result.Pricing.Sensitivity)
	if err != nil {
		return fmt.Errorf("storage.SaveAnalysis: encode sensitivity: %w", err)
	}
	advs, err := json.Marshal(result.Advisories)
	if err != nil {
		return fmt.Errorf("storage.SaveAnalysis: encode advisories: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses
			(run_id, market_id, question, ticker, event_type, level, outcome,
			 expiry, tte, spot, rate, rate_source, div_yield, iv, iv_source,
			 probability, fair_pv, d2, drift, yes_price, no_price,
			 verdict, mispricing_abs, mispricing_pct, sensitivity, advisories, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.RunID,
		result.Market.ID,
		result.Market.Question,
		result.Request.Ticker,
		string(result.Request.EventType),
		result.Request.Level,
		result.Request.Outcome,
		formatTime(result.Expiry),
		result.TTE,
		result.Spot,
		result.Rate,
		result.RateSource,
		result.DivYield,
		result.IV,
		result.IVSource,
		result.Pricing.Probability,
		result.Pricing.PV,
		nullableFloat(result.Pricing.D2),
		result.Pricing.Drift,
		result.YesPrice,
		result.NoPrice,
		string(result.Verdict),
		result.MispricingAbs,
		nullIfNaN(result.MispricingPct),
		string(sens),
		string(advs),
		formatTime(createdAt),
	); err != nil {
		return fmt.Errorf("storage.SaveAnalysis: insert %s: %w", result.RunID, err)
	}
	return nil
}

// GetHistory devuelve los análisis con created_at en el rango dado, más
// recientes primero. Reconstruye un AnalysisResult parcial: suficiente para
// el comando history, sin pretender recuperar el Request completo.
func (s *SQLiteStore) GetHistory(ctx context.Context, from, to time.Time) ([]domain.AnalysisResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, market_id, question, ticker, event_type, level, outcome,
		       expiry, tte, spot, rate, rate_source, div_yield, iv, iv_source,
		       probability, fair_pv, d2, drift, yes_price, no_price,
		       verdict, mispricing_abs, mispricing_pct, sensitivity, advisories, created_at
		FROM analyses
		WHERE created_at BETWEEN ? AND ?
		ORDER BY created_at DESC, rowid DESC
	`, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("storage.GetHistory: query: %w", err)
	}
	defer rows.Close()

	var results []domain.AnalysisResult
	for rows.Next() {
		var (
			res                       domain.AnalysisResult
			eventType, verdict        string
			expiry, createdAt         string
			d2, mispricingPct         sql.NullFloat64
			sens, advs                sql.NullString
			question, ticker, outcome sql.NullString
			rateSource, ivSource      sql.NullString
		)

		if err := rows.Scan(
			&res.RunID,
			&res.Request.MarketID,
			&question,
			&ticker,
			&eventType,
			&res.Request.Level,
			&outcome,
			&expiry,
			&res.TTE,
			&res.Spot,
			&res.Rate,
			&rateSource,
			&res.DivYield,
			&res.IV,
			&ivSource,
			&res.Pricing.Probability,
			&res.Pricing.PV,
			&d2,
			&res.Pricing.Drift,
			&res.YesPrice,
			&res.NoPrice,
			&verdict,
			&res.MispricingAbs,
			&mispricingPct,
			&sens,
			&advs,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage.GetHistory: scan row: %w", err)
		}

		res.Market.ID = res.Request.MarketID
		res.Market.Question = question.String
		res.Request.Ticker = ticker.String
		res.Request.EventType = domain.EventType(eventType)
		res.Request.Outcome = outcome.String
		res.RateSource = rateSource.String
		res.IVSource = ivSource.String
		res.Verdict = domain.Verdict(verdict)
		res.Expiry, _ = time.Parse(time.RFC3339, expiry)
		res.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if d2.Valid {
			v := d2.Float64
			res.Pricing.D2 = &v
		}
		res.MispricingPct = math.NaN()
		if mispricingPct.Valid {
			res.MispricingPct = mispricingPct.Float64
		}
		if sens.Valid && sens.String != "" {
			_ = json.Unmarshal([]byte(sens.String), &res.Pricing.Sensitivity)
		}
		if advs.Valid && advs.String != "" {
			_ = json.Unmarshal([]byte(advs.String), &res.Advisories)
		}

		results = append(results, res)
	}

	return results, rows.Err()
}

// PruneOlderThan borra análisis anteriores al corte y devuelve cuántos cayeron.
func (s *SQLiteStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE created_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("storage.PruneOlderThan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage.PruneOlderThan: rows affected: %w", err)
	}
	return n, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

// formatTime serializa en RFC3339 UTC truncado a segundo. Ancho fijo →
// el orden lexicográfico del TEXT coincide con el cronológico.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// nullableFloat convierte *float64 en algo que el driver persista como NULL
// cuando es nil.
func nullableFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// nullIfNaN mapea NaN → NULL. SQLite no tiene NaN y el driver no lo salva.
func nullIfNaN(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/alejandrodnm/polyfair/internal/adapters/fred"
	"github.com/alejandrodnm/polyfair/internal/adapters/polymarket"
	"github.com/alejandrodnm/polyfair/internal/adapters/storage"
	"github.com/alejandrodnm/polyfair/internal/adapters/yahoo"
	"github.com/alejandrodnm/polyfair/internal/application/analyzer"
	"github.com/alejandrodnm/polyfair/internal/domain"
	"github.com/alejandrodnm/polyfair/internal/ports"
	"github.com/alejandrodnm/polyfair/internal/report"
	"github.com/alejandrodnm/polyfair/internal/vol"
)

// runAnalyze corre el pipeline completo sobre un mercado y escribe el
// informe. El market id es el argumento posicional; todo lo demás son
// flags con defaults de config.
func runAnalyze(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	common := addCommonFlags(fs)

	ticker := fs.String("ticker", "", "underlying ticker for spot/options data (e.g. ^GSPC, BTC-USD)")
	eventType := fs.String("event-type", "", "event type: touch | above | below")
	level := fs.Float64("level", 0, "event level / barrier in underlying units")
	expiryStr := fs.String("expiry", "", "expiry override YYYY-MM-DD (default: market end date)")
	outcome := fs.String("outcome", "", "outcome label to analyze (default Yes)")

	yesPrice := fs.Float64("yes-price", math.NaN(), "market Yes price override in [0,1]")
	noPrice := fs.Float64("no-price", math.NaN(), "market No price override in [0,1]")
	spot := fs.Float64("spot", math.NaN(), "spot price override")
	rateFlag := fs.Float64("rate", math.NaN(), "risk-free rate as a decimal (0.04 = 4%)")
	fredSeries := fs.String("fred-series", "", "FRED series for the risk-free rate (default from config)")
	divYield := fs.Float64("div-yield", math.NaN(), "dividend yield as a decimal")

	ivMode := fs.String("iv-mode", "auto", "iv resolution: auto | manual")
	manualIV := fs.Float64("iv", math.NaN(), "implied volatility for -iv-mode manual (decimal)")
	window := fs.Float64("window", 0, "strike window around the level (default from config)")
	minStrikes := fs.Int("min-strikes", 0, "minimum strikes in window before warning (default from config)")

	absTol := fs.Float64("abs-tol", 0, "absolute fair-value tolerance (default from config)")
	pctTol := fs.Float64("pct-tol", 0, "relative fair-value tolerance (default from config)")

	output := fs.String("output", "", "write the markdown report to this file")
	noStore := fs.Bool("no-store", false, "skip persisting the analysis to local storage")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("analyze: exactly one market id expected, got %d args", fs.NArg())
	}

	cfg, err := loadConfig(common)
	if err != nil {
		return err
	}

	event, err := domain.ParseEventType(*eventType)
	if err != nil {
		return err
	}

	req := domain.AnalysisRequest{
		MarketID:   fs.Arg(0),
		Ticker:     *ticker,
		EventType:  event,
		Level:      *level,
		Outcome:    *outcome,
		YesPrice:   optFloat(*yesPrice),
		NoPrice:    optFloat(*noPrice),
		Spot:       optFloat(*spot),
		Rate:       optFloat(*rateFlag),
		DivYield:   optFloat(*divYield),
		FREDSeries: *fredSeries,
		ManualIV:   optFloat(*manualIV),
		WindowPct:  *window,
		MinStrikes: *minStrikes,
		AbsTol:     *absTol,
		PctTol:     *pctTol,
	}
	if req.WindowPct == 0 {
		req.WindowPct = cfg.Analysis.IVStrikeWindow
	}
	if req.MinStrikes == 0 {
		req.MinStrikes = cfg.Analysis.IVMinStrikes
	}
	if req.AbsTol == 0 {
		req.AbsTol = cfg.Analysis.AbsTol
	}
	if req.PctTol == 0 {
		req.PctTol = cfg.Analysis.PctTol
	}

	switch *ivMode {
	case "auto":
		req.IVMode = domain.IVAuto
	case "manual":
		req.IVMode = domain.IVManual
	default:
		return fmt.Errorf("iv-mode must be auto or manual, got %q", *ivMode)
	}

	if *expiryStr != "" {
		expiry, err := vol.ParseDate(*expiryStr)
		if err != nil {
			return err
		}
		req.Expiry = expiry
	}

	client := polymarket.NewClient(cfg.API.CLOBBase, cfg.API.GammaBase)
	marketData := yahoo.New(cfg.MarketData.YahooBase)

	// FRED es opcional: sin API key solo funcionan los análisis con
	// -rate explícito.
	var rates ports.RateProvider
	if fredClient, err := fred.New(cfg.Rates.APIKey, cfg.Rates.FREDBase); err == nil {
		rates = fredClient
	} else if !errors.Is(err, fred.ErrMissingAPIKey) {
		return err
	}

	var store ports.AnalysisStore
	if !*noStore {
		sqlStore, err := storage.NewSQLiteStore(cfg.Storage.DSN)
		if err != nil {
			return fmt.Errorf("open storage %q: %w", cfg.Storage.DSN, err)
		}
		defer sqlStore.Close()
		store = sqlStore
	}

	an := analyzer.New(
		analyzer.Config{
			DefaultFREDSeries: cfg.Rates.DefaultSeries,
			StaleRateAfter:    cfg.StaleRateAfter(),
			SigmaShifts:       cfg.Analysis.SigmaShifts,
		},
		client, client, marketData, rates, store,
	)

	res, err := an.Analyze(ctx, req)
	if err != nil {
		return err
	}

	console := report.NewConsole()
	console.AnalysisSummary(res)

	for _, adv := range res.Advisories {
		slog.Warn("advisory", "code", adv.Code, "msg", adv.Message)
	}

	if *output != "" {
		md := report.Markdown(res)
		if err := os.WriteFile(*output, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write report %q: %w", *output, err)
		}
		slog.Info("report written", "path", *output, "run_id", res.RunID)
	}
	return nil
}

// optFloat convierte el sentinel NaN de los flags opcionales en nil.
func optFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

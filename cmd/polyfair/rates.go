package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/alejandrodnm/polyfair/internal/adapters/fred"
	"github.com/alejandrodnm/polyfair/internal/report"
)

// runRates consulta la última observación de una serie de FRED, o busca
// series por texto con -search.
func runRates(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rates", flag.ContinueOnError)
	common := addCommonFlags(fs)
	series := fs.String("series", "", "FRED series id (default from config, e.g. DGS3MO)")
	search := fs.String("search", "", "search FRED series instead of fetching one")
	limit := fs.Int("limit", 10, "maximum series in search results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(common)
	if err != nil {
		return err
	}

	client, err := fred.New(cfg.Rates.APIKey, cfg.Rates.FREDBase)
	if err != nil {
		return err
	}
	console := report.NewConsole()

	if *search != "" {
		results, err := client.SearchSeries(ctx, *search, *limit)
		if err != nil {
			return err
		}
		console.RateSeries(results)
		return nil
	}

	id := *series
	if id == "" {
		id = cfg.Rates.DefaultSeries
	}
	if id == "" {
		return fmt.Errorf("no series given: pass -series or set rates.default_series in config")
	}

	obs, err := client.LatestObservation(ctx, id)
	if err != nil {
		return err
	}
	console.RateObservation(obs)
	return nil
}

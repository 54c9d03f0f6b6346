package main

import (
	"context"
	"flag"
	"log/slog"

	"github.com/alejandrodnm/polyfair/internal/adapters/polymarket"
	"github.com/alejandrodnm/polyfair/internal/ports"
	"github.com/alejandrodnm/polyfair/internal/report"
)

// runMarkets busca mercados en Gamma y los imprime en tabla.
func runMarkets(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("markets", flag.ContinueOnError)
	common := addCommonFlags(fs)
	search := fs.String("search", "", "free-text search query")
	slug := fs.String("slug", "", "exact slug filter")
	limit := fs.Int("limit", 20, "maximum number of markets")
	closed := fs.Bool("closed", false, "include closed markets")
	archived := fs.Bool("archived", false, "include archived markets")
	public := fs.Bool("public", false, "use the public-search (events) endpoint")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(common)
	if err != nil {
		return err
	}

	client := polymarket.NewClient(cfg.API.CLOBBase, cfg.API.GammaBase)

	if *public {
		results, err := client.PublicSearch(ctx, *search, *limit)
		if err != nil {
			return err
		}
		report.NewConsole().Markets(results)
		return nil
	}

	results, err := client.SearchMarkets(ctx, ports.SearchParams{
		Query:    *search,
		Slug:     *slug,
		Limit:    *limit,
		Closed:   *closed,
		Archived: *archived,
	})
	if err != nil {
		return err
	}
	slog.Debug("markets fetched", "count", len(results))
	report.NewConsole().Markets(results)
	return nil
}

package main

import (
	"context"
	"flag"
	"time"

	"github.com/alejandrodnm/polyfair/internal/adapters/storage"
	"github.com/alejandrodnm/polyfair/internal/report"
)

// runHistory lista los análisis recientes del storage local y
// opcionalmente poda los más viejos que -prune-days.
func runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	common := addCommonFlags(fs)
	days := fs.Int("days", 30, "how many days back to list")
	pruneDays := fs.Int("prune-days", 0, "delete analyses older than this many days (0 = keep all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(common)
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStore(cfg.Storage.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	console := report.NewConsole()
	now := time.Now().UTC()

	if *pruneDays > 0 {
		cutoff := now.AddDate(0, 0, -*pruneDays)
		pruned, err := store.PruneOlderThan(ctx, cutoff)
		if err != nil {
			return err
		}
		console.PruneSummary(pruned, cutoff)
	}

	results, err := store.GetHistory(ctx, now.AddDate(0, 0, -*days), now)
	if err != nil {
		return err
	}
	console.History(results)
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/polyfair/config"
)

const usageText = `polyfair — fair value of Polymarket binary contracts from listed options

Usage:
  polyfair markets  [flags]              search Polymarket markets
  polyfair analyze  <market-id> [flags]  run a full fair-value analysis
  polyfair rates    [flags]              latest risk-free rate from FRED
  polyfair history  [flags]              recent analyses from local storage

Run "polyfair <command> -h" for the flags of each command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "markets":
		err = runMarkets(ctx, args)
	case "analyze":
		err = runAnalyze(ctx, args)
	case "rates":
		err = runRates(ctx, args)
	case "history":
		err = runHistory(ctx, args)
	case "help", "-h", "--help":
		fmt.Fprint(os.Stderr, usageText)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usageText)
		os.Exit(2)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("command failed", "command", cmd, "err", err)
		os.Exit(1)
	}
}

// commonFlags son los flags compartidos por todos los subcomandos.
type commonFlags struct {
	configPath *string
	verbose    *bool
	logFormat  *string
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		configPath: fs.String("config", "config/config.yaml", "path to config file (optional)"),
		verbose:    fs.Bool("verbose", false, "set log level to debug"),
		logFormat:  fs.String("format", "", "log format: text|json (overrides config)"),
	}
}

// loadConfig carga la configuración del archivo si existe; si el path
// por defecto no está presente se usan los defaults con el .env y el
// entorno aplicados. Un path explícito que no existe sí es error.
func loadConfig(common commonFlags) (*config.Config, error) {
	var cfg *config.Config
	if _, err := os.Stat(*common.configPath); err == nil {
		cfg, err = config.Load(*common.configPath)
		if err != nil {
			return nil, err
		}
	} else if *common.configPath != "config/config.yaml" {
		return nil, fmt.Errorf("config file %q not found", *common.configPath)
	} else {
		cfg = config.Default()
	}

	if *common.verbose {
		cfg.Log.Level = "debug"
	}
	if *common.logFormat != "" {
		cfg.Log.Format = *common.logFormat
	}
	setupLogger(cfg.Log)
	return cfg, nil
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

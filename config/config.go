package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del analizador.
type Config struct {
	API        APIConfig        `yaml:"api"`
	Rates      RatesConfig      `yaml:"rates"`
	MarketData MarketDataConfig `yaml:"marketdata"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
}

// APIConfig contiene los base URLs de las APIs de Polymarket.
type APIConfig struct {
	CLOBBase  string `yaml:"clob_base"`
	GammaBase string `yaml:"gamma_base"`
}

// RatesConfig controla la fuente de tasas libres de riesgo.
type RatesConfig struct {
	FREDBase string `yaml:"fred_base"`
	// APIKey normalmente llega por la variable de entorno FRED_API_KEY.
	APIKey        string `yaml:"api_key"`
	DefaultSeries string `yaml:"default_series"` // ej. DGS3MO; vacío = exigir flag
}

// MarketDataConfig controla la fuente de spot y cadenas de opciones.
type MarketDataConfig struct {
	YahooBase string `yaml:"yahoo_base"`
}

// AnalysisConfig contiene los parámetros cuantitativos por defecto.
// Cualquier flag de CLI los sobreescribe para un análisis concreto.
type AnalysisConfig struct {
	IVStrikeWindow float64   `yaml:"iv_strike_window"` // ±% alrededor del nivel
	IVMinStrikes   int       `yaml:"iv_min_strikes"`
	AbsTol         float64   `yaml:"abs_tol"`
	PctTol         float64   `yaml:"pct_tol"`
	StaleRateDays  int       `yaml:"stale_rate_days"`
	SigmaShifts    []float64 `yaml:"sigma_shifts"` // vacío = shifts por defecto
}

// StorageConfig controla dónde se persiste el historial de análisis.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si
// existe. Los valores del entorno sobreescriben los del YAML para las
// keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// Default devuelve la configuración por defecto, con el .env y las
// variables de entorno aplicadas. Es lo que usa el CLI cuando no hay
// archivo de configuración.
func Default() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	applyEnvOverrides(cfg)
	setDefaults(cfg)
	return cfg
}

// StaleRateAfter devuelve la antigüedad máxima de una observación de
// tasa antes de marcarla como stale.
func (c *Config) StaleRateAfter() time.Duration {
	return time.Duration(c.Analysis.StaleRateDays) * 24 * time.Hour
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FRED_API_KEY"); v != "" {
		cfg.Rates.APIKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.API.CLOBBase == "" {
		cfg.API.CLOBBase = "https://clob.polymarket.com"
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.Rates.FREDBase == "" {
		cfg.Rates.FREDBase = "https://api.stlouisfed.org/fred"
	}
	if cfg.MarketData.YahooBase == "" {
		cfg.MarketData.YahooBase = "https://query1.finance.yahoo.com"
	}
	if cfg.Analysis.IVStrikeWindow <= 0 {
		cfg.Analysis.IVStrikeWindow = 0.05
	}
	if cfg.Analysis.IVMinStrikes <= 0 {
		cfg.Analysis.IVMinStrikes = 2
	}
	if cfg.Analysis.AbsTol <= 0 {
		cfg.Analysis.AbsTol = 0.01
	}
	if cfg.Analysis.PctTol <= 0 {
		cfg.Analysis.PctTol = 0.05
	}
	if cfg.Analysis.StaleRateDays <= 0 {
		cfg.Analysis.StaleRateDays = 10
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "polyfair.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// validate rechaza configuraciones que producirían análisis sin sentido.
func (c *Config) validate() error {
	if c.Analysis.IVStrikeWindow >= 1 {
		return fmt.Errorf("analysis.iv_strike_window must be a fraction below 1, got %v", c.Analysis.IVStrikeWindow)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

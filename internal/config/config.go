package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Geocoder  GeocoderConfig  `yaml:"geocoder" mapstructure:"geocoder"`
	Gazetteer GazetteerConfig `yaml:"gazetteer" mapstructure:"gazetteer"`
	Ingest    IngestConfig    `yaml:"ingest" mapstructure:"ingest"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// GeocoderConfig configures the Census/Google geocoder adapter.
type GeocoderConfig struct {
	CensusBaseURL   string `yaml:"census_base_url" mapstructure:"census_base_url"`
	CensusDisabled  bool   `yaml:"census_disabled" mapstructure:"census_disabled"`
	GoogleKey       string `yaml:"google_key" mapstructure:"google_key"`
	GoogleBaseURL   string `yaml:"google_base_url" mapstructure:"google_base_url"`
	TimeoutSecs     int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimitPerSec int    `yaml:"rate_limit_per_sec" mapstructure:"rate_limit_per_sec"`
}

// GazetteerConfig configures the matcher's trained model and thresholds.
type GazetteerConfig struct {
	ModelFilePath      string  `yaml:"model_file_path" mapstructure:"model_file_path"`
	TrainingFilePath   string  `yaml:"training_file_path" mapstructure:"training_file_path"`
	AutomaticThreshold float64 `yaml:"automatic_threshold" mapstructure:"automatic_threshold"`
	GazetteerThreshold float64 `yaml:"gazetteer_threshold" mapstructure:"gazetteer_threshold"`
	RecallWeight       float64 `yaml:"recall_weight" mapstructure:"recall_weight"`
}

// IngestConfig configures list ingestion: the FTP source and upload parsing.
type IngestConfig struct {
	FTP  FTPConfig  `yaml:"ftp" mapstructure:"ftp"`
	XLSX XLSXConfig `yaml:"xlsx" mapstructure:"xlsx"`
}

// FTPConfig holds FTP credentials. The ingest command does not read them:
// ingest.FTPSource always logs in anonymously.
type FTPConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
}

// XLSXConfig holds a spreadsheet sheet index. It is not read:
// ingest.ReadXLSX always reads the first sheet.
type XLSXConfig struct {
	SheetIndex int `yaml:"sheet_index" mapstructure:"sheet_index"`
}

// BatchConfig configures list processing concurrency.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks required configuration fields based on run mode.
// Supported modes: "ingest", "match", "export".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "ingest":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	case "match":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
		if c.Geocoder.GoogleKey == "" && c.Geocoder.CensusDisabled {
			errs = append(errs, "geocoder.google_key is required when census_disabled is true")
		}
	case "export":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Batch.Concurrency < 1 || c.Batch.Concurrency > 64 {
		errs = append(errs, "batch.concurrency must be between 1 and 64")
	}
	if c.Gazetteer.AutomaticThreshold < 0 || c.Gazetteer.AutomaticThreshold > 1 {
		errs = append(errs, "gazetteer.automatic_threshold must be between 0.0 and 1.0")
	}
	if c.Gazetteer.GazetteerThreshold < 0 || c.Gazetteer.GazetteerThreshold > 1 {
		errs = append(errs, "gazetteer.gazetteer_threshold must be between 0.0 and 1.0")
	}
	if c.Gazetteer.RecallWeight <= 0 {
		errs = append(errs, "gazetteer.recall_weight must be > 0")
	}

	if len(errs) > 0 {
		return eris.New(fmt.Sprintf("config: validation failed: %s", strings.Join(errs, "; ")))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LINKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("batch.concurrency", 8)
	v.SetDefault("geocoder.census_base_url", "https://geocoding.geo.census.gov/geocoder")
	v.SetDefault("geocoder.google_base_url", "https://maps.googleapis.com/maps/api/geocode/json")
	v.SetDefault("geocoder.timeout_secs", 10)
	v.SetDefault("geocoder.rate_limit_per_sec", 10)
	v.SetDefault("gazetteer.model_file_path", "gazetteer.model")
	v.SetDefault("gazetteer.training_file_path", "training.json")
	v.SetDefault("gazetteer.automatic_threshold", 0.8)
	v.SetDefault("gazetteer.gazetteer_threshold", 0.5)
	v.SetDefault("gazetteer.recall_weight", 1.0)
	v.SetDefault("ingest.xlsx.sheet_index", 0)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

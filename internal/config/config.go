package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Dataset  DatasetConfig  `yaml:"dataset" mapstructure:"dataset"`
	Geocoder GeocoderConfig `yaml:"geocoder" mapstructure:"geocoder"`
	Scoring  ScoringConfig  `yaml:"scoring" mapstructure:"scoring"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port              int      `yaml:"port" mapstructure:"port"`
	ReadTimeoutSecs   int      `yaml:"read_timeout_secs" mapstructure:"read_timeout_secs"`
	WriteTimeoutSecs  int      `yaml:"write_timeout_secs" mapstructure:"write_timeout_secs"`
	ShutdownGraceSecs int      `yaml:"shutdown_grace_secs" mapstructure:"shutdown_grace_secs"`
	CORSOrigins       []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// DatasetConfig configures where the static datasets come from.
type DatasetConfig struct {
	Driver     string `yaml:"driver" mapstructure:"driver"`
	EventsPath string `yaml:"events_path" mapstructure:"events_path"`
	PointsPath string `yaml:"points_path" mapstructure:"points_path"`
	DSN        string `yaml:"dsn" mapstructure:"dsn"`
	MaxConns   int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns   int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// GeocoderConfig configures location resolution.
type GeocoderConfig struct {
	TimeoutSecs int                    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	External    ExternalGeocoderConfig `yaml:"external" mapstructure:"external"`
}

// ExternalGeocoderConfig holds the optional upstream geocoding API settings.
// The external resolver stays disabled until base_url is set.
type ExternalGeocoderConfig struct {
	BaseURL          string  `yaml:"base_url" mapstructure:"base_url"`
	APIKey           string  `yaml:"api_key" mapstructure:"api_key"`
	RateLimit        float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	Burst            int     `yaml:"burst" mapstructure:"burst"`
	FailureThreshold int     `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int     `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// ScoringConfig points at the optional scoring weights file.
type ScoringConfig struct {
	ConfigPath string `yaml:"config_path" mapstructure:"config_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SITERISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_secs", 15)
	v.SetDefault("server.write_timeout_secs", 30)
	v.SetDefault("server.shutdown_grace_secs", 10)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("dataset.driver", "file")
	v.SetDefault("dataset.events_path", "data/delhi_events.json")
	v.SetDefault("dataset.points_path", "data/delhi_points.geojson")
	v.SetDefault("dataset.max_conns", 10)
	v.SetDefault("dataset.min_conns", 2)
	v.SetDefault("geocoder.timeout_secs", 5)
	v.SetDefault("geocoder.external.rate_limit", 1.0)
	v.SetDefault("geocoder.external.burst", 1)
	v.SetDefault("geocoder.external.failure_threshold", 3)
	v.SetDefault("geocoder.external.reset_timeout_secs", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validDrivers enumerates the dataset providers that can be constructed.
var validDrivers = map[string]bool{
	"static":   true,
	"file":     true,
	"sqlite":   true,
	"postgres": true,
}

// Validate rejects configurations that would fail at provider construction.
func (c *Config) Validate() error {
	if !validDrivers[c.Dataset.Driver] {
		return eris.Errorf("config: unknown dataset driver %q", c.Dataset.Driver)
	}
	if c.Dataset.Driver == "postgres" && c.Dataset.DSN == "" {
		return eris.New("config: dataset driver postgres requires dataset.dsn")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.Geocoder.TimeoutSecs <= 0 {
		return eris.New("config: geocoder timeout must be positive")
	}
	if c.Geocoder.External.BaseURL != "" && c.Geocoder.External.RateLimit <= 0 {
		return eris.New("config: external geocoder rate limit must be positive")
	}
	return nil
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

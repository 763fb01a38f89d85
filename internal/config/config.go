package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the engine configuration, loaded from the environment with an
// optional .env file.
type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// DefsDir points at a definitions directory (segments.json,
	// tables.json, trigger_events.json). Empty falls back to the builtin
	// starter set.
	DefsDir string `mapstructure:"DEFS_DIR"`

	// DatasetsDB is an optional SQLite database of demographic datasets
	// for generated values. Empty uses the embedded datasets.
	DatasetsDB string `mapstructure:"DATASETS_DB"`

	// VendorRulesFile overrides the builtin vendor name rule table.
	VendorRulesFile string `mapstructure:"VENDOR_RULES_FILE"`
	// VendorConfigsFile is the vendor configuration registry used for
	// fingerprint ranking and updated by learning.
	VendorConfigsFile string `mapstructure:"VENDOR_CONFIGS_FILE"`

	// Composer header identity defaults.
	SendingApp        string `mapstructure:"SENDING_APP"`
	SendingFacility   string `mapstructure:"SENDING_FACILITY"`
	ReceivingApp      string `mapstructure:"RECEIVING_APP"`
	ReceivingFacility string `mapstructure:"RECEIVING_FACILITY"`
	ProcessingID      string `mapstructure:"PROCESSING_ID"`
	DefaultVersion    string `mapstructure:"DEFAULT_VERSION"`

	ValidateMode string `mapstructure:"VALIDATE_MODE"`
	CacheSize    int    `mapstructure:"CACHE_SIZE"`
	LearnWorkers int    `mapstructure:"LEARN_WORKERS"`
}

// Load reads configuration from the environment, with a .env file honored
// when present.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PROCESSING_ID", "P")
	v.SetDefault("DEFAULT_VERSION", "2.5.1")
	v.SetDefault("VALIDATE_MODE", "strict")
	v.SetDefault("CACHE_SIZE", 512)
	v.SetDefault("LEARN_WORKERS", 0)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("DEFS_DIR")
	v.BindEnv("DATASETS_DB")
	v.BindEnv("VENDOR_RULES_FILE")
	v.BindEnv("VENDOR_CONFIGS_FILE")
	v.BindEnv("SENDING_APP")
	v.BindEnv("SENDING_FACILITY")
	v.BindEnv("RECEIVING_APP")
	v.BindEnv("RECEIVING_FACILITY")
	v.BindEnv("PROCESSING_ID")
	v.BindEnv("DEFAULT_VERSION")
	v.BindEnv("VALIDATE_MODE")
	v.BindEnv("CACHE_SIZE")
	v.BindEnv("LEARN_WORKERS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is usable before any component is
// wired up from it.
func (c *Config) Validate() error {
	switch c.ProcessingID {
	case "D", "P", "T":
	default:
		return fmt.Errorf("PROCESSING_ID must be \"D\", \"P\", or \"T\", got %q", c.ProcessingID)
	}
	switch c.ValidateMode {
	case "strict", "compatibility", "lenient":
	default:
		return fmt.Errorf("VALIDATE_MODE must be \"strict\", \"compatibility\", or \"lenient\", got %q", c.ValidateMode)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("CACHE_SIZE must not be negative, got %d", c.CacheSize)
	}
	if c.LearnWorkers < 0 {
		return fmt.Errorf("LEARN_WORKERS must not be negative, got %d", c.LearnWorkers)
	}
	return nil
}

// Package config loads application configuration from file and environment
// and initializes the global logger.
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
	Audit  AuditConfig  `yaml:"audit" mapstructure:"audit"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// AuditConfig configures the classification pipeline.
type AuditConfig struct {
	Contamination  float64  `yaml:"contamination" mapstructure:"contamination"`
	Seed           int64    `yaml:"seed" mapstructure:"seed"`
	Trees          int      `yaml:"trees" mapstructure:"trees"`
	SampleSize     int      `yaml:"sample_size" mapstructure:"sample_size"`
	MinPhoneDigits int      `yaml:"min_phone_digits" mapstructure:"min_phone_digits"`
	Blacklist      []string `yaml:"blacklist" mapstructure:"blacklist"`
	PreviewRows    int      `yaml:"preview_rows" mapstructure:"preview_rows"`
}

// ServerConfig configures the upload server.
type ServerConfig struct {
	Port        int   `yaml:"port" mapstructure:"port"`
	MaxUploadMB int64 `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
	TimeoutSecs int   `yaml:"timeout_secs" mapstructure:"timeout_secs"`
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
	v.SetEnvPrefix("LEADAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("server.timeout_secs", 60)
	v.SetDefault("audit.contamination", 0.20)
	v.SetDefault("audit.seed", 42)
	v.SetDefault("audit.trees", 100)
	v.SetDefault("audit.sample_size", 256)
	v.SetDefault("audit.min_phone_digits", 10)
	v.SetDefault("audit.blacklist", []string{"BOT", "TEST", "FAKE"})
	v.SetDefault("audit.preview_rows", 10)

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

// Validate checks that an AuditConfig is internally consistent.
func Validate(c AuditConfig) error {
	var errs []string

	if c.Contamination < 0 || c.Contamination >= 1 {
		errs = append(errs, "contamination must be in [0, 1)")
	}
	if c.Trees <= 0 {
		errs = append(errs, "trees must be > 0")
	}
	if c.SampleSize <= 0 {
		errs = append(errs, "sample_size must be > 0")
	}
	if c.MinPhoneDigits < 0 {
		errs = append(errs, "min_phone_digits must be >= 0")
	}
	if c.PreviewRows < 0 {
		errs = append(errs, "preview_rows must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: audit validation failed: %s", strings.Join(errs, "; "))
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

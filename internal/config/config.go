package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/prospect-ingest/internal/normalize"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig       `yaml:"store" mapstructure:"store"`
	Normalize normalize.Options `yaml:"normalize" mapstructure:"normalize"`
	Match     MatchConfig       `yaml:"match" mapstructure:"match"`
	Batch     BatchConfig       `yaml:"batch" mapstructure:"batch"`
	Extract   ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	Validate  ValidateConfig    `yaml:"validate" mapstructure:"validate"`
	Import    ImportConfig      `yaml:"import" mapstructure:"import"`
	Log       LogConfig         `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// MatchConfig configures duplicate detection.
type MatchConfig struct {
	Strategy         string  `yaml:"strategy" mapstructure:"strategy"`
	Threshold        float64 `yaml:"threshold" mapstructure:"threshold"`
	IgnoreDiacritics bool    `yaml:"ignore_diacritics" mapstructure:"ignore_diacritics"`
}

// BatchConfig configures concurrent batch processing.
type BatchConfig struct {
	Concurrency    int  `yaml:"concurrency" mapstructure:"concurrency"`
	RetryAttempts  int  `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RetryDelaySecs int  `yaml:"retry_delay_secs" mapstructure:"retry_delay_secs"`
	SkipErrors     bool `yaml:"skip_errors" mapstructure:"skip_errors"`
	ChunkSize      int  `yaml:"chunk_size" mapstructure:"chunk_size"`
	ChunkDelaySecs int  `yaml:"chunk_delay_secs" mapstructure:"chunk_delay_secs"`
}

// ExtractConfig configures company page extraction.
type ExtractConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// ValidateConfig configures schema validation.
type ValidateConfig struct {
	SchemaPath string `yaml:"schema_path" mapstructure:"schema_path"`
}

// ImportConfig configures file import.
type ImportConfig struct {
	MappingPath string `yaml:"mapping_path" mapstructure:"mapping_path"`
	Delimiter   string `yaml:"delimiter" mapstructure:"delimiter"`
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
	v.SetEnvPrefix("PROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "prospects.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("normalize.email", true)
	v.SetDefault("normalize.person_name", true)
	v.SetDefault("normalize.company_name", true)
	v.SetDefault("normalize.phone", true)
	v.SetDefault("normalize.url", true)
	v.SetDefault("normalize.vocab", true)
	v.SetDefault("normalize.location", true)
	v.SetDefault("normalize.infer_domain", true)
	v.SetDefault("normalize.default_country_code", "1")
	v.SetDefault("match.strategy", "fuzzy")
	// 0 leaves each matching strategy on its own built-in threshold.
	v.SetDefault("match.threshold", 0)
	v.SetDefault("match.ignore_diacritics", true)
	v.SetDefault("batch.concurrency", 5)
	v.SetDefault("batch.retry_attempts", 3)
	v.SetDefault("batch.retry_delay_secs", 1)
	v.SetDefault("batch.skip_errors", true)
	v.SetDefault("batch.chunk_size", 10)
	v.SetDefault("batch.chunk_delay_secs", 1)
	v.SetDefault("extract.timeout_secs", 30)
	v.SetDefault("extract.user_agent", "prospect-ingest/1.0")
	v.SetDefault("extract.concurrency", 3)
	v.SetDefault("import.delimiter", ",")
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

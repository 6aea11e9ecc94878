package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the application's configuration
type Config struct {
	WebPort                 int           `mapstructure:"WEB_PORT"`
	LogLevel                string        `mapstructure:"LOG_LEVEL"`
	LLMHost                 string        `mapstructure:"LLM_HOST"`
	LLMModels               []string      `mapstructure:"LLM_MODELS"`
	DefaultModel            string        `mapstructure:"DEFAULT_MODEL"`
	LLMRequestTimeout       time.Duration `mapstructure:"LLM_REQUEST_TIMEOUT"`
	MaxRetries              int           `mapstructure:"MAX_RETRIES"`
	RetryDelaySeconds       time.Duration `mapstructure:"RETRY_DELAY_SECONDS"`
	LLMBackoffMaxSeconds    time.Duration `mapstructure:"LLM_BACKOFF_MAX_SECONDS"`
	LLMBackoffJitterRatio   float64       `mapstructure:"LLM_BACKOFF_JITTER_RATIO"`
	ContextLength           int           `mapstructure:"CONTEXT_LENGTH"`
	CardDelimiter           string        `mapstructure:"CARD_DELIMITER"`
	MaxClozeWords           int           `mapstructure:"MAX_CLOZE_WORDS"`
	LibraryPath             string        `mapstructure:"LIBRARY_PATH"`
	AuthPassword            string        `mapstructure:"AUTH_PASSWORD"`
	SessionSecret           string        `mapstructure:"SESSION_SECRET"`
	SessionTTL              time.Duration `mapstructure:"SESSION_TTL"`
	RateLimitRequestsPerMin int           `mapstructure:"RATE_LIMIT_REQUESTS_PER_MIN"`
	RateLimitBurstSize      int           `mapstructure:"RATE_LIMIT_BURST_SIZE"`
	RateLimitCacheSize      int           `mapstructure:"RATE_LIMIT_CACHE_SIZE"`
	MaxLearnedExamples      int           `mapstructure:"MAX_LEARNED_EXAMPLES"`
	RefineTemperature       float64       `mapstructure:"REFINE_TEMPERATURE"`
	ComposeTemperature      float64       `mapstructure:"COMPOSE_TEMPERATURE"`
	MaxPDFPages             int           `mapstructure:"MAX_PDF_PAGES"`
}

func Load(logger *zap.Logger) *Config {
	var config Config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")        // For running locally
	viper.AddConfigPath("../")      // For running from docker subdir
	viper.AddConfigPath("./config") // Common config folder
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("WEB_PORT", 8090)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LLM_HOST", "http://localhost:8080")
	viper.SetDefault("LLM_MODELS", []string{})
	viper.SetDefault("DEFAULT_MODEL", "")
	viper.SetDefault("LLM_REQUEST_TIMEOUT", 120)
	viper.SetDefault("MAX_RETRIES", 5)
	viper.SetDefault("RETRY_DELAY_SECONDS", 2)
	viper.SetDefault("LLM_BACKOFF_MAX_SECONDS", 30)
	viper.SetDefault("LLM_BACKOFF_JITTER_RATIO", 0.1)
	viper.SetDefault("CONTEXT_LENGTH", 8192)
	viper.SetDefault("CARD_DELIMITER", "===CARD===")
	viper.SetDefault("MAX_CLOZE_WORDS", 3)
	viper.SetDefault("LIBRARY_PATH", "library.db")
	viper.SetDefault("AUTH_PASSWORD", "")
	viper.SetDefault("SESSION_SECRET", "")
	viper.SetDefault("SESSION_TTL", 720)
	viper.SetDefault("RATE_LIMIT_REQUESTS_PER_MIN", 20)
	viper.SetDefault("RATE_LIMIT_BURST_SIZE", 5)
	viper.SetDefault("RATE_LIMIT_CACHE_SIZE", 1024)
	viper.SetDefault("MAX_LEARNED_EXAMPLES", 8)
	viper.SetDefault("REFINE_TEMPERATURE", 0.3)
	viper.SetDefault("COMPOSE_TEMPERATURE", 0.7)
	viper.SetDefault("MAX_PDF_PAGES", 50)

	if err := viper.ReadInConfig(); err != nil {
		if logger != nil {
			logger.Warn("Could not read config file, using defaults/env vars", zap.Error(err))
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		// Config unmarshaling is critical - fail fast during bootstrap
		if logger != nil {
			logger.Fatal("Unable to decode config into struct", zap.Error(err))
		} else {
			// Fallback if logger not available (should not happen in practice)
			fmt.Fprintf(os.Stderr, "FATAL: Unable to decode config into struct: %v\n", err)
			os.Exit(1)
		}
	}

	// Normalize the model list and pick a default when none is set.
	cleaned := make([]string, 0, len(config.LLMModels))
	for _, name := range config.LLMModels {
		name = strings.TrimSpace(name)
		if name != "" {
			cleaned = append(cleaned, name)
		}
	}
	config.LLMModels = cleaned
	if config.DefaultModel == "" && len(config.LLMModels) > 0 {
		config.DefaultModel = config.LLMModels[0]
	}

	if config.CardDelimiter == "" {
		config.CardDelimiter = "===CARD==="
	}
	if config.MaxClozeWords < 1 {
		config.MaxClozeWords = 3
	}

	// Convert seconds/hours to proper time.Duration
	config.RetryDelaySeconds = config.RetryDelaySeconds * time.Second
	config.LLMRequestTimeout = config.LLMRequestTimeout * time.Second
	config.LLMBackoffMaxSeconds = config.LLMBackoffMaxSeconds * time.Second
	config.SessionTTL = config.SessionTTL * time.Hour

	return &config
}

// ModelAllowed reports whether name may be requested by a client. An
// empty model list permits any name (the server decides), and an empty
// name always resolves to the default model.
func (c *Config) ModelAllowed(name string) bool {
	if name == "" || len(c.LLMModels) == 0 {
		return true
	}
	for _, m := range c.LLMModels {
		if m == name {
			return true
		}
	}
	return false
}

// ResolveModel maps an empty client model name to the configured default.
func (c *Config) ResolveModel(name string) string {
	if name == "" {
		return c.DefaultModel
	}
	return name
}

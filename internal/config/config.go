// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	score "github.com/hltran/product-scout/pkg/scorer"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Tiki     TikiConfig     `yaml:"tiki"`
	LLM      LLMConfig      `yaml:"llm"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// TikiConfig defines the Tiki catalog API client settings.
type TikiConfig struct {
	BaseURL   string          `yaml:"base_url"`
	PageSize  int             `yaml:"page_size"`
	MaxPages  int             `yaml:"max_pages"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines token-bucket rate limiting settings.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// LLMConfig defines the AI re-ranking backend settings.
// An empty backend disables AI ranking; evaluations then return the
// mathematical scores only.
type LLMConfig struct {
	Backend      string             `yaml:"backend"` // "", gemini, openai_compat
	Gemini       GeminiConfig       `yaml:"gemini"`
	OpenAICompat OpenAICompatConfig `yaml:"openai_compat"`
	Temperature  float64            `yaml:"temperature"`
	MaxTokens    int                `yaml:"max_tokens"`
	Timeout      time.Duration      `yaml:"timeout"`
}

// GeminiConfig defines Gemini API settings. The API key comes from the
// GEMINI_API_KEY environment variable.
type GeminiConfig struct {
	Model string `yaml:"model"`
}

// OpenAICompatConfig defines OpenAI-compatible endpoint settings.
type OpenAICompatConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
}

// ScoringConfig defines scoring weights, thresholds, the markup table,
// and the fee model. Zero-valued sections fall back to the engine
// defaults.
type ScoringConfig struct {
	Weights     *score.Weights    `yaml:"weights"`
	Thresholds  *score.Thresholds `yaml:"thresholds"`
	PriceTiers  []score.PriceTier `yaml:"price_tiers"`
	Fees        *score.FeeModel   `yaml:"fees"`
	ShippingFee float64           `yaml:"shipping_fee"`
	TopN        int               `yaml:"top_n"` // candidates sent to AI ranking
}

// Criteria returns the configured default criteria, filling unset
// sections with the engine defaults.
func (s *ScoringConfig) Criteria() score.Criteria {
	c := score.DefaultCriteria()
	if s.Weights != nil {
		c.Weights = *s.Weights
	}
	if s.Thresholds != nil {
		c.Thresholds = *s.Thresholds
	}
	return c
}

// Tiers returns the configured markup table or the engine default.
func (s *ScoringConfig) Tiers() []score.PriceTier {
	if len(s.PriceTiers) > 0 {
		return s.PriceTiers
	}
	return score.DefaultPriceTiers()
}

// FeeModel returns the configured fee model or the engine default.
func (s *ScoringConfig) FeeModel() score.FeeModel {
	if s.Fees != nil {
		return *s.Fees
	}
	return score.DefaultFeeModel()
}

// ScheduleConfig defines the retention purge schedule for stored
// evaluations.
type ScheduleConfig struct {
	RetentionInterval time.Duration `yaml:"retention_interval"`
	RetentionAge      time.Duration `yaml:"retention_age"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyTikiDefaults(&cfg.Tiki)
	applyLLMDefaults(&cfg.LLM)
	applyScoringDefaults(&cfg.Scoring)
	applyScheduleDefaults(&cfg.Schedule)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyTikiDefaults(t *TikiConfig) {
	if t.BaseURL == "" {
		t.BaseURL = "https://tiki.vn/api/v2"
	}
	if t.PageSize == 0 {
		t.PageSize = 40
	}
	if t.MaxPages == 0 {
		t.MaxPages = 3
	}
	if t.Timeout == 0 {
		t.Timeout = 30 * time.Second
	}
	if t.RateLimit.PerSecond == 0 {
		t.RateLimit.PerSecond = 0.5
	}
	if t.RateLimit.Burst == 0 {
		t.RateLimit.Burst = 1
	}
}

func applyLLMDefaults(l *LLMConfig) {
	if l.Gemini.Model == "" {
		l.Gemini.Model = "gemini-2.5-flash-lite"
	}
	if l.Temperature == 0 {
		l.Temperature = 0.7
	}
	if l.MaxTokens == 0 {
		l.MaxTokens = 16384
	}
	if l.Timeout == 0 {
		l.Timeout = 60 * time.Second
	}
}

func applyScoringDefaults(s *ScoringConfig) {
	if s.TopN == 0 {
		s.TopN = 20
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.RetentionInterval == 0 {
		s.RetentionInterval = 24 * time.Hour
	}
	if s.RetentionAge == 0 {
		s.RetentionAge = 30 * 24 * time.Hour
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	switch cfg.LLM.Backend {
	case "", "gemini":
		// Gemini reads its key from the environment; nothing else to check.
	case "openai_compat":
		if cfg.LLM.OpenAICompat.Endpoint == "" {
			errs = append(
				errs,
				fmt.Errorf("llm.openai_compat.endpoint is required when backend is openai_compat"),
			)
		}
	default:
		errs = append(
			errs,
			fmt.Errorf(
				"llm.backend must be one of: gemini, openai_compat, or empty to disable (got %q)",
				cfg.LLM.Backend,
			),
		)
	}

	if tiers := cfg.Scoring.PriceTiers; len(tiers) > 0 {
		for i := 1; i < len(tiers); i++ {
			if tiers[i].Min <= tiers[i-1].Max {
				errs = append(errs, fmt.Errorf(
					"scoring.price_tiers must be ordered and non-overlapping (band %d)", i,
				))
			}
		}
		if tiers[len(tiers)-1].Max != 0 {
			errs = append(errs, fmt.Errorf("scoring.price_tiers last band must be open-ended (max 0)"))
		}
	}

	return errors.Join(errs...)
}

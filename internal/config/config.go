// Package config loads the risk engine configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultServiceName     = "jobshield"
	defaultServiceVersion  = "1.0.0"
	defaultServicePort     = 8090
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 60 * time.Second
	defaultShutdownTimeout = 30 * time.Second

	defaultModelArtifactPath = "models/fraud_model.json"

	defaultIndexBaseURL      = "https://api.adzuna.com/v1/api/jobs"
	defaultIndexCountry      = "us"
	defaultIndexTimeout      = 8 * time.Second
	defaultIndexMaxPages     = 2
	defaultIndexPageSize     = 50
	defaultIndexMaxMatches   = 100
	defaultIndexRateRPS      = 5
	defaultIndexRateBurst    = 5
	defaultTitleSimilarity   = 75.0
	defaultCompanySimilarity = 70.0

	defaultDatabasePath = "jobshield.db"

	defaultLogLevel = "info"
)

// Config holds all configuration for the risk engine service.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Model    ModelConfig    `yaml:"model"`
	JobIndex JobIndexConfig `yaml:"job_index"`
	Signals  SignalsConfig  `yaml:"signals"`
	Combiner CombinerConfig `yaml:"combiner"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Auth     AuthConfig     `yaml:"auth"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name            string        `yaml:"name"`
	Version         string        `yaml:"version"`
	Port            int           `env:"JOBSHIELD_PORT" yaml:"port"`
	Debug           bool          `env:"APP_DEBUG"      yaml:"debug"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ModelConfig holds classifier artifact configuration.
type ModelConfig struct {
	ArtifactPath string `env:"MODEL_ARTIFACT_PATH" yaml:"artifact_path"`
}

// JobIndexConfig holds the public job index client configuration.
type JobIndexConfig struct {
	BaseURL           string        `env:"ADZUNA_BASE_URL" yaml:"base_url"`
	AppID             string        `env:"ADZUNA_APP_ID"   yaml:"app_id"`
	AppKey            string        `env:"ADZUNA_APP_KEY"  yaml:"app_key"`
	Country           string        `env:"ADZUNA_COUNTRY"  yaml:"country"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxPages          int           `yaml:"max_pages"`
	PageSize          int           `yaml:"page_size"`
	MaxMatches        int           `yaml:"max_matches"`
	RateRPS           int           `yaml:"rate_rps"`
	RateBurst         int           `yaml:"rate_burst"`
	TitleSimilarity   float64       `yaml:"title_similarity"`
	CompanySimilarity float64       `yaml:"company_similarity"`
}

// SignalsConfig seeds the curated signal lists. The lists live in the store
// after first start; these values are only written when the store is empty.
type SignalsConfig struct {
	ScamPhrases        []string `yaml:"scam_phrases"`
	FreeEmailDomains   []string `yaml:"free_email_domains"`
	DisposablePatterns []string `yaml:"disposable_patterns"`
}

// CombinerConfig holds the tunable fusion weights, expressed in percentage
// points of the final fake score.
type CombinerConfig struct {
	KeywordStep      float64 `yaml:"keyword_step"`
	KeywordCap       float64 `yaml:"keyword_cap"`
	FreeDomainStep   float64 `yaml:"free_domain_step"`
	DisposableStep   float64 `yaml:"disposable_step"`
	MismatchStep     float64 `yaml:"mismatch_step"`
	CleanEmailBonus  float64 `yaml:"clean_email_bonus"`
	IndexFoundBonus  float64 `yaml:"index_found_bonus"`
	VerdictThreshold int     `yaml:"verdict_threshold"`
}

// DatabaseConfig holds the SQLite store configuration.
type DatabaseConfig struct {
	Path string `env:"JOBSHIELD_DB_PATH" yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `env:"LOG_LEVEL" yaml:"level"`
	Development bool   `yaml:"development"`
}

// AuthConfig holds authentication configuration. An empty secret disables
// JWT protection on the API group.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
}

// SetDefaults applies default values to unset fields.
func (c *Config) SetDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = defaultServiceName
	}
	if c.Service.Version == "" {
		c.Service.Version = defaultServiceVersion
	}
	if c.Service.Port == 0 {
		c.Service.Port = defaultServicePort
	}
	if c.Service.ReadTimeout == 0 {
		c.Service.ReadTimeout = defaultReadTimeout
	}
	if c.Service.WriteTimeout == 0 {
		c.Service.WriteTimeout = defaultWriteTimeout
	}
	if c.Service.ShutdownTimeout == 0 {
		c.Service.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Model.ArtifactPath == "" {
		c.Model.ArtifactPath = defaultModelArtifactPath
	}
	if c.JobIndex.BaseURL == "" {
		c.JobIndex.BaseURL = defaultIndexBaseURL
	}
	if c.JobIndex.Country == "" {
		c.JobIndex.Country = defaultIndexCountry
	}
	if c.JobIndex.Timeout == 0 {
		c.JobIndex.Timeout = defaultIndexTimeout
	}
	if c.JobIndex.MaxPages == 0 {
		c.JobIndex.MaxPages = defaultIndexMaxPages
	}
	if c.JobIndex.PageSize == 0 {
		c.JobIndex.PageSize = defaultIndexPageSize
	}
	if c.JobIndex.MaxMatches == 0 {
		c.JobIndex.MaxMatches = defaultIndexMaxMatches
	}
	if c.JobIndex.RateRPS == 0 {
		c.JobIndex.RateRPS = defaultIndexRateRPS
	}
	if c.JobIndex.RateBurst == 0 {
		c.JobIndex.RateBurst = defaultIndexRateBurst
	}
	if c.JobIndex.TitleSimilarity == 0 {
		c.JobIndex.TitleSimilarity = defaultTitleSimilarity
	}
	if c.JobIndex.CompanySimilarity == 0 {
		c.JobIndex.CompanySimilarity = defaultCompanySimilarity
	}
	if len(c.Signals.ScamPhrases) == 0 {
		c.Signals.ScamPhrases = DefaultScamPhrases()
	}
	if len(c.Signals.FreeEmailDomains) == 0 {
		c.Signals.FreeEmailDomains = DefaultFreeEmailDomains()
	}
	if len(c.Signals.DisposablePatterns) == 0 {
		c.Signals.DisposablePatterns = DefaultDisposablePatterns()
	}
	c.Combiner.SetDefaults()
	if c.Database.Path == "" {
		c.Database.Path = defaultDatabasePath
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// Default combiner weights, in percentage points.
const (
	defaultKeywordStep      = 5.0
	defaultKeywordCap       = 25.0
	defaultFreeDomainStep   = 10.0
	defaultDisposableStep   = 20.0
	defaultMismatchStep     = 15.0
	defaultCleanEmailBonus  = 5.0
	defaultIndexFoundBonus  = 15.0
	defaultVerdictThreshold = 50
)

// SetDefaults applies default fusion weights to unset fields.
func (c *CombinerConfig) SetDefaults() {
	if c.KeywordStep == 0 {
		c.KeywordStep = defaultKeywordStep
	}
	if c.KeywordCap == 0 {
		c.KeywordCap = defaultKeywordCap
	}
	if c.FreeDomainStep == 0 {
		c.FreeDomainStep = defaultFreeDomainStep
	}
	if c.DisposableStep == 0 {
		c.DisposableStep = defaultDisposableStep
	}
	if c.MismatchStep == 0 {
		c.MismatchStep = defaultMismatchStep
	}
	if c.CleanEmailBonus == 0 {
		c.CleanEmailBonus = defaultCleanEmailBonus
	}
	if c.IndexFoundBonus == 0 {
		c.IndexFoundBonus = defaultIndexFoundBonus
	}
	if c.VerdictThreshold == 0 {
		c.VerdictThreshold = defaultVerdictThreshold
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid service port %d", c.Service.Port)
	}
	if c.Model.ArtifactPath == "" {
		return errors.New("model artifact path is required")
	}
	if c.JobIndex.MaxPages < 1 {
		return fmt.Errorf("job index max_pages must be >= 1, got %d", c.JobIndex.MaxPages)
	}
	if c.JobIndex.PageSize < 1 {
		return fmt.Errorf("job index page_size must be >= 1, got %d", c.JobIndex.PageSize)
	}
	if c.Combiner.VerdictThreshold < 1 || c.Combiner.VerdictThreshold > 99 {
		return fmt.Errorf("verdict threshold must be in [1,99], got %d", c.Combiner.VerdictThreshold)
	}
	return nil
}

// DefaultScamPhrases returns the built-in scam phrase seed list. Order is
// significant: keyword hits are reported in this order.
func DefaultScamPhrases() []string {
	return []string{
		"no interview",
		"quick money",
		"wire transfer",
		"urgent hiring",
		"send your bank",
		"gift card",
		"training fee",
		"application fee",
		"crypto",
		"whatsapp only",
		"telegram only",
		"immediate joining no experience",
		"ssn",
		"pay to start",
	}
}

// DefaultFreeEmailDomains returns the built-in consumer webmail seed list.
func DefaultFreeEmailDomains() []string {
	return []string{
		"gmail.com",
		"yahoo.com",
		"outlook.com",
		"hotmail.com",
		"live.com",
		"icloud.com",
		"aol.com",
		"proton.me",
		"protonmail.com",
		"zoho.com",
		"mail.com",
	}
}

// DefaultDisposablePatterns returns the built-in disposable-domain substring
// seed list.
func DefaultDisposablePatterns() []string {
	return []string{
		"tempmail",
		"10minutemail",
		"mailinator",
		"guerrillamail",
	}
}

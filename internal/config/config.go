package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/OmarAli141/resumes-comparison/internal/domain/match/params"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/scoring"
)

// Config holds the resmatch configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Matching   MatchingConfig   `yaml:"matching"`
	Expansion  ExpansionConfig  `yaml:"expansion"`
	TitleIndex TitleIndexConfig `yaml:"title_index"`
	Shortlist  ShortlistConfig  `yaml:"shortlist"`
	Auth       AuthConfig       `yaml:"auth"`
	Index      IndexConfig      `yaml:"index"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds vector index connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// IndexConfig holds HNSW index settings.
type IndexConfig struct {
	HNSWM           int `yaml:"hnsw_m"`
	HNSWEFConstruct int `yaml:"hnsw_ef_construction"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// EmbeddingConfig holds the embedding provider and vectorizer settings.
type EmbeddingConfig struct {
	Provider            string        `yaml:"provider"` // label for metrics
	APIKey              string        `yaml:"api_key"`
	BaseURL             string        `yaml:"base_url"`
	Model               string        `yaml:"model"`
	Dimensions          int           `yaml:"dimensions"`
	DocumentInstruction string        `yaml:"document_instruction"`
	QueryInstruction    string        `yaml:"query_instruction"`
	CacheTTL            time.Duration `yaml:"cache_ttl"` // 0 = no expiry
	MaxBatch            int           `yaml:"max_batch"` // texts per provider request
}

// MatchingConfig holds the default match parameters.
type MatchingConfig struct {
	TopKInitial    int           `yaml:"top_k_initial"`
	TopKFinal      int           `yaml:"top_k_final"`
	MinScoreAccept *float64      `yaml:"min_score_accept"`
	VariantTimeout time.Duration `yaml:"variant_timeout"`
	MaxParallel    int           `yaml:"max_parallel"`
	// Overfetch multiplies top_k_initial for each k-NN query.
	Overfetch      int           `yaml:"overfetch"`
	BoostMode      string        `yaml:"boost_mode"` // additive (default), multiplicative, none
	TitleBoost     *float64      `yaml:"title_boost"`
}

// ExpansionConfig holds query expansion settings.
type ExpansionConfig struct {
	MaxVariants   int                 `yaml:"max_variants"`
	Sections      bool                `yaml:"sections"`
	RelatedTitles RelatedTitlesConfig `yaml:"related_titles"`
	Paraphrase    ParaphraseConfig    `yaml:"paraphrase"`
}

// RelatedTitlesConfig holds related-title expansion settings.
type RelatedTitlesConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Threshold  float64 `yaml:"threshold"`
	MaxSimilar int     `yaml:"max_similar"`
}

// ParaphraseConfig holds LLM paraphrase settings.
type ParaphraseConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Provider       string  `yaml:"provider"` // openai, gemini
	APIKey         string  `yaml:"api_key"`
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	Temperature    float32 `yaml:"temperature"`
	MaxParaphrases int     `yaml:"max_paraphrases"`
}

// TitleIndexConfig holds title index snapshot settings.
type TitleIndexConfig struct {
	Path     string `yaml:"path"`
	Required bool   `yaml:"required"`
	Keep     int    `yaml:"keep_generations"`
}

// ShortlistConfig holds shortlist store settings.
type ShortlistConfig struct {
	Path string `yaml:"path"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML, substitutes env variables, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from RESMATCH_ENV or ENV, defaulting to "local".
func GetEnv() string {
	for _, key := range []string{"RESMATCH_ENV", "ENV"} {
		if env := os.Getenv(key); env != "" {
			return env
		}
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1536
	}
	c.Matching.applyDefaults()
	c.Expansion.applyDefaults()
	if c.TitleIndex.Path == "" {
		c.TitleIndex.Path = "data/title_index.db"
	}
	if c.Shortlist.Path == "" {
		c.Shortlist.Path = "data/shortlists.db"
	}
	if c.Index.HNSWM <= 0 {
		c.Index.HNSWM = 32
	}
	if c.Index.HNSWEFConstruct <= 0 {
		c.Index.HNSWEFConstruct = 400
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "resmatch:"
	}
}

func (m *MatchingConfig) applyDefaults() {
	if m.TopKInitial <= 0 {
		m.TopKInitial = params.DefaultTopKInitial
	}
	if m.TopKFinal <= 0 {
		m.TopKFinal = params.DefaultTopKFinal
	}
	if m.MinScoreAccept == nil {
		v := params.DefaultMinScoreAccept
		m.MinScoreAccept = &v
	}
	if m.VariantTimeout <= 0 {
		m.VariantTimeout = 5 * time.Second
	}
	if m.MaxParallel <= 0 {
		m.MaxParallel = 8
	}
	if m.Overfetch <= 0 {
		m.Overfetch = 1
	}
	if m.BoostMode == "" {
		m.BoostMode = scoring.ModeAdditive
	}
	if m.TitleBoost == nil {
		v := 0.05
		m.TitleBoost = &v
	}
}

func (e *ExpansionConfig) applyDefaults() {
	if e.MaxVariants <= 0 {
		e.MaxVariants = 8
	}
	if e.RelatedTitles.Threshold <= 0 {
		e.RelatedTitles.Threshold = 0.65
	}
	if e.RelatedTitles.MaxSimilar <= 0 {
		e.RelatedTitles.MaxSimilar = 10
	}
	if e.Paraphrase.Provider == "" {
		e.Paraphrase.Provider = "openai"
	}
	if e.Paraphrase.MaxParaphrases <= 0 {
		e.Paraphrase.MaxParaphrases = 3
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "valkey", "redis":
	default:
		return fmt.Errorf("database.driver must be \"valkey\" or \"redis\", got %q", c.Database.Driver)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	if _, err := c.Matching.Params(); err != nil {
		return fmt.Errorf("matching: %w", err)
	}
	if _, err := c.Matching.Boost(); err != nil {
		return fmt.Errorf("matching.title_boost: %w", err)
	}
	if t := c.Expansion.RelatedTitles.Threshold; t > 1 {
		return fmt.Errorf("expansion.related_titles.threshold must be in (0,1], got %g", t)
	}
	if c.Expansion.Paraphrase.Enabled {
		switch c.Expansion.Paraphrase.Provider {
		case "openai", "gemini":
		default:
			return fmt.Errorf(
				"expansion.paraphrase.provider must be \"openai\" or \"gemini\", got %q",
				c.Expansion.Paraphrase.Provider,
			)
		}
	}
	return nil
}

// Params returns the validated default match parameters.
func (m MatchingConfig) Params() (params.Params, error) {
	minScore := params.DefaultMinScoreAccept
	if m.MinScoreAccept != nil {
		minScore = *m.MinScoreAccept
	}
	return params.New(m.TopKInitial, m.TopKFinal, minScore)
}

// Boost returns the configured title boost policy.
func (m MatchingConfig) Boost() (scoring.BoostPolicy, error) {
	magnitude := 0.0
	if m.TitleBoost != nil {
		magnitude = *m.TitleBoost
	}
	return scoring.NewPolicy(m.BoostMode, magnitude)
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

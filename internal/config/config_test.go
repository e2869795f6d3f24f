package config

import (
	"strings"
	"testing"
	"time"

	"github.com/OmarAli141/resumes-comparison/internal/domain/match/scoring"
)

func validConfig() Config {
	cfg := Config{
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 70000

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing addrs")
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "memcached"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	expected := `database.driver must be "valkey" or "redis", got "memcached"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_Matching(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MatchingConfig)
	}{
		{"final above initial", func(m *MatchingConfig) { m.TopKInitial, m.TopKFinal = 5, 10 }},
		{"threshold above one", func(m *MatchingConfig) { v := 1.5; m.MinScoreAccept = &v }},
		{"negative boost", func(m *MatchingConfig) { v := -0.1; m.TitleBoost = &v }},
		{"unknown boost mode", func(m *MatchingConfig) { m.BoostMode = "exponential" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg.Matching)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidate_ParaphraseProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Expansion.Paraphrase.Provider = "anthropic"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled paraphrase must not be validated: %v", err)
	}

	cfg.Expansion.Paraphrase.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown paraphrase provider")
	}

	for _, p := range []string{"openai", "gemini"} {
		cfg.Expansion.Paraphrase.Provider = p
		if err := cfg.Validate(); err != nil {
			t.Errorf("provider %q: unexpected error: %v", p, err)
		}
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected Port=8080, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Database.Driver != "valkey" {
		t.Errorf("expected Driver=valkey, got %q", cfg.Database.Driver)
	}
	if cfg.Index.HNSWM != 32 {
		t.Errorf("expected HNSWM=32, got %d", cfg.Index.HNSWM)
	}
	if cfg.Storage.KeyPrefix != "resmatch:" {
		t.Errorf("expected KeyPrefix='resmatch:', got %q", cfg.Storage.KeyPrefix)
	}

	p, err := cfg.Matching.Params()
	if err != nil {
		t.Fatalf("default params: %v", err)
	}
	if p.TopKInitial() != 80 || p.TopKFinal() != 10 || p.MinScoreAccept() != 0.70 {
		t.Errorf("unexpected default params: %d/%d/%g", p.TopKInitial(), p.TopKFinal(), p.MinScoreAccept())
	}
	if cfg.Matching.VariantTimeout != 5*time.Second {
		t.Errorf("expected VariantTimeout=5s, got %s", cfg.Matching.VariantTimeout)
	}
	if cfg.Matching.MaxParallel != 8 || cfg.Matching.Overfetch != 1 {
		t.Errorf("max_parallel/overfetch = %d/%d, want 8/1", cfg.Matching.MaxParallel, cfg.Matching.Overfetch)
	}

	boost, err := cfg.Matching.Boost()
	if err != nil {
		t.Fatalf("default boost: %v", err)
	}
	if boost != (scoring.Additive{Amount: 0.05}) {
		t.Errorf("unexpected default boost: %#v", boost)
	}

	if cfg.Expansion.MaxVariants != 8 {
		t.Errorf("expected MaxVariants=8, got %d", cfg.Expansion.MaxVariants)
	}
	if cfg.Expansion.RelatedTitles.Threshold != 0.65 {
		t.Errorf("expected Threshold=0.65, got %g", cfg.Expansion.RelatedTitles.Threshold)
	}
	if cfg.Expansion.Paraphrase.MaxParaphrases != 3 {
		t.Errorf("expected MaxParaphrases=3, got %d", cfg.Expansion.Paraphrase.MaxParaphrases)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	zero := 0.0
	cfg := Config{
		HTTP:     HTTPConfig{Port: 9000, ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Matching: MatchingConfig{MinScoreAccept: &zero, TitleBoost: &zero},
		Storage:  StorageConfig{KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 9000 {
		t.Errorf("expected Port=9000, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if *cfg.Matching.MinScoreAccept != 0 {
		t.Errorf("explicit zero threshold must be kept, got %g", *cfg.Matching.MinScoreAccept)
	}
	boost, err := cfg.Matching.Boost()
	if err != nil {
		t.Fatalf("boost: %v", err)
	}
	if _, ok := boost.(scoring.NoBoost); !ok {
		t.Errorf("zero title boost should disable boosting, got %#v", boost)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("RESMATCH_TEST_ADDR", "valkey:6379")
	t.Setenv("RESMATCH_TEST_KEY", "")

	data := []byte(`
database:
  addrs: ["${RESMATCH_TEST_ADDR}"]
embedding:
  api_key: "${RESMATCH_TEST_KEY:-sk-local}"
  dimensions: 1024
matching:
  top_k_initial: 40
  top_k_final: 5
  min_score_accept: 0.6
  variant_timeout: 2s
unknown_section:
  ignored: true
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(cfg.Database.Addrs, ","); got != "valkey:6379" {
		t.Errorf("addrs = %q", got)
	}
	if cfg.Embedding.APIKey != "sk-local" {
		t.Errorf("api_key = %q, want default", cfg.Embedding.APIKey)
	}
	if cfg.Embedding.Dimensions != 1024 {
		t.Errorf("dimensions = %d", cfg.Embedding.Dimensions)
	}
	if cfg.Matching.VariantTimeout != 2*time.Second {
		t.Errorf("variant_timeout = %s", cfg.Matching.VariantTimeout)
	}
	p, err := cfg.Matching.Params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if p.TopKInitial() != 40 || p.TopKFinal() != 5 || p.MinScoreAccept() != 0.6 {
		t.Errorf("unexpected params: %d/%d/%g", p.TopKInitial(), p.TopKFinal(), p.MinScoreAccept())
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("database: [")); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := Parse([]byte("http:\n  port: 8080\n")); err == nil {
		t.Fatal("expected validation error for missing addrs")
	}
}

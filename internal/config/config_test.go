package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:   HTTPConfig{Port: 8080},
		Corpus: CorpusConfig{CSVPath: "data/subjects.csv"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"database only", func(c *Config) {
			c.Corpus.CSVPath = ""
			c.Database.Addrs = []string{"localhost:6379"}
		}, ""},
		{"invalid port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"no corpus source", func(c *Config) { c.Corpus.CSVPath = "" }, "corpus.csv_path or database.addrs"},
		{"bad driver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"multi-char separator", func(c *Config) { c.Corpus.Separator = ";;" }, "corpus.separator"},
		{"top_n too large", func(c *Config) { c.Corpus.DefaultTopN = 501 }, "corpus.default_top_n"},
		{"bcrypt cost too low", func(c *Config) { c.Auth.BcryptCost = 2 }, "auth.bcrypt_cost"},
		{"temperature", func(c *Config) { c.LLM.Temperature = 3 }, "llm.temperature"},
		{"negative rate limit", func(c *Config) { c.HTTP.RateLimitPerMin = -1 }, "http.rate_limit_per_min"},
		{"negative cache ttl", func(c *Config) { c.LLM.CacheTTLSec = -1 }, "llm.cache_ttl_sec"},
		{"budget action", func(c *Config) { c.LLM.Budget.Action = "invalid_action" },
			`llm.budget.action must be "warn" or "reject", got "invalid_action"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %v, want it to mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidate_ValidBudgetActions(t *testing.T) {
	for _, action := range []string{"", "warn", "reject"} {
		t.Run("action="+action, func(t *testing.T) {
			cfg := validConfig()
			cfg.LLM.Budget.Action = action
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for valid action %q: %v", action, err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	checks := []struct {
		name      string
		got, want any
	}{
		{"ReadTimeoutSec", cfg.HTTP.ReadTimeoutSec, 10},
		{"WriteTimeoutSec", cfg.HTTP.WriteTimeoutSec, 60},
		{"ShutdownSec", cfg.HTTP.ShutdownSec, 10},
		{"MaxUploadMB", cfg.HTTP.MaxUploadMB, 16},
		{"Driver", cfg.Database.Driver, "valkey"},
		{"ReadinessTimeout", cfg.Database.ReadinessTimeout, 10},
		{"Separator", cfg.Corpus.Separator, ";"},
		{"DefaultTopN", cfg.Corpus.DefaultTopN, 15},
		{"TopTags", cfg.Corpus.TopTags, 10},
		{"BcryptCost", cfg.Auth.BcryptCost, 10},
		{"Provider", cfg.LLM.Provider, "openai"},
		{"MaxTokens", cfg.LLM.MaxTokens, 1024},
		{"BudgetAction", cfg.LLM.Budget.Action, "warn"},
		{"BreakerFailures", cfg.LLM.Breaker.Failures, 5},
		{"BreakerOpenTimeout", cfg.LLM.Breaker.OpenTimeoutSec, 30},
		{"KeyPrefix", cfg.Storage.KeyPrefix, "thesisrec:"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if cfg.Database.Enabled() {
		t.Error("database must be disabled without addrs")
	}
	if cfg.LLM.Enabled() {
		t.Error("llm must be disabled without a model")
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{Corpus: CorpusConfig{DefaultTopN: 5, Separator: ","}}
	cfg.ApplyDefaults()
	if cfg.Corpus.DefaultTopN != 5 || cfg.Corpus.SeparatorRune() != ',' {
		t.Errorf("explicit values overwritten: %+v", cfg.Corpus)
	}
}

func TestSeparatorRune_Empty(t *testing.T) {
	if r := (CorpusConfig{}).SeparatorRune(); r != ';' {
		t.Errorf("SeparatorRune() = %q, want ';'", r)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("THESISREC_TEST_KEY", "secret")

	in := "key: ${THESISREC_TEST_KEY}\nmodel: ${THESISREC_TEST_MISSING:-gpt-4o-mini}\nempty: ${THESISREC_TEST_MISSING}"
	got := string(expandEnvVars([]byte(in)))
	want := "key: secret\nmodel: gpt-4o-mini\nempty: "
	if got != want {
		t.Errorf("expandEnvVars() =\n%q\nwant\n%q", got, want)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `http:
  port: ${THESISREC_TEST_PORT:-9090}
corpus:
  csv_path: data/subjects.csv
  default_top_n: 20
llm:
  model: gpt-4o-mini
  api_key: ${THESISREC_TEST_LLM_KEY}
`
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("THESISREC_TEST_LLM_KEY", "sk-test")
	t.Chdir(dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.Corpus.DefaultTopN != 20 {
		t.Errorf("DefaultTopN = %d, want 20", cfg.Corpus.DefaultTopN)
	}
	if !cfg.LLM.Enabled() || cfg.LLM.APIKey != "sk-test" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.Storage.KeyPrefix != "thesisrec:" {
		t.Errorf("defaults not applied: %q", cfg.Storage.KeyPrefix)
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{}
	cfg.HTTP.Port = 8080
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Database.Driver != "memory" {
		t.Errorf("driver = %q, want memory", cfg.Database.Driver)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("embedding model = %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 1536 {
		t.Errorf("dimensions = %d, want 1536", cfg.Embedding.Dimensions)
	}
	if cfg.Generation.Model != "gpt-4o-mini" {
		t.Errorf("generation model = %q", cfg.Generation.Model)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Errorf("top_k = %d, want 5", cfg.Retrieval.TopK)
	}
	if cfg.Storage.KeyPrefix != "tutorrag:" {
		t.Errorf("key_prefix = %q", cfg.Storage.KeyPrefix)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("write timeout = %d, want 60", cfg.HTTP.WriteTimeoutSec)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{}
	cfg.Retrieval.TopK = 12
	cfg.Database.Driver = "redis"
	cfg.ApplyDefaults()

	if cfg.Retrieval.TopK != 12 {
		t.Errorf("top_k = %d, want 12", cfg.Retrieval.TopK)
	}
	if cfg.Database.Driver != "redis" {
		t.Errorf("driver = %q, want redis", cfg.Database.Driver)
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_Port(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := validConfig()
		cfg.HTTP.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d: expected error", port)
		}
	}
}

func TestValidate_RedisRequiresAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "redis"
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for redis driver without addrs")
	}

	cfg.Database.Addrs = []string{"localhost:6379"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "postgres"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if !strings.Contains(err.Error(), "postgres") {
		t.Errorf("error does not name the driver: %v", err)
	}
}

func TestValidate_CacheRequiresRedis(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Cache = true

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for embedding cache on the memory driver")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TUTORRAG_TEST_VAR", "redis-host:6379")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"set variable", "addr: ${TUTORRAG_TEST_VAR}", "addr: redis-host:6379"},
		{"unset variable", "addr: ${TUTORRAG_TEST_UNSET}", "addr: "},
		{"default used", "addr: ${TUTORRAG_TEST_UNSET:-fallback}", "addr: fallback"},
		{"default ignored when set", "addr: ${TUTORRAG_TEST_VAR:-fallback}", "addr: redis-host:6379"},
		{"no variables", "addr: plain", "addr: plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(expandEnvVars([]byte(tt.in))); got != tt.want {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}

	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}

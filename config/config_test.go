package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Redis         struct {
		Addr     string `mapstructure:"addr"`
		PoolSize int    `mapstructure:"pool_size"`
	} `mapstructure:"redis"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != EnvDevelopment {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected logging defaults, got %+v", cfg.Logging)
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: EnvProduction}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if !cfg.IsProduction() {
			t.Error("expected IsProduction")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: EnvStaging}, ""},
		{"missing name", ServiceConfig{Environment: EnvProduction}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	path := writeConfig(t, `
name: discovery
environment: staging
redis:
  addr: "127.0.0.1:6379"
  pool_size: 50
`)

	var cfg testConfig
	if err := LoadConfig("discovery", &cfg, WithConfigFile(path), WithEnvFile("/nonexistent/.env")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "discovery" || cfg.Environment != EnvStaging {
		t.Errorf("unexpected base config %+v", cfg.ServiceConfig)
	}
	if cfg.Redis.Addr != "127.0.0.1:6379" || cfg.Redis.PoolSize != 50 {
		t.Errorf("unexpected redis config %+v", cfg.Redis)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, `
name: discovery
redis:
  addr: "127.0.0.1:6379"
`)
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("REDIS_POOL_SIZE", "7")

	var cfg testConfig
	if err := LoadConfig("discovery", &cfg, WithConfigFile(path), WithEnvFile("/nonexistent/.env")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Redis.Addr != "redis.internal:6380" {
		t.Errorf("expected env override, got %q", cfg.Redis.Addr)
	}
	if cfg.Redis.PoolSize != 7 {
		t.Errorf("expected pool_size=7, got %d", cfg.Redis.PoolSize)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvFile("/nonexistent/.env"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := writeConfig(t, "name: [unterminated")
	var cfg testConfig
	if err := LoadConfig("discovery", &cfg, WithConfigFile(path), WithEnvFile("/nonexistent/.env")); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool   { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestLocateSearchesStandardPaths(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/discovery/config.yml": true,
		"./.env":                     true,
	}}
	files := Locate(fs, "discovery", Sources{})
	if files.ConfigFile != "./cmd/discovery/config.yml" {
		t.Errorf("unexpected config file %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("unexpected env file %q", files.EnvFile)
	}

	explicit := Locate(fs, "discovery", Sources{ConfigFile: "/etc/discovery.yml"})
	if explicit.ConfigFile != "/etc/discovery.yml" || explicit.EnvFile != "./.env" {
		t.Errorf("expected explicit config kept and env searched, got %+v", explicit)
	}
}

func TestEnvKeys(t *testing.T) {
	got := envKeys("REDIS_POOL_SIZE")
	want := []string{"redis_pool_size", "redis.pool_size", "redis.pool.size"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got := envKeys("NAME"); !reflect.DeepEqual(got, []string{"name"}) {
		t.Errorf("unexpected single-part variants %v", got)
	}
}

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:           "8080",
		StoreBackend:   BackendSQLite,
		SQLiteDBPath:   "./data/test.db",
		JWTSecret:      "secret",
		GeminiModel:    "gemini-2.5-flash",
		InsightTimeout: 30 * time.Second,
		RecordCacheTTL: time.Minute,
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.StoreBackend != BackendSQLite {
		t.Errorf("StoreBackend = %q, want %q", cfg.StoreBackend, BackendSQLite)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("GeminiModel = %q, want gemini-2.5-flash", cfg.GeminiModel)
	}
	if cfg.InsightTimeout != 30*time.Second {
		t.Errorf("InsightTimeout = %v, want 30s", cfg.InsightTimeout)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "bigquery")
	t.Setenv("INSIGHT_TIMEOUT", "10s")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.StoreBackend != BackendBigQuery {
		t.Errorf("StoreBackend = %q, want bigquery", cfg.StoreBackend)
	}
	if cfg.InsightTimeout != 10*time.Second {
		t.Errorf("InsightTimeout = %v, want 10s", cfg.InsightTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid sqlite config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid bigquery config",
			mutate: func(c *Config) {
				c.StoreBackend = BackendBigQuery
				c.BigQueryProjectID = "my-project"
				c.BigQueryDataset = "finance"
			},
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Port = "http" },
			wantErr: "invalid port",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = "70000" },
			wantErr: "invalid port",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.StoreBackend = "mongo" },
			wantErr: "invalid store backend",
		},
		{
			name: "bigquery without project",
			mutate: func(c *Config) {
				c.StoreBackend = BackendBigQuery
				c.BigQueryProjectID = ""
			},
			wantErr: "BIGQUERY_PROJECT_ID is required",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.SQLiteDBPath = "" },
			wantErr: "database path cannot be empty",
		},
		{
			name:    "non-positive timeout",
			mutate:  func(c *Config) { c.InsightTimeout = 0 },
			wantErr: "INSIGHT_TIMEOUT must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:      "postgres://localhost:5432/tastemap",
			MaxConns: 25,
			MinConns: 5,
		},
		Auth: AuthConfig{
			JWTSecret: strings.Repeat("s", 32),
			JWTIssuer: "tastemap",
		},
		Bulk: BulkConfig{
			MaxBatchItems:   500,
			MatchFloor:      0.2,
			MatchConfident:  0.9,
			SuggestionLimit: 5,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "short jwt secret", mutate: func(c *Config) { c.Auth.JWTSecret = "short" }},
		{name: "zero batch size", mutate: func(c *Config) { c.Bulk.MaxBatchItems = 0 }},
		{name: "floor above one", mutate: func(c *Config) { c.Bulk.MatchFloor = 1.5 }},
		{name: "confident above one", mutate: func(c *Config) { c.Bulk.MatchConfident = 1.5 }},
		{name: "floor above confident", mutate: func(c *Config) { c.Bulk.MatchFloor = 0.95 }},
		{name: "zero suggestion limit", mutate: func(c *Config) { c.Bulk.SuggestionLimit = 0 }},
		{name: "min conns above max", mutate: func(c *Config) { c.Database.MinConns = 50 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:           "8082",
		DataBackend:    "memory",
		SQLiteDBPath:   "./test.db",
		Timezone:       "UTC",
		LogLevel:       "info",
		RateLimitRPS:   10,
		RateLimitBurst: 30,
		CacheTTL:       5 * time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid memory backend config",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid sqlite backend config",
			mutate: func(c *Config) { c.DataBackend = "sqlite" },
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "mongo" },
			wantErr:     true,
			errorString: "invalid data backend 'mongo': must be one of [memory sqlite]",
		},
		{
			name: "sqlite backend missing database path",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name:        "invalid timezone",
			mutate:      func(c *Config) { c.Timezone = "Middle/Nowhere" },
			wantErr:     true,
			errorString: "invalid timezone 'Middle/Nowhere'",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name:        "invalid rate limit",
			mutate:      func(c *Config) { c.RateLimitRPS = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0: must be positive",
		},
		{
			name:        "invalid rate limit burst",
			mutate:      func(c *Config) { c.RateLimitBurst = 0 },
			wantErr:     true,
			errorString: "invalid rate limit burst 0: must be at least 1",
		},
		{
			name:        "cache TTL too short",
			mutate:      func(c *Config) { c.CacheTTL = 500 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid cache TTL 500ms: must be at least 1 second",
		},
		{
			name:        "cache TTL too long",
			mutate:      func(c *Config) { c.CacheTTL = 25 * time.Hour },
			wantErr:     true,
			errorString: "invalid cache TTL 25h0m0s: must be at most 24 hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr true")
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr false", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	vars := []string{"PORT", "DATA_BACKEND", "SQLITE_DB_PATH", "TIMEZONE", "LOG_LEVEL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CACHE_TTL"}
	original := map[string]string{}
	for _, key := range vars {
		original[key] = os.Getenv(key)
		os.Unsetenv(key)
	}
	defer func() {
		for key, value := range original {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()
		if cfg.Port != "8082" {
			t.Errorf("Load() Port = %v, want 8082", cfg.Port)
		}
		if cfg.DataBackend != "memory" {
			t.Errorf("Load() DataBackend = %v, want memory", cfg.DataBackend)
		}
		if cfg.Timezone != "UTC" {
			t.Errorf("Load() Timezone = %v, want UTC", cfg.Timezone)
		}
		if cfg.CacheTTL != 5*time.Minute {
			t.Errorf("Load() CacheTTL = %v, want 5m", cfg.CacheTTL)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		os.Setenv("PORT", "9090")
		os.Setenv("DATA_BACKEND", "sqlite")
		os.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		os.Setenv("CACHE_TTL", "90s")

		cfg := Load()
		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.DataBackend != "sqlite" {
			t.Errorf("Load() DataBackend = %v, want sqlite", cfg.DataBackend)
		}
		if cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want /tmp/test.db", cfg.SQLiteDBPath)
		}
		if cfg.CacheTTL != 90*time.Second {
			t.Errorf("Load() CacheTTL = %v, want 90s", cfg.CacheTTL)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		os.Setenv("CACHE_TTL", "invalid")
		os.Setenv("RATE_LIMIT_BURST", "invalid")

		cfg := Load()
		if cfg.CacheTTL != 5*time.Minute {
			t.Errorf("Load() CacheTTL = %v, want 5m (default for invalid input)", cfg.CacheTTL)
		}
		if cfg.RateLimitBurst != 30 {
			t.Errorf("Load() RateLimitBurst = %v, want 30 (default for invalid input)", cfg.RateLimitBurst)
		}
	})
}

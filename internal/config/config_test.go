package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("REWARD_PUBLIC_BASE_URL", "https://rewards.domain.ext/")
	t.Setenv("REWARD_JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("REWARD_REDIS_PASSWORD", "hunter2")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg := Load()

	if cfg.PublicBaseURL != "https://rewards.domain.ext" {
		t.Errorf("PublicBaseURL = %q, trailing slash should be trimmed", cfg.PublicBaseURL)
	}
	if cfg.StoreBackend != StoreRedis {
		t.Errorf("StoreBackend = %q, want %q", cfg.StoreBackend, StoreRedis)
	}
	if cfg.LinkMaxAge != 0 {
		t.Errorf("LinkMaxAge = %v, want 0 (expiry disabled)", cfg.LinkMaxAge)
	}
	if cfg.TokenTTL != 12*time.Hour {
		t.Errorf("TokenTTL = %v, want 12h", cfg.TokenTTL)
	}
	if cfg.ClaimRateBurst != 5 || cfg.ClaimRatePerMin != 10 {
		t.Errorf("claim rate = %d/%d, want 5/10", cfg.ClaimRateBurst, cfg.ClaimRatePerMin)
	}
}

func TestLoadPanics(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T)
	}{
		{
			name: "missing public base url",
			setup: func(t *testing.T) {
				setRequired(t)
				t.Setenv("REWARD_PUBLIC_BASE_URL", "")
			},
		},
		{
			name: "short jwt secret",
			setup: func(t *testing.T) {
				setRequired(t)
				t.Setenv("REWARD_JWT_SECRET", "short")
			},
		},
		{
			name: "redis password required",
			setup: func(t *testing.T) {
				setRequired(t)
				t.Setenv("REWARD_REDIS_PASSWORD", "")
			},
		},
		{
			name: "mongo without uri",
			setup: func(t *testing.T) {
				setRequired(t)
				t.Setenv("REWARD_STORE_BACKEND", "mongo")
			},
		},
		{
			name: "unknown backend",
			setup: func(t *testing.T) {
				setRequired(t)
				t.Setenv("REWARD_STORE_BACKEND", "firestore")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("Load() should have panicked")
				}
			}()
			Load()
		})
	}
}

func TestLoadMongo(t *testing.T) {
	setRequired(t)
	t.Setenv("REWARD_REDIS_PASSWORD", "")
	t.Setenv("REWARD_STORE_BACKEND", "MONGO")
	t.Setenv("REWARD_MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0")

	cfg := Load()
	if cfg.StoreBackend != StoreMongo {
		t.Errorf("StoreBackend = %q, want %q", cfg.StoreBackend, StoreMongo)
	}
	if cfg.MongoDatabase != "rewards" {
		t.Errorf("MongoDatabase = %q, want rewards", cfg.MongoDatabase)
	}
}

func TestRedacted(t *testing.T) {
	setRequired(t)
	cfg := Load()

	r := cfg.Redacted()
	if r.JWTSecret == cfg.JWTSecret || r.RedisPassword == cfg.RedisPassword {
		t.Error("Redacted() should hide secrets")
	}
	if cfg.JWTSecret != strings.Repeat("s", 32) {
		t.Error("Redacted() must not modify the original config")
	}
}

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{"true value", "TEST_BOOL", "true", false, true},
		{"false value", "TEST_BOOL_FALSE", "false", true, false},
		{"invalid value uses default", "TEST_BOOL_INVALID", "invalid", true, true},
		{"missing variable uses default", "TEST_BOOL_MISSING", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestParseAllowedIPs(t *testing.T) {
	got := parseAllowedIPs(` "10.0.0.0/8", 192.168.1.4 ,,`)
	want := []string{"10.0.0.0/8", "192.168.1.4"}
	if len(got) != len(want) {
		t.Fatalf("parseAllowedIPs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parseAllowedIPs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if parseAllowedIPs("") != nil {
		t.Error("parseAllowedIPs(\"\") should be nil")
	}
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreRedis = "redis"
	StoreMongo = "mongo"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout for non-streaming routes

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	PublicBaseURL string // origin used to build shareable links (ex: https://rewards.domain.ext)

	// Admin directory & sessions
	AdminFile           string        // path to admins.yaml
	AdminReloadInterval time.Duration // interval to reload admins.yaml (default: 5m)
	JWTSecret           string        // HS256 signing key for admin tokens
	TokenTTL            time.Duration // admin token lifetime (default: 12h)

	// Links
	LinkMaxAge     time.Duration // deactivate links older than this (0 = never)
	ExpiryInterval time.Duration // how often the expiry sweeper runs

	// Store
	StoreBackend string // "redis" | "mongo"

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Mongo (only when StoreBackend == "mongo")
	MongoURI            string        // ex: "mongodb://localhost:27017/?replicaSet=rs0"
	MongoDatabase       string        // ex: "rewards"
	MongoConnectTimeout time.Duration // ex: 10s

	// Access restrictions
	AllowedCIDRS []string // optional, restrict probes and reload to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	// Public submission rate limit (per client IP)
	ClaimRateBurst  int
	ClaimRatePerMin int
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("REWARD_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("REWARD_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("REWARD_REQUEST_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("REWARD_LOG_LEVEL", "info"),
		PrettyLog: mustBool("REWARD_PRETTY_LOG", true),

		PublicBaseURL: strings.TrimRight(requireEnv("REWARD_PUBLIC_BASE_URL"), "/"),

		// Admins
		AdminFile:           getenv("REWARD_ADMIN_FILE", "/app/admins.yaml"),
		AdminReloadInterval: mustDuration("REWARD_ADMIN_RELOAD_INTERVAL", 5*time.Minute),
		JWTSecret:           requireEnv("REWARD_JWT_SECRET"),
		TokenTTL:            mustDuration("REWARD_TOKEN_TTL", 12*time.Hour),

		// Links
		LinkMaxAge:     mustDuration("REWARD_LINK_MAX_AGE", 0),
		ExpiryInterval: mustDuration("REWARD_LINK_EXPIRY_INTERVAL", time.Hour),

		StoreBackend: strings.ToLower(getenv("REWARD_STORE_BACKEND", StoreRedis)),

		// Redis settings
		RedisAddr:             getenv("REWARD_REDIS_ADDR", "localhost:6379"),
		RedisUser:             getenv("REWARD_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("REWARD_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("REWARD_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("REWARD_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Mongo settings
		MongoURI:            getenv("REWARD_MONGO_URI", ""),
		MongoDatabase:       getenv("REWARD_MONGO_DATABASE", "rewards"),
		MongoConnectTimeout: mustDuration("REWARD_MONGO_CONNECT_TIMEOUT", 10*time.Second),

		// Access restrictions
		AllowedCIDRS: parseAllowedIPs(getenv("REWARD_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("REWARD_TRUST_PROXY", true),

		ClaimRateBurst:  getenvInt("REWARD_CLAIM_RATE_BURST", 5),
		ClaimRatePerMin: getenvInt("REWARD_CLAIM_RATE_PER_MIN", 10),
	}

	if err := cfg.validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case StoreRedis:
		if c.RedisPasswordRequired && c.RedisPassword == "" {
			return fmt.Errorf("REWARD_REDIS_PASSWORD is required when REWARD_REDIS_PASSWORD_REQUIRED=true")
		}
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("REWARD_MONGO_URI is required when REWARD_STORE_BACKEND=mongo")
		}
	default:
		return fmt.Errorf("unknown REWARD_STORE_BACKEND %q (want %q or %q)", c.StoreBackend, StoreRedis, StoreMongo)
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("REWARD_JWT_SECRET must be at least 32 bytes")
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	cp.JWTSecret = "***REDACTED***"
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.RedisUser != "" {
		cp.RedisUser = "***REDACTED***"
	}
	if cp.MongoURI != "" {
		cp.MongoURI = "***REDACTED***"
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	return splitAndTrim(allowed)
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

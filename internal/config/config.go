package config

import (
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Store backends
const (
	StoreRedis  = "redis"
	StoreBadger = "badger"
	StoreMemory = "memory"
)

// importFormats mirrors sources.Formats; config stays free of parser imports.
var importFormats = []string{"homepage", "homepage-services", "chromium"}

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Store          string        // "redis" | "badger" | "memory"
	BadgerDir      string        // badger directory when Store is badger
	ReloadInterval time.Duration // periodic convergence reload (default: 5m)
	ImportFile     string        // imported once at startup when the store is empty (optional)
	ImportFormat   string        // "homepage" | "homepage-services" | "chromium"
	SortLocale     string        // BCP-47 tag for name sorting
	SearchLimit    int           // max search results

	RateBurst     int // write API burst per client IP
	RatePerMinute int // write API refill per client IP

	// Redis (only read when Store is redis)
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

	AllowedHosts []string // optional, restrict admin routes to specific Host headers
	AllowedCIDRS []string // optional, restrict admin routes to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SHELF_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SHELF_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("SHELF_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SHELF_PRETTY_LOG", true),

		// Storage and bookmarks
		Store:          strings.ToLower(getenv("SHELF_STORE", StoreRedis)),
		BadgerDir:      getenv("SHELF_BADGER_DIR", "/data/shelf"),
		ReloadInterval: mustDuration("SHELF_RELOAD_INTERVAL", 5*time.Minute),
		ImportFile:     getenv("SHELF_IMPORT_FILE", ""),
		ImportFormat:   getenv("SHELF_IMPORT_FORMAT", "homepage"),
		SortLocale:     getenv("SHELF_SORT_LOCALE", "en"),
		SearchLimit:    getenvInt("SHELF_SEARCH_LIMIT", 50),

		RateBurst:     getenvInt("SHELF_RATE_BURST", 20),
		RatePerMinute: getenvInt("SHELF_RATE_PER_MINUTE", 120),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("SHELF_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("SHELF_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("SHELF_TRUST_PROXY", true),
	}

	if !slices.Contains([]string{StoreRedis, StoreBadger, StoreMemory}, cfg.Store) {
		panic(fmt.Sprintf("❌ FATAL: SHELF_STORE must be redis, badger or memory, got %q", cfg.Store))
	}
	if !slices.Contains(importFormats, cfg.ImportFormat) {
		panic(fmt.Sprintf("❌ FATAL: SHELF_IMPORT_FORMAT must be one of %v, got %q", importFormats, cfg.ImportFormat))
	}

	if cfg.Store == StoreRedis {
		loadRedis(cfg)
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("SHELF_REDIS_ADDR")
	cfg.RedisUser = getenv("SHELF_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("SHELF_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("SHELF_REDIS_PASSWORD", "")
	cfg.RedisDB = requireEnvInt("SHELF_REDIS_DB")
	cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: SHELF_REDIS_PASSWORD is required when SHELF_REDIS_PASSWORD_REQUIRED=true")
	}
}

// Lookups below fall back to def when the variable is unset or unparsable;
// the require* variants panic instead.

func getenv(key, def string) string {
	return lookup(key, def, func(v string) (string, error) { return v, nil })
}

func getenvInt(key string, def int) int {
	return lookup(key, def, strconv.Atoi)
}

func mustBool(key string, def bool) bool {
	return lookup(key, def, strconv.ParseBool)
}

func mustDuration(key string, def time.Duration) time.Duration {
	return lookup(key, def, time.ParseDuration)
}

func lookup[T any](key string, def T, parse func(string) (T, error)) T {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	out, err := parse(v)
	if err != nil {
		return def
	}
	return out
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := requireEnv(key)
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
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

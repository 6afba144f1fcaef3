package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/hwtrack/internal/domain"
)

// Storage drivers accepted by HWTRACK_STORAGE_DRIVER.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Inventory
	NearExpiryDays  int               // days before an expiry date that trigger a warning
	Categories      []domain.Category // accepted asset categories
	RequireUnitCost bool              // reject assets without a unit cost
	SeedFile        string            // optional YAML seed, empty = built-in sample data

	// Storage
	StorageDriver string // file | sqlite | redis | memory
	RecordKey     string // name of the durable record holding the collection
	DataFile      string // path of the JSON file when driver=file
	SQLitePath    string // database path when driver=sqlite

	// Redis (driver=redis only)
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration
	RedisWarnThreshold  int // warn after this many attempts

	// Expiry digest
	DigestInterval time.Duration // 0 disables the digest
	DigestHorizon  int           // days ahead to report

	// Access restrictions
	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers

	// Rate limit applied to mutating endpoints
	RateLimitBurst     int
	RateLimitPerMinute int
}

func Load() *Config {
	cfg := &Config{
		ListenPort:      getenv("HWTRACK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("HWTRACK_SHUTDOWN_TIMEOUT", 5*time.Second),

		LogLevel:  getenv("HWTRACK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("HWTRACK_PRETTY_LOG", true),

		NearExpiryDays:  getenvInt("HWTRACK_NEAR_EXPIRY_DAYS", domain.DefaultNearExpiryDays),
		Categories:      parseCategories(getenv("HWTRACK_CATEGORIES", "")),
		RequireUnitCost: mustBool("HWTRACK_REQUIRE_UNIT_COST", false),
		SeedFile:        getenv("HWTRACK_SEED_FILE", ""),

		StorageDriver: strings.ToLower(getenv("HWTRACK_STORAGE_DRIVER", DriverFile)),
		RecordKey:     getenv("HWTRACK_RECORD_KEY", "hardware-inventory"),
		DataFile:      getenv("HWTRACK_DATA_FILE", "./data/hardware-inventory.json"),
		SQLitePath:    getenv("HWTRACK_SQLITE_PATH", "./data/hwtrack.db"),

		RedisAddr:           getenv("HWTRACK_REDIS_ADDR", "localhost:6379"),
		RedisUser:           getenv("HWTRACK_REDIS_USERNAME", ""),
		RedisPassword:       getenv("HWTRACK_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("HWTRACK_REDIS_DB", 0),
		RedisDT:             mustDuration("HWTRACK_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("HWTRACK_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("HWTRACK_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("HWTRACK_REDIS_POOL_SIZE", 4),
		RedisConnectTimeout: mustDuration("HWTRACK_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("HWTRACK_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("HWTRACK_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("HWTRACK_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisWarnThreshold:  getenvInt("HWTRACK_REDIS_WARN_THRESHOLD", 3),

		DigestInterval: mustDuration("HWTRACK_DIGEST_INTERVAL", 24*time.Hour),
		DigestHorizon:  getenvInt("HWTRACK_DIGEST_HORIZON_DAYS", 90),

		AllowedHosts: splitAndTrim(getenv("HWTRACK_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("HWTRACK_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("HWTRACK_TRUST_PROXY", false),

		RateLimitBurst:     getenvInt("HWTRACK_RATE_LIMIT_BURST", 20),
		RateLimitPerMinute: getenvInt("HWTRACK_RATE_LIMIT_PER_MINUTE", 60),
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// Validate rejects settings the application cannot start with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverFile, DriverSQLite, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("HWTRACK_STORAGE_DRIVER must be one of file|sqlite|redis|memory, got %q", c.StorageDriver)
	}
	if c.NearExpiryDays < 0 {
		return fmt.Errorf("HWTRACK_NEAR_EXPIRY_DAYS must be >= 0, got %d", c.NearExpiryDays)
	}
	if c.RecordKey == "" {
		return fmt.Errorf("HWTRACK_RECORD_KEY must not be empty")
	}
	if c.DigestHorizon < 0 {
		return fmt.Errorf("HWTRACK_DIGEST_HORIZON_DAYS must be >= 0, got %d", c.DigestHorizon)
	}
	return nil
}

// Policy returns the status policy derived from the configuration.
func (c *Config) Policy() domain.Policy {
	return domain.Policy{NearExpiryDays: c.NearExpiryDays}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
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

func parseCategories(raw string) []domain.Category {
	parts := splitAndTrim(raw)
	if len(parts) == 0 {
		out := make([]domain.Category, len(domain.DefaultCategories))
		copy(out, domain.DefaultCategories)
		return out
	}
	out := make([]domain.Category, 0, len(parts))
	seen := make(map[domain.Category]bool, len(parts))
	for _, p := range parts {
		c := domain.Category(strings.ToLower(p))
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	// Older records without a category decode as "other", keep it accepted.
	if !seen[domain.CategoryOther] {
		out = append(out, domain.CategoryOther)
	}
	return out
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

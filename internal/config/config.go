// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	DBAutoMigrate bool   // apply embedded migrations at startup

	LogLevel  string // debug, info, warn, error
	LogFormat string // json or text; empty picks text in dev and json elsewhere

	Argon2Time      uint32 // argon2id passes
	Argon2MemoryKiB uint32 // argon2id memory in KiB
	Argon2Threads   uint8  // argon2id lanes

	RabbitMQURL          string // broker for auth audit events; empty disables publishing
	AuditConsumerEnabled bool   // run the audit log consumer in-process
	AuditLogDir          string // directory for audit.log

	CORSOrigins    []string      // allowed origins, "*" by default
	RequestTimeout time.Duration // upper bound on store calls per request
}

// Load reads a .env file when one exists and then builds a Config from the
// environment. Every missing required variable is reported in one error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}
	return fromEnv()
}

func fromEnv() (Config, error) {
	var r requirer
	cfg := Config{
		Env:           r.must("APP_ENV"),       // environment (dev/test/prod)
		Port:          r.must("APP_PORT"),      // port to bind the HTTP server
		DBUser:        r.must("DB_USER"),       // database user
		DBPass:        os.Getenv("DB_PASS"),    // database password (empty allowed)
		DBHost:        r.must("DB_HOST"),       // database host
		DBPort:        r.must("DB_PORT"),       // database port
		DBName:        r.must("DB_NAME"),       // database name
		DBAutoMigrate: envBool("DB_AUTO_MIGRATE", false),

		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: os.Getenv("LOG_FORMAT"),

		Argon2Time:      uint32(r.intIn("ARGON2_TIME", 2, 1, 100)),
		Argon2MemoryKiB: uint32(r.intIn("ARGON2_MEMORY_KIB", 19*1024, 8, 4*1024*1024)),
		Argon2Threads:   uint8(r.intIn("ARGON2_THREADS", 1, 1, 255)),

		RabbitMQURL:          firstEnv("RABBITMQ_URL", "AMQP_URL"),
		AuditConsumerEnabled: envBool("AUDIT_CONSUMER_ENABLED", false),
		AuditLogDir:          envStr("AUDIT_LOG_DIR", "logs"),

		CORSOrigins:    splitList(envStr("CORS_ORIGINS", "*")),
		RequestTimeout: envDur("REQUEST_TIMEOUT", 5*time.Second),
	}
	if err := r.err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// requirer collects problems with required variables instead of exiting on
// the first one.
type requirer struct {
	missing []string
	invalid []string
}

// must retrieves the value of a required environment variable.
func (r *requirer) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		r.missing = append(r.missing, key)
	}
	return v
}

// intIn is an optional integer bounded to [lo, hi].
func (r *requirer) intIn(key string, def, lo, hi int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		r.invalid = append(r.invalid, fmt.Sprintf("%s=%q", key, s))
		return def
	}
	return n
}

func (r *requirer) err() error {
	var errs []error
	if len(r.missing) > 0 {
		errs = append(errs, fmt.Errorf("missing required env vars: %s", strings.Join(r.missing, ", ")))
	}
	if len(r.invalid) > 0 {
		errs = append(errs, fmt.Errorf("invalid env values: %s", strings.Join(r.invalid, ", ")))
	}
	return errors.Join(errs...)
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

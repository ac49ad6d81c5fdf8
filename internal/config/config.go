// Package config provides configuration for the bookshelf binaries with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Catalog   CatalogConfig
	Server    ServerConfig
	Store     StoreConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
	File  string // Optional; stderr when empty
}

// CatalogConfig configures the client side: where the collection lives.
type CatalogConfig struct {
	URL     string        // Base URL; "/books" is appended (default: http://localhost:3000)
	Timeout time.Duration // Per-request timeout, 0 leaves the transport default
}

// ServerConfig holds the collection server's HTTP configuration.
type ServerConfig struct {
	Port         string        // default: 3000
	ReadTimeout  time.Duration // default: 15s
	WriteTimeout time.Duration // default: 15s
	IdleTimeout  time.Duration // default: 60s
}

// StoreConfig selects and locates the server's storage.
type StoreConfig struct {
	Backend   string // badger or sqlite
	DataPath  string // default: ~/.bookshelf/data
	SeedFile  string // db.json style file imported at startup
	SeedWatch bool   // re-import SeedFile when it changes
}

// RateLimitConfig holds per-client request limits for the server.
type RateLimitConfig struct {
	RPS   int
	Burst int
}

// CORSConfig holds allowed browser origins for the server.
type CORSConfig struct {
	Origins []string
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
//
// args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("bookshelf", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := fs.String("log-file", "", "Write logs to this file instead of stderr")

	catalogURL := fs.String("catalog-url", "", "Catalog base URL (default: http://localhost:3000)")
	catalogTimeout := fs.String("catalog-timeout", "", "Per-request timeout for catalog calls (default: none)")

	serverPort := fs.String("port", "", "Server port (default: 3000)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	backend := fs.String("store", "", "Store backend: badger or sqlite (default: badger)")
	dataPath := fs.String("data-path", "", "Directory for server data")
	seedFile := fs.String("seed", "", "db.json file to import at startup")
	seedWatch := fs.String("watch", "", "Re-import the seed file when it changes (default: false)")

	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed origins (default: *)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			File:  getConfigValue(*logFile, "LOG_FILE", ""),
		},
		Catalog: CatalogConfig{
			URL: getConfigValue(*catalogURL, "CATALOG_URL", "http://localhost:3000"),
		},
		Server: ServerConfig{
			Port: getConfigValue(*serverPort, "SERVER_PORT", "3000"),
		},
		Store: StoreConfig{
			Backend:   strings.ToLower(getConfigValue(*backend, "STORE_BACKEND", BackendBadger)),
			DataPath:  getConfigValue(*dataPath, "DATA_PATH", ""),
			SeedFile:  getConfigValue(*seedFile, "SEED_FILE", ""),
			SeedWatch: getBoolConfigValue(*seedWatch, "SEED_WATCH", false),
		},
		RateLimit: RateLimitConfig{
			RPS:   getIntConfigValue("", "RATE_LIMIT_RPS", 20),
			Burst: getIntConfigValue("", "RATE_LIMIT_BURST", 40),
		},
		CORS: CORSConfig{
			Origins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
		},
	}

	var err error
	if cfg.Catalog.Timeout, err = getDurationConfigValue(*catalogTimeout, "CATALOG_TIMEOUT", "0s"); err != nil {
		return nil, err
	}
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}
	if cfg.Store.SeedFile != "" {
		if cfg.Store.SeedFile, err = expandPath(cfg.Store.SeedFile, ""); err != nil {
			return nil, fmt.Errorf("invalid seed file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	u, err := url.Parse(c.Catalog.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid catalog url: %q", c.Catalog.URL)
	}
	if c.Catalog.Timeout < 0 {
		return errors.New("catalog timeout cannot be negative")
	}

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %s", c.Server.Port)
	}

	if c.Store.Backend != BackendBadger && c.Store.Backend != BackendSQLite {
		return fmt.Errorf("invalid store backend: %s (must be badger or sqlite)", c.Store.Backend)
	}
	if c.Store.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}
	if c.Store.SeedWatch && c.Store.SeedFile == "" {
		return errors.New("seed watch requires a seed file")
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("invalid rate limit: %d rps, burst %d", c.RateLimit.RPS, c.RateLimit.Burst)
	}

	return nil
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, ".bookshelf", "data")

	expanded, err := expandPath(c.Store.DataPath, defaultPath)
	if err != nil {
		return err
	}
	c.Store.DataPath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), strValue, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Real environment wins over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}

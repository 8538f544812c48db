// Package config provides application settings and per-request provider
// resolution from an explicit environment value.
//
// Settings are created via Load() which handles:
// - Environment variable parsing with validation
// - Default value application
//
// Provider configuration is re-resolved on every request via Resolver.Resolve.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment keys.
const (
	EnvProvider      = "AI_PROVIDER"
	EnvSiteURL       = "OPENROUTER_SITE_URL"
	EnvSiteName      = "OPENROUTER_SITE_NAME"
	EnvTimeout       = "LLM_TIMEOUT_SECS"
	EnvAddr          = "CODECHAT_ADDR"
	EnvLogLevel      = "CODECHAT_LOG_LEVEL"
	EnvLogFormat     = "CODECHAT_LOG_FORMAT"
	EnvRootCacheSize = "CODECHAT_ROOT_CACHE_SIZE"
)

// Defaults for optional keys.
const (
	DefaultProvider      = "openrouter"
	DefaultSiteURL       = "http://localhost:3001"
	DefaultSiteName      = "Code Chat"
	DefaultAddr          = ":3001"
	DefaultTimeoutSecs   = 60
	DefaultRootCacheSize = 128
)

// Environment is a snapshot of configuration key/value pairs.
// The resolver reads only from this value, never from the process directly.
type Environment map[string]string

// Get returns the value for key, or "" when unset.
func (e Environment) Get(key string) string {
	return e[key]
}

// GetOr returns the value for key, or fallback when unset or empty.
func (e Environment) GetOr(key, fallback string) string {
	if v := e[key]; v != "" {
		return v
	}
	return fallback
}

// FromOS captures the current process environment.
func FromOS() Environment {
	env := make(Environment)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// LoadEnvironment reads the given .env files and overlays the process
// environment on top, so process values win as with godotenv.Load.
// Missing files are skipped.
func LoadEnvironment(files ...string) (Environment, error) {
	env := make(Environment)
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		for k, v := range values {
			env[k] = v
		}
	}
	for k, v := range FromOS() {
		env[k] = v
	}
	return env, nil
}

// Settings holds process-level configuration.
type Settings struct {
	Addr          string
	Timeout       time.Duration
	LogLevel      string
	LogFormat     string
	RootCacheSize int
}

// Load creates settings from env.
// Returns an error if env contains invalid values.
func Load(env Environment) (Settings, error) {
	timeoutSecs, err := getEnvInt(env, EnvTimeout, DefaultTimeoutSecs)
	if err != nil {
		return Settings{}, err
	}
	if timeoutSecs <= 0 {
		return Settings{}, fmt.Errorf("invalid value for %s: must be positive", EnvTimeout)
	}

	cacheSize, err := getEnvInt(env, EnvRootCacheSize, DefaultRootCacheSize)
	if err != nil {
		return Settings{}, err
	}
	if cacheSize <= 0 {
		return Settings{}, fmt.Errorf("invalid value for %s: must be positive", EnvRootCacheSize)
	}

	return Settings{
		Addr:          env.GetOr(EnvAddr, DefaultAddr),
		Timeout:       time.Duration(timeoutSecs) * time.Second,
		LogLevel:      env.GetOr(EnvLogLevel, "info"),
		LogFormat:     env.GetOr(EnvLogFormat, "text"),
		RootCacheSize: cacheSize,
	}, nil
}

func getEnvInt(env Environment, key string, defaultVal int) (int, error) {
	val := env.Get(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}

// Package config provides configuration management for Gateward.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment represents the deployment environment.
type Environment string

const (
	// EnvDevelopment is the default local development environment.
	EnvDevelopment Environment = "development"
	// EnvStaging is the staging/pre-production environment.
	EnvStaging Environment = "staging"
	// EnvProduction is the production environment.
	EnvProduction Environment = "production"
)

// ServerConfig holds server-level configuration loaded from environment variables.
type ServerConfig struct {
	Environment Environment
	ListenAddr  string

	// IdentityBackendURL is the base URL of the credential-verification service.
	IdentityBackendURL string
	// DirectoryBackendURL is the base URL of the organization directory service.
	DirectoryBackendURL string
	// BackendTimeout bounds every outbound backend call (default: 5s).
	BackendTimeout time.Duration
	// DirectoryRefreshInterval is the tenant cache refresh period (default: 120s).
	DirectoryRefreshInterval time.Duration

	// SessionSecret signs session cookies; must be at least 32 bytes.
	SessionSecret []byte
	// SessionMaxAge is the session cookie lifetime in seconds (default: 86400).
	SessionMaxAge int
	// SecureCookies requires HTTPS for session cookies (default: true in production).
	SecureCookies bool

	// LoginRateLimit is the number of login attempts allowed per
	// LoginRatePeriod per client (default: 10 per 1m).
	LoginRateLimit  int64
	LoginRatePeriod string

	Proxy ProxyConfig
}

// ProxyConfig holds outbound proxy settings for backend calls.
type ProxyConfig struct {
	HTTPProxy   string
	HTTPSProxy  string
	SOCKS5Proxy string
	NoProxy     string
}

// HasProxy returns true if any proxy is configured.
func (c *ProxyConfig) HasProxy() bool {
	return c.HTTPProxy != "" || c.HTTPSProxy != "" || c.SOCKS5Proxy != ""
}

// LoadServerConfig reads server configuration from environment variables.
func LoadServerConfig() ServerConfig {
	env := Environment(os.Getenv("ENV"))
	switch env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// valid
	default:
		env = EnvDevelopment
	}

	sessionMaxAge := getEnvInt("SESSION_MAX_AGE", 86400)
	if sessionMaxAge < 0 {
		sessionMaxAge = 86400
	}

	backendTimeout := getEnvDuration("BACKEND_TIMEOUT", 5*time.Second)
	if backendTimeout <= 0 {
		backendTimeout = 5 * time.Second
	}

	refreshInterval := getEnvDuration("DIRECTORY_REFRESH_INTERVAL", 120*time.Second)
	if refreshInterval <= 0 {
		refreshInterval = 120 * time.Second
	}

	loginRateLimit := int64(getEnvInt("LOGIN_RATE_LIMIT", 10))
	if loginRateLimit <= 0 {
		loginRateLimit = 10
	}

	return ServerConfig{
		Environment:              env,
		ListenAddr:               getEnvString("LISTEN_ADDR", ":8080"),
		IdentityBackendURL:       os.Getenv("IDENTITY_BACKEND_URL"),
		DirectoryBackendURL:      os.Getenv("DIRECTORY_BACKEND_URL"),
		BackendTimeout:           backendTimeout,
		DirectoryRefreshInterval: refreshInterval,
		SessionSecret:            []byte(os.Getenv("SESSION_SECRET")),
		SessionMaxAge:            sessionMaxAge,
		SecureCookies:            getEnvBool("SECURE_COOKIES", env == EnvProduction),
		LoginRateLimit:           loginRateLimit,
		LoginRatePeriod:          getEnvString("LOGIN_RATE_PERIOD", "1m"),
		Proxy: ProxyConfig{
			HTTPProxy:   os.Getenv("HTTP_PROXY"),
			HTTPSProxy:  os.Getenv("HTTPS_PROXY"),
			SOCKS5Proxy: os.Getenv("SOCKS5_PROXY"),
			NoProxy:     os.Getenv("NO_PROXY"),
		},
	}
}

// Validate checks that the configuration has required fields for operation.
func (c *ServerConfig) Validate() error {
	if c.IdentityBackendURL == "" {
		return errors.New("IDENTITY_BACKEND_URL is required")
	}
	if c.DirectoryBackendURL == "" {
		return errors.New("DIRECTORY_BACKEND_URL is required")
	}
	if len(c.SessionSecret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 bytes")
	}
	return nil
}

// getEnvString reads a string from an environment variable, returning the default if unset.
func getEnvString(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt reads an integer from an environment variable, returning the default if unset or invalid.
func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvBool reads a boolean from an environment variable, returning the default if unset or invalid.
func getEnvBool(key string, defaultVal bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultVal
	}
}

// getEnvDuration reads a duration from an environment variable, returning the default if unset or invalid.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

// Package config resolves client settings from the environment and reads
// invoice and receipt documents from YAML files.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/rezonia/szamlazz-go/internal/envelope"
	"github.com/rezonia/szamlazz-go/internal/model"
	"github.com/rezonia/szamlazz-go/internal/wire"
)

// Environment variable names
const (
	EnvAPIKey          = "SZAMLAZZ_API_KEY"
	EnvUser            = "SZAMLAZZ_USER"
	EnvPassword        = "SZAMLAZZ_PASSWORD"
	EnvURL             = "SZAMLAZZ_URL"
	EnvTimeout         = "SZAMLAZZ_TIMEOUT"
	EnvEInvoice        = "SZAMLAZZ_E_INVOICE"
	EnvDownload        = "SZAMLAZZ_DOWNLOAD"
	EnvDownloadCount   = "SZAMLAZZ_DOWNLOAD_COUNT"
	EnvResponseVersion = "SZAMLAZZ_RESPONSE_VERSION"
	EnvLogLevel        = "LOG_LEVEL"
)

// Config encapsulates the client's runtime configuration
type Config struct {
	APIKey   string
	User     string
	Password string
	URL      string
	Timeout  time.Duration
	LogLevel string

	EInvoice        bool
	Download        bool
	DownloadCount   int
	ResponseVersion int
}

// Load resolves the configuration from environment variables, after loading
// a .env file from the working directory if one exists. Variables already set
// in the environment take precedence over the file.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// LoadFile is Load with an explicit .env path, which must exist
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil {
		return Config{}, errors.Wrapf(err, "load env file %s", path)
	}
	return FromEnv()
}

// FromEnv reads the configuration from the current environment only
func FromEnv() (Config, error) {
	cfg := Config{
		APIKey:          strings.TrimSpace(os.Getenv(EnvAPIKey)),
		User:            strings.TrimSpace(os.Getenv(EnvUser)),
		Password:        os.Getenv(EnvPassword),
		URL:             getEnv(EnvURL, wire.DefaultURL),
		Timeout:         getEnvAsDuration(EnvTimeout, 60*time.Second),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		EInvoice:        getEnvAsBool(EnvEInvoice, false),
		Download:        getEnvAsBool(EnvDownload, false),
		DownloadCount:   getEnvAsInt(EnvDownloadCount, 1),
		ResponseVersion: getEnvAsInt(EnvResponseVersion, model.ResponsePlainTextOrPDF.Value),
	}

	if cfg.DownloadCount < 1 {
		return cfg, errors.Errorf("invalid config: %s must be at least 1", EnvDownloadCount)
	}
	if _, ok := model.LookupResponseVersion(cfg.ResponseVersion); !ok {
		return cfg, errors.Errorf("invalid config: %s must be 1 (text/PDF) or 2 (XML)", EnvResponseVersion)
	}
	return cfg, nil
}

// Credentials builds the authentication form the configuration names
func (c Config) Credentials() (envelope.Credentials, error) {
	return envelope.NewCredentials(c.APIKey, c.User, c.Password)
}

// InvoiceSettings returns the per-request switches of invoice operations
func (c Config) InvoiceSettings() envelope.InvoiceSettings {
	rv, ok := model.LookupResponseVersion(c.ResponseVersion)
	if !ok {
		rv = model.ResponsePlainTextOrPDF
	}
	return envelope.InvoiceSettings{
		EInvoice:        c.EInvoice,
		Download:        c.Download,
		DownloadCount:   c.DownloadCount,
		ResponseVersion: rv,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

package sandbox

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultInvoicePrefix numbers invoices that carry no szamlaszamElotag
const DefaultInvoicePrefix = "SBX"

// Config holds sandbox configuration
type Config struct {
	Address  string `yaml:"address"`
	APIKey   string `yaml:"api_key"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	InvoicePrefix string `yaml:"invoice_prefix"`

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	Debug        bool          `yaml:"debug"`
}

// DefaultConfig listens on :8089 and accepts the agent key "sandbox"
func DefaultConfig() Config {
	return Config{
		Address:       ":8089",
		APIKey:        "sandbox",
		InvoicePrefix: DefaultInvoicePrefix,
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  30 * time.Second,
	}
}

// LoadConfig reads a YAML config file over DefaultConfig
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read sandbox config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse sandbox config %s", path)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if strings.TrimSpace(c.APIKey) == "" && strings.TrimSpace(c.User) == "" {
		return errors.New("sandbox config: api_key or user/password is required")
	}
	if strings.TrimSpace(c.User) != "" && c.Password == "" {
		return errors.New("sandbox config: password is required with user")
	}
	return nil
}

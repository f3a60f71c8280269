package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/szamlazz-go/internal/config"
	"github.com/rezonia/szamlazz-go/internal/logger"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	apiKey       string
	user         string
	password     string
	agentURL     string
	envFile      string
	timeout      time.Duration
	logJSON      bool

	// Resolved by initConfig
	cfg       config.Config
	configErr error
)

var rootCmd = &cobra.Command{
	Use:   "szamlazz",
	Short: "Issue and fetch Számlázz.hu invoices and receipts",
	Long: `szamlazz is a CLI for the Számlázz.hu invoicing agent.

Supports:
  - Issuing invoices and receipts from YAML document files
  - Fetching issued documents, optionally with their PDF
  - Reversing (storno) invoices
  - A local sandbox agent for development

Credentials come from flags, SZAMLAZZ_* environment variables, or a .env file.

Examples:
  # Preview the request document of an invoice
  szamlazz render invoice invoice.yaml

  # Issue an invoice and save its PDF
  szamlazz invoice issue invoice.yaml --download --save-pdf out/invoice.pdf

  # Fetch a receipt as a table
  szamlazz receipt get --id NYGT-2024-1 -f table

  # Run the sandbox and point the CLI at it
  szamlazz sandbox --address :8089
  szamlazz --url http://localhost:8089/szamla/ --api-key sandbox invoice issue invoice.yaml`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Agent key (env: SZAMLAZZ_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&user, "user", "", "Account user name (env: SZAMLAZZ_USER)")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Account password (env: SZAMLAZZ_PASSWORD)")
	rootCmd.PersistentFlags().StringVar(&agentURL, "url", "", "Agent endpoint (env: SZAMLAZZ_URL)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment from this file instead of ./.env")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout (env: SZAMLAZZ_TIMEOUT)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")

	// Load from environment variables if not set via flags
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if envFile != "" {
		cfg, configErr = config.LoadFile(envFile)
	} else {
		cfg, configErr = config.Load()
	}

	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	if user != "" {
		cfg.User = user
	}
	if password != "" {
		cfg.Password = password
	}
	if agentURL != "" {
		cfg.URL = agentURL
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Level: level, JSON: logJSON}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logger setup failed: %v\n", err)
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/szamlazz-go/internal/logger"
	"github.com/rezonia/szamlazz-go/internal/sandbox"
)

var (
	sandboxAddr   string
	sandboxConfig string
	sandboxPrefix string
	sandboxDebug  bool
	readTimeout   time.Duration
	writeTimeout  time.Duration
)

var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Run a local fake of the agent",
	Long: `Start a local HTTP server that behaves like the Számlázz.hu agent.

The sandbox accepts the same multipart requests on /szamla/, checks
credentials, numbers documents as <prefix>-<year>-<n>, keeps them in memory
and answers with the agent's headers and reply documents.

Credentials accepted are taken from --api-key/--user/--password, from a
YAML config file, or default to the agent key "sandbox".

Endpoints:
  - POST /szamla/  - Agent requests
  - GET  /health   - Health check

Examples:
  # Start the sandbox on the default port
  szamlazz sandbox

  # Start with a config file
  szamlazz sandbox --config sandbox.yaml --debug`,
	RunE: runSandbox,
}

func init() {
	rootCmd.AddCommand(sandboxCmd)

	sandboxCmd.Flags().StringVar(&sandboxAddr, "address", ":8089", "Server listen address")
	sandboxCmd.Flags().StringVar(&sandboxConfig, "config", "", "YAML config file")
	sandboxCmd.Flags().StringVar(&sandboxPrefix, "invoice-prefix", "", "Prefix of invoice numbers")
	sandboxCmd.Flags().BoolVar(&sandboxDebug, "debug", false, "Enable debug mode")
	sandboxCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	sandboxCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 30*time.Second, "HTTP write timeout")
}

// sandboxSettings resolves the sandbox config: file, then flags
func sandboxSettings(cmd *cobra.Command) (sandbox.Config, error) {
	config := sandbox.DefaultConfig()
	if sandboxConfig != "" {
		loaded, err := sandbox.LoadConfig(sandboxConfig)
		if err != nil {
			return config, err
		}
		config = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("address") || sandboxConfig == "" {
		config.Address = sandboxAddr
	}
	if flags.Changed("read-timeout") {
		config.ReadTimeout = readTimeout
	}
	if flags.Changed("write-timeout") {
		config.WriteTimeout = writeTimeout
	}
	if sandboxPrefix != "" {
		config.InvoicePrefix = sandboxPrefix
	}
	if sandboxDebug {
		config.Debug = true
	}
	if apiKey != "" {
		config.APIKey = apiKey
	}
	if user != "" {
		config.User = user
		config.Password = password
	}
	return config, nil
}

func runSandbox(cmd *cobra.Command, args []string) error {
	config, err := sandboxSettings(cmd)
	if err != nil {
		return err
	}

	srv := sandbox.NewServer(config, sandbox.WithLogger(logger.Log))

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down sandbox...")
		_ = logger.Sync()
		os.Exit(0)
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Starting sandbox agent on %s%s\n", config.Address, sandbox.AgentPath)
	return srv.Run()
}

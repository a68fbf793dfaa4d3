package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/hyprest/config"
	"github.com/s0up4200/hyprest/filter"
	"github.com/s0up4200/hyprest/hypothesis"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  hypothesis.Client
	filters *filter.Manager
	out     *printer

	outputFormat string

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hyprest",
	Short: "A command line client for the Hypothesis annotation API",
	Long: `hyprest talks to the Hypothesis annotation service. It can search and
filter annotations, manage annotations and groups with a developer API key,
and manage users of an authority with auth client credentials.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion sets the version reported by --version
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: text or json (overrides output.format)")
}

// initializeApp loads the configuration and builds the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("output") {
		cfg.Output.Format = outputFormat
	}
	if cfg.Output.Format != "text" && cfg.Output.Format != "json" {
		return fmt.Errorf("invalid output format: %s", cfg.Output.Format)
	}
	out = newPrinter(cmd.OutOrStdout(), cfg.Output.Format)

	logger = setupLogger(cfg.Logging)

	client, err = newClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create Hypothesis client: %w", err)
	}

	filters = filter.NewManager(filter.WithCompiler(filter.NewCompiler(filter.WithCache(32), filter.WithLogger(logger))))
	if err := filters.RegisterFilters(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	logger.Debug().
		Str("url", cfg.API.URL).
		Str("auth_mode", client.Mode().String()).
		Msg("Client initialized")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/categorizer/internal/control"
	"github.com/vietddude/categorizer/internal/core/config"
	"github.com/vietddude/categorizer/internal/infra/source"
	"github.com/vietddude/categorizer/internal/logging"
)

const defaultSettingsPath = "categorize.yaml"

type options struct {
	dslPath      string
	settingsPath string
	encoding     string
	strictSizes  bool
	metricsFile  string
	isDebug      bool
}

// NewRootCmd builds the categorize command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "categorize [file...]",
		Short: "Bucket fish size records into configured categories",
		Long: `categorize reads CSV records of (species, size), keeps the species selected by
the categories config and prints the count and average size of each category.

With no file, or when file is -, records are read from standard input.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCategorize(cmd, opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.dslPath, "config", "c", "", "categories config file (default is the built-in config)")
	rootCmd.PersistentFlags().StringVar(&opts.settingsPath, "settings", defaultSettingsPath, "settings file")
	rootCmd.PersistentFlags().BoolVar(&opts.isDebug, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVar(&opts.encoding, "encoding", "", "input text encoding (default from settings, windows-31j)")
	rootCmd.Flags().BoolVar(&opts.strictSizes, "strict-sizes", false, "drop records whose size is not an integer")
	rootCmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write run metrics to this Prometheus textfile")

	rootCmd.AddCommand(newCheckCmd(opts))
	return rootCmd
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("categorize failed", "error", err)
		os.Exit(1)
	}
}

// loadSettings reads the settings file and applies flag overrides. A missing
// settings file is only an error when --settings was given explicitly.
func loadSettings(cmd *cobra.Command, opts *options) (*config.AppConfig, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(opts.settingsPath)
	if err != nil {
		if cmd.Flags().Changed("settings") || !errors.Is(err, os.ErrNotExist) {
			stylelog.InitDefault()
			return nil, err
		}
		cfg = config.Default()
	}

	if cmd.Flags().Changed("config") {
		cfg.Categories.Config = opts.dslPath
	}
	if f := cmd.Flags().Lookup("encoding"); f != nil && f.Changed {
		cfg.Input.Encoding = opts.encoding
	}
	if f := cmd.Flags().Lookup("strict-sizes"); f != nil && f.Changed {
		cfg.Input.StrictSizes = opts.strictSizes
	}
	if f := cmd.Flags().Lookup("metrics-file"); f != nil && f.Changed {
		cfg.Metrics.Textfile = opts.metricsFile
	}
	if opts.isDebug {
		cfg.Logging.Level = "debug"
	}

	logging.Setup(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("Logger initialized", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	return cfg, nil
}

func runCategorize(cmd *cobra.Command, opts *options, args []string) error {
	cfg, err := loadSettings(cmd, opts)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	app, err := control.NewCategorizer(control.Config{
		DSLPath: cfg.Categories.Config,
		Inputs:  args,
		Source: source.Options{
			Encoding:      cfg.Input.Encoding,
			SpeciesColumn: cfg.Input.SpeciesColumn,
			SizeColumn:    cfg.Input.SizeColumn,
		},
		StrictSizes:     cfg.Input.StrictSizes,
		MetricsTextfile: cfg.Metrics.Textfile,
	})
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, err = app.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	return err
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dotcommander/auditscore/internal/catalog"
	"github.com/dotcommander/auditscore/internal/config"
	"github.com/dotcommander/auditscore/internal/metrics"
	"github.com/dotcommander/auditscore/internal/observability"
	"github.com/dotcommander/auditscore/internal/output"
	"github.com/dotcommander/auditscore/internal/report"
)

// Version is set at build time with -ldflags "-X github.com/dotcommander/auditscore/cmd.Version=..."
var Version = "dev"

// exitFunc is replaced in tests
var exitFunc = os.Exit

var (
	rootPath     string
	catalogPath  string
	quiet        bool
	verbose      bool
	outputFormat string
	outputFile   string
	outDir       string
	locale       string
	logLevel     string
	logFile      string
	metricsFile  string
)

var rootCmd = &cobra.Command{
	Use:   "auditscore",
	Short: "Score supplier audits and generate xlsx audit reports",
	Long: `auditscore turns supplier audit ratings (A, B, C, N/A) into a weighted
compliance score, a conformity level and a four-sheet Excel report
(supplier details, audit results, corrective action plan, synthesis).

Audits are YAML files rating the items of a checklist catalog. The built-in
catalog can be replaced with --catalog.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitFunc(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&rootPath, "root", "r", "", "Directory searched by batch (default: current directory)")
	flags.StringVar(&catalogPath, "catalog", "", "Checklist catalog YAML file (default: built-in catalog)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.StringVarP(&outputFormat, "format", "f", "console", "Output format (console|json|markdown)")
	flags.StringVarP(&outputFile, "output", "o", "", "Output file (summary for score/batch, workbook for report)")
	flags.StringVar(&outDir, "out-dir", ".", "Directory for generated reports")
	flags.StringVar(&locale, "locale", "en", "Report language (en|fr)")
	flags.StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	flags.StringVar(&logFile, "log-file", "", "Also write JSON logs to this file (rotated)")
	flags.StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile on exit")
}

// initConfig binds flags to configuration keys. It runs on every Execute so
// bindings survive viper.Reset.
func initConfig() {
	flags := rootCmd.PersistentFlags()
	bindings := map[string]string{
		"root":         "root",
		"catalog":      "catalog",
		"quiet":        "quiet",
		"verbose":      "verbose",
		"format":       "format",
		"output":       "output",
		"outDir":       "out-dir",
		"locale":       "locale",
		"logger.level": "log-level",
		"logger.file":  "log-file",
		"metrics.file": "metrics-file",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding flag %s: %v\n", flag, err)
			exitFunc(1)
		}
	}
}

// app carries what every command needs
type app struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	labels  report.Labels
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func setup() (*app, error) {
	cfg, err := config.LoadConfig("")
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	observability.InitializeLogger(cfg.Logger)
	logger := observability.GetLogger()
	output.Version = Version

	c := catalog.Default()
	if cfg.Catalog != "" {
		c, err = catalog.Load(cfg.Catalog)
		if err != nil {
			return nil, fmt.Errorf("error loading catalog: %w", err)
		}
		logger.Debug("catalog loaded", zap.String("path", cfg.Catalog), zap.Int("items", c.Len()))
	}

	return &app{
		cfg:     cfg,
		catalog: c,
		labels:  report.LabelsFor(cfg.Locale),
		logger:  logger,
		metrics: metrics.New(),
	}, nil
}

// finish exports metrics and flushes logs
func (a *app) finish() {
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.File); err != nil {
		a.logger.Warn("metrics export failed", zap.Error(err))
	}
	observability.Sync()
}

// summaryWriter returns the destination of summaries: the configured output
// file, or the command's stdout.
func summaryWriter(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating output file: %w", err)
	}
	return f, f.Close, nil
}

// run wraps a command body with the shared error handling
func run(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := fn(cmd, args); err != nil {
			observability.GetLogger().Warn("command failed", zap.String("command", cmd.Name()), zap.Error(err))
			observability.Sync()
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitFunc(1)
		}
	}
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/dotcommander/auditscore/internal/types"
)

// Config represents the auditscore configuration
type Config struct {
	Root           string        `mapstructure:"root" json:"root"`
	Catalog        string        `mapstructure:"catalog" json:"catalog,omitempty"`
	Format         string        `mapstructure:"format" json:"format"`
	Output         string        `mapstructure:"output" json:"output,omitempty"`
	OutDir         string        `mapstructure:"outDir" json:"outDir"`
	Locale         string        `mapstructure:"locale" json:"locale"`
	Quiet          bool          `mapstructure:"quiet" json:"quiet"`
	Verbose        bool          `mapstructure:"verbose" json:"verbose"`
	Concurrency    int           `mapstructure:"concurrency" json:"concurrency"`
	Parallel       bool          `mapstructure:"parallel" json:"parallel"`
	Pattern        string        `mapstructure:"pattern" json:"pattern"`
	Exclude        []string      `mapstructure:"exclude" json:"exclude,omitempty"`
	FollowSymlinks bool          `mapstructure:"followSymlinks" json:"followSymlinks"`
	Logger         LoggerConfig  `mapstructure:"logger" json:"logger"`
	Report         ReportConfig  `mapstructure:"report" json:"report"`
	Metrics        MetricsConfig `mapstructure:"metrics" json:"metrics"`
}

// LoggerConfig configures the zap logger
type LoggerConfig struct {
	Level       string `mapstructure:"level" json:"level"`
	Format      string `mapstructure:"format" json:"format"`
	File        string `mapstructure:"file" json:"file,omitempty"`
	MaxSize     int    `mapstructure:"maxSize" json:"maxSize"`
	MaxBackups  int    `mapstructure:"maxBackups" json:"maxBackups"`
	MaxAge      int    `mapstructure:"maxAge" json:"maxAge"`
	Compress    bool   `mapstructure:"compress" json:"compress"`
	AddSource   bool   `mapstructure:"addSource" json:"addSource"`
	ServiceName string `mapstructure:"serviceName" json:"serviceName"`
}

// ReportConfig controls report file naming
type ReportConfig struct {
	// NameKey is the supplier field used in file names. Empty selects the
	// locale's default.
	NameKey    string `mapstructure:"nameKey" json:"nameKey"`
	FilePrefix string `mapstructure:"filePrefix" json:"filePrefix"`
}

// MetricsConfig controls the Prometheus textfile export
type MetricsConfig struct {
	File string `mapstructure:"file" json:"file,omitempty"`
}

// DefaultNameKey returns the supplier name field of a locale's audit files.
func DefaultNameKey(locale string) string {
	if locale == types.LocaleFrench {
		return "Nom du fournisseur"
	}
	return "Supplier name"
}

// LoadConfig loads configuration from various sources
func LoadConfig(rootPath string) (*Config, error) {
	// Set default values
	viper.SetDefault("root", ".")
	viper.SetDefault("catalog", "")
	viper.SetDefault("format", types.FormatConsole)
	viper.SetDefault("output", "")
	viper.SetDefault("outDir", ".")
	viper.SetDefault("locale", types.LocaleEnglish)
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("concurrency", 10)
	viper.SetDefault("parallel", true)
	viper.SetDefault("pattern", "**/*.audit.yaml")
	viper.SetDefault("exclude", []string{})
	viper.SetDefault("followSymlinks", false)
	viper.SetDefault("logger.level", "warn")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.maxSize", 10)
	viper.SetDefault("logger.maxBackups", 3)
	viper.SetDefault("logger.maxAge", 28)
	viper.SetDefault("logger.compress", false)
	viper.SetDefault("logger.serviceName", "auditscore")
	viper.SetDefault("report.nameKey", "")
	viper.SetDefault("report.filePrefix", "Audit")
	viper.SetDefault("metrics.file", "")

	// Config file locations
	configPaths := []string{".auditscorerc.json", ".auditscorerc.yaml", ".auditscorerc.yml"}
	for _, path := range configPaths {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err == nil {
			break
		}
	}

	// Environment variables; nested keys use underscores (AUDITSCORE_LOGGER_LEVEL)
	viper.SetEnvPrefix("AUDITSCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Override root if provided
	if rootPath != "" {
		config.Root = rootPath
	}

	config.Locale = strings.ToLower(strings.TrimSpace(config.Locale))
	if config.Report.NameKey == "" {
		config.Report.NameKey = DefaultNameKey(config.Locale)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	switch config.Format {
	case types.FormatConsole, types.FormatJSON, types.FormatMarkdown:
	default:
		return fmt.Errorf("invalid format: %s. Must be 'console', 'json', or 'markdown'", config.Format)
	}

	if config.Locale != types.LocaleEnglish && config.Locale != types.LocaleFrench {
		return fmt.Errorf("invalid locale: %s. Must be 'en' or 'fr'", config.Locale)
	}

	if config.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	if config.Pattern == "" {
		return fmt.Errorf("pattern must not be empty")
	}

	switch strings.ToLower(config.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s. Must be 'debug', 'info', 'warn', or 'error'", config.Logger.Level)
	}

	if config.Logger.Format != "console" && config.Logger.Format != "json" {
		return fmt.Errorf("invalid log format: %s. Must be 'console' or 'json'", config.Logger.Format)
	}

	return nil
}

// SaveConfig saves the current configuration to a file
func SaveConfig(config *Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

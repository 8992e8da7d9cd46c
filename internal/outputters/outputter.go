package outputters

import (
	"fmt"
	"io"

	"github.com/dotcommander/auditscore/internal/batch"
	"github.com/dotcommander/auditscore/internal/config"
	"github.com/dotcommander/auditscore/internal/output"
	"github.com/dotcommander/auditscore/internal/types"
)

// Formatter renders audit and batch summaries
type Formatter = output.Formatter

// FormatterFactory creates formatters by name
type FormatterFactory interface {
	CreateFormatter(format string) (Formatter, error)
}

// DefaultFormatterFactory builds the console, JSON and Markdown formatters
type DefaultFormatterFactory struct {
	config *config.Config
	w      io.Writer
}

// NewDefaultFormatterFactory creates a factory writing to w
func NewDefaultFormatterFactory(cfg *config.Config, w io.Writer) *DefaultFormatterFactory {
	return &DefaultFormatterFactory{config: cfg, w: w}
}

// CreateFormatter returns the formatter for format
func (f *DefaultFormatterFactory) CreateFormatter(format string) (Formatter, error) {
	switch format {
	case types.FormatConsole:
		return output.NewConsoleFormatter(f.w, f.config.Quiet, f.config.Verbose), nil
	case types.FormatJSON:
		return output.NewJSONFormatter(f.w, true), nil
	case types.FormatMarkdown:
		return output.NewMarkdownFormatter(f.w, f.config.Verbose), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Outputter handles output formatting
type Outputter struct {
	config  *config.Config
	factory FormatterFactory
}

// NewOutputter creates a new Outputter writing to w
func NewOutputter(cfg *config.Config, w io.Writer) *Outputter {
	return NewOutputterWithFactory(cfg, NewDefaultFormatterFactory(cfg, w))
}

// NewOutputterWithFactory creates an Outputter with a custom factory
func NewOutputterWithFactory(cfg *config.Config, factory FormatterFactory) *Outputter {
	return &Outputter{
		config:  cfg,
		factory: factory,
	}
}

// Format renders one audit summary in the configured format
func (o *Outputter) Format(summary *output.AuditSummary) error {
	formatter, err := o.factory.CreateFormatter(o.config.Format)
	if err != nil {
		return err
	}
	return formatter.Format(summary)
}

// FormatBatch renders a batch summary in the configured format
func (o *Outputter) FormatBatch(summary *batch.Summary) error {
	formatter, err := o.factory.CreateFormatter(o.config.Format)
	if err != nil {
		return err
	}
	return formatter.FormatBatch(summary)
}

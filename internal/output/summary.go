// Package output renders audit scores for the terminal, JSON consumers and
// Markdown documents.
package output

import (
	"github.com/dotcommander/auditscore/internal/audit"
	"github.com/dotcommander/auditscore/internal/batch"
	"github.com/dotcommander/auditscore/internal/scoring"
)

// AuditSummary is everything shown for one scored audit.
type AuditSummary struct {
	Source   string
	Name     string
	Supplier audit.SupplierInfo
	Result   scoring.Result
	// Report is the written workbook path, if any.
	Report string
}

// Formatter renders summaries.
type Formatter interface {
	Format(s *AuditSummary) error
	FormatBatch(s *batch.Summary) error
}

func displayName(name, source string) string {
	if name != "" {
		return name
	}
	return source
}

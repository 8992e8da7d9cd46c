package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dotcommander/auditscore/internal/audit"
	"github.com/dotcommander/auditscore/internal/batch"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	w       io.Writer
	verbose bool
	now     func() time.Time
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(w io.Writer, verbose bool) *MarkdownFormatter {
	return &MarkdownFormatter{
		w:       w,
		verbose: verbose,
		now:     time.Now,
	}
}

// Format writes the audit summary as a Markdown document
func (f *MarkdownFormatter) Format(s *AuditSummary) error {
	var builder strings.Builder
	g := s.Result.Global

	builder.WriteString(fmt.Sprintf("# Audit Report: %s\n\n", escapeCell(displayName(s.Name, s.Source))))
	builder.WriteString(fmt.Sprintf("**Generated:** %s\n\n", f.now().Format("2006-01-02 15:04:05")))
	if s.Source != "" {
		builder.WriteString(fmt.Sprintf("**Source:** `%s`\n\n", s.Source))
	}

	if len(s.Supplier) > 0 {
		builder.WriteString("## Supplier\n\n")
		builder.WriteString("| Field | Value |\n")
		builder.WriteString("|-------|-------|\n")
		for _, field := range s.Supplier {
			builder.WriteString(fmt.Sprintf("| %s | %s |\n", escapeCell(field.Key), escapeCell(field.Value)))
		}
		builder.WriteString("\n")
	}

	builder.WriteString("## Summary\n\n")
	builder.WriteString("| Metric | Value |\n")
	builder.WriteString("|--------|-------|\n")
	builder.WriteString(fmt.Sprintf("| Global score | %.1f%% |\n", g.Score))
	builder.WriteString(fmt.Sprintf("| Conformity level | %s |\n", g.Level))
	builder.WriteString(fmt.Sprintf("| Non-conformities | %d |\n", g.NonConformities))
	builder.WriteString(fmt.Sprintf("| Items evaluated | %d |\n", g.Evaluated))
	builder.WriteString(fmt.Sprintf("| Progress | %d/%d (%.0f%%) |\n", g.Answered, g.TotalItems, g.Progress()*100))
	builder.WriteString("\n")

	builder.WriteString("## Scores by category\n\n")
	if len(s.Result.Categories) == 0 {
		builder.WriteString("*No category scored yet.*\n\n")
	} else {
		builder.WriteString("| Category | Score | Criticality | Items evaluated |\n")
		builder.WriteString("|----------|------:|-------------|----------------:|\n")
		for _, cs := range s.Result.Categories {
			builder.WriteString(fmt.Sprintf("| %s | %.1f%% | %s | %d |\n", escapeCell(cs.Name), cs.Score, cs.Criticality, cs.Evaluated))
		}
		builder.WriteString("\n")
	}

	builder.WriteString("## Non-conformities\n\n")
	if len(s.Result.Findings) == 0 {
		builder.WriteString("✓ No non-conformity recorded.\n")
	} else {
		builder.WriteString("| ID | Category | Rating | Question | Comment |\n")
		builder.WriteString("|----|----------|--------|----------|---------|\n")
		for _, nc := range s.Result.Findings {
			builder.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
				nc.ItemID, escapeCell(nc.Category), audit.Rating(nc.Rating).Label(), escapeCell(nc.Question), escapeCell(nc.Comment)))
		}
	}

	if s.Report != "" {
		builder.WriteString(fmt.Sprintf("\n**Report:** `%s`\n", s.Report))
	}

	_, err := io.WriteString(f.w, builder.String())
	return err
}

// FormatBatch writes a batch summary table
func (f *MarkdownFormatter) FormatBatch(s *batch.Summary) error {
	var builder strings.Builder

	builder.WriteString("# Batch Audit Report\n\n")
	builder.WriteString(fmt.Sprintf("**Generated:** %s\n\n", f.now().Format("2006-01-02 15:04:05")))
	if f.verbose {
		builder.WriteString(fmt.Sprintf("**Run:** `%s`\n\n", s.RunID))
	}
	builder.WriteString(fmt.Sprintf("**Duration:** %v\n\n", s.Duration.Round(time.Millisecond)))

	builder.WriteString("| Status | Audit | Supplier | Score | Level | Non-conformities | Report |\n")
	builder.WriteString("|--------|-------|----------|------:|-------|-----------------:|--------|\n")
	for i := range s.Results {
		res := &s.Results[i]
		if res.Failed() {
			builder.WriteString(fmt.Sprintf("| %s | `%s` | %s | | | | %s |\n",
				getStatusEmoji(false), res.Source, escapeCell(res.Name), escapeCell(res.Stage+": "+res.Err.Error())))
			continue
		}
		g := res.Evaluation.Global
		builder.WriteString(fmt.Sprintf("| %s | `%s` | %s | %.1f%% | %s | %d | `%s` |\n",
			getStatusEmoji(true), res.Source, escapeCell(res.Name), g.Score, g.Level, g.NonConformities, res.Report))
	}

	builder.WriteString("\n## Conclusion\n\n")
	if failed := s.Failed(); failed == 0 {
		builder.WriteString(fmt.Sprintf("✓ All %d audits reported\n", len(s.Results)))
	} else {
		builder.WriteString(fmt.Sprintf("✗ %d of %d audits failed\n", failed, len(s.Results)))
	}

	_, err := io.WriteString(f.w, builder.String())
	return err
}

// getStatusEmoji returns an emoji for the status
func getStatusEmoji(success bool) string {
	if success {
		return "✅"
	}
	return "❌"
}

// escapeCell keeps free text from breaking a table row
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

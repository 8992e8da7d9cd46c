package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/dotcommander/auditscore/internal/audit"
	"github.com/dotcommander/auditscore/internal/batch"
	"github.com/dotcommander/auditscore/internal/scoring"
)

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	w        io.Writer
	quiet    bool
	verbose  bool
	colorize bool
	animate  bool
}

// NewConsoleFormatter creates a new ConsoleFormatter. Colours and animation are
// enabled only when w is a terminal.
func NewConsoleFormatter(w io.Writer, quiet, verbose bool) *ConsoleFormatter {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(f.Fd())
	}
	return &ConsoleFormatter{
		w:        w,
		quiet:    quiet,
		verbose:  verbose,
		colorize: tty,
		animate:  tty,
	}
}

func (f *ConsoleFormatter) color(c string) lipgloss.Style {
	if !f.colorize {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

func (f *ConsoleFormatter) bold() lipgloss.Style {
	if !f.colorize {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Bold(true)
}

func (f *ConsoleFormatter) dim() lipgloss.Style {
	return f.color("8")
}

// Format prints the score summary of one audit
func (f *ConsoleFormatter) Format(s *AuditSummary) error {
	if f.quiet {
		return nil
	}

	f.printHeader(s)
	f.printScore(s.Result.Global)
	f.printCategories(s.Result.Categories)
	f.printFindings(s.Result.Findings)

	if s.Report != "" {
		fmt.Fprintf(f.w, "\nReport: %s\n", s.Report)
	}

	if s.Result.Global.Score == 100 {
		fmt.Fprintln(f.w)
		printCelebration(f.w, "Perfect audit", f.animate)
	}
	return nil
}

func (f *ConsoleFormatter) printHeader(s *AuditSummary) {
	title := displayName(s.Name, s.Source)
	if s.Name != "" && s.Source != "" {
		fmt.Fprintf(f.w, "%s %s\n", f.bold().Render(title), f.dim().Render("("+s.Source+")"))
	} else {
		fmt.Fprintln(f.w, f.bold().Render(title))
	}

	if f.verbose {
		for _, field := range s.Supplier {
			fmt.Fprintf(f.w, "  %-28s %s\n", field.Key, field.Value)
		}
	}
	fmt.Fprintln(f.w)
}

func (f *ConsoleFormatter) printScore(g scoring.GlobalScore) {
	levelStyle := f.color(g.Level.Color())
	if f.colorize {
		levelStyle = levelStyle.Bold(true)
	}

	fmt.Fprintf(f.w, "  %-18s %s  %s\n", "Global score", fmt.Sprintf("%.1f%%", g.Score), levelStyle.Render(string(g.Level)))
	fmt.Fprintf(f.w, "  %-18s %d\n", "Non-conformities", g.NonConformities)
	fmt.Fprintf(f.w, "  %-18s %d/%d items (%.0f%%)\n", "Progress", g.Answered, g.TotalItems, g.Progress()*100)
}

func (f *ConsoleFormatter) printCategories(categories []scoring.CategoryScore) {
	if len(categories) == 0 {
		fmt.Fprintf(f.w, "\n  %s\n", f.dim().Render("No category scored yet"))
		return
	}

	fmt.Fprintf(f.w, "\n  %s\n", f.bold().Render(fmt.Sprintf("%-36s %7s  %-11s %5s", "Category", "Score", "Criticality", "Items")))
	for _, cs := range categories {
		score := f.color(scoring.Classify(cs.Score).Color()).Render(fmt.Sprintf("%6.1f%%", cs.Score))
		fmt.Fprintf(f.w, "  %-36s %s  %-11s %5d\n", truncate(cs.Name, 36), score, cs.Criticality, cs.Evaluated)
	}
}

func (f *ConsoleFormatter) printFindings(findings []scoring.Finding) {
	if len(findings) == 0 {
		return
	}

	fmt.Fprintf(f.w, "\n  %s\n", f.bold().Render("Non-conformities"))
	for _, nc := range findings {
		icon := "⚠"
		if audit.Rating(nc.Rating) == audit.MajorNonConformity {
			icon = "✘"
		}
		mark := f.color(audit.Rating(nc.Rating).Color()).Render(icon)
		fmt.Fprintf(f.w, "    %s %-8s %-5s %s\n", mark, nc.ItemID, nc.Severity, nc.Question)
		if f.verbose {
			fmt.Fprintf(f.w, "      %s\n", f.dim().Render(nc.Category))
		}
		if nc.Comment != "" {
			fmt.Fprintf(f.w, "      %s\n", f.dim().Render(nc.Comment))
		}
	}
}

// FormatBatch prints one line per audit followed by the totals
func (f *ConsoleFormatter) FormatBatch(s *batch.Summary) error {
	if f.quiet {
		return nil
	}

	green := f.color("10")
	red := f.color("9")

	for i := range s.Results {
		res := &s.Results[i]
		if res.Failed() {
			fmt.Fprintf(f.w, "%s %s  %s\n", red.Render("✗"), res.Source, red.Render(res.Stage+": "+res.Err.Error()))
			continue
		}
		g := res.Evaluation.Global
		line := fmt.Sprintf("%s %s  %s  %.1f%% %s  %d NC",
			green.Render("✓"), res.Source, displayName(res.Name, "-"),
			g.Score, f.color(g.Level.Color()).Render(string(g.Level)), g.NonConformities)
		if res.Report != "" {
			line += "  → " + res.Report
		}
		fmt.Fprintln(f.w, line)
	}

	summary := fmt.Sprintf("%d/%d audits reported", s.Succeeded(), len(s.Results))
	if failed := s.Failed(); failed > 0 {
		summary += fmt.Sprintf(", %d failed", failed)
	}
	fmt.Fprintf(f.w, "\n%s %s\n", summary, f.dim().Render(fmt.Sprintf("(%v)", s.Duration.Round(time.Millisecond))))
	if f.verbose {
		fmt.Fprintf(f.w, "%s\n", f.dim().Render("run "+s.RunID))
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dotcommander/auditscore/internal/audit"
	"github.com/dotcommander/auditscore/internal/discovery"
	"github.com/dotcommander/auditscore/internal/output"
	"github.com/dotcommander/auditscore/internal/outputters"
	"github.com/dotcommander/auditscore/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score <audit.yaml>",
	Short: "Score an audit and print its summary",
	Long: `The score command rates one audit file against the catalog and prints the
global score, conformity level, completion progress, per-category scores and
the list of non-conformities.

Audit file format:

  supplier:
    Supplier name: Ferme du Val
    Auditor: C. Martin
  audit:
    SEC-001: {rating: A, comment: "HACCP plan up to date"}
    SEC-002: B

Ratings: A (compliant, 20 pts), B (minor non-conformity, 10 pts),
C (major non-conformity, 0 pts), N/A (excluded from scoring).`,
	Args: cobra.ExactArgs(1),
	Run:  run(runScore),
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.finish()

	path, err := discovery.ValidateFilePath(args[0])
	if err != nil {
		return err
	}

	session, err := audit.Load(path)
	if err != nil {
		a.metrics.IncrementFailure("load")
		return err
	}

	result, err := scoring.Evaluate(a.catalog, session.Record)
	if err != nil {
		a.metrics.IncrementFailure("score")
		return fmt.Errorf("error scoring %s: %w", args[0], err)
	}
	a.metrics.ObserveAudit(string(result.Global.Level), result.Global.Score)
	a.logger.Info("audit scored",
		zap.String("audit", args[0]),
		zap.Float64("score", result.Global.Score),
		zap.String("level", string(result.Global.Level)))

	name, _ := session.Supplier.Get(a.cfg.Report.NameKey)
	summary := &output.AuditSummary{
		Source:   args[0],
		Name:     name,
		Supplier: session.Supplier,
		Result:   result,
	}

	w, closeFn, err := summaryWriter(cmd, a.cfg.Output)
	if err != nil {
		return err
	}
	if err := outputters.NewOutputter(a.cfg, w).Format(summary); err != nil {
		closeFn()
		return fmt.Errorf("error formatting output: %w", err)
	}
	return closeFn()
}

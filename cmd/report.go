package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dotcommander/auditscore/internal/batch"
	"github.com/dotcommander/auditscore/internal/discovery"
	"github.com/dotcommander/auditscore/internal/output"
	"github.com/dotcommander/auditscore/internal/outputters"
)

var reportCmd = &cobra.Command{
	Use:   "report <audit.yaml>",
	Short: "Generate the Excel report of an audit",
	Long: `The report command scores one audit file and writes the xlsx workbook:

  1. Supplier Info   supplier details
  2. Audit Results   every rated item, coloured by rating
  3. Action Plan     one row per B or C item, with placeholders to fill in
  4. Synthesis       global score, conformity level, scores by category

The file is written to --output, or to --out-dir as
<prefix>_<supplier name>_<YYYYMMDD>.xlsx. Use --locale fr for French labels.`,
	Args: cobra.ExactArgs(1),
	Run:  run(runReport),
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.finish()

	path, err := discovery.ValidateFilePath(args[0])
	if err != nil {
		return err
	}

	runner := batch.New(a.catalog, batch.Options{
		OutDir:     a.cfg.OutDir,
		Labels:     a.labels,
		NameKey:    a.cfg.Report.NameKey,
		FilePrefix: a.cfg.Report.FilePrefix,
	}, a.logger, a.metrics)

	res := runner.Process(path)
	if res.Failed() {
		return fmt.Errorf("error generating report for %s: %w", args[0], res.Err)
	}

	dest := a.cfg.Output
	if dest == "" {
		dest = filepath.Join(a.cfg.OutDir, runner.FileName(res.Supplier))
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	if err := runner.Save(&res, dest); err != nil {
		return err
	}
	a.logger.Info("report written", zap.String("audit", args[0]), zap.String("report", dest))

	summary := &output.AuditSummary{
		Source:   args[0],
		Name:     res.Name,
		Supplier: res.Supplier,
		Result:   res.Evaluation,
		Report:   dest,
	}
	if err := outputters.NewOutputter(a.cfg, cmd.OutOrStdout()).Format(summary); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}
	return nil
}

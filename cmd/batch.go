package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dotcommander/auditscore/internal/batch"
	"github.com/dotcommander/auditscore/internal/discovery"
	"github.com/dotcommander/auditscore/internal/outputters"
)

var batchCmd = &cobra.Command{
	Use:   "batch [pattern]",
	Short: "Generate reports for every audit file under --root",
	Long: `The batch command finds audit files under --root, scores them concurrently
and writes one xlsx report per audit into --out-dir.

The pattern defaults to the "pattern" configuration key (**/*.audit.yaml)
and uses doublestar syntax. Paths listed
under "exclude" in the configuration are skipped. Reports whose file names
collide within a run get a _2, _3... suffix.

A failing audit does not stop the others; the command exits with status 1
when at least one audit failed.`,
	Args: cobra.MaximumNArgs(1),
	Run:  run(runBatch),
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.finish()

	var patterns []string
	if len(args) == 1 {
		patterns = append(patterns, args[0])
	} else if a.cfg.Pattern != "" {
		patterns = append(patterns, a.cfg.Pattern)
	}

	files, err := discovery.NewFileDiscovery(a.cfg.Root, a.cfg.Exclude, a.cfg.FollowSymlinks).Discover(patterns...)
	if err != nil {
		return fmt.Errorf("error discovering audit files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no audit files found under %s", a.cfg.Root)
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}

	concurrency := a.cfg.Concurrency
	if !a.cfg.Parallel {
		concurrency = 1
	}
	runner := batch.New(a.catalog, batch.Options{
		OutDir:      a.cfg.OutDir,
		Labels:      a.labels,
		NameKey:     a.cfg.Report.NameKey,
		FilePrefix:  a.cfg.Report.FilePrefix,
		Concurrency: concurrency,
	}, a.logger, a.metrics)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := runner.Run(ctx, paths)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("batch interrupted")
		}
		return err
	}

	w, closeFn, err := summaryWriter(cmd, a.cfg.Output)
	if err != nil {
		return err
	}
	if err := outputters.NewOutputter(a.cfg, w).FormatBatch(summary); err != nil {
		closeFn()
		return fmt.Errorf("error formatting output: %w", err)
	}
	if err := closeFn(); err != nil {
		return err
	}

	if failed := summary.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d audits failed", failed, len(summary.Results))
	}
	return nil
}

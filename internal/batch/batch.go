// Package batch scores many audit files and writes one workbook per audit.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/auditscore/internal/audit"
	"github.com/dotcommander/auditscore/internal/catalog"
	"github.com/dotcommander/auditscore/internal/metrics"
	"github.com/dotcommander/auditscore/internal/report"
	"github.com/dotcommander/auditscore/internal/scoring"
)

// Failure stages.
const (
	StageLoad  = "load"
	StageScore = "score"
	StageBuild = "build"
	StageWrite = "write"
)

// Options configures a Runner.
type Options struct {
	OutDir      string
	Labels      report.Labels
	NameKey     string
	FilePrefix  string
	Concurrency int
	// Now dates report file names; time.Now when nil.
	Now func() time.Time
}

// Result is the outcome of one audit file.
type Result struct {
	Source     string
	Supplier   audit.SupplierInfo
	Name       string
	Evaluation scoring.Result
	Report     string
	Stage      string
	Err        error

	data []byte
}

// Failed reports whether the audit could not be processed.
func (r *Result) Failed() bool {
	return r.Err != nil
}

// Summary collects the results of a run in input order.
type Summary struct {
	RunID     string
	StartTime time.Time
	Duration  time.Duration
	Results   []Result
}

// Failed counts the failed audits.
func (s *Summary) Failed() int {
	n := 0
	for i := range s.Results {
		if s.Results[i].Failed() {
			n++
		}
	}
	return n
}

// Succeeded counts the audits whose report was written.
func (s *Summary) Succeeded() int {
	return len(s.Results) - s.Failed()
}

// Runner processes audit files against one catalog.
type Runner struct {
	catalog *catalog.Catalog
	opts    Options
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates a Runner. logger and m may be nil.
func New(c *catalog.Catalog, opts Options, logger *zap.Logger, m *metrics.Metrics) *Runner {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Labels.SupplierSheet == "" {
		opts.Labels = report.EnglishLabels
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{catalog: c, opts: opts, logger: logger, metrics: m}
}

// Run processes paths concurrently and writes their reports into OutDir.
// Per-file failures are recorded in the summary; the returned error is set
// only when ctx is cancelled.
//
// Audit files are loaded first so report names can be reserved in input
// order: names that collide within a run get a numeric suffix. Each workbook
// is then written as soon as it is built.
func (r *Runner) Run(ctx context.Context, paths []string) (*Summary, error) {
	summary := &Summary{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
		Results:   make([]Result, len(paths)),
	}
	logger := r.logger.With(zap.String("run_id", summary.RunID))
	logger.Info("batch started", zap.Int("audits", len(paths)), zap.Int("concurrency", r.opts.Concurrency))

	sessions := make([]*audit.Session, len(paths))
	err := r.each(ctx, summary, paths, StageLoad, func(i int) {
		summary.Results[i], sessions[i] = r.load(paths[i])
	})
	if err != nil {
		return r.cancelled(logger, summary, err)
	}

	names := make([]string, len(paths))
	used := make(map[string]int)
	for i := range summary.Results {
		if !summary.Results[i].Failed() {
			names[i] = uniqueName(r.FileName(summary.Results[i].Supplier), used)
		}
	}

	if err := os.MkdirAll(r.opts.OutDir, 0755); err != nil {
		return summary, fmt.Errorf("creating output directory: %w", err)
	}

	err = r.each(ctx, summary, paths, StageBuild, func(i int) {
		res := &summary.Results[i]
		if res.Failed() {
			return
		}
		*res = r.build(*res, sessions[i])
		sessions[i] = nil
		if res.Failed() {
			return
		}
		if err := r.Save(res, filepath.Join(r.opts.OutDir, names[i])); err != nil {
			return
		}
		logger.Info("report written",
			zap.String("audit", res.Source),
			zap.String("report", res.Report),
			zap.Float64("score", res.Evaluation.Global.Score),
			zap.String("level", string(res.Evaluation.Global.Level)))
	})
	if err != nil {
		return r.cancelled(logger, summary, err)
	}

	for i := range summary.Results {
		if res := &summary.Results[i]; res.Failed() {
			logger.Warn("audit failed", zap.String("audit", res.Source), zap.String("stage", res.Stage), zap.Error(res.Err))
		}
	}

	summary.Duration = time.Since(summary.StartTime)
	logger.Info("batch finished",
		zap.Int("succeeded", summary.Succeeded()),
		zap.Int("failed", summary.Failed()),
		zap.Duration("duration", summary.Duration))
	return summary, nil
}

// each runs fn for every result index, at most Concurrency at a time. Results
// not started before ctx is cancelled are marked failed at stage.
func (r *Runner) each(ctx context.Context, summary *Summary, paths []string, stage string, fn func(i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	for i := range summary.Results {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				res := &summary.Results[i]
				res.Source = paths[i]
				if !res.Failed() {
					res.Stage = stage
					res.Err = err
					res.data = nil
				}
				return err
			}
			fn(i)
			return nil
		})
	}
	return g.Wait()
}

func (r *Runner) cancelled(logger *zap.Logger, summary *Summary, err error) (*Summary, error) {
	summary.Duration = time.Since(summary.StartTime)
	logger.Warn("batch cancelled", zap.Error(err))
	return summary, err
}

// Process loads, scores and builds the report of one audit file without writing it.
func (r *Runner) Process(path string) Result {
	res, session := r.load(path)
	if res.Failed() {
		return res
	}
	return r.build(res, session)
}

func (r *Runner) load(path string) (Result, *audit.Session) {
	res := Result{Source: path}
	session, err := audit.Load(path)
	if err != nil {
		return r.fail(res, StageLoad, err), nil
	}
	res.Supplier = session.Supplier
	res.Name, _ = session.Supplier.Get(r.opts.NameKey)
	return res, session
}

func (r *Runner) build(res Result, session *audit.Session) Result {
	eval, err := scoring.Evaluate(r.catalog, session.Record)
	if err != nil {
		return r.fail(res, StageScore, err)
	}
	res.Evaluation = eval
	r.metrics.ObserveAudit(string(eval.Global.Level), eval.Global.Score)

	start := time.Now()
	data, err := report.Build(session.Supplier, r.catalog, session.Record, report.WithLabels(r.opts.Labels))
	if err != nil {
		return r.fail(res, StageBuild, err)
	}
	res.data = data
	r.metrics.ObserveReport(time.Since(start))

	r.logger.Debug("audit scored",
		zap.String("audit", res.Source),
		zap.Float64("score", eval.Global.Score),
		zap.Int("non_conformities", eval.Global.NonConformities))
	return res
}

// Save writes the workbook of a processed result to dest.
func (r *Runner) Save(res *Result, dest string) error {
	if res.Failed() {
		return res.Err
	}
	if res.data == nil {
		*res = r.fail(*res, StageWrite, errors.New("no report data"))
		return res.Err
	}
	if err := os.WriteFile(dest, res.data, 0644); err != nil {
		*res = r.fail(*res, StageWrite, fmt.Errorf("writing report: %w", err))
		return res.Err
	}
	res.Report = dest
	res.data = nil
	return nil
}

// FileName names the report of a supplier.
func (r *Runner) FileName(info audit.SupplierInfo) string {
	return report.FileName(info, r.opts.NameKey, r.opts.FilePrefix, r.opts.Now())
}

func (r *Runner) fail(res Result, stage string, err error) Result {
	res.Stage = stage
	res.Err = err
	res.data = nil
	r.metrics.IncrementFailure(stage)
	return res
}

// uniqueName appends _2, _3... to names already used in this run.
func uniqueName(name string, used map[string]int) string {
	used[name]++
	n := used[name]
	if n == 1 {
		return name
	}
	ext := filepath.Ext(name)
	candidate := fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n, ext)
	if used[candidate] > 0 {
		return uniqueName(candidate, used)
	}
	used[candidate]++
	return candidate
}

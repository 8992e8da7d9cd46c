package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dotcommander/auditscore/internal/audit"
	"github.com/dotcommander/auditscore/internal/batch"
	"github.com/dotcommander/auditscore/internal/scoring"
)

// Version is reported in JSON headers; set by the command layer.
var Version = "dev"

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	w      io.Writer
	indent bool
	now    func() time.Time
}

// NewJSONFormatter creates a new JSONFormatter. Output is written even in quiet
// mode since it is meant for other programs.
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{
		w:      w,
		indent: indent,
		now:    time.Now,
	}
}

// JSONHeader contains report metadata
type JSONHeader struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// JSONAudit is the document written for one audit
type JSONAudit struct {
	Header     JSONHeader              `json:"header"`
	Source     string                  `json:"source,omitempty"`
	Supplier   []audit.Field           `json:"supplier"`
	Global     scoring.GlobalScore     `json:"global"`
	Progress   float64                 `json:"progress"`
	Categories []scoring.CategoryScore `json:"categories"`
	Findings   []scoring.Finding       `json:"non_conformities"`
	Report     string                  `json:"report,omitempty"`
}

// JSONBatch is the document written for a batch run
type JSONBatch struct {
	Header  JSONHeader        `json:"header"`
	RunID   string            `json:"run_id"`
	Summary JSONBatchSummary  `json:"summary"`
	Results []JSONBatchResult `json:"results"`
}

// JSONBatchSummary contains batch totals
type JSONBatchSummary struct {
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Duration  string `json:"duration"`
}

// JSONBatchResult is one audit of a batch
type JSONBatchResult struct {
	Source          string        `json:"source"`
	Supplier        string        `json:"supplier,omitempty"`
	Score           *float64      `json:"score,omitempty"`
	Level           scoring.Level `json:"level,omitempty"`
	NonConformities int           `json:"non_conformities"`
	Report          string        `json:"report,omitempty"`
	Stage           string        `json:"failed_stage,omitempty"`
	Error           string        `json:"error,omitempty"`
}

func (f *JSONFormatter) header() JSONHeader {
	return JSONHeader{
		Tool:      "auditscore",
		Version:   Version,
		Timestamp: f.now().Format(time.RFC3339),
	}
}

// Format writes the audit summary as JSON
func (f *JSONFormatter) Format(s *AuditSummary) error {
	doc := JSONAudit{
		Header:     f.header(),
		Source:     s.Source,
		Supplier:   s.Supplier,
		Global:     s.Result.Global,
		Progress:   s.Result.Global.Progress(),
		Categories: s.Result.Categories,
		Findings:   s.Result.Findings,
		Report:     s.Report,
	}
	// Empty lists, not null
	if doc.Supplier == nil {
		doc.Supplier = []audit.Field{}
	}
	if doc.Categories == nil {
		doc.Categories = []scoring.CategoryScore{}
	}
	if doc.Findings == nil {
		doc.Findings = []scoring.Finding{}
	}
	return f.write(doc)
}

// FormatBatch writes the batch summary as JSON
func (f *JSONFormatter) FormatBatch(s *batch.Summary) error {
	doc := JSONBatch{
		Header: f.header(),
		RunID:  s.RunID,
		Summary: JSONBatchSummary{
			Total:     len(s.Results),
			Succeeded: s.Succeeded(),
			Failed:    s.Failed(),
			Duration:  s.Duration.Round(time.Millisecond).String(),
		},
		Results: make([]JSONBatchResult, len(s.Results)),
	}

	for i := range s.Results {
		res := &s.Results[i]
		out := JSONBatchResult{Source: res.Source, Supplier: res.Name, Report: res.Report}
		if res.Failed() {
			out.Stage = res.Stage
			out.Error = res.Err.Error()
		} else {
			score := res.Evaluation.Global.Score
			out.Score = &score
			out.Level = res.Evaluation.Global.Level
			out.NonConformities = res.Evaluation.Global.NonConformities
		}
		doc.Results[i] = out
	}

	return f.write(doc)
}

func (f *JSONFormatter) write(v any) error {
	var jsonBytes []byte
	var err error
	if f.indent {
		jsonBytes, err = json.MarshalIndent(v, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	if _, err := fmt.Fprintln(f.w, string(jsonBytes)); err != nil {
		return fmt.Errorf("error writing JSON: %w", err)
	}
	return nil
}

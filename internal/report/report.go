// Package report renders a scored audit as a four-sheet xlsx workbook:
// supplier details, per-item results, the corrective action plan and a synthesis.
package report

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/dotcommander/auditscore/internal/audit"
	"github.com/dotcommander/auditscore/internal/catalog"
	"github.com/dotcommander/auditscore/internal/scoring"
)

// Option configures Build.
type Option func(*options)

type options struct {
	labels Labels
}

// WithLabels selects the label set written into the workbook.
func WithLabels(l Labels) Option {
	return func(o *options) {
		o.labels = l
	}
}

// Build scores rec against c and returns the serialized workbook.
//
// Sheets are written in the order Supplier Info, Audit Results, Action Plan,
// Synthesis. Scoring errors are returned as is; writer failures are wrapped in a
// *GenerationError. No bytes are returned on error.
func Build(info audit.SupplierInfo, c *catalog.Catalog, rec audit.Record, opts ...Option) ([]byte, error) {
	o := options{labels: EnglishLabels}
	for _, opt := range opts {
		opt(&o)
	}

	global, categories, err := scoring.Score(c, rec)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	w := &writer{f: f, labels: o.labels}
	if err := w.createStyles(); err != nil {
		return nil, stageError("styles", err)
	}
	if err := w.createSheets(); err != nil {
		return nil, stageError("sheets", err)
	}
	if err := w.supplierSheet(info); err != nil {
		return nil, stageError("supplier info", err)
	}
	if err := w.resultsSheet(c, rec); err != nil {
		return nil, stageError("audit results", err)
	}
	if err := w.actionSheet(c, rec); err != nil {
		return nil, stageError("action plan", err)
	}
	if err := w.synthesisSheet(global, categories); err != nil {
		return nil, stageError("synthesis", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, stageError("serialize", err)
	}
	return buf.Bytes(), nil
}

// writer accumulates the styles of one workbook. It is not reused across builds.
type writer struct {
	f      *excelize.File
	labels Labels

	title    int
	bold     int
	header   int
	bordered int
	fills    map[audit.Rating]int
}

var border = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

func (w *writer) createStyles() error {
	var err error
	if w.title, err = w.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "left"},
	}); err != nil {
		return err
	}
	if w.bold, err = w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); err != nil {
		return err
	}
	if w.header, err = w.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2C3E50"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return err
	}
	if w.bordered, err = w.f.NewStyle(&excelize.Style{Border: border}); err != nil {
		return err
	}

	w.fills = make(map[audit.Rating]int, 3)
	for _, r := range []audit.Rating{audit.Compliant, audit.MinorNonConformity, audit.MajorNonConformity} {
		id, err := w.f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{r.Fill()}},
			Border: border,
		})
		if err != nil {
			return err
		}
		w.fills[r] = id
	}
	return nil
}

// rowStyle is the fill of a rating, or a plain bordered cell for N/A.
func (w *writer) rowStyle(r audit.Rating) int {
	if id, ok := w.fills[r]; ok {
		return id
	}
	return w.bordered
}

func (w *writer) createSheets() error {
	l := w.labels
	if err := w.f.SetSheetName(w.f.GetSheetName(0), l.SupplierSheet); err != nil {
		return err
	}
	for _, name := range []string{l.ResultsSheet, l.ActionSheet, l.SynthesisSheet} {
		if _, err := w.f.NewSheet(name); err != nil {
			return err
		}
	}
	w.f.SetActiveSheet(0)
	return nil
}

func (w *writer) supplierSheet(info audit.SupplierInfo) error {
	sheet := w.labels.SupplierSheet
	if err := w.titleRow(sheet, w.labels.ReportTitle); err != nil {
		return err
	}

	for i, field := range info {
		row := 3 + i
		if err := w.set(sheet, 1, row, field.Key, w.bold); err != nil {
			return err
		}
		ref := cell(2, row)
		if err := checkLength(ref, field.Value); err != nil {
			return err
		}
		if err := w.f.SetCellStr(sheet, ref, field.Value); err != nil {
			return err
		}
	}

	return w.widths(sheet, 35, 50)
}

func (w *writer) resultsSheet(c *catalog.Catalog, rec audit.Record) error {
	sheet := w.labels.ResultsSheet
	if err := w.headerRow(sheet, 1, w.labels.ResultsHeader); err != nil {
		return err
	}

	row := 2
	for _, cat := range c.Categories() {
		for _, item := range cat.Items {
			entry, ok := rec[item.ID]
			if !ok {
				continue
			}
			values := []any{
				item.ID,
				cat.Name,
				item.Question,
				string(entry.Rating),
				entry.Comment,
				w.labels.Criticality(cat.Criticality),
			}
			if err := w.dataRow(sheet, row, values, w.rowStyle(entry.Rating)); err != nil {
				return err
			}
			row++
		}
	}

	return w.widths(sheet, 12, 30, 50, 12, 40, 15)
}

func (w *writer) actionSheet(c *catalog.Catalog, rec audit.Record) error {
	sheet := w.labels.ActionSheet
	if err := w.headerRow(sheet, 1, w.labels.ActionHeader); err != nil {
		return err
	}

	row := 2
	for _, cat := range c.Categories() {
		for _, item := range cat.Items {
			entry, ok := rec[item.ID]
			if !ok || !entry.Rating.IsNonConformity() {
				continue
			}
			values := []any{
				item.ID,
				item.Question,
				entry.Comment,
				w.labels.CorrectiveAction,
				w.labels.Owner,
				w.labels.Deadline,
				w.labels.Status,
				w.labels.ClosureDate,
				"",
			}
			if err := w.dataRow(sheet, row, values, w.fills[entry.Rating]); err != nil {
				return err
			}
			row++
		}
	}

	return w.widths(sheet, 12, 40, 35, 35, 20, 15, 12, 15, 30)
}

func (w *writer) synthesisSheet(global scoring.GlobalScore, categories []scoring.CategoryScore) error {
	l := w.labels
	sheet := l.SynthesisSheet
	if err := w.titleRow(sheet, l.SynthesisTitle); err != nil {
		return err
	}

	pairs := []struct {
		row          int
		label, value string
	}{
		{3, l.GlobalScore, percent(global.Score)},
		{4, l.ConformityLevel, l.Level(global.Level)},
	}
	for _, p := range pairs {
		if err := w.set(sheet, 1, p.row, p.label, w.bold); err != nil {
			return err
		}
		if err := w.set(sheet, 2, p.row, p.value, w.bold); err != nil {
			return err
		}
	}
	if err := w.set(sheet, 1, 6, l.CategoryScores, w.bold); err != nil {
		return err
	}
	if err := w.headerRow(sheet, 7, l.SynthesisHeader); err != nil {
		return err
	}

	for i, cs := range categories {
		values := []any{cs.Name, percent(cs.Score), l.Criticality(cs.Criticality), cs.Evaluated}
		if err := w.f.SetSheetRow(sheet, cell(1, 8+i), &values); err != nil {
			return err
		}
	}

	return w.widths(sheet, 40, 15, 15, 15)
}

func (w *writer) titleRow(sheet, title string) error {
	if err := w.set(sheet, 1, 1, title, w.title); err != nil {
		return err
	}
	return w.f.MergeCell(sheet, "A1", "D1")
}

func (w *writer) headerRow(sheet string, row int, header []string) error {
	values := make([]any, len(header))
	for i, h := range header {
		values[i] = h
	}
	return w.dataRow(sheet, row, values, w.header)
}

func (w *writer) dataRow(sheet string, row int, values []any, style int) error {
	first := cell(1, row)
	for i, v := range values {
		if err := checkLength(cell(i+1, row), v); err != nil {
			return err
		}
	}
	if err := w.f.SetSheetRow(sheet, first, &values); err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, first, cell(len(values), row), style)
}

func (w *writer) set(sheet string, col, row int, value any, style int) error {
	ref := cell(col, row)
	if err := checkLength(ref, value); err != nil {
		return err
	}
	if err := w.f.SetCellValue(sheet, ref, value); err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, ref, ref, style)
}

func (w *writer) widths(sheet string, widths ...float64) error {
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := w.f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

// checkLength rejects strings the writer would otherwise cut at the cell limit.
func checkLength(ref string, value any) error {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	if n := utf8.RuneCountInString(s); n > excelize.TotalCellChars {
		return fmt.Errorf("%w: %s holds %d characters, limit is %d", ErrCellTooLong, ref, n, excelize.TotalCellChars)
	}
	return nil
}

// cell converts 1-based coordinates; inputs are always in range.
func cell(col, row int) string {
	ref, _ := excelize.CoordinatesToCellName(col, row)
	return ref
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

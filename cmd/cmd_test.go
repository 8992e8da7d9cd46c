package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleAudit = `supplier:
  Supplier name: Ferme du Val
  Auditor: C. Martin
audit:
  SEC-001: {rating: A, comment: "HACCP plan up to date"}
  SEC-002: B
`

// newTestCommand isolates viper and the working directory, and returns a
// command whose output is captured.
func newTestCommand(t *testing.T) (string, *bytes.Buffer, *cobra.Command) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	t.Chdir(dir)

	buf := &bytes.Buffer{}
	c := &cobra.Command{}
	c.SetContext(context.Background())
	c.SetOut(buf)
	c.SetErr(buf)
	return dir, buf, c
}

func writeAudit(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCommandsConfigured(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		use  string
		long bool
	}{
		{scoreCmd, "score <audit.yaml>", true},
		{reportCmd, "report <audit.yaml>", true},
		{batchCmd, "batch [pattern]", true},
		{catalogCmd, "catalog", true},
		{catalogValidateCmd, "validate <catalog.yaml>", false},
		{initCmd, "init", true},
	}
	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short)
			if tt.long {
				assert.NotEmpty(t, tt.cmd.Long)
			}
			assert.NotNil(t, tt.cmd.Run)
		})
	}
}

func TestRootRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"score", "report", "batch", "catalog", "init"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRunScoreJSON(t *testing.T) {
	dir, buf, c := newTestCommand(t)
	path := filepath.Join(dir, "val.audit.yaml")
	writeAudit(t, path, sampleAudit)
	viper.Set("format", "json")

	require.NoError(t, runScore(c, []string{path}))

	var doc struct {
		Global struct {
			Score           float64 `json:"score"`
			Level           string  `json:"level"`
			NonConformities int     `json:"non_conformities"`
			Answered        int     `json:"answered"`
		} `json:"global"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.InDelta(t, 75.0, doc.Global.Score, 1e-9)
	assert.Equal(t, "SATISFACTORY", doc.Global.Level)
	assert.Equal(t, 1, doc.Global.NonConformities)
	assert.Equal(t, 2, doc.Global.Answered)
}

func TestRunScoreConsole(t *testing.T) {
	dir, buf, c := newTestCommand(t)
	path := filepath.Join(dir, "val.audit.yaml")
	writeAudit(t, path, sampleAudit)

	require.NoError(t, runScore(c, []string{path}))
	assert.Contains(t, buf.String(), "Ferme du Val")
	assert.Contains(t, buf.String(), "SATISFACTORY")
}

func TestRunScoreErrors(t *testing.T) {
	dir, _, c := newTestCommand(t)

	err := runScore(c, []string{filepath.Join(dir, "missing.audit.yaml")})
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.audit.yaml")
	writeAudit(t, bad, "audit:\n  SEC-001: D\n")
	err = runScore(c, []string{bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rating")
}

func TestRunScoreOutputFile(t *testing.T) {
	dir, buf, c := newTestCommand(t)
	path := filepath.Join(dir, "val.audit.yaml")
	writeAudit(t, path, sampleAudit)
	out := filepath.Join(dir, "summary.md")
	viper.Set("format", "markdown")
	viper.Set("output", out)

	require.NoError(t, runScore(c, []string{path}))
	assert.Empty(t, buf.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Ferme du Val")
}

func TestRunReport(t *testing.T) {
	dir, buf, c := newTestCommand(t)
	path := filepath.Join(dir, "val.audit.yaml")
	writeAudit(t, path, sampleAudit)
	outDir := filepath.Join(dir, "reports")
	viper.Set("outDir", outDir)
	viper.Set("quiet", true)

	require.NoError(t, runReport(c, []string{path}))

	matches, err := filepath.Glob(filepath.Join(outDir, "Audit_Ferme_du_Val_*.xlsx"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	f, err := excelize.OpenFile(matches[0])
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Supplier Info", "Audit Results", "Action Plan", "Synthesis"}, f.GetSheetList())
	assert.Empty(t, buf.String())
}

func TestRunReportExplicitOutput(t *testing.T) {
	dir, _, c := newTestCommand(t)
	path := filepath.Join(dir, "val.audit.yaml")
	writeAudit(t, path, sampleAudit)
	dest := filepath.Join(dir, "out", "val.xlsx")
	viper.Set("output", dest)
	viper.Set("locale", "fr")
	viper.Set("quiet", true)

	require.NoError(t, runReport(c, []string{path}))

	f, err := excelize.OpenFile(dest)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "Informations Fournisseur", f.GetSheetList()[0])
}

func TestRunBatch(t *testing.T) {
	dir, buf, c := newTestCommand(t)
	writeAudit(t, filepath.Join(dir, "audits", "a.audit.yaml"), sampleAudit)
	writeAudit(t, filepath.Join(dir, "audits", "b.audit.yaml"), sampleAudit)
	viper.Set("outDir", filepath.Join(dir, "reports"))
	viper.Set("format", "json")

	require.NoError(t, runBatch(c, nil))

	var doc struct {
		Summary struct {
			Total     int `json:"total"`
			Succeeded int `json:"succeeded"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 2, doc.Summary.Total)
	assert.Equal(t, 2, doc.Summary.Succeeded)

	reports, err := filepath.Glob(filepath.Join(dir, "reports", "*.xlsx"))
	require.NoError(t, err)
	assert.Len(t, reports, 2, "colliding supplier names get distinct files")
}

func TestRunBatchFailures(t *testing.T) {
	dir, _, c := newTestCommand(t)
	writeAudit(t, filepath.Join(dir, "good.audit.yaml"), sampleAudit)
	writeAudit(t, filepath.Join(dir, "bad.audit.yaml"), "audit:\n  SEC-001: D\n")
	viper.Set("outDir", filepath.Join(dir, "reports"))
	viper.Set("quiet", true)
	viper.Set("parallel", false)

	err := runBatch(c, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 audits failed")
}

func TestRunBatchNoFiles(t *testing.T) {
	_, _, c := newTestCommand(t)
	err := runBatch(c, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no audit files found")
}

func TestRunCatalog(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"console", "SEC-001"},
		{"markdown", "| SEC-001 |"},
		{"json", `"id": "SEC-001"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			_, buf, c := newTestCommand(t)
			viper.Set("format", tt.format)
			require.NoError(t, runCatalog(c, nil))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestRunCatalogValidate(t *testing.T) {
	dir, buf, c := newTestCommand(t)

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`version: "1.0"
categories:
  - ordinal: 1
    name: HYGIENE
    criticality: MAJOR
    coefficient: 1.5
    items:
      - id: HYG-001
        question: Premises clean
`), 0644))
	require.NoError(t, runCatalogValidate(c, []string{good}))
	assert.Contains(t, buf.String(), "1 categories, 1 items")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`categories:
  - ordinal: 1
    name: HYGIENE
    criticality: MAJOR
    coefficient: 1
    items:
      - id: HYG-001
        question: Premises clean
      - id: HYG-001
        question: Duplicate
`), 0644))
	err := runCatalogValidate(c, []string{bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestRunInit(t *testing.T) {
	dir, buf, c := newTestCommand(t)
	oldForce := initForce
	defer func() { initForce = oldForce }()
	initForce = false

	require.NoError(t, runInit(c, nil))
	assert.Contains(t, buf.String(), configFileName)
	assert.FileExists(t, filepath.Join(dir, configFileName))

	err := runInit(c, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	initForce = true
	require.NoError(t, runInit(c, nil))
}

func TestRunWrapperExits(t *testing.T) {
	_, buf, c := newTestCommand(t)

	code := -1
	oldExit := exitFunc
	exitFunc = func(c int) { code = c }
	defer func() { exitFunc = oldExit }()

	run(func(*cobra.Command, []string) error { return assert.AnError })(c, nil)
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "Error: "+assert.AnError.Error())

	code = -1
	run(func(*cobra.Command, []string) error { return nil })(c, nil)
	assert.Equal(t, -1, code)
}

package outputters

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/auditscore/internal/batch"
	"github.com/dotcommander/auditscore/internal/config"
	"github.com/dotcommander/auditscore/internal/output"
	"github.com/dotcommander/auditscore/internal/scoring"
)

type mockFormatter struct {
	formatCalled bool
	batchCalled  bool
	formatError  error
	summary      *output.AuditSummary
	batch        *batch.Summary
}

func (m *mockFormatter) Format(s *output.AuditSummary) error {
	m.formatCalled = true
	m.summary = s
	return m.formatError
}

func (m *mockFormatter) FormatBatch(s *batch.Summary) error {
	m.batchCalled = true
	m.batch = s
	return m.formatError
}

type mockFormatterFactory struct {
	requestedFormat string
	formatter       Formatter
	createError     error
}

func (m *mockFormatterFactory) CreateFormatter(format string) (Formatter, error) {
	m.requestedFormat = format
	if m.createError != nil {
		return nil, m.createError
	}
	return m.formatter, nil
}

func summary() *output.AuditSummary {
	return &output.AuditSummary{
		Source: "a.audit.yaml",
		Result: scoring.Result{Global: scoring.GlobalScore{Score: 80, Level: scoring.Satisfactory}},
	}
}

func TestNewOutputter(t *testing.T) {
	cfg := &config.Config{Format: "console"}
	outputter := NewOutputter(cfg, &bytes.Buffer{})

	require.NotNil(t, outputter)
	assert.Same(t, cfg, outputter.config)
	_, ok := outputter.factory.(*DefaultFormatterFactory)
	assert.True(t, ok, "factory type = %T", outputter.factory)
}

func TestOutputter_DelegatesToFactory(t *testing.T) {
	formatter := &mockFormatter{}
	factory := &mockFormatterFactory{formatter: formatter}
	o := NewOutputterWithFactory(&config.Config{Format: "markdown"}, factory)

	s := summary()
	require.NoError(t, o.Format(s))
	assert.Equal(t, "markdown", factory.requestedFormat)
	assert.True(t, formatter.formatCalled)
	assert.Same(t, s, formatter.summary)

	b := &batch.Summary{RunID: "run"}
	require.NoError(t, o.FormatBatch(b))
	assert.True(t, formatter.batchCalled)
	assert.Same(t, b, formatter.batch)
}

func TestOutputter_Errors(t *testing.T) {
	factoryErr := errors.New("no such format")
	o := NewOutputterWithFactory(&config.Config{Format: "xml"}, &mockFormatterFactory{createError: factoryErr})
	assert.ErrorIs(t, o.Format(summary()), factoryErr)
	assert.ErrorIs(t, o.FormatBatch(&batch.Summary{}), factoryErr)

	formatErr := errors.New("write failed")
	o = NewOutputterWithFactory(&config.Config{Format: "json"}, &mockFormatterFactory{formatter: &mockFormatter{formatError: formatErr}})
	assert.ErrorIs(t, o.Format(summary()), formatErr)
}

func TestDefaultFormatterFactory_CreateFormatter(t *testing.T) {
	tests := []struct {
		format   string
		wantType any
		wantErr  bool
	}{
		{"console", &output.ConsoleFormatter{}, false},
		{"json", &output.JSONFormatter{}, false},
		{"markdown", &output.MarkdownFormatter{}, false},
		{"xml", nil, true},
		{"", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := NewDefaultFormatterFactory(&config.Config{}, &bytes.Buffer{}).CreateFormatter(tt.format)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported format")
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, f)
		})
	}
}

func TestOutputter_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	o := NewOutputter(&config.Config{Format: "json"}, &buf)
	require.NoError(t, o.Format(summary()))
	assert.Contains(t, buf.String(), `"level": "SATISFACTORY"`)

	buf.Reset()
	o = NewOutputter(&config.Config{Format: "console", Quiet: true}, &buf)
	require.NoError(t, o.Format(summary()))
	assert.Empty(t, buf.String())
}

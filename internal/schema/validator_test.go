package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoadedValidator(t *testing.T) *Validator {
	t.Helper()
	v := NewValidator()
	require.NoError(t, v.LoadSchemas())
	return v
}

func validCategory() map[string]any {
	return map[string]any{
		"ordinal":     1,
		"name":        "FOOD SAFETY",
		"criticality": "CRITICAL",
		"coefficient": 2.0,
		"items": []any{
			map[string]any{"id": "SEC-001", "question": "HACCP plan", "guidance": "Check CCPs"},
		},
	}
}

func TestLoadSchemas(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.LoadSchemas())
	assert.Contains(t, v.schemas, SchemaCatalog)
	assert.Contains(t, v.schemas, SchemaAudit)
}

func TestValidateCatalog(t *testing.T) {
	v := newLoadedValidator(t)

	tests := []struct {
		name    string
		mutate  func(cat map[string]any) map[string]any
		wantErr bool
	}{
		{
			name:   "valid catalog",
			mutate: func(cat map[string]any) map[string]any { return cat },
		},
		{
			name: "zero coefficient",
			mutate: func(cat map[string]any) map[string]any {
				cat["coefficient"] = 0
				return cat
			},
			wantErr: true,
		},
		{
			name: "negative coefficient",
			mutate: func(cat map[string]any) map[string]any {
				cat["coefficient"] = -1.5
				return cat
			},
			wantErr: true,
		},
		{
			name: "unknown criticality",
			mutate: func(cat map[string]any) map[string]any {
				cat["criticality"] = "CRITIQUE"
				return cat
			},
			wantErr: true,
		},
		{
			name: "no items",
			mutate: func(cat map[string]any) map[string]any {
				cat["items"] = []any{}
				return cat
			},
			wantErr: true,
		},
		{
			name: "unknown field",
			mutate: func(cat map[string]any) map[string]any {
				cat["weight"] = 3
				return cat
			},
			wantErr: true,
		},
		{
			name: "item id with whitespace",
			mutate: func(cat map[string]any) map[string]any {
				cat["items"] = []any{map[string]any{"id": "SEC 001", "question": "q"}}
				return cat
			},
			wantErr: true,
		},
		{
			name: "ordinal omitted",
			mutate: func(cat map[string]any) map[string]any {
				delete(cat, "ordinal")
				return cat
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := map[string]any{
				"version":    "1.1",
				"categories": []any{tt.mutate(validCategory())},
			}
			errs, err := v.ValidateCatalog("catalog.yaml", data)
			require.NoError(t, err)
			if tt.wantErr {
				require.NotEmpty(t, errs)
				assert.Equal(t, "catalog.yaml", errs[0].File)
				assert.NotEmpty(t, errs[0].Message)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidateCatalog_MissingCategories(t *testing.T) {
	v := newLoadedValidator(t)
	errs, err := v.ValidateCatalog("", map[string]any{"version": "1"})
	require.NoError(t, err)
	assert.NotEmpty(t, errs)
}

func TestValidateAudit(t *testing.T) {
	v := newLoadedValidator(t)

	tests := []struct {
		name    string
		data    map[string]any
		wantErr bool
	}{
		{
			name: "complete audit",
			data: map[string]any{
				"supplier": map[string]any{"Supplier name": "Ferme du Val", "Headcount": 12},
				"audit": map[string]any{
					"SEC-001": map[string]any{"rating": "A", "comment": "ok"},
					"SEC-002": map[string]any{"rating": "N/A"},
				},
			},
		},
		{
			name: "empty sections",
			data: map[string]any{"supplier": nil, "audit": nil},
		},
		{
			name: "unrecognised rating code is still well-formed",
			data: map[string]any{
				"audit": map[string]any{"SEC-001": map[string]any{"rating": "Z"}},
			},
		},
		{
			name: "entry without rating",
			data: map[string]any{
				"audit": map[string]any{"SEC-001": map[string]any{"comment": "no rating"}},
			},
			wantErr: true,
		},
		{
			name:    "unknown top-level section",
			data:    map[string]any{"findings": []any{"x"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, err := v.ValidateAudit("audit.yaml", tt.data)
			require.NoError(t, err)
			if tt.wantErr {
				assert.NotEmpty(t, errs)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidate_SchemaNotLoaded(t *testing.T) {
	v := NewValidator()
	_, err := v.ValidateCatalog("", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not loaded")
}

func TestValidationError_String(t *testing.T) {
	tests := []struct {
		name string
		err  ValidationError
		want string
	}{
		{"message only", ValidationError{Message: "bad"}, "bad"},
		{"with path", ValidationError{Path: "categories.0.coefficient", Message: "invalid value"}, "categories.0.coefficient: invalid value"},
		{"with file and path", ValidationError{File: "c.yaml", Path: "version", Message: "x"}, "c.yaml: version: x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.String())
		})
	}
}

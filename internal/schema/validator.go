package schema

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// Schema names, matching the embedded file base names.
const (
	SchemaCatalog = "catalog"
	SchemaAudit   = "audit"
)

// ValidationError is a single schema violation.
type ValidationError struct {
	File    string
	Path    string // dotted path of the offending field, empty for the document root
	Message string
}

func (e ValidationError) String() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// Validator handles CUE validation. A Validator is not safe for concurrent use;
// create one per goroutine.
type Validator struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
}

// LoadSchemas compiles all CUE schema files from the embedded filesystem
func (v *Validator) LoadSchemas() error {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return fmt.Errorf("could not read embedded schemas: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cue" {
			continue
		}
		content, err := schemaFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read schema %s: %w", entry.Name(), err)
		}

		inst := v.ctx.CompileBytes(content, cue.Filename(entry.Name()))
		if instErr := inst.Err(); instErr != nil {
			return fmt.Errorf("compile schema %s: %w", entry.Name(), instErr)
		}

		// catalog.cue -> catalog
		v.schemas[strings.TrimSuffix(entry.Name(), ".cue")] = inst.Value()
	}

	if len(v.schemas) == 0 {
		return fmt.Errorf("no CUE schemas loaded")
	}
	return nil
}

// ValidateCatalog validates a decoded catalog definition against #Catalog.
func (v *Validator) ValidateCatalog(file string, data map[string]any) ([]ValidationError, error) {
	return v.validate(SchemaCatalog, file, data)
}

// ValidateAudit validates a decoded audit file against #Audit.
func (v *Validator) ValidateAudit(file string, data map[string]any) ([]ValidationError, error) {
	return v.validate(SchemaAudit, file, data)
}

func (v *Validator) validate(schemaName, file string, data map[string]any) ([]ValidationError, error) {
	schema, ok := v.schemas[schemaName]
	if !ok {
		return nil, fmt.Errorf("schema %q not loaded", schemaName)
	}

	dataValue := v.ctx.Encode(data)
	if encErr := dataValue.Err(); encErr != nil {
		return nil, fmt.Errorf("error encoding data: %w", encErr)
	}

	// catalog -> #Catalog
	defPath := cue.ParsePath("#" + strings.ToUpper(schemaName[:1]) + schemaName[1:])
	def := schema.LookupPath(defPath)
	if !def.Exists() {
		return nil, fmt.Errorf("schema %q has no %s definition", schemaName, defPath)
	}

	unified := def.Unify(dataValue)
	if err := unified.Err(); err != nil {
		return extractErrors(err, file), nil
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return extractErrors(err, file), nil
	}
	return nil, nil
}

// extractErrors flattens a CUE error list into one ValidationError per violation.
func extractErrors(err error, file string) []ValidationError {
	var out []ValidationError
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		out = append(out, ValidationError{
			File:    file,
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		})
	}
	if len(out) == 0 {
		out = append(out, ValidationError{File: file, Message: err.Error()})
	}
	return out
}

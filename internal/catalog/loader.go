package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/auditscore/internal/schema"
	"github.com/dotcommander/auditscore/internal/types"
)

//go:embed data/default.yaml
var defaultDefinition []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the compiled-in checklist. It is parsed and validated on first
// use; a malformed built-in definition is a programming error and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultDefinition, "default.yaml")
		if err != nil {
			panic(fmt.Sprintf("built-in catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// fileCatalog mirrors the YAML layout described by schemas/catalog.cue.
type fileCatalog struct {
	Version    string         `yaml:"version"`
	Categories []fileCategory `yaml:"categories"`
}

type fileCategory struct {
	Ordinal     int        `yaml:"ordinal"`
	Name        string     `yaml:"name"`
	Criticality string     `yaml:"criticality"`
	Coefficient float64    `yaml:"coefficient"`
	Items       []fileItem `yaml:"items"`
}

type fileItem struct {
	ID       string `yaml:"id"`
	Question string `yaml:"question"`
	Guidance string `yaml:"guidance"`
}

// Load reads and validates a catalog definition file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	c, err := Parse(data, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog definition, checks it against the catalog schema
// and builds the registry. source names the definition in error messages.
func Parse(data []byte, source string) (*Catalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, malformed("", "", "invalid YAML: %v", err)
	}
	if raw == nil {
		return nil, malformed("", "", "empty definition")
	}

	v := schema.NewValidator()
	if err := v.LoadSchemas(); err != nil {
		return nil, fmt.Errorf("loading schemas: %w", err)
	}
	violations, err := v.ValidateCatalog(source, raw)
	if err != nil {
		return nil, malformed("", "", "%v", err)
	}
	if len(violations) > 0 {
		msgs := make([]string, 0, len(violations))
		for _, ve := range violations {
			ve.File = ""
			msgs = append(msgs, ve.String())
		}
		return nil, malformed("", "", "schema violation: %s", strings.Join(msgs, "; "))
	}

	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, malformed("", "", "invalid YAML: %v", err)
	}

	defs := make([]Category, 0, len(fc.Categories))
	for _, cat := range fc.Categories {
		items := make([]Item, 0, len(cat.Items))
		for _, it := range cat.Items {
			items = append(items, Item{ID: it.ID, Question: it.Question, Guidance: it.Guidance})
		}
		defs = append(defs, Category{
			Ordinal:     cat.Ordinal,
			Name:        cat.Name,
			Criticality: types.Criticality(cat.Criticality),
			Coefficient: cat.Coefficient,
			Items:       items,
		})
	}
	return New(defs)
}

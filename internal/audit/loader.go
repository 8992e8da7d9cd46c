package audit

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/auditscore/internal/schema"
)

// ErrInvalidSession is matched by structural problems in an audit file.
var ErrInvalidSession = errors.New("invalid audit file")

// Load reads an audit session file.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit file: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes an audit session document:
//
//	supplier:
//	  Supplier name: Ferme du Val
//	audit:
//	  SEC-001: {rating: A, comment: "HACCP plan up to date"}
//	  SEC-002: B
//
// Supplier keys keep their document order. Rating codes are normalised but not
// rejected here; unknown codes surface when the session is scored.
func Parse(data []byte, source string) (*Session, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidSession, source, err)
	}

	s := &Session{Source: source, Record: Record{}}
	if raw == nil {
		return s, nil
	}

	v := schema.NewValidator()
	if err := v.LoadSchemas(); err != nil {
		return nil, fmt.Errorf("loading schemas: %w", err)
	}
	violations, err := v.ValidateAudit(source, raw)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidSession, source, err)
	}
	if len(violations) > 0 {
		msgs := make([]string, 0, len(violations))
		for _, ve := range violations {
			ve.File = ""
			msgs = append(msgs, ve.String())
		}
		return nil, fmt.Errorf("%w %s: %s", ErrInvalidSession, source, strings.Join(msgs, "; "))
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidSession, source, err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]
		switch key {
		case "supplier":
			s.Supplier = decodeSupplier(value)
		case "audit":
			s.Record = decodeRecord(value)
		}
	}
	return s, nil
}

func decodeSupplier(n *yaml.Node) SupplierInfo {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	info := make(SupplierInfo, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		info.Set(n.Content[i].Value, scalar(n.Content[i+1]))
	}
	return info
}

func decodeRecord(n *yaml.Node) Record {
	rec := Record{}
	if n.Kind != yaml.MappingNode {
		return rec
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		id := strings.TrimSpace(n.Content[i].Value)
		value := n.Content[i+1]

		var entry Entry
		switch value.Kind {
		case yaml.ScalarNode:
			entry.Rating = normalizeRating(value.Value)
		case yaml.MappingNode:
			for j := 0; j+1 < len(value.Content); j += 2 {
				switch value.Content[j].Value {
				case "rating":
					entry.Rating = normalizeRating(scalar(value.Content[j+1]))
				case "comment":
					entry.Comment = scalar(value.Content[j+1])
				}
			}
		}
		rec[id] = entry
	}
	return rec
}

func normalizeRating(s string) Rating {
	r, _ := ParseRating(s)
	return r
}

func scalar(n *yaml.Node) string {
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return ""
	}
	return n.Value
}

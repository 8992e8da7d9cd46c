// Package audit defines the caller-owned inputs of an audit: per-item ratings
// and the supplier details printed on the report.
package audit

// Entry is the evaluation of one checklist item.
type Entry struct {
	Rating  Rating `json:"rating" yaml:"rating"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// Record maps item identifiers to their evaluation. Entries whose identifier is
// not in the catalog are ignored by scoring and reporting.
type Record map[string]Entry

// Field is one supplier detail.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SupplierInfo is an ordered list of supplier details.
type SupplierInfo []Field

// Get returns the value of the first field named key.
func (s SupplierInfo) Get(key string) (string, bool) {
	for _, f := range s {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Set replaces the value of key, appending it when absent.
func (s *SupplierInfo) Set(key, value string) {
	for i := range *s {
		if (*s)[i].Key == key {
			(*s)[i].Value = value
			return
		}
	}
	*s = append(*s, Field{Key: key, Value: value})
}

// Session bundles everything one audit run needs. It is built by the caller and
// passed to the engine on every call; the engine keeps no reference to it.
type Session struct {
	Source   string
	Supplier SupplierInfo
	Record   Record
}

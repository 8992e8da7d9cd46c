package report

import (
	"strings"
	"time"

	"github.com/dotcommander/auditscore/internal/audit"
)

// FileName builds "<prefix>_<supplier>_<YYYYMMDD>.xlsx" from the supplier field
// named nameKey. Spaces become underscores and path separators are dropped; a
// missing or blank name falls back to "Supplier".
func FileName(info audit.SupplierInfo, nameKey, prefix string, date time.Time) string {
	name, _ := info.Get(nameKey)
	name = sanitize(name)
	if name == "" {
		name = defaultSupplier
	}

	var b strings.Builder
	if p := sanitize(prefix); p != "" {
		b.WriteString(p)
		b.WriteByte('_')
	}
	b.WriteString(name)
	b.WriteByte('_')
	b.WriteString(date.Format("20060102"))
	b.WriteString(".xlsx")
	return b.String()
}

const defaultSupplier = "Supplier"

func sanitize(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t':
			return '_'
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return -1
		}
		return r
	}, s)
}

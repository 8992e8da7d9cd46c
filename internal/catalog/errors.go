package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedCatalog is matched by every catalog construction failure.
var ErrMalformedCatalog = errors.New("malformed catalog")

// MalformedError describes why a catalog definition was rejected. Category and
// ItemID identify the offending entry when known.
type MalformedError struct {
	Category string
	ItemID   string
	Reason   string
}

// Error implements the error interface
func (e *MalformedError) Error() string {
	var loc []string
	if e.Category != "" {
		loc = append(loc, fmt.Sprintf("category %q", e.Category))
	}
	if e.ItemID != "" {
		loc = append(loc, fmt.Sprintf("item %q", e.ItemID))
	}
	if len(loc) == 0 {
		return fmt.Sprintf("%s: %s", ErrMalformedCatalog, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrMalformedCatalog, strings.Join(loc, " "), e.Reason)
}

// Is lets errors.Is(err, ErrMalformedCatalog) match.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedCatalog
}

func malformed(category, itemID, format string, args ...any) *MalformedError {
	return &MalformedError{
		Category: category,
		ItemID:   itemID,
		Reason:   fmt.Sprintf(format, args...),
	}
}

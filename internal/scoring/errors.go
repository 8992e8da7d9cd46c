package scoring

import (
	"fmt"

	"github.com/dotcommander/auditscore/internal/audit"
)

// UnknownRatingError reports an entry whose rating is not A, B, C or N/A.
// It matches audit.ErrUnknownRating.
type UnknownRatingError struct {
	ItemID string
	Rating audit.Rating
}

// Error implements the error interface
func (e *UnknownRatingError) Error() string {
	return fmt.Sprintf("item %s: %s %q", e.ItemID, audit.ErrUnknownRating, string(e.Rating))
}

// Is lets errors.Is(err, audit.ErrUnknownRating) match.
func (e *UnknownRatingError) Is(target error) bool {
	return target == audit.ErrUnknownRating
}

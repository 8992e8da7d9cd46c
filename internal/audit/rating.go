package audit

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRating is matched by errors caused by a rating outside the four
// recognised codes.
var ErrUnknownRating = errors.New("unknown rating")

// MaxPoints is the value of a Compliant rating and the per-item ceiling.
const MaxPoints = 20

// Rating is the evaluator's verdict on one item. Values come from input files, so
// unrecognised codes are representable; Valid reports whether r is one of the
// four variants below.
type Rating string

const (
	Compliant          Rating = "A"
	MinorNonConformity Rating = "B"
	MajorNonConformity Rating = "C"
	NotApplicable      Rating = "N/A"
)

// Ratings lists the variants in display order.
var Ratings = []Rating{Compliant, MinorNonConformity, MajorNonConformity, NotApplicable}

// ParseRating normalises case and whitespace and accepts "NA" for N/A.
func ParseRating(s string) (Rating, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if code == "NA" {
		code = string(NotApplicable)
	}
	r := Rating(code)
	if !r.Valid() {
		return r, fmt.Errorf("%w %q", ErrUnknownRating, s)
	}
	return r, nil
}

// Valid reports whether r is a recognised rating.
func (r Rating) Valid() bool {
	switch r {
	case Compliant, MinorNonConformity, MajorNonConformity, NotApplicable:
		return true
	}
	return false
}

// Points returns the score of r. ok is false for N/A and for unknown ratings:
// such items carry no points and are excluded from scoring.
func (r Rating) Points() (points int, ok bool) {
	switch r {
	case Compliant:
		return MaxPoints, true
	case MinorNonConformity:
		return 10, true
	case MajorNonConformity:
		return 0, true
	}
	return 0, false
}

// IsNonConformity reports whether r requires corrective action.
func (r Rating) IsNonConformity() bool {
	return r == MinorNonConformity || r == MajorNonConformity
}

// Label is the human-readable name of the rating.
func (r Rating) Label() string {
	switch r {
	case Compliant:
		return "A - Compliant"
	case MinorNonConformity:
		return "B - Minor non-conformity"
	case MajorNonConformity:
		return "C - Major non-conformity"
	case NotApplicable:
		return "N/A - Not applicable"
	}
	return string(r)
}

// Severity names the non-conformity grade, or "" for other ratings.
func (r Rating) Severity() string {
	switch r {
	case MinorNonConformity:
		return "Minor"
	case MajorNonConformity:
		return "Major"
	}
	return ""
}

// Fill is the report row background (RGB hex, no '#'), or "" for no fill.
func (r Rating) Fill() string {
	switch r {
	case Compliant:
		return "D5F4E6"
	case MinorNonConformity:
		return "FFF3CD"
	case MajorNonConformity:
		return "F8D7DA"
	}
	return ""
}

// Color is the on-screen badge colour.
func (r Rating) Color() string {
	switch r {
	case Compliant:
		return "#28a745"
	case MinorNonConformity:
		return "#ffc107"
	case MajorNonConformity:
		return "#dc3545"
	}
	return "#6c757d"
}

package audit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		in      string
		want    Rating
		wantErr bool
	}{
		{"A", Compliant, false},
		{" b ", MinorNonConformity, false},
		{"c", MajorNonConformity, false},
		{"N/A", NotApplicable, false},
		{"n/a", NotApplicable, false},
		{"NA", NotApplicable, false},
		{"D", Rating("D"), true},
		{"", Rating(""), true},
		{"conforme", Rating("CONFORME"), true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRating(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownRating))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRating_Points(t *testing.T) {
	tests := []struct {
		rating     Rating
		wantPoints int
		wantOK     bool
	}{
		{Compliant, 20, true},
		{MinorNonConformity, 10, true},
		{MajorNonConformity, 0, true},
		{NotApplicable, 0, false},
		{Rating("X"), 0, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.rating), func(t *testing.T) {
			points, ok := tt.rating.Points()
			assert.Equal(t, tt.wantPoints, points)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestRating_Attributes(t *testing.T) {
	tests := []struct {
		rating   Rating
		valid    bool
		nc       bool
		fill     string
		severity string
	}{
		{Compliant, true, false, "D5F4E6", ""},
		{MinorNonConformity, true, true, "FFF3CD", "Minor"},
		{MajorNonConformity, true, true, "F8D7DA", "Major"},
		{NotApplicable, true, false, "", ""},
		{Rating("?"), false, false, "", ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.rating), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.rating.Valid())
			assert.Equal(t, tt.nc, tt.rating.IsNonConformity())
			assert.Equal(t, tt.fill, tt.rating.Fill())
			assert.Equal(t, tt.severity, tt.rating.Severity())
			assert.NotEmpty(t, tt.rating.Label())
			assert.NotEmpty(t, tt.rating.Color())
		})
	}
}

func TestRatings_Order(t *testing.T) {
	assert.Equal(t, []Rating{"A", "B", "C", "N/A"}, Ratings)
}

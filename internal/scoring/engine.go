// Package scoring turns audit ratings into weighted category and global scores
// and classifies the global score into a conformity level.
//
// Everything here is a pure function of its arguments and safe for concurrent use.
package scoring

import (
	"github.com/dotcommander/auditscore/internal/audit"
	"github.com/dotcommander/auditscore/internal/catalog"
)

// Score computes the per-category and global scores of rec against c.
//
// For each category, items rated A, B or C are selected; N/A items and items
// without an entry are skipped. A category with no selected item yields no
// CategoryScore and adds nothing to the global denominator. Otherwise
//
//	points   = Σ rating points × coefficient
//	possible = Σ 20 × coefficient
//	score    = points / possible × 100
//
// The global score is Σ points / Σ possible × 100, or exactly 0 when nothing was
// scored. Entries for identifiers missing from the catalog are ignored. The first
// entry (in catalog order) with an unrecognised rating aborts with an
// *UnknownRatingError.
func Score(c *catalog.Catalog, rec audit.Record) (GlobalScore, []CategoryScore, error) {
	global := GlobalScore{TotalItems: c.Len()}
	var categories []CategoryScore
	var totalPoints, totalPossible float64

	for ci := 0; ci < c.NumCategories(); ci++ {
		cat := c.Category(ci)
		cs := CategoryScore{
			Ordinal:     cat.Ordinal,
			Name:        cat.Name,
			Criticality: cat.Criticality,
			Coefficient: cat.Coefficient,
		}

		for _, item := range cat.Items {
			entry, ok := rec[item.ID]
			if !ok {
				continue
			}
			if !entry.Rating.Valid() {
				return GlobalScore{}, nil, &UnknownRatingError{ItemID: item.ID, Rating: entry.Rating}
			}
			global.Answered++

			points, scored := entry.Rating.Points()
			if !scored {
				continue
			}
			cs.Points += float64(points) * cat.Coefficient
			cs.Possible += audit.MaxPoints * cat.Coefficient
			cs.Evaluated++
			if entry.Rating.IsNonConformity() {
				cs.NonConformities++
			}
		}

		if cs.Evaluated == 0 {
			continue
		}
		cs.Score = cs.Points / cs.Possible * 100
		categories = append(categories, cs)

		totalPoints += cs.Points
		totalPossible += cs.Possible
		global.Evaluated += cs.Evaluated
		global.NonConformities += cs.NonConformities
	}

	if totalPossible > 0 {
		global.Score = totalPoints / totalPossible * 100
	}
	global.Level = Classify(global.Score)
	return global, categories, nil
}

// Findings lists the items rated B or C in catalog order.
func Findings(c *catalog.Catalog, rec audit.Record) []Finding {
	var out []Finding
	for _, cat := range c.Categories() {
		for _, item := range cat.Items {
			entry, ok := rec[item.ID]
			if !ok || !entry.Rating.IsNonConformity() {
				continue
			}
			out = append(out, Finding{
				ItemID:      item.ID,
				Category:    cat.Name,
				Criticality: cat.Criticality,
				Question:    item.Question,
				Rating:      string(entry.Rating),
				Severity:    entry.Rating.Severity(),
				Comment:     entry.Comment,
			})
		}
	}
	return out
}

// Evaluate runs Score and Findings together.
func Evaluate(c *catalog.Catalog, rec audit.Record) (Result, error) {
	global, categories, err := Score(c, rec)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Global:     global,
		Categories: categories,
		Findings:   Findings(c, rec),
	}, nil
}

package scoring

import "github.com/dotcommander/auditscore/internal/types"

// CategoryScore is the weighted result of one category. Categories without any
// scored item have no CategoryScore.
type CategoryScore struct {
	Ordinal         int               `json:"ordinal"`
	Name            string            `json:"name"`
	Criticality     types.Criticality `json:"criticality"`
	Coefficient     float64           `json:"coefficient"`
	Score           float64           `json:"score"`    // 0-100
	Points          float64           `json:"points"`   // weighted points earned
	Possible        float64           `json:"possible"` // weighted points available
	Evaluated       int               `json:"evaluated"`
	NonConformities int               `json:"non_conformities"`
}

// GlobalScore aggregates every scored category.
type GlobalScore struct {
	Score           float64 `json:"score"` // 0-100, 0 when nothing was scored
	Level           Level   `json:"level"`
	NonConformities int     `json:"non_conformities"` // catalog items rated B or C
	Evaluated       int     `json:"evaluated"`        // catalog items rated A, B or C
	Answered        int     `json:"answered"`         // catalog items with any entry
	TotalItems      int     `json:"total_items"`
}

// Progress is the share of catalog items that have an entry, 0-1.
func (g GlobalScore) Progress() float64 {
	if g.TotalItems == 0 {
		return 0
	}
	return float64(g.Answered) / float64(g.TotalItems)
}

// Finding is a non-conforming item, in catalog order.
type Finding struct {
	ItemID      string            `json:"id"`
	Category    string            `json:"category"`
	Criticality types.Criticality `json:"criticality"`
	Question    string            `json:"question"`
	Rating      string            `json:"rating"`
	Severity    string            `json:"severity"`
	Comment     string            `json:"comment,omitempty"`
}

// Result bundles everything derived from one record.
type Result struct {
	Global     GlobalScore     `json:"global"`
	Categories []CategoryScore `json:"categories"`
	Findings   []Finding       `json:"findings"`
}

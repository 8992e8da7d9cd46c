package report

import (
	"strings"

	"github.com/dotcommander/auditscore/internal/scoring"
	"github.com/dotcommander/auditscore/internal/types"
)

// Labels holds every human-readable string written into the workbook.
type Labels struct {
	SupplierSheet  string
	ResultsSheet   string
	ActionSheet    string
	SynthesisSheet string

	ReportTitle    string
	SynthesisTitle string

	ResultsHeader   []string
	ActionHeader    []string
	SynthesisHeader []string

	GlobalScore     string
	ConformityLevel string
	CategoryScores  string

	// Action Plan placeholders
	CorrectiveAction string
	Owner            string
	Deadline         string
	Status           string
	ClosureDate      string

	Levels        map[scoring.Level]string
	Criticalities map[types.Criticality]string
}

// EnglishLabels is the default label set.
var EnglishLabels = Labels{
	SupplierSheet:  "Supplier Info",
	ResultsSheet:   "Audit Results",
	ActionSheet:    "Action Plan",
	SynthesisSheet: "Synthesis",

	ReportTitle:    "SUPPLIER AUDIT REPORT",
	SynthesisTitle: "AUDIT SYNTHESIS",

	ResultsHeader:   []string{"ID", "Category", "Question", "Rating", "Comment", "Criticality"},
	ActionHeader:    []string{"ID", "Audit point", "Non-conformity", "Corrective action", "Owner", "Deadline", "Status", "Closure date", "Comments"},
	SynthesisHeader: []string{"Category", "Score %", "Criticality", "Items evaluated"},

	GlobalScore:     "Global score",
	ConformityLevel: "Conformity level",
	CategoryScores:  "Scores by category",

	CorrectiveAction: "[To be defined]",
	Owner:            "[Owner]",
	Deadline:         "[Deadline]",
	Status:           "In progress",
	ClosureDate:      "[Closure date]",

	Levels: map[scoring.Level]string{
		scoring.Excellent:    "EXCELLENT",
		scoring.Satisfactory: "SATISFACTORY",
		scoring.Acceptable:   "ACCEPTABLE",
		scoring.Insufficient: "INSUFFICIENT",
		scoring.NonCompliant: "NON COMPLIANT",
	},
	Criticalities: map[types.Criticality]string{
		types.CriticalityCritical: "CRITICAL",
		types.CriticalityMajor:    "MAJOR",
		types.CriticalityStandard: "STANDARD",
	},
}

// FrenchLabels reproduces the historical French workbook.
var FrenchLabels = Labels{
	SupplierSheet:  "Informations Fournisseur",
	ResultsSheet:   "Résultats Audit",
	ActionSheet:    "Plan d'Action",
	SynthesisSheet: "Synthèse",

	ReportTitle:    "RAPPORT D'AUDIT FOURNISSEUR",
	SynthesisTitle: "SYNTHÈSE DE L'AUDIT",

	ResultsHeader:   []string{"ID", "Catégorie", "Question", "Notation", "Commentaire", "Criticité"},
	ActionHeader:    []string{"ID", "Point d'audit", "Non-conformité", "Action corrective", "Responsable", "Délai", "Statut", "Date clôture", "Commentaires"},
	SynthesisHeader: []string{"Catégorie", "Score (%)", "Criticité", "Items évalués"},

	GlobalScore:     "Score Global",
	ConformityLevel: "Niveau de Conformité",
	CategoryScores:  "Scores par catégorie",

	CorrectiveAction: "[À définir]",
	Owner:            "[Responsable]",
	Deadline:         "[Date limite]",
	Status:           "En cours",
	ClosureDate:      "[Date clôture]",

	Levels: map[scoring.Level]string{
		scoring.Excellent:    "EXCELLENT",
		scoring.Satisfactory: "SATISFAISANT",
		scoring.Acceptable:   "ACCEPTABLE",
		scoring.Insufficient: "INSUFFISANT",
		scoring.NonCompliant: "NON CONFORME",
	},
	Criticalities: map[types.Criticality]string{
		types.CriticalityCritical: "CRITIQUE",
		types.CriticalityMajor:    "MAJEUR",
		types.CriticalityStandard: "STANDARD",
	},
}

// LabelsFor returns the label set of a locale. Unknown locales get English.
func LabelsFor(locale string) Labels {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case types.LocaleFrench:
		return FrenchLabels
	}
	return EnglishLabels
}

// Level returns the display name of level.
func (l Labels) Level(level scoring.Level) string {
	if s, ok := l.Levels[level]; ok {
		return s
	}
	return string(level)
}

// Criticality returns the display name of c.
func (l Labels) Criticality(c types.Criticality) string {
	if s, ok := l.Criticalities[c]; ok {
		return s
	}
	return string(c)
}

package output

import (
	"errors"
	"time"

	"github.com/dotcommander/auditscore/internal/audit"
	"github.com/dotcommander/auditscore/internal/batch"
	"github.com/dotcommander/auditscore/internal/scoring"
	"github.com/dotcommander/auditscore/internal/types"
)

func sampleSummary() *AuditSummary {
	return &AuditSummary{
		Source: "audits/ferme.audit.yaml",
		Name:   "Ferme du Val",
		Supplier: audit.SupplierInfo{
			{Key: "Supplier name", Value: "Ferme du Val"},
			{Key: "Auditor", Value: "C. Martin"},
		},
		Result: scoring.Result{
			Global: scoring.GlobalScore{
				Score: 62.5, Level: scoring.Acceptable, NonConformities: 2,
				Evaluated: 4, Answered: 5, TotalItems: 10,
			},
			Categories: []scoring.CategoryScore{
				{Ordinal: 1, Name: "FOOD SAFETY", Criticality: types.CriticalityCritical, Coefficient: 2, Score: 50, Points: 60, Possible: 120, Evaluated: 3, NonConformities: 2},
				{Ordinal: 3, Name: "ORIGINS | LABELS", Criticality: types.CriticalityStandard, Coefficient: 1, Score: 100, Points: 20, Possible: 20, Evaluated: 1},
			},
			Findings: []scoring.Finding{
				{ItemID: "SEC-002", Category: "FOOD SAFETY", Criticality: types.CriticalityCritical, Question: "Allergen management?", Rating: "B", Severity: "Minor", Comment: "matrix incomplete"},
				{ItemID: "SEC-003", Category: "FOOD SAFETY", Criticality: types.CriticalityCritical, Question: "Microbiological testing?", Rating: "C", Severity: "Major"},
			},
		},
		Report: "reports/Audit_Ferme_du_Val_20240502.xlsx",
	}
}

func sampleBatch() *batch.Summary {
	return &batch.Summary{
		RunID:     "6f1c1f54-4a43-4a7c-9d44-5c0a5b1e2f10",
		StartTime: time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC),
		Duration:  1234 * time.Millisecond,
		Results: []batch.Result{
			{
				Source: "a.audit.yaml",
				Name:   "Ferme du Val",
				Evaluation: scoring.Result{Global: scoring.GlobalScore{
					Score: 91.25, Level: scoring.Excellent, NonConformities: 1,
				}},
				Report: "out/Audit_Ferme_du_Val_20240502.xlsx",
			},
			{
				Source: "b.audit.yaml",
				Stage:  batch.StageScore,
				Err:    errors.New(`item SEC-001: unknown rating "E"`),
			},
		},
	}
}

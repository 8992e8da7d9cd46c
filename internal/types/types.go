// Package types provides shared constants used across the auditscore codebase.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
package types

// Criticality is the severity tier of a checklist category. It is informational:
// only the category coefficient affects scoring.
type Criticality string

// Criticality tiers.
const (
	CriticalityCritical Criticality = "CRITICAL"
	CriticalityMajor    Criticality = "MAJOR"
	CriticalityStandard Criticality = "STANDARD"
)

// Valid reports whether c is one of the known tiers.
func (c Criticality) Valid() bool {
	switch c {
	case CriticalityCritical, CriticalityMajor, CriticalityStandard:
		return true
	}
	return false
}

// Output format constants.
const (
	FormatConsole  = "console"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Locale constants for report labels.
const (
	LocaleEnglish = "en"
	LocaleFrench  = "fr"
)

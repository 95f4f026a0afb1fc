package models

import "strings"

// CaseCatalog lists the case types and years the portal form offers.
// It is read once at startup and treated as read-only afterwards.
type CaseCatalog struct {
	CaseTypes []string `json:"case_types"`
	CaseYears []string `json:"case_years"`
}

// NewCaseCatalog trims labels, keeps the non-blank ones in order and drops
// duplicates
func NewCaseCatalog(types, years []string) CaseCatalog {
	return CaseCatalog{
		CaseTypes: uniqueLabels(types),
		CaseYears: uniqueLabels(years),
	}
}

// HasCaseType reports whether label is an offered case type
func (c CaseCatalog) HasCaseType(label string) bool {
	return contains(c.CaseTypes, label)
}

// HasCaseYear reports whether label is an offered case year
func (c CaseCatalog) HasCaseYear(label string) bool {
	return contains(c.CaseYears, label)
}

// Empty reports a catalog with nothing to validate against
func (c CaseCatalog) Empty() bool {
	return len(c.CaseTypes) == 0 && len(c.CaseYears) == 0
}

func uniqueLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

func contains(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

package models

import (
	"fmt"
	"strings"
)

// CaseQuery identifies a case on the portal. Values are sent verbatim.
type CaseQuery struct {
	CaseType   string `json:"case_type" binding:"required" example:"W.P.(C)"`
	CaseNumber string `json:"case_number" binding:"required" example:"6768"`
	CaseYear   string `json:"case_year" binding:"required" example:"2025"`
}

// Key returns a stable identifier used for caching and logging
func (q CaseQuery) Key() string {
	return fmt.Sprintf("%s|%s|%s", q.CaseType, q.CaseNumber, q.CaseYear)
}

// Blank reports whether any of the three fields is empty after trimming
func (q CaseQuery) Blank() bool {
	return strings.TrimSpace(q.CaseType) == "" ||
		strings.TrimSpace(q.CaseNumber) == "" ||
		strings.TrimSpace(q.CaseYear) == ""
}

// CaseStatusRecord is the structured status of one case as shown by the
// portal. It is built once per successful lookup and not modified afterwards.
type CaseStatusRecord struct {
	StatusText          string   `json:"status_text" example:"Pending"`
	Parties             string   `json:"parties" example:"A vs B"`
	ListingDateAndCourt string   `json:"listing_date_and_court" example:"12-Jan-2025, Court 5"`
	OrderPageURL        string   `json:"order_page_url,omitempty" example:"https://delhihighcourt.nic.in/orders/123"`
	DocumentLinks       []string `json:"document_links"`
}

// WithDocumentLinks returns a copy of r carrying links
func (r CaseStatusRecord) WithDocumentLinks(links []string) CaseStatusRecord {
	out := r
	out.DocumentLinks = append(make([]string, 0, len(links)), links...)
	return out
}

// HasContent reports whether the record carries any status information
func (r CaseStatusRecord) HasContent() bool {
	return r.StatusText != "" || r.Parties != "" || r.ListingDateAndCourt != ""
}

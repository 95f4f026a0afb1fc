package models

import (
	"time"
)

// LookupRequest represents a single case lookup request
type LookupRequest struct {
	CaseQuery
}

// LookupResponse represents the response of a case lookup
type LookupResponse struct {
	Query      CaseQuery         `json:"query"`
	Status     OutcomeStatus     `json:"status" example:"found"`
	Record     *CaseStatusRecord `json:"record,omitempty"`
	Reason     FailureReason     `json:"reason,omitempty"`
	Message    string            `json:"message,omitempty"`
	Cache      bool              `json:"cache" example:"false"`
	DurationMs int64             `json:"duration_ms" example:"8200"`
	FetchedAt  time.Time         `json:"fetched_at" example:"2025-01-15T10:30:00Z"`
}

// NewLookupResponse flattens an outcome into the API shape
func NewLookupResponse(query CaseQuery, outcome LookupOutcome) LookupResponse {
	resp := LookupResponse{
		Query:     query,
		Status:    outcome.Status,
		Record:    outcome.Record,
		Reason:    outcome.Reason,
		FetchedAt: time.Now(),
	}
	if outcome.IsNotFound() {
		resp.Message = NotFoundMessage
	}
	return resp
}

// BatchLookupRequest represents a batch case lookup request
type BatchLookupRequest struct {
	Queries []CaseQuery `json:"queries" binding:"required,min=1,dive"`
}

// BatchLookupResponse represents a batch case lookup response
type BatchLookupResponse struct {
	Results    []LookupResponse `json:"results"`
	Total      int              `json:"total" example:"2"`
	Found      int              `json:"found" example:"1"`
	NotFound   int              `json:"not_found" example:"1"`
	Failed     int              `json:"failed" example:"0"`
	DurationMs int64            `json:"duration_ms" example:"15200"`
	Timestamp  time.Time        `json:"timestamp" example:"2025-01-15T10:30:00Z"`
}

// CatalogResponse represents the case types and years offered by the portal
type CatalogResponse struct {
	CaseCatalog
	Loaded bool `json:"loaded" example:"true"`
}

// QueryRecord is a persisted successful lookup
type QueryRecord struct {
	ID                  int64     `json:"id" example:"42"`
	CaseType            string    `json:"case_type" example:"W.P.(C)"`
	CaseNumber          string    `json:"case_number" example:"6768"`
	CaseYear            string    `json:"case_year" example:"2025"`
	StatusText          string    `json:"status_text" example:"Pending"`
	Parties             string    `json:"parties" example:"A vs B"`
	ListingDateAndCourt string    `json:"listing_date_and_court" example:"12-Jan-2025, Court 5"`
	DocumentLinks       []string  `json:"document_links"`
	CreatedAt           time.Time `json:"created_at" example:"2025-01-15T10:30:00Z"`
}

// QueryListResponse represents a page of the lookup history
type QueryListResponse struct {
	Queries []QueryRecord `json:"queries"`
	Total   int           `json:"total" example:"1"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error" example:"Invalid case query"`
	Message   string    `json:"message" example:"case_type is not offered by the portal"`
	Code      string    `json:"code,omitempty" example:"INVALID_QUERY"`
	Timestamp time.Time `json:"timestamp" example:"2025-01-15T10:30:00Z"`
	Path      string    `json:"path" example:"/api/v1/cases/lookup"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string                 `json:"status" example:"healthy"`
	Timestamp time.Time              `json:"timestamp" example:"2025-01-15T10:30:00Z"`
	Version   string                 `json:"version" example:"1.0.0"`
	Services  map[string]ServiceInfo `json:"services"`
	Uptime    string                 `json:"uptime" example:"2h30m45s"`
}

// ServiceInfo represents individual service health
type ServiceInfo struct {
	Status    string    `json:"status" example:"healthy"`
	LastCheck time.Time `json:"last_check" example:"2025-01-15T10:30:00Z"`
	Error     string    `json:"error,omitempty"`
}

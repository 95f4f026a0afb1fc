package models

// OutcomeStatus discriminates LookupOutcome variants
type OutcomeStatus string

const (
	OutcomeFound    OutcomeStatus = "found"
	OutcomeNotFound OutcomeStatus = "not_found"
	OutcomeFailure  OutcomeStatus = "failure"
)

// FailureReason names why a lookup could not produce an answer
type FailureReason string

const (
	ReasonSessionUnavailable     FailureReason = "session_unavailable"
	ReasonCaptchaUnavailable     FailureReason = "captcha_unavailable"
	ReasonInvalidOption          FailureReason = "invalid_option"
	ReasonElementNotInteractable FailureReason = "element_not_interactable"
	ReasonElementNotFound        FailureReason = "element_not_found"
	ReasonNavigationFailed       FailureReason = "navigation_failed"
	ReasonTimeout                FailureReason = "timeout"
	ReasonInternal               FailureReason = "internal_error"
)

// NotFoundMessage is what users are told for a NotFound outcome. A wrong
// CAPTCHA transcription looks exactly like a missing case.
const NotFoundMessage = "not found or CAPTCHA could not be read"

// LookupOutcome is the result of one case lookup. Build it with Found,
// NotFound or Failure; exactly one variant is set.
type LookupOutcome struct {
	Status OutcomeStatus     `json:"status" example:"found"`
	Record *CaseStatusRecord `json:"record,omitempty"`
	Reason FailureReason     `json:"reason,omitempty"`
}

// Found wraps a parsed record
func Found(record CaseStatusRecord) LookupOutcome {
	if record.DocumentLinks == nil {
		record.DocumentLinks = []string{}
	}
	return LookupOutcome{Status: OutcomeFound, Record: &record}
}

// NotFound reports that the portal returned no case data
func NotFound() LookupOutcome {
	return LookupOutcome{Status: OutcomeNotFound}
}

// Failure reports a lookup that could not complete
func Failure(reason FailureReason) LookupOutcome {
	return LookupOutcome{Status: OutcomeFailure, Reason: reason}
}

func (o LookupOutcome) IsFound() bool    { return o.Status == OutcomeFound && o.Record != nil }
func (o LookupOutcome) IsNotFound() bool { return o.Status == OutcomeNotFound }
func (o LookupOutcome) IsFailure() bool  { return o.Status == OutcomeFailure }

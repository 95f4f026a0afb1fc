package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupOutcome_Variants(t *testing.T) {
	found := Found(CaseStatusRecord{StatusText: "Pending"})
	assert.True(t, found.IsFound())
	assert.False(t, found.IsNotFound())
	assert.False(t, found.IsFailure())
	require.NotNil(t, found.Record)
	assert.NotNil(t, found.Record.DocumentLinks, "document links are never nil")

	nf := NotFound()
	assert.True(t, nf.IsNotFound())
	assert.Nil(t, nf.Record)
	assert.Empty(t, nf.Reason)

	failed := Failure(ReasonCaptchaUnavailable)
	assert.True(t, failed.IsFailure())
	assert.Nil(t, failed.Record)
	assert.Equal(t, ReasonCaptchaUnavailable, failed.Reason)
}

func TestFound_CopiesRecord(t *testing.T) {
	rec := CaseStatusRecord{StatusText: "Pending"}
	outcome := Found(rec)
	rec.StatusText = "Disposed"

	assert.Equal(t, "Pending", outcome.Record.StatusText)
}

func TestCaseStatusRecord_WithDocumentLinks(t *testing.T) {
	links := []string{"https://a/1.pdf"}
	rec := CaseStatusRecord{Parties: "A vs B"}.WithDocumentLinks(links)
	links[0] = "changed"

	assert.Equal(t, []string{"https://a/1.pdf"}, rec.DocumentLinks)
	assert.True(t, rec.HasContent())
	assert.False(t, CaseStatusRecord{OrderPageURL: "x"}.HasContent())
}

func TestNewCaseCatalog(t *testing.T) {
	c := NewCaseCatalog(
		[]string{"", "W.P.(C)", "  ", "CRL.A.", "W.P.(C)", " LPA "},
		[]string{"2025", "2024", "2025"},
	)

	assert.Equal(t, []string{"W.P.(C)", "CRL.A.", "LPA"}, c.CaseTypes)
	assert.Equal(t, []string{"2025", "2024"}, c.CaseYears)
	assert.True(t, c.HasCaseType("CRL.A."))
	assert.False(t, c.HasCaseType("crl.a."))
	assert.True(t, c.HasCaseYear("2024"))
	assert.False(t, c.Empty())
	assert.True(t, CaseCatalog{}.Empty())
}

func TestCaseQuery_Blank(t *testing.T) {
	assert.False(t, CaseQuery{"W.P.(C)", "6768", "2025"}.Blank())
	assert.True(t, CaseQuery{"W.P.(C)", " ", "2025"}.Blank())
	assert.Equal(t, "W.P.(C)|6768|2025", CaseQuery{"W.P.(C)", "6768", "2025"}.Key())
}

func TestNewLookupResponse_NotFoundMessage(t *testing.T) {
	q := CaseQuery{"W.P.(C)", "1", "2025"}
	resp := NewLookupResponse(q, NotFound())

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(body), NotFoundMessage)
	assert.NotContains(t, string(body), `"record"`)
}

package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParser(testPortal())
	require.NoError(t, err)
	return p
}

func TestParseResult_FirstRowOnly(t *testing.T) {
	p := newTestParser(t)

	record, err := p.ParseResult(foundResultPage)
	require.NoError(t, err)

	assert.Equal(t, "Pending", record.StatusText)
	assert.Equal(t, "A vs B", record.Parties)
	assert.Equal(t, "12-Jan-2025, Court 5", record.ListingDateAndCourt)
	assert.Equal(t, testOrigin+"/orders/123", record.OrderPageURL)
}

func TestParseResult_NoTable(t *testing.T) {
	p := newTestParser(t)

	_, err := p.ParseResult(`<html><body><p>Invalid captcha</p></body></html>`)
	assert.ErrorIs(t, err, ErrNoResultsTable)
	assert.True(t, IsNotFound(err))
}

func TestParseResult_EmptyBody(t *testing.T) {
	p := newTestParser(t)

	_, err := p.ParseResult(`<table id="caseTable"><thead><tr><th>Status</th></tr></thead><tbody></tbody></table>`)
	assert.ErrorIs(t, err, ErrNoRows)
	assert.True(t, IsNotFound(err))
}

func TestParseResult_BlankPlaceholderRow(t *testing.T) {
	p := newTestParser(t)

	_, err := p.ParseResult(`<table id="caseTable"><tbody><tr><td colspan="4">  </td></tr></tbody></table>`)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestParseResult_MissingColumns(t *testing.T) {
	p := newTestParser(t)

	record, err := p.ParseResult(`<table id="caseTable"><tbody><tr><td>1</td><td> Disposed </td></tr></tbody></table>`)
	require.NoError(t, err)

	assert.Equal(t, "Disposed", record.StatusText)
	assert.Empty(t, record.Parties)
	assert.Empty(t, record.ListingDateAndCourt)
	assert.Empty(t, record.OrderPageURL)
}

func TestParseResult_LinkOnlyRowKept(t *testing.T) {
	p := newTestParser(t)

	record, err := p.ParseResult(`<table id="caseTable"><tbody><tr><td><a href="/orders/1">1</a></td></tr></tbody></table>`)
	require.NoError(t, err)

	assert.False(t, record.HasContent())
	assert.Equal(t, testOrigin+"/orders/1", record.OrderPageURL)
}

func TestParseResult_AbsoluteOrderLinkKept(t *testing.T) {
	p := newTestParser(t)

	record, err := p.ParseResult(`<table id="caseTable"><tbody><tr>
		<td>1</td><td>Pending</td><td>A vs B</td>
		<td><a href="https://mirror.example/orders/9">view</a><a href="/second">second</a></td>
	</tr></tbody></table>`)
	require.NoError(t, err)

	assert.Equal(t, "https://mirror.example/orders/9", record.OrderPageURL)
}

func TestParseOrderLinks(t *testing.T) {
	p := newTestParser(t)

	links, err := p.ParseOrderLinks(orderPage)
	require.NoError(t, err)

	assert.Equal(t, []string{
		testOrigin + "/docs/a.pdf",
		"https://other.host/docs/b.PDF",
	}, links)
}

func TestParseOrderLinks_KeepsDuplicatesAndOrder(t *testing.T) {
	p := newTestParser(t)

	links, err := p.ParseOrderLinks(`<table id="caseTable"><tbody>
		<tr><td><a href="/docs/x.pdf">x</a><a href="/docs/y.Pdf?download=1">y</a></td></tr>
		<tr><td><a href="/docs/x.pdf">x again</a><a href="/docs/readme.txt">txt</a><a>no href</a></td></tr>
	</tbody></table>`)
	require.NoError(t, err)

	assert.Equal(t, []string{
		testOrigin + "/docs/x.pdf",
		testOrigin + "/docs/y.Pdf?download=1",
		testOrigin + "/docs/x.pdf",
	}, links)
}

func TestParseOrderLinks_NoTable(t *testing.T) {
	p := newTestParser(t)

	links, err := p.ParseOrderLinks(`<html><body><a href="/docs/a.pdf">outside</a></body></html>`)
	assert.ErrorIs(t, err, ErrNoResultsTable)
	assert.Nil(t, links)
}

func TestParseOrderLinks_NoPDFs(t *testing.T) {
	p := newTestParser(t)

	links, err := p.ParseOrderLinks(`<table id="caseTable"><tbody><tr><td>nothing</td></tr></tbody></table>`)
	require.NoError(t, err)
	assert.NotNil(t, links)
	assert.Empty(t, links)
}

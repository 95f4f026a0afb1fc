package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/nexconsult/courtcase-api/internal/config"
	"github.com/nexconsult/courtcase-api/internal/models"
	"github.com/nexconsult/courtcase-api/internal/utils"
)

// Result table columns, 0-based. Column 0 is the serial number.
const (
	colStatus  = 1
	colParties = 2
	colListing = 3
)

// Parser reads the portal's result tables
type Parser struct {
	tableSelector string
	origin        *url.URL
}

// NewParser creates a parser resolving links against the portal origin
func NewParser(portal config.PortalConfig) (*Parser, error) {
	origin, err := utils.Origin(portal.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("portal origin: %w", err)
	}
	return &Parser{
		tableSelector: portal.ResultTableSelector(),
		origin:        origin,
	}, nil
}

// ParseResult extracts the case status from the first data row of the
// result table
func (p *Parser) ParseResult(markup string) (models.CaseStatusRecord, error) {
	doc, err := parseHTML(markup)
	if err != nil {
		return models.CaseStatusRecord{}, err
	}

	table := doc.Find(p.tableSelector).First()
	if table.Length() == 0 {
		return models.CaseStatusRecord{}, ErrNoResultsTable
	}

	row := table.Find("tbody tr").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Children().Filter("td").Length() > 0
	}).First()
	if row.Length() == 0 {
		return models.CaseStatusRecord{}, ErrNoRows
	}

	cells := row.Children().Filter("td")
	record := models.CaseStatusRecord{
		StatusText:          cellText(cells, colStatus),
		Parties:             cellText(cells, colParties),
		ListingDateAndCourt: cellText(cells, colListing),
	}
	if href, ok := row.Find("a[href]").First().Attr("href"); ok {
		record.OrderPageURL = p.Absolute(href)
	}

	// The portal renders "no records" as a single empty row.
	if !record.HasContent() && record.OrderPageURL == "" {
		return models.CaseStatusRecord{}, ErrNoRows
	}

	return record, nil
}

// ParseOrderLinks lists every PDF link of the order page table in document
// order, without removing duplicates
func (p *Parser) ParseOrderLinks(markup string) ([]string, error) {
	doc, err := parseHTML(markup)
	if err != nil {
		return nil, err
	}

	table := doc.Find(p.tableSelector).First()
	if table.Length() == 0 {
		return nil, ErrNoResultsTable
	}

	links := []string{}
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		row.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if strings.Contains(strings.ToLower(href), ".pdf") {
				links = append(links, p.Absolute(href))
			}
		})
	})

	return links, nil
}

// Absolute resolves href against the portal origin
func (p *Parser) Absolute(href string) string {
	return utils.AbsoluteURL(p.origin, href)
}

func cellText(cells *goquery.Selection, i int) string {
	if i >= cells.Length() {
		return ""
	}
	return utils.CleanText(cells.Eq(i).Text())
}

// parseHTML decodes markup to UTF-8 before building the document
func parseHTML(markup string) (*goquery.Document, error) {
	reader, err := charset.NewReader(strings.NewReader(markup), "text/html")
	if err != nil {
		return goquery.NewDocumentFromReader(strings.NewReader(markup))
	}
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

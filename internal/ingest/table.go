package ingest

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RequiredHeaders is the column set a table must carry (as a superset) to be
// selected as the disclosure table.
var RequiredHeaders = []string{"Politician", "Stock", "Trade Type", "Trade Date", "Amount", "Sector"}

// RawTrade is the unnormalized mapping extracted from one table row, keyed by
// the required header names.
type RawTrade map[string]string

// ParseResult is the intermediate artifact of table extraction: the ordered
// row mappings, the fingerprint of the selected table's header sequence, and
// warnings for rows dropped because of missing required fields. Warnings keep
// row encounter order.
type ParseResult struct {
	Records    []RawTrade
	HeaderHash string
	Warnings   []string
}

var headerWhitespace = regexp.MustCompile(`\s+`)

// standardizeHeader collapses internal whitespace and trims a header cell.
func standardizeHeader(text string) string {
	return headerWhitespace.ReplaceAllString(strings.TrimSpace(text), " ")
}

// headerFingerprint hashes the ordered header list. A fingerprint change
// between runs signals upstream site-layout drift.
func headerFingerprint(headers []string) string {
	sum := md5.Sum([]byte(strings.Join(headers, "||")))
	return hex.EncodeToString(sum[:])
}

// ParseTable scans all tables in the document and extracts rows from the
// first one whose header set is a superset of RequiredHeaders.
//
// Returns ErrNoTablesFound when the document has no table elements and
// ErrNoMatchingTable when no table carries the expected headers. Malformed
// individual rows never fail the parse: any row whose cells do not cover the
// required columns is dropped with a warning carrying the partial mapping.
func ParseTable(html string) (*ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML document: %w", err)
	}

	tables := doc.Find("table")
	if tables.Length() == 0 {
		return nil, ErrNoTablesFound
	}

	var selected *goquery.Selection
	var headers []string

	tables.EachWithBreak(func(i int, tbl *goquery.Selection) bool {
		headerRow := tbl.Find("tr").First()
		if headerRow.Length() == 0 {
			return true
		}
		var rowHeaders []string
		headerRow.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			rowHeaders = append(rowHeaders, standardizeHeader(cell.Text()))
		})
		if !containsAll(rowHeaders, RequiredHeaders) {
			return true
		}
		selected = tbl
		headers = rowHeaders
		return false
	})

	if selected == nil {
		return nil, ErrNoMatchingTable
	}

	result := &ParseResult{
		HeaderHash: headerFingerprint(headers),
	}

	rows := selected.Find("tr")
	rows.Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}

		cells := row.Find("td")

		mapping := RawTrade{}
		cells.Each(func(j int, cell *goquery.Selection) {
			if j >= len(RequiredHeaders) || j >= len(headers) {
				return
			}
			mapping[headers[j]] = strings.TrimSpace(cell.Text())
		})

		if !mappingHasRequired(mapping) {
			// Covers structurally short rows (nested headers, spacer rows)
			// and header misalignment alike: the partial mapping goes into
			// the warning so the drop is diagnosable.
			result.Warnings = append(result.Warnings, fmt.Sprintf("row missing expected columns: %v", mapping))
			return
		}

		result.Records = append(result.Records, mapping)
	})

	return result, nil
}

// containsAll reports whether every required header appears in headers.
func containsAll(headers, required []string) bool {
	have := make(map[string]bool, len(headers))
	for _, h := range headers {
		if h != "" {
			have[h] = true
		}
	}
	for _, r := range required {
		if !have[r] {
			return false
		}
	}
	return true
}

// mappingHasRequired reports whether the extracted mapping has a value for
// every required column.
func mappingHasRequired(mapping RawTrade) bool {
	for _, r := range RequiredHeaders {
		if _, ok := mapping[r]; !ok {
			return false
		}
	}
	return true
}

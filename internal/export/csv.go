// Package export writes and reads the scored dataset as CSV. The header row
// is the canonical column order; export followed by import reproduces the
// same visible columns and values, modulo type coercion of dates and numbers.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ternarybob/vigilo/internal/models"
)

const tradeDateLayout = "2006-01-02"

// WriteCSV writes the dataset's records in canonical column order. The
// dataset-level provenance columns repeat per row so a single file is
// self-describing.
func WriteCSV(w io.Writer, ds models.Dataset) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(models.CanonicalColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range ds.Records {
		if err := cw.Write(recordRow(&ds.Records[i], ds)); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func recordRow(rec *models.TradeRecord, ds models.Dataset) []string {
	var comps models.ScoreComponents
	if rec.Components != nil {
		comps = *rec.Components
	}

	return []string{
		rec.Politician,
		strPtr(rec.Ticker),
		rec.StockClean,
		rec.RawStock,
		rec.Sector,
		rec.TradeType,
		rec.TradeDateRaw,
		datePtr(rec.TradeDate),
		rec.AmountRaw,
		floatPtr(rec.AmountLow),
		floatPtr(rec.AmountHigh),
		floatPtr(rec.AmountMid),
		strconv.Itoa(rec.HeadlineCount),
		rec.HeadlineFirstSource,
		string(rec.NewsStatus),
		floatPtr(rec.Score),
		floatVal(comps.Amount, rec.Components != nil),
		floatVal(comps.SectorVolatility, rec.Components != nil),
		floatVal(comps.NewsIntensity, rec.Components != nil),
		floatVal(comps.EventProximity, rec.Components != nil),
		floatVal(comps.Pattern, rec.Components != nil),
		ds.FetchedAt.Format(time.RFC3339),
		ds.SourceURL,
		ds.HeaderHash,
	}
}

// ReadCSV parses a previously exported file back into a dataset. Empty cells
// coerce back to nil; malformed numbers or dates in a cell behave the same
// way rather than failing the import.
func ReadCSV(r io.Reader) (models.Dataset, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return models.Dataset{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[col] = i
	}
	for _, col := range models.CanonicalColumns {
		if _, ok := idx[col]; !ok {
			return models.Dataset{}, fmt.Errorf("CSV missing canonical column %q", col)
		}
	}

	var ds models.Dataset
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Dataset{}, fmt.Errorf("failed to read CSV row: %w", err)
		}

		cell := func(name string) string { return row[idx[name]] }

		rec := models.TradeRecord{
			Politician:          cell("politician"),
			StockClean:          cell("stock_clean"),
			RawStock:            cell("raw_stock"),
			Sector:              cell("sector"),
			TradeType:           cell("trade_type"),
			TradeDateRaw:        cell("trade_date_raw"),
			AmountRaw:           cell("amount_raw"),
			HeadlineFirstSource: cell("headline_first_source"),
			NewsStatus:          models.NewsStatus(cell("news_status")),
		}

		if t := cell("ticker"); t != "" {
			rec.Ticker = &t
		} else {
			rec.TickerMissing = true
		}
		if d, err := time.Parse(tradeDateLayout, cell("trade_date")); err == nil {
			rec.TradeDate = &d
		}
		rec.AmountLow = parseFloatCell(cell("amount_low"))
		rec.AmountHigh = parseFloatCell(cell("amount_high"))
		rec.AmountMid = parseFloatCell(cell("amount_mid"))
		if c, err := strconv.Atoi(cell("headline_count")); err == nil {
			rec.HeadlineCount = c
		}
		rec.Score = parseFloatCell(cell("score"))
		rec.Components = parseComponents(cell)

		ds.Records = append(ds.Records, rec)

		// Provenance columns repeat per row; last row wins, all rows agree.
		if ts, err := time.Parse(time.RFC3339, cell("fetched_at")); err == nil {
			ds.FetchedAt = ts
		}
		ds.SourceURL = cell("source_url")
		ds.HeaderHash = cell("header_hash")
	}

	ds.Events = models.EventDataNone
	return ds, nil
}

// parseComponents rebuilds the component block from the five score_* cells.
// A record exported before scoring has all five empty and stays nil.
func parseComponents(cell func(string) string) *models.ScoreComponents {
	amount := parseFloatCell(cell("score_amount"))
	sector := parseFloatCell(cell("score_sector_volatility"))
	news := parseFloatCell(cell("score_news_intensity"))
	event := parseFloatCell(cell("score_event_proximity"))
	pattern := parseFloatCell(cell("score_pattern"))

	if amount == nil || sector == nil || news == nil || event == nil || pattern == nil {
		return nil
	}
	return &models.ScoreComponents{
		Amount:           *amount,
		SectorVolatility: *sector,
		NewsIntensity:    *news,
		EventProximity:   *event,
		Pattern:          *pattern,
	}
}

func strPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func datePtr(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format(tradeDateLayout)
}

func floatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func floatVal(v float64, present bool) string {
	if !present {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloatCell(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

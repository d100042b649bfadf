// Package ingest implements the fetch -> parse -> normalize stage of the
// pipeline: it scrapes the congressional trade disclosure table and produces
// a normalized dataset with provenance metadata. No scoring or external
// enrichment happens here.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigilo/internal/common"
	"github.com/ternarybob/vigilo/internal/models"
)

// tradeDateLayouts are the accepted disclosure date formats, tried in order.
// An unparsable date becomes nil; the row is never dropped for it.
var tradeDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"Jan 2, 2006",
	"Jan. 2, 2006",
	"January 2, 2006",
	"2006-01-02T15:04:05",
}

// Service performs one ingestion run against the configured source page.
type Service struct {
	config     common.IngestConfig
	httpClient *http.Client
	logger     arbor.ILogger
}

// NewService creates a new ingestion service.
func NewService(config common.IngestConfig, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
		},
		logger: logger,
	}
}

// WithHTTPClient replaces the HTTP client, used by tests to point at fixtures.
func (s *Service) WithHTTPClient(client *http.Client) *Service {
	s.httpClient = client
	return s
}

// FetchTrades runs one fetch of the source page and returns the normalized
// dataset. Only structural failures (fetch error, no matching table) return
// an error; a reachable page that yields zero rows returns an empty dataset
// with a descriptive warning so callers can tell the two apart.
func (s *Service) FetchTrades(ctx context.Context) (models.Dataset, error) {
	fetchedAt := time.Now().UTC()

	html, err := s.fetchHTML(ctx)
	if err != nil {
		return models.Dataset{}, err
	}

	pr, err := ParseTable(html)
	if err != nil {
		return models.Dataset{}, err
	}

	ds := s.normalize(pr, fetchedAt)

	s.logger.Info().
		Str("source_url", s.config.SourceURL).
		Str("header_hash", ds.HeaderHash).
		Int("records", len(ds.Records)).
		Int("warnings", len(ds.Warnings)).
		Msg("Ingestion run complete")

	return ds, nil
}

// fetchHTML fetches the source page with browser-like request headers.
// Non-2xx status, empty body, and transport failures all surface as a
// *FetchError.
func (s *Service) fetchHTML(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.SourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{URL: s.config.SourceURL, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{
			URL:        s.config.SourceURL,
			StatusCode: resp.StatusCode,
			Reason:     "non-success status",
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: s.config.SourceURL, Reason: "failed to read body", Err: err}
	}
	if len(body) == 0 {
		return "", &FetchError{URL: s.config.SourceURL, Reason: "empty response body"}
	}

	return string(body), nil
}

// normalize turns raw row mappings into TradeRecords: parsed dates, parsed
// amount brackets, cleaned stock names, and provenance attached.
func (s *Service) normalize(pr *ParseResult, fetchedAt time.Time) models.Dataset {
	ds := models.Dataset{
		FetchedAt:  fetchedAt,
		SourceURL:  s.config.SourceURL,
		HeaderHash: pr.HeaderHash,
		Warnings:   append([]string{}, pr.Warnings...),
		Events:     models.EventDataNone,
	}

	if len(pr.Records) == 0 {
		ds.Warnings = append(ds.Warnings, "no rows parsed")
		return ds
	}

	for _, raw := range pr.Records {
		rec := models.TradeRecord{
			Politician:   raw["Politician"],
			RawStock:     raw["Stock"],
			StockClean:   CleanStockName(raw["Stock"]),
			Sector:       raw["Sector"],
			TradeType:    raw["Trade Type"],
			TradeDateRaw: raw["Trade Date"],
			AmountRaw:    raw["Amount"],
			NewsStatus:   models.NewsStatusNoQuery,
		}

		rec.TradeDate = parseTradeDate(raw["Trade Date"])

		amt := ParseAmountBracket(raw["Amount"])
		rec.AmountLow, rec.AmountHigh, rec.AmountMid = amt.Low, amt.High, amt.Mid

		ds.Records = append(ds.Records, rec)
	}

	return ds
}

// parseTradeDate tries the accepted layouts and returns nil on failure.
func parseTradeDate(raw string) *time.Time {
	for _, layout := range tradeDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

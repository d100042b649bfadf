package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigilo/internal/common"
	"github.com/ternarybob/vigilo/internal/models"
)

func testService(t *testing.T, sourceURL string) *Service {
	t.Helper()
	cfg := common.IngestConfig{
		SourceURL:      sourceURL,
		UserAgent:      "test-agent",
		RequestTimeout: 5 * time.Second,
	}
	return NewService(cfg, arbor.NewLogger())
}

func TestFetchTrades(t *testing.T) {
	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte(disclosureTableHTML))
	}))
	defer srv.Close()

	ds, err := testService(t, srv.URL).FetchTrades(context.Background())
	if err != nil {
		t.Fatalf("FetchTrades returned error: %v", err)
	}

	if gotUserAgent != "test-agent" {
		t.Errorf("User-Agent = %q, want %q", gotUserAgent, "test-agent")
	}
	if len(ds.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(ds.Records))
	}
	if ds.SourceURL != srv.URL {
		t.Errorf("SourceURL = %q, want %q", ds.SourceURL, srv.URL)
	}
	if ds.HeaderHash == "" {
		t.Error("HeaderHash is empty")
	}
	if ds.FetchedAt.IsZero() {
		t.Error("FetchedAt is zero")
	}

	rec := ds.Records[0]
	if rec.StockClean != "Apple" {
		t.Errorf("StockClean = %q, want %q", rec.StockClean, "Apple")
	}
	if rec.TradeDate == nil || rec.TradeDate.Format("2006-01-02") != "2026-01-15" {
		t.Errorf("TradeDate = %v, want 2026-01-15", rec.TradeDate)
	}
	if rec.AmountLow == nil || *rec.AmountLow != 15000 {
		t.Errorf("AmountLow = %v, want 15000", rec.AmountLow)
	}
	if rec.AmountHigh == nil || *rec.AmountHigh != 50000 {
		t.Errorf("AmountHigh = %v, want 50000", rec.AmountHigh)
	}
	if rec.NewsStatus != models.NewsStatusNoQuery {
		t.Errorf("NewsStatus = %q, want %q", rec.NewsStatus, models.NewsStatusNoQuery)
	}
}

func TestFetchTradesEmpty(t *testing.T) {
	html := `<table><tr><th>Politician</th><th>Stock</th><th>Trade Type</th><th>Trade Date</th><th>Amount</th><th>Sector</th></tr></table>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(html))
	}))
	defer srv.Close()

	ds, err := testService(t, srv.URL).FetchTrades(context.Background())
	if err != nil {
		t.Fatalf("FetchTrades returned error: %v", err)
	}
	if len(ds.Records) != 0 {
		t.Errorf("got %d records, want 0", len(ds.Records))
	}

	found := false
	for _, w := range ds.Warnings {
		if w == "no rows parsed" {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want to contain %q", ds.Warnings, "no rows parsed")
	}
}

func TestFetchTradesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testService(t, srv.URL).FetchTrades(context.Background())

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("err = %v, want *FetchError", err)
	}
	if fetchErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", fetchErr.StatusCode)
	}
}

func TestFetchTradesEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, err := testService(t, srv.URL).FetchTrades(context.Background())

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("err = %v, want *FetchError", err)
	}
	if fetchErr.Reason != "empty response body" {
		t.Errorf("Reason = %q, want %q", fetchErr.Reason, "empty response body")
	}
}

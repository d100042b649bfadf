package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigilo/internal/models"
)

func TestExportCSV(t *testing.T) {
	snapshot := &models.Snapshot{
		RunID:     "run-1",
		CreatedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		Dataset: models.Dataset{
			Records: []models.TradeRecord{
				{Politician: "Jane Doe", StockClean: "Apple", Sector: "Technology"},
			},
			FetchedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
			SourceURL: "https://example.com/trades",
			Events:    models.EventDataNone,
		},
	}

	h := NewExportHandler(&fakeSnapshots{snapshot: snapshot}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/trades/export", nil)
	rr := httptest.NewRecorder()
	h.ExportCSVHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "trades_20260201T100000.csv") {
		t.Errorf("Content-Disposition = %q, want timestamped filename", cd)
	}

	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d CSV lines, want header + 1 row", len(lines))
	}
	if !strings.HasPrefix(lines[1], "Jane Doe,") {
		t.Errorf("row = %q, want to start with politician", lines[1])
	}
}

func TestExportCSVNoSnapshot(t *testing.T) {
	h := NewExportHandler(&fakeSnapshots{}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/trades/export", nil)
	rr := httptest.NewRecorder()
	h.ExportCSVHandler(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

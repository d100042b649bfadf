package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigilo/internal/models"
)

type fakeScheduler struct {
	lastRun time.Time
	lastErr string
}

func (f *fakeScheduler) LastRun() (time.Time, string) {
	return f.lastRun, f.lastErr
}

func TestGetStatus(t *testing.T) {
	snapshot := &models.Snapshot{
		RunID:     "run-1",
		CreatedAt: time.Now().Add(-90 * time.Second),
		Dataset: models.Dataset{
			Records: []models.TradeRecord{
				{NewsStatus: models.NewsStatusOK},
				{NewsStatus: models.NewsStatusOK},
				{NewsStatus: models.NewsStatusNoDate},
			},
			SourceURL:  "https://example.com/trades",
			HeaderHash: "abc123",
			Warnings:   []string{"row missing expected columns: map[]"},
		},
	}

	h := NewStatusHandler(&fakeSnapshots{snapshot: snapshot},
		&fakeScheduler{lastRun: time.Now(), lastErr: "fetch failed"}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/status", nil)
	rr := httptest.NewRecorder()
	h.GetStatusHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if body["has_snapshot"] != true {
		t.Error("has_snapshot = false, want true")
	}
	if body["run_id"] != "run-1" {
		t.Errorf("run_id = %v, want run-1", body["run_id"])
	}
	if body["header_hash"] != "abc123" {
		t.Errorf("header_hash = %v, want abc123", body["header_hash"])
	}
	if body["row_count"].(float64) != 3 {
		t.Errorf("row_count = %v, want 3", body["row_count"])
	}
	if age := body["age_seconds"].(float64); age < 89 || age > 120 {
		t.Errorf("age_seconds = %v, want ~90", age)
	}

	statuses := body["news_statuses"].(map[string]interface{})
	if statuses["ok"].(float64) != 2 {
		t.Errorf("news_statuses[ok] = %v, want 2", statuses["ok"])
	}
	if statuses["no_date"].(float64) != 1 {
		t.Errorf("news_statuses[no_date] = %v, want 1", statuses["no_date"])
	}

	sched := body["scheduler"].(map[string]interface{})
	if sched["last_error"] != "fetch failed" {
		t.Errorf("scheduler.last_error = %v, want fetch failed", sched["last_error"])
	}
}

func TestGetStatusEmptyStore(t *testing.T) {
	h := NewStatusHandler(&fakeSnapshots{}, nil, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/status", nil)
	rr := httptest.NewRecorder()
	h.GetStatusHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["has_snapshot"] != false {
		t.Error("has_snapshot = true for empty store")
	}
	if _, ok := body["scheduler"]; ok {
		t.Error("scheduler block present without a scheduler")
	}
}

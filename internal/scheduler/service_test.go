package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigilo/internal/common"
	"github.com/ternarybob/vigilo/internal/enrich"
	"github.com/ternarybob/vigilo/internal/ingest"
	"github.com/ternarybob/vigilo/internal/newsapi"
	"github.com/ternarybob/vigilo/internal/pipeline"
	"github.com/ternarybob/vigilo/internal/scoring"
	"github.com/ternarybob/vigilo/internal/services/cache"
)

const tableHTML = `
<table>
  <tr><th>Politician</th><th>Stock</th><th>Trade Type</th><th>Trade Date</th><th>Amount</th><th>Sector</th></tr>
  <tr><td>Jane Doe</td><td>Apple Inc</td><td>Purchase</td><td>2026-01-15</td><td>$15K</td><td>Technology</td></tr>
</table>`

func testPipeline(t *testing.T, sourceURL string) *pipeline.Service {
	t.Helper()
	logger := arbor.NewLogger()

	ingester := ingest.NewService(common.IngestConfig{
		SourceURL:      sourceURL,
		UserAgent:      "test-agent",
		RequestTimeout: 5 * time.Second,
	}, logger)
	tickers := enrich.NewTickerNormalizer(enrich.StubResolver{}, cache.NewMemo(time.Hour, nil), logger)
	news := enrich.NewNewsEnricher(newsapi.NewClient(""), cache.NewMemo(time.Hour, nil), nil, logger, 2, 5, 20, 4)
	model, err := scoring.NewModel(scoring.DefaultWeights, logger)
	if err != nil {
		t.Fatal(err)
	}
	return pipeline.New(ingester, tickers, news, model, nil, logger)
}

func TestRunNowRecordsOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tableHTML))
	}))
	defer srv.Close()

	s := New(testPipeline(t, srv.URL), "@every 10m", arbor.NewLogger())

	if !s.RunNow(context.Background()) {
		t.Fatal("RunNow returned false on idle scheduler")
	}

	lastRun, lastErr := s.LastRun()
	if lastRun.IsZero() {
		t.Error("LastRun time not recorded")
	}
	if lastErr != "" {
		t.Errorf("LastRun error = %q, want empty", lastErr)
	}
}

func TestRunNowRecordsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := New(testPipeline(t, srv.URL), "@every 10m", arbor.NewLogger())
	s.RunNow(context.Background())

	_, lastErr := s.LastRun()
	if lastErr == "" {
		t.Error("LastRun error empty after failed run")
	}
}

func TestRunNowOverlapGuard(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.Write([]byte(tableHTML))
	}))
	defer srv.Close()

	s := New(testPipeline(t, srv.URL), "@every 10m", arbor.NewLogger())

	done := make(chan bool)
	go func() { done <- s.RunNow(context.Background()) }()

	<-started
	if s.RunNow(context.Background()) {
		t.Error("RunNow succeeded while another run was in flight")
	}

	close(release)
	if !<-done {
		t.Error("first RunNow reported busy")
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tableHTML))
	}))
	defer srv.Close()

	s := New(testPipeline(t, srv.URL), "not a schedule", arbor.NewLogger())
	if err := s.Start(context.Background()); err == nil {
		t.Error("Start accepted an invalid schedule")
	}
}

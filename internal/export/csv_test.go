package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/vigilo/internal/models"
)

func fp(v float64) *float64 { return &v }

func sampleDataset() models.Dataset {
	ticker := "AAPL"
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	score := 87.5

	return models.Dataset{
		Records: []models.TradeRecord{
			{
				Politician:          "Jane Doe",
				Ticker:              &ticker,
				StockClean:          "Apple",
				RawStock:            "Apple Inc Common Stock",
				Sector:              "Technology",
				TradeType:           "Purchase",
				TradeDateRaw:        "2026-01-15",
				TradeDate:           &date,
				AmountRaw:           "$15K - $50K",
				AmountLow:           fp(15000),
				AmountHigh:          fp(50000),
				AmountMid:           fp(32500),
				HeadlineCount:       3,
				HeadlineFirstSource: "Test Wire",
				NewsStatus:          models.NewsStatusOK,
				Score:               &score,
				Components: &models.ScoreComponents{
					Amount:           1,
					SectorVolatility: 0.85,
					NewsIntensity:    0.6,
					EventProximity:   0,
					Pattern:          0,
				},
			},
			{
				Politician:    "John Roe",
				TickerMissing: true,
				StockClean:    "Obscure Holdings",
				RawStock:      "Obscure Holdings Ltd",
				Sector:        "Energy",
				TradeType:     "Sale",
				TradeDateRaw:  "not a date",
				AmountRaw:     "garbage",
				NewsStatus:    models.NewsStatusNoDate,
			},
		},
		FetchedAt:  time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC),
		SourceURL:  "https://example.com/trades",
		HeaderHash: "abc123",
		Events:     models.EventDataNone,
	}
}

func TestWriteCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleDataset()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header + 2 rows
	assert.Equal(t, strings.Join(models.CanonicalColumns, ","), lines[0])
}

func TestCSVRoundTrip(t *testing.T) {
	original := sampleDataset()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, original))

	restored, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, restored.Records, 2)

	assert.Equal(t, original.SourceURL, restored.SourceURL)
	assert.Equal(t, original.HeaderHash, restored.HeaderHash)
	assert.True(t, original.FetchedAt.Equal(restored.FetchedAt))

	first := restored.Records[0]
	assert.Equal(t, "Jane Doe", first.Politician)
	require.NotNil(t, first.Ticker)
	assert.Equal(t, "AAPL", *first.Ticker)
	assert.False(t, first.TickerMissing)
	require.NotNil(t, first.TradeDate)
	assert.Equal(t, "2026-01-15", first.TradeDate.Format("2006-01-02"))
	require.NotNil(t, first.AmountMid)
	assert.Equal(t, 32500.0, *first.AmountMid)
	assert.Equal(t, 3, first.HeadlineCount)
	assert.Equal(t, models.NewsStatusOK, first.NewsStatus)
	require.NotNil(t, first.Score)
	assert.Equal(t, 87.5, *first.Score)
	require.NotNil(t, first.Components)
	assert.Equal(t, 1.0, first.Components.Amount)
	assert.Equal(t, 0.85, first.Components.SectorVolatility)
	assert.Equal(t, 0.6, first.Components.NewsIntensity)
	assert.Equal(t, 0.0, first.Components.EventProximity)
	assert.Equal(t, 0.0, first.Components.Pattern)

	second := restored.Records[1]
	assert.Nil(t, second.Ticker)
	assert.True(t, second.TickerMissing)
	assert.Nil(t, second.TradeDate)
	assert.Nil(t, second.AmountLow)
	assert.Nil(t, second.Score)
	assert.Nil(t, second.Components)
	assert.Equal(t, models.NewsStatusNoDate, second.NewsStatus)
}

func TestCSVDoubleExportIsStable(t *testing.T) {
	var first bytes.Buffer
	require.NoError(t, WriteCSV(&first, sampleDataset()))

	restored, err := ReadCSV(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)

	var second bytes.Buffer
	require.NoError(t, WriteCSV(&second, restored))

	assert.Equal(t, first.String(), second.String())
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("politician,ticker\na,b\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing canonical column")
}

func TestWriteCSVEmptyDataset(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, models.Dataset{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1) // header only
}

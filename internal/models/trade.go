// -----------------------------------------------------------------------
// Trade models - normalized congressional trade records and score output
// -----------------------------------------------------------------------

package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// NewsStatus reports the outcome of news enrichment for a single trade.
type NewsStatus string

const (
	NewsStatusOK         NewsStatus = "ok"
	NewsStatusMissingKey NewsStatus = "missing_key"
	NewsStatusError      NewsStatus = "error"
	NewsStatusNoDate     NewsStatus = "no_date"
	NewsStatusNoQuery    NewsStatus = "no_query"
)

// EventCapability says what kind of corporate-event data the dataset carries.
// Missing capability is modeled explicitly rather than as an absent column.
type EventCapability string

const (
	EventDataNone EventCapability = "none"
	EventDataDays EventCapability = "days"
	EventDataFlag EventCapability = "flag"
)

// Headline is a simplified news article reference attached to a trade.
type Headline struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
}

// ScoreComponents holds the five independent sub-scores, each in [0,1].
// Sub-scores are batch-relative: several are min-max normalized against the
// dataset they were computed with, so the same trade scores differently in a
// different batch.
type ScoreComponents struct {
	Amount           float64 `json:"amount" validate:"gte=0,lte=1"`
	SectorVolatility float64 `json:"sector_volatility" validate:"gte=0,lte=1"`
	NewsIntensity    float64 `json:"news_intensity" validate:"gte=0,lte=1"`
	EventProximity   float64 `json:"event_proximity" validate:"gte=0,lte=1"`
	Pattern          float64 `json:"pattern" validate:"gte=0,lte=1"`
}

// Validate checks the component ranges using go-playground/validator.
func (c *ScoreComponents) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// TradeRecord is one normalized row of the scraped disclosure table.
// Fields that can be unparsable are pointers; a nil value means the source
// text did not yield a usable value and the row was retained anyway.
type TradeRecord struct {
	Politician string `json:"politician"`
	RawStock   string `json:"raw_stock"`
	StockClean string `json:"stock_clean"`

	Ticker        *string `json:"ticker"`
	TickerMissing bool    `json:"ticker_missing"`

	Sector    string `json:"sector"`
	TradeType string `json:"trade_type"`

	TradeDateRaw string     `json:"trade_date_raw"`
	TradeDate    *time.Time `json:"trade_date"`

	AmountRaw  string   `json:"amount_raw"`
	AmountLow  *float64 `json:"amount_low"`
	AmountHigh *float64 `json:"amount_high"`
	AmountMid  *float64 `json:"amount_mid"`

	// Optional corporate-event inputs, populated only when the dataset's
	// Events capability says so.
	DaysToEvent *float64 `json:"days_to_event,omitempty"`
	EventFlag   *float64 `json:"event_flag,omitempty"`

	Headlines           []Headline `json:"headlines"`
	HeadlineCount       int        `json:"headline_count"`
	HeadlineFirstSource string     `json:"headline_first_source"`
	NewsStatus          NewsStatus `json:"news_status"`

	Components *ScoreComponents `json:"components,omitempty"`
	ScoreRaw   *float64         `json:"score_raw,omitempty"`
	Score      *float64         `json:"score,omitempty"`
}

// Dataset is the value passed between pipeline stages. Each stage consumes a
// dataset and produces a new one; a stage never mutates its input.
type Dataset struct {
	Records []TradeRecord `json:"records"`

	// Provenance, accumulated at fetch time.
	FetchedAt  time.Time `json:"fetched_at"`
	SourceURL  string    `json:"source_url"`
	HeaderHash string    `json:"header_hash"`

	// Parse warnings in row encounter order, shared by the whole fetch.
	Warnings []string `json:"warnings"`

	Events EventCapability `json:"events"`
}

// Empty reports whether the dataset has no records.
func (d Dataset) Empty() bool {
	return len(d.Records) == 0
}

// Clone returns a copy of the dataset with its own record and warning slices
// so a stage can extend records without touching its input.
func (d Dataset) Clone() Dataset {
	out := d
	out.Records = make([]TradeRecord, len(d.Records))
	copy(out.Records, d.Records)
	out.Warnings = make([]string, len(d.Warnings))
	copy(out.Warnings, d.Warnings)
	return out
}

// CanonicalColumns is the fixed column order used for tabular output
// (CSV export and table rendering).
var CanonicalColumns = []string{
	"politician", "ticker", "stock_clean", "raw_stock", "sector", "trade_type",
	"trade_date_raw", "trade_date", "amount_raw", "amount_low", "amount_high", "amount_mid",
	"headline_count", "headline_first_source", "news_status",
	"score", "score_amount", "score_sector_volatility", "score_news_intensity",
	"score_event_proximity", "score_pattern",
	"fetched_at", "source_url", "header_hash",
}

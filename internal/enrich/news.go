package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigilo/internal/models"
	"github.com/ternarybob/vigilo/internal/newsapi"
	"github.com/ternarybob/vigilo/internal/services/cache"
)

// ResponseCache persists raw news responses across runs with a TTL owned by
// the store. Entries are advisory: a miss or decode failure just re-fetches.
type ResponseCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

// NewsEnricher attaches headline summaries to each trade by querying the
// news search API over a window centered on the trade date. Distinct
// (query, window) keys are fetched once per pass, fanned out with bounded
// concurrency, then joined back onto records.
type NewsEnricher struct {
	client       *newsapi.Client
	memo         *cache.Memo
	store        ResponseCache // optional
	logger       arbor.ILogger
	windowDays   int
	maxHeadlines int
	pageSize     int
	concurrency  int
}

// NewNewsEnricher creates a news enricher. store may be nil when persistent
// caching is not wanted (one-shot CLI runs).
func NewNewsEnricher(client *newsapi.Client, memo *cache.Memo, store ResponseCache, logger arbor.ILogger,
	windowDays, maxHeadlines, pageSize, concurrency int) *NewsEnricher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &NewsEnricher{
		client:       client,
		memo:         memo,
		store:        store,
		logger:       logger,
		windowDays:   windowDays,
		maxHeadlines: maxHeadlines,
		pageSize:     pageSize,
		concurrency:  concurrency,
	}
}

// queryKey identifies one deduplicated news lookup.
type queryKey struct {
	query string
	from  string
	to    string
}

func (k queryKey) String() string {
	return fmt.Sprintf("news:%s|%s|%s", k.query, k.from, k.to)
}

// newsResult is the outcome of one lookup, shared by every record with the
// same key.
type newsResult struct {
	Status   models.NewsStatus `json:"status"`
	Articles []newsapi.Article `json:"articles"`
}

// Enrich returns a copy of the dataset with headlines, counts, first source
// and news status set on every record. A missing credential degrades every
// record with a query to missing_key; it never blocks the pipeline.
func (e *NewsEnricher) Enrich(ctx context.Context, ds models.Dataset) models.Dataset {
	if ds.Empty() {
		return ds
	}

	out := ds.Clone()

	// First pass: decide each record's key, collecting the distinct set.
	keys := make([]queryKey, 0)
	seen := make(map[queryKey]bool)
	recordKeys := make([]*queryKey, len(out.Records))

	for i := range out.Records {
		rec := &out.Records[i]

		if rec.TradeDate == nil {
			rec.NewsStatus = models.NewsStatusNoDate
			rec.Headlines = nil
			continue
		}

		token := rec.StockClean
		if rec.Ticker != nil && *rec.Ticker != "" {
			token = *rec.Ticker
		}
		if token == "" {
			rec.NewsStatus = models.NewsStatusNoQuery
			rec.Headlines = nil
			continue
		}

		window := time.Duration(e.windowDays) * 24 * time.Hour
		key := queryKey{
			query: token,
			from:  rec.TradeDate.Add(-window).Format("2006-01-02"),
			to:    rec.TradeDate.Add(window).Format("2006-01-02"),
		}
		recordKeys[i] = &key
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	results := e.fetchAll(ctx, keys)

	// Second pass: join results back onto records.
	for i := range out.Records {
		if recordKeys[i] == nil {
			continue
		}
		rec := &out.Records[i]
		res := results[*recordKeys[i]]

		rec.NewsStatus = res.Status
		rec.Headlines = simplifyArticles(res.Articles, e.maxHeadlines)
		rec.HeadlineCount = len(rec.Headlines)
		if rec.HeadlineCount > 0 {
			rec.HeadlineFirstSource = rec.Headlines[0].Source
		} else {
			rec.HeadlineFirstSource = ""
		}
	}

	return out
}

// fetchAll resolves each distinct key once, fanning out with bounded
// concurrency. The memo and the optional persistent store are consulted
// before any network call.
func (e *NewsEnricher) fetchAll(ctx context.Context, keys []queryKey) map[queryKey]newsResult {
	results := make(map[queryKey]newsResult, len(keys))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.concurrency)

	for _, key := range keys {
		wg.Add(1)
		go func(key queryKey) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res := e.fetchOne(ctx, key)

			mu.Lock()
			results[key] = res
			mu.Unlock()
		}(key)
	}

	wg.Wait()
	return results
}

func (e *NewsEnricher) fetchOne(ctx context.Context, key queryKey) newsResult {
	if !e.client.HasKey() {
		return newsResult{Status: models.NewsStatusMissingKey}
	}

	cacheKey := key.String()

	if cached, ok := e.memo.Get(cacheKey); ok {
		return cached.(newsResult)
	}

	if e.store != nil {
		if data, ok := e.store.Get(cacheKey); ok {
			var res newsResult
			if err := json.Unmarshal(data, &res); err == nil {
				e.memo.Set(cacheKey, res)
				return res
			}
		}
	}

	from, _ := time.Parse("2006-01-02", key.from)
	to, _ := time.Parse("2006-01-02", key.to)

	resp, err := e.client.Everything(ctx, key.query, from, to, e.pageSize)
	if err != nil {
		e.logger.Warn().Err(err).Str("query", key.query).Msg("News lookup failed")
		res := newsResult{Status: models.NewsStatusError}
		e.memo.Set(cacheKey, res)
		return res
	}

	res := newsResult{Status: models.NewsStatusOK, Articles: resp.Articles}
	e.memo.Set(cacheKey, res)

	if e.store != nil {
		if data, err := json.Marshal(res); err == nil {
			if err := e.store.Set(cacheKey, data); err != nil {
				e.logger.Warn().Err(err).Str("query", key.query).Msg("Failed to persist news response")
			}
		}
	}

	return res
}

// simplifyArticles truncates to the per-trade cap and keeps only the fields
// the display layer renders.
func simplifyArticles(articles []newsapi.Article, max int) []models.Headline {
	if len(articles) > max {
		articles = articles[:max]
	}
	headlines := make([]models.Headline, 0, len(articles))
	for _, a := range articles {
		headlines = append(headlines, models.Headline{
			Title:       a.Title,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	return headlines
}

// Package enrich implements the enrichment stages of the pipeline: ticker
// normalization and news coverage lookup. Both stages consume a dataset and
// return an extended copy; neither ever fails the run.
package enrich

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigilo/internal/models"
	"github.com/ternarybob/vigilo/internal/services/cache"
)

// Resolver maps a cleaned stock name to an exchange ticker. The pipeline
// depends only on this shape; the resolution strategy (symbol table, fuzzy
// fallback, external API) is pluggable.
type Resolver interface {
	// Resolve returns the ticker for the name and whether one was found.
	Resolve(ctx context.Context, cleanName string) (string, bool, error)
}

// StubResolver is the placeholder resolver: every lookup is a miss. It keeps
// the ticker columns populated so downstream stages can branch on
// TickerMissing without caring that resolution is not implemented yet.
//
// TODO: exact match against a preloaded symbol table with a fuzzy fallback.
type StubResolver struct{}

// Resolve always reports not found.
func (StubResolver) Resolve(ctx context.Context, cleanName string) (string, bool, error) {
	return "", false, nil
}

type tickerResult struct {
	symbol string
	found  bool
}

// TickerNormalizer resolves tickers for a dataset, memoizing per distinct
// cleaned name so repeated securities cost one lookup per run.
type TickerNormalizer struct {
	resolver Resolver
	memo     *cache.Memo
	logger   arbor.ILogger
}

// NewTickerNormalizer creates a ticker normalizer around the given resolver.
func NewTickerNormalizer(resolver Resolver, memo *cache.Memo, logger arbor.ILogger) *TickerNormalizer {
	return &TickerNormalizer{
		resolver: resolver,
		memo:     memo,
		logger:   logger,
	}
}

// Normalize returns a copy of the dataset with Ticker and TickerMissing set
// on every record. Resolution failures are misses, never run failures.
func (n *TickerNormalizer) Normalize(ctx context.Context, ds models.Dataset) models.Dataset {
	if ds.Empty() {
		return ds
	}

	out := ds.Clone()
	for i := range out.Records {
		rec := &out.Records[i]
		res := n.lookup(ctx, rec.StockClean)
		if res.found {
			symbol := res.symbol
			rec.Ticker = &symbol
			rec.TickerMissing = false
		} else {
			rec.Ticker = nil
			rec.TickerMissing = true
		}
	}
	return out
}

func (n *TickerNormalizer) lookup(ctx context.Context, cleanName string) tickerResult {
	if cleanName == "" {
		return tickerResult{}
	}

	if cached, ok := n.memo.Get("ticker:" + cleanName); ok {
		return cached.(tickerResult)
	}

	symbol, found, err := n.resolver.Resolve(ctx, cleanName)
	if err != nil {
		n.logger.Warn().Err(err).Str("name", cleanName).Msg("Ticker resolution failed, treating as missing")
		found = false
	}

	res := tickerResult{symbol: symbol, found: found}
	n.memo.Set("ticker:"+cleanName, res)
	return res
}

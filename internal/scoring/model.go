// Package scoring implements the deterministic suspicion scoring model: five
// independent [0,1] sub-scores combined into one weighted score, min-max
// rescaled to [0,100] across the batch. Scores are batch-relative by design;
// re-scoring a subset of trades produces different values than scoring the
// full set.
package scoring

import (
	"fmt"
	"math"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigilo/internal/models"
)

// Weights is the fixed weight vector combining the five components.
// The weights must sum to 1.0.
type Weights struct {
	Amount           float64
	SectorVolatility float64
	NewsIntensity    float64
	EventProximity   float64
	Pattern          float64
}

// DefaultWeights is the production weight configuration.
var DefaultWeights = Weights{
	Amount:           0.45,
	SectorVolatility: 0.15,
	NewsIntensity:    0.15,
	EventProximity:   0.15,
	Pattern:          0.10,
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Amount + w.SectorVolatility + w.NewsIntensity + w.EventProximity + w.Pattern
}

// Model computes suspicion scores for a dataset.
type Model struct {
	weights Weights
	logger  arbor.ILogger
}

// NewModel creates a scoring model, rejecting weight vectors that do not sum
// to 1.0 (within floating-point tolerance).
func NewModel(weights Weights, logger arbor.ILogger) (*Model, error) {
	if sum := weights.Sum(); math.Abs(sum-1.0) > 1e-9 {
		return nil, fmt.Errorf("score weights must sum to 1.0, got %v", sum)
	}
	return &Model{weights: weights, logger: logger}, nil
}

// Score returns a copy of the dataset with components, raw score and final
// [0,100] score set on every record. An empty dataset returns empty, never
// an error.
func (m *Model) Score(ds models.Dataset) models.Dataset {
	if ds.Empty() {
		return ds
	}

	out := ds.Clone()
	n := len(out.Records)

	amount := m.scoreAmount(out.Records)
	sector := m.scoreSectorVolatility(out.Records)
	news := m.scoreNewsIntensity(out.Records)
	event := m.scoreEventProximity(out)
	pattern := m.scorePattern(out.Records)

	raw := make([]float64, n)
	for i := 0; i < n; i++ {
		out.Records[i].Components = &models.ScoreComponents{
			Amount:           amount[i],
			SectorVolatility: sector[i],
			NewsIntensity:    news[i],
			EventProximity:   event[i],
			Pattern:          pattern[i],
		}
		raw[i] = amount[i]*m.weights.Amount +
			sector[i]*m.weights.SectorVolatility +
			news[i]*m.weights.NewsIntensity +
			event[i]*m.weights.EventProximity +
			pattern[i]*m.weights.Pattern
	}

	minRaw, maxRaw := minMax(raw)
	rng := maxRaw - minRaw
	if rng <= 0 {
		// Zero-variance batch: all scores collapse to the same value instead
		// of dividing by zero.
		rng = 1
	}

	for i := 0; i < n; i++ {
		r := raw[i]
		score := round2((r - minRaw) / rng * 100)
		out.Records[i].ScoreRaw = &r
		out.Records[i].Score = &score
	}

	m.logger.Debug().
		Int("records", n).
		Str("raw_min", fmt.Sprintf("%.4f", minRaw)).
		Str("raw_max", fmt.Sprintf("%.4f", maxRaw)).
		Msg("Scored dataset")

	return out
}

// scoreAmount min-max normalizes the amount across the batch, preferring mid
// and falling back to low then high. Records with no amount at all score 0.
func (m *Model) scoreAmount(records []models.TradeRecord) []float64 {
	values := make([]*float64, len(records))
	for i, rec := range records {
		switch {
		case rec.AmountMid != nil:
			values[i] = rec.AmountMid
		case rec.AmountLow != nil:
			values[i] = rec.AmountLow
		default:
			values[i] = rec.AmountHigh
		}
	}
	return normalizeNullable(values)
}

func (m *Model) scoreSectorVolatility(records []models.TradeRecord) []float64 {
	scores := make([]float64, len(records))
	for i, rec := range records {
		scores[i] = SectorVolatility(rec.Sector)
	}
	return scores
}

// scoreNewsIntensity min-max normalizes headline counts across the batch.
func (m *Model) scoreNewsIntensity(records []models.TradeRecord) []float64 {
	values := make([]*float64, len(records))
	for i := range records {
		v := float64(records[i].HeadlineCount)
		values[i] = &v
	}
	return normalizeNullable(values)
}

// scoreEventProximity scores closeness to a corporate event. The dataset
// declares which event inputs it carries; without any, everything scores 0.
func (m *Model) scoreEventProximity(ds models.Dataset) []float64 {
	scores := make([]float64, len(ds.Records))

	switch ds.Events {
	case models.EventDataDays:
		maxDays := 0.0
		for _, rec := range ds.Records {
			if rec.DaysToEvent != nil {
				if d := math.Abs(*rec.DaysToEvent); d > maxDays {
					maxDays = d
				}
			}
		}
		if maxDays == 0 {
			// Every trade sits on an event day; max proximity for all with data.
			for i, rec := range ds.Records {
				if rec.DaysToEvent != nil {
					scores[i] = 1
				}
			}
			return scores
		}
		for i, rec := range ds.Records {
			if rec.DaysToEvent == nil {
				continue
			}
			d := math.Abs(*rec.DaysToEvent)
			scores[i] = 1 - math.Min(d, maxDays)/maxDays
		}

	case models.EventDataFlag:
		for i, rec := range ds.Records {
			if rec.EventFlag != nil {
				scores[i] = clamp01(*rec.EventFlag)
			}
		}
	}

	return scores
}

// scorePattern rewards repeat trading of the same security by the same
// politician: (count-1)/(maxCount-1). When every pair appears exactly once
// maxCount == 1 and everyone scores 0 (intentional fallback, not a bug).
func (m *Model) scorePattern(records []models.TradeRecord) []float64 {
	type pair struct{ politician, stock string }

	counts := make(map[pair]int)
	for _, rec := range records {
		counts[pair{rec.Politician, rec.StockClean}]++
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	scores := make([]float64, len(records))
	if maxCount <= 1 {
		return scores
	}
	for i, rec := range records {
		c := counts[pair{rec.Politician, rec.StockClean}]
		scores[i] = float64(c-1) / float64(maxCount-1)
	}
	return scores
}

// normalizeNullable min-max normalizes nullable values; nil and NaN inputs
// score 0, as does every value when the batch has no spread.
func normalizeNullable(values []*float64) []float64 {
	minV := math.Inf(1)
	maxV := math.Inf(-1)
	any := false
	for _, v := range values {
		if v == nil || math.IsNaN(*v) {
			continue
		}
		any = true
		if *v < minV {
			minV = *v
		}
		if *v > maxV {
			maxV = *v
		}
	}

	scores := make([]float64, len(values))
	if !any || maxV-minV <= 0 {
		return scores
	}
	for i, v := range values {
		if v == nil || math.IsNaN(*v) {
			continue
		}
		scores[i] = (*v - minV) / (maxV - minV)
	}
	return scores
}

func minMax(values []float64) (float64, float64) {
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return minV, maxV
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

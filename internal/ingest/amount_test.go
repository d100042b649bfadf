package ingest

import (
	"testing"
)

func TestParseAmountBracket(t *testing.T) {
	tests := []struct {
		name    string
		bracket string
		low     float64
		high    float64
		mid     float64
		wantNil bool
	}{
		{name: "single value", bracket: "$15,000", low: 15000, high: 15000, mid: 15000},
		{name: "range with K suffix", bracket: "$15K - $50K", low: 15000, high: 50000, mid: 32500},
		{name: "range plain", bracket: "$1,001 - $15,000", low: 1001, high: 15000, mid: 8000.5},
		{name: "million suffix", bracket: "$1M - $5M", low: 1000000, high: 5000000, mid: 3000000},
		{name: "lowercase suffix", bracket: "$250k", low: 250000, high: 250000, mid: 250000},
		{name: "no dollar sign", bracket: "15,000 - 50,000", low: 15000, high: 50000, mid: 32500},
		{name: "open ended", bracket: "$1M +", low: 1000000, high: 1000000, mid: 1000000},
		{name: "empty", bracket: "", wantNil: true},
		{name: "garbage", bracket: "garbage", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmountBracket(tt.bracket)

			if tt.wantNil {
				if got.Low != nil || got.High != nil || got.Mid != nil {
					t.Fatalf("ParseAmountBracket(%q) = %+v, want all nil", tt.bracket, got)
				}
				return
			}

			if got.Low == nil || got.High == nil || got.Mid == nil {
				t.Fatalf("ParseAmountBracket(%q) returned nil field, want values", tt.bracket)
			}
			if *got.Low != tt.low {
				t.Errorf("low = %v, want %v", *got.Low, tt.low)
			}
			if *got.High != tt.high {
				t.Errorf("high = %v, want %v", *got.High, tt.high)
			}
			if *got.Mid != tt.mid {
				t.Errorf("mid = %v, want %v", *got.Mid, tt.mid)
			}
		})
	}
}

func TestParseAmountBracketMalformedHighFallsBackToLow(t *testing.T) {
	got := ParseAmountBracket("$15,000 - ")
	if got.Low == nil || got.High == nil {
		t.Fatal("expected parsed range")
	}
	if *got.High != *got.Low {
		t.Errorf("high = %v, want fallback to low %v", *got.High, *got.Low)
	}
}

package ingest

import (
	"regexp"
	"strconv"
	"strings"
)

// amountPattern matches a dollar bracket such as "$15,001 - $50,000" or
// "$1M +". Each bound is an optionally $-prefixed number with an optional
// K/M suffix; the high bound is optional.
var amountPattern = regexp.MustCompile(`\$?([\d,.]+)\s*([KkMm]?)(?:\s*-\s*\$?([\d,.]+)\s*([KkMm]?))?`)

// AmountRange is a parsed disclosure bracket in dollars. All fields are nil
// when the bracket text could not be parsed; the owning record is retained
// either way.
type AmountRange struct {
	Low  *float64
	High *float64
	Mid  *float64
}

// ParseAmountBracket parses a textual dollar-range bracket into low/high/mid
// values. A single bound yields Low == High. Any failure to parse the low
// bound yields an all-nil range.
func ParseAmountBracket(bracket string) AmountRange {
	if bracket == "" {
		return AmountRange{}
	}

	m := amountPattern.FindStringSubmatch(bracket)
	if m == nil {
		return AmountRange{}
	}

	low, ok := bracketNumber(m[1], m[2])
	if !ok {
		return AmountRange{}
	}

	high := low
	if m[3] != "" {
		if h, ok := bracketNumber(m[3], m[4]); ok {
			high = h
		}
	}

	mid := (low + high) / 2
	return AmountRange{Low: &low, High: &high, Mid: &mid}
}

// bracketNumber converts a matched numeric token plus suffix to dollars.
// Suffix K multiplies by 1e3, M by 1e6, case-insensitive.
func bracketNumber(numStr, suffix string) (float64, bool) {
	base, err := strconv.ParseFloat(strings.ReplaceAll(numStr, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(suffix) {
	case "k":
		base *= 1_000
	case "m":
		base *= 1_000_000
	}
	return base, true
}

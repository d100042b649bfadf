package ingest

import (
	"regexp"
	"strings"
)

// corpSuffixes matches one trailing corporate-entity suffix, with or without
// a trailing period. Applied repeatedly: names chain suffixes, e.g.
// "Foo Inc Common Stock".
var corpSuffixes = regexp.MustCompile(`(?i)\b(Inc|Incorporated|Corp|Corporation|Co|Company|Class [A-Z]|Common Stock|Ord Shs|PLC|Ltd)\.?$`)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// CleanStockName strips trailing corporate suffixes and share-class
// qualifiers from a raw security label, producing a canonical short name.
// The source data separates share-class qualifiers with a hyphen; an en-dash
// that survived a bad decode ("â€“") is normalized to a plain hyphen first.
// Empty input passes through unchanged. Idempotent.
func CleanStockName(raw string) string {
	if raw == "" {
		return raw
	}

	cleaned := strings.ReplaceAll(raw, "â€“", "-")
	primary := strings.TrimSpace(strings.SplitN(cleaned, "-", 2)[0])

	// Strip suffixes until a fixed point is reached.
	for {
		stripped := strings.TrimSpace(corpSuffixes.ReplaceAllString(primary, ""))
		if stripped == primary {
			break
		}
		primary = stripped
	}

	return whitespaceRuns.ReplaceAllString(primary, " ")
}

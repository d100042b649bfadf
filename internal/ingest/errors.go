package ingest

import (
	"errors"
	"fmt"
)

// Structural failures that make the entire fetch meaningless. These abort the
// run; every per-row or per-field failure degrades into nulls or warnings
// instead.
var (
	// ErrNoTablesFound means the document contained no table elements at all.
	ErrNoTablesFound = errors.New("no tables found in document")

	// ErrNoMatchingTable means tables were present but none carried the
	// expected header set. Distinct from ErrNoTablesFound so a site-layout
	// change is diagnosable from a schema-drift change.
	ErrNoMatchingTable = errors.New("no table contained expected headers")
)

// FetchError represents a failed page fetch: non-2xx status, empty body, or a
// transport failure. Fatal for the run; retry policy belongs to the caller.
type FetchError struct {
	URL        string
	StatusCode int
	Reason     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch failed for %s: %s (status: %d)", e.URL, e.Reason, e.StatusCode)
	}
	return fmt.Sprintf("fetch failed for %s: %s", e.URL, e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

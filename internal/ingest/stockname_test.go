package ingest

import "testing"

func TestCleanStockName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "chained suffixes", raw: "Apple Inc Common Stock", want: "Apple"},
		{name: "class qualifier after hyphen", raw: "Foo Corp - Class A", want: "Foo"},
		{name: "suffix with period", raw: "Acme Ltd.", want: "Acme"},
		{name: "incorporated", raw: "Widgets Incorporated", want: "Widgets"},
		{name: "plc", raw: "British Gas PLC", want: "British Gas"},
		{name: "ord shs", raw: "Shell Ord Shs", want: "Shell"},
		{name: "mojibake dash", raw: "Bar Inc â€“ Class B", want: "Bar"},
		{name: "no suffix", raw: "Tesla", want: "Tesla"},
		{name: "company chain", raw: "Ford Motor Company", want: "Ford Motor"},
		{name: "empty", raw: "", want: ""},
		{name: "suffix only word mid-name kept", raw: "Corporate Travel", want: "Corporate Travel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanStockName(tt.raw); got != tt.want {
				t.Errorf("CleanStockName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCleanStockNameIdempotent(t *testing.T) {
	inputs := []string{"Apple Inc Common Stock", "Foo Corp - Class A", "Tesla", ""}
	for _, raw := range inputs {
		once := CleanStockName(raw)
		twice := CleanStockName(once)
		if once != twice {
			t.Errorf("CleanStockName not idempotent for %q: %q != %q", raw, once, twice)
		}
	}
}

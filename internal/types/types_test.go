package types

import (
	"errors"
	"testing"
)

func TestParseSheetSelector(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected SheetSelector
	}{
		{"Zero index", "0", SelectorIndex(0)},
		{"Positive index", "3", SelectorIndex(3)},
		{"Trimmed index", " 1 ", SelectorIndex(1)},
		{"Sheet name", "Sheet2", SelectorName("Sheet2")},
		{"Name with spaces inside", "Q1 Report", SelectorName("Q1 Report")},
		{"Empty defaults to zero", "", SelectorIndex(0)},
		{"Whitespace defaults to zero", "   ", SelectorIndex(0)},
		{"Negative parses as index", "-1", SelectorIndex(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSheetSelector(tt.input)
			if got != tt.expected {
				t.Errorf("ParseSheetSelector(%q) = %+v; want %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSheetSelectorString(t *testing.T) {
	if s := SelectorIndex(2).String(); s != "2" {
		t.Errorf("SelectorIndex(2).String() = %q; want %q", s, "2")
	}
	if s := SelectorName("Data").String(); s != "Data" {
		t.Errorf("SelectorName(Data).String() = %q; want %q", s, "Data")
	}
}

func TestRunSummaryCounts(t *testing.T) {
	s := &RunSummary{Outcomes: []FileOutcome{
		{Input: "a.xlsx", Status: StatusConverted, Rows: 5},
		{Input: "b.xlsx", Status: StatusFailed, Err: errors.New("sheet not found")},
		{Input: "c.xlsx", Status: StatusSkipped},
		{Input: "d.xlsx", Status: StatusConverted, Rows: 1},
	}}

	converted, skipped, failed := s.Counts()
	if converted != 2 || skipped != 1 || failed != 1 {
		t.Errorf("Counts() = %d/%d/%d; want 2/1/1", converted, skipped, failed)
	}
	if got := s.String(); got != "2 converted, 1 skipped, 1 failed" {
		t.Errorf("String() = %q", got)
	}
}

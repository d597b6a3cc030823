package types

import (
	"fmt"
	"strconv"
	"strings"
)

// SheetSelector identifies one sheet within a workbook, either by
// zero-based index or by name.
type SheetSelector struct {
	Index  int
	Name   string
	ByName bool
}

func SelectorIndex(i int) SheetSelector {
	return SheetSelector{Index: i}
}

func SelectorName(name string) SheetSelector {
	return SheetSelector{Name: name, ByName: true}
}

// ParseSheetSelector resolves the raw form input: integer strings become a
// zero-based index, anything else non-empty is a sheet name, and an empty
// string defaults to index 0.
func ParseSheetSelector(raw string) SheetSelector {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SelectorIndex(0)
	}
	if idx, err := strconv.Atoi(raw); err == nil {
		return SelectorIndex(idx)
	}
	return SelectorName(raw)
}

func (s SheetSelector) String() string {
	if s.ByName {
		return s.Name
	}
	return strconv.Itoa(s.Index)
}

type OutcomeStatus int

const (
	StatusConverted OutcomeStatus = iota
	StatusSkipped
	StatusFailed
)

// FileOutcome records the result of converting a single source file.
// Rows counts data rows written, excluding the header row.
type FileOutcome struct {
	Input  string
	Output string
	Rows   int
	Status OutcomeStatus
	Err    error
}

// RunSummary collects the per-file outcomes of one conversion run,
// in processing order.
type RunSummary struct {
	Outcomes []FileOutcome
}

func (s *RunSummary) Counts() (converted, skipped, failed int) {
	for _, o := range s.Outcomes {
		switch o.Status {
		case StatusConverted:
			converted++
		case StatusSkipped:
			skipped++
		case StatusFailed:
			failed++
		}
	}
	return converted, skipped, failed
}

func (s *RunSummary) String() string {
	converted, skipped, failed := s.Counts()
	return fmt.Sprintf("%d converted, %d skipped, %d failed", converted, skipped, failed)
}

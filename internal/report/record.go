package report

import (
	"slices"
	"time"
)

// Status is a tracker status name such as NEW or ON_QA.
type Status string

// StatusSet is a named, ordered subset of a tracker's statuses.
type StatusSet []Status

func (s StatusSet) Contains(status Status) bool {
	return slices.Contains(s, status)
}

// Record is one parsed issue or review entry.
type Record struct {
	ID          string
	Status      Status
	Owner       string
	Updated     time.Time
	Summary     string
	Category    string
	Component   string
	Keywords    []string
	SearchedFor string
}

// Params is the parameter set of one invocation.
type Params struct {
	Team        string
	Projects    []string
	People      []string
	Days        int
	IncludeAll  bool
	EmailDomain string
	Now         time.Time
}

// ParseResult is what a parser extracted from one response. Skipped holds
// one error per input line or row that could not be turned into a Record.
type ParseResult struct {
	Records []Record
	Skipped []error
}

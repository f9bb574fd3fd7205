// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package migration

// Result classifies the outcome of processing one batch candidate.
type Result string

const (
	// ResultMigrated indicates the resource was transferred and a
	// completed record was persisted.
	ResultMigrated Result = "migrated"

	// ResultSkipped indicates a completed record already existed for
	// the resource; the handler was not invoked.
	ResultSkipped Result = "skipped"

	// ResultFailed indicates the handler returned an error and a failed
	// record was persisted.
	ResultFailed Result = "failed"

	// ResultDryRun indicates the candidate was only simulated; nothing
	// was persisted or created.
	ResultDryRun Result = "dry-run"
)

// Outcome is the structured result for a single candidate, emitted at
// the presentation boundary.
type Outcome struct {
	SourceID      string `json:"source-id" yaml:"source-id"`
	Result        Result `json:"result" yaml:"result"`
	UUID          string `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	DestinationID string `json:"destination-id,omitempty" yaml:"destination-id,omitempty"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
}

// BatchSummary aggregates the outcomes of one batch invocation, in
// candidate listing order.
type BatchSummary struct {
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`
	Migrated int       `json:"migrated" yaml:"migrated"`
	Skipped  int       `json:"skipped" yaml:"skipped"`
	Failed   int       `json:"failed" yaml:"failed"`
}

// Add appends an outcome and bumps the matching counter.
func (s *BatchSummary) Add(outcome Outcome) {
	s.Outcomes = append(s.Outcomes, outcome)
	switch outcome.Result {
	case ResultMigrated:
		s.Migrated++
	case ResultSkipped:
		s.Skipped++
	case ResultFailed:
		s.Failed++
	}
}

// CleanupOutcome is the per-record result of a source cleanup run.
type CleanupOutcome struct {
	UUID     string `json:"uuid" yaml:"uuid"`
	SourceID string `json:"source-id" yaml:"source-id"`
	Deleted  bool   `json:"deleted" yaml:"deleted"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// CleanupSummary aggregates a cleanup-source run.
type CleanupSummary struct {
	Outcomes []CleanupOutcome `json:"outcomes" yaml:"outcomes"`
	Deleted  int              `json:"deleted" yaml:"deleted"`
	Failed   int              `json:"failed" yaml:"failed"`
}

// Add appends a cleanup outcome and bumps the matching counter.
func (s *CleanupSummary) Add(outcome CleanupOutcome) {
	s.Outcomes = append(s.Outcomes, outcome)
	if outcome.Error != "" {
		s.Failed++
	} else if outcome.Deleted {
		s.Deleted++
	}
}

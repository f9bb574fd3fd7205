// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package migration holds the types shared between the migration
// service and state layers.
package migration

import (
	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
)

// RecordArgs identifies a new migration attempt. Records are created
// pending by the engine immediately before the handler is invoked.
type RecordArgs struct {
	Service          string
	ResourceType     string
	SourceCloud      string
	DestinationCloud string
	SourceID         string
}

// CompletedKey is the idempotency key: at most one non-archived record
// may be completed for a given key at any time.
type CompletedKey struct {
	Service          string
	ResourceType     string
	DestinationCloud string
	SourceID         string
}

// RecordFilter narrows list, archive and restore operations. Zero
// valued fields are ignored; the set fields are combined with AND.
type RecordFilter struct {
	UUID         string
	Service      string
	ResourceType string
	Status       coremigration.Status
	SourceID     string

	// Archived selects archived records only. IncludeArchived includes
	// them alongside live ones.
	Archived        bool
	IncludeArchived bool
}

// Empty reports whether the filter matches everything, archive flags
// aside.
func (f RecordFilter) Empty() bool {
	return f.UUID == "" && f.Service == "" && f.ResourceType == "" &&
		f.Status == "" && f.SourceID == ""
}

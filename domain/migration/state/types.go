// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"time"

	"github.com/juju/errors"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
)

// migrationRow maps a migration record joined with its status text.
type migrationRow struct {
	UUID             string    `db:"uuid"`
	Service          string    `db:"service"`
	ResourceType     string    `db:"resource_type"`
	SourceCloud      string    `db:"source_cloud"`
	DestinationCloud string    `db:"destination_cloud"`
	SourceID         string    `db:"source_id"`
	DestinationID    string    `db:"destination_id"`
	Status           string    `db:"status"`
	ErrorMessage     string    `db:"error_message"`
	Archived         bool      `db:"archived"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (r migrationRow) toRecord() coremigration.Record {
	return coremigration.Record{
		UUID:             r.UUID,
		Service:          r.Service,
		ResourceType:     r.ResourceType,
		SourceCloud:      r.SourceCloud,
		DestinationCloud: r.DestinationCloud,
		SourceID:         r.SourceID,
		DestinationID:    r.DestinationID,
		Status:           coremigration.Status(r.Status),
		ErrorMessage:     r.ErrorMessage,
		Archived:         r.Archived,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// transitionArgs carries the values for a status transition.
type transitionArgs struct {
	UUID          string    `db:"uuid"`
	Status        string    `db:"status"`
	DestinationID string    `db:"destination_id"`
	ErrorMessage  string    `db:"error_message"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// completedKey matches the idempotency tuple.
type completedKey struct {
	Service          string `db:"service"`
	ResourceType     string `db:"resource_type"`
	DestinationCloud string `db:"destination_cloud"`
	SourceID         string `db:"source_id"`
}

// listFilter carries the optional list/archive filter values.
type listFilter struct {
	UUID         string `db:"uuid"`
	Service      string `db:"service"`
	ResourceType string `db:"resource_type"`
	StatusID     int    `db:"status_id"`
	SourceID     string `db:"source_id"`
}

// encodeStatus returns the migration_status row id for a status. The
// ids match the rows seeded by the schema.
func encodeStatus(status coremigration.Status) (int, error) {
	switch status {
	case coremigration.StatusPending:
		return 0, nil
	case coremigration.StatusInProgress:
		return 1, nil
	case coremigration.StatusCompleted:
		return 2, nil
	case coremigration.StatusFailed:
		return 3, nil
	}
	return -1, errors.NotValidf("status %q", status)
}

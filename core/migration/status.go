// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package migration

import (
	"github.com/juju/errors"
)

// Status describes the lifecycle state of a migration record.
type Status string

const (
	// StatusPending indicates that a record has been created but the
	// handler has not been invoked yet.
	StatusPending Status = "pending"

	// StatusInProgress indicates that the handler call is underway.
	StatusInProgress Status = "in-progress"

	// StatusCompleted indicates that the resource was migrated and a
	// destination id has been recorded.
	StatusCompleted Status = "completed"

	// StatusFailed indicates that the handler call returned an error,
	// recorded on the migration record.
	StatusFailed Status = "failed"
)

// Terminal reports whether a record in this status may never
// transition again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Validate returns an error if the status is not a known value.
func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return nil
	}
	return errors.NotValidf("status %q", s)
}

// ParseStatus converts a user supplied string into a Status.
func ParseStatus(value string) (Status, error) {
	s := Status(value)
	if err := s.Validate(); err != nil {
		return "", errors.Trace(err)
	}
	return s, nil
}

// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package errors

import "github.com/juju/errors"

const (
	// UnknownResourceType is returned when no handler is registered
	// for a requested resource type. This is a configuration error and
	// aborts the whole operation.
	UnknownResourceType = errors.ConstError("unknown resource type")

	// DuplicateHandler is returned when two handlers register under
	// the same (service, resource type) key. Registration fails fast.
	DuplicateHandler = errors.ConstError("duplicate handler")

	// InvalidFilter is returned when a batch filter key is not
	// supported by the target handler. The batch is aborted before any
	// candidate is processed.
	InvalidFilter = errors.ConstError("invalid resource filter")

	// RecordNotFound is returned when no migration record exists for a
	// requested uuid or idempotency key.
	RecordNotFound = errors.ConstError("migration record not found")

	// ResourceNotFound is returned when a source resource vanished
	// between listing and migration. It is reported per candidate and
	// does not abort a batch.
	ResourceNotFound = errors.ConstError("resource not found")

	// AlreadyMigrated is returned when a completed record already
	// exists for the idempotency key. It is handled as a skip, not a
	// failure.
	AlreadyMigrated = errors.ConstError("resource already migrated")

	// InvalidTransition is returned when attempting to move a record
	// out of a terminal status.
	InvalidTransition = errors.ConstError("invalid status transition")
)

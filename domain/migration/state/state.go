// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package state implements the migration store on SQLite. It is the
// sole source of truth for idempotency checks and list/show queries.
package state

import (
	"context"
	"strings"

	"github.com/canonical/sqlair"
	"github.com/juju/clock"
	"github.com/juju/collections/transform"
	"github.com/juju/errors"
	"github.com/juju/utils/v4"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	"github.com/canonical/sunbeam-migrate/domain/migration"
	migrationerrors "github.com/canonical/sunbeam-migrate/domain/migration/errors"
	"github.com/canonical/sunbeam-migrate/internal/database"
)

const recordColumns = `
SELECT (m.uuid, m.service, m.resource_type, m.source_cloud,
        m.destination_cloud, m.source_id, m.destination_id,
        m.error_message, m.archived, m.created_at, m.updated_at,
        s.status) AS (&migrationRow.*)
FROM   migration m
       JOIN migration_status s ON m.status_id = s.id`

// State persists migration records.
type State struct {
	runner database.TxnRunner
	clock  clock.Clock
}

// NewState returns a State backed by the given transaction runner.
func NewState(runner database.TxnRunner, clk clock.Clock) *State {
	return &State{runner: runner, clock: clk}
}

// Create inserts a new pending record for the given attempt and
// returns its uuid.
func (st *State) Create(ctx context.Context, args migration.RecordArgs) (string, error) {
	id, err := utils.NewUUID()
	if err != nil {
		return "", errors.Trace(err)
	}
	now := st.clock.Now().UTC()

	row := migrationRow{
		UUID:             id.String(),
		Service:          args.Service,
		ResourceType:     args.ResourceType,
		SourceCloud:      args.SourceCloud,
		DestinationCloud: args.DestinationCloud,
		SourceID:         args.SourceID,
		Status:           string(coremigration.StatusPending),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// The status id is resolved by selecting the insert values from the
	// status lookup table. A scalar subquery inside VALUES would carry
	// an input expression sqlair cannot rewrite.
	stmt, err := sqlair.Prepare(`
INSERT INTO migration (uuid, service, resource_type, source_cloud,
                       destination_cloud, source_id, destination_id,
                       status_id, error_message, archived, created_at,
                       updated_at)
SELECT $migrationRow.uuid, $migrationRow.service,
       $migrationRow.resource_type, $migrationRow.source_cloud,
       $migrationRow.destination_cloud, $migrationRow.source_id,
       $migrationRow.destination_id, id, $migrationRow.error_message,
       $migrationRow.archived, $migrationRow.created_at,
       $migrationRow.updated_at
FROM   migration_status
WHERE  status = $migrationRow.status`, migrationRow{})
	if err != nil {
		return "", errors.Annotate(err, "preparing insert record statement")
	}

	err = st.runner.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		return errors.Trace(tx.Query(ctx, stmt, row).Run())
	})
	if err != nil {
		return "", errors.Annotate(err, "creating migration record")
	}
	return id.String(), nil
}

// Transition moves a record to a new status. It fails with
// InvalidTransition if the record is already terminal, and with
// AlreadyMigrated if completing it would violate the idempotency
// invariant. destinationID must be set iff the new status is completed;
// errorMessage iff it is failed.
func (st *State) Transition(
	ctx context.Context,
	uuid string,
	status coremigration.Status,
	destinationID, errorMessage string,
) error {
	if err := status.Validate(); err != nil {
		return errors.Trace(err)
	}
	if (destinationID != "") != (status == coremigration.StatusCompleted) {
		return errors.NotValidf("destination id %q for status %q", destinationID, status)
	}
	if (errorMessage != "") != (status == coremigration.StatusFailed) {
		return errors.NotValidf("error message for status %q", status)
	}

	args := transitionArgs{
		UUID:          uuid,
		Status:        string(status),
		DestinationID: destinationID,
		ErrorMessage:  errorMessage,
		UpdatedAt:     st.clock.Now().UTC(),
	}

	getStmt, err := sqlair.Prepare(recordColumns+`
WHERE m.uuid = $transitionArgs.uuid`, migrationRow{}, transitionArgs{})
	if err != nil {
		return errors.Annotate(err, "preparing select record statement")
	}

	// The status id is resolved by joining the status lookup table in
	// the FROM clause, for the same sqlair reason as in Create.
	updateStmt, err := sqlair.Prepare(`
UPDATE migration AS m
SET    status_id = s.id,
       destination_id = $transitionArgs.destination_id,
       error_message = $transitionArgs.error_message,
       updated_at = $transitionArgs.updated_at
FROM   migration_status AS s
WHERE  s.status = $transitionArgs.status
AND    m.uuid = $transitionArgs.uuid`, transitionArgs{})
	if err != nil {
		return errors.Annotate(err, "preparing update record statement")
	}

	err = st.runner.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		var current migrationRow
		err := tx.Query(ctx, getStmt, args).Get(&current)
		if errors.Is(err, sqlair.ErrNoRows) {
			return migrationerrors.RecordNotFound
		} else if err != nil {
			return errors.Trace(err)
		}
		if coremigration.Status(current.Status).Terminal() {
			return errors.Annotatef(migrationerrors.InvalidTransition,
				"record %q is already %s", uuid, current.Status)
		}
		return errors.Trace(tx.Query(ctx, updateStmt, args).Run())
	})
	if database.IsErrConstraintUnique(err) {
		return errors.Annotatef(migrationerrors.AlreadyMigrated,
			"completing record %q", uuid)
	}
	return errors.Annotatef(err, "transitioning record %q to %s", uuid, status)
}

// FindCompleted returns the completed record for the idempotency key,
// or RecordNotFound. Archived records are not considered.
func (st *State) FindCompleted(ctx context.Context, key migration.CompletedKey) (coremigration.Record, error) {
	ck := completedKey{
		Service:          key.Service,
		ResourceType:     key.ResourceType,
		DestinationCloud: key.DestinationCloud,
		SourceID:         key.SourceID,
	}

	stmt, err := sqlair.Prepare(recordColumns+`
WHERE  m.service = $completedKey.service
AND    m.resource_type = $completedKey.resource_type
AND    m.destination_cloud = $completedKey.destination_cloud
AND    m.source_id = $completedKey.source_id
AND    s.status = 'completed'
AND    NOT m.archived`, migrationRow{}, completedKey{})
	if err != nil {
		return coremigration.Record{}, errors.Annotate(err, "preparing find completed statement")
	}

	var row migrationRow
	err = st.runner.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		return tx.Query(ctx, stmt, ck).Get(&row)
	})
	if errors.Is(err, sqlair.ErrNoRows) {
		return coremigration.Record{}, migrationerrors.RecordNotFound
	} else if err != nil {
		return coremigration.Record{}, errors.Trace(err)
	}
	return row.toRecord(), nil
}

// Get returns the record with the given uuid, or RecordNotFound.
func (st *State) Get(ctx context.Context, uuid string) (coremigration.Record, error) {
	args := listFilter{UUID: uuid}

	stmt, err := sqlair.Prepare(recordColumns+`
WHERE m.uuid = $listFilter.uuid`, migrationRow{}, listFilter{})
	if err != nil {
		return coremigration.Record{}, errors.Annotate(err, "preparing get record statement")
	}

	var row migrationRow
	err = st.runner.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		return tx.Query(ctx, stmt, args).Get(&row)
	})
	if errors.Is(err, sqlair.ErrNoRows) {
		return coremigration.Record{}, errors.Annotatef(migrationerrors.RecordNotFound, "uuid %q", uuid)
	} else if err != nil {
		return coremigration.Record{}, errors.Trace(err)
	}
	return row.toRecord(), nil
}

// List returns the records matching the filter, ordered by creation
// time then uuid so listings are deterministic.
func (st *State) List(ctx context.Context, filter migration.RecordFilter) ([]coremigration.Record, error) {
	where, args, err := filterConditions(filter)
	if err != nil {
		return nil, errors.Trace(err)
	}

	query := recordColumns
	if len(where) > 0 {
		query += "\nWHERE  " + strings.Join(where, "\nAND    ")
	}
	query += "\nORDER BY m.created_at, m.uuid"

	stmt, err := prepareFiltered(query, args, migrationRow{})
	if err != nil {
		return nil, errors.Annotate(err, "preparing list records statement")
	}

	var rows []migrationRow
	err = st.runner.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		err := tx.Query(ctx, stmt, args...).GetAll(&rows)
		if errors.Is(err, sqlair.ErrNoRows) {
			return nil
		}
		return errors.Trace(err)
	})
	if err != nil {
		return nil, errors.Annotate(err, "listing migration records")
	}
	return transform.Slice(rows, migrationRow.toRecord), nil
}

// Archive soft deletes the records matching the filter and returns the
// number of records affected.
func (st *State) Archive(ctx context.Context, filter migration.RecordFilter) (int, error) {
	return st.setArchived(ctx, filter, true)
}

// Restore un-archives the records matching the filter and returns the
// number of records affected. Restoring a completed record fails with
// AlreadyMigrated if a live completed record has since been created
// for the same idempotency key.
func (st *State) Restore(ctx context.Context, filter migration.RecordFilter) (int, error) {
	filter.Archived = true
	n, err := st.setArchived(ctx, filter, false)
	if database.IsErrConstraintUnique(err) {
		return 0, errors.Annotate(migrationerrors.AlreadyMigrated, "restoring records")
	}
	return n, errors.Trace(err)
}

// Delete removes the records matching the filter permanently and
// returns the number of records affected.
func (st *State) Delete(ctx context.Context, filter migration.RecordFilter) (int, error) {
	where, args, err := filterConditions(filter)
	if err != nil {
		return 0, errors.Trace(err)
	}

	query := "DELETE FROM migration AS m"
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}

	stmt, err := prepareFiltered(query, args)
	if err != nil {
		return 0, errors.Annotate(err, "preparing delete records statement")
	}

	var affected int64
	err = st.runner.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		var outcome sqlair.Outcome
		if err := tx.Query(ctx, stmt, args...).Get(&outcome); err != nil {
			return errors.Trace(err)
		}
		var err error
		affected, err = outcome.Result().RowsAffected()
		return errors.Trace(err)
	})
	if err != nil {
		return 0, errors.Annotate(err, "deleting migration records")
	}
	return int(affected), nil
}

func (st *State) setArchived(ctx context.Context, filter migration.RecordFilter, archived bool) (int, error) {
	where, args, err := filterConditions(filter)
	if err != nil {
		return 0, errors.Trace(err)
	}

	query := "UPDATE migration AS m SET archived = "
	if archived {
		query += "TRUE"
	} else {
		query += "FALSE"
	}
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}

	stmt, err := prepareFiltered(query, args)
	if err != nil {
		return 0, errors.Annotate(err, "preparing archive statement")
	}

	var affected int64
	err = st.runner.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		var outcome sqlair.Outcome
		if err := tx.Query(ctx, stmt, args...).Get(&outcome); err != nil {
			return errors.Trace(err)
		}
		var err error
		affected, err = outcome.Result().RowsAffected()
		return errors.Trace(err)
	})
	if err != nil {
		return 0, errors.Annotate(err, "archiving migration records")
	}
	return int(affected), nil
}

// filterConditions renders the set fields of the filter into SQL
// conditions over the aliased migration table. The returned args are
// empty unless at least one condition references them: sqlair rejects
// query arguments the statement never uses.
func filterConditions(filter migration.RecordFilter) ([]string, []any, error) {
	args := listFilter{
		UUID:         filter.UUID,
		Service:      filter.Service,
		ResourceType: filter.ResourceType,
		SourceID:     filter.SourceID,
	}

	var where []string
	referenced := false
	if filter.UUID != "" {
		where = append(where, "m.uuid = $listFilter.uuid")
		referenced = true
	}
	if filter.Service != "" {
		where = append(where, "m.service = $listFilter.service")
		referenced = true
	}
	if filter.ResourceType != "" {
		where = append(where, "m.resource_type = $listFilter.resource_type")
		referenced = true
	}
	if filter.Status != "" {
		id, err := encodeStatus(filter.Status)
		if err != nil {
			return nil, nil, errors.Trace(err)
		}
		args.StatusID = id
		where = append(where, "m.status_id = $listFilter.status_id")
		referenced = true
	}
	if filter.SourceID != "" {
		where = append(where, "m.source_id = $listFilter.source_id")
		referenced = true
	}
	if filter.Archived {
		where = append(where, "m.archived")
	} else if !filter.IncludeArchived {
		where = append(where, "NOT m.archived")
	}
	if !referenced {
		return where, nil, nil
	}
	return where, []any{args}, nil
}

// prepareFiltered prepares a query composed by filterConditions, adding
// the filter type sample only when the query references it.
func prepareFiltered(query string, args []any, samples ...any) (*sqlair.Statement, error) {
	if len(args) > 0 {
		samples = append(samples, listFilter{})
	}
	return sqlair.Prepare(query, samples...)
}

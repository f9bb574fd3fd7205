// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package database

import (
	"context"
	"database/sql"

	"github.com/juju/errors"
)

// schemaDDL is applied in order inside a single transaction. Statements
// must be idempotent; the tool ensures the schema on every start.
//
// The partial unique index is the load-bearing piece: it enforces the
// idempotency invariant that at most one live record may be completed
// for a given (service, resource_type, destination_cloud, source_id),
// turning a racing duplicate insert into a constraint violation rather
// than silent duplication.
var schemaDDL = []string{
	`
CREATE TABLE IF NOT EXISTS migration_status (
    id     INT PRIMARY KEY,
    status TEXT NOT NULL UNIQUE
);`,
	`
INSERT INTO migration_status (id, status) VALUES
    (0, 'pending'),
    (1, 'in-progress'),
    (2, 'completed'),
    (3, 'failed')
ON CONFLICT (id) DO NOTHING;`,
	`
CREATE TABLE IF NOT EXISTS migration (
    uuid              TEXT PRIMARY KEY,
    service           TEXT NOT NULL,
    resource_type     TEXT NOT NULL,
    source_cloud      TEXT NOT NULL,
    destination_cloud TEXT NOT NULL,
    source_id         TEXT NOT NULL,
    destination_id    TEXT NOT NULL DEFAULT '',
    status_id         INT NOT NULL REFERENCES migration_status (id),
    error_message     TEXT NOT NULL DEFAULT '',
    archived          BOOLEAN NOT NULL DEFAULT FALSE,
    created_at        TIMESTAMP NOT NULL,
    updated_at        TIMESTAMP NOT NULL
);`,
	`
CREATE UNIQUE INDEX IF NOT EXISTS idx_migration_completed
ON migration (service, resource_type, destination_cloud, source_id)
WHERE status_id = 2 AND NOT archived;`,
	`
CREATE INDEX IF NOT EXISTS idx_migration_source
ON migration (resource_type, source_id);`,
}

// EnsureSchema creates any missing tables and indexes.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Trace(err)
	}
	for _, stmt := range schemaDDL {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return errors.Annotatef(err, "applying schema statement %q", stmt)
		}
	}
	return errors.Trace(tx.Commit())
}

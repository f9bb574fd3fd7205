// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package database opens and bootstraps the local SQLite database that
// backs the migration store.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/canonical/sqlair"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	_ "github.com/mattn/go-sqlite3"
)

var logger = loggo.GetLogger("sunbeammigrate.database")

// Open opens (creating if necessary) the SQLite database at the given
// path and ensures the schema is current. The enclosing directory is
// created with restrictive permissions since records may reference
// tenant resources.
func Open(ctx context.Context, path string) (*sqlair.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.Annotate(err, "creating database directory")
	}

	dsn := fmt.Sprintf("file:%s?_fk=1&_busy_timeout=5000", path)
	logger.Debugf("opening database %q", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Annotate(err, "opening database")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Annotate(err, "connecting to database")
	}

	sqlairDB := sqlair.NewDB(db)
	if err := EnsureSchema(ctx, sqlairDB.PlainDB()); err != nil {
		_ = db.Close()
		return nil, errors.Annotate(err, "ensuring schema")
	}
	return sqlairDB, nil
}

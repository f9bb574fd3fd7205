// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/canonical/sqlair"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/retry"
)

// TxnRunner provides the transaction semantics the state layer builds
// on. All mutating store operations run inside one of these
// transactions, which is what makes the check-then-create sequence
// atomic with respect to a second caller.
type TxnRunner interface {
	// Txn runs fn inside a transaction using sqlair mapped statements.
	Txn(context.Context, func(context.Context, *sqlair.TX) error) error

	// StdTxn runs fn inside a plain database/sql transaction.
	StdTxn(context.Context, func(context.Context, *sql.Tx) error) error
}

type txnRunner struct {
	db    *sqlair.DB
	clock clock.Clock
}

// NewTxnRunner returns a TxnRunner over the given database. Transient
// busy/locked failures are retried with backoff; anything else is
// surfaced to the caller untouched.
func NewTxnRunner(db *sqlair.DB, clk clock.Clock) TxnRunner {
	return &txnRunner{db: db, clock: clk}
}

func (r *txnRunner) Txn(ctx context.Context, fn func(context.Context, *sqlair.TX) error) error {
	return r.run(ctx, func() error {
		tx, err := r.db.Begin(ctx, nil)
		if err != nil {
			return errors.Trace(err)
		}
		if err := fn(ctx, tx); err != nil {
			_ = tx.Rollback()
			return err
		}
		return errors.Trace(tx.Commit())
	})
}

func (r *txnRunner) StdTxn(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	return r.run(ctx, func() error {
		tx, err := r.db.PlainDB().BeginTx(ctx, nil)
		if err != nil {
			return errors.Trace(err)
		}
		if err := fn(ctx, tx); err != nil {
			_ = tx.Rollback()
			return err
		}
		return errors.Trace(tx.Commit())
	})
}

func (r *txnRunner) run(ctx context.Context, fn func() error) error {
	return retry.Call(retry.CallArgs{
		Func: fn,
		IsFatalError: func(err error) bool {
			return !IsErrRetryable(err)
		},
		Attempts: 5,
		Delay:    100 * time.Millisecond,
		Clock:    r.clock,
		Stop:     ctx.Done(),
	})
}

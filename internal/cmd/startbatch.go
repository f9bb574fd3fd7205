// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"context"

	"github.com/juju/cmd/v4"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
)

const startBatchDoc = `
Migrate every source resource of the given type that matches the
filters. Filters use the form "key:value[,key:value...]" and are
combined with logical AND; --filter may be repeated. The keys a
resource type accepts are shown by the capabilities command. Use
--all to select every resource of the type.

Batch processing is best effort: a failing candidate is recorded as
failed and the batch continues with the rest. Already migrated
resources are reported as skipped, referencing the earlier migration.
`

type startBatchCommand struct {
	migrateCommandBase

	resourceType string
	filters      []string
	all          bool

	dryRun        bool
	cleanupSource bool

	filter coremigration.Filter
	out    cmd.Output
}

func newStartBatchCommand() cmd.Command {
	return &startBatchCommand{}
}

// Info is part of the cmd.Command interface.
func (c *startBatchCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:     "start-batch",
		Args:     "<resource-type>",
		Purpose:  "migrate all resources matching the filters",
		Doc:      startBatchDoc,
		Examples: "    sunbeam-migrate start-batch image --filter owner-id:516dd6f2c2e04b99a4b4b8b1e3a1a8a7\n",
	}
}

// SetFlags is part of the cmd.Command interface.
func (c *startBatchCommand) SetFlags(f *gnuflag.FlagSet) {
	c.migrateCommandBase.SetFlags(f)
	f.Var(cmd.NewAppendStringsValue(&c.filters), "filter",
		"Resource filter as \"key:value[,key:value...]\", may be repeated")
	f.BoolVar(&c.all, "all", false, "Select every resource of the type")
	f.BoolVar(&c.dryRun, "dry-run", false, "Simulate the batch without changing anything")
	f.BoolVar(&c.cleanupSource, "cleanup-source", false, "Delete each source resource after a successful migration")
	c.out.AddFlags(f, "yaml", outputFormatters())
}

// Init is part of the cmd.Command interface.
func (c *startBatchCommand) Init(args []string) error {
	if len(args) < 1 {
		return errors.New("resource type required")
	}
	c.resourceType = args[0]
	if err := cmd.CheckEmpty(args[1:]); err != nil {
		return errors.Trace(err)
	}
	if len(c.filters) == 0 && !c.all {
		return errors.New("no filters specified, use --filter or --all")
	}
	if len(c.filters) > 0 && c.all {
		return errors.New("--all cannot be combined with --filter")
	}
	filter, err := coremigration.ParseFilter(c.filters...)
	if err != nil {
		return errors.Trace(err)
	}
	c.filter = filter
	return nil
}

// Run is part of the cmd.Command interface.
func (c *startBatchCommand) Run(ctx *cmd.Context) error {
	runCtx := context.Background()
	engine, err := c.newEngine(runCtx)
	if err != nil {
		return errors.Trace(err)
	}
	summary, err := engine.MigrateBatch(runCtx, c.resourceType, c.filter, c.dryRun, c.cleanupSource)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.out.Write(ctx, summary))
}

// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"context"

	"github.com/juju/cmd/v4"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
)

const cleanupSourceDoc = `
Delete the source resources of every completed migration for the
given resource type. Sources that are already gone count as deleted,
so the command can safely be re-run. Failures are reported in the
summary without blocking the remaining deletions; the migration
records themselves are never modified.

With --dry-run the command only reports what would be deleted.
`

type cleanupSourceCommand struct {
	migrateCommandBase

	resourceType string
	dryRun       bool

	out cmd.Output
}

func newCleanupSourceCommand() cmd.Command {
	return &cleanupSourceCommand{}
}

// Info is part of the cmd.Command interface.
func (c *cleanupSourceCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:     "cleanup-source",
		Args:     "<resource-type>",
		Purpose:  "delete migrated resources from the source cloud",
		Doc:      cleanupSourceDoc,
		Examples: "    sunbeam-migrate cleanup-source image --dry-run\n",
	}
}

// SetFlags is part of the cmd.Command interface.
func (c *cleanupSourceCommand) SetFlags(f *gnuflag.FlagSet) {
	c.migrateCommandBase.SetFlags(f)
	f.BoolVar(&c.dryRun, "dry-run", false, "Only report what would be deleted")
	c.out.AddFlags(f, "yaml", outputFormatters())
}

// Init is part of the cmd.Command interface.
func (c *cleanupSourceCommand) Init(args []string) error {
	if len(args) < 1 {
		return errors.New("resource type required")
	}
	c.resourceType = args[0]
	return cmd.CheckEmpty(args[1:])
}

// Run is part of the cmd.Command interface.
func (c *cleanupSourceCommand) Run(ctx *cmd.Context) error {
	runCtx := context.Background()
	engine, err := c.newEngine(runCtx)
	if err != nil {
		return errors.Trace(err)
	}
	summary, err := engine.CleanupSource(runCtx, c.resourceType, c.dryRun)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.out.Write(ctx, summary))
}

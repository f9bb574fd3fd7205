// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"context"

	"github.com/juju/cmd/v4"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
)

const startDoc = `
Migrate a single resource from the source cloud to the destination
cloud. If a completed migration already exists for the resource, the
command reports it as skipped and does nothing.

With --dry-run the migration is only simulated: feasibility is checked
against both clouds but nothing is created and no record is stored.

With --cleanup-source the source resource is deleted after a
successful migration.
`

type startCommand struct {
	migrateCommandBase

	resourceType string
	resourceID   string

	dryRun        bool
	cleanupSource bool

	out cmd.Output
}

func newStartCommand() cmd.Command {
	return &startCommand{}
}

// Info is part of the cmd.Command interface.
func (c *startCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:     "start",
		Args:     "<resource-type> <resource-id>",
		Purpose:  "migrate a single resource",
		Doc:      startDoc,
		Examples: "    sunbeam-migrate start image 1b0c1b1a-4b4b-4c9e-93c4-57d5c4d36f31\n",
	}
}

// SetFlags is part of the cmd.Command interface.
func (c *startCommand) SetFlags(f *gnuflag.FlagSet) {
	c.migrateCommandBase.SetFlags(f)
	f.BoolVar(&c.dryRun, "dry-run", false, "Simulate the migration without changing anything")
	f.BoolVar(&c.cleanupSource, "cleanup-source", false, "Delete the source resource after a successful migration")
	c.out.AddFlags(f, "yaml", outputFormatters())
}

// Init is part of the cmd.Command interface.
func (c *startCommand) Init(args []string) error {
	if len(args) < 2 {
		return errors.New("resource type and resource id required")
	}
	c.resourceType, c.resourceID = args[0], args[1]
	return cmd.CheckEmpty(args[2:])
}

// Run is part of the cmd.Command interface.
func (c *startCommand) Run(ctx *cmd.Context) error {
	runCtx := context.Background()
	engine, err := c.newEngine(runCtx)
	if err != nil {
		return errors.Trace(err)
	}
	outcome, err := engine.Migrate(runCtx, c.resourceType, c.resourceID, c.dryRun, c.cleanupSource)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.out.Write(ctx, outcome))
}

// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"context"

	"github.com/juju/cmd/v4"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	"github.com/canonical/sunbeam-migrate/domain/migration"
)

const listDoc = `
List migration records, ordered by creation time. Records archived by
the delete command are hidden unless --include-archived or --archived
is given.
`

type listCommand struct {
	migrateCommandBase

	service         string
	resourceType    string
	status          string
	sourceID        string
	archived        bool
	includeArchived bool

	out cmd.Output
}

func newListCommand() cmd.Command {
	return &listCommand{}
}

// Info is part of the cmd.Command interface.
func (c *listCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "list",
		Purpose: "list migration records",
		Doc:     listDoc,
		Aliases: []string{"list-migrations"},
	}
}

// SetFlags is part of the cmd.Command interface.
func (c *listCommand) SetFlags(f *gnuflag.FlagSet) {
	c.migrateCommandBase.SetFlags(f)
	f.StringVar(&c.service, "service", "", "Only records for this service")
	f.StringVar(&c.resourceType, "resource-type", "", "Only records for this resource type")
	f.StringVar(&c.status, "status", "", "Only records with this status")
	f.StringVar(&c.sourceID, "source-id", "", "Only records for this source resource")
	f.BoolVar(&c.archived, "archived", false, "Only archived records")
	f.BoolVar(&c.includeArchived, "include-archived", false, "Include archived records")
	c.out.AddFlags(f, "tabular", recordFormatters())
}

// Init is part of the cmd.Command interface.
func (c *listCommand) Init(args []string) error {
	if c.status != "" {
		if _, err := coremigration.ParseStatus(c.status); err != nil {
			return errors.Trace(err)
		}
	}
	return cmd.CheckEmpty(args)
}

// Run is part of the cmd.Command interface.
func (c *listCommand) Run(ctx *cmd.Context) error {
	runCtx := context.Background()
	svc, err := c.newStoreService(runCtx)
	if err != nil {
		return errors.Trace(err)
	}
	records, err := svc.List(runCtx, migration.RecordFilter{
		Service:         c.service,
		ResourceType:    c.resourceType,
		Status:          coremigration.Status(c.status),
		SourceID:        c.sourceID,
		Archived:        c.archived,
		IncludeArchived: c.includeArchived,
	})
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.out.Write(ctx, records))
}

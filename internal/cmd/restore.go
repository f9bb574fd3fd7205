// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"context"
	"fmt"

	"github.com/juju/cmd/v4"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	"github.com/canonical/sunbeam-migrate/domain/migration"
)

const restoreDoc = `
Restore archived migration records matching the filters, making them
visible to listings and the idempotency check again. Restoring a
completed record fails if another live completed record exists for the
same resource and destination cloud.

At least one filter is required; pass --all to restore every archived
record.
`

type restoreCommand struct {
	migrateCommandBase

	uuid         string
	service      string
	resourceType string
	status       string
	sourceID     string
	all          bool
}

func newRestoreCommand() cmd.Command {
	return &restoreCommand{}
}

// Info is part of the cmd.Command interface.
func (c *restoreCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "restore",
		Purpose: "restore archived migration records",
		Doc:     restoreDoc,
		Aliases: []string{"restore-migrations"},
	}
}

// SetFlags is part of the cmd.Command interface.
func (c *restoreCommand) SetFlags(f *gnuflag.FlagSet) {
	c.migrateCommandBase.SetFlags(f)
	f.StringVar(&c.uuid, "uuid", "", "Only the record with this uuid")
	f.StringVar(&c.service, "service", "", "Only records for this service")
	f.StringVar(&c.resourceType, "resource-type", "", "Only records for this resource type")
	f.StringVar(&c.status, "status", "", "Only records with this status")
	f.StringVar(&c.sourceID, "source-id", "", "Only records for this source resource")
	f.BoolVar(&c.all, "all", false, "Restore every archived record")
}

// Init is part of the cmd.Command interface.
func (c *restoreCommand) Init(args []string) error {
	if err := cmd.CheckEmpty(args); err != nil {
		return errors.Trace(err)
	}
	if c.status != "" {
		if _, err := coremigration.ParseStatus(c.status); err != nil {
			return errors.Trace(err)
		}
	}
	if c.recordFilter().Empty() && !c.all {
		return errors.New("no filters specified, use --all to restore every archived record")
	}
	return nil
}

func (c *restoreCommand) recordFilter() migration.RecordFilter {
	return migration.RecordFilter{
		UUID:         c.uuid,
		Service:      c.service,
		ResourceType: c.resourceType,
		Status:       coremigration.Status(c.status),
		SourceID:     c.sourceID,
	}
}

// Run is part of the cmd.Command interface.
func (c *restoreCommand) Run(ctx *cmd.Context) error {
	runCtx := context.Background()
	svc, err := c.newStoreService(runCtx)
	if err != nil {
		return errors.Trace(err)
	}
	n, err := svc.Restore(runCtx, c.recordFilter())
	if err != nil {
		return errors.Trace(err)
	}
	fmt.Fprintf(ctx.Stdout, "restored %d migration record(s)\n", n)
	return nil
}

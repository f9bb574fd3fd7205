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

const deleteDoc = `
Delete migration records matching the filters. By default records are
archived (soft deleted): they disappear from listings and from the
idempotency check, and can be brought back with restore. With --hard
the records are removed permanently.

Deleting a completed record makes the engine willing to migrate the
resource again. At least one filter is required; pass --all to delete
every record.
`

type deleteCommand struct {
	migrateCommandBase

	uuid         string
	service      string
	resourceType string
	status       string
	sourceID     string
	all          bool
	hard         bool
}

func newDeleteCommand() cmd.Command {
	return &deleteCommand{}
}

// Info is part of the cmd.Command interface.
func (c *deleteCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "delete",
		Purpose: "delete migration records",
		Doc:     deleteDoc,
		Aliases: []string{"delete-migrations"},
	}
}

// SetFlags is part of the cmd.Command interface.
func (c *deleteCommand) SetFlags(f *gnuflag.FlagSet) {
	c.migrateCommandBase.SetFlags(f)
	f.StringVar(&c.uuid, "uuid", "", "Only the record with this uuid")
	f.StringVar(&c.service, "service", "", "Only records for this service")
	f.StringVar(&c.resourceType, "resource-type", "", "Only records for this resource type")
	f.StringVar(&c.status, "status", "", "Only records with this status")
	f.StringVar(&c.sourceID, "source-id", "", "Only records for this source resource")
	f.BoolVar(&c.all, "all", false, "Delete every record")
	f.BoolVar(&c.hard, "hard", false, "Remove records permanently instead of archiving")
}

// Init is part of the cmd.Command interface.
func (c *deleteCommand) Init(args []string) error {
	if err := cmd.CheckEmpty(args); err != nil {
		return errors.Trace(err)
	}
	if c.status != "" {
		if _, err := coremigration.ParseStatus(c.status); err != nil {
			return errors.Trace(err)
		}
	}
	if c.recordFilter().Empty() && !c.all {
		return errors.New("no filters specified, use --all to delete every record")
	}
	return nil
}

func (c *deleteCommand) recordFilter() migration.RecordFilter {
	return migration.RecordFilter{
		UUID:         c.uuid,
		Service:      c.service,
		ResourceType: c.resourceType,
		Status:       coremigration.Status(c.status),
		SourceID:     c.sourceID,
	}
}

// Run is part of the cmd.Command interface.
func (c *deleteCommand) Run(ctx *cmd.Context) error {
	runCtx := context.Background()
	svc, err := c.newStoreService(runCtx)
	if err != nil {
		return errors.Trace(err)
	}
	var n int
	if c.hard {
		n, err = svc.Delete(runCtx, c.recordFilter())
	} else {
		n, err = svc.Archive(runCtx, c.recordFilter())
	}
	if err != nil {
		return errors.Trace(err)
	}
	verb := "archived"
	if c.hard {
		verb = "deleted"
	}
	fmt.Fprintf(ctx.Stdout, "%s %d migration record(s)\n", verb, n)
	return nil
}

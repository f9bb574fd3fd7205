// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"context"

	"github.com/juju/cmd/v4"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
)

type showCommand struct {
	migrateCommandBase

	uuid string
	out  cmd.Output
}

func newShowCommand() cmd.Command {
	return &showCommand{}
}

// Info is part of the cmd.Command interface.
func (c *showCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "show",
		Args:    "<uuid>",
		Purpose: "show one migration record",
		Doc:     "Show the full details of a single migration record.",
	}
}

// SetFlags is part of the cmd.Command interface.
func (c *showCommand) SetFlags(f *gnuflag.FlagSet) {
	c.migrateCommandBase.SetFlags(f)
	c.out.AddFlags(f, "yaml", outputFormatters())
}

// Init is part of the cmd.Command interface.
func (c *showCommand) Init(args []string) error {
	if len(args) < 1 {
		return errors.New("migration uuid required")
	}
	c.uuid = args[0]
	return cmd.CheckEmpty(args[1:])
}

// Run is part of the cmd.Command interface.
func (c *showCommand) Run(ctx *cmd.Context) error {
	runCtx := context.Background()
	svc, err := c.newStoreService(runCtx)
	if err != nil {
		return errors.Trace(err)
	}
	record, err := svc.Show(runCtx, c.uuid)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.out.Write(ctx, record))
}

// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"github.com/juju/cmd/v4"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
)

const capabilitiesDoc = `
Show the registered resource handlers and their capability metadata:
the owning service, the readiness level (no-op, partial, full), the
member and associated resource types, and the filter keys accepted by
start-batch.
`

type capabilitiesCommand struct {
	migrateCommandBase

	out cmd.Output
}

func newCapabilitiesCommand() cmd.Command {
	return &capabilitiesCommand{}
}

// Info is part of the cmd.Command interface.
func (c *capabilitiesCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "capabilities",
		Purpose: "show supported resource types",
		Doc:     capabilitiesDoc,
	}
}

// SetFlags is part of the cmd.Command interface.
func (c *capabilitiesCommand) SetFlags(f *gnuflag.FlagSet) {
	c.migrateCommandBase.SetFlags(f)
	c.out.AddFlags(f, "tabular", capabilityFormatters())
}

// Init is part of the cmd.Command interface.
func (c *capabilitiesCommand) Init(args []string) error {
	return cmd.CheckEmpty(args)
}

// Run is part of the cmd.Command interface. Capability metadata is
// static, so no configuration or cloud access is needed.
func (c *capabilitiesCommand) Run(ctx *cmd.Context) error {
	registry, err := newRegistry(nil, nil, nil)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.out.Write(ctx, registry.Capabilities()))
}

// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package cmd implements the sunbeam-migrate command line. Commands
// parse flags, assemble the engine from the configuration, and render
// the structured outcomes; all migration semantics live in the domain
// packages.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/juju/cmd/v4"
	"github.com/juju/loggo/v2"
)

var logger = loggo.GetLogger("sunbeammigrate.cmd")

const migrateDoc = `
sunbeam-migrate moves resources (images, networks, keypairs, ...) from
one OpenStack cloud to another, tracking each migration in a local
database so runs are resumable and idempotent: a resource with a
completed migration record is never migrated twice to the same
destination cloud.

The tool is primarily designed to assist the migration from Charmed
OpenStack to Canonical OpenStack (Sunbeam).

Cloud connection details are read from a YAML configuration file,
given with --config or the SUNBEAM_MIGRATE_CONFIG environment
variable.
`

// NewSuperCommand creates the sunbeam-migrate supercommand and
// registers its subcommands.
func NewSuperCommand() cmd.Command {
	migrateCmd := cmd.NewSuperCommand(cmd.SuperCommandParams{
		Name:    "sunbeam-migrate",
		Doc:     strings.TrimSpace(migrateDoc),
		Purpose: "migrate resources between OpenStack clouds",
		Log:     &cmd.Log{},
	})
	migrateCmd.Register(newStartCommand())
	migrateCmd.Register(newStartBatchCommand())
	migrateCmd.Register(newCleanupSourceCommand())
	migrateCmd.Register(newListCommand())
	migrateCmd.Register(newShowCommand())
	migrateCmd.Register(newCapabilitiesCommand())
	migrateCmd.Register(newDeleteCommand())
	migrateCmd.Register(newRestoreCommand())
	return migrateCmd
}

// Main is the testable entry point: it runs the supercommand with the
// given arguments and returns the process exit code.
func Main(args []string) int {
	ctx, err := cmd.DefaultContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	return cmd.Main(NewSuperCommand(), ctx, args[1:])
}

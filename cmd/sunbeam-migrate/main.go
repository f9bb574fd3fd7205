// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// sunbeam-migrate migrates resources between OpenStack clouds.
package main

import (
	"os"

	"github.com/canonical/sunbeam-migrate/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}

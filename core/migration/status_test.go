// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package migration_test

import (
	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/canonical/sunbeam-migrate/core/migration"
)

type statusSuite struct{}

var _ = gc.Suite(&statusSuite{})

func (s *statusSuite) TestParseStatus(c *gc.C) {
	for _, want := range []migration.Status{
		migration.StatusPending,
		migration.StatusInProgress,
		migration.StatusCompleted,
		migration.StatusFailed,
	} {
		got, err := migration.ParseStatus(string(want))
		c.Assert(err, jc.ErrorIsNil)
		c.Check(got, gc.Equals, want)
	}
}

func (s *statusSuite) TestParseStatusUnknown(c *gc.C) {
	_, err := migration.ParseStatus("cancelled")
	c.Assert(err, jc.ErrorIs, errors.NotValid)
}

func (s *statusSuite) TestTerminal(c *gc.C) {
	c.Check(migration.StatusPending.Terminal(), jc.IsFalse)
	c.Check(migration.StatusInProgress.Terminal(), jc.IsFalse)
	c.Check(migration.StatusCompleted.Terminal(), jc.IsTrue)
	c.Check(migration.StatusFailed.Terminal(), jc.IsTrue)
}

// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"github.com/juju/cmd/v4/cmdtesting"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
)

type commandSuite struct{}

var _ = gc.Suite(&commandSuite{})

func (s *commandSuite) TestStartInit(c *gc.C) {
	command := &startCommand{}
	err := cmdtesting.InitCommand(command, []string{"image", "img-1"})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(command.resourceType, gc.Equals, "image")
	c.Check(command.resourceID, gc.Equals, "img-1")
}

func (s *commandSuite) TestStartInitMissingArgs(c *gc.C) {
	err := cmdtesting.InitCommand(&startCommand{}, []string{"image"})
	c.Assert(err, gc.ErrorMatches, "resource type and resource id required")
}

func (s *commandSuite) TestStartInitExtraArgs(c *gc.C) {
	err := cmdtesting.InitCommand(&startCommand{}, []string{"image", "img-1", "img-2"})
	c.Assert(err, gc.ErrorMatches, `unrecognized args: \["img-2"\]`)
}

func (s *commandSuite) TestStartFlags(c *gc.C) {
	command := &startCommand{}
	err := cmdtesting.InitCommand(command, []string{
		"--dry-run", "--cleanup-source", "image", "img-1",
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(command.dryRun, jc.IsTrue)
	c.Check(command.cleanupSource, jc.IsTrue)
}

func (s *commandSuite) TestStartBatchInit(c *gc.C) {
	command := &startBatchCommand{}
	err := cmdtesting.InitCommand(command, []string{
		"image", "--filter", "owner-id:abc,name:web", "--filter", "visibility:private",
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(command.resourceType, gc.Equals, "image")
	c.Check(command.filter, jc.DeepEquals, coremigration.Filter{
		"owner-id":   "abc",
		"name":       "web",
		"visibility": "private",
	})
}

func (s *commandSuite) TestStartBatchInitAll(c *gc.C) {
	command := &startBatchCommand{}
	err := cmdtesting.InitCommand(command, []string{"image", "--all"})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(command.filter, gc.HasLen, 0)
}

func (s *commandSuite) TestStartBatchInitNoFilters(c *gc.C) {
	err := cmdtesting.InitCommand(&startBatchCommand{}, []string{"image"})
	c.Assert(err, gc.ErrorMatches, "no filters specified, use --filter or --all")
}

func (s *commandSuite) TestStartBatchInitAllAndFilter(c *gc.C) {
	err := cmdtesting.InitCommand(&startBatchCommand{}, []string{
		"image", "--all", "--filter", "owner-id:abc",
	})
	c.Assert(err, gc.ErrorMatches, "--all cannot be combined with --filter")
}

func (s *commandSuite) TestStartBatchInitBadFilter(c *gc.C) {
	err := cmdtesting.InitCommand(&startBatchCommand{}, []string{
		"image", "--filter", "owner-id",
	})
	c.Assert(err, gc.ErrorMatches, `invalid resource filter "owner-id", expecting "key:value"`)
}

func (s *commandSuite) TestDeleteInitRequiresFilter(c *gc.C) {
	err := cmdtesting.InitCommand(&deleteCommand{}, nil)
	c.Assert(err, gc.ErrorMatches, "no filters specified, use --all to delete every record")
}

func (s *commandSuite) TestDeleteInitAll(c *gc.C) {
	err := cmdtesting.InitCommand(&deleteCommand{}, []string{"--all", "--hard"})
	c.Assert(err, jc.ErrorIsNil)
}

func (s *commandSuite) TestDeleteInitBadStatus(c *gc.C) {
	err := cmdtesting.InitCommand(&deleteCommand{}, []string{"--status", "cancelled"})
	c.Assert(err, gc.ErrorMatches, `status "cancelled" not valid`)
}

func (s *commandSuite) TestDeleteInitFilter(c *gc.C) {
	command := &deleteCommand{}
	err := cmdtesting.InitCommand(command, []string{"--service", "glance", "--status", "failed"})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(command.recordFilter().Service, gc.Equals, "glance")
	c.Check(command.recordFilter().Status, gc.Equals, coremigration.StatusFailed)
}

func (s *commandSuite) TestCapabilitiesRun(c *gc.C) {
	ctx, err := cmdtesting.RunCommand(c, newCapabilitiesCommand())
	c.Assert(err, jc.ErrorIsNil)

	output := cmdtesting.Stdout(ctx)
	c.Check(output, gc.Matches, "(?s).*SERVICE.*")
	c.Check(output, gc.Matches, "(?s).*designate.*zone.*")
	c.Check(output, gc.Matches, "(?s).*glance.*image.*")
	c.Check(output, gc.Matches, "(?s).*neutron.*network.*")
	c.Check(output, gc.Matches, "(?s).*nova.*keypair.*")
	c.Check(output, gc.Matches, "(?s).*keystone.*project.*")
}

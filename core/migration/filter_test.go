// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package migration_test

import (
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/canonical/sunbeam-migrate/core/migration"
)

type filterSuite struct{}

var _ = gc.Suite(&filterSuite{})

func (s *filterSuite) TestParseSinglePair(c *gc.C) {
	filter, err := migration.ParseFilter("owner-id:abc123")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(filter, jc.DeepEquals, migration.Filter{"owner-id": "abc123"})
}

func (s *filterSuite) TestParseMultiplePairs(c *gc.C) {
	filter, err := migration.ParseFilter("owner-id:abc123,name:web")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(filter, jc.DeepEquals, migration.Filter{
		"owner-id": "abc123",
		"name":     "web",
	})
}

func (s *filterSuite) TestParseRepeatedExpressions(c *gc.C) {
	filter, err := migration.ParseFilter("owner-id:abc123", "name:web")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(filter, jc.DeepEquals, migration.Filter{
		"owner-id": "abc123",
		"name":     "web",
	})
}

func (s *filterSuite) TestParseLaterValueWins(c *gc.C) {
	filter, err := migration.ParseFilter("name:one", "name:two")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(filter, jc.DeepEquals, migration.Filter{"name": "two"})
}

func (s *filterSuite) TestParseValueMayContainColon(c *gc.C) {
	filter, err := migration.ParseFilter("auth-url:https://keystone:5000")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(filter, jc.DeepEquals, migration.Filter{"auth-url": "https://keystone:5000"})
}

func (s *filterSuite) TestParseMissingValueSeparator(c *gc.C) {
	_, err := migration.ParseFilter("owner-id")
	c.Assert(err, gc.ErrorMatches, `invalid resource filter "owner-id", expecting "key:value"`)
}

func (s *filterSuite) TestParseEmptyKey(c *gc.C) {
	_, err := migration.ParseFilter(":value")
	c.Assert(err, gc.ErrorMatches, `invalid resource filter ":value", expecting "key:value"`)
}

func (s *filterSuite) TestParseEmpty(c *gc.C) {
	filter, err := migration.ParseFilter()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(filter, gc.HasLen, 0)
}

func (s *filterSuite) TestKeysSorted(c *gc.C) {
	filter := migration.Filter{"b": "2", "a": "1", "c": "3"}
	c.Assert(filter.Keys(), jc.DeepEquals, []string{"a", "b", "c"})
}

func (s *filterSuite) TestString(c *gc.C) {
	filter := migration.Filter{"owner-id": "abc", "name": "web"}
	c.Assert(filter.String(), gc.Equals, "name:web,owner-id:abc")
}

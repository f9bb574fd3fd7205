// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package handlers_test

import (
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	migrationerrors "github.com/canonical/sunbeam-migrate/domain/migration/errors"
	"github.com/canonical/sunbeam-migrate/internal/handlers"
)

type filtersSuite struct{}

var _ = gc.Suite(&filtersSuite{})

func (s *filtersSuite) TestValidateFilter(c *gc.C) {
	info := coremigration.ResourceTypeDescriptor{
		Service:         "glance",
		ResourceType:    "image",
		BatchFilterKeys: []string{"owner-id", "name"},
	}

	err := handlers.ValidateFilter(coremigration.Filter{"owner-id": "abc", "name": "web"}, info)
	c.Assert(err, jc.ErrorIsNil)

	err = handlers.ValidateFilter(coremigration.Filter{"visibility": "private"}, info)
	c.Assert(err, jc.ErrorIs, migrationerrors.InvalidFilter)
	c.Assert(err, gc.ErrorMatches,
		`key "visibility" is not supported by glance image handler, supported keys: \[owner-id name\]: invalid resource filter`)
}

func (s *filtersSuite) TestValidateFilterEmpty(c *gc.C) {
	info := coremigration.ResourceTypeDescriptor{
		Service:      "nova",
		ResourceType: "keypair",
	}
	err := handlers.ValidateFilter(coremigration.Filter{}, info)
	c.Assert(err, jc.ErrorIsNil)
}

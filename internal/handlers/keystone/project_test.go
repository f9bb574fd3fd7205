// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package keystone_test

import (
	"context"
	"net/url"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	"github.com/canonical/sunbeam-migrate/internal/handlers/keystone"
	"github.com/canonical/sunbeam-migrate/internal/openstack"
)

type projectSuite struct {
	source      *fakeProjectAPI
	destination *fakeProjectAPI
	handler     *keystone.ProjectHandler
}

var _ = gc.Suite(&projectSuite{})

func (s *projectSuite) SetUpTest(c *gc.C) {
	s.source = &fakeProjectAPI{}
	s.destination = &fakeProjectAPI{}
	s.handler = keystone.NewProjectHandler(s.source, s.destination)
}

type fakeProjectAPI struct {
	testing.Stub

	projects []openstack.Project
}

func (a *fakeProjectAPI) ListProjects(params url.Values) ([]openstack.Project, error) {
	a.MethodCall(a, "ListProjects", params)
	if err := a.NextErr(); err != nil {
		return nil, err
	}
	var projects []openstack.Project
	for _, project := range a.projects {
		if name := params.Get("name"); name != "" && project.Name != name {
			continue
		}
		projects = append(projects, project)
	}
	return projects, nil
}

func (a *fakeProjectAPI) GetProject(id string) (openstack.Project, error) {
	a.MethodCall(a, "GetProject", id)
	if err := a.NextErr(); err != nil {
		return openstack.Project{}, err
	}
	for _, project := range a.projects {
		if project.ID == id {
			return project, nil
		}
	}
	return openstack.Project{}, errors.NotFoundf("project %q", id)
}

func (s *projectSuite) TestInfo(c *gc.C) {
	info := s.handler.Info()
	c.Check(info.Service, gc.Equals, "keystone")
	c.Check(info.ResourceType, gc.Equals, "project")
	c.Check(info.Readiness, gc.Equals, coremigration.ReadinessNoOp)
}

func (s *projectSuite) TestMigrateMapsByName(c *gc.C) {
	s.source.projects = []openstack.Project{{ID: "src-1", Name: "tenant-a"}}
	s.destination.projects = []openstack.Project{
		{ID: "dst-1", Name: "tenant-a"},
		{ID: "dst-2", Name: "tenant-b"},
	}

	destinationID, err := s.handler.Migrate(context.Background(), "src-1", false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(destinationID, gc.Equals, "dst-1")
}

func (s *projectSuite) TestMigrateNoMatch(c *gc.C) {
	s.source.projects = []openstack.Project{{ID: "src-1", Name: "tenant-a"}}

	_, err := s.handler.Migrate(context.Background(), "src-1", false)
	c.Assert(err, jc.ErrorIs, errors.NotFound)
}

func (s *projectSuite) TestMigrateAmbiguous(c *gc.C) {
	s.source.projects = []openstack.Project{{ID: "src-1", Name: "tenant-a"}}
	s.destination.projects = []openstack.Project{
		{ID: "dst-1", Name: "tenant-a"},
		{ID: "dst-2", Name: "tenant-a"},
	}

	_, err := s.handler.Migrate(context.Background(), "src-1", false)
	c.Assert(err, gc.ErrorMatches, `project name "tenant-a" is ambiguous on destination cloud \(2 matches\)`)
}

func (s *projectSuite) TestMigrateDryRun(c *gc.C) {
	s.source.projects = []openstack.Project{{ID: "src-1", Name: "tenant-a"}}
	s.destination.projects = []openstack.Project{{ID: "dst-1", Name: "tenant-a"}}

	destinationID, err := s.handler.Migrate(context.Background(), "src-1", true)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(destinationID, gc.Equals, "")
}

func (s *projectSuite) TestDeleteSourceNotSupported(c *gc.C) {
	err := s.handler.DeleteSource(context.Background(), "src-1", false)
	c.Assert(err, jc.ErrorIs, errors.NotSupported)
}

// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package designate_test

import (
	"context"
	"net/url"

	gooseerrors "github.com/go-goose/goose/v5/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	migrationerrors "github.com/canonical/sunbeam-migrate/domain/migration/errors"
	"github.com/canonical/sunbeam-migrate/internal/handlers/designate"
	"github.com/canonical/sunbeam-migrate/internal/openstack"
)

type zoneSuite struct {
	source      *fakeZoneAPI
	destination *fakeZoneAPI
	handler     *designate.ZoneHandler
}

var _ = gc.Suite(&zoneSuite{})

func (s *zoneSuite) SetUpTest(c *gc.C) {
	s.source = &fakeZoneAPI{zones: make(map[string]openstack.Zone)}
	s.destination = &fakeZoneAPI{zones: make(map[string]openstack.Zone)}
	s.handler = designate.NewZoneHandler(s.source, s.destination)
}

type fakeZoneAPI struct {
	testing.Stub

	zones map[string]openstack.Zone
}

func (a *fakeZoneAPI) ListZones(params url.Values) ([]openstack.Zone, error) {
	a.MethodCall(a, "ListZones", params)
	if err := a.NextErr(); err != nil {
		return nil, err
	}
	var zones []openstack.Zone
	for _, zone := range a.zones {
		zones = append(zones, zone)
	}
	return zones, nil
}

func (a *fakeZoneAPI) GetZone(id string) (openstack.Zone, error) {
	a.MethodCall(a, "GetZone", id)
	if err := a.NextErr(); err != nil {
		return openstack.Zone{}, err
	}
	zone, ok := a.zones[id]
	if !ok {
		return openstack.Zone{}, gooseerrors.NewNotFoundf(nil, nil, "zone %q", id)
	}
	return zone, nil
}

func (a *fakeZoneAPI) CreateZone(opts openstack.ZoneOpts) (openstack.Zone, error) {
	a.MethodCall(a, "CreateZone", opts)
	if err := a.NextErr(); err != nil {
		return openstack.Zone{}, err
	}
	zone := openstack.Zone{
		ID:    "created-" + opts.Name,
		Name:  opts.Name,
		Email: opts.Email,
		TTL:   opts.TTL,
		Type:  opts.Type,
	}
	a.zones[zone.ID] = zone
	return zone, nil
}

func (a *fakeZoneAPI) DeleteZone(id string) error {
	a.MethodCall(a, "DeleteZone", id)
	if err := a.NextErr(); err != nil {
		return err
	}
	if _, ok := a.zones[id]; !ok {
		return gooseerrors.NewNotFoundf(nil, nil, "zone %q", id)
	}
	delete(a.zones, id)
	return nil
}

func (s *zoneSuite) TestInfo(c *gc.C) {
	info := s.handler.Info()
	c.Check(info.Service, gc.Equals, "designate")
	c.Check(info.ResourceType, gc.Equals, "zone")
	c.Check(info.Readiness, gc.Equals, coremigration.ReadinessPartial)
	c.Check(info.BatchFilterKeys, jc.DeepEquals, []string{"name"})
}

func (s *zoneSuite) TestListCandidates(c *gc.C) {
	s.source.zones["zone-1"] = openstack.Zone{ID: "zone-1", Name: "example.org."}
	s.source.zones["zone-2"] = openstack.Zone{ID: "zone-2", Name: "example.net."}

	ids, err := s.handler.ListCandidates(context.Background(), coremigration.Filter{})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(ids, jc.SameContents, []string{"zone-1", "zone-2"})
}

func (s *zoneSuite) TestListCandidatesNameFilter(c *gc.C) {
	_, err := s.handler.ListCandidates(context.Background(), coremigration.Filter{"name": "example.org."})
	c.Assert(err, jc.ErrorIsNil)

	s.source.CheckCall(c, 0, "ListZones", url.Values{"name": []string{"example.org."}})
}

func (s *zoneSuite) TestListCandidatesUnknownFilterKey(c *gc.C) {
	_, err := s.handler.ListCandidates(context.Background(), coremigration.Filter{"owner-id": "abc"})
	c.Assert(err, jc.ErrorIs, migrationerrors.InvalidFilter)
	s.source.CheckNoCalls(c)
}

func (s *zoneSuite) TestMigrateCopiesZone(c *gc.C) {
	s.source.zones["zone-1"] = openstack.Zone{
		ID:    "zone-1",
		Name:  "example.org.",
		Email: "hostmaster@example.org",
		TTL:   3600,
		Type:  "PRIMARY",
	}

	destinationID, err := s.handler.Migrate(context.Background(), "zone-1", false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(destinationID, gc.Equals, "created-example.org.")

	created := s.destination.zones["created-example.org."]
	c.Check(created.Email, gc.Equals, "hostmaster@example.org")
	c.Check(created.TTL, gc.Equals, 3600)
	c.Check(created.Type, gc.Equals, "PRIMARY")
}

func (s *zoneSuite) TestMigrateDryRun(c *gc.C) {
	s.source.zones["zone-1"] = openstack.Zone{ID: "zone-1", Name: "example.org."}

	destinationID, err := s.handler.Migrate(context.Background(), "zone-1", true)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(destinationID, gc.Equals, "")
	s.destination.CheckNoCalls(c)
}

func (s *zoneSuite) TestMigrateSourceNotFound(c *gc.C) {
	_, err := s.handler.Migrate(context.Background(), "zone-1", false)
	c.Assert(openstack.IsNotFound(err), jc.IsTrue)
}

func (s *zoneSuite) TestDeleteSource(c *gc.C) {
	s.source.zones["zone-1"] = openstack.Zone{ID: "zone-1", Name: "example.org."}

	err := s.handler.DeleteSource(context.Background(), "zone-1", false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.source.zones, gc.HasLen, 0)
}

func (s *zoneSuite) TestDeleteSourceAlreadyGone(c *gc.C) {
	err := s.handler.DeleteSource(context.Background(), "zone-1", false)
	c.Assert(err, jc.ErrorIsNil)
}

func (s *zoneSuite) TestDeleteSourceDryRun(c *gc.C) {
	s.source.zones["zone-1"] = openstack.Zone{ID: "zone-1", Name: "example.org."}

	err := s.handler.DeleteSource(context.Background(), "zone-1", true)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.source.zones, gc.HasLen, 1)
	s.source.CheckNoCalls(c)
}

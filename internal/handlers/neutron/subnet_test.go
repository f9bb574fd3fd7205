// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package neutron_test

import (
	"context"
	"net/url"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	migrationerrors "github.com/canonical/sunbeam-migrate/domain/migration/errors"
	"github.com/canonical/sunbeam-migrate/internal/handlers/neutron"
	"github.com/canonical/sunbeam-migrate/internal/openstack"
)

type subnetSuite struct {
	source      *fakeSubnetAPI
	destination *fakeSubnetAPI
	resolver    *fakeResolver
	handler     *neutron.SubnetHandler
}

var _ = gc.Suite(&subnetSuite{})

func (s *subnetSuite) SetUpTest(c *gc.C) {
	s.source = &fakeSubnetAPI{subnets: make(map[string]openstack.Subnet)}
	s.destination = &fakeSubnetAPI{subnets: make(map[string]openstack.Subnet)}
	s.resolver = &fakeResolver{destinations: make(map[string]string)}
	s.handler = neutron.NewSubnetHandler(s.source, s.destination, s.resolver)
}

// fakeResolver maps "resource-type/source-id" onto destination ids.
type fakeResolver struct {
	destinations map[string]string
}

func (r *fakeResolver) ResolveDestination(ctx context.Context, service, resourceType, sourceID string) (string, error) {
	destinationID, ok := r.destinations[resourceType+"/"+sourceID]
	if !ok {
		return "", migrationerrors.RecordNotFound
	}
	return destinationID, nil
}

type fakeSubnetAPI struct {
	testing.Stub

	subnets map[string]openstack.Subnet
}

func (a *fakeSubnetAPI) ListSubnets(params url.Values) ([]openstack.Subnet, error) {
	a.MethodCall(a, "ListSubnets", params)
	if err := a.NextErr(); err != nil {
		return nil, err
	}
	var subnets []openstack.Subnet
	for _, subnet := range a.subnets {
		subnets = append(subnets, subnet)
	}
	return subnets, nil
}

func (a *fakeSubnetAPI) GetSubnet(id string) (openstack.Subnet, error) {
	a.MethodCall(a, "GetSubnet", id)
	if err := a.NextErr(); err != nil {
		return openstack.Subnet{}, err
	}
	return a.subnets[id], nil
}

func (a *fakeSubnetAPI) CreateSubnet(opts openstack.SubnetOpts) (openstack.Subnet, error) {
	a.MethodCall(a, "CreateSubnet", opts)
	if err := a.NextErr(); err != nil {
		return openstack.Subnet{}, err
	}
	subnet := openstack.Subnet{
		ID:        "created-" + opts.Name,
		NetworkID: opts.NetworkID,
		Name:      opts.Name,
		CIDR:      opts.CIDR,
	}
	a.subnets[subnet.ID] = subnet
	return subnet, nil
}

func (s *subnetSuite) TestInfo(c *gc.C) {
	info := s.handler.Info()
	c.Check(info.Service, gc.Equals, "neutron")
	c.Check(info.ResourceType, gc.Equals, "subnet")
	c.Check(info.AssociatedResourceTypes, jc.DeepEquals, []string{"network"})
	c.Check(info.Readiness, gc.Equals, coremigration.ReadinessPartial)
}

func (s *subnetSuite) TestListCandidatesOwnerFilter(c *gc.C) {
	_, err := s.handler.ListCandidates(context.Background(), coremigration.Filter{"owner-id": "abc"})
	c.Assert(err, jc.ErrorIsNil)

	// Subnet listings key owners on project_id.
	s.source.CheckCall(c, 0, "ListSubnets", url.Values{"project_id": []string{"abc"}})
}

func (s *subnetSuite) TestListCandidatesUnknownFilterKey(c *gc.C) {
	_, err := s.handler.ListCandidates(context.Background(), coremigration.Filter{"cidr": "10.0.0.0/24"})
	c.Assert(err, jc.ErrorIs, migrationerrors.InvalidFilter)
	s.source.CheckNoCalls(c)
}

func (s *subnetSuite) TestMigrateRewiresNetwork(c *gc.C) {
	s.source.subnets["sub-1"] = openstack.Subnet{
		ID:        "sub-1",
		NetworkID: "net-1",
		Name:      "internal",
		CIDR:      "10.0.0.0/24",
		IPVersion: 4,
	}
	s.resolver.destinations["network/net-1"] = "dest-net-1"

	destinationID, err := s.handler.Migrate(context.Background(), "sub-1", false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(destinationID, gc.Equals, "created-internal")

	created := s.destination.subnets["created-internal"]
	c.Check(created.NetworkID, gc.Equals, "dest-net-1")
	c.Check(created.CIDR, gc.Equals, "10.0.0.0/24")
}

func (s *subnetSuite) TestMigrateNetworkNotMigrated(c *gc.C) {
	s.source.subnets["sub-1"] = openstack.Subnet{ID: "sub-1", NetworkID: "net-1"}

	_, err := s.handler.Migrate(context.Background(), "sub-1", false)
	c.Assert(err, gc.ErrorMatches, `no completed migration found for network "net-1": migrate the network first`)
	s.destination.CheckNoCalls(c)
}

func (s *subnetSuite) TestMigrateDryRunStillChecksParent(c *gc.C) {
	s.source.subnets["sub-1"] = openstack.Subnet{ID: "sub-1", NetworkID: "net-1"}

	_, err := s.handler.Migrate(context.Background(), "sub-1", true)
	c.Assert(err, gc.ErrorMatches, `no completed migration found for network "net-1": migrate the network first`)

	s.resolver.destinations["network/net-1"] = "dest-net-1"
	destinationID, err := s.handler.Migrate(context.Background(), "sub-1", true)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(destinationID, gc.Equals, "")
	s.destination.CheckNoCalls(c)
}

func (s *subnetSuite) TestDeleteSourceNotSupported(c *gc.C) {
	err := s.handler.DeleteSource(context.Background(), "sub-1", false)
	c.Assert(err, jc.ErrorIs, errors.NotSupported)
}

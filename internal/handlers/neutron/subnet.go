// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package neutron

import (
	"context"
	"net/url"

	"github.com/juju/errors"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	"github.com/canonical/sunbeam-migrate/internal/handlers"
	"github.com/canonical/sunbeam-migrate/internal/openstack"
)

// SubnetAPI is the slice of the cloud session the subnet handler
// consumes.
type SubnetAPI interface {
	ListSubnets(params url.Values) ([]openstack.Subnet, error)
	GetSubnet(id string) (openstack.Subnet, error)
	CreateSubnet(opts openstack.SubnetOpts) (openstack.Subnet, error)
}

// SubnetHandler migrates Neutron subnets. A subnet references its
// parent network, which must have a completed migration already; the
// handler rewires the reference onto the destination network.
type SubnetHandler struct {
	source      SubnetAPI
	destination SubnetAPI
	resolver    DestinationResolver
}

// NewSubnetHandler returns a subnet migration handler.
func NewSubnetHandler(source, destination SubnetAPI, resolver DestinationResolver) *SubnetHandler {
	return &SubnetHandler{source: source, destination: destination, resolver: resolver}
}

// Info is part of the Handler interface.
func (h *SubnetHandler) Info() coremigration.ResourceTypeDescriptor {
	return coremigration.ResourceTypeDescriptor{
		Service:                 serviceName,
		ResourceType:            "subnet",
		AssociatedResourceTypes: []string{"network"},
		BatchFilterKeys:         []string{FilterOwnerID},
		Readiness:               coremigration.ReadinessPartial,
	}
}

// ListCandidates is part of the Handler interface.
func (h *SubnetHandler) ListCandidates(ctx context.Context, filter coremigration.Filter) ([]string, error) {
	if err := handlers.ValidateFilter(filter, h.Info()); err != nil {
		return nil, errors.Trace(err)
	}
	subnets, err := h.source.ListSubnets(ownerParams(filter, "project_id"))
	if err != nil {
		return nil, errors.Trace(err)
	}
	ids := make([]string, len(subnets))
	for i, subnet := range subnets {
		ids[i] = subnet.ID
	}
	return ids, nil
}

// Migrate is part of the Handler interface.
func (h *SubnetHandler) Migrate(ctx context.Context, sourceID string, dryRun bool) (string, error) {
	subnet, err := h.source.GetSubnet(sourceID)
	if err != nil {
		return "", errors.Trace(err)
	}
	networkID, err := resolveParent(ctx, h.resolver, "network", subnet.NetworkID)
	if err != nil {
		return "", errors.Trace(err)
	}
	if dryRun {
		return "", nil
	}
	created, err := h.destination.CreateSubnet(openstack.SubnetOpts{
		NetworkID:       networkID,
		Name:            subnet.Name,
		Description:     subnet.Description,
		CIDR:            subnet.CIDR,
		IPVersion:       subnet.IPVersion,
		GatewayIP:       subnet.GatewayIP,
		EnableDHCP:      subnet.EnableDHCP,
		AllocationPools: subnet.AllocationPools,
		DNSNameservers:  subnet.DNSNameservers,
		HostRoutes:      subnet.HostRoutes,
	})
	if err != nil {
		return "", errors.Trace(err)
	}
	return created.ID, nil
}

// DeleteSource is part of the Handler interface.
func (h *SubnetHandler) DeleteSource(ctx context.Context, sourceID string, dryRun bool) error {
	return errors.NotSupportedf("deleting source subnets")
}

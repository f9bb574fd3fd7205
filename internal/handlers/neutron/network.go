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

// NetworkAPI is the slice of the cloud session the network handler
// consumes.
type NetworkAPI interface {
	ListNetworks(params url.Values) ([]openstack.Network, error)
	GetNetwork(id string) (openstack.Network, error)
	CreateNetwork(opts openstack.NetworkOpts) (openstack.Network, error)
}

// NetworkHandler migrates Neutron networks. Provider segmentation
// details (vlan ids, physical networks) are deliberately not carried:
// the destination cloud allocates its own.
type NetworkHandler struct {
	source      NetworkAPI
	destination NetworkAPI
}

// NewNetworkHandler returns a network migration handler.
func NewNetworkHandler(source, destination NetworkAPI) *NetworkHandler {
	return &NetworkHandler{source: source, destination: destination}
}

// Info is part of the Handler interface.
func (h *NetworkHandler) Info() coremigration.ResourceTypeDescriptor {
	return coremigration.ResourceTypeDescriptor{
		Service:             serviceName,
		ResourceType:        "network",
		MemberResourceTypes: []string{"subnet"},
		BatchFilterKeys:     []string{FilterOwnerID},
		Readiness:           coremigration.ReadinessPartial,
	}
}

// ListCandidates is part of the Handler interface.
func (h *NetworkHandler) ListCandidates(ctx context.Context, filter coremigration.Filter) ([]string, error) {
	if err := handlers.ValidateFilter(filter, h.Info()); err != nil {
		return nil, errors.Trace(err)
	}
	networks, err := h.source.ListNetworks(ownerParams(filter, "tenant_id"))
	if err != nil {
		return nil, errors.Trace(err)
	}
	ids := make([]string, len(networks))
	for i, network := range networks {
		ids[i] = network.ID
	}
	return ids, nil
}

// Migrate is part of the Handler interface.
func (h *NetworkHandler) Migrate(ctx context.Context, sourceID string, dryRun bool) (string, error) {
	network, err := h.source.GetNetwork(sourceID)
	if err != nil {
		return "", errors.Trace(err)
	}
	if dryRun {
		return "", nil
	}
	created, err := h.destination.CreateNetwork(openstack.NetworkOpts{
		Name:         network.Name,
		Description:  network.Description,
		AdminStateUp: network.AdminStateUp,
		Shared:       network.Shared,
		External:     network.External,
		MTU:          network.MTU,
	})
	if err != nil {
		return "", errors.Trace(err)
	}
	return created.ID, nil
}

// DeleteSource is part of the Handler interface. Deleting a network
// cascades to its subnets and ports on the cloud side, so it is not
// offered until member cleanup is ordered properly.
func (h *NetworkHandler) DeleteSource(ctx context.Context, sourceID string, dryRun bool) error {
	return errors.NotSupportedf("deleting source networks")
}

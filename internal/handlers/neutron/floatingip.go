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

// FloatingIPAPI is the slice of the cloud session the floating IP
// handler consumes.
type FloatingIPAPI interface {
	ListFloatingIPs(params url.Values) ([]openstack.FloatingIP, error)
	GetFloatingIP(id string) (openstack.FloatingIP, error)
	CreateFloatingIP(opts openstack.FloatingIPOpts) (openstack.FloatingIP, error)
	DeleteFloatingIP(id string) error
}

// FloatingIPHandler migrates Neutron floating IPs. The same address is
// requested on the destination pool where possible; port bindings are
// not carried, since the workloads they point at are not migrated by
// this handler.
type FloatingIPHandler struct {
	source      FloatingIPAPI
	destination FloatingIPAPI
	resolver    DestinationResolver
}

// NewFloatingIPHandler returns a floating IP migration handler.
func NewFloatingIPHandler(source, destination FloatingIPAPI, resolver DestinationResolver) *FloatingIPHandler {
	return &FloatingIPHandler{source: source, destination: destination, resolver: resolver}
}

// Info is part of the Handler interface.
func (h *FloatingIPHandler) Info() coremigration.ResourceTypeDescriptor {
	return coremigration.ResourceTypeDescriptor{
		Service:                 serviceName,
		ResourceType:            "floating-ip",
		AssociatedResourceTypes: []string{"network", "subnet"},
		BatchFilterKeys:         []string{FilterOwnerID},
		Readiness:               coremigration.ReadinessPartial,
	}
}

// ListCandidates is part of the Handler interface.
func (h *FloatingIPHandler) ListCandidates(ctx context.Context, filter coremigration.Filter) ([]string, error) {
	if err := handlers.ValidateFilter(filter, h.Info()); err != nil {
		return nil, errors.Trace(err)
	}
	fips, err := h.source.ListFloatingIPs(ownerParams(filter, "project_id"))
	if err != nil {
		return nil, errors.Trace(err)
	}
	ids := make([]string, len(fips))
	for i, fip := range fips {
		ids[i] = fip.ID
	}
	return ids, nil
}

// Migrate is part of the Handler interface.
func (h *FloatingIPHandler) Migrate(ctx context.Context, sourceID string, dryRun bool) (string, error) {
	fip, err := h.source.GetFloatingIP(sourceID)
	if err != nil {
		return "", errors.Trace(err)
	}
	networkID, err := resolveParent(ctx, h.resolver, "network", fip.FloatingNetworkID)
	if err != nil {
		return "", errors.Trace(err)
	}
	if dryRun {
		return "", nil
	}
	created, err := h.destination.CreateFloatingIP(openstack.FloatingIPOpts{
		FloatingNetworkID: networkID,
		FloatingIPAddress: fip.FloatingIPAddress,
		Description:       fip.Description,
	})
	if err != nil {
		return "", errors.Trace(err)
	}
	return created.ID, nil
}

// DeleteSource is part of the Handler interface.
func (h *FloatingIPHandler) DeleteSource(ctx context.Context, sourceID string, dryRun bool) error {
	if dryRun {
		logger.Infof("DRY-RUN: would delete source floating ip %s", sourceID)
		return nil
	}
	err := h.source.DeleteFloatingIP(sourceID)
	if err != nil && !openstack.IsNotFound(err) {
		return errors.Trace(err)
	}
	return nil
}

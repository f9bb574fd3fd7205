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

// RouterAPI is the slice of the cloud session the router handler
// consumes.
type RouterAPI interface {
	ListRouters(params url.Values) ([]openstack.Router, error)
	GetRouter(id string) (openstack.Router, error)
	CreateRouter(opts openstack.RouterOpts) (openstack.Router, error)
	DeleteRouter(id string) error
}

// RouterHandler migrates Neutron routers. Only the router itself and
// its external gateway are carried; interface ports to internal
// subnets are not re-attached automatically.
type RouterHandler struct {
	source      RouterAPI
	destination RouterAPI
	resolver    DestinationResolver
}

// NewRouterHandler returns a router migration handler.
func NewRouterHandler(source, destination RouterAPI, resolver DestinationResolver) *RouterHandler {
	return &RouterHandler{source: source, destination: destination, resolver: resolver}
}

// Info is part of the Handler interface.
func (h *RouterHandler) Info() coremigration.ResourceTypeDescriptor {
	return coremigration.ResourceTypeDescriptor{
		Service:                 serviceName,
		ResourceType:            "router",
		AssociatedResourceTypes: []string{"network"},
		BatchFilterKeys:         []string{FilterOwnerID},
		Readiness:               coremigration.ReadinessPartial,
	}
}

// ListCandidates is part of the Handler interface.
func (h *RouterHandler) ListCandidates(ctx context.Context, filter coremigration.Filter) ([]string, error) {
	if err := handlers.ValidateFilter(filter, h.Info()); err != nil {
		return nil, errors.Trace(err)
	}
	routers, err := h.source.ListRouters(ownerParams(filter, "project_id"))
	if err != nil {
		return nil, errors.Trace(err)
	}
	ids := make([]string, len(routers))
	for i, router := range routers {
		ids[i] = router.ID
	}
	return ids, nil
}

// Migrate is part of the Handler interface.
func (h *RouterHandler) Migrate(ctx context.Context, sourceID string, dryRun bool) (string, error) {
	router, err := h.source.GetRouter(sourceID)
	if err != nil {
		return "", errors.Trace(err)
	}

	var gateway *openstack.ExternalGatewayInfo
	if router.ExternalGatewayInfo != nil {
		networkID, err := resolveParent(ctx, h.resolver, "network", router.ExternalGatewayInfo.NetworkID)
		if err != nil {
			return "", errors.Trace(err)
		}
		gateway = &openstack.ExternalGatewayInfo{
			NetworkID:  networkID,
			EnableSNAT: router.ExternalGatewayInfo.EnableSNAT,
		}
	}
	if dryRun {
		return "", nil
	}
	created, err := h.destination.CreateRouter(openstack.RouterOpts{
		Name:                router.Name,
		Description:         router.Description,
		AdminStateUp:        router.AdminStateUp,
		ExternalGatewayInfo: gateway,
	})
	if err != nil {
		return "", errors.Trace(err)
	}
	return created.ID, nil
}

// DeleteSource is part of the Handler interface.
func (h *RouterHandler) DeleteSource(ctx context.Context, sourceID string, dryRun bool) error {
	if dryRun {
		logger.Infof("DRY-RUN: would delete source router %s", sourceID)
		return nil
	}
	err := h.source.DeleteRouter(sourceID)
	if err != nil && !openstack.IsNotFound(err) {
		return errors.Trace(err)
	}
	return nil
}

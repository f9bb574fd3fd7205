// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package designate implements the DNS zone migration handler. Only
// the zone itself is carried; recordsets are left for the operator to
// repoint once the workloads they name have moved.
package designate

import (
	"context"
	"net/url"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	"github.com/canonical/sunbeam-migrate/internal/handlers"
	"github.com/canonical/sunbeam-migrate/internal/openstack"
)

var logger = loggo.GetLogger("sunbeammigrate.handlers.designate")

const (
	serviceName = "designate"

	// FilterName selects zones by exact name.
	FilterName = "name"
)

// ZoneAPI is the slice of the cloud session the zone handler consumes.
type ZoneAPI interface {
	ListZones(params url.Values) ([]openstack.Zone, error)
	GetZone(id string) (openstack.Zone, error)
	CreateZone(opts openstack.ZoneOpts) (openstack.Zone, error)
	DeleteZone(id string) error
}

// ZoneHandler migrates Designate DNS zones.
type ZoneHandler struct {
	source      ZoneAPI
	destination ZoneAPI
}

// NewZoneHandler returns a zone migration handler.
func NewZoneHandler(source, destination ZoneAPI) *ZoneHandler {
	return &ZoneHandler{source: source, destination: destination}
}

// Info is part of the Handler interface.
func (h *ZoneHandler) Info() coremigration.ResourceTypeDescriptor {
	return coremigration.ResourceTypeDescriptor{
		Service:         serviceName,
		ResourceType:    "zone",
		BatchFilterKeys: []string{FilterName},
		Readiness:       coremigration.ReadinessPartial,
	}
}

// ListCandidates is part of the Handler interface.
func (h *ZoneHandler) ListCandidates(ctx context.Context, filter coremigration.Filter) ([]string, error) {
	if err := handlers.ValidateFilter(filter, h.Info()); err != nil {
		return nil, errors.Trace(err)
	}
	params := url.Values{}
	if name, ok := filter[FilterName]; ok {
		params.Set("name", name)
	}
	zones, err := h.source.ListZones(params)
	if err != nil {
		return nil, errors.Trace(err)
	}
	ids := make([]string, len(zones))
	for i, zone := range zones {
		ids[i] = zone.ID
	}
	return ids, nil
}

// Migrate is part of the Handler interface. The destination zone is
// created with the source's name, contact and ttl; recordsets are not
// copied.
func (h *ZoneHandler) Migrate(ctx context.Context, sourceID string, dryRun bool) (string, error) {
	zone, err := h.source.GetZone(sourceID)
	if err != nil {
		return "", errors.Trace(err)
	}
	if dryRun {
		return "", nil
	}
	created, err := h.destination.CreateZone(openstack.ZoneOpts{
		Name:        zone.Name,
		Email:       zone.Email,
		TTL:         zone.TTL,
		Description: zone.Description,
		Type:        zone.Type,
	})
	if err != nil {
		return "", errors.Trace(err)
	}
	return created.ID, nil
}

// DeleteSource is part of the Handler interface.
func (h *ZoneHandler) DeleteSource(ctx context.Context, sourceID string, dryRun bool) error {
	if dryRun {
		logger.Infof("DRY-RUN: would delete source zone %s", sourceID)
		return nil
	}
	err := h.source.DeleteZone(sourceID)
	if err != nil && !openstack.IsNotFound(err) {
		return errors.Trace(err)
	}
	return nil
}

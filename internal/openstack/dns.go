// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package openstack

import (
	"net/http"
	"net/url"

	"github.com/juju/errors"
)

const (
	dnsService    = "dns"
	dnsAPIVersion = "v2"
)

// Zone is a Designate DNS zone. Like Glance, Designate v2 returns the
// resource object directly rather than wrapped in an envelope.
type Zone struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	TTL         int    `json:"ttl,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Status      string `json:"status,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
}

// ZoneOpts carries the writable fields for creating a zone.
type ZoneOpts struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	TTL         int    `json:"ttl,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
}

// ListZones returns zones narrowed by the query parameters.
func (s *Session) ListZones(params url.Values) ([]Zone, error) {
	var resp struct {
		Zones []Zone `json:"zones"`
	}
	if err := s.get(dnsService, dnsAPIVersion, "zones", params, &resp); err != nil {
		return nil, errors.Annotate(err, "listing zones")
	}
	return resp.Zones, nil
}

// GetZone returns one zone by id.
func (s *Session) GetZone(id string) (Zone, error) {
	var zone Zone
	err := s.get(dnsService, dnsAPIVersion, "zones/"+id, nil, &zone)
	return zone, errors.Annotatef(err, "getting zone %q", id)
}

// CreateZone creates a new zone and returns it. Designate accepts the
// create asynchronously.
func (s *Session) CreateZone(opts ZoneOpts) (Zone, error) {
	var zone Zone
	err := s.post(dnsService, dnsAPIVersion, "zones", &opts, &zone, http.StatusAccepted, http.StatusCreated)
	return zone, errors.Annotatef(err, "creating zone %q", opts.Name)
}

// DeleteZone deletes a zone by id.
func (s *Session) DeleteZone(id string) error {
	err := s.delete(dnsService, dnsAPIVersion, "zones/"+id)
	return errors.Annotatef(err, "deleting zone %q", id)
}

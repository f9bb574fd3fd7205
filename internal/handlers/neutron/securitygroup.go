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

// SecurityGroupAPI is the slice of the cloud session the security
// group handler consumes.
type SecurityGroupAPI interface {
	ListSecurityGroups(params url.Values) ([]openstack.SecurityGroup, error)
	GetSecurityGroup(id string) (openstack.SecurityGroup, error)
	CreateSecurityGroup(opts openstack.SecurityGroupOpts) (openstack.SecurityGroup, error)
}

// SecurityGroupHandler migrates Neutron security groups. Only the
// group shell is carried; rules are member resources migrated by
// their own handler.
type SecurityGroupHandler struct {
	source      SecurityGroupAPI
	destination SecurityGroupAPI
}

// NewSecurityGroupHandler returns a security group migration handler.
func NewSecurityGroupHandler(source, destination SecurityGroupAPI) *SecurityGroupHandler {
	return &SecurityGroupHandler{source: source, destination: destination}
}

// Info is part of the Handler interface.
func (h *SecurityGroupHandler) Info() coremigration.ResourceTypeDescriptor {
	return coremigration.ResourceTypeDescriptor{
		Service:             serviceName,
		ResourceType:        "security-group",
		MemberResourceTypes: []string{"security-group-rule"},
		BatchFilterKeys:     []string{FilterOwnerID},
		Readiness:           coremigration.ReadinessPartial,
	}
}

// ListCandidates is part of the Handler interface.
func (h *SecurityGroupHandler) ListCandidates(ctx context.Context, filter coremigration.Filter) ([]string, error) {
	if err := handlers.ValidateFilter(filter, h.Info()); err != nil {
		return nil, errors.Trace(err)
	}
	groups, err := h.source.ListSecurityGroups(ownerParams(filter, "tenant_id"))
	if err != nil {
		return nil, errors.Trace(err)
	}
	ids := make([]string, len(groups))
	for i, group := range groups {
		ids[i] = group.ID
	}
	return ids, nil
}

// Migrate is part of the Handler interface.
func (h *SecurityGroupHandler) Migrate(ctx context.Context, sourceID string, dryRun bool) (string, error) {
	group, err := h.source.GetSecurityGroup(sourceID)
	if err != nil {
		return "", errors.Trace(err)
	}
	if dryRun {
		return "", nil
	}
	created, err := h.destination.CreateSecurityGroup(openstack.SecurityGroupOpts{
		Name:        group.Name,
		Description: group.Description,
	})
	if err != nil {
		return "", errors.Trace(err)
	}
	return created.ID, nil
}

// DeleteSource is part of the Handler interface.
func (h *SecurityGroupHandler) DeleteSource(ctx context.Context, sourceID string, dryRun bool) error {
	return errors.NotSupportedf("deleting source security groups")
}

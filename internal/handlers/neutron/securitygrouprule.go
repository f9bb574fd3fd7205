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

// SecurityGroupRuleAPI is the slice of the cloud session the rule
// handler consumes.
type SecurityGroupRuleAPI interface {
	ListSecurityGroupRules(params url.Values) ([]openstack.SecurityGroupRule, error)
	GetSecurityGroupRule(id string) (openstack.SecurityGroupRule, error)
	CreateSecurityGroupRule(rule openstack.SecurityGroupRule) (openstack.SecurityGroupRule, error)
}

// SecurityGroupRuleHandler migrates individual security group rules
// into their already migrated parent group.
type SecurityGroupRuleHandler struct {
	source      SecurityGroupRuleAPI
	destination SecurityGroupRuleAPI
	resolver    DestinationResolver
}

// NewSecurityGroupRuleHandler returns a rule migration handler.
func NewSecurityGroupRuleHandler(source, destination SecurityGroupRuleAPI, resolver DestinationResolver) *SecurityGroupRuleHandler {
	return &SecurityGroupRuleHandler{source: source, destination: destination, resolver: resolver}
}

// Info is part of the Handler interface.
func (h *SecurityGroupRuleHandler) Info() coremigration.ResourceTypeDescriptor {
	return coremigration.ResourceTypeDescriptor{
		Service:                 serviceName,
		ResourceType:            "security-group-rule",
		AssociatedResourceTypes: []string{"security-group"},
		BatchFilterKeys:         []string{FilterOwnerID},
		Readiness:               coremigration.ReadinessPartial,
	}
}

// ListCandidates is part of the Handler interface.
func (h *SecurityGroupRuleHandler) ListCandidates(ctx context.Context, filter coremigration.Filter) ([]string, error) {
	if err := handlers.ValidateFilter(filter, h.Info()); err != nil {
		return nil, errors.Trace(err)
	}
	rules, err := h.source.ListSecurityGroupRules(ownerParams(filter, "tenant_id"))
	if err != nil {
		return nil, errors.Trace(err)
	}
	ids := make([]string, len(rules))
	for i, rule := range rules {
		ids[i] = rule.ID
	}
	return ids, nil
}

// Migrate is part of the Handler interface. Remote group references
// are resolved against completed security group migrations, the same
// way the parent group is.
func (h *SecurityGroupRuleHandler) Migrate(ctx context.Context, sourceID string, dryRun bool) (string, error) {
	rule, err := h.source.GetSecurityGroupRule(sourceID)
	if err != nil {
		return "", errors.Trace(err)
	}
	groupID, err := resolveParent(ctx, h.resolver, "security-group", rule.SecurityGroupID)
	if err != nil {
		return "", errors.Trace(err)
	}
	remoteGroupID := ""
	if rule.RemoteGroupID != "" {
		remoteGroupID, err = resolveParent(ctx, h.resolver, "security-group", rule.RemoteGroupID)
		if err != nil {
			return "", errors.Trace(err)
		}
	}
	if dryRun {
		return "", nil
	}
	created, err := h.destination.CreateSecurityGroupRule(openstack.SecurityGroupRule{
		SecurityGroupID: groupID,
		Direction:       rule.Direction,
		EtherType:       rule.EtherType,
		Protocol:        rule.Protocol,
		PortRangeMin:    rule.PortRangeMin,
		PortRangeMax:    rule.PortRangeMax,
		RemoteIPPrefix:  rule.RemoteIPPrefix,
		RemoteGroupID:   remoteGroupID,
		Description:     rule.Description,
	})
	if err != nil {
		return "", errors.Trace(err)
	}
	return created.ID, nil
}

// DeleteSource is part of the Handler interface.
func (h *SecurityGroupRuleHandler) DeleteSource(ctx context.Context, sourceID string, dryRun bool) error {
	return errors.NotSupportedf("deleting source security group rules")
}

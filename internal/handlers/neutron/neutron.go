// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package neutron implements the migration handlers for Neutron-owned
// resources: networks, subnets, routers, floating IPs, security groups
// and their rules. All of them accept the owner-id batch filter, which
// maps onto the tenant/project query parameter the listing API expects.
package neutron

import (
	"context"
	"net/url"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	migrationerrors "github.com/canonical/sunbeam-migrate/domain/migration/errors"
)

var logger = loggo.GetLogger("sunbeammigrate.handlers.neutron")

const (
	serviceName = "neutron"

	// FilterOwnerID selects resources belonging to one project.
	FilterOwnerID = "owner-id"
)

// DestinationResolver maps an already migrated source resource onto
// its destination id, from the completed migration records. Handlers
// use it to rewire cross-resource references (a subnet's network, a
// rule's security group) on the destination cloud.
type DestinationResolver interface {
	ResolveDestination(ctx context.Context, service, resourceType, sourceID string) (string, error)
}

// resolveParent looks up the destination id of a parent resource,
// turning a missing record into actionable advice.
func resolveParent(ctx context.Context, resolver DestinationResolver, resourceType, sourceID string) (string, error) {
	destinationID, err := resolver.ResolveDestination(ctx, serviceName, resourceType, sourceID)
	if errors.Is(err, migrationerrors.RecordNotFound) {
		return "", errors.Errorf(
			"no completed migration found for %s %q: migrate the %s first",
			resourceType, sourceID, resourceType)
	}
	if err != nil {
		return "", errors.Trace(err)
	}
	return destinationID, nil
}

// ownerParams translates the owner-id filter into the query parameter
// the given listing endpoint expects. Networks and security groups
// still key listings on tenant_id; the newer endpoints take
// project_id.
func ownerParams(filter coremigration.Filter, param string) url.Values {
	params := url.Values{}
	if owner, ok := filter[FilterOwnerID]; ok {
		params.Set(param, owner)
	}
	return params
}

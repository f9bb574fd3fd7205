// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package service

import (
	"context"

	"github.com/juju/errors"

	"github.com/canonical/sunbeam-migrate/domain/migration"
)

// Resolver answers "where did this source resource land?" from the
// completed migration records. Handlers use it to rewire references to
// parent resources when building destination payloads.
type Resolver struct {
	st               State
	destinationCloud string
}

// NewResolver returns a resolver over the given store for one
// destination cloud.
func NewResolver(st State, destinationCloud string) *Resolver {
	return &Resolver{st: st, destinationCloud: destinationCloud}
}

// ResolveDestination returns the destination id of the completed
// migration for the given source resource, or RecordNotFound.
func (r *Resolver) ResolveDestination(ctx context.Context, service, resourceType, sourceID string) (string, error) {
	record, err := r.st.FindCompleted(ctx, migration.CompletedKey{
		Service:          service,
		ResourceType:     resourceType,
		DestinationCloud: r.destinationCloud,
		SourceID:         sourceID,
	})
	if err != nil {
		return "", errors.Trace(err)
	}
	return record.DestinationID, nil
}

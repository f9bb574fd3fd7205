// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package migration

import (
	"context"
)

// Handler knows how to enumerate, migrate and delete one kind of
// resource on the two clouds. Implementations live under
// internal/handlers, one per (service, resource type) pair.
type Handler interface {
	// Info returns the handler's static capability metadata.
	Info() ResourceTypeDescriptor

	// ListCandidates enumerates source resource ids matching the
	// filter, in the source API's listing order. It fails with
	// InvalidFilter if a filter key is not listed in the descriptor's
	// BatchFilterKeys.
	ListCandidates(ctx context.Context, filter Filter) ([]string, error)

	// Migrate transfers the identified resource to the destination
	// cloud and returns the new destination resource id. When dryRun
	// is true it must be side-effect free on the destination: it
	// validates feasibility and returns a simulated outcome without
	// creating anything.
	Migrate(ctx context.Context, sourceID string, dryRun bool) (string, error)

	// DeleteSource removes the resource from the source cloud.
	// Deleting an already absent resource is a success, making cleanup
	// safely re-runnable. When dryRun is true nothing is deleted.
	DeleteSource(ctx context.Context, sourceID string, dryRun bool) error
}

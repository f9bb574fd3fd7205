// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package handlers wires the per-resource-type migration handlers into
// a registry the engine resolves against.
package handlers

import (
	"sort"

	"github.com/juju/errors"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	migrationerrors "github.com/canonical/sunbeam-migrate/domain/migration/errors"
)

// Registry holds the handlers known to this binary, keyed by resource
// type. It is immutable after construction.
type Registry struct {
	handlers map[string]coremigration.Handler
}

// NewRegistry builds a registry from the given handlers. Resource
// types are unique across services, since resolution is by type alone;
// the handler key (service, resource type) therefore collapses to the
// type, and registering a second handler for one fails with
// DuplicateHandler whichever service claims it.
func NewRegistry(handlers ...coremigration.Handler) (*Registry, error) {
	r := &Registry{handlers: make(map[string]coremigration.Handler, len(handlers))}
	for _, h := range handlers {
		info := h.Info()
		if existing, ok := r.handlers[info.ResourceType]; ok {
			return nil, errors.Annotatef(migrationerrors.DuplicateHandler,
				"resource type %q registered by both %s and %s",
				info.ResourceType, existing.Info().Service, info.Service)
		}
		r.handlers[info.ResourceType] = h
	}
	return r, nil
}

// Resolve returns the handler for the resource type.
func (r *Registry) Resolve(resourceType string) (coremigration.Handler, error) {
	h, ok := r.handlers[resourceType]
	if !ok {
		return nil, errors.Annotatef(migrationerrors.UnknownResourceType,
			"resource type %q, known types: %v", resourceType, r.resourceTypes())
	}
	return h, nil
}

// Capabilities returns every handler's descriptor, ordered by service
// then resource type for stable presentation.
func (r *Registry) Capabilities() []coremigration.ResourceTypeDescriptor {
	descriptors := make([]coremigration.ResourceTypeDescriptor, 0, len(r.handlers))
	for _, h := range r.handlers {
		descriptors = append(descriptors, h.Info())
	}
	sort.Slice(descriptors, func(i, j int) bool {
		if descriptors[i].Service != descriptors[j].Service {
			return descriptors[i].Service < descriptors[j].Service
		}
		return descriptors[i].ResourceType < descriptors[j].ResourceType
	})
	return descriptors
}

// CapabilitiesFor returns the descriptor for a single resource type.
func (r *Registry) CapabilitiesFor(resourceType string) (coremigration.ResourceTypeDescriptor, error) {
	h, err := r.Resolve(resourceType)
	if err != nil {
		return coremigration.ResourceTypeDescriptor{}, errors.Trace(err)
	}
	return h.Info(), nil
}

func (r *Registry) resourceTypes() []string {
	types := make([]string, 0, len(r.handlers))
	for resourceType := range r.handlers {
		types = append(types, resourceType)
	}
	sort.Strings(types)
	return types
}

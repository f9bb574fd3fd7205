// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package migration

// Readiness describes how much of a resource's migration a handler
// automates. It is immutable capability metadata, never a runtime
// migration outcome.
type Readiness string

const (
	// ReadinessNoOp marks a handler that performs no real transfer,
	// e.g. because the resource is identity-equivalent across clouds.
	ReadinessNoOp Readiness = "no-op"

	// ReadinessPartial marks a handler that migrates the top level
	// resource but not its members or associations.
	ReadinessPartial Readiness = "partial"

	// ReadinessFull marks a handler that migrates the resource and all
	// dependents.
	ReadinessFull Readiness = "full"
)

// ResourceTypeDescriptor is the static capability metadata published by
// a resource handler.
type ResourceTypeDescriptor struct {
	// Service is the owning cloud service, e.g. "neutron". Together
	// with ResourceType it forms a unique handler key.
	Service string `json:"service" yaml:"service"`

	// ResourceType is the handled resource type, e.g. "subnet".
	ResourceType string `json:"resource-type" yaml:"resource-type"`

	// MemberResourceTypes lists resource types physically embedded in
	// this one, in order, e.g. network -> subnet.
	MemberResourceTypes []string `json:"member-resource-types,omitempty" yaml:"member-resource-types,omitempty"`

	// AssociatedResourceTypes lists resource types referenced by, but
	// not owned by, this one, e.g. subnet -> network. They are recorded
	// for discovery only; migrations do not cascade to them.
	AssociatedResourceTypes []string `json:"associated-resource-types,omitempty" yaml:"associated-resource-types,omitempty"`

	// BatchFilterKeys lists the filter field names the handler accepts
	// for batch selection.
	BatchFilterKeys []string `json:"batch-filter-keys,omitempty" yaml:"batch-filter-keys,omitempty"`

	// Readiness is the handler's declared implementation level.
	Readiness Readiness `json:"readiness" yaml:"readiness"`
}

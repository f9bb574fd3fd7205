// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package migration

import (
	"time"
)

// Record is a single durable migration attempt. Records are append
// only; a retried migration for a previously failed resource creates a
// new record so the failure history is preserved.
type Record struct {
	// UUID uniquely identifies the migration attempt. It is assigned
	// when the record is created and never changes.
	UUID string `json:"uuid" yaml:"uuid"`

	// Service is the cloud service owning the resource, e.g. "glance".
	Service string `json:"service" yaml:"service"`

	// ResourceType is the migrated resource type, e.g. "image".
	ResourceType string `json:"resource-type" yaml:"resource-type"`

	// SourceCloud and DestinationCloud name the clouds involved, as
	// configured in the tool's cloud config.
	SourceCloud      string `json:"source-cloud" yaml:"source-cloud"`
	DestinationCloud string `json:"destination-cloud" yaml:"destination-cloud"`

	// SourceID identifies the resource on the source cloud.
	SourceID string `json:"source-id" yaml:"source-id"`

	// DestinationID identifies the newly created resource on the
	// destination cloud. It is set if and only if the record is
	// completed.
	DestinationID string `json:"destination-id,omitempty" yaml:"destination-id,omitempty"`

	// Status is the record's lifecycle state.
	Status Status `json:"status" yaml:"status"`

	// ErrorMessage holds the handler error for failed records. It is
	// set if and only if the record is failed.
	ErrorMessage string `json:"error-message,omitempty" yaml:"error-message,omitempty"`

	// Archived marks a soft deleted record. Archived records are
	// excluded from listings and idempotency checks unless explicitly
	// requested.
	Archived bool `json:"archived,omitempty" yaml:"archived,omitempty"`

	CreatedAt time.Time `json:"created-at" yaml:"created-at"`
	UpdatedAt time.Time `json:"updated-at" yaml:"updated-at"`
}

// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package handlers

import (
	"github.com/juju/collections/set"
	"github.com/juju/errors"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	migrationerrors "github.com/canonical/sunbeam-migrate/domain/migration/errors"
)

// ValidateFilter rejects filter keys the descriptor does not advertise.
// Handlers apply it before listing candidates so an unknown key fails
// with InvalidFilter instead of silently matching nothing.
func ValidateFilter(filter coremigration.Filter, info coremigration.ResourceTypeDescriptor) error {
	supported := set.NewStrings(info.BatchFilterKeys...)
	for _, key := range filter.Keys() {
		if !supported.Contains(key) {
			return errors.Annotatef(migrationerrors.InvalidFilter,
				"key %q is not supported by %s %s handler, supported keys: %v",
				key, info.Service, info.ResourceType, info.BatchFilterKeys)
		}
	}
	return nil
}

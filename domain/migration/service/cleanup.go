// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package service

import (
	"context"

	"github.com/juju/errors"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	"github.com/canonical/sunbeam-migrate/domain/migration"
)

// CleanupSource deletes the source resources of completed migrations
// for the given resource type. Deletion is idempotent: a source that is
// already gone counts as deleted. Like batch migration it is best
// effort, so one failed delete never blocks the rest; failures are
// reported in the summary and the records stay completed.
func (s *Service) CleanupSource(ctx context.Context, resourceType string, dryRun bool) (coremigration.CleanupSummary, error) {
	var summary coremigration.CleanupSummary

	handler, err := s.registry.Resolve(resourceType)
	if err != nil {
		return summary, errors.Trace(err)
	}
	info := handler.Info()

	records, err := s.st.List(ctx, migration.RecordFilter{
		Service:      info.Service,
		ResourceType: info.ResourceType,
		Status:       coremigration.StatusCompleted,
	})
	if err != nil {
		return summary, errors.Annotatef(err, "listing completed %s migrations", resourceType)
	}
	logger.Infof("source cleanup for %s: %d completed migrations", resourceType, len(records))

	for _, record := range records {
		if dryRun {
			logger.Infof("DRY-RUN: would delete source %s, resource id: %s, migration: %s",
				resourceType, record.SourceID, record.UUID)
			summary.Add(coremigration.CleanupOutcome{
				UUID:     record.UUID,
				SourceID: record.SourceID,
			})
			continue
		}
		if err := handler.DeleteSource(ctx, record.SourceID, false); err != nil {
			logger.Errorf("deleting source %s %q: %v", resourceType, record.SourceID, err)
			summary.Add(coremigration.CleanupOutcome{
				UUID:     record.UUID,
				SourceID: record.SourceID,
				Error:    err.Error(),
			})
			continue
		}
		logger.Infof("deleted source %s, resource id: %s", resourceType, record.SourceID)
		summary.Add(coremigration.CleanupOutcome{
			UUID:     record.UUID,
			SourceID: record.SourceID,
			Deleted:  true,
		})
	}
	return summary, nil
}

// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package service implements the migration engine and the source
// cleanup engine. The engines drive resource handlers and persist
// outcomes in the migration store; they never render output
// themselves.
package service

import (
	"context"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	"github.com/canonical/sunbeam-migrate/domain/migration"
	migrationerrors "github.com/canonical/sunbeam-migrate/domain/migration/errors"
)

var logger = loggo.GetLogger("sunbeammigrate.engine")

// Registry resolves resource handlers and exposes their capability
// metadata. It is built once at start-up and never changes.
type Registry interface {
	// Resolve returns the handler for the resource type, or
	// UnknownResourceType.
	Resolve(resourceType string) (coremigration.Handler, error)

	// Capabilities returns all descriptors ordered by service then
	// resource type.
	Capabilities() []coremigration.ResourceTypeDescriptor

	// CapabilitiesFor returns the descriptor for the resource type, or
	// UnknownResourceType.
	CapabilitiesFor(resourceType string) (coremigration.ResourceTypeDescriptor, error)
}

// State is the migration store contract the engines rely on.
type State interface {
	// Create inserts a new pending record and returns its uuid.
	Create(ctx context.Context, args migration.RecordArgs) (string, error)

	// Transition moves a record to a new status; it fails with
	// InvalidTransition if the record is already terminal.
	Transition(ctx context.Context, uuid string, status coremigration.Status, destinationID, errorMessage string) error

	// FindCompleted returns the completed record for the idempotency
	// key, or RecordNotFound.
	FindCompleted(ctx context.Context, key migration.CompletedKey) (coremigration.Record, error)

	// Get returns the record with the given uuid, or RecordNotFound.
	Get(ctx context.Context, uuid string) (coremigration.Record, error)

	// List returns records matching the filter ordered by creation
	// time then uuid.
	List(ctx context.Context, filter migration.RecordFilter) ([]coremigration.Record, error)

	// Archive, Restore and Delete manage record retention; they return
	// the number of records affected.
	Archive(ctx context.Context, filter migration.RecordFilter) (int, error)
	Restore(ctx context.Context, filter migration.RecordFilter) (int, error)
	Delete(ctx context.Context, filter migration.RecordFilter) (int, error)
}

// Service is the migration engine. A single instance drives both
// individual and batch migrations between one source and one
// destination cloud.
type Service struct {
	st               State
	registry         Registry
	sourceCloud      string
	destinationCloud string
}

// NewService returns a migration engine for the given clouds.
func NewService(st State, registry Registry, sourceCloud, destinationCloud string) *Service {
	return &Service{
		st:               st,
		registry:         registry,
		sourceCloud:      sourceCloud,
		destinationCloud: destinationCloud,
	}
}

// Capabilities returns the capability descriptors of all registered
// handlers.
func (s *Service) Capabilities() []coremigration.ResourceTypeDescriptor {
	return s.registry.Capabilities()
}

// Migrate migrates a single resource. The returned outcome reports
// skipped/migrated/failed along with the record uuid; a handler
// failure is additionally returned as an error so individual
// migrations surface it directly to the caller.
func (s *Service) Migrate(ctx context.Context, resourceType, sourceID string, dryRun, cleanupSource bool) (coremigration.Outcome, error) {
	if sourceID == "" {
		return coremigration.Outcome{}, errors.NotValidf("empty resource id")
	}
	handler, err := s.registry.Resolve(resourceType)
	if err != nil {
		return coremigration.Outcome{}, errors.Trace(err)
	}

	outcome := s.migrateOne(ctx, handler, sourceID, dryRun)
	if outcome.Result == coremigration.ResultFailed {
		return outcome, errors.Errorf("migrating %s %q: %s", resourceType, sourceID, outcome.Error)
	}
	if cleanupSource && outcome.Result == coremigration.ResultMigrated {
		if err := handler.DeleteSource(ctx, sourceID, dryRun); err != nil {
			return outcome, errors.Annotatef(err, "cleaning up source %s %q", resourceType, sourceID)
		}
		logger.Infof("cleaned up source %s, resource id: %s", resourceType, sourceID)
	}
	return outcome, nil
}

// MigrateBatch migrates every source resource matching the filter.
// Batch processing is best effort: one candidate's failure never
// aborts its siblings. Structural errors (unknown resource type,
// invalid filter) abort before any candidate is processed.
func (s *Service) MigrateBatch(ctx context.Context, resourceType string, filter coremigration.Filter, dryRun, cleanupSource bool) (coremigration.BatchSummary, error) {
	var summary coremigration.BatchSummary

	handler, err := s.registry.Resolve(resourceType)
	if err != nil {
		return summary, errors.Trace(err)
	}
	if err := ValidateFilter(filter, handler.Info()); err != nil {
		return summary, errors.Trace(err)
	}

	candidates, err := handler.ListCandidates(ctx, filter)
	if err != nil {
		return summary, errors.Annotatef(err, "listing %s candidates", resourceType)
	}
	logger.Infof("batch %s migration, filter %q: %d candidates",
		resourceType, filter.String(), len(candidates))

	for _, sourceID := range candidates {
		outcome := s.migrateOne(ctx, handler, sourceID, dryRun)
		summary.Add(outcome)
		if cleanupSource && outcome.Result == coremigration.ResultMigrated {
			if err := handler.DeleteSource(ctx, sourceID, dryRun); err != nil {
				logger.Errorf("cleaning up source %s %q: %v", resourceType, sourceID, err)
			}
		}
	}
	return summary, nil
}

// migrateOne runs the single-migration procedure for one candidate.
// All handler errors are folded into the outcome; the caller decides
// whether to surface them.
func (s *Service) migrateOne(ctx context.Context, handler coremigration.Handler, sourceID string, dryRun bool) coremigration.Outcome {
	info := handler.Info()
	key := migration.CompletedKey{
		Service:          info.Service,
		ResourceType:     info.ResourceType,
		DestinationCloud: s.destinationCloud,
		SourceID:         sourceID,
	}

	existing, err := s.st.FindCompleted(ctx, key)
	if err != nil && !errors.Is(err, migrationerrors.RecordNotFound) {
		return failedOutcome(sourceID, "", err)
	}
	if decision := Decide(existing, err == nil); decision == DecisionSkip {
		logger.Infof("resource already migrated, skipping: %s, migration: %s",
			sourceID, existing.UUID)
		return coremigration.Outcome{
			SourceID:      sourceID,
			Result:        coremigration.ResultSkipped,
			UUID:          existing.UUID,
			DestinationID: existing.DestinationID,
		}
	}

	if dryRun {
		// Dry-run never touches the store: validate feasibility via the
		// handler and report, so a later real run behaves as if this
		// never happened.
		logger.Infof("DRY-RUN: %s migration, resource id: %s", info.ResourceType, sourceID)
		if _, err := handler.Migrate(ctx, sourceID, true); err != nil {
			return failedOutcome(sourceID, "", err)
		}
		return coremigration.Outcome{SourceID: sourceID, Result: coremigration.ResultDryRun}
	}

	logger.Infof("initiating %s migration, resource id: %s", info.ResourceType, sourceID)
	uuid, err := s.st.Create(ctx, migration.RecordArgs{
		Service:          info.Service,
		ResourceType:     info.ResourceType,
		SourceCloud:      s.sourceCloud,
		DestinationCloud: s.destinationCloud,
		SourceID:         sourceID,
	})
	if err != nil {
		return failedOutcome(sourceID, "", err)
	}
	if err := s.st.Transition(ctx, uuid, coremigration.StatusInProgress, "", ""); err != nil {
		return failedOutcome(sourceID, uuid, err)
	}

	destinationID, err := handler.Migrate(ctx, sourceID, false)
	if err != nil {
		logger.Errorf("migration %s failed: %v", uuid, err)
		if terr := s.st.Transition(ctx, uuid, coremigration.StatusFailed, "", err.Error()); terr != nil {
			logger.Errorf("recording failure for migration %s: %v", uuid, terr)
		}
		return failedOutcome(sourceID, uuid, err)
	}

	if err := s.st.Transition(ctx, uuid, coremigration.StatusCompleted, destinationID, ""); err != nil {
		if errors.Is(err, migrationerrors.AlreadyMigrated) {
			// A concurrent caller beat us to it; surface the conflict
			// as a skip referencing the winning record.
			if winner, ferr := s.st.FindCompleted(ctx, key); ferr == nil {
				logger.Infof("resource concurrently migrated, skipping: %s, migration: %s",
					sourceID, winner.UUID)
				return coremigration.Outcome{
					SourceID:      sourceID,
					Result:        coremigration.ResultSkipped,
					UUID:          winner.UUID,
					DestinationID: winner.DestinationID,
				}
			}
		}
		return failedOutcome(sourceID, uuid, err)
	}

	logger.Infof("successfully migrated resource, destination id: %s", destinationID)
	return coremigration.Outcome{
		SourceID:      sourceID,
		Result:        coremigration.ResultMigrated,
		UUID:          uuid,
		DestinationID: destinationID,
	}
}

// Show returns the record with the given uuid.
func (s *Service) Show(ctx context.Context, uuid string) (coremigration.Record, error) {
	record, err := s.st.Get(ctx, uuid)
	return record, errors.Trace(err)
}

// List returns the records matching the filter.
func (s *Service) List(ctx context.Context, filter migration.RecordFilter) ([]coremigration.Record, error) {
	records, err := s.st.List(ctx, filter)
	return records, errors.Trace(err)
}

// Archive soft deletes matching records; Restore reverses it; Delete
// removes them permanently. Each returns the number of records
// affected.
func (s *Service) Archive(ctx context.Context, filter migration.RecordFilter) (int, error) {
	n, err := s.st.Archive(ctx, filter)
	return n, errors.Trace(err)
}

func (s *Service) Restore(ctx context.Context, filter migration.RecordFilter) (int, error) {
	n, err := s.st.Restore(ctx, filter)
	return n, errors.Trace(err)
}

func (s *Service) Delete(ctx context.Context, filter migration.RecordFilter) (int, error) {
	n, err := s.st.Delete(ctx, filter)
	return n, errors.Trace(err)
}

// Decision is the outcome of the pure skip-or-migrate check.
type Decision int

const (
	// DecisionMigrate indicates no completed record exists and the
	// handler should be invoked.
	DecisionMigrate Decision = iota

	// DecisionSkip indicates a completed record already exists and the
	// handler must not be invoked.
	DecisionSkip
)

// Decide is the pure decision step of the single-migration procedure:
// given the result of the idempotency lookup, it determines whether
// the candidate is processed or skipped. Side effects (persistence,
// logging) happen elsewhere, keyed off the returned decision.
func Decide(existing coremigration.Record, found bool) Decision {
	if found && existing.Status == coremigration.StatusCompleted {
		return DecisionSkip
	}
	return DecisionMigrate
}

// ValidateFilter checks every filter key against the handler's
// declared batch filter keys.
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

func failedOutcome(sourceID, uuid string, err error) coremigration.Outcome {
	return coremigration.Outcome{
		SourceID: sourceID,
		Result:   coremigration.ResultFailed,
		UUID:     uuid,
		Error:    err.Error(),
	}
}

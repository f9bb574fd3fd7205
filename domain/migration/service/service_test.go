// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package service_test

import (
	"context"

	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	"github.com/canonical/sunbeam-migrate/domain/migration"
	migrationerrors "github.com/canonical/sunbeam-migrate/domain/migration/errors"
	"github.com/canonical/sunbeam-migrate/domain/migration/service"
)

type serviceSuite struct {
	st      *fakeState
	handler *fakeHandler
	engine  *service.Service
}

var _ = gc.Suite(&serviceSuite{})

func (s *serviceSuite) SetUpTest(c *gc.C) {
	s.st = newFakeState()
	s.handler = newFakeHandler()
	s.engine = service.NewService(s.st, newFakeRegistry(s.handler), "charmed", "sunbeam")
}

func (s *serviceSuite) TestMigrateSuccess(c *gc.C) {
	outcome, err := s.engine.Migrate(context.Background(), "image", "img-1", false, false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(outcome.Result, gc.Equals, coremigration.ResultMigrated)
	c.Check(outcome.SourceID, gc.Equals, "img-1")
	c.Check(outcome.DestinationID, gc.Equals, "dest-img-1")

	record, err := s.st.Get(context.Background(), outcome.UUID)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(record.Status, gc.Equals, coremigration.StatusCompleted)
	c.Check(record.DestinationID, gc.Equals, "dest-img-1")
	c.Check(record.SourceCloud, gc.Equals, "charmed")
	c.Check(record.DestinationCloud, gc.Equals, "sunbeam")

	// The record walks pending -> in-progress -> completed around the
	// handler call.
	s.st.CheckCallNames(c, "FindCompleted", "Create", "Transition", "Transition", "Get")
}

func (s *serviceSuite) TestMigrateSkipsCompleted(c *gc.C) {
	first, err := s.engine.Migrate(context.Background(), "image", "img-1", false, false)
	c.Assert(err, jc.ErrorIsNil)

	s.handler.ResetCalls()
	outcome, err := s.engine.Migrate(context.Background(), "image", "img-1", false, false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(outcome.Result, gc.Equals, coremigration.ResultSkipped)
	c.Check(outcome.UUID, gc.Equals, first.UUID)
	c.Check(outcome.DestinationID, gc.Equals, first.DestinationID)

	// The handler is never invoked for a skipped resource.
	s.handler.CheckNoCalls(c)
}

func (s *serviceSuite) TestMigrateFailureRecorded(c *gc.C) {
	s.handler.SetErrors(errors.New("boom"))

	outcome, err := s.engine.Migrate(context.Background(), "image", "img-1", false, false)
	c.Assert(err, gc.ErrorMatches, `migrating image "img-1": boom`)
	c.Check(outcome.Result, gc.Equals, coremigration.ResultFailed)
	c.Check(outcome.Error, gc.Equals, "boom")

	record, err := s.st.Get(context.Background(), outcome.UUID)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(record.Status, gc.Equals, coremigration.StatusFailed)
	c.Check(record.ErrorMessage, gc.Equals, "boom")
	c.Check(record.DestinationID, gc.Equals, "")
}

func (s *serviceSuite) TestMigrateAfterFailureAppendsNewRecord(c *gc.C) {
	s.handler.SetErrors(errors.New("boom"))
	failed, err := s.engine.Migrate(context.Background(), "image", "img-1", false, false)
	c.Assert(err, gc.NotNil)

	outcome, err := s.engine.Migrate(context.Background(), "image", "img-1", false, false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(outcome.Result, gc.Equals, coremigration.ResultMigrated)
	c.Check(outcome.UUID, gc.Not(gc.Equals), failed.UUID)

	// The failed record stays failed.
	record, err := s.st.Get(context.Background(), failed.UUID)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(record.Status, gc.Equals, coremigration.StatusFailed)
}

func (s *serviceSuite) TestMigrateUnknownResourceType(c *gc.C) {
	_, err := s.engine.Migrate(context.Background(), "volume", "vol-1", false, false)
	c.Assert(err, jc.ErrorIs, migrationerrors.UnknownResourceType)
	s.st.CheckNoCalls(c)
}

func (s *serviceSuite) TestMigrateEmptyResourceID(c *gc.C) {
	_, err := s.engine.Migrate(context.Background(), "image", "", false, false)
	c.Assert(err, jc.ErrorIs, errors.NotValid)
}

func (s *serviceSuite) TestMigrateDryRunPersistsNothing(c *gc.C) {
	outcome, err := s.engine.Migrate(context.Background(), "image", "img-1", true, false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(outcome.Result, gc.Equals, coremigration.ResultDryRun)
	c.Check(outcome.UUID, gc.Equals, "")

	// Only the idempotency lookup touches the store.
	s.st.CheckCallNames(c, "FindCompleted")
	s.handler.CheckCall(c, 0, "Migrate", "img-1", true)
}

func (s *serviceSuite) TestMigrateCleanupSource(c *gc.C) {
	outcome, err := s.engine.Migrate(context.Background(), "image", "img-1", false, true)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(outcome.Result, gc.Equals, coremigration.ResultMigrated)
	s.handler.CheckCallNames(c, "Migrate", "DeleteSource")
	s.handler.CheckCall(c, 1, "DeleteSource", "img-1", false)
}

func (s *serviceSuite) TestMigrateCleanupSourceSkippedWhenNotMigrated(c *gc.C) {
	_, err := s.engine.Migrate(context.Background(), "image", "img-1", false, false)
	c.Assert(err, jc.ErrorIsNil)

	s.handler.ResetCalls()
	_, err = s.engine.Migrate(context.Background(), "image", "img-1", false, true)
	c.Assert(err, jc.ErrorIsNil)
	// Skipped resources are not cleaned up.
	s.handler.CheckNoCalls(c)
}

func (s *serviceSuite) TestMigrateBatch(c *gc.C) {
	s.handler.candidates = []string{"img-1", "img-2"}

	// img-1 is already migrated.
	_, err := s.engine.Migrate(context.Background(), "image", "img-1", false, false)
	c.Assert(err, jc.ErrorIsNil)

	filter := coremigration.Filter{"owner-id": "abc"}
	summary, err := s.engine.MigrateBatch(context.Background(), "image", filter, false, false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(summary.Migrated, gc.Equals, 1)
	c.Check(summary.Skipped, gc.Equals, 1)
	c.Check(summary.Failed, gc.Equals, 0)
	c.Assert(summary.Outcomes, gc.HasLen, 2)
	// Outcomes preserve candidate listing order.
	c.Check(summary.Outcomes[0].SourceID, gc.Equals, "img-1")
	c.Check(summary.Outcomes[0].Result, gc.Equals, coremigration.ResultSkipped)
	c.Check(summary.Outcomes[1].SourceID, gc.Equals, "img-2")
	c.Check(summary.Outcomes[1].Result, gc.Equals, coremigration.ResultMigrated)
}

func (s *serviceSuite) TestMigrateBatchIdempotent(c *gc.C) {
	s.handler.candidates = []string{"img-1", "img-2"}
	filter := coremigration.Filter{"owner-id": "abc"}

	first, err := s.engine.MigrateBatch(context.Background(), "image", filter, false, false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(first.Migrated, gc.Equals, 2)

	second, err := s.engine.MigrateBatch(context.Background(), "image", filter, false, false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(second.Migrated, gc.Equals, 0)
	c.Check(second.Skipped, gc.Equals, 2)
	// Each skip references the original migration.
	c.Check(second.Outcomes[0].UUID, gc.Equals, first.Outcomes[0].UUID)
	c.Check(second.Outcomes[1].UUID, gc.Equals, first.Outcomes[1].UUID)
}

func (s *serviceSuite) TestMigrateBatchContinuesOnError(c *gc.C) {
	s.handler.candidates = []string{"img-1", "img-2", "img-3"}
	// ListCandidates succeeds, the first Migrate call fails.
	s.handler.SetErrors(nil, errors.New("boom"))

	summary, err := s.engine.MigrateBatch(context.Background(), "image", coremigration.Filter{}, false, false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(summary.Failed, gc.Equals, 1)
	c.Check(summary.Migrated, gc.Equals, 2)
	c.Check(summary.Outcomes[0].Error, gc.Equals, "boom")
}

func (s *serviceSuite) TestMigrateBatchInvalidFilter(c *gc.C) {
	filter := coremigration.Filter{"flavour": "large"}
	_, err := s.engine.MigrateBatch(context.Background(), "image", filter, false, false)
	c.Assert(err, jc.ErrorIs, migrationerrors.InvalidFilter)
	// Structural errors abort before any candidate is processed.
	s.handler.CheckNoCalls(c)
	s.st.CheckNoCalls(c)
}

func (s *serviceSuite) TestMigrateBatchDryRunPersistsNothing(c *gc.C) {
	s.handler.candidates = []string{"img-1", "img-2"}
	filter := coremigration.Filter{"owner-id": "abc"}

	summary, err := s.engine.MigrateBatch(context.Background(), "image", filter, true, false)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(summary.Outcomes, gc.HasLen, 2)
	for _, outcome := range summary.Outcomes {
		c.Check(outcome.Result, gc.Equals, coremigration.ResultDryRun)
	}

	// No record was persisted, so a real run migrates both.
	real, err := s.engine.MigrateBatch(context.Background(), "image", filter, false, false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(real.Migrated, gc.Equals, 2)
	c.Check(real.Skipped, gc.Equals, 0)
}

func (s *serviceSuite) TestCleanupSource(c *gc.C) {
	s.handler.candidates = []string{"img-1", "img-2"}
	_, err := s.engine.MigrateBatch(context.Background(), "image", coremigration.Filter{}, false, false)
	c.Assert(err, jc.ErrorIsNil)

	s.handler.ResetCalls()
	summary, err := s.engine.CleanupSource(context.Background(), "image", false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(summary.Deleted, gc.Equals, 2)
	c.Check(summary.Failed, gc.Equals, 0)
	s.handler.CheckCallNames(c, "DeleteSource", "DeleteSource")
}

func (s *serviceSuite) TestCleanupSourceContinuesOnError(c *gc.C) {
	s.handler.candidates = []string{"img-1", "img-2"}
	_, err := s.engine.MigrateBatch(context.Background(), "image", coremigration.Filter{}, false, false)
	c.Assert(err, jc.ErrorIsNil)

	s.handler.ResetCalls()
	s.handler.SetErrors(errors.New("still in use"))
	summary, err := s.engine.CleanupSource(context.Background(), "image", false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(summary.Failed, gc.Equals, 1)
	c.Check(summary.Deleted, gc.Equals, 1)
	c.Check(summary.Outcomes[0].Error, gc.Equals, "still in use")

	// Records stay completed either way.
	records, err := s.st.List(context.Background(), migration.RecordFilter{
		Status: coremigration.StatusCompleted,
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(records, gc.HasLen, 2)
}

func (s *serviceSuite) TestCleanupSourceDryRun(c *gc.C) {
	s.handler.candidates = []string{"img-1"}
	_, err := s.engine.MigrateBatch(context.Background(), "image", coremigration.Filter{}, false, false)
	c.Assert(err, jc.ErrorIsNil)

	s.handler.ResetCalls()
	summary, err := s.engine.CleanupSource(context.Background(), "image", true)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(summary.Deleted, gc.Equals, 0)
	c.Check(summary.Failed, gc.Equals, 0)
	c.Assert(summary.Outcomes, gc.HasLen, 1)
	s.handler.CheckNoCalls(c)
}

func (s *serviceSuite) TestCleanupSourceUnknownResourceType(c *gc.C) {
	_, err := s.engine.CleanupSource(context.Background(), "volume", false)
	c.Assert(err, jc.ErrorIs, migrationerrors.UnknownResourceType)
}

func (s *serviceSuite) TestDecide(c *gc.C) {
	completed := coremigration.Record{Status: coremigration.StatusCompleted}
	c.Check(service.Decide(completed, true), gc.Equals, service.DecisionSkip)
	c.Check(service.Decide(coremigration.Record{}, false), gc.Equals, service.DecisionMigrate)
	failed := coremigration.Record{Status: coremigration.StatusFailed}
	c.Check(service.Decide(failed, true), gc.Equals, service.DecisionMigrate)
}

func (s *serviceSuite) TestValidateFilter(c *gc.C) {
	info := coremigration.ResourceTypeDescriptor{
		Service:         "glance",
		ResourceType:    "image",
		BatchFilterKeys: []string{"owner-id", "name"},
	}
	c.Check(service.ValidateFilter(coremigration.Filter{"owner-id": "x"}, info), jc.ErrorIsNil)
	c.Check(service.ValidateFilter(coremigration.Filter{}, info), jc.ErrorIsNil)
	err := service.ValidateFilter(coremigration.Filter{"flavour": "large"}, info)
	c.Check(err, jc.ErrorIs, migrationerrors.InvalidFilter)
}

// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package keystone implements the project migration handler. The
// handler is a no-op placeholder: projects are assumed to exist on
// both clouds under the same name, so migrating one only establishes
// the source-to-destination id mapping other handlers resolve
// references through.
package keystone

import (
	"context"
	"net/url"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	"github.com/canonical/sunbeam-migrate/internal/handlers"
	"github.com/canonical/sunbeam-migrate/internal/openstack"
)

var logger = loggo.GetLogger("sunbeammigrate.handlers.keystone")

const (
	serviceName = "keystone"

	// FilterName selects projects by exact name.
	FilterName = "name"
	// FilterDomainID selects projects within one domain.
	FilterDomainID = "domain-id"
)

// ProjectAPI is the slice of the cloud session the project handler
// consumes.
type ProjectAPI interface {
	ListProjects(params url.Values) ([]openstack.Project, error)
	GetProject(id string) (openstack.Project, error)
}

// ProjectHandler maps source projects onto equally named destination
// projects. No resource is created or deleted on either side.
type ProjectHandler struct {
	source      ProjectAPI
	destination ProjectAPI
}

// NewProjectHandler returns a project mapping handler.
func NewProjectHandler(source, destination ProjectAPI) *ProjectHandler {
	return &ProjectHandler{source: source, destination: destination}
}

// Info is part of the Handler interface.
func (h *ProjectHandler) Info() coremigration.ResourceTypeDescriptor {
	return coremigration.ResourceTypeDescriptor{
		Service:         serviceName,
		ResourceType:    "project",
		BatchFilterKeys: []string{FilterName, FilterDomainID},
		Readiness:       coremigration.ReadinessNoOp,
	}
}

// ListCandidates is part of the Handler interface.
func (h *ProjectHandler) ListCandidates(ctx context.Context, filter coremigration.Filter) ([]string, error) {
	if err := handlers.ValidateFilter(filter, h.Info()); err != nil {
		return nil, errors.Trace(err)
	}
	params := url.Values{}
	if name, ok := filter[FilterName]; ok {
		params.Set("name", name)
	}
	if domainID, ok := filter[FilterDomainID]; ok {
		params.Set("domain_id", domainID)
	}
	projects, err := h.source.ListProjects(params)
	if err != nil {
		return nil, errors.Trace(err)
	}
	ids := make([]string, len(projects))
	for i, project := range projects {
		ids[i] = project.ID
	}
	return ids, nil
}

// Migrate is part of the Handler interface. It performs no transfer:
// the destination project with the same name is located and its id
// recorded as the migration result.
func (h *ProjectHandler) Migrate(ctx context.Context, sourceID string, dryRun bool) (string, error) {
	project, err := h.source.GetProject(sourceID)
	if err != nil {
		return "", errors.Trace(err)
	}
	params := url.Values{}
	params.Set("name", project.Name)
	matches, err := h.destination.ListProjects(params)
	if err != nil {
		return "", errors.Trace(err)
	}
	if len(matches) == 0 {
		return "", errors.NotFoundf("project %q on destination cloud", project.Name)
	}
	if len(matches) > 1 {
		return "", errors.Errorf("project name %q is ambiguous on destination cloud (%d matches)",
			project.Name, len(matches))
	}
	if dryRun {
		return "", nil
	}
	logger.Infof("mapped project %s (%s) onto destination project %s",
		sourceID, project.Name, matches[0].ID)
	return matches[0].ID, nil
}

// DeleteSource is part of the Handler interface. Projects are never
// deleted by this tool.
func (h *ProjectHandler) DeleteSource(ctx context.Context, sourceID string, dryRun bool) error {
	return errors.NotSupportedf("deleting source projects")
}

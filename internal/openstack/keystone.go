// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package openstack

import (
	"net/url"

	"github.com/juju/errors"
)

const (
	identityService    = "identity"
	identityAPIVersion = "v3"
)

// Project is a Keystone project.
type Project struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DomainID    string `json:"domain_id,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// ListProjects returns projects narrowed by the query parameters.
// Listing requires an identity role that can see the projects in
// question, typically admin.
func (s *Session) ListProjects(params url.Values) ([]Project, error) {
	var resp struct {
		Projects []Project `json:"projects"`
	}
	if err := s.get(identityService, identityAPIVersion, "projects", params, &resp); err != nil {
		return nil, errors.Annotate(err, "listing projects")
	}
	return resp.Projects, nil
}

// GetProject returns one project by id.
func (s *Session) GetProject(id string) (Project, error) {
	var resp struct {
		Project Project `json:"project"`
	}
	err := s.get(identityService, identityAPIVersion, "projects/"+id, nil, &resp)
	return resp.Project, errors.Annotatef(err, "getting project %q", id)
}

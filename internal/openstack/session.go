// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package openstack provides an authenticated session against one
// OpenStack cloud and typed accessors for the resources the migration
// handlers move. The session is a thin layer over goose: identity
// handles the Keystone dance, and each resource call goes through the
// token-aware REST client with the service catalogue resolving
// endpoints.
package openstack

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-goose/goose/v5/client"
	gooseerrors "github.com/go-goose/goose/v5/errors"
	goosehttp "github.com/go-goose/goose/v5/http"
	"github.com/go-goose/goose/v5/identity"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/retry"
)

var logger = loggo.GetLogger("sunbeammigrate.openstack")

// Credential holds everything needed to authenticate against one
// cloud's Keystone.
type Credential struct {
	AuthURL           string
	Username          string
	Password          string
	ProjectName       string
	ProjectID         string
	DomainName        string
	UserDomainName    string
	ProjectDomainName string
	Region            string
	Version           int
	SkipTLSVerify     bool
}

// Session is an authenticated connection to a single cloud.
type Session struct {
	name   string
	client client.AuthenticatingClient
}

// NewSession authenticates against the cloud and returns a session.
// Authentication is retried a few times to ride out a briefly
// unavailable Keystone.
func NewSession(name string, cred Credential, clk clock.Clock) (*Session, error) {
	creds, authMode, err := newCredentials(cred)
	if err != nil {
		return nil, errors.Trace(err)
	}
	newClient := client.NewClient
	if cred.SkipTLSVerify {
		logger.Warningf("cloud %q: TLS certificate validation disabled", name)
		newClient = client.NewNonValidatingClient
	}
	cl := newClient(&creds, authMode, nil)

	err = retry.Call(retry.CallArgs{
		Func: func() error {
			return cl.Authenticate()
		},
		IsFatalError: func(err error) bool {
			return gooseerrors.IsUnauthorised(err)
		},
		NotifyFunc: func(err error, attempt int) {
			logger.Debugf("authenticating against %q, attempt %d: %v", name, attempt, err)
		},
		Attempts: 3,
		Delay:    time.Second,
		Clock:    clk,
	})
	if err != nil {
		return nil, errors.Annotatef(err, "authenticating against cloud %q", name)
	}
	return &Session{name: name, client: cl}, nil
}

// newCredentials maps a Credential onto goose identity credentials,
// choosing the auth mode from the configured Keystone version.
func newCredentials(cred Credential) (identity.Credentials, identity.AuthMode, error) {
	creds := identity.Credentials{
		URL:           cred.AuthURL,
		User:          cred.Username,
		Secrets:       cred.Password,
		Region:        cred.Region,
		TenantName:    cred.ProjectName,
		TenantID:      cred.ProjectID,
		Domain:        cred.DomainName,
		UserDomain:    cred.UserDomainName,
		ProjectDomain: cred.ProjectDomainName,
		Version:       cred.Version,
	}
	var authMode identity.AuthMode
	switch cred.Version {
	case 0, 3:
		authMode = identity.AuthUserPassV3
	case 2:
		authMode = identity.AuthUserPass
	default:
		return identity.Credentials{}, 0,
			errors.NotValidf("identity API version %d", cred.Version)
	}
	return creds, authMode, nil
}

// Name returns the configured cloud name.
func (s *Session) Name() string {
	return s.name
}

// EndpointForService resolves the catalogue URL for a service type in
// the session's region.
func (s *Session) EndpointForService(serviceType string) (string, error) {
	u, err := s.client.MakeServiceURL(serviceType, "", nil)
	return u, errors.Trace(err)
}

// get issues a GET for a JSON resource on the given service.
func (s *Session) get(serviceType, apiVersion, path string, params url.Values, resp any) error {
	req := &goosehttp.RequestData{
		RespValue:      resp,
		ExpectedStatus: []int{http.StatusOK},
	}
	if len(params) > 0 {
		req.Params = &params
	}
	return s.client.SendRequest("GET", serviceType, apiVersion, path, req)
}

// post issues a POST creating a JSON resource on the given service.
func (s *Session) post(serviceType, apiVersion, path string, body, resp any, expected ...int) error {
	if len(expected) == 0 {
		expected = []int{http.StatusCreated, http.StatusOK, http.StatusAccepted}
	}
	req := &goosehttp.RequestData{
		ReqValue:       body,
		RespValue:      resp,
		ExpectedStatus: expected,
	}
	return s.client.SendRequest("POST", serviceType, apiVersion, path, req)
}

// put issues a PUT updating a JSON resource on the given service.
func (s *Session) put(serviceType, apiVersion, path string, body, resp any, expected ...int) error {
	if len(expected) == 0 {
		expected = []int{http.StatusOK, http.StatusNoContent}
	}
	req := &goosehttp.RequestData{
		ReqValue:       body,
		RespValue:      resp,
		ExpectedStatus: expected,
	}
	return s.client.SendRequest("PUT", serviceType, apiVersion, path, req)
}

// delete issues a DELETE on the given service.
func (s *Session) delete(serviceType, apiVersion, path string) error {
	req := &goosehttp.RequestData{
		ExpectedStatus: []int{http.StatusNoContent, http.StatusAccepted, http.StatusOK},
	}
	return s.client.SendRequest("DELETE", serviceType, apiVersion, path, req)
}

// IsNotFound reports whether the error is the cloud saying the
// resource does not exist. Idempotent deletes lean on this.
func IsNotFound(err error) bool {
	return gooseerrors.IsNotFound(errors.Cause(err))
}

// IsDuplicate reports whether the error is the cloud rejecting a
// create because an equivalent resource already exists.
func IsDuplicate(err error) bool {
	return gooseerrors.IsDuplicateValue(errors.Cause(err))
}

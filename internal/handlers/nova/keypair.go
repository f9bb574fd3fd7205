// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package nova implements the keypair migration handler. Keypairs are
// small enough to migrate fully: the public key is re-imported on the
// destination under the same name.
package nova

import (
	"context"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	"github.com/canonical/sunbeam-migrate/internal/handlers"
	"github.com/canonical/sunbeam-migrate/internal/openstack"
)

var logger = loggo.GetLogger("sunbeammigrate.handlers.nova")

const (
	serviceName = "nova"

	// FilterName selects a keypair by exact name. Nova's keypair
	// listing has no server-side filters, so this is applied client
	// side.
	FilterName = "name"
)

// KeyPairAPI is the slice of the cloud session the keypair handler
// consumes.
type KeyPairAPI interface {
	ListKeyPairs() ([]openstack.KeyPair, error)
	GetKeyPair(name string) (openstack.KeyPair, error)
	ImportKeyPair(name, publicKey string) (openstack.KeyPair, error)
	DeleteKeyPair(name string) error
}

// KeyPairHandler migrates Nova SSH keypairs. Keypairs are identified
// by name rather than uuid; the name doubles as both source and
// destination id.
type KeyPairHandler struct {
	source      KeyPairAPI
	destination KeyPairAPI
}

// NewKeyPairHandler returns a keypair migration handler.
func NewKeyPairHandler(source, destination KeyPairAPI) *KeyPairHandler {
	return &KeyPairHandler{source: source, destination: destination}
}

// Info is part of the Handler interface.
func (h *KeyPairHandler) Info() coremigration.ResourceTypeDescriptor {
	return coremigration.ResourceTypeDescriptor{
		Service:         serviceName,
		ResourceType:    "keypair",
		BatchFilterKeys: []string{FilterName},
		Readiness:       coremigration.ReadinessFull,
	}
}

// ListCandidates is part of the Handler interface.
func (h *KeyPairHandler) ListCandidates(ctx context.Context, filter coremigration.Filter) ([]string, error) {
	if err := handlers.ValidateFilter(filter, h.Info()); err != nil {
		return nil, errors.Trace(err)
	}
	keypairs, err := h.source.ListKeyPairs()
	if err != nil {
		return nil, errors.Trace(err)
	}
	wantName, filterByName := filter[FilterName]
	var names []string
	for _, keypair := range keypairs {
		if filterByName && keypair.Name != wantName {
			continue
		}
		names = append(names, keypair.Name)
	}
	return names, nil
}

// Migrate is part of the Handler interface.
func (h *KeyPairHandler) Migrate(ctx context.Context, sourceID string, dryRun bool) (string, error) {
	keypair, err := h.source.GetKeyPair(sourceID)
	if err != nil {
		return "", errors.Trace(err)
	}
	if dryRun {
		return "", nil
	}
	created, err := h.destination.ImportKeyPair(keypair.Name, keypair.PublicKey)
	if err != nil {
		return "", errors.Trace(err)
	}
	return created.Name, nil
}

// DeleteSource is part of the Handler interface.
func (h *KeyPairHandler) DeleteSource(ctx context.Context, sourceID string, dryRun bool) error {
	if dryRun {
		logger.Infof("DRY-RUN: would delete source keypair %s", sourceID)
		return nil
	}
	err := h.source.DeleteKeyPair(sourceID)
	if err != nil && !openstack.IsNotFound(err) {
		return errors.Trace(err)
	}
	return nil
}

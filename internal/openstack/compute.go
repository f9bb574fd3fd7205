// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package openstack

import (
	"github.com/juju/errors"
)

const (
	computeService    = "compute"
	computeAPIVersion = "v2"
)

// KeyPair is a Nova SSH keypair. Keypairs are identified by name and
// owned by the authenticated user; only the public half is ever
// readable, which is also all a migration needs.
type KeyPair struct {
	Name        string `json:"name"`
	PublicKey   string `json:"public_key"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Type        string `json:"type,omitempty"`
}

// ListKeyPairs returns the caller's keypairs.
func (s *Session) ListKeyPairs() ([]KeyPair, error) {
	var resp struct {
		KeyPairs []struct {
			KeyPair KeyPair `json:"keypair"`
		} `json:"keypairs"`
	}
	if err := s.get(computeService, computeAPIVersion, "os-keypairs", nil, &resp); err != nil {
		return nil, errors.Annotate(err, "listing keypairs")
	}
	keypairs := make([]KeyPair, len(resp.KeyPairs))
	for i, k := range resp.KeyPairs {
		keypairs[i] = k.KeyPair
	}
	return keypairs, nil
}

// GetKeyPair returns one keypair by name.
func (s *Session) GetKeyPair(name string) (KeyPair, error) {
	var resp struct {
		KeyPair KeyPair `json:"keypair"`
	}
	err := s.get(computeService, computeAPIVersion, "os-keypairs/"+name, nil, &resp)
	return resp.KeyPair, errors.Annotatef(err, "getting keypair %q", name)
}

// ImportKeyPair registers an existing public key under the given name.
func (s *Session) ImportKeyPair(name, publicKey string) (KeyPair, error) {
	req := struct {
		KeyPair KeyPair `json:"keypair"`
	}{KeyPair{Name: name, PublicKey: publicKey}}
	var resp struct {
		KeyPair KeyPair `json:"keypair"`
	}
	err := s.post(computeService, computeAPIVersion, "os-keypairs", &req, &resp)
	return resp.KeyPair, errors.Annotatef(err, "importing keypair %q", name)
}

// DeleteKeyPair deletes a keypair by name.
func (s *Session) DeleteKeyPair(name string) error {
	err := s.delete(computeService, computeAPIVersion, "os-keypairs/"+name)
	return errors.Annotatef(err, "deleting keypair %q", name)
}

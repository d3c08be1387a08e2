/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package vdr resolves identities to their verification keys.
package vdr

import (
	"context"
	"errors"
	"fmt"

	"github.com/attest-framework/attest-framework-go/pkg/crypto/signature"
)

// ErrNotFound is returned when a DID does not exist.
var ErrNotFound = errors.New("DID does not exist")

// Resolver resolves a DID to its current key material.
type Resolver interface {
	Resolve(ctx context.Context, did string) (*DocResolution, error)
}

// MethodResolver is a Resolver bound to a set of DID methods.
type MethodResolver interface {
	Resolver
	Accept(method string) bool
}

// VerificationMethod is a public key published by a DID.
type VerificationMethod struct {
	ID         string
	Controller string
	PublicKey  signature.PublicKey
}

// DocResolution is the resolved state of a DID.
type DocResolution struct {
	ID                  string
	VerificationMethods []VerificationMethod
	Deactivated         bool
}

// VerificationMethod finds the key with the given id. An empty id selects the first key
// of the given type.
func (d *DocResolution) VerificationMethod(keyID string, kt signature.KeyType) (*VerificationMethod, error) {
	for i := range d.VerificationMethods {
		vm := &d.VerificationMethods[i]

		if keyID != "" && vm.ID != keyID {
			continue
		}

		if vm.PublicKey.Type != kt {
			continue
		}

		return vm, nil
	}

	if keyID != "" {
		return nil, fmt.Errorf("verification method %s of type %s not found in %s", keyID, kt, d.ID)
	}

	return nil, fmt.Errorf("no verification method of type %s in %s", kt, d.ID)
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ledger defines the read capability over the public attestation ledger.
package ledger

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no attestation is anchored under a claim hash.
var ErrNotFound = errors.New("attestation not found on ledger")

// Record is the on-ledger state of an attestation.
type Record struct {
	Owner        string
	SchemaHash   string
	DelegationID string
	Revoked      bool
}

// Reader looks up attestation records by claim hash.
type Reader interface {
	QueryAttestation(ctx context.Context, claimHash string) (*Record, error)
}

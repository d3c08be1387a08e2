/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/attest-framework/attest-framework-go/pkg/common/verifyerr"
	"github.com/attest-framework/attest-framework-go/pkg/ledger"
)

// Attestation is an issuer's statement that a request's root hash is attested. The
// authoritative revocation state lives on the ledger, Revoked is a local snapshot.
type Attestation struct {
	ClaimHash    string `json:"claimHash"`
	SchemaHash   string `json:"cTypeHash"`
	Owner        string `json:"owner"`
	DelegationID string `json:"delegationId,omitempty"`
	Revoked      bool   `json:"revoked"`
}

// NewAttestation binds an attestation by issuer to the request's root hash. The
// request's integrity is checked first; its signature must be checked by the caller
// with VerifySignature.
func NewAttestation(req *RequestForAttestation, issuer string) (*Attestation, error) {
	if issuer == "" {
		return nil, verifyerr.New(verifyerr.MissingOwner, "attestation has no issuer")
	}

	if err := req.VerifyData(); err != nil {
		return nil, fmt.Errorf("attest request: %w", err)
	}

	return &Attestation{
		ClaimHash:    req.RootHash,
		SchemaHash:   req.Claim.SchemaHash,
		Owner:        issuer,
		DelegationID: req.DelegationID,
	}, nil
}

// VerifyAgainstRequest checks that the attestation covers req.
func (a *Attestation) VerifyAgainstRequest(req *RequestForAttestation) error {
	if req.Claim == nil || a.SchemaHash != req.Claim.SchemaHash {
		return verifyerr.New(verifyerr.SchemaOrRootMismatch, "schema hash differs between request and attestation")
	}

	if a.ClaimHash != req.RootHash {
		return verifyerr.New(verifyerr.SchemaOrRootMismatch, "attestation claim hash %s does not match root hash %s",
			a.ClaimHash, req.RootHash)
	}

	if a.DelegationID != req.DelegationID {
		return verifyerr.New(verifyerr.SchemaOrRootMismatch, "delegation id differs between request and attestation")
	}

	return nil
}

// CheckValidity compares the attestation with its ledger record.
func (a *Attestation) CheckValidity(ctx context.Context, reader ledger.Reader) error {
	if reader == nil {
		return verifyerr.New(verifyerr.LedgerUnavailable, "no ledger configured")
	}

	record, err := reader.QueryAttestation(ctx, a.ClaimHash)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return verifyerr.Wrap(verifyerr.NotFound, err, a.ClaimHash)
		}

		logger.Warnf("ledger query for %s failed: %v", a.ClaimHash, err)

		return verifyerr.Wrap(verifyerr.LedgerUnavailable, err, a.ClaimHash)
	}

	if record.Owner != a.Owner {
		return verifyerr.New(verifyerr.OwnerMismatch, "ledger owner %s, attestation owner %s", record.Owner, a.Owner)
	}

	// Ledgers that only track owner and revocation leave SchemaHash and DelegationID empty.
	if record.SchemaHash != "" && record.SchemaHash != a.SchemaHash {
		return verifyerr.New(verifyerr.LedgerRecordMismatch, "ledger schema hash differs from attestation %s", a.ClaimHash)
	}

	if record.DelegationID != "" && record.DelegationID != a.DelegationID {
		return verifyerr.New(verifyerr.LedgerRecordMismatch, "ledger delegation id differs from attestation %s",
			a.ClaimHash)
	}

	if record.Revoked {
		return verifyerr.New(verifyerr.Revoked, "attestation %s", a.ClaimHash)
	}

	return nil
}

// IsRevoked queries the ledger for the revocation state.
func (a *Attestation) IsRevoked(ctx context.Context, reader ledger.Reader) (bool, error) {
	err := a.CheckValidity(ctx, reader)

	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, verifyerr.Revoked):
		return true, nil
	default:
		return false, err
	}
}

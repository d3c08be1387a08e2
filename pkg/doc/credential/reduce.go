/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package credential

import (
	"github.com/attest-framework/attest-framework-go/pkg/crypto/hashing"
	"github.com/attest-framework/attest-framework-go/pkg/doc/claim"
)

// Reduce returns a copy of the request disclosing only the selected properties.
// Unknown names are ignored. Claim hashes, root hash and signature stay untouched, so
// the copy still verifies against the original attestation.
func (r *RequestForAttestation) Reduce(selected []string) (*RequestForAttestation, error) {
	if err := r.checkClaim(); err != nil {
		return nil, err
	}

	keep := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		keep[s] = struct{}{}
	}

	var hide []string

	for k := range r.Claim.Contents {
		if _, ok := keep[k]; !ok {
			hide = append(hide, k)
		}
	}

	return r.RemoveProperties(hide)
}

// RemoveProperties returns a copy of the request without the hidden properties and
// without the nonces that would open them.
func (r *RequestForAttestation) RemoveProperties(hide []string) (*RequestForAttestation, error) {
	if err := r.checkClaim(); err != nil {
		return nil, err
	}

	reduced := r.Copy()

	for _, k := range hide {
		delete(reduced.Claim.Contents, k)
	}

	commitment, err := claim.HashContents(reduced.Claim, hashing.WithNonces(r.ClaimNonceMap))
	if err != nil {
		return nil, err
	}

	reduced.ClaimNonceMap = commitment.NonceMap

	logger.Debugf("reduced request %s to %d properties", r.RootHash, len(reduced.Claim.Contents))

	return reduced, nil
}

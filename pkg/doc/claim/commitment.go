/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package claim

import (
	"errors"

	"golang.org/x/exp/slices"

	"github.com/attest-framework/attest-framework-go/pkg/common/verifyerr"
	"github.com/attest-framework/attest-framework-go/pkg/crypto/hashing"
)

// NonceMap maps a statement digest to the salt used for its commitment.
type NonceMap map[string]string

// Copy returns a copy of the nonce map.
func (n NonceMap) Copy() NonceMap {
	if n == nil {
		return nil
	}

	out := make(NonceMap, len(n))
	for k, v := range n {
		out[k] = v
	}

	return out
}

// Commitment holds the salted hashes of a claim's statements, sorted ascending, and the
// salts needed to open them.
type Commitment struct {
	Hashes   []string
	NonceMap NonceMap
}

// HashContents commits to every property of the claim. Pass hashing.WithNonces to
// reproduce an earlier commitment.
func HashContents(c *Claim, opts ...hashing.Opt) (*Commitment, error) {
	statements, err := MakeStatements(c)
	if err != nil {
		return nil, err
	}

	hashed, err := hashing.HashStatements(statements, opts...)
	if err != nil {
		return nil, err
	}

	commitment := &Commitment{
		Hashes:   make([]string, 0, len(hashed)),
		NonceMap: make(NonceMap, len(hashed)),
	}

	for _, h := range hashed {
		commitment.Hashes = append(commitment.Hashes, h.SaltedHash)
		commitment.NonceMap[h.Digest] = h.Nonce
	}

	slices.Sort(commitment.Hashes)

	return commitment, nil
}

// Proof is what a verifier needs to open disclosed statements: all salted hashes of the
// original claim and the salts of the disclosed ones.
type Proof struct {
	Hashes []string
	Nonces NonceMap
}

// DisclosureResult is the outcome of VerifyDisclosedAttributes.
type DisclosureResult struct {
	Verified bool
	Errors   []error
}

// Err joins all failures, or returns nil when verified.
func (r DisclosureResult) Err() error {
	if r.Verified {
		return nil
	}

	return errors.Join(r.Errors...)
}

// VerifyDisclosedAttributes checks that every property still present in the (possibly
// partial) claim opens to one of the proof's salted hashes. All failures are collected.
func VerifyDisclosedAttributes(c *Claim, proof Proof) DisclosureResult {
	statements, err := MakeStatements(c)
	if err != nil {
		return DisclosureResult{Errors: []error{err}}
	}

	var errs []error

	for _, statement := range statements {
		digest := hashing.HashString(statement)

		nonce, ok := proof.Nonces[digest]
		if !ok {
			errs = append(errs, verifyerr.New(verifyerr.NoProofForStatement, "statement digest %s", digest))

			continue
		}

		if !slices.Contains(proof.Hashes, hashing.SaltedHash(digest, nonce)) {
			errs = append(errs, verifyerr.New(verifyerr.InvalidProofForStatement, "statement digest %s", digest))
		}
	}

	if len(errs) > 0 {
		logger.Debugf("disclosure check failed for %d of %d statements", len(errs), len(statements))
	}

	return DisclosureResult{Verified: len(errs) == 0, Errors: errs}
}

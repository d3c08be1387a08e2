/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/attest-framework/attest-framework-go/pkg/common/verifyerr"
	"github.com/attest-framework/attest-framework-go/pkg/crypto/hashing"
	"github.com/attest-framework/attest-framework-go/pkg/crypto/signature"
	"github.com/attest-framework/attest-framework-go/pkg/doc/claim"
	"github.com/attest-framework/attest-framework-go/pkg/vdr"
)

var logger = log.New("attest-framework/doc/credential")

// RequestForAttestation is a claim with its commitments, ready to be attested.
type RequestForAttestation struct {
	Claim            *claim.Claim         `json:"claim"`
	Legitimations    []*Credential        `json:"legitimations"`
	ClaimerSignature *signature.Signature `json:"claimerSignature,omitempty"`
	ClaimHashes      []string             `json:"claimHashes"`
	ClaimNonceMap    claim.NonceMap       `json:"claimNonceMap"`
	RootHash         string               `json:"rootHash"`
	DelegationID     string               `json:"delegationId,omitempty"`
}

type requestOpts struct {
	legitimations []*Credential
	delegationID  string
	hashingOpts   []hashing.Opt
}

// RequestOpt configures NewRequest.
type RequestOpt func(opts *requestOpts)

// WithLegitimations attaches credentials of the attesters vouching for the claimer.
func WithLegitimations(legitimations ...*Credential) RequestOpt {
	return func(opts *requestOpts) {
		opts.legitimations = append(opts.legitimations, legitimations...)
	}
}

// WithDelegationID binds the request to a delegation node.
func WithDelegationID(id string) RequestOpt {
	return func(opts *requestOpts) {
		opts.delegationID = id
	}
}

// WithHashingOpts passes options to the statement commitment, e.g. a nonce generator.
func WithHashingOpts(hashingOpts ...hashing.Opt) RequestOpt {
	return func(opts *requestOpts) {
		opts.hashingOpts = append(opts.hashingOpts, hashingOpts...)
	}
}

// NewRequest commits to every property of c and computes the root hash. The request is
// not signed yet.
func NewRequest(c *claim.Claim, opts ...RequestOpt) (*RequestForAttestation, error) {
	o := &requestOpts{}

	for _, opt := range opts {
		opt(o)
	}

	if c == nil {
		return nil, errors.New("claim is required")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	if o.delegationID != "" && !hashing.IsHash(o.delegationID) {
		return nil, verifyerr.New(verifyerr.MalformedHash, "delegation id %q", o.delegationID)
	}

	for i, l := range o.legitimations {
		if l == nil || l.Attestation == nil || !hashing.IsHash(l.Attestation.ClaimHash) {
			return nil, verifyerr.New(verifyerr.MalformedHash, "legitimation %d has no valid attestation claim hash", i)
		}
	}

	commitment, err := claim.HashContents(c, o.hashingOpts...)
	if err != nil {
		return nil, err
	}

	r := &RequestForAttestation{
		Claim:         c.Copy(),
		Legitimations: o.legitimations,
		ClaimHashes:   commitment.Hashes,
		ClaimNonceMap: commitment.NonceMap,
		DelegationID:  o.delegationID,
	}

	r.RootHash, err = r.CalculateRootHash()
	if err != nil {
		return nil, err
	}

	logger.Debugf("created request for attestation %s with %d statements", r.RootHash, len(r.ClaimHashes))

	return r, nil
}

// LegitimationHashes returns the attestation claim hashes of the legitimations in order.
func (r *RequestForAttestation) LegitimationHashes() []string {
	hashes := make([]string, 0, len(r.Legitimations))

	for _, l := range r.Legitimations {
		if l != nil && l.Attestation != nil {
			hashes = append(hashes, l.Attestation.ClaimHash)
		}
	}

	return hashes
}

// CalculateRootHash aggregates the request's hashes into its root hash.
func (r *RequestForAttestation) CalculateRootHash() (string, error) {
	return CalculateRootHash(r.ClaimHashes, r.LegitimationHashes(), r.DelegationID)
}

// CalculateRootHash hashes the concatenation of the claim hashes, the legitimation
// attestation claim hashes in the given order and the delegation id, if any.
func CalculateRootHash(claimHashes, legitimationHashes []string, delegationID string) (string, error) {
	parts := make([]string, 0, len(claimHashes)+len(legitimationHashes)+1)
	parts = append(parts, claimHashes...)
	parts = append(parts, legitimationHashes...)

	if delegationID != "" {
		parts = append(parts, delegationID)
	}

	buf := make([]byte, 0, len(parts)*hashing.Size)

	for _, p := range parts {
		b, err := hashing.Decode(p)
		if err != nil {
			return "", err
		}

		buf = append(buf, b...)
	}

	return hashing.Hash(buf), nil
}

// VerifyRootHash recomputes the root hash.
func (r *RequestForAttestation) VerifyRootHash() error {
	root, err := r.CalculateRootHash()
	if err != nil {
		return verifyerr.Wrap(verifyerr.RootHashMismatch, err, "recompute root hash")
	}

	if root != r.RootHash {
		return verifyerr.New(verifyerr.RootHashMismatch, "expected %s, got %s", r.RootHash, root)
	}

	return nil
}

// VerifyDisclosure checks that every property still in the claim opens to a claim hash.
func (r *RequestForAttestation) VerifyDisclosure() error {
	result := claim.VerifyDisclosedAttributes(r.Claim, claim.Proof{
		Hashes: r.ClaimHashes,
		Nonces: r.ClaimNonceMap,
	})

	if !result.Verified {
		return verifyerr.Wrap(verifyerr.DisclosureProofFailed, result.Err(), "")
	}

	return nil
}

// VerifyData runs the local integrity checks: root hash and disclosed properties.
func (r *RequestForAttestation) VerifyData() error {
	if err := r.checkClaim(); err != nil {
		return err
	}

	if err := r.VerifyRootHash(); err != nil {
		return err
	}

	return r.VerifyDisclosure()
}

// Sign returns a copy of the request signed over its root hash by identity, which must
// own the claim.
func (r *RequestForAttestation) Sign(signer signature.Signer, identity string) (*RequestForAttestation, error) {
	if err := r.checkClaim(); err != nil {
		return nil, err
	}

	if identity != r.Claim.Owner {
		return nil, fmt.Errorf("signer %s is not the claim owner %s", identity, r.Claim.Owner)
	}

	msg, err := hashing.Decode(r.RootHash)
	if err != nil {
		return nil, err
	}

	sig, err := signer.Sign(identity, msg)
	if err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}

	signed := r.Copy()
	signed.ClaimerSignature = sig

	return signed, nil
}

// VerifySignature checks the claimer signature against the owner's current keys.
func (r *RequestForAttestation) VerifySignature(ctx context.Context, resolver vdr.Resolver) error {
	if err := r.checkClaim(); err != nil {
		return err
	}

	if r.ClaimerSignature == nil {
		return verifyerr.New(verifyerr.SignatureUnverifiable, "request is not signed")
	}

	msg, err := hashing.Decode(r.RootHash)
	if err != nil {
		return verifyerr.Wrap(verifyerr.SignatureUnverifiable, err, "root hash")
	}

	return VerifySubjectSignature(ctx, resolver, r.Claim.Owner, msg, r.ClaimerSignature)
}

// VerifySubjectSignature verifies sig over msg with a current key of did. Unknown keys
// and bad signatures yield SignatureUnverifiable, a deactivated did IdentityDeactivated
// and resolver failures ResolverUnavailable.
func VerifySubjectSignature(ctx context.Context, resolver vdr.Resolver, did string, msg []byte,
	sig *signature.Signature) error {
	if resolver == nil {
		return verifyerr.New(verifyerr.ResolverUnavailable, "no resolver configured")
	}

	doc, err := resolver.Resolve(ctx, did)
	if err != nil {
		if errors.Is(err, vdr.ErrNotFound) {
			return verifyerr.Wrap(verifyerr.SignatureUnverifiable, err, did)
		}

		logger.Warnf("resolve %s failed: %v", did, err)

		return verifyerr.Wrap(verifyerr.ResolverUnavailable, err, did)
	}

	if doc.Deactivated {
		return verifyerr.New(verifyerr.IdentityDeactivated, "%s is deactivated", did)
	}

	vm, err := doc.VerificationMethod(sig.KeyID, sig.KeyType)
	if err != nil {
		return verifyerr.Wrap(verifyerr.SignatureUnverifiable, err, "")
	}

	if err := signature.Verify(&vm.PublicKey, msg, sig); err != nil {
		return verifyerr.Wrap(verifyerr.SignatureUnverifiable, err, vm.ID)
	}

	return nil
}

func (r *RequestForAttestation) checkClaim() error {
	if r == nil || r.Claim == nil {
		return verifyerr.New(verifyerr.SchemaOrRootMismatch, "request has no claim")
	}

	return nil
}

// Copy returns a deep copy. Legitimations are shared, they are never modified.
func (r *RequestForAttestation) Copy() *RequestForAttestation {
	cp := *r

	if r.Claim != nil {
		cp.Claim = r.Claim.Copy()
	}

	cp.ClaimHashes = append([]string(nil), r.ClaimHashes...)
	cp.ClaimNonceMap = r.ClaimNonceMap.Copy()
	cp.Legitimations = append([]*Credential(nil), r.Legitimations...)

	if r.ClaimerSignature != nil {
		sig := *r.ClaimerSignature
		sig.Value = append([]byte(nil), r.ClaimerSignature.Value...)
		cp.ClaimerSignature = &sig
	}

	return &cp
}

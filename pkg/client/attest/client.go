/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package attest is the SDK client for the three parties of the credential flow:
// claimers create commitments and presentations, attesters bind attestations and
// verifiers check credentials and presentations.
package attest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/attest-framework/attest-framework-go/pkg/crypto/signature"
	"github.com/attest-framework/attest-framework-go/pkg/doc/claim"
	"github.com/attest-framework/attest-framework-go/pkg/doc/credential"
	"github.com/attest-framework/attest-framework-go/pkg/doc/presentation"
	"github.com/attest-framework/attest-framework-go/pkg/ledger"
	"github.com/attest-framework/attest-framework-go/pkg/vdr"
)

var logger = log.New("attest-framework/client/attest")

// ErrNoSigner is returned when an operation needs a signer and none is configured.
var ErrNoSigner = errors.New("no signer configured")

type provider interface {
	Signer() signature.Signer
	VDRegistry() vdr.Resolver
	Ledger() ledger.Reader
}

// Client is an attest SDK client.
type Client struct {
	signer        signature.Signer
	resolver      vdr.Resolver
	ledger        ledger.Reader
	ledgerTimeout time.Duration
	concurrency   int
}

// Option configures the client.
type Option func(c *Client)

// WithLedgerTimeout bounds every ledger lookup made by the client.
func WithLedgerTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.ledgerTimeout = d
	}
}

// WithConcurrency bounds how many credentials of a presentation are checked at once.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		c.concurrency = n
	}
}

// New creates an attest Client. Any capability of prov may be nil; operations that
// need a missing capability fail.
func New(prov provider, opts ...Option) *Client {
	c := &Client{
		signer:        prov.Signer(),
		resolver:      prov.VDRegistry(),
		ledger:        prov.Ledger(),
		ledgerTimeout: credential.DefaultLedgerTimeout,
		concurrency:   presentation.DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CreateCommitment commits to every property of cl and signs the root hash as the claim
// owner when a signer is configured.
func (c *Client) CreateCommitment(cl *claim.Claim, opts ...credential.RequestOpt) (*credential.RequestForAttestation, error) {
	req, err := credential.NewRequest(cl, opts...)
	if err != nil {
		return nil, fmt.Errorf("create commitment: %w", err)
	}

	if c.signer == nil {
		return req, nil
	}

	return req.Sign(c.signer, cl.Owner)
}

// BindAttestation checks the request's integrity and claimer signature and attests it
// as issuer. Anchoring the attestation on the ledger is left to the caller.
func (c *Client) BindAttestation(ctx context.Context, req *credential.RequestForAttestation,
	issuer string) (*credential.Attestation, error) {
	if req == nil || req.Claim == nil {
		return nil, errors.New("request with a claim is required")
	}

	if err := req.VerifySignature(ctx, c.resolver); err != nil {
		return nil, fmt.Errorf("bind attestation: %w", err)
	}

	att, err := credential.NewAttestation(req, issuer)
	if err != nil {
		return nil, err
	}

	logger.Debugf("%s attested %s", issuer, att.ClaimHash)

	return att, nil
}

// VerifyCredential runs the chain-of-custody checks with the client's capabilities.
// opts are applied after the client's own.
func (c *Client) VerifyCredential(ctx context.Context, cred *credential.Credential,
	opts ...credential.VerifyOpt) credential.Result {
	return credential.Verify(ctx, cred, append(c.verifyOpts(), opts...)...)
}

// ReducePresentation presents a single credential, reduced and signed per opts. The
// client's signer is used unless opts name another.
func (c *Client) ReducePresentation(cred *credential.Credential,
	opts ...presentation.Opt) (*presentation.Presentation, error) {
	var all []presentation.Opt

	if c.signer != nil {
		all = append(all, presentation.WithSigner(c.signer))
	}

	return presentation.New([]*credential.Credential{cred}, append(all, opts...)...)
}

// CreatePresentation presents several credentials of one subject, signed over
// challenge.
func (c *Client) CreatePresentation(creds []*credential.Credential, challenge string,
	opts ...presentation.Opt) (*presentation.Presentation, error) {
	if c.signer == nil {
		return nil, ErrNoSigner
	}

	all := []presentation.Opt{presentation.WithSigner(c.signer), presentation.WithChallenge(challenge)}

	return presentation.New(creds, append(all, opts...)...)
}

// VerifyPresentation verifies p and every credential in it. An empty challenge
// accepts unsigned presentations.
func (c *Client) VerifyPresentation(ctx context.Context, p *presentation.Presentation,
	challenge string) presentation.Result {
	opts := []presentation.VerifyOpt{
		presentation.WithResolver(c.resolver),
		presentation.WithLedger(c.ledger),
		presentation.WithConcurrency(c.concurrency),
		presentation.WithCredentialOpts(credential.WithLedgerTimeout(c.ledgerTimeout)),
	}

	if challenge != "" {
		opts = append(opts, presentation.WithExpectedChallenge(challenge))
	}

	return presentation.Verify(ctx, p, opts...)
}

func (c *Client) verifyOpts() []credential.VerifyOpt {
	return []credential.VerifyOpt{
		credential.WithResolver(c.resolver),
		credential.WithLedger(c.ledger),
		credential.WithLedgerTimeout(c.ledgerTimeout),
	}
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package credtest builds signed and attested credentials backed by in-memory
// resolvers and ledgers for tests.
package credtest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/attest-framework/attest-framework-go/pkg/crypto/hashing"
	"github.com/attest-framework/attest-framework-go/pkg/crypto/signature"
	"github.com/attest-framework/attest-framework-go/pkg/doc/claim"
	"github.com/attest-framework/attest-framework-go/pkg/doc/credential"
	"github.com/attest-framework/attest-framework-go/pkg/ledger"
	mockledger "github.com/attest-framework/attest-framework-go/pkg/mock/ledger"
	mockvdr "github.com/attest-framework/attest-framework-go/pkg/mock/vdr"
)

// Identities used by the environment.
const (
	Claimer  = "did:attest:4claimer"
	Attester = "did:attest:4attester"
)

// SchemaHash is the claim type of test claims.
var SchemaHash = hashing.HashString("drivers-license-ctype")

// Env holds the capabilities every party shares in tests.
type Env struct {
	Signers  *signature.KeyRing
	Resolver *mockvdr.MockResolver
	Ledger   *mockledger.MockLedger
}

// NewEnv creates an environment where Claimer signs with sr25519 and Attester with
// ed25519.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	env := &Env{
		Signers:  signature.NewKeyRing(),
		Resolver: &mockvdr.MockResolver{AcceptValue: true},
		Ledger:   mockledger.NewMockLedger(),
	}

	env.AddIdentity(t, Claimer, signature.Sr25519)
	env.AddIdentity(t, Attester, signature.Ed25519)

	return env
}

// AddIdentity creates a key of type kt for did and publishes it.
func (e *Env) AddIdentity(t *testing.T, did string, kt signature.KeyType) signature.KeyPair {
	t.Helper()

	kp, err := signature.NewKeyPair(kt)
	require.NoError(t, err)

	keyID := did + "#key-1"
	e.Signers.Add(did, keyID, kp)
	e.Resolver.Register(did, keyID, kp.PublicKey())

	return kp
}

// NewClaim creates a claim by owner.
func NewClaim(t *testing.T, owner string, contents claim.Contents) *claim.Claim {
	t.Helper()

	c, err := claim.New(SchemaHash, contents, owner)
	require.NoError(t, err)

	return c
}

// Issue runs the whole flow: commit, sign as the claim owner, attest as issuer and
// anchor the attestation on the ledger.
func (e *Env) Issue(t *testing.T, c *claim.Claim, issuer string, opts ...credential.RequestOpt) *credential.Credential {
	t.Helper()

	req, err := credential.NewRequest(c, opts...)
	require.NoError(t, err)

	signed, err := req.Sign(e.Signers, c.Owner)
	require.NoError(t, err)

	att, err := credential.NewAttestation(signed, issuer)
	require.NoError(t, err)

	e.Ledger.Put(att.ClaimHash, ledger.Record{
		Owner:        att.Owner,
		SchemaHash:   att.SchemaHash,
		DelegationID: att.DelegationID,
	})

	cred, err := credential.New(signed, att)
	require.NoError(t, err)

	return cred
}

// IssueDefault issues the drivers license of Claimer attested by Attester.
func (e *Env) IssueDefault(t *testing.T) *credential.Credential {
	t.Helper()

	return e.Issue(t, NewClaim(t, Claimer, claim.Contents{"name": "Alice", "age": 29}), Attester)
}

// VerifyOpts returns the options wiring the environment's capabilities.
func (e *Env) VerifyOpts() []credential.VerifyOpt {
	return []credential.VerifyOpt{credential.WithResolver(e.Resolver), credential.WithLedger(e.Ledger)}
}

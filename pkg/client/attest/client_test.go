/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package attest_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/attest-framework/attest-framework-go/pkg/client/attest"
	"github.com/attest-framework/attest-framework-go/pkg/common/verifyerr"
	"github.com/attest-framework/attest-framework-go/pkg/doc/claim"
	"github.com/attest-framework/attest-framework-go/pkg/doc/credential"
	"github.com/attest-framework/attest-framework-go/pkg/doc/presentation"
	"github.com/attest-framework/attest-framework-go/pkg/internal/credtest"
	"github.com/attest-framework/attest-framework-go/pkg/ledger"
	mockprovider "github.com/attest-framework/attest-framework-go/pkg/mock/provider"
)

func newClient(env *credtest.Env, opts ...attest.Option) *attest.Client {
	return attest.New(&mockprovider.Provider{
		SignerValue:     env.Signers,
		VDRegistryValue: env.Resolver,
		LedgerValue:     env.Ledger,
	}, opts...)
}

func issue(t *testing.T, env *credtest.Env, client *attest.Client, contents claim.Contents) *credential.Credential {
	t.Helper()

	req, err := client.CreateCommitment(credtest.NewClaim(t, credtest.Claimer, contents))
	require.NoError(t, err)
	require.NotNil(t, req.ClaimerSignature)

	att, err := client.BindAttestation(context.Background(), req, credtest.Attester)
	require.NoError(t, err)

	env.Ledger.Put(att.ClaimHash, ledger.Record{Owner: att.Owner, SchemaHash: att.SchemaHash})

	cred, err := credential.New(req, att)
	require.NoError(t, err)

	return cred
}

func TestClient_Flow(t *testing.T) {
	env := credtest.NewEnv(t)
	client := newClient(env, attest.WithLedgerTimeout(time.Second), attest.WithConcurrency(2))

	cred := issue(t, env, client, claim.Contents{"name": "Alice", "age": 29})

	t.Run("full disclosure", func(t *testing.T) {
		result := client.VerifyCredential(context.Background(), cred)
		require.True(t, result.Verified, "%v", result.Err)
	})

	t.Run("reduced disclosure", func(t *testing.T) {
		p, err := client.ReducePresentation(cred, presentation.WithSelectedProperties("name"))
		require.NoError(t, err)
		require.NotNil(t, p.Signature)
		require.Equal(t, claim.Contents{"name": "Alice"}, p.Credentials[0].Request.Claim.Contents)

		result := client.VerifyPresentation(context.Background(), p, "")
		require.True(t, result.Verified, "%v", result.FirstError())

		proof := claim.VerifyDisclosedAttributes(cred.Request.Claim, claim.Proof{
			Hashes: p.Credentials[0].Request.ClaimHashes,
			Nonces: p.Credentials[0].Request.ClaimNonceMap,
		})
		require.False(t, proof.Verified)
		require.ErrorIs(t, proof.Err(), verifyerr.NoProofForStatement)
	})

	t.Run("presentation with challenge", func(t *testing.T) {
		second := issue(t, env, client, claim.Contents{"name": "Alice", "class": "B"})

		p, err := client.CreatePresentation([]*credential.Credential{cred, second}, "0xc0ffee")
		require.NoError(t, err)

		result := client.VerifyPresentation(context.Background(), p, "0xc0ffee")
		require.True(t, result.Verified, "%v", result.FirstError())

		result = client.VerifyPresentation(context.Background(), p, "0xdead")
		require.ErrorIs(t, result.Err, verifyerr.ChallengeMismatch)
	})

	t.Run("revoked", func(t *testing.T) {
		revoked := issue(t, env, client, claim.Contents{"name": "Alice", "age": 30})
		env.Ledger.Revoke(revoked.Attestation.ClaimHash)

		result := client.VerifyCredential(context.Background(), revoked)
		require.False(t, result.Verified)
		require.ErrorIs(t, result.Err, verifyerr.Revoked)
		require.Equal(t, verifyerr.Trust, result.Kind())
	})

	t.Run("claim and attestation mismatch", func(t *testing.T) {
		other := issue(t, env, client, claim.Contents{"name": "Bob"})

		_, err := credential.New(cred.Request, other.Attestation)
		require.ErrorIs(t, err, verifyerr.SchemaOrRootMismatch)

		result := client.VerifyCredential(context.Background(),
			&credential.Credential{Request: cred.Request, Attestation: other.Attestation})
		require.ErrorIs(t, result.Err, verifyerr.SchemaOrRootMismatch)
	})
}

func TestClient_WithoutCapabilities(t *testing.T) {
	env := credtest.NewEnv(t)
	client := attest.New(&mockprovider.Provider{})

	req, err := client.CreateCommitment(credtest.NewClaim(t, credtest.Claimer, claim.Contents{"name": "Alice"}))
	require.NoError(t, err)
	require.Nil(t, req.ClaimerSignature)

	_, err = client.BindAttestation(context.Background(), req, credtest.Attester)
	require.ErrorIs(t, err, verifyerr.SignatureUnverifiable)

	_, err = client.BindAttestation(context.Background(), nil, credtest.Attester)
	require.Error(t, err)

	cred := env.IssueDefault(t)

	result := client.VerifyCredential(context.Background(), cred)
	require.ErrorIs(t, result.Err, verifyerr.ResolverUnavailable)
	require.Equal(t, verifyerr.ExternalCapability, result.Kind())

	result = client.VerifyCredential(context.Background(), cred, credential.WithResolver(env.Resolver))
	require.ErrorIs(t, result.Err, verifyerr.LedgerUnavailable)

	_, err = client.CreatePresentation([]*credential.Credential{cred}, "0x01")
	require.ErrorIs(t, err, attest.ErrNoSigner)

	p, err := client.ReducePresentation(cred)
	require.NoError(t, err)
	require.Nil(t, p.Signature)
}

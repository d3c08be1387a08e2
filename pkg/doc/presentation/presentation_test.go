/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/hyperledger/aries-framework-go/component/log"
	spilog "github.com/hyperledger/aries-framework-go/spi/log"
	"github.com/stretchr/testify/require"

	"github.com/attest-framework/attest-framework-go/pkg/common/verifyerr"
	"github.com/attest-framework/attest-framework-go/pkg/crypto/signature"
	"github.com/attest-framework/attest-framework-go/pkg/doc/claim"
	"github.com/attest-framework/attest-framework-go/pkg/doc/credential"
	"github.com/attest-framework/attest-framework-go/pkg/doc/presentation"
	"github.com/attest-framework/attest-framework-go/pkg/internal/credtest"
	gomocksledger "github.com/attest-framework/attest-framework-go/pkg/internal/gomocks/ledger"
	"github.com/attest-framework/attest-framework-go/pkg/ledger"
)

const challenge = "0x1234"

func verifyOpts(env *credtest.Env) []presentation.VerifyOpt {
	return []presentation.VerifyOpt{presentation.WithResolver(env.Resolver), presentation.WithLedger(env.Ledger)}
}

func TestNew(t *testing.T) {
	env := credtest.NewEnv(t)
	cred := env.IssueDefault(t)

	t.Run("selected properties", func(t *testing.T) {
		p, err := presentation.New([]*credential.Credential{cred}, presentation.WithSelectedProperties("name"))
		require.NoError(t, err)
		require.Len(t, p.Credentials, 1)
		require.Equal(t, claim.Contents{"name": "Alice"}, p.Credentials[0].Request.Claim.Contents)
		require.Len(t, p.Credentials[0].Request.ClaimNonceMap, 1)
		require.Nil(t, p.Signature)

		require.Len(t, cred.Request.Claim.Contents, 2)

		result := presentation.Verify(context.Background(), p, verifyOpts(env)...)
		require.True(t, result.Verified, "%v", result.FirstError())
	})

	t.Run("hidden properties", func(t *testing.T) {
		p, err := presentation.New([]*credential.Credential{cred}, presentation.WithHiddenProperties("age"))
		require.NoError(t, err)
		require.Equal(t, claim.Contents{"name": "Alice"}, p.Credentials[0].Request.Claim.Contents)
	})

	t.Run("selected and hidden", func(t *testing.T) {
		_, err := presentation.New([]*credential.Credential{cred},
			presentation.WithSelectedProperties("name"), presentation.WithHiddenProperties("age"))
		require.Error(t, err)
	})

	t.Run("multiple subjects", func(t *testing.T) {
		env.AddIdentity(t, "did:attest:4bob", signature.EcdsaSecp256k1)
		other := env.Issue(t, credtest.NewClaim(t, "did:attest:4bob", claim.Contents{"name": "Bob"}), credtest.Attester)

		_, err := presentation.New([]*credential.Credential{cred, other})
		require.ErrorIs(t, err, verifyerr.MultipleSubjects)
	})

	t.Run("no credentials", func(t *testing.T) {
		_, err := presentation.New(nil)
		require.ErrorIs(t, err, verifyerr.MultipleSubjects)
	})

	t.Run("signer failure", func(t *testing.T) {
		_, err := presentation.New([]*credential.Credential{cred}, presentation.WithSigner(emptySigner{}))
		require.Error(t, err)
	})
}

func TestVerify(t *testing.T) {
	env := credtest.NewEnv(t)
	cred := env.IssueDefault(t)

	signed := func(t *testing.T) *presentation.Presentation {
		t.Helper()

		p, err := presentation.New([]*credential.Credential{cred}, presentation.WithSigner(env.Signers),
			presentation.WithChallenge(challenge))
		require.NoError(t, err)
		require.NotNil(t, p.Signature)

		return p
	}

	t.Run("signed with challenge", func(t *testing.T) {
		opts := append(verifyOpts(env), presentation.WithExpectedChallenge(challenge))

		result := presentation.Verify(context.Background(), signed(t), opts...)
		require.True(t, result.Verified, "%v", result.FirstError())
		require.NoError(t, result.FirstError())
	})

	t.Run("challenge mismatch", func(t *testing.T) {
		opts := append(verifyOpts(env), presentation.WithExpectedChallenge("0xother"))

		result := presentation.Verify(context.Background(), signed(t), opts...)
		require.False(t, result.Verified)
		require.ErrorIs(t, result.Err, verifyerr.ChallengeMismatch)
		require.True(t, result.Credentials[0].Verified)
	})

	t.Run("replayed with another challenge", func(t *testing.T) {
		p := signed(t)
		p.Challenge = "0xother"

		opts := append(verifyOpts(env), presentation.WithExpectedChallenge("0xother"))

		result := presentation.Verify(context.Background(), p, opts...)
		require.False(t, result.Verified)
		require.ErrorIs(t, result.Err, verifyerr.PresentationSignatureInvalid)
	})

	t.Run("unsigned with expected challenge", func(t *testing.T) {
		p, err := presentation.New([]*credential.Credential{cred}, presentation.WithChallenge(challenge))
		require.NoError(t, err)

		opts := append(verifyOpts(env), presentation.WithExpectedChallenge(challenge))

		result := presentation.Verify(context.Background(), p, opts...)
		require.ErrorIs(t, result.Err, verifyerr.PresentationSignatureInvalid)
	})

	t.Run("subject deactivated", func(t *testing.T) {
		env := credtest.NewEnv(t)
		cred := env.IssueDefault(t)

		p, err := presentation.New([]*credential.Credential{cred}, presentation.WithSigner(env.Signers))
		require.NoError(t, err)

		env.Resolver.Deactivate(credtest.Claimer)

		result := presentation.Verify(context.Background(), p, verifyOpts(env)...)
		require.False(t, result.Verified)
		require.ErrorIs(t, result.Err, verifyerr.IdentityDeactivated)
		require.ErrorIs(t, result.Credentials[0].Err, verifyerr.IdentityDeactivated)
	})

	t.Run("revoked credential", func(t *testing.T) {
		env := credtest.NewEnv(t)
		cred := env.IssueDefault(t)
		env.Ledger.Revoke(cred.Attestation.ClaimHash)

		p, err := presentation.New([]*credential.Credential{cred})
		require.NoError(t, err)

		result := presentation.Verify(context.Background(), p, verifyOpts(env)...)
		require.False(t, result.Verified)
		require.NoError(t, result.Err)
		require.ErrorIs(t, result.FirstError(), verifyerr.Revoked)
	})

	t.Run("nil presentation", func(t *testing.T) {
		result := presentation.Verify(context.Background(), nil)
		require.False(t, result.Verified)
		require.Error(t, result.Err)
	})
}

func TestVerify_Concurrent(t *testing.T) {
	log.SetLevel("attest-framework/doc/presentation", spilog.DEBUG)

	env := credtest.NewEnv(t)

	first := env.IssueDefault(t)
	second := env.Issue(t, credtest.NewClaim(t, credtest.Claimer, claim.Contents{"name": "Alice", "class": "B"}),
		credtest.Attester)

	record := func(c *credential.Credential) *ledger.Record {
		return &ledger.Record{
			Owner:      c.Attestation.Owner,
			SchemaHash: c.Attestation.SchemaHash,
		}
	}

	p, err := presentation.New([]*credential.Credential{first, second})
	require.NoError(t, err)

	t.Run("failing sibling does not abort the other", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := gomocksledger.NewMockReader(ctrl)
		reader.EXPECT().QueryAttestation(gomock.Any(), first.Attestation.ClaimHash).Return(record(first), nil)
		reader.EXPECT().QueryAttestation(gomock.Any(), second.Attestation.ClaimHash).
			Return(nil, errors.New("connection refused"))

		result := presentation.Verify(context.Background(), p,
			presentation.WithResolver(env.Resolver), presentation.WithLedger(reader))
		require.False(t, result.Verified)
		require.NoError(t, result.Err)
		require.Len(t, result.Credentials, 2)
		require.True(t, result.Credentials[0].Verified)
		require.False(t, result.Credentials[1].Verified)
		require.ErrorIs(t, result.Credentials[1].Err, verifyerr.LedgerUnavailable)
		require.Equal(t, verifyerr.ExternalCapability, result.Credentials[1].Kind())
	})

	t.Run("all verified with a limit of one", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := gomocksledger.NewMockReader(ctrl)
		reader.EXPECT().QueryAttestation(gomock.Any(), first.Attestation.ClaimHash).Return(record(first), nil)
		reader.EXPECT().QueryAttestation(gomock.Any(), second.Attestation.ClaimHash).Return(record(second), nil)

		result := presentation.Verify(context.Background(), p, presentation.WithResolver(env.Resolver),
			presentation.WithLedger(reader), presentation.WithConcurrency(1))
		require.True(t, result.Verified, "%v", result.FirstError())
	})

	t.Run("parent cancelled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := gomocksledger.NewMockReader(ctrl)
		reader.EXPECT().QueryAttestation(gomock.Any(), gomock.Any()).Times(2).
			DoAndReturn(func(ctx context.Context, _ string) (*ledger.Record, error) {
				<-ctx.Done()

				return nil, ctx.Err()
			})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result := presentation.Verify(ctx, p, presentation.WithResolver(env.Resolver), presentation.WithLedger(reader))
		require.False(t, result.Verified)

		for _, c := range result.Credentials {
			require.ErrorIs(t, c.Err, verifyerr.LedgerUnavailable)
			require.ErrorIs(t, c.Err, context.Canceled)
		}
	})
}

type emptySigner struct{}

func (emptySigner) Sign(string, []byte) (*signature.Signature, error) {
	return nil, errors.New("no key")
}

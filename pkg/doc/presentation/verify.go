/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentation

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/attest-framework/attest-framework-go/pkg/common/verifyerr"
	"github.com/attest-framework/attest-framework-go/pkg/doc/credential"
	"github.com/attest-framework/attest-framework-go/pkg/ledger"
	"github.com/attest-framework/attest-framework-go/pkg/vdr"
)

// DefaultConcurrency bounds how many credentials are verified at once.
const DefaultConcurrency = 4

type verifyOpts struct {
	resolver     vdr.Resolver
	challenge    string
	hasChallenge bool
	concurrency  int
	credOpts     []credential.VerifyOpt
}

// VerifyOpt configures Verify.
type VerifyOpt func(opts *verifyOpts)

// WithResolver sets the resolver for the presentation and credential signatures.
func WithResolver(resolver vdr.Resolver) VerifyOpt {
	return func(opts *verifyOpts) {
		opts.resolver = resolver
		opts.credOpts = append(opts.credOpts, credential.WithResolver(resolver))
	}
}

// WithLedger sets the ledger used for the revocation checks.
func WithLedger(reader ledger.Reader) VerifyOpt {
	return func(opts *verifyOpts) {
		opts.credOpts = append(opts.credOpts, credential.WithLedger(reader))
	}
}

// WithExpectedChallenge requires a signed presentation carrying challenge.
func WithExpectedChallenge(challenge string) VerifyOpt {
	return func(opts *verifyOpts) {
		opts.challenge = challenge
		opts.hasChallenge = true
	}
}

// WithConcurrency bounds how many credentials are verified at once.
func WithConcurrency(n int) VerifyOpt {
	return func(opts *verifyOpts) {
		opts.concurrency = n
	}
}

// WithCredentialOpts passes options to every credential verification.
func WithCredentialOpts(credOpts ...credential.VerifyOpt) VerifyOpt {
	return func(opts *verifyOpts) {
		opts.credOpts = append(opts.credOpts, credOpts...)
	}
}

// Result is the outcome of a presentation verification.
type Result struct {
	Verified bool
	// Err is the failure of the presentation envelope, if any.
	Err error
	// Credentials holds one result per credential, in order.
	Credentials []credential.Result
}

// FirstError returns the envelope error or else the first failing credential's error.
func (r Result) FirstError() error {
	if r.Err != nil {
		return r.Err
	}

	for _, c := range r.Credentials {
		if !c.Verified {
			return c.Err
		}
	}

	return nil
}

// Verify checks the single subject, the challenge and the presentation signature, then
// every credential independently. Credentials are verified concurrently and a failure
// of one never cancels its siblings.
func Verify(ctx context.Context, p *Presentation, opts ...VerifyOpt) Result {
	o := &verifyOpts{concurrency: DefaultConcurrency}

	for _, opt := range opts {
		opt(o)
	}

	if p == nil {
		return Result{Err: verifyerr.New(verifyerr.MultipleSubjects, "no presentation")}
	}

	result := Result{Err: verifyEnvelope(ctx, p, o)}
	result.Credentials = verifyCredentials(ctx, p.Credentials, o)
	result.Verified = result.Err == nil

	for _, c := range result.Credentials {
		result.Verified = result.Verified && c.Verified
	}

	return result
}

func verifyEnvelope(ctx context.Context, p *Presentation, o *verifyOpts) error {
	subject, err := Subject(p.Credentials)
	if err != nil {
		return err
	}

	if o.hasChallenge {
		if p.Signature == nil {
			return verifyerr.New(verifyerr.PresentationSignatureInvalid, "challenge requires a signed presentation")
		}

		if p.Challenge != o.challenge {
			return verifyerr.New(verifyerr.ChallengeMismatch, "got %q", p.Challenge)
		}
	}

	if p.Signature == nil {
		return nil
	}

	msg, err := p.SigningInput()
	if err != nil {
		return verifyerr.Wrap(verifyerr.PresentationSignatureInvalid, err, "")
	}

	err = credential.VerifySubjectSignature(ctx, o.resolver, subject, msg, p.Signature)
	if err == nil {
		return nil
	}

	if reason, ok := verifyerr.ReasonOf(err); ok && reason != verifyerr.SignatureUnverifiable {
		return err
	}

	return verifyerr.Wrap(verifyerr.PresentationSignatureInvalid, err, subject)
}

func verifyCredentials(ctx context.Context, creds []*credential.Credential, o *verifyOpts) []credential.Result {
	results := make([]credential.Result, len(creds))

	var g errgroup.Group

	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}

	for i, c := range creds {
		i, c := i, c

		g.Go(func() error {
			results[i] = credential.Verify(ctx, c, o.credOpts...)

			if !results[i].Verified {
				logger.Debugf("credential %d of presentation failed: %v", i, results[i].Err)
			}

			return nil
		})
	}

	_ = g.Wait()

	return results
}

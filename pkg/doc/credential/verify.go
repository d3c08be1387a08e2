/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package credential

import (
	"context"
	"fmt"
	"time"

	"github.com/attest-framework/attest-framework-go/pkg/common/verifyerr"
	"github.com/attest-framework/attest-framework-go/pkg/ledger"
	"github.com/attest-framework/attest-framework-go/pkg/vdr"
)

const (
	// DefaultMaxLegitimationDepth bounds how deep legitimations are followed.
	DefaultMaxLegitimationDepth = 8
	// DefaultLedgerTimeout bounds a single ledger lookup.
	DefaultLedgerTimeout = 10 * time.Second
)

type verifyOpts struct {
	resolver      vdr.Resolver
	ledger        ledger.Reader
	ledgerTimeout time.Duration
	maxDepth      int
}

// VerifyOpt configures a verification. Capabilities are passed per call.
type VerifyOpt func(opts *verifyOpts)

// WithResolver sets the DID resolver used for signature checks.
func WithResolver(resolver vdr.Resolver) VerifyOpt {
	return func(opts *verifyOpts) {
		opts.resolver = resolver
	}
}

// WithLedger sets the ledger reader used for the revocation check.
func WithLedger(reader ledger.Reader) VerifyOpt {
	return func(opts *verifyOpts) {
		opts.ledger = reader
	}
}

// WithLedgerTimeout bounds each ledger lookup.
func WithLedgerTimeout(d time.Duration) VerifyOpt {
	return func(opts *verifyOpts) {
		opts.ledgerTimeout = d
	}
}

// WithMaxLegitimationDepth bounds how many levels of legitimations are verified.
func WithMaxLegitimationDepth(depth int) VerifyOpt {
	return func(opts *verifyOpts) {
		opts.maxDepth = depth
	}
}

func newVerifyOpts(opts []VerifyOpt) *verifyOpts {
	o := &verifyOpts{
		ledgerTimeout: DefaultLedgerTimeout,
		maxDepth:      DefaultMaxLegitimationDepth,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Result is the outcome of a verification.
type Result struct {
	Verified bool
	// Err is a *verifyerr.Error when Verified is false.
	Err error
}

// Reason returns the failure reason, empty when verified.
func (r Result) Reason() verifyerr.Reason {
	reason, _ := verifyerr.ReasonOf(r.Err)

	return reason
}

// Kind returns the failure kind, zero when verified.
func (r Result) Kind() verifyerr.Kind {
	if r.Verified {
		return 0
	}

	return r.Reason().Kind()
}

// Verify runs the full chain of custody: linkage, root hash, claimer signature,
// disclosed properties, legitimations and finally the ledger record. Failures of the
// resolver or the ledger are reported with the ExternalCapability kind.
func Verify(ctx context.Context, c *Credential, opts ...VerifyOpt) Result {
	o := newVerifyOpts(opts)

	if err := verifyData(ctx, c, o, 0); err != nil {
		return Result{Err: err}
	}

	if err := checkLedger(ctx, c.Attestation, o); err != nil {
		return Result{Err: err}
	}

	return Result{Verified: true}
}

// VerifyData runs every check except the ledger lookup.
func VerifyData(ctx context.Context, c *Credential, opts ...VerifyOpt) error {
	return verifyData(ctx, c, newVerifyOpts(opts), 0)
}

func verifyData(ctx context.Context, c *Credential, o *verifyOpts, depth int) error {
	if c == nil || c.Request == nil || c.Request.Claim == nil || c.Attestation == nil {
		return verifyerr.New(verifyerr.SchemaOrRootMismatch, "incomplete credential")
	}

	if err := c.Attestation.VerifyAgainstRequest(c.Request); err != nil {
		return err
	}

	if err := c.Request.VerifyRootHash(); err != nil {
		return err
	}

	if err := c.Request.VerifySignature(ctx, o.resolver); err != nil {
		return err
	}

	if err := c.Request.VerifyDisclosure(); err != nil {
		return err
	}

	for i, l := range c.Request.Legitimations {
		if depth >= o.maxDepth {
			return verifyerr.New(verifyerr.LegitimationUnverifiable, "legitimations nested deeper than %d", o.maxDepth)
		}

		if err := verifyData(ctx, l, o, depth+1); err != nil {
			if reason, _ := verifyerr.ReasonOf(err); reason.Kind() == verifyerr.ExternalCapability {
				return err
			}

			return verifyerr.Wrap(verifyerr.LegitimationUnverifiable, err, legitimationDetail(i, l))
		}
	}

	return nil
}

func legitimationDetail(i int, l *Credential) string {
	if l == nil || l.Attestation == nil {
		return fmt.Sprintf("legitimation %d", i)
	}

	return fmt.Sprintf("legitimation %d (%s)", i, l.Attestation.ClaimHash)
}

func checkLedger(ctx context.Context, a *Attestation, o *verifyOpts) error {
	ctx, cancel := context.WithTimeout(ctx, o.ledgerTimeout)
	defer cancel()

	return a.CheckValidity(ctx, o.ledger)
}

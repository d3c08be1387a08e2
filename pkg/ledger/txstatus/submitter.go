/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txstatus

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hyperledger/aries-framework-go/component/log"
)

var logger = log.New("attest-framework/ledger/txstatus")

const (
	defaultMaxRetries    = 3
	defaultRetryInterval = 2 * time.Second
)

// Transport submits a signed transaction and streams its status events. The channel is
// closed when the node stops watching the transaction.
type Transport interface {
	SubmitAndWatch(ctx context.Context, signedTx []byte) (<-chan Event, error)
}

// TxSigner signs an unsigned transaction for the given account nonce.
type TxSigner interface {
	SignTx(ctx context.Context, unsignedTx []byte, nonce uint64) ([]byte, error)
}

// NonceSource returns the next usable nonce of the submitting account.
type NonceSource interface {
	NextNonce(ctx context.Context) (uint64, error)
}

// Receipt describes a resolved transaction.
type Receipt struct {
	Status    Status
	BlockHash string
	Nonce     uint64
	Attempts  int
}

// Submitter signs, submits and watches transactions, re-signing with a fresh nonce when
// the node reports a recoverable nonce collision.
type Submitter struct {
	transport     Transport
	signer        TxSigner
	nonces        NonceSource
	criteria      Criteria
	maxRetries    uint64
	retryInterval time.Duration
}

// Opt configures a Submitter.
type Opt func(s *Submitter)

// WithCriteria sets the resolution criteria.
func WithCriteria(c Criteria) Opt {
	return func(s *Submitter) {
		s.criteria = c
	}
}

// WithMaxRetries sets how many times a recoverable rejection is retried.
func WithMaxRetries(n uint64) Opt {
	return func(s *Submitter) {
		s.maxRetries = n
	}
}

// WithRetryInterval sets the wait between attempts.
func WithRetryInterval(d time.Duration) Opt {
	return func(s *Submitter) {
		s.retryInterval = d
	}
}

// NewSubmitter creates a Submitter.
func NewSubmitter(transport Transport, signer TxSigner, nonces NonceSource, opts ...Opt) *Submitter {
	s := &Submitter{
		transport:     transport,
		signer:        signer,
		nonces:        nonces,
		criteria:      DefaultCriteria,
		maxRetries:    defaultMaxRetries,
		retryInterval: defaultRetryInterval,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SignAndSubmit submits unsignedTx until it resolves, is rejected terminally, the retry
// budget is spent or ctx is done.
func (s *Submitter) SignAndSubmit(ctx context.Context, unsignedTx []byte) (*Receipt, error) {
	var (
		receipt  *Receipt
		attempts int
	)

	err := backoff.Retry(func() error {
		attempts++

		r, outcome := s.attempt(ctx, unsignedTx)

		switch outcome.State {
		case Resolved:
			receipt = r
			receipt.Attempts = attempts

			return nil
		case Rejected:
			if outcome.Class == Recoverable {
				logger.Warnf("attempt %d rejected, re-signing: %v", attempts, outcome.Err)

				return outcome.Err
			}

			return backoff.Permanent(outcome.Err)
		default:
			return backoff.Permanent(ErrUnexpectedFinish)
		}
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(s.retryInterval), s.maxRetries), ctx))
	if err != nil {
		return nil, fmt.Errorf("submit transaction after %d attempt(s): %w", attempts, err)
	}

	return receipt, nil
}

func (s *Submitter) attempt(ctx context.Context, unsignedTx []byte) (*Receipt, Outcome) {
	nonce, err := s.nonces.NextNonce(ctx)
	if err != nil {
		return nil, Outcome{State: Rejected, Class: Terminal, Err: fmt.Errorf("get nonce: %w", err)}
	}

	signed, err := s.signer.SignTx(ctx, unsignedTx, nonce)
	if err != nil {
		return nil, Outcome{State: Rejected, Class: Terminal, Err: fmt.Errorf("sign transaction: %w", err)}
	}

	events, err := s.transport.SubmitAndWatch(ctx, signed)
	if err != nil {
		if isRecoverable(err.Error()) {
			return nil, Outcome{State: Rejected, Class: Recoverable, Err: fmt.Errorf("%w: %s", ErrNonceCollision, err)}
		}

		return nil, Outcome{State: Rejected, Class: Terminal, Err: fmt.Errorf("submit: %w", err)}
	}

	for {
		select {
		case <-ctx.Done():
			return nil, Outcome{State: Rejected, Class: Terminal, Err: ctx.Err()}
		case ev, ok := <-events:
			if !ok {
				return nil, Outcome{State: Rejected, Class: Terminal, Err: ErrUnexpectedFinish}
			}

			outcome := Evaluate(ev, s.criteria)

			logger.Debugf("transaction with nonce %d: %s -> state %d", nonce, ev.Status, outcome.State)

			if outcome.State == Resolved {
				return &Receipt{Status: ev.Status, BlockHash: ev.BlockHash, Nonce: nonce}, outcome
			}

			if outcome.State == Rejected {
				return nil, outcome
			}
		}
	}
}

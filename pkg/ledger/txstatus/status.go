/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package txstatus classifies ledger transaction status events and drives the
// sign-submit-watch loop that writes attestations.
package txstatus

import (
	"errors"
	"fmt"
	"strings"
)

// Status is a transaction pool or block status reported by the ledger node.
type Status int

// Statuses in the order a healthy transaction usually reports them.
const (
	Future Status = iota + 1
	Ready
	Broadcast
	InBlock
	Retracted
	FinalityTimeout
	Finalized
	Usurped
	Dropped
	Invalid
)

func (s Status) String() string {
	switch s {
	case Future:
		return "Future"
	case Ready:
		return "Ready"
	case Broadcast:
		return "Broadcast"
	case InBlock:
		return "InBlock"
	case Retracted:
		return "Retracted"
	case FinalityTimeout:
		return "FinalityTimeout"
	case Finalized:
		return "Finalized"
	case Usurped:
		return "Usurped"
	case Dropped:
		return "Dropped"
	case Invalid:
		return "Invalid"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Event is one status update for a submitted transaction.
type Event struct {
	Status    Status
	BlockHash string
	// DispatchError is set when the transaction was included but its execution failed.
	DispatchError string
	// Reason explains Invalid and Dropped statuses.
	Reason string
}

// State is the evaluator's verdict.
type State int

// Evaluator states.
const (
	Pending State = iota
	Resolved
	Rejected
)

// Class tells whether a rejection can be retried.
type Class int

// Rejection classes.
const (
	Terminal Class = iota
	Recoverable
)

// Outcome is the result of evaluating one event.
type Outcome struct {
	State State
	Class Class
	Err   error
}

// Criteria selects when a transaction counts as resolved.
type Criteria struct {
	// ResolveOn is InBlock or Finalized.
	ResolveOn Status
}

// DefaultCriteria resolves on finalization.
var DefaultCriteria = Criteria{ResolveOn: Finalized}

// Errors carried by rejected outcomes.
var (
	ErrDispatch         = errors.New("transaction dispatch failed")
	ErrNonceCollision   = errors.New("transaction nonce collision")
	ErrDropped          = errors.New("transaction dropped")
	ErrInvalid          = errors.New("transaction invalid")
	ErrFinalityTimeout  = errors.New("transaction finality timeout")
	ErrUnknownStatus    = errors.New("unknown transaction status")
	ErrUnexpectedFinish = errors.New("status stream ended before resolution")
)

// node messages for transactions replaced by, or conflicting with, another one from the
// same account.
var recoverableReasons = []string{
	"priority is too low",
	"transaction is outdated",
	"stale",
	"nonce too low",
	"replacement transaction underpriced",
}

// Evaluate classifies ev. It is a pure function of its inputs.
func Evaluate(ev Event, criteria Criteria) Outcome {
	switch ev.Status {
	case Future, Ready, Broadcast, Retracted:
		return Outcome{State: Pending}
	case InBlock, Finalized:
		if ev.DispatchError != "" {
			return Outcome{State: Rejected, Class: Terminal, Err: fmt.Errorf("%w: %s", ErrDispatch, ev.DispatchError)}
		}

		if ev.Status == Finalized || criteria.ResolveOn == InBlock {
			return Outcome{State: Resolved}
		}

		return Outcome{State: Pending}
	case Usurped:
		return Outcome{State: Rejected, Class: Recoverable, Err: fmt.Errorf("%w: usurped", ErrNonceCollision)}
	case Invalid:
		if isRecoverable(ev.Reason) {
			return Outcome{State: Rejected, Class: Recoverable, Err: fmt.Errorf("%w: %s", ErrNonceCollision, ev.Reason)}
		}

		return Outcome{State: Rejected, Class: Terminal, Err: fmt.Errorf("%w: %s", ErrInvalid, ev.Reason)}
	case Dropped:
		return Outcome{State: Rejected, Class: Terminal, Err: fmt.Errorf("%w: %s", ErrDropped, ev.Reason)}
	case FinalityTimeout:
		return Outcome{State: Rejected, Class: Terminal, Err: ErrFinalityTimeout}
	default:
		return Outcome{State: Rejected, Class: Terminal, Err: fmt.Errorf("%w: %s", ErrUnknownStatus, ev.Status)}
	}
}

func isRecoverable(reason string) bool {
	reason = strings.ToLower(reason)

	for _, r := range recoverableReasons {
		if strings.Contains(reason, r) {
			return true
		}
	}

	return false
}

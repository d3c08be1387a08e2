/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package verifyerr holds the error taxonomy shared by the credential packages.
//
// Every failure carries a Reason code. Reasons are comparable values, so callers can
// use errors.Is(err, verifyerr.Revoked) against any error returned by this module.
package verifyerr

import (
	"errors"
	"fmt"
)

// Kind groups reasons by the party at fault.
type Kind int

const (
	// InputMalformation is raised at construction time for ill-formed input.
	InputMalformation Kind = iota + 1
	// Integrity means hashes, roots or proofs do not match.
	Integrity
	// Trust means a signature, identity or ledger record does not vouch for the data.
	Trust
	// ExternalCapability means a resolver or ledger could not be reached or misbehaved.
	ExternalCapability
)

func (k Kind) String() string {
	switch k {
	case InputMalformation:
		return "InputMalformation"
	case Integrity:
		return "Integrity"
	case Trust:
		return "Trust"
	case ExternalCapability:
		return "ExternalCapability"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Reason is a machine readable failure code.
type Reason string

// Reason codes.
const (
	MissingSchemaHash   Reason = "MissingSchemaHash"
	MissingOwner        Reason = "MissingOwner"
	InvalidContentValue Reason = "InvalidContentValue"
	MalformedHash       Reason = "MalformedHash"
	InvalidArity        Reason = "InvalidArity"
	NonceMapIncomplete  Reason = "NonceMapIncomplete"
	MultipleSubjects    Reason = "MultipleSubjects"

	NoProofForStatement      Reason = "NoProofForStatement"
	InvalidProofForStatement Reason = "InvalidProofForStatement"
	SchemaOrRootMismatch     Reason = "SchemaOrRootMismatch"
	RootHashMismatch         Reason = "RootHashMismatch"
	DisclosureProofFailed    Reason = "DisclosureProofFailed"
	ClaimStructureInvalid    Reason = "ClaimStructureInvalid"

	SignatureUnverifiable        Reason = "SignatureUnverifiable"
	IdentityDeactivated          Reason = "IdentityDeactivated"
	LegitimationUnverifiable     Reason = "LegitimationUnverifiable"
	NotFound                     Reason = "NotFound"
	Revoked                      Reason = "Revoked"
	OwnerMismatch                Reason = "OwnerMismatch"
	LedgerRecordMismatch         Reason = "LedgerRecordMismatch"
	ChallengeMismatch            Reason = "ChallengeMismatch"
	PresentationSignatureInvalid Reason = "PresentationSignatureInvalid"

	ResolverUnavailable Reason = "ResolverUnavailable"
	LedgerUnavailable   Reason = "LedgerUnavailable"
)

// Kind returns the group the reason belongs to.
func (r Reason) Kind() Kind {
	switch r {
	case MissingSchemaHash, MissingOwner, InvalidContentValue, MalformedHash,
		InvalidArity, NonceMapIncomplete, MultipleSubjects:
		return InputMalformation
	case NoProofForStatement, InvalidProofForStatement, SchemaOrRootMismatch,
		RootHashMismatch, DisclosureProofFailed, ClaimStructureInvalid:
		return Integrity
	case ResolverUnavailable, LedgerUnavailable:
		return ExternalCapability
	default:
		return Trust
	}
}

// Error implements error so that a bare Reason can be used as a sentinel target.
func (r Reason) Error() string {
	return string(r)
}

// Error is a failure annotated with its reason.
type Error struct {
	Reason Reason
	Detail string
	Err    error
}

// New creates an error for the reason with a formatted detail.
func New(reason Reason, format string, args ...interface{}) *Error {
	return &Error{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Wrap creates an error for the reason that keeps the cause.
func Wrap(reason Reason, err error, detail string) *Error {
	return &Error{Reason: reason, Detail: detail, Err: err}
}

func (e *Error) Error() string {
	msg := string(e.Reason)

	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Kind returns the reason's group.
func (e *Error) Kind() Kind {
	return e.Reason.Kind()
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same reason.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Reason:
		return e.Reason == t
	case *Error:
		return t != nil && e.Reason == t.Reason
	}

	return false
}

// ReasonOf returns the reason of the first annotated error in err's chain.
func ReasonOf(err error) (Reason, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason, true
	}

	var r Reason
	if errors.As(err, &r) {
		return r, true
	}

	return "", false
}

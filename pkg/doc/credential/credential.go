/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package credential implements requests for attestation, attestations and the
// credentials that pair them, together with chain-of-custody verification.
package credential

import (
	"errors"

	"github.com/attest-framework/attest-framework-go/pkg/common/verifyerr"
)

var errNoAttestation = verifyerr.New(verifyerr.SchemaOrRootMismatch, "credential has no attestation")

// Credential is an attested request.
type Credential struct {
	Request     *RequestForAttestation `json:"request"`
	Attestation *Attestation           `json:"attestation"`
}

// New pairs a request with its attestation.
func New(req *RequestForAttestation, att *Attestation) (*Credential, error) {
	if req == nil || att == nil {
		return nil, errors.New("request and attestation are required")
	}

	if err := att.VerifyAgainstRequest(req); err != nil {
		return nil, err
	}

	return &Credential{Request: req, Attestation: att}, nil
}

// Owner returns the claim owner.
func (c *Credential) Owner() string {
	if c.Request == nil || c.Request.Claim == nil {
		return ""
	}

	return c.Request.Claim.Owner
}

// Reduce returns a copy of the credential disclosing only the selected properties.
func (c *Credential) Reduce(selected []string) (*Credential, error) {
	if c.Attestation == nil {
		return nil, errNoAttestation
	}

	req, err := c.Request.Reduce(selected)
	if err != nil {
		return nil, err
	}

	att := *c.Attestation

	return &Credential{Request: req, Attestation: &att}, nil
}

// RemoveProperties returns a copy of the credential without the hidden properties.
func (c *Credential) RemoveProperties(hide []string) (*Credential, error) {
	if c.Attestation == nil {
		return nil, errNoAttestation
	}

	req, err := c.Request.RemoveProperties(hide)
	if err != nil {
		return nil, err
	}

	att := *c.Attestation

	return &Credential{Request: req, Attestation: &att}, nil
}

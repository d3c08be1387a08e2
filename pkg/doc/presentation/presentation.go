/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package presentation bundles credentials of one subject for a verifier, optionally
// reduced to selected properties and signed over a verifier challenge.
package presentation

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/attest-framework/attest-framework-go/pkg/common/verifyerr"
	"github.com/attest-framework/attest-framework-go/pkg/crypto/signature"
	"github.com/attest-framework/attest-framework-go/pkg/doc/credential"
)

var logger = log.New("attest-framework/doc/presentation")

// Presentation is a set of credentials of a single subject.
type Presentation struct {
	Credentials []*credential.Credential `json:"credentials"`
	Challenge   string                   `json:"challenge,omitempty"`
	Signature   *signature.Signature     `json:"signature,omitempty"`
}

// signedBody is what the subject signs.
type signedBody struct {
	Credentials []*credential.Credential `json:"credentials"`
	Challenge   string                   `json:"challenge,omitempty"`
}

type createOpts struct {
	selected  []string
	hidden    []string
	challenge string
	signer    signature.Signer
}

// Opt configures New.
type Opt func(opts *createOpts)

// WithSelectedProperties discloses only the named properties of every credential.
func WithSelectedProperties(names ...string) Opt {
	return func(opts *createOpts) {
		opts.selected = append(opts.selected, names...)
	}
}

// WithHiddenProperties removes the named properties from every credential.
func WithHiddenProperties(names ...string) Opt {
	return func(opts *createOpts) {
		opts.hidden = append(opts.hidden, names...)
	}
}

// WithChallenge embeds the verifier challenge. It is only meaningful with a signer.
func WithChallenge(challenge string) Opt {
	return func(opts *createOpts) {
		opts.challenge = challenge
	}
}

// WithSigner signs the presentation as its subject.
func WithSigner(signer signature.Signer) Opt {
	return func(opts *createOpts) {
		opts.signer = signer
	}
}

// New creates a presentation. Credentials are copied before reduction, the inputs are
// left untouched.
func New(creds []*credential.Credential, opts ...Opt) (*Presentation, error) {
	o := &createOpts{}

	for _, opt := range opts {
		opt(o)
	}

	if len(o.selected) > 0 && len(o.hidden) > 0 {
		return nil, errors.New("selected and hidden properties are mutually exclusive")
	}

	subject, err := Subject(creds)
	if err != nil {
		return nil, err
	}

	p := &Presentation{
		Credentials: make([]*credential.Credential, 0, len(creds)),
		Challenge:   o.challenge,
	}

	for i, c := range creds {
		reduced, err := reduce(c, o)
		if err != nil {
			return nil, fmt.Errorf("credential %d: %w", i, err)
		}

		p.Credentials = append(p.Credentials, reduced)
	}

	if o.signer == nil {
		return p, nil
	}

	msg, err := p.SigningInput()
	if err != nil {
		return nil, err
	}

	p.Signature, err = o.signer.Sign(subject, msg)
	if err != nil {
		return nil, fmt.Errorf("sign presentation: %w", err)
	}

	logger.Debugf("created signed presentation of %d credentials for %s", len(p.Credentials), subject)

	return p, nil
}

func reduce(c *credential.Credential, o *createOpts) (*credential.Credential, error) {
	switch {
	case len(o.selected) > 0:
		return c.Reduce(o.selected)
	case len(o.hidden) > 0:
		return c.RemoveProperties(o.hidden)
	default:
		return c.RemoveProperties(nil)
	}
}

// Subject returns the common owner of creds.
func Subject(creds []*credential.Credential) (string, error) {
	if len(creds) == 0 {
		return "", verifyerr.New(verifyerr.MultipleSubjects, "presentation has no credentials")
	}

	var subject string

	for i, c := range creds {
		if c == nil || c.Request == nil || c.Request.Claim == nil || c.Attestation == nil {
			return "", verifyerr.New(verifyerr.SchemaOrRootMismatch, "credential %d is incomplete", i)
		}

		owner := c.Owner()
		if owner == "" {
			return "", verifyerr.New(verifyerr.MissingOwner, "credential %d", i)
		}

		if subject == "" {
			subject = owner
			continue
		}

		if owner != subject {
			return "", verifyerr.New(verifyerr.MultipleSubjects, "%s and %s", subject, owner)
		}
	}

	return subject, nil
}

// SigningInput returns the bytes covered by the presentation signature.
func (p *Presentation) SigningInput() ([]byte, error) {
	b, err := json.Marshal(signedBody{Credentials: p.Credentials, Challenge: p.Challenge})
	if err != nil {
		return nil, fmt.Errorf("marshal presentation body: %w", err)
	}

	return b, nil
}

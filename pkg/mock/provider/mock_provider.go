/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package provider

import (
	"github.com/attest-framework/attest-framework-go/pkg/crypto/signature"
	"github.com/attest-framework/attest-framework-go/pkg/ledger"
	"github.com/attest-framework/attest-framework-go/pkg/vdr"
)

// Provider mocks the capabilities needed by the attest client.
type Provider struct {
	SignerValue     signature.Signer
	VDRegistryValue vdr.Resolver
	LedgerValue     ledger.Reader
}

// Signer returns the signer.
func (p *Provider) Signer() signature.Signer {
	return p.SignerValue
}

// VDRegistry returns the DID resolver.
func (p *Provider) VDRegistry() vdr.Resolver {
	return p.VDRegistryValue
}

// Ledger returns the ledger reader.
func (p *Provider) Ledger() ledger.Reader {
	return p.LedgerValue
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vdr

import (
	"context"
	"sync"

	"github.com/attest-framework/attest-framework-go/pkg/crypto/signature"
	vdrapi "github.com/attest-framework/attest-framework-go/pkg/vdr"
)

// MockResolver mock implementation of a DID resolver
// to be used only for unit tests.
type MockResolver struct {
	AcceptValue bool
	ResolveErr  error
	ResolveFunc func(ctx context.Context, did string) (*vdrapi.DocResolution, error)

	mu   sync.RWMutex
	docs map[string]*vdrapi.DocResolution
}

// Resolve did.
func (m *MockResolver) Resolve(ctx context.Context, did string) (*vdrapi.DocResolution, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, did)
	}

	if m.ResolveErr != nil {
		return nil, m.ResolveErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[did]
	if !ok {
		return nil, vdrapi.ErrNotFound
	}

	return doc, nil
}

// Accept did method.
func (m *MockResolver) Accept(string) bool {
	return m.AcceptValue
}

// Put stores a resolution.
func (m *MockResolver) Put(doc *vdrapi.DocResolution) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.docs == nil {
		m.docs = map[string]*vdrapi.DocResolution{}
	}

	m.docs[doc.ID] = doc
}

// Register publishes a single key under did and keyID.
func (m *MockResolver) Register(did, keyID string, pubKey *signature.PublicKey) {
	m.Put(&vdrapi.DocResolution{
		ID: did,
		VerificationMethods: []vdrapi.VerificationMethod{
			{ID: keyID, Controller: did, PublicKey: *pubKey},
		},
	})
}

// Deactivate marks did as deactivated.
func (m *MockResolver) Deactivate(did string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if doc, ok := m.docs[did]; ok {
		deactivated := *doc
		deactivated.Deactivated = true
		m.docs[did] = &deactivated
	}
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"context"
	"sync"

	"github.com/attest-framework/attest-framework-go/pkg/ledger"
)

// MockLedger is an in-memory attestation ledger for unit tests.
type MockLedger struct {
	QueryErr  error
	QueryFunc func(ctx context.Context, claimHash string) (*ledger.Record, error)

	mu      sync.RWMutex
	records map[string]ledger.Record
}

// NewMockLedger creates an empty ledger.
func NewMockLedger() *MockLedger {
	return &MockLedger{records: map[string]ledger.Record{}}
}

// Put anchors a record under claimHash.
func (m *MockLedger) Put(claimHash string, record ledger.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.records == nil {
		m.records = map[string]ledger.Record{}
	}

	m.records[claimHash] = record
}

// Revoke marks the record under claimHash as revoked.
func (m *MockLedger) Revoke(claimHash string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.records[claimHash]; ok {
		r.Revoked = true
		m.records[claimHash] = r
	}
}

// QueryAttestation returns a copy of the record under claimHash.
func (m *MockLedger) QueryAttestation(ctx context.Context, claimHash string) (*ledger.Record, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, claimHash)
	}

	if m.QueryErr != nil {
		return nil, m.QueryErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[claimHash]
	if !ok {
		return nil, ledger.ErrNotFound
	}

	return &r, nil
}

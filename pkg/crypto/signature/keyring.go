/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signature

import (
	"fmt"
	"sync"
)

// KeyPair is a private key able to sign for one key type.
type KeyPair interface {
	KeyType() KeyType
	PublicKey() *PublicKey
	Sign(msg []byte) ([]byte, error)
}

// NewKeyPair generates a key pair of the given type.
func NewKeyPair(kt KeyType) (KeyPair, error) {
	switch kt {
	case Ed25519:
		return NewEd25519KeyPair()
	case Sr25519:
		return NewSr25519KeyPair()
	case EcdsaSecp256k1:
		return NewSecp256k1KeyPair()
	default:
		return nil, fmt.Errorf("cannot generate key of type %s", kt)
	}
}

type keyEntry struct {
	keyID string
	kp    KeyPair
}

// KeyRing is an in-memory Signer holding one signing key per identity.
type KeyRing struct {
	mu   sync.RWMutex
	keys map[string]keyEntry
}

// NewKeyRing creates an empty KeyRing.
func NewKeyRing() *KeyRing {
	return &KeyRing{keys: map[string]keyEntry{}}
}

// Add registers the signing key of identity under keyID, replacing any previous key.
func (r *KeyRing) Add(identity, keyID string, kp KeyPair) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.keys[identity] = keyEntry{keyID: keyID, kp: kp}
}

// Sign signs msg with the key of identity.
func (r *KeyRing) Sign(identity string, msg []byte) (*Signature, error) {
	r.mu.RLock()
	entry, ok := r.keys[identity]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no signing key for %s", identity)
	}

	value, err := entry.kp.Sign(msg)
	if err != nil {
		return nil, fmt.Errorf("sign as %s: %w", identity, err)
	}

	return &Signature{KeyType: entry.kp.KeyType(), KeyID: entry.keyID, Value: value}, nil
}

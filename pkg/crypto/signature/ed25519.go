/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signature

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
)

// Ed25519Verifier verifies Ed25519 signatures.
type Ed25519Verifier struct {
	baseVerifier
}

// NewEd25519Verifier creates a new Ed25519Verifier.
func NewEd25519Verifier() *Ed25519Verifier {
	return &Ed25519Verifier{baseVerifier{keyType: Ed25519}}
}

// Verify verifies the signature.
func (v *Ed25519Verifier) Verify(pubKey, msg, signature []byte) error {
	if len(pubKey) != ed25519.PublicKeySize {
		return errors.New("ed25519: invalid key")
	}

	if !ed25519.Verify(pubKey, msg, signature) {
		return errors.New("ed25519: invalid signature")
	}

	return nil
}

// Ed25519KeyPair is an in-memory Ed25519 key.
type Ed25519KeyPair struct {
	priv ed25519.PrivateKey
}

// NewEd25519KeyPair generates a key pair.
func NewEd25519KeyPair() (*Ed25519KeyPair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key: %w", err)
	}

	return &Ed25519KeyPair{priv: priv}, nil
}

// KeyType returns Ed25519.
func (k *Ed25519KeyPair) KeyType() KeyType {
	return Ed25519
}

// PublicKey returns the verification key.
func (k *Ed25519KeyPair) PublicKey() *PublicKey {
	return &PublicKey{Type: Ed25519, Value: []byte(k.priv.Public().(ed25519.PublicKey))}
}

// Sign signs msg.
func (k *Ed25519KeyPair) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(k.priv, msg), nil
}

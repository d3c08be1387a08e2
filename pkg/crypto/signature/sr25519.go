/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signature

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/go-schnorrkel"
)

var sr25519Context = []byte("substrate")

// Sr25519Verifier verifies schnorrkel signatures over Ristretto25519.
type Sr25519Verifier struct {
	baseVerifier
}

// NewSr25519Verifier creates a new Sr25519Verifier.
func NewSr25519Verifier() *Sr25519Verifier {
	return &Sr25519Verifier{baseVerifier{keyType: Sr25519}}
}

// Verify verifies the signature.
func (v *Sr25519Verifier) Verify(pubKey, msg, signature []byte) error {
	if len(pubKey) != schnorrkel.PublicKeySize {
		return errors.New("sr25519: invalid key")
	}

	if len(signature) != schnorrkel.SignatureSize {
		return errors.New("sr25519: invalid signature")
	}

	var (
		pkBytes  [schnorrkel.PublicKeySize]byte
		sigBytes [schnorrkel.SignatureSize]byte
	)

	copy(pkBytes[:], pubKey)
	copy(sigBytes[:], signature)

	pk := &schnorrkel.PublicKey{}
	if err := pk.Decode(pkBytes); err != nil {
		return fmt.Errorf("sr25519: invalid key: %w", err)
	}

	sig := &schnorrkel.Signature{}
	if err := sig.Decode(sigBytes); err != nil {
		return fmt.Errorf("sr25519: invalid signature: %w", err)
	}

	ok, err := pk.Verify(sig, schnorrkel.NewSigningContext(sr25519Context, msg))
	if err != nil {
		return fmt.Errorf("sr25519: verify: %w", err)
	}

	if !ok {
		return errors.New("sr25519: invalid signature")
	}

	return nil
}

// Sr25519KeyPair is an in-memory sr25519 key.
type Sr25519KeyPair struct {
	priv *schnorrkel.SecretKey
	pub  *schnorrkel.PublicKey
}

// NewSr25519KeyPair generates a key pair.
func NewSr25519KeyPair() (*Sr25519KeyPair, error) {
	priv, pub, err := schnorrkel.GenerateKeypair()
	if err != nil {
		return nil, fmt.Errorf("generate sr25519 key: %w", err)
	}

	return &Sr25519KeyPair{priv: priv, pub: pub}, nil
}

// KeyType returns Sr25519.
func (k *Sr25519KeyPair) KeyType() KeyType {
	return Sr25519
}

// PublicKey returns the verification key.
func (k *Sr25519KeyPair) PublicKey() *PublicKey {
	encoded := k.pub.Encode()

	return &PublicKey{Type: Sr25519, Value: encoded[:]}
}

// Sign signs msg in the substrate signing context.
func (k *Sr25519KeyPair) Sign(msg []byte) ([]byte, error) {
	sig, err := k.priv.Sign(schnorrkel.NewSigningContext(sr25519Context, msg))
	if err != nil {
		return nil, fmt.Errorf("sr25519 sign: %w", err)
	}

	encoded := sig.Encode()

	return encoded[:], nil
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signature

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/attest-framework/attest-framework-go/pkg/crypto/hashing"
)

const (
	secp256k1CompactSize     = 64
	secp256k1RecoverableSize = 65
)

// Secp256k1Verifier verifies ECDSA secp256k1 signatures over the blake2b-256 digest of
// the message.
type Secp256k1Verifier struct {
	baseVerifier
}

// NewSecp256k1Verifier creates a new Secp256k1Verifier.
func NewSecp256k1Verifier() *Secp256k1Verifier {
	return &Secp256k1Verifier{baseVerifier{keyType: EcdsaSecp256k1}}
}

// Verify verifies the signature. Both 64 byte [R || S] and 65 byte [R || S || V]
// encodings are accepted.
func (v *Secp256k1Verifier) Verify(pubKey, msg, signature []byte) error {
	if len(signature) != secp256k1CompactSize && len(signature) != secp256k1RecoverableSize {
		return errors.New("ecdsa: invalid signature size")
	}

	if _, err := crypto.DecompressPubkey(compressed(pubKey)); err != nil {
		return fmt.Errorf("ecdsa: invalid public key: %w", err)
	}

	digest := hashing.Sum(msg)

	if !crypto.VerifySignature(pubKey, digest[:], signature[:secp256k1CompactSize]) {
		return errors.New("ecdsa: invalid signature")
	}

	return nil
}

// compressed returns the 33 byte form of an uncompressed key, or the input unchanged.
func compressed(pubKey []byte) []byte {
	if len(pubKey) != 65 {
		return pubKey
	}

	pk, err := crypto.UnmarshalPubkey(pubKey)
	if err != nil {
		return pubKey
	}

	return crypto.CompressPubkey(pk)
}

// Secp256k1KeyPair is an in-memory secp256k1 key.
type Secp256k1KeyPair struct {
	priv *ecdsa.PrivateKey
}

// NewSecp256k1KeyPair generates a key pair.
func NewSecp256k1KeyPair() (*Secp256k1KeyPair, error) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate secp256k1 key: %w", err)
	}

	return &Secp256k1KeyPair{priv: priv}, nil
}

// Secp256k1KeyPairFromHex loads a hex encoded private key.
func Secp256k1KeyPairFromHex(privHex string) (*Secp256k1KeyPair, error) {
	priv, err := crypto.HexToECDSA(privHex)
	if err != nil {
		return nil, fmt.Errorf("load secp256k1 key: %w", err)
	}

	return &Secp256k1KeyPair{priv: priv}, nil
}

// KeyType returns EcdsaSecp256k1.
func (k *Secp256k1KeyPair) KeyType() KeyType {
	return EcdsaSecp256k1
}

// PublicKey returns the compressed verification key.
func (k *Secp256k1KeyPair) PublicKey() *PublicKey {
	return &PublicKey{Type: EcdsaSecp256k1, Value: crypto.CompressPubkey(&k.priv.PublicKey)}
}

// Sign signs the blake2b-256 digest of msg.
func (k *Secp256k1KeyPair) Sign(msg []byte) ([]byte, error) {
	digest := hashing.Sum(msg)

	sig, err := crypto.Sign(digest[:], k.priv)
	if err != nil {
		return nil, fmt.Errorf("ecdsa sign: %w", err)
	}

	return sig, nil
}

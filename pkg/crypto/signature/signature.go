/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package signature signs and verifies messages with the supported key types.
package signature

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/attest-framework/attest-framework-go/pkg/crypto/hashing"
)

// Signature is a signature value together with the scheme that produced it and the
// identifier of the signing key.
type Signature struct {
	KeyType KeyType
	KeyID   string
	Value   []byte
}

type rawSignature struct {
	KeyType   KeyType `json:"keyType"`
	KeyID     string  `json:"keyId,omitempty"`
	Signature string  `json:"signature"`
}

// MarshalJSON encodes the value as 0x-prefixed hex.
func (s Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(rawSignature{
		KeyType:   s.KeyType,
		KeyID:     s.KeyID,
		Signature: hashing.Encode(s.Value),
	})
}

// UnmarshalJSON decodes a signature written by MarshalJSON.
func (s *Signature) UnmarshalJSON(data []byte) error {
	var raw rawSignature

	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal signature: %w", err)
	}

	value, err := hashing.DecodeHex(raw.Signature)
	if err != nil {
		return fmt.Errorf("unmarshal signature value: %w", err)
	}

	*s = Signature{KeyType: raw.KeyType, KeyID: raw.KeyID, Value: value}

	return nil
}

// PublicKey is a verification key of a given type.
type PublicKey struct {
	Type  KeyType
	Value []byte
}

// Signer produces signatures on behalf of identities.
type Signer interface {
	Sign(identity string, msg []byte) (*Signature, error)
}

// Verifier verifies signatures of a single key type.
type Verifier interface {
	KeyType() KeyType
	Verify(pubKey, msg, signature []byte) error
}

// VerifierFor returns the verifier of the key type.
func VerifierFor(kt KeyType) (Verifier, error) {
	switch kt {
	case Ed25519:
		return NewEd25519Verifier(), nil
	case Sr25519:
		return NewSr25519Verifier(), nil
	case EcdsaSecp256k1:
		return NewSecp256k1Verifier(), nil
	default:
		return nil, fmt.Errorf("no verifier for key type %s", kt)
	}
}

// Verify checks sig over msg with pubKey. The signature's key type must match the key.
func Verify(pubKey *PublicKey, msg []byte, sig *Signature) error {
	if pubKey == nil || sig == nil {
		return errors.New("public key and signature are required")
	}

	if pubKey.Type != sig.KeyType {
		return fmt.Errorf("signature type %s does not match key type %s", sig.KeyType, pubKey.Type)
	}

	v, err := VerifierFor(sig.KeyType)
	if err != nil {
		return err
	}

	return v.Verify(pubKey.Value, msg, sig.Value)
}

type baseVerifier struct {
	keyType KeyType
}

func (v baseVerifier) KeyType() KeyType {
	return v.keyType
}

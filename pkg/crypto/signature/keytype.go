/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signature

import (
	"encoding/json"
	"fmt"
)

// KeyType is the closed set of signature schemes identities may use.
type KeyType int

// Supported key types.
const (
	Ed25519 KeyType = iota + 1
	Sr25519
	EcdsaSecp256k1
)

const (
	ed25519Name   = "ed25519"
	sr25519Name   = "sr25519"
	secp256k1Name = "ecdsa"
)

// String returns the wire name of the key type.
func (kt KeyType) String() string {
	switch kt {
	case Ed25519:
		return ed25519Name
	case Sr25519:
		return sr25519Name
	case EcdsaSecp256k1:
		return secp256k1Name
	default:
		return fmt.Sprintf("unknown(%d)", int(kt))
	}
}

// ParseKeyType parses a wire name.
func ParseKeyType(name string) (KeyType, error) {
	switch name {
	case ed25519Name:
		return Ed25519, nil
	case sr25519Name:
		return Sr25519, nil
	case secp256k1Name:
		return EcdsaSecp256k1, nil
	default:
		return 0, fmt.Errorf("unsupported key type %q", name)
	}
}

// MarshalJSON writes the wire name.
func (kt KeyType) MarshalJSON() ([]byte, error) {
	if _, err := ParseKeyType(kt.String()); err != nil {
		return nil, err
	}

	return json.Marshal(kt.String())
}

// UnmarshalJSON reads the wire name.
func (kt *KeyType) UnmarshalJSON(data []byte) error {
	var name string

	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("key type: %w", err)
	}

	parsed, err := ParseKeyType(name)
	if err != nil {
		return err
	}

	*kt = parsed

	return nil
}

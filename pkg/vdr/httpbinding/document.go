/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package httpbinding

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/go-jose/go-jose/v3"
	"github.com/multiformats/go-multibase"

	"github.com/attest-framework/attest-framework-go/pkg/crypto/signature"
	"github.com/attest-framework/attest-framework-go/pkg/vdr"
)

type rawResolution struct {
	Document json.RawMessage `json:"didDocument"`
	Metadata struct {
		Deactivated bool `json:"deactivated"`
	} `json:"didDocumentMetadata"`
}

type rawDocument struct {
	ID                 string                  `json:"id"`
	VerificationMethod []rawVerificationMethod `json:"verificationMethod"`
	Authentication     []json.RawMessage       `json:"authentication"`
}

type rawVerificationMethod struct {
	ID                 string          `json:"id"`
	Type               string          `json:"type"`
	Controller         string          `json:"controller"`
	PublicKeyMultibase string          `json:"publicKeyMultibase"`
	PublicKeyBase58    string          `json:"publicKeyBase58"`
	PublicKeyHex       string          `json:"publicKeyHex"`
	PublicKeyJwk       json.RawMessage `json:"publicKeyJwk"`
}

// multicodec prefixes of public keys in multibase values.
var multicodecPrefixes = map[signature.KeyType][]byte{
	signature.Ed25519:        {0xed, 0x01},
	signature.Sr25519:        {0xef, 0x01},
	signature.EcdsaSecp256k1: {0xe7, 0x01},
}

var keySizes = map[signature.KeyType]int{
	signature.Ed25519:        ed25519.PublicKeySize,
	signature.Sr25519:        32,
	signature.EcdsaSecp256k1: 33,
}

func trimMulticodec(kt signature.KeyType, value []byte) []byte {
	prefix := multicodecPrefixes[kt]

	if len(value) == len(prefix)+keySizes[kt] && bytes.HasPrefix(value, prefix) {
		return value[len(prefix):]
	}

	return value
}

func parseDocResolution(data []byte) (*vdr.DocResolution, error) {
	var resolution rawResolution

	if err := json.Unmarshal(data, &resolution); err != nil {
		return nil, fmt.Errorf("parse document resolution: %w", err)
	}

	docData := []byte(resolution.Document)
	if len(docData) == 0 {
		docData = data
	}

	var doc rawDocument

	if err := json.Unmarshal(docData, &doc); err != nil {
		return nil, fmt.Errorf("parse did document: %w", err)
	}

	if doc.ID == "" {
		return nil, errors.New("did document has no id")
	}

	methods := doc.VerificationMethod

	// embedded authentication methods are objects, references are strings
	for _, raw := range doc.Authentication {
		if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
			var vm rawVerificationMethod
			if err := json.Unmarshal(raw, &vm); err != nil {
				return nil, fmt.Errorf("parse authentication method: %w", err)
			}

			methods = append(methods, vm)
		}
	}

	result := &vdr.DocResolution{ID: doc.ID, Deactivated: resolution.Metadata.Deactivated}

	for _, raw := range methods {
		vm, err := toVerificationMethod(doc.ID, raw)
		if err != nil {
			logger.Debugf("skip verification method %s: %v", raw.ID, err)

			continue
		}

		result.VerificationMethods = append(result.VerificationMethods, *vm)
	}

	return result, nil
}

func toVerificationMethod(didID string, raw rawVerificationMethod) (*vdr.VerificationMethod, error) {
	kt, err := keyTypeOf(raw.Type)
	if err != nil {
		return nil, err
	}

	value, err := keyValue(kt, raw)
	if err != nil {
		return nil, err
	}

	id := raw.ID
	if strings.HasPrefix(id, "#") {
		id = didID + id
	}

	controller := raw.Controller
	if controller == "" {
		controller = didID
	}

	return &vdr.VerificationMethod{
		ID:         id,
		Controller: controller,
		PublicKey:  signature.PublicKey{Type: kt, Value: value},
	}, nil
}

func keyTypeOf(vmType string) (signature.KeyType, error) {
	switch vmType {
	case "Ed25519VerificationKey2018", "Ed25519VerificationKey2020", "JsonWebKey2020":
		return signature.Ed25519, nil
	case "Sr25519VerificationKey2020":
		return signature.Sr25519, nil
	case "EcdsaSecp256k1VerificationKey2019", "Secp256k1VerificationKey2018":
		return signature.EcdsaSecp256k1, nil
	default:
		return 0, fmt.Errorf("unsupported verification method type %s", vmType)
	}
}

func keyValue(kt signature.KeyType, raw rawVerificationMethod) ([]byte, error) {
	switch {
	case raw.PublicKeyMultibase != "":
		_, value, err := multibase.Decode(raw.PublicKeyMultibase)
		if err != nil {
			return nil, fmt.Errorf("decode publicKeyMultibase: %w", err)
		}

		return trimMulticodec(kt, value), nil
	case raw.PublicKeyBase58 != "":
		value := base58.Decode(raw.PublicKeyBase58)
		if len(value) == 0 {
			return nil, errors.New("decode publicKeyBase58: invalid encoding")
		}

		return value, nil
	case raw.PublicKeyHex != "":
		value, err := hex.DecodeString(strings.TrimPrefix(raw.PublicKeyHex, "0x"))
		if err != nil {
			return nil, fmt.Errorf("decode publicKeyHex: %w", err)
		}

		return value, nil
	case len(raw.PublicKeyJwk) > 0:
		return jwkValue(kt, raw.PublicKeyJwk)
	default:
		return nil, errors.New("verification method has no key material")
	}
}

func jwkValue(kt signature.KeyType, data []byte) ([]byte, error) {
	var jwk jose.JSONWebKey

	if err := jwk.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("decode publicKeyJwk: %w", err)
	}

	pub, ok := jwk.Key.(ed25519.PublicKey)
	if !ok || kt != signature.Ed25519 {
		return nil, fmt.Errorf("unsupported publicKeyJwk key %T for %s", jwk.Key, kt)
	}

	return []byte(pub), nil
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signature

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

var allKeyTypes = []KeyType{Ed25519, Sr25519, EcdsaSecp256k1}

func TestSignAndVerify(t *testing.T) {
	msg := []byte("root hash bytes")

	for _, kt := range allKeyTypes {
		kt := kt

		t.Run(kt.String(), func(t *testing.T) {
			kp, err := NewKeyPair(kt)
			require.NoError(t, err)
			require.Equal(t, kt, kp.KeyType())

			value, err := kp.Sign(msg)
			require.NoError(t, err)

			sig := &Signature{KeyType: kt, Value: value}
			require.NoError(t, Verify(kp.PublicKey(), msg, sig))

			t.Run("other message", func(t *testing.T) {
				require.Error(t, Verify(kp.PublicKey(), []byte("other"), sig))
			})

			t.Run("other key", func(t *testing.T) {
				other, err := NewKeyPair(kt)
				require.NoError(t, err)
				require.Error(t, Verify(other.PublicKey(), msg, sig))
			})

			t.Run("truncated signature", func(t *testing.T) {
				require.Error(t, Verify(kp.PublicKey(), msg, &Signature{KeyType: kt, Value: value[:10]}))
			})

			t.Run("invalid key", func(t *testing.T) {
				require.Error(t, Verify(&PublicKey{Type: kt, Value: []byte{1, 2, 3}}, msg, sig))
			})
		})
	}
}

func TestVerify_Errors(t *testing.T) {
	kp, err := NewEd25519KeyPair()
	require.NoError(t, err)

	value, err := kp.Sign([]byte("msg"))
	require.NoError(t, err)

	t.Run("key type mismatch", func(t *testing.T) {
		err := Verify(kp.PublicKey(), []byte("msg"), &Signature{KeyType: Sr25519, Value: value})
		require.EqualError(t, err, "signature type sr25519 does not match key type ed25519")
	})

	t.Run("unknown key type", func(t *testing.T) {
		err := Verify(&PublicKey{Type: KeyType(9)}, []byte("msg"), &Signature{KeyType: KeyType(9)})
		require.EqualError(t, err, "no verifier for key type unknown(9)")

		_, err = NewKeyPair(KeyType(9))
		require.Error(t, err)
	})

	t.Run("nil arguments", func(t *testing.T) {
		require.Error(t, Verify(nil, []byte("msg"), nil))
	})
}

func TestSecp256k1KeyPairFromHex(t *testing.T) {
	kp, err := Secp256k1KeyPairFromHex("289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032")
	require.NoError(t, err)
	require.Len(t, kp.PublicKey().Value, 33)

	_, err = Secp256k1KeyPairFromHex("zz")
	require.Error(t, err)
}

func TestKeyRing(t *testing.T) {
	kp, err := NewSr25519KeyPair()
	require.NoError(t, err)

	ring := NewKeyRing()
	ring.Add("did:attest:alice", "did:attest:alice#key-1", kp)

	sig, err := ring.Sign("did:attest:alice", []byte("msg"))
	require.NoError(t, err)
	require.Equal(t, Sr25519, sig.KeyType)
	require.Equal(t, "did:attest:alice#key-1", sig.KeyID)
	require.NoError(t, Verify(kp.PublicKey(), []byte("msg"), sig))

	_, err = ring.Sign("did:attest:bob", []byte("msg"))
	require.EqualError(t, err, "no signing key for did:attest:bob")
}

func TestSignatureJSON(t *testing.T) {
	sig := Signature{KeyType: EcdsaSecp256k1, KeyID: "did:attest:alice#key-1", Value: []byte{0xde, 0xad}}

	data, err := json.Marshal(sig)
	require.NoError(t, err)
	require.JSONEq(t, `{"keyType":"ecdsa","keyId":"did:attest:alice#key-1","signature":"0xdead"}`, string(data))

	var decoded Signature
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, sig, decoded)

	t.Run("unknown key type", func(t *testing.T) {
		err := json.Unmarshal([]byte(`{"keyType":"rsa","signature":"0x00"}`), &decoded)
		require.Error(t, err)

		_, err = json.Marshal(Signature{})
		require.Error(t, err)
	})

	t.Run("bad value", func(t *testing.T) {
		err := json.Unmarshal([]byte(`{"keyType":"ed25519","signature":"dead"}`), &decoded)
		require.Error(t, err)
	})
}

func TestParseKeyType(t *testing.T) {
	for _, kt := range allKeyTypes {
		parsed, err := ParseKeyType(kt.String())
		require.NoError(t, err)
		require.Equal(t, kt, parsed)
	}

	_, err := ParseKeyType("rsa")
	require.EqualError(t, err, `unsupported key type "rsa"`)
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package hashing

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/attest-framework/attest-framework-go/pkg/common/verifyerr"
)

func TestHash(t *testing.T) {
	h := HashString("abc")
	require.True(t, strings.HasPrefix(h, "0x"))
	require.Len(t, h, 2+2*Size)
	require.Equal(t, h, HashString("abc"))
	require.NotEqual(t, h, HashString("abd"))

	b, err := Decode(h)
	require.NoError(t, err)
	require.Equal(t, h, Encode(b))
	require.True(t, IsHash(h))

	t.Run("malformed", func(t *testing.T) {
		_, err := Decode("abcd")
		require.True(t, errors.Is(err, verifyerr.MalformedHash))

		_, err = Decode("0xzz")
		require.True(t, errors.Is(err, verifyerr.MalformedHash))

		_, err = Decode("0xabcd")
		require.True(t, errors.Is(err, verifyerr.MalformedHash))
		require.False(t, IsHash("0xabcd"))
	})
}

func TestHashStatements(t *testing.T) {
	statements := []string{`{"a#name":"Alice"}`, `{"a#age":29}`}

	t.Run("creation mode generates nonces", func(t *testing.T) {
		hashed, err := HashStatements(statements, WithNonceGenerator(func(digest string) string {
			return "salt-" + digest[2:6]
		}))
		require.NoError(t, err)
		require.Len(t, hashed, 2)

		for i, h := range hashed {
			require.Equal(t, statements[i], h.Statement)
			require.Equal(t, HashString(statements[i]), h.Digest)
			require.Equal(t, "salt-"+h.Digest[2:6], h.Nonce)
			require.Equal(t, HashString(h.Digest+h.Nonce), h.SaltedHash)
		}
	})

	t.Run("default nonces are fresh", func(t *testing.T) {
		first, err := HashStatements(statements)
		require.NoError(t, err)

		second, err := HashStatements(statements)
		require.NoError(t, err)

		require.Equal(t, first[0].Digest, second[0].Digest)
		require.NotEqual(t, first[0].SaltedHash, second[0].SaltedHash)
	})

	t.Run("reproduction mode is deterministic", func(t *testing.T) {
		created, err := HashStatements(statements)
		require.NoError(t, err)

		nonces := map[string]string{}
		for _, h := range created {
			nonces[h.Digest] = h.Nonce
		}

		reproduced, err := HashStatements(statements, WithNonces(nonces))
		require.NoError(t, err)
		require.Equal(t, created, reproduced)
	})

	t.Run("reproduction mode with incomplete nonces", func(t *testing.T) {
		_, err := HashStatements(statements, WithNonces(map[string]string{
			HashString(statements[0]): "n",
		}))
		require.Error(t, err)
		require.True(t, errors.Is(err, verifyerr.NonceMapIncomplete))
	})
}

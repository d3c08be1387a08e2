/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package hashing implements the hash primitive and the salted statement commitments.
package hashing

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/attest-framework/attest-framework-go/pkg/common/verifyerr"
)

// Size is the digest length in bytes.
const Size = blake2b.Size256

const hexPrefix = "0x"

// Sum returns the blake2b-256 digest of data.
func Sum(data []byte) [Size]byte {
	return blake2b.Sum256(data)
}

// Hash returns the 0x-prefixed hex digest of data.
func Hash(data []byte) string {
	sum := Sum(data)

	return Encode(sum[:])
}

// HashString is Hash for a string value.
func HashString(value string) string {
	return Hash([]byte(value))
}

// Encode renders bytes as lowercase 0x-prefixed hex.
func Encode(b []byte) string {
	return hexPrefix + hex.EncodeToString(b)
}

// Decode parses a 0x-prefixed digest and checks its length.
func Decode(h string) ([]byte, error) {
	b, err := DecodeHex(h)
	if err != nil {
		return nil, err
	}

	if len(b) != Size {
		return nil, verifyerr.New(verifyerr.MalformedHash, "expected %d bytes, got %d", Size, len(b))
	}

	return b, nil
}

// DecodeHex parses 0x-prefixed hex of any length.
func DecodeHex(h string) ([]byte, error) {
	if !strings.HasPrefix(h, hexPrefix) {
		return nil, verifyerr.New(verifyerr.MalformedHash, "missing %s prefix in %q", hexPrefix, h)
	}

	b, err := hex.DecodeString(h[len(hexPrefix):])
	if err != nil {
		return nil, verifyerr.Wrap(verifyerr.MalformedHash, err, fmt.Sprintf("decode %q", h))
	}

	return b, nil
}

// IsHash reports whether h is a well formed digest.
func IsHash(h string) bool {
	_, err := Decode(h)

	return err == nil
}

// HashedStatement is the commitment to one statement.
type HashedStatement struct {
	Statement  string
	Digest     string
	Nonce      string
	SaltedHash string
}

type hashOpts struct {
	nonces   map[string]string
	nonceGen func(digest string) string
}

// Opt configures HashStatements.
type Opt func(opts *hashOpts)

// WithNonces switches to reproduction mode: salts are taken from nonces, keyed by digest.
func WithNonces(nonces map[string]string) Opt {
	return func(opts *hashOpts) {
		opts.nonces = nonces
	}
}

// WithNonceGenerator overrides the fresh salt source used in creation mode.
func WithNonceGenerator(gen func(digest string) string) Opt {
	return func(opts *hashOpts) {
		opts.nonceGen = gen
	}
}

func defaultNonce(string) string {
	return uuid.NewString()
}

// SaltedHash commits to a digest with a salt.
func SaltedHash(digest, nonce string) string {
	return HashString(digest + nonce)
}

// HashStatements commits to each statement. Without WithNonces every statement gets a
// fresh salt; with WithNonces a statement whose digest has no salt fails with
// NonceMapIncomplete.
func HashStatements(statements []string, opts ...Opt) ([]HashedStatement, error) {
	o := &hashOpts{nonceGen: defaultNonce}

	for _, opt := range opts {
		opt(o)
	}

	hashed := make([]HashedStatement, 0, len(statements))

	for _, statement := range statements {
		digest := HashString(statement)

		var nonce string

		if o.nonces != nil {
			n, ok := o.nonces[digest]
			if !ok {
				return nil, verifyerr.New(verifyerr.NonceMapIncomplete, "no nonce for statement digest %s", digest)
			}

			nonce = n
		} else {
			nonce = o.nonceGen(digest)
		}

		hashed = append(hashed, HashedStatement{
			Statement:  statement,
			Digest:     digest,
			Nonce:      nonce,
			SaltedHash: SaltedHash(digest, nonce),
		})
	}

	return hashed, nil
}

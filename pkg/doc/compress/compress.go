/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package compress converts claims, attestations, requests, credentials and
// presentations to and from their compact fixed-position array form.
package compress

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/tidwall/gjson"

	"github.com/attest-framework/attest-framework-go/pkg/common/verifyerr"
	"github.com/attest-framework/attest-framework-go/pkg/crypto/hashing"
	"github.com/attest-framework/attest-framework-go/pkg/crypto/signature"
	"github.com/attest-framework/attest-framework-go/pkg/doc/claim"
	"github.com/attest-framework/attest-framework-go/pkg/doc/credential"
	"github.com/attest-framework/attest-framework-go/pkg/doc/presentation"
)

// ErrInvalidArity is returned when a compact array has the wrong number of elements.
const ErrInvalidArity = verifyerr.InvalidArity

const (
	claimArity        = 3
	attestationArity  = 5
	requestArity      = 7
	credentialArity   = 2
	presentationArity = 3
	signatureArity    = 3
)

// Claim returns [contents, schemaHash, owner].
func Claim(c *claim.Claim) []interface{} {
	return []interface{}{c.Contents, c.SchemaHash, c.Owner}
}

// Attestation returns [claimHash, schemaHash, owner, revoked, delegationId|null].
func Attestation(a *credential.Attestation) []interface{} {
	return []interface{}{a.ClaimHash, a.SchemaHash, a.Owner, a.Revoked, nullable(a.DelegationID)}
}

// Signature returns [keyType, keyId|null, valueHex].
func Signature(s *signature.Signature) []interface{} {
	if s == nil {
		return nil
	}

	return []interface{}{s.KeyType.String(), nullable(s.KeyID), hexutil.Encode(s.Value)}
}

// Request returns [claim, claimHashes, nonceMap, claimerSignature, legitimations,
// delegationId|null, rootHash].
func Request(r *credential.RequestForAttestation) []interface{} {
	legitimations := make([]interface{}, 0, len(r.Legitimations))
	for _, l := range r.Legitimations {
		legitimations = append(legitimations, Credential(l))
	}

	var sig interface{}
	if r.ClaimerSignature != nil {
		sig = Signature(r.ClaimerSignature)
	}

	hashes := r.ClaimHashes
	if hashes == nil {
		hashes = []string{}
	}

	nonces := r.ClaimNonceMap
	if nonces == nil {
		nonces = claim.NonceMap{}
	}

	return []interface{}{
		Claim(r.Claim), hashes, nonces, sig, legitimations, nullable(r.DelegationID), r.RootHash,
	}
}

// Credential returns [request, attestation].
func Credential(c *credential.Credential) []interface{} {
	return []interface{}{Request(c.Request), Attestation(c.Attestation)}
}

// Presentation returns [credentials, challenge|null, signature|null].
func Presentation(p *presentation.Presentation) []interface{} {
	creds := make([]interface{}, 0, len(p.Credentials))
	for _, c := range p.Credentials {
		creds = append(creds, Credential(c))
	}

	var sig interface{}
	if p.Signature != nil {
		sig = Signature(p.Signature)
	}

	return []interface{}{creds, nullable(p.Challenge), sig}
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}

	return s
}

// ParseClaim decodes a compact claim.
func ParseClaim(data []byte) (*claim.Claim, error) {
	return decodeClaim(parse(data))
}

// ParseAttestation decodes a compact attestation.
func ParseAttestation(data []byte) (*credential.Attestation, error) {
	return decodeAttestation(parse(data))
}

// ParseSignature decodes a compact signature.
func ParseSignature(data []byte) (*signature.Signature, error) {
	return decodeSignature(parse(data))
}

// ParseRequest decodes a compact request for attestation.
func ParseRequest(data []byte) (*credential.RequestForAttestation, error) {
	return decodeRequest(parse(data), 0)
}

// ParseCredential decodes a compact credential. Legitimations nested deeper than
// credential.DefaultMaxLegitimationDepth are rejected.
func ParseCredential(data []byte) (*credential.Credential, error) {
	return decodeCredential(parse(data), 0)
}

// ParsePresentation decodes a compact presentation.
func ParsePresentation(data []byte) (*presentation.Presentation, error) {
	r := parse(data)

	elems, err := elements(r, presentationArity, "presentation")
	if err != nil {
		return nil, err
	}

	if !elems[0].IsArray() {
		return nil, verifyerr.New(ErrInvalidArity, "presentation credentials are not an array")
	}

	p := &presentation.Presentation{}

	for i, c := range elems[0].Array() {
		cred, err := decodeCredential(c, 0)
		if err != nil {
			return nil, fmt.Errorf("credential %d: %w", i, err)
		}

		p.Credentials = append(p.Credentials, cred)
	}

	if p.Challenge, err = optionalString(elems[1], "challenge"); err != nil {
		return nil, err
	}

	if elems[2].Type != gjson.Null {
		if p.Signature, err = decodeSignature(elems[2]); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func parse(data []byte) gjson.Result {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}
	}

	return gjson.ParseBytes(data)
}

// elements checks r is an array of exactly arity elements.
func elements(r gjson.Result, arity int, name string) ([]gjson.Result, error) {
	if !r.IsArray() {
		return nil, verifyerr.New(ErrInvalidArity, "%s is not an array", name)
	}

	elems := r.Array()
	if len(elems) != arity {
		return nil, verifyerr.New(ErrInvalidArity, "%s has %d elements, expected %d", name, len(elems), arity)
	}

	return elems, nil
}

func decodeClaim(r gjson.Result) (*claim.Claim, error) {
	elems, err := elements(r, claimArity, "claim")
	if err != nil {
		return nil, err
	}

	if !elems[0].IsObject() {
		return nil, verifyerr.New(verifyerr.InvalidContentValue, "claim contents are not an object")
	}

	var contents claim.Contents

	dec := json.NewDecoder(bytes.NewReader([]byte(elems[0].Raw)))
	dec.UseNumber()

	if err := dec.Decode(&contents); err != nil {
		return nil, verifyerr.Wrap(verifyerr.InvalidContentValue, err, "claim contents")
	}

	schemaHash, err := requiredString(elems[1], verifyerr.MissingSchemaHash, "schema hash")
	if err != nil {
		return nil, err
	}

	owner, err := requiredString(elems[2], verifyerr.MissingOwner, "owner")
	if err != nil {
		return nil, err
	}

	return claim.New(schemaHash, contents, owner)
}

func decodeAttestation(r gjson.Result) (*credential.Attestation, error) {
	elems, err := elements(r, attestationArity, "attestation")
	if err != nil {
		return nil, err
	}

	a := &credential.Attestation{}

	if a.ClaimHash, err = hashString(elems[0], "claim hash"); err != nil {
		return nil, err
	}

	if a.SchemaHash, err = hashString(elems[1], "schema hash"); err != nil {
		return nil, err
	}

	if a.Owner, err = requiredString(elems[2], verifyerr.MissingOwner, "owner"); err != nil {
		return nil, err
	}

	if elems[3].Type != gjson.True && elems[3].Type != gjson.False {
		return nil, verifyerr.New(ErrInvalidArity, "attestation revoked flag is not a boolean")
	}

	a.Revoked = elems[3].Bool()

	if a.DelegationID, err = optionalString(elems[4], "delegation id"); err != nil {
		return nil, err
	}

	return a, nil
}

func decodeSignature(r gjson.Result) (*signature.Signature, error) {
	elems, err := elements(r, signatureArity, "signature")
	if err != nil {
		return nil, err
	}

	name, err := requiredString(elems[0], verifyerr.SignatureUnverifiable, "key type")
	if err != nil {
		return nil, err
	}

	kt, err := signature.ParseKeyType(name)
	if err != nil {
		return nil, verifyerr.Wrap(verifyerr.SignatureUnverifiable, err, "")
	}

	keyID, err := optionalString(elems[1], "key id")
	if err != nil {
		return nil, err
	}

	valueHex, err := requiredString(elems[2], verifyerr.SignatureUnverifiable, "signature value")
	if err != nil {
		return nil, err
	}

	value, err := hexutil.Decode(valueHex)
	if err != nil {
		return nil, verifyerr.Wrap(verifyerr.SignatureUnverifiable, err, "signature value")
	}

	return &signature.Signature{KeyType: kt, KeyID: keyID, Value: value}, nil
}

func decodeRequest(r gjson.Result, depth int) (*credential.RequestForAttestation, error) {
	elems, err := elements(r, requestArity, "request")
	if err != nil {
		return nil, err
	}

	req := &credential.RequestForAttestation{ClaimNonceMap: claim.NonceMap{}}

	if req.Claim, err = decodeClaim(elems[0]); err != nil {
		return nil, err
	}

	if !elems[1].IsArray() {
		return nil, verifyerr.New(ErrInvalidArity, "claim hashes are not an array")
	}

	for _, h := range elems[1].Array() {
		s, err := hashString(h, "claim hash")
		if err != nil {
			return nil, err
		}

		req.ClaimHashes = append(req.ClaimHashes, s)
	}

	if !elems[2].IsObject() {
		return nil, verifyerr.New(ErrInvalidArity, "nonce map is not an object")
	}

	elems[2].ForEach(func(k, v gjson.Result) bool {
		if v.Type != gjson.String {
			err = verifyerr.New(verifyerr.NonceMapIncomplete, "nonce for %s is not a string", k.String())
			return false
		}

		req.ClaimNonceMap[k.String()] = v.Str

		return true
	})

	if err != nil {
		return nil, err
	}

	if elems[3].Type != gjson.Null {
		if req.ClaimerSignature, err = decodeSignature(elems[3]); err != nil {
			return nil, err
		}
	}

	if !elems[4].IsArray() {
		return nil, verifyerr.New(ErrInvalidArity, "legitimations are not an array")
	}

	legitimations := elems[4].Array()
	if len(legitimations) > 0 && depth >= credential.DefaultMaxLegitimationDepth {
		return nil, verifyerr.New(verifyerr.LegitimationUnverifiable, "legitimations nested deeper than %d",
			credential.DefaultMaxLegitimationDepth)
	}

	for i, l := range legitimations {
		cred, err := decodeCredential(l, depth+1)
		if err != nil {
			return nil, fmt.Errorf("legitimation %d: %w", i, err)
		}

		req.Legitimations = append(req.Legitimations, cred)
	}

	if req.DelegationID, err = optionalString(elems[5], "delegation id"); err != nil {
		return nil, err
	}

	if req.RootHash, err = hashString(elems[6], "root hash"); err != nil {
		return nil, err
	}

	return req, nil
}

func decodeCredential(r gjson.Result, depth int) (*credential.Credential, error) {
	elems, err := elements(r, credentialArity, "credential")
	if err != nil {
		return nil, err
	}

	req, err := decodeRequest(elems[0], depth)
	if err != nil {
		return nil, err
	}

	att, err := decodeAttestation(elems[1])
	if err != nil {
		return nil, err
	}

	return &credential.Credential{Request: req, Attestation: att}, nil
}

func requiredString(r gjson.Result, reason verifyerr.Reason, name string) (string, error) {
	if r.Type != gjson.String || r.Str == "" {
		return "", verifyerr.New(reason, "%s is missing", name)
	}

	return r.Str, nil
}

func optionalString(r gjson.Result, name string) (string, error) {
	switch r.Type {
	case gjson.Null:
		return "", nil
	case gjson.String:
		return r.Str, nil
	default:
		return "", verifyerr.New(ErrInvalidArity, "%s is neither a string nor null", name)
	}
}

func hashString(r gjson.Result, name string) (string, error) {
	if r.Type != gjson.String || !hashing.IsHash(r.Str) {
		return "", verifyerr.New(verifyerr.MalformedHash, "%s %s", name, r.Raw)
	}

	return r.Str, nil
}

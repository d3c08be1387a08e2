/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ctype models claim types: JSON schemas identified by their hash.
package ctype

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/attest-framework/attest-framework-go/pkg/common/verifyerr"
	"github.com/attest-framework/attest-framework-go/pkg/crypto/hashing"
	"github.com/attest-framework/attest-framework-go/pkg/doc/claim"
)

// DraftSchema is the JSON schema dialect of claim types.
const DraftSchema = "http://json-schema.org/draft-07/schema#"

// Schema describes the shape of claim contents.
type Schema struct {
	Schema     string                 `json:"$schema"`
	Title      string                 `json:"title"`
	Properties map[string]interface{} `json:"properties"`
	Type       string                 `json:"type"`
}

// CType is a schema with the identity that registered it.
type CType struct {
	Schema Schema `json:"schema"`
	Owner  string `json:"owner,omitempty"`
}

// New creates a claim type for the given properties.
func New(title string, properties map[string]interface{}, owner string) (*CType, error) {
	if title == "" {
		return nil, fmt.Errorf("ctype title is required")
	}

	ct := &CType{
		Schema: Schema{
			Schema:     DraftSchema,
			Title:      title,
			Properties: properties,
			Type:       "object",
		},
		Owner: owner,
	}

	if _, err := ct.validator(); err != nil {
		return nil, err
	}

	return ct, nil
}

// Hash identifies the claim type. It only depends on the schema.
func (ct *CType) Hash() (string, error) {
	data, err := json.Marshal(ct.Schema)
	if err != nil {
		return "", fmt.Errorf("marshal ctype schema: %w", err)
	}

	return hashing.Hash(data), nil
}

func (ct *CType) validator() (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(map[string]interface{}{
		"$schema":              DraftSchema,
		"type":                 "object",
		"properties":           ct.Schema.Properties,
		"additionalProperties": false,
	}))
	if err != nil {
		return nil, fmt.Errorf("invalid ctype schema: %w", err)
	}

	return schema, nil
}

// VerifyClaimStructure checks that c references this claim type and that its contents
// conform to the schema.
func (ct *CType) VerifyClaimStructure(c *claim.Claim) error {
	h, err := ct.Hash()
	if err != nil {
		return err
	}

	if c.SchemaHash != h {
		return verifyerr.New(verifyerr.ClaimStructureInvalid, "claim references schema %s, not %s", c.SchemaHash, h)
	}

	schema, err := ct.validator()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(map[string]interface{}(c.Contents)))
	if err != nil {
		return verifyerr.Wrap(verifyerr.ClaimStructureInvalid, err, "validate contents")
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}

		return verifyerr.New(verifyerr.ClaimStructureInvalid, "%s", strings.Join(msgs, "; "))
	}

	return nil
}

// NewClaim creates a claim of this type after checking its structure.
func (ct *CType) NewClaim(contents claim.Contents, owner string) (*claim.Claim, error) {
	h, err := ct.Hash()
	if err != nil {
		return nil, err
	}

	c, err := claim.New(h, contents, owner)
	if err != nil {
		return nil, err
	}

	if err := ct.VerifyClaimStructure(c); err != nil {
		return nil, err
	}

	return c, nil
}

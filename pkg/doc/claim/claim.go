/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package claim models a claimer's assertion against a schema and the salted
// commitments to its individual properties.
package claim

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/attest-framework/attest-framework-go/pkg/common/verifyerr"
	"github.com/attest-framework/attest-framework-go/pkg/crypto/hashing"
)

// Contents maps property names to values. Values are strings, numbers, booleans or
// nested Contents.
type Contents map[string]interface{}

// Claim is an assertion by Owner over Contents, conforming to the schema identified by
// SchemaHash. A claim whose Contents lost some properties through selective disclosure
// is still a Claim (a partial claim).
type Claim struct {
	SchemaHash string   `json:"cTypeHash"`
	Contents   Contents `json:"contents"`
	Owner      string   `json:"owner"`
}

// New creates a validated claim. The contents are copied.
func New(schemaHash string, contents Contents, owner string) (*Claim, error) {
	c := &Claim{
		SchemaHash: schemaHash,
		Contents:   contents.Copy(),
		Owner:      owner,
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks the claim is well formed.
func (c *Claim) Validate() error {
	if c.SchemaHash == "" {
		return verifyerr.New(verifyerr.MissingSchemaHash, "claim has no schema hash")
	}

	if !hashing.IsHash(c.SchemaHash) {
		return verifyerr.New(verifyerr.MalformedHash, "schema hash %q", c.SchemaHash)
	}

	if c.Owner == "" {
		return verifyerr.New(verifyerr.MissingOwner, "claim has no owner")
	}

	return validateContents(c.Contents, "")
}

func validateContents(contents map[string]interface{}, path string) error {
	for key, value := range contents {
		if err := validateValue(value, path+key); err != nil {
			return err
		}
	}

	return nil
}

func validateValue(value interface{}, path string) error {
	switch v := value.(type) {
	case string, bool, json.Number,
		float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	case Contents:
		return validateContents(v, path+".")
	case map[string]interface{}:
		return validateContents(v, path+".")
	case nil:
		return verifyerr.New(verifyerr.InvalidContentValue, "property %q is null", path)
	default:
		return verifyerr.New(verifyerr.InvalidContentValue, "property %q has unsupported type %s",
			path, reflect.TypeOf(value))
	}
}

// Copy returns a deep copy of the contents.
func (c Contents) Copy() Contents {
	if c == nil {
		return nil
	}

	return Contents(copyMap(c))
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))

	for k, v := range m {
		switch nested := v.(type) {
		case Contents:
			out[k] = copyMap(nested)
		case map[string]interface{}:
			out[k] = copyMap(nested)
		default:
			out[k] = v
		}
	}

	return out
}

// Copy returns a deep copy of the claim.
func (c *Claim) Copy() *Claim {
	return &Claim{
		SchemaHash: c.SchemaHash,
		Contents:   c.Contents.Copy(),
		Owner:      c.Owner,
	}
}

// DecodeContents decodes the claim contents into out, a pointer to a struct whose fields
// carry json tags.
func (c *Claim) DecodeContents(out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("create contents decoder: %w", err)
	}

	if err := decoder.Decode(map[string]interface{}(c.Contents)); err != nil {
		return fmt.Errorf("decode claim contents: %w", err)
	}

	return nil
}

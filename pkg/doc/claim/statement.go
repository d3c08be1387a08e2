/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package claim

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hyperledger/aries-framework-go/component/log"
)

var logger = log.New("attest-framework/doc/claim")

// VocabularySeparator joins the schema hash and the property name in statement keys.
const VocabularySeparator = "#"

// Namespace returns the vocabulary prefix of a schema.
func Namespace(schemaHash string) string {
	return schemaHash + VocabularySeparator
}

// MakeStatement renders one property as a single-key JSON object keyed by the schema
// namespaced property name. The output only depends on the inputs.
func MakeStatement(schemaHash, key string, value interface{}) (string, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(map[string]interface{}{Namespace(schemaHash) + key: value}); err != nil {
		return "", fmt.Errorf("encode statement for property %q: %w", key, err)
	}

	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// MakeStatements returns one statement per contents property, in property name order.
func MakeStatements(c *Claim) ([]string, error) {
	keys := maps.Keys(c.Contents)
	slices.Sort(keys)

	statements := make([]string, 0, len(keys))

	for _, key := range keys {
		s, err := MakeStatement(c.SchemaHash, key, c.Contents[key])
		if err != nil {
			return nil, err
		}

		statements = append(statements, s)
	}

	logger.Debugf("made %d statements for schema %s", len(statements), c.SchemaHash)

	return statements, nil
}

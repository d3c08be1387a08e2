/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ethereum reads attestation records from an EVM attestation registry contract.
package ethereum

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/pkg/errors"

	"github.com/attest-framework/attest-framework-go/pkg/crypto/hashing"
	"github.com/attest-framework/attest-framework-go/pkg/ledger"
)

var logger = log.New("attest-framework/ledger/ethereum")

//go:embed registry_abi.json
var registryABIJSON string

const attestationsMethod = "attestations"

var (
	parsedABI    abi.ABI
	parseABIOnce sync.Once
	errParseABI  error
)

func loadABI() (abi.ABI, error) {
	parseABIOnce.Do(func() {
		parsedABI, errParseABI = abi.JSON(strings.NewReader(registryABIJSON))
	})

	return parsedABI, errParseABI
}

// Reader implements ledger.Reader over the registry contract.
type Reader struct {
	contract *bind.BoundContract
	close    func()
}

// NewReader creates a reader calling the contract through caller.
func NewReader(caller bind.ContractCaller, cfg Config) (*Reader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	parsed, err := loadABI()
	if err != nil {
		return nil, errors.Wrap(err, "parse registry ABI")
	}

	contract := bind.NewBoundContract(common.HexToAddress(cfg.ContractAddress), parsed, caller, nil, nil)

	return &Reader{contract: contract, close: func() {}}, nil
}

// Dial connects to cfg.RPCURL and creates a reader.
func Dial(ctx context.Context, cfg Config) (*Reader, error) {
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", cfg.RPCURL)
	}

	r, err := NewReader(client, cfg)
	if err != nil {
		client.Close()

		return nil, err
	}

	r.close = client.Close

	return r, nil
}

// Close releases the RPC connection.
func (r *Reader) Close() {
	r.close()
}

// QueryAttestation returns the record anchored under claimHash.
func (r *Reader) QueryAttestation(ctx context.Context, claimHash string) (*ledger.Record, error) {
	key, err := hashing.Decode(claimHash)
	if err != nil {
		return nil, err
	}

	var arg [hashing.Size]byte

	copy(arg[:], key)

	var out []interface{}

	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, attestationsMethod, arg); err != nil {
		return nil, errors.Wrapf(err, "call %s(%s)", attestationsMethod, claimHash)
	}

	record, exists, err := decodeRecord(out)
	if err != nil {
		return nil, err
	}

	if !exists {
		logger.Debugf("no attestation for claim hash %s", claimHash)

		return nil, ledger.ErrNotFound
	}

	return record, nil
}

func decodeRecord(out []interface{}) (*ledger.Record, bool, error) {
	const numOutputs = 5

	if len(out) != numOutputs {
		return nil, false, fmt.Errorf("unexpected %s output length %d", attestationsMethod, len(out))
	}

	owner, ok1 := out[0].(string)
	ctypeHash, ok2 := out[1].([32]byte)
	delegationID, ok3 := out[2].([32]byte)
	revoked, ok4 := out[3].(bool)
	exists, ok5 := out[4].(bool)

	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return nil, false, fmt.Errorf("unexpected %s output types", attestationsMethod)
	}

	record := &ledger.Record{
		Owner:      owner,
		SchemaHash: hashing.Encode(ctypeHash[:]),
		Revoked:    revoked,
	}

	if delegationID != ([32]byte{}) {
		record.DelegationID = hashing.Encode(delegationID[:])
	}

	return record, exists, nil
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ethereum

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// DefaultRPCURL is the JSON-RPC endpoint used when none is configured.
	DefaultRPCURL = "http://127.0.0.1:8545"

	envRPCURL   = "ATTEST_LEDGER_RPC_URL"
	envContract = "ATTEST_LEDGER_CONTRACT"
)

// Config locates the attestation registry contract.
type Config struct {
	RPCURL          string
	ContractAddress string
}

// ConfigFromEnv reads the configuration from the environment, falling back to defaults.
func ConfigFromEnv() Config {
	cfg := Config{RPCURL: DefaultRPCURL}

	if v := os.Getenv(envRPCURL); v != "" {
		cfg.RPCURL = v
	}

	cfg.ContractAddress = os.Getenv(envContract)

	return cfg
}

// Validate checks the contract address.
func (c Config) Validate() error {
	if c.ContractAddress == "" {
		return fmt.Errorf("contract address is required (set %s)", envContract)
	}

	if !common.IsHexAddress(c.ContractAddress) {
		return fmt.Errorf("invalid contract address %q", c.ContractAddress)
	}

	return nil
}

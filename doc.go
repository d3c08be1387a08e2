/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package attest lets Go developers issue, present and verify attested claims whose
// properties can be disclosed selectively.
//
// Packages for end developer usage
//
// pkg/client/attest: SDK client for claimers, attesters and verifiers.
//
// pkg/doc/claim, pkg/doc/credential, pkg/doc/presentation: data models with their
// commitment and verification functions.
//
// pkg/doc/compress: compact array encoding of every data model.
//
// pkg/vdr/httpbinding, pkg/ledger/ethereum: resolver and ledger capabilities backed by
// remote services.
//
// Basic workflow
//
//      1) Create a client with attest.New, passing a provider of the signer, DID resolver and ledger reader.
//      2) The claimer calls CreateCommitment and sends the request to an attester.
//      3) The attester calls BindAttestation and anchors the attestation on the ledger.
//      4) The claimer calls ReducePresentation to disclose only what the verifier asked for.
//      5) The verifier calls VerifyPresentation or VerifyCredential.
package attest

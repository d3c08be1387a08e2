/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package httpbinding

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/attest-framework/attest-framework-go/pkg/vdr"
)

const (
	didLDJson          = "application/did+ld+json"
	didResolutionJSON  = "application/ld+json;profile=\"https://w3id.org/did-resolution\""
	acceptResolveTypes = didLDJson + ", " + didResolutionJSON + ", application/json"
)

func (v *VDR) resolveDID(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("HTTP create get request failed: %w", err)
	}

	req.Header.Add("Accept", acceptResolveTypes)

	authToken := v.resolveAuthToken

	if v.authTokenProvider != nil {
		token, tokenErr := v.authTokenProvider.AuthToken()
		if tokenErr != nil {
			return nil, fmt.Errorf("get auth token: %w", tokenErr)
		}

		authToken = "Bearer " + token
	}

	if authToken != "" {
		req.Header.Add("Authorization", authToken)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP Get request failed: %w", err)
	}

	defer closeResponseBody(resp.Body)

	gotBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body failed: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK && isJSON(resp.Header.Get("Content-type")):
		return gotBody, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, vdr.ErrNotFound
	case resp.StatusCode == http.StatusGone:
		// deactivated DIDs are still returned with their metadata
		return gotBody, nil
	}

	return nil, fmt.Errorf("unsupported response from DID resolver [%v] header [%s] body [%s]",
		resp.StatusCode, resp.Header.Get("Content-type"), gotBody)
}

func isJSON(contentType string) bool {
	return strings.Contains(contentType, "json")
}

// Resolve resolves didID at the endpoint.
func (v *VDR) Resolve(ctx context.Context, didID string) (*vdr.DocResolution, error) {
	reqURL, err := url.ParseRequestURI(v.endpointURL)
	if err != nil {
		return nil, fmt.Errorf("url parse request uri failed: %w", err)
	}

	reqURL.Path = path.Join(reqURL.Path, didID)

	data, err := v.resolveDID(ctx, reqURL.String())
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, vdr.ErrNotFound
	}

	doc, err := parseDocResolution(data)
	if err != nil {
		return nil, err
	}

	if doc.ID != didID {
		logger.Warnf("resolved document id %s differs from requested %s", doc.ID, didID)
	}

	return doc, nil
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package httpbinding resolves DIDs through an HTTP(S) universal resolver endpoint.
package httpbinding

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var logger = log.New("attest-framework/vdr/httpbinding")

type authTokenProvider interface {
	AuthToken() (string, error)
}

// VDR resolves DIDs via an HTTP(S) endpoint.
type VDR struct {
	endpointURL       string
	client            *http.Client
	accept            Accept
	resolveAuthToken  string
	authTokenProvider authTokenProvider
}

// Accept decides whether a DID method is served by the endpoint.
type Accept func(method string) bool

// New creates new DID Resolver. The default client traces requests with OpenTelemetry.
func New(endpointURL string, opts ...Option) (*VDR, error) {
	v := &VDR{
		client: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		accept: func(method string) bool { return true },
	}

	for _, opt := range opts {
		opt(v)
	}

	_, err := url.ParseRequestURI(endpointURL)
	if err != nil {
		return nil, fmt.Errorf("base URL invalid: %w", err)
	}

	v.endpointURL = endpointURL

	return v, nil
}

// Accept did method.
func (v *VDR) Accept(method string) bool {
	return v.accept(method)
}

// Option configures the resolver.
type Option func(opts *VDR)

// WithTimeout option is for definition of HTTP(s) timeout value of DID Resolver.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *VDR) {
		opts.client.Timeout = timeout
	}
}

// WithHTTPClient option is for custom http client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(opts *VDR) {
		opts.client = httpClient
	}
}

// WithAccept option is for accept did method.
func WithAccept(accept Accept) Option {
	return func(opts *VDR) {
		opts.accept = accept
	}
}

// WithResolveAuthToken add auth token for resolve.
func WithResolveAuthToken(authToken string) Option {
	return func(opts *VDR) {
		opts.resolveAuthToken = "Bearer " + authToken
	}
}

// WithResolveAuthTokenProvider add auth token provider.
func WithResolveAuthTokenProvider(p authTokenProvider) Option {
	return func(opts *VDR) {
		opts.authTokenProvider = p
	}
}

func closeResponseBody(respBody io.Closer) {
	e := respBody.Close()
	if e != nil {
		logger.Errorf("Failed to close response body: %v", e)
	}
}

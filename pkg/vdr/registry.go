/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vdr

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Option is a registry option.
type Option func(opts *Registry)

// Registry dispatches resolution to the resolver accepting the DID method.
type Registry struct {
	resolvers []MethodResolver
}

// New returns a new registry.
func New(opts ...Option) *Registry {
	r := &Registry{}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// WithResolver adds a DID method resolver. Resolvers are tried in the order added.
func WithResolver(resolver MethodResolver) Option {
	return func(opts *Registry) {
		opts.resolvers = append(opts.resolvers, resolver)
	}
}

// Resolve resolves did with the first resolver accepting its method.
func (r *Registry) Resolve(ctx context.Context, did string) (*DocResolution, error) {
	method, err := GetDidMethod(did)
	if err != nil {
		return nil, err
	}

	resolver, err := r.resolverFor(method)
	if err != nil {
		return nil, err
	}

	doc, err := resolver.Resolve(ctx, did)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("did method resolve failed: %w", err)
	}

	return doc, nil
}

func (r *Registry) resolverFor(method string) (MethodResolver, error) {
	for _, v := range r.resolvers {
		if v.Accept(method) {
			return v, nil
		}
	}

	return nil, fmt.Errorf("did method %s not supported", method)
}

// GetDidMethod returns the method segment of a DID.
func GetDidMethod(didID string) (string, error) {
	const numPartsDID = 3

	didParts := strings.Split(didID, ":")
	if len(didParts) < numPartsDID || didParts[0] != "did" {
		return "", fmt.Errorf("wrong format did input: %s", didID)
	}

	return didParts[1], nil
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package cache wraps a DID resolver with an expiring LRU cache. Only successful
// resolutions are cached.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bluele/gcache"

	"github.com/attest-framework/attest-framework-go/pkg/vdr"
)

const (
	defaultSize = 100
	defaultTTL  = 5 * time.Minute
)

// Resolver is a caching vdr.Resolver.
type Resolver struct {
	next  vdr.Resolver
	cache gcache.Cache
	ttl   time.Duration
}

// Opt configures the cache.
type Opt func(r *Resolver, size *int)

// WithSize sets the maximum number of cached documents.
func WithSize(size int) Opt {
	return func(_ *Resolver, s *int) {
		*s = size
	}
}

// WithTTL sets how long a resolution stays cached.
func WithTTL(ttl time.Duration) Opt {
	return func(r *Resolver, _ *int) {
		r.ttl = ttl
	}
}

// New wraps next.
func New(next vdr.Resolver, opts ...Opt) *Resolver {
	r := &Resolver{next: next, ttl: defaultTTL}
	size := defaultSize

	for _, opt := range opts {
		opt(r, &size)
	}

	r.cache = gcache.New(size).LRU().Build()

	return r
}

// Resolve returns the cached resolution of did or resolves it with the wrapped resolver.
func (r *Resolver) Resolve(ctx context.Context, did string) (*vdr.DocResolution, error) {
	if cached, err := r.cache.Get(did); err == nil {
		doc, ok := cached.(*vdr.DocResolution)
		if ok {
			return doc, nil
		}
	}

	doc, err := r.next.Resolve(ctx, did)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetWithExpire(did, doc, r.ttl); err != nil {
		return nil, fmt.Errorf("cache resolution of %s: %w", did, err)
	}

	return doc, nil
}

// Purge drops did from the cache.
func (r *Resolver) Purge(did string) {
	r.cache.Remove(did)
}

// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cache provides memoization stores for pair property indexes.
package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kortschak/gonets"
)

// Store is a pair property index store keyed by run.
type Store interface {
	// Load returns the index stored for key. If no index is
	// stored, ok is false and err is nil.
	Load(ctx context.Context, key string) (props gonets.Properties, ok bool, err error)

	// Save stores props for key, replacing any existing index.
	// A failed Save leaves no partial index loadable for key.
	Save(ctx context.Context, key string, props gonets.Properties) error
}

// namespace is the UUID namespace for run keys.
var namespace = uuid.MustParse("6f1f2b1e-5d0c-5b7e-9a52-1c3b0e7d4a10")

// Key returns a stable run key identifying the given input descriptions,
// for example a statement table path and modification time. The same parts
// always give the same key.
func Key(parts ...string) string {
	return uuid.NewSHA1(namespace, []byte(strings.Join(parts, "\x00"))).String()
}

// LoadOrCompute returns the index stored in s for key if present, otherwise
// the index returned by compute, which is then saved. Nothing is saved if
// compute fails. The returned loaded flag reports whether the index came
// from the store.
func LoadOrCompute(ctx context.Context, s Store, key string, compute func() (gonets.Properties, error)) (props gonets.Properties, loaded bool, err error) {
	props, ok, err := s.Load(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("cache: load %s: %w", key, err)
	}
	if ok {
		return props, true, nil
	}
	props, err = compute()
	if err != nil {
		return nil, false, err
	}
	err = s.Save(ctx, key, props)
	if err != nil {
		return nil, false, fmt.Errorf("cache: save %s: %w", key, err)
	}
	return props, false, nil
}

// records returns the properties in lexical pair order.
func records(props gonets.Properties) []gonets.PairProperty {
	pairs := props.Pairs()
	recs := make([]gonets.PairProperty, len(pairs))
	for i, p := range pairs {
		recs[i] = props[p]
	}
	return recs
}

func index(recs []gonets.PairProperty) gonets.Properties {
	props := make(gonets.Properties, len(recs))
	for _, r := range recs {
		props[r.Pair()] = r
	}
	return props
}

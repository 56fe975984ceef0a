//
// Tencent is pleased to support the open source community by making trpc-solr-gateway available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-solr-gateway is licensed under the Apache License Version 2.0.
//
//

// Package cached wraps an embedder with a process-scoped memoizing cache.
// Lookups are lock-free; the first computation for a key is single-flight, so
// concurrent cold callers for the same text share one backend call.
package cached

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"trpc.group/trpc-go/trpc-solr-gateway/embedder"
	"trpc.group/trpc-go/trpc-solr-gateway/log"
)

// Verify that Embedder implements the embedder.Embedder interface.
var _ embedder.Embedder = (*Embedder)(nil)

// Embedder memoizes embeddings by exact text bytes. Failed backend calls are
// not cached, so a later call for the same text retries. Entries are never
// evicted; the key space is query text, which is bounded in practice by
// traffic, and stale values cannot occur because embeddings are deterministic
// per deployment.
type Embedder struct {
	backend embedder.Embedder
	group   singleflight.Group
	cache   sync.Map // string -> []float64
	size    atomic.Int64
}

// New wraps backend with a memoizing cache.
func New(backend embedder.Embedder) *Embedder {
	return &Embedder{backend: backend}
}

// GetEmbedding returns the cached vector for text, computing it via the
// backend on first use. The returned slice is shared; callers must not
// mutate it.
//
// Cancellation: a waiter whose context expires returns promptly. The
// underlying flight is detached from any single caller's context so that one
// cancelled request cannot fail the embedding for the others sharing it.
func (e *Embedder) GetEmbedding(ctx context.Context, text string) ([]float64, error) {
	if v, ok := e.cache.Load(text); ok {
		return v.([]float64), nil
	}

	ch := e.group.DoChan(text, func() (any, error) {
		vec, err := e.backend.GetEmbedding(context.WithoutCancel(ctx), text)
		if err != nil {
			return nil, err
		}
		e.cache.Store(text, vec)
		e.size.Add(1)
		log.Debugf("embedding cache: stored entry %d (dim=%d)", e.size.Load(), len(vec))
		return vec, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]float64), nil
	}
}

// GetDimensions delegates to the backend.
func (e *Embedder) GetDimensions() int {
	return e.backend.GetDimensions()
}

// Size returns the number of cached entries.
func (e *Embedder) Size() int {
	return int(e.size.Load())
}

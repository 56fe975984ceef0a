//
// Tencent is pleased to support the open source community by making trpc-solr-gateway available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-solr-gateway is licensed under the Apache License Version 2.0.
//
//

// Package embedder defines the contract for turning query text into a dense
// embedding vector.
package embedder

import "context"

// Embedder resolves query text to an embedding vector. Implementations must
// be safe for concurrent use and must be deterministic for the same text
// within a process lifetime.
type Embedder interface {
	// GetEmbedding generates an embedding vector for the given text.
	// The vector dimensionality is fixed per deployment and must match the
	// Solr dense-vector schema; the gateway does not check it.
	GetEmbedding(ctx context.Context, text string) ([]float64, error)

	// GetDimensions returns the dimensionality of produced embeddings, or 0
	// when not known.
	GetDimensions() int
}

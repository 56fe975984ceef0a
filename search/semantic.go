//
// Tencent is pleased to support the open source community by making trpc-solr-gateway available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-solr-gateway is licensed under the Apache License Version 2.0.
//
//

package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"trpc.group/trpc-go/trpc-solr-gateway/config"
)

// binding is a side-channel named parameter produced while building a
// fragment, attached to the Solr params next to the main q.
type binding struct {
	key    string
	values []string
}

// semanticFragment is the output of one semantic sub-strategy.
type semanticFragment struct {
	fragment string
	bindings []binding
}

// buildSemanticFragment resolves the strategy's vector fields, acquires the
// query embedding and composes the per-field kNN fragments into one
// OR-combined fragment. All fields of the strategy share a single embedding
// for the request text; the memoizing embedder makes repeated strategies
// reuse it as well.
func (p *Planner) buildSemanticFragment(
	ctx context.Context,
	queryText string,
	sem *SemanticOptions,
	boost float64,
	position int,
	preFilterSlot string,
) (*semanticFragment, error) {
	if sem == nil {
		sem = &SemanticOptions{}
	}
	if err := validateSimilarity(sem); err != nil {
		return nil, err
	}
	if sem.TopK < 0 {
		return nil, invalidArgumentf("semantic strategy %d: topK must not be negative, got %d", position, sem.TopK)
	}

	fields, err := p.resolveVectorFields(sem.VectorFields)
	if err != nil {
		return nil, err
	}

	// Validation above must complete before any network I/O so that invalid
	// requests never invoke the embedding service.
	vec, err := p.embedder.GetEmbedding(ctx, queryText)
	if err != nil {
		return nil, WrapError(KindUnavailable, err, "embedding service failed for semantic strategy %d", position)
	}

	slot := fmt.Sprintf("%s%d", slotVectorPrefix, position)
	bindings := []binding{{key: slot, values: []string{vectorLiteral(vec)}}}

	usePreFilter := sem.Similarity != nil && len(sem.Similarity.PreFilter) > 0
	if usePreFilter {
		values := make([]string, 0, len(sem.Similarity.PreFilter))
		for _, pf := range sem.Similarity.PreFilter {
			if pf.Field == "" {
				return nil, invalidArgumentf("semantic strategy %d: pre-filter with empty field", position)
			}
			values = append(values, fmt.Sprintf("%s:%s", pf.Field, pf.Value))
		}
		bindings = append(bindings, binding{key: preFilterSlot, values: values})
	}

	fragments := make([]string, 0, len(fields))
	for _, vf := range fields {
		topK := sem.TopK
		if topK == 0 {
			topK = vf.DefaultTopK
		}
		spec := vectorFragmentSpec{
			field:       vf,
			topK:        topK,
			slot:        slot,
			similarity:  sem.Similarity,
			includeTags: sem.IncludeTags,
			excludeTags: sem.ExcludeTags,
		}
		if usePreFilter {
			spec.preFilterSlot = preFilterSlot
		}
		fragment, err := buildVectorFragment(spec)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, applyBoost(fragment, boost))
	}

	combined := fragments[0]
	if len(fragments) > 1 {
		combined = "(" + strings.Join(fragments, " OR ") + ")"
	}
	return &semanticFragment{fragment: combined, bindings: bindings}, nil
}

// resolveVectorFields maps logical names to configured vector fields. An
// empty list selects every configured field, ordered by name so planning is
// deterministic. Unknown names are user errors, never a fallback.
func (p *Planner) resolveVectorFields(names []string) ([]*config.VectorFieldInfo, error) {
	if len(names) == 0 {
		if len(p.collection.VectorFields) == 0 {
			return nil, invalidArgumentf("semantic strategy: no vector fields configured")
		}
		all := make([]*config.VectorFieldInfo, 0, len(p.collection.VectorFields))
		for _, vf := range p.collection.VectorFields {
			all = append(all, vf)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		return all, nil
	}

	fields := make([]*config.VectorFieldInfo, 0, len(names))
	for _, name := range names {
		vf, ok := p.collection.VectorField(name)
		if !ok {
			return nil, invalidArgumentf("unknown vector field %q", name)
		}
		fields = append(fields, vf)
	}
	return fields, nil
}

func validateSimilarity(sem *SemanticOptions) error {
	if sem.Similarity == nil || len(sem.Similarity.PreFilter) == 0 {
		return nil
	}
	if len(sem.IncludeTags) > 0 || len(sem.ExcludeTags) > 0 {
		return invalidArgumentf("semantic strategy: preFilter cannot be combined with include/exclude tags")
	}
	return nil
}

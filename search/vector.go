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
	"fmt"
	"strconv"
	"strings"

	"trpc.group/trpc-go/trpc-solr-gateway/config"
)

// Named parameter slot prefixes. Slot names are a function of the strategy's
// 1-based position so planning stays deterministic.
const (
	slotKeywordPrefix = "keywordQuery_"
	slotVectorPrefix  = "vectorQuery_"
	slotPreFilter     = "knnPreFilter"
)

// vectorLiteral serializes an embedding as [f1,f2,...] with fixed 6-digit
// decimal formatting. Fixed-point only; scientific notation would make the
// serialization depend on magnitude.
func vectorLiteral(vec []float64) string {
	var b strings.Builder
	b.Grow(len(vec)*10 + 2)
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'f', 6, 64))
	}
	b.WriteByte(']')
	return b.String()
}

// vectorFragmentSpec is the input to the fragmenter for one vector field.
type vectorFragmentSpec struct {
	field       *config.VectorFieldInfo
	topK        int
	slot        string // vector literal slot, referenced as v=$slot
	similarity  *SimilarityOptions
	includeTags []string
	excludeTags []string
	// preFilterSlot names the bound pre-filter slot; empty when the strategy
	// has no pre-filters.
	preFilterSlot string
}

// needsSimilarityParser reports whether the fragment requires Solr's
// vectorSimilarity parser. Plain kNN is used whenever possible since
// vectorSimilarity support varies across Solr versions.
func (s *vectorFragmentSpec) needsSimilarityParser() bool {
	if len(s.includeTags) > 0 || len(s.excludeTags) > 0 || s.preFilterSlot != "" {
		return true
	}
	return s.similarity != nil && (s.similarity.MinReturn != nil || s.similarity.MinTraverse != nil)
}

// buildVectorFragment emits the Solr local-parameters query fragment for one
// vector field. The embedding itself travels in the named slot, not inline,
// so the main q stays short and cacheable.
func buildVectorFragment(spec vectorFragmentSpec) (string, error) {
	if spec.topK <= 0 {
		return "", invalidArgumentf("vector field %q: topK must be positive, got %d", spec.field.Name, spec.topK)
	}

	var b strings.Builder
	parser := "knn"
	if spec.needsSimilarityParser() {
		parser = "vectorSimilarity"
	}
	b.WriteString("{!")
	b.WriteString(parser)
	fmt.Fprintf(&b, " f=%s topK=%d", spec.field.SolrFieldName, spec.topK)
	if sim := spec.similarity; sim != nil {
		if sim.MinReturn != nil {
			fmt.Fprintf(&b, " minReturn=%s", formatThreshold(*sim.MinReturn))
		}
		if sim.MinTraverse != nil {
			fmt.Fprintf(&b, " minTraverse=%s", formatThreshold(*sim.MinTraverse))
		}
	}
	if len(spec.includeTags) > 0 {
		fmt.Fprintf(&b, " includeTags=%s", strings.Join(spec.includeTags, ","))
	}
	if len(spec.excludeTags) > 0 {
		fmt.Fprintf(&b, " excludeTags=%s", strings.Join(spec.excludeTags, ","))
	}
	if spec.preFilterSlot != "" {
		fmt.Fprintf(&b, " preFilter=$%s", spec.preFilterSlot)
	}
	fmt.Fprintf(&b, " v=$%s}", spec.slot)
	inner := b.String()

	switch spec.field.Kind {
	case config.KindInline:
		return inner, nil
	case config.KindEmbeddedDoc:
		return fmt.Sprintf("{!parent which=%q score=max}%s", spec.field.ParentFilter, inner), nil
	case config.KindChildCollection:
		return fmt.Sprintf("{!join method=crossCollection fromIndex=%s from=%s to=id score=max}%s",
			spec.field.ChunkCollection, spec.field.ParentIDField, inner), nil
	default:
		return "", Errorf(KindFailedPrecondition, "vector field %q: malformed kind %q", spec.field.Name, spec.field.Kind)
	}
}

// applyBoost wraps a fragment with score normalization and a multiplicative
// boost. Boost zero means "no wrapper", never multiplication by zero, so
// keyword and semantic contributions stay comparable only when asked for.
func applyBoost(fragment string, boost float64) string {
	if boost <= 0 {
		return fragment
	}
	return fmt.Sprintf("scale(%s,0,1)^%.2f", fragment, boost)
}

// formatThreshold renders similarity thresholds without trailing zeros, e.g.
// 0.7 rather than 0.700000.
func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

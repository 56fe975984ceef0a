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
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-solr-gateway/log"
	"trpc.group/trpc-go/trpc-solr-gateway/solr"
)

const snippetSeparator = " ... "

// MapResponse projects a Solr query response into the API response shape,
// applying the plan's field projection and highlight decisions.
func MapResponse(qr *solr.QueryResponse, plan *Plan) (*SearchResponse, error) {
	if qr == nil {
		return nil, Errorf(KindInternal, "nil solr response")
	}

	resp := &SearchResponse{
		Results:      make([]SearchResult, 0, len(qr.Response.Docs)),
		TotalResults: qr.Response.NumFound,
		QTime:        qr.Header.QTime,
		TimeOfSearch: time.Now(),
	}

	for _, doc := range qr.Response.Docs {
		if len(resp.Results) >= plan.Rows {
			break
		}
		id := doc.ID()
		if id == "" {
			log.Warnf("response mapping: skipping document without id: %v", doc)
			continue
		}
		result := SearchResult{ID: id, Fields: projectFields(doc, plan.Inclusions)}
		if plan.HighlightFields != nil {
			result.MatchedText = highlightFragments(qr.Highlighting[id], plan.HighlightFields)
			result.Snippet = strings.Join(result.MatchedText, snippetSeparator)
		}
		resp.Results = append(resp.Results, result)
	}

	facets, err := mapFacets(qr.FacetCounts)
	if err != nil {
		return nil, err
	}
	resp.Facets = facets
	return resp, nil
}

// projectFields copies the document fields selected by the effective
// inclusion set. A nil set means the plan projected "*,score": everything
// Solr returned passes through.
func projectFields(doc solr.Document, inclusions []string) map[string]any {
	fields := make(map[string]any, len(doc))
	if inclusions == nil {
		for name, value := range doc {
			fields[name] = value
		}
		return fields
	}
	for _, name := range inclusions {
		if value, ok := doc[name]; ok {
			fields[name] = value
		}
	}
	return fields
}

// highlightFragments collects a document's highlight fragments across the
// requested fields, in hl.fl order so output is stable.
func highlightFragments(perField map[string][]string, fields []string) []string {
	if len(perField) == 0 {
		return nil
	}
	var fragments []string
	for _, field := range fields {
		fragments = append(fragments, perField[field]...)
	}
	return fragments
}

// mapFacets flattens Solr's three facet families into one name-keyed map.
// Structurally invalid facet payloads are internal errors; the search is
// failed rather than partially answered.
func mapFacets(fc *solr.FacetCounts) (map[string]FacetResults, error) {
	if fc == nil {
		return nil, nil
	}
	facets := make(map[string]FacetResults)

	for name, flat := range fc.FacetFields {
		pairs, err := flat.Pairs()
		if err != nil {
			return nil, WrapError(KindInternal, err, "facet field %q", name)
		}
		facets[name] = bucketize(pairs)
	}
	for query, count := range fc.FacetQueries {
		facets[query] = FacetResults{Buckets: []FacetBucket{{Value: query, Count: count}}}
	}
	for name, rf := range fc.FacetRanges {
		pairs, err := rf.Counts.Pairs()
		if err != nil {
			return nil, WrapError(KindInternal, err, "facet range %q", name)
		}
		facets[name] = bucketize(pairs)
	}
	if len(facets) == 0 {
		return nil, nil
	}
	return facets, nil
}

func bucketize(pairs []solr.ValueCount) FacetResults {
	buckets := make([]FacetBucket, 0, len(pairs))
	for _, p := range pairs {
		buckets = append(buckets, FacetBucket{Value: p.Value, Count: p.Count})
	}
	return FacetResults{Buckets: buckets}
}

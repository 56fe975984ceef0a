//
// Tencent is pleased to support the open source community by making trpc-solr-gateway available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-solr-gateway is licensed under the Apache License Version 2.0.
//
//

package solr

import (
	"encoding/json"
	"fmt"
)

// Document is one Solr document as returned by the select handler.
type Document map[string]any

// ID returns the document's "id" field as a string, or "" when missing or
// not a string.
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// ResponseHeader mirrors Solr's responseHeader section.
type ResponseHeader struct {
	Status int `json:"status"`
	QTime  int `json:"QTime"`
}

// ResultSet mirrors Solr's response section.
type ResultSet struct {
	NumFound int64      `json:"numFound"`
	Start    int64      `json:"start"`
	Docs     []Document `json:"docs"`
}

// ValueCount is one facet bucket.
type ValueCount struct {
	Value string
	Count int64
}

// FlatCounts is Solr's alternating [value, count, value, count, ...] facet
// array encoding.
type FlatCounts []json.RawMessage

// Pairs decodes the alternating array into buckets, preserving order.
func (f FlatCounts) Pairs() ([]ValueCount, error) {
	if len(f)%2 != 0 {
		return nil, fmt.Errorf("facet counts array has odd length %d", len(f))
	}
	pairs := make([]ValueCount, 0, len(f)/2)
	for i := 0; i < len(f); i += 2 {
		var value string
		if err := json.Unmarshal(f[i], &value); err != nil {
			return nil, fmt.Errorf("facet bucket value: %w", err)
		}
		var count int64
		if err := json.Unmarshal(f[i+1], &count); err != nil {
			return nil, fmt.Errorf("facet bucket count for %q: %w", value, err)
		}
		pairs = append(pairs, ValueCount{Value: value, Count: count})
	}
	return pairs, nil
}

// RangeFacet mirrors one facet_ranges entry.
type RangeFacet struct {
	Counts FlatCounts      `json:"counts"`
	Gap    json.RawMessage `json:"gap"`
	Start  json.RawMessage `json:"start"`
	End    json.RawMessage `json:"end"`
}

// FacetCounts mirrors Solr's facet_counts section.
type FacetCounts struct {
	FacetQueries map[string]int64      `json:"facet_queries"`
	FacetFields  map[string]FlatCounts `json:"facet_fields"`
	FacetRanges  map[string]RangeFacet `json:"facet_ranges"`
}

// ErrorInfo mirrors Solr's error section on failed requests.
type ErrorInfo struct {
	Msg  string `json:"msg"`
	Code int    `json:"code"`
}

// QueryResponse is the decoded body of one select call.
type QueryResponse struct {
	Header       ResponseHeader                 `json:"responseHeader"`
	Response     ResultSet                      `json:"response"`
	Highlighting map[string]map[string][]string `json:"highlighting"`
	FacetCounts  *FacetCounts                   `json:"facet_counts"`
	Error        *ErrorInfo                     `json:"error"`
}

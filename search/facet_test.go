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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-solr-gateway/solr"
)

func TestBuildFacetParamsEmpty(t *testing.T) {
	params := solr.NewParams()
	require.NoError(t, buildFacetParams(params, nil))
	assert.False(t, params.Has("facet"))
}

func TestBuildFacetParamsMixed(t *testing.T) {
	params := solr.NewParams()
	requests := []FacetRequest{
		{Field: &FacetField{Field: "category", Limit: 5, Missing: true, Prefix: "tech"}},
		{Range: &FacetRange{
			Field:   "published",
			Start:   "2020-01-01T00:00:00Z",
			End:     "2026-01-01T00:00:00Z",
			Gap:     "+1YEAR",
			HardEnd: true,
			Other:   "all",
		}},
		{Query: &FacetQuery{Query: "price:[* TO 100]"}},
	}
	require.NoError(t, buildFacetParams(params, requests))

	assert.Equal(t, "true", params.Get("facet"))
	assert.Equal(t, "category", params.Get("facet.field"))
	assert.Equal(t, "5", params.Get("f.category.facet.limit"))
	assert.Equal(t, "true", params.Get("f.category.facet.missing"))
	assert.Equal(t, "tech", params.Get("f.category.facet.prefix"))
	assert.Equal(t, "published", params.Get("facet.range"))
	assert.Equal(t, "2020-01-01T00:00:00Z", params.Get("f.published.facet.range.start"))
	assert.Equal(t, "2026-01-01T00:00:00Z", params.Get("f.published.facet.range.end"))
	assert.Equal(t, "+1YEAR", params.Get("f.published.facet.range.gap"))
	assert.Equal(t, "true", params.Get("f.published.facet.range.hardend"))
	assert.Equal(t, "all", params.Get("f.published.facet.range.other"))
	assert.Equal(t, "price:[* TO 100]", params.Get("facet.query"))

	// facet=true comes first, then each request's params in order.
	keys := params.Keys()
	assert.Equal(t, "facet", keys[0])
	assert.Equal(t, "facet.field", keys[1])
}

func TestBuildFacetParamsFieldOmitsUnsetOptions(t *testing.T) {
	params := solr.NewParams()
	require.NoError(t, buildFacetParams(params, []FacetRequest{{Field: &FacetField{Field: "tag"}}}))
	assert.False(t, params.Has("f.tag.facet.limit"))
	assert.False(t, params.Has("f.tag.facet.missing"))
	assert.False(t, params.Has("f.tag.facet.prefix"))
}

func TestBuildFacetParamsValidation(t *testing.T) {
	tests := []struct {
		name    string
		request FacetRequest
	}{
		{"none set", FacetRequest{}},
		{"two set", FacetRequest{
			Field: &FacetField{Field: "a"},
			Query: &FacetQuery{Query: "b:c"},
		}},
		{"field without name", FacetRequest{Field: &FacetField{}}},
		{"query without query", FacetRequest{Query: &FacetQuery{}}},
		{"range without gap", FacetRequest{Range: &FacetRange{Field: "d", Start: "0", End: "10"}}},
		{"range without name", FacetRequest{Range: &FacetRange{Start: "0", End: "10", Gap: "1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := solr.NewParams()
			err := buildFacetParams(params, []FacetRequest{tt.request})
			require.Error(t, err)
			assert.Equal(t, KindInvalidArgument, KindOf(err))
			// Validation happens before any param is written.
			assert.Zero(t, params.Len())
		})
	}
}

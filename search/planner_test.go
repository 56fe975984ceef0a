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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-solr-gateway/config"
)

// fakeEmbedder returns a fixed vector and counts backend calls.
type fakeEmbedder struct {
	vec   []float64
	calls int
	err   error
}

func (f *fakeEmbedder) GetEmbedding(_ context.Context, _ string) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

func (f *fakeEmbedder) GetDimensions() int { return len(f.vec) }

func testCollection() *config.CollectionConfig {
	return &config.CollectionConfig{
		Name:               "documents",
		KeywordQueryFields: []string{"title", "body"},
		DefaultRows:        10,
		DefaultSort:        "score desc",
		VectorFields: map[string]*config.VectorFieldInfo{
			"title_vec": {Name: "title_vec", SolrFieldName: "title-vector", Kind: config.KindInline, DefaultTopK: 30},
			"body_vec":  {Name: "body_vec", SolrFieldName: "body-vector", Kind: config.KindInline, DefaultTopK: 20},
		},
	}
}

func newTestPlanner(emb *fakeEmbedder) *Planner {
	return NewPlanner(testCollection(), emb)
}

func keywordRequest(query string) *SearchRequest {
	return &SearchRequest{
		Query: query,
		Strategy: StrategyOptions{
			Operator:   OperatorOR,
			Strategies: []Strategy{{Type: StrategyKeyword}},
		},
	}
}

func TestPlanPureKeyword(t *testing.T) {
	// Scenario: one unboosted keyword strategy picks up all config defaults.
	p := newTestPlanner(&fakeEmbedder{})
	plan, err := p.Plan(context.Background(), keywordRequest("hello world"))
	require.NoError(t, err)

	params := plan.Params
	assert.Equal(t, `{!edismax q.op=OR qf="title body" v=$keywordQuery_1}`, params.Get("q"))
	assert.Equal(t, `hello\ world`, params.Get("keywordQuery_1"))
	assert.Equal(t, "0", params.Get("start"))
	assert.Equal(t, "10", params.Get("rows"))
	assert.Equal(t, "score desc", params.Get("sort"))
	assert.Equal(t, "*,score", params.Get("fl"))
	assert.Nil(t, plan.Inclusions)
	assert.Equal(t, 10, plan.Rows)
}

func TestPlanPureSemanticSingleField(t *testing.T) {
	emb := &fakeEmbedder{vec: []float64{0.1, 0.2, 0.3}}
	p := newTestPlanner(emb)
	req := &SearchRequest{
		Query: "q",
		Strategy: StrategyOptions{
			Strategies: []Strategy{{
				Type:     StrategySemantic,
				Semantic: &SemanticOptions{VectorFields: []string{"title_vec"}},
			}},
		},
	}
	plan, err := p.Plan(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "{!knn f=title-vector topK=30 v=$vectorQuery_1}", plan.Params.Get("q"))
	assert.Equal(t, "[0.100000,0.200000,0.300000]", plan.Params.Get("vectorQuery_1"))
	assert.Equal(t, 1, emb.calls)
}

func TestPlanHybridANDWithBoosts(t *testing.T) {
	emb := &fakeEmbedder{vec: []float64{0.1, 0.2, 0.3}}
	p := newTestPlanner(emb)
	req := &SearchRequest{
		Query: "hello",
		Strategy: StrategyOptions{
			Operator: OperatorAND,
			Strategies: []Strategy{
				{Type: StrategyKeyword, Boost: 1.5},
				{
					Type:     StrategySemantic,
					Semantic: &SemanticOptions{VectorFields: []string{"title_vec", "body_vec"}},
					Boost:    1.2,
				},
			},
		},
	}
	plan, err := p.Plan(context.Background(), req)
	require.NoError(t, err)

	wantQ := `scale({!edismax q.op=OR qf="title body" v=$keywordQuery_1},0,1)^1.50 AND ` +
		`(scale({!knn f=title-vector topK=30 v=$vectorQuery_2},0,1)^1.20 OR ` +
		`scale({!knn f=body-vector topK=20 v=$vectorQuery_2},0,1)^1.20)`
	assert.Equal(t, wantQ, plan.Params.Get("q"))

	// Both vector fields share one embedding lookup and one slot.
	assert.Equal(t, 1, emb.calls)
	assert.Equal(t, "[0.100000,0.200000,0.300000]", plan.Params.Get("vectorQuery_2"))
}

func TestPlanSimilarityPreFilter(t *testing.T) {
	emb := &fakeEmbedder{vec: []float64{0.5}}
	p := newTestPlanner(emb)
	req := &SearchRequest{
		Query:         "q",
		FilterQueries: []string{"lang:en"},
		Strategy: StrategyOptions{
			Strategies: []Strategy{{
				Type: StrategySemantic,
				Semantic: &SemanticOptions{
					VectorFields: []string{"title_vec"},
					Similarity: &SimilarityOptions{
						MinReturn:   floatPtr(0.7),
						MinTraverse: floatPtr(0.5),
						PreFilter:   []PreFilter{{Field: "type", Value: "article"}},
					},
				},
			}},
		},
	}
	plan, err := p.Plan(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t,
		"{!vectorSimilarity f=title-vector topK=30 minReturn=0.7 minTraverse=0.5 preFilter=$knnPreFilter v=$vectorQuery_1}",
		plan.Params.Get("q"))
	assert.Equal(t, []string{"type:article"}, plan.Params.Values("knnPreFilter"))
	// Pre-filters travel in their named slot; the main fq is unchanged.
	assert.Equal(t, []string{"lang:en"}, plan.Params.Values("fq"))
}

func TestPlanSecondPreFilterSlotIsNumbered(t *testing.T) {
	emb := &fakeEmbedder{vec: []float64{0.5}}
	p := newTestPlanner(emb)
	semantic := func() *SemanticOptions {
		return &SemanticOptions{
			VectorFields: []string{"title_vec"},
			Similarity:   &SimilarityOptions{PreFilter: []PreFilter{{Field: "type", Value: "article"}}},
		}
	}
	req := &SearchRequest{
		Query: "q",
		Strategy: StrategyOptions{
			Strategies: []Strategy{
				{Type: StrategySemantic, Semantic: semantic()},
				{Type: StrategySemantic, Semantic: semantic()},
			},
		},
	}
	plan, err := p.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, plan.Params.Has("knnPreFilter"))
	assert.True(t, plan.Params.Has("knnPreFilter_2"))
}

func TestPlanUnknownVectorFieldFailsBeforeEmbedding(t *testing.T) {
	emb := &fakeEmbedder{vec: []float64{0.5}}
	p := newTestPlanner(emb)
	req := &SearchRequest{
		Query: "q",
		Strategy: StrategyOptions{
			Strategies: []Strategy{{
				Type:     StrategySemantic,
				Semantic: &SemanticOptions{VectorFields: []string{"does_not_exist"}},
			}},
		},
	}
	_, err := p.Plan(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
	assert.Contains(t, err.Error(), "does_not_exist")
	assert.Zero(t, emb.calls)
}

func TestPlanConflictingSimilarityOptions(t *testing.T) {
	emb := &fakeEmbedder{vec: []float64{0.5}}
	p := newTestPlanner(emb)
	req := &SearchRequest{
		Query: "q",
		Strategy: StrategyOptions{
			Strategies: []Strategy{{
				Type: StrategySemantic,
				Semantic: &SemanticOptions{
					VectorFields: []string{"title_vec"},
					IncludeTags:  []string{"news"},
					Similarity:   &SimilarityOptions{PreFilter: []PreFilter{{Field: "type", Value: "article"}}},
				},
			}},
		},
	}
	_, err := p.Plan(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
	assert.Zero(t, emb.calls)
}

func TestPlanEmptyStrategies(t *testing.T) {
	p := newTestPlanner(&fakeEmbedder{})
	_, err := p.Plan(context.Background(), &SearchRequest{Query: "q"})
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestPlanEmptyQuery(t *testing.T) {
	p := newTestPlanner(&fakeEmbedder{})
	_, err := p.Plan(context.Background(), &SearchRequest{
		Strategy: StrategyOptions{Strategies: []Strategy{{Type: StrategyKeyword}}},
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestPlanNegativeBoost(t *testing.T) {
	p := newTestPlanner(&fakeEmbedder{})
	req := keywordRequest("q")
	req.Strategy.Strategies[0].Boost = -1
	_, err := p.Plan(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestPlanNegativePaging(t *testing.T) {
	p := newTestPlanner(&fakeEmbedder{})

	req := keywordRequest("q")
	req.Start = -1
	_, err := p.Plan(context.Background(), req)
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	req = keywordRequest("q")
	minusOne := -1
	req.NumResults = &minusOne
	_, err = p.Plan(context.Background(), req)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestPlanExplicitPagingAndSort(t *testing.T) {
	p := newTestPlanner(&fakeEmbedder{})
	five := 5
	req := keywordRequest("q")
	req.Start = 20
	req.NumResults = &five
	req.Sort = &Sort{Type: SortByField, Field: "published", Order: SortAsc}

	plan, err := p.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "20", plan.Params.Get("start"))
	assert.Equal(t, "5", plan.Params.Get("rows"))
	assert.Equal(t, "published asc", plan.Params.Get("sort"))
	assert.Equal(t, 5, plan.Rows)
}

func TestPlanScoreSortDefaultsDescending(t *testing.T) {
	p := newTestPlanner(&fakeEmbedder{})
	req := keywordRequest("q")
	req.Sort = &Sort{Type: SortByScore}
	plan, err := p.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "score desc", plan.Params.Get("sort"))
}

func TestPlanZeroRows(t *testing.T) {
	p := newTestPlanner(&fakeEmbedder{})
	zero := 0
	req := keywordRequest("q")
	req.NumResults = &zero
	plan, err := p.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "0", plan.Params.Get("rows"))
	assert.Equal(t, 0, plan.Rows)
}

func TestPlanFilterQueriesPreserveOrder(t *testing.T) {
	p := newTestPlanner(&fakeEmbedder{})
	req := keywordRequest("q")
	req.FilterQueries = []string{"type:article", "lang:en", "year:[2020 TO *]"}
	plan, err := p.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.FilterQueries, plan.Params.Values("fq"))
}

func TestPlanAdditionalParamsAppendLast(t *testing.T) {
	p := newTestPlanner(&fakeEmbedder{})
	req := keywordRequest("q")
	req.AdditionalParams = []Param{
		{Key: "debugQuery", Value: "true"},
		{Key: "fq", Value: "extra:clause"},
	}
	plan, err := p.Plan(context.Background(), req)
	require.NoError(t, err)

	keys := plan.Params.Keys()
	require.GreaterOrEqual(t, len(keys), 2)
	// Passthrough params keep their request order at the end of the map.
	assert.Equal(t, []string{"debugQuery", "fq"}, keys[len(keys)-2:])
	assert.Equal(t, []string{"extra:clause"}, plan.Params.Values("fq"))
	assert.Equal(t, "true", plan.Params.Get("debugQuery"))
}

func TestPlanDeterministic(t *testing.T) {
	emb := &fakeEmbedder{vec: []float64{0.1, 0.2}}
	p := newTestPlanner(emb)
	req := &SearchRequest{
		Query: "deterministic",
		Strategy: StrategyOptions{
			Operator: OperatorOR,
			Strategies: []Strategy{
				{Type: StrategyKeyword, Boost: 2},
				{Type: StrategySemantic, Semantic: &SemanticOptions{}},
			},
		},
	}

	first, err := p.Plan(context.Background(), req)
	require.NoError(t, err)
	second, err := p.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.Params.Encode(), second.Params.Encode())
}

func TestPlanSemanticAllFieldsSortedByName(t *testing.T) {
	emb := &fakeEmbedder{vec: []float64{0.1}}
	p := newTestPlanner(emb)
	req := &SearchRequest{
		Query: "q",
		Strategy: StrategyOptions{
			Strategies: []Strategy{{Type: StrategySemantic, Semantic: &SemanticOptions{}}},
		},
	}
	plan, err := p.Plan(context.Background(), req)
	require.NoError(t, err)
	// body_vec sorts before title_vec regardless of map iteration order.
	assert.Equal(t,
		"({!knn f=body-vector topK=20 v=$vectorQuery_1} OR {!knn f=title-vector topK=30 v=$vectorQuery_1})",
		plan.Params.Get("q"))
}

func TestPlanSemanticTopKOverride(t *testing.T) {
	emb := &fakeEmbedder{vec: []float64{0.1}}
	p := newTestPlanner(emb)
	req := &SearchRequest{
		Query: "q",
		Strategy: StrategyOptions{
			Strategies: []Strategy{{
				Type:     StrategySemantic,
				Semantic: &SemanticOptions{TopK: 7, VectorFields: []string{"title_vec"}},
			}},
		},
	}
	plan, err := p.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "{!knn f=title-vector topK=7 v=$vectorQuery_1}", plan.Params.Get("q"))
}

func TestPlanLegacyBoostWithSemantic(t *testing.T) {
	emb := &fakeEmbedder{vec: []float64{0.1}}
	p := newTestPlanner(emb)
	req := &SearchRequest{
		Query: "q",
		Strategy: StrategyOptions{
			Strategies: []Strategy{{
				Type:    StrategyKeyword,
				Keyword: &KeywordOptions{BoostWithSemantic: true},
			}},
		},
	}
	plan, err := p.Plan(context.Background(), req)
	require.NoError(t, err)

	q := plan.Params.Get("q")
	assert.Contains(t, q, "{!edismax")
	assert.Contains(t, q, " OR ")
	assert.Contains(t, q, "{!knn f=body-vector")
	assert.Contains(t, q, "{!knn f=title-vector")
	assert.True(t, plan.Params.Has("vectorQuery_2"))
	assert.Equal(t, 1, emb.calls)
}

func TestPlanEmbeddingFailureIsUnavailable(t *testing.T) {
	emb := &fakeEmbedder{err: errors.New("backend down")}
	p := newTestPlanner(emb)
	req := &SearchRequest{
		Query: "q",
		Strategy: StrategyOptions{
			Strategies: []Strategy{{Type: StrategySemantic, Semantic: &SemanticOptions{VectorFields: []string{"title_vec"}}}},
		},
	}
	_, err := p.Plan(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, KindUnavailable, KindOf(err))
}

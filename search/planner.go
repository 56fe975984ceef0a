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
	"strconv"
	"strings"

	"trpc.group/trpc-go/trpc-solr-gateway/config"
	"trpc.group/trpc-go/trpc-solr-gateway/embedder"
	"trpc.group/trpc-go/trpc-solr-gateway/solr"
)

// Planner composes structured search requests into Solr parameter maps.
// It is safe for concurrent use: all planning state is request-scoped.
type Planner struct {
	collection *config.CollectionConfig
	embedder   embedder.Embedder
}

// NewPlanner creates a planner over the given collection configuration and
// embedding source.
func NewPlanner(collection *config.CollectionConfig, emb embedder.Embedder) *Planner {
	return &Planner{collection: collection, embedder: emb}
}

// Plan is the fully composed Solr query plus the projection decisions the
// response mapper needs.
type Plan struct {
	// Params is the ordered multi-valued Solr parameter map.
	Params *solr.Params
	// Inclusions is the effective field inclusion set; nil passes all fields.
	Inclusions []string
	// HighlightFields holds the requested highlight fields, in hl.fl order;
	// nil when highlighting is off.
	HighlightFields []string
	// SemanticHighlight records the request's hint for mapping; no Solr
	// parameter corresponds to it.
	SemanticHighlight bool
	// Rows is the effective page size.
	Rows int
}

// Plan walks the strategy tree and assembles the complete parameter map:
// q plus its named slots, paging, filters, sort, facets, highlighting, field
// list, and the raw passthrough parameters last. Planning is pure given a
// warm embedding cache: the same request yields a byte-identical encoding.
func (p *Planner) Plan(ctx context.Context, req *SearchRequest) (*Plan, error) {
	if req == nil || req.Query == "" {
		return nil, invalidArgumentf("query must not be empty")
	}
	if req.Start < 0 {
		return nil, invalidArgumentf("start must not be negative, got %d", req.Start)
	}
	if req.NumResults != nil && *req.NumResults < 0 {
		return nil, invalidArgumentf("numResults must not be negative, got %d", *req.NumResults)
	}

	strategies := expandLegacyStrategies(req.Strategy.Strategies, len(p.collection.VectorFields) > 0)
	if len(strategies) == 0 {
		return nil, invalidArgumentf("at least one search strategy is required")
	}
	operator := req.Strategy.Operator
	if operator == "" {
		operator = OperatorOR
	}
	if operator != OperatorOR && operator != OperatorAND {
		return nil, invalidArgumentf("unknown strategy operator %q", operator)
	}

	fragments := make([]string, 0, len(strategies))
	var bindings []binding
	preFilterCount := 0
	for i, strategy := range strategies {
		position := i + 1
		if strategy.Boost < 0 {
			return nil, invalidArgumentf("strategy %d: boost must not be negative, got %v", position, strategy.Boost)
		}
		switch strategy.Type {
		case StrategyKeyword:
			slot := fmt.Sprintf("%s%d", slotKeywordPrefix, position)
			fragment, text, err := buildKeywordFragment(p.collection.KeywordQueryFields, strategy.Keyword, req.Query, slot)
			if err != nil {
				return nil, err
			}
			fragments = append(fragments, applyBoost(fragment, strategy.Boost))
			bindings = append(bindings, binding{key: slot, values: []string{text}})
		case StrategySemantic:
			preFilterSlot := slotPreFilter
			if preFilterCount > 0 {
				preFilterSlot = fmt.Sprintf("%s_%d", slotPreFilter, position)
			}
			sf, err := p.buildSemanticFragment(ctx, req.Query, strategy.Semantic, strategy.Boost, position, preFilterSlot)
			if err != nil {
				return nil, err
			}
			fragments = append(fragments, sf.fragment)
			bindings = append(bindings, sf.bindings...)
			if strategy.Semantic != nil && strategy.Semantic.Similarity != nil && len(strategy.Semantic.Similarity.PreFilter) > 0 {
				preFilterCount++
			}
		default:
			return nil, invalidArgumentf("strategy %d: unknown type %q", position, strategy.Type)
		}
	}

	params := solr.NewParams()
	params.Set("q", strings.Join(fragments, " "+string(operator)+" "))
	for _, b := range bindings {
		params.Add(b.key, b.values...)
	}

	params.Set("start", strconv.Itoa(req.Start))
	rows := p.collection.DefaultRows
	if req.NumResults != nil {
		rows = *req.NumResults
	}
	params.Set("rows", strconv.Itoa(rows))

	for _, fq := range req.FilterQueries {
		params.Add("fq", fq)
	}

	sortClause, err := p.sortClause(req.Sort)
	if err != nil {
		return nil, err
	}
	params.Set("sort", sortClause)

	if err := buildFacetParams(params, req.FacetRequests); err != nil {
		return nil, err
	}

	plan := &Plan{Params: params, Rows: rows}
	if req.Highlight != nil {
		plan.HighlightFields = buildHighlightParams(params, req.Highlight)
		plan.SemanticHighlight = req.Highlight.SemanticHighlight
	}

	fl, inclusions := buildFieldList(p.collection.DefaultInclusionFields, p.collection.DefaultExclusionFields, req.FieldList)
	params.Set("fl", fl)
	plan.Inclusions = inclusions

	// Passthrough parameters append last and never override structured keys;
	// Solr treats repeated keys as multi-valued where it supports them.
	for _, ap := range req.AdditionalParams {
		if ap.Key == "" {
			return nil, invalidArgumentf("additional parameter with empty key")
		}
		params.Add(ap.Key, ap.Value)
	}

	return plan, nil
}

// sortClause resolves the effective sort: an explicit field sort, an explicit
// score sort, or the configured default.
func (p *Planner) sortClause(s *Sort) (string, error) {
	if s == nil {
		return p.collection.DefaultSort, nil
	}
	order, err := solrOrder(s.Order)
	if err != nil {
		return "", err
	}
	switch s.Type {
	case SortByField:
		if s.Field == "" {
			return "", invalidArgumentf("sort: sortField is required for FIELD sort")
		}
		return s.Field + " " + order, nil
	case SortByScore:
		return "score " + order, nil
	default:
		return "", invalidArgumentf("sort: unknown sortType %q", s.Type)
	}
}

func solrOrder(o SortOrder) (string, error) {
	switch o {
	case SortAsc:
		return "asc", nil
	case SortDesc, "":
		return "desc", nil
	default:
		return "", invalidArgumentf("sort: unknown sortOrder %q", o)
	}
}

// expandLegacyStrategies rewrites the legacy boostWithSemantic keyword flag
// into the composite form: an implicit unboosted semantic strategy over all
// configured vector fields, appended after the declared strategies. The flag
// is ignored when no vector fields are configured, matching its legacy
// best-effort behavior.
func expandLegacyStrategies(strategies []Strategy, haveVectorFields bool) []Strategy {
	needsImplicit := false
	for _, s := range strategies {
		if s.Type == StrategyKeyword && s.Keyword != nil && s.Keyword.BoostWithSemantic {
			needsImplicit = true
			break
		}
	}
	if !needsImplicit || !haveVectorFields {
		return strategies
	}
	expanded := make([]Strategy, len(strategies), len(strategies)+1)
	copy(expanded, strategies)
	return append(expanded, Strategy{Type: StrategySemantic, Semantic: &SemanticOptions{}})
}

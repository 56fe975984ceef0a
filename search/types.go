//
// Tencent is pleased to support the open source community by making trpc-solr-gateway available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-solr-gateway is licensed under the Apache License Version 2.0.
//
//

// Package search plans hybrid keyword/semantic Solr queries from structured
// requests and maps Solr responses back into the API result shape.
package search

import "time"

// Operator combines strategy fragments (and keyword terms) logically.
type Operator string

// Logical operators.
const (
	OperatorOR  Operator = "OR"
	OperatorAND Operator = "AND"
)

// StrategyType discriminates retrieval strategies.
type StrategyType string

// Strategy types.
const (
	StrategyKeyword  StrategyType = "KEYWORD"
	StrategySemantic StrategyType = "SEMANTIC"
)

// SortType selects what the results are ordered by.
type SortType string

// Sort types.
const (
	SortByScore SortType = "SCORE"
	SortByField SortType = "FIELD"
)

// SortOrder is the sort direction.
type SortOrder string

// Sort orders.
const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// Sort is an optional explicit result ordering.
type Sort struct {
	Type  SortType  `json:"sortType"`
	Field string    `json:"sortField,omitempty"`
	Order SortOrder `json:"sortOrder,omitempty"`
}

// FacetField requests value counts over one field.
type FacetField struct {
	Field   string `json:"field"`
	Limit   int    `json:"limit,omitempty"`
	Missing bool   `json:"missing,omitempty"`
	Prefix  string `json:"prefix,omitempty"`
}

// FacetRange requests bucketed counts over one field. Start, End and Gap are
// all required for a well-formed range.
type FacetRange struct {
	Field   string `json:"field"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Gap     string `json:"gap"`
	HardEnd bool   `json:"hardend,omitempty"`
	Other   string `json:"other,omitempty"`
}

// FacetQuery requests the hit count of one raw Solr query.
type FacetQuery struct {
	Query string `json:"query"`
}

// FacetRequest holds exactly one of a field, range or query facet.
type FacetRequest struct {
	Field *FacetField `json:"facetField,omitempty"`
	Range *FacetRange `json:"facetRange,omitempty"`
	Query *FacetQuery `json:"facetQuery,omitempty"`
}

// PreFilter restricts kNN graph traversal to documents matching field:value.
type PreFilter struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// SimilarityOptions tune the vector similarity parser. Setting PreFilter
// together with include/exclude tags on the same strategy is invalid.
type SimilarityOptions struct {
	MinReturn   *float64    `json:"minReturn,omitempty"`
	MinTraverse *float64    `json:"minTraverse,omitempty"`
	PreFilter   []PreFilter `json:"preFilter,omitempty"`
}

// SemanticOptions configure one semantic sub-strategy.
type SemanticOptions struct {
	// TopK overrides the per-field default when positive.
	TopK int `json:"topK,omitempty"`
	// VectorFields lists logical vector field names. Empty means all
	// configured fields.
	VectorFields []string           `json:"vectorFields,omitempty"`
	Similarity   *SimilarityOptions `json:"similarity,omitempty"`
	IncludeTags  []string           `json:"includeTags,omitempty"`
	ExcludeTags  []string           `json:"excludeTags,omitempty"`
}

// KeywordOptions configure one keyword sub-strategy.
type KeywordOptions struct {
	// QueryTextOverride replaces the request query for this strategy only.
	QueryTextOverride string `json:"queryTextOverride,omitempty"`
	// OverrideFieldsToQuery replaces the configured keyword fields.
	OverrideFieldsToQuery []string `json:"overrideFieldsToQuery,omitempty"`
	// Operator joins the query terms; defaults to OR.
	Operator Operator `json:"keywordLogicalOperator,omitempty"`
	// BoostWithSemantic is the legacy flag asking for an implicit semantic
	// strategy over all configured vector fields.
	BoostWithSemantic bool `json:"boostWithSemantic,omitempty"`
}

// Strategy is one keyword or semantic retrieval unit.
type Strategy struct {
	Type     StrategyType     `json:"type"`
	Keyword  *KeywordOptions  `json:"keyword,omitempty"`
	Semantic *SemanticOptions `json:"semantic,omitempty"`
	// Boost scales this strategy's contribution. Zero means unboosted, not
	// multiplied by zero. Negative is invalid.
	Boost float64 `json:"boost,omitempty"`
}

// StrategyOptions is the strategy tree of a request.
type StrategyOptions struct {
	Operator   Operator   `json:"operator,omitempty"`
	Strategies []Strategy `json:"strategies"`
}

// HighlightOptions enable snippet highlighting.
type HighlightOptions struct {
	Fields       []string `json:"fields,omitempty"`
	PreTag       string   `json:"preTag,omitempty"`
	PostTag      string   `json:"postTag,omitempty"`
	SnippetCount int      `json:"snippetCount,omitempty"`
	SnippetSize  int      `json:"snippetSize,omitempty"`
	// SemanticHighlight is recorded as a mapping hint only; it emits no Solr
	// parameter.
	SemanticHighlight bool `json:"semanticHighlight,omitempty"`
}

// FieldList selects the projected fields.
type FieldList struct {
	Inclusions []string `json:"inclusionFields,omitempty"`
	Exclusions []string `json:"exclusionFields,omitempty"`
}

// Param is one raw passthrough parameter.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SearchRequest is the inbound search operation payload.
type SearchRequest struct {
	Query string `json:"query"`
	Start int    `json:"start,omitempty"`
	// NumResults is the page size; nil takes the configured default, zero
	// requests a count-only search.
	NumResults       *int              `json:"numResults,omitempty"`
	FilterQueries    []string          `json:"filterQueries,omitempty"`
	Sort             *Sort             `json:"sort,omitempty"`
	FacetRequests    []FacetRequest    `json:"facetRequests,omitempty"`
	Highlight        *HighlightOptions `json:"highlightOptions,omitempty"`
	FieldList        *FieldList        `json:"fieldList,omitempty"`
	AdditionalParams []Param           `json:"additionalParams,omitempty"`
	Strategy         StrategyOptions   `json:"strategy"`
}

// FacetBucket is one facet value with its count.
type FacetBucket struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// FacetResults holds the ordered buckets of one facet.
type FacetResults struct {
	Buckets []FacetBucket `json:"buckets"`
}

// SearchResult is one mapped document.
type SearchResult struct {
	ID          string         `json:"id"`
	Fields      map[string]any `json:"fields,omitempty"`
	Snippet     string         `json:"snippet,omitempty"`
	MatchedText []string       `json:"matchedText,omitempty"`
}

// SearchResponse is the outbound search operation payload.
type SearchResponse struct {
	Results      []SearchResult          `json:"results"`
	Facets       map[string]FacetResults `json:"facets,omitempty"`
	TotalResults int64                   `json:"totalResults"`
	QTime        int                     `json:"qTime"`
	TimeOfSearch time.Time               `json:"timeOfSearch"`
}

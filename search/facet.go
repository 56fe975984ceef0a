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

	"trpc.group/trpc-go/trpc-solr-gateway/solr"
)

// buildFacetParams translates facet requests into Solr facet parameters,
// preserving request order. facet=true is emitted once, ahead of the first
// facet parameter.
func buildFacetParams(params *solr.Params, requests []FacetRequest) error {
	if len(requests) == 0 {
		return nil
	}
	for i, fr := range requests {
		if err := validateFacetRequest(i, fr); err != nil {
			return err
		}
	}

	params.Set("facet", "true")
	for _, fr := range requests {
		switch {
		case fr.Field != nil:
			addFacetField(params, fr.Field)
		case fr.Range != nil:
			addFacetRange(params, fr.Range)
		case fr.Query != nil:
			params.Add("facet.query", fr.Query.Query)
		}
	}
	return nil
}

func validateFacetRequest(index int, fr FacetRequest) error {
	set := 0
	if fr.Field != nil {
		set++
		if fr.Field.Field == "" {
			return invalidArgumentf("facet request %d: facetField requires a field name", index)
		}
	}
	if fr.Range != nil {
		set++
		r := fr.Range
		if r.Field == "" {
			return invalidArgumentf("facet request %d: facetRange requires a field name", index)
		}
		if r.Start == "" || r.End == "" || r.Gap == "" {
			return invalidArgumentf("facet request %d: facetRange on %q requires start, end and gap", index, r.Field)
		}
	}
	if fr.Query != nil {
		set++
		if fr.Query.Query == "" {
			return invalidArgumentf("facet request %d: facetQuery requires a query", index)
		}
	}
	if set != 1 {
		return invalidArgumentf("facet request %d: exactly one of facetField, facetRange, facetQuery must be set, got %d", index, set)
	}
	return nil
}

func addFacetField(params *solr.Params, f *FacetField) {
	params.Add("facet.field", f.Field)
	if f.Limit > 0 {
		params.Add(perFieldKey(f.Field, "facet.limit"), strconv.Itoa(f.Limit))
	}
	if f.Missing {
		params.Add(perFieldKey(f.Field, "facet.missing"), "true")
	}
	if f.Prefix != "" {
		params.Add(perFieldKey(f.Field, "facet.prefix"), f.Prefix)
	}
}

func addFacetRange(params *solr.Params, r *FacetRange) {
	params.Add("facet.range", r.Field)
	params.Add(perFieldKey(r.Field, "facet.range.start"), r.Start)
	params.Add(perFieldKey(r.Field, "facet.range.end"), r.End)
	params.Add(perFieldKey(r.Field, "facet.range.gap"), r.Gap)
	if r.HardEnd {
		params.Add(perFieldKey(r.Field, "facet.range.hardend"), "true")
	}
	if r.Other != "" {
		params.Add(perFieldKey(r.Field, "facet.range.other"), r.Other)
	}
}

// perFieldKey renders Solr's f.<field>.<param> override syntax.
func perFieldKey(field, param string) string {
	return fmt.Sprintf("f.%s.%s", field, param)
}

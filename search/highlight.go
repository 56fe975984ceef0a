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
	"strconv"
	"strings"

	"trpc.group/trpc-go/trpc-solr-gateway/solr"
)

// Highlight defaults.
const (
	defaultHighlightFields = "title,body"
	defaultPreTag          = "<em>"
	defaultPostTag         = "</em>"
	defaultSnippetCount    = 1
	defaultSnippetSize     = 100
)

// buildHighlightParams emits highlighting parameters. Only called when the
// request carries highlight options. Returns the effective highlight fields
// so response mapping can walk fragments in a deterministic order.
func buildHighlightParams(params *solr.Params, opts *HighlightOptions) []string {
	fields := opts.Fields
	if len(fields) == 0 {
		fields = strings.Split(defaultHighlightFields, ",")
	}
	preTag := opts.PreTag
	if preTag == "" {
		preTag = defaultPreTag
	}
	postTag := opts.PostTag
	if postTag == "" {
		postTag = defaultPostTag
	}
	snippets := opts.SnippetCount
	if snippets < 1 {
		snippets = defaultSnippetCount
	}
	fragsize := opts.SnippetSize
	if fragsize < 1 {
		fragsize = defaultSnippetSize
	}

	params.Add("hl", "true")
	params.Add("hl.fl", strings.Join(fields, ","))
	params.Add("hl.simple.pre", preTag)
	params.Add("hl.simple.post", postTag)
	params.Add("hl.snippets", strconv.Itoa(snippets))
	params.Add("hl.fragsize", strconv.Itoa(fragsize))
	return fields
}

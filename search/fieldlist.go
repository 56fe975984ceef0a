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

	"trpc.group/trpc-go/trpc-solr-gateway/log"
)

// defaultFieldList projects all stored fields plus the score.
const defaultFieldList = "*,score"

// buildFieldList computes the fl parameter: request inclusions merged with
// configured defaults, minus request and configured exclusions, in insertion
// order. An empty result falls back to "*,score" with a nil inclusion set
// (meaning: every returned field passes projection). A field listed on both
// sides resolves to exclusion with a warning, never an error.
func buildFieldList(defaultInclusions, defaultExclusions []string, fl *FieldList) (string, []string) {
	var reqInclusions, reqExclusions []string
	if fl != nil {
		reqInclusions = fl.Inclusions
		reqExclusions = fl.Exclusions
	}

	excluded := make(map[string]bool)
	for _, f := range reqExclusions {
		excluded[f] = true
	}
	for _, f := range defaultExclusions {
		excluded[f] = true
	}

	var inclusions []string
	seen := make(map[string]bool)
	for _, f := range append(append([]string{}, reqInclusions...), defaultInclusions...) {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		if excluded[f] {
			log.Warnf("field list: %q is both included and excluded, excluding it", f)
			continue
		}
		inclusions = append(inclusions, f)
	}

	if len(inclusions) == 0 {
		return defaultFieldList, nil
	}
	return strings.Join(inclusions, ","), inclusions
}

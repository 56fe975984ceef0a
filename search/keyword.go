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
	"strings"

	"trpc.group/trpc-go/trpc-solr-gateway/solr"
)

// buildKeywordFragment emits one edismax fragment for a keyword strategy.
// The (escaped) query text is bound into the named slot rather than inlined,
// keeping Solr syntax out of user-controlled text. Returns the fragment and
// the slot's bound value.
func buildKeywordFragment(defaultFields []string, kw *KeywordOptions, queryText, slot string) (string, string, error) {
	if kw == nil {
		kw = &KeywordOptions{}
	}

	text := queryText
	if kw.QueryTextOverride != "" {
		text = kw.QueryTextOverride
	}

	fields := kw.OverrideFieldsToQuery
	if len(fields) == 0 {
		fields = defaultFields
	}
	if len(fields) == 0 {
		return "", "", invalidArgumentf("keyword strategy: no query fields configured and none overridden")
	}

	op := kw.Operator
	if op == "" {
		op = OperatorOR
	}
	if op != OperatorOR && op != OperatorAND {
		return "", "", invalidArgumentf("keyword strategy: unknown logical operator %q", op)
	}

	fragment := fmt.Sprintf("{!edismax q.op=%s qf=%q v=$%s}", op, strings.Join(fields, " "), slot)
	return fragment, solr.EscapeQueryText(text), nil
}

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
)

func TestBuildKeywordFragmentDefaults(t *testing.T) {
	fragment, text, err := buildKeywordFragment([]string{"title", "body"}, nil, "hello world", "keywordQuery_1")
	require.NoError(t, err)
	assert.Equal(t, `{!edismax q.op=OR qf="title body" v=$keywordQuery_1}`, fragment)
	assert.Equal(t, `hello\ world`, text)
}

func TestBuildKeywordFragmentOverrides(t *testing.T) {
	kw := &KeywordOptions{
		QueryTextOverride:     "override text",
		OverrideFieldsToQuery: []string{"headline"},
		Operator:              OperatorAND,
	}
	fragment, text, err := buildKeywordFragment([]string{"title", "body"}, kw, "ignored", "keywordQuery_2")
	require.NoError(t, err)
	assert.Equal(t, `{!edismax q.op=AND qf="headline" v=$keywordQuery_2}`, fragment)
	assert.Equal(t, `override\ text`, text)
}

func TestBuildKeywordFragmentEscapesReservedCharacters(t *testing.T) {
	_, text, err := buildKeywordFragment([]string{"title"}, nil, `rate: 10/s (approx)`, "keywordQuery_1")
	require.NoError(t, err)
	assert.Equal(t, `rate\:\ 10\/s\ \(approx\)`, text)
}

func TestBuildKeywordFragmentNoFields(t *testing.T) {
	_, _, err := buildKeywordFragment(nil, &KeywordOptions{}, "q", "keywordQuery_1")
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestBuildKeywordFragmentRejectsUnknownOperator(t *testing.T) {
	_, _, err := buildKeywordFragment([]string{"title"}, &KeywordOptions{Operator: "XOR"}, "q", "keywordQuery_1")
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

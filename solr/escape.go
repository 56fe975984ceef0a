//
// Tencent is pleased to support the open source community by making trpc-solr-gateway available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-solr-gateway is licensed under the Apache License Version 2.0.
//
//

package solr

import "strings"

// Characters the Solr query parsers treat specially. '&' and '|' cover the
// '&&' and '||' operators; escaping each occurrence is harmless.
const querySpecials = `\+-!(){}[]^"~*?:/&|`

// EscapeQueryText escapes Solr reserved characters and whitespace in user
// query text so it is safe to bind into a query parameter slot.
func EscapeQueryText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || strings.ContainsRune(querySpecials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

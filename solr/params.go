//
// Tencent is pleased to support the open source community by making trpc-solr-gateway available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-solr-gateway is licensed under the Apache License Version 2.0.
//
//

// Package solr models Solr select requests and responses: an insertion-ordered
// multi-valued parameter map, query escaping and an HTTP client.
package solr

import (
	"net/url"
	"strings"
)

// Params is a multi-valued Solr parameter map. Unlike url.Values it preserves
// key insertion order and per-key value order, so an assembled query encodes
// deterministically.
type Params struct {
	keys   []string
	values map[string][]string
}

// NewParams returns an empty parameter map.
func NewParams() *Params {
	return &Params{values: make(map[string][]string)}
}

// Add appends values to key, registering the key on first use.
func (p *Params) Add(key string, values ...string) {
	if len(values) == 0 {
		return
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = append(p.values[key], values...)
}

// Set replaces all values of key with value.
func (p *Params) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = []string{value}
}

// Get returns the first value of key, or "" when absent.
func (p *Params) Get(key string) string {
	vs := p.values[key]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// Values returns all values of key in insertion order.
func (p *Params) Values(key string) []string {
	return p.values[key]
}

// Has reports whether key is present.
func (p *Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (p *Params) Keys() []string {
	return p.keys
}

// Len returns the number of distinct keys.
func (p *Params) Len() int {
	return len(p.keys)
}

// Encode serializes the map as application/x-www-form-urlencoded, keeping key
// insertion order and value order.
func (p *Params) Encode() string {
	var b strings.Builder
	for _, key := range p.keys {
		ek := url.QueryEscape(key)
		for _, v := range p.values[key] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(ek)
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

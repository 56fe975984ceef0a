//
// Tencent is pleased to support the open source community by making trpc-solr-gateway available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-solr-gateway is licensed under the Apache License Version 2.0.
//
//

// Package config defines the declarative collection configuration for the
// search gateway and validates it at startup.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// VectorFieldKind selects how a logical vector field is retrieved from Solr.
type VectorFieldKind string

const (
	// KindInline retrieves from a dense-vector field stored on the primary document.
	KindInline VectorFieldKind = "inline"
	// KindEmbeddedDoc retrieves from child documents nested in the primary document.
	KindEmbeddedDoc VectorFieldKind = "embedded_doc"
	// KindChildCollection retrieves from a separate chunk collection joined back
	// to the primary document.
	KindChildCollection VectorFieldKind = "child_collection"
)

// Defaults applied before validation.
const (
	defaultRows          = 10
	defaultSort          = "score desc"
	defaultTopK          = 10
	defaultParentFilter  = "isParent:true"
	defaultParentIDField = "parent_id"
	defaultSolrTimeout   = 30 * time.Second
)

// VectorFieldInfo binds one logical vector field name to a physical Solr
// dense-vector field and a retrieval kind.
type VectorFieldInfo struct {
	// Name is the logical identifier used in requests. Filled from the map key.
	Name string `yaml:"-"`
	// SolrFieldName is the physical dense-vector field in Solr, or in the
	// chunk collection for KindChildCollection.
	SolrFieldName string `yaml:"solrFieldName"`
	// Kind selects the retrieval mode.
	Kind VectorFieldKind `yaml:"kind"`
	// DefaultTopK is the kNN topK used when a request does not override it.
	DefaultTopK int `yaml:"defaultTopK"`
	// ChunkCollection names the chunk collection. Required iff Kind is
	// KindChildCollection.
	ChunkCollection string `yaml:"chunkCollection"`
	// ParentFilter selects parent documents for KindEmbeddedDoc block joins.
	ParentFilter string `yaml:"parentFilter"`
	// ParentIDField is the chunk-side field holding the primary document id
	// for KindChildCollection joins.
	ParentIDField string `yaml:"parentIDField"`
	// EmbeddingSource identifies the embedding backend producing this vector.
	EmbeddingSource string `yaml:"embeddingSource"`
}

// CollectionConfig describes the Solr collection the gateway searches.
type CollectionConfig struct {
	Name                   string                      `yaml:"collectionName"`
	KeywordQueryFields     []string                    `yaml:"keywordQueryFields"`
	DefaultInclusionFields []string                    `yaml:"defaultInclusionFields"`
	DefaultExclusionFields []string                    `yaml:"defaultExclusionFields"`
	DefaultRows            int                         `yaml:"defaultRows"`
	DefaultSort            string                      `yaml:"defaultSort"`
	VectorFields           map[string]*VectorFieldInfo `yaml:"vectorFields"`
}

// SolrConfig points the gateway at a Solr instance.
type SolrConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// EmbeddingConfig points the gateway at an OpenAI-compatible embedding service.
type EmbeddingConfig struct {
	Address    string `yaml:"address"`
	APIKey     string `yaml:"apiKey"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// Config is the process-wide gateway configuration. It is loaded once,
// validated at startup and never mutated afterwards.
type Config struct {
	Solr       SolrConfig       `yaml:"solr"`
	Embedding  EmbeddingConfig  `yaml:"embeddingService"`
	Collection CollectionConfig `yaml:"collection"`
}

// Load reads, defaults and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes, defaults and validates YAML configuration bytes.
// Unknown keys are rejected so typos fail at startup rather than silently.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config decode: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Solr.Timeout <= 0 {
		c.Solr.Timeout = defaultSolrTimeout
	}
	coll := &c.Collection
	if coll.DefaultRows == 0 {
		coll.DefaultRows = defaultRows
	}
	if coll.DefaultSort == "" {
		coll.DefaultSort = defaultSort
	}
	for name, vf := range coll.VectorFields {
		if vf == nil {
			continue
		}
		vf.Name = name
		if vf.Kind == "" {
			vf.Kind = KindInline
		}
		if vf.DefaultTopK == 0 {
			vf.DefaultTopK = defaultTopK
		}
		if vf.Kind == KindEmbeddedDoc && vf.ParentFilter == "" {
			vf.ParentFilter = defaultParentFilter
		}
		if vf.Kind == KindChildCollection && vf.ParentIDField == "" {
			vf.ParentIDField = defaultParentIDField
		}
	}
}

// Validate checks the startup invariants. A Config that fails validation must
// never serve requests; the caller is expected to abort.
func (c *Config) Validate() error {
	var errs []error
	if c.Collection.Name == "" {
		errs = append(errs, errors.New("collection: collectionName is required"))
	}
	if c.Collection.DefaultRows <= 0 {
		errs = append(errs, fmt.Errorf("collection: defaultRows must be positive, got %d", c.Collection.DefaultRows))
	}
	if c.Collection.DefaultSort == "" {
		errs = append(errs, errors.New("collection: defaultSort is required"))
	}
	for name, vf := range c.Collection.VectorFields {
		if vf == nil {
			errs = append(errs, fmt.Errorf("vectorFields.%s: missing definition", name))
			continue
		}
		errs = append(errs, vf.validate()...)
	}
	return errors.Join(errs...)
}

func (vf *VectorFieldInfo) validate() []error {
	var errs []error
	prefix := fmt.Sprintf("vectorFields.%s", vf.Name)
	if vf.SolrFieldName == "" {
		errs = append(errs, fmt.Errorf("%s: solrFieldName is required", prefix))
	}
	switch vf.Kind {
	case KindInline, KindEmbeddedDoc:
		if vf.ChunkCollection != "" {
			errs = append(errs, fmt.Errorf("%s: chunkCollection is only valid for kind %q", prefix, KindChildCollection))
		}
	case KindChildCollection:
		if vf.ChunkCollection == "" {
			errs = append(errs, fmt.Errorf("%s: chunkCollection is required for kind %q", prefix, KindChildCollection))
		}
	default:
		errs = append(errs, fmt.Errorf("%s: unknown kind %q", prefix, vf.Kind))
	}
	if vf.DefaultTopK <= 0 {
		errs = append(errs, fmt.Errorf("%s: defaultTopK must be positive, got %d", prefix, vf.DefaultTopK))
	}
	return errs
}

// VectorField looks up a logical vector field by name.
func (c *CollectionConfig) VectorField(name string) (*VectorFieldInfo, bool) {
	vf, ok := c.VectorFields[name]
	return vf, ok
}

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
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"trpc.group/trpc-go/trpc-solr-gateway/config"
	"trpc.group/trpc-go/trpc-solr-gateway/embedder"
	"trpc.group/trpc-go/trpc-solr-gateway/log"
	"trpc.group/trpc-go/trpc-solr-gateway/solr"
	"trpc.group/trpc-go/trpc-solr-gateway/telemetry"
)

// Service is the search entry point: plan, query Solr, map. It performs no
// retries; retrying is the caller's responsibility.
type Service struct {
	cfg     *config.Config
	planner *Planner
	solr    solr.Client

	requests metric.Int64Counter
	latency  metric.Float64Histogram
}

// NewService validates the configuration and assembles the pipeline. Both
// collaborators are injected; the service owns no connections.
func NewService(cfg *config.Config, solrClient solr.Client, emb embedder.Embedder) (*Service, error) {
	if cfg == nil {
		return nil, Errorf(KindFailedPrecondition, "configuration is required")
	}
	if solrClient == nil {
		return nil, Errorf(KindFailedPrecondition, "solr client is required")
	}
	if emb == nil {
		return nil, Errorf(KindFailedPrecondition, "embedder is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapError(KindFailedPrecondition, err, "invalid configuration")
	}

	s := &Service{
		cfg:     cfg,
		planner: NewPlanner(&cfg.Collection, emb),
		solr:    solrClient,
	}
	var err error
	s.requests, err = telemetry.Meter.Int64Counter("gateway.search.requests",
		metric.WithDescription("Completed search requests by status."))
	if err != nil {
		log.Warnf("search service: create request counter: %v", err)
	}
	s.latency, err = telemetry.Meter.Float64Histogram("gateway.search.duration",
		metric.WithDescription("End-to-end search latency."),
		metric.WithUnit("s"))
	if err != nil {
		log.Warnf("search service: create latency histogram: %v", err)
	}
	return s, nil
}

// Search executes one search request end to end.
func (s *Service) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "gateway.search",
		trace.WithAttributes(attribute.String("solr.collection", s.cfg.Collection.Name)))
	defer span.End()
	start := time.Now()

	resp, err := s.search(ctx, req)
	s.record(ctx, span, start, err)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("search.total_results", resp.TotalResults))
	return resp, nil
}

func (s *Service) search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	plan, err := s.planner.Plan(ctx, req)
	if err != nil {
		return nil, err
	}

	qr, err := s.solr.Query(ctx, s.cfg.Collection.Name, plan.Params)
	if err != nil {
		return nil, classifySolrError(err)
	}
	return MapResponse(qr, plan)
}

func (s *Service) record(ctx context.Context, span trace.Span, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = KindOf(err).String()
		span.RecordError(err)
		log.Errorf("search failed: %v", err)
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	if s.requests != nil {
		s.requests.Add(ctx, 1, attrs)
	}
	if s.latency != nil {
		s.latency.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

// classifySolrError maps Solr client failures onto the error taxonomy:
// rejected queries are the caller's fault, 5xx and transport failures are
// retryable-external, undecodable payloads are internal.
func classifySolrError(err error) error {
	var httpErr *solr.HTTPError
	switch {
	case errors.As(err, &httpErr):
		if httpErr.Retryable() {
			return WrapError(KindUnavailable, err, "solr unavailable")
		}
		return WrapError(KindInvalidArgument, err, "solr rejected the query")
	case errors.Is(err, solr.ErrDecode):
		return WrapError(KindInternal, err, "solr response unreadable")
	default:
		return WrapError(KindUnavailable, err, "solr unreachable")
	}
}

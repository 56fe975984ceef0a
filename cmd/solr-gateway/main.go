//
// Tencent is pleased to support the open source community by making trpc-solr-gateway available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-solr-gateway is licensed under the Apache License Version 2.0.
//
//

// Command solr-gateway runs the hybrid search gateway: an HTTP search API in
// front of a Solr collection with dense-vector fields.
package main

import (
	"context"
	"flag"
	"os/signal"
	"strings"
	"syscall"

	"trpc.group/trpc-go/trpc-solr-gateway/config"
	"trpc.group/trpc-go/trpc-solr-gateway/embedder/cached"
	"trpc.group/trpc-go/trpc-solr-gateway/embedder/openai"
	"trpc.group/trpc-go/trpc-solr-gateway/log"
	"trpc.group/trpc-go/trpc-solr-gateway/search"
	"trpc.group/trpc-go/trpc-solr-gateway/server"
	"trpc.group/trpc-go/trpc-solr-gateway/solr"
	"trpc.group/trpc-go/trpc-solr-gateway/telemetry"
)

func main() {
	var (
		configPath  = flag.String("config", "config.yaml", "path to the gateway configuration file")
		addr        = flag.String("addr", ":8080", "listen address for the HTTP API")
		logLevel    = flag.String("log-level", log.LevelInfo, "log level: debug, info, warn, error, fatal")
		corsOrigins = flag.String("cors-origins", "", "comma-separated allowed CORS origins")
		enableOTLP  = flag.Bool("telemetry", false, "export traces and metrics over OTLP gRPC")
	)
	flag.Parse()
	log.SetLevel(*logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}

	if *enableOTLP {
		clean, err := telemetry.Start(ctx)
		if err != nil {
			log.Fatalf("start telemetry: %v", err)
		}
		defer func() {
			if err := clean(); err != nil {
				log.Warnf("shutdown telemetry: %v", err)
			}
		}()
	}

	solrClient, err := solr.NewHTTPClient(cfg.Solr.URL, solr.WithTimeout(cfg.Solr.Timeout))
	if err != nil {
		log.Fatalf("create solr client: %v", err)
	}

	var embedderOpts []openai.Option
	if cfg.Embedding.Address != "" {
		embedderOpts = append(embedderOpts, openai.WithBaseURL(cfg.Embedding.Address))
	}
	if cfg.Embedding.APIKey != "" {
		embedderOpts = append(embedderOpts, openai.WithAPIKey(cfg.Embedding.APIKey))
	}
	if cfg.Embedding.Model != "" {
		embedderOpts = append(embedderOpts, openai.WithModel(cfg.Embedding.Model))
	}
	if cfg.Embedding.Dimensions > 0 {
		embedderOpts = append(embedderOpts, openai.WithDimensions(cfg.Embedding.Dimensions))
	}
	emb := cached.New(openai.New(embedderOpts...))

	svc, err := search.NewService(cfg, solrClient, emb)
	if err != nil {
		log.Fatalf("create search service: %v", err)
	}

	var serverOpts []server.Option
	if *corsOrigins != "" {
		serverOpts = append(serverOpts, server.WithCORSOrigins(strings.Split(*corsOrigins, ",")))
	}
	srv := server.New(svc, serverOpts...)

	log.Infof("solr gateway starting: collection=%s solr=%s", cfg.Collection.Name, cfg.Solr.URL)
	if err := srv.Start(ctx, *addr); err != nil {
		log.Fatalf("http server: %v", err)
	}
}

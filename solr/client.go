//
// Tencent is pleased to support the open source community by making trpc-solr-gateway available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-solr-gateway is licensed under the Apache License Version 2.0.
//
//

package solr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-solr-gateway/log"
)

// ErrDecode marks a Solr response body the client could not parse.
var ErrDecode = errors.New("solr: undecodable response")

// HTTPError is a non-2xx answer from Solr.
type HTTPError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("solr: http %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the failure is on Solr's side (5xx) rather than a
// query Solr rejected.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode >= 500
}

// Client issues select queries against a Solr collection. Implementations must
// be safe for concurrent use.
type Client interface {
	// Query runs one select request and decodes the JSON response.
	Query(ctx context.Context, collection string, params *Params) (*QueryResponse, error)
}

const maxErrorBodyBytes = 2048

type clientOptions struct {
	httpClient *http.Client
	timeout    time.Duration
}

// ClientOption configures the HTTP client.
type ClientOption func(*clientOptions)

// WithHTTPClient supplies a custom http.Client, e.g. for transport tuning or
// test doubles.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithTimeout bounds each select call. Caller-supplied context deadlines still
// apply on top.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) { o.timeout = d }
}

// HTTPClient implements Client over Solr's HTTP select handler.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the Solr instance at baseURL
// (e.g. "http://localhost:8983").
func NewHTTPClient(baseURL string, opts ...ClientOption) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, errors.New("solr: base URL is required")
	}
	options := clientOptions{timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&options)
	}
	hc := options.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: options.timeout}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      hc,
	}, nil
}

// Query posts the parameter map to <base>/solr/<collection>/select. The body
// is form-encoded so long filter and vector parameters never hit URL length
// limits.
func (c *HTTPClient) Query(ctx context.Context, collection string, params *Params) (*QueryResponse, error) {
	if collection == "" {
		return nil, errors.New("solr: collection is required")
	}
	endpoint := fmt.Sprintf("%s/solr/%s/select", c.baseURL, collection)
	body := params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("solr: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("solr: select %s: %w", collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		httpErr := &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
		// Solr puts the parser's complaint in a JSON error section; surface it
		// instead of the raw body when present.
		var failed QueryResponse
		if json.Unmarshal(data, &failed) == nil && failed.Error != nil {
			httpErr.Body = failed.Error.Msg
		}
		return nil, httpErr
	}

	var qr QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	log.Debugf("solr select %s: qtime=%dms wall=%s numFound=%d",
		collection, qr.Header.QTime, time.Since(start).Round(time.Millisecond), qr.Response.NumFound)
	return &qr, nil
}

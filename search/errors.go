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
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies gateway errors for transport mapping.
type Kind int

// Error kinds.
const (
	// KindInternal is an unexpected failure, e.g. a Solr payload the mapper
	// cannot parse.
	KindInternal Kind = iota
	// KindInvalidArgument is a malformed request: unknown vector field,
	// conflicting similarity options, empty strategy list, negative boost.
	KindInvalidArgument
	// KindFailedPrecondition is a configuration invariant violated at startup.
	KindFailedPrecondition
	// KindUnavailable is an unreachable or failing external collaborator
	// (embedding backend or Solr).
	KindUnavailable
)

// Error carries a Kind along with the wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// GRPCStatus maps the kind onto a gRPC status, so the error is directly
// usable by gRPC transports and interceptors.
func (e *Error) GRPCStatus() *status.Status {
	var code codes.Code
	switch e.Kind {
	case KindInvalidArgument:
		code = codes.InvalidArgument
	case KindFailedPrecondition:
		code = codes.FailedPrecondition
	case KindUnavailable:
		code = codes.Unavailable
	default:
		code = codes.Internal
	}
	return status.New(code, e.Error())
}

// Errorf builds a kinded error.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds a kinded error around a cause.
func WrapError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from an error chain; unclassified errors are
// internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// String names the kind for logs and metric attributes.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindFailedPrecondition:
		return "failed_precondition"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind onto an HTTP status code for the HTTP transport.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindFailedPrecondition:
		return http.StatusInternalServerError
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func invalidArgumentf(format string, args ...any) *Error {
	return Errorf(KindInvalidArgument, format, args...)
}

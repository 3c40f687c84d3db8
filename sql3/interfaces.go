// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package sql3 contains type resolution for scalar SQL expressions.
package sql3

import (
	"context"

	"github.com/featurebasedb/sqltype/sql3/parser"
)

// Resolver type checks a bound expression, returning a fully typed copy of
// it with every implicit conversion made explicit.
type Resolver interface {
	ResolveExpression(context.Context, parser.Expr) (parser.Expr, error)
}

// Ensure type implements interface.
var _ Resolver = (*NopResolver)(nil)

// NopResolver is a no-op implementation of the Resolver interface. It returns
// every expression unchanged.
type NopResolver struct{}

func NewNopResolver() *NopResolver {
	return &NopResolver{}
}

func (r *NopResolver) ResolveExpression(ctx context.Context, expr parser.Expr) (parser.Expr, error) {
	return expr, nil
}

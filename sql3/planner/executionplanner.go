// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"context"

	"github.com/featurebasedb/sqltype/logger"
	"github.com/featurebasedb/sqltype/sql3"
	"github.com/featurebasedb/sqltype/sql3/parser"
	"github.com/featurebasedb/sqltype/sql3/planner/types"
)

// ExecutionPlanner resolves bound expressions against the overload catalog
// and compiles the result into plan expressions.
type ExecutionPlanner struct {
	logger          logger.Logger
	nullDefaultType parser.ExprDataType
}

var (
	_ types.ExpressionCompiler = (*ExecutionPlanner)(nil)
	_ sql3.Resolver            = (*ExecutionPlanner)(nil)
)

// PlannerOption is a functional option for the ExecutionPlanner.
type PlannerOption func(p *ExecutionPlanner) error

// OptPlannerNullDefaultType sets the type given to a NULL that has no type
// evidence of its own, such as the column of VALUES (NULL).
func OptPlannerNullDefaultType(typ parser.ExprDataType) PlannerOption {
	return func(p *ExecutionPlanner) error {
		if typ == nil || typeIsUnknown(typ) {
			return sql3.NewErrUnknownType("unknown")
		}
		p.nullDefaultType = typ
		return nil
	}
}

func NewExecutionPlanner(logger logger.Logger, opts ...PlannerOption) (*ExecutionPlanner, error) {
	p := &ExecutionPlanner{
		logger:          logger,
		nullDefaultType: parser.NewDataTypeString(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// NullDefaultType returns the type an untyped NULL column is given.
func (p *ExecutionPlanner) NullDefaultType() parser.ExprDataType {
	return p.nullDefaultType
}

// ResolveExpression type checks expr, choosing an implementation for every
// operator and function and inserting the conversions that requires. The
// input is not modified; the returned tree is fully typed.
func (p *ExecutionPlanner) ResolveExpression(ctx context.Context, expr parser.Expr) (parser.Expr, error) {
	resolved, err := p.analyzeExpression(ctx, expr)
	if err != nil {
		return nil, err
	}
	return p.materialize(resolved)
}

// CompileExpression resolves expr and compiles it into a plan expression.
func (p *ExecutionPlanner) CompileExpression(ctx context.Context, expr parser.Expr) (types.PlanExpression, error) {
	resolved, err := p.ResolveExpression(ctx, expr)
	if err != nil {
		return nil, err
	}
	return p.compileExpr(resolved)
}

// CompileMap resolves and compiles exprs and returns a Map operator that
// appends their values to each row produced by child.
func (p *ExecutionPlanner) CompileMap(ctx context.Context, exprs []parser.Expr, child types.PlanOperator) (*PlanOpMap, error) {
	compiled := make([]types.PlanExpression, len(exprs))
	for i, e := range exprs {
		c, err := p.CompileExpression(ctx, e)
		if err != nil {
			return nil, err
		}
		compiled[i] = c
	}

	op := NewPlanOpMap(compiled, child)

	// every column reference must fall inside the child's rows
	width := len(child.Schema())
	var err error
	InspectExpressions(op, func(e types.PlanExpression) bool {
		if ref, ok := e.(*columnRefPlanExpression); ok && ref.columnIndex >= width && err == nil {
			err = sql3.NewErrColumnNotFound(ref.String())
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"context"
	"strings"

	"github.com/featurebasedb/sqltype/sql3"
	"github.com/featurebasedb/sqltype/sql3/parser"
)

// analyze a *parser.Call and return the parser.Expr
func (p *ExecutionPlanner) analyzeCallExpression(ctx context.Context, call *parser.Call) (parser.Expr, error) {
	name := strings.ToLower(call.Name)
	if name == "coalesce" {
		return p.analyzeCoalesceExpression(ctx, call.Args)
	}
	if len(catalog.Candidates(name)) == 0 || parser.LookupOperator(name) != parser.ILLEGAL {
		return nil, sql3.NewErrCallUnknownFunction(call.Name)
	}

	//analyze all the args
	args, err := p.analyzeExpressionList(ctx, call.Args)
	if err != nil {
		return nil, err
	}

	sig, args, err := p.resolveOverload(name, args)
	if err != nil {
		return nil, err
	}
	p.logger.Debugf("resolved %s to %s", sig, sig.Impl)
	return &parser.Call{
		Name:           name,
		Args:           args,
		ResultDataType: sig.Result,
		Impl:           sig.Impl,
	}, nil
}

// resolveOverload picks the implementation of a fixed-arity operator or
// function. Every candidate with the right arity whose parameters are all
// reachable from the arguments is costed; the unique cheapest one wins. The
// returned arguments have been converted to the parameter types.
func (p *ExecutionPlanner) resolveOverload(op string, args []parser.Expr) (*OverloadSignature, []parser.Expr, error) {
	argTypes := make([]parser.ExprDataType, len(args))
	kinds := make([]parser.LiteralKind, len(args))
	for i, a := range args {
		argTypes[i] = a.DataType()
		kinds[i] = parser.Classify(a)
	}

	var best []*OverloadSignature
	bestCost := -1
	for _, sig := range catalog.Candidates(op) {
		if len(sig.Args) != len(args) {
			continue
		}
		cost, reachable := 0, true
		for i := range args {
			c, ok := coercionCost(argTypes[i], sig.Args[i], kinds[i])
			if !ok {
				reachable = false
				break
			}
			cost += c
		}
		if !reachable {
			continue
		}
		switch {
		case bestCost < 0 || cost < bestCost:
			best, bestCost = []*OverloadSignature{sig}, cost
		case cost == bestCost:
			best = append(best, sig)
		}
	}

	tok := parser.LookupOperator(op)
	switch {
	case len(best) == 0:
		switch {
		case tok == parser.ILLEGAL:
			return nil, nil, sql3.NewErrNoCallOverload(op, argTypes)
		case len(argTypes) == 1:
			return nil, nil, sql3.NewErrNoUnaryOverload(tok, argTypes[0])
		default:
			return nil, nil, sql3.NewErrNoOverload(tok, argTypes[0], argTypes[1])
		}

	case len(best) > 1:
		candidates := make([]string, len(best))
		for i, sig := range best {
			candidates[i] = sig.String()
		}
		return nil, nil, sql3.NewErrAmbiguousOverload(op, tok == parser.ILLEGAL, argTypes, candidates)
	}

	sig := best[0]
	coerced := make([]parser.Expr, len(args))
	for i, a := range args {
		c, err := p.coerceExpression(a, sig.Args[i])
		if err != nil {
			return nil, nil, err
		}
		coerced[i] = c
	}
	return sig, coerced, nil
}

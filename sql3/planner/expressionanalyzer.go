// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"context"

	"github.com/featurebasedb/sqltype/sql3"
	"github.com/featurebasedb/sqltype/sql3/parser"
)

// coalescingOperators are the binary operators whose operands are unified to
// a single type before an implementation is chosen. Every one of them is
// resolved by resolveCoalescing; there is no per-operator path.
var coalescingOperators = map[parser.Token]struct{}{
	parser.PLUS:  {},
	parser.MINUS: {},
	parser.STAR:  {},
	parser.SLASH: {},
	parser.REM:   {},
	parser.EQ:    {},
	parser.NE:    {},
	parser.LT:    {},
	parser.LE:    {},
	parser.GT:    {},
	parser.GE:    {},
}

// IsCoalescingOperator reports whether op unifies its operand types before
// dispatch.
func IsCoalescingOperator(op parser.Token) bool {
	_, ok := coalescingOperators[op]
	return ok
}

// analyze a parser.Expr. returns a new, resolved parser.Expr; expr itself is
// never modified
func (p *ExecutionPlanner) analyzeExpression(ctx context.Context, expr parser.Expr) (parser.Expr, error) {
	if expr == nil {
		return nil, nil
	}

	switch e := expr.(type) {
	case *parser.IntegerLit:
		if _, err := e.Int64(); err != nil {
			return nil, sql3.NewErrNumericOutOfRange(parser.BaseTypeInt64)
		}
		return e, nil

	case *parser.DecimalLit:
		if _, err := e.Decimal(); err != nil {
			return nil, sql3.NewErrInvalidLiteralCoercion(e.DataType(), e.Value)
		}
		return e, nil

	case *parser.FloatLit:
		if _, err := e.Float64(); err != nil {
			return nil, sql3.NewErrInvalidLiteralCoercion(e.DataType(), e.Value)
		}
		return e, nil

	case *parser.StringLit, *parser.BoolLit, *parser.NullLit:
		return e, nil

	case *parser.ColumnRef:
		if e.Type == nil {
			return nil, sql3.NewErrColumnNotFound(e.String())
		}
		// a column with no type evidence of its own is materialized with
		// the default type, and is a typed value from then on
		if typeIsUnknown(e.Type) {
			ref := *e
			ref.Type = p.nullDefaultType
			return &ref, nil
		}
		return e, nil

	case *parser.ParenExpr:
		x, err := p.analyzeExpression(ctx, e.X)
		if err != nil {
			return nil, err
		}
		return &parser.ParenExpr{X: x}, nil

	case *parser.ConvertExpr:
		x, err := p.analyzeExpression(ctx, e.X)
		if err != nil {
			return nil, err
		}
		conv := *e
		conv.X = x
		return &conv, nil

	case *parser.CastExpr:
		return p.analyzeCastExpression(ctx, e)

	case *parser.UnaryExpr:
		return p.analyzeUnaryExpression(ctx, e)

	case *parser.BinaryExpr:
		return p.analyzeBinaryExpression(ctx, e)

	case *parser.Call:
		return p.analyzeCallExpression(ctx, e)

	case *parser.IsNullExpr:
		x, err := p.analyzeExpression(ctx, e.X)
		if err != nil {
			return nil, err
		}
		x, err = p.materialize(x)
		if err != nil {
			return nil, err
		}
		return &parser.IsNullExpr{X: x, Not: e.Not}, nil

	case *parser.BetweenExpr:
		return p.analyzeBetweenExpression(ctx, e)

	case *parser.InListExpr:
		return p.analyzeInListExpression(ctx, e)

	case *parser.CoalesceExpr:
		return p.analyzeCoalesceExpression(ctx, e.Args)

	case *parser.CaseExpr:
		return p.analyzeCaseExpression(ctx, e)

	case *parser.QuantifiedExpr:
		return p.analyzeQuantifiedExpression(ctx, e)

	default:
		return nil, sql3.NewErrInternalf("unexpected expression type '%T'", expr)
	}
}

// materialize gives an untyped NULL the default type.
func (p *ExecutionPlanner) materialize(expr parser.Expr) (parser.Expr, error) {
	if typeIsUnknown(expr.DataType()) {
		return p.coerceExpression(expr, p.nullDefaultType)
	}
	return expr, nil
}

func (p *ExecutionPlanner) analyzeCastExpression(ctx context.Context, expr *parser.CastExpr) (parser.Expr, error) {
	if expr.Type == nil || typeIsUnknown(expr.Type) {
		return nil, sql3.NewErrUnknownType(parser.BaseTypeUnknown)
	}
	x, err := p.analyzeExpression(ctx, expr.X)
	if err != nil {
		return nil, err
	}
	x, err = p.castExpression(x, expr.Type)
	if err != nil {
		return nil, err
	}
	return &parser.CastExpr{X: x, Type: expr.Type}, nil
}

func (p *ExecutionPlanner) analyzeUnaryExpression(ctx context.Context, expr *parser.UnaryExpr) (parser.Expr, error) {
	switch expr.Op {
	case parser.NOT, parser.MINUS:
	default:
		return nil, sql3.NewErrInternalf("unexpected unary operator '%s'", expr.Op)
	}

	x, err := p.analyzeExpression(ctx, expr.X)
	if err != nil {
		return nil, err
	}
	sig, args, err := p.resolveOverload(expr.Op.String(), []parser.Expr{x})
	if err != nil {
		return nil, err
	}
	return &parser.UnaryExpr{
		Op:             expr.Op,
		X:              args[0],
		ResultDataType: sig.Result,
		Impl:           sig.Impl,
	}, nil
}

func (p *ExecutionPlanner) analyzeBinaryExpression(ctx context.Context, expr *parser.BinaryExpr) (parser.Expr, error) {
	x, err := p.analyzeExpression(ctx, expr.X)
	if err != nil {
		return nil, err
	}
	y, err := p.analyzeExpression(ctx, expr.Y)
	if err != nil {
		return nil, err
	}

	if IsCoalescingOperator(expr.Op) {
		return p.resolveCoalescing(expr.Op, x, y)
	}

	switch expr.Op {
	case parser.AND, parser.OR, parser.CONCAT:
		sig, args, err := p.resolveOverload(expr.Op.String(), []parser.Expr{x, y})
		if err != nil {
			return nil, err
		}
		return &parser.BinaryExpr{
			X:              args[0],
			Op:             expr.Op,
			Y:              args[1],
			ResultDataType: sig.Result,
			Impl:           sig.Impl,
		}, nil

	default:
		return nil, sql3.NewErrInternalf("unexpected binary operator '%s'", expr.Op)
	}
}

// resolveCoalescing resolves x op y for a coalescing operator. An exact
// catalog match is used as is; otherwise both operands are converted to
// their least upper bound and the same-type implementation is used.
func (p *ExecutionPlanner) resolveCoalescing(op parser.Token, x, y parser.Expr) (*parser.BinaryExpr, error) {
	lhsType, rhsType := x.DataType(), y.DataType()

	sig := catalog.Lookup(op.String(), []parser.ExprDataType{lhsType, rhsType})
	if sig == nil {
		targetType, ok := p.leastUpperBound(lhsType, rhsType, parser.Classify(x), parser.Classify(y))
		if !ok {
			return nil, sql3.NewErrNoOverload(op, lhsType, rhsType)
		}
		sig = catalog.Lookup(op.String(), []parser.ExprDataType{targetType, targetType})
		if sig == nil {
			return nil, sql3.NewErrNoOverload(op, lhsType, rhsType)
		}

		var err error
		if x, err = p.coerceExpression(x, targetType); err != nil {
			return nil, err
		}
		if y, err = p.coerceExpression(y, targetType); err != nil {
			return nil, err
		}
	}

	p.logger.Debugf("resolved %s %s %s to %s", lhsType.TypeDescription(), op, rhsType.TypeDescription(), sig.Impl)
	return &parser.BinaryExpr{
		X:              x,
		Op:             op,
		Y:              y,
		ResultDataType: sig.Result,
		Impl:           sig.Impl,
	}, nil
}

// X BETWEEN Low AND High is X >= Low AND X <= High
func (p *ExecutionPlanner) analyzeBetweenExpression(ctx context.Context, expr *parser.BetweenExpr) (parser.Expr, error) {
	var rewritten parser.Expr = &parser.BinaryExpr{
		X:  &parser.BinaryExpr{X: expr.X, Op: parser.GE, Y: expr.Low},
		Op: parser.AND,
		Y:  &parser.BinaryExpr{X: expr.X, Op: parser.LE, Y: expr.High},
	}
	if expr.Not {
		rewritten = &parser.UnaryExpr{Op: parser.NOT, X: &parser.ParenExpr{X: rewritten}}
	}
	return p.analyzeExpression(ctx, rewritten)
}

// X IN (a, b) is X = a OR X = b
func (p *ExecutionPlanner) analyzeInListExpression(ctx context.Context, expr *parser.InListExpr) (parser.Expr, error) {
	if len(expr.List) == 0 {
		return nil, sql3.NewErrInternalf("empty IN list")
	}
	var rewritten parser.Expr
	for _, item := range expr.List {
		eq := &parser.BinaryExpr{X: expr.X, Op: parser.EQ, Y: item}
		if rewritten == nil {
			rewritten = eq
			continue
		}
		rewritten = &parser.BinaryExpr{X: rewritten, Op: parser.OR, Y: eq}
	}
	if expr.Not {
		rewritten = &parser.UnaryExpr{Op: parser.NOT, X: &parser.ParenExpr{X: rewritten}}
	}
	return p.analyzeExpression(ctx, rewritten)
}

func (p *ExecutionPlanner) analyzeCoalesceExpression(ctx context.Context, args []parser.Expr) (parser.Expr, error) {
	if len(args) == 0 {
		return nil, sql3.NewErrNoCallOverload("coalesce", nil)
	}
	analyzed, err := p.analyzeExpressionList(ctx, args)
	if err != nil {
		return nil, err
	}
	typ, err := p.commonType("COALESCE", analyzed)
	if err != nil {
		return nil, err
	}
	if err := p.coerceExpressionList(analyzed, typ); err != nil {
		return nil, err
	}
	return &parser.CoalesceExpr{Args: analyzed, ResultDataType: typ}, nil
}

// a CASE with an operand is rewritten as a searched CASE whose conditions
// compare the operand to each WHEN value
func (p *ExecutionPlanner) analyzeCaseExpression(ctx context.Context, expr *parser.CaseExpr) (parser.Expr, error) {
	if len(expr.Blocks) == 0 {
		return nil, sql3.NewErrInternalf("CASE with no WHEN")
	}

	blocks := make([]*parser.CaseBlock, len(expr.Blocks))
	results := make([]parser.Expr, 0, len(expr.Blocks)+1)
	for i, b := range expr.Blocks {
		var cond parser.Expr = b.Condition
		if expr.Operand != nil {
			cond = &parser.BinaryExpr{X: expr.Operand, Op: parser.EQ, Y: b.Condition}
		}
		cond, err := p.analyzeExpression(ctx, cond)
		if err != nil {
			return nil, err
		}
		if !typeIsBool(cond.DataType()) {
			if _, ok := coercionCost(cond.DataType(), parser.NewDataTypeBool(), parser.Classify(cond)); !ok {
				return nil, sql3.NewErrBooleanExpressionExpected(cond.DataType().TypeDescription())
			}
			if cond, err = p.coerceExpression(cond, parser.NewDataTypeBool()); err != nil {
				return nil, err
			}
		}

		body, err := p.analyzeExpression(ctx, b.Body)
		if err != nil {
			return nil, err
		}
		blocks[i] = &parser.CaseBlock{Condition: cond, Body: body}
		results = append(results, body)
	}

	elseExpr, err := p.analyzeExpression(ctx, expr.Else)
	if err != nil {
		return nil, err
	}
	if elseExpr != nil {
		results = append(results, elseExpr)
	}

	typ, err := p.commonType("CASE", results)
	if err != nil {
		return nil, err
	}
	for _, b := range blocks {
		if b.Body, err = p.coerceExpression(b.Body, typ); err != nil {
			return nil, err
		}
	}
	if elseExpr != nil {
		if elseExpr, err = p.coerceExpression(elseExpr, typ); err != nil {
			return nil, err
		}
	}
	return &parser.CaseExpr{Blocks: blocks, Else: elseExpr, ResultDataType: typ}, nil
}

// valuesColumnName is the name SQL gives the single column of a VALUES list
// (the n-th column of VALUES is columnN). The column only exists while the
// comparison is resolved; it never appears in the resolved tree.
const valuesColumnName = "column1"

// The VALUES list is a derived table: its column is materialized with the
// common type of the values, and from then on it is a typed value, not a
// literal. X is compared against that column.
func (p *ExecutionPlanner) analyzeQuantifiedExpression(ctx context.Context, expr *parser.QuantifiedExpr) (parser.Expr, error) {
	if !expr.Op.IsComparison() || !expr.Quantifier.IsQuantifier() {
		return nil, sql3.NewErrInternalf("unexpected quantified comparison '%s %s'", expr.Op, expr.Quantifier)
	}
	if len(expr.Values) == 0 {
		return nil, sql3.NewErrInternalf("empty VALUES list")
	}

	values, err := p.analyzeExpressionList(ctx, expr.Values)
	if err != nil {
		return nil, err
	}
	columnType, err := p.commonType("VALUES", values)
	if err != nil {
		return nil, err
	}

	x, err := p.analyzeExpression(ctx, expr.X)
	if err != nil {
		return nil, err
	}
	column := &parser.ColumnRef{Name: valuesColumnName, Type: columnType}
	cmp, err := p.resolveCoalescing(expr.Op, x, column)
	if err != nil {
		return nil, err
	}

	// the column may itself have been converted for the comparison
	comparedType := cmp.Y.DataType()
	if err := p.coerceExpressionList(values, columnType); err != nil {
		return nil, err
	}
	if err := p.coerceExpressionList(values, comparedType); err != nil {
		return nil, err
	}

	return &parser.QuantifiedExpr{
		X:          cmp.X,
		Op:         expr.Op,
		Quantifier: expr.Quantifier,
		Values:     values,
		ValuesType: comparedType,
		Impl:       cmp.Impl,
	}, nil
}

func (p *ExecutionPlanner) analyzeExpressionList(ctx context.Context, exprs []parser.Expr) ([]parser.Expr, error) {
	analyzed := make([]parser.Expr, len(exprs))
	for i, e := range exprs {
		a, err := p.analyzeExpression(ctx, e)
		if err != nil {
			return nil, err
		}
		analyzed[i] = a
	}
	return analyzed, nil
}

// coerceExpressionList converts every expression in exprs, in place, to typ.
func (p *ExecutionPlanner) coerceExpressionList(exprs []parser.Expr, typ parser.ExprDataType) error {
	for i, e := range exprs {
		c, err := p.coerceExpression(e, typ)
		if err != nil {
			return err
		}
		exprs[i] = c
	}
	return nil
}

// commonType folds leastUpperBound over exprs. NULLs do not constrain the
// result; if every expression is NULL the default type is used.
func (p *ExecutionPlanner) commonType(construct string, exprs []parser.Expr) (parser.ExprDataType, error) {
	typ, kind := exprs[0].DataType(), parser.Classify(exprs[0])
	for _, e := range exprs[1:] {
		eKind := parser.Classify(e)
		u, ok := p.leastUpperBound(typ, e.DataType(), kind, eKind)
		if !ok {
			return nil, sql3.NewErrTypesCannotBeMatched(construct, typ, e.DataType())
		}
		switch {
		case kind == parser.NullLiteral:
			kind = eKind
		case eKind == parser.NullLiteral:
		case eKind != kind:
			kind = parser.NotLiteral
		}
		typ = u
	}
	if typeIsUnknown(typ) {
		return p.nullDefaultType, nil
	}
	return typ, nil
}

// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/featurebasedb/sqltype/errors"
	"github.com/featurebasedb/sqltype/sql3"
	"github.com/featurebasedb/sqltype/sql3/parser"
	"github.com/go-test/deep"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intLit(v string) *parser.IntegerLit { return &parser.IntegerLit{Value: v} }
func decLit(v string) *parser.DecimalLit { return &parser.DecimalLit{Value: v} }
func strLit(v string) *parser.StringLit  { return &parser.StringLit{Value: v} }
func nullLit() *parser.NullLit           { return &parser.NullLit{} }

func col(name string, index int, typ parser.ExprDataType) *parser.ColumnRef {
	return &parser.ColumnRef{Name: name, Index: index, Type: typ}
}

func cast(x parser.Expr, typ parser.ExprDataType) *parser.CastExpr {
	return &parser.CastExpr{X: x, Type: typ}
}

func bin(x parser.Expr, op parser.Token, y parser.Expr) *parser.BinaryExpr {
	return &parser.BinaryExpr{X: x, Op: op, Y: y}
}

func call(name string, args ...parser.Expr) *parser.Call {
	return &parser.Call{Name: name, Args: args}
}

func TestResolveExpression_Rewrites(t *testing.T) {
	a := col("a", 0, tDec(3))
	b := col("b", 1, tI32)
	c := col("c", 2, tI64)

	for _, tt := range []struct {
		name     string
		expr     parser.Expr
		want     string
		wantType string
	}{
		{
			name:     "IntegerLiteralToDecimal",
			expr:     bin(intLit("1"), parser.GT, decLit("1.1")),
			want:     "i32todec(1) * 1.0 > 1.1",
			wantType: "bool",
		},
		{
			name:     "BigintToDecimal",
			expr:     bin(cast(intLit("1"), tI64), parser.GT, decLit("1.11111")),
			want:     "i64todec(i32toi64(1)::i64) * 1.00000 > 1.11111",
			wantType: "bool",
		},
		{
			name:     "BigintToFloat",
			expr:     bin(cast(intLit("1"), tI64), parser.GT, cast(decLit("1.11111"), tF64)),
			want:     "i64tof64(i32toi64(1)::i64) > (dectof64(1.11111) / 100000)::float",
			wantType: "bool",
		},
		{
			name:     "DecimalToFloat",
			expr:     bin(decLit("1.1"), parser.GT, cast(intLit("1"), tF64)),
			want:     "dectof64(1.1) / 10 > i32tof64(1)::float",
			wantType: "bool",
		},
		{
			name:     "EqualDecimals",
			expr:     bin(decLit("1.1"), parser.GT, decLit("1.1")),
			want:     "1.1 > 1.1",
			wantType: "bool",
		},
		{
			name:     "EqualFloats",
			expr:     bin(cast(intLit("1"), tF64), parser.GT, cast(intLit("1"), tF64)),
			want:     "i32tof64(1)::float > i32tof64(1)::float",
			wantType: "bool",
		},
		{
			name:     "DecimalLiteralWidens",
			expr:     bin(a, parser.PLUS, decLit("0.5")),
			want:     "a + 0.500",
			wantType: "decimal(3)",
		},
		{
			name:     "ColumnToDecimal",
			expr:     bin(a, parser.STAR, b),
			want:     "a * (i32todec(b) * 1.000)",
			wantType: "decimal(3)",
		},
		{
			name:     "ColumnToDecimalDivisor",
			expr:     bin(a, parser.SLASH, b),
			want:     "a / (i32todec(b) * 1.000)",
			wantType: "decimal(3)",
		},
		{
			name:     "ColumnToDecimalRemainder",
			expr:     bin(a, parser.REM, b),
			want:     "a % (i32todec(b) * 1.000)",
			wantType: "decimal(3)",
		},
		{
			name:     "ColumnToDecimalDividend",
			expr:     bin(b, parser.SLASH, a),
			want:     "i32todec(b) * 1.000 / a",
			wantType: "decimal(3)",
		},
		{
			name:     "StringLiteralToInteger",
			expr:     bin(strLit("1"), parser.LT, intLit("2")),
			want:     "1 < 2",
			wantType: "bool",
		},
		{
			name:     "StringLiteralsToBool",
			expr:     bin(strLit("true"), parser.OR, strLit("false")),
			want:     "true OR false",
			wantType: "bool",
		},
		{
			name:     "NullTakesOtherSide",
			expr:     bin(c, parser.MINUS, nullLit()),
			want:     "c - NULL",
			wantType: "i64",
		},
		{
			name:     "BareNull",
			expr:     nullLit(),
			want:     "NULL",
			wantType: "string",
		},
		{
			name:     "UnknownColumn",
			expr:     col("n", 3, tUnknown),
			want:     "n",
			wantType: "string",
		},
		{
			name:     "Negation",
			expr:     &parser.UnaryExpr{Op: parser.MINUS, X: b},
			want:     "-b",
			wantType: "i32",
		},
		{
			name:     "NotNull",
			expr:     &parser.UnaryExpr{Op: parser.NOT, X: nullLit()},
			want:     "NOT NULL",
			wantType: "bool",
		},
		{
			name:     "Concat",
			expr:     bin(strLit("a"), parser.CONCAT, cast(b, tStr)),
			want:     "'a' || i32tostr(b)::string",
			wantType: "string",
		},
		{
			name:     "CallWidensArgument",
			expr:     call("SQRT", b),
			want:     "sqrt(i32tof64(b))",
			wantType: "float",
		},
		{
			name:     "CallPicksCheapest",
			expr:     call("mod", intLit("7"), decLit("2.5")),
			want:     "mod(i32todec(7) * 1.0, 2.5)",
			wantType: "decimal(1)",
		},
		{
			name:     "RoundDecimal",
			expr:     call("round", a),
			want:     "round(a)",
			wantType: "decimal(0)",
		},
		{
			name:     "Length",
			expr:     call("length", strLit("abc")),
			want:     "length('abc')",
			wantType: "i32",
		},
		{
			name:     "IsNull",
			expr:     &parser.IsNullExpr{X: nullLit()},
			want:     "NULL IS NULL",
			wantType: "bool",
		},
		{
			name:     "Between",
			expr:     &parser.BetweenExpr{X: c, Low: intLit("1"), High: decLit("2.5")},
			want:     "c >= i32toi64(1) AND i64todec(c) * 1.0 <= 2.5",
			wantType: "bool",
		},
		{
			name:     "NotBetween",
			expr:     &parser.BetweenExpr{X: b, Not: true, Low: intLit("1"), High: intLit("2")},
			want:     "NOT (b >= 1 AND b <= 2)",
			wantType: "bool",
		},
		{
			name:     "InList",
			expr:     &parser.InListExpr{X: b, List: []parser.Expr{intLit("1"), strLit("2"), nullLit()}},
			want:     "b = 1 OR b = 2 OR b = NULL",
			wantType: "bool",
		},
		{
			name:     "Coalesce",
			expr:     call("coalesce", nullLit(), b, cast(intLit("2"), tI64)),
			want:     "coalesce(NULL, i32toi64(b), i32toi64(2)::i64)",
			wantType: "i64",
		},
		{
			name: "CaseWithOperand",
			expr: &parser.CaseExpr{
				Operand: b,
				Blocks:  []*parser.CaseBlock{{Condition: intLit("1"), Body: intLit("1")}},
				Else:    decLit("2.5"),
			},
			want:     "CASE WHEN b = 1 THEN i32todec(1) * 1.0 ELSE 2.5 END",
			wantType: "decimal(1)",
		},
		{
			name: "SearchedCase",
			expr: &parser.CaseExpr{
				Blocks: []*parser.CaseBlock{{Condition: strLit("t"), Body: nullLit()}},
			},
			want:     "CASE WHEN true THEN NULL END",
			wantType: "string",
		},
		{
			name: "QuantifiedWidensValues",
			expr: &parser.QuantifiedExpr{
				X:          intLit("1"),
				Op:         parser.LT,
				Quantifier: parser.ALL,
				Values:     []parser.Expr{intLit("2"), decLit("3.5")},
			},
			want:     "i32todec(1) * 1.0 < ALL (VALUES (i32todec(2) * 1.0), (3.5))",
			wantType: "bool",
		},
		{
			name: "QuantifiedWidensColumn",
			expr: &parser.QuantifiedExpr{
				X:          c,
				Op:         parser.EQ,
				Quantifier: parser.ANY,
				Values:     []parser.Expr{intLit("2"), nullLit()},
			},
			want:     "c = ANY (VALUES (i32toi64(2)), (NULL))",
			wantType: "bool",
		},
		{
			name:     "CastStringLiteral",
			expr:     cast(strLit(" 12.345 "), tDec(2)),
			want:     "12.35::decimal(2)",
			wantType: "decimal(2)",
		},
		{
			name:     "CastDecimalLiteral",
			expr:     cast(decLit("2.5"), tDec(0)),
			want:     "3::decimal(0)",
			wantType: "decimal(0)",
		},
		{
			name:     "CastNarrowing",
			expr:     cast(a, tI32),
			want:     "dectoi32(a)::i32",
			wantType: "i32",
		},
		{
			name:     "CastRescale",
			expr:     cast(a, tDec(1)),
			want:     "decrescale(a)::decimal(1)",
			wantType: "decimal(1)",
		},
		{
			name:     "CastNull",
			expr:     cast(nullLit(), tBool),
			want:     "NULL::bool",
			wantType: "bool",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPlanner(t)
			ctx := context.Background()

			before := fmt.Sprintf("%#v", tt.expr)
			got, err := p.ResolveExpression(ctx, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.wantType, got.DataType().TypeDescription())

			// the input tree is left alone
			assert.Equal(t, before, fmt.Sprintf("%#v", tt.expr))

			// resolving a resolved tree changes nothing
			again, err := p.ResolveExpression(ctx, got)
			require.NoError(t, err)
			if diff := cmp.Diff(got, again); diff != "" {
				t.Fatalf("re-resolution changed the tree (-first +second):\n%s", diff)
			}
		})
	}
}

func TestResolveExpression_Errors(t *testing.T) {
	a := col("a", 0, tDec(3))
	d := col("d", 1, tDec(2))

	for _, tt := range []struct {
		name    string
		expr    parser.Expr
		code    errors.Code
		message string
	}{
		{
			name:    "CastStringIsTyped",
			expr:    bin(cast(strLit("foo"), tStr), parser.LT, cast(intLit("5"), tI32)),
			code:    sql3.ErrNoOverload,
			message: "no overload for string < i32",
		},
		{
			name: "NullValuesColumnIsTyped",
			expr: &parser.QuantifiedExpr{
				X:          intLit("1"),
				Op:         parser.LT,
				Quantifier: parser.ALL,
				Values:     []parser.Expr{nullLit()},
			},
			code:    sql3.ErrNoOverload,
			message: "no overload for i32 < string",
		},
		{
			name:    "DecimalScales",
			expr:    bin(a, parser.PLUS, d),
			code:    sql3.ErrNoOverload,
			message: "no overload for decimal + decimal",
		},
		{
			name:    "BoolArithmetic",
			expr:    bin(intLit("1"), parser.PLUS, &parser.BoolLit{Value: true}),
			code:    sql3.ErrNoOverload,
			message: "no overload for i32 + bool",
		},
		{
			name:    "ConcatInteger",
			expr:    bin(strLit("a"), parser.CONCAT, intLit("1")),
			code:    sql3.ErrNoOverload,
			message: "no overload for string || i32",
		},
		{
			name:    "NotInteger",
			expr:    &parser.UnaryExpr{Op: parser.NOT, X: intLit("1")},
			code:    sql3.ErrNoOverload,
			message: "no overload for NOT i32",
		},
		{
			name:    "CallNoOverload",
			expr:    call("upper", intLit("1")),
			code:    sql3.ErrNoOverload,
			message: "no overload for upper(i32)",
		},
		{
			name:    "NegateStringLiteral",
			expr:    &parser.UnaryExpr{Op: parser.MINUS, X: strLit("1")},
			code:    sql3.ErrAmbiguousOverload,
			message: "ambiguous overload for - string: candidates - i32, - i64, - decimal(0)",
		},
		{
			name:    "NegateNull",
			expr:    &parser.UnaryExpr{Op: parser.MINUS, X: nullLit()},
			code:    sql3.ErrAmbiguousOverload,
			message: "ambiguous overload for - unknown",
		},
		{
			name:    "AbsNull",
			expr:    call("abs", nullLit()),
			code:    sql3.ErrAmbiguousOverload,
			message: "ambiguous overload for abs(unknown): candidates abs(i32), abs(i64)",
		},
		{
			name:    "InvalidLiteral",
			expr:    cast(strLit("abc"), tI32),
			code:    sql3.ErrInvalidLiteralCoercion,
			message: `invalid input syntax for i32: "abc"`,
		},
		{
			name:    "InvalidImplicitLiteral",
			expr:    bin(strLit("abc"), parser.LT, intLit("2")),
			code:    sql3.ErrInvalidLiteralCoercion,
			message: `invalid input syntax for i32: "abc"`,
		},
		{
			name:    "InvalidCast",
			expr:    cast(&parser.BoolLit{Value: true}, tF64),
			code:    sql3.ErrInvalidCast,
			message: "cannot cast bool to float",
		},
		{
			name:    "UnknownFunction",
			expr:    call("frobnicate", intLit("1")),
			code:    sql3.ErrCallUnknownFunction,
			message: "unknown function 'frobnicate'",
		},
		{
			name: "CaseConditionNotBool",
			expr: &parser.CaseExpr{
				Blocks: []*parser.CaseBlock{{Condition: intLit("1"), Body: intLit("1")}},
			},
			code:    sql3.ErrBooleanExpressionExpected,
			message: "boolean expression expected, got i32",
		},
		{
			name:    "CoalesceMismatch",
			expr:    call("coalesce", intLit("1"), cast(strLit("a"), tStr)),
			code:    sql3.ErrTypesCannotBeMatched,
			message: "COALESCE types i32 and string cannot be matched",
		},
		{
			name:    "UnboundColumn",
			expr:    &parser.ColumnRef{Name: "x"},
			code:    sql3.ErrColumnNotFound,
			message: "column 'x' not found",
		},
		{
			name:    "CastToUnknown",
			expr:    cast(intLit("1"), tUnknown),
			code:    sql3.ErrUnknownType,
			message: "unknown type 'unknown'",
		},
		{
			name:    "IntegerOutOfRange",
			expr:    intLit("99999999999999999999"),
			code:    sql3.ErrNumericOutOfRange,
			message: "i64 out of range",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPlanner(t)
			_, err := p.ResolveExpression(context.Background(), tt.expr)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
			assert.True(t, strings.HasPrefix(err.Error(), tt.message), "got %q", err.Error())
		})
	}
}

func TestResolveExpression_NullDefaultType(t *testing.T) {
	expr := &parser.QuantifiedExpr{
		X:          intLit("1"),
		Op:         parser.LT,
		Quantifier: parser.ALL,
		Values:     []parser.Expr{nullLit()},
	}

	p := newTestPlanner(t, OptPlannerNullDefaultType(tI64))
	got, err := p.ResolveExpression(context.Background(), expr)
	require.NoError(t, err)
	assert.Equal(t, "i32toi64(1) < ALL (VALUES (NULL))", got.String())

	q, ok := got.(*parser.QuantifiedExpr)
	require.True(t, ok)
	assert.Equal(t, "i64", q.ValuesType.TypeDescription())
	assert.Equal(t, "i64lti64", q.Impl)

	_, err = NewExecutionPlanner(nil, OptPlannerNullDefaultType(tUnknown))
	assert.True(t, errors.Is(err, sql3.ErrUnknownType))
}

// the VALUES column is only used to resolve the comparison, so a column of
// the same name in X is left alone and nothing else of that name appears
func TestResolveExpression_QuantifiedValuesColumn(t *testing.T) {
	p := newTestPlanner(t)
	expr := &parser.QuantifiedExpr{
		X:          col(valuesColumnName, 0, tI32),
		Op:         parser.GE,
		Quantifier: parser.ANY,
		Values:     []parser.Expr{intLit("1"), decLit("2.5")},
	}

	got, err := p.ResolveExpression(context.Background(), expr)
	require.NoError(t, err)
	assert.Equal(t, "i32todec(column1) * 1.0 >= ANY (VALUES (i32todec(1) * 1.0), (2.5))", got.String())

	var refs []*parser.ColumnRef
	parser.Inspect(got, func(n parser.Node) bool {
		if ref, ok := n.(*parser.ColumnRef); ok {
			refs = append(refs, ref)
		}
		return true
	})
	require.Len(t, refs, 1)
	assert.Equal(t, 0, refs[0].Index)
	assert.Equal(t, "i32", refs[0].Type.TypeDescription())
}

// every coalescing operator unifies its operands the same way, so for any
// pair of operand types they either all resolve, against the same operand
// types, or all fail
func TestResolveExpression_CoalescingOperatorsAgree(t *testing.T) {
	p := newTestPlanner(t)
	ctx := context.Background()

	operands := []parser.Expr{
		col("i", 0, tI32),
		col("j", 1, tI64),
		col("d", 2, tDec(2)),
		col("e", 3, tDec(4)),
		col("f", 4, tF64),
		col("s", 5, tStr),
		col("b", 6, tBool),
		intLit("1"),
		decLit("1.5"),
		strLit("1"),
		nullLit(),
	}

	operandTypes := func(e parser.Expr) (string, bool) {
		be, ok := e.(*parser.BinaryExpr)
		require.True(t, ok)
		return be.X.DataType().TypeDescription() + "," + be.Y.DataType().TypeDescription(), true
	}

	for _, x := range operands {
		for _, y := range operands {
			ref, refErr := p.ResolveExpression(ctx, bin(x, parser.PLUS, y))
			for op := range coalescingOperators {
				// the mantissa multiply takes decimals of any two scales as is
				if op == parser.STAR && isDecimal(x) && isDecimal(y) {
					continue
				}
				got, err := p.ResolveExpression(ctx, bin(x, op, y))
				name := fmt.Sprintf("%s %s %s", x, op, y)

				// string and bool have comparisons but no arithmetic
				if refErr != nil && err == nil {
					assert.False(t, op == parser.MINUS || op == parser.STAR || op == parser.SLASH || op == parser.REM, name)
					continue
				}
				if refErr != nil {
					assert.Equal(t, errors.Is(refErr, sql3.ErrNoOverload), errors.Is(err, sql3.ErrNoOverload), name)
					continue
				}
				require.NoError(t, err, name)
				want, _ := operandTypes(ref)
				have, _ := operandTypes(got)
				assert.Equal(t, want, have, name)
			}
		}
	}
}

func isDecimal(e parser.Expr) bool {
	_, ok := e.DataType().(*parser.DataTypeDecimal)
	return ok
}

func TestResolveExpression_RemainderMatchesPlus(t *testing.T) {
	p := newTestPlanner(t)
	ctx := context.Background()

	x := col("x", 0, tI32)
	for _, y := range []parser.Expr{col("y", 1, tI64), decLit("2.25"), strLit("3"), nullLit(), col("z", 1, tF64)} {
		plus, err := p.ResolveExpression(ctx, bin(x, parser.PLUS, y))
		require.NoError(t, err)
		rem, err := p.ResolveExpression(ctx, bin(x, parser.REM, y))
		require.NoError(t, err)

		assert.Equal(t, strings.Replace(plus.String(), " + ", " % ", 1), rem.String())
		assert.Equal(t, plus.DataType(), rem.DataType())
	}
}

// mod and % pick the same operand types for mixed integer and decimal
// arguments, in either order
func TestResolveExpression_ModMatchesRemainder(t *testing.T) {
	p := newTestPlanner(t)
	ctx := context.Background()

	ints := []parser.Expr{col("b", 0, tI32), col("c", 1, tI64)}
	decs := []parser.Expr{col("d", 2, tDec(0)), col("e", 3, tDec(2)), col("g", 4, tDec(3)), col("h", 5, tDec(parser.MaxDecimalScale))}
	for _, i := range ints {
		for _, d := range decs {
			for _, pair := range [][2]parser.Expr{{i, d}, {d, i}} {
				name := fmt.Sprintf("%s, %s", pair[0], pair[1])
				rem, err := p.ResolveExpression(ctx, bin(pair[0], parser.REM, pair[1]))
				require.NoError(t, err, name)
				mod, err := p.ResolveExpression(ctx, call("mod", pair[0], pair[1]))
				require.NoError(t, err, name)

				be, ok := rem.(*parser.BinaryExpr)
				require.True(t, ok, name)
				ce, ok := mod.(*parser.Call)
				require.True(t, ok, name)
				require.Len(t, ce.Args, 2, name)

				assert.Equal(t, d.DataType().TypeDescription(), mod.DataType().TypeDescription(), name)
				assert.Equal(t, rem.DataType().TypeDescription(), mod.DataType().TypeDescription(), name)
				assert.Equal(t, be.X.DataType().TypeDescription(), ce.Args[0].DataType().TypeDescription(), name)
				assert.Equal(t, be.Y.DataType().TypeDescription(), ce.Args[1].DataType().TypeDescription(), name)
			}
		}
	}
}

func TestResolveExpression_DoesNotShareInput(t *testing.T) {
	p := newTestPlanner(t)
	expr := &parser.CaseExpr{
		Operand: col("b", 0, tI32),
		Blocks:  []*parser.CaseBlock{{Condition: intLit("1"), Body: strLit("x")}},
	}
	snapshot := &parser.CaseExpr{
		Operand: col("b", 0, tI32),
		Blocks:  []*parser.CaseBlock{{Condition: intLit("1"), Body: strLit("x")}},
	}

	_, err := p.ResolveExpression(context.Background(), expr)
	require.NoError(t, err)
	if diff := deep.Equal(snapshot, expr); diff != nil {
		t.Fatalf("input modified: %v", diff)
	}
}

// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package defs

import "github.com/featurebasedb/sqltype/sql3/parser"

var (
	mathI = srcHdr("i", typInt32)
	mathD = srcHdr("d", typDecimal(3))
	mathF = srcHdr("f", typFloat64)
)

var mathFunctionTests = TableTest{
	name: "math-functions",
	Table: tbl(
		"math_functions",
		srcHdrs(mathI, mathD, mathF),
		srcRows(
			srcRow(int32(-7), dec(-1250, 3), 6.25),
			srcRow(int32(4), dec(2500, 3), nil),
		),
	),
	ExprTests: []ExprTest{
		{
			name: "same-type",
			Exprs: exprs(
				call("abs", mathI),
				call("abs", mathD),
				call("mod", mathI, intLit(3)),
				call("ceil", mathF),
				call("round", mathD),
				call("round", mathF),
				call("sqrt", mathF),
			),
			ExpResolved: resolved(
				"abs(i)",
				"abs(d)",
				"mod(i, 3)",
				"ceil(f)",
				"round(d)",
				"round(f)",
				"sqrt(f)",
			),
			ExpHdrs: hdrs(
				hdr(typInt32),
				hdr(typDecimal(3)),
				hdr(typInt32),
				hdr(typFloat64),
				hdr(typDecimal(0)),
				hdr(typFloat64),
				hdr(typFloat64),
			),
			ExpRows: rows(
				row(int32(7), dec(1250, 3), int32(-1), 7.0, dec(-1, 0), 6.0, 2.5),
				row(int32(4), dec(2500, 3), int32(1), nil, dec(3, 0), nil, nil),
			),
			Compare: CompareExactOrdered,
		},
		{
			// the cheapest reachable overload wins; an integer is closer to
			// decimal(0) than to float
			name: "converted-arguments",
			Exprs: exprs(
				call("floor", mathD),
				call("round", mathI),
				call("ABS", paren(binop(mathI, parser.MINUS, intLit(1)))),
			),
			ExpResolved: resolved(
				"floor(dectof64(d) / 1000)",
				"round(i32todec(i))",
				"abs((i - 1))",
			),
			ExpHdrs: hdrs(
				hdr(typFloat64),
				hdr(typDecimal(0)),
				hdr(typInt32),
			),
			ExpRows: rows(
				row(-2.0, dec(-7, 0), int32(8)),
				row(2.0, dec(4, 0), int32(3)),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "sqrt-of-negative",
			Exprs: exprs(
				call("sqrt", mathI),
			),
			ExpErr: "float out of range",
		},
		{
			name: "no-overload",
			Exprs: exprs(
				call("upper", mathI),
			),
			ExpErr: "no overload for upper(i32)",
		},
		{
			name: "ambiguous-overload",
			Exprs: exprs(
				call("abs", strLit("x")),
			),
			ExpErr: "ambiguous overload for abs(string)",
		},
		{
			name: "unknown-function",
			Exprs: exprs(
				call("foo", mathI),
			),
			ExpErr: "unknown function 'foo'",
		},
	},
}

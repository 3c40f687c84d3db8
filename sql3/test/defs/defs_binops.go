// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package defs

import "github.com/featurebasedb/sqltype/sql3/parser"

var (
	binopsA = srcHdr("a", typDecimal(3))
	binopsB = srcHdr("b", typInt32)
)

// a decimal(3) column against an i32 column; the integer is converted up to
// the decimal's scale for every operator
var binOpExprWithDecimalAndInt = TableTest{
	Table: tbl(
		"binops_dec_int",
		srcHdrs(binopsA, binopsB),
		srcRows(
			srcRow(dec(4700, 3), int32(2)),
			srcRow(dec(-1250, 3), int32(3)),
			srcRow(nil, int32(5)),
			srcRow(dec(2000, 3), int32(2)),
		),
	),
	ExprTests: []ExprTest{
		{
			name: "arithmetic",
			Exprs: exprs(
				binop(binopsA, parser.PLUS, binopsB),
				binop(binopsA, parser.MINUS, binopsB),
				binop(binopsA, parser.STAR, binopsB),
				binop(binopsA, parser.SLASH, binopsB),
				binop(binopsA, parser.REM, binopsB),
			),
			ExpResolved: resolved(
				"a + i32todec(b) * 1.000",
				"a - i32todec(b) * 1.000",
				"a * (i32todec(b) * 1.000)",
				"a / (i32todec(b) * 1.000)",
				"a % (i32todec(b) * 1.000)",
			),
			ExpHdrs: hdrs(
				hdr(typDecimal(3)),
				hdr(typDecimal(3)),
				hdr(typDecimal(3)),
				hdr(typDecimal(3)),
				hdr(typDecimal(3)),
			),
			ExpRows: rows(
				row(dec(6700, 3), dec(2700, 3), dec(9400, 3), dec(2350, 3), dec(700, 3)),
				row(dec(1750, 3), dec(-4250, 3), dec(-3750, 3), dec(-416, 3), dec(-1250, 3)),
				row(nil, nil, nil, nil, nil),
				row(dec(4000, 3), dec(0, 3), dec(4000, 3), dec(1000, 3), dec(0, 3)),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "comparison",
			Exprs: exprs(
				binop(binopsA, parser.LT, binopsB),
				binop(binopsA, parser.LE, binopsB),
				binop(binopsA, parser.GT, binopsB),
				binop(binopsA, parser.GE, binopsB),
				binop(binopsA, parser.EQ, binopsB),
				binop(binopsA, parser.NE, binopsB),
			),
			ExpHdrs: hdrs(
				hdr(typBool),
				hdr(typBool),
				hdr(typBool),
				hdr(typBool),
				hdr(typBool),
				hdr(typBool),
			),
			ExpRows: rows(
				row(false, false, true, true, false, true),
				row(true, true, false, false, false, true),
				row(nil, nil, nil, nil, nil, nil),
				row(false, true, false, true, true, false),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "integer-on-the-left",
			Exprs: exprs(
				binop(binopsB, parser.MINUS, binopsA),
				binop(binopsB, parser.SLASH, binopsA),
			),
			ExpResolved: resolved(
				"i32todec(b) * 1.000 - a",
				"i32todec(b) * 1.000 / a",
			),
			ExpHdrs: hdrs(
				hdr(typDecimal(3)),
				hdr(typDecimal(3)),
			),
			ExpRows: rows(
				row(dec(-2700, 3), dec(425, 3)),
				row(dec(4250, 3), dec(-2400, 3)),
				row(nil, nil),
				row(dec(0, 3), dec(1000, 3)),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "decimal-literals",
			Exprs: exprs(
				binop(binopsA, parser.STAR, decLit("0.5")),
				binop(binopsA, parser.PLUS, decLit("0.5")),
			),
			ExpResolved: resolved(
				"a * 0.5",
				"a + 0.500",
			),
			ExpHdrs: hdrs(
				hdr(typDecimal(4)),
				hdr(typDecimal(3)),
			),
			ExpRows: rows(
				row(dec(23500, 4), dec(5200, 3)),
				row(dec(-6250, 4), dec(-750, 3)),
				row(nil, nil),
				row(dec(10000, 4), dec(2500, 3)),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "decimal-scales-do-not-match",
			Exprs: exprs(
				binop(binopsA, parser.PLUS, cast(binopsB, typDecimal(2))),
			),
			ExpErr: "no overload for decimal + decimal",
		},
		{
			name: "divide-by-zero",
			Exprs: exprs(
				binop(binopsA, parser.SLASH, paren(binop(binopsB, parser.MINUS, binopsB))),
			),
			ExpErr: "division by zero",
		},
	},
}

var (
	binopsI = srcHdr("i", typInt32)
	binopsJ = srcHdr("j", typInt64)
)

var binOpExprWithIntegers = TableTest{
	Table: tbl(
		"binops_int",
		srcHdrs(binopsI, binopsJ),
		srcRows(
			srcRow(int32(7), int64(-3)),
			srcRow(int32(2147483647), int64(1)),
			srcRow(nil, int64(10)),
		),
	),
	ExprTests: []ExprTest{
		{
			name: "widen-to-i64",
			Exprs: exprs(
				binop(binopsI, parser.PLUS, binopsJ),
				binop(binopsI, parser.SLASH, binopsJ),
				binop(binopsI, parser.REM, binopsJ),
				binop(binopsI, parser.EQ, binopsJ),
			),
			ExpResolved: resolved(
				"i32toi64(i) + j",
				"i32toi64(i) / j",
				"i32toi64(i) % j",
				"i32toi64(i) = j",
			),
			ExpHdrs: hdrs(
				hdr(typInt64),
				hdr(typInt64),
				hdr(typInt64),
				hdr(typBool),
			),
			ExpRows: rows(
				row(int64(4), int64(-2), int64(1), false),
				row(int64(2147483648), int64(2147483647), int64(0), false),
				row(nil, nil, nil, nil),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "literal-keeps-column-type",
			Exprs: exprs(
				binop(binopsJ, parser.STAR, intLit(2)),
			),
			ExpResolved: resolved(
				"j * i32toi64(2)",
			),
			ExpHdrs: hdrs(
				hdr(typInt64),
			),
			ExpRows: rows(
				row(int64(-6)),
				row(int64(2)),
				row(int64(20)),
			),
			Compare: CompareExactUnordered,
		},
		{
			name: "i32-overflow",
			Exprs: exprs(
				binop(binopsI, parser.PLUS, intLit(1)),
			),
			ExpErr: "i32 out of range",
		},
		{
			name: "i64-overflow",
			Exprs: exprs(
				binop(binopsJ, parser.STAR, intLit(4611686018427387904)),
			),
			ExpErr: "i64 out of range",
		},
	},
}

var (
	binopsF = srcHdr("f", typFloat64)
	binopsD = srcHdr("d", typDecimal(2))
	binopsK = srcHdr("k", typInt32)
)

var binOpExprWithFloat = TableTest{
	Table: tbl(
		"binops_float",
		srcHdrs(binopsF, binopsD, binopsK),
		srcRows(
			srcRow(2.5, dec(150, 2), int32(3)),
			srcRow(-0.5, dec(-225, 2), int32(-4)),
		),
	),
	ExprTests: []ExprTest{
		{
			name: "widen-to-float",
			Exprs: exprs(
				binop(binopsF, parser.PLUS, binopsD),
				binop(binopsF, parser.STAR, binopsK),
				binop(binopsF, parser.REM, intLit(2)),
				binop(binopsD, parser.GT, binopsF),
			),
			ExpResolved: resolved(
				"f + dectof64(d) / 100",
				"f * i32tof64(k)",
				"f % i32tof64(2)",
				"dectof64(d) / 100 > f",
			),
			ExpHdrs: hdrs(
				hdr(typFloat64),
				hdr(typFloat64),
				hdr(typFloat64),
				hdr(typBool),
			),
			ExpRows: rows(
				row(4.0, 7.5, 0.5, false),
				row(-2.75, 2.0, -0.5, false),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "divide-by-zero",
			Exprs: exprs(
				binop(binopsF, parser.SLASH, intLit(0)),
			),
			ExpErr: "division by zero",
		},
	},
}

// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package defs

import "github.com/featurebasedb/sqltype/sql3/parser"

// literals are evaluated against a table with a single empty row
var literalCoercionTests = TableTest{
	Table: tbl(
		"literals",
		srcHdrs(),
		srcRows(
			srcRow(),
		),
	),
	ExprTests: []ExprTest{
		{
			name: "numeric-literals",
			Exprs: exprs(
				binop(intLit(1), parser.GT, decLit("1.1")),
				binop(cast(intLit(1), typInt64), parser.GT, decLit("1.11111")),
				binop(cast(intLit(1), typInt64), parser.GT, cast(decLit("1.11111"), typFloat64)),
				binop(decLit("1.1"), parser.GT, cast(intLit(1), typFloat64)),
				binop(decLit("1.1"), parser.GT, decLit("1.1")),
				binop(cast(intLit(1), typFloat64), parser.GT, cast(intLit(1), typFloat64)),
			),
			ExpResolved: resolved(
				"i32todec(1) * 1.0 > 1.1",
				"i64todec(i32toi64(1)::i64) * 1.00000 > 1.11111",
				"i64tof64(i32toi64(1)::i64) > (dectof64(1.11111) / 100000)::float",
				"dectof64(1.1) / 10 > i32tof64(1)::float",
				"1.1 > 1.1",
				"i32tof64(1)::float > i32tof64(1)::float",
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
				row(false, false, false, true, false, false),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "numeric-arithmetic",
			Exprs: exprs(
				binop(decLit("2.5"), parser.PLUS, intLit(1)),
				binop(intLit(1), parser.SLASH, intLit(2)),
				binop(decLit("7.0"), parser.SLASH, intLit(2)),
			),
			ExpResolved: resolved(
				"2.5 + i32todec(1) * 1.0",
				"1 / 2",
				"7.0 / (i32todec(2) * 1.0)",
			),
			ExpHdrs: hdrs(
				hdr(typDecimal(1)),
				hdr(typInt32),
				hdr(typDecimal(1)),
			),
			ExpRows: rows(
				row(dec(35, 1), int32(0), dec(35, 1)),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "string-literals",
			Exprs: exprs(
				binop(strLit("1"), parser.LT, intLit(2)),
				binop(strLit("true"), parser.OR, strLit("false")),
				binop(strLit("12"), parser.PLUS, intLit(1)),
				binop(strLit("0.25"), parser.STAR, decLit("2.00")),
			),
			ExpResolved: resolved(
				"1 < 2",
				"true OR false",
				"12 + 1",
				"0.25 * 2.00",
			),
			ExpHdrs: hdrs(
				hdr(typBool),
				hdr(typBool),
				hdr(typInt32),
				hdr(typDecimal(2)),
			),
			ExpRows: rows(
				row(true, true, int32(13), dec(50, 2)),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "string-literal-not-a-number",
			Exprs: exprs(
				binop(strLit("abc"), parser.LT, intLit(2)),
			),
			ExpErr: `invalid input syntax for i32: "abc"`,
		},
		{
			name: "string-literal-too-precise",
			Exprs: exprs(
				binop(strLit("1.25"), parser.PLUS, decLit("1.0")),
			),
			ExpErr: `invalid input syntax for decimal: "1.25"`,
		},
		{
			name: "string-literal-not-a-bool",
			Exprs: exprs(
				binop(strLit("maybe"), parser.AND, boolLit(true)),
			),
			ExpErr: `invalid input syntax for bool: "maybe"`,
		},
	},
}

var (
	castI = srcHdr("i", typInt32)
	castS = srcHdr("s", typString)
	castD = srcHdr("d", typDecimal(3))
	castF = srcHdr("f", typFloat64)
	castT = srcHdr("t", typBool)
)

var castTests = TableTest{
	Table: tbl(
		"casts",
		srcHdrs(castI, castS, castD, castF, castT),
		srcRows(
			srcRow(int32(-2), " 42 ", dec(4750, 3), 2.5, true),
		),
	),
	ExprTests: []ExprTest{
		{
			name: "numeric",
			Exprs: exprs(
				cast(castI, typInt64),
				cast(castD, typDecimal(1)),
				cast(castD, typInt32),
				cast(castD, typFloat64),
				cast(castF, typInt64),
				cast(castF, typDecimal(2)),
			),
			ExpResolved: resolved(
				"i32toi64(i)::i64",
				"decrescale(d)::decimal(1)",
				"dectoi32(d)::i32",
				"(dectof64(d) / 1000)::float",
				"f64toi64(f)::i64",
				"f64todec(f)::decimal(2)",
			),
			ExpHdrs: hdrs(
				hdr(typInt64),
				hdr(typDecimal(1)),
				hdr(typInt32),
				hdr(typFloat64),
				hdr(typInt64),
				hdr(typDecimal(2)),
			),
			ExpRows: rows(
				row(int64(-2), dec(48, 1), int32(5), 4.75, int64(3), dec(250, 2)),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "string-and-bool",
			Exprs: exprs(
				cast(castS, typInt32),
				cast(castI, typString),
				cast(castD, typString),
				cast(castT, typInt32),
				cast(castI, typBool),
			),
			ExpResolved: resolved(
				"strtoi32(s)::i32",
				"i32tostr(i)::string",
				"dectostr(d)::string",
				"booltoi32(t)::i32",
				"i32tobool(i)::bool",
			),
			ExpHdrs: hdrs(
				hdr(typInt32),
				hdr(typString),
				hdr(typString),
				hdr(typInt32),
				hdr(typBool),
			),
			ExpRows: rows(
				row(int32(42), "-2", "4.750", int32(1), true),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "constants",
			Exprs: exprs(
				cast(decLit("12.345"), typDecimal(2)),
				cast(strLit("2.5"), typDecimal(0)),
				cast(nullLit(), typBool),
			),
			ExpResolved: resolved(
				"12.35::decimal(2)",
				"3::decimal(0)",
				"NULL::bool",
			),
			ExpHdrs: hdrs(
				hdr(typDecimal(2)),
				hdr(typDecimal(0)),
				hdr(typBool),
			),
			ExpRows: rows(
				row(dec(1235, 2), dec(3, 0), nil),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "bool-to-float",
			Exprs: exprs(
				cast(castT, typFloat64),
			),
			ExpErr: "cannot cast bool to float",
		},
		{
			name: "string-constant-not-a-number",
			Exprs: exprs(
				cast(strLit("x"), typInt32),
			),
			ExpErr: `invalid input syntax for i32: "x"`,
		},
	},
}

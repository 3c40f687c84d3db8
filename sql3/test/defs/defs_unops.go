// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package defs

import "github.com/featurebasedb/sqltype/sql3/parser"

var (
	unopsD = srcHdr("d", typDecimal(2))
	unopsI = srcHdr("i", typInt32)
	unopsJ = srcHdr("j", typInt64)
	unopsF = srcHdr("f", typFloat64)
)

// negation keeps the type of its operand
var unaryOpExprWithDecimal = TableTest{
	Table: tbl(
		"unops_numeric",
		srcHdrs(unopsD, unopsI, unopsJ, unopsF),
		srcRows(
			srcRow(dec(125, 2), int32(-7), int64(9), 2.5),
			srcRow(nil, int32(3), nil, nil),
		),
	),
	ExprTests: []ExprTest{
		{
			name: "negate",
			Exprs: exprs(
				unop(parser.MINUS, unopsD),
				unop(parser.MINUS, unopsI),
				unop(parser.MINUS, unopsJ),
				unop(parser.MINUS, unopsF),
				unop(parser.MINUS, paren(unop(parser.MINUS, unopsD))),
			),
			ExpResolved: resolved(
				"-d",
				"-i",
				"-j",
				"-f",
				"-(-d)",
			),
			ExpHdrs: hdrs(
				hdr(typDecimal(2)),
				hdr(typInt32),
				hdr(typInt64),
				hdr(typFloat64),
				hdr(typDecimal(2)),
			),
			ExpRows: rows(
				row(dec(-125, 2), int32(7), int64(-9), -2.5, dec(125, 2)),
				row(nil, int32(-3), nil, nil, nil),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "negate-then-add",
			Exprs: exprs(
				binop(unop(parser.MINUS, unopsD), parser.PLUS, unopsI),
			),
			ExpResolved: resolved(
				"-d + i32todec(i) * 1.00",
			),
			ExpHdrs: hdrs(
				hdr(typDecimal(2)),
			),
			ExpRows: rows(
				row(dec(-825, 2)),
				row(nil),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "string-literal-is-ambiguous",
			Exprs: exprs(
				unop(parser.MINUS, strLit("5")),
			),
			ExpErr: "ambiguous overload for - string",
		},
		{
			name: "null-is-ambiguous",
			Exprs: exprs(
				unop(parser.MINUS, nullLit()),
			),
			ExpErr: "ambiguous overload for - unknown",
		},
	},
}

var (
	unopsT = srcHdr("t", typBool)
	unopsK = srcHdr("k", typInt32)
)

var unaryOpExprWithBool = TableTest{
	Table: tbl(
		"unops_bool",
		srcHdrs(unopsT, unopsK),
		srcRows(
			srcRow(true, int32(1)),
			srcRow(false, int32(0)),
			srcRow(nil, nil),
		),
	),
	ExprTests: []ExprTest{
		{
			name: "not",
			Exprs: exprs(
				unop(parser.NOT, unopsT),
				unop(parser.NOT, paren(unop(parser.NOT, unopsT))),
				unop(parser.NOT, nullLit()),
				unop(parser.NOT, strLit("yes")),
			),
			ExpResolved: resolved(
				"NOT t",
				"NOT (NOT t)",
				"NOT NULL",
				"NOT true",
			),
			ExpHdrs: hdrs(
				hdr(typBool),
				hdr(typBool),
				hdr(typBool),
				hdr(typBool),
			),
			ExpRows: rows(
				row(false, true, nil, false),
				row(true, false, nil, false),
				row(nil, nil, nil, false),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "negate-bool",
			Exprs: exprs(
				unop(parser.MINUS, unopsT),
			),
			ExpErr: "no overload for - bool",
		},
		{
			name: "not-integer",
			Exprs: exprs(
				unop(parser.NOT, unopsK),
			),
			ExpErr: "no overload for NOT i32",
		},
	},
}

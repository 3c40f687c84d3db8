// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package defs

import "github.com/featurebasedb/sqltype/sql3/parser"

var (
	boolX = srcHdr("x", typBool)
	boolY = srcHdr("y", typBool)
	boolI = srcHdr("i", typInt32)
)

// BOOL tests; every combination of true, false and NULL
var boolTests = TableTest{
	name: "three-valued-logic",
	Table: tbl(
		"bools",
		srcHdrs(boolX, boolY, boolI),
		srcRows(
			srcRow(true, true, int32(1)),
			srcRow(true, false, int32(1)),
			srcRow(true, nil, int32(1)),
			srcRow(false, true, int32(0)),
			srcRow(false, false, int32(0)),
			srcRow(false, nil, int32(0)),
			srcRow(nil, true, nil),
			srcRow(nil, false, nil),
			srcRow(nil, nil, nil),
		),
	),
	ExprTests: []ExprTest{
		{
			name: "and-or-not",
			Exprs: exprs(
				binop(boolX, parser.AND, boolY),
				binop(boolX, parser.OR, boolY),
				unop(parser.NOT, boolX),
			),
			ExpResolved: resolved(
				"x AND y",
				"x OR y",
				"NOT x",
			),
			ExpHdrs: hdrs(
				hdr(typBool),
				hdr(typBool),
				hdr(typBool),
			),
			ExpRows: rows(
				row(true, true, false),
				row(false, true, false),
				row(nil, true, false),
				row(false, true, true),
				row(false, false, true),
				row(false, nil, true),
				row(nil, true, nil),
				row(false, nil, nil),
				row(nil, nil, nil),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "string-literal-operand",
			Exprs: exprs(
				binop(boolX, parser.OR, strLit("off")),
			),
			ExpResolved: resolved(
				"x OR false",
			),
			ExpHdrs: hdrs(
				hdr(typBool),
			),
			ExpRows: rows(
				row(true),
				row(true),
				row(true),
				row(false),
				row(false),
				row(false),
				row(nil),
				row(nil),
				row(nil),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "comparison",
			Exprs: exprs(
				binop(boolX, parser.EQ, boolY),
				binop(boolX, parser.GT, boolY),
			),
			ExpHdrs: hdrs(
				hdr(typBool),
				hdr(typBool),
			),
			ExpRows: rows(
				row(true, false),
				row(false, true),
				row(nil, nil),
				row(false, false),
				row(true, false),
				row(nil, nil),
				row(nil, nil),
				row(nil, nil),
				row(nil, nil),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "integer-is-not-bool",
			Exprs: exprs(
				binop(boolX, parser.AND, boolI),
			),
			ExpErr: "no overload for bool AND i32",
		},
		{
			name: "integer-literal-is-not-bool",
			Exprs: exprs(
				binop(intLit(1), parser.OR, boolY),
			),
			ExpErr: "no overload for i32 OR bool",
		},
	},
}

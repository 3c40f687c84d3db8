// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package defs

import "github.com/featurebasedb/sqltype/sql3/parser"

var stringS = srcHdr("s", typString)

var stringFunctionTests = TableTest{
	name: "string-functions",
	Table: tbl(
		"string_functions",
		srcHdrs(stringS),
		srcRows(
			srcRow("  Hello "),
			srcRow(nil),
			srcRow("héllo"),
		),
	),
	ExprTests: []ExprTest{
		{
			name: "length",
			Exprs: exprs(
				call("length", stringS),
				call("length", strLit("abc")),
			),
			ExpResolved: resolved(
				"length(s)",
				"length('abc')",
			),
			ExpHdrs: hdrs(
				hdr(typInt32),
				hdr(typInt32),
			),
			ExpRows: rows(
				row(int32(8), int32(3)),
				row(nil, int32(3)),
				row(int32(5), int32(3)),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "case",
			Exprs: exprs(
				call("upper", stringS),
				call("lower", stringS),
			),
			ExpHdrs: hdrs(
				hdr(typString),
				hdr(typString),
			),
			ExpRows: rows(
				row("  HELLO ", "  hello "),
				row(nil, nil),
				row("HÉLLO", "héllo"),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "trim",
			Exprs: exprs(
				call("btrim", stringS),
				call("ltrim", stringS),
				call("rtrim", stringS),
			),
			ExpHdrs: hdrs(
				hdr(typString),
				hdr(typString),
				hdr(typString),
			),
			ExpRows: rows(
				row("Hello", "Hello ", "  Hello"),
				row(nil, nil, nil),
				row("héllo", "héllo", "héllo"),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "concat",
			Exprs: exprs(
				binop(stringS, parser.CONCAT, strLit("!")),
				binop(call("upper", stringS), parser.CONCAT, call("btrim", stringS)),
			),
			ExpResolved: resolved(
				"s || '!'",
				"upper(s) || btrim(s)",
			),
			ExpHdrs: hdrs(
				hdr(typString),
				hdr(typString),
			),
			ExpRows: rows(
				row("  Hello !", "  HELLO Hello"),
				row(nil, nil),
				row("héllo!", "HÉLLOhéllo"),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "concat-integer",
			Exprs: exprs(
				binop(stringS, parser.CONCAT, intLit(1)),
			),
			ExpErr: "no overload for string || i32",
		},
		{
			name: "wrong-arity",
			Exprs: exprs(
				call("length", stringS, stringS),
			),
			ExpErr: "no overload for length(string, string)",
		},
	},
}

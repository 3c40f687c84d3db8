// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package defs

import "github.com/featurebasedb/sqltype/sql3/parser"

var (
	caseB = srcHdr("b", typInt32)
	caseS = srcHdr("s", typString)
)

// the branches of a CASE are converted to their common type
var caseTests = TableTest{
	name: "case",
	Table: tbl(
		"case",
		srcHdrs(caseB, caseS),
		srcRows(
			srcRow(int32(1), "x"),
			srcRow(int32(2), nil),
			srcRow(nil, "z"),
		),
	),
	ExprTests: []ExprTest{
		{
			name: "simple-and-searched",
			Exprs: exprs(
				caseOf(caseB, strLit("many"),
					when(intLit(1), strLit("one")),
					when(intLit(2), strLit("two")),
				),
				caseOf(nil, caseB,
					when(binop(caseB, parser.GT, intLit(1)), decLit("1.5")),
				),
				caseOf(nil, nil,
					when(isNull(caseS, false), intLit(0)),
				),
			),
			ExpResolved: resolved(
				"CASE WHEN b = 1 THEN 'one' WHEN b = 2 THEN 'two' ELSE 'many' END",
				"CASE WHEN b > 1 THEN 1.5 ELSE i32todec(b) * 1.0 END",
				"CASE WHEN s IS NULL THEN 0 END",
			),
			ExpHdrs: hdrs(
				hdr(typString),
				hdr(typDecimal(1)),
				hdr(typInt32),
			),
			ExpRows: rows(
				row("one", dec(10, 1), nil),
				row("two", dec(15, 1), int32(0)),
				row("many", nil, nil),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "string-literal-condition",
			Exprs: exprs(
				caseOf(nil, strLit("no"),
					when(strLit("t"), strLit("yes")),
				),
			),
			ExpResolved: resolved(
				"CASE WHEN true THEN 'yes' ELSE 'no' END",
			),
			ExpHdrs: hdrs(
				hdr(typString),
			),
			ExpRows: rows(
				row("yes"),
				row("yes"),
				row("yes"),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "condition-not-bool",
			Exprs: exprs(
				caseOf(nil, nil, when(caseB, intLit(1))),
			),
			ExpErr: "boolean expression expected, got i32",
		},
		{
			name: "branches-not-matched",
			Exprs: exprs(
				caseOf(nil, boolLit(true), when(boolLit(true), intLit(1))),
			),
			ExpErr: "CASE types i32 and bool cannot be matched",
		},
	},
}

var (
	coalesceN = srcHdr("n", typInt32)
	coalesceC = srcHdr("c", typInt64)
	coalesceS = srcHdr("s", typString)
)

var coalesceTests = TableTest{
	name: "coalesce",
	Table: tbl(
		"coalesce",
		srcHdrs(coalesceN, coalesceC, coalesceS),
		srcRows(
			srcRow(nil, int64(10), "a"),
			srcRow(int32(3), nil, nil),
		),
	),
	ExprTests: []ExprTest{
		{
			name: "coalesce",
			Exprs: exprs(
				call("coalesce", coalesceN, coalesceC),
				call("COALESCE", coalesceS, strLit("none")),
				call("coalesce", nullLit(), coalesceN, decLit("2.5")),
			),
			ExpResolved: resolved(
				"coalesce(i32toi64(n), c)",
				"coalesce(s, 'none')",
				"coalesce(NULL, i32todec(n) * 1.0, 2.5)",
			),
			ExpHdrs: hdrs(
				hdr(typInt64),
				hdr(typString),
				hdr(typDecimal(1)),
			),
			ExpRows: rows(
				row(int64(10), "a", dec(25, 1)),
				row(int64(3), "none", dec(30, 1)),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "arguments-not-matched",
			Exprs: exprs(
				call("coalesce", coalesceS, intLit(1)),
			),
			ExpErr: "COALESCE types string and i32 cannot be matched",
		},
	},
}

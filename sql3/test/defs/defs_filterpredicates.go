// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package defs

import "github.com/featurebasedb/sqltype/sql3/parser"

var (
	filterB = srcHdr("b", typInt32)
	filterS = srcHdr("s", typString)
	filterD = srcHdr("d", typDecimal(1))
)

func filterTable() *Table {
	return tbl(
		"filter_predicates",
		srcHdrs(filterB, filterS, filterD),
		srcRows(
			srcRow(int32(2), "b", dec(15, 1)),
			srcRow(int32(5), "x", nil),
			srcRow(nil, nil, dec(0, 1)),
		),
	)
}

// BETWEEN is resolved as a pair of comparisons, each coerced on its own
var betweenTests = TableTest{
	name:  "between",
	Table: filterTable(),
	ExprTests: []ExprTest{
		{
			name: "between",
			Exprs: exprs(
				between(filterB, false, intLit(1), decLit("2.5")),
				between(filterB, true, intLit(2), intLit(4)),
				between(filterS, false, strLit("a"), strLit("c")),
				between(filterD, false, intLit(1), intLit(2)),
			),
			ExpResolved: resolved(
				"b >= 1 AND i32todec(b) * 1.0 <= 2.5",
				"NOT (b >= 2 AND b <= 4)",
				"s >= 'a' AND s <= 'c'",
				"d >= i32todec(1) * 1.0 AND d <= i32todec(2) * 1.0",
			),
			ExpHdrs: hdrs(
				hdr(typBool),
				hdr(typBool),
				hdr(typBool),
				hdr(typBool),
			),
			ExpRows: rows(
				row(true, false, true, true),
				row(false, true, false, nil),
				row(nil, nil, nil, false),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "bounds-not-comparable",
			Exprs: exprs(
				between(filterS, false, intLit(1), intLit(2)),
			),
			ExpErr: "no overload for string >= i32",
		},
	},
}

// IN is resolved as equality comparisons joined by OR
var inTests = TableTest{
	name:  "in",
	Table: filterTable(),
	ExprTests: []ExprTest{
		{
			name: "in",
			Exprs: exprs(
				in(filterB, false, intLit(1), intLit(2), intLit(3)),
				in(filterB, false, intLit(1), nullLit()),
				in(filterB, true, intLit(5), strLit("6")),
				in(filterS, false, strLit("a"), strLit("b")),
				in(filterD, false, decLit("1.5"), intLit(2)),
			),
			ExpResolved: resolved(
				"b = 1 OR b = 2 OR b = 3",
				"b = 1 OR b = NULL",
				"NOT (b = 5 OR b = 6)",
				"s = 'a' OR s = 'b'",
				"d = 1.5 OR d = i32todec(2) * 1.0",
			),
			ExpHdrs: hdrs(
				hdr(typBool),
				hdr(typBool),
				hdr(typBool),
				hdr(typBool),
				hdr(typBool),
			),
			ExpRows: rows(
				row(true, nil, true, true, true),
				row(false, nil, false, false, nil),
				row(nil, nil, nil, nil, false),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "string-literal-not-a-number",
			Exprs: exprs(
				in(filterB, false, strLit("x")),
			),
			ExpErr: `invalid input syntax for i32: "x"`,
		},
		{
			name: "list-not-comparable",
			Exprs: exprs(
				in(filterS, false, intLit(1)),
			),
			ExpErr: "no overload for string = i32",
		},
	},
}

var (
	nullC = srcHdr("c", typInt64)
	nullN = srcHdr("n", typInt32)
	nullU = srcHdr("u", parser.NewDataTypeUnknown())
)

var nullTests = TableTest{
	Table: tbl(
		"nulls",
		srcHdrs(nullC, nullN, nullU),
		srcRows(
			srcRow(int64(10), nil, nil),
			srcRow(nil, nil, nil),
		),
	),
	ExprTests: []ExprTest{
		{
			name: "null-operands",
			Exprs: exprs(
				binop(nullC, parser.MINUS, nullLit()),
				nullLit(),
				unop(parser.NOT, nullLit()),
				binop(nullLit(), parser.EQ, nullLit()),
				nullU,
			),
			ExpResolved: resolved(
				"c - NULL",
				"NULL",
				"NOT NULL",
				"NULL = NULL",
				"u",
			),
			ExpHdrs: hdrs(
				hdr(typInt64),
				hdr(typString),
				hdr(typBool),
				hdr(typBool),
				hdr(typString),
			),
			ExpRows: rows(
				row(nil, nil, nil, nil, nil),
				row(nil, nil, nil, nil, nil),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "is-null",
			Exprs: exprs(
				isNull(nullN, false),
				isNull(nullC, true),
				isNull(nullLit(), false),
				isNull(binop(nullC, parser.PLUS, nullN), false),
			),
			ExpResolved: resolved(
				"n IS NULL",
				"c IS NOT NULL",
				"NULL IS NULL",
				"c + i32toi64(n) IS NULL",
			),
			ExpHdrs: hdrs(
				hdr(typBool),
				hdr(typBool),
				hdr(typBool),
				hdr(typBool),
			),
			ExpRows: rows(
				row(true, true, true, true),
				row(true, false, true, true),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "null-plus-null",
			Exprs: exprs(
				binop(nullLit(), parser.PLUS, nullLit()),
			),
			ExpErr: "no overload for unknown + unknown",
		},
	},
}

var quantifiedB = srcHdr("b", typInt32)

// the VALUES list is a single column whose type is the common type of its
// values
var quantifiedTests = TableTest{
	name: "quantified",
	Table: tbl(
		"quantified",
		srcHdrs(quantifiedB),
		srcRows(
			srcRow(int32(1)),
			srcRow(int32(3)),
			srcRow(nil),
		),
	),
	ExprTests: []ExprTest{
		{
			name: "any-some-all",
			Exprs: exprs(
				quantified(quantifiedB, parser.LT, parser.ALL, intLit(2), decLit("3.5")),
				quantified(quantifiedB, parser.EQ, parser.ANY, intLit(1), nullLit()),
				quantified(quantifiedB, parser.NE, parser.SOME, intLit(1), intLit(2)),
				quantified(quantifiedB, parser.GE, parser.ALL, intLit(1), strLit("3")),
			),
			ExpResolved: resolved(
				"i32todec(b) * 1.0 < ALL (VALUES (i32todec(2) * 1.0), (3.5))",
				"b = ANY (VALUES (1), (NULL))",
				"b <> SOME (VALUES (1), (2))",
				"b >= ALL (VALUES (1), (3))",
			),
			ExpHdrs: hdrs(
				hdr(typBool),
				hdr(typBool),
				hdr(typBool),
				hdr(typBool),
			),
			ExpRows: rows(
				row(true, true, true, false),
				row(false, nil, true, true),
				row(nil, nil, nil, nil),
			),
			Compare: CompareExactOrdered,
		},
		{
			name: "null-column-takes-default-type",
			Exprs: exprs(
				quantified(intLit(1), parser.LT, parser.ALL, nullLit()),
			),
			ExpErr: "no overload for i32 < string",
		},
		{
			name: "values-not-matched",
			Exprs: exprs(
				quantified(quantifiedB, parser.EQ, parser.ANY, intLit(1), boolLit(true)),
			),
			ExpErr: "VALUES types i32 and bool cannot be matched",
		},
	},
}

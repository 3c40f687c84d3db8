// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package defs holds table driven expression tests: a source table, and
// lists of expressions whose resolved forms, result types and per-row values
// are known.
package defs

import (
	"fmt"
	"strconv"

	"github.com/featurebasedb/sqltype/decimal"
	"github.com/featurebasedb/sqltype/sql3/parser"
	"github.com/featurebasedb/sqltype/sql3/planner/types"
)

// TableTests is the list of tests which get run by TestSQL_Execute in
// sql_test.go. They're defined here just to keep the test definitions
// separate from the test execution logic.
var TableTests []TableTest = []TableTest{
	binOpExprWithDecimalAndInt,
	binOpExprWithIntegers,
	binOpExprWithFloat,
	literalCoercionTests,
	castTests,
	boolTests,
	unaryOpExprWithDecimal,
	unaryOpExprWithBool,
	betweenTests,
	inTests,
	nullTests,
	quantifiedTests,
	caseTests,
	coalesceTests,
	mathFunctionTests,
	stringFunctionTests,
}

// TableTest is a source table and the expression tests run against each of
// its rows.
type TableTest struct {
	name string

	Table *Table

	ExprTests []ExprTest
}

func (tt TableTest) Name(i int) string {
	if tt.name != "" {
		return tt.name
	}
	if tt.Table != nil && tt.Table.name != "" {
		return tt.Table.name
	}
	return fmt.Sprintf("tabletest-%d", i)
}

func (tt TableTest) HasTable() bool {
	return tt.Table != nil
}

func (tt TableTest) HasData() bool {
	return tt.HasTable() && len(tt.Table.rows) > 0
}

// Table is a named set of typed columns and rows of values for them.
type Table struct {
	name    string
	columns []*parser.ColumnRef
	rows    []types.Row
}

func (t *Table) Name() string {
	return t.name
}

// Schema returns the columns of the table.
func (t *Table) Schema() types.Schema {
	schema := make(types.Schema, len(t.columns))
	for i, c := range t.columns {
		schema[i] = &types.PlannerColumn{
			RelationName: t.name,
			ColumnName:   c.Name,
			Type:         c.Type,
		}
	}
	return schema
}

// Rows returns the rows of the table.
func (t *Table) Rows() []types.Row {
	return t.rows
}

// ExprTest is a list of expressions evaluated together, as the columns of a
// projection, against every row of the table.
type ExprTest struct {
	name string

	Exprs []parser.Expr

	// ExpResolved, when set, holds the rendering of each resolved
	// expression.
	ExpResolved []string

	ExpHdrs []string
	ExpRows [][]interface{}
	ExpErr  string

	Compare CompareMethod
}

func (et ExprTest) Name(i int) string {
	if et.name != "" {
		return et.name
	}
	return fmt.Sprintf("exprtest-%d", i)
}

// CompareMethod is used to indicate how the results of an expression test
// should be compared with the expected rows.
type CompareMethod string

const (
	CompareExactOrdered   CompareMethod = "exactOrdered"
	CompareExactUnordered CompareMethod = "exactUnordered"
)

var (
	typInt32   = parser.NewDataTypeInt32()
	typInt64   = parser.NewDataTypeInt64()
	typFloat64 = parser.NewDataTypeFloat64()
	typString  = parser.NewDataTypeString()
	typBool    = parser.NewDataTypeBool()
)

func typDecimal(scale int64) parser.ExprDataType {
	return parser.NewDataTypeDecimal(scale)
}

////////////////////////////////////////////////////
// table helpers
////////////////////////////////////////////////////

func tbl(name string, columns []*parser.ColumnRef, rows []types.Row) *Table {
	return &Table{
		name:    name,
		columns: columns,
		rows:    rows,
	}
}

func srcHdr(name string, typ parser.ExprDataType) *parser.ColumnRef {
	return &parser.ColumnRef{
		Name: name,
		Type: typ,
	}
}

// srcHdrs numbers the columns in the order given.
func srcHdrs(hdrs ...*parser.ColumnRef) []*parser.ColumnRef {
	for i := range hdrs {
		hdrs[i].Index = i
	}
	return hdrs
}

func srcRow(vals ...interface{}) types.Row {
	return vals
}

func srcRows(r ...types.Row) []types.Row {
	return r
}

////////////////////////////////////////////////////
// expectation helpers
////////////////////////////////////////////////////

func exprs(e ...parser.Expr) []parser.Expr {
	return e
}

func resolved(s ...string) []string {
	return s
}

func hdr(typ parser.ExprDataType) string {
	return typ.TypeDescription()
}

func hdrs(h ...string) []string {
	return h
}

func row(vals ...interface{}) []interface{} {
	return vals
}

func rows(r ...[]interface{}) [][]interface{} {
	return r
}

func dec(value, scale int64) decimal.Decimal {
	return decimal.New(value, scale)
}

////////////////////////////////////////////////////
// expression helpers
////////////////////////////////////////////////////

func intLit(v int64) *parser.IntegerLit {
	return &parser.IntegerLit{Value: strconv.FormatInt(v, 10)}
}

func decLit(v string) *parser.DecimalLit {
	return &parser.DecimalLit{Value: v}
}

func fltLit(v float64) *parser.FloatLit {
	return parser.NewFloatLit(v)
}

func strLit(v string) *parser.StringLit {
	return &parser.StringLit{Value: v}
}

func boolLit(v bool) *parser.BoolLit {
	return &parser.BoolLit{Value: v}
}

func nullLit() *parser.NullLit {
	return &parser.NullLit{}
}

func paren(x parser.Expr) *parser.ParenExpr {
	return &parser.ParenExpr{X: x}
}

func cast(x parser.Expr, typ parser.ExprDataType) *parser.CastExpr {
	return &parser.CastExpr{X: x, Type: typ}
}

func unop(op parser.Token, x parser.Expr) *parser.UnaryExpr {
	return &parser.UnaryExpr{Op: op, X: x}
}

func binop(x parser.Expr, op parser.Token, y parser.Expr) *parser.BinaryExpr {
	return &parser.BinaryExpr{X: x, Op: op, Y: y}
}

func call(name string, args ...parser.Expr) *parser.Call {
	return &parser.Call{Name: name, Args: args}
}

func isNull(x parser.Expr, not bool) *parser.IsNullExpr {
	return &parser.IsNullExpr{X: x, Not: not}
}

func between(x parser.Expr, not bool, low, high parser.Expr) *parser.BetweenExpr {
	return &parser.BetweenExpr{X: x, Not: not, Low: low, High: high}
}

func in(x parser.Expr, not bool, list ...parser.Expr) *parser.InListExpr {
	return &parser.InListExpr{X: x, Not: not, List: list}
}

func when(condition, body parser.Expr) *parser.CaseBlock {
	return &parser.CaseBlock{Condition: condition, Body: body}
}

func caseOf(operand parser.Expr, elseExpr parser.Expr, blocks ...*parser.CaseBlock) *parser.CaseExpr {
	return &parser.CaseExpr{Operand: operand, Blocks: blocks, Else: elseExpr}
}

func quantified(x parser.Expr, op, quantifier parser.Token, values ...parser.Expr) *parser.QuantifiedExpr {
	return &parser.QuantifiedExpr{X: x, Op: op, Quantifier: quantifier, Values: values}
}

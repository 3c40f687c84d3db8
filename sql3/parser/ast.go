// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package parser

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/featurebasedb/sqltype/decimal"
)

// Node is any node of a bound expression tree.
type Node interface {
	node()
	fmt.Stringer
}

func (*BetweenExpr) node()    {}
func (*BinaryExpr) node()     {}
func (*BoolLit) node()        {}
func (*Call) node()           {}
func (*CaseBlock) node()      {}
func (*CaseExpr) node()       {}
func (*CastExpr) node()       {}
func (*CoalesceExpr) node()   {}
func (*ColumnRef) node()      {}
func (*ConvertExpr) node()    {}
func (*DecimalLit) node()     {}
func (*FloatLit) node()       {}
func (*InListExpr) node()     {}
func (*IntegerLit) node()     {}
func (*IsNullExpr) node()     {}
func (*NullLit) node()        {}
func (*ParenExpr) node()      {}
func (*QuantifiedExpr) node() {}
func (*StringLit) node()      {}
func (*UnaryExpr) node()      {}

// Expr is a scalar expression. Column references arrive bound to a type;
// operator nodes carry no type until they have been resolved.
type Expr interface {
	Node
	expr()
	// DataType returns the type of the expression. For operator nodes this is
	// nil until the node has been resolved.
	DataType() ExprDataType
	// IsLiteral reports whether the expression is a syntactic constant.
	IsLiteral() bool
}

func (*BetweenExpr) expr()    {}
func (*BinaryExpr) expr()     {}
func (*BoolLit) expr()        {}
func (*Call) expr()           {}
func (*CaseExpr) expr()       {}
func (*CastExpr) expr()       {}
func (*CoalesceExpr) expr()   {}
func (*ColumnRef) expr()      {}
func (*ConvertExpr) expr()    {}
func (*DecimalLit) expr()     {}
func (*FloatLit) expr()       {}
func (*InListExpr) expr()     {}
func (*IntegerLit) expr()     {}
func (*IsNullExpr) expr()     {}
func (*NullLit) expr()        {}
func (*ParenExpr) expr()      {}
func (*QuantifiedExpr) expr() {}
func (*StringLit) expr()      {}
func (*UnaryExpr) expr()      {}

// IntegerLit is an integer constant. Its type is i32 when the value fits and
// i64 otherwise, unless Type is set explicitly.
type IntegerLit struct {
	Value string
	Type  ExprDataType
}

// NewIntegerLit returns an integer constant of the given type.
func NewIntegerLit(v int64, typ ExprDataType) *IntegerLit {
	return &IntegerLit{Value: strconv.FormatInt(v, 10), Type: typ}
}

func (lit *IntegerLit) String() string {
	return lit.Value
}

func (lit *IntegerLit) DataType() ExprDataType {
	if lit.Type != nil {
		return lit.Type
	}
	v, err := lit.Int64()
	if err == nil && v >= math.MinInt32 && v <= math.MaxInt32 {
		return NewDataTypeInt32()
	}
	return NewDataTypeInt64()
}

func (lit *IntegerLit) IsLiteral() bool { return true }

// Int64 returns the value of the literal.
func (lit *IntegerLit) Int64() (int64, error) {
	return strconv.ParseInt(lit.Value, 10, 64)
}

// DecimalLit is a constant with a fractional part. The scale of its type is
// the number of digits after the decimal point in Value.
type DecimalLit struct {
	Value string
}

// NewDecimalLit returns a decimal constant holding d.
func NewDecimalLit(d decimal.Decimal) *DecimalLit {
	return &DecimalLit{Value: d.String()}
}

func (lit *DecimalLit) String() string {
	return lit.Value
}

func (lit *DecimalLit) DataType() ExprDataType {
	var scale int64
	if i := strings.IndexByte(lit.Value, '.'); i >= 0 {
		scale = int64(len(strings.TrimRight(lit.Value[i+1:], " ")))
	}
	return NewDataTypeDecimal(scale)
}

func (lit *DecimalLit) IsLiteral() bool { return true }

// Decimal returns the value of the literal.
func (lit *DecimalLit) Decimal() (decimal.Decimal, error) {
	return decimal.ParseDecimal(lit.Value)
}

// FloatLit is a float constant.
type FloatLit struct {
	Value string
}

// NewFloatLit returns a float constant holding f.
func NewFloatLit(f float64) *FloatLit {
	return &FloatLit{Value: strconv.FormatFloat(f, 'g', -1, 64)}
}

func (lit *FloatLit) String() string {
	return lit.Value
}

func (lit *FloatLit) DataType() ExprDataType {
	return NewDataTypeFloat64()
}

func (lit *FloatLit) IsLiteral() bool { return true }

// Float64 returns the value of the literal.
func (lit *FloatLit) Float64() (float64, error) {
	return strconv.ParseFloat(lit.Value, 64)
}

// StringLit is a quoted string constant.
type StringLit struct {
	Value string
}

func (lit *StringLit) String() string {
	return `'` + strings.ReplaceAll(lit.Value, `'`, `''`) + `'`
}

func (lit *StringLit) DataType() ExprDataType {
	return NewDataTypeString()
}

func (lit *StringLit) IsLiteral() bool { return true }

type BoolLit struct {
	Value bool
}

func (lit *BoolLit) String() string {
	if lit.Value {
		return "true"
	}
	return "false"
}

func (lit *BoolLit) DataType() ExprDataType {
	return NewDataTypeBool()
}

func (lit *BoolLit) IsLiteral() bool { return true }

// NullLit is a NULL constant. A bare NULL has no type; once it has been
// coerced Type holds the type it was coerced to.
type NullLit struct {
	Type ExprDataType
}

func (lit *NullLit) String() string {
	return "NULL"
}

func (lit *NullLit) DataType() ExprDataType {
	if lit.Type != nil {
		return lit.Type
	}
	return NewDataTypeUnknown()
}

func (lit *NullLit) IsLiteral() bool { return true }

// ColumnRef is a reference to a bound column of the current row.
type ColumnRef struct {
	Name  string
	Index int
	Type  ExprDataType
}

func (r *ColumnRef) String() string {
	if r.Name != "" {
		return r.Name
	}
	return "#" + strconv.Itoa(r.Index)
}

func (r *ColumnRef) DataType() ExprDataType {
	return r.Type
}

func (r *ColumnRef) IsLiteral() bool { return false }

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	X Expr
}

func (expr *ParenExpr) String() string {
	return fmt.Sprintf("(%s)", expr.X.String())
}

func (expr *ParenExpr) DataType() ExprDataType {
	return expr.X.DataType()
}

func (expr *ParenExpr) IsLiteral() bool {
	return Classify(expr) != NotLiteral
}

// CastExpr is an explicit cast, X::Type or CAST(X AS Type). Once resolved, X
// already has type Type. A cast is never a literal, even around a constant.
type CastExpr struct {
	X    Expr
	Type ExprDataType
}

func (expr *CastExpr) String() string {
	if isSimpleExpr(expr.X) {
		return fmt.Sprintf("%s::%s", expr.X.String(), expr.Type.TypeDescription())
	}
	return fmt.Sprintf("(%s)::%s", expr.X.String(), expr.Type.TypeDescription())
}

func (expr *CastExpr) DataType() ExprDataType {
	return expr.Type
}

func (expr *CastExpr) IsLiteral() bool { return false }

// isSimpleExpr reports whether expr can be rendered in front of :: without
// parentheses.
func isSimpleExpr(expr Expr) bool {
	switch expr.(type) {
	case *IntegerLit, *DecimalLit, *FloatLit, *StringLit, *BoolLit, *NullLit,
		*ColumnRef, *ParenExpr, *Call, *ConvertExpr, *CastExpr, *CoalesceExpr:
		return true
	}
	return false
}

// UnaryExpr is a prefix operator applied to an expression: -x or NOT x.
type UnaryExpr struct {
	Op Token
	X  Expr

	ResultDataType ExprDataType
	// Impl is the implementation tag chosen by overload resolution.
	Impl string
}

func (expr *UnaryExpr) String() string {
	if expr.Op == NOT {
		return fmt.Sprintf("NOT %s", expr.X.String())
	}
	return fmt.Sprintf("%s%s", expr.Op.String(), expr.X.String())
}

func (expr *UnaryExpr) DataType() ExprDataType {
	return expr.ResultDataType
}

func (expr *UnaryExpr) IsLiteral() bool { return false }

// BinaryExpr is an infix operator applied to two expressions.
type BinaryExpr struct {
	X  Expr
	Op Token
	Y  Expr

	ResultDataType ExprDataType
	// Impl is the implementation tag chosen by overload resolution.
	Impl string
}

func (expr *BinaryExpr) String() string {
	return fmt.Sprintf("%s %s %s", binaryOperandString(expr.X, expr.Op, false), expr.Op.String(), binaryOperandString(expr.Y, expr.Op, true))
}

// binaryOperandString prints an operand of op, adding the parentheses the
// tree shape needs when the operand is itself an unparenthesized binary
// expression.
func binaryOperandString(x Expr, op Token, right bool) string {
	if b, ok := x.(*BinaryExpr); ok && OperandNeedsParens(b.Op, op, right) {
		return "(" + b.String() + ")"
	}
	return x.String()
}

func (expr *BinaryExpr) DataType() ExprDataType {
	return expr.ResultDataType
}

func (expr *BinaryExpr) IsLiteral() bool { return false }

// Call is a scalar function call.
type Call struct {
	Name string
	Args []Expr

	ResultDataType ExprDataType
	// Impl is the implementation tag chosen by overload resolution.
	Impl string
}

func (c *Call) String() string {
	return fmt.Sprintf("%s(%s)", c.Name, exprListString(c.Args))
}

func (c *Call) DataType() ExprDataType {
	return c.ResultDataType
}

func (c *Call) IsLiteral() bool { return false }

// ConvertExpr is a conversion inserted by resolution, e.g. i32toi64(x). Func
// is the conversion tag and Type the type it produces.
type ConvertExpr struct {
	Func string
	X    Expr
	Type ExprDataType
}

func (expr *ConvertExpr) String() string {
	return fmt.Sprintf("%s(%s)", expr.Func, expr.X.String())
}

func (expr *ConvertExpr) DataType() ExprDataType {
	return expr.Type
}

func (expr *ConvertExpr) IsLiteral() bool { return false }

// IsNullExpr is X IS NULL or X IS NOT NULL.
type IsNullExpr struct {
	X   Expr
	Not bool
}

func (expr *IsNullExpr) String() string {
	if expr.Not {
		return fmt.Sprintf("%s IS NOT NULL", expr.X.String())
	}
	return fmt.Sprintf("%s IS NULL", expr.X.String())
}

func (expr *IsNullExpr) DataType() ExprDataType {
	return NewDataTypeBool()
}

func (expr *IsNullExpr) IsLiteral() bool { return false }

// BetweenExpr is X [NOT] BETWEEN Low AND High. Resolution replaces it with the
// equivalent pair of comparisons.
type BetweenExpr struct {
	X    Expr
	Not  bool
	Low  Expr
	High Expr
}

func (expr *BetweenExpr) String() string {
	not := ""
	if expr.Not {
		not = "NOT "
	}
	return fmt.Sprintf("%s %sBETWEEN %s AND %s", expr.X.String(), not, expr.Low.String(), expr.High.String())
}

func (expr *BetweenExpr) DataType() ExprDataType {
	return NewDataTypeBool()
}

func (expr *BetweenExpr) IsLiteral() bool { return false }

// InListExpr is X [NOT] IN (List...). Resolution replaces it with equality
// comparisons joined by OR.
type InListExpr struct {
	X    Expr
	Not  bool
	List []Expr
}

func (expr *InListExpr) String() string {
	not := ""
	if expr.Not {
		not = "NOT "
	}
	return fmt.Sprintf("%s %sIN (%s)", expr.X.String(), not, exprListString(expr.List))
}

func (expr *InListExpr) DataType() ExprDataType {
	return NewDataTypeBool()
}

func (expr *InListExpr) IsLiteral() bool { return false }

// CoalesceExpr returns its first non-NULL argument.
type CoalesceExpr struct {
	Args []Expr

	ResultDataType ExprDataType
}

func (expr *CoalesceExpr) String() string {
	return fmt.Sprintf("coalesce(%s)", exprListString(expr.Args))
}

func (expr *CoalesceExpr) DataType() ExprDataType {
	return expr.ResultDataType
}

func (expr *CoalesceExpr) IsLiteral() bool { return false }

// CaseBlock is a WHEN ... THEN ... arm of a CASE expression.
type CaseBlock struct {
	Condition Expr
	Body      Expr
}

func (b *CaseBlock) String() string {
	return fmt.Sprintf("WHEN %s THEN %s", b.Condition.String(), b.Body.String())
}

// CaseExpr is CASE [Operand] WHEN ... THEN ... [ELSE ...] END. Resolution
// turns the simple form into the searched form, so a resolved CaseExpr has
// no Operand.
type CaseExpr struct {
	Operand Expr
	Blocks  []*CaseBlock
	Else    Expr

	ResultDataType ExprDataType
}

func (expr *CaseExpr) String() string {
	var buf bytes.Buffer
	buf.WriteString("CASE")
	if expr.Operand != nil {
		buf.WriteString(" ")
		buf.WriteString(expr.Operand.String())
	}
	for _, b := range expr.Blocks {
		buf.WriteString(" ")
		buf.WriteString(b.String())
	}
	if expr.Else != nil {
		buf.WriteString(" ELSE ")
		buf.WriteString(expr.Else.String())
	}
	buf.WriteString(" END")
	return buf.String()
}

func (expr *CaseExpr) DataType() ExprDataType {
	return expr.ResultDataType
}

func (expr *CaseExpr) IsLiteral() bool { return false }

// QuantifiedExpr is X Op ANY|SOME|ALL (VALUES ...) over a single column of
// values. ValuesType is the type the VALUES column was materialized with.
type QuantifiedExpr struct {
	X          Expr
	Op         Token
	Quantifier Token
	Values     []Expr

	ValuesType ExprDataType
	// Impl is the implementation tag of the comparison.
	Impl string
}

func (expr *QuantifiedExpr) String() string {
	rows := make([]string, len(expr.Values))
	for i, v := range expr.Values {
		rows[i] = "(" + v.String() + ")"
	}
	return fmt.Sprintf("%s %s %s (VALUES %s)", expr.X.String(), expr.Op.String(), expr.Quantifier.String(), strings.Join(rows, ", "))
}

func (expr *QuantifiedExpr) DataType() ExprDataType {
	return NewDataTypeBool()
}

func (expr *QuantifiedExpr) IsLiteral() bool { return false }

func exprListString(exprs []Expr) string {
	s := make([]string, len(exprs))
	for i, e := range exprs {
		s[i] = e.String()
	}
	return strings.Join(s, ", ")
}

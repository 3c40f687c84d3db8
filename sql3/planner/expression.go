// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/JohnCGriffin/overflow"
	"github.com/featurebasedb/sqltype/decimal"
	"github.com/featurebasedb/sqltype/errors"
	"github.com/featurebasedb/sqltype/sql3"
	"github.com/featurebasedb/sqltype/sql3/parser"
	"github.com/featurebasedb/sqltype/sql3/planner/types"
)

// conversionFunc converts a non-NULL value to targetType.
type conversionFunc func(value interface{}, targetType parser.ExprDataType) (interface{}, error)

// conversions maps a conversion tag to its implementation.
var conversions = map[string]conversionFunc{
	"i32toi64": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		i, err := int32Value(v)
		return int64(i), err
	},
	"i64toi32": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		i, err := int64Value(v)
		if err != nil {
			return nil, err
		}
		return int64ToInt32(i)
	},
	"i32todec": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		i, err := int32Value(v)
		return decimal.FromInt64(int64(i)), err
	},
	"i64todec": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		i, err := int64Value(v)
		return decimal.FromInt64(i), err
	},
	"i32tof64": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		i, err := int32Value(v)
		return float64(i), err
	},
	"i64tof64": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		i, err := int64Value(v)
		return float64(i), err
	},
	// the mantissa only; the scale is divided out by the enclosing expression
	"dectof64": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		d, err := decimalValue(v)
		return float64(d.Value), err
	},
	"dectoi32": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		d, err := decimalValue(v)
		if err != nil {
			return nil, err
		}
		r, err := d.Round(0)
		if err != nil {
			return nil, mapDecimalError(err, parser.BaseTypeInt32)
		}
		return int64ToInt32(r.Value)
	},
	"dectoi64": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		d, err := decimalValue(v)
		if err != nil {
			return nil, err
		}
		r, err := d.Round(0)
		if err != nil {
			return nil, mapDecimalError(err, parser.BaseTypeInt64)
		}
		return r.Value, nil
	},
	"decrescale": func(v interface{}, t parser.ExprDataType) (interface{}, error) {
		d, err := decimalValue(v)
		if err != nil {
			return nil, err
		}
		r, err := d.Round(t.(*parser.DataTypeDecimal).Scale)
		if err != nil {
			return nil, mapDecimalError(err, t.TypeDescription())
		}
		return r, nil
	},
	"f64toi32": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		f, err := float64Value(v)
		if err != nil {
			return nil, err
		}
		f = math.Round(f)
		if math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 {
			return nil, sql3.NewErrNumericOutOfRange(parser.BaseTypeInt32)
		}
		return int32(f), nil
	},
	"f64toi64": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		f, err := float64Value(v)
		if err != nil {
			return nil, err
		}
		f = math.Round(f)
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, sql3.NewErrNumericOutOfRange(parser.BaseTypeInt64)
		}
		return int64(f), nil
	},
	"f64todec": func(v interface{}, t parser.ExprDataType) (interface{}, error) {
		f, err := float64Value(v)
		if err != nil {
			return nil, err
		}
		d, err := decimal.FromFloat64(f, t.(*parser.DataTypeDecimal).Scale)
		if err != nil {
			return nil, mapDecimalError(err, t.TypeDescription())
		}
		return d, nil
	},
	"i32tostr": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		i, err := int32Value(v)
		return strconv.FormatInt(int64(i), 10), err
	},
	"i64tostr": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		i, err := int64Value(v)
		return strconv.FormatInt(i, 10), err
	},
	"dectostr": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		d, err := decimalValue(v)
		return d.String(), err
	},
	"f64tostr": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		f, err := float64Value(v)
		return strconv.FormatFloat(f, 'g', -1, 64), err
	},
	"booltostr": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		b, err := boolValue(v)
		return strconv.FormatBool(b), err
	},
	"strtoi32":  stringToValue,
	"strtoi64":  stringToValue,
	"strtodec":  stringToValue,
	"strtof64":  stringToValue,
	"strtobool": stringToValue,
	"booltoi32": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		b, err := boolValue(v)
		if b {
			return int32(1), err
		}
		return int32(0), err
	},
	"i32tobool": func(v interface{}, _ parser.ExprDataType) (interface{}, error) {
		i, err := int32Value(v)
		return i != 0, err
	},
}

// stringToValue parses a string the same way a string literal is parsed
// when it is coerced, rounding decimals as an explicit cast does.
func stringToValue(v interface{}, targetType parser.ExprDataType) (interface{}, error) {
	s, ok := v.(string)
	if !ok {
		return nil, sql3.NewErrInternalf("unexpected value type '%T'", v)
	}
	lit, err := literalFromString(s, targetType, false)
	if err != nil {
		return nil, err
	}
	constant, err := compileLiteral(lit)
	if err != nil {
		return nil, err
	}
	return constant.Evaluate(nil)
}

// ParseValue converts text to a value of typ the way a cast from string does.
func ParseValue(text string, typ parser.ExprDataType) (interface{}, error) {
	if typeIsString(typ) {
		return text, nil
	}
	return coerceValue("strto"+typeMnemonic(typ), typ, text)
}

// coerceValue applies the conversion named fn to value. NULL converts to
// NULL.
func coerceValue(fn string, targetType parser.ExprDataType, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	conv, ok := conversions[fn]
	if !ok {
		return nil, sql3.NewErrInternalf("unknown conversion '%s'", fn)
	}
	return conv(value, targetType)
}

func int32Value(v interface{}) (int32, error) {
	i, ok := v.(int32)
	if !ok {
		return 0, sql3.NewErrInternalf("unexpected value type '%T'", v)
	}
	return i, nil
}

func int64Value(v interface{}) (int64, error) {
	i, ok := v.(int64)
	if !ok {
		return 0, sql3.NewErrInternalf("unexpected value type '%T'", v)
	}
	return i, nil
}

func decimalValue(v interface{}) (decimal.Decimal, error) {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return decimal.Decimal{}, sql3.NewErrInternalf("unexpected value type '%T'", v)
	}
	return d, nil
}

func float64Value(v interface{}) (float64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, sql3.NewErrInternalf("unexpected value type '%T'", v)
	}
	return f, nil
}

func boolValue(v interface{}) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, sql3.NewErrInternalf("unexpected value type '%T'", v)
	}
	return b, nil
}

func int64ToInt32(i int64) (interface{}, error) {
	if i < math.MinInt32 || i > math.MaxInt32 {
		return nil, sql3.NewErrNumericOutOfRange(parser.BaseTypeInt32)
	}
	return int32(i), nil
}

// mapDecimalError turns an error from the decimal package into the
// corresponding evaluation error.
func mapDecimalError(err error, typeName string) error {
	switch {
	case errors.Is(err, decimal.ErrDivisionByZero):
		return sql3.NewErrDivisionByZero()
	case errors.Is(err, decimal.ErrOverflow), errors.Is(err, decimal.ErrInvalidScale), errors.Is(err, decimal.ErrInexact):
		return sql3.NewErrNumericOutOfRange(typeName)
	default:
		return err
	}
}

// compareValues compares two non-NULL values of the same type and returns
// -1, 0 or +1.
func compareValues(lhs, rhs interface{}) (int, error) {
	switch l := lhs.(type) {
	case int32:
		if r, ok := rhs.(int32); ok {
			return compareOrdered(l, r), nil
		}
	case int64:
		if r, ok := rhs.(int64); ok {
			return compareOrdered(l, r), nil
		}
	case float64:
		if r, ok := rhs.(float64); ok {
			return compareOrdered(l, r), nil
		}
	case string:
		if r, ok := rhs.(string); ok {
			return strings.Compare(l, r), nil
		}
	case decimal.Decimal:
		if r, ok := rhs.(decimal.Decimal); ok {
			return l.Cmp(r), nil
		}
	case bool:
		if r, ok := rhs.(bool); ok {
			switch {
			case l == r:
				return 0, nil
			case !l:
				return -1, nil
			default:
				return 1, nil
			}
		}
	}
	return 0, sql3.NewErrInternalf("unexpected incompatible types '%T', '%T'", lhs, rhs)
}

func compareOrdered[T int32 | int64 | float64](l, r T) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func comparisonResult(op parser.Token, c int) (bool, error) {
	switch op {
	case parser.EQ:
		return c == 0, nil
	case parser.NE:
		return c != 0, nil
	case parser.LT:
		return c < 0, nil
	case parser.LE:
		return c <= 0, nil
	case parser.GT:
		return c > 0, nil
	case parser.GE:
		return c >= 0, nil
	default:
		return false, sql3.NewErrInternalf("unhandled operator %s", op)
	}
}

// arithmetic applies an arithmetic operator to two non-NULL values of the
// same type. For decimals the result is expressed at the scale of
// resultType.
func arithmetic(op parser.Token, lhs, rhs interface{}, resultType parser.ExprDataType) (interface{}, error) {
	typeName := resultType.TypeDescription()
	outOfRange := func() (interface{}, error) {
		return nil, sql3.NewErrNumericOutOfRange(typeName)
	}

	switch l := lhs.(type) {
	case int32:
		r, err := int32Value(rhs)
		if err != nil {
			return nil, err
		}
		var v int32
		var ok bool
		switch op {
		case parser.PLUS:
			v, ok = overflow.Add32(l, r)
		case parser.MINUS:
			v, ok = overflow.Sub32(l, r)
		case parser.STAR:
			v, ok = overflow.Mul32(l, r)
		case parser.SLASH:
			if r == 0 {
				return nil, sql3.NewErrDivisionByZero()
			}
			v, ok = overflow.Div32(l, r)
		case parser.REM:
			if r == 0 {
				return nil, sql3.NewErrDivisionByZero()
			}
			v, ok = l%r, true
		default:
			return nil, sql3.NewErrInternalf("unhandled operator %s", op)
		}
		if !ok {
			return outOfRange()
		}
		return v, nil

	case int64:
		r, err := int64Value(rhs)
		if err != nil {
			return nil, err
		}
		var v int64
		var ok bool
		switch op {
		case parser.PLUS:
			v, ok = overflow.Add64(l, r)
		case parser.MINUS:
			v, ok = overflow.Sub64(l, r)
		case parser.STAR:
			v, ok = overflow.Mul64(l, r)
		case parser.SLASH:
			if r == 0 {
				return nil, sql3.NewErrDivisionByZero()
			}
			v, ok = overflow.Div64(l, r)
		case parser.REM:
			if r == 0 {
				return nil, sql3.NewErrDivisionByZero()
			}
			v, ok = l%r, true
		default:
			return nil, sql3.NewErrInternalf("unhandled operator %s", op)
		}
		if !ok {
			return outOfRange()
		}
		return v, nil

	case float64:
		r, err := float64Value(rhs)
		if err != nil {
			return nil, err
		}
		var v float64
		switch op {
		case parser.PLUS:
			v = l + r
		case parser.MINUS:
			v = l - r
		case parser.STAR:
			v = l * r
		case parser.SLASH:
			if r == 0 {
				return nil, sql3.NewErrDivisionByZero()
			}
			v = l / r
		case parser.REM:
			if r == 0 {
				return nil, sql3.NewErrDivisionByZero()
			}
			v = math.Mod(l, r)
		default:
			return nil, sql3.NewErrInternalf("unhandled operator %s", op)
		}
		if math.IsInf(v, 0) {
			return outOfRange()
		}
		return v, nil

	case decimal.Decimal:
		r, err := decimalValue(rhs)
		if err != nil {
			return nil, err
		}
		var v decimal.Decimal
		switch op {
		case parser.PLUS:
			v, err = l.Add(r)
		case parser.MINUS:
			v, err = l.Sub(r)
		case parser.STAR:
			v, err = l.Mul(r)
		case parser.SLASH:
			v, err = l.Div(r)
		case parser.REM:
			v, err = l.Rem(r)
		default:
			return nil, sql3.NewErrInternalf("unhandled operator %s", op)
		}
		if err != nil {
			return nil, mapDecimalError(err, typeName)
		}
		if dt, ok := resultType.(*parser.DataTypeDecimal); ok && dt.Scale != v.Scale {
			if v, err = v.Round(dt.Scale); err != nil {
				return nil, mapDecimalError(err, typeName)
			}
		}
		return v, nil
	}
	return nil, sql3.NewErrInternalf("unexpected incompatible types '%T', '%T'", lhs, rhs)
}

// unaryOpPlanExpression is a unary op
type unaryOpPlanExpression struct {
	op   parser.Token
	rhs  types.PlanExpression
	impl string

	resultDataType parser.ExprDataType
}

func newUnaryOpPlanExpression(op parser.Token, rhs types.PlanExpression, impl string, dataType parser.ExprDataType) *unaryOpPlanExpression {
	return &unaryOpPlanExpression{
		op:             op,
		rhs:            rhs,
		impl:           impl,
		resultDataType: dataType,
	}
}

func (n *unaryOpPlanExpression) Evaluate(currentRow []interface{}) (interface{}, error) {
	evalRhs, err := n.rhs.Evaluate(currentRow)
	if err != nil {
		return nil, err
	}
	if evalRhs == nil {
		return nil, nil
	}
	switch n.op {
	case parser.NOT:
		b, err := boolValue(evalRhs)
		if err != nil {
			return nil, err
		}
		return !b, nil
	case parser.MINUS:
		return n.minusWithTypeCheck(evalRhs)
	default:
		return nil, sql3.NewErrInternalf("unhandled operator %s", n.op)
	}
}

func (n *unaryOpPlanExpression) Type() parser.ExprDataType {
	return n.resultDataType
}

func (n *unaryOpPlanExpression) String() string {
	if n.op == parser.NOT {
		return fmt.Sprintf("NOT %s", n.rhs.String())
	}
	return fmt.Sprintf("%s%s", n.op.String(), n.rhs.String())
}

func (n *unaryOpPlanExpression) Plan() map[string]interface{} {
	result := make(map[string]interface{})
	result["_expr"] = fmt.Sprintf("%T", n)
	result["dataType"] = n.Type().TypeDescription()
	result["op"] = n.op.String()
	result["impl"] = n.impl
	result["rhs"] = n.rhs.Plan()
	return result
}

func (n *unaryOpPlanExpression) Children() []types.PlanExpression {
	return []types.PlanExpression{
		n.rhs,
	}
}

func (n *unaryOpPlanExpression) WithChildren(children ...types.PlanExpression) (types.PlanExpression, error) {
	if len(children) != 1 {
		return nil, sql3.NewErrInternalf("unexpected number of children '%d'", len(children))
	}
	return newUnaryOpPlanExpression(n.op, children[0], n.impl, n.resultDataType), nil
}

func (n *unaryOpPlanExpression) minusWithTypeCheck(rhs interface{}) (interface{}, error) {
	switch v := rhs.(type) {
	case int32:
		if v == math.MinInt32 {
			return nil, sql3.NewErrNumericOutOfRange(parser.BaseTypeInt32)
		}
		return -v, nil
	case int64:
		if v == math.MinInt64 {
			return nil, sql3.NewErrNumericOutOfRange(parser.BaseTypeInt64)
		}
		return -v, nil
	case float64:
		return -v, nil
	case decimal.Decimal:
		d, err := v.Neg()
		if err != nil {
			return nil, mapDecimalError(err, n.resultDataType.TypeDescription())
		}
		return d, nil
	default:
		return nil, sql3.NewErrInternalf("unexpected type '%T'", rhs)
	}
}

// binOpPlanExpression is a binary op
type binOpPlanExpression struct {
	lhs  types.PlanExpression
	op   parser.Token
	rhs  types.PlanExpression
	impl string

	resultDataType parser.ExprDataType
}

func newBinOpPlanExpression(lhs types.PlanExpression, op parser.Token, rhs types.PlanExpression, impl string, dataType parser.ExprDataType) *binOpPlanExpression {
	return &binOpPlanExpression{
		lhs:            lhs,
		op:             op,
		rhs:            rhs,
		impl:           impl,
		resultDataType: dataType,
	}
}

func (n *binOpPlanExpression) Evaluate(currentRow []interface{}) (interface{}, error) {
	evalLhs, err := n.lhs.Evaluate(currentRow)
	if err != nil {
		return nil, err
	}
	evalRhs, err := n.rhs.Evaluate(currentRow)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case parser.AND, parser.OR:
		return n.evaluateLogical(evalLhs, evalRhs)
	}

	//if either side is nil, return nil
	if evalLhs == nil || evalRhs == nil {
		return nil, nil
	}

	switch n.op {
	case parser.EQ, parser.NE, parser.LT, parser.LE, parser.GT, parser.GE:
		c, err := compareValues(evalLhs, evalRhs)
		if err != nil {
			return nil, err
		}
		return comparisonResult(n.op, c)

	case parser.PLUS, parser.MINUS, parser.STAR, parser.SLASH, parser.REM:
		return arithmetic(n.op, evalLhs, evalRhs, n.resultDataType)

	case parser.CONCAT:
		nl, nlok := evalLhs.(string)
		nr, nrok := evalRhs.(string)
		if nlok && nrok {
			return nl + nr, nil
		}
		return nil, sql3.NewErrInternalf("unexpected type conversion error '%t', '%t'", nlok, nrok)

	default:
		return nil, sql3.NewErrInternalf("unhandled operator %s", n.op)
	}
}

// evaluateLogical implements three-valued AND and OR: a NULL operand only
// yields NULL when the other operand does not decide the result.
func (n *binOpPlanExpression) evaluateLogical(lhs, rhs interface{}) (interface{}, error) {
	var l, r *bool
	if lhs != nil {
		b, err := boolValue(lhs)
		if err != nil {
			return nil, err
		}
		l = &b
	}
	if rhs != nil {
		b, err := boolValue(rhs)
		if err != nil {
			return nil, err
		}
		r = &b
	}

	decider := n.op == parser.OR
	switch {
	case (l != nil && *l == decider) || (r != nil && *r == decider):
		return decider, nil
	case l == nil || r == nil:
		return nil, nil
	default:
		return !decider, nil
	}
}

func (n *binOpPlanExpression) Type() parser.ExprDataType {
	return n.resultDataType
}

func (n *binOpPlanExpression) String() string {
	return fmt.Sprintf("%s %s %s", n.operandString(n.lhs, false), n.op.String(), n.operandString(n.rhs, true))
}

func (n *binOpPlanExpression) operandString(operand types.PlanExpression, right bool) string {
	if b, ok := operand.(*binOpPlanExpression); ok && parser.OperandNeedsParens(b.op, n.op, right) {
		return "(" + b.String() + ")"
	}
	return operand.String()
}

func (n *binOpPlanExpression) Plan() map[string]interface{} {
	result := make(map[string]interface{})
	result["_expr"] = fmt.Sprintf("%T", n)
	result["dataType"] = n.Type().TypeDescription()
	result["op"] = n.op.String()
	result["impl"] = n.impl
	result["lhs"] = n.lhs.Plan()
	result["rhs"] = n.rhs.Plan()
	return result
}

func (n *binOpPlanExpression) Children() []types.PlanExpression {
	return []types.PlanExpression{
		n.lhs,
		n.rhs,
	}
}

func (n *binOpPlanExpression) WithChildren(children ...types.PlanExpression) (types.PlanExpression, error) {
	if len(children) != 2 {
		return nil, sql3.NewErrInternalf("unexpected number of children '%d'", len(children))
	}
	return newBinOpPlanExpression(children[0], n.op, children[1], n.impl, n.resultDataType), nil
}

// convertPlanExpression is a conversion inserted by resolution
type convertPlanExpression struct {
	fn       string
	expr     types.PlanExpression
	dataType parser.ExprDataType
}

func newConvertPlanExpression(fn string, expr types.PlanExpression, dataType parser.ExprDataType) *convertPlanExpression {
	return &convertPlanExpression{
		fn:       fn,
		expr:     expr,
		dataType: dataType,
	}
}

func (n *convertPlanExpression) Evaluate(currentRow []interface{}) (interface{}, error) {
	eval, err := n.expr.Evaluate(currentRow)
	if err != nil {
		return nil, err
	}
	return coerceValue(n.fn, n.dataType, eval)
}

func (n *convertPlanExpression) Type() parser.ExprDataType {
	return n.dataType
}

func (n *convertPlanExpression) String() string {
	return fmt.Sprintf("%s(%s)", n.fn, n.expr.String())
}

func (n *convertPlanExpression) Plan() map[string]interface{} {
	result := make(map[string]interface{})
	result["_expr"] = fmt.Sprintf("%T", n)
	result["dataType"] = n.Type().TypeDescription()
	result["func"] = n.fn
	result["expr"] = n.expr.Plan()
	return result
}

func (n *convertPlanExpression) Children() []types.PlanExpression {
	return []types.PlanExpression{
		n.expr,
	}
}

func (n *convertPlanExpression) WithChildren(children ...types.PlanExpression) (types.PlanExpression, error) {
	if len(children) != 1 {
		return nil, sql3.NewErrInternalf("unexpected number of children '%d'", len(children))
	}
	return newConvertPlanExpression(n.fn, children[0], n.dataType), nil
}

// castPlanExpression is an explicit cast; its operand has already been
// converted to the target type
type castPlanExpression struct {
	lhs        types.PlanExpression
	targetType parser.ExprDataType
}

func newCastPlanExpression(lhs types.PlanExpression, targetType parser.ExprDataType) *castPlanExpression {
	return &castPlanExpression{
		lhs:        lhs,
		targetType: targetType,
	}
}

func (n *castPlanExpression) Evaluate(currentRow []interface{}) (interface{}, error) {
	return n.lhs.Evaluate(currentRow)
}

func (n *castPlanExpression) Type() parser.ExprDataType {
	return n.targetType
}

func (n *castPlanExpression) String() string {
	return fmt.Sprintf("cast(%s as %s)", n.lhs.String(), n.targetType.TypeDescription())
}

func (n *castPlanExpression) Plan() map[string]interface{} {
	result := make(map[string]interface{})
	result["_expr"] = fmt.Sprintf("%T", n)
	result["dataType"] = n.Type().TypeDescription()
	result["lhs"] = n.lhs.Plan()
	return result
}

func (n *castPlanExpression) Children() []types.PlanExpression {
	return []types.PlanExpression{
		n.lhs,
	}
}

func (n *castPlanExpression) WithChildren(children ...types.PlanExpression) (types.PlanExpression, error) {
	if len(children) != 1 {
		return nil, sql3.NewErrInternalf("unexpected number of children '%d'", len(children))
	}
	return newCastPlanExpression(children[0], n.targetType), nil
}

// isNullPlanExpression is IS [NOT] NULL
type isNullPlanExpression struct {
	expr types.PlanExpression
	not  bool
}

func newIsNullPlanExpression(expr types.PlanExpression, not bool) *isNullPlanExpression {
	return &isNullPlanExpression{
		expr: expr,
		not:  not,
	}
}

func (n *isNullPlanExpression) Evaluate(currentRow []interface{}) (interface{}, error) {
	eval, err := n.expr.Evaluate(currentRow)
	if err != nil {
		return nil, err
	}
	isNull := eval == nil
	if n.not {
		isNull = !isNull
	}
	return isNull, nil
}

func (n *isNullPlanExpression) Type() parser.ExprDataType {
	return parser.NewDataTypeBool()
}

func (n *isNullPlanExpression) String() string {
	if n.not {
		return fmt.Sprintf("%s IS NOT NULL", n.expr.String())
	}
	return fmt.Sprintf("%s IS NULL", n.expr.String())
}

func (n *isNullPlanExpression) Plan() map[string]interface{} {
	result := make(map[string]interface{})
	result["_expr"] = fmt.Sprintf("%T", n)
	result["dataType"] = n.Type().TypeDescription()
	result["not"] = n.not
	result["expr"] = n.expr.Plan()
	return result
}

func (n *isNullPlanExpression) Children() []types.PlanExpression {
	return []types.PlanExpression{
		n.expr,
	}
}

func (n *isNullPlanExpression) WithChildren(children ...types.PlanExpression) (types.PlanExpression, error) {
	if len(children) != 1 {
		return nil, sql3.NewErrInternalf("unexpected number of children '%d'", len(children))
	}
	return newIsNullPlanExpression(children[0], n.not), nil
}

// coalescePlanExpression returns its first non-null argument
type coalescePlanExpression struct {
	args     []types.PlanExpression
	dataType parser.ExprDataType
}

func newCoalescePlanExpression(args []types.PlanExpression, dataType parser.ExprDataType) *coalescePlanExpression {
	return &coalescePlanExpression{
		args:     args,
		dataType: dataType,
	}
}

func (n *coalescePlanExpression) Evaluate(currentRow []interface{}) (interface{}, error) {
	for _, arg := range n.args {
		eval, err := arg.Evaluate(currentRow)
		if err != nil {
			return nil, err
		}
		if eval != nil {
			return eval, nil
		}
	}
	return nil, nil
}

func (n *coalescePlanExpression) Type() parser.ExprDataType {
	return n.dataType
}

func (n *coalescePlanExpression) String() string {
	args := make([]string, len(n.args))
	for i, arg := range n.args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("coalesce(%s)", strings.Join(args, ", "))
}

func (n *coalescePlanExpression) Plan() map[string]interface{} {
	result := make(map[string]interface{})
	result["_expr"] = fmt.Sprintf("%T", n)
	result["dataType"] = n.Type().TypeDescription()
	ps := make([]interface{}, 0)
	for _, e := range n.args {
		ps = append(ps, e.Plan())
	}
	result["args"] = ps
	return result
}

func (n *coalescePlanExpression) Children() []types.PlanExpression {
	return n.args
}

func (n *coalescePlanExpression) WithChildren(children ...types.PlanExpression) (types.PlanExpression, error) {
	if len(children) != len(n.args) {
		return nil, sql3.NewErrInternalf("unexpected number of children '%d'", len(children))
	}
	return newCoalescePlanExpression(children, n.dataType), nil
}

// casePlanExpression is a searched case
type casePlanExpression struct {
	blocks   []types.PlanExpression
	elseExpr types.PlanExpression

	resultDataType parser.ExprDataType
}

func newCasePlanExpression(blocks []types.PlanExpression, elseExpr types.PlanExpression, dataType parser.ExprDataType) *casePlanExpression {
	return &casePlanExpression{
		blocks:         blocks,
		elseExpr:       elseExpr,
		resultDataType: dataType,
	}
}

func (n *casePlanExpression) Evaluate(currentRow []interface{}) (interface{}, error) {
	for _, block := range n.blocks {
		caseBlock, ok := block.(*caseBlockPlanExpression)
		if !ok {
			return nil, sql3.NewErrInternalf("unexpected block type '%T'", block)
		}
		evalCondition, err := caseBlock.condition.Evaluate(currentRow)
		if err != nil {
			return nil, err
		}
		if matched, ok := evalCondition.(bool); ok && matched {
			return caseBlock.body.Evaluate(currentRow)
		}
	}
	if n.elseExpr != nil {
		return n.elseExpr.Evaluate(currentRow)
	}
	return nil, nil
}

func (n *casePlanExpression) Type() parser.ExprDataType {
	return n.resultDataType
}

func (n *casePlanExpression) String() string {
	result := "case"
	for _, blk := range n.blocks {
		result += fmt.Sprintf(" %s", blk.String())
	}
	if n.elseExpr != nil {
		result += fmt.Sprintf(" else %s end", n.elseExpr)
	} else {
		result += " end"
	}
	return result
}

func (n *casePlanExpression) Plan() map[string]interface{} {
	result := make(map[string]interface{})
	result["_expr"] = fmt.Sprintf("%T", n)
	result["dataType"] = n.Type().TypeDescription()
	if n.elseExpr != nil {
		result["elseExpr"] = n.elseExpr.Plan()
	}
	ps := make([]interface{}, 0)
	for _, e := range n.blocks {
		ps = append(ps, e.Plan())
	}
	result["blocks"] = ps
	return result
}

func (n *casePlanExpression) Children() []types.PlanExpression {
	result := make([]types.PlanExpression, 0, len(n.blocks)+1)
	result = append(result, n.blocks...)
	if n.elseExpr != nil {
		result = append(result, n.elseExpr)
	}
	return result
}

func (n *casePlanExpression) WithChildren(children ...types.PlanExpression) (types.PlanExpression, error) {
	currentLen := len(n.blocks)
	if n.elseExpr != nil {
		currentLen += 1
	}
	if len(children) != currentLen {
		return nil, sql3.NewErrInternalf("unexpected number of children '%d'", len(children))
	}

	newBlocks := make([]types.PlanExpression, len(n.blocks))
	copy(newBlocks, children[:len(n.blocks)])

	var newElseExpr types.PlanExpression
	if n.elseExpr != nil {
		newElseExpr = children[len(n.blocks)]
	}
	return newCasePlanExpression(newBlocks, newElseExpr, n.resultDataType), nil
}

// caseBlockPlanExpression is for case blocks
type caseBlockPlanExpression struct {
	condition types.PlanExpression
	body      types.PlanExpression
}

func newCaseBlockPlanExpression(condition types.PlanExpression, body types.PlanExpression) *caseBlockPlanExpression {
	return &caseBlockPlanExpression{
		condition: condition,
		body:      body,
	}
}

func (n *caseBlockPlanExpression) Evaluate(currentRow []interface{}) (interface{}, error) {
	return nil, nil
}

func (n *caseBlockPlanExpression) Type() parser.ExprDataType {
	return n.body.Type()
}

func (n *caseBlockPlanExpression) String() string {
	return fmt.Sprintf("when %s then %s", n.condition.String(), n.body.String())
}

func (n *caseBlockPlanExpression) Plan() map[string]interface{} {
	result := make(map[string]interface{})
	result["_expr"] = fmt.Sprintf("%T", n)
	result["dataType"] = n.Type().TypeDescription()
	result["condition"] = n.condition.Plan()
	result["body"] = n.body.Plan()
	return result
}

func (n *caseBlockPlanExpression) Children() []types.PlanExpression {
	return []types.PlanExpression{
		n.condition,
		n.body,
	}
}

func (n *caseBlockPlanExpression) WithChildren(children ...types.PlanExpression) (types.PlanExpression, error) {
	if len(children) != 2 {
		return nil, sql3.NewErrInternalf("unexpected number of children '%d'", len(children))
	}
	return newCaseBlockPlanExpression(children[0], children[1]), nil
}

// quantifiedPlanExpression compares lhs against every value in a single
// column VALUES list
type quantifiedPlanExpression struct {
	lhs        types.PlanExpression
	op         parser.Token
	quantifier parser.Token
	values     []types.PlanExpression
	impl       string
}

func newQuantifiedPlanExpression(lhs types.PlanExpression, op parser.Token, quantifier parser.Token, values []types.PlanExpression, impl string) *quantifiedPlanExpression {
	return &quantifiedPlanExpression{
		lhs:        lhs,
		op:         op,
		quantifier: quantifier,
		values:     values,
		impl:       impl,
	}
}

// Evaluate returns true for ANY when some comparison is true and for ALL when
// every comparison is; otherwise a NULL comparison makes the result NULL.
func (n *quantifiedPlanExpression) Evaluate(currentRow []interface{}) (interface{}, error) {
	evalLhs, err := n.lhs.Evaluate(currentRow)
	if err != nil {
		return nil, err
	}

	all := n.quantifier == parser.ALL
	sawNull := false
	for _, v := range n.values {
		evalValue, err := v.Evaluate(currentRow)
		if err != nil {
			return nil, err
		}
		if evalLhs == nil || evalValue == nil {
			sawNull = true
			continue
		}
		c, err := compareValues(evalLhs, evalValue)
		if err != nil {
			return nil, err
		}
		matched, err := comparisonResult(n.op, c)
		if err != nil {
			return nil, err
		}
		if matched != all {
			return matched, nil
		}
	}
	if sawNull {
		return nil, nil
	}
	return all, nil
}

func (n *quantifiedPlanExpression) Type() parser.ExprDataType {
	return parser.NewDataTypeBool()
}

func (n *quantifiedPlanExpression) String() string {
	values := make([]string, len(n.values))
	for i, v := range n.values {
		values[i] = "(" + v.String() + ")"
	}
	return fmt.Sprintf("%s %s %s (VALUES %s)", n.lhs.String(), n.op.String(), n.quantifier.String(), strings.Join(values, ", "))
}

func (n *quantifiedPlanExpression) Plan() map[string]interface{} {
	result := make(map[string]interface{})
	result["_expr"] = fmt.Sprintf("%T", n)
	result["dataType"] = n.Type().TypeDescription()
	result["op"] = n.op.String()
	result["quantifier"] = n.quantifier.String()
	result["impl"] = n.impl
	result["lhs"] = n.lhs.Plan()
	ps := make([]interface{}, 0)
	for _, e := range n.values {
		ps = append(ps, e.Plan())
	}
	result["values"] = ps
	return result
}

func (n *quantifiedPlanExpression) Children() []types.PlanExpression {
	return append([]types.PlanExpression{n.lhs}, n.values...)
}

func (n *quantifiedPlanExpression) WithChildren(children ...types.PlanExpression) (types.PlanExpression, error) {
	if len(children) != len(n.values)+1 {
		return nil, sql3.NewErrInternalf("unexpected number of children '%d'", len(children))
	}
	return newQuantifiedPlanExpression(children[0], n.op, n.quantifier, children[1:], n.impl), nil
}

// callPlanExpression is a call to an inbuilt function
type callPlanExpression struct {
	name     string
	impl     string
	args     []types.PlanExpression
	dataType parser.ExprDataType
}

func newCallPlanExpression(name string, impl string, args []types.PlanExpression, dataType parser.ExprDataType) *callPlanExpression {
	return &callPlanExpression{
		name:     name,
		impl:     impl,
		args:     args,
		dataType: dataType,
	}
}

func (n *callPlanExpression) Evaluate(currentRow []interface{}) (interface{}, error) {
	args := make([]interface{}, len(n.args))
	for i, arg := range n.args {
		eval, err := arg.Evaluate(currentRow)
		if err != nil {
			return nil, err
		}
		// every inbuilt function is strict
		if eval == nil {
			return nil, nil
		}
		args[i] = eval
	}

	switch strings.ToUpper(n.name) {
	case "ABS":
		return n.EvaluateAbs(args)
	case "MOD":
		return arithmetic(parser.REM, args[0], args[1], n.dataType)
	case "CEIL":
		return n.EvaluateFloatFunc(args, math.Ceil)
	case "FLOOR":
		return n.EvaluateFloatFunc(args, math.Floor)
	case "ROUND":
		return n.EvaluateRound(args)
	case "SQRT":
		return n.EvaluateSqrt(args)
	case "LENGTH":
		return n.EvaluateLength(args)
	case "UPPER":
		return n.EvaluateStringFunc(args, strings.ToUpper)
	case "LOWER":
		return n.EvaluateStringFunc(args, strings.ToLower)
	case "BTRIM":
		return n.EvaluateStringFunc(args, trimSpace)
	case "LTRIM":
		return n.EvaluateStringFunc(args, trimLeftSpace)
	case "RTRIM":
		return n.EvaluateStringFunc(args, trimRightSpace)
	default:
		return nil, sql3.NewErrInternalf("unhandled function name '%s'", n.name)
	}
}

func (n *callPlanExpression) Type() parser.ExprDataType {
	return n.dataType
}

func (n *callPlanExpression) String() string {
	args := ""
	for idx, arg := range n.args {
		if idx > 0 {
			args += ", "
		}
		args += arg.String()
	}
	return fmt.Sprintf("%s(%s)", n.name, args)
}

func (n *callPlanExpression) Plan() map[string]interface{} {
	result := make(map[string]interface{})
	result["_expr"] = fmt.Sprintf("%T", n)
	result["name"] = n.name
	result["impl"] = n.impl
	result["dataType"] = n.Type().TypeDescription()
	ps := make([]interface{}, 0)
	for _, e := range n.args {
		ps = append(ps, e.Plan())
	}
	result["args"] = ps
	return result
}

func (n *callPlanExpression) Children() []types.PlanExpression {
	return n.args
}

func (n *callPlanExpression) WithChildren(children ...types.PlanExpression) (types.PlanExpression, error) {
	if len(children) != len(n.args) {
		return nil, sql3.NewErrInternalf("unexpected number of children '%d'", len(children))
	}
	return newCallPlanExpression(n.name, n.impl, children, n.dataType), nil
}

// columnRefPlanExpression is a reference to a column of the current row
type columnRefPlanExpression struct {
	columnName  string
	columnIndex int
	dataType    parser.ExprDataType
}

func newColumnRefPlanExpression(columnName string, columnIndex int, dataType parser.ExprDataType) *columnRefPlanExpression {
	return &columnRefPlanExpression{
		columnName:  columnName,
		columnIndex: columnIndex,
		dataType:    dataType,
	}
}

func (n *columnRefPlanExpression) Evaluate(currentRow []interface{}) (interface{}, error) {
	if n.columnIndex < 0 || n.columnIndex >= len(currentRow) {
		return nil, sql3.NewErrInternalf("unable to to find column '%d' in currentColumns", n.columnIndex)
	}
	return currentRow[n.columnIndex], nil
}

var _ types.IdentifiableByName = (*columnRefPlanExpression)(nil)

func (n *columnRefPlanExpression) Name() string {
	return n.columnName
}

func (n *columnRefPlanExpression) Type() parser.ExprDataType {
	return n.dataType
}

func (n *columnRefPlanExpression) String() string {
	if len(n.columnName) > 0 {
		return n.columnName
	}
	return fmt.Sprintf("#%d", n.columnIndex)
}

func (n *columnRefPlanExpression) Plan() map[string]interface{} {
	result := make(map[string]interface{})
	result["_expr"] = fmt.Sprintf("%T", n)
	result["columnName"] = n.columnName
	result["columnIndex"] = n.columnIndex
	result["dataType"] = n.dataType.TypeDescription()
	return result
}

func (n *columnRefPlanExpression) Children() []types.PlanExpression {
	return []types.PlanExpression{}
}

func (n *columnRefPlanExpression) WithChildren(children ...types.PlanExpression) (types.PlanExpression, error) {
	return n, nil
}

// constantPlanExpression is a typed constant: a literal, or NULL of a given
// type
type constantPlanExpression struct {
	value    interface{}
	dataType parser.ExprDataType
}

func newConstantPlanExpression(value interface{}, dataType parser.ExprDataType) *constantPlanExpression {
	return &constantPlanExpression{
		value:    value,
		dataType: dataType,
	}
}

func (n *constantPlanExpression) Evaluate(currentRow []interface{}) (interface{}, error) {
	return n.value, nil
}

func (n *constantPlanExpression) Type() parser.ExprDataType {
	return n.dataType
}

func (n *constantPlanExpression) String() string {
	switch v := n.value.(type) {
	case nil:
		return "null"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (n *constantPlanExpression) Plan() map[string]interface{} {
	result := make(map[string]interface{})
	result["_expr"] = fmt.Sprintf("%T", n)
	result["dataType"] = n.Type().TypeDescription()
	result["value"] = n.String()
	return result
}

func (n *constantPlanExpression) Children() []types.PlanExpression {
	return []types.PlanExpression{}
}

func (n *constantPlanExpression) WithChildren(children ...types.PlanExpression) (types.PlanExpression, error) {
	return n, nil
}

// compileLiteral returns the constant for a literal.
func compileLiteral(expr parser.Expr) (*constantPlanExpression, error) {
	switch e := expr.(type) {
	case *parser.NullLit:
		return newConstantPlanExpression(nil, e.DataType()), nil

	case *parser.IntegerLit:
		val, err := e.Int64()
		if err != nil {
			return nil, sql3.NewErrNumericOutOfRange(parser.BaseTypeInt64)
		}
		switch t := e.DataType().(type) {
		case *parser.DataTypeInt32:
			v, err := int64ToInt32(val)
			if err != nil {
				return nil, err
			}
			return newConstantPlanExpression(v, t), nil
		default:
			return newConstantPlanExpression(val, t), nil
		}

	case *parser.DecimalLit:
		d, err := e.Decimal()
		if err != nil {
			return nil, sql3.NewErrInvalidLiteralCoercion(e.DataType(), e.Value)
		}
		return newConstantPlanExpression(d, e.DataType()), nil

	case *parser.FloatLit:
		f, err := e.Float64()
		if err != nil {
			return nil, sql3.NewErrInvalidLiteralCoercion(e.DataType(), e.Value)
		}
		return newConstantPlanExpression(f, e.DataType()), nil

	case *parser.StringLit:
		return newConstantPlanExpression(e.Value, e.DataType()), nil

	case *parser.BoolLit:
		return newConstantPlanExpression(e.Value, e.DataType()), nil

	default:
		return nil, sql3.NewErrInternalf("unexpected literal type: %T", expr)
	}
}

// compileExpr returns a types.PlanExpression tree for a given, resolved,
// parser.Expr
func (p *ExecutionPlanner) compileExpr(expr parser.Expr) (_ types.PlanExpression, err error) {
	if expr == nil {
		return nil, nil
	}
	if dt := expr.DataType(); dt == nil || typeIsUnknown(dt) {
		return nil, sql3.NewErrInternalf("unresolved expression '%s'", expr)
	}

	switch expr := expr.(type) {
	case *parser.NullLit, *parser.IntegerLit, *parser.DecimalLit, *parser.FloatLit, *parser.StringLit, *parser.BoolLit:
		return compileLiteral(expr)

	case *parser.ColumnRef:
		return newColumnRefPlanExpression(expr.Name, expr.Index, expr.Type), nil

	case *parser.ParenExpr:
		return p.compileExpr(expr.X)

	case *parser.CastExpr:
		castExpr, err := p.compileExpr(expr.X)
		if err != nil {
			return nil, err
		}
		return newCastPlanExpression(castExpr, expr.Type), nil

	case *parser.ConvertExpr:
		if _, ok := conversions[expr.Func]; !ok {
			return nil, sql3.NewErrInternalf("unknown conversion '%s'", expr.Func)
		}
		x, err := p.compileExpr(expr.X)
		if err != nil {
			return nil, err
		}
		return newConvertPlanExpression(expr.Func, x, expr.Type), nil

	case *parser.UnaryExpr:
		x, err := p.compileExpr(expr.X)
		if err != nil {
			return nil, err
		}
		return newUnaryOpPlanExpression(expr.Op, x, expr.Impl, expr.ResultDataType), nil

	case *parser.BinaryExpr:
		x, err := p.compileExpr(expr.X)
		if err != nil {
			return nil, err
		}
		y, err := p.compileExpr(expr.Y)
		if err != nil {
			return nil, err
		}
		return newBinOpPlanExpression(x, expr.Op, y, expr.Impl, expr.ResultDataType), nil

	case *parser.Call:
		args, err := p.compileExprList(expr.Args)
		if err != nil {
			return nil, err
		}
		return newCallPlanExpression(expr.Name, expr.Impl, args, expr.ResultDataType), nil

	case *parser.IsNullExpr:
		x, err := p.compileExpr(expr.X)
		if err != nil {
			return nil, err
		}
		return newIsNullPlanExpression(x, expr.Not), nil

	case *parser.CoalesceExpr:
		args, err := p.compileExprList(expr.Args)
		if err != nil {
			return nil, err
		}
		return newCoalescePlanExpression(args, expr.ResultDataType), nil

	case *parser.CaseExpr:
		if expr.Operand != nil {
			return nil, sql3.NewErrInternalf("unresolved expression '%s'", expr)
		}
		blocks := []types.PlanExpression{}
		for _, b := range expr.Blocks {
			condition, err := p.compileExpr(b.Condition)
			if err != nil {
				return nil, err
			}
			body, err := p.compileExpr(b.Body)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, newCaseBlockPlanExpression(condition, body))
		}
		elseExpr, err := p.compileExpr(expr.Else)
		if err != nil {
			return nil, err
		}
		return newCasePlanExpression(blocks, elseExpr, expr.ResultDataType), nil

	case *parser.QuantifiedExpr:
		x, err := p.compileExpr(expr.X)
		if err != nil {
			return nil, err
		}
		values, err := p.compileExprList(expr.Values)
		if err != nil {
			return nil, err
		}
		return newQuantifiedPlanExpression(x, expr.Op, expr.Quantifier, values, expr.Impl), nil

	default:
		return nil, sql3.NewErrInternalf("unexpected SQL expression type: %T", expr)
	}
}

func (p *ExecutionPlanner) compileExprList(exprs []parser.Expr) ([]types.PlanExpression, error) {
	result := make([]types.PlanExpression, len(exprs))
	for i, e := range exprs {
		c, err := p.compileExpr(e)
		if err != nil {
			return nil, err
		}
		result[i] = c
	}
	return result, nil
}

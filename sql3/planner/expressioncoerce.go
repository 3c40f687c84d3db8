// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"math"
	"strconv"
	"strings"

	"github.com/featurebasedb/sqltype/decimal"
	"github.com/featurebasedb/sqltype/sql3"
	"github.com/featurebasedb/sqltype/sql3/parser"
)

// coerceExpression returns expr implicitly converted to targetType. The
// caller has already established, via coercionCost or leastUpperBound, that
// the conversion is allowed; a conversion that turns out to be lossy or
// unparseable is still an error.
func (p *ExecutionPlanner) coerceExpression(expr parser.Expr, targetType parser.ExprDataType) (parser.Expr, error) {
	sourceType := expr.DataType()
	if typesAreEqual(sourceType, targetType) {
		return expr, nil
	}

	switch e := expr.(type) {
	case *parser.ParenExpr:
		x, err := p.coerceExpression(e.X, targetType)
		if err != nil {
			return nil, err
		}
		return &parser.ParenExpr{X: x}, nil

	case *parser.NullLit:
		return &parser.NullLit{Type: targetType}, nil

	case *parser.StringLit:
		return literalFromString(e.Value, targetType, true)

	case *parser.DecimalLit:
		if targetDec, ok := targetType.(*parser.DataTypeDecimal); ok {
			d, err := e.Decimal()
			if err != nil {
				return nil, sql3.NewErrInvalidLiteralCoercion(targetType, e.Value)
			}
			d, err = d.Rescale(targetDec.Scale)
			if err != nil {
				return nil, sql3.NewErrInvalidLiteralCoercion(targetType, e.Value)
			}
			p.logger.Debugf("widened literal %s to %s", e.Value, targetType.TypeDescription())
			return parser.NewDecimalLit(d), nil
		}
	}

	converted, err := widenExpression(expr, sourceType, targetType)
	if err != nil {
		return nil, err
	}
	p.logger.Debugf("inserted conversion %s", converted)
	return converted, nil
}

// widenExpression emits the conversion nodes that move expr one or more
// steps up the numeric chain.
func widenExpression(expr parser.Expr, sourceType, targetType parser.ExprDataType) (parser.Expr, error) {
	switch src := sourceType.(type) {
	case *parser.DataTypeInt32, *parser.DataTypeInt64:
		switch tgt := targetType.(type) {
		case *parser.DataTypeInt64:
			if _, ok := src.(*parser.DataTypeInt32); ok {
				return newConvert("i32toi64", expr, targetType), nil
			}

		case *parser.DataTypeDecimal:
			return integerToDecimal(expr, sourceType, tgt)

		case *parser.DataTypeFloat64:
			return newConvert(typeMnemonic(sourceType)+"tof64", expr, targetType), nil
		}

	case *parser.DataTypeDecimal:
		if _, ok := targetType.(*parser.DataTypeFloat64); ok {
			return decimalToFloat(expr, src)
		}
	}
	return nil, sql3.NewErrInternalf("no implicit conversion from %s to %s", sourceType.TypeDescription(), targetType.TypeDescription())
}

func newConvert(fn string, x parser.Expr, typ parser.ExprDataType) *parser.ConvertExpr {
	return &parser.ConvertExpr{Func: fn, X: x, Type: typ}
}

// integerToDecimal converts an integer to a scale 0 decimal and multiplies it
// by a constant whose mantissa is 10^scale, yielding the same number at the
// target scale.
func integerToDecimal(expr parser.Expr, sourceType parser.ExprDataType, targetType *parser.DataTypeDecimal) (parser.Expr, error) {
	var converted parser.Expr = newConvert(typeMnemonic(sourceType)+"todec", expr, parser.NewDataTypeDecimal(0))
	if targetType.Scale == 0 {
		return converted, nil
	}
	factor, err := decimal.ScaleFactor(targetType.Scale)
	if err != nil {
		return nil, sql3.NewErrInternal(err.Error())
	}
	return &parser.BinaryExpr{
		X:              converted,
		Op:             parser.STAR,
		Y:              parser.NewDecimalLit(factor),
		ResultDataType: targetType,
		Impl:           "dectimesdec",
	}, nil
}

// decimalToFloat converts the mantissa of a decimal to a float and divides
// it by 10^scale.
func decimalToFloat(expr parser.Expr, sourceType *parser.DataTypeDecimal) (parser.Expr, error) {
	var converted parser.Expr = newConvert("dectof64", expr, parser.NewDataTypeFloat64())
	if sourceType.Scale == 0 {
		return converted, nil
	}
	p, err := decimal.Pow10(sourceType.Scale)
	if err != nil {
		return nil, sql3.NewErrInternal(err.Error())
	}
	return &parser.BinaryExpr{
		X:              converted,
		Op:             parser.SLASH,
		Y:              parser.NewFloatLit(float64(p)),
		ResultDataType: parser.NewDataTypeFloat64(),
		Impl:           "f64divf64",
	}, nil
}

// castExpression returns expr explicitly converted to targetType. String
// literals and NULL are folded into constants of the target type; decimal
// literals are rescaled in place; everything else gets conversion nodes.
func (p *ExecutionPlanner) castExpression(expr parser.Expr, targetType parser.ExprDataType) (parser.Expr, error) {
	sourceType := expr.DataType()
	if typesAreEqual(sourceType, targetType) {
		return expr, nil
	}
	if !typesCanBeCast(sourceType, targetType) {
		return nil, sql3.NewErrInvalidCast(sourceType.TypeDescription(), targetType.TypeDescription())
	}

	switch e := parser.Unparen(expr).(type) {
	case *parser.NullLit:
		return &parser.NullLit{Type: targetType}, nil

	case *parser.StringLit:
		return literalFromString(e.Value, targetType, false)

	case *parser.DecimalLit:
		if targetDec, ok := targetType.(*parser.DataTypeDecimal); ok {
			d, err := e.Decimal()
			if err != nil {
				return nil, sql3.NewErrInvalidLiteralCoercion(targetType, e.Value)
			}
			d, err = d.Round(targetDec.Scale)
			if err != nil {
				return nil, sql3.NewErrNumericOutOfRange(targetType.TypeDescription())
			}
			return parser.NewDecimalLit(d), nil
		}
	}

	if typeIsUnknown(sourceType) {
		return nil, sql3.NewErrInternalf("untyped expression '%s' in cast", expr)
	}

	// anything the implicit path can do, it does the same way here
	if _, ok := coercionCost(sourceType, targetType, parser.NotLiteral); ok {
		return widenExpression(expr, sourceType, targetType)
	}

	fn := typeMnemonic(sourceType) + "to" + typeMnemonic(targetType)
	if _, ok := sourceType.(*parser.DataTypeDecimal); ok {
		if _, ok := targetType.(*parser.DataTypeDecimal); ok {
			fn = "decrescale"
		}
	}
	p.logger.Debugf("inserted explicit conversion %s(%s)", fn, expr)
	return newConvert(fn, expr, targetType), nil
}

// literalFromString parses the text of a string literal as a constant of
// targetType. When exact is true a decimal whose text has more fractional
// digits than the target scale is rejected rather than rounded.
func literalFromString(text string, targetType parser.ExprDataType, exact bool) (parser.Expr, error) {
	invalid := func() (parser.Expr, error) {
		return nil, sql3.NewErrInvalidLiteralCoercion(targetType, text)
	}
	trimmed := strings.TrimSpace(text)

	switch t := targetType.(type) {
	case *parser.DataTypeString:
		return &parser.StringLit{Value: text}, nil

	case *parser.DataTypeInt32:
		v, err := strconv.ParseInt(trimmed, 10, 32)
		if err != nil {
			return invalid()
		}
		return parser.NewIntegerLit(v, t), nil

	case *parser.DataTypeInt64:
		v, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return invalid()
		}
		return parser.NewIntegerLit(v, t), nil

	case *parser.DataTypeDecimal:
		d, err := decimal.ParseDecimal(trimmed)
		if err != nil {
			return invalid()
		}
		if exact {
			d, err = d.Rescale(t.Scale)
		} else {
			d, err = d.Round(t.Scale)
		}
		if err != nil {
			return invalid()
		}
		return parser.NewDecimalLit(d), nil

	case *parser.DataTypeFloat64:
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return invalid()
		}
		return parser.NewFloatLit(f), nil

	case *parser.DataTypeBool:
		b, ok := parseBool(trimmed)
		if !ok {
			return invalid()
		}
		return &parser.BoolLit{Value: b}, nil
	}
	return invalid()
}

// parseBool accepts the spellings of a boolean a SQL string may use.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "t", "yes", "y", "on", "1":
		return true, true
	case "false", "f", "no", "n", "off", "0":
		return false, true
	}
	return false, false
}

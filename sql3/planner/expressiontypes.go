// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"github.com/featurebasedb/sqltype/sql3/parser"
)

// coercion costs. Costs only order candidates against each other; they never
// make an edge exist. Each step up the numeric chain costs costRankStep, which
// is larger than any sum of decimal scale costs, so a scale never outweighs a
// step.
const (
	costExact         = 0
	costRankStep      = 100
	costStringLiteral = 4 * costRankStep
)

// returns the position of a numeric type on the widening chain
// i32 -> i64 -> decimal -> float, and false for non-numeric types
func typeRank(testType parser.ExprDataType) (int, bool) {
	switch testType.(type) {
	case *parser.DataTypeInt32:
		return 0, true
	case *parser.DataTypeInt64:
		return 1, true
	case *parser.DataTypeDecimal:
		return 2, true
	case *parser.DataTypeFloat64:
		return 3, true
	default:
		return -1, false
	}
}

// returns true if the type is on the numeric chain
func typeIsNumeric(testType parser.ExprDataType) bool {
	_, ok := typeRank(testType)
	return ok
}

// returns true if the type is an integer type
func typeIsInteger(testType parser.ExprDataType) bool {
	switch testType.(type) {
	case *parser.DataTypeInt32, *parser.DataTypeInt64:
		return true
	default:
		return false
	}
}

// returns true if the type is bool
func typeIsBool(testType parser.ExprDataType) bool {
	_, ok := testType.(*parser.DataTypeBool)
	return ok
}

// returns true if the type is string
func typeIsString(testType parser.ExprDataType) bool {
	_, ok := testType.(*parser.DataTypeString)
	return ok
}

// returns true if the type is the type of an untyped NULL
func typeIsUnknown(testType parser.ExprDataType) bool {
	_, ok := testType.(*parser.DataTypeUnknown)
	return ok
}

// returns true if the two types are the same concrete type. Decimals are the
// same type only when their scales match.
func typesAreEqual(a, b parser.ExprDataType) bool {
	switch at := a.(type) {
	case *parser.DataTypeDecimal:
		bt, ok := b.(*parser.DataTypeDecimal)
		return ok && at.Scale == bt.Scale
	default:
		if a == nil || b == nil {
			return a == b
		}
		return a.BaseTypeName() == b.BaseTypeName()
	}
}

// returns the cost of implicitly converting a value of type from, whose
// literal kind is kind, to type to; and false if no implicit conversion
// exists.
//
// Typed values only move up the numeric chain, and never between decimal
// scales. Numeric literals may additionally widen their decimal scale. String
// literals may become any type their text parses as; whether it does parse is
// checked when the conversion is inserted. Untyped NULL becomes anything.
func coercionCost(from, to parser.ExprDataType, kind parser.LiteralKind) (int, bool) {
	if typesAreEqual(from, to) {
		return costExact, true
	}
	if typeIsUnknown(from) {
		return costExact, true
	}
	if typeIsUnknown(to) {
		return 0, false
	}
	if kind == parser.StringLiteral {
		return costStringLiteral, true
	}

	fromRank, ok := typeRank(from)
	if !ok {
		return 0, false
	}
	toRank, ok := typeRank(to)
	if !ok {
		return 0, false
	}

	fromDec, fromIsDec := from.(*parser.DataTypeDecimal)
	toDec, toIsDec := to.(*parser.DataTypeDecimal)
	switch {
	case fromIsDec && toIsDec:
		if kind != parser.NumericLiteral || toDec.Scale < fromDec.Scale {
			return 0, false
		}
		return int(toDec.Scale - fromDec.Scale), true

	case toIsDec:
		if toRank < fromRank {
			return 0, false
		}
		// among decimals, larger scales cost more so that an integer
		// argument prefers the smallest decimal that holds it
		return (toRank-fromRank)*costRankStep + int(toDec.Scale), true

	default:
		if toRank < fromRank {
			return 0, false
		}
		return (toRank - fromRank) * costRankStep, true
	}
}

// returns the least upper bound of two operand types for a coalescing
// operator, taking the literal kind of each operand into account; and false
// if the operands have no common type.
func (p *ExecutionPlanner) leastUpperBound(l, r parser.ExprDataType, lk, rk parser.LiteralKind) (parser.ExprDataType, bool) {
	switch {
	case typesAreEqual(l, r):
		if typeIsUnknown(l) {
			return p.nullDefaultType, true
		}
		return l, true

	case typeIsUnknown(l):
		return r, true

	case typeIsUnknown(r):
		return l, true
	}

	lRank, lNumeric := typeRank(l)
	rRank, rNumeric := typeRank(r)
	if lNumeric && rNumeric {
		lDec, lIsDec := l.(*parser.DataTypeDecimal)
		rDec, rIsDec := r.(*parser.DataTypeDecimal)
		if lIsDec && rIsDec {
			switch {
			case lk == parser.NumericLiteral && rk == parser.NumericLiteral:
				if lDec.Scale > rDec.Scale {
					return l, true
				}
				return r, true
			case lk == parser.NumericLiteral && lDec.Scale < rDec.Scale:
				return r, true
			case rk == parser.NumericLiteral && rDec.Scale < lDec.Scale:
				return l, true
			default:
				return nil, false
			}
		}
		if lRank > rRank {
			return l, true
		}
		return r, true
	}

	switch {
	case lk == parser.StringLiteral && !typeIsString(r):
		return r, true
	case rk == parser.StringLiteral && !typeIsString(l):
		return l, true
	}
	return nil, false
}

// returns the conversion tag mnemonic for a type
func typeMnemonic(typ parser.ExprDataType) string {
	switch typ.(type) {
	case *parser.DataTypeInt32:
		return "i32"
	case *parser.DataTypeInt64:
		return "i64"
	case *parser.DataTypeDecimal:
		return "dec"
	case *parser.DataTypeFloat64:
		return "f64"
	case *parser.DataTypeString:
		return "str"
	case *parser.DataTypeBool:
		return "bool"
	default:
		return "unk"
	}
}

// returns true if a value of type sourceType can be explicitly cast to
// targetType
func typesCanBeCast(sourceType parser.ExprDataType, targetType parser.ExprDataType) bool {
	if typesAreEqual(sourceType, targetType) || typeIsUnknown(sourceType) {
		return true
	}
	if typeIsNumeric(sourceType) && typeIsNumeric(targetType) {
		return true
	}

	switch sourceType.(type) {
	case *parser.DataTypeString:
		return !typeIsUnknown(targetType)

	case *parser.DataTypeBool:
		switch targetType.(type) {
		case *parser.DataTypeInt32, *parser.DataTypeString:
			return true
		}

	case *parser.DataTypeInt32:
		switch targetType.(type) {
		case *parser.DataTypeBool, *parser.DataTypeString:
			return true
		}

	case *parser.DataTypeInt64, *parser.DataTypeDecimal, *parser.DataTypeFloat64:
		return typeIsString(targetType)
	}
	return false
}

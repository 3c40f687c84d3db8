// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"math"

	"github.com/featurebasedb/sqltype/decimal"
	"github.com/featurebasedb/sqltype/sql3"
	"github.com/featurebasedb/sqltype/sql3/parser"
)

// absolute value of any numeric type
func (n *callPlanExpression) EvaluateAbs(args []interface{}) (interface{}, error) {
	switch v := args[0].(type) {
	case int32:
		if v == math.MinInt32 {
			return nil, sql3.NewErrNumericOutOfRange(parser.BaseTypeInt32)
		}
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case int64:
		if v == math.MinInt64 {
			return nil, sql3.NewErrNumericOutOfRange(parser.BaseTypeInt64)
		}
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case float64:
		return math.Abs(v), nil
	case decimal.Decimal:
		d, err := v.Abs()
		if err != nil {
			return nil, mapDecimalError(err, n.dataType.TypeDescription())
		}
		return d, nil
	default:
		return nil, sql3.NewErrInternalf("unexpected type '%T'", args[0])
	}
}

// applies fn to a single float argument
func (n *callPlanExpression) EvaluateFloatFunc(args []interface{}, fn func(float64) float64) (interface{}, error) {
	f, err := float64Value(args[0])
	if err != nil {
		return nil, err
	}
	return fn(f), nil
}

// rounds a float to the nearest integral value, or a decimal to scale 0
func (n *callPlanExpression) EvaluateRound(args []interface{}) (interface{}, error) {
	if d, ok := args[0].(decimal.Decimal); ok {
		r, err := d.Round(0)
		if err != nil {
			return nil, mapDecimalError(err, n.dataType.TypeDescription())
		}
		return r, nil
	}
	return n.EvaluateFloatFunc(args, math.Round)
}

func (n *callPlanExpression) EvaluateSqrt(args []interface{}) (interface{}, error) {
	f, err := float64Value(args[0])
	if err != nil {
		return nil, err
	}
	if f < 0 {
		return nil, sql3.NewErrNumericOutOfRange(parser.BaseTypeFloat64)
	}
	return math.Sqrt(f), nil
}

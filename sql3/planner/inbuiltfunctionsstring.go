// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"strings"
	"unicode/utf8"

	"github.com/featurebasedb/sqltype/sql3"
)

// length of the string in characters
func (n *callPlanExpression) EvaluateLength(args []interface{}) (interface{}, error) {
	s, ok := args[0].(string)
	if !ok {
		return nil, sql3.NewErrInternalf("unexpected type '%T'", args[0])
	}
	return int32(utf8.RuneCountInString(s)), nil
}

// applies fn to a single string argument
func (n *callPlanExpression) EvaluateStringFunc(args []interface{}, fn func(string) string) (interface{}, error) {
	s, ok := args[0].(string)
	if !ok {
		return nil, sql3.NewErrInternalf("unexpected type '%T'", args[0])
	}
	return fn(s), nil
}

func trimSpace(s string) string {
	return strings.Trim(s, " ")
}

func trimLeftSpace(s string) string {
	return strings.TrimLeft(s, " ")
}

func trimRightSpace(s string) string {
	return strings.TrimRight(s, " ")
}

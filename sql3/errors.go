// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package sql3

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/featurebasedb/sqltype/errors"
	"github.com/featurebasedb/sqltype/sql3/parser"
)

const (
	ErrInternal errors.Code = "ErrInternal"

	ErrUnknownType errors.Code = "ErrUnknownType"

	// resolution errors
	ErrNoOverload                errors.Code = "ErrNoOverload"
	ErrAmbiguousOverload         errors.Code = "ErrAmbiguousOverload"
	ErrInvalidLiteralCoercion    errors.Code = "ErrInvalidLiteralCoercion"
	ErrInvalidCast               errors.Code = "ErrInvalidCast"
	ErrBooleanExpressionExpected errors.Code = "ErrBooleanExpressionExpected"
	ErrTypesCannotBeMatched      errors.Code = "ErrTypesCannotBeMatched"

	// call errors
	ErrCallUnknownFunction errors.Code = "ErrCallUnknownFunction"

	// evaluation errors
	ErrDivisionByZero    errors.Code = "ErrDivisionByZero"
	ErrNumericOutOfRange errors.Code = "ErrNumericOutOfRange"

	ErrColumnNotFound errors.Code = "ErrColumnNotFound"
)

// OverloadError is returned when no catalog entry, or more than one equally
// good entry, matches an operator application. Operands holds the uncoerced
// operand type names; Candidates the signatures that tied, if any.
type OverloadError struct {
	Code       errors.Code
	Op         string
	Operands   []string
	Candidates []string
	// Prefix is true when Op is rendered before its operands, as for
	// functions and unary operators.
	Prefix bool
	// Call is true when the operands are rendered as an argument list.
	Call bool
}

func (e *OverloadError) ErrorCode() errors.Code {
	return e.Code
}

func (e *OverloadError) Error() string {
	var app string
	switch {
	case e.Call:
		app = fmt.Sprintf("%s(%s)", e.Op, strings.Join(e.Operands, ", "))
	case e.Prefix:
		app = fmt.Sprintf("%s %s", e.Op, strings.Join(e.Operands, " "))
	default:
		app = strings.Join(e.Operands, " "+e.Op+" ")
	}
	if e.Code == ErrAmbiguousOverload {
		return fmt.Sprintf("ambiguous overload for %s: candidates %s", app, strings.Join(e.Candidates, ", "))
	}
	return fmt.Sprintf("no overload for %s", app)
}

func typeNames(types []parser.ExprDataType) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.BaseTypeName()
	}
	return names
}

// NewErrNoOverload returns the error for a binary operator with no matching
// implementation, rendered as "no overload for <left> <op> <right>".
func NewErrNoOverload(op parser.Token, left, right parser.ExprDataType) error {
	return errors.WithStack(&OverloadError{
		Code:     ErrNoOverload,
		Op:       op.String(),
		Operands: typeNames([]parser.ExprDataType{left, right}),
	})
}

// NewErrNoUnaryOverload returns the error for a prefix operator with no
// matching implementation, e.g. "no overload for - bool".
func NewErrNoUnaryOverload(op parser.Token, operand parser.ExprDataType) error {
	return errors.WithStack(&OverloadError{
		Code:     ErrNoOverload,
		Op:       op.String(),
		Operands: typeNames([]parser.ExprDataType{operand}),
		Prefix:   true,
	})
}

// NewErrNoCallOverload returns the error for a function call with no
// matching implementation, e.g. "no overload for abs(string)".
func NewErrNoCallOverload(name string, args []parser.ExprDataType) error {
	return errors.WithStack(&OverloadError{
		Code:     ErrNoOverload,
		Op:       name,
		Operands: typeNames(args),
		Call:     true,
	})
}

// NewErrAmbiguousOverload returns the error for an application that more
// than one implementation matches at the same cost.
func NewErrAmbiguousOverload(op string, call bool, args []parser.ExprDataType, candidates []string) error {
	return errors.WithStack(&OverloadError{
		Code:       ErrAmbiguousOverload,
		Op:         op,
		Operands:   typeNames(args),
		Candidates: candidates,
		Prefix:     !call && len(args) == 1,
		Call:       call,
	})
}

func NewErrInvalidLiteralCoercion(typ parser.ExprDataType, text string) error {
	return errors.New(
		ErrInvalidLiteralCoercion,
		fmt.Sprintf("invalid input syntax for %s: %q", typ.BaseTypeName(), text),
	)
}

func NewErrInvalidCast(from, to string) error {
	return errors.New(
		ErrInvalidCast,
		fmt.Sprintf("cannot cast %s to %s", from, to),
	)
}

func NewErrBooleanExpressionExpected(got string) error {
	return errors.New(
		ErrBooleanExpressionExpected,
		fmt.Sprintf("boolean expression expected, got %s", got),
	)
}

func NewErrTypesCannotBeMatched(construct string, a, b parser.ExprDataType) error {
	return errors.New(
		ErrTypesCannotBeMatched,
		fmt.Sprintf("%s types %s and %s cannot be matched", construct, a.TypeDescription(), b.TypeDescription()),
	)
}

func NewErrUnknownType(typ string) error {
	return errors.New(
		ErrUnknownType,
		fmt.Sprintf("unknown type '%s'", typ),
	)
}

func NewErrCallUnknownFunction(functionName string) error {
	return errors.New(
		ErrCallUnknownFunction,
		fmt.Sprintf("unknown function '%s'", functionName),
	)
}

func NewErrColumnNotFound(columnName string) error {
	return errors.New(
		ErrColumnNotFound,
		fmt.Sprintf("column '%s' not found", columnName),
	)
}

func NewErrDivisionByZero() error {
	return errors.New(
		ErrDivisionByZero,
		"division by zero",
	)
}

func NewErrNumericOutOfRange(typeName string) error {
	return errors.New(
		ErrNumericOutOfRange,
		fmt.Sprintf("%s out of range", typeName),
	)
}

func NewErrInternal(msg string) error {
	preamble := "internal error"
	_, filename, line, ok := runtime.Caller(1)
	if ok {
		preamble = fmt.Sprintf("internal error (%s:%d)", filename, line)
	}
	errorMessage := fmt.Sprintf("%s %s", preamble, msg)
	return errors.New(
		ErrInternal,
		errorMessage,
	)
}

func NewErrInternalf(format string, a ...interface{}) error {
	preamble := "internal error"
	_, filename, line, ok := runtime.Caller(1)
	if ok {
		preamble = fmt.Sprintf("internal error (%s:%d)", filename, line)
	}
	errorMessage := fmt.Sprintf(format, a...)
	errorMessage = fmt.Sprintf("%s %s", preamble, errorMessage)
	return errors.New(
		ErrInternal,
		errorMessage,
	)
}

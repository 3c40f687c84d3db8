// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Base type names. These are also the mnemonics used when a type is named in
// an error message, e.g. "no overload for i32 < string".
const (
	BaseTypeInt32   = "i32"
	BaseTypeInt64   = "i64"
	BaseTypeDecimal = "decimal"
	BaseTypeFloat64 = "float"
	BaseTypeString  = "string"
	BaseTypeBool    = "bool"
	BaseTypeUnknown = "unknown"
)

// MaxDecimalScale is the largest scale a decimal type can have.
const MaxDecimalScale = 18

// ExprDataType is the interface for all language layer types
type ExprDataType interface {
	exprDataType()
	// the base type name e.g. i32 or decimal
	BaseTypeName() string
	// additional type information - intended to be used outside the language
	// layer (marshalled over json, or otherwise serialized so that consumers
	// have access to complete type information)
	TypeInfo() map[string]interface{}
	// the full type specification as a string - intended to be human readable
	TypeDescription() string
}

func (*DataTypeInt32) exprDataType()   {}
func (*DataTypeInt64) exprDataType()   {}
func (*DataTypeDecimal) exprDataType() {}
func (*DataTypeFloat64) exprDataType() {}
func (*DataTypeString) exprDataType()  {}
func (*DataTypeBool) exprDataType()    {}
func (*DataTypeUnknown) exprDataType() {}

type DataTypeInt32 struct {
}

func NewDataTypeInt32() *DataTypeInt32 {
	return &DataTypeInt32{}
}

func (*DataTypeInt32) BaseTypeName() string {
	return BaseTypeInt32
}

func (dt *DataTypeInt32) TypeDescription() string {
	return dt.BaseTypeName()
}

func (*DataTypeInt32) TypeInfo() map[string]interface{} {
	return nil
}

type DataTypeInt64 struct {
}

func NewDataTypeInt64() *DataTypeInt64 {
	return &DataTypeInt64{}
}

func (*DataTypeInt64) BaseTypeName() string {
	return BaseTypeInt64
}

func (dt *DataTypeInt64) TypeDescription() string {
	return dt.BaseTypeName()
}

func (*DataTypeInt64) TypeInfo() map[string]interface{} {
	return nil
}

// DataTypeDecimal is a scaled integer. Two decimal types are the same type
// only when their scales match.
type DataTypeDecimal struct {
	Scale int64
}

func NewDataTypeDecimal(scale int64) *DataTypeDecimal {
	return &DataTypeDecimal{
		Scale: scale,
	}
}

func (d *DataTypeDecimal) BaseTypeName() string {
	return BaseTypeDecimal
}

func (d *DataTypeDecimal) TypeDescription() string {
	return fmt.Sprintf("%s(%d)", BaseTypeDecimal, d.Scale)
}

func (d *DataTypeDecimal) TypeInfo() map[string]interface{} {
	return map[string]interface{}{
		"scale": d.Scale,
	}
}

type DataTypeFloat64 struct {
}

func NewDataTypeFloat64() *DataTypeFloat64 {
	return &DataTypeFloat64{}
}

func (*DataTypeFloat64) BaseTypeName() string {
	return BaseTypeFloat64
}

func (dt *DataTypeFloat64) TypeDescription() string {
	return dt.BaseTypeName()
}

func (*DataTypeFloat64) TypeInfo() map[string]interface{} {
	return nil
}

type DataTypeString struct {
}

func NewDataTypeString() *DataTypeString {
	return &DataTypeString{}
}

func (*DataTypeString) BaseTypeName() string {
	return BaseTypeString
}

func (dt *DataTypeString) TypeDescription() string {
	return dt.BaseTypeName()
}

func (*DataTypeString) TypeInfo() map[string]interface{} {
	return nil
}

type DataTypeBool struct {
}

func NewDataTypeBool() *DataTypeBool {
	return &DataTypeBool{}
}

func (*DataTypeBool) BaseTypeName() string {
	return BaseTypeBool
}

func (dt *DataTypeBool) TypeDescription() string {
	return dt.BaseTypeName()
}

func (*DataTypeBool) TypeInfo() map[string]interface{} {
	return nil
}

// DataTypeUnknown is the type of an untyped NULL. It never survives
// resolution.
type DataTypeUnknown struct {
}

func NewDataTypeUnknown() *DataTypeUnknown {
	return &DataTypeUnknown{}
}

func (*DataTypeUnknown) BaseTypeName() string {
	return BaseTypeUnknown
}

func (dt *DataTypeUnknown) TypeDescription() string {
	return dt.BaseTypeName()
}

func (*DataTypeUnknown) TypeInfo() map[string]interface{} {
	return nil
}

var decimalTypeRe = regexp.MustCompile(`^(decimal|numeric)\s*\(\s*(\d+)\s*\)$`)

// DataTypeFromString resolves a type name, as written in a cast or a fixture,
// to a type. The second return value is false if the name is not known.
func DataTypeFromString(name string) (ExprDataType, bool) {
	typeName := strings.ToLower(strings.TrimSpace(name))
	switch typeName {
	case "i32", "int", "integer", "int4":
		return NewDataTypeInt32(), true

	case "i64", "bigint", "int8":
		return NewDataTypeInt64(), true

	case "decimal", "numeric":
		return NewDataTypeDecimal(0), true

	case "float", "double", "float8", "double precision":
		return NewDataTypeFloat64(), true

	case "string", "text", "varchar":
		return NewDataTypeString(), true

	case "bool", "boolean":
		return NewDataTypeBool(), true

	case "unknown":
		return NewDataTypeUnknown(), true
	}

	m := decimalTypeRe.FindStringSubmatch(typeName)
	if m == nil {
		return nil, false
	}
	scale, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil || scale > MaxDecimalScale {
		return nil, false
	}
	return NewDataTypeDecimal(scale), true
}

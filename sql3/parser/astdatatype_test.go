// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package parser_test

import (
	"testing"

	"github.com/featurebasedb/sqltype/sql3/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataTypeFromString(t *testing.T) {
	tests := []struct {
		name string
		exp  parser.ExprDataType
	}{
		{"int", parser.NewDataTypeInt32()},
		{"INTEGER", parser.NewDataTypeInt32()},
		{"int4", parser.NewDataTypeInt32()},
		{"i32", parser.NewDataTypeInt32()},
		{"bigint", parser.NewDataTypeInt64()},
		{"int8", parser.NewDataTypeInt64()},
		{"decimal", parser.NewDataTypeDecimal(0)},
		{"decimal(3)", parser.NewDataTypeDecimal(3)},
		{"NUMERIC( 18 )", parser.NewDataTypeDecimal(18)},
		{"float", parser.NewDataTypeFloat64()},
		{"double", parser.NewDataTypeFloat64()},
		{"float8", parser.NewDataTypeFloat64()},
		{"text", parser.NewDataTypeString()},
		{"varchar", parser.NewDataTypeString()},
		{"boolean", parser.NewDataTypeBool()},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := parser.DataTypeFromString(test.name)
			require.True(t, ok)
			assert.Equal(t, test.exp, got)
		})
	}

	for _, bad := range []string{"", "timestamp", "decimal(19)", "decimal(x)", "int[]"} {
		_, ok := parser.DataTypeFromString(bad)
		assert.False(t, ok, bad)
	}
}

func TestTypeDescription(t *testing.T) {
	assert.Equal(t, "decimal(3)", parser.NewDataTypeDecimal(3).TypeDescription())
	assert.Equal(t, "decimal", parser.NewDataTypeDecimal(3).BaseTypeName())
	assert.Equal(t, map[string]interface{}{"scale": int64(3)}, parser.NewDataTypeDecimal(3).TypeInfo())
	assert.Equal(t, "i32", parser.NewDataTypeInt32().TypeDescription())
	assert.Equal(t, "float", parser.NewDataTypeFloat64().TypeDescription())
	assert.Equal(t, "string", parser.NewDataTypeString().BaseTypeName())
	assert.Equal(t, "unknown", parser.NewDataTypeUnknown().BaseTypeName())
	assert.Nil(t, parser.NewDataTypeBool().TypeInfo())
}

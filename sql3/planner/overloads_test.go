// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"testing"

	"github.com/featurebasedb/sqltype/sql3/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

func TestOverloadCatalog_Lookup(t *testing.T) {
	for _, tt := range []struct {
		op     string
		args   []parser.ExprDataType
		impl   string
		result string
	}{
		{"+", []parser.ExprDataType{tI32, tI32}, "i32plusi32", "i32"},
		{"%", []parser.ExprDataType{tDec(2), tDec(2)}, "decremdec", "decimal(2)"},
		{"*", []parser.ExprDataType{tDec(2), tDec(2)}, "dectimesdec", "decimal(2)"},
		{"*", []parser.ExprDataType{tDec(0), tDec(3)}, "dectimesdec", "decimal(3)"},
		{"*", []parser.ExprDataType{tDec(12), tDec(10)}, "dectimesdec", "decimal(18)"},
		{"/", []parser.ExprDataType{tF64, tF64}, "f64divf64", "float"},
		{"<", []parser.ExprDataType{tStr, tStr}, "strltstr", "bool"},
		{"<>", []parser.ExprDataType{tBool, tBool}, "boolnebool", "bool"},
		{"AND", []parser.ExprDataType{tBool, tBool}, "boolandbool", "bool"},
		{"NOT", []parser.ExprDataType{tBool}, "notbool", "bool"},
		{"-", []parser.ExprDataType{tI64}, "negi64", "i64"},
		{"||", []parser.ExprDataType{tStr, tStr}, "strconcatstr", "string"},
		{"abs", []parser.ExprDataType{tDec(4)}, "absdec", "decimal(4)"},
		{"round", []parser.ExprDataType{tDec(4)}, "rounddec", "decimal(0)"},
		{"length", []parser.ExprDataType{tStr}, "lengthstr", "i32"},
	} {
		t.Run(tt.impl, func(t *testing.T) {
			sig := LookupOverload(tt.op, tt.args...)
			require.NotNil(t, sig)
			assert.Equal(t, tt.impl, sig.Impl)
			assert.Equal(t, tt.result, sig.Result.TypeDescription())
		})
	}

	t.Run("Missing", func(t *testing.T) {
		assert.Nil(t, LookupOverload("+", tI32, tI64))
		assert.Nil(t, LookupOverload("+", tDec(1), tDec(2)))
		assert.Nil(t, LookupOverload("<", tStr, tI32))
		assert.Nil(t, LookupOverload("||", tI32, tI32))
		assert.Nil(t, LookupOverload("nope", tI32))
	})
}

func TestOverloadCatalog_Invariants(t *testing.T) {
	ops := Operators()
	require.True(t, slices.IsSorted(ops))
	for _, op := range []string{"+", "-", "*", "/", "%", "<", "AND", "NOT", "||", "abs", "rtrim"} {
		assert.Contains(t, ops, op)
	}

	for _, op := range ops {
		for _, sig := range OverloadCandidates(op) {
			// every entry is concrete
			for _, a := range sig.Args {
				assert.False(t, typeIsUnknown(a), sig.String())
			}
			assert.False(t, typeIsUnknown(sig.Result), sig.String())
			assert.NotEmpty(t, sig.Impl)

			// and reachable by exact lookup
			assert.Same(t, sig, LookupOverload(sig.Op, sig.Args...))
		}
	}
}

// every coalescing operator has a same-type entry for every type its
// operands can be unified to
func TestOverloadCatalog_CoalescingOperatorsAreUniform(t *testing.T) {
	for op := range coalescingOperators {
		for _, typ := range numericTypes() {
			assert.NotNil(t, LookupOverload(op.String(), typ, typ), "%s %s", op, typ.TypeDescription())
		}
	}
}

func TestOverloadSignature_String(t *testing.T) {
	assert.Equal(t, "i32 + i32", LookupOverload("+", tI32, tI32).String())
	assert.Equal(t, "- decimal(2)", LookupOverload("-", tDec(2)).String())
	assert.Equal(t, "NOT bool", LookupOverload("NOT", tBool).String())
	assert.Equal(t, "abs(float)", LookupOverload("abs", tF64).String())
	assert.Equal(t, "mod(i64, i64)", LookupOverload("mod", tI64, tI64).String())

	assert.True(t, LookupOverload("abs", tF64).IsCall())
	assert.False(t, LookupOverload("AND", tBool, tBool).IsCall())
}

// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package parser_test

import (
	"testing"

	"github.com/featurebasedb/sqltype/sql3/parser"
)

func TestClassify(t *testing.T) {
	five := &parser.IntegerLit{Value: "5"}

	for _, tt := range []struct {
		name string
		expr parser.Expr
		want parser.LiteralKind
	}{
		{"integer", five, parser.NumericLiteral},
		{"decimal", &parser.DecimalLit{Value: "1.1"}, parser.NumericLiteral},
		{"float", &parser.FloatLit{Value: "1e5"}, parser.NumericLiteral},
		{"string", &parser.StringLit{Value: "1"}, parser.StringLiteral},
		{"bool", &parser.BoolLit{Value: true}, parser.BoolLiteral},
		{"null", &parser.NullLit{}, parser.NullLiteral},
		{"paren", &parser.ParenExpr{X: &parser.ParenExpr{X: &parser.StringLit{Value: "x"}}}, parser.StringLiteral},
		{"cast", &parser.CastExpr{X: five, Type: parser.NewDataTypeInt32()}, parser.NotLiteral},
		{"cast-string", &parser.CastExpr{X: &parser.StringLit{Value: "foo"}, Type: parser.NewDataTypeString()}, parser.NotLiteral},
		{"column", &parser.ColumnRef{Name: "a", Type: parser.NewDataTypeInt32()}, parser.NotLiteral},
		{"call", &parser.Call{Name: "abs", Args: []parser.Expr{five}}, parser.NotLiteral},
		{"negation", &parser.UnaryExpr{Op: parser.MINUS, X: five}, parser.NotLiteral},
		{"binary", &parser.BinaryExpr{X: five, Op: parser.PLUS, Y: five}, parser.NotLiteral},
		{"convert", &parser.ConvertExpr{Func: "i32toi64", X: five, Type: parser.NewDataTypeInt64()}, parser.NotLiteral},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if got := parser.Classify(tt.expr); got != tt.want {
				t.Fatalf("Classify()=%s, want %s", got, tt.want)
			}
			if got, want := tt.expr.IsLiteral(), tt.want != parser.NotLiteral; got != want {
				t.Fatalf("IsLiteral()=%v, want %v", got, want)
			}
		})
	}
}

func TestUnparen(t *testing.T) {
	lit := &parser.BoolLit{}
	if got := parser.Unparen(&parser.ParenExpr{X: &parser.ParenExpr{X: lit}}); got != lit {
		t.Fatalf("Unparen()=%s", got)
	}
}

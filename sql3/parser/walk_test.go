// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package parser_test

import (
	"strings"
	"testing"

	"github.com/featurebasedb/sqltype/sql3/parser"
	"github.com/go-test/deep"
)

func TestWalk(t *testing.T) {
	t.Run("BindColumns", func(t *testing.T) {
		expr := &parser.BinaryExpr{
			X:  &parser.ColumnRef{Name: "a"},
			Op: parser.PLUS,
			Y: &parser.Call{Name: "abs", Args: []parser.Expr{
				&parser.ColumnRef{Name: "b"},
			}},
		}
		types := map[string]parser.ExprDataType{
			"a": parser.NewDataTypeDecimal(3),
			"b": parser.NewDataTypeInt32(),
		}

		_, err := parser.Walk(parser.VisitEndFunc(func(n parser.Node) (parser.Node, error) {
			if ref, ok := n.(*parser.ColumnRef); ok {
				ref.Type = types[ref.Name]
			}
			return n, nil
		}), expr)
		if err != nil {
			t.Fatal(err)
		}

		want := &parser.BinaryExpr{
			X:  &parser.ColumnRef{Name: "a", Type: parser.NewDataTypeDecimal(3)},
			Op: parser.PLUS,
			Y: &parser.Call{Name: "abs", Args: []parser.Expr{
				&parser.ColumnRef{Name: "b", Type: parser.NewDataTypeInt32()},
			}},
		}
		if diff := deep.Equal(expr, want); diff != nil {
			t.Fatal("mismatch: \n" + strings.Join(diff, "\n"))
		}
	})

	t.Run("Replace", func(t *testing.T) {
		expr := &parser.CaseExpr{
			Blocks: []*parser.CaseBlock{{
				Condition: &parser.ParenExpr{X: &parser.BoolLit{Value: true}},
				Body:      &parser.ParenExpr{X: &parser.IntegerLit{Value: "1"}},
			}},
			Else: &parser.ParenExpr{X: &parser.IntegerLit{Value: "2"}},
		}
		out, err := parser.Walk(parser.VisitEndFunc(func(n parser.Node) (parser.Node, error) {
			if p, ok := n.(*parser.ParenExpr); ok {
				return p.X, nil
			}
			return n, nil
		}), expr)
		if err != nil {
			t.Fatal(err)
		}
		if got, want := out.String(), "CASE WHEN true THEN 1 ELSE 2 END"; got != want {
			t.Fatalf("String()=%q, want %q", got, want)
		}
	})

	t.Run("Inspect", func(t *testing.T) {
		expr := &parser.QuantifiedExpr{
			X:          &parser.ConvertExpr{Func: "i32toi64", X: &parser.IntegerLit{Value: "1"}},
			Op:         parser.LT,
			Quantifier: parser.ANY,
			Values: []parser.Expr{
				&parser.IntegerLit{Value: "2"},
				&parser.ConvertExpr{Func: "i32toi64", X: &parser.IntegerLit{Value: "3"}},
			},
		}
		var converts, literals int
		parser.Inspect(expr, func(n parser.Node) bool {
			switch n.(type) {
			case *parser.ConvertExpr:
				converts++
				return false
			case *parser.IntegerLit:
				literals++
			}
			return true
		})
		if converts != 2 || literals != 1 {
			t.Fatalf("converts=%d literals=%d", converts, literals)
		}
	})
}

// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package parser_test

import (
	"testing"

	"github.com/featurebasedb/sqltype/sql3/parser"
)

func TestToken_String(t *testing.T) {
	for tok, want := range map[parser.Token]string{
		parser.PLUS:    "+",
		parser.REM:     "%",
		parser.CONCAT:  "||",
		parser.NE:      "<>",
		parser.AND:     "AND",
		parser.ALL:     "ALL",
		parser.ILLEGAL: "ILLEGAL",
	} {
		if got := tok.String(); got != want {
			t.Fatalf("String()=%q, want %q", got, want)
		}
	}
}

func TestLookupOperator(t *testing.T) {
	for s, want := range map[string]parser.Token{
		"<":   parser.LT,
		"<=":  parser.LE,
		"!=":  parser.NE,
		"<>":  parser.NE,
		"%":   parser.REM,
		"and": parser.AND,
		"Or":  parser.OR,
		"not": parser.NOT,
		"~":   parser.ILLEGAL,
	} {
		if got := parser.LookupOperator(s); got != want {
			t.Fatalf("LookupOperator(%q)=%s, want %s", s, got, want)
		}
	}
}

func TestToken_Classes(t *testing.T) {
	if !parser.REM.IsOperator() || parser.AND.IsOperator() {
		t.Fatal("unexpected operator class")
	}
	if !parser.AND.IsKeyword() || parser.PLUS.IsKeyword() {
		t.Fatal("unexpected keyword class")
	}
	if !parser.GE.IsComparison() || parser.STAR.IsComparison() {
		t.Fatal("unexpected comparison class")
	}
	if !parser.SOME.IsQuantifier() || parser.EQ.IsQuantifier() {
		t.Fatal("unexpected quantifier class")
	}
	if got, want := parser.STAR.ImplName(), "times"; got != want {
		t.Fatalf("ImplName()=%q, want %q", got, want)
	}
}

func TestToken_Precedence(t *testing.T) {
	for _, tt := range []struct {
		tighter, looser parser.Token
	}{
		{parser.AND, parser.OR},
		{parser.EQ, parser.AND},
		{parser.PLUS, parser.LT},
		{parser.STAR, parser.MINUS},
		{parser.REM, parser.PLUS},
		{parser.CONCAT, parser.SLASH},
	} {
		if tt.tighter.Precedence() <= tt.looser.Precedence() {
			t.Errorf("%s should bind tighter than %s", tt.tighter, tt.looser)
		}
	}
	if parser.SLASH.Precedence() != parser.STAR.Precedence() {
		t.Error("* and / should share a precedence level")
	}
	if parser.ALL.Precedence() != 0 {
		t.Error("quantifiers are not binary operators")
	}
}

func TestOperandNeedsParens(t *testing.T) {
	for _, tt := range []struct {
		child, parent parser.Token
		right, want   bool
	}{
		{parser.STAR, parser.SLASH, true, true},
		{parser.STAR, parser.SLASH, false, false},
		{parser.PLUS, parser.STAR, false, true},
		{parser.STAR, parser.PLUS, true, false},
		{parser.OR, parser.OR, false, false},
		{parser.EQ, parser.OR, true, false},
		{parser.ALL, parser.PLUS, true, false},
	} {
		if got := parser.OperandNeedsParens(tt.child, tt.parent, tt.right); got != tt.want {
			t.Errorf("OperandNeedsParens(%s, %s, %v)=%v, want %v", tt.child, tt.parent, tt.right, got, tt.want)
		}
	}
}

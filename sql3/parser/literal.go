// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package parser

// LiteralKind tags an expression as a syntactic constant of a given kind, or
// as a typed value. Literals get relaxed coercion rules: a string literal may
// become any type its text parses as, and a decimal literal may widen its
// scale. Typed values never do.
type LiteralKind int

const (
	NotLiteral LiteralKind = iota
	NumericLiteral
	StringLiteral
	BoolLiteral
	NullLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case NumericLiteral:
		return "numeric literal"
	case StringLiteral:
		return "string literal"
	case BoolLiteral:
		return "bool literal"
	case NullLiteral:
		return "null literal"
	default:
		return "not literal"
	}
}

// Classify returns the literal kind of expr. Bare constants, and constants in
// parentheses, are literals. Casts, column references, calls and operator
// nodes are not, whatever they contain.
func Classify(expr Expr) LiteralKind {
	switch e := expr.(type) {
	case *IntegerLit, *DecimalLit, *FloatLit:
		return NumericLiteral
	case *StringLit:
		return StringLiteral
	case *BoolLit:
		return BoolLiteral
	case *NullLit:
		return NullLiteral
	case *ParenExpr:
		return Classify(e.X)
	default:
		return NotLiteral
	}
}

// Unparen returns expr with any enclosing parentheses removed.
func Unparen(expr Expr) Expr {
	for {
		p, ok := expr.(*ParenExpr)
		if !ok {
			return expr
		}
		expr = p.X
	}
}

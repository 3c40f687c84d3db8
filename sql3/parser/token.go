// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package parser

import "strings"

// Token is the set of operators that can appear in a bound expression.
type Token int

const (
	ILLEGAL Token = iota

	operator_beg
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	REM    // %
	CONCAT // ||
	EQ     // =
	NE     // <>
	LT     // <
	LE     // <=
	GT     // >
	GE     // >=
	operator_end

	keyword_beg
	AND
	OR
	NOT
	ANY
	SOME
	ALL
	keyword_end
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",

	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	REM:    "%",
	CONCAT: "||",
	EQ:     "=",
	NE:     "<>",
	LT:     "<",
	LE:     "<=",
	GT:     ">",
	GE:     ">=",

	AND:  "AND",
	OR:   "OR",
	NOT:  "NOT",
	ANY:  "ANY",
	SOME: "SOME",
	ALL:  "ALL",
}

// implementation names used to build overload tags, e.g. i32timesi32.
var tokenImplNames = [...]string{
	PLUS:   "plus",
	MINUS:  "minus",
	STAR:   "times",
	SLASH:  "div",
	REM:    "rem",
	CONCAT: "concat",
	EQ:     "eq",
	NE:     "ne",
	LT:     "lt",
	LE:     "le",
	GT:     "gt",
	GE:     "ge",
	AND:    "and",
	OR:     "or",
	NOT:    "not",
}

func (tok Token) String() string {
	if tok >= 0 && tok < Token(len(tokens)) {
		return tokens[tok]
	}
	return ""
}

// ImplName returns the name the operator carries in implementation tags.
// Unary minus is "neg", which is decided by the caller.
func (tok Token) ImplName() string {
	if tok >= 0 && tok < Token(len(tokenImplNames)) {
		return tokenImplNames[tok]
	}
	return ""
}

func (tok Token) IsOperator() bool {
	return tok > operator_beg && tok < operator_end
}

func (tok Token) IsKeyword() bool {
	return tok > keyword_beg && tok < keyword_end
}

// IsComparison returns true for the six comparison operators.
func (tok Token) IsComparison() bool {
	switch tok {
	case EQ, NE, LT, LE, GT, GE:
		return true
	}
	return false
}

// IsQuantifier returns true for ANY, SOME and ALL.
func (tok Token) IsQuantifier() bool {
	switch tok {
	case ANY, SOME, ALL:
		return true
	}
	return false
}

// Precedence returns the binding strength of a binary operator. Higher binds
// tighter. Tokens that are not binary operators return 0.
func (tok Token) Precedence() int {
	switch tok {
	case OR:
		return 1
	case AND:
		return 2
	case NOT:
		return 3
	case EQ, NE, LT, LE, GT, GE:
		return 4
	case PLUS, MINUS:
		return 5
	case STAR, SLASH, REM:
		return 6
	case CONCAT:
		return 7
	}
	return 0
}

// OperandNeedsParens reports whether an operand whose top-level operator is
// child must be grouped when printed under parent. Operators are left
// associative, so a right operand of equal precedence is grouped as well.
func OperandNeedsParens(child, parent Token, right bool) bool {
	c, p := child.Precedence(), parent.Precedence()
	if c == 0 || p == 0 {
		return false
	}
	return c < p || (right && c == p)
}

var operatorsByString map[string]Token

func init() {
	operatorsByString = make(map[string]Token)
	for tok := operator_beg + 1; tok < keyword_end; tok++ {
		if s := tokens[tok]; s != "" {
			operatorsByString[s] = tok
		}
	}
	operatorsByString["!="] = NE
}

// LookupOperator returns the token for an operator or keyword spelling, so
// that "<", "and" and "AND" all resolve. ILLEGAL is returned for anything
// else.
func LookupOperator(s string) Token {
	if tok, ok := operatorsByString[strings.ToUpper(s)]; ok {
		return tok
	}
	return ILLEGAL
}

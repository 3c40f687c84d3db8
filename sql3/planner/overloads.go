// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"fmt"
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/featurebasedb/sqltype/sql3/parser"
	"golang.org/x/exp/slices"
)

// OverloadSignature is one concrete implementation of an operator or
// function. Args and Result are always concrete types.
type OverloadSignature struct {
	// Op is the operator symbol (e.g. "+", "AND") or the function name.
	Op     string
	Args   []parser.ExprDataType
	Result parser.ExprDataType
	// Impl is the implementation tag used when the plan is emitted.
	Impl string
}

// IsCall reports whether the signature is for a function rather than an
// operator.
func (s *OverloadSignature) IsCall() bool {
	return parser.LookupOperator(s.Op) == parser.ILLEGAL
}

// String renders the application the signature matches, e.g. "i32 + i32",
// "- decimal(2)" or "abs(float)".
func (s *OverloadSignature) String() string {
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = a.TypeDescription()
	}
	switch {
	case s.IsCall():
		return fmt.Sprintf("%s(%s)", s.Op, strings.Join(args, ", "))
	case len(args) == 1:
		return fmt.Sprintf("%s %s", s.Op, args[0])
	default:
		return strings.Join(args, " "+s.Op+" ")
	}
}

// overloadCatalog is the registry of every operator and function
// implementation. It is built once and never modified.
type overloadCatalog struct {
	byOp    *immutable.Map[string, []*OverloadSignature]
	byExact *immutable.Map[string, *OverloadSignature]
	ops     []string
}

// catalog is the process-wide overload catalog.
var catalog = newOverloadCatalog(builtinOverloads())

func newOverloadCatalog(sigs []*OverloadSignature) *overloadCatalog {
	byOp := immutable.NewMap[string, []*OverloadSignature](nil)
	byExact := immutable.NewMap[string, *OverloadSignature](nil)
	for _, sig := range sigs {
		existing, _ := byOp.Get(sig.Op)
		byOp = byOp.Set(sig.Op, append(existing[:len(existing):len(existing)], sig))
		byExact = byExact.Set(signatureKey(sig.Op, sig.Args), sig)
	}

	ops := make([]string, 0, byOp.Len())
	itr := byOp.Iterator()
	for !itr.Done() {
		op, _, _ := itr.Next()
		ops = append(ops, op)
	}
	slices.Sort(ops)

	return &overloadCatalog{
		byOp:    byOp,
		byExact: byExact,
		ops:     ops,
	}
}

func signatureKey(op string, args []parser.ExprDataType) string {
	var sb strings.Builder
	sb.WriteString(op)
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.TypeDescription())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Lookup returns the signature for op whose argument types are exactly args,
// or nil.
func (c *overloadCatalog) Lookup(op string, args []parser.ExprDataType) *OverloadSignature {
	sig, _ := c.byExact.Get(signatureKey(op, args))
	return sig
}

// Candidates returns every signature registered for op.
func (c *overloadCatalog) Candidates(op string) []*OverloadSignature {
	sigs, _ := c.byOp.Get(op)
	return sigs
}

// Operators returns the sorted names of every operator and function in the
// catalog.
func (c *overloadCatalog) Operators() []string {
	return slices.Clone(c.ops)
}

// LookupOverload returns the catalog signature for op whose argument types
// are exactly args, or nil.
func LookupOverload(op string, args ...parser.ExprDataType) *OverloadSignature {
	return catalog.Lookup(op, args)
}

// OverloadCandidates returns every catalog signature for op.
func OverloadCandidates(op string) []*OverloadSignature {
	return slices.Clone(catalog.Candidates(op))
}

// Operators returns the sorted names of every operator and function in the
// catalog.
func Operators() []string {
	return catalog.Operators()
}

// numericTypes returns every concrete numeric type, including decimals of
// every scale.
func numericTypes() []parser.ExprDataType {
	types := []parser.ExprDataType{parser.NewDataTypeInt32(), parser.NewDataTypeInt64()}
	for s := int64(0); s <= parser.MaxDecimalScale; s++ {
		types = append(types, parser.NewDataTypeDecimal(s))
	}
	return append(types, parser.NewDataTypeFloat64())
}

func binaryOverload(op parser.Token, arg, result parser.ExprDataType) *OverloadSignature {
	m := typeMnemonic(arg)
	return &OverloadSignature{
		Op:     op.String(),
		Args:   []parser.ExprDataType{arg, arg},
		Result: result,
		Impl:   m + op.ImplName() + m,
	}
}

func functionOverload(name string, impl string, result parser.ExprDataType, args ...parser.ExprDataType) *OverloadSignature {
	return &OverloadSignature{
		Op:     name,
		Args:   args,
		Result: result,
		Impl:   impl + typeMnemonic(args[0]),
	}
}

func builtinOverloads() []*OverloadSignature {
	var sigs []*OverloadSignature

	// arithmetic
	for _, op := range []parser.Token{parser.PLUS, parser.MINUS, parser.STAR, parser.SLASH, parser.REM} {
		for _, typ := range numericTypes() {
			sigs = append(sigs, binaryOverload(op, typ, typ))
		}
	}

	// a mantissa multiply of two decimals yields the sum of their scales
	for s1 := int64(0); s1 <= parser.MaxDecimalScale; s1++ {
		for s2 := int64(0); s2 <= parser.MaxDecimalScale; s2++ {
			if s1 == s2 {
				continue
			}
			scale := s1 + s2
			if scale > parser.MaxDecimalScale {
				scale = parser.MaxDecimalScale
			}
			sigs = append(sigs, &OverloadSignature{
				Op:     parser.STAR.String(),
				Args:   []parser.ExprDataType{parser.NewDataTypeDecimal(s1), parser.NewDataTypeDecimal(s2)},
				Result: parser.NewDataTypeDecimal(scale),
				Impl:   "dectimesdec",
			})
		}
	}

	// comparison
	comparableTypes := append(numericTypes(), parser.NewDataTypeString(), parser.NewDataTypeBool())
	for _, op := range []parser.Token{parser.EQ, parser.NE, parser.LT, parser.LE, parser.GT, parser.GE} {
		for _, typ := range comparableTypes {
			sigs = append(sigs, binaryOverload(op, typ, parser.NewDataTypeBool()))
		}
	}

	// logical
	sigs = append(sigs,
		binaryOverload(parser.AND, parser.NewDataTypeBool(), parser.NewDataTypeBool()),
		binaryOverload(parser.OR, parser.NewDataTypeBool(), parser.NewDataTypeBool()),
		&OverloadSignature{
			Op:     parser.NOT.String(),
			Args:   []parser.ExprDataType{parser.NewDataTypeBool()},
			Result: parser.NewDataTypeBool(),
			Impl:   "notbool",
		},
	)

	// string concatenation
	sigs = append(sigs, binaryOverload(parser.CONCAT, parser.NewDataTypeString(), parser.NewDataTypeString()))

	// negation
	for _, typ := range numericTypes() {
		sigs = append(sigs, &OverloadSignature{
			Op:     parser.MINUS.String(),
			Args:   []parser.ExprDataType{typ},
			Result: typ,
			Impl:   "neg" + typeMnemonic(typ),
		})
	}

	// math functions
	for _, typ := range numericTypes() {
		sigs = append(sigs,
			functionOverload("abs", "abs", typ, typ),
			functionOverload("mod", "mod", typ, typ, typ),
		)
	}
	for _, name := range []string{"ceil", "floor", "round", "sqrt"} {
		sigs = append(sigs, functionOverload(name, name, parser.NewDataTypeFloat64(), parser.NewDataTypeFloat64()))
	}
	for s := int64(0); s <= parser.MaxDecimalScale; s++ {
		sigs = append(sigs, functionOverload("round", "round", parser.NewDataTypeDecimal(0), parser.NewDataTypeDecimal(s)))
	}

	// string functions
	sigs = append(sigs, functionOverload("length", "length", parser.NewDataTypeInt32(), parser.NewDataTypeString()))
	for _, name := range []string{"upper", "lower", "btrim", "ltrim", "rtrim"} {
		sigs = append(sigs, functionOverload(name, name, parser.NewDataTypeString(), parser.NewDataTypeString()))
	}

	return sigs
}

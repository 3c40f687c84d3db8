// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package ctl

import (
	"io"
	"strings"

	"github.com/featurebasedb/sqltype/sql3"
	"github.com/featurebasedb/sqltype/sql3/parser"
	"github.com/featurebasedb/sqltype/sql3/planner"
	"github.com/featurebasedb/sqltype/sql3/planner/types"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Fixture is a source table and a list of expressions bound to its columns.
//
//	columns:
//	  - {name: a, type: decimal(3)}
//	  - {name: b, type: i32}
//	rows:
//	  - [4.700, 2]
//	  - [null, 5]
//	exprs:
//	  - op: "+"
//	    args: [{column: a}, {column: b}]
//	  - call: abs
//	    args: [{int: -3}]
type Fixture struct {
	Columns []FixtureColumn `yaml:"columns"`
	Rows    [][]*string     `yaml:"rows"`
	Exprs   []*FixtureExpr  `yaml:"exprs"`
}

// FixtureColumn is a column of the fixture's table.
type FixtureColumn struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// FixtureExpr is a node of a bound expression. A node is a literal, a
// column reference, a parenthesized expression, a cast, a call or an
// operator applied to Args.
//
// Op may be a unary or binary operator (by the number of Args), or one of
// IS NULL, IS NOT NULL, BETWEEN, NOT BETWEEN, IN, NOT IN and CASE. With a
// Quantifier the first argument is compared to the rest as a VALUES list.
type FixtureExpr struct {
	Int     *string `yaml:"int,omitempty"`
	Decimal *string `yaml:"decimal,omitempty"`
	Float   *string `yaml:"float,omitempty"`
	String  *string `yaml:"string,omitempty"`
	Bool    *bool   `yaml:"bool,omitempty"`
	Null    bool    `yaml:"null,omitempty"`
	Column  string  `yaml:"column,omitempty"`

	Paren *FixtureExpr `yaml:"paren,omitempty"`
	Cast  string       `yaml:"cast,omitempty"`
	Call  string       `yaml:"call,omitempty"`

	Op         string         `yaml:"op,omitempty"`
	Quantifier string         `yaml:"quantifier,omitempty"`
	Args       []*FixtureExpr `yaml:"args,omitempty"`

	When []*FixtureWhen `yaml:"when,omitempty"`
	Else *FixtureExpr   `yaml:"else,omitempty"`
}

// FixtureWhen is a WHEN ... THEN ... arm of a CASE.
type FixtureWhen struct {
	Cond *FixtureExpr `yaml:"cond"`
	Then *FixtureExpr `yaml:"then"`
}

// ReadFixture decodes a fixture. Unknown keys are an error.
func ReadFixture(r io.Reader) (*Fixture, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading fixture")
	}
	f := &Fixture{}
	if err := yaml.UnmarshalStrict(buf, f); err != nil {
		return nil, errors.Wrap(err, "decoding fixture")
	}
	return f, nil
}

// columnRefs returns a reference to each column of the fixture's table.
func (f *Fixture) columnRefs() ([]*parser.ColumnRef, error) {
	refs := make([]*parser.ColumnRef, len(f.Columns))
	for i, c := range f.Columns {
		typ, ok := parser.DataTypeFromString(c.Type)
		if !ok {
			return nil, sql3.NewErrUnknownType(c.Type)
		}
		refs[i] = &parser.ColumnRef{Name: c.Name, Index: i, Type: typ}
	}
	return refs, nil
}

// Source returns an operator producing the fixture's rows. Each value is
// converted from its text to the type of its column.
func (f *Fixture) Source() (*planner.PlanOpConstant, error) {
	refs, err := f.columnRefs()
	if err != nil {
		return nil, err
	}
	schema := make(types.Schema, len(refs))
	for i, ref := range refs {
		schema[i] = &types.PlannerColumn{
			RelationName: "fixture",
			ColumnName:   ref.Name,
			Type:         ref.Type,
		}
	}

	rows := make([]types.Row, len(f.Rows))
	for i, r := range f.Rows {
		if len(r) != len(refs) {
			return nil, errors.Errorf("row %d has %d values, expected %d", i, len(r), len(refs))
		}
		row := make(types.Row, len(r))
		for j, text := range r {
			if text == nil {
				continue
			}
			if row[j], err = planner.ParseValue(*text, refs[j].Type); err != nil {
				return nil, errors.Wrapf(err, "row %d, column '%s'", i, refs[j].Name)
			}
		}
		rows[i] = row
	}
	return planner.NewPlanOpConstant(schema, rows), nil
}

// Bind returns the fixture's expressions with their column references bound
// to the fixture's table.
func (f *Fixture) Bind() ([]parser.Expr, error) {
	refs, err := f.columnRefs()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*parser.ColumnRef, len(refs))
	for _, ref := range refs {
		byName[strings.ToLower(ref.Name)] = ref
	}

	exprs := make([]parser.Expr, len(f.Exprs))
	for i, e := range f.Exprs {
		if exprs[i], err = e.bind(byName); err != nil {
			return nil, errors.Wrapf(err, "expression %d", i)
		}
	}
	return exprs, nil
}

func (e *FixtureExpr) bind(columns map[string]*parser.ColumnRef) (parser.Expr, error) {
	if e == nil {
		return nil, errors.New("missing expression")
	}

	switch {
	case e.Int != nil:
		return &parser.IntegerLit{Value: *e.Int}, nil
	case e.Decimal != nil:
		return &parser.DecimalLit{Value: *e.Decimal}, nil
	case e.Float != nil:
		return &parser.FloatLit{Value: *e.Float}, nil
	case e.String != nil:
		return &parser.StringLit{Value: *e.String}, nil
	case e.Bool != nil:
		return &parser.BoolLit{Value: *e.Bool}, nil
	case e.Null:
		return &parser.NullLit{}, nil

	case e.Column != "":
		ref, ok := columns[strings.ToLower(e.Column)]
		if !ok {
			return nil, sql3.NewErrColumnNotFound(e.Column)
		}
		return ref, nil

	case e.Paren != nil:
		x, err := e.Paren.bind(columns)
		if err != nil {
			return nil, err
		}
		return &parser.ParenExpr{X: x}, nil
	}

	args, err := bindList(e.Args, columns)
	if err != nil {
		return nil, err
	}

	switch {
	case e.Cast != "":
		typ, ok := parser.DataTypeFromString(e.Cast)
		if !ok {
			return nil, sql3.NewErrUnknownType(e.Cast)
		}
		if len(args) != 1 {
			return nil, errors.Errorf("cast takes 1 argument, got %d", len(args))
		}
		return &parser.CastExpr{X: args[0], Type: typ}, nil

	case e.Call != "":
		return &parser.Call{Name: e.Call, Args: args}, nil

	case e.Op != "":
		return e.bindOp(args, columns)
	}
	return nil, errors.New("empty expression")
}

func (e *FixtureExpr) bindOp(args []parser.Expr, columns map[string]*parser.ColumnRef) (parser.Expr, error) {
	op := strings.ToUpper(strings.Join(strings.Fields(e.Op), " "))
	arity := func(n int) error {
		if len(args) != n {
			return errors.Errorf("%s takes %d arguments, got %d", op, n, len(args))
		}
		return nil
	}

	if e.Quantifier != "" {
		tok := parser.LookupOperator(op)
		quantifier := parser.LookupOperator(strings.ToUpper(e.Quantifier))
		if !tok.IsComparison() || !quantifier.IsQuantifier() {
			return nil, errors.Errorf("invalid quantified comparison '%s %s'", e.Op, e.Quantifier)
		}
		if len(args) < 2 {
			return nil, errors.Errorf("%s %s needs a value to compare and at least one VALUES row", op, quantifier)
		}
		return &parser.QuantifiedExpr{X: args[0], Op: tok, Quantifier: quantifier, Values: args[1:]}, nil
	}

	switch op {
	case "IS NULL", "IS NOT NULL":
		if err := arity(1); err != nil {
			return nil, err
		}
		return &parser.IsNullExpr{X: args[0], Not: op == "IS NOT NULL"}, nil

	case "BETWEEN", "NOT BETWEEN":
		if err := arity(3); err != nil {
			return nil, err
		}
		return &parser.BetweenExpr{X: args[0], Not: op == "NOT BETWEEN", Low: args[1], High: args[2]}, nil

	case "IN", "NOT IN":
		if len(args) < 2 {
			return nil, errors.Errorf("%s needs a value and at least one list item", op)
		}
		return &parser.InListExpr{X: args[0], Not: op == "NOT IN", List: args[1:]}, nil

	case "CASE":
		if len(args) > 1 {
			return nil, errors.Errorf("CASE takes at most 1 operand, got %d", len(args))
		}
		expr := &parser.CaseExpr{}
		if len(args) == 1 {
			expr.Operand = args[0]
		}
		for _, w := range e.When {
			cond, err := w.Cond.bind(columns)
			if err != nil {
				return nil, err
			}
			body, err := w.Then.bind(columns)
			if err != nil {
				return nil, err
			}
			expr.Blocks = append(expr.Blocks, &parser.CaseBlock{Condition: cond, Body: body})
		}
		if e.Else != nil {
			elseExpr, err := e.Else.bind(columns)
			if err != nil {
				return nil, err
			}
			expr.Else = elseExpr
		}
		return expr, nil
	}

	tok := parser.LookupOperator(op)
	if tok == parser.ILLEGAL {
		return nil, errors.Errorf("unknown operator '%s'", e.Op)
	}
	switch len(args) {
	case 1:
		return &parser.UnaryExpr{Op: tok, X: args[0]}, nil
	case 2:
		return &parser.BinaryExpr{X: args[0], Op: tok, Y: args[1]}, nil
	default:
		return nil, errors.Errorf("%s takes 1 or 2 arguments, got %d", op, len(args))
	}
}

func bindList(list []*FixtureExpr, columns map[string]*parser.ColumnRef) ([]parser.Expr, error) {
	exprs := make([]parser.Expr, len(list))
	for i, e := range list {
		x, err := e.bind(columns)
		if err != nil {
			return nil, err
		}
		exprs[i] = x
	}
	return exprs, nil
}

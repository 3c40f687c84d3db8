// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/featurebasedb/sqltype/sql3"
	"github.com/featurebasedb/sqltype/sql3/planner/types"
)

// PlanOpMap evaluates a list of expressions against each row of its child
// and appends the results to the row as columns #n, #n+1, ...
type PlanOpMap struct {
	ChildOp  types.PlanOperator
	MapExprs []types.PlanExpression
	warnings []string
}

var _ types.ContainsExpressions = (*PlanOpMap)(nil)

func NewPlanOpMap(expressions []types.PlanExpression, child types.PlanOperator) *PlanOpMap {
	return &PlanOpMap{
		ChildOp:  child,
		MapExprs: expressions,
		warnings: make([]string, 0),
	}
}

func (p *PlanOpMap) Schema() types.Schema {
	childSchema := p.ChildOp.Schema()
	s := make(types.Schema, 0, len(childSchema)+len(p.MapExprs))
	s = append(s, childSchema...)
	for i, e := range p.MapExprs {
		s = append(s, &types.PlannerColumn{
			ColumnName: fmt.Sprintf("#%d", len(childSchema)+i),
			Type:       e.Type(),
		})
	}
	return s
}

func (p *PlanOpMap) Iterator(ctx context.Context, row types.Row) (types.RowIterator, error) {
	i, err := p.ChildOp.Iterator(ctx, row)
	if err != nil {
		return nil, err
	}
	return &mapIterator{
		p:         p,
		childIter: i,
	}, nil
}

func (p *PlanOpMap) Children() []types.PlanOperator {
	return []types.PlanOperator{
		p.ChildOp,
	}
}

func (p *PlanOpMap) WithChildren(children ...types.PlanOperator) (types.PlanOperator, error) {
	if len(children) != 1 {
		return nil, sql3.NewErrInternalf("unexpected number of children '%d'", len(children))
	}
	return NewPlanOpMap(p.MapExprs, children[0]), nil
}

func (p *PlanOpMap) Plan() map[string]interface{} {
	result := make(map[string]interface{})
	result["_op"] = fmt.Sprintf("%T", p)
	sc := make([]string, 0)
	for _, e := range p.Schema() {
		sc = append(sc, fmt.Sprintf("'%s', '%s', '%s'", e.ColumnName, e.RelationName, e.Type.TypeDescription()))
	}
	result["_schema"] = sc
	result["child"] = p.ChildOp.Plan()
	ps := make([]interface{}, 0)
	for _, e := range p.MapExprs {
		ps = append(ps, e.Plan())
	}
	result["expressions"] = ps
	return result
}

// String renders the operator the way it appears in an explained plan, e.g.
// Map[#1 = i32todec(1) * 1.0 > 1.1].
func (p *PlanOpMap) String() string {
	offset := len(p.ChildOp.Schema())
	exprs := make([]string, len(p.MapExprs))
	for i, e := range p.MapExprs {
		exprs[i] = fmt.Sprintf("#%d = %s", offset+i, e.String())
	}
	return fmt.Sprintf("Map[%s]", strings.Join(exprs, ", "))
}

func (p *PlanOpMap) AddWarning(warning string) {
	p.warnings = append(p.warnings, warning)
}

func (p *PlanOpMap) Warnings() []string {
	var w []string
	w = append(w, p.warnings...)
	if p.ChildOp != nil {
		w = append(w, p.ChildOp.Warnings()...)
	}
	return w
}

func (p *PlanOpMap) Expressions() []types.PlanExpression {
	return p.MapExprs
}

func (p *PlanOpMap) WithExpressions(exprs ...types.PlanExpression) (types.PlanOperator, error) {
	if len(exprs) != len(p.MapExprs) {
		return nil, sql3.NewErrInternalf("unexpected number of exprs '%d'", len(exprs))
	}
	return NewPlanOpMap(exprs, p.ChildOp), nil
}

type mapIterator struct {
	p         *PlanOpMap
	childIter types.RowIterator
}

func (i *mapIterator) Next(ctx context.Context) (types.Row, error) {
	childRow, err := i.childIter.Next(ctx)
	if err != nil {
		return nil, err
	}

	mapped, err := ProjectRow(ctx, i.p.MapExprs, childRow)
	if err != nil {
		return nil, err
	}
	row := make(types.Row, 0, len(childRow)+len(mapped))
	row = append(row, childRow...)
	return append(row, mapped...), nil
}

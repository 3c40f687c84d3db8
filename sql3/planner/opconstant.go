// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"context"
	"fmt"

	"github.com/featurebasedb/sqltype/sql3"
	"github.com/featurebasedb/sqltype/sql3/planner/types"
)

// PlanOpConstant produces a fixed set of rows, like a VALUES list
type PlanOpConstant struct {
	schema   types.Schema
	rows     []types.Row
	warnings []string
}

func NewPlanOpConstant(schema types.Schema, rows []types.Row) *PlanOpConstant {
	return &PlanOpConstant{
		schema:   schema,
		rows:     rows,
		warnings: make([]string, 0),
	}
}

func (p *PlanOpConstant) Schema() types.Schema {
	return p.schema
}

func (p *PlanOpConstant) Iterator(ctx context.Context, row types.Row) (types.RowIterator, error) {
	for i, r := range p.rows {
		if len(r) != len(p.schema) {
			return nil, sql3.NewErrInternalf("row %d has %d values, expected %d", i, len(r), len(p.schema))
		}
	}
	return &constantIterator{
		rows: p.rows,
	}, nil
}

func (p *PlanOpConstant) Children() []types.PlanOperator {
	return []types.PlanOperator{}
}

func (p *PlanOpConstant) WithChildren(children ...types.PlanOperator) (types.PlanOperator, error) {
	return NewPlanOpConstant(p.schema, p.rows), nil
}

func (p *PlanOpConstant) Plan() map[string]interface{} {
	result := make(map[string]interface{})
	result["_op"] = fmt.Sprintf("%T", p)
	ps := make([]string, 0)
	for _, e := range p.Schema() {
		ps = append(ps, fmt.Sprintf("'%s', '%s', '%s'", e.ColumnName, e.RelationName, e.Type.TypeDescription()))
	}
	result["_schema"] = ps
	result["rows"] = len(p.rows)
	return result
}

func (p *PlanOpConstant) String() string {
	return ""
}

func (p *PlanOpConstant) AddWarning(warning string) {
	p.warnings = append(p.warnings, warning)
}

func (p *PlanOpConstant) Warnings() []string {
	return p.warnings
}

type constantIterator struct {
	rows []types.Row
	pos  int
}

func (i *constantIterator) Next(ctx context.Context) (types.Row, error) {
	if i.pos >= len(i.rows) {
		return nil, types.ErrNoMoreRows
	}
	row := i.rows[i.pos]
	i.pos++
	return row, nil
}

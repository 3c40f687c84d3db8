// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package test

import (
	"context"
	"testing"

	"github.com/featurebasedb/sqltype/sql3/parser"
	"github.com/featurebasedb/sqltype/sql3/planner"
	plannertypes "github.com/featurebasedb/sqltype/sql3/planner/types"
)

// MustQueryRows evaluates exprs against every row of src and returns the
// results as a slice of []interface{}, along with the columns. If optimize is
// set the plan is optimized before it is run.
func MustQueryRows(tb testing.TB, p *planner.ExecutionPlanner, src plannertypes.PlanOperator, exprs []parser.Expr, optimize bool) ([][]interface{}, []*plannertypes.PlannerColumn, error) {
	tb.Helper()
	ctx := context.Background()

	m, err := p.CompileMap(ctx, exprs, src)
	if err != nil {
		return nil, nil, err
	}

	// only the mapped columns are returned
	width := len(src.Schema())
	columns := make([]int, len(exprs))
	for i := range columns {
		columns[i] = width + i
	}
	var stmt plannertypes.PlanOperator
	stmt, err = planner.NewPlanOpProjectionOfColumns(columns, m)
	if err != nil {
		return nil, nil, err
	}

	if optimize {
		stmt, err = p.OptimizePlan(ctx, stmt)
		if err != nil {
			return nil, nil, err
		}
	}

	// get the plan so that code runs during testing
	_ = stmt.Plan()

	ocolumns := stmt.Schema()

	rowIter, err := stmt.Iterator(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	results := make([][]interface{}, 0)

	next, err := rowIter.Next(ctx)
	if err != nil && err != plannertypes.ErrNoMoreRows {
		return nil, nil, err
	}
	for err != plannertypes.ErrNoMoreRows {
		result := make([]interface{}, len(ocolumns))
		for i := range result {
			result[i] = next[i]
		}
		results = append(results, result)
		next, err = rowIter.Next(ctx)
		if err != nil && err != plannertypes.ErrNoMoreRows {
			return nil, nil, err
		}
	}
	return results, ocolumns, nil
}

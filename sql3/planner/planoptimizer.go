// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"context"

	"github.com/featurebasedb/sqltype/sql3/planner/types"
)

// a function prototype for all optimizer rules
type OptimizerFunc func(context.Context, *ExecutionPlanner, types.PlanOperator) (types.PlanOperator, bool, error)

// a list of optimizer rules; order can be important
var optimizerFunctions = []OptimizerFunc{
	// evaluate subtrees that depend on no column once, at plan time
	foldConstants,
}

// OptimizePlan executes a series of transforms on plan. The rewritten
// expressions keep their types, so the schema of the plan is unchanged.
func (p *ExecutionPlanner) OptimizePlan(ctx context.Context, plan types.PlanOperator) (types.PlanOperator, error) {
	result := plan
	for _, ofunc := range optimizerFunctions {
		op, same, err := ofunc(ctx, p, result)
		if err != nil {
			return nil, err
		}
		if !same {
			result = op
		}
	}
	return result, nil
}

// foldConstants replaces every expression whose children are all constants
// with the constant it evaluates to. An expression that fails to evaluate is
// left alone so the error surfaces when the plan runs.
func foldConstants(ctx context.Context, p *ExecutionPlanner, plan types.PlanOperator) (types.PlanOperator, bool, error) {
	return TransformPlanOp(plan, func(op types.PlanOperator) (types.PlanOperator, bool, error) {
		return TransformSinglePlanOpExpressions(op, func(e types.PlanExpression) (types.PlanExpression, bool, error) {
			switch e.(type) {
			case *constantPlanExpression, *columnRefPlanExpression, *caseBlockPlanExpression:
				return e, true, nil
			}
			for _, c := range e.Children() {
				if _, ok := c.(*constantPlanExpression); !ok {
					return e, true, nil
				}
			}
			value, err := e.Evaluate(nil)
			if err != nil {
				p.logger.Debugf("not folding %s: %s", e, err)
				return e, true, nil
			}
			return newConstantPlanExpression(value, e.Type()), false, nil
		})
	})
}

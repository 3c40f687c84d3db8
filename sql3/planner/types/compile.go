package types

import (
	"context"

	"github.com/featurebasedb/sqltype/sql3/parser"
)

// ExpressionCompiler resolves a bound expression and compiles it into a plan
// expression.
type ExpressionCompiler interface {
	CompileExpression(context.Context, parser.Expr) (PlanExpression, error)
}

// Ensure type implements interface.
var _ ExpressionCompiler = (*nopExpressionCompiler)(nil)

// nopExpressionCompiler is a no-op implementation of the ExpressionCompiler interface.
type nopExpressionCompiler struct{}

func NewNopExpressionCompiler() *nopExpressionCompiler {
	return &nopExpressionCompiler{}
}

func (p *nopExpressionCompiler) CompileExpression(ctx context.Context, expr parser.Expr) (PlanExpression, error) {
	return nil, nil
}

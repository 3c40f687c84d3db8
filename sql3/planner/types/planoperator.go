package types

import (
	"context"
	"fmt"

	"github.com/featurebasedb/sqltype/errors"
	"github.com/featurebasedb/sqltype/sql3/parser"
)

// ErrNoMoreRows is returned by a RowIterator when it is exhausted.
var ErrNoMoreRows = errors.New(errors.Code("ErrNoMoreRows"), "no more rows")

// Row is a single row of values. Values are int32, int64, decimal.Decimal,
// float64, string, bool, or nil for NULL.
type Row []interface{}

// RowIterator is an iterator that produces rows.
type RowIterator interface {
	Next(ctx context.Context) (Row, error)
}

// PlannerColumn is a column in the schema of a plan operator.
type PlannerColumn struct {
	ColumnName   string
	RelationName string
	Type         parser.ExprDataType
}

// Schema is the set of columns produced by a plan operator.
type Schema []*PlannerColumn

// PlanOperator is a node in an execution plan
type PlanOperator interface {
	fmt.Stringer

	// returns the schema of the rows produced by this operator
	Schema() Schema

	// returns an iterator over the rows produced by this operator
	Iterator(ctx context.Context, row Row) (RowIterator, error)

	// returns the child operators for this operator
	Children() []PlanOperator

	// creates a new operator with the children replaced
	WithChildren(children ...PlanOperator) (PlanOperator, error)

	// returns a map containing a rich description of this operator; intended to be
	// marshalled into json
	Plan() map[string]interface{}

	// warnings raised while planning this operator
	AddWarning(warning string)
	Warnings() []string
}

// ContainsExpressions is implemented by plan operators that hold expressions.
type ContainsExpressions interface {
	Expressions() []PlanExpression
	WithExpressions(exprs ...PlanExpression) (PlanOperator, error)
}

package types

import (
	"fmt"

	"github.com/featurebasedb/sqltype/sql3/parser"
)

// PlanExpression is an expression node for an execution plan
type PlanExpression interface {
	fmt.Stringer

	// evaluates expression based on current row
	Evaluate(currentRow []interface{}) (interface{}, error)

	// returns the type of the expression
	Type() parser.ExprDataType

	// returns the child expressions for this expression
	Children() []PlanExpression

	// creates a new expression node with the children replaced
	WithChildren(children ...PlanExpression) (PlanExpression, error)

	// returns a map containing a rich description of this expression; intended to be
	// marshalled into json
	Plan() map[string]interface{}
}

// interface to something that can be identified by a name
type IdentifiableByName interface {
	Name() string
}

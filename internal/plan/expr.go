// Package plan defines the immutable expression and plan-node trees the
// optimizer rewrites and the executors consume. The SQL binder that would
// normally produce these trees is out of scope; tests and cmd/server build
// them directly.
package plan

import (
	"strconv"

	"github.com/coraldb/coraldb/pkg/vector"
)

// Expr is any scalar expression node.
type Expr interface {
	String() string
}

// ColumnRef refers to a column of the child plan node's output schema by
// ordinal position.
type ColumnRef struct {
	Index int
}

func (c ColumnRef) String() string { return "#" + strconv.Itoa(c.Index) }

// Constant is a literal scalar value.
type Constant struct {
	Value any
}

func (c Constant) String() string { return "const" }

// ArrayLiteral is a literal constant array, e.g. ARRAY[1,2,3] -- the base
// vector a distance expression is matched against.
type ArrayLiteral struct {
	Values []float64
}

func (a ArrayLiteral) String() string { return "array" }

// VectorDistance computes the distance between Left and Right under
// Metric. In every query this core supports, one side is a ColumnRef to
// the indexed vector column and the other is an ArrayLiteral base vector.
type VectorDistance struct {
	Metric vector.Metric
	Left   Expr
	Right  Expr
}

func (v VectorDistance) String() string { return v.Metric.String() + "(" + v.Left.String() + "," + v.Right.String() + ")" }

package execution

import (
	"fmt"

	"github.com/coraldb/coraldb/internal/plan"
	"github.com/coraldb/coraldb/internal/storage"
	"github.com/coraldb/coraldb/pkg/vector"
)

// eval evaluates expr against tuple. The generic expression evaluator a
// real engine would have (covering arithmetic, casts, function calls) is
// out of scope; this core only ever needs to evaluate the handful of
// expression shapes the planner rule and the values/projection executors
// produce.
func eval(expr plan.Expr, tuple storage.Tuple) (storage.Value, error) {
	switch e := expr.(type) {
	case plan.ColumnRef:
		if e.Index < 0 || e.Index >= len(tuple) {
			return nil, fmt.Errorf("execution: column ref %d out of range for %d-column tuple", e.Index, len(tuple))
		}
		return tuple[e.Index], nil
	case plan.Constant:
		return e.Value, nil
	case plan.ArrayLiteral:
		v := make(vector.Vector, len(e.Values))
		copy(v, e.Values)
		return v, nil
	case plan.VectorDistance:
		left, err := evalVector(e.Left, tuple)
		if err != nil {
			return nil, err
		}
		right, err := evalVector(e.Right, tuple)
		if err != nil {
			return nil, err
		}
		return vector.ComputeDistance(left, right, e.Metric)
	default:
		return nil, fmt.Errorf("execution: unsupported expression %T", expr)
	}
}

func evalVector(expr plan.Expr, tuple storage.Tuple) (vector.Vector, error) {
	v, err := eval(expr, tuple)
	if err != nil {
		return nil, err
	}
	vec, ok := v.(vector.Vector)
	if !ok {
		return nil, fmt.Errorf("execution: expected a vector value, got %T", v)
	}
	return vec, nil
}

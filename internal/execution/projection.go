package execution

import (
	"github.com/coraldb/coraldb/internal/plan"
	"github.com/coraldb/coraldb/internal/storage"
)

// ProjectionExecutor evaluates Exprs over each tuple its child produces.
type ProjectionExecutor struct {
	node  *plan.ProjectionNode
	child Executor
}

func NewProjectionExecutor(node *plan.ProjectionNode, child Executor) *ProjectionExecutor {
	return &ProjectionExecutor{node: node, child: child}
}

func (e *ProjectionExecutor) Init() error {
	return e.child.Init()
}

func (e *ProjectionExecutor) Next() (storage.Tuple, storage.RID, bool, error) {
	tuple, rid, ok, err := e.child.Next()
	if err != nil || !ok {
		return nil, storage.RID{}, ok, err
	}

	out := make(storage.Tuple, len(e.node.Exprs))
	for i, expr := range e.node.Exprs {
		v, err := eval(expr, tuple)
		if err != nil {
			return nil, storage.RID{}, false, err
		}
		out[i] = v
	}
	return out, rid, true, nil
}

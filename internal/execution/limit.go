package execution

import (
	"github.com/coraldb/coraldb/internal/plan"
	"github.com/coraldb/coraldb/internal/storage"
)

// LimitExecutor passes through at most N of its child's tuples, in
// whatever order the child produces them -- unlike TopNExecutor, it makes
// no ordering claim of its own.
type LimitExecutor struct {
	node    *plan.LimitNode
	child   Executor
	emitted int
}

func NewLimitExecutor(node *plan.LimitNode, child Executor) *LimitExecutor {
	return &LimitExecutor{node: node, child: child}
}

func (e *LimitExecutor) Init() error {
	e.emitted = 0
	return e.child.Init()
}

func (e *LimitExecutor) Next() (storage.Tuple, storage.RID, bool, error) {
	if e.emitted >= e.node.N {
		return nil, storage.RID{}, false, nil
	}
	tuple, rid, ok, err := e.child.Next()
	if err != nil || !ok {
		return nil, storage.RID{}, false, err
	}
	e.emitted++
	return tuple, rid, true, nil
}

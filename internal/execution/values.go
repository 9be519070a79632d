package execution

import (
	"github.com/coraldb/coraldb/internal/plan"
	"github.com/coraldb/coraldb/internal/storage"
)

// ValuesExecutor streams literal rows, e.g. the source side of
// INSERT ... VALUES (...).
type ValuesExecutor struct {
	node   *plan.ValuesNode
	cursor int
}

func NewValuesExecutor(node *plan.ValuesNode) *ValuesExecutor {
	return &ValuesExecutor{node: node}
}

func (e *ValuesExecutor) Init() error {
	e.cursor = 0
	return nil
}

func (e *ValuesExecutor) Next() (storage.Tuple, storage.RID, bool, error) {
	if e.cursor >= len(e.node.Rows) {
		return nil, storage.RID{}, false, nil
	}
	tuple := e.node.Rows[e.cursor]
	rid := storage.RID{PageID: -1, SlotNum: int32(e.cursor)}
	e.cursor++
	return tuple, rid, true, nil
}

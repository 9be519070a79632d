package execution

import (
	"fmt"

	"github.com/coraldb/coraldb/internal/plan"
	"github.com/coraldb/coraldb/internal/storage"
)

// SeqScanExecutor walks a table heap in insertion order.
type SeqScanExecutor struct {
	ctx  *Context
	node *plan.SeqScanNode
	it   *storage.HeapIterator
}

func NewSeqScanExecutor(ctx *Context, node *plan.SeqScanNode) *SeqScanExecutor {
	return &SeqScanExecutor{ctx: ctx, node: node}
}

func (e *SeqScanExecutor) Init() error {
	table, ok := e.ctx.Catalog.GetTableByName(e.node.TableName)
	if !ok {
		return fmt.Errorf("execution: unknown table %q", e.node.TableName)
	}
	e.it = table.Heap.Iterator()
	return nil
}

func (e *SeqScanExecutor) Next() (storage.Tuple, storage.RID, bool, error) {
	tuple, rid, ok := e.it.Next()
	return tuple, rid, ok, nil
}

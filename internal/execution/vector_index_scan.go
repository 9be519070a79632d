package execution

import (
	"fmt"
	"time"

	"github.com/coraldb/coraldb/internal/index"
	"github.com/coraldb/coraldb/internal/plan"
	"github.com/coraldb/coraldb/internal/storage"
	"github.com/coraldb/coraldb/pkg/vector"
)

// VectorIndexScanExecutor is the one executor this repo's core actually
// cares about: it calls index.Scan for the RIDs nearest base_vector, then
// fetches each tuple from the table heap by RID, in the order Scan
// returned them.
type VectorIndexScanExecutor struct {
	ctx    *Context
	node   *plan.VectorIndexScanNode
	rids   []storage.RID
	cursor int
	heap   *storage.TableHeap
}

func NewVectorIndexScanExecutor(ctx *Context, node *plan.VectorIndexScanNode) *VectorIndexScanExecutor {
	return &VectorIndexScanExecutor{ctx: ctx, node: node}
}

func (e *VectorIndexScanExecutor) Init() error {
	table, ok := e.ctx.Catalog.GetTableByName(e.node.TableName)
	if !ok {
		return fmt.Errorf("execution: unknown table %q", e.node.TableName)
	}

	var kind index.Kind
	var scan func(vector.Vector, int) ([]storage.RID, error)
	for _, i := range e.ctx.Catalog.GetTableIndexes(e.node.TableName) {
		if i.Name == e.node.IndexName {
			kind = i.Kind
			scan = i.Index.Scan
			break
		}
	}
	if scan == nil {
		return fmt.Errorf("execution: unknown index %q on table %q", e.node.IndexName, e.node.TableName)
	}

	query := make(vector.Vector, len(e.node.BaseVector))
	copy(query, e.node.BaseVector)

	start := time.Now()
	rids, err := scan(query, e.node.Limit)
	e.recordScan(kind, start)
	if err != nil {
		return err
	}

	e.rids = rids
	e.cursor = 0
	e.heap = table.Heap
	return nil
}

func (e *VectorIndexScanExecutor) recordScan(kind index.Kind, start time.Time) {
	if e.ctx.Metrics == nil {
		return
	}
	e.ctx.Metrics.IndexScanTotal.WithLabelValues(kind.String()).Inc()
	e.ctx.Metrics.IndexScanLatency.WithLabelValues(kind.String()).Observe(time.Since(start).Seconds())
}

func (e *VectorIndexScanExecutor) Next() (storage.Tuple, storage.RID, bool, error) {
	if e.cursor >= len(e.rids) {
		return nil, storage.RID{}, false, nil
	}
	rid := e.rids[e.cursor]
	e.cursor++

	tuple, ok := e.heap.GetTuple(rid)
	if !ok {
		return nil, storage.RID{}, false, fmt.Errorf("execution: RID %v returned by index scan not found in heap", rid)
	}
	return tuple, rid, true, nil
}

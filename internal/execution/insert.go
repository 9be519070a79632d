package execution

import (
	"fmt"

	"github.com/coraldb/coraldb/internal/plan"
	"github.com/coraldb/coraldb/internal/storage"
	"github.com/coraldb/coraldb/pkg/vector"
)

// indexedColumn mirrors the planner's column-0 convention (see
// internal/optimizer): every vector index is assumed to be built over
// column 0 of the table it indexes.
const indexedColumn = 0

// InsertExecutor writes every tuple its child produces into the table
// heap, then pushes the indexed column into every vector index registered
// over the table, updating indexes inline rather than deferring to a
// separate index-maintenance pass.
type InsertExecutor struct {
	ctx      *Context
	node     *plan.InsertNode
	child    Executor
	done     bool
	inserted int
}

func NewInsertExecutor(ctx *Context, node *plan.InsertNode, child Executor) *InsertExecutor {
	return &InsertExecutor{ctx: ctx, node: node, child: child}
}

func (e *InsertExecutor) Init() error {
	e.done = false
	e.inserted = 0
	return e.child.Init()
}

// Next runs the insert to completion on the first call and returns a
// single tuple reporting how many rows were inserted, matching the
// original implementation's single-row "rows affected" result.
func (e *InsertExecutor) Next() (storage.Tuple, storage.RID, bool, error) {
	if e.done {
		return nil, storage.RID{}, false, nil
	}
	e.done = true

	table, ok := e.ctx.Catalog.GetTableByName(e.node.TableName)
	if !ok {
		return nil, storage.RID{}, false, fmt.Errorf("execution: unknown table %q", e.node.TableName)
	}
	indexes := e.ctx.Catalog.GetTableIndexes(e.node.TableName)

	for {
		tuple, _, ok, err := e.child.Next()
		if err != nil {
			return nil, storage.RID{}, false, err
		}
		if !ok {
			break
		}
		rid := table.Heap.InsertTuple(tuple)
		e.inserted++

		if len(tuple) > indexedColumn {
			if vec, ok := tuple[indexedColumn].(vector.Vector); ok {
				for _, idx := range indexes {
					if err := idx.Index.Insert(vec, rid); err != nil {
						return nil, storage.RID{}, false, err
					}
				}
			}
		}
	}

	return storage.Tuple{e.inserted}, storage.RID{}, true, nil
}

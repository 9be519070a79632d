package execution

import (
	"container/heap"

	"github.com/coraldb/coraldb/internal/plan"
	"github.com/coraldb/coraldb/internal/storage"
)

type scoredTuple struct {
	tuple storage.Tuple
	keys  []storage.Value
}

// topNHeap is a max-heap over the first differing sort key, so the current
// worst member of the retained set sits at the top and can be evicted once
// the heap grows past N -- the same shape as the HNSW result heap in
// package index.
type topNHeap struct {
	items []scoredTuple
	node  *plan.TopNNode
}

func (h *topNHeap) Len() int { return len(h.items) }
func (h *topNHeap) Less(i, j int) bool {
	less, _ := lessByScoredKeys(h.node.Keys, h.items[j].keys, h.items[i].keys)
	return less
}
func (h *topNHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *topNHeap) Push(x any)    { h.items = append(h.items, x.(scoredTuple)) }
func (h *topNHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[0 : n-1]
	return item
}

func lessByScoredKeys(keys []plan.OrderBy, a, b []storage.Value) (bool, error) {
	for i, k := range keys {
		cmp, err := compare(a[i], b[i])
		if err != nil {
			return false, err
		}
		if cmp == 0 {
			continue
		}
		if k.Desc {
			return cmp > 0, nil
		}
		return cmp < 0, nil
	}
	return false, nil
}

// TopNExecutor keeps only the N tuples with the smallest Keys, using a
// bounded max-heap instead of a full sort.
type TopNExecutor struct {
	node   *plan.TopNNode
	child  Executor
	result []storage.Tuple
	cursor int
}

func NewTopNExecutor(node *plan.TopNNode, child Executor) *TopNExecutor {
	return &TopNExecutor{node: node, child: child}
}

func (e *TopNExecutor) Init() error {
	if err := e.child.Init(); err != nil {
		return err
	}

	h := &topNHeap{node: e.node}
	heap.Init(h)

	for {
		tuple, _, ok, err := e.child.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		keys := make([]storage.Value, len(e.node.Keys))
		for i, k := range e.node.Keys {
			v, err := eval(k.Expr, tuple)
			if err != nil {
				return err
			}
			keys[i] = v
		}
		heap.Push(h, scoredTuple{tuple: tuple, keys: keys})
		if h.Len() > e.node.N {
			heap.Pop(h)
		}
	}

	e.result = make([]storage.Tuple, h.Len())
	for i := len(e.result) - 1; i >= 0; i-- {
		e.result[i] = heap.Pop(h).(scoredTuple).tuple
	}
	e.cursor = 0
	return nil
}

func (e *TopNExecutor) Next() (storage.Tuple, storage.RID, bool, error) {
	if e.cursor >= len(e.result) {
		return nil, storage.RID{}, false, nil
	}
	tuple := e.result[e.cursor]
	rid := storage.RID{PageID: -1, SlotNum: int32(e.cursor)}
	e.cursor++
	return tuple, rid, true, nil
}

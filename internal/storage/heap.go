package storage

import "sync"

// TableHeap is the append-only row store behind a table. It is an external
// collaborator of the vector-index subsystem (see package index) -- the
// planner and executors consume it through the RID contract only.
type TableHeap struct {
	mu     sync.RWMutex
	tuples []Tuple
	wal    *WAL
}

// NewTableHeap creates an empty heap. wal may be nil, in which case inserts
// are not durable -- used by tests and by tables created without a WAL
// path configured.
func NewTableHeap(wal *WAL) *TableHeap {
	return &TableHeap{wal: wal}
}

// InsertTuple appends a tuple to the heap and returns its RID. The page
// stays flat (one "page" per heap, slot = index) since pagination, pinning,
// and eviction belong to the buffer pool manager this repo doesn't model.
func (h *TableHeap) InsertTuple(t Tuple) RID {
	h.mu.Lock()
	defer h.mu.Unlock()

	slot := int32(len(h.tuples))
	h.tuples = append(h.tuples, t)
	rid := RID{PageID: 0, SlotNum: slot}

	if h.wal != nil {
		// Best-effort: a WAL write failure doesn't roll back the insert --
		// there's no transaction manager here to coordinate that with.
		_ = h.wal.WriteInsert(rid, t)
	}
	return rid
}

// GetTuple fetches the tuple stored at rid.
func (h *TableHeap) GetTuple(rid RID) (Tuple, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if rid.PageID != 0 || rid.SlotNum < 0 || int(rid.SlotNum) >= len(h.tuples) {
		return nil, false
	}
	return h.tuples[rid.SlotNum], true
}

// Iterator returns a sequential cursor over every tuple currently in the
// heap, in insertion order. This is the contract SeqScanExecutor consumes.
func (h *TableHeap) Iterator() *HeapIterator {
	h.mu.RLock()
	defer h.mu.RUnlock()
	snapshot := make([]Tuple, len(h.tuples))
	copy(snapshot, h.tuples)
	return &HeapIterator{tuples: snapshot}
}

// HeapIterator walks a snapshot of a heap's tuples taken at Iterator() time.
type HeapIterator struct {
	tuples []Tuple
	cursor int
}

func (it *HeapIterator) IsEnd() bool {
	return it.cursor >= len(it.tuples)
}

// Next returns the current tuple and RID and advances the cursor.
func (it *HeapIterator) Next() (Tuple, RID, bool) {
	if it.IsEnd() {
		return nil, RID{}, false
	}
	tuple := it.tuples[it.cursor]
	rid := RID{PageID: 0, SlotNum: int32(it.cursor)}
	it.cursor++
	return tuple, rid, true
}

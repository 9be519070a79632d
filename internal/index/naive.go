package index

import (
	"container/heap"
	"sync"

	"github.com/coraldb/coraldb/internal/storage"
	"github.com/coraldb/coraldb/pkg/vector"
)

// BruteForceIndex is a correctness oracle, not one of the two ANN
// structures this package exists to teach. It answers Scan exactly, by
// computing every distance, so tests can check IVF-Flat and HNSW recall
// against ground truth.
type BruteForceIndex struct {
	metric vector.Metric
	store  []Entry
	mu     sync.RWMutex
}

func NewBruteForceIndex(metric vector.Metric) *BruteForceIndex {
	return &BruteForceIndex{metric: metric}
}

func (n *BruteForceIndex) Build(data []Entry) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.store = append(n.store, data...)
	return nil
}

func (n *BruteForceIndex) Insert(vec vector.Vector, rid storage.RID) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.store = append(n.store, Entry{Vector: vec, RID: rid})
	return nil
}

func (n *BruteForceIndex) Scan(query vector.Vector, k int) ([]storage.RID, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	pq := &matchQueue{}
	heap.Init(pq)

	for _, e := range n.store {
		d, err := vector.ComputeDistance(query, e.Vector, n.metric)
		if err != nil {
			return nil, err
		}
		pq.pushWithLimit(scoredEntry{entry: e, dist: d}, k)
	}

	out := make([]storage.RID, pq.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(pq).(scoredEntry).entry.RID
	}
	return out, nil
}

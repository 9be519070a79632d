package index

import "container/heap"

// scoredEntry pairs an Entry with its distance to some query, for use in a
// bounded max-heap.
type scoredEntry struct {
	entry Entry
	dist  float64
}

// matchQueue is a max-heap of scoredEntry, used to keep the k
// smallest-distance entries seen during a full scan without sorting
// everything.
type matchQueue []scoredEntry

func (pq matchQueue) Len() int           { return len(pq) }
func (pq matchQueue) Less(i, j int) bool { return pq[i].dist > pq[j].dist }
func (pq matchQueue) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }

func (pq *matchQueue) Push(x any) {
	*pq = append(*pq, x.(scoredEntry))
}

func (pq *matchQueue) Pop() any {
	old := *pq
	n := len(*pq)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// pushWithLimit keeps the queue bounded to the k smallest-distance entries.
func (pq *matchQueue) pushWithLimit(item scoredEntry, k int) {
	heap.Push(pq, item)
	if len(*pq) > k {
		heap.Pop(pq)
	}
}

package index

import (
	"container/heap"
	"math"
	"sort"

	"github.com/coraldb/coraldb/pkg/vector"
)

type hnswCandidate struct {
	id   int
	dist float64
}

// resultHeap is a max-heap over distance: the top is always the current
// worst member of the result set, so it can be evicted in O(log n) once the
// set grows past ef.
type resultHeap []hnswCandidate

func (rq resultHeap) Len() int           { return len(rq) }
func (rq resultHeap) Less(i, j int) bool { return rq[i].dist > rq[j].dist }
func (rq resultHeap) Swap(i, j int)      { rq[i], rq[j] = rq[j], rq[i] }
func (rq *resultHeap) Push(x any)        { *rq = append(*rq, x.(hnswCandidate)) }
func (rq *resultHeap) Pop() any {
	old := *rq
	n := len(old)
	item := old[n-1]
	*rq = old[0 : n-1]
	return item
}

// searchLayer runs a bounded beam search over one layer starting from
// entryPoints. Candidates are expanded off a FIFO queue rather than a
// priority queue, so expansion order is insertion order, not nearest-first.
// That's a deliberate, lossy simplification: a real priority queue here
// would change which candidates get expanded before the early-termination
// check fires below, and therefore change recall -- this index's recall
// profile assumes the FIFO behavior.
//
// Returns up to ef ids, sorted ascending by distance to query.
func searchLayer(vertices []vector.Vector, l *hnswLayer, metric vector.Metric, query vector.Vector, ef int, entryPoints []int) ([]int, error) {
	visited := make(map[int]bool, ef*2)
	var queue []int

	results := &resultHeap{}
	heap.Init(results)

	minCandidateDist := math.Inf(1)
	maxResultDist := math.Inf(-1)

	consider := func(id int) error {
		d, err := vector.ComputeDistance(query, vertices[id], metric)
		if err != nil {
			return err
		}
		if d < minCandidateDist {
			minCandidateDist = d
		}
		heap.Push(results, hnswCandidate{id: id, dist: d})
		if results.Len() > ef {
			heap.Pop(results)
		}
		if results.Len() == ef {
			maxResultDist = (*results)[0].dist
		}
		return nil
	}

	for _, ep := range entryPoints {
		if visited[ep] {
			continue
		}
		visited[ep] = true
		queue = append(queue, ep)
		if err := consider(ep); err != nil {
			return nil, err
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, neighbor := range l.adjacency[curr] {
			if visited[neighbor] {
				continue
			}
			visited[neighbor] = true
			queue = append(queue, neighbor)
			if err := consider(neighbor); err != nil {
				return nil, err
			}
		}

		if results.Len() == ef && minCandidateDist > maxResultDist {
			break
		}
	}

	out := make([]hnswCandidate, results.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(results).(hnswCandidate)
	}
	ids := make([]int, len(out))
	for i, c := range out {
		ids[i] = c.id
	}
	return ids, nil
}

// selectNeighbors returns the m ids in candidates nearest to vertices[q]
// under metric. Ties are broken by id for a deterministic result within one
// call.
func selectNeighbors(vertices []vector.Vector, metric vector.Metric, q int, candidates []int, m int) ([]int, error) {
	scored := make([]hnswCandidate, 0, len(candidates))
	for _, c := range candidates {
		d, err := vector.ComputeDistance(vertices[q], vertices[c], metric)
		if err != nil {
			return nil, err
		}
		scored = append(scored, hnswCandidate{id: c, dist: d})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].dist != scored[j].dist {
			return scored[i].dist < scored[j].dist
		}
		return scored[i].id < scored[j].id
	})
	if m > len(scored) {
		m = len(scored)
	}
	out := make([]int, m)
	for i := 0; i < m; i++ {
		out[i] = scored[i].id
	}
	return out, nil
}

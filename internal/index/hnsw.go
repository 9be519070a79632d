package index

import (
	"math"
	"math/rand"

	"github.com/coraldb/coraldb/internal/storage"
	"github.com/coraldb/coraldb/pkg/vector"
)

// HNSWIndex is a multi-layer proximity graph. Vertices live in one owned
// slice shared across every layer; each layer only holds a subset of vertex
// ids and the adjacency restricted to that layer.
type HNSWIndex struct {
	metric vector.Metric
	dim    int

	m              int
	efConstruction int // beam width used while inserting, below the target level
	efSearch       int // beam width used while descending through higher layers on insert
	mMax           int
	mMax0          int
	mL             float64

	vertices []vector.Vector
	rids     []storage.RID
	layers   []*hnswLayer

	rng *rand.Rand
}

// hnswLayer is the subset of vertex ids present at this layer plus their
// adjacency. entryPoint is fixed at creation time to the id of the vertex
// that caused the layer to exist, and never moves afterward.
type hnswLayer struct {
	adjacency  map[int][]int
	mMax       int
	entryPoint int
}

func newHNSWLayer(mMax, entryPoint int) *hnswLayer {
	l := &hnswLayer{adjacency: make(map[int][]int), mMax: mMax, entryPoint: entryPoint}
	l.addVertex(entryPoint)
	return l
}

func (l *hnswLayer) hasVertex(id int) bool {
	_, ok := l.adjacency[id]
	return ok
}

func (l *hnswLayer) addVertex(id int) {
	if _, ok := l.adjacency[id]; !ok {
		l.adjacency[id] = nil
	}
}

func (l *hnswLayer) connect(a, b int) {
	if a == b {
		return
	}
	if !containsID(l.adjacency[a], b) {
		l.adjacency[a] = append(l.adjacency[a], b)
	}
	if !containsID(l.adjacency[b], a) {
		l.adjacency[b] = append(l.adjacency[b], a)
	}
}

func (l *hnswLayer) setNeighbors(id int, neighbors []int) {
	l.adjacency[id] = neighbors
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// NewHNSW constructs an HNSW index. Required options: "m", "ef_construction",
// "ef_search".
func NewHNSW(metric vector.Metric, dim int, opts Options) (*HNSWIndex, error) {
	m, err := opts.require(Hnsw, "m")
	if err != nil {
		return nil, err
	}
	efConstruction, err := opts.require(Hnsw, "ef_construction")
	if err != nil {
		return nil, err
	}
	efSearch, err := opts.require(Hnsw, "ef_search")
	if err != nil {
		return nil, err
	}
	if m < 1 {
		return nil, &ConfigurationError{Index: Hnsw, Option: "m"}
	}
	if efConstruction < 1 {
		return nil, &ConfigurationError{Index: Hnsw, Option: "ef_construction"}
	}
	if efSearch < 1 {
		return nil, &ConfigurationError{Index: Hnsw, Option: "ef_search"}
	}

	return &HNSWIndex{
		metric:         metric,
		dim:            dim,
		m:              m,
		efConstruction: efConstruction,
		efSearch:       efSearch,
		mMax:           m,
		mMax0:          m * m,
		mL:             1.0 / math.Log(float64(m)),
		rng:            rand.New(rand.NewSource(rand.Int63())),
	}, nil
}

// randomLevel samples u ~ Uniform(0,1) and returns floor(-ln(u)*mL), the
// level a freshly inserted vertex tops out at.
func (h *HNSWIndex) randomLevel() int {
	u := h.rng.Float64()
	for u == 0 {
		u = h.rng.Float64()
	}
	return int(math.Floor(-math.Log(u) * h.mL))
}

// Build inserts every entry one at a time. HNSW's graph depends on
// insertion order, so there is no bulk shortcut -- build is a loop over
// Insert.
func (h *HNSWIndex) Build(data []Entry) error {
	for _, e := range data {
		if err := h.Insert(e.Vector, e.RID); err != nil {
			return err
		}
	}
	return nil
}

package index

import (
	"github.com/coraldb/coraldb/internal/storage"
	"github.com/coraldb/coraldb/pkg/vector"
)

// Insert adds one vector to the graph.
//
//  1. The vector gets a fresh id and a target level drawn from randomLevel.
//  2. If the index was empty, the vector becomes layer 0's sole vertex and
//     its entry point; any layers the target level demands are grown on top
//     of it (step 5) and Insert returns.
//  3. Otherwise, starting from the top layer's entry point, descend down to
//     target_level+1, narrowing to a single nearest neighbor at each layer
//     via search_layer(ef_search) + select_neighbors(1).
//  4. From min(top_layer, target_level) down to 0: search_layer(ef_construction)
//     for candidates, select_neighbors(m) to pick this vertex's edges at that
//     layer, connect both directions, and prune any neighbor that now
//     exceeds its layer's degree cap (m_max at layer>0, m_max0 at layer 0)
//     back down to cap via select_neighbors on that neighbor's own edge set.
//  5. Grow new layers on top, each containing only this vertex, until the
//     layer count exceeds target_level.
func (h *HNSWIndex) Insert(vec vector.Vector, rid storage.RID) error {
	if len(h.vertices) > 0 && len(vec) != len(h.vertices[0]) {
		return &PreconditionViolation{Reason: vector.ErrDimensionMismatch.Error()}
	}
	id := len(h.vertices)
	h.vertices = append(h.vertices, vec)
	h.rids = append(h.rids, rid)

	targetLevel := h.randomLevel()

	if id == 0 {
		h.layers = append(h.layers, newHNSWLayer(h.mMax0, id))
		return h.growLayers(targetLevel, id)
	}

	topLevel := len(h.layers) - 1
	ep := []int{h.layers[topLevel].entryPoint}

	for l := topLevel; l > targetLevel; l-- {
		found, err := searchLayer(h.vertices, h.layers[l], h.metric, vec, h.efSearch, ep)
		if err != nil {
			return err
		}
		nearest, err := selectNeighbors(h.vertices, h.metric, id, found, 1)
		if err != nil {
			return err
		}
		ep = nearest
	}

	insertTop := topLevel
	if targetLevel < insertTop {
		insertTop = targetLevel
	}

	for l := insertTop; l >= 0; l-- {
		layer := h.layers[l]
		layer.addVertex(id)

		found, err := searchLayer(h.vertices, layer, h.metric, vec, h.efConstruction, ep)
		if err != nil {
			return err
		}

		mCap := h.mMax
		if l == 0 {
			mCap = h.mMax0
		}
		chosen, err := selectNeighbors(h.vertices, h.metric, id, found, h.m)
		if err != nil {
			return err
		}

		for _, n := range chosen {
			layer.connect(id, n)
			if err := h.pruneIfOverCapacity(layer, n, mCap); err != nil {
				return err
			}
		}
		if err := h.pruneIfOverCapacity(layer, id, mCap); err != nil {
			return err
		}

		ep = found
	}

	return h.growLayers(targetLevel, id)
}

// pruneIfOverCapacity trims id's neighbor list back down to cap by keeping
// only its cap nearest neighbors under the layer's vertices.
func (h *HNSWIndex) pruneIfOverCapacity(l *hnswLayer, id, degreeCap int) error {
	neighbors := l.adjacency[id]
	if len(neighbors) <= degreeCap {
		return nil
	}
	kept, err := selectNeighbors(h.vertices, h.metric, id, neighbors, degreeCap)
	if err != nil {
		return err
	}
	l.setNeighbors(id, kept)
	return nil
}

// growLayers appends new layers, each containing only id as its sole vertex
// and entry point, until the layer count covers targetLevel.
func (h *HNSWIndex) growLayers(targetLevel, id int) error {
	for len(h.layers)-1 < targetLevel {
		h.layers = append(h.layers, newHNSWLayer(h.mMax, id))
	}
	return nil
}

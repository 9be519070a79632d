package index

import (
	"github.com/coraldb/coraldb/internal/storage"
	"github.com/coraldb/coraldb/pkg/vector"
)

// Scan returns up to k nearest RIDs to query.
//
//  1. Start from the top layer's entry point.
//  2. Descend from the top layer down to layer 1, each time narrowing the
//     entry point via search_layer(query, k, ep) -- using k itself as the
//     beam width at every layer, not ef_search. ef_search only governs the
//     descent performed during Insert.
//  3. At layer 0, run search_layer(query, k, ep) one more time.
//  4. Map the resulting ids to RIDs and return them, closest first.
func (h *HNSWIndex) Scan(query vector.Vector, k int) ([]storage.RID, error) {
	if len(h.layers) == 0 {
		return []storage.RID{}, nil
	}

	topLevel := len(h.layers) - 1
	ep := []int{h.layers[topLevel].entryPoint}

	for l := topLevel; l > 0; l-- {
		found, err := searchLayer(h.vertices, h.layers[l], h.metric, query, k, ep)
		if err != nil {
			return nil, &PreconditionViolation{Reason: err.Error()}
		}
		ep = found
	}

	found, err := searchLayer(h.vertices, h.layers[0], h.metric, query, k, ep)
	if err != nil {
		return nil, &PreconditionViolation{Reason: err.Error()}
	}

	if k > len(found) {
		k = len(found)
	}
	out := make([]storage.RID, k)
	for i := 0; i < k; i++ {
		out[i] = h.rids[found[i]]
	}
	return out, nil
}

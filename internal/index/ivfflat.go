package index

import (
	"math"
	"math/rand"
	"sort"

	"github.com/coraldb/coraldb/internal/storage"
	"github.com/coraldb/coraldb/pkg/vector"
)

// IVFFlatIndex partitions vectors into `lists` clusters via k-means and, at
// query time, brute-forces within the `probe_lists` buckets closest to the
// query.
//
// Clustering always runs under L2, independent of the index's configured
// metric: the iterative mean update Lloyd's algorithm performs is only
// meaningful for L2. Recall under InnerProduct or CosineSimilarity
// therefore depends on how geometrically similar those metrics are to L2
// for the dataset at hand. This is a known, intentional limitation, not a
// bug -- see Build.
type IVFFlatIndex struct {
	metric vector.Metric
	dim    int

	lists      int
	probeLists int

	centroids []vector.Vector
	buckets   [][]Entry

	rng *rand.Rand
}

const ivfflatLloydIterations = 500

// NewIVFFlat constructs an IVF-Flat index. Required options: "lists" (>=1)
// and "probe_lists" (1 <= probe_lists <= lists).
func NewIVFFlat(metric vector.Metric, dim int, opts Options) (*IVFFlatIndex, error) {
	lists, err := opts.require(IvfFlat, "lists")
	if err != nil {
		return nil, err
	}
	probeLists, err := opts.require(IvfFlat, "probe_lists")
	if err != nil {
		return nil, err
	}
	if lists < 1 {
		return nil, &ConfigurationError{Index: IvfFlat, Option: "lists"}
	}
	if probeLists < 1 || probeLists > lists {
		return nil, &ConfigurationError{Index: IvfFlat, Option: "probe_lists"}
	}
	return &IVFFlatIndex{
		metric:     metric,
		dim:        dim,
		lists:      lists,
		probeLists: probeLists,
		rng:        rand.New(rand.NewSource(rand.Int63())),
	}, nil
}

// Build runs Lloyd's algorithm to find `lists` centroids, then buckets
// every vector under its nearest centroid. If there isn't enough data to
// seed `lists` distinct centroids, the index is left empty -- every
// subsequent Scan returns no results, per the design's empty-build rule.
func (idx *IVFFlatIndex) Build(data []Entry) error {
	if len(data) < idx.lists {
		return nil
	}

	idx.buckets = make([][]Entry, idx.lists)
	idx.centroids = idx.randomSample(data, idx.lists)

	for iter := 0; iter < ivfflatLloydIterations; iter++ {
		idx.centroids = recomputeCentroids(data, idx.centroids)
	}

	for _, e := range data {
		c := nearestCentroidL2(e.Vector, idx.centroids)
		idx.buckets[c] = append(idx.buckets[c], e)
	}
	return nil
}

// randomSample picks `n` distinct vectors from data without replacement by
// shuffling an index array, per the design.
func (idx *IVFFlatIndex) randomSample(data []Entry, n int) []vector.Vector {
	perm := idx.rng.Perm(len(data))
	out := make([]vector.Vector, n)
	for i := 0; i < n; i++ {
		out[i] = append(vector.Vector(nil), data[perm[i]].Vector...)
	}
	return out
}

// nearestCentroidL2 returns the index of the centroid closest to vec under
// L2. Clustering is always L2 regardless of the index's configured
// metric -- see the IVFFlatIndex doc comment.
//
// The reference implementation this repo is modeled on initializes its
// running minimum to zero and compares with `<`, which actually returns
// the *farthest* centroid whenever any distance is positive. That bug is
// deliberately not reproduced here: ties and correctness matter more than
// bug-for-bug parity, and every invariant in this package assumes true
// nearest-centroid assignment.
func nearestCentroidL2(vec vector.Vector, centroids []vector.Vector) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		d, err := vector.ComputeDistance(vec, c, vector.L2)
		if err != nil {
			continue
		}
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// recomputeCentroids assigns every point to its nearest current centroid
// and replaces each centroid with the mean of its assigned points. A
// centroid with zero assigned points keeps its previous position rather
// than becoming NaN.
func recomputeCentroids(data []Entry, centroids []vector.Vector) []vector.Vector {
	dim := len(centroids[0])
	sums := make([]vector.Vector, len(centroids))
	counts := make([]int, len(centroids))
	for i := range sums {
		sums[i] = make(vector.Vector, dim)
	}

	for _, e := range data {
		c := nearestCentroidL2(e.Vector, centroids)
		for d := 0; d < dim; d++ {
			sums[c][d] += e.Vector[d]
		}
		counts[c]++
	}

	next := make([]vector.Vector, len(centroids))
	for i := range centroids {
		if counts[i] == 0 {
			next[i] = centroids[i]
			continue
		}
		mean := make(vector.Vector, dim)
		for d := 0; d < dim; d++ {
			mean[d] = sums[i][d] / float64(counts[i])
		}
		next[i] = mean
	}
	return next
}

// Insert finds the nearest centroid under L2 and appends to its bucket.
// There is no re-clustering.
func (idx *IVFFlatIndex) Insert(vec vector.Vector, rid storage.RID) error {
	if len(idx.centroids) == 0 {
		return nil
	}
	if len(vec) != len(idx.centroids[0]) {
		return &PreconditionViolation{Reason: vector.ErrDimensionMismatch.Error()}
	}
	c := nearestCentroidL2(vec, idx.centroids)
	idx.buckets[c] = append(idx.buckets[c], Entry{Vector: vec, RID: rid})
	return nil
}

// Scan probes the `probe_lists` centroids closest to query under L2,
// collects every vector in those buckets, ranks the candidates under the
// index's configured metric, and returns the closest k RIDs.
func (idx *IVFFlatIndex) Scan(query vector.Vector, k int) ([]storage.RID, error) {
	if len(idx.centroids) == 0 {
		return []storage.RID{}, nil
	}

	type scoredCentroid struct {
		idx  int
		dist float64
	}
	ranked := make([]scoredCentroid, len(idx.centroids))
	for i, c := range idx.centroids {
		d, err := vector.ComputeDistance(query, c, vector.L2)
		if err != nil {
			return nil, &PreconditionViolation{Reason: err.Error()}
		}
		ranked[i] = scoredCentroid{idx: i, dist: d}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].dist < ranked[j].dist })

	probe := idx.probeLists
	if probe > len(ranked) {
		probe = len(ranked)
	}

	type candidate struct {
		rid  storage.RID
		dist float64
	}
	var candidates []candidate
	for _, sc := range ranked[:probe] {
		for _, e := range idx.buckets[sc.idx] {
			d, err := vector.ComputeDistance(query, e.Vector, idx.metric)
			if err != nil {
				return nil, &PreconditionViolation{Reason: err.Error()}
			}
			candidates = append(candidates, candidate{rid: e.RID, dist: d})
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })

	if k > len(candidates) {
		k = len(candidates)
	}
	out := make([]storage.RID, k)
	for i := 0; i < k; i++ {
		out[i] = candidates[i].rid
	}
	return out, nil
}

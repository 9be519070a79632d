package optimizer

import (
	"github.com/coraldb/coraldb/internal/catalog"
	"github.com/coraldb/coraldb/internal/index"
	"github.com/coraldb/coraldb/internal/plan"
	"github.com/coraldb/coraldb/pkg/vector"
)

// indexedColumn is the column ordinal this repo assumes every vector index
// is built over. A production-grade rewrite would instead consult the
// matched index's KeySchema to locate the column by id; this repo keeps
// the distilled convention of column 0.
const indexedColumn = 0

// matchVectorIndex inspects a single-key ORDER BY list and, if the key is
// a distance expression between column 0 and a constant array, returns the
// metric and base vector to search for.
//
// The base vector is taken verbatim from whichever side of the expression
// is the ArrayLiteral -- not by indexing into a flattened child list, which
// is how a once-common off-by-one bug in this rewrite used to grab the
// wrong operand.
func matchVectorIndex(keys []plan.OrderBy) (vector.Metric, []float64, bool) {
	if len(keys) != 1 {
		return 0, nil, false
	}
	dist, ok := keys[0].Expr.(plan.VectorDistance)
	if !ok {
		return 0, nil, false
	}

	if col, ok := dist.Left.(plan.ColumnRef); ok && col.Index == indexedColumn {
		if arr, ok := dist.Right.(plan.ArrayLiteral); ok {
			return dist.Metric, arr.Values, true
		}
	}
	if col, ok := dist.Right.(plan.ColumnRef); ok && col.Index == indexedColumn {
		if arr, ok := dist.Left.(plan.ArrayLiteral); ok {
			return dist.Metric, arr.Values, true
		}
	}
	return 0, nil, false
}

// selectIndex picks a matching index per vector_index_match_method:
// "" / "default" picks the first match, "hnsw"/"ivfflat" restrict the
// kind, "none" forces no match.
func selectIndex(candidates []*catalog.IndexInfo, metric vector.Metric, method string) (*catalog.IndexInfo, bool) {
	if method == "none" {
		return nil, false
	}
	for _, c := range candidates {
		if c.Metric != metric {
			continue
		}
		switch method {
		case "", "default":
			return c, true
		case "hnsw":
			if c.Kind == index.Hnsw {
				return c, true
			}
		case "ivfflat":
			if c.Kind == index.IvfFlat {
				return c, true
			}
		}
	}
	return nil, false
}

// applyTopNAsVectorIndexScan is Rule B: TopN(order_by, n) over a SeqScan,
// or a Projection over a SeqScan, rewrites to VectorIndexScan when order_by
// is a single distance-expression key with a matching catalog index.
func (o *Optimizer) applyTopNAsVectorIndexScan(node plan.Node) plan.Node {
	topN, ok := node.(*plan.TopNNode)
	if !ok {
		return node
	}

	var proj *plan.ProjectionNode
	scan, ok := topN.Child.(*plan.SeqScanNode)
	if !ok {
		proj, ok = topN.Child.(*plan.ProjectionNode)
		if !ok {
			return node
		}
		scan, ok = proj.Child.(*plan.SeqScanNode)
		if !ok {
			return node
		}
	}

	metric, baseVector, ok := matchVectorIndex(topN.Keys)
	if !ok {
		return node
	}

	candidates := o.Catalog.GetTableIndexes(scan.TableName)
	idx, ok := selectIndex(candidates, metric, o.VectorIndexMatchMethod)
	if !ok {
		return node
	}

	vscan := &plan.VectorIndexScanNode{
		TableName:  scan.TableName,
		TableOID:   scan.TableOID,
		IndexName:  idx.Name,
		IndexOID:   idx.OID,
		BaseVector: baseVector,
		Limit:      topN.N,
		Out:        scan.Out,
	}

	if proj != nil {
		return &plan.ProjectionNode{Exprs: proj.Exprs, Child: vscan, Out: proj.Out}
	}
	return vscan
}

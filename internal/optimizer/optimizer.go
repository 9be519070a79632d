// Package optimizer implements the two bottom-up plan rewrites this repo
// exists to teach: SortLimit-as-TopN, and TopN-as-VectorIndexScan. Every
// other optimizer pass a real engine would run (predicate pushdown, join
// reordering, ...) is out of scope -- this is a two-rule pipeline, not a
// general rule-based optimizer.
package optimizer

import (
	"github.com/coraldb/coraldb/internal/catalog"
	"github.com/coraldb/coraldb/internal/plan"
)

// Optimizer applies the rewrite rules against a catalog, with index
// selection parameterized by the per-session vector_index_match_method
// variable.
type Optimizer struct {
	Catalog                *catalog.Catalog
	VectorIndexMatchMethod string
}

// Optimize rewrites node bottom-up: children are optimized first, then
// Rule A and Rule B are attempted on the resulting node, in that order.
func (o *Optimizer) Optimize(node plan.Node) plan.Node {
	node = o.optimizeChildren(node)
	node = o.applySortLimitAsTopN(node)
	node = o.applyTopNAsVectorIndexScan(node)
	return node
}

func (o *Optimizer) optimizeChildren(node plan.Node) plan.Node {
	switch n := node.(type) {
	case *plan.ProjectionNode:
		child := o.Optimize(n.Child)
		return &plan.ProjectionNode{Exprs: n.Exprs, Child: child, Out: n.Out}
	case *plan.SortNode:
		child := o.Optimize(n.Child)
		return &plan.SortNode{Keys: n.Keys, Child: child}
	case *plan.LimitNode:
		child := o.Optimize(n.Child)
		return &plan.LimitNode{N: n.N, Child: child}
	case *plan.TopNNode:
		child := o.Optimize(n.Child)
		return &plan.TopNNode{Keys: n.Keys, N: n.N, Child: child}
	case *plan.InsertNode:
		child := o.Optimize(n.Child)
		return &plan.InsertNode{TableName: n.TableName, Child: child}
	default:
		return node
	}
}

// applySortLimitAsTopN is Rule A: Limit(Sort(order_by)) -> TopN(order_by, n).
// Any other shape passes through unchanged.
func (o *Optimizer) applySortLimitAsTopN(node plan.Node) plan.Node {
	limit, ok := node.(*plan.LimitNode)
	if !ok {
		return node
	}
	sort, ok := limit.Child.(*plan.SortNode)
	if !ok {
		return node
	}
	return &plan.TopNNode{Keys: sort.Keys, N: limit.N, Child: sort.Child}
}

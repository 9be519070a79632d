// Package execution implements the iterator-model executors that drive a
// plan tree. Per the vector-index core's scope, every executor here except
// VectorIndexScanExecutor is an external collaborator with a fixed
// contract -- simple, complete, but not where this repo's interesting
// engineering lives.
package execution

import (
	"fmt"

	"github.com/coraldb/coraldb/internal/catalog"
	"github.com/coraldb/coraldb/internal/metrics"
	"github.com/coraldb/coraldb/internal/plan"
	"github.com/coraldb/coraldb/internal/storage"
)

// Executor is the Volcano-model contract: Init resets iteration state,
// Next produces one tuple at a time until it returns ok=false.
type Executor interface {
	Init() error
	Next() (storage.Tuple, storage.RID, bool, error)
}

// Context bundles the collaborators every executor needs to resolve a
// table or index by name. Metrics may be nil, e.g. in tests that don't
// care about instrumentation.
type Context struct {
	Catalog *catalog.Catalog
	Metrics *metrics.Registry
}

// Build constructs the executor tree for a plan tree, mirroring
// ExecutorFactory in the BusTub-style original this repo is modeled on.
func Build(ctx *Context, node plan.Node) (Executor, error) {
	switch n := node.(type) {
	case *plan.SeqScanNode:
		return NewSeqScanExecutor(ctx, n), nil
	case *plan.ValuesNode:
		return NewValuesExecutor(n), nil
	case *plan.ProjectionNode:
		child, err := Build(ctx, n.Child)
		if err != nil {
			return nil, err
		}
		return NewProjectionExecutor(n, child), nil
	case *plan.SortNode:
		child, err := Build(ctx, n.Child)
		if err != nil {
			return nil, err
		}
		return NewSortExecutor(n, child), nil
	case *plan.LimitNode:
		child, err := Build(ctx, n.Child)
		if err != nil {
			return nil, err
		}
		return NewLimitExecutor(n, child), nil
	case *plan.TopNNode:
		child, err := Build(ctx, n.Child)
		if err != nil {
			return nil, err
		}
		return NewTopNExecutor(n, child), nil
	case *plan.VectorIndexScanNode:
		return NewVectorIndexScanExecutor(ctx, n), nil
	case *plan.InsertNode:
		child, err := Build(ctx, n.Child)
		if err != nil {
			return nil, err
		}
		return NewInsertExecutor(ctx, n, child), nil
	default:
		return nil, fmt.Errorf("execution: no executor for plan node %T", node)
	}
}

// Run drains an executor fully, returning every tuple it produces. Used by
// the session layer and by tests that don't need streaming.
func Run(exec Executor) ([]storage.Tuple, error) {
	if err := exec.Init(); err != nil {
		return nil, err
	}
	var out []storage.Tuple
	for {
		tuple, _, ok, err := exec.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, tuple)
	}
}

package execution

import (
	"fmt"
	"sort"

	"github.com/coraldb/coraldb/internal/plan"
	"github.com/coraldb/coraldb/internal/storage"
)

// SortExecutor fully materializes its child and returns tuples in Keys
// order. There is no external-merge fallback -- this core assumes
// in-memory datasets, matching the rest of the package.
type SortExecutor struct {
	node   *plan.SortNode
	child  Executor
	tuples []storage.Tuple
	cursor int
}

func NewSortExecutor(node *plan.SortNode, child Executor) *SortExecutor {
	return &SortExecutor{node: node, child: child}
}

func (e *SortExecutor) Init() error {
	if err := e.child.Init(); err != nil {
		return err
	}
	e.tuples = nil
	for {
		tuple, _, ok, err := e.child.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		e.tuples = append(e.tuples, tuple)
	}

	var sortErr error
	sort.SliceStable(e.tuples, func(i, j int) bool {
		less, err := lessByKeys(e.node.Keys, e.tuples[i], e.tuples[j])
		if err != nil {
			sortErr = err
		}
		return less
	})
	e.cursor = 0
	return sortErr
}

func (e *SortExecutor) Next() (storage.Tuple, storage.RID, bool, error) {
	if e.cursor >= len(e.tuples) {
		return nil, storage.RID{}, false, nil
	}
	tuple := e.tuples[e.cursor]
	rid := storage.RID{PageID: -1, SlotNum: int32(e.cursor)}
	e.cursor++
	return tuple, rid, true, nil
}

// lessByKeys evaluates each OrderBy key against a and b in turn, returning
// at the first key that distinguishes them.
func lessByKeys(keys []plan.OrderBy, a, b storage.Tuple) (bool, error) {
	for _, k := range keys {
		av, err := eval(k.Expr, a)
		if err != nil {
			return false, err
		}
		bv, err := eval(k.Expr, b)
		if err != nil {
			return false, err
		}
		cmp, err := compare(av, bv)
		if err != nil {
			return false, err
		}
		if cmp == 0 {
			continue
		}
		if k.Desc {
			return cmp > 0, nil
		}
		return cmp < 0, nil
	}
	return false, nil
}

// compare orders two scalar values, returning <0, 0, >0. It only needs to
// handle the value kinds this repo's expressions actually produce:
// float64 (distances) and, for completeness, ints and strings.
func compare(a, b storage.Value) (int, error) {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return 0, fmt.Errorf("execution: cannot compare float64 to %T", b)
		}
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	case int:
		bv, ok := b.(int)
		if !ok {
			return 0, fmt.Errorf("execution: cannot compare int to %T", b)
		}
		return av - bv, nil
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, fmt.Errorf("execution: cannot compare string to %T", b)
		}
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, fmt.Errorf("execution: unorderable value type %T", a)
	}
}

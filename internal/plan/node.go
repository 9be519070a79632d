package plan

import (
	"github.com/google/uuid"

	"github.com/coraldb/coraldb/internal/storage"
)

// Node is any plan tree node. Plan trees are immutable -- rewrites build
// new nodes rather than mutating existing ones.
type Node interface {
	Schema() storage.Schema
	Children() []Node
}

// OrderBy is one ORDER BY key: an expression plus sort direction.
type OrderBy struct {
	Expr Expr
	Desc bool
}

// SeqScanNode scans every tuple of a table in heap order.
type SeqScanNode struct {
	TableName string
	TableOID  uuid.UUID
	Out       storage.Schema
}

func (n *SeqScanNode) Schema() storage.Schema { return n.Out }
func (n *SeqScanNode) Children() []Node       { return nil }

// ValuesNode is a literal row source, e.g. the source of INSERT ... VALUES.
type ValuesNode struct {
	Rows []storage.Tuple
	Out  storage.Schema
}

func (n *ValuesNode) Schema() storage.Schema { return n.Out }
func (n *ValuesNode) Children() []Node       { return nil }

// ProjectionNode evaluates Exprs over each child tuple.
type ProjectionNode struct {
	Exprs []Expr
	Child Node
	Out   storage.Schema
}

func (n *ProjectionNode) Schema() storage.Schema { return n.Out }
func (n *ProjectionNode) Children() []Node       { return []Node{n.Child} }

// SortNode totally orders its child's tuples by Keys.
type SortNode struct {
	Keys  []OrderBy
	Child Node
}

func (n *SortNode) Schema() storage.Schema { return n.Child.Schema() }
func (n *SortNode) Children() []Node       { return []Node{n.Child} }

// LimitNode returns only the first N tuples of its child.
type LimitNode struct {
	N     int
	Child Node
}

func (n *LimitNode) Schema() storage.Schema { return n.Child.Schema() }
func (n *LimitNode) Children() []Node       { return []Node{n.Child} }

// TopNNode returns the N tuples with the smallest Keys, without fully
// sorting the rest -- the fusion of Sort+Limit that Rule A introduces.
type TopNNode struct {
	Keys  []OrderBy
	N     int
	Child Node
}

func (n *TopNNode) Schema() storage.Schema { return n.Child.Schema() }
func (n *TopNNode) Children() []Node       { return []Node{n.Child} }

// VectorIndexScanNode replaces a TopN(distance-order SeqScan) once Rule B
// finds a compatible index: it asks the index directly for the Limit
// nearest RIDs to BaseVector instead of scanning the whole table.
type VectorIndexScanNode struct {
	TableName  string
	TableOID   uuid.UUID
	IndexName  string
	IndexOID   uuid.UUID
	BaseVector []float64
	Limit      int
	Out        storage.Schema
}

func (n *VectorIndexScanNode) Schema() storage.Schema { return n.Out }
func (n *VectorIndexScanNode) Children() []Node       { return nil }

// InsertNode writes every tuple produced by Child into Table's heap (and,
// per the insert executor, into every vector index registered over Table).
type InsertNode struct {
	TableName string
	Child     Node
}

func (n *InsertNode) Schema() storage.Schema { return n.Child.Schema() }
func (n *InsertNode) Children() []Node       { return []Node{n.Child} }

package execution

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coraldb/coraldb/internal/catalog"
	"github.com/coraldb/coraldb/internal/index"
	"github.com/coraldb/coraldb/internal/plan"
	"github.com/coraldb/coraldb/internal/storage"
	"github.com/coraldb/coraldb/pkg/vector"
)

func newTestCatalog(t *testing.T, kind index.Kind, metric vector.Metric, opts index.Options) (*catalog.Catalog, *Context) {
	c := catalog.New()
	schema := storage.Schema{Columns: []storage.Column{{Name: "v", Dim: 3}}}
	c.CreateTable("t", schema, nil)
	_, err := c.CreateIndex("t", "t_v_idx", kind, metric, "v", 3, opts)
	require.NoError(t, err)
	return c, &Context{Catalog: c}
}

func insertVectors(t *testing.T, ctx *Context, vectors []vector.Vector) {
	rows := make([]storage.Tuple, len(vectors))
	for i, v := range vectors {
		rows[i] = storage.Tuple{v}
	}
	ins := &plan.InsertNode{
		TableName: "t",
		Child:     &plan.ValuesNode{Rows: rows},
	}
	exec, err := Build(ctx, ins)
	require.NoError(t, err)
	_, err = Run(exec)
	require.NoError(t, err)
}

// S1: IVF-Flat, L2, lists=2, probe_lists=2, index built from three vectors;
// scanning near (1,0,0) returns the two nearby points first.
func TestVectorIndexScan_S1_IVFFlatScanOrdersByDistance(t *testing.T) {
	c, ctx := newTestCatalog(t, index.IvfFlat, vector.L2, index.Options{"lists": 2, "probe_lists": 2})
	table, ok := c.GetTableByName("t")
	require.True(t, ok)
	entries := make([]index.Entry, 0, 3)
	for _, v := range []vector.Vector{{1, 0, 0}, {0, 1, 0}, {10, 10, 10}} {
		entries = append(entries, index.Entry{Vector: v, RID: table.Heap.InsertTuple(storage.Tuple{v})})
	}
	require.NoError(t, c.GetTableIndexes("t")[0].Index.Build(entries))

	node := &plan.VectorIndexScanNode{
		TableName: "t",
		IndexName: "t_v_idx",
		BaseVector: []float64{1, 0, 0},
		Limit:      2,
		Out:        storage.Schema{Columns: []storage.Column{{Name: "v", Dim: 3}}},
	}
	exec, err := Build(ctx, node)
	require.NoError(t, err)
	tuples, err := Run(exec)
	require.NoError(t, err)
	require.Len(t, tuples, 2)
	require.Equal(t, vector.Vector{1, 0, 0}, tuples[0][0])
	require.Equal(t, vector.Vector{0, 1, 0}, tuples[1][0])
}

// S2: IVF-Flat, lists=3, probe_lists=1, built with only 2 vectors -- build
// is skipped, so scan returns nothing.
func TestVectorIndexScan_S2_BuildSkippedReturnsEmpty(t *testing.T) {
	c, ctx := newTestCatalog(t, index.IvfFlat, vector.L2, index.Options{"lists": 3, "probe_lists": 1})
	idxInfos := c.GetTableIndexes("t")
	require.Len(t, idxInfos, 1)

	err := idxInfos[0].Index.Build([]index.Entry{
		{Vector: vector.Vector{1, 0, 0}, RID: storage.RID{PageID: 0, SlotNum: 0}},
		{Vector: vector.Vector{0, 1, 0}, RID: storage.RID{PageID: 0, SlotNum: 1}},
	})
	require.NoError(t, err)

	node := &plan.VectorIndexScanNode{
		TableName:  "t",
		IndexName:  "t_v_idx",
		BaseVector: []float64{0, 0, 0},
		Limit:      5,
		Out:        storage.Schema{Columns: []storage.Column{{Name: "v", Dim: 3}}},
	}
	exec, err := Build(ctx, node)
	require.NoError(t, err)
	tuples, err := Run(exec)
	require.NoError(t, err)
	require.Empty(t, tuples)
}

// S4: HNSW, InnerProduct; vectors (1,0), (0,1), (1,1); query (1,1) finds
// (1,1) first (distance -2).
func TestVectorIndexScan_S4_HNSWInnerProduct(t *testing.T) {
	_, ctx := newTestCatalog(t, index.Hnsw, vector.InnerProduct, index.Options{"m": 4, "ef_construction": 16, "ef_search": 16})
	insertVectors(t, ctx, []vector.Vector{
		{1, 0},
		{0, 1},
		{1, 1},
	})

	node := &plan.VectorIndexScanNode{
		TableName:  "t",
		IndexName:  "t_v_idx",
		BaseVector: []float64{1, 1},
		Limit:      1,
		Out:        storage.Schema{Columns: []storage.Column{{Name: "v", Dim: 2}}},
	}
	exec, err := Build(ctx, node)
	require.NoError(t, err)
	tuples, err := Run(exec)
	require.NoError(t, err)
	require.Len(t, tuples, 1)
	require.Equal(t, vector.Vector{1, 1}, tuples[0][0])
}

func TestSortThenLimit_ViaTopNExecutor(t *testing.T) {
	_, ctx := newTestCatalog(t, index.IvfFlat, vector.L2, index.Options{"lists": 1, "probe_lists": 1})
	insertVectors(t, ctx, []vector.Vector{{5, 0, 0}, {1, 0, 0}, {3, 0, 0}})

	scan := &plan.SeqScanNode{TableName: "t", Out: storage.Schema{Columns: []storage.Column{{Name: "v", Dim: 3}}}}
	topN := &plan.TopNNode{
		N: 2,
		Keys: []plan.OrderBy{{
			Expr: plan.VectorDistance{Metric: vector.L2, Left: plan.ColumnRef{Index: 0}, Right: plan.ArrayLiteral{Values: []float64{0, 0, 0}}},
		}},
		Child: scan,
	}
	exec, err := Build(ctx, topN)
	require.NoError(t, err)
	tuples, err := Run(exec)
	require.NoError(t, err)
	require.Len(t, tuples, 2)
	require.Equal(t, vector.Vector{1, 0, 0}, tuples[0][0])
	require.Equal(t, vector.Vector{3, 0, 0}, tuples[1][0])
}

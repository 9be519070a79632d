// Package catalog tracks tables and the vector indexes built over them.
// It is one of the components the vector-index core treats as an external
// collaborator with a fixed contract: get_table, get_table_indexes.
package catalog

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/coraldb/coraldb/internal/index"
	"github.com/coraldb/coraldb/internal/storage"
	"github.com/coraldb/coraldb/pkg/vector"
)

// TableInfo describes one registered table.
type TableInfo struct {
	OID    uuid.UUID
	Name   string
	Schema storage.Schema
	Heap   *storage.TableHeap
}

// IndexInfo describes one registered vector index and the live structure
// backing it.
type IndexInfo struct {
	OID       uuid.UUID
	Name      string
	TableName string
	Kind      index.Kind
	KeySchema storage.Schema // single-column schema naming the indexed vector column
	Metric    vector.Metric
	Options   index.Options

	Index index.VectorIndex
}

// Catalog is a thread-safe registry of tables and indexes, mirroring
// BusTub's Catalog but trimmed to what the vector-index core needs.
type Catalog struct {
	mu      sync.RWMutex
	tables  map[uuid.UUID]*TableInfo
	byName  map[string]uuid.UUID
	indexes map[string][]*IndexInfo // table name -> indexes
}

func New() *Catalog {
	return &Catalog{
		tables:  make(map[uuid.UUID]*TableInfo),
		byName:  make(map[string]uuid.UUID),
		indexes: make(map[string][]*IndexInfo),
	}
}

// CreateTable registers a new table backed by a fresh table heap.
func (c *Catalog) CreateTable(name string, schema storage.Schema, wal *storage.WAL) *TableInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	info := &TableInfo{
		OID:    uuid.New(),
		Name:   name,
		Schema: schema,
		Heap:   storage.NewTableHeap(wal),
	}
	c.tables[info.OID] = info
	c.byName[name] = info.OID
	return info
}

func (c *Catalog) GetTable(oid uuid.UUID) (*TableInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[oid]
	return t, ok
}

func (c *Catalog) GetTableByName(name string) (*TableInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	oid, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return c.tables[oid], true
}

// CreateIndex constructs a VectorIndex of the given kind over keyColumn of
// tableName and registers it in the catalog.
func (c *Catalog) CreateIndex(tableName, indexName string, kind index.Kind, metric vector.Metric, keyColumn string, dim int, opts index.Options) (*IndexInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byName[tableName]; !ok {
		return nil, fmt.Errorf("catalog: unknown table %q", tableName)
	}

	idx, err := index.New(kind, metric, dim, opts)
	if err != nil {
		return nil, err
	}

	info := &IndexInfo{
		OID:       uuid.New(),
		Name:      indexName,
		TableName: tableName,
		Kind:      kind,
		KeySchema: storage.Schema{Columns: []storage.Column{{Name: keyColumn, Dim: dim}}},
		Metric:    metric,
		Options:   opts,
		Index:     idx,
	}
	c.indexes[tableName] = append(c.indexes[tableName], info)
	return info, nil
}

// GetTableIndexes returns every index registered over tableName.
func (c *Catalog) GetTableIndexes(tableName string) []*IndexInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*IndexInfo(nil), c.indexes[tableName]...)
}

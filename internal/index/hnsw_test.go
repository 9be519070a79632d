package index

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/coraldb/coraldb/internal/storage"
	"github.com/coraldb/coraldb/pkg/vector"
)

func randomVec(rng *rand.Rand, dim int) vector.Vector {
	v := make(vector.Vector, dim)
	for i := range v {
		v[i] = rng.Float64()
	}
	return v
}

func TestHNSW_EmptyIndexScanReturnsNoResults(t *testing.T) {
	idx, err := NewHNSW(vector.L2, 3, Options{"m": 8, "ef_construction": 32, "ef_search": 16})
	if err != nil {
		t.Fatal(err)
	}
	got, err := idx.Scan(vector.Vector{1, 2, 3}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results from an empty index, got %v", got)
	}
}

func TestHNSW_SingleInsertIsItsOwnNearestNeighbor(t *testing.T) {
	idx, err := NewHNSW(vector.L2, 3, Options{"m": 8, "ef_construction": 32, "ef_search": 16})
	if err != nil {
		t.Fatal(err)
	}
	rid := storage.RID{PageID: 0, SlotNum: 0}
	v := vector.Vector{1, 2, 3}
	if err := idx.Insert(v, rid); err != nil {
		t.Fatal(err)
	}
	got, err := idx.Scan(v, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != rid {
		t.Fatalf("expected [%v], got %v", rid, got)
	}
}

func TestHNSW_ScanReturnsAllWhenFewerThanK(t *testing.T) {
	idx, err := NewHNSW(vector.L2, 2, Options{"m": 8, "ef_construction": 32, "ef_search": 16})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := idx.Insert(vector.Vector{float64(i), float64(i)}, storage.RID{PageID: 0, SlotNum: int32(i)}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := idx.Scan(vector.Vector{0, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results (fewer than k), got %d", len(got))
	}
}

func TestHNSW_RecallAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	count := 500
	dim := 32
	k := 10

	hnsw, err := NewHNSW(vector.L2, dim, Options{"m": 16, "ef_construction": 100, "ef_search": 64})
	if err != nil {
		t.Fatal(err)
	}
	truth := NewBruteForceIndex(vector.L2)

	for i := 0; i < count; i++ {
		v := randomVec(rng, dim)
		rid := storage.RID{PageID: 0, SlotNum: int32(i)}
		if err := hnsw.Insert(v, rid); err != nil {
			t.Fatal(err)
		}
		if err := truth.Insert(v, rid); err != nil {
			t.Fatal(err)
		}
	}

	queries := 30
	var totalRecall float64
	for q := 0; q < queries; q++ {
		query := randomVec(rng, dim)

		want, err := truth.Scan(query, k)
		if err != nil {
			t.Fatal(err)
		}
		got, err := hnsw.Scan(query, k)
		if err != nil {
			t.Fatal(err)
		}

		wantSet := make(map[storage.RID]bool, len(want))
		for _, rid := range want {
			wantSet[rid] = true
		}
		matches := 0
		for _, rid := range got {
			if wantSet[rid] {
				matches++
			}
		}
		totalRecall += float64(matches) / float64(k)
	}

	avgRecall := totalRecall / float64(queries)
	if avgRecall < 0.8 {
		t.Errorf("recall too low: got %.2f, want >= 0.8", avgRecall)
	}
}

func TestHNSW_BuildStoresEveryEntry(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	dim := 8
	data := make([]Entry, 20)
	for i := range data {
		data[i] = Entry{Vector: randomVec(rng, dim), RID: storage.RID{PageID: 0, SlotNum: int32(i)}}
	}

	idx, err := NewHNSW(vector.L2, dim, Options{"m": 8, "ef_construction": 32, "ef_search": 16})
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.Build(data); err != nil {
		t.Fatal(err)
	}
	if len(idx.vertices) != len(data) {
		t.Fatalf("expected %d vertices after Build, got %d", len(data), len(idx.vertices))
	}
}

func TestHNSW_MissingOptionFailsConstruction(t *testing.T) {
	if _, err := NewHNSW(vector.L2, 3, Options{"m": 8, "ef_construction": 32}); err == nil {
		t.Fatal("expected ConfigurationError for missing ef_search")
	}
}

func ExampleHNSWIndex_Scan() {
	idx, _ := NewHNSW(vector.L2, 2, Options{"m": 8, "ef_construction": 32, "ef_search": 16})
	idx.Insert(vector.Vector{0, 0}, storage.RID{PageID: 0, SlotNum: 0})
	idx.Insert(vector.Vector{10, 10}, storage.RID{PageID: 0, SlotNum: 1})
	got, _ := idx.Scan(vector.Vector{1, 1}, 1)
	fmt.Println(got[0].SlotNum)
	// Output: 0
}

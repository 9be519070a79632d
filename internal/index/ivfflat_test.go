package index

import (
	"math/rand"
	"testing"

	"github.com/coraldb/coraldb/internal/storage"
	"github.com/coraldb/coraldb/pkg/vector"
)

func TestIVFFlat_MissingOptionFailsConstruction(t *testing.T) {
	if _, err := NewIVFFlat(vector.L2, 4, Options{"lists": 4}); err == nil {
		t.Fatal("expected ConfigurationError for missing probe_lists")
	}
}

func TestIVFFlat_ProbeListsOutOfRangeFailsConstruction(t *testing.T) {
	if _, err := NewIVFFlat(vector.L2, 4, Options{"lists": 4, "probe_lists": 5}); err == nil {
		t.Fatal("expected ConfigurationError for probe_lists > lists")
	}
}

func TestIVFFlat_BuildWithTooFewPointsLeavesIndexEmpty(t *testing.T) {
	idx, err := NewIVFFlat(vector.L2, 2, Options{"lists": 4, "probe_lists": 2})
	if err != nil {
		t.Fatal(err)
	}
	data := []Entry{
		{Vector: vector.Vector{0, 0}, RID: storage.RID{PageID: 0, SlotNum: 0}},
		{Vector: vector.Vector{1, 1}, RID: storage.RID{PageID: 0, SlotNum: 1}},
	}
	if err := idx.Build(data); err != nil {
		t.Fatal(err)
	}
	got, err := idx.Scan(vector.Vector{0, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty scan result when lists > len(data), got %v", got)
	}
}

func TestIVFFlat_ScanFindsExactMatch(t *testing.T) {
	idx, err := NewIVFFlat(vector.L2, 2, Options{"lists": 2, "probe_lists": 2})
	if err != nil {
		t.Fatal(err)
	}
	data := []Entry{
		{Vector: vector.Vector{0, 0}, RID: storage.RID{PageID: 0, SlotNum: 0}},
		{Vector: vector.Vector{0, 1}, RID: storage.RID{PageID: 0, SlotNum: 1}},
		{Vector: vector.Vector{10, 10}, RID: storage.RID{PageID: 0, SlotNum: 2}},
		{Vector: vector.Vector{10, 11}, RID: storage.RID{PageID: 0, SlotNum: 3}},
	}
	if err := idx.Build(data); err != nil {
		t.Fatal(err)
	}
	got, err := idx.Scan(vector.Vector{10, 10}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != (storage.RID{PageID: 0, SlotNum: 2}) {
		t.Fatalf("expected exact match RID{0,2}, got %v", got)
	}
}

func TestIVFFlat_InsertAfterBuildIsSearchable(t *testing.T) {
	idx, err := NewIVFFlat(vector.L2, 2, Options{"lists": 2, "probe_lists": 2})
	if err != nil {
		t.Fatal(err)
	}
	data := []Entry{
		{Vector: vector.Vector{0, 0}, RID: storage.RID{PageID: 0, SlotNum: 0}},
		{Vector: vector.Vector{10, 10}, RID: storage.RID{PageID: 0, SlotNum: 1}},
	}
	if err := idx.Build(data); err != nil {
		t.Fatal(err)
	}
	newRID := storage.RID{PageID: 0, SlotNum: 2}
	if err := idx.Insert(vector.Vector{10, 9}, newRID); err != nil {
		t.Fatal(err)
	}
	got, err := idx.Scan(vector.Vector{10, 9}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != newRID {
		t.Fatalf("expected inserted vector to be returned, got %v", got)
	}
}

func TestIVFFlat_InsertIntoNeverBuiltIndexIsNoop(t *testing.T) {
	idx, err := NewIVFFlat(vector.L2, 2, Options{"lists": 4, "probe_lists": 2})
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.Insert(vector.Vector{1, 1}, storage.RID{PageID: 0, SlotNum: 0}); err != nil {
		t.Fatal(err)
	}
	got, err := idx.Scan(vector.Vector{1, 1}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results since Build never ran, got %v", got)
	}
}

func TestIVFFlat_RecallAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	dim := 16
	count := 800
	k := 10

	idx, err := NewIVFFlat(vector.L2, dim, Options{"lists": 20, "probe_lists": 8})
	if err != nil {
		t.Fatal(err)
	}
	truth := NewBruteForceIndex(vector.L2)

	data := make([]Entry, count)
	for i := range data {
		data[i] = Entry{Vector: randomVec(rng, dim), RID: storage.RID{PageID: 0, SlotNum: int32(i)}}
	}
	if err := idx.Build(data); err != nil {
		t.Fatal(err)
	}
	if err := truth.Build(data); err != nil {
		t.Fatal(err)
	}

	queries := 30
	var totalRecall float64
	for q := 0; q < queries; q++ {
		query := randomVec(rng, dim)

		want, err := truth.Scan(query, k)
		if err != nil {
			t.Fatal(err)
		}
		got, err := idx.Scan(query, k)
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
	if avgRecall < 0.6 {
		t.Errorf("recall too low: got %.2f, want >= 0.6", avgRecall)
	}
}

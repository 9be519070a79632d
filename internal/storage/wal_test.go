package storage

import (
	"os"
	"testing"

	"github.com/coraldb/coraldb/pkg/vector"
)

func TestWAL_WriteAndReplay(t *testing.T) {
	tmpFile := "test_wal.bin"
	defer os.Remove(tmpFile)

	wal, err := OpenWAL(tmpFile)
	if err != nil {
		t.Fatal(err)
	}

	testData := []struct {
		rid RID
		t   Tuple
	}{
		{RID{0, 0}, Tuple{vector.Vector{1.0, 2.0, 3.0}}},
		{RID{0, 1}, Tuple{vector.Vector{0.5, 0.5, 0.5}}},
	}

	for _, d := range testData {
		if err := wal.WriteInsert(d.rid, d.t); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	wal.Close()

	wal2, err := OpenWAL(tmpFile)
	if err != nil {
		t.Fatal(err)
	}
	defer wal2.Close()

	replayedCount := 0
	err = wal2.Replay(func(rid RID, tuple Tuple) {
		expected := testData[replayedCount]
		if rid != expected.rid {
			t.Errorf("mismatch RID: got %v, want %v", rid, expected.rid)
		}
		if len(tuple) != len(expected.t) {
			t.Errorf("mismatch tuple length")
		}
		vec, ok := tuple[0].(vector.Vector)
		if !ok {
			t.Fatalf("replayed column 0 is %T, want vector.Vector", tuple[0])
		}
		wantVec := expected.t[0].(vector.Vector)
		if len(vec) != len(wantVec) {
			t.Fatalf("mismatch vector length: got %v, want %v", vec, wantVec)
		}
		for i := range vec {
			if vec[i] != wantVec[i] {
				t.Errorf("mismatch vector element %d: got %v, want %v", i, vec[i], wantVec[i])
			}
		}
		replayedCount++
	})
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if replayedCount != 2 {
		t.Errorf("expected 2 entries, got %d", replayedCount)
	}
}

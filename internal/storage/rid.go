package storage

import "fmt"

// RID is the opaque row identifier produced by the table heap. Every index
// stores it verbatim and returns it from a scan -- nothing downstream of
// the heap is allowed to interpret its fields.
type RID struct {
	PageID  int32
	SlotNum int32
}

func (r RID) String() string {
	return fmt.Sprintf("%d:%d", r.PageID, r.SlotNum)
}

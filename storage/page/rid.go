// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import "fmt"

// RID is the record identifier for the given page identifier and slot number
type RID struct {
	PageId  HeapPageID
	SlotNum uint32
}

func NewRID(pageId HeapPageID, slot uint32) *RID {
	return &RID{pageId, slot}
}

// Set sets the recod identifier
func (r *RID) Set(pageId HeapPageID, slot uint32) {
	r.PageId = pageId
	r.SlotNum = slot
}

// GetPageId gets the page id
func (r *RID) GetPageId() HeapPageID {
	return r.PageId
}

// GetSlotNum gets the slot number
func (r *RID) GetSlotNum() uint32 {
	return r.SlotNum
}

func (r *RID) String() string {
	return fmt.Sprintf("(%v, %d)", r.PageId, r.SlotNum)
}

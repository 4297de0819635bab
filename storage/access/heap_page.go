// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package access

import (
	"github.com/heapstore/heapstore/common"
	"github.com/heapstore/heapstore/errors"
	"github.com/heapstore/heapstore/storage/page"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

const ErrPageFull = errors.Error("page is full")
const ErrTupleNotOnPage = errors.Error("tuple is not on this page")
const ErrTupleNotFound = errors.Error("tuple slot is already empty")
const ErrTupleNoRID = errors.Error("tuple has no record id")
const ErrSchemaMismatch = errors.Error("tuple width does not match the page schema")

// HeapPage is the in memory image of one heap file page. See page.Layout for
// the byte format. The bitmap is the only record of occupancy: a deleted
// slot keeps its old bytes, and they are never read while its bit is clear.
type HeapPage struct {
	pid     page.HeapPageID
	schema  *schema.Schema
	layout  page.Layout
	data    []byte
	isDirty bool
	dirtier types.TxnID
	rwlatch common.ReaderWriterLatch
}

// NewHeapPage builds a page from its serialized bytes. data is copied and its
// length is the page size.
func NewHeapPage(pid page.HeapPageID, data []byte, schema_ *schema.Schema) *HeapPage {
	copied := make([]byte, len(data))
	copy(copied, data)
	return &HeapPage{
		pid:     pid,
		schema:  schema_,
		layout:  page.NewLayout(uint32(len(data)), schema_.Length()),
		data:    copied,
		dirtier: types.InvalidTxnID,
		rwlatch: common.NewRWLatch(),
	}
}

func (hp *HeapPage) GetID() page.HeapPageID {
	return hp.pid
}

func (hp *HeapPage) GetSchema() *schema.Schema {
	return hp.schema
}

func (hp *HeapPage) GetNumSlots() uint32 {
	return hp.layout.NumSlots()
}

// GetPageData serializes the page. The result round trips through
// NewHeapPage bit for bit.
func (hp *HeapPage) GetPageData() []byte {
	hp.rwlatch.RLock()
	defer hp.rwlatch.RUnlock()
	ret := make([]byte, len(hp.data))
	copy(ret, hp.data)
	return ret
}

func (hp *HeapPage) GetNumEmptySlots() uint32 {
	hp.rwlatch.RLock()
	defer hp.rwlatch.RUnlock()
	return hp.layout.NumEmptySlots(hp.data)
}

func (hp *HeapPage) IsSlotUsed(slot uint32) bool {
	hp.rwlatch.RLock()
	defer hp.rwlatch.RUnlock()
	return slot < hp.layout.NumSlots() && hp.layout.IsSlotUsed(hp.data, slot)
}

// InsertTuple writes t into the lowest free slot and stamps t with its new RID.
func (hp *HeapPage) InsertTuple(t *tuple.Tuple) (*page.RID, error) {
	if t.Size() != hp.layout.RecordWidth() {
		return nil, ErrSchemaMismatch
	}

	hp.rwlatch.WLock()
	defer hp.rwlatch.WUnlock()

	slot, found := hp.layout.FirstFreeSlot(hp.data)
	if !found {
		return nil, ErrPageFull
	}

	offset := hp.layout.SlotOffset(slot)
	t.SerializeTo(hp.data[offset : offset+hp.layout.RecordWidth()])
	hp.layout.SetSlotUsed(hp.data, slot, true)

	rid := page.NewRID(hp.pid, slot)
	t.SetRID(rid)
	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO_DETAIL, "HeapPage::InsertTuple %v at %v\n", t, rid)
	}
	return rid, nil
}

// DeleteTuple clears the bitmap bit of t's slot. The slot bytes are left as is.
func (hp *HeapPage) DeleteTuple(t *tuple.Tuple) error {
	rid := t.GetRID()
	if rid == nil {
		return ErrTupleNoRID
	}
	if rid.GetPageId() != hp.pid {
		return ErrTupleNotOnPage
	}

	hp.rwlatch.WLock()
	defer hp.rwlatch.WUnlock()

	slot := rid.GetSlotNum()
	if slot >= hp.layout.NumSlots() || !hp.layout.IsSlotUsed(hp.data, slot) {
		return ErrTupleNotFound
	}
	hp.layout.SetSlotUsed(hp.data, slot, false)
	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO_DETAIL, "HeapPage::DeleteTuple %v\n", rid)
	}
	return nil
}

// GetTuple decodes the record in slot, or returns nil when the slot is empty.
// The tuple is a copy: changing it does not change the page.
func (hp *HeapPage) GetTuple(slot uint32) *tuple.Tuple {
	hp.rwlatch.RLock()
	defer hp.rwlatch.RUnlock()
	return hp.getTuple(slot)
}

func (hp *HeapPage) getTuple(slot uint32) *tuple.Tuple {
	if slot >= hp.layout.NumSlots() || !hp.layout.IsSlotUsed(hp.data, slot) {
		return nil
	}
	offset := hp.layout.SlotOffset(slot)
	ret := tuple.NewTupleFromBytes(hp.data[offset:offset+hp.layout.RecordWidth()], hp.schema)
	ret.SetRID(page.NewRID(hp.pid, slot))
	return ret
}

// MarkDirty records which transaction last modified the page.
func (hp *HeapPage) MarkDirty(dirty bool, txn types.TxnID) {
	hp.isDirty = dirty
	if dirty {
		hp.dirtier = txn
	} else {
		hp.dirtier = types.InvalidTxnID
	}
}

func (hp *HeapPage) IsDirty() bool {
	return hp.isDirty
}

// GetDirtier is the transaction that dirtied the page, or InvalidTxnID.
func (hp *HeapPage) GetDirtier() types.TxnID {
	return hp.dirtier
}

// Iterator walks the records that occupy the page when it is called, in
// ascending slot order. Later inserts and deletes are seen only by a new
// iterator.
func (hp *HeapPage) Iterator() *HeapPageIterator {
	hp.rwlatch.RLock()
	defer hp.rwlatch.RUnlock()
	tuples := make([]*tuple.Tuple, 0, hp.layout.NumSlots()-hp.layout.NumEmptySlots(hp.data))
	for slot := uint32(0); slot < hp.layout.NumSlots(); slot++ {
		if t := hp.getTuple(slot); t != nil {
			tuples = append(tuples, t)
		}
	}
	return &HeapPageIterator{tuples, 0}
}

type HeapPageIterator struct {
	tuples []*tuple.Tuple
	pos    int
}

func (it *HeapPageIterator) HasNext() bool {
	return it.pos < len(it.tuples)
}

// Next returns a copy of the next record, or nil once the page is exhausted.
func (it *HeapPageIterator) Next() *tuple.Tuple {
	if !it.HasNext() {
		return nil
	}
	ret := it.tuples[it.pos]
	it.pos++
	return ret.GetDeepCopy()
}

func (it *HeapPageIterator) Rewind() {
	it.pos = 0
}

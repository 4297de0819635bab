// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package access

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/sasha-s/go-deadlock"

	"github.com/heapstore/heapstore/common"
	"github.com/heapstore/heapstore/errors"
	"github.com/heapstore/heapstore/storage/disk"
	"github.com/heapstore/heapstore/storage/page"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

const ErrFileSizeMismatch = errors.Error("file length is not a multiple of the page size")
const ErrTruncatedPage = errors.Error("page is truncated")
const ErrRecordTooWide = errors.Error("record does not fit in a page")
const ErrPageNotInFile = errors.Error("page belongs to another table")

// BufferPool hands out pages under a transaction's page lock. It may block,
// and it returns the buffer pool's abort error when the request would
// deadlock.
type BufferPool interface {
	GetPage(txn types.TxnID, pid page.HeapPageID, perm types.Permission) (*HeapPage, error)
}

// HeapFile stores the records of one table, unordered, in a flat file of
// pages. Pages are only ever appended.
type HeapFile struct {
	disk    disk.DiskManager
	schema  *schema.Schema
	tableID types.TableID
	bpm     BufferPool
	layout  page.Layout
	// serializes picking the page number of an appended page
	appendMutex *deadlock.Mutex
}

func NewHeapFile(diskManager disk.DiskManager, schema_ *schema.Schema, bpm BufferPool) (*HeapFile, error) {
	pageSize := uint32(diskManager.PageSize())
	if schema_.Length() == 0 || 8*pageSize < 8*schema_.Length()+1 {
		return nil, pkgerrors.Wrapf(ErrRecordTooWide, "width %d, page size %d", schema_.Length(), pageSize)
	}
	return &HeapFile{
		disk:        diskManager,
		schema:      schema_,
		tableID:     types.NewTableIDFromPath(diskManager.Path()),
		bpm:         bpm,
		layout:      page.NewLayout(pageSize, schema_.Length()),
		appendMutex: new(deadlock.Mutex),
	}, nil
}

// GetID is stable for the same file across restarts.
func (h *HeapFile) GetID() types.TableID {
	return h.tableID
}

func (h *HeapFile) GetTupleDesc() *schema.Schema {
	return h.schema
}

func (h *HeapFile) GetDiskManager() disk.DiskManager {
	return h.disk
}

func (h *HeapFile) PageSize() int {
	return h.disk.PageSize()
}

// SlotsPerPage is how many records one page of this file holds.
func (h *HeapFile) SlotsPerPage() uint32 {
	return h.layout.NumSlots()
}

// NumPages is the file length divided by the page size.
func (h *HeapFile) NumPages() (int, error) {
	size, err := h.disk.Size()
	if err != nil {
		return 0, err
	}
	pageSize := int64(h.disk.PageSize())
	if size%pageSize != 0 {
		return 0, pkgerrors.Wrapf(ErrFileSizeMismatch, "%s is %d bytes, page size %d", h.disk.Path(), size, pageSize)
	}
	return int(size / pageSize), nil
}

// ReadPage reads pid straight from disk. Only the buffer pool should call it.
func (h *HeapFile) ReadPage(pid page.HeapPageID) (*HeapPage, error) {
	if pid.GetTableID() != h.tableID {
		return nil, pkgerrors.Wrapf(ErrPageNotInFile, "%v not in table %d", pid, h.tableID)
	}
	data := make([]byte, h.disk.PageSize())
	if err := h.disk.ReadPage(pid.GetPageNo(), data); err != nil {
		if pkgerrors.Is(err, disk.ErrShortRead) {
			return nil, pkgerrors.Wrapf(ErrTruncatedPage, "%v: %v", pid, err)
		}
		return nil, err
	}
	return NewHeapPage(pid, data, h.schema), nil
}

// WritePage writes p at its own page number.
func (h *HeapFile) WritePage(p *HeapPage) error {
	if p.GetID().GetTableID() != h.tableID {
		return pkgerrors.Wrapf(ErrPageNotInFile, "%v not in table %d", p.GetID(), h.tableID)
	}
	common.SH_Assert(p.GetSchema().Equals(h.schema), "page layout differs from its heap file")
	return h.disk.WritePage(p.GetID().GetPageNo(), p.GetPageData())
}

// InsertTuple puts t into the first page with a free slot, appending a page
// when every page is full. The returned pages are dirty and must be marked
// so by the caller.
func (h *HeapFile) InsertTuple(txn types.TxnID, t *tuple.Tuple) ([]*HeapPage, error) {
	if t.Size() != h.schema.Length() {
		return nil, ErrSchemaMismatch
	}

	numPages, err := h.NumPages()
	if err != nil {
		return nil, err
	}
	for pageNo := 0; pageNo < numPages; pageNo++ {
		hp, err := h.bpm.GetPage(txn, page.NewHeapPageID(h.tableID, types.PageID(pageNo)), types.ReadWrite)
		if err != nil {
			return nil, err
		}
		if _, err := hp.InsertTuple(t); err == nil {
			return []*HeapPage{hp}, nil
		} else if err != ErrPageFull {
			return nil, err
		}
	}

	pid, err := h.appendEmptyPage()
	if err != nil {
		return nil, err
	}
	hp, err := h.bpm.GetPage(txn, pid, types.ReadWrite)
	if err != nil {
		return nil, err
	}
	if _, err := hp.InsertTuple(t); err != nil {
		return nil, err
	}
	return []*HeapPage{hp}, nil
}

// appendEmptyPage writes an empty page at the end of the file. The buffer
// pool can only fetch pages that exist on disk, so this is the one write that
// bypasses it. Nobody can hold a lock on a page number past the end.
func (h *HeapFile) appendEmptyPage() (page.HeapPageID, error) {
	h.appendMutex.Lock()
	defer h.appendMutex.Unlock()

	numPages, err := h.NumPages()
	if err != nil {
		return page.HeapPageID{}, err
	}
	pid := page.NewHeapPageID(h.tableID, types.PageID(numPages))
	if err := h.disk.WritePage(pid.GetPageNo(), page.CreateEmptyPageData(uint32(h.disk.PageSize()))); err != nil {
		return page.HeapPageID{}, err
	}
	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO, "HeapFile::appendEmptyPage %s grows to %d pages\n", h.disk.Path(), numPages+1)
	}
	return pid, nil
}

// DeleteTuple removes t from the page its RID names.
func (h *HeapFile) DeleteTuple(txn types.TxnID, t *tuple.Tuple) ([]*HeapPage, error) {
	rid := t.GetRID()
	if rid == nil {
		return nil, ErrTupleNoRID
	}
	if rid.GetPageId().GetTableID() != h.tableID {
		return nil, ErrTupleNotOnPage
	}
	hp, err := h.bpm.GetPage(txn, rid.GetPageId(), types.ReadWrite)
	if err != nil {
		return nil, err
	}
	if err := hp.DeleteTuple(t); err != nil {
		return nil, err
	}
	return []*HeapPage{hp}, nil
}

// Iterator scans the whole file for txn with ReadOnly page requests.
func (h *HeapFile) Iterator(txn types.TxnID) DbFileIterator {
	return NewHeapFileIterator(h, txn)
}

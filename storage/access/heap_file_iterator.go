package access

import (
	"github.com/heapstore/heapstore/errors"
	"github.com/heapstore/heapstore/storage/page"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

const ErrIteratorNotOpen = errors.Error("iterator is not open")
const ErrNoSuchElement = errors.Error("no more tuples")

// DbFileIterator is the scan protocol of a table file.
//
//	Closed --Open--> Open --Close--> Closed
//
// HasNext, Next and Rewind fail with ErrIteratorNotOpen unless Open.
type DbFileIterator interface {
	Open() error
	HasNext() (bool, error)
	Next() (*tuple.Tuple, error)
	Rewind() error
	Close()
}

// HeapFileIterator yields records in (page number, slot) order. It holds at
// most one page at a time, fetched ReadOnly through the buffer pool.
// Pages appended after Open or Rewind are not visited, so a scan ends even
// when its own transaction keeps inserting into the file.
type HeapFileIterator struct {
	heapFile *HeapFile
	txn      types.TxnID
	isOpen   bool
	pageNo   types.PageID
	numPages int
	pageIter *HeapPageIterator
}

func NewHeapFileIterator(heapFile *HeapFile, txn types.TxnID) *HeapFileIterator {
	return &HeapFileIterator{heapFile, txn, false, 0, 0, nil}
}

func (it *HeapFileIterator) Open() error {
	if err := it.reset(); err != nil {
		it.Close()
		return err
	}
	it.isOpen = true
	return nil
}

// reset positions the iterator on page 0, fetching it when the file has one,
// and fixes the number of pages the scan covers.
func (it *HeapFileIterator) reset() error {
	it.pageNo = 0
	it.pageIter = nil
	numPages, err := it.heapFile.NumPages()
	if err != nil {
		return err
	}
	it.numPages = numPages
	if numPages > 0 {
		return it.loadPage()
	}
	return nil
}

func (it *HeapFileIterator) loadPage() error {
	hp, err := it.heapFile.bpm.GetPage(it.txn, page.NewHeapPageID(it.heapFile.GetID(), it.pageNo), types.ReadOnly)
	if err != nil {
		return err
	}
	it.pageIter = hp.Iterator()
	return nil
}

// HasNext moves past pages with no records, so an emptied page in the middle
// of the file does not end the scan.
func (it *HeapFileIterator) HasNext() (bool, error) {
	if !it.isOpen {
		return false, ErrIteratorNotOpen
	}
	for {
		if it.pageIter == nil {
			if int(it.pageNo) >= it.numPages {
				return false, nil
			}
			if err := it.loadPage(); err != nil {
				return false, err
			}
		}
		if it.pageIter.HasNext() {
			return true, nil
		}
		it.pageIter = nil
		it.pageNo++
	}
}

func (it *HeapFileIterator) Next() (*tuple.Tuple, error) {
	hasNext, err := it.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, ErrNoSuchElement
	}
	return it.pageIter.Next(), nil
}

func (it *HeapFileIterator) Rewind() error {
	if !it.isOpen {
		return ErrIteratorNotOpen
	}
	if err := it.reset(); err != nil {
		it.Close()
		return err
	}
	return nil
}

func (it *HeapFileIterator) Close() {
	it.isOpen = false
	it.pageIter = nil
}

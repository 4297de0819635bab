package page

import (
	"fmt"

	"github.com/heapstore/heapstore/types"
)

// HeapPageID addresses one page of one table.
type HeapPageID struct {
	TableID types.TableID
	PageNo  types.PageID
}

func NewHeapPageID(tableID types.TableID, pageNo types.PageID) HeapPageID {
	return HeapPageID{tableID, pageNo}
}

func (pid HeapPageID) GetTableID() types.TableID {
	return pid.TableID
}

func (pid HeapPageID) GetPageNo() types.PageID {
	return pid.PageNo
}

func (pid HeapPageID) String() string {
	return fmt.Sprintf("%d:%d", pid.TableID, pid.PageNo)
}

package disk

import (
	"github.com/heapstore/heapstore/errors"
	"github.com/heapstore/heapstore/types"
)

const ErrShortRead = errors.Error("I/O error: fewer bytes than a page are available")
const ErrShortWrite = errors.Error("I/O error: bytes written not equals page size")
const ErrBadPageBuffer = errors.Error("page buffer length does not match page size")

// DiskManager is responsible for interacting with disk. It addresses the
// backing file in whole pages of PageSize() bytes: page i lives at
// [i*PageSize(), (i+1)*PageSize()).
type DiskManager interface {
	ReadPage(types.PageID, []byte) error
	WritePage(types.PageID, []byte) error
	// Size is the current length of the backing file in bytes.
	Size() (int64, error)
	PageSize() int
	Path() string
	GetNumWrites() uint64
	ShutDown()
}

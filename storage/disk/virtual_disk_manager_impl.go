package disk

import (
	"io"
	"sync"

	"github.com/dsnet/golib/memfile"
	"github.com/pkg/errors"

	"github.com/heapstore/heapstore/types"
)

// VirtualDiskManagerImpl keeps the whole heap file in memory. It behaves like
// DiskManagerImpl, including short read errors, and is used when
// virtual_storage is enabled and by tests.
type VirtualDiskManagerImpl struct {
	db          *memfile.File
	fileName    string
	pageSize    int
	numWrites   uint64
	size        int64
	dbFileMutex *sync.Mutex
}

func NewVirtualDiskManagerImpl(dbFilename string, pageSize int) DiskManager {
	return NewVirtualDiskManagerWithData(dbFilename, pageSize, make([]byte, 0))
}

// NewVirtualDiskManagerWithData starts from an existing image, whose length
// need not be a multiple of the page size.
func NewVirtualDiskManagerWithData(dbFilename string, pageSize int, data []byte) DiskManager {
	copied := make([]byte, len(data))
	copy(copied, data)
	return &VirtualDiskManagerImpl{memfile.New(copied), dbFilename, pageSize, 0, int64(len(copied)), new(sync.Mutex)}
}

// ShutDown closes of the database file
func (d *VirtualDiskManagerImpl) ShutDown() {
	// do nothing
}

// Write a page to the database file
func (d *VirtualDiskManagerImpl) WritePage(pageId types.PageID, pageData []byte) error {
	if len(pageData) != d.pageSize {
		return ErrBadPageBuffer
	}
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()

	offset := int64(pageId) * int64(d.pageSize)
	if _, err := d.db.WriteAt(pageData, offset); err != nil {
		return errors.Wrapf(err, "write page %d of %s", pageId, d.fileName)
	}
	if offset+int64(len(pageData)) > d.size {
		d.size = offset + int64(len(pageData))
	}
	d.numWrites++
	return nil
}

// Read a page from the database file
func (d *VirtualDiskManagerImpl) ReadPage(pageID types.PageID, pageData []byte) error {
	if len(pageData) != d.pageSize {
		return ErrBadPageBuffer
	}
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()

	offset := int64(pageID) * int64(d.pageSize)
	if offset+int64(len(pageData)) > d.size {
		return errors.Wrapf(ErrShortRead, "page %d of %s past end of file", pageID, d.fileName)
	}

	if _, err := d.db.ReadAt(pageData, offset); err != nil && err != io.EOF {
		return errors.Wrapf(err, "read page %d of %s", pageID, d.fileName)
	}
	return nil
}

// GetNumWrites returns the number of disk writes
func (d *VirtualDiskManagerImpl) GetNumWrites() uint64 {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()
	return d.numWrites
}

// Size returns the size of the file in disk
func (d *VirtualDiskManagerImpl) Size() (int64, error) {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()
	return d.size, nil
}

func (d *VirtualDiskManagerImpl) PageSize() int {
	return d.pageSize
}

func (d *VirtualDiskManagerImpl) Path() string {
	return d.fileName
}

// Bytes returns a copy of the current image.
func (d *VirtualDiskManagerImpl) Bytes() []byte {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()
	ret := make([]byte, d.size)
	copy(ret, d.db.Bytes())
	return ret
}

// ATTENTION: this method can be call after calling of Shutdown method
func (d *VirtualDiskManagerImpl) RemoveDBFile() {
	// do nothing
}

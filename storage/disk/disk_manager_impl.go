// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package disk

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/heapstore/heapstore/common"
	"github.com/heapstore/heapstore/types"
)

//DiskManagerImpl is the disk implementation of DiskManager
type DiskManagerImpl struct {
	db        *os.File
	fileName  string
	pageSize  int
	numWrites uint64
	mutex     *sync.Mutex
}

// NewDiskManagerImpl opens (or creates) dbFilename for page I/O
func NewDiskManagerImpl(dbFilename string, pageSize int) (DiskManager, error) {
	file, err := os.OpenFile(dbFilename, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open db file %s", dbFilename)
	}
	return &DiskManagerImpl{file, dbFilename, pageSize, 0, new(sync.Mutex)}, nil
}

// ShutDown closes of the database file
func (d *DiskManagerImpl) ShutDown() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if err := d.db.Close(); err != nil {
		common.ShPrintf(common.WARN, "DiskManagerImpl::ShutDown close %s: %v", d.fileName, err)
	}
}

// Write a page to the database file
func (d *DiskManagerImpl) WritePage(pageId types.PageID, pageData []byte) error {
	if len(pageData) != d.pageSize {
		return ErrBadPageBuffer
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()

	offset := int64(pageId) * int64(d.pageSize)
	bytesWritten, err := d.db.WriteAt(pageData, offset)
	if err != nil {
		return errors.Wrapf(err, "write page %d of %s", pageId, d.fileName)
	}
	if bytesWritten != d.pageSize {
		return ErrShortWrite
	}
	d.numWrites++

	if err := d.db.Sync(); err != nil {
		return errors.Wrapf(err, "sync %s", d.fileName)
	}
	return nil
}

// Read a page from the database file. A page cut short by the end of the
// file is an error, never zero filled.
func (d *DiskManagerImpl) ReadPage(pageID types.PageID, pageData []byte) error {
	if len(pageData) != d.pageSize {
		return ErrBadPageBuffer
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()

	offset := int64(pageID) * int64(d.pageSize)
	bytesRead, err := d.db.ReadAt(pageData, offset)
	if bytesRead < d.pageSize {
		if err == nil || err == io.EOF {
			return errors.Wrapf(ErrShortRead, "page %d of %s (%d bytes)", pageID, d.fileName, bytesRead)
		}
		return errors.Wrapf(err, "read page %d of %s", pageID, d.fileName)
	}
	return nil
}

// Size returns the size of the file in disk
func (d *DiskManagerImpl) Size() (int64, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	fileInfo, err := d.db.Stat()
	if err != nil {
		return 0, errors.Wrapf(err, "stat %s", d.fileName)
	}
	return fileInfo.Size(), nil
}

func (d *DiskManagerImpl) PageSize() int {
	return d.pageSize
}

func (d *DiskManagerImpl) Path() string {
	return d.fileName
}

// GetNumWrites returns the number of disk writes
func (d *DiskManagerImpl) GetNumWrites() uint64 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.numWrites
}

// ATTENTION: this method can be call after calling of Shutdown method
func (d *DiskManagerImpl) RemoveDBFile() {
	os.Remove(d.fileName)
}

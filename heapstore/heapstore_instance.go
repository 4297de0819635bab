package heapstore

import (
	"os"
	"path/filepath"

	"github.com/sasha-s/go-deadlock"

	"github.com/heapstore/heapstore/catalog"
	"github.com/heapstore/heapstore/common"
	"github.com/heapstore/heapstore/concurrency"
	"github.com/heapstore/heapstore/storage/access"
	"github.com/heapstore/heapstore/storage/buffer"
	"github.com/heapstore/heapstore/storage/disk"
	"github.com/heapstore/heapstore/storage/table/schema"
)

// HeapStoreInstance wires the storage stack together: one catalog, one buffer
// pool reading through it, one transaction manager, and a disk manager per
// heap file.
type HeapStoreInstance struct {
	cfg                 *common.Config
	catalog             *catalog.Catalog
	bpm                 *buffer.BufferPoolManager
	transaction_manager *concurrency.TransactionManager
	disk_managers       []disk.DiskManager
	mutex               *deadlock.Mutex
}

func NewHeapStoreInstanceForTesting() *HeapStoreInstance {
	cfg := common.DefaultConfig()
	cfg.VirtualStorage = true
	cfg.PageSize = 512
	return NewHeapStoreInstance(cfg)
}

func NewHeapStoreInstance(cfg *common.Config) *HeapStoreInstance {
	c := catalog.NewCatalog()
	bpm := buffer.NewBufferPoolManager(cfg.BufferPoolPages, c)
	transaction_manager := concurrency.NewTransactionManager(bpm)
	return &HeapStoreInstance{cfg, c, bpm, transaction_manager, make([]disk.DiskManager, 0), new(deadlock.Mutex)}
}

// OpenHeapFile opens (or creates) the heap file at path. It has the shape of
// catalog.OpenFunc so LoadSchema can use it.
func (si *HeapStoreInstance) OpenHeapFile(path string, schema_ *schema.Schema) (*access.HeapFile, error) {
	var dm disk.DiskManager
	if si.cfg.VirtualStorage {
		dm = disk.NewVirtualDiskManagerImpl(path, si.cfg.PageSize)
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		var err error
		if dm, err = disk.NewDiskManagerImpl(path, si.cfg.PageSize); err != nil {
			return nil, err
		}
	}
	hf, err := access.NewHeapFile(dm, schema_, si.bpm)
	if err != nil {
		dm.ShutDown()
		return nil, err
	}

	si.mutex.Lock()
	si.disk_managers = append(si.disk_managers, dm)
	si.mutex.Unlock()
	return hf, nil
}

func (si *HeapStoreInstance) GetConfig() *common.Config {
	return si.cfg
}

func (si *HeapStoreInstance) GetCatalog() *catalog.Catalog {
	return si.catalog
}

func (si *HeapStoreInstance) GetBufferPoolManager() *buffer.BufferPoolManager {
	return si.bpm
}

func (si *HeapStoreInstance) GetTransactionManager() *concurrency.TransactionManager {
	return si.transaction_manager
}

// Shutdown closes every heap file. Committed work is already on disk;
// pages of transactions still running are lost.
// With IsRemoveFiles the files are deleted as well.
func (si *HeapStoreInstance) Shutdown(IsRemoveFiles bool) error {
	var err error
	si.mutex.Lock()
	defer si.mutex.Unlock()
	for _, dm := range si.disk_managers {
		dm.ShutDown()
		if IsRemoveFiles && !si.cfg.VirtualStorage {
			if rmErr := os.Remove(dm.Path()); rmErr != nil && err == nil {
				err = rmErr
			}
		}
	}
	si.disk_managers = si.disk_managers[:0]
	si.catalog.Clear()
	return err
}

// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sasha-s/go-deadlock"

	"github.com/heapstore/heapstore/common"
	"github.com/heapstore/heapstore/errors"
	"github.com/heapstore/heapstore/storage/access"
	"github.com/heapstore/heapstore/storage/page"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

const ErrBufferPoolFull = errors.Error("buffer pool is full of dirty pages")

// FileCatalog resolves the heap file backing a table.
type FileCatalog interface {
	GetDatabaseFile(tableID types.TableID) (*access.HeapFile, error)
}

/**
 * BufferPoolManager caches heap pages and is the only way to reach a page
 * that exists on disk. Every GetPage takes a page lock for the transaction
 * first, which it keeps until TransactionComplete.
 * Dirty pages are never evicted (NO-STEAL) and are written when their
 * transaction commits (FORCE), so the replacer only ever sees clean pages.
 */
type BufferPoolManager struct {
	numPages    int
	catalog     FileCatalog
	pages       map[page.HeapPageID]*access.HeapPage
	replacer    *ClockReplacer
	lockManager *LockManager
	dirtied     map[types.TxnID]mapset.Set[page.HeapPageID]
	mutex       *deadlock.Mutex
}

// NewBufferPoolManager returns a empty buffer pool manager holding at most numPages pages
func NewBufferPoolManager(numPages int, catalog FileCatalog) *BufferPoolManager {
	return &BufferPoolManager{
		numPages:    numPages,
		catalog:     catalog,
		pages:       make(map[page.HeapPageID]*access.HeapPage),
		replacer:    NewClockReplacer(uint32(numPages)),
		lockManager: NewLockManager(),
		dirtied:     make(map[types.TxnID]mapset.Set[page.HeapPageID]),
		mutex:       new(deadlock.Mutex),
	}
}

func (b *BufferPoolManager) GetLockManager() *LockManager {
	return b.lockManager
}

func (b *BufferPoolManager) GetPoolSize() int {
	return b.numPages
}

// GetPage locks pid for txn in the mode perm asks for, then returns the
// cached page or reads it from its heap file. It blocks while another
// transaction holds a conflicting lock and returns ErrTxnAborted instead of
// deadlocking.
func (b *BufferPoolManager) GetPage(txn types.TxnID, pid page.HeapPageID, perm types.Permission) (*access.HeapPage, error) {
	// never wait for a page lock while holding the pool mutex
	if err := b.lockManager.Lock(txn, pid, perm); err != nil {
		return nil, err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	if hp, ok := b.pages[pid]; ok {
		return hp, nil
	}

	if err := b.makeRoom(); err != nil {
		return nil, err
	}

	heapFile, err := b.catalog.GetDatabaseFile(pid.GetTableID())
	if err != nil {
		return nil, err
	}
	hp, err := heapFile.ReadPage(pid)
	if err != nil {
		return nil, err
	}
	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO_DETAIL, "BufferPoolManager::GetPage txn %d read %v %v\n", txn, pid, perm)
	}
	b.pages[pid] = hp
	b.replacer.Unpin(pid)
	return hp, nil
}

// makeRoom evicts one clean page when the pool is full. Caller holds mutex.
func (b *BufferPoolManager) makeRoom() error {
	if len(b.pages) < b.numPages {
		return nil
	}
	victim := b.replacer.Victim()
	if victim == nil {
		return ErrBufferPoolFull
	}
	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO_DETAIL, "BufferPoolManager::makeRoom evict %v\n", *victim)
	}
	delete(b.pages, *victim)
	return nil
}

// ReleasePage gives up txn's lock on pid before the transaction ends. Only
// safe for pages txn has not modified.
func (b *BufferPoolManager) ReleasePage(txn types.TxnID, pid page.HeapPageID) {
	b.lockManager.Unlock(txn, pid)
}

func (b *BufferPoolManager) HoldsLock(txn types.TxnID, pid page.HeapPageID) bool {
	return b.lockManager.HoldsLock(txn, pid)
}

// InsertTuple adds t to tableID for txn and marks the pages it touched dirty.
func (b *BufferPoolManager) InsertTuple(txn types.TxnID, tableID types.TableID, t *tuple.Tuple) error {
	heapFile, err := b.catalog.GetDatabaseFile(tableID)
	if err != nil {
		return err
	}
	dirtied, err := heapFile.InsertTuple(txn, t)
	if err != nil {
		return err
	}
	return b.markDirty(txn, dirtied)
}

// DeleteTuple removes t from the table its RID names and marks the pages it
// touched dirty.
func (b *BufferPoolManager) DeleteTuple(txn types.TxnID, t *tuple.Tuple) error {
	if t.GetRID() == nil {
		return access.ErrTupleNoRID
	}
	heapFile, err := b.catalog.GetDatabaseFile(t.GetRID().GetPageId().GetTableID())
	if err != nil {
		return err
	}
	dirtied, err := heapFile.DeleteTuple(txn, t)
	if err != nil {
		return err
	}
	return b.markDirty(txn, dirtied)
}

// markDirty pins the pages so they stay cached until txn completes. A page
// evicted between GetPage and here is put back: txn's exclusive lock kept
// anyone else from loading another copy. Each page is charged to txn before
// that, so an abort still discards it when there is no room to put it back.
func (b *BufferPoolManager) markDirty(txn types.TxnID, dirtied []*access.HeapPage) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	for _, hp := range dirtied {
		pid := hp.GetID()
		set, ok := b.dirtied[txn]
		if !ok {
			set = mapset.NewThreadUnsafeSet[page.HeapPageID]()
			b.dirtied[txn] = set
		}
		set.Add(pid)
		hp.MarkDirty(true, txn)

		if cached, ok := b.pages[pid]; !ok || cached != hp {
			if !ok {
				if err := b.makeRoom(); err != nil {
					return err
				}
			}
			b.pages[pid] = hp
		}
		b.replacer.Pin(pid)
	}
	return nil
}

// FlushPage writes pid to disk if it is cached and dirty.
func (b *BufferPoolManager) FlushPage(pid page.HeapPageID) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.flushPage(pid)
}

func (b *BufferPoolManager) flushPage(pid page.HeapPageID) error {
	hp, ok := b.pages[pid]
	if !ok || !hp.IsDirty() {
		return nil
	}
	heapFile, err := b.catalog.GetDatabaseFile(pid.GetTableID())
	if err != nil {
		return err
	}
	if err := heapFile.WritePage(hp); err != nil {
		return err
	}
	if set, ok := b.dirtied[hp.GetDirtier()]; ok {
		set.Remove(pid)
	}
	hp.MarkDirty(false, types.InvalidTxnID)
	b.replacer.Unpin(pid)
	return nil
}

// FlushAllPages writes every dirty page, committed or not. Meant for shutdown.
func (b *BufferPoolManager) FlushAllPages() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	for pid := range b.pages {
		if err := b.flushPage(pid); err != nil {
			return err
		}
	}
	return nil
}

// FlushPages writes the pages txn dirtied.
func (b *BufferPoolManager) FlushPages(txn types.TxnID) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	set, ok := b.dirtied[txn]
	if !ok {
		return nil
	}
	for _, pid := range set.ToSlice() {
		if err := b.flushPage(pid); err != nil {
			return err
		}
	}
	return nil
}

// DiscardPage drops pid from the pool without writing it.
func (b *BufferPoolManager) DiscardPage(pid page.HeapPageID) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.discardPage(pid)
}

func (b *BufferPoolManager) discardPage(pid page.HeapPageID) {
	if hp, ok := b.pages[pid]; ok {
		if set, ok := b.dirtied[hp.GetDirtier()]; ok {
			set.Remove(pid)
		}
		delete(b.pages, pid)
	}
	b.replacer.Pin(pid)
}

// TransactionComplete ends txn. On commit its dirty pages are written, on
// abort they are dropped so the next reader gets the on disk version. All of
// txn's locks are released either way.
func (b *BufferPoolManager) TransactionComplete(txn types.TxnID, commit bool) error {
	var err error
	b.mutex.Lock()
	if set, ok := b.dirtied[txn]; ok {
		for _, pid := range set.ToSlice() {
			if commit {
				if flushErr := b.flushPage(pid); flushErr != nil && err == nil {
					err = flushErr
				}
			} else {
				b.discardPage(pid)
			}
		}
		delete(b.dirtied, txn)
	}
	b.mutex.Unlock()

	b.lockManager.UnlockAll(txn)
	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO, "BufferPoolManager::TransactionComplete txn %d commit=%v err=%v\n", txn, commit, err)
	}
	return err
}

// IsCached reports whether pid is in the pool, for tests and diagnostics.
func (b *BufferPoolManager) IsCached(pid page.HeapPageID) bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	_, ok := b.pages[pid]
	return ok
}

// NumCached is the number of pages in the pool.
func (b *BufferPoolManager) NumCached() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.pages)
}

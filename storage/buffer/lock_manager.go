package buffer

import (
	"fmt"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/golang-collections/collections/stack"
	pair "github.com/notEpsilon/go-pair"
	"github.com/sasha-s/go-deadlock"

	"github.com/heapstore/heapstore/common"
	"github.com/heapstore/heapstore/errors"
	"github.com/heapstore/heapstore/storage/page"
	"github.com/heapstore/heapstore/types"
)

const ErrTxnAborted = errors.Error("transaction aborted: lock request would deadlock")

type LockMode int32

const (
	SHARED LockMode = iota
	EXCLUSIVE
)

func lockModeOf(perm types.Permission) LockMode {
	if perm == types.ReadWrite {
		return EXCLUSIVE
	}
	return SHARED
}

type pageLock struct {
	sharers   mapset.Set[types.TxnID]
	exclusive types.TxnID
}

/**
 * LockManager hands out page granularity shared and exclusive locks, held
 * until the transaction releases them (strict two phase locking).
 * A blocked request adds edges to the waits-for graph. When the new edges
 * close a cycle the requester is the victim and gets ErrTxnAborted.
 */
type LockManager struct {
	mutex     *deadlock.Mutex
	cond      *sync.Cond
	lockTable map[page.HeapPageID]*pageLock
	txnLocks  map[types.TxnID]mapset.Set[page.HeapPageID]
	waitsFor  map[types.TxnID]mapset.Set[types.TxnID]
}

func NewLockManager() *LockManager {
	mutex := new(deadlock.Mutex)
	return &LockManager{
		mutex:     mutex,
		cond:      sync.NewCond(mutex),
		lockTable: make(map[page.HeapPageID]*pageLock),
		txnLocks:  make(map[types.TxnID]mapset.Set[page.HeapPageID]),
		waitsFor:  make(map[types.TxnID]mapset.Set[types.TxnID]),
	}
}

// Lock blocks until txn holds pid in the mode perm needs. A shared holder
// that is the only sharer is upgraded in place.
func (lm *LockManager) Lock(txn types.TxnID, pid page.HeapPageID, perm types.Permission) error {
	mode := lockModeOf(perm)

	lm.mutex.Lock()
	defer lm.mutex.Unlock()

	for {
		blockers := lm.blockers(txn, pid, mode)
		if blockers.Cardinality() == 0 {
			lm.grant(txn, pid, mode)
			delete(lm.waitsFor, txn)
			return nil
		}

		lm.waitsFor[txn] = blockers
		if lm.hasCycleFrom(txn) {
			delete(lm.waitsFor, txn)
			if common.EnableDebug {
				common.ShPrintf(common.DEBUG_INFO, "LockManager::Lock txn %d aborted on %v, waits-for %v\n", txn, pid, lm.waitsForEdges())
				common.RuntimeStack()
			}
			// others may be waiting on an edge that no longer exists
			lm.cond.Broadcast()
			return ErrTxnAborted
		}
		if common.EnableDebug {
			common.ShPrintf(common.DEBUG_INFO_DETAIL, "LockManager::Lock txn %d waits on %v for %v\n", txn, pid, blockers)
		}
		lm.cond.Wait()
	}
}

func (lm *LockManager) blockers(txn types.TxnID, pid page.HeapPageID, mode LockMode) mapset.Set[types.TxnID] {
	ret := mapset.NewThreadUnsafeSet[types.TxnID]()
	lock, ok := lm.lockTable[pid]
	if !ok {
		return ret
	}
	if lock.exclusive != types.InvalidTxnID && lock.exclusive != txn {
		ret.Add(lock.exclusive)
	}
	if mode == EXCLUSIVE && lock.exclusive != txn {
		lock.sharers.Each(func(holder types.TxnID) bool {
			if holder != txn {
				ret.Add(holder)
			}
			return false
		})
	}
	return ret
}

func (lm *LockManager) grant(txn types.TxnID, pid page.HeapPageID, mode LockMode) {
	lock, ok := lm.lockTable[pid]
	if !ok {
		lock = &pageLock{mapset.NewThreadUnsafeSet[types.TxnID](), types.InvalidTxnID}
		lm.lockTable[pid] = lock
	}
	if mode == EXCLUSIVE {
		lock.exclusive = txn
		lock.sharers.Remove(txn)
	} else if lock.exclusive != txn {
		lock.sharers.Add(txn)
	}

	held, ok := lm.txnLocks[txn]
	if !ok {
		held = mapset.NewThreadUnsafeSet[page.HeapPageID]()
		lm.txnLocks[txn] = held
	}
	held.Add(pid)
}

// hasCycleFrom walks the waits-for graph depth first looking for a path back
// to start.
func (lm *LockManager) hasCycleFrom(start types.TxnID) bool {
	visited := mapset.NewThreadUnsafeSet[types.TxnID]()
	toVisit := stack.New()
	toVisit.Push(start)
	for toVisit.Len() > 0 {
		current := toVisit.Pop().(types.TxnID)
		next, ok := lm.waitsFor[current]
		if !ok {
			continue
		}
		for _, holder := range next.ToSlice() {
			if holder == start {
				return true
			}
			if !visited.Contains(holder) {
				visited.Add(holder)
				toVisit.Push(holder)
			}
		}
	}
	return false
}

// Unlock releases txn's lock on pid, whatever its mode.
func (lm *LockManager) Unlock(txn types.TxnID, pid page.HeapPageID) {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()
	lm.release(txn, pid)
	lm.cond.Broadcast()
}

func (lm *LockManager) release(txn types.TxnID, pid page.HeapPageID) {
	if lock, ok := lm.lockTable[pid]; ok {
		lock.sharers.Remove(txn)
		if lock.exclusive == txn {
			lock.exclusive = types.InvalidTxnID
		}
		if lock.exclusive == types.InvalidTxnID && lock.sharers.Cardinality() == 0 {
			delete(lm.lockTable, pid)
		}
	}
	if held, ok := lm.txnLocks[txn]; ok {
		held.Remove(pid)
		if held.Cardinality() == 0 {
			delete(lm.txnLocks, txn)
		}
	}
}

// UnlockAll releases every lock of txn.
func (lm *LockManager) UnlockAll(txn types.TxnID) {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()
	if held, ok := lm.txnLocks[txn]; ok {
		for _, pid := range held.ToSlice() {
			lm.release(txn, pid)
		}
	}
	delete(lm.waitsFor, txn)
	lm.cond.Broadcast()
}

// HoldsLock reports whether txn holds any lock on pid.
func (lm *LockManager) HoldsLock(txn types.TxnID, pid page.HeapPageID) bool {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()
	held, ok := lm.txnLocks[txn]
	return ok && held.Contains(pid)
}

// IsExclusiveLocked reports whether txn holds pid exclusively.
func (lm *LockManager) IsExclusiveLocked(txn types.TxnID, pid page.HeapPageID) bool {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()
	lock, ok := lm.lockTable[pid]
	return ok && lock.exclusive == txn
}

// LockedPages lists the pages txn holds a lock on.
func (lm *LockManager) LockedPages(txn types.TxnID) []page.HeapPageID {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()
	if held, ok := lm.txnLocks[txn]; ok {
		return held.ToSlice()
	}
	return []page.HeapPageID{}
}

// WaitsForEdges is a snapshot of the waits-for graph as (waiter, holder) pairs.
func (lm *LockManager) WaitsForEdges() []pair.Pair[types.TxnID, types.TxnID] {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()
	return lm.waitsForEdges()
}

func (lm *LockManager) waitsForEdges() []pair.Pair[types.TxnID, types.TxnID] {
	ret := make([]pair.Pair[types.TxnID, types.TxnID], 0)
	for waiter, holders := range lm.waitsFor {
		for _, holder := range holders.ToSlice() {
			ret = append(ret, pair.Pair[types.TxnID, types.TxnID]{First: waiter, Second: holder})
		}
	}
	return ret
}

func (lm *LockManager) String() string {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()
	return fmt.Sprintf("LockManager{pages: %d, txns: %d, waiting: %d}", len(lm.lockTable), len(lm.txnLocks), len(lm.waitsFor))
}

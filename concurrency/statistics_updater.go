package concurrency

import (
	"sync/atomic"
	"time"

	"github.com/sasha-s/go-deadlock"

	"github.com/heapstore/heapstore/catalog"
	"github.com/heapstore/heapstore/common"
	"github.com/heapstore/heapstore/optimizer/statistics"
	"github.com/heapstore/heapstore/types"
)

// StatisticsUpdater recomputes the TableStats of every table in the catalog,
// once on demand or periodically from a background goroutine.
type StatisticsUpdater struct {
	transaction_manager *TransactionManager
	c                   *catalog.Catalog
	interval            time.Duration
	stats               map[types.TableID]*statistics.TableStats
	mutex               *deadlock.RWMutex
	// updater thread works when this flag is true
	isUpdaterActive int32
	// guards stopCh and done across Start and Stop
	thMutex *deadlock.Mutex
	stopCh  chan struct{}
	done    chan struct{}
}

func NewStatisticsUpdater(transaction_manager *TransactionManager, c *catalog.Catalog, interval time.Duration) *StatisticsUpdater {
	return &StatisticsUpdater{
		transaction_manager: transaction_manager,
		c:                   c,
		interval:            interval,
		stats:               make(map[types.TableID]*statistics.TableStats),
		mutex:               new(deadlock.RWMutex),
		thMutex:             new(deadlock.Mutex),
	}
}

// StartStaticsUpdaterTh refreshes the statistics now and then once per
// interval until StopStatsUpdateTh. Calling it while the thread runs does
// nothing.
func (updater *StatisticsUpdater) StartStaticsUpdaterTh() {
	updater.thMutex.Lock()
	defer updater.thMutex.Unlock()
	if updater.IsUpdaterActive() {
		return
	}
	atomic.StoreInt32(&updater.isUpdaterActive, 1)
	stopCh, done := make(chan struct{}), make(chan struct{})
	updater.stopCh, updater.done = stopCh, done
	go func() {
		defer close(done)
		ticker := time.NewTicker(updater.interval)
		defer ticker.Stop()
		for {
			common.ShPrintf(common.DEBUG_INFO, "StatisticsUpdaterTh: start updating.\n")
			if err := updater.UpdateAllTablesStatistics(); err != nil {
				common.ShPrintf(common.WARN, "StatisticsUpdaterTh: %v\n", err)
			}
			common.ShPrintf(common.DEBUG_INFO, "StatisticsUpdaterTh: finish updating.\n")
			select {
			case <-stopCh:
				return
			case <-ticker.C:
			}
		}
	}()
}

// UpdateAllTablesStatistics scans every table in one read only transaction.
// On error the transaction is aborted and tables already refreshed keep
// their new statistics.
func (updater *StatisticsUpdater) UpdateAllTablesStatistics() error {
	txn := updater.transaction_manager.Begin(nil)
	for _, oid := range updater.c.TableIDs() {
		hf, err := updater.c.GetDatabaseFile(oid)
		if err != nil {
			updater.transaction_manager.Abort(txn)
			return err
		}
		stat, err := statistics.ComputeTableStats(txn.GetTransactionId(), hf, statistics.IOCostPerPage)
		if err != nil {
			updater.transaction_manager.Abort(txn)
			return err
		}
		updater.mutex.Lock()
		updater.stats[oid] = stat
		updater.mutex.Unlock()
	}
	return updater.transaction_manager.Commit(txn)
}

// GetTableStats returns the latest statistics of oid, or nil before the first update.
func (updater *StatisticsUpdater) GetTableStats(oid types.TableID) *statistics.TableStats {
	updater.mutex.RLock()
	defer updater.mutex.RUnlock()
	return updater.stats[oid]
}

// StopStatsUpdateTh returns once the updater thread has exited, so no refresh
// is running afterwards. A refresh already in progress is finished first.
func (updater *StatisticsUpdater) StopStatsUpdateTh() {
	updater.thMutex.Lock()
	defer updater.thMutex.Unlock()
	if !updater.IsUpdaterActive() {
		return
	}
	close(updater.stopCh)
	<-updater.done
	updater.stopCh, updater.done = nil, nil
	atomic.StoreInt32(&updater.isUpdaterActive, 0)
}

func (updater *StatisticsUpdater) IsUpdaterActive() bool {
	return atomic.LoadInt32(&updater.isUpdaterActive) == 1
}

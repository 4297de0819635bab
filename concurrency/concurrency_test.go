package concurrency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heapstore/heapstore/catalog"
	"github.com/heapstore/heapstore/storage/access"
	"github.com/heapstore/heapstore/storage/buffer"
	"github.com/heapstore/heapstore/storage/disk"
	"github.com/heapstore/heapstore/storage/page"
	"github.com/heapstore/heapstore/storage/table/column"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

func setupTable(t *testing.T, name string) (*catalog.Catalog, *buffer.BufferPoolManager, *access.HeapFile) {
	c := catalog.NewCatalog()
	bpm := buffer.NewBufferPoolManager(20, c)
	schema_ := schema.NewSchema([]*column.Column{column.NewColumn("a", types.Integer)})
	hf, err := access.NewHeapFile(disk.NewVirtualDiskManagerImpl(name, 512), schema_, bpm)
	require.NoError(t, err)
	c.AddTable(hf, name, "")
	return c, bpm, hf
}

func row(hf *access.HeapFile, v int32) *tuple.Tuple {
	return tuple.NewTupleFromSchema([]types.Value{types.NewInteger(v)}, hf.GetTupleDesc())
}

func TestCommitAndAbort(t *testing.T) {
	_, bpm, hf := setupTable(t, "txn_test.dat")
	tm := NewTransactionManager(bpm)

	txn := tm.Begin(nil)
	assert.Equal(t, GROWING, txn.GetState())
	assert.Same(t, txn, tm.GetTransaction(txn.GetTransactionId()))
	require.NoError(t, bpm.InsertTuple(txn.GetTransactionId(), hf.GetID(), row(hf, 1)))
	require.NoError(t, tm.Commit(txn))
	assert.Equal(t, COMMITTED, txn.GetState())
	assert.Equal(t, 0, tm.NumActive())
	assert.Equal(t, ErrTxnNotActive, tm.Commit(txn))

	loser := tm.Begin(nil)
	require.NoError(t, bpm.InsertTuple(loser.GetTransactionId(), hf.GetID(), row(hf, 2)))
	require.NoError(t, tm.Abort(loser))
	assert.Equal(t, ABORTED, loser.GetState())
	assert.False(t, bpm.HoldsLock(loser.GetTransactionId(), page.NewHeapPageID(hf.GetID(), 0)))

	onDisk, err := hf.ReadPage(page.NewHeapPageID(hf.GetID(), 0))
	require.NoError(t, err)
	assert.Equal(t, onDisk.GetNumSlots()-1, onDisk.GetNumEmptySlots())
}

func TestBeginWithGivenTransaction(t *testing.T) {
	_, bpm, _ := setupTable(t, "txn_given.dat")
	tm := NewTransactionManager(bpm)
	txn := NewTransaction(types.NewTxnID())
	txn.SetDebugInfo("given")
	assert.Same(t, txn, tm.Begin(txn))
	assert.Equal(t, "given", tm.GetTransaction(txn.GetTransactionId()).GetDebugInfo())
	require.NoError(t, tm.Abort(txn))
}

func TestStatisticsUpdater(t *testing.T) {
	c, bpm, hf := setupTable(t, "stats_updater.dat")
	tm := NewTransactionManager(bpm)

	txn := tm.Begin(nil)
	for i := int32(0); i < 300; i++ {
		require.NoError(t, bpm.InsertTuple(txn.GetTransactionId(), hf.GetID(), row(hf, i)))
	}
	require.NoError(t, tm.Commit(txn))

	updater := NewStatisticsUpdater(tm, c, time.Hour)
	assert.Nil(t, updater.GetTableStats(hf.GetID()))
	require.NoError(t, updater.UpdateAllTablesStatistics())
	stats := updater.GetTableStats(hf.GetID())
	require.NotNil(t, stats)
	assert.Equal(t, int64(300), stats.NumTuples())
	assert.Equal(t, 0, tm.NumActive())
}

func TestStatisticsUpdaterThread(t *testing.T) {
	c, bpm, hf := setupTable(t, "stats_thread.dat")
	tm := NewTransactionManager(bpm)
	updater := NewStatisticsUpdater(tm, c, 10*time.Millisecond)

	updater.StartStaticsUpdaterTh()
	assert.True(t, updater.IsUpdaterActive())
	assert.Eventually(t, func() bool {
		return updater.GetTableStats(hf.GetID()) != nil
	}, 5*time.Second, 10*time.Millisecond)
	updater.StopStatsUpdateTh()
	assert.False(t, updater.IsUpdaterActive())
}

func TestStatisticsUpdaterStopsWithoutWaitingForInterval(t *testing.T) {
	c, bpm, hf := setupTable(t, "stats_stop.dat")
	tm := NewTransactionManager(bpm)
	updater := NewStatisticsUpdater(tm, c, time.Hour)

	updater.StartStaticsUpdaterTh()
	// a second start does not spawn another thread
	updater.StartStaticsUpdaterTh()
	assert.Eventually(t, func() bool {
		return updater.GetTableStats(hf.GetID()) != nil
	}, 5*time.Second, 10*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		updater.StopStatsUpdateTh()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("StopStatsUpdateTh did not return")
	}
	assert.False(t, updater.IsUpdaterActive())
	assert.Equal(t, 0, tm.NumActive())

	// stopping twice and restarting both work
	updater.StopStatsUpdateTh()
	updater.StartStaticsUpdaterTh()
	assert.True(t, updater.IsUpdaterActive())
	updater.StopStatsUpdateTh()
	assert.False(t, updater.IsUpdaterActive())
}

package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heapstore/heapstore/catalog"
	"github.com/heapstore/heapstore/execution/expression"
	"github.com/heapstore/heapstore/storage/access"
	"github.com/heapstore/heapstore/storage/buffer"
	"github.com/heapstore/heapstore/storage/disk"
	"github.com/heapstore/heapstore/storage/table/column"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

func TestComputeTableStats(t *testing.T) {
	c := catalog.NewCatalog()
	bpm := buffer.NewBufferPoolManager(10, c)
	schema_ := schema.NewSchema([]*column.Column{column.NewColumn("id", types.Integer), column.NewVarcharColumn("name", 8)})
	hf, err := access.NewHeapFile(disk.NewVirtualDiskManagerImpl("stats.dat", 1024), schema_, bpm)
	require.NoError(t, err)
	c.AddTable(hf, "stats", "id")

	txn := types.NewTxnID()
	for i := int32(0); i < 200; i++ {
		row := tuple.NewTupleFromSchema([]types.Value{types.NewInteger(i), types.NewVarchar("n")}, schema_)
		require.NoError(t, bpm.InsertTuple(txn, hf.GetID(), row))
	}
	require.NoError(t, bpm.TransactionComplete(txn, true))

	reader := types.NewTxnID()
	stats, err := ComputeTableStats(reader, hf, IOCostPerPage)
	require.NoError(t, err)
	require.NoError(t, bpm.TransactionComplete(reader, true))

	numPages, _ := hf.NumPages()
	assert.Equal(t, int64(200), stats.NumTuples())
	assert.Equal(t, numPages, stats.NumPages())
	assert.Equal(t, float64(numPages*IOCostPerPage), stats.EstimateScanCost())

	sel := stats.EstimateSelectivity(0, expression.LessThan, types.NewInteger(100))
	assert.InDelta(t, 0.5, sel, 0.02)
	assert.Equal(t, int64(100), stats.EstimateTableCardinality(0.5))
	assert.Equal(t, 1.0, stats.EstimateSelectivity(1, expression.NotEqual, types.NewVarchar("zzz")))
	assert.Equal(t, 1.0, stats.EstimateSelectivity(0, expression.Equal, types.NewVarchar("mismatch")))
	assert.Equal(t, 1.0, stats.AvgSelectivity(7))
}

func TestComputeTableStatsEmpty(t *testing.T) {
	c := catalog.NewCatalog()
	bpm := buffer.NewBufferPoolManager(10, c)
	schema_ := schema.NewSchema([]*column.Column{column.NewColumn("id", types.Integer)})
	hf, err := access.NewHeapFile(disk.NewVirtualDiskManagerImpl("empty_stats.dat", 1024), schema_, bpm)
	require.NoError(t, err)
	c.AddTable(hf, "empty", "")

	stats, err := ComputeTableStats(types.NewTxnID(), hf, IOCostPerPage)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.NumTuples())
	assert.Equal(t, 0.0, stats.EstimateSelectivity(0, expression.Equal, types.NewInteger(1)))
}

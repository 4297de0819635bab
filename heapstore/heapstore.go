package heapstore

import (
	"fmt"
	"path/filepath"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/heapstore/heapstore/catalog"
	"github.com/heapstore/heapstore/common"
	"github.com/heapstore/heapstore/concurrency"
	"github.com/heapstore/heapstore/execution/executors"
	"github.com/heapstore/heapstore/execution/expression"
	"github.com/heapstore/heapstore/optimizer/statistics"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

// interval of the background statistics refresh
const StatsUpdateInterval = time.Minute

// HeapStore is the embedded entry point: every call runs as one transaction
// that commits on success and aborts on any error.
type HeapStore struct {
	shi_          *HeapStoreInstance
	stats_updater *concurrency.StatisticsUpdater
}

func NewHeapStore(cfg *common.Config) *HeapStore {
	shi := NewHeapStoreInstance(cfg)
	updater := concurrency.NewStatisticsUpdater(shi.GetTransactionManager(), shi.GetCatalog(), StatsUpdateInterval)
	return &HeapStore{shi, updater}
}

func (hs *HeapStore) GetInstance() *HeapStoreInstance {
	return hs.shi_
}

// CreateTable opens <data_dir>/<name>.dat, creating it if needed, and
// registers it in the catalog.
func (hs *HeapStore) CreateTable(name string, schema_ *schema.Schema, pkeyField string) (types.TableID, error) {
	path := filepath.Join(hs.shi_.GetConfig().DataDir, name+".dat")
	hf, err := hs.shi_.OpenHeapFile(path, schema_)
	if err != nil {
		return 0, err
	}
	hs.shi_.GetCatalog().AddTable(hf, name, pkeyField)
	return hf.GetID(), nil
}

// LoadSchema registers every table of a catalog file.
func (hs *HeapStore) LoadSchema(catalogFile string) error {
	return hs.shi_.GetCatalog().LoadSchema(catalogFile, uint32(hs.shi_.GetConfig().StringMaxLen), hs.shi_.OpenHeapFile)
}

// Predicate builds "field op operand" against the columns of tableName.
func (hs *HeapStore) Predicate(tableName string, fieldName string, op expression.ComparisonType, operand types.Value) (*expression.Predicate, error) {
	tableID, err := hs.shi_.GetCatalog().GetTableID(tableName)
	if err != nil {
		return nil, err
	}
	schema_, err := hs.shi_.GetCatalog().GetTupleDesc(tableID)
	if err != nil {
		return nil, err
	}
	field := schema_.GetColIndex(fieldName)
	if field >= schema_.GetColumnCount() {
		return nil, pkgerrors.Wrapf(expression.ErrNoSuchField, "%s.%s", tableName, fieldName)
	}
	return expression.NewPredicate(schema_, field, op, operand)
}

// execute runs body in a new transaction.
func (hs *HeapStore) execute(body func(ctx *executors.ExecutorContext) error) error {
	tm := hs.shi_.GetTransactionManager()
	txn := tm.Begin(nil)
	ctx := executors.NewExecutorContext(hs.shi_.GetCatalog(), hs.shi_.GetBufferPoolManager(), txn)
	if err := body(ctx); err != nil {
		if common.EnableDebug {
			common.ShPrintf(common.DEBUG_INFO, "HeapStore: txn %d aborted: %v\n", txn.GetTransactionId(), err)
		}
		if abortErr := tm.Abort(txn); abortErr != nil {
			common.ShPrintf(common.ERROR, "HeapStore: abort of txn %d failed: %v\n", txn.GetTransactionId(), abortErr)
		}
		return err
	}
	return tm.Commit(txn)
}

func (hs *HeapStore) scan(ctx *executors.ExecutorContext, tableName string, where *expression.Predicate) (executors.Executor, error) {
	tableID, err := hs.shi_.GetCatalog().GetTableID(tableName)
	if err != nil {
		return nil, err
	}
	seqScan, err := executors.NewSeqScanExecutor(ctx, tableID, tableName)
	if err != nil {
		return nil, err
	}
	if where == nil {
		return seqScan, nil
	}
	return executors.NewFilterExecutor(where, seqScan), nil
}

func runOnce(e executors.Executor) ([]*tuple.Tuple, error) {
	if err := e.Open(); err != nil {
		return nil, err
	}
	defer e.Close()
	return executors.Drain(e)
}

// Insert appends rows to tableName and returns how many were written.
func (hs *HeapStore) Insert(tableName string, rows [][]types.Value) (int32, error) {
	var cnt int32
	err := hs.execute(func(ctx *executors.ExecutorContext) error {
		tableID, err := hs.shi_.GetCatalog().GetTableID(tableName)
		if err != nil {
			return err
		}
		schema_, err := hs.shi_.GetCatalog().GetTupleDesc(tableID)
		if err != nil {
			return err
		}
		insert, err := executors.NewInsertExecutor(ctx, executors.NewValuesExecutor(schema_, rows), tableID)
		if err != nil {
			return err
		}
		result, err := runOnce(insert)
		if err != nil {
			return err
		}
		cnt = result[0].GetValue(0).ToInteger()
		return nil
	})
	return cnt, err
}

// Select returns the rows of tableName matching where (every row when nil).
func (hs *HeapStore) Select(tableName string, where *expression.Predicate) ([][]types.Value, error) {
	var ret [][]types.Value
	err := hs.execute(func(ctx *executors.ExecutorContext) error {
		e, err := hs.scan(ctx, tableName, where)
		if err != nil {
			return err
		}
		result, err := runOnce(e)
		if err != nil {
			return err
		}
		ret = ConvTupleListToValues(result)
		return nil
	})
	return ret, err
}

// Delete removes the rows of tableName matching where and returns how many
// were removed.
func (hs *HeapStore) Delete(tableName string, where *expression.Predicate) (int32, error) {
	var cnt int32
	err := hs.execute(func(ctx *executors.ExecutorContext) error {
		e, err := hs.scan(ctx, tableName, where)
		if err != nil {
			return err
		}
		result, err := runOnce(executors.NewDeleteExecutor(ctx, e))
		if err != nil {
			return err
		}
		cnt = result[0].GetValue(0).ToInteger()
		return nil
	})
	return cnt, err
}

// Aggregate computes op over aggField of tableName. groupField may be empty
// for a single result over all rows.
func (hs *HeapStore) Aggregate(tableName string, aggField string, groupField string, op executors.AggregationType) ([][]types.Value, error) {
	var ret [][]types.Value
	err := hs.execute(func(ctx *executors.ExecutorContext) error {
		e, err := hs.scan(ctx, tableName, nil)
		if err != nil {
			return err
		}
		in := e.GetOutputSchema()
		afield := in.GetColIndex(tableName + "." + aggField)
		gbfield := executors.NoGrouping
		if groupField != "" {
			gbfield = int(in.GetColIndex(tableName + "." + groupField))
		}
		agg, err := executors.NewAggregationExecutor(e, afield, gbfield, op)
		if err != nil {
			return err
		}
		result, err := runOnce(agg)
		if err != nil {
			return err
		}
		ret = ConvTupleListToValues(result)
		return nil
	})
	return ret, err
}

// UpdateStatistics recomputes the statistics of every table now.
func (hs *HeapStore) UpdateStatistics() error {
	return hs.stats_updater.UpdateAllTablesStatistics()
}

// StartStatisticsUpdater refreshes statistics every StatsUpdateInterval until Finalize.
func (hs *HeapStore) StartStatisticsUpdater() {
	hs.stats_updater.StartStaticsUpdaterTh()
}

// GetTableStats returns the last computed statistics of tableName, or nil.
func (hs *HeapStore) GetTableStats(tableName string) (*statistics.TableStats, error) {
	tableID, err := hs.shi_.GetCatalog().GetTableID(tableName)
	if err != nil {
		return nil, err
	}
	return hs.stats_updater.GetTableStats(tableID), nil
}

func (hs *HeapStore) GetCatalog() *catalog.Catalog {
	return hs.shi_.GetCatalog()
}

// Finalize waits for the statistics thread to exit before closing the files.
func (hs *HeapStore) Finalize(IsRemoveFiles bool) error {
	hs.stats_updater.StopStatsUpdateTh()
	return hs.shi_.Shutdown(IsRemoveFiles)
}

func ConvTupleListToValues(result []*tuple.Tuple) [][]types.Value {
	retVals := make([][]types.Value, 0, len(result))
	for _, tuple_ := range result {
		rowVals := make([]types.Value, len(tuple_.Values()))
		copy(rowVals, tuple_.Values())
		retVals = append(retVals, rowVals)
	}
	return retVals
}

func PrintExecuteResults(results [][]types.Value) {
	fmt.Println("----")
	for _, valList := range results {
		for _, val := range valList {
			fmt.Printf("%s ", val.String())
		}
		fmt.Println("")
	}
}

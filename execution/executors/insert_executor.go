package executors

import (
	pkgerrors "github.com/pkg/errors"

	"github.com/heapstore/heapstore/common"
	"github.com/heapstore/heapstore/errors"
	"github.com/heapstore/heapstore/storage/table/column"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

const ErrSchemaMismatch = errors.Error("child schema does not match the table")

// countSchema is the output of insert and delete: one integer holding the
// number of affected records.
var countSchema = schema.NewSchema([]*column.Column{column.NewColumn("count", types.Integer)})

func countTuple(n int32) *tuple.Tuple {
	return tuple.NewTupleFromSchema([]types.Value{types.NewInteger(n)}, countSchema)
}

// InsertExecutor adds every tuple of child to a table through the buffer pool.
// It produces a single tuple with the number of inserted records.
type InsertExecutor struct {
	operator
	context     *ExecutorContext
	child       Executor
	tableID     types.TableID
	tableSchema *schema.Schema
	called      bool
}

func NewInsertExecutor(context *ExecutorContext, child Executor, tableID types.TableID) (*InsertExecutor, error) {
	tableSchema, err := context.GetCatalog().GetTupleDesc(tableID)
	if err != nil {
		return nil, err
	}
	if !tableSchema.Equals(child.GetOutputSchema()) {
		return nil, pkgerrors.Wrapf(ErrSchemaMismatch, "table %v, child %v", tableSchema, child.GetOutputSchema())
	}
	e := &InsertExecutor{context: context, child: child, tableID: tableID, tableSchema: tableSchema}
	e.fetch = e.fetchNext
	return e, nil
}

func (e *InsertExecutor) Open() error {
	if err := e.child.Open(); err != nil {
		return err
	}
	e.called = false
	e.open()
	return nil
}

func (e *InsertExecutor) fetchNext() (*tuple.Tuple, error) {
	if e.called {
		return nil, nil
	}
	txn := e.context.GetTransaction().GetTransactionId()
	cnt := int32(0)
	for {
		hasNext, err := e.child.HasNext()
		if err != nil {
			return nil, err
		}
		if !hasNext {
			break
		}
		t, err := e.child.Next()
		if err != nil {
			return nil, err
		}
		// the copy gets the new RID, t keeps its own
		if err := e.context.GetBufferPoolManager().InsertTuple(txn, e.tableID, tuple.NewTupleFromSchema(t.Values(), e.tableSchema)); err != nil {
			return nil, err
		}
		cnt++
	}
	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO, "InsertExecutor: %d tuples inserted by txn %d\n", cnt, txn)
	}
	e.called = true
	return countTuple(cnt), nil
}

func (e *InsertExecutor) Rewind() error {
	if !e.isOpen {
		return ErrNotOpen
	}
	if err := e.child.Rewind(); err != nil {
		return err
	}
	e.called = false
	e.pending = nil
	return nil
}

func (e *InsertExecutor) Close() {
	e.child.Close()
	e.close()
}

func (e *InsertExecutor) GetOutputSchema() *schema.Schema {
	return countSchema
}

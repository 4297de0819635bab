package executors

import (
	"github.com/heapstore/heapstore/common"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
)

// DeleteExecutor removes every tuple of child from the table its RID names.
// It produces a single tuple with the number of deleted records.
type DeleteExecutor struct {
	operator
	context *ExecutorContext
	child   Executor
	called  bool
}

func NewDeleteExecutor(context *ExecutorContext, child Executor) *DeleteExecutor {
	e := &DeleteExecutor{context: context, child: child}
	e.fetch = e.fetchNext
	return e
}

func (e *DeleteExecutor) Open() error {
	if err := e.child.Open(); err != nil {
		return err
	}
	e.called = false
	e.open()
	return nil
}

func (e *DeleteExecutor) fetchNext() (*tuple.Tuple, error) {
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
		if err := e.context.GetBufferPoolManager().DeleteTuple(txn, t); err != nil {
			return nil, err
		}
		cnt++
	}
	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO, "DeleteExecutor: %d tuples deleted by txn %d\n", cnt, txn)
	}
	e.called = true
	return countTuple(cnt), nil
}

func (e *DeleteExecutor) Rewind() error {
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

func (e *DeleteExecutor) Close() {
	e.child.Close()
	e.close()
}

func (e *DeleteExecutor) GetOutputSchema() *schema.Schema {
	return countSchema
}

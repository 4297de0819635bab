package executors

import (
	"github.com/heapstore/heapstore/catalog"
	"github.com/heapstore/heapstore/concurrency"
	"github.com/heapstore/heapstore/storage/buffer"
)

// ExecutorContext stores all the context necessary to run an executor
type ExecutorContext struct {
	catalog *catalog.Catalog
	bpm     *buffer.BufferPoolManager
	txn     *concurrency.Transaction
}

func NewExecutorContext(catalog *catalog.Catalog, bpm *buffer.BufferPoolManager, txn *concurrency.Transaction) *ExecutorContext {
	return &ExecutorContext{catalog, bpm, txn}
}

func (e *ExecutorContext) GetCatalog() *catalog.Catalog {
	return e.catalog
}

func (e *ExecutorContext) GetBufferPoolManager() *buffer.BufferPoolManager {
	return e.bpm
}

func (e *ExecutorContext) GetTransaction() *concurrency.Transaction {
	return e.txn
}

func (e *ExecutorContext) SetTransaction(txn *concurrency.Transaction) {
	e.txn = txn
}

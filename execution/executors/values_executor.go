package executors

import (
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

// ValuesExecutor produces literal rows, typically as the child of an
// InsertExecutor.
type ValuesExecutor struct {
	operator
	outSchema *schema.Schema
	rows      [][]types.Value
	cursor    int
}

func NewValuesExecutor(outSchema *schema.Schema, rows [][]types.Value) *ValuesExecutor {
	e := &ValuesExecutor{outSchema: outSchema, rows: rows}
	e.fetch = e.fetchNext
	return e
}

func (e *ValuesExecutor) Open() error {
	e.cursor = 0
	e.open()
	return nil
}

func (e *ValuesExecutor) fetchNext() (*tuple.Tuple, error) {
	if e.cursor >= len(e.rows) {
		return nil, nil
	}
	e.cursor++
	return tuple.NewTupleFromSchema(e.rows[e.cursor-1], e.outSchema), nil
}

func (e *ValuesExecutor) Rewind() error {
	if !e.isOpen {
		return ErrNotOpen
	}
	e.cursor = 0
	e.pending = nil
	return nil
}

func (e *ValuesExecutor) Close() {
	e.close()
}

func (e *ValuesExecutor) GetOutputSchema() *schema.Schema {
	return e.outSchema
}

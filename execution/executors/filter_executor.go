package executors

import (
	"github.com/heapstore/heapstore/execution/expression"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
)

// FilterExecutor passes on the tuples of child that satisfy predicate.
type FilterExecutor struct {
	operator
	predicate *expression.Predicate
	child     Executor
}

func NewFilterExecutor(predicate *expression.Predicate, child Executor) *FilterExecutor {
	e := &FilterExecutor{predicate: predicate, child: child}
	e.fetch = e.fetchNext
	return e
}

func (e *FilterExecutor) Open() error {
	if err := e.child.Open(); err != nil {
		return err
	}
	e.open()
	return nil
}

func (e *FilterExecutor) fetchNext() (*tuple.Tuple, error) {
	for {
		hasNext, err := e.child.HasNext()
		if err != nil || !hasNext {
			return nil, err
		}
		t, err := e.child.Next()
		if err != nil {
			return nil, err
		}
		if e.predicate == nil || e.predicate.Filter(t) {
			return t, nil
		}
	}
}

func (e *FilterExecutor) Rewind() error {
	if !e.isOpen {
		return ErrNotOpen
	}
	e.pending = nil
	return e.child.Rewind()
}

func (e *FilterExecutor) Close() {
	e.child.Close()
	e.close()
}

func (e *FilterExecutor) GetOutputSchema() *schema.Schema {
	return e.child.GetOutputSchema()
}

func (e *FilterExecutor) GetPredicate() *expression.Predicate {
	return e.predicate
}

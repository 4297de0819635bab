package executors

import (
	"github.com/heapstore/heapstore/errors"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
)

const ErrNotOpen = errors.Error("executor is not open")
const ErrNoSuchElement = errors.Error("executor has no more tuples")

// Executor is a pull based operator.
//
// Open must be called before HasNext, Next and Rewind.
// Next returns ErrNoSuchElement once the operator is exhausted.
// Rewind restarts the operator from its first tuple.
type Executor interface {
	Open() error
	HasNext() (bool, error)
	Next() (*tuple.Tuple, error)
	Rewind() error
	Close()
	GetOutputSchema() *schema.Schema
}

// operator implements HasNext/Next on top of a fetch function that returns
// nil at the end. Executors embed it and supply fetch.
type operator struct {
	isOpen  bool
	pending *tuple.Tuple
	fetch   func() (*tuple.Tuple, error)
}

func (o *operator) open() {
	o.isOpen = true
	o.pending = nil
}

func (o *operator) close() {
	o.isOpen = false
	o.pending = nil
}

func (o *operator) HasNext() (bool, error) {
	if !o.isOpen {
		return false, ErrNotOpen
	}
	if o.pending == nil {
		t, err := o.fetch()
		if err != nil {
			return false, err
		}
		o.pending = t
	}
	return o.pending != nil, nil
}

func (o *operator) Next() (*tuple.Tuple, error) {
	hasNext, err := o.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, ErrNoSuchElement
	}
	ret := o.pending
	o.pending = nil
	return ret, nil
}

// Drain runs e to the end and collects every tuple it produces.
func Drain(e Executor) ([]*tuple.Tuple, error) {
	ret := make([]*tuple.Tuple, 0)
	for {
		hasNext, err := e.HasNext()
		if err != nil {
			return nil, err
		}
		if !hasNext {
			return ret, nil
		}
		t, err := e.Next()
		if err != nil {
			return nil, err
		}
		ret = append(ret, t)
	}
}

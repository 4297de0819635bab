package executors

import (
	pkgerrors "github.com/pkg/errors"

	"github.com/heapstore/heapstore/common"
	"github.com/heapstore/heapstore/execution/expression"
	"github.com/heapstore/heapstore/storage/table/column"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

/**
 * AggregationExecutor computes one aggregate over the tuples of its child,
 * optionally grouped by a single field. Open drains the child; the results
 * are kept until Close, so Rewind only restarts the output.
 */
type AggregationExecutor struct {
	operator
	child      Executor
	afield     uint32
	gbfield    int
	op         AggregationType
	aggregator Aggregator
	outSchema  *schema.Schema
	results    []*tuple.Tuple
	cursor     int
}

// NewAggregationExecutor aggregates field afield of child with op, grouped by
// gbfield or over everything when gbfield is NoGrouping.
func NewAggregationExecutor(child Executor, afield uint32, gbfield int, op AggregationType) (*AggregationExecutor, error) {
	in := child.GetOutputSchema()
	if afield >= in.GetColumnCount() {
		return nil, pkgerrors.Wrapf(expression.ErrNoSuchField, "aggregate field %d", afield)
	}
	if gbfield != NoGrouping && (gbfield < 0 || uint32(gbfield) >= in.GetColumnCount()) {
		return nil, pkgerrors.Wrapf(expression.ErrNoSuchField, "group field %d", gbfield)
	}

	var aggregator Aggregator
	switch in.GetColumn(afield).GetType() {
	case types.Integer:
		aggregator = NewIntegerAggregator(gbfield, afield, op)
	case types.Varchar:
		sa, err := NewStringAggregator(gbfield, afield, op)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "%v over %s", op, in.GetColumn(afield).GetColumnName())
		}
		aggregator = sa
	}

	cols := make([]*column.Column, 0, 2)
	if gbfield != NoGrouping {
		cols = append(cols, in.GetColumn(uint32(gbfield)))
	}
	cols = append(cols, column.NewColumn(AggregateColumnName(op, in.GetColumn(afield).GetColumnName()), types.Integer))

	e := &AggregationExecutor{
		child:      child,
		afield:     afield,
		gbfield:    gbfield,
		op:         op,
		aggregator: aggregator,
		outSchema:  schema.NewSchema(cols),
	}
	e.fetch = e.fetchNext
	return e, nil
}

// AggregateColumnName names the aggregate output column.
func AggregateColumnName(op AggregationType, fieldName string) string {
	return "aggName(" + op.String() + ") (" + fieldName + ")"
}

func (e *AggregationExecutor) Open() error {
	if err := e.child.Open(); err != nil {
		return err
	}
	e.aggregator.Clear()
	for {
		hasNext, err := e.child.HasNext()
		if err != nil {
			return err
		}
		if !hasNext {
			break
		}
		t, err := e.child.Next()
		if err != nil {
			return err
		}
		e.aggregator.MergeTupleIntoGroup(t)
	}
	e.results = e.aggregator.Results(e.outSchema)
	e.cursor = 0
	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO, "AggregationExecutor: %d groups\n", len(e.results))
	}
	e.open()
	return nil
}

func (e *AggregationExecutor) fetchNext() (*tuple.Tuple, error) {
	if e.cursor >= len(e.results) {
		return nil, nil
	}
	e.cursor++
	return e.results[e.cursor-1], nil
}

func (e *AggregationExecutor) Rewind() error {
	if !e.isOpen {
		return ErrNotOpen
	}
	e.cursor = 0
	e.pending = nil
	return nil
}

func (e *AggregationExecutor) Close() {
	e.child.Close()
	e.results = nil
	e.close()
}

func (e *AggregationExecutor) GetOutputSchema() *schema.Schema {
	return e.outSchema
}

func (e *AggregationExecutor) GetAggregateField() uint32 {
	return e.afield
}

func (e *AggregationExecutor) GetGroupByField() int {
	return e.gbfield
}

func (e *AggregationExecutor) GetAggregateOp() AggregationType {
	return e.op
}

package executors

import (
	"math"

	"github.com/heapstore/heapstore/container/hash"
	"github.com/heapstore/heapstore/errors"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

const ErrUnsupportedAggregate = errors.Error("aggregate is not supported for this type")

// NoGrouping is the group field of an aggregate over the whole input.
const NoGrouping = -1

type AggregationType int32

/** AggregationType enumerates all the possible aggregation functions in our system. */
const (
	MIN_AGGREGATE AggregationType = iota
	MAX_AGGREGATE
	SUM_AGGREGATE
	AVG_AGGREGATE
	COUNT_AGGREGATE
)

func (op AggregationType) String() string {
	switch op {
	case MIN_AGGREGATE:
		return "min"
	case MAX_AGGREGATE:
		return "max"
	case SUM_AGGREGATE:
		return "sum"
	case AVG_AGGREGATE:
		return "avg"
	case COUNT_AGGREGATE:
		return "count"
	}
	return "unknown"
}

// Aggregator folds tuples into per group results.
type Aggregator interface {
	// MergeTupleIntoGroup adds t to the group of its group field.
	MergeTupleIntoGroup(t *tuple.Tuple)
	// Results returns one tuple per group in the order groups were first seen.
	// With grouping a tuple is (group value, aggregate value), without it
	// just (aggregate value).
	Results(out *schema.Schema) []*tuple.Tuple
	Clear()
}

// aggregateState is the running value of one group.
type aggregateState struct {
	count int64
	sum   int64
	min   int32
	max   int32
}

func newAggregateState() *aggregateState {
	return &aggregateState{min: math.MaxInt32, max: math.MinInt32}
}

type group struct {
	key   types.Value
	state *aggregateState
}

// groupTable maps group values to their state. Buckets are keyed by the
// murmur hash of the value and chain on collision.
type groupTable struct {
	buckets map[uint32][]*group
	order   []*group
}

func newGroupTable() *groupTable {
	return &groupTable{make(map[uint32][]*group), make([]*group, 0)}
}

func (gt *groupTable) lookup(key types.Value, grouped bool) *group {
	h := uint32(0)
	if grouped {
		h = hash.HashValue(key)
	}
	for _, g := range gt.buckets[h] {
		if !grouped || g.key.CompareEquals(key) {
			return g
		}
	}
	g := &group{key, newAggregateState()}
	gt.buckets[h] = append(gt.buckets[h], g)
	gt.order = append(gt.order, g)
	return g
}

type baseAggregator struct {
	gbfield int
	afield  uint32
	op      AggregationType
	groups  *groupTable
}

func (a *baseAggregator) groupOf(t *tuple.Tuple) *group {
	if a.gbfield == NoGrouping {
		return a.groups.lookup(types.Value{}, false)
	}
	return a.groups.lookup(t.GetValue(uint32(a.gbfield)), true)
}

func (a *baseAggregator) results(out *schema.Schema, value func(*aggregateState) int32) []*tuple.Tuple {
	ret := make([]*tuple.Tuple, 0, len(a.groups.order))
	for _, g := range a.groups.order {
		agg := types.NewInteger(value(g.state))
		if a.gbfield == NoGrouping {
			ret = append(ret, tuple.NewTupleFromSchema([]types.Value{agg}, out))
		} else {
			ret = append(ret, tuple.NewTupleFromSchema([]types.Value{g.key, agg}, out))
		}
	}
	return ret
}

func (a *baseAggregator) Clear() {
	a.groups = newGroupTable()
}

// IntegerAggregator computes MIN, MAX, SUM, AVG or COUNT over an integer
// field. AVG is the truncated integer mean.
type IntegerAggregator struct {
	baseAggregator
}

func NewIntegerAggregator(gbfield int, afield uint32, op AggregationType) *IntegerAggregator {
	return &IntegerAggregator{baseAggregator{gbfield, afield, op, newGroupTable()}}
}

func (a *IntegerAggregator) MergeTupleIntoGroup(t *tuple.Tuple) {
	state := a.groupOf(t).state
	v := t.GetValue(a.afield).ToInteger()
	state.count++
	state.sum += int64(v)
	if v < state.min {
		state.min = v
	}
	if v > state.max {
		state.max = v
	}
}

func (a *IntegerAggregator) Results(out *schema.Schema) []*tuple.Tuple {
	return a.results(out, func(s *aggregateState) int32 {
		switch a.op {
		case MIN_AGGREGATE:
			return s.min
		case MAX_AGGREGATE:
			return s.max
		case SUM_AGGREGATE:
			return int32(s.sum)
		case AVG_AGGREGATE:
			return int32(s.sum / s.count)
		default:
			return int32(s.count)
		}
	})
}

// StringAggregator only counts.
type StringAggregator struct {
	baseAggregator
}

func NewStringAggregator(gbfield int, afield uint32, op AggregationType) (*StringAggregator, error) {
	if op != COUNT_AGGREGATE {
		return nil, ErrUnsupportedAggregate
	}
	return &StringAggregator{baseAggregator{gbfield, afield, op, newGroupTable()}}, nil
}

func (a *StringAggregator) MergeTupleIntoGroup(t *tuple.Tuple) {
	a.groupOf(t).state.count++
}

func (a *StringAggregator) Results(out *schema.Schema) []*tuple.Tuple {
	return a.results(out, func(s *aggregateState) int32 {
		return int32(s.count)
	})
}

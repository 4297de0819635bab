package statistics

import (
	"fmt"
	"math"

	"github.com/heapstore/heapstore/execution/expression"
	"github.com/heapstore/heapstore/storage/access"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

// NumHistBins is the bucket count used for every column histogram.
const NumHistBins = 100

// IOCostPerPage is the default cost of reading one page.
const IOCostPerPage = 1000

// TableStats summarizes one table for cost estimation: row and page counts
// plus one histogram per column.
type TableStats struct {
	schema     *schema.Schema
	numTuples  int64
	numPages   int
	intHists   map[uint32]*IntHistogram
	strHists   map[uint32]*StringHistogram
	ioCostPage float64
}

// ComputeTableStats scans hf twice under txn: once for the integer column
// ranges, once to fill the histograms.
func ComputeTableStats(txn types.TxnID, hf *access.HeapFile, ioCostPerPage float64) (*TableStats, error) {
	schema_ := hf.GetTupleDesc()
	numPages, err := hf.NumPages()
	if err != nil {
		return nil, err
	}
	stats := &TableStats{
		schema:     schema_,
		numPages:   numPages,
		intHists:   make(map[uint32]*IntHistogram),
		strHists:   make(map[uint32]*StringHistogram),
		ioCostPage: ioCostPerPage,
	}

	mins := make(map[uint32]int32)
	maxs := make(map[uint32]int32)
	for i := uint32(0); i < schema_.GetColumnCount(); i++ {
		if schema_.GetColumn(i).GetType() == types.Integer {
			mins[i] = math.MaxInt32
			maxs[i] = math.MinInt32
		}
	}

	it := hf.Iterator(txn)
	if err := it.Open(); err != nil {
		return nil, err
	}
	defer it.Close()

	err = forEach(it, func(t *tuple.Tuple) {
		stats.numTuples++
		for i := range mins {
			v := t.GetValue(i).ToInteger()
			if v < mins[i] {
				mins[i] = v
			}
			if v > maxs[i] {
				maxs[i] = v
			}
		}
	})
	if err != nil {
		return nil, err
	}

	for i := uint32(0); i < schema_.GetColumnCount(); i++ {
		if schema_.GetColumn(i).GetType() == types.Integer {
			if stats.numTuples == 0 {
				mins[i], maxs[i] = 0, 0
			}
			stats.intHists[i] = NewIntHistogram(NumHistBins, mins[i], maxs[i])
		} else {
			stats.strHists[i] = NewStringHistogram(NumHistBins)
		}
	}

	if err := it.Rewind(); err != nil {
		return nil, err
	}
	err = forEach(it, func(t *tuple.Tuple) {
		for i, hist := range stats.intHists {
			hist.AddValue(t.GetValue(i).ToInteger())
		}
		for i, hist := range stats.strHists {
			hist.AddValue(t.GetValue(i).ToVarchar())
		}
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func forEach(it access.DbFileIterator, f func(*tuple.Tuple)) error {
	for {
		hasNext, err := it.HasNext()
		if err != nil {
			return err
		}
		if !hasNext {
			return nil
		}
		t, err := it.Next()
		if err != nil {
			return err
		}
		f(t)
	}
}

// EstimateScanCost is the cost of reading every page once.
func (s *TableStats) EstimateScanCost() float64 {
	return float64(s.numPages) * s.ioCostPage
}

// EstimateTableCardinality is the row count after a filter of the given selectivity.
func (s *TableStats) EstimateTableCardinality(selectivity float64) int64 {
	return int64(float64(s.numTuples) * selectivity)
}

// EstimateSelectivity estimates the fraction of rows with "field op constant".
func (s *TableStats) EstimateSelectivity(field uint32, op expression.ComparisonType, constant types.Value) float64 {
	if hist, ok := s.intHists[field]; ok && constant.ValueType() == types.Integer {
		return hist.EstimateSelectivity(op, constant.ToInteger())
	}
	if hist, ok := s.strHists[field]; ok && constant.ValueType() == types.Varchar {
		return hist.EstimateSelectivity(op, constant.ToVarchar())
	}
	return 1.0
}

// AvgSelectivity is the expected selectivity of field = x for an unknown x.
func (s *TableStats) AvgSelectivity(field uint32) float64 {
	if hist, ok := s.intHists[field]; ok {
		return hist.AvgSelectivity()
	}
	if hist, ok := s.strHists[field]; ok {
		return hist.AvgSelectivity()
	}
	return 1.0
}

func (s *TableStats) NumTuples() int64 {
	return s.numTuples
}

func (s *TableStats) NumPages() int {
	return s.numPages
}

func (s *TableStats) String() string {
	return fmt.Sprintf("TableStats{tuples: %d, pages: %d, columns: %d}", s.numTuples, s.numPages, s.schema.GetColumnCount())
}

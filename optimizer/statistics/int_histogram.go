package statistics

import (
	"fmt"
	"strings"

	"github.com/heapstore/heapstore/execution/expression"
)

// IntHistogram is a fixed width histogram over one integer field whose values
// lie in [min, max]. Space and time are constant in the number of values.
type IntHistogram struct {
	buckets []int64
	min     int32
	max     int32
	width   float64
	ntups   int64
}

// NewIntHistogram splits [min, max] into numBuckets buckets, or into
// max-min+1 buckets when that is fewer.
func NewIntHistogram(numBuckets int, min int32, max int32) *IntHistogram {
	if max < min {
		min, max = max, min
	}
	span := int64(max) - int64(min) + 1
	if numBuckets < 1 {
		numBuckets = 1
	}
	if int64(numBuckets) > span {
		numBuckets = int(span)
	}
	return &IntHistogram{
		buckets: make([]int64, numBuckets),
		min:     min,
		max:     max,
		width:   float64(span) / float64(numBuckets),
	}
}

func (h *IntHistogram) index(v int32) int {
	idx := int(float64(int64(v)-int64(h.min)) / h.width)
	if idx >= len(h.buckets) {
		idx = len(h.buckets) - 1
	}
	return idx
}

// AddValue counts v. Values outside [min, max] are clamped to the edge buckets.
func (h *IntHistogram) AddValue(v int32) {
	if v < h.min {
		v = h.min
	} else if v > h.max {
		v = h.max
	}
	h.buckets[h.index(v)]++
	h.ntups++
}

func (h *IntHistogram) NumValues() int64 {
	return h.ntups
}

// fractions splits the share of the rows that sit in v's bucket into the
// parts below, equal to and above v, assuming values spread evenly.
func (h *IntHistogram) fractions(v int32) (below float64, equal float64, above float64) {
	b := h.index(v)
	left := float64(h.min) + float64(b)*h.width
	right := left + h.width
	share := float64(h.buckets[b]) / float64(h.ntups)

	for i := 0; i < b; i++ {
		below += float64(h.buckets[i]) / float64(h.ntups)
	}
	for i := b + 1; i < len(h.buckets); i++ {
		above += float64(h.buckets[i]) / float64(h.ntups)
	}
	equal = share / h.width
	if equal > share {
		equal = share
	}
	below += share * clamp01((float64(v)-left)/h.width)
	above += share * clamp01((right-float64(v)-1)/h.width)
	return below, equal, above
}

// EstimateSelectivity estimates the fraction of values that satisfy "value op v".
func (h *IntHistogram) EstimateSelectivity(op expression.ComparisonType, v int32) float64 {
	if h.ntups == 0 {
		return 0
	}
	if v < h.min || v > h.max {
		less := v > h.max
		switch op {
		case expression.Equal:
			return 0
		case expression.NotEqual:
			return 1
		case expression.LessThan, expression.LessThanOrEqual:
			return boolToFloat(less)
		case expression.GreaterThan, expression.GreaterThanOrEqual:
			return boolToFloat(!less)
		}
		return 0
	}

	below, equal, above := h.fractions(v)
	var ret float64
	switch op {
	case expression.Equal:
		ret = equal
	case expression.NotEqual:
		ret = 1 - equal
	case expression.LessThan:
		ret = below
	case expression.LessThanOrEqual:
		ret = below + equal
	case expression.GreaterThan:
		ret = above
	case expression.GreaterThanOrEqual:
		ret = above + equal
	}
	return clamp01(ret)
}

// AvgSelectivity is the expected selectivity of an equality predicate with an
// operand drawn from the histogrammed values.
func (h *IntHistogram) AvgSelectivity() float64 {
	if h.ntups == 0 {
		return 0
	}
	sum := 0.0
	for _, count := range h.buckets {
		share := float64(count) / float64(h.ntups)
		sum += share * share / h.width
	}
	return clamp01(sum)
}

func (h *IntHistogram) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "IntHistogram[%d, %d] width=%.2f n=%d:", h.min, h.max, h.width, h.ntups)
	for i, count := range h.buckets {
		fmt.Fprintf(&sb, " b%d=%d", i, count)
	}
	return sb.String()
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

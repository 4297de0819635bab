package statistics

import (
	"github.com/heapstore/heapstore/execution/expression"
)

// StringHistogram maps each string onto an integer that preserves the order
// of its first four bytes and histograms those integers.
type StringHistogram struct {
	hist *IntHistogram
}

func NewStringHistogram(numBuckets int) *StringHistogram {
	return &StringHistogram{NewIntHistogram(numBuckets, minStringVal(), maxStringVal())}
}

func stringToInt(s string) int32 {
	v := int64(0)
	for i := 0; i < 4; i++ {
		v <<= 8
		if i < len(s) {
			v += int64(s[i])
		}
	}
	// keep the unsigned order in int32 range
	return int32(v >> 1)
}

func minStringVal() int32 { return stringToInt("") }

func maxStringVal() int32 { return stringToInt("\xff\xff\xff\xff") }

func (h *StringHistogram) AddValue(s string) {
	h.hist.AddValue(stringToInt(s))
}

func (h *StringHistogram) EstimateSelectivity(op expression.ComparisonType, s string) float64 {
	return h.hist.EstimateSelectivity(op, stringToInt(s))
}

func (h *StringHistogram) AvgSelectivity() float64 {
	return h.hist.AvgSelectivity()
}

func (h *StringHistogram) String() string {
	return h.hist.String()
}

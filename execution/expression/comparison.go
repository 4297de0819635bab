// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package expression

import (
	"fmt"

	"github.com/heapstore/heapstore/errors"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

const ErrTypeMismatch = errors.Error("compared values have different types")

type ComparisonType int

/** ComparisonType represents the type of comparison that we want to perform. */
const (
	Equal ComparisonType = iota
	NotEqual
	GreaterThan
	GreaterThanOrEqual
	LessThan
	LessThanOrEqual
)

func (c ComparisonType) String() string {
	switch c {
	case Equal:
		return "="
	case NotEqual:
		return "<>"
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	}
	return fmt.Sprintf("ComparisonType(%d)", int(c))
}

/**
 * Comparison represents two expressions being compared.
 */
type Comparison struct {
	comparisonType ComparisonType
	children_left  Expression
	children_right Expression
}

// NewComparison fails when the two sides cannot be compared.
func NewComparison(left Expression, right Expression, comparisonType ComparisonType) (*Comparison, error) {
	if left.GetReturnType() != right.GetReturnType() {
		return nil, ErrTypeMismatch
	}
	return &Comparison{comparisonType, left, right}, nil
}

// Filter evaluates both sides on tuple and compares them.
func (c *Comparison) Filter(tuple *tuple.Tuple) bool {
	lhs := c.children_left.Evaluate(tuple)
	rhs := c.children_right.Evaluate(tuple)
	return c.performComparison(lhs, rhs)
}

func (c *Comparison) performComparison(lhs types.Value, rhs types.Value) bool {
	switch c.comparisonType {
	case Equal:
		return lhs.CompareEquals(rhs)
	case NotEqual:
		return lhs.CompareNotEquals(rhs)
	case GreaterThan:
		return lhs.CompareGreaterThan(rhs)
	case GreaterThanOrEqual:
		return lhs.CompareGreaterThanOrEqual(rhs)
	case LessThan:
		return lhs.CompareLessThan(rhs)
	case LessThanOrEqual:
		return lhs.CompareLessThanOrEqual(rhs)
	}
	return false
}

func (c *Comparison) GetComparisonType() ComparisonType {
	return c.comparisonType
}

func (c *Comparison) GetLeft() Expression {
	return c.children_left
}

func (c *Comparison) GetRight() Expression {
	return c.children_right
}

// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package expression

import (
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

type ConstantValue struct {
	value types.Value
}

func NewConstantValue(value types.Value) *ConstantValue {
	return &ConstantValue{value}
}

func (c *ConstantValue) Evaluate(tuple *tuple.Tuple) types.Value {
	return c.value
}

func (c *ConstantValue) GetValue() types.Value {
	return c.value
}

func (c *ConstantValue) GetReturnType() types.TypeID { return c.value.ValueType() }

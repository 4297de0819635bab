// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package expression

import (
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

/**
 * ColumnValue reads one column of the tuple it is evaluated on.
 */
type ColumnValue struct {
	colIndex uint32 // Column index refers to the index within the schema of the tuple, e.g. schema {A,B,C} has indexes {0,1,2}
	colType  types.TypeID
}

func NewColumnValue(colIndex uint32, colType types.TypeID) *ColumnValue {
	return &ColumnValue{colIndex, colType}
}

func (c *ColumnValue) Evaluate(tuple *tuple.Tuple) types.Value {
	return tuple.GetValue(c.colIndex)
}

func (c *ColumnValue) GetColIndex() uint32 {
	return c.colIndex
}

func (c *ColumnValue) GetReturnType() types.TypeID { return c.colType }

// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package column

import (
	"github.com/heapstore/heapstore/common"
	"github.com/heapstore/heapstore/types"
)

type Column struct {
	columnName   string
	columnType   types.TypeID
	maxLength    uint32 // payload bytes of a Varchar column, 0 for Integer
	fixedLength  uint32 // serialized width of the column inside a slot
	columnOffset uint32 // Column offset in the tuple
}

// NewColumn creates a column. Varchar columns get common.StringMaxLen payload bytes.
func NewColumn(name string, columnType types.TypeID) *Column {
	if columnType == types.Varchar {
		return NewVarcharColumn(name, common.StringMaxLen)
	}
	return &Column{name, columnType, 0, columnType.Size(0), 0}
}

func NewVarcharColumn(name string, maxLength uint32) *Column {
	return &Column{name, types.Varchar, maxLength, types.Varchar.Size(maxLength), 0}
}

func (c *Column) GetType() types.TypeID {
	return c.columnType
}

func (c *Column) GetOffset() uint32 {
	return c.columnOffset
}

func (c *Column) SetOffset(offset uint32) {
	c.columnOffset = offset
}

func (c *Column) FixedLength() uint32 {
	return c.fixedLength
}

func (c *Column) MaxLength() uint32 {
	return c.maxLength
}

func (c *Column) GetColumnName() string {
	return c.columnName
}

// Renamed returns a copy of the column with another name, same type and width.
func (c *Column) Renamed(name string) *Column {
	ret := *c
	ret.columnName = name
	return &ret
}

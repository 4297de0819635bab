// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package schema

import (
	"math"
	"strings"

	"github.com/heapstore/heapstore/storage/table/column"
)

// Schema is the fixed layout of the records of one table (a TupleDesc).
// It must not be modified once a table is created with it.
type Schema struct {
	length  uint32           // Fixed-length column size, i.e. the number of bytes used by one tuple
	columns []*column.Column // All the columns in the schema
}

func NewSchema(columns []*column.Column) *Schema {
	schema := &Schema{}

	var currentOffset uint32
	for _, col := range columns {
		// columns are copied so one Column can appear in several schemas
		c := *col
		c.SetOffset(currentOffset)
		currentOffset += c.FixedLength()
		schema.columns = append(schema.columns, &c)
	}
	schema.length = currentOffset
	return schema
}

func (s *Schema) GetColumn(colIndex uint32) *column.Column {
	return s.columns[colIndex]
}

func (s *Schema) GetColumnCount() uint32 {
	return uint32(len(s.columns))
}

// Length is the width in bytes of one serialized record.
func (s *Schema) Length() uint32 {
	return s.length
}

func (s *Schema) GetColIndex(columnName string) uint32 {
	for i := uint32(0); i < s.GetColumnCount(); i++ {
		if s.columns[i].GetColumnName() == columnName {
			return i
		}
	}

	return math.MaxUint32
}

func (s *Schema) GetColumns() []*column.Column {
	return s.columns
}

// Equals compares types and widths, ignoring names.
func (s *Schema) Equals(other *Schema) bool {
	if other == nil || len(s.columns) != len(other.columns) {
		return false
	}
	for i, col := range s.columns {
		o := other.columns[i]
		if col.GetType() != o.GetType() || col.FixedLength() != o.FixedLength() {
			return false
		}
	}
	return true
}

// Merge concatenates the columns of two schemas.
func Merge(left *Schema, right *Schema) *Schema {
	cols := make([]*column.Column, 0, len(left.columns)+len(right.columns))
	cols = append(cols, left.columns...)
	cols = append(cols, right.columns...)
	return NewSchema(cols)
}

// WithPrefix returns the schema with every column name prefixed by "prefix.".
func (s *Schema) WithPrefix(prefix string) *Schema {
	cols := make([]*column.Column, 0, len(s.columns))
	for _, col := range s.columns {
		cols = append(cols, col.Renamed(prefix+"."+col.GetColumnName()))
	}
	return NewSchema(cols)
}

func (s *Schema) String() string {
	parts := make([]string, 0, len(s.columns))
	for _, col := range s.columns {
		parts = append(parts, col.GetType().String()+"("+col.GetColumnName()+")")
	}
	return strings.Join(parts, ", ")
}

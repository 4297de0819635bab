// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package tuple

import (
	"strings"

	"github.com/heapstore/heapstore/storage/page"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/types"
)

/**
 * Tuple format (fixed width, schema.Length() bytes):
 * ------------------------------------------------
 * | COLUMN 0 | COLUMN 1 | ... | COLUMN n-1        |
 * ------------------------------------------------
 * Integer: 4 bytes big endian.
 * Varchar: 4 bytes big endian length, then maxLength bytes zero padded.
 */
type Tuple struct {
	rid    *page.RID
	schema *schema.Schema
	values []types.Value
}

// NewTupleFromSchema creates a new tuple based on input value
func NewTupleFromSchema(values []types.Value, schema_ *schema.Schema) *Tuple {
	if uint32(len(values)) != schema_.GetColumnCount() {
		panic("value count does not match schema")
	}
	copied := make([]types.Value, len(values))
	copy(copied, values)
	return &Tuple{nil, schema_, copied}
}

// NewTupleFromBytes deserializes one record of schema_ from data.
func NewTupleFromBytes(data []byte, schema_ *schema.Schema) *Tuple {
	values := make([]types.Value, schema_.GetColumnCount())
	for i, col := range schema_.GetColumns() {
		offset := col.GetOffset()
		values[i] = types.NewValueFromBytes(data[offset:offset+col.FixedLength()], col.GetType(), col.MaxLength())
	}
	return &Tuple{nil, schema_, values}
}

// SerializeTo writes the record into storage, which must hold Size() bytes.
func (t *Tuple) SerializeTo(storage []byte) {
	for i, col := range t.schema.GetColumns() {
		offset := col.GetOffset()
		t.values[i].SerializeTo(storage[offset:offset+col.FixedLength()], col.MaxLength())
	}
}

func (t *Tuple) Serialize() []byte {
	ret := make([]byte, t.Size())
	t.SerializeTo(ret)
	return ret
}

func (t *Tuple) GetValue(colIndex uint32) types.Value {
	return t.values[colIndex]
}

func (t *Tuple) SetValue(colIndex uint32, value types.Value) {
	t.values[colIndex] = value
}

func (t *Tuple) Values() []types.Value {
	return t.values
}

func (t *Tuple) Schema() *schema.Schema {
	return t.schema
}

// Size is the serialized width of the tuple.
func (t *Tuple) Size() uint32 {
	return t.schema.Length()
}

func (t *Tuple) GetRID() *page.RID {
	return t.rid
}

func (t *Tuple) SetRID(rid *page.RID) {
	t.rid = rid
}

// ValuesEqual compares field values, ignoring the RID.
func (t *Tuple) ValuesEqual(other *Tuple) bool {
	if len(t.values) != len(other.values) {
		return false
	}
	for i := range t.values {
		if t.values[i].ValueType() != other.values[i].ValueType() || !t.values[i].CompareEquals(other.values[i]) {
			return false
		}
	}
	return true
}

func (t *Tuple) GetDeepCopy() *Tuple {
	ret := NewTupleFromSchema(t.values, t.schema)
	if t.rid != nil {
		ret.rid = page.NewRID(t.rid.GetPageId(), t.rid.GetSlotNum())
	}
	return ret
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.values))
	for i, v := range t.values {
		parts[i] = v.String()
	}
	return strings.Join(parts, "\t")
}

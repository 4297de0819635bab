package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heapstore/heapstore/storage/page"
	"github.com/heapstore/heapstore/storage/table/column"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

func intSchema() *schema.Schema {
	return schema.NewSchema([]*column.Column{column.NewColumn("a", types.Integer)})
}

func intTuple(schema_ *schema.Schema, v int32) *tuple.Tuple {
	return tuple.NewTupleFromSchema([]types.Value{types.NewInteger(v)}, schema_)
}

func emptyHeapPage(pageSize uint32, schema_ *schema.Schema) *HeapPage {
	pid := page.NewHeapPageID(types.TableID(1), types.PageID(0))
	return NewHeapPage(pid, page.CreateEmptyPageData(pageSize), schema_)
}

func collect(it *HeapPageIterator) []int32 {
	ret := make([]int32, 0)
	for it.HasNext() {
		ret = append(ret, it.Next().GetValue(0).ToInteger())
	}
	return ret
}

func TestHeapPageInsertFillsInSlotOrder(t *testing.T) {
	schema_ := intSchema()
	hp := emptyHeapPage(4096, schema_)
	assert.Equal(t, uint32(992), hp.GetNumSlots())

	for i := int32(0); i < 992; i++ {
		rid, err := hp.InsertTuple(intTuple(schema_, i))
		require.NoError(t, err)
		assert.Equal(t, uint32(i), rid.GetSlotNum())
	}
	assert.Equal(t, uint32(0), hp.GetNumEmptySlots())

	_, err := hp.InsertTuple(intTuple(schema_, 992))
	assert.Equal(t, ErrPageFull, err)
}

func TestHeapPageFirstFit(t *testing.T) {
	schema_ := intSchema()
	hp := emptyHeapPage(512, schema_)
	tuples := make([]*tuple.Tuple, 0)
	for i := uint32(0); i < hp.GetNumSlots(); i++ {
		tup := intTuple(schema_, int32(i))
		_, err := hp.InsertTuple(tup)
		require.NoError(t, err)
		tuples = append(tuples, tup)
	}

	// leave exactly one hole at slot 37
	require.NoError(t, hp.DeleteTuple(tuples[37]))
	rid, err := hp.InsertTuple(intTuple(schema_, -1))
	require.NoError(t, err)
	assert.Equal(t, uint32(37), rid.GetSlotNum())
	assert.Equal(t, int32(-1), hp.GetTuple(37).GetValue(0).ToInteger())

	// lowest hole wins
	require.NoError(t, hp.DeleteTuple(tuples[90]))
	require.NoError(t, hp.DeleteTuple(tuples[5]))
	rid, err = hp.InsertTuple(intTuple(schema_, -2))
	require.NoError(t, err)
	assert.Equal(t, uint32(5), rid.GetSlotNum())
}

func TestHeapPageDeleteErrors(t *testing.T) {
	schema_ := intSchema()
	hp := emptyHeapPage(512, schema_)
	tup := intTuple(schema_, 7)

	assert.Equal(t, ErrTupleNoRID, hp.DeleteTuple(tup))

	_, err := hp.InsertTuple(tup)
	require.NoError(t, err)
	require.NoError(t, hp.DeleteTuple(tup))
	// double delete
	assert.Equal(t, ErrTupleNotFound, hp.DeleteTuple(tup))

	other := intTuple(schema_, 8)
	other.SetRID(page.NewRID(page.NewHeapPageID(types.TableID(1), types.PageID(3)), 0))
	assert.Equal(t, ErrTupleNotOnPage, hp.DeleteTuple(other))

	other.SetRID(page.NewRID(hp.GetID(), hp.GetNumSlots()+10))
	assert.Equal(t, ErrTupleNotFound, hp.DeleteTuple(other))
}

func TestHeapPageSchemaMismatch(t *testing.T) {
	hp := emptyHeapPage(512, intSchema())
	wide := schema.NewSchema([]*column.Column{column.NewColumn("a", types.Integer), column.NewColumn("b", types.Integer)})
	_, err := hp.InsertTuple(tuple.NewTupleFromSchema([]types.Value{types.NewInteger(1), types.NewInteger(2)}, wide))
	assert.Equal(t, ErrSchemaMismatch, err)
}

func TestHeapPageStaleBytesNeverSurface(t *testing.T) {
	schema_ := intSchema()
	hp := emptyHeapPage(512, schema_)
	a, b := intTuple(schema_, 11), intTuple(schema_, 22)
	_, err := hp.InsertTuple(a)
	require.NoError(t, err)
	_, err = hp.InsertTuple(b)
	require.NoError(t, err)
	require.NoError(t, hp.DeleteTuple(a))

	// the deleted value is still in the slot bytes
	data := hp.GetPageData()
	layout := page.NewLayout(512, 4)
	offset := layout.SlotOffset(0)
	assert.Equal(t, []byte{0, 0, 0, 11}, data[offset:offset+4])
	assert.False(t, layout.IsSlotUsed(data, 0))

	// but nothing reads it back, before or after a round trip
	assert.Nil(t, hp.GetTuple(0))
	assert.Equal(t, []int32{22}, collect(hp.Iterator()))
	reloaded := NewHeapPage(hp.GetID(), data, schema_)
	assert.Nil(t, reloaded.GetTuple(0))
	assert.Equal(t, []int32{22}, collect(reloaded.Iterator()))
}

func TestHeapPageRoundTrip(t *testing.T) {
	schema_ := schema.NewSchema([]*column.Column{column.NewColumn("a", types.Integer), column.NewVarcharColumn("s", 10)})
	hp := emptyHeapPage(1024, schema_)
	tuples := make([]*tuple.Tuple, 0)
	for i := int32(0); i < 30; i++ {
		tup := tuple.NewTupleFromSchema([]types.Value{types.NewInteger(i * 3), types.NewVarchar("row")}, schema_)
		_, err := hp.InsertTuple(tup)
		require.NoError(t, err)
		tuples = append(tuples, tup)
	}
	for i := 0; i < 30; i += 4 {
		require.NoError(t, hp.DeleteTuple(tuples[i]))
	}

	data := hp.GetPageData()
	reloaded := NewHeapPage(hp.GetID(), data, schema_)
	assert.Equal(t, data, reloaded.GetPageData())
	assert.Equal(t, hp.GetNumEmptySlots(), reloaded.GetNumEmptySlots())
	for slot := uint32(0); slot < hp.GetNumSlots(); slot++ {
		assert.Equal(t, hp.IsSlotUsed(slot), reloaded.IsSlotUsed(slot))
	}

	orig, again := hp.Iterator(), reloaded.Iterator()
	for orig.HasNext() {
		require.True(t, again.HasNext())
		x, y := orig.Next(), again.Next()
		assert.True(t, x.ValuesEqual(y))
		assert.Equal(t, *x.GetRID(), *y.GetRID())
	}
	assert.False(t, again.HasNext())
}

func TestHeapPageIteratorRewindAndCopies(t *testing.T) {
	schema_ := intSchema()
	hp := emptyHeapPage(512, schema_)
	for _, v := range []int32{3, 1, 2} {
		_, err := hp.InsertTuple(intTuple(schema_, v))
		require.NoError(t, err)
	}

	it := hp.Iterator()
	first := it.Next()
	assert.Equal(t, int32(3), first.GetValue(0).ToInteger())
	first.SetValue(0, types.NewInteger(100))

	it.Rewind()
	assert.Equal(t, []int32{3, 1, 2}, collect(it))
	assert.Nil(t, it.Next())
	assert.Equal(t, []int32{3, 1, 2}, collect(hp.Iterator()))
}

func TestHeapPageIteratorKeepsItsSnapshot(t *testing.T) {
	schema_ := intSchema()
	hp := emptyHeapPage(512, schema_)
	one, two := intTuple(schema_, 1), intTuple(schema_, 2)
	_, err := hp.InsertTuple(one)
	require.NoError(t, err)
	_, err = hp.InsertTuple(two)
	require.NoError(t, err)

	it := hp.Iterator()
	_, err = hp.InsertTuple(intTuple(schema_, 3))
	require.NoError(t, err)
	require.NoError(t, hp.DeleteTuple(one))

	assert.Equal(t, []int32{1, 2}, collect(it))
	it.Rewind()
	assert.Equal(t, []int32{1, 2}, collect(it))
	// a new iterator sees both changes
	assert.Equal(t, []int32{2, 3}, collect(hp.Iterator()))
}

func TestHeapPageDirty(t *testing.T) {
	hp := emptyHeapPage(512, intSchema())
	assert.False(t, hp.IsDirty())
	hp.MarkDirty(true, types.TxnID(4))
	assert.True(t, hp.IsDirty())
	assert.Equal(t, types.TxnID(4), hp.GetDirtier())
	hp.MarkDirty(false, types.TxnID(4))
	assert.Equal(t, types.InvalidTxnID, hp.GetDirtier())
}

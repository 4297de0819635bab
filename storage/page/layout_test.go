package page

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heapstore/heapstore/types"
)

func TestLayoutOneIntegerColumn(t *testing.T) {
	l := NewLayout(4096, 4)

	// 8*4096 = slots*(8*4+1)
	assert.Equal(t, uint32(992), l.NumSlots())
	assert.Equal(t, uint32(124), l.HeaderSize())
	assert.Equal(t, uint32(124), l.SlotOffset(0))
	assert.Equal(t, uint32(124+991*4), l.SlotOffset(991))
	assert.LessOrEqual(t, l.HeaderSize()+l.NumSlots()*l.RecordWidth(), l.PageSize())
}

func TestLayoutFitsForManyWidths(t *testing.T) {
	for _, pageSize := range []uint32{512, 1024, 4096} {
		for width := uint32(1); width <= 300; width += 7 {
			l := NewLayout(pageSize, width)
			assert.LessOrEqual(t, l.HeaderSize()+l.NumSlots()*width, pageSize, "page %d width %d", pageSize, width)
			// one more slot exceeds the bit budget of the page
			more := l.NumSlots() + 1
			assert.Greater(t, more*(8*width+1), 8*pageSize, "page %d width %d", pageSize, width)
		}
	}
}

func TestBitmapBitOrder(t *testing.T) {
	l := NewLayout(64, 4)
	data := CreateEmptyPageData(64)

	l.SetSlotUsed(data, 0, true)
	l.SetSlotUsed(data, 9, true)
	assert.Equal(t, byte(0x01), data[0])
	assert.Equal(t, byte(0x02), data[1])
	assert.True(t, l.IsSlotUsed(data, 9))
	assert.False(t, l.IsSlotUsed(data, 8))

	slot, ok := l.FirstFreeSlot(data)
	assert.True(t, ok)
	assert.Equal(t, uint32(1), slot)

	l.SetSlotUsed(data, 9, false)
	assert.Equal(t, byte(0x00), data[1])
	assert.Equal(t, l.NumSlots()-1, l.NumEmptySlots(data))
}

func TestEmptyPageTemplateIsZero(t *testing.T) {
	data := CreateEmptyPageData(4096)
	assert.Len(t, data, 4096)
	assert.Equal(t, make([]byte, 4096), data)
}

func TestRID(t *testing.T) {
	rid := RID{}
	pid := NewHeapPageID(types.TableID(7), types.PageID(3))
	rid.Set(pid, uint32(5))
	assert.Equal(t, pid, rid.GetPageId())
	assert.Equal(t, uint32(5), rid.GetSlotNum())
	assert.Equal(t, *NewRID(pid, 5), rid)
}

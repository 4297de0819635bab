package page

// Heap page format:
//
//	-----------------------------------------------------------------
//	| BITMAP (ceil(numSlots/8)) | SLOT 0 | SLOT 1 | ... | SLOT n-1 | pad |
//	-----------------------------------------------------------------
//
// Bit j of the bitmap (byte j/8, bit j%8 counted from the least significant
// bit) is set iff slot j holds a record. Every slot is recordWidth bytes.
// numSlots = floor(8*pageSize / (8*recordWidth + 1)), so one bit plus one
// record fit per slot. Nothing else is stored in the page: the layout is
// recomputed from the page size and the schema on every read.
type Layout struct {
	pageSize    uint32
	recordWidth uint32
	numSlots    uint32
	headerSize  uint32
}

func NewLayout(pageSize uint32, recordWidth uint32) Layout {
	if recordWidth == 0 {
		panic("record width must be positive")
	}
	numSlots := (8 * pageSize) / (8*recordWidth + 1)
	return Layout{
		pageSize:    pageSize,
		recordWidth: recordWidth,
		numSlots:    numSlots,
		headerSize:  (numSlots + 7) / 8,
	}
}

func (l Layout) PageSize() uint32 {
	return l.pageSize
}

func (l Layout) RecordWidth() uint32 {
	return l.recordWidth
}

// NumSlots is the number of records one page can hold.
func (l Layout) NumSlots() uint32 {
	return l.numSlots
}

// HeaderSize is the number of bitmap bytes.
func (l Layout) HeaderSize() uint32 {
	return l.headerSize
}

// SlotOffset is the byte offset of slot inside the page.
func (l Layout) SlotOffset(slot uint32) uint32 {
	return l.headerSize + slot*l.recordWidth
}

// IsSlotUsed reads the bitmap bit of slot.
func (l Layout) IsSlotUsed(data []byte, slot uint32) bool {
	return data[slot/8]&(1<<(slot%8)) != 0
}

// SetSlotUsed sets or clears the bitmap bit of slot.
func (l Layout) SetSlotUsed(data []byte, slot uint32, used bool) {
	if used {
		data[slot/8] |= 1 << (slot % 8)
	} else {
		data[slot/8] &^= 1 << (slot % 8)
	}
}

// NumEmptySlots counts clear bitmap bits.
func (l Layout) NumEmptySlots(data []byte) uint32 {
	empty := uint32(0)
	for slot := uint32(0); slot < l.numSlots; slot++ {
		if !l.IsSlotUsed(data, slot) {
			empty++
		}
	}
	return empty
}

// FirstFreeSlot returns the lowest slot whose bit is clear.
func (l Layout) FirstFreeSlot(data []byte) (uint32, bool) {
	for slot := uint32(0); slot < l.numSlots; slot++ {
		if !l.IsSlotUsed(data, slot) {
			return slot, true
		}
	}
	return 0, false
}

// CreateEmptyPageData returns the bytes of a page with every slot free.
// It depends only on the page size: an empty page is all zero bits.
func CreateEmptyPageData(pageSize uint32) []byte {
	return make([]byte, pageSize)
}

package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heapstore/heapstore/storage/page"
	"github.com/heapstore/heapstore/types"
)

func pid(n int32) page.HeapPageID {
	return page.NewHeapPageID(types.TableID(1), types.PageID(n))
}

func TestClockReplacer(t *testing.T) {
	clockReplacer := NewClockReplacer(7)

	// Scenario: unpin six elements, i.e. add them to the replacer.
	clockReplacer.Unpin(pid(1))
	clockReplacer.Unpin(pid(2))
	clockReplacer.Unpin(pid(3))
	clockReplacer.Unpin(pid(4))
	clockReplacer.Unpin(pid(5))
	clockReplacer.Unpin(pid(6))
	clockReplacer.Unpin(pid(1))
	assert.Equal(t, uint32(6), clockReplacer.Size())

	// Scenario: get three victims from the clock.
	assert.Equal(t, pid(1), *clockReplacer.Victim())
	assert.Equal(t, pid(2), *clockReplacer.Victim())
	assert.Equal(t, pid(3), *clockReplacer.Victim())

	// Scenario: pin elements in the replacer.
	// Note that 3 has already been victimized, so pinning 3 should have no effect.
	clockReplacer.Pin(pid(3))
	clockReplacer.Pin(pid(4))
	assert.Equal(t, uint32(2), clockReplacer.Size())

	// Scenario: unpin 4. We expect that the reference bit of 4 will be set to 1.
	clockReplacer.Unpin(pid(4))

	// Scenario: continue looking for victims. We expect these victims.
	assert.Equal(t, pid(5), *clockReplacer.Victim())
	assert.Equal(t, pid(6), *clockReplacer.Victim())
	assert.Equal(t, pid(4), *clockReplacer.Victim())
	assert.Nil(t, clockReplacer.Victim())
}

func TestClockReplacerPinLastPage(t *testing.T) {
	clockReplacer := NewClockReplacer(2)
	clockReplacer.Unpin(pid(9))
	clockReplacer.Pin(pid(9))
	assert.Equal(t, uint32(0), clockReplacer.Size())
	assert.Nil(t, clockReplacer.Victim())

	clockReplacer.Unpin(pid(8))
	assert.Equal(t, pid(8), *clockReplacer.Victim())
}

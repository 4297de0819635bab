// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import "github.com/heapstore/heapstore/storage/page"

// ClockReplacer picks eviction victims among the pages it tracks. The buffer
// pool only lets it track clean pages.
type ClockReplacer struct {
	cList     *circularList
	clockHand *node
}

// Victim removes the victim page as defined by the replacement policy
func (c *ClockReplacer) Victim() *page.HeapPageID {
	if c.cList.size == 0 {
		return nil
	}

	currentNode := c.clockHand
	for {
		if currentNode.value {
			currentNode.value = false
			currentNode = currentNode.next
			continue
		}
		victim := currentNode.key
		c.clockHand = currentNode.next
		c.cList.remove(victim)
		if c.cList.size == 0 {
			c.clockHand = nil
		}
		return &victim
	}
}

//Unpin unpins a page, indicating that it can now be victimized
func (c *ClockReplacer) Unpin(pid page.HeapPageID) {
	if !c.cList.hasKey(pid) {
		c.cList.insert(pid, true)
		if c.cList.size == 1 {
			c.clockHand = c.cList.head
		}
	}
}

//Pin pins a page, indicating that it should not be victimized until it is unpinned
func (c *ClockReplacer) Pin(pid page.HeapPageID) {
	node := c.cList.find(pid)
	if node == nil {
		return
	}

	if c.clockHand == node {
		c.clockHand = node.next
	}
	c.cList.remove(pid)
	if c.cList.size == 0 {
		c.clockHand = nil
	}
}

//Size returns the size of the clock
func (c *ClockReplacer) Size() uint32 {
	return c.cList.size
}

//NewClockReplacer instantiates a new clock replacer
func NewClockReplacer(poolSize uint32) *ClockReplacer {
	cList := newCircularList(poolSize)
	return &ClockReplacer{cList, nil}
}

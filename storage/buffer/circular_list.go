// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	"fmt"
	"strings"

	"github.com/heapstore/heapstore/storage/page"
)

type node struct {
	key   page.HeapPageID
	value bool
	next  *node
	prev  *node
}

type circularList struct {
	head       *node
	tail       *node
	size       uint32
	capacity   uint32
	supportMap map[page.HeapPageID]*node
}

func (c *circularList) hasKey(key page.HeapPageID) bool {
	_, ok := c.supportMap[key]
	return ok
}

func (c *circularList) find(key page.HeapPageID) *node {
	return c.supportMap[key]
}

func (c *circularList) insert(key page.HeapPageID, value bool) {
	if node, ok := c.supportMap[key]; ok {
		node.value = value
		return
	}
	if c.size == c.capacity {
		panic("circularList::insert capacity is full")
	}

	newNode := &node{key, value, nil, nil}
	if c.size == 0 {
		newNode.next = newNode
		newNode.prev = newNode
		c.head = newNode
		c.tail = newNode
		c.size++
		c.supportMap[key] = newNode
		return
	}

	newNode.next = c.head
	newNode.prev = c.tail
	c.tail.next = newNode
	c.head.prev = newNode
	c.tail = newNode

	c.size++
	c.supportMap[key] = newNode
}

func (c *circularList) remove(key page.HeapPageID) {
	node, ok := c.supportMap[key]
	if !ok {
		return
	}

	if c.size == 1 {
		c.head = nil
		c.tail = nil
		c.size--
		delete(c.supportMap, key)
		return
	}

	if node == c.head {
		c.head = c.head.next
	}
	if node == c.tail {
		c.tail = c.tail.prev
	}

	node.next.prev = node.prev
	node.prev.next = node.next

	c.size--
	delete(c.supportMap, key)
}

func (c *circularList) isFull() bool {
	return c.size == c.capacity
}

func (c *circularList) String() string {
	if c.size == 0 {
		return "circularList is empty."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "circularList size:%d supportMap len:%d |", c.size, len(c.supportMap))
	ptr := c.head
	for i := uint32(0); i < c.size; i++ {
		fmt.Fprintf(&sb, "-%v,%v-", ptr.key, ptr.value)
		ptr = ptr.next
	}
	return sb.String()
}

func newCircularList(maxSize uint32) *circularList {
	return &circularList{nil, nil, 0, maxSize, make(map[page.HeapPageID]*node)}
}

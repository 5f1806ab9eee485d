package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"sync"
)

// Node is the base type our tree is built of.
type Node[T any] struct {
	mx       sync.RWMutex     // guards parent
	parent   *Node[T]         // parent node of this node
	children childrenSlice[T] // mutex-protected slice of children nodes
	Payload  T                // nodes may carry a payload of arbitrary type
}

// NewNode creates a new tree node with a given payload.
func NewNode[T any](payload T) *Node[T] {
	return &Node[T]{Payload: payload}
}

func (node *Node[T]) String() string {
	return fmt.Sprintf("(Node #ch=%d %v)", node.ChildCount(), node.Payload)
}

// AddChild appends a new child node. The newly inserted node is connected
// to this node as its parent. AddChild returns the index of the new child,
// or -1 if ch is nil.
//
// This operation is concurrency-safe.
func (node *Node[T]) AddChild(ch *Node[T]) int {
	if ch == nil {
		return -1
	}
	ch.setParent(node)
	return node.children.addChild(ch)
}

// Parent returns the parent node or nil (for the root of the tree).
func (node *Node[T]) Parent() *Node[T] {
	node.mx.RLock()
	defer node.mx.RUnlock()
	return node.parent
}

func (node *Node[T]) setParent(p *Node[T]) {
	node.mx.Lock()
	defer node.mx.Unlock()
	node.parent = p
}

// Isolate removes a node from its parent.
// Isolate returns the isolated node.
func (node *Node[T]) Isolate() *Node[T] {
	if node == nil {
		return nil
	}
	if p := node.Parent(); p != nil {
		p.children.remove(node)
		node.setParent(nil)
	}
	return node
}

// RemoveChildren disconnects all children from a node and returns them,
// in their former order.
//
// This operation is concurrency-safe.
func (node *Node[T]) RemoveChildren() []*Node[T] {
	removed := node.children.truncate()
	for _, ch := range removed {
		ch.setParent(nil)
	}
	if len(removed) > 0 {
		tracer().Debugf("removed %d children from %v", len(removed), node.Payload)
	}
	return removed
}

// ChildCount returns the number of children-nodes for a node
// (concurrency-safe).
func (node *Node[T]) ChildCount() int {
	return node.children.length()
}

// Child is a concurrency-safe way to get a children-node of a node.
func (node *Node[T]) Child(n int) (*Node[T], bool) {
	ch := node.children.child(n)
	return ch, ch != nil
}

// Children returns a snapshot slice with all children of a node.
func (node *Node[T]) Children() []*Node[T] {
	return node.children.asSlice()
}

// IndexOfChild returns the index of a child within the list of children
// of its parent, or -1.
func (node *Node[T]) IndexOfChild(ch *Node[T]) int {
	return node.children.indexOf(ch)
}

// Path returns the index path from the root of the tree down to node.
// The root node has an empty path.
func (node *Node[T]) Path() []int {
	var path []int
	n := node
	for p := n.Parent(); p != nil; p = n.Parent() {
		inx := p.IndexOfChild(n)
		if inx < 0 { // n has been removed concurrently
			return nil
		}
		path = append(path, inx)
		n = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Descend follows an index path down from node. It returns false if the
// path does not denote a node.
func (node *Node[T]) Descend(path []int) (*Node[T], bool) {
	n := node
	for _, inx := range path {
		ch, ok := n.Child(inx)
		if !ok {
			return nil, false
		}
		n = ch
	}
	return n, true
}

// --- Slices of concurrency-safe sets of children ----------------------

type childrenSlice[T any] struct {
	sync.RWMutex
	slice []*Node[T]
}

func (chs *childrenSlice[T]) length() int {
	chs.RLock()
	defer chs.RUnlock()
	return len(chs.slice)
}

func (chs *childrenSlice[T]) addChild(child *Node[T]) int {
	chs.Lock()
	defer chs.Unlock()
	chs.slice = append(chs.slice, child)
	return len(chs.slice) - 1
}

func (chs *childrenSlice[T]) remove(node *Node[T]) {
	chs.Lock()
	defer chs.Unlock()
	for i, ch := range chs.slice {
		if ch == node {
			chs.slice = append(chs.slice[:i], chs.slice[i+1:]...)
			break
		}
	}
}

func (chs *childrenSlice[T]) truncate() []*Node[T] {
	chs.Lock()
	defer chs.Unlock()
	removed := chs.slice
	chs.slice = nil
	return removed
}

func (chs *childrenSlice[T]) child(n int) *Node[T] {
	chs.RLock()
	defer chs.RUnlock()
	if n < 0 || n >= len(chs.slice) {
		return nil
	}
	return chs.slice[n]
}

func (chs *childrenSlice[T]) indexOf(node *Node[T]) int {
	chs.RLock()
	defer chs.RUnlock()
	for i, ch := range chs.slice {
		if ch == node {
			return i
		}
	}
	return -1
}

func (chs *childrenSlice[T]) asSlice() []*Node[T] {
	chs.RLock()
	defer chs.RUnlock()
	children := make([]*Node[T], len(chs.slice))
	copy(children, chs.slice)
	return children
}

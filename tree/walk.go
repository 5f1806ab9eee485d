package tree

import "errors"

// SkipChildren may be returned by a Visitor to prevent descending
// into the children of the current node.
var SkipChildren = errors.New("skip children")

// Visitor is called for every node during a walk, together with the depth
// of the node relative to the start node.
type Visitor[T any] func(n *Node[T], depth int) error

// Walk traverses a (sub-)tree depth first, visiting parents before their
// children and children in order. Walk operates on a snapshot of each
// node's children, taken when the node is visited; children appended
// concurrently later on may or may not be visited.
//
// If the visitor returns an error other than SkipChildren, the walk stops
// and Walk returns that error.
func Walk[T any](start *Node[T], visit Visitor[T]) error {
	if start == nil || visit == nil {
		return nil
	}
	return walk(start, 0, visit)
}

func walk[T any](n *Node[T], depth int, visit Visitor[T]) error {
	if err := visit(n, depth); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, ch := range n.Children() {
		if err := walk(ch, depth+1, visit); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of nodes in the (sub-)tree starting at n,
// including n.
func Count[T any](n *Node[T]) int {
	cnt := 0
	_ = Walk(n, func(*Node[T], int) error {
		cnt++
		return nil
	})
	return cnt
}

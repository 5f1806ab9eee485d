package tree

import (
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeAddAndPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treeview.tree")
	defer teardown()
	//
	root := NewNode("root")
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")
	assert.Equal(t, 0, root.AddChild(a))
	assert.Equal(t, 1, root.AddChild(b))
	assert.Equal(t, 0, b.AddChild(c))
	assert.Equal(t, -1, root.AddChild(nil))
	//
	assert.Equal(t, []int{1, 0}, c.Path())
	assert.Empty(t, root.Path())
	n, ok := root.Descend([]int{1, 0})
	require.True(t, ok)
	assert.Same(t, c, n)
	_, ok = root.Descend([]int{2})
	assert.False(t, ok)
	if b.Parent() != root {
		t.Errorf("expected parent of b to be root, is %v", b.Parent())
	}
}

func TestNodeIsolateAndRemove(t *testing.T) {
	root := NewNode(0)
	for i := 1; i <= 3; i++ {
		root.AddChild(NewNode(i))
	}
	ch, _ := root.Child(1)
	ch.Isolate()
	assert.Equal(t, 2, root.ChildCount())
	assert.Nil(t, ch.Parent())
	assert.Equal(t, -1, root.IndexOfChild(ch))
	//
	removed := root.RemoveChildren()
	assert.Len(t, removed, 2)
	assert.Equal(t, 1, removed[0].Payload)
	assert.Equal(t, 3, removed[1].Payload)
	assert.Equal(t, 0, root.ChildCount())
}

func TestNodeConcurrentAppend(t *testing.T) {
	root := NewNode(-1)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				root.AddChild(NewNode(w*100 + i))
				_ = root.ChildCount()
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, 800, root.ChildCount())
	assert.Equal(t, 801, Count(root))
}

func TestWalkOrder(t *testing.T) {
	root := NewNode("r")
	a, b := NewNode("a"), NewNode("b")
	root.AddChild(a)
	root.AddChild(b)
	a.AddChild(NewNode("a1"))
	b.AddChild(NewNode("b1"))
	var seen []string
	err := Walk(root, func(n *Node[string], depth int) error {
		seen = append(seen, n.Payload)
		if n.Payload == "b" {
			return SkipChildren
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"r", "a", "a1", "b"}, seen)
}

package datanode

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/treeview/detail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testNode struct {
	Base
	Leaf
	builds int
}

func newTestNode(name string) *testNode {
	n := &testNode{}
	n.Init(name, IconText)
	return n
}

func (n *testNode) Detail() *detail.View {
	return n.MemoDetail(func() *detail.View {
		n.builds++
		return detail.NewView(n.Name(), "test")
	})
}

type named string

func (n named) Name() string { return string(n) }

func TestBaseIdentityAndMemo(t *testing.T) {
	n := newTestNode("a")
	assert.Equal(t, "a", n.Label())
	n.SetLabel("A node")
	assert.Equal(t, "A node", n.Label())
	v1 := n.Detail()
	v2 := n.Detail()
	assert.Same(t, v1, v2)
	assert.Equal(t, 1, n.builds, "detail view must be built exactly once")
	_, err := n.Children(context.Background())
	assert.ErrorIs(t, err, ErrNoChildren)
}

func TestProvenanceStampOnce(t *testing.T) {
	n := newTestNode("n")
	p1 := &Provenance{Factory: named("f"), Builder: named("b1")}
	p2 := &Provenance{Factory: named("f"), Builder: named("b2")}
	assert.True(t, Stamp(n, p1))
	assert.False(t, Stamp(n, p2), "provenance is immutable after construction")
	assert.Same(t, p1, n.Provenance())
	assert.Equal(t, "f/b1()", p1.String())
}

func TestAncestors(t *testing.T) {
	root := newTestNode("root")
	mid := newTestNode("mid")
	leaf := newTestNode("leaf")
	Stamp(mid, &Provenance{Parent: root})
	Stamp(leaf, &Provenance{Parent: mid})
	chain := Ancestors(leaf)
	require.Len(t, chain, 2)
	assert.Same(t, mid, chain[0])
	assert.Same(t, root, chain[1])
	assert.Empty(t, Ancestors(root))
}

func TestSliceIterator(t *testing.T) {
	it := SliceIterator(Text{Title: "1"}, Text{Title: "2"})
	var names []string
	for it.Next() {
		names = append(names, it.Candidate().Name())
	}
	assert.Equal(t, []string{"1", "2"}, names)
	assert.NoError(t, it.Err())
	assert.False(t, it.Next())
	assert.NoError(t, it.Close())
}

func TestFuncIteratorClosesOnce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treeview.datanode")
	defer teardown()
	//
	count, closed := 0, 0
	boom := errors.New("boom")
	it := FuncIterator(func() (Candidate, error) {
		count++
		if count == 3 {
			return nil, boom
		}
		return Text{Title: "t"}, nil
	}, func() error {
		closed++
		return nil
	})
	n := 0
	for it.Next() {
		n++
	}
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, it.Err(), boom)
	assert.NoError(t, it.Close())
	assert.Equal(t, 1, closed)
	//
	it = FuncIterator(func() (Candidate, error) { return nil, io.EOF }, nil)
	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
}

func TestFuncIteratorEarlyClose(t *testing.T) {
	closed := 0
	it := FuncIterator(func() (Candidate, error) {
		return Text{Title: "endless"}, nil
	}, func() error {
		closed++
		return nil
	})
	require.True(t, it.Next())
	require.NoError(t, it.Close())
	assert.False(t, it.Next())
	assert.Equal(t, 1, closed)
}

func TestErrorNode(t *testing.T) {
	cause := errors.New("bad header")
	wrapped := &EnumerationError{Node: newTestNode("archive"), Err: cause}
	en := NewErrorNode(EnumerationFailure, wrapped, Text{Title: "x.zip"})
	assert.False(t, en.AllowsChildren())
	assert.Equal(t, IconError, en.Icon())
	assert.ErrorIs(t, en, cause)
	v := en.Detail()
	t.Logf("error detail:\n%s", v)
	val, ok := v.Field("cause #1")
	assert.True(t, ok)
	assert.Equal(t, "bad header", val)
	assert.Equal(t, "x.zip: enumeration failure", en.Label())
}

func TestPeekAndReadAll(t *testing.T) {
	s := BytesStream("s", []byte("PK\x03\x04rest"))
	b, err := Peek(s, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("PK\x03\x04"), b)
	b, err = Peek(s, 64)
	require.NoError(t, err)
	assert.Len(t, b, 8)
	_, err = ReadAll(s, 4)
	assert.ErrorIs(t, err, ErrTooLarge)
	b, err = ReadAll(s, 0)
	require.NoError(t, err)
	assert.Len(t, b, 8)
}

package factory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/detail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leafNode struct {
	datanode.Base
	datanode.Leaf
	by string
}

func newLeaf(name, by string) *leafNode {
	n := &leafNode{by: by}
	n.Init(name, datanode.IconText)
	return n
}

func (n *leafNode) Detail() *detail.View {
	return n.MemoDetail(func() *detail.View { return detail.NewView(n.Name(), n.by) })
}

// builder returning a node for every candidate
func always(name string, kinds ...datanode.Kind) Builder {
	return NewBuilder(name, func(_ context.Context, c datanode.Candidate, _ datanode.DataNode) (datanode.DataNode, error) {
		return newLeaf(c.Name(), name), nil
	}, kinds...)
}

// builder never applicable
func never(name string, useErr bool, kinds ...datanode.Kind) Builder {
	return NewBuilder(name, func(context.Context, datanode.Candidate, datanode.DataNode) (datanode.DataNode, error) {
		if useErr {
			return nil, fmt.Errorf("%w: wrong magic", ErrNotApplicable)
		}
		return nil, nil
	}, kinds...)
}

var errCorrupt = errors.New("corrupt header")

// builder recognizing a candidate but failing
func corrupt(name string, kinds ...datanode.Kind) Builder {
	return NewBuilder(name, func(context.Context, datanode.Candidate, datanode.DataNode) (datanode.DataNode, error) {
		return nil, errCorrupt
	}, kinds...)
}

func TestFactoryFirstApplicableWins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treeview.factory")
	defer teardown()
	//
	reg := NewRegistry().
		Register(never("skip-nil", false, datanode.KindText)).
		Register(never("skip-err", true, datanode.KindText)).
		Register(always("text", datanode.KindText)).
		Register(always("late", datanode.KindText))
	f := New(reg, Named("test"))
	node, err := f.Build(context.Background(), datanode.Text{Title: "t"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "text", node.(*leafNode).by)
	assert.EqualValues(t, 1, f.Stats().Built.Load())
}

func TestFactoryPriorityOrder(t *testing.T) {
	reg := NewRegistry().
		Register(always("low", datanode.KindText)).
		Register(always("high", datanode.KindText), Priority(10))
	f := New(reg)
	node, err := f.Build(context.Background(), datanode.Text{Title: "t"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "high", node.(*leafNode).by)
	builders := reg.For(datanode.KindText)
	require.Len(t, builders, 2)
	assert.Equal(t, "high", builders[0].Name())
}

// A builder recognizing a candidate but failing must not fall through to
// later builders.
func TestFactoryNoFallthroughOnConstructionFailure(t *testing.T) {
	reg := NewRegistry().
		Register(corrupt("strict", datanode.KindStream)).
		Register(always("lenient", datanode.KindStream))
	f := New(reg)
	cand := datanode.BytesStream("broken.zip", []byte("PK"))
	outcome := f.TryBuild(context.Background(), cand, nil)
	var node datanode.DataNode
	var err error
	switch m := outcome.Match(); m {
	case m.Ok(&node):
		t.Fatalf("expected construction failure, got node %v", node)
	case m.Err(&err):
		t.Logf("error = %v", err)
	}
	var be *BuildError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "strict", be.Builder)
	assert.ErrorIs(t, err, errCorrupt)
	assert.Equal(t, datanode.ConstructionFailure, be.Failure())
	//
	en, ok := f.BuildOrError(context.Background(), cand, nil).(*datanode.ErrorNode)
	require.True(t, ok)
	assert.Equal(t, datanode.ConstructionFailure, en.Failure())
	assert.ErrorIs(t, en, errCorrupt)
}

func TestFactoryNoSuitableBuilder(t *testing.T) {
	f := New(NewRegistry().Register(always("text", datanode.KindText)))
	cand := datanode.NewFile("/does/not/matter")
	_, err := f.Build(context.Background(), cand, nil)
	assert.ErrorIs(t, err, ErrNoSuitableBuilder)
	en := f.BuildOrError(context.Background(), cand, nil).(*datanode.ErrorNode)
	assert.Equal(t, datanode.NoBuilderFailure, en.Failure())
	assert.Same(t, cand, en.Candidate())
	assert.EqualValues(t, 2, f.Stats().NoBuilder.Load())
}

func TestFactoryStampsProvenance(t *testing.T) {
	b := always("text", datanode.KindText)
	f := New(NewRegistry().Register(b), Named("prov"))
	parent := newLeaf("parent", "")
	cand := datanode.Text{Title: "child"}
	node, err := f.Build(context.Background(), cand, parent)
	require.NoError(t, err)
	p := node.Provenance()
	require.NotNil(t, p)
	assert.Same(t, f, p.Factory)
	assert.Same(t, b, p.Builder)
	assert.Equal(t, cand, p.Source)
	assert.Same(t, parent, p.Parent)
	assert.Equal(t, []datanode.DataNode{parent}, datanode.Ancestors(node))
}

func TestFactoryHonorsCancellation(t *testing.T) {
	f := New(NewRegistry().Register(always("text", datanode.KindText)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Build(ctx, datanode.Text{Title: "t"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

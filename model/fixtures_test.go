package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/detail"
	"github.com/npillmayer/treeview/factory"
)

// fakeNode is a data node with a static list of child candidates, or with
// a custom child enumeration.
type fakeNode struct {
	datanode.Base
	kids     []datanode.Candidate
	leaf     bool
	children func(ctx context.Context) (datanode.ChildIterator, error)
}

func newFakeNode(name string, kids ...datanode.Candidate) *fakeNode {
	n := &fakeNode{kids: kids}
	n.Init(name, datanode.IconFolder)
	return n
}

func (n *fakeNode) AllowsChildren() bool { return !n.leaf }

func (n *fakeNode) Children(ctx context.Context) (datanode.ChildIterator, error) {
	if n.leaf {
		return nil, datanode.ErrNoChildren
	}
	if n.children != nil {
		return n.children(ctx)
	}
	return datanode.SliceIterator(n.kids...), nil
}

func (n *fakeNode) Detail() *detail.View {
	return n.MemoDetail(func() *detail.View {
		v := detail.NewView(n.Name(), "fake")
		v.AddField("children", len(n.kids))
		return v
	})
}

// shape is a candidate describing a tree of fake nodes.
type shape struct {
	name   string
	kids   []shape
	broken bool
}

func (s shape) Kind() datanode.Kind { return "shape" }
func (s shape) Name() string        { return s.name }

func leaf(name string) shape { return shape{name: name} }

func branch(name string, kids ...shape) shape {
	if kids == nil {
		kids = []shape{}
	}
	return shape{name: name, kids: kids}
}

// uniform creates a shape of a given depth, where every inner node has
// the same number of children.
func uniform(name string, depth, fanout int) shape {
	if depth == 0 {
		return leaf(name)
	}
	s := branch(name)
	for i := 0; i < fanout; i++ {
		s.kids = append(s.kids, uniform(fmt.Sprintf("%s.%d", name, i), depth-1, fanout))
	}
	return s
}

var errBroken = errors.New("broken shape")

func shapeNode(s shape) *fakeNode {
	n := &fakeNode{leaf: s.kids == nil}
	n.Init(s.name, datanode.IconFolder)
	for _, k := range s.kids {
		n.kids = append(n.kids, k)
	}
	return n
}

var shapeBuilder = factory.NewBuilder("shape",
	func(_ context.Context, c datanode.Candidate, _ datanode.DataNode) (datanode.DataNode, error) {
		s, ok := c.(shape)
		if !ok {
			return nil, factory.ErrNotApplicable
		}
		if s.broken {
			return nil, errBroken
		}
		return shapeNode(s), nil
	}, "shape")

func newTestFactory(builders ...factory.Builder) *factory.Factory {
	reg := factory.NewRegistry().Register(shapeBuilder)
	for _, b := range builders {
		reg.Register(b)
	}
	return factory.New(reg, factory.Named("test"))
}

// recorder is a listener collecting events.
type recorder struct {
	mx     sync.Mutex
	events []Event
}

func (r *recorder) TreeChanged(e Event) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) all() []Event {
	r.mx.Lock()
	defer r.mx.Unlock()
	return append([]Event(nil), r.events...)
}

func childNames(n *Node) []string {
	var names []string
	for _, ch := range n.Children() {
		names = append(names, ch.Payload.Data.Name())
	}
	return names
}

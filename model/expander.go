package model

import (
	"context"
	"errors"

	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/tree"
)

// expander performs one round of child materialization for a node.
// Expanders are never reused: once superseded or finished, they are garbage.
type expander struct {
	model *Model
	node  *Node
	gen   uint64
	ctx   context.Context
}

// run enumerates the children of the expander's node. It returns when the
// enumeration is exhausted or the expander is no longer active.
func (x *expander) run() {
	data := x.node.Payload.Data
	trace := x.model.tracer()
	it, err := data.Children(x.ctx)
	if err != nil {
		if !errors.Is(err, datanode.ErrNoChildren) {
			x.appendIfActive(x.enumerationError(err))
		}
		x.finish()
		return
	}
	defer it.Close()
	count := 0
	for it.Next() {
		if !x.isActive() {
			trace.Debugf("expander for %s superseded after %d children", data.Name(), count)
			x.interrupt()
			return
		}
		cand := it.Candidate()
		child := x.model.factory.BuildOrError(x.ctx, cand, data)
		if x.ctx.Err() != nil { // superseded or canceled while building
			x.interrupt()
			return
		}
		datanode.Stamp(child, &datanode.Provenance{
			Factory: x.model.factory,
			Source:  cand,
			Parent:  data,
		})
		if !x.appendIfActive(child) {
			x.interrupt()
			return
		}
		count++
	}
	if err := it.Err(); err != nil {
		if x.ctx.Err() != nil {
			x.interrupt()
			return
		}
		trace.Infof("enumeration of %s broke off after %d children: %v", data.Name(), count, err)
		if !x.appendIfActive(x.enumerationError(err)) {
			x.interrupt()
			return
		}
	}
	x.finish()
}

func (x *expander) enumerationError(err error) datanode.DataNode {
	data := x.node.Payload.Data
	en := datanode.NewErrorNode(datanode.EnumerationFailure,
		&datanode.EnumerationError{Node: data, Err: err}, nil)
	datanode.Stamp(en, &datanode.Provenance{Factory: x.model.factory, Parent: data})
	return en
}

// isActive is true if this expander is still the one installed for its node.
func (x *expander) isActive() bool {
	st := x.node.Payload.State()
	st.mx.Lock()
	defer st.mx.Unlock()
	return st.isActive(x.gen) && x.ctx.Err() == nil
}

// appendIfActive appends a child to the expander's node, provided the
// expander is still active. Check and append are atomic with respect to
// installing a successor.
//
// The insertion is posted before the child becomes reachable through
// Children: any event for the child itself, e.g. from a concurrent
// expansion of it, is queued behind it. Children of a node change only
// with its state lock held, so the child count is the new index.
func (x *expander) appendIfActive(data datanode.DataNode) bool {
	st := x.node.Payload.State()
	st.mx.Lock()
	defer st.mx.Unlock()
	if !st.isActive(x.gen) || x.ctx.Err() != nil {
		return false
	}
	child := tree.NewNode(newEntry(data))
	x.model.notifyInserted(x.node, x.node.ChildCount(), child)
	x.node.AddChild(child)
	return true
}

// finish marks the expansion as done, if the expander is still active.
func (x *expander) finish() {
	st := x.node.Payload.State()
	st.mx.Lock()
	defer st.mx.Unlock()
	if !st.isActive(x.gen) {
		return
	}
	st.status = Done
	st.settle()
	x.model.tracer().Debugf("expansion of %v done", x.node.Payload)
	x.model.notifyState(x.node, Done)
}

// interrupt is called when an expander stops early. A superseded expander
// leaves the state alone, as its successor owns completion. An expander
// which has been canceled without a successor resets its node to
// NeverExpanded; children appended so far are discarded by the next
// installation.
func (x *expander) interrupt() {
	st := x.node.Payload.State()
	st.mx.Lock()
	defer st.mx.Unlock()
	if !st.isActive(x.gen) {
		return
	}
	st.status = NeverExpanded
	st.settle()
	x.model.tracer().Debugf("expansion of %v canceled", x.node.Payload)
	x.model.notifyState(x.node, NeverExpanded)
}

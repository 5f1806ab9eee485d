package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/tree"
)

// Node is the type of the nodes of a model.
type Node = tree.Node[*Entry]

// Entry is the payload of every model node: a data node and its
// expansion state.
type Entry struct {
	Data  datanode.DataNode
	state ExpansionState
}

func newEntry(data datanode.DataNode) *Entry {
	return &Entry{Data: data}
}

// State returns the expansion state of an entry.
func (e *Entry) State() *ExpansionState {
	return &e.state
}

func (e *Entry) String() string {
	if e == nil || e.Data == nil {
		return "<empty>"
	}
	return e.Data.Label()
}

// Status is the status of an expansion.
type Status int32

// Expansions start as NeverExpanded, are Expanding while an expander is
// active and are Done after an expander has completed.
const (
	NeverExpanded Status = iota
	Expanding
	Done
)

func (s Status) String() string {
	switch s {
	case NeverExpanded:
		return "never expanded"
	case Expanding:
		return "expanding"
	case Done:
		return "done"
	}
	return fmt.Sprintf("<status %d>", int32(s))
}

// ExpansionState tracks the expansion of a single model node.
// All fields are guarded by the state's own mutex.
type ExpansionState struct {
	mx       sync.Mutex
	status   Status
	gen      uint64             // generation of the active expander
	cancel   context.CancelFunc // cancels the active expander
	settled  chan struct{}      // closed when the active expander is done or replaced
	installs int                // number of expanders installed so far
	detached bool               // node has been removed from the model
}

// Status returns the current status.
func (st *ExpansionState) Status() Status {
	st.mx.Lock()
	defer st.mx.Unlock()
	return st.status
}

// Generation returns the generation of the most recently installed expander.
func (st *ExpansionState) Generation() uint64 {
	st.mx.Lock()
	defer st.mx.Unlock()
	return st.gen
}

// Installs returns how many expanders have been installed for this node.
func (st *ExpansionState) Installs() int {
	st.mx.Lock()
	defer st.mx.Unlock()
	return st.installs
}

// isActive is true if gen denotes the installed expander. Must be called
// with st.mx held.
func (st *ExpansionState) isActive(gen uint64) bool {
	return !st.detached && st.status == Expanding && st.gen == gen
}

// settle wakes up everyone waiting for the current expander. Must be
// called with st.mx held.
func (st *ExpansionState) settle() {
	if st.cancel != nil {
		st.cancel()
		st.cancel = nil
	}
	if st.settled != nil {
		close(st.settled)
		st.settled = nil
	}
}

// detach invalidates any expander of a node which is no longer part of
// the model.
func (st *ExpansionState) detach() {
	st.mx.Lock()
	defer st.mx.Unlock()
	st.detached = true
	st.gen++
	st.settle()
}

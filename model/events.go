package model

import "fmt"

// EventKind is the type of a structural change.
type EventKind int

// Kinds of events sent to listeners.
const (
	NodesInserted EventKind = iota // children have been appended
	NodesRemoved                   // children have been removed
	StateChanged                   // expansion status of a node has changed
)

func (k EventKind) String() string {
	switch k {
	case NodesInserted:
		return "inserted"
	case NodesRemoved:
		return "removed"
	case StateChanged:
		return "state"
	}
	return fmt.Sprintf("<event kind %d>", int(k))
}

// Event describes a change of a model node. Parent is the node which has
// changed, Path its index path from the root at the time of the change.
// For insertions and removals, Indices and Children hold the affected
// children, in order.
//
// NodesInserted for a child is delivered before any event of the child
// itself. It is posted just before the child is attached, so a listener
// should take the child from Children rather than from Parent.
type Event struct {
	Kind     EventKind
	Parent   *Node
	Path     []int
	Indices  []int
	Children []*Node
	Status   Status // for StateChanged
}

func (e Event) String() string {
	return fmt.Sprintf("event(%s, %v, path=%v, #ch=%d)", e.Kind, e.Parent.Payload, e.Path, len(e.Children))
}

// Listener is notified of changes of a model. TreeChanged is called on the
// model's event loop.
type Listener interface {
	TreeChanged(Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

// TreeChanged is part of interface Listener.
func (f ListenerFunc) TreeChanged(e Event) {
	f(e)
}

// AddListener registers a listener.
func (m *Model) AddListener(l Listener) {
	if l == nil {
		return
	}
	m.lmx.Lock()
	defer m.lmx.Unlock()
	m.listeners = append(m.listeners, l)
}

// RemoveListener unregisters a listener. Listeners must be comparable;
// ListenerFuncs are not and cannot be removed.
func (m *Model) RemoveListener(l Listener) {
	if _, isFunc := l.(ListenerFunc); isFunc || l == nil {
		return
	}
	m.lmx.Lock()
	defer m.lmx.Unlock()
	for i, x := range m.listeners {
		if x == l {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			return
		}
	}
}

func (m *Model) listenersSnapshot() []Listener {
	m.lmx.RLock()
	defer m.lmx.RUnlock()
	if len(m.listeners) == 0 {
		return nil
	}
	ls := make([]Listener, len(m.listeners))
	copy(ls, m.listeners)
	return ls
}

// post hands an event to the event loop. It is called with the state lock
// of e.Parent held, thus events of a node are queued in the order of
// changes.
func (m *Model) post(e Event) {
	e.Path = e.Parent.Path()
	err := m.loop.Post(func() {
		for _, l := range m.listenersSnapshot() {
			l.TreeChanged(e)
		}
	})
	if err != nil {
		m.tracer().Debugf("dropped %v: %v", e, err)
	}
}

func (m *Model) notifyInserted(parent *Node, inx int, child *Node) {
	m.post(Event{
		Kind:     NodesInserted,
		Parent:   parent,
		Indices:  []int{inx},
		Children: []*Node{child},
	})
}

func (m *Model) notifyRemoved(parent *Node, removed []*Node) {
	indices := make([]int, len(removed))
	for i := range removed {
		indices[i] = i
	}
	m.post(Event{
		Kind:     NodesRemoved,
		Parent:   parent,
		Indices:  indices,
		Children: removed,
	})
}

func (m *Model) notifyState(n *Node, s Status) {
	m.post(Event{
		Kind:   StateChanged,
		Parent: n,
		Status: s,
	})
}

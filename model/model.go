package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/detail"
	"github.com/npillmayer/treeview/eventloop"
	"github.com/npillmayer/treeview/factory"
	"github.com/npillmayer/treeview/tree"
	"golang.org/x/sync/semaphore"
)

// ErrClosed is returned for requests to a model which has been closed.
var ErrClosed = errors.New("model is closed")

// DefaultWorkers is the default size of the pool of expansion workers.
const DefaultWorkers = 4

// Promise is a future synchronisation point. Calling it blocks until the
// operation it stands for has completed and returns its error, if any.
// A promise may be called more than once.
type Promise func() error

// Model is a tree of materialized data nodes, expanded lazily.
type Model struct {
	root      *Node
	factory   *factory.Factory
	loop      *eventloop.Loop
	ownsLoop  bool
	workers   int
	maxDepth  int
	sem       *semaphore.Weighted
	trace     tracing.Trace
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mx        sync.Mutex // guards closed and wg.Add
	closed    bool
	lmx       sync.RWMutex // guards listeners
	listeners []Listener
}

// Option configures a model.
type Option func(*Model)

// WithEventLoop lets a model deliver events on an existing loop. Without
// this option a model creates a loop of its own, which is stopped on Close.
func WithEventLoop(loop *eventloop.Loop) Option {
	return func(m *Model) {
		m.loop = loop
	}
}

// WithWorkers sets the number of expansions which may run at the same time.
func WithWorkers(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.workers = n
		}
	}
}

// WithMaxDepth limits recursive expansion to depth levels below the node
// a recursive expansion starts at. 0 means no limit.
func WithMaxDepth(depth int) Option {
	return func(m *Model) {
		if depth >= 0 {
			m.maxDepth = depth
		}
	}
}

// WithTracer sets the tracer for a model, overriding 'treeview.model'.
func WithTracer(t tracing.Trace) Option {
	return func(m *Model) {
		m.trace = t
	}
}

// New creates a model for a root data node. Children are built using
// factory f.
func New(root datanode.DataNode, f *factory.Factory, opts ...Option) *Model {
	assertThat(root != nil, "model needs a root node")
	assertThat(f != nil, "model needs a factory")
	m := &Model{
		root:    tree.NewNode(newEntry(root)),
		factory: f,
		workers: DefaultWorkers,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.loop == nil {
		m.loop = eventloop.New(64)
		m.ownsLoop = true
	}
	m.sem = semaphore.NewWeighted(int64(m.workers))
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m
}

func (m *Model) tracer() tracing.Trace {
	if m.trace != nil {
		return m.trace
	}
	return tracer()
}

// Root returns the root node of the model.
func (m *Model) Root() *Node {
	return m.root
}

// Factory returns the factory the model builds nodes with.
func (m *Model) Factory() *factory.Factory {
	return m.factory
}

// Loop returns the event loop listeners are called on.
func (m *Model) Loop() *eventloop.Loop {
	return m.loop
}

// State returns the expansion status of a node.
func (m *Model) State(n *Node) Status {
	if n == nil || n.Payload == nil {
		return NeverExpanded
	}
	return n.Payload.State().Status()
}

// Find returns the node at an index path below the root.
func (m *Model) Find(path []int) (*Node, bool) {
	return m.root.Descend(path)
}

// --- Expansion requests ----------------------------------------------------

// Expand materializes the children of n, asynchronously. If n is already
// expanded or being expanded, no new expansion is started.
func (m *Model) Expand(n *Node) Promise {
	return m.async(func(ctx context.Context) error {
		return m.expand(ctx, n, false)
	})
}

// RecursiveExpand materializes the subtree below n, asynchronously and
// depth first.
func (m *Model) RecursiveExpand(n *Node) Promise {
	return m.async(func(ctx context.Context) error {
		return m.recursiveExpand(ctx, n, 0)
	})
}

// Reexpand discards the children of n, together with any expansion in
// progress, and expands n again.
func (m *Model) Reexpand(n *Node) Promise {
	return m.async(func(ctx context.Context) error {
		return m.expand(ctx, n, true)
	})
}

// ExpandSync is the synchronous variant of Expand. It must not be called
// on the event loop.
func (m *Model) ExpandSync(ctx context.Context, n *Node) error {
	return m.runSync(ctx, func(ctx context.Context) error {
		return m.expand(ctx, n, false)
	})
}

// RecursiveExpandSync is the synchronous variant of RecursiveExpand. It
// must not be called on the event loop.
func (m *Model) RecursiveExpandSync(ctx context.Context, n *Node) error {
	return m.runSync(ctx, func(ctx context.Context) error {
		return m.recursiveExpand(ctx, n, 0)
	})
}

// ExpandPath expands the nodes along an index path, starting at the root,
// and returns the node the path leads to.
func (m *Model) ExpandPath(ctx context.Context, path []int) (*Node, error) {
	n := m.root
	for depth, i := range path {
		if err := m.ExpandSync(ctx, n); err != nil {
			return nil, err
		}
		ch, ok := n.Child(i)
		if !ok {
			return nil, fmt.Errorf("no child #%d at %v (%d children)", i, path[:depth], n.ChildCount())
		}
		n = ch
	}
	return n, nil
}

// enter registers a request; it fails if the model has been closed.
func (m *Model) enter() bool {
	m.mx.Lock()
	defer m.mx.Unlock()
	if m.closed {
		return false
	}
	m.wg.Add(1)
	return true
}

func (m *Model) async(job func(context.Context) error) Promise {
	if !m.enter() {
		return func() error { return ErrClosed }
	}
	finished := make(chan struct{})
	var err error
	go func() {
		defer m.wg.Done()
		defer close(finished)
		err = m.withWorker(m.ctx, job)
	}()
	return func() error {
		<-finished
		return err
	}
}

func (m *Model) runSync(ctx context.Context, job func(context.Context) error) error {
	if !m.enter() {
		return ErrClosed
	}
	defer m.wg.Done()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(m.ctx, cancel)
	defer stop()
	return m.withWorker(ctx, job)
}

// withWorker runs job as soon as a slot of the worker pool is free.
func (m *Model) withWorker(ctx context.Context, job func(context.Context) error) error {
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer m.sem.Release(1)
	return job(ctx)
}

// expand drives the expansion of n to completion. A request coalesces with
// an expansion in progress, unless supersede is set.
func (m *Model) expand(ctx context.Context, n *Node, supersede bool) error {
	if n == nil || n.Payload == nil {
		return nil
	}
	if !n.Payload.Data.AllowsChildren() {
		m.markDone(n)
		return nil
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		x, wait := m.install(ctx, n, supersede)
		if x != nil {
			x.run()
			supersede = false
			continue // re-check: done, superseded or interrupted
		}
		if wait == nil {
			return nil
		}
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *Model) recursiveExpand(ctx context.Context, n *Node, depth int) error {
	if err := m.expand(ctx, n, false); err != nil {
		return err
	}
	if m.maxDepth > 0 && depth >= m.maxDepth {
		return nil
	}
	for _, ch := range n.Children() {
		if !ch.Payload.Data.AllowsChildren() {
			continue
		}
		if err := m.recursiveExpand(ctx, ch, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// install starts a new expander for n, if necessary. It returns either
// the new expander, or a channel to wait on for a running expander, or
// neither if n is done.
func (m *Model) install(ctx context.Context, n *Node, supersede bool) (*expander, <-chan struct{}) {
	st := n.Payload.State()
	st.mx.Lock()
	defer st.mx.Unlock()
	if st.detached {
		return nil, nil
	}
	if !supersede {
		switch st.status {
		case Done:
			return nil, nil
		case Expanding:
			return nil, st.settled
		}
	}
	st.gen++
	st.settle() // invalidates the prior expander, if any
	if removed := n.RemoveChildren(); len(removed) > 0 {
		for _, ch := range removed {
			detachSubtree(ch)
		}
		m.notifyRemoved(n, removed)
	}
	xctx, cancel := context.WithCancel(ctx)
	st.cancel = cancel
	st.settled = make(chan struct{})
	st.status = Expanding
	st.installs++
	m.tracer().Debugf("installed expander #%d for %v", st.gen, n.Payload)
	m.notifyState(n, Expanding)
	return &expander{model: m, node: n, gen: st.gen, ctx: xctx}, nil
}

// markDone completes nodes which do not allow children.
func (m *Model) markDone(n *Node) {
	st := n.Payload.State()
	st.mx.Lock()
	defer st.mx.Unlock()
	if st.status != Done {
		st.status = Done
		m.notifyState(n, Done)
	}
}

func detachSubtree(n *Node) {
	_ = tree.Walk(n, func(n *Node, _ int) error {
		n.Payload.State().detach()
		return nil
	})
}

// --- Detail views ----------------------------------------------------------

// Detail returns the detail view of a node's data, building it on the event
// loop. Detail must not be called on the event loop, e.g., by a listener;
// use DetailAsync there.
func (m *Model) Detail(n *Node) (*detail.View, error) {
	var v *detail.View
	err := m.loop.Invoke(func() {
		v = n.Payload.Data.Detail()
	})
	return v, err
}

// DetailAsync builds the detail view of a node's data on the event loop
// and hands it to callback, on the event loop as well.
func (m *Model) DetailAsync(n *Node, callback func(*detail.View)) error {
	return m.loop.Post(func() {
		callback(n.Payload.Data.Detail())
	})
}

// Flush waits until all events posted so far have been delivered.
func (m *Model) Flush() error {
	return m.loop.Invoke(func() {})
}

// Close cancels all expansions in progress and waits for them to stop.
// Events pending up to then are still delivered.
func (m *Model) Close() {
	m.mx.Lock()
	if m.closed {
		m.mx.Unlock()
		return
	}
	m.closed = true
	m.mx.Unlock()
	m.cancel()
	m.wg.Wait()
	if m.ownsLoop {
		m.loop.Stop()
		<-m.loop.Done()
	}
	m.tracer().Debugf("model closed")
}

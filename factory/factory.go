package factory

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/npillmayer/treeview/datanode"
)

// Factory orchestrates builders to construct nodes from candidates.
type Factory struct {
	name     string
	registry *Registry
	stats    Stats
}

// Stats are counters of a factory's activity.
type Stats struct {
	Built     atomic.Int64 // nodes built successfully
	Failed    atomic.Int64 // construction failures
	NoBuilder atomic.Int64 // candidates no builder claimed
}

// Option configures a factory.
type Option func(*Factory)

// Named sets the name of a factory, which shows up in provenances.
func Named(name string) Option {
	return func(f *Factory) {
		f.name = name
	}
}

// New creates a factory for a registry of builders.
func New(reg *Registry, opts ...Option) *Factory {
	if reg == nil {
		reg = NewRegistry()
	}
	f := &Factory{name: "factory", registry: reg}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the name of the factory.
func (f *Factory) Name() string { return f.name }

// Registry returns the registry of builders the factory uses.
func (f *Factory) Registry() *Registry { return f.registry }

// Stats returns the counters of the factory.
func (f *Factory) Stats() *Stats { return &f.stats }

// TryBuild attempts to build a node from a candidate, trying every builder
// registered for the candidate's kind, in order. parent may be nil.
//
// The first builder returning a node wins. A builder failing with an error
// other than ErrNotApplicable ends the search: its error is returned,
// wrapped in a *BuildError. If no builder succeeds, the outcome holds a
// *BuildError wrapping ErrNoSuitableBuilder.
//
// ctx is checked between builder attempts and passed into each builder.
func (f *Factory) TryBuild(ctx context.Context, cand datanode.Candidate, parent datanode.DataNode) Outcome {
	if cand == nil {
		f.stats.NoBuilder.Add(1)
		return failed(&BuildError{Err: fmt.Errorf("%w: candidate is nil", ErrNoSuitableBuilder)})
	}
	for _, b := range f.registry.For(cand.Kind()) {
		if err := ctx.Err(); err != nil {
			f.stats.Failed.Add(1)
			return failed(&BuildError{Builder: b.Name(), Candidate: cand, Err: err})
		}
		node, err := b.Build(ctx, cand, parent)
		if err != nil {
			if errors.Is(err, ErrNotApplicable) {
				continue
			}
			tracer().Infof("builder %s cannot build %s: %v", b.Name(), cand.Name(), err)
			f.stats.Failed.Add(1)
			return failed(&BuildError{Builder: b.Name(), Candidate: cand, Err: err})
		}
		if node == nil {
			continue
		}
		datanode.Stamp(node, &datanode.Provenance{
			Factory: f,
			Builder: b,
			Source:  cand,
			Parent:  parent,
		})
		tracer().Debugf("builder %s built node %s", b.Name(), node.Name())
		f.stats.Built.Add(1)
		return built(node)
	}
	tracer().Debugf("no builder for %s %q", cand.Kind(), cand.Name())
	f.stats.NoBuilder.Add(1)
	return failed(&BuildError{Candidate: cand, Err: ErrNoSuitableBuilder})
}

// Build is a convenience variant of TryBuild returning a node and an error.
func (f *Factory) Build(ctx context.Context, cand datanode.Candidate, parent datanode.DataNode) (datanode.DataNode, error) {
	return f.TryBuild(ctx, cand, parent).Node()
}

// BuildOrError builds a node from a candidate. Every failure is turned
// into an error node, so BuildOrError always returns a node.
func (f *Factory) BuildOrError(ctx context.Context, cand datanode.Candidate, parent datanode.DataNode) datanode.DataNode {
	return f.TryBuild(ctx, cand, parent).OrError(cand)
}

package factory

import (
	"sort"
	"sync"

	"github.com/npillmayer/treeview/datanode"
)

// Registry is a table of builders keyed by candidate kind.
// It is safe for concurrent use; usually all builders are registered
// before the first factory call, though.
type Registry struct {
	sync.RWMutex
	byKind map[datanode.Kind][]registration
	serial int
}

type registration struct {
	builder  Builder
	priority int
	serial   int
}

// RegOption is an option for registering a builder.
type RegOption func(*registration)

// Priority sets the priority of a builder. Builders with higher priority
// are tried first. The default priority is 0.
func Priority(p int) RegOption {
	return func(r *registration) {
		r.priority = p
	}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKind: make(map[datanode.Kind][]registration)}
}

// Register adds a builder for all the kinds it accepts.
// It returns the registry to allow for chaining.
func (reg *Registry) Register(b Builder, opts ...RegOption) *Registry {
	if b == nil {
		return reg
	}
	reg.Lock()
	defer reg.Unlock()
	reg.serial++
	r := registration{builder: b, serial: reg.serial}
	for _, opt := range opts {
		opt(&r)
	}
	for _, kind := range b.Accepts() {
		list := append(reg.byKind[kind], r)
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].priority != list[j].priority {
				return list[i].priority > list[j].priority
			}
			return list[i].serial < list[j].serial
		})
		reg.byKind[kind] = list
		tracer().Debugf("registered builder %s for kind %s", b.Name(), kind)
	}
	return reg
}

// For returns the builders applicable to a kind of candidate, in the order
// they should be tried. The returned slice is a copy.
func (reg *Registry) For(kind datanode.Kind) []Builder {
	reg.RLock()
	defer reg.RUnlock()
	list := reg.byKind[kind]
	builders := make([]Builder, len(list))
	for i, r := range list {
		builders[i] = r.builder
	}
	return builders
}

// Kinds returns all kinds for which at least one builder is registered.
func (reg *Registry) Kinds() []datanode.Kind {
	reg.RLock()
	defer reg.RUnlock()
	kinds := make([]datanode.Kind, 0, len(reg.byKind))
	for k := range reg.byKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

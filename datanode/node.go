package datanode

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/npillmayer/treeview/detail"
)

// ErrTooLarge is returned if a candidate exceeds a configured size limit.
var ErrTooLarge = errors.New("data too large")

// ErrNoChildren is returned by Children for nodes which do not allow children.
var ErrNoChildren = errors.New("node does not allow children")

// Icon is a symbolic reference to an icon. Mapping icons to artwork is up
// to a GUI layer.
type Icon string

// Icons used by the formats of this module.
const (
	IconNone     Icon = ""
	IconFolder   Icon = "folder"
	IconFile     Icon = "file"
	IconArchive  Icon = "archive"
	IconDocument Icon = "document"
	IconElement  Icon = "element"
	IconStyle    Icon = "style"
	IconText     Icon = "text"
	IconBinary   Icon = "binary"
	IconError    Icon = "error"
)

// DataNode is the interface every node of the browsable hierarchy implements.
type DataNode interface {
	Name() string         // name of the node, never empty
	Label() string        // display label, defaults to the name
	Icon() Icon           // symbolic icon
	AllowsChildren() bool // may this node have children?
	Provenance() *Provenance

	// Children starts a fresh, lazy enumeration of candidates for the
	// children of this node. Clients must close the iterator.
	// Nodes not allowing children return ErrNoChildren.
	Children(ctx context.Context) (ChildIterator, error)

	// Detail returns the detail view of this node. It is built at most
	// once and memoized for the lifetime of the node.
	Detail() *detail.View
}

// Base is an embeddable partial implementation of DataNode. It covers
// identity, provenance and memoization of the detail view. Concrete nodes
// embed Base and add AllowsChildren, Children and Detail:
//
//    func (n *myNode) Detail() *detail.View {
//        return n.MemoDetail(n.buildDetail)
//    }
//
type Base struct {
	name   string
	label  string
	icon   Icon
	prov   atomic.Pointer[Provenance]
	once   sync.Once
	detail *detail.View
}

// Init sets the identity of a node. It must be called during construction
// only; identity is immutable afterwards.
func (b *Base) Init(name string, icon Icon) {
	if name == "" {
		name = "<unnamed>"
	}
	b.name = name
	b.icon = icon
}

// SetLabel overrides the display label. Like Init, it is for construction time.
func (b *Base) SetLabel(label string) {
	b.label = label
}

// Name is part of interface DataNode.
func (b *Base) Name() string { return b.name }

// Label is part of interface DataNode.
func (b *Base) Label() string {
	if b.label == "" {
		return b.name
	}
	return b.label
}

// Icon is part of interface DataNode.
func (b *Base) Icon() Icon { return b.icon }

// Provenance is part of interface DataNode. It returns nil for nodes not
// created by a factory.
func (b *Base) Provenance() *Provenance {
	return b.prov.Load()
}

func (b *Base) stampProvenance(p *Provenance) bool {
	return b.prov.CompareAndSwap(nil, p)
}

// MemoDetail returns the memoized detail view, calling build the first time.
func (b *Base) MemoDetail(build func() *detail.View) *detail.View {
	b.once.Do(func() {
		b.detail = build()
		if b.detail == nil {
			b.detail = detail.NewView(b.Label(), "")
		}
	})
	return b.detail
}

// Leaf is an embeddable helper for nodes which never have children.
type Leaf struct{}

// AllowsChildren is part of interface DataNode.
func (Leaf) AllowsChildren() bool { return false }

// Children is part of interface DataNode.
func (Leaf) Children(context.Context) (ChildIterator, error) {
	return nil, ErrNoChildren
}

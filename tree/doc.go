/*
Package tree implements the concurrent node graph the tree model is built on.

Nodes are mutable. Each node carries a payload of type parameter T and
maintains a mutex-protected slice of children. There is no lock for the
tree as a whole: appending children to one node never blocks readers or
writers of an unrelated branch. Structural reads of a single node (child
count, child at position) are serialized with appends to that node, so a
reader will never observe a torn child slice.

Nodes are usually wrapped by higher level packages, which put their own
bookkeeping into the payload:

    type Entry struct { … }
    n := tree.NewNode(&Entry{…})
    n.AddChild(tree.NewNode(&Entry{…}))

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'treeview.tree'.
func tracer() tracing.Trace {
	return tracing.Select("treeview.tree")
}

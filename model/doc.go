/*
Package model holds materialized data nodes as a tree and expands them lazily.

A Model wraps a root DataNode into a tree of model nodes (see package tree).
Children of a model node are materialized on request only: Expand and
RecursiveExpand run an expander off the caller's goroutine, which pulls
child candidates from the node's DataNode, lets a factory build nodes from
them and appends the results, in enumeration order, to the model node.
Build failures show up as error nodes in place of the child that could not
be built.

Every model node carries an ExpansionState:

    NeverExpanded ──► Expanding ──► Done
                        ▲   │
                        └───┘  (superseded by a new expander)

At most one expander is active for a node. Installing a new one (Reexpand)
invalidates the current one by bumping a generation counter and canceling
its context; the invalidated expander notices at its next check and stops
without touching the model again. Checking for active-ness and appending a
child happen under the node's own lock, so no child of a superseded
expander can slip in after its successor has been installed. Locks are per
node; expansions of unrelated subtrees never serialize.

Concurrent requests to expand the same node are coalesced: a request
finding a node Expanding waits for the running expander, a request finding
it Done returns immediately.

Structural changes are announced to listeners as Events, which are
delivered on an event loop goroutine (see package eventloop), in the order
the changes have been applied to a node.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package model

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'treeview.model'.
func tracer() tracing.Trace {
	return tracing.Select("treeview.model")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("treeview.model: "+msg, msgargs...)
		panic(msg)
	}
}

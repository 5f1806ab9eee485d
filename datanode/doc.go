/*
Package datanode defines the abstraction every browsable item implements.

A DataNode is one item of a browsable hierarchy: a file system entry, an
archive member, an element of an HTML document, a CSS rule, an error.
Every DataNode has an identity (name, optional label, symbolic icon),
tells whether it may have children, produces its children lazily, and
builds a detail view on demand.

Children are not produced as DataNodes, but as raw candidates: backing
objects like a file path, a byte stream or a DOM fragment. Turning a
candidate into a DataNode is the job of a factory (see package factory),
which consults a registry of builders. Nodes created by a factory carry a
Provenance, which records which factory and builder created the node from
which candidate, and within which parent.

Failures are nodes, too. An ErrorNode stands in for a child which could
not be built or for an enumeration which broke off, so that errors stay
visible and inspectable in the tree.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package datanode

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'treeview.datanode'.
func tracer() tracing.Trace {
	return tracing.Select("treeview.datanode")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("treeview.datanode: "+msg, msgargs...)
		panic(msg)
	}
}

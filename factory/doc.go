/*
Package factory turns raw candidates into data nodes.

Builders

A Builder attempts to construct a DataNode from a candidate. Each builder
declares the kinds of candidates it accepts. Calling a builder may end in
one of three ways:

   node, nil            // success
   nil, nil             // not applicable, try the next builder
   nil, err             // applicable, but construction failed

Returning an error wrapping ErrNotApplicable is equivalent to (nil, nil).
Any other error means the builder recognized the candidate but found it
malformed. The factory will then stop searching and report the failure,
instead of falling through to weaker builders.

Registry

A Registry is an explicit table of builders, keyed by candidate kind.
There is no global registry: format packages offer Register functions
which clients call on a registry of their own.

Factory

A Factory selects builders from a registry, in order of priority and
then registration, and stamps every node it creates with a provenance.
Failures are returned as *BuildError. BuildOrError converts every failure
into an error node, which is what the tree model inserts in place of a
child which could not be built.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package factory

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'treeview.factory'.
func tracer() tracing.Trace {
	return tracing.Select("treeview.factory")
}

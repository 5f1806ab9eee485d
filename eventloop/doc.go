/*
Package eventloop implements a single dispatch goroutine.

A Loop plays the role a UI thread plays in a desktop application: it runs
posted functions one after another, in the order they have been posted.
Clients never block on posting. Work which may block (I/O, parsing) must
not run on the loop; it belongs to worker goroutines, which post their
results to the loop.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package eventloop

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'treeview.eventloop'.
func tracer() tracing.Trace {
	return tracing.Select("treeview.eventloop")
}

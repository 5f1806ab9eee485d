/*
Package text builds leaf nodes for plain bytes.

Whatever no other format claims ends up here: a text node shows its
content as text if it looks like text, and as a hex dump otherwise. The
builder is registered with a low priority, making it the fallback of a
registry.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package text

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'treeview.formats'.
func tracer() tracing.Trace {
	return tracing.Select("treeview.formats")
}

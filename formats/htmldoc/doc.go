/*
Package htmldoc builds nodes for HTML documents and their style sheets.

An HTML document is parsed with golang.org/x/net/html. Its elements and
non-blank text nodes become children of the document node. Embedded
<style> elements have the rules of their style sheet as children, parsed
with github.com/aymerick/douceur. The detail view of a rule lists its
declarations, with lengths converted to points, and the number of elements
of the document its selector matches (using github.com/andybalholm/cascadia).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package htmldoc

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'treeview.formats'.
func tracer() tracing.Trace {
	return tracing.Select("treeview.formats")
}

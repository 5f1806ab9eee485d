/*
Package fsnode builds nodes for directories of the local file system.

A directory node enumerates its entries, sorted by name, as file
candidates. Regular files are left to the other formats of a registry
(archives, HTML documents, text).

Entries which are symbolic links become leaf nodes showing the link
target. Links are never followed, thus a link to an ancestor directory
does not turn the file system into an endless tree.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fsnode

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'treeview.formats'.
func tracer() tracing.Trace {
	return tracing.Select("treeview.formats")
}

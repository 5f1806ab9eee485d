/*
Package archive builds nodes for zip archives, tar archives and gzip streams.

Archive members are yielded as Entry candidates, which are byte streams,
so members are built by whatever format claims them, including nested
archives.

Zip archives have a central directory and are accessed randomly: opening
an entry reads it directly. Tar archives have no index. A tar archive in a
plain, uncompressed file is indexed while enumerating, and entries are read
by seeking to their offsets. All other tar archives (compressed, or nested
in other archives) are accessed as streams: entries are read through a
shared cursor, which is re-opened from the start whenever an entry behind
the cursor is requested. Opening the entries of a streamed tar archive in
reverse order is therefore quadratic in the number of entries.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package archive

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'treeview.formats'.
func tracer() tracing.Trace {
	return tracing.Select("treeview.formats")
}

/*
Package formats assembles the builders of all formats of this module into
a registry.

Builders are tried in order of priority: HTML documents, then archives
(zip and tar before gzip), then directories, and plain text as the last
resort for anything with bytes.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package formats

import (
	"github.com/npillmayer/treeview/factory"
	"github.com/npillmayer/treeview/formats/archive"
	"github.com/npillmayer/treeview/formats/fsnode"
	"github.com/npillmayer/treeview/formats/htmldoc"
	"github.com/npillmayer/treeview/formats/text"
)

// Options configure the formats.
type Options struct {
	Dir     fsnode.Options
	Archive archive.Options
	HTML    htmldoc.Options
	TextMax int // limit for text and hex previews
}

// NewRegistry creates a registry holding the builders of all formats.
func NewRegistry(opts Options) *factory.Registry {
	reg := factory.NewRegistry()
	fsnode.Register(reg, opts.Dir)
	archive.Register(reg, opts.Archive)
	htmldoc.Register(reg, opts.HTML)
	text.Register(reg, opts.TextMax)
	return reg
}

// NewFactory creates a factory over NewRegistry(opts).
func NewFactory(opts Options) *factory.Factory {
	return factory.New(NewRegistry(opts), factory.Named("treeview"))
}

/*
Package config loads the configuration of the treeview tools and sets up
tracing from it.

Configuration is layered: built-in defaults, then a NestedText file found at
one of the natural configuration locations for the application tag (see
schuko.LocateConfig), then explicit overrides, usually from command line
flags:

	conf := config.Load("treeview")
	conf.Set(config.KeyWorkers, 8)
	if err := config.SetupTracing(conf); err != nil { … }

Recognized keys:

	tracing.adapter           go | logrus | nop
	tracelevel.root           Error | Info | Debug
	tracelevel.treeview.xxx   trace level of package xxx
	expand.workers            concurrent expanders per model
	expand.maxdepth           depth limit for recursive expansion, 0 = none
	archive.stream            access tar files by streaming only
	archive.maxbytes          limit for archives read into memory
	text.maxbytes             limit for text and hex previews

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package config

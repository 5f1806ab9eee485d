/*
Command treeview browses hierarchical data: directories, archives, HTML
documents and their style sheets.

	treeview tree PATH              print the tree below PATH
	treeview show PATH --node 0/2/1 print the detail view of a node
	treeview dot PATH               print the tree in GraphViz format

Nodes are materialized lazily by the tree and dot commands, which expand the
whole tree (down to --depth levels), and by show, which expands only the
nodes along the node path.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var app appContext
	rootCmd := &cobra.Command{
		Use:          "treeview",
		Short:        "Browse directories, archives and HTML documents as trees",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
	}
	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&app.workers, "workers", "w", 0, "number of concurrent expansions")
	flags.IntVarP(&app.depth, "depth", "d", 0, "depth limit for expansion, 0 for none")
	flags.BoolVar(&app.stream, "stream", false, "read tar archives sequentially")
	flags.BoolVarP(&app.hidden, "all", "a", false, "show hidden directory entries")
	flags.StringVar(&app.adapter, "trace", "", "tracing adapter (go, logrus, nop)")
	flags.StringVar(&app.level, "tracelevel", "", "trace level (Error, Info, Debug)")
	rootCmd.AddCommand(newTreeCmd(&app), newShowCmd(&app), newDotCmd(&app))
	return rootCmd
}

func exactlyOnePath(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%s needs exactly one path, got %d", cmd.Name(), len(args))
	}
	return nil
}

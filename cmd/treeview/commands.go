package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/treeview/tree"
	"github.com/spf13/cobra"
)

func newTreeCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tree PATH",
		Short: "Print the tree below PATH",
		Args:  exactlyOnePath,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer m.Close()
			if err := m.RecursiveExpandSync(cmd.Context(), m.Root()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), m.Print())
			tracing.Select("treeview.model").Infof("%d nodes materialized", tree.Count(m.Root()))
			return nil
		},
	}
}

func newShowCmd(app *appContext) *cobra.Command {
	var node string
	cmd := &cobra.Command{
		Use:   "show PATH",
		Short: "Print the detail view of a node",
		Long: `Print the detail view of a node. The node is addressed by the
indices of the nodes leading to it, separated by slashes:

  treeview show site.zip --node 0/3    # 4th child of the 1st child`,
		Args: exactlyOnePath,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := parseNodePath(node)
			if err != nil {
				return err
			}
			m, err := app.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer m.Close()
			n, err := m.ExpandPath(cmd.Context(), path)
			if err != nil {
				return err
			}
			v, err := m.Detail(n)
			if err != nil {
				return err
			}
			return v.Render(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&node, "node", "n", "", "index path of the node, e.g. 0/2/1")
	return cmd
}

func newDotCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dot PATH",
		Short: "Print the tree below PATH in GraphViz format",
		Args:  exactlyOnePath,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer m.Close()
			if err := m.RecursiveExpandSync(cmd.Context(), m.Root()); err != nil {
				return err
			}
			return m.ToGraphViz(cmd.OutOrStdout())
		},
	}
}

// parseNodePath parses an index path like "0/2/1". The empty path
// addresses the root.
func parseNodePath(s string) ([]int, error) {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "/")
	path := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid node path %q", s)
		}
		path[i] = n
	}
	return path, nil
}

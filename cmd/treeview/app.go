package main

import (
	"context"
	"fmt"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/treeview/config"
	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/formats"
	"github.com/npillmayer/treeview/formats/archive"
	"github.com/npillmayer/treeview/formats/fsnode"
	"github.com/npillmayer/treeview/model"
	"github.com/spf13/cobra"
)

// appContext holds the flags and the configuration shared by all commands.
type appContext struct {
	workers int
	depth   int
	stream  bool
	hidden  bool
	adapter string
	level   string
	conf    *config.Config
}

// setup loads the configuration, lets flags set on the command line
// override it, and starts tracing.
func (app *appContext) setup(cmd *cobra.Command) error {
	app.conf = config.Load("treeview")
	flags := cmd.Flags()
	if flags.Changed("workers") {
		app.conf.Set(config.KeyWorkers, app.workers)
	}
	if flags.Changed("depth") {
		app.conf.Set(config.KeyMaxDepth, app.depth)
	}
	if flags.Changed("stream") {
		app.conf.Set(config.KeyArchiveStream, app.stream)
	}
	if flags.Changed("trace") {
		app.conf.Set(config.KeyTracingAdapter, app.adapter)
	}
	if flags.Changed("tracelevel") {
		app.conf.Set(config.KeyTraceLevel+".root", app.level)
		for _, pkg := range config.Packages {
			app.conf.Set(config.KeyTraceLevel+".treeview."+pkg, app.level)
		}
	}
	return config.SetupTracing(app.conf)
}

// open builds the root node for path and wraps it into a model.
func (app *appContext) open(ctx context.Context, path string) (*model.Model, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	f := formats.NewFactory(formats.Options{
		Dir: fsnode.Options{ShowHidden: app.hidden},
		Archive: archive.Options{
			Stream:   app.conf.ArchiveStream(),
			MaxBytes: app.conf.ArchiveMaxBytes(),
		},
		TextMax: app.conf.TextMaxBytes(),
	})
	root, err := f.Build(ctx, datanode.NewFile(path), nil)
	if err != nil {
		return nil, fmt.Errorf("cannot browse %s: %w", path, err)
	}
	tracing.Select("treeview.model").Infof("browsing %s as %T", path, root)
	return model.New(root, f,
		model.WithWorkers(app.conf.Workers()),
		model.WithMaxDepth(app.conf.MaxDepth()),
	), nil
}

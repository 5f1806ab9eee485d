package fsnode

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/detail"
	"github.com/npillmayer/treeview/factory"
)

// Dir is a node for a directory.
type Dir struct {
	datanode.Base
	path       string
	info       os.FileInfo
	showHidden bool
}

// Path returns the file system path of the directory.
func (d *Dir) Path() string { return d.path }

// AllowsChildren is part of interface datanode.DataNode.
func (d *Dir) AllowsChildren() bool { return true }

// Children is part of interface datanode.DataNode. Entries are read when
// Children is called and are yielded sorted by name.
func (d *Dir) Children(ctx context.Context) (datanode.ChildIterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, err
	}
	cands := make([]datanode.Candidate, 0, len(entries))
	for _, e := range entries {
		if !d.showHidden && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		f := datanode.NewFile(filepath.Join(d.path, e.Name()))
		if info, err := e.Info(); err == nil {
			f.Info = info // does not follow symbolic links
		}
		cands = append(cands, f)
	}
	tracer().Debugf("directory %s has %d entries", d.path, len(cands))
	return datanode.SliceIterator(cands...), nil
}

// Detail is part of interface datanode.DataNode.
func (d *Dir) Detail() *detail.View {
	return d.MemoDetail(func() *detail.View {
		v := detail.NewView(d.Name(), "directory")
		v.AddField("path", d.path)
		v.AddField("mode", d.info.Mode())
		v.AddField("modified", d.info.ModTime().Format("2006-01-02 15:04:05"))
		if entries, err := os.ReadDir(d.path); err == nil {
			v.AddField("entries", len(entries))
		} else {
			v.AddField("error", err)
		}
		return v
	})
}

// Options configure the directory builder.
type Options struct {
	ShowHidden bool // include entries starting with a dot
}

// Builder creates a builder for directory candidates.
func Builder(opts Options) factory.Builder {
	return factory.NewBuilder("dir", func(_ context.Context, cand datanode.Candidate, _ datanode.DataNode) (datanode.DataNode, error) {
		f, ok := cand.(*datanode.File)
		if !ok {
			return nil, factory.ErrNotApplicable
		}
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", factory.ErrNotApplicable, f.Path)
		}
		d := &Dir{path: f.Path, info: info, showHidden: opts.ShowHidden}
		name := info.Name()
		if name == "." || name == string(filepath.Separator) {
			name = f.Path
		}
		d.Init(name, datanode.IconFolder)
		return d, nil
	}, datanode.KindFile)
}

// Register registers the directory and symbolic link builders with a
// registry.
func Register(reg *factory.Registry, opts Options) {
	reg.Register(Builder(opts))
	reg.Register(LinkBuilder(), factory.Priority(30))
}

package fsnode

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/detail"
	"github.com/npillmayer/treeview/factory"
)

// Link is a leaf node for a symbolic link.
type Link struct {
	datanode.Base
	path string
	info fs.FileInfo
}

// Path returns the file system path of the link itself.
func (l *Link) Path() string { return l.path }

// Target returns the path the link points to, as stored in the link.
func (l *Link) Target() (string, error) {
	return os.Readlink(l.path)
}

// AllowsChildren is part of interface datanode.DataNode.
func (l *Link) AllowsChildren() bool { return false }

// Children is part of interface datanode.DataNode.
func (l *Link) Children(context.Context) (datanode.ChildIterator, error) {
	return nil, datanode.ErrNoChildren
}

// Detail is part of interface datanode.DataNode.
func (l *Link) Detail() *detail.View {
	return l.MemoDetail(func() *detail.View {
		v := detail.NewView(l.Name(), "symbolic link")
		v.AddField("path", l.path)
		target, err := l.Target()
		if err != nil {
			return v.AddField("error", err)
		}
		v.AddField("target", target)
		v.AddField("modified", l.info.ModTime().Format("2006-01-02 15:04:05"))
		info, err := os.Stat(l.path)
		switch {
		case err != nil:
			v.AddField("dangling", err)
		case info.IsDir():
			v.AddField("points to", "directory")
		case info.Mode().IsRegular():
			v.AddField("points to", "file")
		default:
			v.AddField("points to", info.Mode().Type())
		}
		return v
	})
}

// LinkBuilder creates a builder for file candidates which are symbolic
// links. It relies on the file info of a candidate not following links,
// as set up by directory nodes.
func LinkBuilder() factory.Builder {
	return factory.NewBuilder("symlink", func(_ context.Context, cand datanode.Candidate, _ datanode.DataNode) (datanode.DataNode, error) {
		f, ok := cand.(*datanode.File)
		if !ok {
			return nil, factory.ErrNotApplicable
		}
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			return nil, fmt.Errorf("%w: %s is not a symbolic link", factory.ErrNotApplicable, f.Path)
		}
		l := &Link{path: f.Path, info: info}
		l.Init(info.Name(), datanode.IconFile)
		return l, nil
	}, datanode.KindFile)
}

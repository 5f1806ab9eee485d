package archive

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/detail"
	"github.com/npillmayer/treeview/factory"
)

// Gzip is a node for a gzip compressed stream. Its single child is the
// decompressed content.
type Gzip struct {
	datanode.Base
	src    *source
	header gzip.Header
}

// AllowsChildren is part of interface datanode.DataNode.
func (g *Gzip) AllowsChildren() bool { return true }

// Children is part of interface datanode.DataNode.
func (g *Gzip) Children(ctx context.Context) (datanode.ChildIterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hdr := EntryHeader{
		Name:     g.contentName(),
		Size:     -1,
		Modified: g.header.ModTime,
		Method:   "deflated",
	}
	return datanode.SliceIterator(newEntry(hdr, g.open)), nil
}

func (g *Gzip) open() (io.ReadCloser, error) {
	rc, err := g.src.Open()
	if err != nil {
		return nil, err
	}
	gz, err := gzip.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return &readCloser{Reader: gz, closers: []io.Closer{rc, gz}}, nil
}

// contentName is the name of the original file, if recorded, or the name
// of the compressed stream without its suffix.
func (g *Gzip) contentName() string {
	if g.header.Name != "" {
		return g.header.Name
	}
	name := g.Name()
	for _, suffix := range []string{".gz", ".gzip", ".z"} {
		if strings.HasSuffix(strings.ToLower(name), suffix) {
			return name[:len(name)-len(suffix)]
		}
	}
	return name + ".content"
}

// Detail is part of interface datanode.DataNode.
func (g *Gzip) Detail() *detail.View {
	return g.MemoDetail(func() *detail.View {
		v := detail.NewView(g.Name(), "gzip stream")
		v.AddField("content", g.contentName())
		if !g.header.ModTime.IsZero() {
			v.AddField("modified", g.header.ModTime.Format("2006-01-02 15:04:05"))
		}
		if g.header.Comment != "" {
			v.AddField("comment", g.header.Comment)
		}
		return v
	})
}

// GzipBuilder creates a builder for gzip streams.
func GzipBuilder() factory.Builder {
	return factory.NewBuilder("gzip", func(_ context.Context, cand datanode.Candidate, _ datanode.DataNode) (datanode.DataNode, error) {
		src, err := sourceOf(cand)
		if err != nil {
			return nil, err
		}
		magic, err := src.peek(2)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(magic, gzipMagic) {
			return nil, factory.ErrNotApplicable
		}
		rc, err := src.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		gz, err := gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
		g := &Gzip{src: src, header: gz.Header}
		gz.Close()
		g.Init(cand.Name(), datanode.IconArchive)
		return g, nil
	}, datanode.KindFile, datanode.KindStream)
}

// Register registers the builders for zip, tar and gzip with a registry.
// Tar takes precedence over gzip, claiming compressed tar archives.
func Register(reg *factory.Registry, opts Options) {
	reg.Register(ZipBuilder(opts), factory.Priority(10))
	reg.Register(TarBuilder(opts), factory.Priority(10))
	reg.Register(GzipBuilder(), factory.Priority(5))
}

package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/detail"
	"github.com/npillmayer/treeview/factory"
)

var zipMagic = [][]byte{
	[]byte("PK\x03\x04"), // local file header
	[]byte("PK\x05\x06"), // end of central directory, empty archive
}

// Zip is a node for a zip archive.
type Zip struct {
	datanode.Base
	src     *source
	entries int
	comment string
	size    int64
}

// AllowsChildren is part of interface datanode.DataNode.
func (z *Zip) AllowsChildren() bool { return true }

func (z *Zip) open() (*zip.Reader, io.Closer, error) {
	ra, size, err := z.src.readerAt()
	if err != nil {
		return nil, nil, err
	}
	r, err := zip.NewReader(ra, size)
	if err != nil {
		ra.Close()
		return nil, nil, err
	}
	return r, ra, nil
}

// Children is part of interface datanode.DataNode. Entries are yielded in
// the order of the central directory; directory entries are skipped.
func (z *Zip) Children(ctx context.Context) (datanode.ChildIterator, error) {
	r, closer, err := z.open()
	if err != nil {
		return nil, err
	}
	i := -1
	return datanode.FuncIterator(func() (datanode.Candidate, error) {
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			i++
			if i >= len(r.File) {
				return nil, io.EOF
			}
			if f := r.File[i]; !f.FileInfo().IsDir() {
				return z.entry(i, f), nil
			}
		}
	}, closer.Close), nil
}

func (z *Zip) entry(inx int, f *zip.File) *Entry {
	hdr := EntryHeader{
		Name:     f.Name,
		Size:     int64(f.UncompressedSize64),
		Modified: f.Modified,
		Method:   zipMethod(f.Method),
	}
	return newEntry(hdr, func() (io.ReadCloser, error) {
		r, closer, err := z.open()
		if err != nil {
			return nil, err
		}
		if inx >= len(r.File) {
			closer.Close()
			return nil, fmt.Errorf("zip entry #%d of %s vanished", inx, z.Name())
		}
		rc, err := r.File[inx].Open()
		if err != nil {
			closer.Close()
			return nil, err
		}
		return &readCloser{Reader: rc, closers: []io.Closer{closer, rc}}, nil
	})
}

func zipMethod(m uint16) string {
	switch m {
	case zip.Store:
		return "stored"
	case zip.Deflate:
		return "deflated"
	}
	return fmt.Sprintf("method %d", m)
}

// Detail is part of interface datanode.DataNode.
func (z *Zip) Detail() *detail.View {
	return z.MemoDetail(func() *detail.View {
		v := detail.NewView(z.Name(), "zip archive")
		v.AddField("entries", z.entries)
		v.AddField("size", z.size)
		if z.comment != "" {
			v.AddField("comment", z.comment)
		}
		return v
	})
}

// ZipBuilder creates a builder for zip archives.
func ZipBuilder(opts Options) factory.Builder {
	return factory.NewBuilder("zip", func(_ context.Context, cand datanode.Candidate, _ datanode.DataNode) (datanode.DataNode, error) {
		src, err := sourceOf(cand)
		if err != nil {
			return nil, err
		}
		magic, err := src.peek(4)
		if err != nil {
			return nil, err
		}
		if !hasPrefix(magic, zipMagic...) {
			return nil, factory.ErrNotApplicable
		}
		if err = src.load(opts.maxBytes()); err != nil {
			return nil, err
		}
		z := &Zip{src: src}
		r, closer, err := z.open()
		if err != nil {
			return nil, fmt.Errorf("invalid zip archive: %w", err)
		}
		defer closer.Close()
		for _, f := range r.File {
			if !f.FileInfo().IsDir() {
				z.entries++
			}
		}
		z.comment = r.Comment
		if ra, size, err := src.readerAt(); err == nil {
			z.size = size
			ra.Close()
		}
		z.Init(cand.Name(), datanode.IconArchive)
		tracer().Debugf("zip archive %s with %d entries", cand.Name(), z.entries)
		return z, nil
	}, datanode.KindFile, datanode.KindStream)
}

func hasPrefix(b []byte, prefixes ...[]byte) bool {
	for _, p := range prefixes {
		if bytes.HasPrefix(b, p) {
			return true
		}
	}
	return false
}

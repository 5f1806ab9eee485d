package archive

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/detail"
	"github.com/npillmayer/treeview/factory"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Tar is a node for a tar archive, optionally gzip compressed.
type Tar struct {
	datanode.Base
	src      *source
	gzipped  bool
	indexed  bool // entries are read by seeking into a plain file
	maxBytes int64
	cursor   cursor
}

// cursor is a sequential reader shared by all entries of a streamed
// archive. pos is the ordinal of the next header to be read.
type cursor struct {
	sync.Mutex
	tr      *tar.Reader
	closer  io.Closer
	pos     int
	rescans int
}

// AllowsChildren is part of interface datanode.DataNode.
func (t *Tar) AllowsChildren() bool { return true }

// Indexed is true if entries are accessed by seeking.
func (t *Tar) Indexed() bool { return t.indexed }

// Rescans returns how often the shared cursor of a streamed archive had to
// be re-opened because an entry behind it was requested.
func (t *Tar) Rescans() int {
	t.cursor.Lock()
	defer t.cursor.Unlock()
	return t.cursor.rescans
}

// countingReader counts the bytes read, telling the offset of entry data.
type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

// openStream opens a tar reader from the start of the archive.
func (t *Tar) openStream() (*tar.Reader, *countingReader, io.Closer, error) {
	rc, err := t.src.Open()
	if err != nil {
		return nil, nil, nil, err
	}
	var r io.Reader = rc
	closer := &readCloser{closers: []io.Closer{rc}}
	if t.gzipped {
		gz, err := gzip.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, nil, nil, err
		}
		closer.closers = append(closer.closers, gz)
		r = gz
	}
	cr := &countingReader{r: r}
	return tar.NewReader(cr), cr, closer, nil
}

// Children is part of interface datanode.DataNode. Only regular files are
// yielded, in archive order.
func (t *Tar) Children(ctx context.Context) (datanode.ChildIterator, error) {
	tr, cr, closer, err := t.openStream()
	if err != nil {
		return nil, err
	}
	ordinal := -1
	return datanode.FuncIterator(func() (datanode.Candidate, error) {
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			hdr, err := tr.Next()
			if err != nil {
				return nil, err // io.EOF at the end of the archive
			}
			ordinal++
			if hdr.Typeflag != tar.TypeReg {
				continue
			}
			return t.entry(ordinal, cr.n, hdr), nil
		}
	}, closer.Close), nil
}

func (t *Tar) entry(ordinal int, offset int64, hdr *tar.Header) *Entry {
	eh := EntryHeader{Name: hdr.Name, Size: hdr.Size, Modified: hdr.ModTime}
	if t.indexed {
		size := hdr.Size
		return newEntry(eh, func() (io.ReadCloser, error) {
			f, err := os.Open(t.src.path)
			if err != nil {
				return nil, err
			}
			return &readCloser{Reader: io.NewSectionReader(f, offset, size), closers: []io.Closer{f}}, nil
		})
	}
	return newEntry(eh, func() (io.ReadCloser, error) {
		data, err := t.readEntry(ordinal)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

// readEntry reads the content of the entry with a given ordinal through the
// shared cursor.
func (t *Tar) readEntry(ordinal int) ([]byte, error) {
	c := &t.cursor
	c.Lock()
	defer c.Unlock()
	if c.tr != nil && c.pos > ordinal {
		c.closer.Close()
		c.tr = nil
		c.rescans++
		tracer().Debugf("tar %s: re-scanning for entry #%d", t.Name(), ordinal)
	}
	if c.tr == nil {
		tr, _, closer, err := t.openStream()
		if err != nil {
			return nil, err
		}
		c.tr, c.closer, c.pos = tr, closer, 0
	}
	for c.pos <= ordinal {
		hdr, err := c.tr.Next()
		if err != nil {
			c.closer.Close()
			c.tr = nil
			if err == io.EOF {
				err = fmt.Errorf("tar entry #%d of %s not found", ordinal, t.Name())
			}
			return nil, err
		}
		c.pos++
		if c.pos-1 < ordinal {
			continue
		}
		data, err := io.ReadAll(io.LimitReader(c.tr, t.maxBytes+1))
		if err != nil {
			c.closer.Close()
			c.tr = nil
			return nil, err
		}
		if int64(len(data)) > t.maxBytes {
			return nil, fmt.Errorf("%w: tar entry %s", datanode.ErrTooLarge, hdr.Name)
		}
		return data, nil
	}
	return nil, fmt.Errorf("tar entry #%d of %s not found", ordinal, t.Name())
}

// Detail is part of interface datanode.DataNode.
func (t *Tar) Detail() *detail.View {
	return t.MemoDetail(func() *detail.View {
		v := detail.NewView(t.Name(), "tar archive")
		if t.gzipped {
			v.AddField("compression", "gzip")
		}
		if t.indexed {
			v.AddField("access", "indexed")
		} else {
			v.AddField("access", "sequential")
		}
		return v
	})
}

// isTarHeader checks for the magic of POSIX and GNU tar headers.
func isTarHeader(block []byte) bool {
	return len(block) >= 262 && string(block[257:262]) == "ustar"
}

// TarBuilder creates a builder for tar archives, plain or gzip compressed.
func TarBuilder(opts Options) factory.Builder {
	return factory.NewBuilder("tar", func(_ context.Context, cand datanode.Candidate, _ datanode.DataNode) (datanode.DataNode, error) {
		src, err := sourceOf(cand)
		if err != nil {
			return nil, err
		}
		block, err := src.peek(512)
		if err != nil {
			return nil, err
		}
		t := &Tar{src: src, maxBytes: opts.maxBytes()}
		if bytes.HasPrefix(block, gzipMagic) {
			if block, err = peekGzip(src, 512); err != nil {
				return nil, factory.ErrNotApplicable // left to the gzip builder
			}
			t.gzipped = true
		}
		if !isTarHeader(block) && !(strings.HasSuffix(cand.Name(), ".tar") && len(block) == 512) {
			return nil, factory.ErrNotApplicable
		}
		t.indexed = src.path != "" && !t.gzipped && !opts.Stream
		if _, err := tar.NewReader(bytes.NewReader(block)).Next(); err != nil && err != io.EOF &&
			err != io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("invalid tar header: %w", err)
		}
		t.Init(cand.Name(), datanode.IconArchive)
		return t, nil
	}, datanode.KindFile, datanode.KindStream)
}

func peekGzip(src *source, n int) ([]byte, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	gz, err := gzip.NewReader(rc)
	if err != nil {
		return nil, err
	}
	defer gz.Close()
	buf := make([]byte, n)
	m, err := io.ReadFull(gz, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = nil
	}
	return buf[:m], err
}

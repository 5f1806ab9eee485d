package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/factory"
)

// DefaultMaxBytes limits the size of archives and entries held in memory.
const DefaultMaxBytes = 64 << 20

// Options configure the archive builders.
type Options struct {
	Stream   bool  // access tar archives sequentially, even for plain files
	MaxBytes int64 // limit for data held in memory, DefaultMaxBytes if 0
}

func (o Options) maxBytes() int64 {
	if o.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return o.MaxBytes
}

// EntryHeader describes a member of an archive.
type EntryHeader struct {
	Name     string
	Size     int64
	Modified time.Time
	Method   string // compression method, if any
}

// Entry is a candidate for a member of an archive. It is a byte stream and
// may be built by any builder accepting streams.
type Entry struct {
	*datanode.Stream
	Header EntryHeader
}

func (e *Entry) String() string {
	return fmt.Sprintf("entry:%s", e.Header.Name)
}

func newEntry(hdr EntryHeader, open func() (io.ReadCloser, error)) *Entry {
	return &Entry{
		Stream: datanode.NewStream(hdr.Name, hdr.Size, open),
		Header: hdr,
	}
}

// source is the byte source of an archive.
type source struct {
	name string
	path string // set for plain files, which allow random access
	data []byte // content, for streams held in memory
	open func() (io.ReadCloser, error)
}

// sourceOf extracts the byte source of a candidate. Candidates without
// content and file system entries other than regular files are not
// applicable.
func sourceOf(cand datanode.Candidate) (*source, error) {
	o, ok := cand.(datanode.Opener)
	if !ok {
		return nil, factory.ErrNotApplicable
	}
	src := &source{name: cand.Name(), open: o.Open}
	if f, ok := cand.(*datanode.File); ok {
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("%w: %s is not a regular file", factory.ErrNotApplicable, f.Path)
		}
		src.path = f.Path
	}
	return src, nil
}

func (src *source) peek(n int) ([]byte, error) {
	return datanode.Peek(src, n)
}

// Open makes a source usable as a datanode.Opener.
func (src *source) Open() (io.ReadCloser, error) {
	if src.data != nil {
		return io.NopCloser(bytes.NewReader(src.data)), nil
	}
	return src.open()
}

// load reads the content of a source into memory, if it is not a file.
func (src *source) load(limit int64) error {
	if src.path != "" || src.data != nil {
		return nil
	}
	data, err := datanode.ReadAll(src, limit)
	if err != nil {
		return err
	}
	src.data = data
	return nil
}

type readerAtCloser interface {
	io.ReaderAt
	io.Closer
}

type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }

// readerAt opens a source for random access. load must have been called
// for sources which are not files.
func (src *source) readerAt() (readerAtCloser, int64, error) {
	if src.path == "" {
		return nopCloser{bytes.NewReader(src.data)}, int64(len(src.data)), nil
	}
	f, err := os.Open(src.path)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// readCloser couples a reader with additional resources to close.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var first error
	for i := len(rc.closers) - 1; i >= 0; i-- {
		if err := rc.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	rc.closers = nil
	return first
}

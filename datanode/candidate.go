package datanode

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Kind is the type tag of a candidate. Builders declare the kinds they
// accept, and the factory selects builders by kind.
type Kind string

// Kinds of candidates known to every format package. Format packages are
// free to introduce kinds of their own.
const (
	KindFile   Kind = "file"   // an entry of the file system
	KindStream Kind = "stream" // a named byte stream, e.g. an archive member
	KindText   Kind = "text"   // a piece of text
)

// Candidate is a raw backing object from which a DataNode may be built.
type Candidate interface {
	Kind() Kind
	Name() string
}

// Opener is implemented by candidates which are backed by bytes.
type Opener interface {
	Open() (io.ReadCloser, error)
}

// --- Files -----------------------------------------------------------------

// File is a candidate for an entry of the file system.
type File struct {
	Path string
	Info fs.FileInfo // may be nil, will then be read lazily
}

// NewFile creates a file candidate for path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Kind is part of interface Candidate.
func (f *File) Kind() Kind { return KindFile }

// Name is part of interface Candidate.
func (f *File) Name() string {
	return filepath.Base(f.Path)
}

// Stat returns the file info of the file, reading it if necessary.
func (f *File) Stat() (fs.FileInfo, error) {
	if f.Info != nil {
		return f.Info, nil
	}
	info, err := os.Stat(f.Path)
	if err != nil {
		return nil, err
	}
	f.Info = info
	return info, nil
}

// Open opens the file for reading.
func (f *File) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

func (f *File) String() string {
	return fmt.Sprintf("file:%s", f.Path)
}

// --- Streams ---------------------------------------------------------------

// Stream is a candidate for a named sequence of bytes, which may be opened
// multiple times.
type Stream struct {
	name string
	size int64
	open func() (io.ReadCloser, error)
}

// NewStream creates a stream candidate. size may be -1 if unknown.
func NewStream(name string, size int64, open func() (io.ReadCloser, error)) *Stream {
	assertThat(open != nil, "stream %q needs an open function", name)
	return &Stream{name: name, size: size, open: open}
}

// BytesStream creates a stream candidate for an in-memory byte slice.
func BytesStream(name string, b []byte) *Stream {
	return NewStream(name, int64(len(b)), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(b)), nil
	})
}

// Kind is part of interface Candidate.
func (s *Stream) Kind() Kind { return KindStream }

// Name is part of interface Candidate.
func (s *Stream) Name() string { return s.name }

// Size returns the length of the stream in bytes, or -1.
func (s *Stream) Size() int64 { return s.size }

// Open opens the stream for reading.
func (s *Stream) Open() (io.ReadCloser, error) {
	return s.open()
}

func (s *Stream) String() string {
	return fmt.Sprintf("stream:%s", s.name)
}

// --- Text ------------------------------------------------------------------

// Text is a candidate for a piece of text.
type Text struct {
	Title   string
	Content string
}

// Kind is part of interface Candidate.
func (t Text) Kind() Kind { return KindText }

// Name is part of interface Candidate.
func (t Text) Name() string { return t.Title }

// Open makes text candidates usable wherever bytes are expected.
func (t Text) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader([]byte(t.Content))), nil
}

// --- Sniffing --------------------------------------------------------------

// Peek reads up to n leading bytes of a candidate. Builders use it to look
// for magic numbers. A short read is not an error.
func Peek(o Opener, n int) ([]byte, error) {
	r, err := o.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	buf := make([]byte, n)
	m, err := io.ReadFull(r, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = nil
	}
	return buf[:m], err
}

// ReadAll reads all bytes of a candidate, failing if there are more than
// limit bytes (limit ≤ 0 means no limit).
func ReadAll(o Opener, limit int64) ([]byte, error) {
	r, err := o.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	if limit <= 0 {
		return io.ReadAll(r)
	}
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return b, nil
}

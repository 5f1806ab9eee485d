package archive

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/factory"
	"github.com/npillmayer/treeview/formats/text"
	"github.com/npillmayer/treeview/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type member struct {
	name, content string
}

func makeZip(t *testing.T, members ...member) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, m := range members {
		f, err := w.Create(m.name)
		require.NoError(t, err)
		_, err = f.Write([]byte(m.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func makeTar(t *testing.T, members ...member) []byte {
	var buf bytes.Buffer
	w := tar.NewWriter(&buf)
	for _, m := range members {
		require.NoError(t, w.WriteHeader(&tar.Header{
			Name:     m.name,
			Mode:     0o644,
			Size:     int64(len(m.content)),
			Typeflag: tar.TypeReg,
		}))
		_, err := w.Write([]byte(m.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func gzipped(t *testing.T, data []byte) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func newFactory(opts Options) *factory.Factory {
	reg := factory.NewRegistry()
	Register(reg, opts)
	text.Register(reg, 0)
	return factory.New(reg, factory.Named("archive-test"))
}

func entries(t *testing.T, n datanode.DataNode) []*Entry {
	it, err := n.Children(context.Background())
	require.NoError(t, err)
	defer it.Close()
	var es []*Entry
	for it.Next() {
		es = append(es, it.Candidate().(*Entry))
	}
	require.NoError(t, it.Err())
	return es
}

func content(t *testing.T, e *Entry) string {
	b, err := datanode.ReadAll(e, 0)
	require.NoError(t, err)
	return string(b)
}

func TestZipEntries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treeview.formats")
	defer teardown()
	//
	data := makeZip(t, member{"a.txt", "alpha"}, member{"dir/", ""}, member{"dir/b.txt", "beta"})
	node, err := newFactory(Options{}).Build(context.Background(), datanode.BytesStream("x.zip", data), nil)
	require.NoError(t, err)
	z, ok := node.(*Zip)
	require.True(t, ok)
	es := entries(t, z)
	require.Len(t, es, 2)
	assert.Equal(t, "a.txt", es[0].Name())
	assert.Equal(t, "dir/b.txt", es[1].Name())
	assert.Equal(t, "beta", content(t, es[1]))
	assert.Equal(t, "alpha", content(t, es[0]))
	n, _ := z.Detail().Field("entries")
	assert.Equal(t, "2", n)
}

func TestCorruptZipIsAConstructionFailure(t *testing.T) {
	f := newFactory(Options{})
	cand := datanode.BytesStream("broken.zip", []byte("PK\x03\x04 this is not a zip archive"))
	node := f.BuildOrError(context.Background(), cand, nil)
	en, ok := node.(*datanode.ErrorNode)
	require.True(t, ok, "expected an error node, got %T", node)
	assert.Equal(t, datanode.ConstructionFailure, en.Failure())
	var be *factory.BuildError
	require.ErrorAs(t, en, &be)
	assert.Equal(t, "zip", be.Builder)
}

func TestStreamedTarRescans(t *testing.T) {
	data := makeTar(t, member{"one", "1"}, member{"two", "22"}, member{"three", "333"})
	node, err := newFactory(Options{}).Build(context.Background(), datanode.BytesStream("x.tar", data), nil)
	require.NoError(t, err)
	tr, ok := node.(*Tar)
	require.True(t, ok)
	assert.False(t, tr.Indexed())
	es := entries(t, tr)
	require.Len(t, es, 3)
	assert.Equal(t, "333", content(t, es[2]))
	assert.Equal(t, 0, tr.Rescans())
	assert.Equal(t, "1", content(t, es[0])) // behind the cursor
	assert.Equal(t, 1, tr.Rescans())
	assert.Equal(t, "22", content(t, es[1])) // ahead of the cursor
	assert.Equal(t, 1, tr.Rescans())
}

// flakyReader fails reading past limit while broken is set.
type flakyReader struct {
	r      io.Reader
	off    int
	limit  int
	broken *atomic.Bool
}

var errFlaky = errors.New("read error")

func (fr *flakyReader) Read(p []byte) (int, error) {
	if fr.broken.Load() {
		if fr.off >= fr.limit {
			return 0, errFlaky
		}
		if fr.off+len(p) > fr.limit {
			p = p[:fr.limit-fr.off]
		}
	}
	n, err := fr.r.Read(p)
	fr.off += n
	return n, err
}

func TestStreamedTarRecoversFromReadError(t *testing.T) {
	data := makeTar(t, member{"one", "1"}, member{"two", "22"}, member{"three", "333"})
	broken := &atomic.Bool{}
	cand := datanode.NewStream("x.tar", int64(len(data)), func() (io.ReadCloser, error) {
		// content of entry "two" starts after 3 blocks
		return io.NopCloser(&flakyReader{r: bytes.NewReader(data), limit: 3 * 512, broken: broken}), nil
	})
	node, err := newFactory(Options{}).Build(context.Background(), cand, nil)
	require.NoError(t, err)
	tr, ok := node.(*Tar)
	require.True(t, ok)
	es := entries(t, tr)
	require.Len(t, es, 3)
	//
	broken.Store(true)
	_, err = datanode.ReadAll(es[1], 0)
	require.ErrorIs(t, err, errFlaky)
	broken.Store(false)
	assert.Equal(t, "333", content(t, es[2]))
	assert.Equal(t, "22", content(t, es[1]))
}

func TestGzippedTar(t *testing.T) {
	data := gzipped(t, makeTar(t, member{"readme", "hello"}))
	node, err := newFactory(Options{}).Build(context.Background(), datanode.BytesStream("x.tar.gz", data), nil)
	require.NoError(t, err)
	tr, ok := node.(*Tar)
	require.True(t, ok)
	compression, _ := tr.Detail().Field("compression")
	assert.Equal(t, "gzip", compression)
	es := entries(t, tr)
	require.Len(t, es, 1)
	assert.Equal(t, "hello", content(t, es[0]))
}

func TestIndexedTarFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.tar")
	require.NoError(t, os.WriteFile(path, makeTar(t, member{"a", "aaa"}, member{"b", "bbbb"}), 0o644))
	node, err := newFactory(Options{}).Build(context.Background(), datanode.NewFile(path), nil)
	require.NoError(t, err)
	tr := node.(*Tar)
	assert.True(t, tr.Indexed())
	es := entries(t, tr)
	require.Len(t, es, 2)
	assert.Equal(t, "bbbb", content(t, es[1]))
	assert.Equal(t, "aaa", content(t, es[0]))
	//
	node, err = newFactory(Options{Stream: true}).Build(context.Background(), datanode.NewFile(path), nil)
	require.NoError(t, err)
	assert.False(t, node.(*Tar).Indexed())
}

func TestPlainGzip(t *testing.T) {
	data := gzipped(t, []byte("just text"))
	node, err := newFactory(Options{}).Build(context.Background(), datanode.BytesStream("notes.txt.gz", data), nil)
	require.NoError(t, err)
	g, ok := node.(*Gzip)
	require.True(t, ok)
	es := entries(t, g)
	require.Len(t, es, 1)
	assert.Equal(t, "notes.txt", es[0].Name())
	assert.Equal(t, "just text", content(t, es[0]))
}

// Expanding an archive with a good member, a corrupt nested archive and a
// truncated tail yields all of them, in order.
func TestExpandArchiveWithFailures(t *testing.T) {
	good := makeTar(t, member{"a.txt", "alpha"}, member{"inner.zip", "PK\x03\x04 garbage"},
		member{"c.txt", "gamma"})
	truncated := good[:2*1024+100] // cut inside the header of the third entry
	f := newFactory(Options{})
	root, err := f.Build(context.Background(), datanode.BytesStream("outer.tar", truncated), nil)
	require.NoError(t, err)
	m := model.New(root, f)
	defer m.Close()
	require.NoError(t, m.ExpandSync(context.Background(), m.Root()))
	t.Logf("\n%s", m.Print())
	children := m.Root().Children()
	require.Len(t, children, 3)
	assert.Equal(t, "a.txt", children[0].Payload.Data.Name())
	_, isText := children[0].Payload.Data.(*text.Node)
	assert.True(t, isText)
	corrupt, ok := children[1].Payload.Data.(*datanode.ErrorNode)
	require.True(t, ok)
	assert.Equal(t, "inner.zip", corrupt.Name())
	assert.Equal(t, datanode.ConstructionFailure, corrupt.Failure())
	tail, ok := children[2].Payload.Data.(*datanode.ErrorNode)
	require.True(t, ok)
	assert.Equal(t, datanode.EnumerationFailure, tail.Failure())
	assert.ErrorIs(t, tail, io.ErrUnexpectedEOF)
	assert.Equal(t, model.Done, m.State(m.Root()))
}

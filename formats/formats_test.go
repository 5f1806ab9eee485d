package formats

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/formats/fsnode"
	"github.com/npillmayer/treeview/formats/htmldoc"
	"github.com/npillmayer/treeview/formats/text"
	"github.com/npillmayer/treeview/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryWithMixedFormats(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.html"),
		[]byte("<html><body><p>hi</p></body></html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("plain"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "c"), 0o755))
	//
	f := NewFactory(Options{})
	root, err := f.Build(context.Background(), datanode.NewFile(dir), nil)
	require.NoError(t, err)
	assert.IsType(t, &fsnode.Dir{}, root)
	m := model.New(root, f, model.WithMaxDepth(1))
	defer m.Close()
	require.NoError(t, m.RecursiveExpandSync(context.Background(), m.Root()))
	require.Equal(t, 3, m.Root().ChildCount())
	var kinds []interface{}
	for _, ch := range m.Root().Children() {
		kinds = append(kinds, ch.Payload.Data)
	}
	assert.IsType(t, &htmldoc.Document{}, kinds[0])
	assert.IsType(t, &text.Node{}, kinds[1])
	assert.IsType(t, &fsnode.Dir{}, kinds[2])
	html, _ := m.Root().Child(0)
	assert.Equal(t, model.Done, m.State(html))
}

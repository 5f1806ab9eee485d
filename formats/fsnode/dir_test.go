package fsnode

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/factory"
	"github.com/npillmayer/treeview/formats/text"
	"github.com/npillmayer/treeview/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryChildrenAreSorted(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treeview.formats")
	defer teardown()
	//
	dir := t.TempDir()
	for _, name := range []string{"zeta.txt", "alpha.txt", ".hidden"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "mid"), 0o755))
	reg := factory.NewRegistry()
	Register(reg, Options{})
	node, err := factory.New(reg).Build(context.Background(), datanode.NewFile(dir), nil)
	require.NoError(t, err)
	d, ok := node.(*Dir)
	require.True(t, ok)
	assert.Equal(t, datanode.IconFolder, d.Icon())
	//
	it, err := d.Children(context.Background())
	require.NoError(t, err)
	defer it.Close()
	var names []string
	for it.Next() {
		names = append(names, it.Candidate().Name())
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []string{"alpha.txt", "mid", "zeta.txt"}, names)
	entries, _ := d.Detail().Field("entries")
	assert.Equal(t, "4", entries)
}

func TestRegularFileIsNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, err := Builder(Options{}).Build(context.Background(), datanode.NewFile(path), nil)
	assert.ErrorIs(t, err, factory.ErrNotApplicable)
	_, err = Builder(Options{}).Build(context.Background(), datanode.NewFile(path+".missing"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSymlinkCyclesTerminate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treeview.formats")
	defer teardown()
	//
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644))
	if err := os.Symlink(".", filepath.Join(dir, "l1")); err != nil {
		t.Skipf("cannot create symbolic links: %v", err)
	}
	require.NoError(t, os.Symlink(".", filepath.Join(dir, "l2")))
	reg := factory.NewRegistry()
	Register(reg, Options{})
	text.Register(reg, 0)
	f := factory.New(reg)
	root, err := f.Build(context.Background(), datanode.NewFile(dir), nil)
	require.NoError(t, err)
	m := model.New(root, f)
	defer m.Close()
	//
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, m.RecursiveExpandSync(ctx, m.Root()))
	kids := m.Root().Children()
	require.Len(t, kids, 3)
	assert.Equal(t, "a.txt", kids[0].Payload.Data.Name())
	for _, ch := range kids[1:] {
		l, ok := ch.Payload.Data.(*Link)
		require.True(t, ok, "expected a link node, got %T", ch.Payload.Data)
		assert.False(t, l.AllowsChildren())
		target, _ := l.Detail().Field("target")
		assert.Equal(t, ".", target)
		kind, _ := l.Detail().Field("points to")
		assert.Equal(t, "directory", kind)
	}
	assert.Equal(t, model.Done, m.State(m.Root()))
}

package text

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/factory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextNode(t *testing.T) {
	n, err := New(datanode.BytesStream("hello.txt", []byte("Grüß Gott\n")), 0)
	require.NoError(t, err)
	assert.False(t, n.IsBinary())
	assert.Equal(t, datanode.IconText, n.Icon())
	v := n.Detail()
	assert.Equal(t, "Grüß Gott\n", v.Text)
	size, _ := v.Field("size")
	assert.Equal(t, "12", size)
}

func TestBinaryNodeIsTruncated(t *testing.T) {
	data := []byte{0x7f, 'E', 'L', 'F', 0, 1, 2, 3, 4, 5}
	n, err := New(datanode.BytesStream("a.out", data), 6)
	require.NoError(t, err)
	assert.True(t, n.IsBinary())
	assert.True(t, n.Truncated())
	assert.Equal(t, datanode.IconBinary, n.Icon())
	assert.Equal(t, data[:6], n.Detail().Hex)
}

func TestCutOffRuneIsStillText(t *testing.T) {
	assert.True(t, looksLikeText([]byte("ab\xc3")))
	assert.False(t, looksLikeText([]byte("a\xffb")))
	assert.False(t, looksLikeText([]byte("a\x00b")))
}

func TestBuilderSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# notes"), 0o644))
	reg := factory.NewRegistry()
	Register(reg, 0)
	f := factory.New(reg)
	//
	node, err := f.Build(context.Background(), datanode.NewFile(path), nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(node.Detail().Text, "# notes"))
	_, err = f.Build(context.Background(), datanode.NewFile(dir), nil)
	assert.ErrorIs(t, err, factory.ErrNoSuitableBuilder)
}

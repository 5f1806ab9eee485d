package text

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/detail"
	"github.com/npillmayer/treeview/factory"
)

// DefaultMaxBytes is the default limit for the content shown in a detail view.
const DefaultMaxBytes = 4096

// Priority is the registry priority of the text builder. It is lower than
// that of any other builder of this module.
const Priority = -100

// Node is a leaf holding (a prefix of) the bytes of a candidate.
type Node struct {
	datanode.Base
	datanode.Leaf
	size      int64 // -1 if unknown
	content   []byte
	truncated bool
	binary    bool
}

// Content returns the bytes read for a node, at most the configured limit.
func (n *Node) Content() []byte { return n.content }

// IsBinary is true if the content does not look like text.
func (n *Node) IsBinary() bool { return n.binary }

// Truncated is true if the node holds only a prefix of its candidate's bytes.
func (n *Node) Truncated() bool { return n.truncated }

// Detail is part of interface datanode.DataNode.
func (n *Node) Detail() *detail.View {
	return n.MemoDetail(func() *detail.View {
		kind := "text"
		if n.binary {
			kind = "binary data"
		}
		v := detail.NewView(n.Name(), kind)
		if n.size >= 0 {
			v.AddField("size", n.size)
		}
		if n.truncated {
			v.AddField("shown", fmt.Sprintf("first %d bytes", len(n.content)))
		}
		if n.binary {
			v.SetHex(n.content)
		} else {
			v.SetText(string(n.content))
		}
		return v
	})
}

// New creates a text node from the bytes of a candidate, reading at most
// maxBytes bytes.
func New(cand datanode.Candidate, maxBytes int) (*Node, error) {
	o, ok := cand.(datanode.Opener)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no content", factory.ErrNotApplicable, cand.Name())
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	b, err := datanode.Peek(o, maxBytes+1)
	if err != nil {
		return nil, err
	}
	n := &Node{size: sizeOf(cand)}
	if len(b) > maxBytes {
		b, n.truncated = b[:maxBytes], true
	}
	n.content = b
	n.binary = !looksLikeText(b)
	if n.size < 0 && !n.truncated {
		n.size = int64(len(b))
	}
	icon := datanode.IconText
	if n.binary {
		icon = datanode.IconBinary
	}
	n.Init(cand.Name(), icon)
	return n, nil
}

func sizeOf(cand datanode.Candidate) int64 {
	switch c := cand.(type) {
	case interface{ Size() int64 }:
		return c.Size()
	case *datanode.File:
		if info, err := c.Stat(); err == nil {
			return info.Size()
		}
	case datanode.Text:
		return int64(len(c.Content))
	}
	return -1
}

// looksLikeText is true for valid UTF-8 without NUL bytes. A multi-byte
// sequence cut off at the end of b is tolerated.
func looksLikeText(b []byte) bool {
	if bytes.IndexByte(b, 0) >= 0 {
		return false
	}
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			return len(b) < utf8.UTFMax && !utf8.FullRune(b)
		}
		b = b[size:]
	}
	return true
}

// Builder creates the fallback builder for files, streams and text.
func Builder(maxBytes int) factory.Builder {
	return factory.NewBuilder("text", func(_ context.Context, cand datanode.Candidate, _ datanode.DataNode) (datanode.DataNode, error) {
		if f, ok := cand.(*datanode.File); ok {
			info, err := f.Stat()
			if err != nil {
				return nil, err
			}
			if !info.Mode().IsRegular() {
				return nil, fmt.Errorf("%w: %s is not a regular file", factory.ErrNotApplicable, f.Path)
			}
		}
		n, err := New(cand, maxBytes)
		if err != nil {
			if !errors.Is(err, factory.ErrNotApplicable) {
				tracer().Infof("cannot read %s: %v", cand.Name(), err)
			}
			return nil, err
		}
		return n, nil
	}, datanode.KindFile, datanode.KindStream, datanode.KindText)
}

// Register registers the fallback builder with a registry.
func Register(reg *factory.Registry, maxBytes int) {
	reg.Register(Builder(maxBytes), factory.Priority(Priority))
}

package htmldoc

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/factory"
	"golang.org/x/net/html"
)

// DefaultMaxBytes is the default size limit for HTML documents.
const DefaultMaxBytes = 16 << 20

// Options configure the HTML builders.
type Options struct {
	MaxBytes int64 // size limit for documents, DefaultMaxBytes if 0
}

var htmlSuffixes = []string{".html", ".htm", ".xhtml"}

// looksLikeHTML sniffs the start of a document.
func looksLikeHTML(name string, head []byte) bool {
	lname := strings.ToLower(name)
	for _, suffix := range htmlSuffixes {
		if strings.HasSuffix(lname, suffix) {
			return true
		}
	}
	head = bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))
	head = bytes.ToLower(bytes.TrimSpace(head))
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

// DocumentBuilder creates a builder for HTML documents.
func DocumentBuilder(opts Options) factory.Builder {
	limit := opts.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	return factory.NewBuilder("html", func(_ context.Context, cand datanode.Candidate, _ datanode.DataNode) (datanode.DataNode, error) {
		o, ok := cand.(datanode.Opener)
		if !ok {
			return nil, factory.ErrNotApplicable
		}
		if f, ok := cand.(*datanode.File); ok {
			if info, err := f.Stat(); err != nil || !info.Mode().IsRegular() {
				return nil, factory.ErrNotApplicable
			}
		}
		head, err := datanode.Peek(o, 512)
		if err != nil {
			return nil, err
		}
		if !looksLikeHTML(cand.Name(), head) {
			return nil, factory.ErrNotApplicable
		}
		content, err := datanode.ReadAll(o, limit)
		if err != nil {
			return nil, err
		}
		doc, err := Parse(cand.Name(), bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("invalid HTML: %w", err)
		}
		tracer().Debugf("parsed HTML document %s", cand.Name())
		return doc, nil
	}, datanode.KindFile, datanode.KindStream, datanode.KindText)
}

// FragmentBuilder creates a builder for elements and text of documents.
func FragmentBuilder() factory.Builder {
	return factory.NewBuilder("html-node", func(_ context.Context, cand datanode.Candidate, _ datanode.DataNode) (datanode.DataNode, error) {
		f, ok := cand.(Fragment)
		if !ok {
			return nil, factory.ErrNotApplicable
		}
		if f.Node.Type == html.TextNode {
			return newTextNode(f), nil
		}
		return newElement(f), nil
	}, KindFragment)
}

// RuleBuilder creates a builder for style sheet rules.
func RuleBuilder() factory.Builder {
	return factory.NewBuilder("css-rule", func(_ context.Context, cand datanode.Candidate, _ datanode.DataNode) (datanode.DataNode, error) {
		rc, ok := cand.(RuleCandidate)
		if !ok {
			return nil, factory.ErrNotApplicable
		}
		return newRule(rc), nil
	}, KindRule)
}

// Register registers the HTML builders with a registry. Documents are
// recognized before generic text.
func Register(reg *factory.Registry, opts Options) {
	reg.Register(DocumentBuilder(opts), factory.Priority(20))
	reg.Register(FragmentBuilder())
	reg.Register(RuleBuilder())
}

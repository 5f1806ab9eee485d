package htmldoc

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aymerick/douceur/css"
	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/detail"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Kinds of candidates produced by HTML documents.
const (
	KindFragment datanode.Kind = "html-node"
	KindRule     datanode.Kind = "css-rule"
)

// Document is a node for a parsed HTML document.
type Document struct {
	datanode.Base
	root  *html.Node
	size  int
	once  sync.Once
	rules []*css.Rule // rules of all embedded style sheets
	errs  []error     // style sheets which could not be parsed
}

// Parse parses an HTML document.
func Parse(name string, r io.Reader) (*Document, error) {
	cr := &countingReader{r: r}
	root, err := html.Parse(cr)
	if err != nil {
		return nil, err
	}
	doc := &Document{root: root, size: cr.n}
	doc.Init(name, datanode.IconDocument)
	return doc, nil
}

type countingReader struct {
	r io.Reader
	n int
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += n
	return n, err
}

// Root returns the root of the parse tree. Clients must not modify it.
func (doc *Document) Root() *html.Node { return doc.root }

// AllowsChildren is part of interface datanode.DataNode.
func (doc *Document) AllowsChildren() bool { return true }

// Children is part of interface datanode.DataNode.
func (doc *Document) Children(ctx context.Context) (datanode.ChildIterator, error) {
	return fragmentIterator(ctx, doc, doc.root), nil
}

// Detail is part of interface datanode.DataNode.
func (doc *Document) Detail() *detail.View {
	return doc.MemoDetail(func() *detail.View {
		v := detail.NewView(doc.Name(), "HTML document")
		if title := findElement(atom.Title, doc.root); title != nil {
			v.AddField("title", strings.TrimSpace(textContent(title)))
		}
		v.AddField("size", doc.size)
		elements := 0
		walkElements(doc.root, func(*html.Node) { elements++ })
		v.AddField("elements", elements)
		rules, errs := doc.StyleRules()
		v.AddField("style rules", len(rules))
		for i, err := range errs {
			v.AddField(fmt.Sprintf("style error #%d", i), err)
		}
		return v
	})
}

// StyleRules returns the rules of all style sheets embedded in <style>
// elements, in document order, together with parse errors of style sheets.
func (doc *Document) StyleRules() ([]*css.Rule, []error) {
	doc.once.Do(func() {
		walkElements(doc.root, func(n *html.Node) {
			if n.DataAtom != atom.Style {
				return
			}
			sheet, err := parseStyleElement(n)
			if err != nil {
				doc.errs = append(doc.errs, err)
				return
			}
			doc.rules = append(doc.rules, sheet.Rules...)
		})
	})
	return doc.rules, doc.errs
}

// --- Fragments -------------------------------------------------------------

// Fragment is a candidate for a node of an HTML parse tree.
type Fragment struct {
	Node *html.Node
	Doc  *Document
}

// Kind is part of interface datanode.Candidate.
func (f Fragment) Kind() datanode.Kind { return KindFragment }

// Name is part of interface datanode.Candidate.
func (f Fragment) Name() string {
	if f.Node.Type == html.TextNode {
		return "#text"
	}
	return f.Node.Data
}

// isRelevant is true for elements and for text which is not blank.
func isRelevant(n *html.Node) bool {
	switch n.Type {
	case html.ElementNode:
		return true
	case html.TextNode:
		return strings.TrimSpace(n.Data) != ""
	}
	return false
}

func hasRelevantChildren(n *html.Node) bool {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if isRelevant(ch) {
			return true
		}
	}
	return false
}

func fragmentIterator(ctx context.Context, doc *Document, parent *html.Node) datanode.ChildIterator {
	ch := parent.FirstChild
	return datanode.FuncIterator(func() (datanode.Candidate, error) {
		for ; ch != nil; ch = ch.NextSibling {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if isRelevant(ch) {
				f := Fragment{Node: ch, Doc: doc}
				ch = ch.NextSibling
				return f, nil
			}
		}
		return nil, io.EOF
	}, nil)
}

// Element is a node for an element of an HTML document.
type Element struct {
	datanode.Base
	node *html.Node
	doc  *Document
}

func newElement(f Fragment) *Element {
	e := &Element{node: f.Node, doc: f.Doc}
	icon := datanode.IconElement
	if f.Node.DataAtom == atom.Style {
		icon = datanode.IconStyle
	}
	e.Init(f.Node.Data, icon)
	label := f.Node.Data
	if id := attr(f.Node, "id"); id != "" {
		label += "#" + id
	}
	for _, class := range strings.Fields(attr(f.Node, "class")) {
		label += "." + class
	}
	e.SetLabel(label)
	return e
}

// HTMLNode returns the element's node of the parse tree.
func (e *Element) HTMLNode() *html.Node { return e.node }

// AllowsChildren is part of interface datanode.DataNode.
func (e *Element) AllowsChildren() bool {
	return hasRelevantChildren(e.node)
}

// Children is part of interface datanode.DataNode. The children of a
// <style> element are the rules of its style sheet.
func (e *Element) Children(ctx context.Context) (datanode.ChildIterator, error) {
	if e.node.DataAtom == atom.Style {
		sheet, err := parseStyleElement(e.node)
		if err != nil {
			return nil, err
		}
		return ruleIterator(ctx, e.doc, sheet.Rules), nil
	}
	return fragmentIterator(ctx, e.doc, e.node), nil
}

// Detail is part of interface datanode.DataNode. It lists the element's
// attributes and the selectors of style rules matching it.
func (e *Element) Detail() *detail.View {
	return e.MemoDetail(func() *detail.View {
		v := detail.NewView(e.Label(), "HTML element")
		for _, a := range e.node.Attr {
			v.AddField("@"+a.Key, a.Val)
		}
		if text := strings.TrimSpace(textContent(e.node)); text != "" {
			v.SetText(text)
		}
		rules, _ := e.doc.StyleRules()
		for _, r := range flatten(rules) {
			if sel, err := compile(r.Prelude); err == nil && sel.Match(e.node) {
				v.AddField("matched by", r.Prelude)
			}
		}
		return v
	})
}

// TextNode is a leaf for a piece of text of an HTML document.
type TextNode struct {
	datanode.Base
	datanode.Leaf
	text string
}

func newTextNode(f Fragment) *TextNode {
	t := &TextNode{text: strings.TrimSpace(f.Node.Data)}
	t.Init("#text", datanode.IconText)
	label := strings.Join(strings.Fields(t.text), " ")
	if len(label) > 40 {
		label = label[:40] + "…"
	}
	t.SetLabel(fmt.Sprintf("%q", label))
	return t
}

// Detail is part of interface datanode.DataNode.
func (t *TextNode) Detail() *detail.View {
	return t.MemoDetail(func() *detail.View {
		return detail.NewView("#text", "HTML text").SetText(t.text)
	})
}

// --- Helpers ---------------------------------------------------------------

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			collect(ch)
		}
	}
	collect(n)
	return sb.String()
}

func walkElements(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		walkElements(ch, visit)
	}
}

func findElement(a atom.Atom, n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if r := findElement(a, ch); r != nil {
			return r
		}
	}
	return nil
}

package model

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/xlab/treeprint"
)

// Print renders the materialized part of the model as an indented tree.
func (m *Model) Print() string {
	return PrintSubtree(m.root)
}

// PrintSubtree renders the materialized subtree below n.
func PrintSubtree(n *Node) string {
	if n == nil {
		return "<empty>"
	}
	t := treeprint.New()
	t.SetValue(entryLabel(n))
	printChildren(t, n)
	return t.String()
}

func printChildren(t treeprint.Tree, n *Node) {
	for _, ch := range n.Children() {
		if ch.ChildCount() == 0 {
			t.AddNode(entryLabel(ch))
			continue
		}
		printChildren(t.AddBranch(entryLabel(ch)), ch)
	}
}

func entryLabel(n *Node) string {
	e := n.Payload
	label := e.Data.Label()
	if icon := e.Data.Icon(); icon != "" {
		label = fmt.Sprintf("[%s] %s", icon, label)
	}
	if e.Data.AllowsChildren() && e.State().Status() != Done {
		label += " (" + e.State().Status().String() + ")"
	}
	return label
}

// --- GraphViz --------------------------------------------------------------

type graphParams struct {
	Fontname string
	NodeTmpl *template.Template
	EdgeTmpl *template.Template
}

type dotNode struct {
	Name  string
	Label string
	Error bool
	State string
}

type dotEdge struct {
	From, To string
}

// ToGraphViz outputs a diagram of the materialized part of the model in
// GraphViz (DOT) format.
func (m *Model) ToGraphViz(w io.Writer) error {
	head, err := template.New("model").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParams{Fontname: "Helvetica"}
	gparams.NodeTmpl = template.Must(template.New("node").Funcs(
		template.FuncMap{
			"shortstring": shortText,
		}).Parse(nodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("edge").Parse(edgeTmpl))
	if err = head.Execute(w, gparams); err != nil {
		return err
	}
	dict := make(map[*Node]string, 256)
	if err = dotNodes(m.root, w, dict, &gparams); err != nil {
		return err
	}
	_, err = w.Write([]byte("}\n"))
	return err
}

func dotNodes(n *Node, w io.Writer, dict map[*Node]string, gparams *graphParams) error {
	name := dotName(n, dict)
	e := n.Payload
	_, isError := e.Data.(error)
	dn := dotNode{Name: name, Label: e.Data.Label(), Error: isError}
	if e.Data.AllowsChildren() {
		dn.State = e.State().Status().String()
	}
	if err := gparams.NodeTmpl.Execute(w, dn); err != nil {
		return err
	}
	for _, ch := range n.Children() {
		if err := dotNodes(ch, w, dict, gparams); err != nil {
			return err
		}
		if err := gparams.EdgeTmpl.Execute(w, dotEdge{name, dotName(ch, dict)}); err != nil {
			return err
		}
	}
	return nil
}

func dotName(n *Node, dict map[*Node]string) string {
	name := dict[n]
	if name == "" {
		name = fmt.Sprintf("node%05d", len(dict)+1)
		dict[n] = name
	}
	return name
}

func shortText(s string) string {
	if len(s) > 24 {
		s = s[:24] + "…"
	}
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return fmt.Sprintf("%q", s)
}

// --- Templates -------------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  node [fontname = "{{ .Fontname }}" fontsize=14] ;
  edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const nodeTmpl = `{{ if .Error }}{{ .Name }}	[ label={{ shortstring .Label }} shape=box style=filled fillcolor=lightpink ] ;
{{ else if .State }}{{ .Name }}	[ label={{ shortstring .Label }} xlabel={{ printf "%q" .State }} shape=ellipse style=filled fillcolor=lightblue3 ] ;
{{ else }}{{ .Name }}	[ label={{ shortstring .Label }} shape=box style=filled fillcolor=grey95 ] ;
{{ end }}`

const edgeTmpl = `{{ .From }} -> {{ .To }} [weight=1] ;
`

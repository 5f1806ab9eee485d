/*
Package detail describes the on-demand detail view of a data node.

A View is a plain description (title, key/value fields, a text block, a
hex block, nested sections). Rendering it into widgets is the business of
a GUI layer; this package only offers a plain-text rendering, which is
what the command line front end uses.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package detail

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// Field is a single key/value line of a detail view.
type Field struct {
	Key   string
	Value string
}

// View describes the details of a data node.
type View struct {
	Title    string
	Kind     string  // short description of the node type, e.g. "zip archive"
	Fields   []Field // metadata table
	Text     string  // text dump, may be empty
	Hex      []byte  // bytes to show as a hex dump, may be nil
	Sections []*View // nested sections, e.g. one per CSS declaration
}

// NewView creates a detail view with a title and a kind.
func NewView(title, kind string) *View {
	return &View{Title: title, Kind: kind}
}

// AddField appends a key/value line. Values are formatted with %v.
// It returns the view to allow for chaining.
func (v *View) AddField(key string, value interface{}) *View {
	v.Fields = append(v.Fields, Field{Key: key, Value: fmt.Sprintf("%v", value)})
	return v
}

// SetText sets the text dump of a view.
func (v *View) SetText(text string) *View {
	v.Text = text
	return v
}

// SetHex sets the bytes to be shown as a hex dump.
func (v *View) SetHex(b []byte) *View {
	v.Hex = b
	return v
}

// AddSection appends a nested view.
func (v *View) AddSection(sub *View) *View {
	if sub != nil {
		v.Sections = append(v.Sections, sub)
	}
	return v
}

// Field returns the value for a key, if present.
func (v *View) Field(key string) (string, bool) {
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Render writes a plain-text rendering of the view to w.
func (v *View) Render(w io.Writer) error {
	return v.render(w, 0)
}

func (v *View) render(w io.Writer, level int) error {
	indent := strings.Repeat("    ", level)
	if _, err := fmt.Fprintf(w, "%s%s", indent, v.Title); err != nil {
		return err
	}
	if v.Kind != "" {
		fmt.Fprintf(w, " [%s]", v.Kind)
	}
	fmt.Fprintln(w)
	width := 0
	for _, f := range v.Fields {
		if len(f.Key) > width {
			width = len(f.Key)
		}
	}
	for _, f := range v.Fields {
		fmt.Fprintf(w, "%s  %-*s  %s\n", indent, width, f.Key, f.Value)
	}
	if v.Text != "" {
		for _, line := range strings.Split(strings.TrimRight(v.Text, "\n"), "\n") {
			fmt.Fprintf(w, "%s  | %s\n", indent, line)
		}
	}
	if len(v.Hex) > 0 {
		dump := hex.Dump(v.Hex)
		for _, line := range strings.Split(strings.TrimRight(dump, "\n"), "\n") {
			fmt.Fprintf(w, "%s  %s\n", indent, line)
		}
	}
	for _, sub := range v.Sections {
		if err := sub.render(w, level+1); err != nil {
			return err
		}
	}
	return nil
}

// String returns the plain-text rendering of a view.
func (v *View) String() string {
	var b strings.Builder
	_ = v.Render(&b)
	return b.String()
}

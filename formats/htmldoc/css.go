package htmldoc

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/treeview/datanode"
	"github.com/npillmayer/treeview/detail"
	"github.com/npillmayer/tyse/core/dimen"
	"github.com/npillmayer/tyse/core/percent"
	"golang.org/x/net/html"
)

// parseStyleElement parses the content of a <style> element.
func parseStyleElement(n *html.Node) (*css.Stylesheet, error) {
	text := textContent(n)
	sheet, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("style sheet: %w", err)
	}
	if err := checkRules(sheet.Rules); err != nil {
		return nil, fmt.Errorf("style sheet: %w", err)
	}
	return sheet, nil
}

// checkRules rejects qualified rules without a selector. The parser accepts
// input like "{ color: red }" and turns the declarations into the prelude.
func checkRules(rules []*css.Rule) error {
	for _, r := range rules {
		if r.Kind == css.QualifiedRule {
			prelude := strings.TrimSpace(r.Prelude)
			if prelude == "" || strings.ContainsAny(prelude, "{}") {
				return fmt.Errorf("malformed rule %q", r.Prelude)
			}
		}
		if err := checkRules(r.Rules); err != nil {
			return err
		}
	}
	return nil
}

// RuleCandidate is a candidate for a rule of a style sheet.
type RuleCandidate struct {
	Rule *css.Rule
	Doc  *Document
}

// Kind is part of interface datanode.Candidate.
func (rc RuleCandidate) Kind() datanode.Kind { return KindRule }

// Name is part of interface datanode.Candidate.
func (rc RuleCandidate) Name() string {
	return ruleName(rc.Rule)
}

func ruleName(r *css.Rule) string {
	if r.Kind == css.AtRule {
		return strings.TrimSpace(r.Name + " " + r.Prelude)
	}
	return r.Prelude
}

func ruleIterator(ctx context.Context, doc *Document, rules []*css.Rule) datanode.ChildIterator {
	i := 0
	return datanode.FuncIterator(func() (datanode.Candidate, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i >= len(rules) {
			return nil, io.EOF
		}
		i++
		return RuleCandidate{Rule: rules[i-1], Doc: doc}, nil
	}, nil)
}

// flatten lists qualified rules, including those nested in at-rules.
func flatten(rules []*css.Rule) []*css.Rule {
	var flat []*css.Rule
	for _, r := range rules {
		if r.Kind == css.QualifiedRule {
			flat = append(flat, r)
		}
		flat = append(flat, flatten(r.Rules)...)
	}
	return flat
}

func compile(selector string) (cascadia.Selector, error) {
	return cascadia.Compile(selector)
}

// Rule is a node for a rule of a style sheet.
type Rule struct {
	datanode.Base
	rule *css.Rule
	doc  *Document
}

func newRule(rc RuleCandidate) *Rule {
	r := &Rule{rule: rc.Rule, doc: rc.Doc}
	r.Init(ruleName(rc.Rule), datanode.IconStyle)
	return r
}

// CSSRule returns the rule as parsed.
func (r *Rule) CSSRule() *css.Rule { return r.rule }

// AllowsChildren is part of interface datanode.DataNode. At-rules like
// @media have nested rules as children.
func (r *Rule) AllowsChildren() bool { return len(r.rule.Rules) > 0 }

// Children is part of interface datanode.DataNode.
func (r *Rule) Children(ctx context.Context) (datanode.ChildIterator, error) {
	if len(r.rule.Rules) == 0 {
		return nil, datanode.ErrNoChildren
	}
	return ruleIterator(ctx, r.doc, r.rule.Rules), nil
}

// Matches returns the elements of the document matched by the rule's
// selector.
func (r *Rule) Matches() ([]*html.Node, error) {
	if r.rule.Kind != css.QualifiedRule {
		return nil, nil
	}
	sel, err := compile(r.rule.Prelude)
	if err != nil {
		return nil, err
	}
	return sel.MatchAll(r.doc.Root()), nil
}

// Detail is part of interface datanode.DataNode. Every declaration becomes
// a section; lengths are shown in points.
func (r *Rule) Detail() *detail.View {
	return r.MemoDetail(func() *detail.View {
		kind := "CSS rule"
		if r.rule.Kind == css.AtRule {
			kind = "CSS at-rule"
		}
		v := detail.NewView(r.Name(), kind)
		if r.rule.Kind == css.QualifiedRule {
			if matches, err := r.Matches(); err != nil {
				v.AddField("selector error", err)
			} else {
				v.AddField("matches", len(matches))
			}
		}
		for _, decl := range r.rule.Declarations {
			v.AddSection(declarationView(decl))
		}
		if len(r.rule.Rules) > 0 {
			v.AddField("nested rules", len(r.rule.Rules))
		}
		return v
	})
}

func declarationView(decl *css.Declaration) *detail.View {
	v := detail.NewView(decl.Property, "declaration")
	v.AddField("value", decl.Value)
	if decl.Important {
		v.AddField("important", true)
	}
	d, err := ParseDimen(decl.Value)
	if err != nil {
		return v
	}
	var du dimen.DU
	var p percent.Percent
	switch m := d.Match(); m {
	case m.Just(&du):
		v.AddField("length", fmt.Sprintf("%.2fpt", float64(du)/float64(dimen.PT)))
	case m.Percentage(&p):
		v.AddField("percentage", p)
	default:
		v.AddField("keyword", d)
	}
	return v
}

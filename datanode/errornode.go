package datanode

import (
	"errors"
	"fmt"

	"github.com/npillmayer/treeview/detail"
)

// Failure categorizes error nodes.
type Failure int

// Categories of failures which are surfaced as error nodes.
const (
	ConstructionFailure Failure = iota // a builder recognized a candidate but failed
	NoBuilderFailure                   // no builder claimed a candidate
	EnumerationFailure                 // a child enumeration broke off
)

func (f Failure) String() string {
	switch f {
	case ConstructionFailure:
		return "construction failure"
	case NoBuilderFailure:
		return "no suitable builder"
	case EnumerationFailure:
		return "enumeration failure"
	}
	return "<unknown failure>"
}

// EnumerationError wraps an error raised by a child iterator of a node.
type EnumerationError struct {
	Node DataNode
	Err  error
}

func (e *EnumerationError) Error() string {
	name := "<nil>"
	if e.Node != nil {
		name = e.Node.Name()
	}
	return fmt.Sprintf("enumerating children of %s: %v", name, e.Err)
}

func (e *EnumerationError) Unwrap() error {
	return e.Err
}

// ErrorNode is a placeholder for a node which could not be built, or for
// the remainder of a child enumeration which failed. It never has children.
type ErrorNode struct {
	Base
	Leaf
	failure   Failure
	err       error
	candidate Candidate
}

// NewErrorNode creates an error placeholder. cand may be nil.
func NewErrorNode(failure Failure, err error, cand Candidate) *ErrorNode {
	assertThat(err != nil, "error node requires an error")
	en := &ErrorNode{failure: failure, err: err, candidate: cand}
	name := "error"
	if cand != nil && cand.Name() != "" {
		name = cand.Name()
	}
	en.Init(name, IconError)
	en.SetLabel(fmt.Sprintf("%s: %s", name, failure))
	tracer().Debugf("%s: error node for %s: %v", failure, name, err)
	return en
}

// Err returns the error this node stands for.
func (en *ErrorNode) Err() error { return en.err }

// Failure returns the category of the error.
func (en *ErrorNode) Failure() Failure { return en.failure }

// Candidate returns the candidate which failed to build, if any.
func (en *ErrorNode) Candidate() Candidate { return en.candidate }

// Unwrap lets errors.Is and errors.As look into error nodes, too.
func (en *ErrorNode) Unwrap() error { return en.err }

// Error makes an error node usable as an error value.
func (en *ErrorNode) Error() string { return en.err.Error() }

// Detail is part of interface DataNode. It lists the error chain.
func (en *ErrorNode) Detail() *detail.View {
	return en.MemoDetail(func() *detail.View {
		v := detail.NewView(en.Name(), "error")
		v.AddField("failure", en.failure)
		if en.candidate != nil {
			v.AddField("candidate", fmt.Sprintf("%s (%s)", en.candidate.Name(), en.candidate.Kind()))
		}
		depth := 0
		for err := en.err; err != nil; err = errors.Unwrap(err) {
			v.AddField(fmt.Sprintf("cause #%d", depth), err.Error())
			depth++
		}
		return v
	})
}

var _ DataNode = &ErrorNode{}
var _ error = &ErrorNode{}

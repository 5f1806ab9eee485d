package factory

import "github.com/npillmayer/treeview/datanode"

// Outcome is the result of an attempt to build a node: either a node or
// an error. Clients inspect it by matching:
//
//    var node datanode.DataNode
//    var err error
//    switch m := outcome.Match(); m {
//    case m.Ok(&node):
//        …
//    case m.Err(&err):
//        …
//    }
//
type Outcome struct {
	node datanode.DataNode
	err  error
}

func built(n datanode.DataNode) Outcome {
	return Outcome{node: n}
}

func failed(err error) Outcome {
	return Outcome{err: err}
}

// IsOk is true if the outcome holds a node.
func (o Outcome) IsOk() bool {
	return o.err == nil && o.node != nil
}

// Node returns the node and the error of an outcome.
func (o Outcome) Node() (datanode.DataNode, error) {
	return o.node, o.err
}

// OrError returns the node, or an error node standing in for it.
func (o Outcome) OrError(cand datanode.Candidate) datanode.DataNode {
	if o.IsOk() {
		return o.node
	}
	failure := datanode.ConstructionFailure
	if be, ok := o.err.(*BuildError); ok {
		failure = be.Failure()
	}
	return datanode.NewErrorNode(failure, o.err, cand)
}

// Match starts matching an outcome.
func (o Outcome) Match() Matcher {
	return matcher{o: o}
}

// --- Matching --------------------------------------------------------------

// Matcher matches either a node or an error. Non-matching cases return nil.
type Matcher interface {
	Ok(*datanode.DataNode) Matcher
	Err(*error) Matcher
}

type matcher struct {
	o Outcome
}

func (m matcher) Ok(n *datanode.DataNode) Matcher {
	if m.o.IsOk() {
		if n != nil {
			*n = m.o.node
		}
		return m
	}
	return nil
}

func (m matcher) Err(err *error) Matcher {
	if !m.o.IsOk() {
		if err != nil {
			*err = m.o.err
		}
		return m
	}
	return nil
}

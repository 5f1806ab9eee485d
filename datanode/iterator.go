package datanode

import (
	"errors"
	"io"
)

// ChildIterator is a lazy, single-pass sequence of child candidates.
//
//    it, err := node.Children(ctx)
//    …
//    defer it.Close()
//    for it.Next() {
//        c := it.Candidate()
//        …
//    }
//    if err := it.Err(); err != nil { … }
//
// Close releases all resources held by the iterator. It is safe to call
// Close before the iterator is exhausted, and to call it more than once.
type ChildIterator interface {
	Next() bool
	Candidate() Candidate
	Err() error
	Close() error
}

// SliceIterator returns an iterator over a fixed list of candidates.
func SliceIterator(cands ...Candidate) ChildIterator {
	return &sliceIterator{cands: cands, pos: -1}
}

type sliceIterator struct {
	cands []Candidate
	pos   int
}

func (it *sliceIterator) Next() bool {
	if it.pos+1 >= len(it.cands) {
		it.pos = len(it.cands)
		return false
	}
	it.pos++
	return true
}

func (it *sliceIterator) Candidate() Candidate {
	if it.pos < 0 || it.pos >= len(it.cands) {
		return nil
	}
	return it.cands[it.pos]
}

func (it *sliceIterator) Err() error   { return nil }
func (it *sliceIterator) Close() error { it.pos = len(it.cands); return nil }

// FuncIterator creates an iterator from a next-function and an optional
// close-function. next returns io.EOF at the end of the sequence; any other
// error terminates the iteration and is reported by Err.
// close is called exactly once, either when the sequence ends or
// when the client calls Close, whichever comes first.
func FuncIterator(next func() (Candidate, error), close func() error) ChildIterator {
	return &funcIterator{next: next, close: close}
}

type funcIterator struct {
	next     func() (Candidate, error)
	close    func() error
	current  Candidate
	err      error
	finished bool
	closeErr error
	closed   bool
}

func (it *funcIterator) Next() bool {
	if it.finished {
		return false
	}
	c, err := it.next()
	if err != nil {
		it.current = nil
		if !errors.Is(err, io.EOF) {
			it.err = err
		}
		it.finished = true
		it.doClose()
		return false
	}
	it.current = c
	return true
}

func (it *funcIterator) Candidate() Candidate { return it.current }
func (it *funcIterator) Err() error           { return it.err }

func (it *funcIterator) Close() error {
	it.finished = true
	it.current = nil
	return it.doClose()
}

func (it *funcIterator) doClose() error {
	if it.closed {
		return it.closeErr
	}
	it.closed = true
	if it.close != nil {
		it.closeErr = it.close()
	}
	return it.closeErr
}

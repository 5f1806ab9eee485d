package factory

import (
	"context"
	"errors"
	"fmt"

	"github.com/npillmayer/treeview/datanode"
)

// ErrNotApplicable may be returned (or wrapped) by builders which do not
// handle a candidate. It is never reported to clients.
var ErrNotApplicable = errors.New("builder not applicable")

// ErrNoSuitableBuilder is reported if no registered builder claims a candidate.
var ErrNoSuitableBuilder = errors.New("no suitable builder")

// Builder is a strategy to construct a data node from a candidate.
type Builder interface {
	Name() string
	Accepts() []datanode.Kind
	Build(ctx context.Context, cand datanode.Candidate, parent datanode.DataNode) (datanode.DataNode, error)
}

// BuildFunc is the signature of a builder's build step.
type BuildFunc func(ctx context.Context, cand datanode.Candidate, parent datanode.DataNode) (datanode.DataNode, error)

// NewBuilder creates a builder from a function.
func NewBuilder(name string, build BuildFunc, kinds ...datanode.Kind) Builder {
	return &funcBuilder{name: name, kinds: kinds, build: build}
}

type funcBuilder struct {
	name  string
	kinds []datanode.Kind
	build BuildFunc
}

func (fb *funcBuilder) Name() string             { return fb.name }
func (fb *funcBuilder) Accepts() []datanode.Kind { return fb.kinds }

func (fb *funcBuilder) Build(ctx context.Context, cand datanode.Candidate, parent datanode.DataNode) (datanode.DataNode, error) {
	return fb.build(ctx, cand, parent)
}

// BuildError is the error type for failed node construction. Builder is nil
// if no builder claimed the candidate.
type BuildError struct {
	Builder   string
	Candidate datanode.Candidate
	Err       error
}

func (e *BuildError) Error() string {
	name := "<nil>"
	if e.Candidate != nil {
		name = fmt.Sprintf("%s %q", e.Candidate.Kind(), e.Candidate.Name())
	}
	if e.Builder == "" {
		return fmt.Sprintf("cannot build node for %s: %v", name, e.Err)
	}
	return fmt.Sprintf("builder %s failed for %s: %v", e.Builder, name, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Failure returns the error node category for this error.
func (e *BuildError) Failure() datanode.Failure {
	if errors.Is(e.Err, ErrNoSuitableBuilder) {
		return datanode.NoBuilderFailure
	}
	return datanode.ConstructionFailure
}

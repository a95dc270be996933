package grimp

import (
	"github.com/wippyai/treeir/errors"
	"github.com/wippyai/treeir/grimp/internal/transform"
	"github.com/wippyai/treeir/tree"
	"go.uber.org/zap"
)

// Pass is one named step of the aggregation pipeline.
//
// Passes mutate the body in place and must leave every branch target and
// trap boundary pointing at a statement of the body.
type Pass interface {
	Name() string
	Apply(b *tree.Body) error
}

// PassFunc is an adapter to use ordinary functions as Passes.
//
// Example:
//
//	p := grimp.PassFunc("x.nop", func(b *tree.Body) error { return nil })
func PassFunc(name string, fn func(b *tree.Body) error) Pass {
	return &funcPass{name: name, fn: fn}
}

type funcPass struct {
	fn   func(b *tree.Body) error
	name string
}

func (p *funcPass) Name() string             { return p.name }
func (p *funcPass) Apply(b *tree.Body) error { return p.fn(b) }

// Pipeline is an ordered list of passes.
type Pipeline struct {
	passes []Pass
}

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Register appends p to the pipeline. A name may appear more than once.
func (p *Pipeline) Register(pass Pass) *Pipeline {
	p.passes = append(p.passes, pass)
	return p
}

// Names returns the pass names in run order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.passes))
	for i, pass := range p.passes {
		names[i] = pass.Name()
	}
	return names
}

// Len returns the number of registered passes.
func (p *Pipeline) Len() int { return len(p.passes) }

// Run applies every pass in order, stopping at the first failure. When verify
// is set the body invariants are checked after each pass.
func (p *Pipeline) Run(b *tree.Body, log *zap.Logger, verify bool) error {
	for _, pass := range p.passes {
		stmts, locals := len(b.Stmts), len(b.Locals)
		if err := pass.Apply(b); err != nil {
			return errors.PassFailed(pass.Name(), err)
		}
		if verify {
			if err := b.Validate(); err != nil {
				return errors.PassFailed(pass.Name(), err)
			}
		}
		log.Debug("pass applied",
			zap.String("pass", pass.Name()),
			zap.Int("stmts_removed", stmts-len(b.Stmts)),
			zap.Int("locals_removed", locals-len(b.Locals)),
		)
	}
	return nil
}

// Pass names of the aggregation pipelines.
const (
	PassAggregate        = "gb.a"
	PassAggregateStack1  = "gb.asv1"
	PassAggregateStack2  = "gb.asv2"
	PassFoldConstructors = "gb.cf"
	PassUnusedLocals     = "gb.ule"
)

func aggregatePass(name string, scope transform.Scope) Pass {
	return PassFunc(name, func(b *tree.Body) error {
		_, err := transform.Aggregate(b, scope)
		return err
	})
}

func constructorPass() Pass {
	return PassFunc(PassFoldConstructors, func(b *tree.Body) error {
		_, err := transform.FoldConstructors(b)
		return err
	})
}

func unusedLocalsPass() Pass {
	return PassFunc(PassUnusedLocals, func(b *tree.Body) error {
		transform.EliminateUnusedLocals(b)
		return nil
	})
}

// PipelineFor returns the aggregation pipeline of a regime.
//
//	aggregate-all-locals: gb.a, gb.cf, gb.a, gb.ule
//	only-stack-locals:    gb.asv1, gb.cf, gb.asv2, gb.ule
//	no-aggregating:       (empty)
func PipelineFor(r Regime) *Pipeline {
	p := NewPipeline()
	switch r {
	case RegimeAll:
		p.Register(aggregatePass(PassAggregate, transform.AllLocals)).
			Register(constructorPass()).
			Register(aggregatePass(PassAggregate, transform.AllLocals)).
			Register(unusedLocalsPass())
	case RegimeDefault:
		p.Register(aggregatePass(PassAggregateStack1, transform.StackLocals)).
			Register(constructorPass()).
			Register(aggregatePass(PassAggregateStack2, transform.StackLocals)).
			Register(unusedLocalsPass())
	}
	return p
}

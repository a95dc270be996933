package main

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/wippyai/treeir/grimp"
	"github.com/wippyai/treeir/jimple"
	"github.com/wippyai/treeir/source"
	"github.com/wippyai/treeir/tree"
)

type result struct {
	flat  *jimple.Body
	tree  *tree.Body
	names []string
}

// translateAll lowers the selected methods of class concurrently, at most
// cfg.jobs at a time. Results keep the declaration order of the class.
func translateAll(ctx context.Context, class *source.Class, cfg config) ([]result, error) {
	methods := class.Methods
	if cfg.method != "" {
		m := class.Method(cfg.method)
		if m == nil {
			return nil, fmt.Errorf("class %s has no method %q", class.Name, cfg.method)
		}
		methods = []*jimple.Body{m}
	}

	results := make([]result, len(methods))
	g, ctx := errgroup.WithContext(ctx)
	if cfg.jobs > 0 {
		g.SetLimit(cfg.jobs)
	}
	for i, m := range methods {
		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := grimp.NewBody(m, cfg.opts)
			if err != nil {
				return err
			}
			results[i] = result{flat: m, tree: b, names: class.Labels[m.Signature()]}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

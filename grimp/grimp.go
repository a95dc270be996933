package grimp

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/wippyai/treeir/errors"
	"github.com/wippyai/treeir/jimple"
	"github.com/wippyai/treeir/tree"
	"go.uber.org/zap"
)

// Source is a method body NewBody can lower: *jimple.RawBody, *jimple.Body or
// *tree.Body.
type Source interface {
	Signature() string
}

// NewBody builds a tree body from src.
//
// A flat body is translated, folded, relinked and then run through the
// aggregation pipeline selected by opts. A raw body is first normalized with
// opts.Normalizer. A tree body is copied with Clone and not aggregated again.
// On error the partially built body is discarded and nil is returned.
func NewBody(src Source, opts Options) (*tree.Body, error) {
	id := ulid.Make()
	log := Logger().With(
		zap.String("translation", id.String()),
		zap.String("method", signature(src)),
	)

	b, err := newBody(src, opts, log)
	if err != nil {
		err = errors.WithMethod(err, signature(src))
		log.Debug("translation failed", zap.Error(err))
		return nil, err
	}
	return b, nil
}

func signature(src Source) string {
	if src == nil {
		return "<nil>"
	}
	return src.Signature()
}

func newBody(src Source, opts Options, log *zap.Logger) (*tree.Body, error) {
	switch src := src.(type) {
	case *jimple.Body:
		if src == nil {
			break
		}
		return lower(src, opts, log)
	case *jimple.RawBody:
		if src == nil {
			break
		}
		body, err := normalize(src, opts.Normalizer)
		if err != nil {
			return nil, err
		}
		log.Debug("normalized", zap.Int("stmts", len(body.Stmts)))
		return lower(body, opts, log)
	case *tree.Body:
		if src == nil {
			break
		}
		start := time.Now()
		b, err := Clone(src)
		if err != nil {
			return nil, err
		}
		log.Debug("copied tree body",
			zap.Int("stmts", len(b.Stmts)),
			zap.Int("locals", len(b.Locals)),
			zap.Duration("elapsed", time.Since(start)),
		)
		return b, nil
	}
	return nil, errors.UnsupportedShape(src)
}

func normalize(raw *jimple.RawBody, n jimple.Normalizer) (*jimple.Body, error) {
	if n == nil {
		return nil, errors.New(errors.PhaseNormalize, errors.KindUnsupported).
			Value(raw).
			Detail("raw body given but no normalizer configured").
			Build()
	}
	body, err := n.Normalize(raw)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseNormalize, errors.KindInvalidInput, err, "normalize raw body")
	}
	if body == nil {
		return nil, errors.Internal(errors.PhaseNormalize, "normalizer returned no body")
	}
	return body, nil
}

// lower runs the four phases over a flat body.
func lower(src *jimple.Body, opts Options, log *zap.Logger) (*tree.Body, error) {
	start := time.Now()
	regime := opts.Regime()
	if opts.AggregateAllLocals && opts.NoAggregating {
		log.Warn("both aggregate-all-locals and no-aggregating set; aggregating all locals")
	}

	t := newTranslation(src)
	if err := t.translateStmts(); err != nil {
		return nil, err
	}
	if err := foldBoxes(t.dst); err != nil {
		return nil, err
	}
	if err := t.relink(); err != nil {
		return nil, err
	}
	if opts.Verify {
		if err := t.dst.Validate(); err != nil {
			return nil, err
		}
	}
	log.Debug("lowered",
		zap.Int("stmts", len(t.dst.Stmts)),
		zap.Int("locals", len(t.dst.Locals)),
		zap.Int("traps", len(t.dst.Traps)),
	)

	if err := PipelineFor(regime).Run(t.dst, log, opts.Verify); err != nil {
		return nil, err
	}
	log.Debug("translated",
		zap.Stringer("regime", regime),
		zap.Int("stmts", len(t.dst.Stmts)),
		zap.Int("locals", len(t.dst.Locals)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return t.dst, nil
}

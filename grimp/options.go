package grimp

import (
	"slices"
	"strconv"

	"github.com/wippyai/treeir/errors"
	"github.com/wippyai/treeir/jimple"
)

// Option keys accepted by ParseOptions.
const (
	OptAggregateAllLocals = "aggregate-all-locals"
	OptNoAggregating      = "no-aggregating"
)

// Options configures NewBody.
type Options struct {
	// Normalizer converts raw class-file bodies into flat bodies. Required only
	// when NewBody is given a *jimple.RawBody.
	Normalizer jimple.Normalizer
	// AggregateAllLocals lets the aggregator eliminate user-visible locals too.
	// Takes precedence over NoAggregating.
	AggregateAllLocals bool
	// NoAggregating skips the aggregation pipeline.
	NoAggregating bool
	// Verify checks the body invariants after relinking and after every pass.
	Verify bool
}

// Regime names the aggregation pipeline selected by a set of options.
type Regime uint8

const (
	RegimeDefault Regime = iota
	RegimeAll
	RegimeNone
)

func (r Regime) String() string {
	switch r {
	case RegimeAll:
		return "aggregate-all-locals"
	case RegimeNone:
		return "no-aggregating"
	default:
		return "only-stack-locals"
	}
}

// Regime returns the aggregation regime o selects.
func (o Options) Regime() Regime {
	switch {
	case o.AggregateAllLocals:
		return RegimeAll
	case o.NoAggregating:
		return RegimeNone
	default:
		return RegimeDefault
	}
}

// ParseOptions reads options from a string map. Values use strconv.ParseBool
// syntax; unknown keys are rejected.
func ParseOptions(m map[string]string) (Options, error) {
	var o Options
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		v := m[k]
		var dst *bool
		switch k {
		case OptAggregateAllLocals:
			dst = &o.AggregateAllLocals
		case OptNoAggregating:
			dst = &o.NoAggregating
		default:
			return Options{}, errors.New(errors.PhaseConfig, errors.KindInvalidOption).
				Value(k).
				Detail("unknown option %q", k).
				Build()
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Options{}, errors.InvalidOption(k, v, err)
		}
		*dst = b
	}
	return o, nil
}

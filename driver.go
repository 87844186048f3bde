package stv

import (
	"context"

	"github.com/opavote/stv-engine/arith"
)

// counterFunc runs one counting rule to completion over e, mutating it in
// place. Mirrors the teacher's method interface / switch dispatch (see
// vote/methods.go, vote/vote.go), narrowed here to a single function type
// since every STV rule shares the same (Election, Options) -> error shape.
type counterFunc func(e *Election, opts Options) error

var rules = map[string]counterFunc{
	"meek":           runMeek,
	"warren":         runMeek,
	"wigm-prf":       runWigm,
	"wigm-prf-batch": runWigm,
}

// RuleNames lists the registered rule identifiers, for help text and
// option validation.
func RuleNames() []string {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	return names
}

// NormalizeOptions merges profile directives into opts and fills in the
// per-rule defaults documented in §4.D/§4.E, the way Droop.py's
// ElectionRule.options() classmethods do per rule.
func NormalizeOptions(p *Profile, opts Options) (Options, error) {
	opts = mergeDirectives(opts, p.Directives)

	if opts.Rule == "" {
		opts.Rule = "meek"
	}
	if _, ok := rules[opts.Rule]; !ok {
		return Options{}, usageErrorf("unknown rule %q", opts.Rule)
	}

	switch opts.Rule {
	case "wigm-prf", "wigm-prf-batch":
		// D.4: WIGM's reference arithmetic is fixed, 4 decimal digits,
		// and is not a caller-configurable choice.
		opts.Arithmetic = "fixed"
		opts.Precision = 4
		opts.Guard = 0
	default:
		if opts.Arithmetic == "" {
			opts.Arithmetic = "guarded"
		}
		if opts.Arithmetic != "rational" && opts.Precision == 0 {
			opts.Precision = 9
		}
		if opts.Arithmetic == "guarded" && opts.Guard == 0 {
			opts.Guard = opts.Precision
		}
	}
	return opts, nil
}

// Count runs the named rule against p and returns the completed Election,
// the sole external entry point of §6. ctx is threaded through for
// cancellation/deadlines even though the current rules don't check it
// mid-round; long profiles under the rational domain are the case that
// would make this matter.
func Count(ctx context.Context, p *Profile, opts Options) (*Election, error) {
	if p == nil {
		return nil, usageErrorf("profile is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts, err := NormalizeOptions(p, opts)
	if err != nil {
		return nil, err
	}

	dom, err := arith.New(opts.Arithmetic, opts.Precision, opts.Guard)
	if err != nil {
		return nil, arithmeticErrorf("%v", err)
	}

	e := newElection(p, dom)
	opts.tracef("count: rule=%s arithmetic=%s precision=%d seats=%d candidates=%d ballots=%d\n",
		opts.Rule, dom.Name(), opts.Precision, p.Seats, len(p.Candidates), p.NBallots())

	run := rules[opts.Rule]
	if err := run(e, opts); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e, nil
}

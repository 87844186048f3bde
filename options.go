package stv

import (
	"fmt"
	"io"
)

// Options are the caller-supplied count parameters of spec §6. Rule,
// Variant, Arithmetic and DefeatBatch left empty are filled in from the
// profile's embedded directives; remaining zero/empty values then take
// rule-specific defaults.
type Options struct {
	Rule       string // meek, warren, wigm-prf, wigm-prf-batch, ...
	Variant    string // meek or warren; only meaningful with Rule == "meek"
	Arithmetic string // fixed, integer, guarded, rational
	Precision  int
	Guard      int
	Omega      int    // 0 means "use the rule's default"
	DefeatBatch string // none, safe (Meek only)
	Display    int    // reporter-only display precision for rational; core ignores it

	// Trace, if non-nil, receives one short fmt-style summary line when the
	// count starts (rule, arithmetic, seats, candidates, ballots); round
	// boundaries, ties and batch defeats are not traced. This is the
	// core's only "logging": bare fmt.Fprintf, matching the teacher's own
	// diagnostic style (vote/http/error.go's fmt.Printf), not a structured
	// logger. The authoritative, structured record is Round.Log.
	Trace io.Writer
}

// mergeDirectives fills any zero-valued string option from the profile's
// embedded directives, the way Droop.py folds "[droop ...]" ballot-file
// directives in under caller-supplied CLI options: the caller's explicit
// choice always wins, the profile only supplies what the caller left
// unset.
func mergeDirectives(o Options, directives map[string]string) Options {
	get := func(key string) string { return directives[key] }

	if o.Rule == "" {
		o.Rule = get("rule")
	}
	if o.Variant == "" {
		o.Variant = get("variant")
	}
	if o.Arithmetic == "" {
		o.Arithmetic = get("arithmetic")
	}
	if o.DefeatBatch == "" {
		o.DefeatBatch = get("defeat_batch")
	}
	return o
}

func (o Options) tracef(format string, a ...any) {
	if o.Trace == nil {
		return
	}
	fmt.Fprintf(o.Trace, format, a...)
}

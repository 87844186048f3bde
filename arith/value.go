// Package arith implements the pluggable deterministic arithmetic domains
// used by the STV counters: fixed-point, guarded fixed-point, and exact
// rational. Every counter in package stv is generic over the Value/Domain
// interfaces defined here and never inspects a concrete variant except via
// Exact.
package arith

// Rounding selects how a non-exact Mul/Div result is reduced back to the
// domain's representable precision. Rational values ignore it; there's
// nothing to round.
type Rounding int

const (
	// RoundDown truncates toward zero.
	RoundDown Rounding = iota
	// RoundUp rounds away from zero (ceiling, since STV values are never negative).
	RoundUp
	// RoundNearest adds half a unit in the last place before truncating.
	RoundNearest
)

// Value is a single number in one of the three arithmetic domains. Values
// from different domains must never be mixed; the counters only ever
// combine values produced by the same Domain.
type Value interface {
	Add(other Value) Value
	Sub(other Value) Value

	// Mul and Div apply the domain's default rounding (truncation, for
	// non-exact domains; exact for rational).
	Mul(other Value) Value
	Div(other Value) Value

	// MulRound and DivRound apply an explicit rounding mode. Rational
	// domains ignore the mode.
	MulRound(other Value, round Rounding) Value
	DivRound(other Value, round Rounding) Value

	// Cmp returns -1, 0, or 1 as the receiver is less than, equal to, or
	// greater than other. Guarded values compare at display precision.
	Cmp(other Value) int

	// Exact reports whether the domain is loss-free (true only for rational).
	Exact() bool

	String() string
}

// Domain is the arithmetic kernel: a factory for Values plus the constants
// and reductions (Min, Sum) that the counters need without ever touching a
// concrete Value type.
type Domain interface {
	Name() string
	Exact() bool

	V0() Value
	V1() Value
	// Epsilon is the smallest positive representable value: 10^-precision
	// for fixed/guarded, zero for rational.
	Epsilon() Value

	// FromInt constructs a Value from a nonnegative integer.
	FromInt(n int) Value

	// Min and Sum fold over a slice of Values produced by this domain.
	// Sum's zero argument lets callers fold an empty slice without a nil Value.
	Min(vs []Value) Value
	Sum(zero Value, vs []Value) Value
}

func minValues(vs []Value) Value {
	if len(vs) == 0 {
		return nil
	}
	min := vs[0]
	for _, v := range vs[1:] {
		if v.Cmp(min) < 0 {
			min = v
		}
	}
	return min
}

func sumValues(zero Value, vs []Value) Value {
	sum := zero
	for _, v := range vs {
		sum = sum.Add(v)
	}
	return sum
}

// Equal reports whether a and b compare equal under the domain's Cmp.
func Equal(a, b Value) bool {
	return a.Cmp(b) == 0
}

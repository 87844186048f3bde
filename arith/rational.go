package arith

import (
	"fmt"
	"math/big"
)

// rationalDomain is the exact arithmetic domain: arbitrary-precision
// fractions, always kept reduced by math/big.Rat. No third-party library in
// the retrieved example corpus exposes a general reduced-fraction type
// (shopspring/decimal, used for fixed/guarded above, is base-10 fixed-point,
// not a fraction) — math/big is the correct stdlib tool here, and it
// already underlies decimal.Decimal's own coefficient, so it's not a
// foreign addition to the dependency graph.
type rationalDomain struct{}

// NewRational returns the exact rational arithmetic domain.
func NewRational() Domain { return rationalDomain{} }

func (rationalDomain) Name() string { return "rational" }
func (rationalDomain) Exact() bool  { return true }

func (rationalDomain) V0() Value { return rationalValue{r: new(big.Rat)} }
func (rationalDomain) V1() Value { return rationalValue{r: big.NewRat(1, 1)} }
func (rationalDomain) Epsilon() Value { return rationalValue{r: new(big.Rat)} }

func (rationalDomain) FromInt(n int) Value {
	if n < 0 {
		panic("arith: negative value")
	}
	return rationalValue{r: big.NewRat(int64(n), 1)}
}

func (d rationalDomain) Min(vs []Value) Value          { return minValues(vs) }
func (d rationalDomain) Sum(zero Value, vs []Value) Value { return sumValues(zero, vs) }

type rationalValue struct {
	r *big.Rat
}

func (v rationalValue) Exact() bool    { return true }
func (v rationalValue) String() string { return v.r.RatString() }

func (v rationalValue) other(raw Value) rationalValue {
	o, ok := raw.(rationalValue)
	if !ok {
		panic("arith: mixed value types in rational domain")
	}
	return o
}

func (v rationalValue) Add(raw Value) Value {
	o := v.other(raw)
	return rationalValue{r: new(big.Rat).Add(v.r, o.r)}
}

func (v rationalValue) Sub(raw Value) Value {
	o := v.other(raw)
	return rationalValue{r: new(big.Rat).Sub(v.r, o.r)}
}

func (v rationalValue) Mul(raw Value) Value {
	o := v.other(raw)
	return rationalValue{r: new(big.Rat).Mul(v.r, o.r)}
}

func (v rationalValue) Div(raw Value) Value {
	o := v.other(raw)
	if o.r.Sign() == 0 {
		panic("arith: division by zero")
	}
	return rationalValue{r: new(big.Rat).Quo(v.r, o.r)}
}

// MulRound and DivRound ignore the rounding mode: rational arithmetic is
// always exact, per spec ("Rounding modes are no-ops").
func (v rationalValue) MulRound(raw Value, _ Rounding) Value { return v.Mul(raw) }
func (v rationalValue) DivRound(raw Value, _ Rounding) Value { return v.Div(raw) }

func (v rationalValue) Cmp(raw Value) int {
	o := v.other(raw)
	return v.r.Cmp(o.r)
}

var _ fmt.Stringer = rationalValue{}

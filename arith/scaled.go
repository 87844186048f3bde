package arith

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// scaledDomain backs both the "fixed" and "guarded" arithmetic options. A
// value is stored as a shopspring/decimal.Decimal (an arbitrary-precision
// base-10 integer-plus-exponent pair, never a float) quantized to
// precision+guard digits; guard is zero for plain fixed-point. Comparisons
// and equality are always taken at the coarser "precision" digits, so a
// fixed domain (guard==0) and a guarded domain differ only in how much
// extra internal precision absorbs rounding noise between comparisons.
type scaledDomain struct {
	name      string
	precision int32
	guard     int32
}

// NewFixed returns the fixed-point arithmetic domain with the given number
// of decimal digits of precision. The "integer" option is fixed with
// precision 0.
func NewFixed(precision int) Domain {
	if precision < 0 {
		panic("arith: negative fixed precision")
	}
	return scaledDomain{name: "fixed", precision: int32(precision)}
}

// NewGuarded returns the guarded fixed-point domain: precision display
// digits plus guard internal digits carried through every operation to
// absorb rounding error, per spec.
func NewGuarded(precision, guard int) Domain {
	if precision < 0 || guard < 0 {
		panic("arith: negative guarded precision/guard")
	}
	return scaledDomain{name: "guarded", precision: int32(precision), guard: int32(guard)}
}

func (d scaledDomain) scale() int32 { return d.precision + d.guard }

func (d scaledDomain) Name() string { return d.name }
func (d scaledDomain) Exact() bool  { return false }

func (d scaledDomain) quantize(dec decimal.Decimal) decimal.Decimal {
	return dec.Truncate(d.scale())
}

func (d scaledDomain) value(dec decimal.Decimal) scaledValue {
	return scaledValue{dec: d.quantize(dec), dom: d}
}

func (d scaledDomain) V0() Value { return d.value(decimal.Zero) }
func (d scaledDomain) V1() Value { return d.value(decimal.New(1, 0)) }

func (d scaledDomain) Epsilon() Value {
	return d.value(decimal.New(1, -d.precision))
}

func (d scaledDomain) FromInt(n int) Value {
	if n < 0 {
		panic("arith: negative value")
	}
	return d.value(decimal.New(int64(n), 0))
}

func (d scaledDomain) Min(vs []Value) Value          { return minValues(vs) }
func (d scaledDomain) Sum(zero Value, vs []Value) Value { return sumValues(zero, vs) }

// scaledValue is a Value backed by decimal.Decimal for the fixed/guarded domains.
type scaledValue struct {
	dec decimal.Decimal
	dom scaledDomain
}

func (v scaledValue) Exact() bool     { return false }
func (v scaledValue) String() string  { return v.dec.StringFixed(v.dom.precision) }

func (v scaledValue) other(raw Value) scaledValue {
	o, ok := raw.(scaledValue)
	if !ok || o.dom != v.dom {
		panic(fmt.Sprintf("arith: mixed value types in %s domain", v.dom.name))
	}
	return o
}

func (v scaledValue) Add(raw Value) Value {
	o := v.other(raw)
	return v.dom.value(v.dec.Add(o.dec))
}

func (v scaledValue) Sub(raw Value) Value {
	o := v.other(raw)
	return v.dom.value(v.dec.Sub(o.dec))
}

func (v scaledValue) Mul(raw Value) Value { return v.MulRound(raw, RoundDown) }
func (v scaledValue) Div(raw Value) Value { return v.DivRound(raw, RoundDown) }

func (v scaledValue) MulRound(raw Value, round Rounding) Value {
	o := v.other(raw)
	product := v.dec.Mul(o.dec) // exact: decimal multiplication never loses precision
	return v.dom.value(roundAt(product, v.dom.scale(), round))
}

func (v scaledValue) DivRound(raw Value, round Rounding) Value {
	o := v.other(raw)
	if o.dec.IsZero() {
		panic("arith: division by zero")
	}
	// Work at a higher internal precision than the domain scale so the
	// final rounding at dom.scale() sees a decimal quotient, not a
	// truncated intermediate one.
	working := v.dom.scale() + 16
	quotient := v.dec.DivRound(o.dec, working)
	return v.dom.value(roundAt(quotient, v.dom.scale(), round))
}

func (v scaledValue) Cmp(raw Value) int {
	o := v.other(raw)
	return v.dec.Truncate(v.dom.precision).Cmp(o.dec.Truncate(v.dom.precision))
}

// roundAt reduces dec to exactly places decimal digits using the given
// rounding mode. All STV quantities are nonnegative, so "up" is a plain
// ceiling and "nearest" is half-up.
func roundAt(dec decimal.Decimal, places int32, round Rounding) decimal.Decimal {
	truncated := dec.Truncate(places)
	switch round {
	case RoundDown:
		return truncated
	case RoundUp:
		if truncated.Equal(dec) {
			return truncated
		}
		return truncated.Add(unit(places))
	case RoundNearest:
		half := unit(places).Div(decimal.New(2, 0))
		return dec.Add(half).Truncate(places)
	default:
		panic("arith: unknown rounding mode")
	}
}

func unit(places int32) decimal.Decimal {
	return decimal.New(1, -places)
}

package arith_test

import (
	"testing"

	"github.com/opavote/stv-engine/arith"
)

func TestFixedMulExactNeedsNoRounding(t *testing.T) {
	d := arith.NewFixed(4)
	half := d.FromInt(1).DivRound(d.FromInt(2), arith.RoundDown)
	if got := half.MulRound(d.FromInt(1), arith.RoundDown); got.String() != "0.5000" {
		t.Fatalf("got %s, want 0.5000", got)
	}
}

func TestFixedDivRounding(t *testing.T) {
	d := arith.NewFixed(4)

	for _, tt := range []struct {
		name  string
		a, b  arith.Value
		round arith.Rounding
		want  string
	}{
		{"up ceils a remainder", d.FromInt(1), d.FromInt(3), arith.RoundUp, "0.3334"},
		{"down truncates a remainder", d.FromInt(1), d.FromInt(3), arith.RoundDown, "0.3333"},
		{"nearest rounds half up", d.FromInt(2), d.FromInt(3), arith.RoundNearest, "0.6667"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.DivRound(tt.b, tt.round)
			if got.String() != tt.want {
				t.Errorf("got %s, want %s", got.String(), tt.want)
			}
		})
	}
}

func TestFixedEpsilonAndOrder(t *testing.T) {
	d := arith.NewFixed(2)
	eps := d.Epsilon()
	if eps.String() != "0.01" {
		t.Fatalf("epsilon = %s, want 0.01", eps.String())
	}
	if d.V0().Cmp(eps) >= 0 {
		t.Fatalf("V0 should be less than epsilon")
	}
	if d.V1().Cmp(d.FromInt(1)) != 0 {
		t.Fatalf("V1 should equal FromInt(1)")
	}
}

func TestGuardedComparesAtDisplayPrecision(t *testing.T) {
	d := arith.NewGuarded(2, 6)
	a := d.FromInt(1).DivRound(d.FromInt(3), arith.RoundDown) // 0.333333... truncated to 8 digits
	b := d.FromInt(1).DivRound(d.FromInt(3), arith.RoundDown)
	if !arith.Equal(a, b) {
		t.Fatalf("identical guarded computations should compare equal")
	}

	// Two values differing only beyond display precision still compare equal.
	near := d.FromInt(333).Div(d.FromInt(1000)) // 0.333000
	if !arith.Equal(a, near) {
		t.Fatalf("guarded comparison should ignore guard digits: %s vs %s", a, near)
	}
}

func TestGuardedZeroGuardMatchesFixed(t *testing.T) {
	fixed := arith.NewFixed(4)
	guarded := arith.NewGuarded(4, 0)

	got := guarded.FromInt(1).DivRound(guarded.FromInt(3), arith.RoundUp)
	want := fixed.FromInt(1).DivRound(fixed.FromInt(3), arith.RoundUp)
	if got.String() != want.String() {
		t.Fatalf("guarded(p,0) should match fixed(p): got %s want %s", got, want)
	}
}

func TestRationalIsExact(t *testing.T) {
	d := arith.NewRational()
	if !d.Exact() {
		t.Fatalf("rational domain must be exact")
	}
	one := d.FromInt(1)
	three := d.FromInt(3)
	sum := one.Div(three).Add(one.Div(three)).Add(one.Div(three))
	if sum.Cmp(d.V1()) != 0 {
		t.Fatalf("1/3 + 1/3 + 1/3 should be exactly 1, got %s", sum)
	}
	if d.Epsilon().Cmp(d.V0()) != 0 {
		t.Fatalf("rational epsilon should be zero")
	}
}

func TestDomainDispatchByName(t *testing.T) {
	for _, tt := range []struct {
		name      string
		precision int
		guard     int
		wantName  string
		wantExact bool
	}{
		{"fixed", 4, 0, "fixed", false},
		{"integer", 0, 0, "fixed", false},
		{"guarded", 9, 0, "guarded", false},
		{"rational", 0, 0, "rational", true},
	} {
		dom, err := arith.New(tt.name, tt.precision, tt.guard)
		if err != nil {
			t.Fatalf("New(%q): %v", tt.name, err)
		}
		if dom.Name() != tt.wantName {
			t.Errorf("Name() = %s, want %s", dom.Name(), tt.wantName)
		}
		if dom.Exact() != tt.wantExact {
			t.Errorf("Exact() = %v, want %v", dom.Exact(), tt.wantExact)
		}
	}

	if _, err := arith.New("floating", 0, 0); err == nil {
		t.Fatalf("expected error for unknown domain name")
	}
}

func TestSumAndMin(t *testing.T) {
	d := arith.NewFixed(2)
	vs := []arith.Value{d.FromInt(3), d.FromInt(1), d.FromInt(2)}
	if got := d.Sum(d.V0(), vs); got.Cmp(d.FromInt(6)) != 0 {
		t.Errorf("Sum = %s, want 6", got)
	}
	if got := d.Min(vs); got.Cmp(d.FromInt(1)) != 0 {
		t.Errorf("Min = %s, want 1", got)
	}
}

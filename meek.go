package stv

import (
	"fmt"

	"github.com/opavote/stv-engine/arith"
)

// iterStatus is why one Meek/Warren iteration loop stopped.
type iterStatus int

const (
	isElected iterStatus = iota
	isOmega
	isStable
	isBatch
)

// meekCounter runs the Meek (OpenSTV-style rounding) or Warren variant of
// §4.D, grounded directly on droop/rules/meek.py's Rule.count.
type meekCounter struct {
	e      *Election
	opts   Options
	warren bool
	omega  arith.Value
}

func newMeekCounter(e *Election, opts Options) (*meekCounter, error) {
	if opts.Variant == "" {
		opts.Variant = "meek"
	}
	warren := opts.Rule == "warren" || opts.Variant == "warren"
	if !warren && opts.Variant != "meek" {
		return nil, usageErrorf("unknown variant %q; use meek or warren", opts.Variant)
	}
	if opts.DefeatBatch == "" {
		opts.DefeatBatch = "safe"
	}
	if opts.DefeatBatch != "none" && opts.DefeatBatch != "safe" {
		return nil, usageErrorf("unknown defeat_batch %q; use none or safe", opts.DefeatBatch)
	}

	dom := e.Domain
	omegaDigits := opts.Omega
	if omegaDigits == 0 {
		switch {
		case dom.Exact():
			omegaDigits = 10
		default:
			omegaDigits = opts.Precision * 2 / 3
		}
	}
	omega := dom.V1()
	ten := dom.FromInt(10)
	pow := dom.V1()
	for i := 0; i < omegaDigits; i++ {
		pow = pow.Mul(ten)
	}
	omega = omega.Div(pow)

	return &meekCounter{e: e, opts: opts, warren: warren, omega: omega}, nil
}

func (m *meekCounter) hasQuota(r *Round, cs CandidateState) bool {
	if m.e.Domain.Exact() {
		return cs.Vote.Cmp(r.Quota) > 0
	}
	return cs.Vote.Cmp(r.Quota) >= 0
}

func (m *meekCounter) calcQuota(r *Round) arith.Value {
	dom := m.e.Domain
	seatsPlus1 := dom.FromInt(m.e.Profile.Seats + 1)
	q := r.Votes.Div(seatsPlus1)
	if dom.Exact() {
		return q
	}
	return q.Add(dom.Epsilon())
}

func (m *meekCounter) breakTie(r *Round, tied []CandidateState, purpose string) CandidateState {
	ordered := byTieOrder(tied)
	t := ordered[0]
	names := make([]string, len(ordered))
	for i, c := range ordered {
		names[i] = c.Name
	}
	r.logf(ActionTie, "Break tie (%s): %v -> %s", purpose, names, t.Name)
	return t
}

// ballotWork is one ballot's ephemeral per-iteration working state: it is
// never stored in Profile.Ballot, which stays fully immutable (§5).
type ballotWork struct {
	weight   arith.Value
	residual arith.Value
}

// iterate runs the Meek/Warren keep-factor fixed point to convergence, per
// droop/rules/meek.py's nested `iterate` function.
func (m *meekCounter) iterate(r *Round) (iterStatus, []CandidateState) {
	dom := m.e.Domain
	profile := m.e.Profile
	lastSurplus := dom.FromInt(profile.NBallots())

	for {
		hopefulOrElected := r.HopefulOrElected()
		for i := range r.States {
			if r.States[i].Status == StatusHopeful || r.States[i].Status == StatusElected {
				r.States[i].Vote = dom.V0()
			}
		}
		r.Residual = dom.V0()

		for _, b := range profile.Ballots {
			mult := dom.FromInt(b.Multiplicity)
			w := ballotWork{weight: dom.V1(), residual: mult}
			for _, cid := range b.Ranking {
				cs := r.State(cid)
				if cs.Status != StatusHopeful && cs.Status != StatusElected {
					continue
				}
				var kv arith.Value
				if m.warren {
					keep := cs.KF
					if keep.Cmp(w.residual) > 0 {
						keep = w.residual
					}
					w.weight = w.weight.Sub(keep)
					kv = keep.Mul(mult)
				} else {
					kv = w.weight.Mul(mult).MulRound(cs.KF, arith.RoundDown)
					w.weight = w.weight.MulRound(dom.V1().Sub(cs.KF), arith.RoundDown)
				}
				cs.Vote = cs.Vote.Add(kv)
				w.residual = w.residual.Sub(kv)
				if w.weight.Cmp(dom.V0()) <= 0 {
					break
				}
			}
			r.Residual = r.Residual.Add(w.residual)
		}

		votes := make([]arith.Value, 0, len(hopefulOrElected))
		for _, cs := range r.HopefulOrElected() {
			votes = append(votes, cs.Vote)
		}
		r.Votes = dom.Sum(dom.V0(), votes)
		r.Quota = m.calcQuota(r)

		elected := false
		for _, cs := range r.Hopeful() {
			if m.hasQuota(r, cs) {
				r.Elect(cs.Cid, "Elect")
				elected = true
			}
		}

		surplusVals := make([]arith.Value, 0)
		for _, cs := range r.Elected() {
			surplusVals = append(surplusVals, cs.Vote.Sub(r.Quota))
		}
		r.Surplus = dom.Sum(dom.V0(), surplusVals)

		if elected {
			return isElected, nil
		}
		if r.Surplus.Cmp(m.omega) <= 0 {
			return isOmega, nil
		}
		if r.Surplus.Cmp(lastSurplus) >= 0 {
			r.logf(ActionLog, "Stable state detected (%s)", r.Surplus)
			return isStable, nil
		}
		if m.opts.DefeatBatch != "none" {
			if batch := batchDefeat(dom, r.Hopeful(), r.Surplus, m.e.SeatsLeftToFill()); len(batch) > 0 {
				return isBatch, batch
			}
		}
		lastSurplus = r.Surplus

		for _, cs := range r.Elected() {
			st := r.State(cs.Cid)
			num := st.KF.MulRound(r.Quota, arith.RoundUp)
			st.KF = num.DivRound(st.Vote, arith.RoundUp)
		}
	}
}

// runMeek counts the whole election, mutating e in place.
func runMeek(e *Election, opts Options) error {
	m, err := newMeekCounter(e, opts)
	if err != nil {
		return err
	}
	dom := e.Domain
	profile := e.Profile

	r0 := e.Current()
	r0.Votes = dom.FromInt(profile.NBallots())
	r0.Quota = m.calcQuota(r0)
	for i := range r0.States {
		cs := &r0.States[i]
		if cs.Status == StatusWithdrawn {
			cs.KF = dom.V0()
			continue
		}
		cs.KF = dom.V1()
		cs.Vote = dom.V0()
	}
	for _, b := range profile.Ballots {
		if cid, ok := profile.TopCand(b); ok {
			r0.State(cid).Vote = r0.State(cid).Vote.Add(dom.FromInt(b.Multiplicity))
		}
	}

	for !e.Terminated() {
		r := e.NewRound()
		status, batch := m.iterate(r)

		switch status {
		case isElected:
			continue
		case isBatch:
			for _, c := range batch {
				r.Defeat(c.Cid, "Defeat certain loser")
				st := r.State(c.Cid)
				st.KF = dom.V0()
				st.Vote = dom.V0()
			}
			continue
		}

		hopeful := r.Hopeful()
		if len(hopeful) == 0 {
			continue
		}
		votes := make([]arith.Value, len(hopeful))
		for i, cs := range hopeful {
			votes[i] = cs.Vote
		}
		lowVote := dom.Min(votes)
		var lowCandidates []CandidateState
		for _, cs := range hopeful {
			if lowVote.Add(r.Surplus).Cmp(cs.Vote) >= 0 {
				lowCandidates = append(lowCandidates, cs)
			}
		}
		if len(lowCandidates) == 0 {
			continue
		}
		low := m.breakTie(r, lowCandidates, "defeat")
		if status == isOmega {
			r.Defeat(low.Cid, fmt.Sprintf("Defeat (surplus %s <= omega)", r.Surplus))
		} else {
			r.Defeat(low.Cid, fmt.Sprintf("Defeat (stable surplus %s)", r.Surplus))
		}
		st := r.State(low.Cid)
		st.KF = dom.V0()
		st.Vote = dom.V0()
	}

	e.finalize(func(cid int) {
		st := e.Current().State(cid)
		st.KF = dom.V0()
		st.Vote = dom.V0()
	})
	return nil
}

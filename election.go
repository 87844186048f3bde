package stv

import (
	"sort"

	"github.com/opavote/stv-engine/arith"
)

// Election owns the mutable round sequence and the shared candidate
// catalog for one count. The backing Profile is shared, read-only
// (see §3 "Ownership & lifecycle"); nothing here is safe to share across
// two concurrent counts, so Count always builds a fresh Election.
type Election struct {
	Profile *Profile
	Domain  arith.Domain
	Rounds  []*Round
}

func newElection(p *Profile, dom arith.Domain) *Election {
	e := &Election{Profile: p, Domain: dom}
	states := make([]CandidateState, len(p.Candidates))
	for i, c := range p.Candidates {
		status := StatusHopeful
		if c.Withdrawn {
			status = StatusWithdrawn
		}
		states[i] = CandidateState{
			Cid:         c.Cid,
			Name:        c.Name,
			BallotOrder: c.BallotOrder,
			TieOrder:    c.TieOrder,
			Status:      status,
			Vote:        dom.V0(),
		}
	}
	r0 := &Round{N: 0, Quota: dom.V0(), Votes: dom.V0(), Surplus: dom.V0(), Residual: dom.V0(), States: states}
	e.Rounds = []*Round{r0}
	return e
}

// Current is the most recently opened round.
func (e *Election) Current() *Round { return e.Rounds[len(e.Rounds)-1] }

// NewRound clones the current round's candidate states into a fresh round
// and appends it, per §4.C "newRound() clones the prior round's candidate
// statuses and votes into a new round, increments n, resets log."
func (e *Election) NewRound() *Round {
	prev := e.Current()
	states := append([]CandidateState(nil), prev.States...)
	r := &Round{
		N:        prev.N + 1,
		Quota:    e.Domain.V0(),
		Votes:    e.Domain.V0(),
		Surplus:  e.Domain.V0(),
		Residual: e.Domain.V0(),
		States:   states,
	}
	e.Rounds = append(e.Rounds, r)
	return r
}

// Terminated reports whether the current round satisfies the shared
// termination predicate (§4.C).
func (e *Election) Terminated() bool { return e.Current().Terminated(e.Profile.Seats) }

// SeatsLeftToFill is S minus elected-or-pending in the current round.
func (e *Election) SeatsLeftToFill() int { return e.Current().SeatsLeftToFill(e.Profile.Seats) }

// finalize elects remaining hopefuls up to the seat count and defeats the
// rest: the Meek/Warren "Finalization" step (§4.D). The WIGM counter runs
// its own finalization in runWigm.
func (e *Election) finalize(zeroDefeated func(cid int)) {
	r := e.Current()
	for _, c := range sortByOrder(r.Hopeful()) {
		if len(r.Elected())+len(r.Pending()) < e.Profile.Seats {
			r.Elect(c.Cid, "Elect remaining")
		} else {
			r.Defeat(c.Cid, "Defeat remaining")
			if zeroDefeated != nil {
				zeroDefeated(c.Cid)
			}
		}
	}
}

// Outcome is the ordered list of elected candidates, length
// min(S, number of non-withdrawn candidates), ordered by ballot-file order.
type Outcome struct {
	Elected []Candidate
}

// Outcome reads the final round and returns the elected candidates,
// ordered by ballot-file order.
func (e *Election) Outcome() Outcome {
	elected := e.Current().Elected()
	sort.SliceStable(elected, func(i, j int) bool { return elected[i].BallotOrder < elected[j].BallotOrder })
	out := make([]Candidate, len(elected))
	for i, cs := range elected {
		c, _ := e.Profile.Candidate(cs.Cid)
		out[i] = c
	}
	return Outcome{Elected: out}
}

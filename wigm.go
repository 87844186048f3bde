package stv

import "github.com/opavote/stv-engine/arith"

// wigmBallot is one ballot's persistent cursor and weight, owned by the
// counter for the life of the count. Unlike Meek's ephemeral per-iteration
// ballot work, WIGM's weight and current assignment genuinely carry over
// from round to round, but still never touch Profile.Ballot, which stays
// shared and immutable (§5).
type wigmBallot struct {
	weight    arith.Value
	rank      int // index into Ranking of the current assignment
	topCand   int
	exhausted bool
}

// wigmCounter runs the PR Foundation WIGM reference rule of §4.E, grounded
// directly on droop/rules/wigm_prf.py's Rule.count (wigm-prf / wigm-prf-batch).
type wigmCounter struct {
	e           *Election
	opts        Options
	defeatBatch bool
	ballots     []wigmBallot
}

func newWigmCounter(e *Election, opts Options) *wigmCounter {
	return &wigmCounter{
		e:           e,
		opts:        opts,
		defeatBatch: opts.Rule == "wigm-prf-batch",
		ballots:     make([]wigmBallot, len(e.Profile.Ballots)),
	}
}

func (w *wigmCounter) calcQuota(r *Round) arith.Value {
	dom := w.e.Domain
	seatsPlus1 := dom.FromInt(w.e.Profile.Seats + 1)
	q := r.Votes.Div(seatsPlus1)
	if dom.Exact() {
		return q
	}
	return q.Add(dom.Epsilon())
}

// assign walks bs forward, skipping ranked candidates that are no longer
// hopeful in r, and lands it on the next hopeful candidate (or exhausts
// it). Grounds droop/rules/wigm_prf.py's `transfer`.
func (w *wigmCounter) assign(bs *wigmBallot, b Ballot, r *Round) {
	for bs.rank < len(b.Ranking) {
		cid := b.Ranking[bs.rank]
		if c, ok := w.e.Profile.Candidate(cid); !ok || c.Withdrawn {
			bs.rank++
			continue
		}
		if r.State(cid).Status == StatusHopeful {
			bs.topCand = cid
			return
		}
		bs.rank++
	}
	bs.exhausted = true
	bs.topCand = 0
}

func (w *wigmCounter) breakTie(r *Round, tied []CandidateState, purpose string) CandidateState {
	ordered := byTieOrder(tied)
	t := ordered[0]
	names := make([]string, len(ordered))
	for i, c := range ordered {
		names[i] = c.Name
	}
	r.logf(ActionTie, "Break tie (%s): %v -> %s", purpose, names, t.Name)
	return t
}

// transferBallotsOf reassigns every ballot currently sitting on cid, adding
// each transferred ballot's weight·multiplicity to its next hopeful
// candidate's vote.
func (w *wigmCounter) transferBallotsOf(cid int, r *Round) {
	dom := w.e.Domain
	for i, b := range w.e.Profile.Ballots {
		bs := &w.ballots[i]
		if bs.exhausted || bs.topCand != cid {
			continue
		}
		w.assign(bs, b, r)
		if !bs.exhausted {
			contribution := bs.weight.Mul(dom.FromInt(b.Multiplicity))
			r.State(bs.topCand).Vote = r.State(bs.topCand).Vote.Add(contribution)
		}
	}
}

// runWigm counts the whole election, mutating e in place.
func runWigm(e *Election, opts Options) error {
	w := newWigmCounter(e, opts)
	dom := e.Domain
	profile := e.Profile
	r0 := e.Current()

	r0.Votes = dom.FromInt(profile.NBallots())
	r0.Quota = w.calcQuota(r0)

	for i, b := range profile.Ballots {
		bs := &w.ballots[i]
		bs.weight = dom.V1()
		bs.rank = 0
		w.assign(bs, b, r0)
		if !bs.exhausted {
			contribution := bs.weight.Mul(dom.FromInt(b.Multiplicity))
			r0.State(bs.topCand).Vote = r0.State(bs.topCand).Vote.Add(contribution)
		}
	}

	for !e.Terminated() {
		r := e.NewRound()
		r.Quota = e.Rounds[len(e.Rounds)-2].Quota

		// B.1 elect winners, highest vote first.
		for _, c := range sortByVoteDesc(r.Hopeful()) {
			if c.Vote.Cmp(r.Quota) >= 0 {
				r.Pend(c.Cid, "Pend (quota reached)")
			}
		}

		// B.2 optional batch defeat of sure losers.
		if w.defeatBatch {
			pending := r.Pending()
			surplusVals := make([]arith.Value, len(pending))
			for i, c := range pending {
				surplusVals[i] = c.Vote.Sub(r.Quota)
			}
			surplus := dom.Sum(dom.V0(), surplusVals)
			batch := batchDefeat(dom, r.Hopeful(), surplus, e.SeatsLeftToFill())
			if len(batch) > 0 {
				for _, c := range sortByOrder(batch) {
					r.Defeat(c.Cid, "Defeat sure loser")
				}
				if e.Terminated() {
					continue
				}
				for _, c := range sortByOrder(batch) {
					w.transferBallotsOf(c.Cid, r)
					r.State(c.Cid).Vote = dom.V0()
					r.logf(ActionTransfer, "Transfer defeated: %s", c.Name)
				}
				continue
			}
		}

		// B.3 transfer the highest surplus.
		pending := r.Pending()
		if len(pending) > 0 {
			high := pending[0].Vote
			for _, c := range pending[1:] {
				if c.Vote.Cmp(high) > 0 {
					high = c.Vote
				}
			}
			var highCandidates []CandidateState
			for _, c := range pending {
				if arith.Equal(c.Vote, high) {
					highCandidates = append(highCandidates, c)
				}
			}
			winner := w.breakTie(r, highCandidates, "surplus")
			surplus := winner.Vote.Sub(r.Quota)
			r.Unpend(winner.Cid, "Transfer high surplus")

			for i, b := range profile.Ballots {
				bs := &w.ballots[i]
				if bs.exhausted || bs.topCand != winner.Cid {
					continue
				}
				bs.weight = bs.weight.Mul(surplus).Div(winner.Vote)
				w.assign(bs, b, r)
				if !bs.exhausted {
					contribution := bs.weight.Mul(dom.FromInt(b.Multiplicity))
					r.State(bs.topCand).Vote = r.State(bs.topCand).Vote.Add(contribution)
				}
			}
			r.State(winner.Cid).Vote = r.Quota
			r.logf(ActionTransfer, "Surplus transferred: %s (%s)", winner.Name, surplus)
			continue
		}

		// B.4 defeat the low candidate.
		hopeful := r.Hopeful()
		if len(hopeful) == 0 {
			continue
		}
		votes := make([]arith.Value, len(hopeful))
		for i, c := range hopeful {
			votes[i] = c.Vote
		}
		low := dom.Min(votes)
		var lowCandidates []CandidateState
		for _, c := range hopeful {
			if arith.Equal(c.Vote, low) {
				lowCandidates = append(lowCandidates, c)
			}
		}
		loser := w.breakTie(r, lowCandidates, "defeat")
		r.Defeat(loser.Cid, "Defeat low candidate")
		w.transferBallotsOf(loser.Cid, r)
		r.State(loser.Cid).Vote = dom.V0()
		r.logf(ActionTransfer, "Transfer defeated: %s", loser.Name)
	}

	r := e.Current()
	for _, c := range r.Pending() {
		r.Unpend(c.Cid, "Elect pending")
	}
	for _, c := range sortByOrder(r.Hopeful()) {
		if len(r.Elected()) < profile.Seats {
			r.Elect(c.Cid, "Elect remaining")
		} else {
			r.Defeat(c.Cid, "Defeat remaining")
		}
	}
	return nil
}

func sortByVoteDesc(cs []CandidateState) []CandidateState {
	out := sortByVote(cs)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

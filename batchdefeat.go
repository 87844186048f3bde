package stv

import "github.com/opavote/stv-engine/arith"

// batchDefeat finds the largest safe batch of sure losers at the given
// surplus, shared by Meek (§4.D) and WIGM (§4.E). hopeful need not be
// pre-sorted; seatsLeftToFill is the number of seats still open.
//
// Ported directly from droop/rules/meek.py's batchDefeat (reused verbatim
// by droop/rules/wigm_prf.py's own batchDefeat): walk candidates sorted by
// vote, folding each into the current group while the group's baseline
// vote plus surplus still reaches the candidate; once a group closes, scan
// all-but-the-last group for the largest prefix whose cumulative vote plus
// surplus still falls short of the next group's vote, without defeating
// more than leaves enough hopefuls to fill the remaining seats.
func batchDefeat(dom arith.Domain, hopeful []CandidateState, surplus arith.Value, seatsLeftToFill int) []CandidateState {
	sorted := sortByVote(hopeful)

	var groups [][]CandidateState
	var group []CandidateState
	baseline := dom.V0()
	for _, c := range sorted {
		if baseline.Add(surplus).Cmp(c.Vote) >= 0 {
			group = append(group, c)
			continue
		}
		if len(group) > 0 {
			groups = append(groups, group)
		}
		group = []CandidateState{c}
		baseline = c.Vote
	}
	if len(group) > 0 {
		groups = append(groups, group)
	}
	if len(groups) == 0 {
		return nil
	}

	// Never consider the last group: defeating it would mean defeating
	// every hopeful candidate, which can only happen if the count is
	// already complete.
	maxDefeat := len(hopeful) - seatsLeftToFill
	maxg := -1
	ncand := 0
	vote := dom.V0()
	for g := 0; g < len(groups)-1; g++ {
		ncand += len(groups[g])
		if ncand > maxDefeat {
			break
		}
		for _, c := range groups[g] {
			vote = vote.Add(c.Vote)
		}
		if vote.Add(surplus).Cmp(groups[g+1][0].Vote) < 0 {
			maxg = g
		}
	}
	if maxg < 0 {
		return nil
	}

	var batch []CandidateState
	for g := 0; g <= maxg; g++ {
		batch = append(batch, groups[g]...)
	}
	return batch
}
